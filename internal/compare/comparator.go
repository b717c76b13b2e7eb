// Package compare joins emission forecasts with normalized carbon budgets
// and grades the deviations.
package compare

import (
	"math"
	"sort"

	"carbone/internal/core"
)

// Compare builds the full comparison report for every category present in
// both the forecast set and the budget, including the synthetic overall
// aggregate. Categories covered by only one side are skipped silently:
// partial budget coverage is an expected usage pattern, not an error.
func Compare(set *core.ForecastSet, budget *core.Budget) (*core.ComparisonReport, error) {
	if len(budget.Values) == 0 {
		return nil, core.ErrEmptyBudget
	}

	report := &core.ComparisonReport{
		ByCategory: make(map[core.Category]core.ComparisonRecord),
	}

	if rec, ok := compareCategory(set, budget, core.Overall()); ok {
		report.Overall = &rec
	}

	for cat := range set.Results {
		if cat.IsOverall() {
			continue
		}
		if rec, ok := compareCategory(set, budget, cat); ok {
			report.ByCategory[cat] = rec
		}
	}

	report.Alerts = buildAlerts(report)
	report.Summary = summarize(report)
	return report, nil
}

// compareCategory grades one category. The second return is false when the
// category is missing from either the forecast or the budget.
func compareCategory(set *core.ForecastSet, budget *core.Budget, cat core.Category) (core.ComparisonRecord, bool) {
	values := set.PointEstimates(cat)
	if len(values) == 0 {
		return core.ComparisonRecord{}, false
	}
	budgetValue, ok := budget.Values[cat]
	if !ok {
		return core.ComparisonRecord{}, false
	}

	var total float64
	for _, v := range values {
		total += v
	}
	avg := total / float64(len(values))

	diff := avg - budgetValue
	diffPct := deviationPct(diff, budgetValue)

	// The same budget value is applied to every forecast period; for
	// quarterly frequency this includes partial quarters (inherited
	// behavior, intentionally not corrected).
	periods := make([]core.PeriodComparison, len(values))
	for i, v := range values {
		pDiff := v - budgetValue
		pPct := deviationPct(pDiff, budgetValue)
		periods[i] = core.PeriodComparison{
			Period:        i + 1,
			Forecast:      round2(v),
			Budget:        round2(budgetValue),
			Difference:    round2(pDiff),
			DifferencePct: round1(pPct),
			Status:        core.ClassifyDeviation(pPct),
		}
	}

	slope, dir := set.Trend(cat)

	return core.ComparisonRecord{
		Category:       cat,
		ForecastTotal:  round2(total),
		ForecastAvg:    round2(avg),
		Budget:         round2(budgetValue),
		Difference:     round2(diff),
		DifferencePct:  round1(diffPct),
		Status:         core.ClassifyDeviation(diffPct),
		Periods:        periods,
		TrendSlope:     slope,
		TrendDirection: dir,
	}, true
}

// deviationPct defines the ratio as 0 when the budget is 0.
func deviationPct(diff, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return diff / budget * 100
}

func buildAlerts(report *core.ComparisonReport) []core.Alert {
	var alerts []core.Alert

	add := func(rec core.ComparisonRecord) {
		if rec.Status == core.SeverityOnTrack {
			return
		}
		alerts = append(alerts, core.Alert{
			Severity:      rec.Status,
			Category:      rec.Category,
			Message:       alertMessage(rec.Category, rec.Status, rec.DifferencePct),
			DifferencePct: rec.DifferencePct,
			ForecastAvg:   rec.ForecastAvg,
			Budget:        rec.Budget,
		})
	}

	if report.Overall != nil {
		add(*report.Overall)
	}
	for _, cat := range sortedCategories(report.ByCategory) {
		add(report.ByCategory[cat])
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}

func summarize(report *core.ComparisonReport) core.ComparisonSummary {
	counts := map[core.Severity]int{
		core.SeverityCritical: 0,
		core.SeverityHigh:     0,
		core.SeverityMedium:   0,
		core.SeverityWarning:  0,
		core.SeverityOnTrack:  0,
	}
	requiresAction := false
	for _, a := range report.Alerts {
		counts[a.Severity]++
		if a.Severity.Actionable() {
			requiresAction = true
		}
	}

	var over, under int
	for _, rec := range report.ByCategory {
		if rec.Difference > 0 {
			over++
		} else {
			under++
		}
	}

	summary := core.ComparisonSummary{
		TotalAlerts:           len(report.Alerts),
		SeverityCounts:        counts,
		CategoriesOverBudget:  over,
		CategoriesUnderBudget: under,
		RequiresAction:        requiresAction,
	}
	if report.Overall != nil {
		summary.OverallStatus = report.Overall.Status
		summary.OverallDifferencePct = report.Overall.DifferencePct
	}
	return summary
}

func sortedCategories(m map[core.Category]core.ComparisonRecord) []core.Category {
	cats := make([]core.Category, 0, len(m))
	for cat := range m {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name() < cats[j].Name() })
	return cats
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
