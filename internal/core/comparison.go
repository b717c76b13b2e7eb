package core

type (
	// PeriodComparison grades a single forecast period against the same
	// period-invariant budget value.
	PeriodComparison struct {
		Period        int      `json:"period"`
		Forecast      float64  `json:"forecast"`
		Budget        float64  `json:"budget"`
		Difference    float64  `json:"difference"`
		DifferencePct float64  `json:"difference_pct"`
		Status        Severity `json:"status"`
	}

	// ComparisonRecord is the derived, read-only comparison of one category's
	// forecast against its budget. Recomputed on every request.
	ComparisonRecord struct {
		Category       Category           `json:"category"`
		ForecastTotal  float64            `json:"forecast_total"`
		ForecastAvg    float64            `json:"forecast_avg"`
		Budget         float64            `json:"budget"`
		Difference     float64            `json:"difference"`
		DifferencePct  float64            `json:"difference_pct"`
		Status         Severity           `json:"status"`
		Periods        []PeriodComparison `json:"periods"`
		TrendSlope     float64            `json:"trend_slope"`
		TrendDirection TrendDirection     `json:"trend_direction"`
	}

	// LocalizedMessage is an alert message rendered in both supported locales.
	LocalizedMessage struct {
		FR string `json:"fr"`
		EN string `json:"en"`
	}

	// Alert flags one category whose forecast is not on track.
	Alert struct {
		Severity      Severity         `json:"severity"`
		Category      Category         `json:"category"`
		Message       LocalizedMessage `json:"message"`
		DifferencePct float64          `json:"difference_pct"`
		ForecastAvg   float64          `json:"forecast_avg"`
		Budget        float64          `json:"budget"`
	}

	// Recommendation is a category-specific action list attached to a
	// critical or high alert.
	Recommendation struct {
		Category    Category `json:"category"`
		Priority    string   `json:"priority"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Actions     []string `json:"actions"`
	}

	// ComparisonSummary aggregates the comparison outcome.
	ComparisonSummary struct {
		TotalAlerts           int              `json:"total_alerts"`
		SeverityCounts        map[Severity]int `json:"severity_counts"`
		CategoriesOverBudget  int              `json:"categories_over_budget"`
		CategoriesUnderBudget int              `json:"categories_under_budget"`
		OverallStatus         Severity         `json:"overall_status"`
		OverallDifferencePct  float64          `json:"overall_difference_pct"`
		RequiresAction        bool             `json:"requires_action"`
	}

	// ComparisonReport is the full forecast-versus-budget payload.
	ComparisonReport struct {
		Overall         *ComparisonRecord             `json:"overall"`
		ByCategory      map[Category]ComparisonRecord `json:"by_category"`
		Alerts          []Alert                       `json:"alerts"`
		Summary         ComparisonSummary             `json:"summary"`
		Recommendations []Recommendation              `json:"recommendations,omitempty"`
	}
)
