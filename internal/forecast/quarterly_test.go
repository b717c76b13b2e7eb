package forecast

import (
	"testing"
	"time"

	"carbone/internal/core"
)

func TestQuarterLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{month(2024, 1), "2024Q1"},
		{month(2024, 3), "2024Q1"},
		{month(2024, 4), "2024Q2"},
		{month(2024, 12), "2024Q4"},
		{month(2025, 7), "2025Q3"},
	}

	for _, tt := range tests {
		if got := QuarterLabel(tt.date); got != tt.want {
			t.Errorf("QuarterLabel(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestToQuarterlySumsCalendarQuarters(t *testing.T) {
	fr := &core.ForecastResult{
		Category:   core.CategoryOf("energie"),
		Historical: seriesFrom(month(2024, 1), 10, 20, 30, 40),
		Forecast: []core.ForecastPeriod{
			{Index: 1, Period: month(2024, 5), PointEstimate: 100},
			{Index: 2, Period: month(2024, 6), PointEstimate: 110},
			{Index: 3, Period: month(2024, 7), PointEstimate: 120},
		},
		TrendSlope:     10,
		TrendDirection: core.TrendIncreasing,
		Method:         core.MethodTrendSeasonality,
	}

	qf := ToQuarterly(fr)

	wantHist := []core.QuarterPoint{
		{Label: "2024Q1", EmissionsKg: 60}, // Jan+Feb+Mar
		{Label: "2024Q2", EmissionsKg: 40}, // partial quarter kept
	}
	if len(qf.Historical) != len(wantHist) {
		t.Fatalf("historical quarters = %d, want %d", len(qf.Historical), len(wantHist))
	}
	for i, want := range wantHist {
		if qf.Historical[i] != want {
			t.Errorf("historical[%d] = %+v, want %+v", i, qf.Historical[i], want)
		}
	}

	wantFore := []core.QuarterPoint{
		{Label: "2024Q2", EmissionsKg: 210}, // May+Jun, partial
		{Label: "2024Q3", EmissionsKg: 120}, // Jul only, partial
	}
	for i, want := range wantFore {
		if qf.Forecast[i] != want {
			t.Errorf("forecast[%d] = %+v, want %+v", i, qf.Forecast[i], want)
		}
	}

	if qf.Method != core.MethodTrendSeasonality || qf.TrendDirection != core.TrendIncreasing {
		t.Errorf("trend metadata not carried over: %+v", qf)
	}
}

func TestToQuarterlyEmptySeries(t *testing.T) {
	qf := ToQuarterly(&core.ForecastResult{Category: core.Overall()})
	if len(qf.Historical) != 0 || len(qf.Forecast) != 0 {
		t.Errorf("empty result should stay empty: %+v", qf)
	}
}

func TestSummarize(t *testing.T) {
	fr := &core.ForecastResult{
		Category:   core.Overall(),
		Historical: seriesFrom(month(2024, 1), 100, 200),
		Forecast: []core.ForecastPeriod{
			{Index: 1, Period: month(2024, 3), PointEstimate: 180},
			{Index: 2, Period: month(2024, 4), PointEstimate: 220},
		},
		TrendDirection: core.TrendIncreasing,
	}

	m := Summarize(fr)

	if m.TotalForecast != 400 {
		t.Errorf("total forecast = %v, want 400", m.TotalForecast)
	}
	if m.AvgHistorical != 150 {
		t.Errorf("avg historical = %v, want 150", m.AvgHistorical)
	}
	if m.AvgForecast != 200 {
		t.Errorf("avg forecast = %v, want 200", m.AvgForecast)
	}
	if m.ChangePercentage != 33.3 {
		t.Errorf("change pct = %v, want 33.3", m.ChangePercentage)
	}
	if m.TrendDirection != core.TrendIncreasing {
		t.Errorf("trend direction = %v, want increasing", m.TrendDirection)
	}
}

func TestSummarizeZeroHistoryGuardsDivision(t *testing.T) {
	fr := &core.ForecastResult{
		Category:       core.Overall(),
		TrendDirection: core.TrendStable,
		Forecast: []core.ForecastPeriod{
			{Index: 1, Period: month(2024, 1), PointEstimate: 50},
		},
	}

	m := Summarize(fr)
	if m.ChangePercentage != 0 {
		t.Errorf("change pct = %v, want 0 when history is empty", m.ChangePercentage)
	}
}
