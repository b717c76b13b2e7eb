package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Annual    Granularity = "annual"
)

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

const (
	MethodAverage          ForecastMethod = "average"
	MethodTrendSeasonality ForecastMethod = "trend_seasonality"
)

type (
	Granularity string

	TrendDirection string

	ForecastMethod string

	// EmissionRecord is one categorized emission observation as received from
	// the upstream categorization collaborator. The category assignment is
	// trusted as-is.
	EmissionRecord struct {
		Category    string
		EmissionsKg float64
		Date        time.Time
	}

	// HistoricalPoint is one monthly observation. Period is the first day of
	// the calendar month, UTC.
	HistoricalPoint struct {
		Period      time.Time `json:"period"`
		EmissionsKg float64   `json:"emissions_kg"`
	}

	// HistoricalSeries is an ordered monthly series for a single category.
	// Periods are strictly increasing with no duplicates; a month with no
	// records is simply absent, never zero-filled.
	HistoricalSeries struct {
		Category Category          `json:"category"`
		Points   []HistoricalPoint `json:"points"`
	}

	// ForecastPeriod is one projected month with confidence bounds.
	ForecastPeriod struct {
		Index         int       `json:"index"`
		Period        time.Time `json:"period"`
		PointEstimate float64   `json:"point_estimate"`
		LowerBound    float64   `json:"lower_bound"`
		UpperBound    float64   `json:"upper_bound"`
	}

	// ForecastResult is the immutable outcome of forecasting one series.
	ForecastResult struct {
		Category       Category         `json:"category"`
		Historical     HistoricalSeries `json:"historical"`
		Forecast       []ForecastPeriod `json:"forecast"`
		TrendSlope     float64          `json:"trend_slope"`
		TrendDirection TrendDirection   `json:"trend_direction"`
		Method         ForecastMethod   `json:"method"`
	}

	// QuarterPoint is a quarterly bucket labelled "YYYYQn".
	QuarterPoint struct {
		Label       string  `json:"label"`
		EmissionsKg float64 `json:"emissions_kg"`
	}

	// QuarterlyForecast is a ForecastResult re-bucketed into calendar quarters.
	// Partial quarters are included as the sum of whatever months exist.
	QuarterlyForecast struct {
		Category       Category       `json:"category"`
		Historical     []QuarterPoint `json:"historical"`
		Forecast       []QuarterPoint `json:"forecast"`
		TrendSlope     float64        `json:"trend_slope"`
		TrendDirection TrendDirection `json:"trend_direction"`
		Method         ForecastMethod `json:"method"`
	}

	// BudgetEntry is one normalized budget row.
	BudgetEntry struct {
		Category    Category    `json:"category"`
		Value       float64     `json:"value"`
		Granularity Granularity `json:"granularity"`
	}

	// Budget maps categories (including the synthetic overall entry) to
	// budget values normalized to a single granularity.
	Budget struct {
		Granularity Granularity
		Values      map[Category]float64
	}

	// ForecastMetrics summarizes the overall forecast against history.
	ForecastMetrics struct {
		TotalForecast    float64        `json:"total_forecast"`
		AvgHistorical    float64        `json:"avg_historical"`
		AvgForecast      float64        `json:"avg_forecast"`
		ChangePercentage float64        `json:"change_percentage"`
		TrendDirection   TrendDirection `json:"trend_direction"`
	}

	// ForecastSet is the complete output of one forecast call: monthly
	// results per category plus an optional quarterly view.
	ForecastSet struct {
		Frequency   Granularity                    `json:"frequency"`
		Periods     int                            `json:"periods"`
		Results     map[Category]*ForecastResult   `json:"forecasts"`
		Quarterly   map[Category]QuarterlyForecast `json:"quarterly,omitempty"`
		Metrics     ForecastMetrics                `json:"metrics"`
		GeneratedAt time.Time                      `json:"generated_at"`
	}
)

// Valid reports whether g is one of the three known granularities.
func (g Granularity) Valid() bool {
	switch g {
	case Monthly, Quarterly, Annual:
		return true
	}
	return false
}

// PointEstimates returns the forecast values for cat at the set's frequency,
// or nil when the category was not forecast.
func (s *ForecastSet) PointEstimates(cat Category) []float64 {
	if s.Frequency == Quarterly {
		qf, ok := s.Quarterly[cat]
		if !ok {
			return nil
		}
		vals := make([]float64, len(qf.Forecast))
		for i, p := range qf.Forecast {
			vals[i] = p.EmissionsKg
		}
		return vals
	}
	fr, ok := s.Results[cat]
	if !ok {
		return nil
	}
	vals := make([]float64, len(fr.Forecast))
	for i, p := range fr.Forecast {
		vals[i] = p.PointEstimate
	}
	return vals
}

// Trend returns the trend slope and direction for cat, falling back to a
// stable zero trend when the category was not forecast.
func (s *ForecastSet) Trend(cat Category) (float64, TrendDirection) {
	if fr, ok := s.Results[cat]; ok {
		return fr.TrendSlope, fr.TrendDirection
	}
	return 0, TrendStable
}

var (
	ErrEmptyBudget      = errors.New("budget has no entries")
	ErrUnknownFrequency = errors.New("frequency must be monthly or quarterly")
	ErrNoHistory        = errors.New("no historical data")
)

// DataFormatError reports an unparseable value in historical input. It is
// fatal for the whole forecast call.
type DataFormatError struct {
	Row   int
	Field string
	Value string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %s value %q", e.Row, e.Field, e.Value)
}

// BudgetValidationError carries every structural problem found in a budget
// source. Validation never partial-accepts: either the source is clean or
// all violations are reported together.
type BudgetValidationError struct {
	Problems []string
}

func (e *BudgetValidationError) Error() string {
	return "invalid budget: " + strings.Join(e.Problems, "; ")
}
