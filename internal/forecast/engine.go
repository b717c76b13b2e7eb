// Package forecast projects monthly emission series forward using linear
// trend and seasonal-index decomposition.
package forecast

import (
	"errors"
	"math"
	"time"

	"carbone/internal/core"
)

const (
	// minTrendObservations is the point below which the engine falls back to
	// the plain average method.
	minTrendObservations = 2

	// minSeasonalObservations is the history length required before a
	// per-calendar-month seasonal index is applied.
	minSeasonalObservations = 12

	// averageBoundRatio sets the ±20% bounds of the average fallback.
	averageBoundRatio = 0.2

	// stddevBoundRatio scales the historical standard deviation into the
	// confidence bounds of the trend method.
	stddevBoundRatio = 0.2
)

// Engine forecasts a single historical series N periods forward. The zero
// clock is only consulted for empty series, where there is no last
// observation to anchor the forecast dates on.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Project returns a ForecastResult with exactly periods consecutive monthly
// forecast points starting the month after the last historical observation.
// Identical input always yields identical output.
func (e *Engine) Project(series core.HistoricalSeries, periods int) (*core.ForecastResult, error) {
	if periods < 1 {
		return nil, errors.New("periods must be at least 1")
	}

	if len(series.Points) < minTrendObservations {
		return e.projectAverage(series, periods), nil
	}
	return e.projectTrendSeasonal(series, periods), nil
}

// projectAverage handles series too short to fit a trend. The point estimate
// is the mean of whatever history exists (0 for an empty series) and the
// bounds are ±20% of that mean.
func (e *Engine) projectAverage(series core.HistoricalSeries, periods int) *core.ForecastResult {
	var avg float64
	if len(series.Points) > 0 {
		avg = mean(values(series))
	}

	start := e.forecastStart(series)
	points := make([]core.ForecastPeriod, periods)
	for i := range points {
		points[i] = core.ForecastPeriod{
			Index:         i + 1,
			Period:        start.AddDate(0, i, 0),
			PointEstimate: avg,
			LowerBound:    avg * (1 - averageBoundRatio),
			UpperBound:    avg * (1 + averageBoundRatio),
		}
	}

	return &core.ForecastResult{
		Category:       series.Category,
		Historical:     series,
		Forecast:       points,
		TrendDirection: core.TrendStable,
		Method:         core.MethodAverage,
	}
}

func (e *Engine) projectTrendSeasonal(series core.HistoricalSeries, periods int) *core.ForecastResult {
	y := values(series)
	slope, intercept := fitLine(y)
	seasonal := seasonalIndex(series)
	stdErr := stddev(y) * stddevBoundRatio

	start := e.forecastStart(series)
	points := make([]core.ForecastPeriod, periods)
	for i := range points {
		period := start.AddDate(0, i, 0)
		trend := slope*float64(len(y)+i) + intercept
		factor := 1.0
		if f, ok := seasonal[period.Month()]; ok {
			factor = f
		}
		estimate := math.Max(0, trend*factor)
		points[i] = core.ForecastPeriod{
			Index:         i + 1,
			Period:        period,
			PointEstimate: estimate,
			LowerBound:    math.Max(0, estimate-stdErr),
			UpperBound:    estimate + stdErr,
		}
	}

	return &core.ForecastResult{
		Category:       series.Category,
		Historical:     series,
		Forecast:       points,
		TrendSlope:     slope,
		TrendDirection: direction(slope),
		Method:         core.MethodTrendSeasonality,
	}
}

// forecastStart returns the first forecast month: the month after the last
// observation, or the month after now for an empty series.
func (e *Engine) forecastStart(series core.HistoricalSeries) time.Time {
	if len(series.Points) == 0 {
		now := e.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	}
	last := series.Points[len(series.Points)-1].Period
	return last.AddDate(0, 1, 0)
}

// fitLine computes ordinary least squares over the index sequence 0..n-1.
func fitLine(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// seasonalIndex returns the per-calendar-month multiplicative adjustment
// relative to the series mean. Series shorter than a full year get no
// adjustment; months absent from history carry an implicit index of 1.
func seasonalIndex(series core.HistoricalSeries) map[time.Month]float64 {
	if len(series.Points) < minSeasonalObservations {
		return nil
	}
	overall := mean(values(series))
	if overall == 0 {
		return nil
	}

	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, p := range series.Points {
		m := p.Period.Month()
		sums[m] += p.EmissionsKg
		counts[m]++
	}

	index := make(map[time.Month]float64, len(sums))
	for m, sum := range sums {
		index[m] = (sum / float64(counts[m])) / overall
	}
	return index
}

func direction(slope float64) core.TrendDirection {
	switch {
	case slope > 0:
		return core.TrendIncreasing
	case slope < 0:
		return core.TrendDecreasing
	default:
		return core.TrendStable
	}
}

func values(series core.HistoricalSeries) []float64 {
	vals := make([]float64, len(series.Points))
	for i, p := range series.Points {
		vals[i] = p.EmissionsKg
	}
	return vals
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the population standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}
