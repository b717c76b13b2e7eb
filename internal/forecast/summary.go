package forecast

import (
	"math"

	"carbone/internal/core"
)

// Summarize derives headline metrics from the overall forecast result:
// total and average forecast, average historical, percent change and trend
// direction. A zero historical mean defines the change as 0.
func Summarize(overall *core.ForecastResult) core.ForecastMetrics {
	var totalForecast float64
	for _, p := range overall.Forecast {
		totalForecast += p.PointEstimate
	}

	avgHistorical := mean(values(overall.Historical))
	var avgForecast float64
	if len(overall.Forecast) > 0 {
		avgForecast = totalForecast / float64(len(overall.Forecast))
	}

	var changePct float64
	if avgHistorical > 0 {
		changePct = (avgForecast - avgHistorical) / avgHistorical * 100
	}

	return core.ForecastMetrics{
		TotalForecast:    round2(totalForecast),
		AvgHistorical:    round2(avgHistorical),
		AvgForecast:      round2(avgForecast),
		ChangePercentage: round1(changePct),
		TrendDirection:   overall.TrendDirection,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
