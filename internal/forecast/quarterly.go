package forecast

import (
	"fmt"
	"sort"
	"time"

	"carbone/internal/core"
)

// QuarterLabel formats t's calendar quarter as "YYYYQn".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}

// ToQuarterly re-buckets a monthly forecast result into calendar quarters by
// summing values that fall in the same quarter, for historical and forecast
// arrays alike. A partial quarter is still emitted as the sum of whatever
// months exist; dropping it would discard the most recent data.
func ToQuarterly(fr *core.ForecastResult) core.QuarterlyForecast {
	hist := make([]monthValue, len(fr.Historical.Points))
	for i, p := range fr.Historical.Points {
		hist[i] = monthValue{p.Period, p.EmissionsKg}
	}
	fore := make([]monthValue, len(fr.Forecast))
	for i, p := range fr.Forecast {
		fore[i] = monthValue{p.Period, p.PointEstimate}
	}

	return core.QuarterlyForecast{
		Category:       fr.Category,
		Historical:     bucketQuarters(hist),
		Forecast:       bucketQuarters(fore),
		TrendSlope:     fr.TrendSlope,
		TrendDirection: fr.TrendDirection,
		Method:         fr.Method,
	}
}

type monthValue struct {
	period time.Time
	value  float64
}

func bucketQuarters(months []monthValue) []core.QuarterPoint {
	if len(months) == 0 {
		return nil
	}

	sums := make(map[string]float64)
	starts := make(map[string]time.Time)
	for _, m := range months {
		label := QuarterLabel(m.period)
		sums[label] += m.value
		if first, ok := starts[label]; !ok || m.period.Before(first) {
			starts[label] = m.period
		}
	}

	quarters := make([]core.QuarterPoint, 0, len(sums))
	for label, sum := range sums {
		quarters = append(quarters, core.QuarterPoint{Label: label, EmissionsKg: sum})
	}
	sort.Slice(quarters, func(i, j int) bool {
		return starts[quarters[i].Label].Before(starts[quarters[j].Label])
	})
	return quarters
}
