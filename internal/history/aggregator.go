// Package history turns flat emission records into ordered monthly series.
package history

import (
	"sort"
	"time"

	"carbone/internal/core"
)

// MonthOf truncates t to the first day of its calendar month, UTC.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Aggregate sums emissions per calendar month for every distinct category in
// records and for the synthetic overall aggregate. Records without a category
// land in the reserved uncategorized bucket. A record with a zero date is a
// data-format error and fails the whole aggregation.
//
// Returned series are sorted ascending by period with no duplicate periods.
// Months without records are absent, not zero-filled; downstream consumers
// must tolerate sparse series.
func Aggregate(records []core.EmissionRecord) (map[core.Category]core.HistoricalSeries, error) {
	totals := make(map[core.Category]map[time.Time]float64)

	for i, r := range records {
		if r.Date.IsZero() {
			return nil, &core.DataFormatError{Row: i, Field: "date", Value: ""}
		}
		month := MonthOf(r.Date)
		for _, cat := range []core.Category{core.CategoryOf(r.Category), core.Overall()} {
			if totals[cat] == nil {
				totals[cat] = make(map[time.Time]float64)
			}
			totals[cat][month] += r.EmissionsKg
		}
	}

	series := make(map[core.Category]core.HistoricalSeries, len(totals))
	for cat, byMonth := range totals {
		points := make([]core.HistoricalPoint, 0, len(byMonth))
		for month, kg := range byMonth {
			points = append(points, core.HistoricalPoint{Period: month, EmissionsKg: kg})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Period.Before(points[j].Period)
		})
		series[cat] = core.HistoricalSeries{Category: cat, Points: points}
	}

	// An empty input still yields an empty overall series so the forecast
	// call has something to fall back on.
	if _, ok := series[core.Overall()]; !ok {
		series[core.Overall()] = core.HistoricalSeries{Category: core.Overall()}
	}

	return series, nil
}
