package history

import (
	"errors"
	"testing"
	"time"

	"carbone/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateSumsPerMonthAndCategory(t *testing.T) {
	records := []core.EmissionRecord{
		{Category: "energie", EmissionsKg: 100, Date: date(2024, 1, 5)},
		{Category: "energie", EmissionsKg: 50, Date: date(2024, 1, 20)},
		{Category: "energie", EmissionsKg: 80, Date: date(2024, 2, 3)},
		{Category: "transport_routier", EmissionsKg: 40, Date: date(2024, 1, 12)},
	}

	series, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	energie := series[core.CategoryOf("energie")]
	if len(energie.Points) != 2 {
		t.Fatalf("energie months = %d, want 2", len(energie.Points))
	}
	if energie.Points[0].EmissionsKg != 150 {
		t.Errorf("energie Jan = %v, want 150", energie.Points[0].EmissionsKg)
	}
	if !energie.Points[0].Period.Equal(date(2024, 1, 1)) {
		t.Errorf("period = %v, want first of month", energie.Points[0].Period)
	}

	overall := series[core.Overall()]
	if len(overall.Points) != 2 {
		t.Fatalf("overall months = %d, want 2", len(overall.Points))
	}
	if overall.Points[0].EmissionsKg != 190 {
		t.Errorf("overall Jan = %v, want 190", overall.Points[0].EmissionsKg)
	}
	if overall.Points[1].EmissionsKg != 80 {
		t.Errorf("overall Feb = %v, want 80", overall.Points[1].EmissionsKg)
	}
}

func TestAggregatePeriodsStrictlyIncreasing(t *testing.T) {
	records := []core.EmissionRecord{
		{Category: "energie", EmissionsKg: 10, Date: date(2024, 3, 15)},
		{Category: "energie", EmissionsKg: 20, Date: date(2023, 11, 2)},
		{Category: "energie", EmissionsKg: 30, Date: date(2024, 1, 9)},
	}

	series, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	points := series[core.CategoryOf("energie")].Points
	for i := 1; i < len(points); i++ {
		if !points[i-1].Period.Before(points[i].Period) {
			t.Errorf("periods not strictly increasing at %d: %v >= %v",
				i, points[i-1].Period, points[i].Period)
		}
	}
}

func TestAggregateEmptyCategoryGoesToUncategorized(t *testing.T) {
	records := []core.EmissionRecord{
		{Category: "", EmissionsKg: 12, Date: date(2024, 1, 1)},
		{Category: "   ", EmissionsKg: 8, Date: date(2024, 1, 2)},
	}

	series, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	bucket, ok := series[core.CategoryOf(core.UncategorizedName)]
	if !ok {
		t.Fatalf("no uncategorized bucket")
	}
	if bucket.Points[0].EmissionsKg != 20 {
		t.Errorf("uncategorized Jan = %v, want 20", bucket.Points[0].EmissionsKg)
	}
}

func TestAggregateZeroDateFailsWholeBatch(t *testing.T) {
	records := []core.EmissionRecord{
		{Category: "energie", EmissionsKg: 10, Date: date(2024, 1, 1)},
		{Category: "energie", EmissionsKg: 10},
	}

	_, err := Aggregate(records)
	var dfe *core.DataFormatError
	if !errors.As(err, &dfe) {
		t.Fatalf("Aggregate() error = %v, want DataFormatError", err)
	}
	if dfe.Row != 1 {
		t.Errorf("DataFormatError.Row = %d, want 1", dfe.Row)
	}
}

func TestAggregateEmptyInputYieldsEmptyOverall(t *testing.T) {
	series, err := Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	overall, ok := series[core.Overall()]
	if !ok {
		t.Fatalf("missing overall series")
	}
	if len(overall.Points) != 0 {
		t.Errorf("overall points = %d, want 0", len(overall.Points))
	}
}
