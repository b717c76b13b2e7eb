package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "carbone.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordAndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := RunRecord{
		ID:                  "run-1",
		Frequency:           "monthly",
		Periods:             12,
		Categories:          "energie,materiaux,transport_routier",
		RequiresAction:      true,
		OverallDeviationPct: 23.4,
	}
	if err := repo.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := repo.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Frequency != "monthly" || got.Periods != 12 || !got.RequiresAction {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.Categories != "energie,materiaux,transport_routier" {
		t.Errorf("expected categories round-trip, got %q", got.Categories)
	}
	if got.OverallDeviationPct != 23.4 {
		t.Errorf("expected deviation 23.4, got %v", got.OverallDeviationPct)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestRecordAndListAlerts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.RecordRun(ctx, RunRecord{ID: "run-1", Frequency: "monthly", Periods: 6, Categories: "energie,transport_routier"}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	alerts := []AlertRecord{
		{RunID: "run-1", Category: "energie", Severity: "critical", DeviationPct: 25, MessageFR: "fr1", MessageEN: "en1", CreatedAt: base},
		{RunID: "run-1", Category: "transport_routier", Severity: "high", DeviationPct: 15, CreatedAt: base.Add(time.Minute)},
		{RunID: "run-1", Category: "materiaux", Severity: "critical", DeviationPct: 30, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range alerts {
		if _, err := repo.RecordAlert(ctx, a); err != nil {
			t.Fatalf("RecordAlert: %v", err)
		}
	}

	all, err := repo.ListAlerts(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListAlerts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(all))
	}
	// Newest first.
	if all[0].Category != "materiaux" || all[2].Category != "energie" {
		t.Errorf("unexpected ordering: %s, %s, %s", all[0].Category, all[1].Category, all[2].Category)
	}

	critical, err := repo.ListAlerts(ctx, "critical", 10)
	if err != nil {
		t.Fatalf("ListAlerts(critical): %v", err)
	}
	if len(critical) != 2 {
		t.Fatalf("expected 2 critical alerts, got %d", len(critical))
	}

	limited, err := repo.ListAlerts(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListAlerts(limit): %v", err)
	}
	if len(limited) != 1 || limited[0].Category != "materiaux" {
		t.Errorf("expected newest alert only, got %+v", limited)
	}
}

func TestCountAlertsBySeverity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, severity := range []string{"critical", "critical", "high"} {
		if _, err := repo.RecordAlert(ctx, AlertRecord{RunID: "run-1", Category: "energie", Severity: severity, DeviationPct: 20}); err != nil {
			t.Fatalf("RecordAlert: %v", err)
		}
	}

	counts, err := repo.CountAlertsBySeverity(ctx)
	if err != nil {
		t.Fatalf("CountAlertsBySeverity: %v", err)
	}
	if counts["critical"] != 2 || counts["high"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2"} {
		err := repo.RecordRun(ctx, RunRecord{
			ID:        id,
			Frequency: "quarterly",
			Periods:   4,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" {
		t.Errorf("expected newest run first, got %+v", runs)
	}
}
