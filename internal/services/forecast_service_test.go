package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"carbone/internal/amqp"
	"carbone/internal/core"
	"carbone/internal/storage"
)

type fakeRunStore struct {
	mu     sync.Mutex
	runs   []storage.RunRecord
	alerts []storage.AlertRecord
}

func (f *fakeRunStore) RecordRun(ctx context.Context, run storage.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunStore) RecordAlert(ctx context.Context, a storage.AlertRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return int64(len(f.alerts)), nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*amqp.AlertMessage
	failWith error
}

func (f *fakePublisher) PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, msg)
	return nil
}

// monthlyRecords returns one record per month from January 2024, each kg.
func monthlyRecords(category string, months int, kg float64) []core.EmissionRecord {
	records := make([]core.EmissionRecord, 0, months)
	for i := 0; i < months; i++ {
		records = append(records, core.EmissionRecord{
			Category:    category,
			EmissionsKg: kg,
			Date:        time.Date(2024, time.Month(1+i), 15, 0, 0, 0, 0, time.UTC),
		})
	}
	return records
}

func testRecords() []core.EmissionRecord {
	records := monthlyRecords("energie", 6, 100)
	return append(records, monthlyRecords("transport", 6, 50)...)
}

func overBudget() *core.Budget {
	return &core.Budget{
		Granularity: core.Monthly,
		Values: map[core.Category]float64{
			core.Overall():               100,
			core.CategoryOf("energie"):   60,
			core.CategoryOf("transport"): 40,
		},
	}
}

func underBudget() *core.Budget {
	return &core.Budget{
		Granularity: core.Monthly,
		Values: map[core.Category]float64{
			core.Overall():               200,
			core.CategoryOf("energie"):   150,
			core.CategoryOf("transport"): 100,
		},
	}
}

func TestForecastService_Run_WithoutBudget(t *testing.T) {
	store := &fakeRunStore{}
	svc := NewForecastService(store, nil, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Periods:   12,
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.HasPrefix(outcome.RunID, "run_") {
		t.Errorf("Run() RunID = %v, want run_ prefix", outcome.RunID)
	}
	if outcome.Report != nil {
		t.Errorf("Run() Report = %v, want nil without budget", outcome.Report)
	}
	if len(outcome.Set.Results) != 3 {
		t.Errorf("Run() results = %d categories, want 3 (overall, energie, transport)", len(outcome.Set.Results))
	}
	if got := outcome.Set.Metrics.AvgForecast; got != 150 {
		t.Errorf("Run() AvgForecast = %v, want 150", got)
	}

	if len(store.runs) != 1 {
		t.Fatalf("Run() recorded %d runs, want 1", len(store.runs))
	}
	run := store.runs[0]
	if run.ID != outcome.RunID {
		t.Errorf("recorded run ID = %v, want %v", run.ID, outcome.RunID)
	}
	if run.Categories != "energie,transport" {
		t.Errorf("recorded run Categories = %v, want energie,transport", run.Categories)
	}
	if run.RequiresAction {
		t.Error("recorded run RequiresAction = true, want false without budget")
	}
}

func TestForecastService_Run_WithBudget_PublishesAlerts(t *testing.T) {
	store := &fakeRunStore{}
	pub := &fakePublisher{}
	svc := NewForecastService(store, pub, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Budget:    overBudget(),
		Periods:   12,
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Report == nil {
		t.Fatal("Run() Report = nil, want comparison report")
	}
	if !outcome.Report.Summary.RequiresAction {
		t.Error("Run() RequiresAction = false, want true for over-budget forecast")
	}

	// overall +50%, energie +66.7%, transport +25%: all critical
	if len(pub.messages) != 3 {
		t.Fatalf("Run() published %d alerts, want 3", len(pub.messages))
	}
	for _, msg := range pub.messages {
		if msg.RunID != outcome.RunID {
			t.Errorf("published alert RunID = %v, want %v", msg.RunID, outcome.RunID)
		}
		if msg.Severity != "critical" {
			t.Errorf("published alert Severity = %v, want critical", msg.Severity)
		}
		if msg.MessageFR == "" || msg.MessageEN == "" {
			t.Errorf("published alert for %v missing localized messages", msg.Category)
		}
	}

	// Alerts go through the broker, not directly to the store.
	if len(store.alerts) != 0 {
		t.Errorf("Run() recorded %d alerts directly, want 0 with publisher", len(store.alerts))
	}

	if len(store.runs) != 1 {
		t.Fatalf("Run() recorded %d runs, want 1", len(store.runs))
	}
	if !store.runs[0].RequiresAction {
		t.Error("recorded run RequiresAction = false, want true")
	}
	if store.runs[0].OverallDeviationPct != 50 {
		t.Errorf("recorded run OverallDeviationPct = %v, want 50", store.runs[0].OverallDeviationPct)
	}
}

func TestForecastService_Run_LogSink_RecordsAlerts(t *testing.T) {
	store := &fakeRunStore{}
	svc := NewForecastService(store, nil, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Budget:    overBudget(),
		Periods:   12,
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(store.alerts) != 3 {
		t.Fatalf("Run() recorded %d alerts, want 3", len(store.alerts))
	}
	for _, a := range store.alerts {
		if a.RunID != outcome.RunID {
			t.Errorf("recorded alert RunID = %v, want %v", a.RunID, outcome.RunID)
		}
		if a.Severity != "critical" {
			t.Errorf("recorded alert Severity = %v, want critical", a.Severity)
		}
	}
}

func TestForecastService_Run_OnTrack(t *testing.T) {
	store := &fakeRunStore{}
	pub := &fakePublisher{}
	svc := NewForecastService(store, pub, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Budget:    underBudget(),
		Periods:   12,
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Report.Summary.RequiresAction {
		t.Error("Run() RequiresAction = true, want false for under-budget forecast")
	}
	if len(pub.messages) != 0 {
		t.Errorf("Run() published %d alerts, want 0 when on track", len(pub.messages))
	}
	if store.runs[0].RequiresAction {
		t.Error("recorded run RequiresAction = true, want false")
	}
}

func TestForecastService_Run_PublisherFailureDoesNotFailRun(t *testing.T) {
	store := &fakeRunStore{}
	pub := &fakePublisher{failWith: errors.New("broker unavailable")}
	svc := NewForecastService(store, pub, nil)

	_, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Budget:    overBudget(),
		Periods:   12,
		Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil when publish fails", err)
	}
	if len(store.runs) != 1 {
		t.Errorf("Run() recorded %d runs, want 1", len(store.runs))
	}
}

func TestForecastService_Run_Quarterly(t *testing.T) {
	svc := NewForecastService(nil, nil, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Periods:   2,
		Frequency: core.Quarterly,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Set.Periods != 2 {
		t.Errorf("Run() Periods = %d, want 2 (expressed in quarters)", outcome.Set.Periods)
	}
	if outcome.Set.Quarterly == nil {
		t.Fatal("Run() Quarterly = nil, want quarterly view")
	}
	qf, ok := outcome.Set.Quarterly[core.Overall()]
	if !ok {
		t.Fatal("Run() quarterly view missing overall")
	}

	// History ends June 2024, so 2 quarters means 6 monthly projections
	// bucketed into 2024Q3 and 2024Q4, each a full quarter of the constant
	// 150 kg/month overall.
	if len(qf.Forecast) != 2 {
		t.Fatalf("Run() quarterly buckets = %d, want 2", len(qf.Forecast))
	}
	if qf.Forecast[0].Label != "2024Q3" || qf.Forecast[1].Label != "2024Q4" {
		t.Errorf("quarter labels = %q, %q, want 2024Q3, 2024Q4", qf.Forecast[0].Label, qf.Forecast[1].Label)
	}
	for _, p := range qf.Forecast {
		if math.Abs(p.EmissionsKg-450) > 1e-9 {
			t.Errorf("quarter %s emissions = %v, want 450 (full quarter)", p.Label, p.EmissionsKg)
		}
	}
	if got := len(outcome.Set.Results[core.Overall()].Forecast); got != 6 {
		t.Errorf("monthly projections = %d, want 6", got)
	}
}

func TestForecastService_Run_CategoryFilter(t *testing.T) {
	svc := NewForecastService(nil, nil, nil)

	outcome, err := svc.Run(context.Background(), ForecastRequest{
		Records:    testRecords(),
		Periods:    12,
		Frequency:  core.Monthly,
		Categories: []string{"energie"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(outcome.Set.Results) != 2 {
		t.Errorf("Run() results = %d categories, want 2 (overall, energie)", len(outcome.Set.Results))
	}
	if _, ok := outcome.Set.Results[core.CategoryOf("transport")]; ok {
		t.Error("Run() results include transport, want filtered out")
	}
	if _, ok := outcome.Set.Results[core.Overall()]; !ok {
		t.Error("Run() results missing overall, want kept through filter")
	}
}

func TestForecastService_Run_InvalidInput(t *testing.T) {
	svc := NewForecastService(nil, nil, nil)

	_, err := svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Periods:   12,
		Frequency: "weekly",
	})
	if !errors.Is(err, core.ErrUnknownFrequency) {
		t.Errorf("Run() error = %v, want ErrUnknownFrequency", err)
	}

	_, err = svc.Run(context.Background(), ForecastRequest{
		Records:   testRecords(),
		Periods:   0,
		Frequency: core.Monthly,
	})
	if err == nil {
		t.Error("Run() error = nil, want error for zero periods")
	}
}
