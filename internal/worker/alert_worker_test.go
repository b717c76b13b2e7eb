package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"carbone/internal/amqp"
	"carbone/internal/storage"
)

type fakeStore struct {
	recorded []storage.AlertRecord
	failWith error
}

func (f *fakeStore) RecordAlert(_ context.Context, a storage.AlertRecord) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.recorded = append(f.recorded, a)
	return int64(len(f.recorded)), nil
}

func (f *fakeStore) CountAlertsBySeverity(context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, a := range f.recorded {
		counts[a.Severity]++
	}
	return counts, nil
}

func TestHandleAlertMessage(t *testing.T) {
	store := &fakeStore{}
	w := NewAlertWorker(store)

	ts := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	msg := &amqp.AlertMessage{
		RunID:        "run-1",
		Category:     "energie",
		Severity:     "critical",
		DeviationPct: 25.5,
		MessageFR:    "dépassement",
		MessageEN:    "over budget",
		Timestamp:    ts,
	}

	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleAlertMessage: %v", err)
	}
	if len(store.recorded) != 1 {
		t.Fatalf("expected 1 recorded alert, got %d", len(store.recorded))
	}
	got := store.recorded[0]
	if got.RunID != "run-1" || got.Severity != "critical" || got.DeviationPct != 25.5 {
		t.Errorf("unexpected record: %+v", got)
	}
	if !got.CreatedAt.Equal(ts) {
		t.Errorf("expected message timestamp to be preserved, got %v", got.CreatedAt)
	}
}

func TestHandleAlertMessageDropsIncomplete(t *testing.T) {
	store := &fakeStore{}
	w := NewAlertWorker(store)

	msg := &amqp.AlertMessage{Category: "energie", Severity: "high"}
	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected incomplete message to be dropped, got error: %v", err)
	}
	if len(store.recorded) != 0 {
		t.Errorf("expected nothing recorded, got %d", len(store.recorded))
	}
}

func TestHandleAlertMessageStoreFailure(t *testing.T) {
	store := &fakeStore{failWith: errors.New("disk full")}
	w := NewAlertWorker(store)

	msg := &amqp.AlertMessage{RunID: "run-1", Category: "energie", Severity: "high"}
	if err := w.HandleAlertMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error when store fails")
	}
}

func TestLogAlertTotals(t *testing.T) {
	store := &fakeStore{recorded: []storage.AlertRecord{
		{Severity: "critical"},
		{Severity: "high"},
	}}
	if err := NewAlertWorker(store).LogAlertTotals(context.Background()); err != nil {
		t.Fatalf("LogAlertTotals: %v", err)
	}
}
