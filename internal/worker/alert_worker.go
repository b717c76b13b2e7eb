// Package worker consumes alert messages from AMQP and records them
// into the SQLite alert history.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"carbone/internal/amqp"
	"carbone/internal/storage"
)

// AlertStore is the slice of the repository the worker needs.
type AlertStore interface {
	RecordAlert(ctx context.Context, a storage.AlertRecord) (int64, error)
	CountAlertsBySeverity(ctx context.Context) (map[string]int, error)
}

// AlertWorker persists alert messages received from the API process.
type AlertWorker struct {
	store AlertStore
}

func NewAlertWorker(store AlertStore) *AlertWorker {
	return &AlertWorker{store: store}
}

// HandleAlertMessage processes a single alert message from AMQP.
// Messages missing identity fields are dropped with a warning rather
// than requeued, since redelivery cannot repair them.
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.AlertMessage) error {
	if strings.TrimSpace(msg.RunID) == "" || strings.TrimSpace(msg.Category) == "" {
		slog.WarnContext(ctx, "Dropping alert message without identity",
			"run_id", msg.RunID,
			"category", msg.Category)
		return nil
	}

	id, err := w.store.RecordAlert(ctx, storage.AlertRecord{
		RunID:        msg.RunID,
		Category:     msg.Category,
		Severity:     msg.Severity,
		DeviationPct: msg.DeviationPct,
		MessageFR:    msg.MessageFR,
		MessageEN:    msg.MessageEN,
		CreatedAt:    msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}

	slog.InfoContext(ctx, "Alert persisted",
		"id", id,
		"run_id", msg.RunID,
		"category", msg.Category,
		"severity", msg.Severity,
		"deviation_pct", msg.DeviationPct)
	return nil
}

// LogAlertTotals logs the severity distribution of the alert history.
// Called periodically so operators can spot trends from the worker logs.
func (w *AlertWorker) LogAlertTotals(ctx context.Context) error {
	counts, err := w.store.CountAlertsBySeverity(ctx)
	if err != nil {
		return fmt.Errorf("count alerts: %w", err)
	}

	slog.InfoContext(ctx, "Alert history totals",
		"critical", counts["critical"],
		"high", counts["high"],
		"medium", counts["medium"],
		"warning", counts["warning"])
	return nil
}
