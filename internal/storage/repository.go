package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one forecast-versus-budget comparison run.
type RunRecord struct {
	ID                  string
	Frequency           string
	Periods             int
	Categories          string
	RequiresAction      bool
	OverallDeviationPct float64
	CreatedAt           time.Time
}

// AlertRecord is one persisted budget deviation alert.
type AlertRecord struct {
	ID           int64
	RunID        string
	Category     string
	Severity     string
	DeviationPct float64
	MessageFR    string
	MessageEN    string
	CreatedAt    time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordRun persists the outcome of one comparison run.
func (r *SQLiteRepository) RecordRun(ctx context.Context, run RunRecord) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO forecast_runs (id, frequency, periods, categories, requires_action, overall_deviation_pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Frequency, run.Periods, run.Categories, boolToInt(run.RequiresAction), run.OverallDeviationPct, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert forecast run: %w", err)
	}

	slog.InfoContext(ctx, "Forecast run recorded",
		"run_id", run.ID,
		"frequency", run.Frequency,
		"periods", run.Periods,
		"requires_action", run.RequiresAction)
	return nil
}

// RecordAlert persists one alert emitted by a comparison run.
func (r *SQLiteRepository) RecordAlert(ctx context.Context, a AlertRecord) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (run_id, category, severity, deviation_pct, message_fr, message_en, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Category, a.Severity, a.DeviationPct, a.MessageFR, a.MessageEN, a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("alert insert id: %w", err)
	}

	slog.InfoContext(ctx, "Alert recorded",
		"id", id,
		"run_id", a.RunID,
		"category", a.Category,
		"severity", a.Severity)
	return id, nil
}

// ListAlerts returns the most recent alerts, newest first. An empty
// severity returns all severities.
func (r *SQLiteRepository) ListAlerts(ctx context.Context, severity string, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, run_id, category, severity, deviation_pct, message_fr, message_en, created_at
		FROM alerts`
	args := []any{}
	if severity != "" {
		query += ` WHERE severity = ?`
		args = append(args, severity)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var a AlertRecord
		if err := rows.Scan(&a.ID, &a.RunID, &a.Category, &a.Severity, &a.DeviationPct, &a.MessageFR, &a.MessageEN, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}

// ListRuns returns the most recent comparison runs, newest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, frequency, periods, categories, requires_action, overall_deviation_pct, created_at
		FROM forecast_runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var run RunRecord
		var requiresAction int
		if err := rows.Scan(&run.ID, &run.Frequency, &run.Periods, &run.Categories, &requiresAction, &run.OverallDeviationPct, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.RequiresAction = requiresAction != 0
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// GetRun returns one run by ID.
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	var requiresAction int
	err := r.db.QueryRowContext(ctx, `
		SELECT id, frequency, periods, categories, requires_action, overall_deviation_pct, created_at
		FROM forecast_runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Frequency, &run.Periods, &run.Categories, &requiresAction, &run.OverallDeviationPct, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.RequiresAction = requiresAction != 0
	return &run, nil
}

// CountAlertsBySeverity returns alert counts keyed by severity.
func (r *SQLiteRepository) CountAlertsBySeverity(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT severity, COUNT(*) FROM alerts GROUP BY severity`)
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var severity string
		var n int
		if err := rows.Scan(&severity, &n); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		counts[severity] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert counts: %w", err)
	}
	return counts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
