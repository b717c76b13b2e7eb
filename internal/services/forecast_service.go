package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"carbone/internal/amqp"
	"carbone/internal/compare"
	"carbone/internal/core"
	"carbone/internal/forecast"
	"carbone/internal/history"
	applog "carbone/internal/log"
	"carbone/internal/metrics"
	"carbone/internal/storage"
)

// maxParallelForecasts bounds the per-category forecast goroutines.
const maxParallelForecasts = 8

// AlertPublisher publishes budget alerts to a message broker.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// RunStore persists forecast runs and their alerts.
type RunStore interface {
	RecordRun(ctx context.Context, run storage.RunRecord) error
	RecordAlert(ctx context.Context, a storage.AlertRecord) (int64, error)
}

// ForecastRequest carries one forecast call's inputs. Budget is optional;
// without it the outcome has no comparison report.
type ForecastRequest struct {
	Records    []core.EmissionRecord
	Budget     *core.Budget
	Periods    int
	Frequency  core.Granularity
	Categories []string
	Lang       string
}

// ForecastOutcome is the result of one forecast run.
type ForecastOutcome struct {
	RunID  string                 `json:"run_id"`
	Set    *core.ForecastSet      `json:"forecast"`
	Report *core.ComparisonReport `json:"comparison,omitempty"`
}

// ForecastService orchestrates aggregation, forecasting, budget comparison,
// persistence, and alert publishing for one run. Store, publisher, and
// collector are all optional.
type ForecastService struct {
	engine    *forecast.Engine
	store     RunStore
	publisher AlertPublisher
	collector *metrics.Collector
	logs      *applog.StructuredLogger
}

func NewForecastService(store RunStore, publisher AlertPublisher, collector *metrics.Collector) *ForecastService {
	return &ForecastService{
		engine:    forecast.NewEngine(),
		store:     store,
		publisher: publisher,
		collector: collector,
		logs:      applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentForecast})),
	}
}

// Run executes a complete forecast call: monthly aggregation, per-category
// projection, optional quarterly re-bucketing, and, when a budget is given,
// comparison with alert publishing. Forecasting is deterministic; two calls
// with the same input differ only in run ID and timestamps.
func (s *ForecastService) Run(ctx context.Context, req ForecastRequest) (*ForecastOutcome, error) {
	switch req.Frequency {
	case core.Monthly, core.Quarterly:
	default:
		return nil, core.ErrUnknownFrequency
	}
	if req.Periods < 1 {
		return nil, fmt.Errorf("periods must be at least 1, got %d", req.Periods)
	}

	if s.collector != nil {
		defer s.collector.NewTimer(s.collector.ForecastDuration).ObserveDuration()
	}

	series, err := history.Aggregate(req.Records)
	if err != nil {
		s.recordError("aggregate")
		return nil, fmt.Errorf("aggregate history: %w", err)
	}
	series = filterCategories(series, req.Categories)

	set, err := s.project(ctx, series, req)
	if err != nil {
		return nil, err
	}

	outcome := &ForecastOutcome{RunID: newRunID(), Set: set}

	if req.Budget != nil {
		report, err := compare.Compare(set, req.Budget)
		if err != nil {
			s.recordError("compare")
			return nil, fmt.Errorf("compare against budget: %w", err)
		}
		report.Recommendations = compare.Recommendations(report, language(req.Lang))
		outcome.Report = report

		s.dispatchAlerts(ctx, outcome.RunID, report)
	}

	s.recordRun(ctx, outcome, req)

	if s.collector != nil {
		s.collector.RecordForecastRun(string(req.Frequency), "ok")
		s.collector.ForecastRecordsTotal.Add(float64(len(req.Records)))
	}

	requiresAction := outcome.Report != nil && outcome.Report.Summary.RequiresAction
	s.logs.LogForecastRun(ctx, outcome.RunID, string(req.Frequency), req.Periods, requiresAction)

	return outcome, nil
}

// project forecasts every series in parallel and assembles the ForecastSet.
// A quarterly request for N periods projects N*3 months so that re-bucketing
// yields N full quarters; Periods stays expressed in the requested frequency.
func (s *ForecastService) project(ctx context.Context, series map[core.Category]core.HistoricalSeries, req ForecastRequest) (*core.ForecastSet, error) {
	months := req.Periods
	if req.Frequency == core.Quarterly {
		months = req.Periods * 3
	}

	var (
		mu      sync.Mutex
		results = make(map[core.Category]*core.ForecastResult, len(series))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelForecasts)

	for cat, hs := range series {
		cat, hs := cat, hs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := s.engine.Project(hs, months)
			if err != nil {
				return fmt.Errorf("forecast %s: %w", cat, err)
			}
			mu.Lock()
			results[cat] = fr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.recordError("forecast")
		return nil, err
	}

	set := &core.ForecastSet{
		Frequency:   req.Frequency,
		Periods:     req.Periods,
		Results:     results,
		Metrics:     forecast.Summarize(results[core.Overall()]),
		GeneratedAt: time.Now().UTC(),
	}

	if req.Frequency == core.Quarterly {
		set.Quarterly = make(map[core.Category]core.QuarterlyForecast, len(results))
		for cat, fr := range results {
			set.Quarterly[cat] = forecast.ToQuarterly(fr)
		}
	}

	return set, nil
}

// dispatchAlerts routes actionable alerts to the broker, or records them
// directly when no publisher is configured. Alert delivery is best-effort:
// a failed publish never fails the run.
func (s *ForecastService) dispatchAlerts(ctx context.Context, runID string, report *core.ComparisonReport) {
	for _, alert := range report.Alerts {
		if !alert.Severity.Actionable() {
			continue
		}

		if s.collector != nil {
			s.collector.RecordAlert(string(alert.Severity))
		}

		msg := amqp.NewAlertMessage(runID, alert.Category.Name(), string(alert.Severity),
			alert.DifferencePct, alert.Message.FR, alert.Message.EN)

		if s.publisher != nil {
			if err := s.publisher.PublishAlert(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to publish alert",
					"run_id", runID,
					"category", alert.Category,
					"severity", alert.Severity,
					"error", err)
				if s.collector != nil {
					s.collector.AlertPublishErrors.Inc()
				}
			}
			continue
		}

		// Log sink: persist the alert here since no worker will consume it.
		if s.store != nil {
			if _, err := s.store.RecordAlert(ctx, storage.AlertRecord{
				RunID:        runID,
				Category:     alert.Category.Name(),
				Severity:     string(alert.Severity),
				DeviationPct: alert.DifferencePct,
				MessageFR:    alert.Message.FR,
				MessageEN:    alert.Message.EN,
				CreatedAt:    msg.Timestamp,
			}); err != nil {
				slog.ErrorContext(ctx, "Failed to record alert",
					"run_id", runID, "category", alert.Category, "error", err)
			}
		}

		slog.WarnContext(ctx, "Budget alert",
			"run_id", runID,
			"category", alert.Category,
			"severity", alert.Severity,
			"deviation_pct", alert.DifferencePct)
	}
}

// recordRun persists the run summary. Persistence is best-effort.
func (s *ForecastService) recordRun(ctx context.Context, outcome *ForecastOutcome, req ForecastRequest) {
	if s.store == nil {
		return
	}

	run := storage.RunRecord{
		ID:         outcome.RunID,
		Frequency:  string(req.Frequency),
		Periods:    req.Periods,
		Categories: categoryList(outcome.Set),
	}
	if outcome.Report != nil {
		run.RequiresAction = outcome.Report.Summary.RequiresAction
		run.OverallDeviationPct = outcome.Report.Summary.OverallDifferencePct
	}

	if err := s.store.RecordRun(ctx, run); err != nil {
		slog.ErrorContext(ctx, "Failed to record forecast run",
			"run_id", outcome.RunID, "error", err)
	}
}

func (s *ForecastService) recordError(errorType string) {
	if s.collector != nil {
		s.collector.RecordForecastError(errorType)
	}
}

// filterCategories keeps only the requested categories. The overall series
// always survives the filter so the run keeps its aggregate view.
func filterCategories(series map[core.Category]core.HistoricalSeries, keep []string) map[core.Category]core.HistoricalSeries {
	if len(keep) == 0 {
		return series
	}

	wanted := make(map[core.Category]bool, len(keep))
	for _, name := range keep {
		wanted[core.CategoryOf(name)] = true
	}

	filtered := make(map[core.Category]core.HistoricalSeries, len(keep)+1)
	for cat, hs := range series {
		if cat.IsOverall() || wanted[cat] {
			filtered[cat] = hs
		}
	}
	return filtered
}

// categoryList renders the forecast categories as a sorted comma-separated
// string for the run record, overall excluded.
func categoryList(set *core.ForecastSet) string {
	names := make([]string, 0, len(set.Results))
	for cat := range set.Results {
		if cat.IsOverall() {
			continue
		}
		names = append(names, cat.Name())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// language narrows lang to a supported locale, defaulting to French.
func language(lang string) string {
	if lang == "en" {
		return "en"
	}
	return "fr"
}

// newRunID creates a unique run identifier.
func newRunID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return "run_" + hex.EncodeToString(bytes)
}
