package http

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carbone/internal/budget"
	"carbone/internal/core"
	"carbone/internal/ingest"
	"carbone/internal/plan"
	"carbone/internal/services"
)

// maxUploadBytes caps the multipart form size for CSV uploads.
const maxUploadBytes = 16 << 20

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.forecasts == nil {
		checks["forecast_service"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["forecast_service"] = "ok"
	}

	if s.alerts != nil {
		if _, err := s.alerts.CountAlertsBySeverity(r.Context()); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "not_configured"
	}

	checks["cache"] = map[string]any{
		"forecast_entries": s.forecastCache.Size(),
		"status":           "ok",
	}

	respondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// forecastParams are the query-level knobs of a forecast call.
type forecastParams struct {
	Periods    int
	Frequency  core.Granularity
	Categories []string
	Lang       string
}

// handleForecast runs a forecast from an uploaded emissions CSV, optionally
// compared against an uploaded budget CSV. Identical uploads within the cache
// TTL are served from the memoized outcome.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	emissionsData, budgetData, ok := s.readUploads(w, r)
	if !ok {
		return
	}

	params, ok := s.readForecastParams(w, r)
	if !ok {
		return
	}

	key := fingerprint(emissionsData, budgetData, params)
	if outcome, found := s.forecastCache.Get(key); found {
		if s.collector != nil {
			s.collector.CacheHitsTotal.Inc()
		}
		w.Header().Set("X-Cache", "HIT")
		respondJSON(w, http.StatusOK, outcome)
		return
	}
	if s.collector != nil {
		s.collector.CacheMissesTotal.Inc()
	}

	records, err := ingest.ReadEmissions(strings.NewReader(string(emissionsData)))
	if err != nil {
		s.respondIngestError(w, r, err)
		return
	}

	var b *core.Budget
	if len(budgetData) > 0 {
		b, ok = s.loadBudget(w, budgetData, params)
		if !ok {
			return
		}
	}

	outcome, err := s.forecasts.Run(r.Context(), services.ForecastRequest{
		Records:    records,
		Budget:     b,
		Periods:    params.Periods,
		Frequency:  params.Frequency,
		Categories: params.Categories,
		Lang:       params.Lang,
	})
	if err != nil {
		s.respondForecastError(w, r, err)
		return
	}

	s.forecastCache.Set(key, outcome)
	respondJSON(w, http.StatusOK, outcome)
}

// handleBudgetValidate checks an uploaded budget CSV and reports every
// structural problem at once.
func (s *Server) handleBudgetValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	data, ok := s.readFile(w, r, "budget")
	if !ok {
		return
	}

	table, err := budget.FromCSV(strings.NewReader(string(data)))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot read budget CSV: %v", err))
		return
	}

	valid, problems := budget.New(table).Validate()
	if !valid {
		respondValidation(w, problems)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"valid":    true,
		"problems": []string{},
	})
}

// handlePlan builds a reduction action plan from an emissions CSV. With
// format=ics the plan is returned as a calendar file instead of JSON.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	p, ok := s.buildPlan(w, r)
	if !ok {
		return
	}

	if r.FormValue("format") == "ics" {
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="climate-actions.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(s.plans.RenderICS(p.Actions))
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// handlePlanCalendar builds a plan and pushes its actions to the configured
// calendar backend.
func (s *Server) handlePlanCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	p, ok := s.buildPlan(w, r)
	if !ok {
		return
	}

	ids, err := s.plans.PublishActions(r.Context(), p.Actions)
	if err != nil {
		slog.ErrorContext(r.Context(), "Calendar publish failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "calendar backend unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"published": len(ids),
		"event_ids": ids,
	})
}

// handleAlerts lists persisted budget alerts, newest first.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.alerts == nil {
		respondError(w, http.StatusServiceUnavailable, "alert storage not configured")
		return
	}

	severity := r.URL.Query().Get("severity")
	limit := queryInt(r, "limit", 0)

	alerts, err := s.alerts.ListAlerts(r.Context(), severity, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "List alerts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot list alerts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// handleRuns lists recent forecast runs.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.alerts == nil {
		respondError(w, http.StatusServiceUnavailable, "run storage not configured")
		return
	}

	runs, err := s.alerts.ListRuns(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		slog.ErrorContext(r.Context(), "List runs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot list runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleRun returns a single forecast run by ID.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.alerts == nil {
		respondError(w, http.StatusServiceUnavailable, "run storage not configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "run ID required")
		return
	}

	run, err := s.alerts.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get run failed", "run_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "cannot load run")
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// buildPlan reads the emissions upload and plan parameters and generates the
// action plan. Reports its own errors; the second return is false on failure.
func (s *Server) buildPlan(w http.ResponseWriter, r *http.Request) (*plan.Plan, bool) {
	data, ok := s.readFile(w, r, "emissions")
	if !ok {
		return nil, false
	}

	records, err := ingest.ReadEmissions(strings.NewReader(string(data)))
	if err != nil {
		s.respondIngestError(w, r, err)
		return nil, false
	}

	lang := r.FormValue("lang")
	if lang == "" {
		lang = s.defaults.Language
	}
	maxActions := queryInt(r, "max_actions", 0)

	p, err := s.plans.BuildPlan(r.Context(), records, lang, maxActions)
	if err != nil {
		slog.ErrorContext(r.Context(), "Plan generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot generate plan")
		return nil, false
	}
	return p, true
}

// readUploads parses the multipart form and returns the emissions CSV
// (required) and budget CSV (optional).
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) (emissions, budgetData []byte, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "multipart form data with an 'emissions' file is required")
		return nil, nil, false
	}

	emissions, ok = s.readFile(w, r, "emissions")
	if !ok {
		return nil, nil, false
	}

	if f, _, err := r.FormFile("budget"); err == nil {
		defer f.Close()
		budgetData, err = io.ReadAll(f)
		if err != nil {
			respondError(w, http.StatusBadRequest, "cannot read budget file")
			return nil, nil, false
		}
	}

	return emissions, budgetData, true
}

// readFile extracts one uploaded file from the multipart form.
func (s *Server) readFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("multipart form data with a '%s' file is required", field))
		return nil, false
	}

	f, _, err := r.FormFile(field)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("missing '%s' file", field))
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot read '%s' file", field))
		return nil, false
	}
	return data, true
}

// readForecastParams parses and validates the forecast form parameters,
// applying server defaults for anything omitted.
func (s *Server) readForecastParams(w http.ResponseWriter, r *http.Request) (forecastParams, bool) {
	params := forecastParams{
		Periods:   s.defaults.Periods,
		Frequency: s.defaults.Frequency,
		Lang:      s.defaults.Language,
	}

	if v := strings.TrimSpace(r.FormValue("periods")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 120 {
			respondError(w, http.StatusBadRequest, "periods must be an integer between 1 and 120")
			return params, false
		}
		params.Periods = n
	}

	if v := strings.TrimSpace(r.FormValue("frequency")); v != "" {
		switch core.Granularity(v) {
		case core.Monthly, core.Quarterly:
			params.Frequency = core.Granularity(v)
		default:
			respondError(w, http.StatusBadRequest, "frequency must be 'monthly' or 'quarterly'")
			return params, false
		}
	}

	if v := strings.TrimSpace(r.FormValue("categories")); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				params.Categories = append(params.Categories, name)
			}
		}
	}

	if v := strings.TrimSpace(r.FormValue("lang")); v != "" {
		params.Lang = v
	}

	return params, true
}

// loadBudget validates and normalizes the uploaded budget to the forecast
// frequency. Reports its own errors; the second return is false on failure.
func (s *Server) loadBudget(w http.ResponseWriter, data []byte, params forecastParams) (*core.Budget, bool) {
	table, err := budget.FromCSV(strings.NewReader(string(data)))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot read budget CSV: %v", err))
		return nil, false
	}

	normalizer := budget.New(table)
	if valid, problems := normalizer.Validate(); !valid {
		respondValidation(w, problems)
		return nil, false
	}

	b, err := normalizer.Load(params.Frequency, params.Categories)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("cannot normalize budget: %v", err))
		return nil, false
	}
	return b, true
}

// respondIngestError maps emissions CSV errors onto HTTP statuses.
func (s *Server) respondIngestError(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *core.DataFormatError
	switch {
	case errors.As(err, &formatErr):
		respondError(w, http.StatusUnprocessableEntity, formatErr.Error())
	case errors.Is(err, ingest.ErrMissingColumns):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Emissions parse failed", "error", err)
		respondError(w, http.StatusBadRequest, "cannot read emissions CSV")
	}
	if s.collector != nil {
		s.collector.RecordAPIError("parse", r.URL.Path)
	}
}

// respondForecastError maps forecast service errors onto HTTP statuses.
func (s *Server) respondForecastError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownFrequency):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrEmptyBudget):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Forecast run failed", "error", err)
		respondError(w, http.StatusInternalServerError, "forecast failed")
	}
	if s.collector != nil {
		s.collector.RecordAPIError("forecast", r.URL.Path)
	}
}

// queryInt reads an integer form or query value, falling back on def.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// fingerprint derives the cache key from the uploads and parameters.
func fingerprint(emissions, budgetData []byte, params forecastParams) string {
	h := sha256.New()
	h.Write(emissions)
	h.Write([]byte{0})
	h.Write(budgetData)
	fmt.Fprintf(h, "|%d|%s|%s|%s", params.Periods, params.Frequency, params.Lang,
		strings.Join(params.Categories, ","))
	return hex.EncodeToString(h.Sum(nil))
}
