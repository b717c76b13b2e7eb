// Package http exposes the forecast, budget, plan, and alert API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carbone/internal/cache"
	"carbone/internal/core"
	applog "carbone/internal/log"
	"carbone/internal/metrics"
	"carbone/internal/middleware/trace"
	"carbone/internal/services"
	"carbone/internal/storage"
)

// AlertReader reads persisted alerts and forecast runs.
type AlertReader interface {
	ListAlerts(ctx context.Context, severity string, limit int) ([]storage.AlertRecord, error)
	ListRuns(ctx context.Context, limit int) ([]storage.RunRecord, error)
	GetRun(ctx context.Context, id string) (*storage.RunRecord, error)
	CountAlertsBySeverity(ctx context.Context) (map[string]int, error)
}

// Defaults are applied to forecast requests that omit the parameter.
type Defaults struct {
	Periods   int
	Frequency core.Granularity
	Language  string
}

// Options configures a Server.
type Options struct {
	Addr      string
	Forecasts *services.ForecastService
	Plans     *services.PlanService
	Alerts    AlertReader
	Collector *metrics.Collector
	Defaults  Defaults
	CacheSize int
	CacheTTL  time.Duration
}

type Server struct {
	http.Server

	forecasts *services.ForecastService
	plans     *services.PlanService
	alerts    AlertReader
	collector *metrics.Collector
	defaults  Defaults

	rateLimiter *rateLimiter
	secMetrics  *securityMetrics
	traceMW     *trace.Middleware
	reqLog      *applog.StructuredLogger

	// Forecast responses memoized by input fingerprint.
	forecastCache *cache.LRUCache[*services.ForecastOutcome]
	cacheManager  *cache.Manager

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	if opts.Defaults.Periods <= 0 {
		opts.Defaults.Periods = 12
	}
	if opts.Defaults.Frequency == "" {
		opts.Defaults.Frequency = core.Monthly
	}
	if opts.Defaults.Language == "" {
		opts.Defaults.Language = "fr"
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		forecasts:     opts.Forecasts,
		plans:         opts.Plans,
		alerts:        opts.Alerts,
		collector:     opts.Collector,
		defaults:      opts.Defaults,
		rateLimiter:   newRateLimiter(),
		secMetrics:    &securityMetrics{},
		traceMW:       trace.NewMiddleware(extractClientIP),
		reqLog:        applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
		forecastCache: cache.NewLRUCache[*services.ForecastOutcome](opts.CacheSize, opts.CacheTTL),
		cacheManager:  cache.NewManager(),
		started:       time.Now(),
	}

	s.cacheManager.Register(s.forecastCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/api/forecast", s.withMiddleware(s.handleForecast))
	mux.Handle("/api/budget/validate", s.withMiddleware(s.handleBudgetValidate))
	mux.Handle("/api/plan", s.withMiddleware(s.handlePlan))
	mux.Handle("/api/plan/calendar", s.withMiddleware(s.handlePlanCalendar))
	mux.Handle("/api/alerts", s.withMiddleware(s.handleAlerts))
	mux.Handle("/api/runs", s.withMiddleware(s.handleRuns))
	mux.Handle("/api/runs/", s.withMiddleware(s.handleRun))

	return s
}

// withMiddleware wires tracing, security checks, rate limiting, request
// logging, and metrics around an API handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.Handler {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.secMetrics) {
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.secMetrics) {
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		s.reqLog.LogHTTPStart(r.Context(), r, clientIP)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)

		s.reqLog.LogHTTPEnd(r.Context(), r, rec.status, elapsed.Milliseconds(), clientIP)
		if s.collector != nil {
			s.collector.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(rec.status))
			s.collector.APIRequestDuration.WithLabelValues(r.URL.Path).Observe(elapsed.Seconds())
		}
	})

	return s.traceMW.Middleware(handler)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
