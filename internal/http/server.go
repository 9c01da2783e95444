// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

const maxBodyBytes = 10 << 20

// Options tune a Server. Zero values select the defaults.
type Options struct {
	Currency       string
	ReportCacheTTL time.Duration
	ReportCacheMax int
	RateLimit      int // mutating requests per client per minute
	Logger         *applog.Logger
}

type Server struct {
	http.Server
	tracker     *services.Tracker
	currency    string
	logger      *applog.Logger
	structured  *applog.StructuredLogger
	rateLimiter *rateLimiter
	metrics     securityMetrics

	// computed reports keyed by kind, state version and reference date
	reports *cache.LRUCache[any]

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, tracker *services.Tracker, opts Options) *Server {
	if opts.Currency == "" {
		opts.Currency = core.DefaultCurrency
	}
	if opts.ReportCacheMax <= 0 {
		opts.ReportCacheMax = 256
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		tracker:     tracker,
		currency:    opts.Currency,
		logger:      opts.Logger,
		structured:  applog.NewStructuredLogger(opts.Logger),
		rateLimiter: newRateLimiter(opts.RateLimit),
		reports:     cache.NewLRUCache[any](opts.ReportCacheMax, opts.ReportCacheTTL),
		now:         time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/investments", s.handleListInvestments)
	mux.HandleFunc("POST /api/investments", s.handleCreateInvestment)
	mux.HandleFunc("PUT /api/investments/{id}", s.handleUpdateInvestment)
	mux.HandleFunc("DELETE /api/investments/{id}", s.handleDeleteInvestment)

	mux.HandleFunc("GET /api/budgets", s.handleGetBudgets)
	mux.HandleFunc("PUT /api/budgets", s.handleReplaceBudgets)
	mux.HandleFunc("PUT /api/budgets/{category}", s.handleSetBudget)
	mux.HandleFunc("DELETE /api/budgets/{category}", s.handleRemoveBudget)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings/balance", s.handleSetBalance)
	mux.HandleFunc("PUT /api/settings/theme", s.handleSetTheme)
	mux.HandleFunc("POST /api/settings/theme/toggle", s.handleToggleTheme)

	mux.HandleFunc("GET /api/reports/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/reports/weekly", s.handleWeekly)
	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/reports/investments", s.handleInvestmentReport)

	mux.HandleFunc("GET /api/export/expenses.csv", s.handleExportExpenses)
	mux.HandleFunc("GET /api/export/investments.csv", s.handleExportInvestments)
	mux.HandleFunc("GET /api/export/backup.json", s.handleExportBackup)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("DELETE /api/data", s.handleClearData)

	var h http.Handler = s.withSecurityHeaders(mux)
	h = applog.RequestIDMiddleware(requestIDFromHeader)(h)
	h = applog.Middleware(opts.Logger)(h)
	s.Handler = withRequestID(h)

	return s
}

// Reports returns the report cache so the process can register it for
// periodic cleanup.
func (s *Server) Reports() *cache.LRUCache[any] {
	return s.reports
}

// Shutdown stops background routines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limits mutating requests
// and logs every request on completion.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, &s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
		}()

		h := rw.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, &s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			h.Set("Retry-After", "60")
			writeError(rw, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		r.Body = http.MaxBytesReader(rw, r.Body, maxBodyBytes)
		next.ServeHTTP(rw, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.tracker == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
