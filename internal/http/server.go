// Package http serves the expense tracker UI: the expense form, the filter
// bar and the results container, as full pages and htmx fragments.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"gastos/internal/backend"
	"gastos/internal/cache"
	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
	"gastos/internal/report"
	appweb "gastos/web"
)

// Options tunes the server. Zero values select the defaults.
type Options struct {
	Logger             *log.Logger
	RateLimitPerMinute int
	ReportCacheSize    int
	ReportCacheTTL     time.Duration
	// Templates overrides the embedded templates. Tests use it to exercise
	// the missing-template path.
	Templates fs.FS
}

type Server struct {
	http.Server
	templates *template.Template
	backend   backend.Backend
	logger    *log.Logger
	events    *log.StructuredLogger

	// Rendered reports keyed by generation and filter. Every mutation bumps
	// the generation, so an entry built concurrently with a write is never
	// served afterwards.
	reports      *cache.LRUCache[report.Report]
	reportGen    int64
	cacheManager *cache.Manager

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	started time.Time
	saved   int64
	deleted int64
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, b backend.Backend, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	if opts.ReportCacheSize <= 0 {
		opts.ReportCacheSize = 50
	}
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = 5 * time.Minute
	}

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		backend:     b,
		logger:      logger,
		events:      log.NewStructuredLogger(logger),
		reports:     cache.NewLRUCache[report.Report](opts.ReportCacheSize, opts.ReportCacheTTL),
		rateLimiter: ratelimit.NewLimiter(rlConfig),
		detector:    security.NewDetector(),
		appMetrics:  appMetrics{started: time.Now()},
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	cacheLogger := logger.WithComponent(log.ComponentCache)
	s.cacheManager = cache.NewManager(func(removed int) {
		cacheLogger.Debug("Cache cleanup completed", "entries_removed", removed)
	})
	s.cacheManager.Register(s.reports)
	s.cacheManager.StartCleanup(10 * time.Minute)

	templatesFS := opts.Templates
	if templatesFS == nil {
		templatesFS = appweb.TemplatesFS
	}
	t, err := parseTemplates(templatesFS)
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/export.json", s.handleExport)
	mux.HandleFunc("/expenses", s.handleExpenses)
	mux.HandleFunc("/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("/expenses/{id}/delete", s.handleDeleteExpense)
	mux.HandleFunc("/expenses/{id}/edit", s.handleEditExpense)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/*.html")
}

// middleware wraps the mux, outermost first: tracing, request logger,
// scanner detection, security headers, rate limiting of mutations.
func (s *Server) middleware(next http.Handler) http.Handler {
	securityLogger := s.logger.WithComponent(log.ComponentSecurity)
	rateLogger := s.logger.WithComponent(log.ComponentRateLimit)

	h := s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		rateLogger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldRequestID, trace.GetRequestID(r.Context()),
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		TooManyRequestsError("Muitas requisições. Tente novamente em instantes.").Write(w)
	})(next)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(func(r *http.Request) {
		securityLogger.WarnContext(r.Context(), "Suspicious request detected",
			log.FieldRequestID, trace.GetRequestID(r.Context()),
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldUserAgent, r.UserAgent())
	})(h)
	h = log.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = log.Middleware(s.logger)(h)
	return s.tracer.Middleware(h)
}

// Shutdown stops the background sweepers, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateReports drops every cached report. Any mutation can change
// every filtered view.
func (s *Server) invalidateReports() {
	atomic.AddInt64(&s.reportGen, 1)
	s.reports.Purge()
}

// reportFor returns the report for f, building it from the backend on a miss.
func (s *Server) reportFor(f core.Filter) report.Report {
	key := strconv.FormatInt(atomic.LoadInt64(&s.reportGen), 10) + "|" + f.Key()
	if rep, ok := s.reports.Get(key); ok {
		return rep
	}
	rep := report.Build(s.backend.Filter(f))
	s.reports.Set(key, rep)
	return rep
}
