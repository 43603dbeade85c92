// Package http serves the dashboard page, its HTMX partials and a JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"spendboard/internal/core"
	"spendboard/internal/log"
	"spendboard/internal/middleware/ratelimit"
	"spendboard/internal/middleware/security"
	"spendboard/internal/middleware/trace"
	"spendboard/internal/report"
	"spendboard/internal/services"
	appweb "spendboard/web"
)

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr               string
	Currency           string
	RateLimitPerMinute int
	// Ready is consulted by /readyz, typically a repository ping.
	Ready  func(context.Context) error
	Logger *log.Logger
	// Now replaces time.Now for the add form's default date.
	Now func() time.Time
}

type Server struct {
	http.Server
	service   *services.DashboardService
	templates *template.Template
	report    *report.Renderer
	currency  string
	ready     func(context.Context) error
	now       func() time.Time
	logger    *log.Logger

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	metrics  appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(svc *services.DashboardService, opts Options) (*Server, error) {
	if opts.Currency == "" {
		opts.Currency = core.DefaultCurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rep, err := report.New(opts.Currency)
	if err != nil {
		return nil, fmt.Errorf("load report template: %w", err)
	}

	s := &Server{
		Server:   http.Server{Addr: opts.Addr, ReadHeaderTimeout: 10 * time.Second},
		service:  svc,
		report:   rep,
		currency: opts.Currency,
		ready:    opts.Ready,
		now:      opts.Now,
		logger:   opts.Logger.WithComponent(log.ComponentHTTP),
		detector: security.NewDetector(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		metrics: appMetrics{startedAt: time.Now()},
	}
	s.tracer = trace.NewMiddleware(opts.Logger, s.detector.ClientIP)

	t, err := template.New("").Funcs(s.templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.limiter.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.limiter.Stop()
		return nil, err
	}
	s.Handler = s.middleware(mux)
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssets(3600)(static))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboardPartial)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /uploads/{kind}", s.handleUpload)
	mux.HandleFunc("GET /report.md", s.handleReport)

	mux.HandleFunc("GET /api/accounts", s.handleAPIAccounts)
	mux.HandleFunc("GET /api/expenses", s.handleAPIListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleAPICreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleAPIDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleAPISummary)
	mux.HandleFunc("GET /api/series", s.handleAPISeries)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return nil
}

// middleware wraps h, outermost first: tracing, security headers,
// suspicious request logging, then rate limiting of mutations.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ClientIP, isMutation, s.rateLimited)(h)
	h = s.flagSuspicious(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	return s.tracer.Middleware(h)
}

func isMutation(r *http.Request) bool {
	return r.Method == http.MethodPost || r.Method == http.MethodDelete
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	if wantsJSON(r) {
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").
		TriggerErrorNotification("Too many requests. Please try again later.").
		Write(w)
}

func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, reason := s.detector.Suspicious(r); ok {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				"reason", reason,
				log.FieldClientIP, s.detector.ClientIP(r),
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs the server until Shutdown. A clean shutdown is not an
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr, log.FieldOperation, log.OpStartup)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
