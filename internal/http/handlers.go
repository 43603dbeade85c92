package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

type appMetrics struct {
	startedAt       time.Time
	expensesAdded   int64
	expensesDeleted int64
	uploads         int64
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.startedAt).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["store"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}
	gauge := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s gauge\n", name)
		fmt.Fprintf(w, "%s %d\n\n", name, v)
	}

	counter("http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests)
	counter("http_server_errors_total", "Responses with a 5xx status", traceMetrics.ServerErrors)
	counter("expenses_added_total", "Expenses added through HTTP", atomic.LoadInt64(&s.metrics.expensesAdded))
	counter("expenses_deleted_total", "Expenses deleted through HTTP", atomic.LoadInt64(&s.metrics.expensesDeleted))
	counter("uploads_acknowledged_total", "Spreadsheet and receipt uploads acknowledged", atomic.LoadInt64(&s.metrics.uploads))
	counter("rate_limit_rejections_total", "Requests rejected by the rate limiter", rateLimitMetrics.Rejected)
	counter("suspicious_requests_total", "Requests flagged as suspicious", securityMetrics.SuspiciousRequests)
	gauge("rate_limit_clients", "Clients tracked by the rate limiter", rateLimitMetrics.ClientCount)
	gauge("uptime_seconds", "Seconds since the server started", int64(time.Since(s.metrics.startedAt).Seconds()))
}
