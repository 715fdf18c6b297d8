package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	applog "operadoras/internal/log"
	"operadoras/internal/services"
)

// handleHealth performs basic liveness check
func handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFallback answers paths no route claims, keeping error bodies JSON.
func handleFallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeDetail(w, http.StatusMethodNotAllowed, DetailMethodNotAllowed)
		return
	}
	writeDetail(w, http.StatusNotFound, DetailNotFound)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeDetail(w, http.StatusTooManyRequests, DetailRateLimited)
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	params, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.queries.ListOperators(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpList, "")
		return
	}

	applog.FromContext(r.Context()).DebugContext(r.Context(), "Operators listed",
		applog.NewFields().
			WithListing(page.Page, page.Limit, params.Search).
			WithOperation(applog.OpList).
			ToSlice()...)

	_ = writeJSON(w, http.StatusOK, page)
}

// handleOperatorPath serves /api/operadoras/{cnpj} and
// /api/operadoras/{cnpj}/despesas.
func (s *Server) handleOperatorPath(w http.ResponseWriter, r *http.Request) {
	rest := r.PathValue("path")
	if rest == "" {
		s.handleListOperators(w, r)
		return
	}

	cnpj, expenses := SplitOperatorPath(rest)
	if expenses {
		s.handleOperatorExpenses(w, r, cnpj)
		return
	}

	op, err := s.queries.GetOperator(r.Context(), cnpj)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead, cnpj)
		return
	}
	_ = writeJSON(w, http.StatusOK, op)
}

func (s *Server) handleOperatorExpenses(w http.ResponseWriter, r *http.Request, cnpj string) {
	items, err := s.queries.ListOperatorExpenses(r.Context(), cnpj)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpList, cnpj)
		return
	}
	_ = writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.queries.Statistics(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead, "")
		return
	}
	_ = writeJSON(w, http.StatusOK, stats)
}

// writeServiceError maps service errors onto HTTP responses. cnpj is the
// requested operator, empty for routes that do not name one.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op, cnpj string) {
	ctx := r.Context()

	if errors.Is(err, services.ErrOperatorNotFound) {
		s.slog.LogOperatorNotFound(ctx, cnpj)
		writeDetail(w, http.StatusNotFound, DetailOperatorNotFound)
		return
	}

	s.slog.LogError(ctx, "Query failed", err, applog.ComponentOperators, op,
		applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", ""))
	writeDetail(w, http.StatusInternalServerError, DetailInternal)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if err := s.queries.Ready(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
		checks["backend"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["backend"] = "ok"
	}

	opStats, expStats := s.queries.CacheStats()
	checks["cache"] = map[string]any{
		"operator_entries": opStats.Entries,
		"expense_entries":  expStats.Entries,
	}

	if s.rateLimiter != nil {
		checks["rate_limiter"] = map[string]any{
			"active_clients": s.rateLimiter.ActiveClients(),
		}
	}

	_ = writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides request, cache and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	opStats, expStats := s.queries.CacheStats()
	uptime := time.Since(s.startedAt)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_errors_total HTTP responses with an error status\n")
	fmt.Fprintf(w, "# TYPE http_errors_total counter\n")
	fmt.Fprintf(w, "http_errors_total{class=\"4xx\"} %d\n", traceMetrics.ClientErrors)
	fmt.Fprintf(w, "http_errors_total{class=\"5xx\"} %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP http_response_time_avg_microseconds Mean response time\n")
	fmt.Fprintf(w, "# TYPE http_response_time_avg_microseconds gauge\n")
	fmt.Fprintf(w, "http_response_time_avg_microseconds %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP cache_hits_total Total lookup cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total{cache=\"operators\"} %d\n", opStats.Hits)
	fmt.Fprintf(w, "cache_hits_total{cache=\"expenses\"} %d\n\n", expStats.Hits)

	fmt.Fprintf(w, "# HELP cache_misses_total Total lookup cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total{cache=\"operators\"} %d\n", opStats.Misses)
	fmt.Fprintf(w, "cache_misses_total{cache=\"expenses\"} %d\n\n", expStats.Misses)

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{cache=\"operators\"} %d\n", opStats.Entries)
	fmt.Fprintf(w, "cache_entries{cache=\"expenses\"} %d\n\n", expStats.Entries)

	if s.rateLimiter != nil {
		rateLimitMetrics := s.rateLimiter.GetMetrics()

		fmt.Fprintf(w, "# HELP rate_limit_rejected_total Requests rejected by the rate limiter\n")
		fmt.Fprintf(w, "# TYPE rate_limit_rejected_total counter\n")
		fmt.Fprintf(w, "rate_limit_rejected_total %d\n\n", rateLimitMetrics.Rejected)

		fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
		fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
		fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)
	}

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
