package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"operadoras/internal/cache"
	"operadoras/internal/config"
	"operadoras/internal/core"
	applog "operadoras/internal/log"
	"operadoras/internal/middleware/ratelimit"
	"operadoras/internal/middleware/security"
	"operadoras/internal/middleware/trace"
	"operadoras/internal/services"
)

// Queries is the read surface the handlers depend on.
type Queries interface {
	ListOperators(ctx context.Context, p services.ListParams) (services.OperatorPage, error)
	GetOperator(ctx context.Context, cnpj string) (core.Operator, error)
	ListOperatorExpenses(ctx context.Context, cnpj string) ([]core.Expense, error)
	Statistics(ctx context.Context) (core.Statistics, error)
	Ready(ctx context.Context) error
	CacheStats() (operators, expenses cache.Stats)
}

// Options configures the HTTP server. Zero values fall back to defaults;
// a zero RateLimitRPM disables rate limiting. TrustedProxies extends the
// private and loopback networks whose forwarded headers are honoured.
type Options struct {
	Logger         *applog.Logger
	AllowedOrigins []string
	TrustedProxies []string
	RateLimitRPM   int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type Server struct {
	http.Server
	queries Queries
	logger  *applog.Logger
	slog    *applog.StructuredLogger

	traceMiddleware  *trace.Middleware
	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, q Queries, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	httpLogger := logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		queries:          q,
		logger:           httpLogger,
		slog:             applog.NewStructuredLogger(httpLogger),
		securityDetector: security.NewDetector(),
		startedAt:        time.Now(),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.securityDetector.AddTrustedProxy(cidr); err != nil {
			httpLogger.Warn("Ignoring trusted proxy", applog.FieldError, err.Error())
		}
	}
	s.traceMiddleware = trace.NewMiddleware(logger, s.securityDetector.ExtractClientIP)
	if opts.RateLimitRPM > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/operadoras", s.handleListOperators)
	// The CNPJ may itself contain '/', so the remainder is routed by hand.
	mux.HandleFunc("GET /api/operadoras/{path...}", s.handleOperatorPath)
	mux.HandleFunc("GET /api/estatisticas", s.handleStatistics)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("/", handleFallback)

	var handler http.Handler = mux
	if s.rateLimiter != nil {
		handler = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)(handler)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = config.DefaultAllowedOrigins
	}
	handler = security.NewCORS(origins, logger.Logger).Handler(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.securityDetector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       orDefault(opts.ReadTimeout, 10*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      orDefault(opts.WriteTimeout, 10*time.Second),
		IdleTimeout:       orDefault(opts.IdleTimeout, 60*time.Second),
	}

	return s
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
