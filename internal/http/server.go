package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"saldo/internal/i18n"
	"saldo/internal/log"
	"saldo/internal/middleware/ratelimit"
	"saldo/internal/middleware/security"
	"saldo/internal/middleware/trace"
	"saldo/internal/money"
	"saldo/internal/settings"
)

const (
	routeHealth     = "/healthz"
	routeMetrics    = "/metrics"
	routeParse      = "/api/amounts/parse"
	routeFormat     = "/api/amounts/format"
	routeSeparators = "/api/separators"
	routeCurrency   = "/api/currency"
	routeValidate   = "/api/validate"
	routeSettings   = "/api/settings"
	routeBalance    = "/api/balance"
)

var knownRoutes = map[string]bool{
	routeHealth: true, routeMetrics: true, routeParse: true, routeFormat: true,
	routeSeparators: true, routeCurrency: true, routeValidate: true, routeSettings: true,
	routeBalance: true,
}

// SettingsStore is the part of settings.Service the API needs.
type SettingsStore interface {
	Current() settings.Settings
	Update(ctx context.Context, next settings.Settings) (settings.Settings, error)
}

// Dependencies wires a Server. Engine and Settings are required.
type Dependencies struct {
	Engine         *money.Engine
	Settings       SettingsStore
	Logger         *log.Logger
	RateLimit      ratelimit.Config
	AllowedOrigins []string
	// Now is the validation clock; nil means time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	engine   *money.Engine
	settings SettingsStore
	catalogs *i18n.Catalogs
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	metrics  *Metrics
	now      func() time.Time
}

func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		engine:   deps.Engine,
		settings: deps.Settings,
		catalogs: i18n.NewCatalogs(),
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(deps.RateLimit),
		metrics:  NewMetrics(),
		now:      now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(routeHealth, handleHealth)
	mux.Handle(routeMetrics, s.metrics.Handler())
	mux.HandleFunc(routeParse, s.handleParse)
	mux.HandleFunc(routeFormat, s.handleFormat)
	mux.HandleFunc(routeSeparators, s.handleSeparators)
	mux.HandleFunc(routeCurrency, s.handleCurrency)
	mux.HandleFunc(routeValidate, s.handleValidate)
	mux.HandleFunc(routeSettings, s.handleSettings)
	mux.HandleFunc(routeBalance, s.handleBalance)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})

	// security.NewIPExtractor only fails on caller-supplied CIDRs.
	ips, _ := security.NewIPExtractor()

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
		MaxAge:         7200,
	})

	var handler http.Handler = mux
	handler = s.limiter.Middleware(ips.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	})(handler)
	handler = s.recoverer(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = corsHandler.Handler(handler)
	handler = trace.NewMiddleware(logger, ips.ClientIP, s.metrics).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// recoverer turns a handler panic into a 500 instead of a dropped
// connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panic",
					"panic", rec,
					log.FieldPath, r.URL.Path)
				InternalServerError("internal error").Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
