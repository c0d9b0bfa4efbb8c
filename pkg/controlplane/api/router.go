package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/pkg/controlplane/api/handlers"
	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// NewRouter builds the Admin API's chi router: public health/auth routes,
// and the authenticated admin/users, logs and apdu/stats routes.
func NewRouter(config Config, st *store.GORMStore) http.Handler {
	deps := handlers.NewDeps(st, config.TokenTTL)
	deps.DecoderAvailable = config.DecoderAvailable
	deps.RedactionMode = config.RedactionMode
	deps.RetentionDBDays = config.RetentionDBDays
	deps.RetentionJSONLDays = config.RetentionJSONLDays
	deps.RetentionSweepSeconds = config.RetentionSweepSeconds

	healthHandler := handlers.NewHealthHandler(deps)
	authHandler := handlers.NewAuthHandler(deps)
	userHandler := handlers.NewUserHandler(deps)
	logsHandler := handlers.NewLogsHandler(deps)
	apduHandler := handlers.NewApduHandler(deps)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(noStore)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/health", healthHandler.Health)
	r.Get("/api/auth/status", authHandler.Status)
	r.Post("/api/auth/bootstrap", authHandler.Bootstrap)
	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(deps.RequireToken)

		r.Route("/api/admin/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Patch("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Get("/api/logs/tail", logsHandler.Tail)
		r.Get("/api/logs/export", logsHandler.Export)
		r.Get("/api/apdu/stats", apduHandler.Stats)
	})

	return r
}

// noStore enforces the Admin API's no-store caching policy on every
// response.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each Admin API request at DEBUG on start and INFO on
// completion, matching the ambient logger's structured field conventions.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("admin API request started",
			logger.Method(r.Method), logger.Path(r.URL.Path), logger.RemoteAddr(r.RemoteAddr))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("admin API request completed",
			logger.Method(r.Method), logger.Path(r.URL.Path),
			logger.Status(ww.Status()), logger.BytesOut(ww.BytesWritten()),
			logger.DurationMs(logger.Duration(start)),
			logger.TraceID(requestID))
	})
}
