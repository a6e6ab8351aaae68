package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iammorganparry/articles/internal/auth"
	"github.com/iammorganparry/articles/internal/metrics"
	"github.com/iammorganparry/articles/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
// A nil gatherer disables /metrics.
func NewRouter(
	db *store.DB,
	tokens *auth.TokenManager,
	limiter *RateLimiter,
	rec metrics.Recorder,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *chi.Mux {
	if rec == nil {
		rec = metrics.Nop{}
	}

	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(Metrics(rec))

	// Handlers
	healthH := NewHealthHandler(db)
	authH := NewAuthHandler(tokens, rec, logger)
	articleH := NewArticleHandler(store.NewArticleStore(db), rec, logger)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)
	if gatherer != nil {
		r.Handle("/metrics", metrics.Handler(gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(limiter.Middleware).Post("/login", authH.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(TokenAuth(tokens))

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", articleH.List)
				r.Post("/", articleH.Create)
				r.Put("/{id}", articleH.Update)
				r.Delete("/{id}", articleH.Delete)
			})
		})
	})

	return r
}
