package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lexihq/lexikb/internal/api"
	"github.com/lexihq/lexikb/internal/api/handlers"
	"github.com/lexihq/lexikb/internal/api/middleware"
	"github.com/lexihq/lexikb/internal/metrics"
)

type RouterConfig struct {
	KnowledgeHandler *handlers.KnowledgeHandler
	APIToken         string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(cfg.APIToken))

		r.Post("/search", cfg.KnowledgeHandler.Search)
		r.Post("/seed", cfg.KnowledgeHandler.Seed)
	})

	return r
}
