package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/V4T54L/logviewer/internal/adapter/api/handler"
	"github.com/V4T54L/logviewer/internal/adapter/api/middleware"
	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/pkg/config"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Logs    *handler.LogsHandler
	Folders *handler.FolderHandler
	Auth    *handler.AuthHandler
}

// NewRouter creates and configures the HTTP router for the log viewer API.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	h Handlers,
	validator middleware.TokenValidator,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
			if !cfg.AuthDisabled {
				r.Use(middleware.Auth(validator, logger))
			}

			r.Get("/folders", h.Folders.ListFolders)
			r.Post("/folders", h.Folders.AddFolder)
			r.Delete("/folders/{name}", h.Folders.RemoveFolder)
			r.Get("/folders/{name}/files", h.Folders.ListFiles)

			r.Post("/logs/filter", h.Logs.FilterLogs)

			r.Post("/snapshots", h.Logs.CreateSnapshot)
			r.Post("/snapshots/{id}/filter", h.Logs.FilterSnapshot)
			r.Delete("/snapshots/{id}", h.Logs.DeleteSnapshot)
		})
	})

	return r
}
