package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-iam/meridian/internal/auth"
	"github.com/meridian-iam/meridian/internal/platform/httpx"
	"github.com/meridian-iam/meridian/internal/tenants"
	"github.com/meridian-iam/meridian/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	TenantsHandler *tenants.Handler
	UsersHandler   *users.Handler
	Pool           *pgxpool.Pool
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if params.Pool != nil {
			ctx, cancel := context.WithTimeout(req.Context(), params.Config.AppRequestTimeout)
			defer cancel()
			if err := params.Pool.Ping(ctx); err != nil {
				httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/tenants", func(r chi.Router) {
		params.TenantsHandler.MountRoutes(r)
	})
	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
	})

	return r
}
