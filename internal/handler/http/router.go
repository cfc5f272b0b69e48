package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/MarketplaceGo/internal/config"
	"github.com/utafrali/MarketplaceGo/pkg/health"
	"github.com/utafrali/MarketplaceGo/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Auth       *AuthHandler
	Users      *UserHandler
	Items      *ItemHandler
	Identifier Identifier
	Health     *health.Checker
	Metrics    *middleware.HTTPMetrics
	Registry   *prometheus.Registry
	UserCache  *middleware.ResponseCache
}

// NewRouter assembles the full route tree with the shared middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recovery)
	if deps.Config.Tracing.Enabled {
		r.Use(middleware.Tracing(deps.Config.ServiceName))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.Config.HTTP.AllowedOrigins)))
	r.Use(middleware.RequireJSON)

	r.Get("/health/live", deps.Health.LiveHandler())
	r.Get("/health/ready", deps.Health.ReadyHandler())
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", ConfigHandler(deps.Config))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/refresh", deps.Auth.Refresh)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", deps.Users.Register)

			// The public directory may be served from cache; identity
			// endpoints below never are.
			if deps.UserCache != nil {
				r.With(deps.UserCache.Middleware).Get("/", deps.Users.List)
			} else {
				r.Get("/", deps.Users.List)
			}

			r.Group(func(r chi.Router) {
				r.Use(Authenticate(deps.Identifier))
				r.Get("/me", deps.Users.Me)
				r.Patch("/me", deps.Users.UpdateMe)
				r.Patch("/me/password", deps.Users.UpdatePassword)
				r.Delete("/me", deps.Users.DeleteMe)
			})

			r.Get("/{id}", deps.Users.Get)
		})

		r.Route("/items", func(r chi.Router) {
			r.Use(Authenticate(deps.Identifier))
			r.Post("/", deps.Items.Create)
			r.Get("/", deps.Items.List)
			r.Get("/{id}", deps.Items.Get)
			r.Patch("/{id}", deps.Items.Update)
			r.Delete("/{id}", deps.Items.Delete)
		})
	})

	return r
}
