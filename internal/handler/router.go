package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/acquisitions/acquisitions-api/internal/middleware"
	"github.com/acquisitions/acquisitions-api/internal/model"
)

// RouterConfig carries everything the HTTP routes depend on.
type RouterConfig struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Health        *HealthHandler
	Authenticator *middleware.Authenticator
	// AuthRateLimit guards the sign-up, sign-in and sign-out routes. Nil
	// disables limiting.
	AuthRateLimit func(http.Handler) http.Handler
	CORSOrigin    string
}

// NewRouter builds the application router. Every request passes through the
// optional session deserialization, so public routes also know the caller.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Pipeline(cfg.Authenticator.Deserialize()))

	r.Get("/", cfg.Health.HandleRoot)
	r.Get("/health", cfg.Health.HandleHealth)
	r.Get("/api", cfg.Health.HandleInfo)

	r.Route("/api/auth", func(r chi.Router) {
		if cfg.AuthRateLimit != nil {
			r.Use(cfg.AuthRateLimit)
		}
		r.Post("/sign-up", cfg.Auth.HandleSignUp)
		r.Post("/sign-in", cfg.Auth.HandleSignIn)
		r.Post("/sign-out", cfg.Auth.HandleSignOut)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Pipeline(cfg.Authenticator.RequireAuth()))

		r.With(middleware.Pipeline(middleware.RequireRole(model.RoleAdmin))).Get("/", cfg.Users.HandleList)
		r.Get("/{id}", cfg.Users.HandleGet)
		r.Put("/{id}", cfg.Users.HandleUpdate)
		r.Delete("/{id}", cfg.Users.HandleDelete)
	})

	return r
}
