package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/potatoland/potatoland/backend/internal/setup"
	mw "github.com/potatoland/potatoland/shared/middleware"
	"github.com/potatoland/potatoland/shared/middleware/metrics"
)

// New creates and configures a chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))

	h := deps.Handler

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/health", h.Health)

	r.Route("/api/board", func(r chi.Router) {
		// the link from the invitation email carries its own proof, no session needed
		r.With(mw.RateLimit(deps.ConfirmLimiter, mw.GetIP)).Get("/confirm", h.ConfirmInvite)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.NeedAuth())

			r.Post("/", h.CreateBoard)
			r.Get("/{id}", h.GetBoard)
			r.Patch("/{id}", h.UpdateBoard)
			r.Delete("/{id}", h.DeleteBoard)
			r.With(mw.RateLimit(deps.InviteLimiter, mw.GetUserIDFromContext)).Post("/{id}/invite", h.InviteBoard)
			r.Patch("/{id}/changeRole", h.ChangeRole)
			r.Delete("/{id}/deleteMember", h.DeleteMember)
		})
	})

	return r
}
