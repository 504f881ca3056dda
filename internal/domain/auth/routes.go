package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripline/tripline-api/internal/middleware"
)

// Routes returns auth router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Post("/password", h.ChangePassword)

		// Account management is admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/operators", h.CreateOperator)
			r.Get("/operators", h.ListOperators)
			r.Patch("/operators/{id}/active", h.SetOperatorActive)
		})
	})

	return r
}
