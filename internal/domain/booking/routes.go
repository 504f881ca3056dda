package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns routes reachable without auth
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	// Trip-request intake from the marketing site
	r.Post("/", h.Submit)

	return r
}

// AdminRoutes returns the back-office booking routes. packageBuilder
// hangs the quote-building endpoints off the same /{id} subtree so a
// second mount cannot shadow detail, status, or stats.
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler, packageBuilder func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/stats", h.Stats)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Patch("/status", h.UpdateStatus)

		if packageBuilder != nil {
			packageBuilder(r)
		}
	})

	return r
}
