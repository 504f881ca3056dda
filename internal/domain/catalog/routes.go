package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the back-office catalog routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)

		r.Post("/photos", h.UploadPhoto)
		r.Delete("/photos/{photoID}", h.DeletePhoto)
	})

	return r
}
