package quote

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the package-builder routes to a booking-scoped admin
// router. The caller owns the /{id} subtree and its auth, so detail
// and status routes registered there keep working next to these.
func (h *Handler) Register(r chi.Router) {
	r.Route("/package", func(r chi.Router) {
		r.Get("/", h.GetDraft)
		r.Delete("/", h.Discard)
		r.Post("/send", h.Send)

		r.Post("/items", h.AddItem)
		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Patch("/", h.UpdateItem)
			r.Delete("/", h.RemoveItem)
			r.Post("/notify-vendor", h.NotifyVendor)
		})
	})

	r.Route("/quote", func(r chi.Router) {
		r.Get("/", h.GetQuote)
		r.Get("/pdf", h.DownloadPDF)
	})
}
