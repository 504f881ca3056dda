package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the back-office payment routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/stripe/create-intent", h.CreateIntent)
	r.Post("/stripe/confirm", h.Confirm)
	r.Get("/{id}", h.GetByID)
	r.Get("/bookings/{id}", h.ListByBooking)

	return r
}

// WebhookRoutes returns the provider callback routes. Mounted without
// auth; the request is verified by its signature instead.
func (h *Handler) WebhookRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/stripe/webhook", h.Webhook)

	return r
}
