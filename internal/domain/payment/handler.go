package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/pkg/errorhandler"
	"github.com/tripline/tripline-api/internal/pkg/response"
	"github.com/tripline/tripline-api/internal/pkg/validator"
)

// maxWebhookBytes caps the webhook body Stripe may post
const maxWebhookBytes = 1 << 20

// Handler handles payment HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates payment handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateIntent handles POST /payments/stripe/create-intent (admin)
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	p, clientSecret, err := h.svc.CreateIntent(r.Context(), bookingID, req.ReceiptEmail)
	if err != nil {
		if err == ErrNoQuoteToCharge {
			response.Conflict(w, "Booking has no sent quote to charge")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.Created(w, ToResponse(p, clientSecret))
}

// Confirm handles POST /payments/stripe/confirm (admin)
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.svc.Confirm(r.Context(), paymentID)
	if err != nil {
		if err == ErrPaymentNotFound {
			response.NotFound(w, "Payment not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToResponse(p, ""))
}

// GetByID handles GET /payments/{id} (admin)
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if err == ErrPaymentNotFound {
			response.NotFound(w, "Payment not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToResponse(p, ""))
}

// ListByBooking handles GET /payments/bookings/{id} (admin)
func (h *Handler) ListByBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	payments, err := h.svc.ListByBooking(r.Context(), id)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = ToResponse(p, "")
	}

	response.OK(w, map[string]interface{}{"items": items})
}

// Webhook handles POST /payments/stripe/webhook (public, signed)
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		response.BadRequest(w, "Unreadable body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if err := h.svc.HandleWebhook(r.Context(), payload, sig); err != nil {
		if err == ErrBadWebhook {
			response.BadRequest(w, "Webhook verification failed")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
		return
	}

	response.OK(w, map[string]string{"received": "true"})
}
