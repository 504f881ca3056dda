package payment

import (
	"time"

	"github.com/google/uuid"
)

// CreateIntentRequest for starting a charge against a booking's quote
type CreateIntentRequest struct {
	BookingID    string `json:"booking_id" validate:"required,uuid"`
	ReceiptEmail string `json:"receipt_email,omitempty" validate:"omitempty,email"`
}

// ConfirmRequest re-syncs a payment with the provider
type ConfirmRequest struct {
	PaymentID string `json:"payment_id" validate:"required,uuid"`
}

// PaymentResponse for API responses
type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	QuoteID     uuid.UUID `json:"quote_id"`
	Provider    string    `json:"provider"`
	ExternalID  string    `json:"external_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	FailReason  string    `json:"fail_reason,omitempty"`
	CreatedAt   string    `json:"created_at"`

	// Returned only on intent creation; the front-end needs it to
	// complete the card flow.
	ClientSecret string `json:"client_secret,omitempty"`
}

// ToResponse converts entity to response
func ToResponse(p *Payment, clientSecret string) *PaymentResponse {
	resp := &PaymentResponse{
		ID:           p.ID,
		BookingID:    p.BookingID,
		QuoteID:      p.QuoteID,
		Provider:     p.Provider,
		ExternalID:   p.ExternalID,
		AmountCents:  p.AmountCents,
		Currency:     p.Currency,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		ClientSecret: clientSecret,
	}
	if p.FailReason.Valid {
		resp.FailReason = p.FailReason.String
	}
	return resp
}
