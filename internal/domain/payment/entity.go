package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents payment lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Payment represents a capture attempt against a sent quote
type Payment struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	BookingID uuid.UUID `db:"booking_id"`
	QuoteID   uuid.UUID `db:"quote_id"`

	Provider   string         `db:"provider"`
	ExternalID string         `db:"external_id"`
	FailReason sql.NullString `db:"fail_reason"`

	AmountCents int64  `db:"amount_cents"`
	Currency    string `db:"currency"`
	Status      Status `db:"status"`
}

// IsFinal reports whether the payment can no longer change state
func (p *Payment) IsFinal() bool {
	return p.Status == StatusSucceeded || p.Status == StatusFailed || p.Status == StatusCancelled
}
