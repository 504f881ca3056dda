package quote

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a sent quote
type Status string

const (
	StatusSent       Status = "sent"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusSuperseded Status = "superseded"
)

// Quote is a priced package that was sent to the traveler.
type Quote struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	CreatedAt time.Time `db:"created_at"`

	Subtotal   float64 `db:"subtotal"`
	Tax        float64 `db:"tax"`
	ServiceFee float64 `db:"service_fee"`
	Total      float64 `db:"total"`

	Status Status `db:"status"`
}

// QuoteItem is one persisted line of a sent quote.
type QuoteItem struct {
	ID      uuid.UUID `db:"id"`
	QuoteID uuid.UUID `db:"quote_id"`

	// SourceItemID links back to the traveler's requested intake line,
	// when the quote line answers one.
	SourceItemID uuid.NullUUID `db:"source_item_id"`

	// ServiceID links to the catalog service fulfilling this line.
	ServiceID uuid.NullUUID `db:"service_id"`

	ItemType    ItemType       `db:"item_type"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Quantity    int            `db:"quantity"`
	UnitPrice   float64        `db:"unit_price"`

	StartDate  sql.NullString `db:"start_date"`
	EndDate    sql.NullString `db:"end_date"`
	StartTime  sql.NullString `db:"start_time"`
	EndTime    sql.NullString `db:"end_time"`
	ReturnDate sql.NullString `db:"return_date"`
	ReturnTime sql.NullString `db:"return_time"`

	Origin      sql.NullString `db:"origin"`
	Destination sql.NullString `db:"destination"`
	IsRoundTrip bool           `db:"is_round_trip"`
	WithDriver  bool           `db:"with_driver"`
}
