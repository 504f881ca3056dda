package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking status (matches booking_status enum)
type Status string

const (
	StatusNew       Status = "new"
	StatusQuoted    Status = "quoted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Booking represents a traveler's submitted trip request
type Booking struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Contact
	ContactName  string         `db:"contact_name"`
	ContactEmail string         `db:"contact_email"`
	ContactPhone sql.NullString `db:"contact_phone"`

	// Trip
	Destination sql.NullString `db:"destination"`
	StartDate   sql.NullString `db:"start_date"`
	EndDate     sql.NullString `db:"end_date"`
	Travelers   int            `db:"travelers"`

	// Requested service flags
	NeedsFlights bool `db:"needs_flights"`
	NeedsHotel   bool `db:"needs_hotel"`
	NeedsCar     bool `db:"needs_car"`
	NeedsGuide   bool `db:"needs_guide"`

	Notes  sql.NullString `db:"notes"`
	Status Status         `db:"status"`
}

// RequestedItem is one raw line from the traveler's intake form.
// Read-only after intake; the quote draft is seeded from these.
type RequestedItem struct {
	ID        uuid.UUID `db:"id"`
	BookingID uuid.UUID `db:"booking_id"`
	CreatedAt time.Time `db:"created_at"`

	RawType     string         `db:"raw_type"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Quantity    int            `db:"quantity"`

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

// IsClosed reports whether the booking can no longer be quoted.
func (b *Booking) IsClosed() bool {
	return b.Status == StatusAccepted || b.Status == StatusRejected || b.Status == StatusCancelled
}
