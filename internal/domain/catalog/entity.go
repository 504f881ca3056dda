package catalog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ServiceType mirrors the package item types a service can back.
// Notes are free-form quote lines and never come from the catalog.
type ServiceType string

const (
	TypeFlight    ServiceType = "flight"
	TypeHotel     ServiceType = "hotel"
	TypeCar       ServiceType = "car"
	TypeGuide     ServiceType = "guide"
	TypeTransport ServiceType = "transport"
	TypeOther     ServiceType = "other"
)

// Valid reports whether t is a known service type
func (t ServiceType) Valid() bool {
	switch t {
	case TypeFlight, TypeHotel, TypeCar, TypeGuide, TypeTransport, TypeOther:
		return true
	}
	return false
}

// Service represents a bookable offering from a vendor
type Service struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	VendorID   uuid.UUID     `db:"vendor_id"`
	LocationID uuid.NullUUID `db:"location_id"`

	Type        ServiceType    `db:"type"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`

	BasePrice float64 `db:"base_price"`
	Currency  string  `db:"currency"`

	Active bool `db:"active"`
}

// Photo represents one uploaded image for a service
type Photo struct {
	ID        uuid.UUID `db:"id"`
	ServiceID uuid.UUID `db:"service_id"`
	CreatedAt time.Time `db:"created_at"`

	URL      string `db:"url"`
	ThumbURL string `db:"thumb_url"`
	Width    int    `db:"width"`
	Height   int    `db:"height"`
}
