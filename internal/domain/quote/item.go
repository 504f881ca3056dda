package quote

import (
	"strings"

	"github.com/google/uuid"
)

// ItemType is the closed set of service types a package line can have.
// The type is decided once, when an item enters the draft; it is never
// re-derived from the title afterwards.
type ItemType string

const (
	TypeFlight    ItemType = "flight"
	TypeHotel     ItemType = "hotel"
	TypeCar       ItemType = "car"
	TypeGuide     ItemType = "guide"
	TypeTransport ItemType = "transport"
	TypeNote      ItemType = "note"
	TypeOther     ItemType = "other"
)

// ItemTypes lists all valid types in display order.
var ItemTypes = []ItemType{TypeFlight, TypeHotel, TypeCar, TypeGuide, TypeTransport, TypeNote, TypeOther}

// Valid reports whether t is a member of the closed set.
func (t ItemType) Valid() bool {
	switch t {
	case TypeFlight, TypeHotel, TypeCar, TypeGuide, TypeTransport, TypeNote, TypeOther:
		return true
	}
	return false
}

// PackageItem is one line of the admin's working draft for a booking.
// QuotePrice, UnitPrice and Price are redundant inputs carried from
// intake and prior quotes; EffectivePrice resolves the precedence.
type PackageItem struct {
	ID        uuid.UUID
	ServiceID uuid.UUID // catalog service backing this line; uuid.Nil when ad-hoc

	Type        ItemType
	Title       string
	Description string
	Quantity    int

	QuotePrice *float64
	UnitPrice  *float64
	Price      *float64

	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	ReturnDate string
	ReturnTime string

	Origin      string
	Destination string
	IsRoundTrip bool
	WithDriver  bool

	Metadata map[string]string
}

// EffectivePrice resolves the unit price: quote price wins, then unit
// price, then the raw intake price, defaulting to zero.
func (it *PackageItem) EffectivePrice() float64 {
	if it.QuotePrice != nil {
		return *it.QuotePrice
	}
	if it.UnitPrice != nil {
		return *it.UnitPrice
	}
	if it.Price != nil {
		return *it.Price
	}
	return 0
}

// LineTotal returns quantity × effective unit price.
func (it *PackageItem) LineTotal() float64 {
	qty := it.Quantity
	if qty < 1 {
		qty = 1
	}
	return float64(qty) * it.EffectivePrice()
}

var typeKeywords = []struct {
	t        ItemType
	keywords []string
}{
	{TypeFlight, []string{"flight", "airfare", "airline", "plane"}},
	{TypeHotel, []string{"hotel", "resort", "hostel", "accommodation", "lodge", "room", "stay"}},
	{TypeCar, []string{"car", "vehicle", "rental", "4x4", "suv"}},
	{TypeGuide, []string{"guide", "tour", "excursion", "safari"}},
	{TypeTransport, []string{"transfer", "transport", "shuttle", "bus", "train", "ferry"}},
	{TypeNote, []string{"note", "remark"}},
}

// NormalizeType maps a raw type string to the closed set. When the raw
// type is unknown or "other", it falls back to keyword matching on the
// title, so free-text intake lines like "Airport transfer" still land
// in the right bucket.
func NormalizeType(raw, title string) ItemType {
	t := ItemType(strings.ToLower(strings.TrimSpace(raw)))
	if t.Valid() && t != TypeOther {
		return t
	}

	lower := strings.ToLower(title)
	for _, entry := range typeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.t
			}
		}
	}

	return TypeOther
}
