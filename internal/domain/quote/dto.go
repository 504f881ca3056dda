package quote

import (
	"time"

	"github.com/google/uuid"
)

// AddItemRequest for appending an ad-hoc draft line
type AddItemRequest struct {
	Type        string  `json:"type" validate:"required,item_type"`
	Title       string  `json:"title" validate:"required,min=2,max=255"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Quantity    int     `json:"quantity,omitempty" validate:"omitempty,min=1,max=100"`
	UnitPrice   float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`

	ServiceID string `json:"service_id,omitempty" validate:"omitempty,uuid"`

	StartDate  string `json:"start_date,omitempty" validate:"omitempty,trip_date"`
	EndDate    string `json:"end_date,omitempty" validate:"omitempty,trip_date"`
	StartTime  string `json:"start_time,omitempty" validate:"omitempty,trip_time"`
	EndTime    string `json:"end_time,omitempty" validate:"omitempty,trip_time"`
	ReturnDate string `json:"return_date,omitempty" validate:"omitempty,trip_date"`
	ReturnTime string `json:"return_time,omitempty" validate:"omitempty,trip_time"`

	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	IsRoundTrip bool   `json:"is_round_trip,omitempty"`
	WithDriver  bool   `json:"with_driver,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToItem builds the draft line from the request.
func (r *AddItemRequest) ToItem() PackageItem {
	it := PackageItem{
		Type:        NormalizeType(r.Type, r.Title),
		Title:       r.Title,
		Description: r.Description,
		Quantity:    r.Quantity,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ReturnDate:  r.ReturnDate,
		ReturnTime:  r.ReturnTime,
		Origin:      r.Origin,
		Destination: r.Destination,
		IsRoundTrip: r.IsRoundTrip,
		WithDriver:  r.WithDriver,
		Metadata:    r.Metadata,
	}
	if r.UnitPrice > 0 {
		price := r.UnitPrice
		it.UnitPrice = &price
	}
	if r.ServiceID != "" {
		if id, err := uuid.Parse(r.ServiceID); err == nil {
			it.ServiceID = id
		}
	}
	return it
}

// UpdateItemRequest is a shallow patch; absent fields stay untouched
type UpdateItemRequest struct {
	Type        *string  `json:"type,omitempty" validate:"omitempty,item_type"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,min=1,max=100"`
	QuotePrice  *float64 `json:"quote_price,omitempty" validate:"omitempty,gte=0"`
	UnitPrice   *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`

	ServiceID *string `json:"service_id,omitempty" validate:"omitempty,uuid"`

	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,trip_date"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,trip_date"`
	StartTime  *string `json:"start_time,omitempty" validate:"omitempty,trip_time"`
	EndTime    *string `json:"end_time,omitempty" validate:"omitempty,trip_time"`
	ReturnDate *string `json:"return_date,omitempty" validate:"omitempty,trip_date"`
	ReturnTime *string `json:"return_time,omitempty" validate:"omitempty,trip_time"`

	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`
	IsRoundTrip *bool   `json:"is_round_trip,omitempty"`
	WithDriver  *bool   `json:"with_driver,omitempty"`
}

// ToPatch converts the request into a store patch.
func (r *UpdateItemRequest) ToPatch() ItemPatch {
	p := ItemPatch{
		Title:       r.Title,
		Description: r.Description,
		Quantity:    r.Quantity,
		QuotePrice:  r.QuotePrice,
		UnitPrice:   r.UnitPrice,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ReturnDate:  r.ReturnDate,
		ReturnTime:  r.ReturnTime,
		Origin:      r.Origin,
		Destination: r.Destination,
		IsRoundTrip: r.IsRoundTrip,
		WithDriver:  r.WithDriver,
	}
	if r.Type != nil {
		t := ItemType(*r.Type)
		p.Type = &t
	}
	if r.ServiceID != nil {
		if id, err := uuid.Parse(*r.ServiceID); err == nil {
			p.ServiceID = &id
		}
	}
	return p
}

// NotifyVendorRequest for per-item vendor notification
type NotifyVendorRequest struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// ItemResponse is one draft line as rendered to the back-office
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID string    `json:"service_id,omitempty"`

	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`

	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	ReturnDate string `json:"return_date,omitempty"`
	ReturnTime string `json:"return_time,omitempty"`

	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	IsRoundTrip bool   `json:"is_round_trip,omitempty"`
	WithDriver  bool   `json:"with_driver,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToItemResponse converts a draft line to its API shape
func ToItemResponse(it *PackageItem) ItemResponse {
	r := ItemResponse{
		ID:          it.ID,
		Type:        string(it.Type),
		Title:       it.Title,
		Description: it.Description,
		Quantity:    it.Quantity,
		UnitPrice:   it.EffectivePrice(),
		LineTotal:   it.LineTotal(),
		StartDate:   it.StartDate,
		EndDate:     it.EndDate,
		StartTime:   it.StartTime,
		EndTime:     it.EndTime,
		ReturnDate:  it.ReturnDate,
		ReturnTime:  it.ReturnTime,
		Origin:      it.Origin,
		Destination: it.Destination,
		IsRoundTrip: it.IsRoundTrip,
		WithDriver:  it.WithDriver,
		Metadata:    it.Metadata,
	}
	if it.ServiceID != uuid.Nil {
		r.ServiceID = it.ServiceID.String()
	}
	return r
}

// DraftResponse is the full package-builder view of a booking
type DraftResponse struct {
	BookingID  uuid.UUID        `json:"booking_id"`
	Items      []ItemResponse   `json:"items"`
	Breakdown  Breakdown        `json:"breakdown"`
	Validation ValidationResult `json:"validation"`
}

// QuoteResponse for a sent quote
type QuoteResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Subtotal   float64   `json:"subtotal"`
	Tax        float64   `json:"tax"`
	ServiceFee float64   `json:"service_fee"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"created_at"`
	Items      int       `json:"items,omitempty"`
}

// ToQuoteResponse converts a quote to its API shape
func ToQuoteResponse(q *Quote, itemCount int) *QuoteResponse {
	return &QuoteResponse{
		ID:         q.ID,
		BookingID:  q.BookingID,
		Subtotal:   q.Subtotal,
		Tax:        q.Tax,
		ServiceFee: q.ServiceFee,
		Total:      q.Total,
		Status:     string(q.Status),
		CreatedAt:  q.CreatedAt.Format(time.RFC3339),
		Items:      itemCount,
	}
}
