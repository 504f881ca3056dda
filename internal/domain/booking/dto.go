package booking

import (
	"time"

	"github.com/google/uuid"
)

// RequestedItemInput is one raw line from the public intake form
type RequestedItemInput struct {
	Type        string `json:"type,omitempty" validate:"omitempty,max=40"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Quantity    int    `json:"quantity,omitempty" validate:"omitempty,min=1,max=100"`

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
}

// CreateBookingRequest for submitting a trip request (public)
type CreateBookingRequest struct {
	ContactName  string `json:"contact_name" validate:"required,min=2,max=255"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone,omitempty" validate:"omitempty,min=7,max=20"`

	Destination string `json:"destination,omitempty" validate:"omitempty,max=255"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,trip_date"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,trip_date"`
	Travelers   int    `json:"travelers" validate:"required,min=1,max=50"`

	NeedsFlights bool `json:"needs_flights,omitempty"`
	NeedsHotel   bool `json:"needs_hotel,omitempty"`
	NeedsCar     bool `json:"needs_car,omitempty"`
	NeedsGuide   bool `json:"needs_guide,omitempty"`

	Notes string `json:"notes,omitempty" validate:"omitempty,max=5000"`

	Items []RequestedItemInput `json:"items,omitempty" validate:"omitempty,max=50,dive"`
}

// UpdateStatusRequest for admin status changes
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=2000"`
}

// RequestedItemResponse for API responses
type RequestedItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	IsRoundTrip bool      `json:"is_round_trip,omitempty"`
	WithDriver  bool      `json:"with_driver,omitempty"`
}

// BookingResponse for API responses
type BookingResponse struct {
	ID           uuid.UUID `json:"id"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	StartDate    string    `json:"start_date,omitempty"`
	EndDate      string    `json:"end_date,omitempty"`
	Travelers    int       `json:"travelers"`
	NeedsFlights bool      `json:"needs_flights"`
	NeedsHotel   bool      `json:"needs_hotel"`
	NeedsCar     bool      `json:"needs_car"`
	NeedsGuide   bool      `json:"needs_guide"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    string    `json:"created_at"`

	Items []RequestedItemResponse `json:"items,omitempty"`
}

// ToResponse converts entity to response
func ToResponse(b *Booking, items []RequestedItem) *BookingResponse {
	resp := &BookingResponse{
		ID:           b.ID,
		ContactName:  b.ContactName,
		ContactEmail: b.ContactEmail,
		Travelers:    b.Travelers,
		NeedsFlights: b.NeedsFlights,
		NeedsHotel:   b.NeedsHotel,
		NeedsCar:     b.NeedsCar,
		NeedsGuide:   b.NeedsGuide,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}

	if b.ContactPhone.Valid {
		resp.ContactPhone = b.ContactPhone.String
	}
	if b.Destination.Valid {
		resp.Destination = b.Destination.String
	}
	if b.StartDate.Valid {
		resp.StartDate = b.StartDate.String
	}
	if b.EndDate.Valid {
		resp.EndDate = b.EndDate.String
	}
	if b.Notes.Valid {
		resp.Notes = b.Notes.String
	}

	for _, it := range items {
		resp.Items = append(resp.Items, ToItemResponse(&it))
	}

	return resp
}

// ToItemResponse converts a requested item to response
func ToItemResponse(it *RequestedItem) RequestedItemResponse {
	r := RequestedItemResponse{
		ID:          it.ID,
		Type:        it.RawType,
		Title:       it.Title,
		Quantity:    it.Quantity,
		IsRoundTrip: it.IsRoundTrip,
		WithDriver:  it.WithDriver,
	}
	if it.Description.Valid {
		r.Description = it.Description.String
	}
	if it.StartDate.Valid {
		r.StartDate = it.StartDate.String
	}
	if it.EndDate.Valid {
		r.EndDate = it.EndDate.String
	}
	if it.Origin.Valid {
		r.Origin = it.Origin.String
	}
	if it.Destination.Valid {
		r.Destination = it.Destination.String
	}
	return r
}

// BookingSubmittedResponse for the public intake endpoint
type BookingSubmittedResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Message   string    `json:"message"`
}
