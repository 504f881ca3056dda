package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// EventPublisher pushes back-office feed events
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

// Service handles booking business logic
type Service struct {
	repo   Repository
	events EventPublisher
}

// NewService creates booking service
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

// Submit creates a new trip request (public endpoint)
func (s *Service) Submit(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	now := time.Now()

	b := &Booking{
		ID:           uuid.New(),
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: sql.NullString{String: req.ContactPhone, Valid: req.ContactPhone != ""},
		Destination:  sql.NullString{String: req.Destination, Valid: req.Destination != ""},
		StartDate:    sql.NullString{String: req.StartDate, Valid: req.StartDate != ""},
		EndDate:      sql.NullString{String: req.EndDate, Valid: req.EndDate != ""},
		Travelers:    req.Travelers,
		NeedsFlights: req.NeedsFlights,
		NeedsHotel:   req.NeedsHotel,
		NeedsCar:     req.NeedsCar,
		NeedsGuide:   req.NeedsGuide,
		Notes:        sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Status:       StatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items := make([]RequestedItem, 0, len(req.Items))
	for _, in := range req.Items {
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, RequestedItem{
			ID:          uuid.New(),
			BookingID:   b.ID,
			CreatedAt:   now,
			RawType:     in.Type,
			Title:       in.Title,
			Description: sql.NullString{String: in.Description, Valid: in.Description != ""},
			Quantity:    qty,
			StartDate:   sql.NullString{String: in.StartDate, Valid: in.StartDate != ""},
			EndDate:     sql.NullString{String: in.EndDate, Valid: in.EndDate != ""},
			StartTime:   sql.NullString{String: in.StartTime, Valid: in.StartTime != ""},
			EndTime:     sql.NullString{String: in.EndTime, Valid: in.EndTime != ""},
			ReturnDate:  sql.NullString{String: in.ReturnDate, Valid: in.ReturnDate != ""},
			ReturnTime:  sql.NullString{String: in.ReturnTime, Valid: in.ReturnTime != ""},
			Origin:      sql.NullString{String: in.Origin, Valid: in.Origin != ""},
			Destination: sql.NullString{String: in.Destination, Valid: in.Destination != ""},
			IsRoundTrip: in.IsRoundTrip,
			WithDriver:  in.WithDriver,
		})
	}

	if err := s.repo.Create(ctx, b, items); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(ctx, "booking_created", map[string]interface{}{
			"booking_id":  b.ID,
			"contact":     b.ContactName,
			"destination": req.Destination,
		})
	}

	return b, nil
}

// GetByID returns booking by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// GetWithItems returns booking together with its requested items
func (s *Service) GetWithItems(ctx context.Context, id uuid.UUID) (*Booking, []RequestedItem, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return b, items, nil
}

// List returns bookings with optional status filter
func (s *Service) List(ctx context.Context, status *Status, limit, offset int) ([]*Booking, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateStatus updates booking status with transition guard
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reason string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}

	if b.IsClosed() {
		return ErrBookingClosed
	}

	switch status {
	case StatusNew, StatusQuoted, StatusAccepted, StatusRejected, StatusCancelled:
	default:
		return ErrInvalidStatus
	}

	// accepted requires a quote to exist
	if status == StatusAccepted && b.Status != StatusQuoted {
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, id, status, reason)
}

// MarkQuoted flips a booking to quoted after a quote is sent
func (s *Service) MarkQuoted(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}
	if b.IsClosed() {
		return ErrBookingClosed
	}
	return s.repo.UpdateStatus(ctx, id, StatusQuoted, "")
}

// GetStats returns booking counts per status
func (s *Service) GetStats(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}
