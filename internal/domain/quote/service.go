package quote

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripline/tripline-api/internal/domain/booking"
)

// BookingStore is the slice of the booking domain the package builder
// needs.
type BookingStore interface {
	GetWithItems(ctx context.Context, id uuid.UUID) (*booking.Booking, []booking.RequestedItem, error)
	MarkQuoted(ctx context.Context, id uuid.UUID) error
}

// VendorNotification is the snapshot posted to the vendor gateway for
// one package line.
type VendorNotification struct {
	BookingID uuid.UUID `json:"booking_id"`
	ItemID    uuid.UUID `json:"item_id"`
	ServiceID uuid.UUID `json:"service_id"`

	Title    string `json:"title"`
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`

	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	ReturnDate string `json:"return_date,omitempty"`
	ReturnTime string `json:"return_time,omitempty"`

	Origin      string            `json:"origin,omitempty"`
	Destination string            `json:"destination,omitempty"`
	IsRoundTrip bool              `json:"is_round_trip,omitempty"`
	WithDriver  bool              `json:"with_driver,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// Partner endpoint of the owning vendor; the gateway delivers
	// there directly when set.
	NotifyURL string `json:"notify_url,omitempty"`
}

// VendorNotifier posts line-item notifications to the vendor gateway.
type VendorNotifier interface {
	NotifyVendor(ctx context.Context, n VendorNotification) error
}

// VendorDirectory resolves the partner endpoint of the vendor behind
// a catalog service. Empty means the gateway's default fan-out.
type VendorDirectory interface {
	NotifyURLByService(ctx context.Context, serviceID uuid.UUID) (string, error)
}

// EventPublisher pushes back-office events to connected operators.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

// Service drives the package-builder workflow: seeding and editing the
// draft, pricing it, validating it, and turning it into a sent quote.
type Service struct {
	drafts   *DraftStore
	repo     Repository
	bookings BookingStore
	notifier VendorNotifier
	vendors  VendorDirectory
	events   EventPublisher

	mu        sync.Mutex
	notifying map[uuid.UUID]bool
}

// NewService creates quote service
func NewService(drafts *DraftStore, repo Repository, bookings BookingStore, notifier VendorNotifier, vendors VendorDirectory, events EventPublisher) *Service {
	return &Service{
		drafts:    drafts,
		repo:      repo,
		bookings:  bookings,
		notifier:  notifier,
		vendors:   vendors,
		events:    events,
		notifying: make(map[uuid.UUID]bool),
	}
}

// Draft returns the current draft for the booking, seeding it first if
// none exists. Seeding merges the requested items with the latest sent
// quote and happens at most once until the draft is discarded.
func (s *Service) Draft(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, []PackageItem, error) {
	b, requested, err := s.bookings.GetWithItems(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	if !s.drafts.Has(bookingID) {
		_, prior, err := s.repo.GetLatestByBooking(ctx, bookingID)
		if err != nil {
			return nil, nil, err
		}
		if s.drafts.Seed(bookingID, BuildDraft(requested, prior)) {
			log.Debug().
				Str("booking_id", bookingID.String()).
				Int("requested", len(requested)).
				Int("prior_quote_items", len(prior)).
				Msg("Seeded package draft")
		}
	}

	return b, s.drafts.Items(bookingID), nil
}

// AddItem appends a new ad-hoc line to the draft.
func (s *Service) AddItem(ctx context.Context, bookingID uuid.UUID, item PackageItem) (*PackageItem, error) {
	b, _, err := s.Draft(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsClosed() {
		return nil, ErrBookingClosed
	}

	item.ID = uuid.New()
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if !item.Type.Valid() {
		item.Type = NormalizeType(string(item.Type), item.Title)
	}

	s.drafts.AddItem(bookingID, item)
	return &item, nil
}

// UpdateItem shallow-merges a patch onto one draft line.
func (s *Service) UpdateItem(ctx context.Context, bookingID, itemID uuid.UUID, patch ItemPatch) error {
	if _, _, err := s.Draft(ctx, bookingID); err != nil {
		return err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return ErrInvalidItemType
	}
	if !s.drafts.UpdateItem(bookingID, itemID, patch) {
		return ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes one draft line.
func (s *Service) RemoveItem(ctx context.Context, bookingID, itemID uuid.UUID) error {
	if _, _, err := s.Draft(ctx, bookingID); err != nil {
		return err
	}
	if !s.drafts.RemoveItem(bookingID, itemID) {
		return ErrItemNotFound
	}
	return nil
}

// Discard drops the draft; the next read re-seeds from scratch.
func (s *Service) Discard(ctx context.Context, bookingID uuid.UUID) error {
	if _, _, err := s.bookings.GetWithItems(ctx, bookingID); err != nil {
		return err
	}
	s.drafts.ClearDraft(bookingID)
	return nil
}

// Review prices and validates the current draft.
func (s *Service) Review(ctx context.Context, bookingID uuid.UUID) ([]PackageItem, Breakdown, ValidationResult, error) {
	b, items, err := s.Draft(ctx, bookingID)
	if err != nil {
		return nil, Breakdown{}, ValidationResult{}, err
	}
	return items, Calculate(items), Validate(items, b), nil
}

// SendQuote freezes the draft into a persisted quote. An empty draft
// or one with validation errors is rejected before anything is
// written; a successful send clears the draft and marks the booking
// quoted. There is no idempotency key: calling again re-sends and
// supersedes the previous quote.
func (s *Service) SendQuote(ctx context.Context, bookingID uuid.UUID) (*Quote, ValidationResult, error) {
	b, items, err := s.Draft(ctx, bookingID)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	if b.IsClosed() {
		return nil, ValidationResult{}, ErrBookingClosed
	}
	if len(items) == 0 {
		return nil, ValidationResult{}, ErrEmptyDraft
	}

	validation := Validate(items, b)
	if !validation.OK() {
		return nil, validation, ErrValidationFailed
	}

	breakdown := Calculate(items)
	now := time.Now()

	q := &Quote{
		ID:         uuid.New(),
		BookingID:  bookingID,
		CreatedAt:  now,
		Subtotal:   breakdown.Subtotal,
		Tax:        breakdown.Tax,
		ServiceFee: breakdown.ServiceFee,
		Total:      breakdown.Total,
		Status:     StatusSent,
	}

	rows := make([]QuoteItem, 0, len(items))
	for i := range items {
		rows = append(rows, toQuoteItem(q.ID, &items[i]))
	}

	if err := s.repo.Create(ctx, q, rows); err != nil {
		return nil, validation, err
	}

	if err := s.bookings.MarkQuoted(ctx, bookingID); err != nil {
		// The quote row exists; surface the inconsistency but keep it.
		log.Error().Err(err).
			Str("booking_id", bookingID.String()).
			Str("quote_id", q.ID.String()).
			Msg("Quote sent but booking status update failed")
	}

	s.drafts.ClearDraft(bookingID)

	if s.events != nil {
		s.events.Publish(ctx, "quote_sent", map[string]interface{}{
			"booking_id": bookingID,
			"quote_id":   q.ID,
			"total":      q.Total,
		})
	}

	log.Info().
		Str("booking_id", bookingID.String()).
		Str("quote_id", q.ID.String()).
		Float64("total", q.Total).
		Int("items", len(rows)).
		Msg("Quote sent")

	return q, validation, nil
}

// NotifyVendor posts one draft line to the vendor gateway. The line
// must reference a saved catalog service; ad-hoc lines have to be
// saved first. At most one notification per item is in flight at a
// time, so a double-click cannot fan out twice.
func (s *Service) NotifyVendor(ctx context.Context, bookingID, itemID uuid.UUID, note string) error {
	_, items, err := s.Draft(ctx, bookingID)
	if err != nil {
		return err
	}

	var item *PackageItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.ServiceID == uuid.Nil {
		return ErrItemNotPersisted
	}

	s.mu.Lock()
	if s.notifying[itemID] {
		s.mu.Unlock()
		return ErrNotifyInFlight
	}
	s.notifying[itemID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.notifying, itemID)
		s.mu.Unlock()
	}()

	var notifyURL string
	if s.vendors != nil {
		u, err := s.vendors.NotifyURLByService(ctx, item.ServiceID)
		if err != nil {
			log.Warn().Err(err).
				Str("service_id", item.ServiceID.String()).
				Msg("Vendor endpoint lookup failed, using gateway fan-out")
		} else {
			notifyURL = u
		}
	}

	return s.notifier.NotifyVendor(ctx, VendorNotification{
		BookingID:   bookingID,
		ItemID:      item.ID,
		ServiceID:   item.ServiceID,
		Title:       item.Title,
		ItemType:    string(item.Type),
		Quantity:    item.Quantity,
		Note:        note,
		StartDate:   item.StartDate,
		EndDate:     item.EndDate,
		StartTime:   item.StartTime,
		EndTime:     item.EndTime,
		ReturnDate:  item.ReturnDate,
		ReturnTime:  item.ReturnTime,
		Origin:      item.Origin,
		Destination: item.Destination,
		IsRoundTrip: item.IsRoundTrip,
		WithDriver:  item.WithDriver,
		Metadata:    item.Metadata,
		NotifyURL:   notifyURL,
	})
}

// LatestQuote returns the most recent sent quote with its lines.
func (s *Service) LatestQuote(ctx context.Context, bookingID uuid.UUID) (*Quote, []QuoteItem, error) {
	q, items, err := s.repo.GetLatestByBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if q == nil {
		return nil, nil, ErrQuoteNotFound
	}
	return q, items, nil
}

func toQuoteItem(quoteID uuid.UUID, it *PackageItem) QuoteItem {
	row := QuoteItem{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		ItemType:    it.Type,
		Title:       it.Title,
		Description: sql.NullString{String: it.Description, Valid: it.Description != ""},
		Quantity:    it.Quantity,
		UnitPrice:   it.EffectivePrice(),
		StartDate:   sql.NullString{String: it.StartDate, Valid: it.StartDate != ""},
		EndDate:     sql.NullString{String: it.EndDate, Valid: it.EndDate != ""},
		StartTime:   sql.NullString{String: it.StartTime, Valid: it.StartTime != ""},
		EndTime:     sql.NullString{String: it.EndTime, Valid: it.EndTime != ""},
		ReturnDate:  sql.NullString{String: it.ReturnDate, Valid: it.ReturnDate != ""},
		ReturnTime:  sql.NullString{String: it.ReturnTime, Valid: it.ReturnTime != ""},
		Origin:      sql.NullString{String: it.Origin, Valid: it.Origin != ""},
		Destination: sql.NullString{String: it.Destination, Valid: it.Destination != ""},
		IsRoundTrip: it.IsRoundTrip,
		WithDriver:  it.WithDriver,
	}

	// Draft lines seeded from intake keep the requested item's id, so
	// the next reconciliation can match them back up.
	row.SourceItemID = uuid.NullUUID{UUID: it.ID, Valid: true}

	if it.ServiceID != uuid.Nil {
		row.ServiceID = uuid.NullUUID{UUID: it.ServiceID, Valid: true}
	}

	return row
}
