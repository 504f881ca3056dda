package quote

import (
	"sync"

	"github.com/google/uuid"
)

// DraftStore holds the in-progress package draft per booking. Drafts
// live in process memory only: a restart loses unsent edits, and there
// is no cross-instance sync (single operator per booking is assumed).
// Last write wins throughout.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID][]PackageItem
}

// NewDraftStore creates an empty draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[uuid.UUID][]PackageItem)}
}

// Items returns a copy of the draft for the booking, or nil when no
// draft exists.
func (s *DraftStore) Items(bookingID uuid.UUID) []PackageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.drafts[bookingID]
	if !ok {
		return nil
	}
	out := make([]PackageItem, len(items))
	copy(out, items)
	return out
}

// Has reports whether a non-empty draft exists for the booking.
func (s *DraftStore) Has(bookingID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts[bookingID]) > 0
}

// Seed installs the reconciled items for the booking, but only when no
// draft exists yet. Returns true when the seed was applied. This is the
// seed-once guarantee: repeated seeding never clobbers operator edits
// until ClearDraft is called.
func (s *DraftStore) Seed(bookingID uuid.UUID, items []PackageItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.drafts[bookingID]) > 0 {
		return false
	}
	cp := make([]PackageItem, len(items))
	copy(cp, items)
	s.drafts[bookingID] = cp
	return true
}

// SetItems replaces the booking's draft wholesale.
func (s *DraftStore) SetItems(bookingID uuid.UUID, items []PackageItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]PackageItem, len(items))
	copy(cp, items)
	s.drafts[bookingID] = cp
}

// AddItem appends an item to the booking's draft.
func (s *DraftStore) AddItem(bookingID uuid.UUID, item PackageItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[bookingID] = append(s.drafts[bookingID], item)
}

// ItemPatch is a shallow partial update of a draft line. Nil fields are
// left untouched.
type ItemPatch struct {
	Type        *ItemType
	Title       *string
	Description *string
	Quantity    *int
	QuotePrice  *float64
	UnitPrice   *float64
	StartDate   *string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	ReturnDate  *string
	ReturnTime  *string
	Origin      *string
	Destination *string
	IsRoundTrip *bool
	WithDriver  *bool
	ServiceID   *uuid.UUID
}

// UpdateItem shallow-merges the patch onto the item with the given id.
// Returns false when the booking has no such item.
func (s *DraftStore) UpdateItem(bookingID, itemID uuid.UUID, patch ItemPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.drafts[bookingID]
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		applyPatch(&items[i], patch)
		return true
	}
	return false
}

func applyPatch(it *PackageItem, p ItemPatch) {
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.QuotePrice != nil {
		it.QuotePrice = p.QuotePrice
	}
	if p.UnitPrice != nil {
		it.UnitPrice = p.UnitPrice
	}
	if p.StartDate != nil {
		it.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		it.EndDate = *p.EndDate
	}
	if p.StartTime != nil {
		it.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		it.EndTime = *p.EndTime
	}
	if p.ReturnDate != nil {
		it.ReturnDate = *p.ReturnDate
	}
	if p.ReturnTime != nil {
		it.ReturnTime = *p.ReturnTime
	}
	if p.Origin != nil {
		it.Origin = *p.Origin
	}
	if p.Destination != nil {
		it.Destination = *p.Destination
	}
	if p.IsRoundTrip != nil {
		it.IsRoundTrip = *p.IsRoundTrip
	}
	if p.WithDriver != nil {
		it.WithDriver = *p.WithDriver
	}
	if p.ServiceID != nil {
		it.ServiceID = *p.ServiceID
	}
}

// RemoveItem deletes the item with the given id from the draft.
// Returns false when the booking has no such item.
func (s *DraftStore) RemoveItem(bookingID, itemID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.drafts[bookingID]
	for i := range items {
		if items[i].ID == itemID {
			s.drafts[bookingID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// ClearDraft drops the booking's draft entirely. The next Seed will
// re-populate it from the booking's requested items and prior quote.
func (s *DraftStore) ClearDraft(bookingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, bookingID)
}
