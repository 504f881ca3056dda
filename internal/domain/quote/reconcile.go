package quote

import (
	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/booking"
)

// BuildDraft merges the traveler's requested items with the lines of a
// previously sent quote (if any) into the initial draft. Requested
// items become un-priced placeholders; prior quote lines overwrite the
// placeholder they answer and carry their price forward. Quote lines
// that answer no requested item are appended after the placeholders.
//
// The result is what Seed installs; it is computed exactly once per
// booking until the draft is cleared.
func BuildDraft(requested []booking.RequestedItem, prior []QuoteItem) []PackageItem {
	draft := make([]PackageItem, 0, len(requested)+len(prior))
	index := make(map[uuid.UUID]int, len(requested))

	for _, req := range requested {
		it := fromRequested(req)
		index[it.ID] = len(draft)
		draft = append(draft, it)
	}

	for _, q := range prior {
		if q.SourceItemID.Valid {
			if pos, ok := index[q.SourceItemID.UUID]; ok {
				overlayQuoteLine(&draft[pos], q)
				continue
			}
		}
		draft = append(draft, fromQuoteLine(q))
	}

	return draft
}

func fromRequested(req booking.RequestedItem) PackageItem {
	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	return PackageItem{
		ID:          id,
		Type:        NormalizeType(req.RawType, req.Title),
		Title:       req.Title,
		Description: req.Description.String,
		Quantity:    qty,
		StartDate:   req.StartDate.String,
		EndDate:     req.EndDate.String,
		StartTime:   req.StartTime.String,
		EndTime:     req.EndTime.String,
		ReturnDate:  req.ReturnDate.String,
		ReturnTime:  req.ReturnTime.String,
		Origin:      req.Origin.String,
		Destination: req.Destination.String,
		IsRoundTrip: req.IsRoundTrip,
		WithDriver:  req.WithDriver,
	}
}

// overlayQuoteLine applies a prior quote line on top of the requested
// placeholder it answers. The quoted price and any fields the operator
// filled in last time win; intake fields survive only where the quote
// left them blank.
func overlayQuoteLine(it *PackageItem, q QuoteItem) {
	price := q.UnitPrice
	it.QuotePrice = &price
	it.Type = q.ItemType

	if q.Title != "" {
		it.Title = q.Title
	}
	if q.Description.Valid {
		it.Description = q.Description.String
	}
	if q.Quantity > 0 {
		it.Quantity = q.Quantity
	}
	if q.ServiceID.Valid {
		it.ServiceID = q.ServiceID.UUID
	}
	if q.StartDate.Valid {
		it.StartDate = q.StartDate.String
	}
	if q.EndDate.Valid {
		it.EndDate = q.EndDate.String
	}
	if q.StartTime.Valid {
		it.StartTime = q.StartTime.String
	}
	if q.EndTime.Valid {
		it.EndTime = q.EndTime.String
	}
	if q.ReturnDate.Valid {
		it.ReturnDate = q.ReturnDate.String
	}
	if q.ReturnTime.Valid {
		it.ReturnTime = q.ReturnTime.String
	}
	if q.Origin.Valid {
		it.Origin = q.Origin.String
	}
	if q.Destination.Valid {
		it.Destination = q.Destination.String
	}
	it.IsRoundTrip = it.IsRoundTrip || q.IsRoundTrip
	it.WithDriver = it.WithDriver || q.WithDriver
}

func fromQuoteLine(q QuoteItem) PackageItem {
	id := q.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	qty := q.Quantity
	if qty < 1 {
		qty = 1
	}

	price := q.UnitPrice
	it := PackageItem{
		ID:          id,
		Type:        q.ItemType,
		Title:       q.Title,
		Description: q.Description.String,
		Quantity:    qty,
		QuotePrice:  &price,
		StartDate:   q.StartDate.String,
		EndDate:     q.EndDate.String,
		StartTime:   q.StartTime.String,
		EndTime:     q.EndTime.String,
		ReturnDate:  q.ReturnDate.String,
		ReturnTime:  q.ReturnTime.String,
		Origin:      q.Origin.String,
		Destination: q.Destination.String,
		IsRoundTrip: q.IsRoundTrip,
		WithDriver:  q.WithDriver,
	}
	if q.ServiceID.Valid {
		it.ServiceID = q.ServiceID.UUID
	}
	if !it.Type.Valid() {
		it.Type = NormalizeType(string(q.ItemType), q.Title)
	}
	return it
}
