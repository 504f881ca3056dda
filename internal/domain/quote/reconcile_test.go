package quote_test

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/domain/quote"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw   string
		title string
		want  quote.ItemType
	}{
		{"flight", "anything", quote.TypeFlight},
		{"HOTEL", "anything", quote.TypeHotel},
		{"", "Round-trip flight to Lisbon", quote.TypeFlight},
		{"other", "Beachfront resort stay", quote.TypeHotel},
		{"", "Airport transfer", quote.TypeTransport},
		{"", "4x4 rental for safari", quote.TypeCar},
		{"", "Private guide in Rome", quote.TypeGuide},
		{"", "Travel insurance", quote.TypeOther},
		{"bogus", "something unmatchable", quote.TypeOther},
	}

	for _, tc := range tests {
		if got := quote.NormalizeType(tc.raw, tc.title); got != tc.want {
			t.Errorf("NormalizeType(%q, %q) = %q, want %q", tc.raw, tc.title, got, tc.want)
		}
	}
}

func TestBuildDraftFromRequestedOnly(t *testing.T) {
	reqID := uuid.New()
	requested := []booking.RequestedItem{
		{ID: reqID, RawType: "", Title: "Flight to Nairobi", Quantity: 2, Origin: ns("JFK"), Destination: ns("NBO")},
		{ID: uuid.New(), RawType: "hotel", Title: "Safari lodge", Quantity: 3},
	}

	draft := quote.BuildDraft(requested, nil)

	if len(draft) != 2 {
		t.Fatalf("draft has %d items, want 2", len(draft))
	}
	if draft[0].ID != reqID {
		t.Error("requested item id should be preserved")
	}
	if draft[0].Type != quote.TypeFlight {
		t.Errorf("first item type = %q, want flight (keyword-normalized)", draft[0].Type)
	}
	if draft[0].EffectivePrice() != 0 {
		t.Error("requested-only lines must be un-priced placeholders")
	}
	if draft[0].Origin != "JFK" || draft[0].Destination != "NBO" {
		t.Errorf("route not carried over: %q -> %q", draft[0].Origin, draft[0].Destination)
	}
}

func TestBuildDraftMergesPriorQuote(t *testing.T) {
	reqID := uuid.New()
	svcID := uuid.New()
	requested := []booking.RequestedItem{
		{ID: reqID, RawType: "flight", Title: "Flight to Nairobi", Quantity: 2, Origin: ns("JFK")},
		{ID: uuid.New(), RawType: "car", Title: "Rental car", Quantity: 1},
	}
	prior := []quote.QuoteItem{
		{
			ID:           uuid.New(),
			SourceItemID: uuid.NullUUID{UUID: reqID, Valid: true},
			ServiceID:    uuid.NullUUID{UUID: svcID, Valid: true},
			ItemType:     quote.TypeFlight,
			Title:        "Flight to Nairobi (KQ003)",
			Quantity:     2,
			UnitPrice:    640,
			StartDate:    ns("2026-09-12"),
		},
		{
			ID:        uuid.New(),
			ItemType:  quote.TypeGuide,
			Title:     "Masai Mara guide",
			Quantity:  1,
			UnitPrice: 200,
		},
	}

	draft := quote.BuildDraft(requested, prior)

	if len(draft) != 3 {
		t.Fatalf("draft has %d items, want 3 (2 requested + 1 quote-only)", len(draft))
	}

	flight := draft[0]
	if flight.ID != reqID {
		t.Error("merged line must keep the requested item id")
	}
	if flight.EffectivePrice() != 640 {
		t.Errorf("merged line price = %v, want 640 from the prior quote", flight.EffectivePrice())
	}
	if flight.Title != "Flight to Nairobi (KQ003)" {
		t.Errorf("quote title should overwrite the placeholder, got %q", flight.Title)
	}
	if flight.ServiceID != svcID {
		t.Error("merged line should carry the catalog service link")
	}
	if flight.StartDate != "2026-09-12" {
		t.Errorf("quote schedule should overwrite, got %q", flight.StartDate)
	}
	// intake field the quote left blank survives
	if flight.Origin != "JFK" {
		t.Errorf("intake origin should survive the overlay, got %q", flight.Origin)
	}

	car := draft[1]
	if car.EffectivePrice() != 0 {
		t.Error("unmatched requested item must stay un-priced")
	}

	guide := draft[2]
	if guide.Type != quote.TypeGuide || guide.EffectivePrice() != 200 {
		t.Errorf("quote-only line appended wrong: %+v", guide)
	}
}

func TestBuildDraftGeneratesIDWhenMissing(t *testing.T) {
	requested := []booking.RequestedItem{
		{Title: "Untitled line", Quantity: 1},
	}
	draft := quote.BuildDraft(requested, nil)
	if draft[0].ID == uuid.Nil {
		t.Fatal("missing intake id must be replaced with a generated one")
	}
}
