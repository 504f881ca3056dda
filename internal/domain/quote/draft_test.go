package quote_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/quote"
)

func TestDraftSeedOnce(t *testing.T) {
	store := quote.NewDraftStore()
	bookingID := uuid.New()

	first := []quote.PackageItem{{ID: uuid.New(), Type: quote.TypeFlight, Title: "Flight A", Quantity: 1}}
	second := []quote.PackageItem{{ID: uuid.New(), Type: quote.TypeHotel, Title: "Hotel B", Quantity: 1}}

	if !store.Seed(bookingID, first) {
		t.Fatal("first seed should apply")
	}
	if store.Seed(bookingID, second) {
		t.Fatal("second seed must be a no-op while the draft is non-empty")
	}

	items := store.Items(bookingID)
	if len(items) != 1 || items[0].Title != "Flight A" {
		t.Fatalf("draft was clobbered by a repeat seed: %+v", items)
	}
}

func TestDraftReseedAfterClear(t *testing.T) {
	store := quote.NewDraftStore()
	bookingID := uuid.New()

	store.Seed(bookingID, []quote.PackageItem{{ID: uuid.New(), Title: "Flight A"}})
	store.ClearDraft(bookingID)

	if store.Has(bookingID) {
		t.Fatal("cleared draft should be gone")
	}
	if !store.Seed(bookingID, []quote.PackageItem{{ID: uuid.New(), Title: "Hotel B"}}) {
		t.Fatal("seed after clear should apply again")
	}
	items := store.Items(bookingID)
	if len(items) != 1 || items[0].Title != "Hotel B" {
		t.Fatalf("re-seed produced wrong draft: %+v", items)
	}
}

func TestDraftUpdateItemShallowMerge(t *testing.T) {
	store := quote.NewDraftStore()
	bookingID := uuid.New()
	itemID := uuid.New()

	store.Seed(bookingID, []quote.PackageItem{{
		ID:       itemID,
		Type:     quote.TypeHotel,
		Title:    "Harbour hotel",
		Quantity: 2,
	}})

	price := 150.0
	qty := 3
	if !store.UpdateItem(bookingID, itemID, quote.ItemPatch{QuotePrice: &price, Quantity: &qty}) {
		t.Fatal("update should find the item")
	}

	items := store.Items(bookingID)
	if items[0].Title != "Harbour hotel" {
		t.Error("untouched fields must survive the patch")
	}
	if items[0].Quantity != 3 || items[0].EffectivePrice() != 150 {
		t.Errorf("patched fields not applied: %+v", items[0])
	}

	if store.UpdateItem(bookingID, uuid.New(), quote.ItemPatch{Quantity: &qty}) {
		t.Error("updating an unknown item must report false")
	}
}

func TestDraftRemoveItem(t *testing.T) {
	store := quote.NewDraftStore()
	bookingID := uuid.New()
	keep := uuid.New()
	drop := uuid.New()

	store.Seed(bookingID, []quote.PackageItem{
		{ID: keep, Title: "Keep"},
		{ID: drop, Title: "Drop"},
	})

	if !store.RemoveItem(bookingID, drop) {
		t.Fatal("remove should find the item")
	}
	items := store.Items(bookingID)
	if len(items) != 1 || items[0].ID != keep {
		t.Fatalf("wrong item removed: %+v", items)
	}
	if store.RemoveItem(bookingID, drop) {
		t.Error("removing twice must report false")
	}
}

func TestDraftItemsReturnsCopy(t *testing.T) {
	store := quote.NewDraftStore()
	bookingID := uuid.New()
	store.Seed(bookingID, []quote.PackageItem{{ID: uuid.New(), Title: "Original"}})

	items := store.Items(bookingID)
	items[0].Title = "Mutated"

	if store.Items(bookingID)[0].Title != "Original" {
		t.Fatal("Items must return a copy, not the backing slice")
	}
}

func TestDraftStoresAreIndependentPerBooking(t *testing.T) {
	store := quote.NewDraftStore()
	a, b := uuid.New(), uuid.New()

	store.Seed(a, []quote.PackageItem{{ID: uuid.New(), Title: "A"}})
	store.AddItem(b, quote.PackageItem{ID: uuid.New(), Title: "B"})
	store.ClearDraft(a)

	if store.Has(a) {
		t.Error("clearing booking A should not leave a draft behind")
	}
	if !store.Has(b) {
		t.Error("booking B draft must be unaffected")
	}
}
