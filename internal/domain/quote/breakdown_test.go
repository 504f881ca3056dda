package quote_test

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/quote"
)

func fp(v float64) *float64 { return &v }

func TestCalculateBreakdown(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeFlight, Title: "NYC-LIS round trip", Quantity: 2, QuotePrice: fp(300)},
		{ID: uuid.New(), Type: quote.TypeHotel, Title: "Lisbon hotel", Quantity: 4, UnitPrice: fp(120)},
		{ID: uuid.New(), Type: quote.TypeGuide, Title: "City walking tour", Quantity: 1, Price: fp(80)},
	}

	b := quote.Calculate(items)

	wantSubtotal := 2*300.0 + 4*120.0 + 80.0
	if b.Subtotal != wantSubtotal {
		t.Fatalf("subtotal = %v, want %v", b.Subtotal, wantSubtotal)
	}
	if b.Tax != math.Round(wantSubtotal*0.18) {
		t.Errorf("tax = %v, want %v", b.Tax, math.Round(wantSubtotal*0.18))
	}
	if b.ServiceFee != math.Round(wantSubtotal*0.05) {
		t.Errorf("service fee = %v, want %v", b.ServiceFee, math.Round(wantSubtotal*0.05))
	}
	if b.Total != b.Subtotal+b.Tax+b.ServiceFee {
		t.Errorf("total = %v, want %v", b.Total, b.Subtotal+b.Tax+b.ServiceFee)
	}
}

func TestCalculateGroupsByType(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeFlight, Quantity: 1, QuotePrice: fp(500)},
		{ID: uuid.New(), Type: quote.TypeFlight, Quantity: 1, QuotePrice: fp(450)},
		{ID: uuid.New(), Type: quote.TypeCar, Quantity: 3, QuotePrice: fp(60)},
	}

	b := quote.Calculate(items)

	flights := b.ByType[quote.TypeFlight]
	if flights.Count != 2 || flights.Subtotal != 950 {
		t.Errorf("flight group = %+v, want count 2 subtotal 950", flights)
	}
	cars := b.ByType[quote.TypeCar]
	if cars.Count != 1 || cars.Subtotal != 180 {
		t.Errorf("car group = %+v, want count 1 subtotal 180", cars)
	}
	if _, ok := b.ByType[quote.TypeHotel]; ok {
		t.Error("empty type should not appear in grouping")
	}
}

func TestEffectivePricePrecedence(t *testing.T) {
	tests := []struct {
		name string
		item quote.PackageItem
		want float64
	}{
		{"quote price wins", quote.PackageItem{QuotePrice: fp(100), UnitPrice: fp(50), Price: fp(25)}, 100},
		{"unit price next", quote.PackageItem{UnitPrice: fp(50), Price: fp(25)}, 50},
		{"raw price last", quote.PackageItem{Price: fp(25)}, 25},
		{"defaults to zero", quote.PackageItem{}, 0},
		{"quote price zero still wins", quote.PackageItem{QuotePrice: fp(0), UnitPrice: fp(50)}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.EffectivePrice(); got != tc.want {
				t.Fatalf("effective price = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLineTotalClampsQuantity(t *testing.T) {
	it := quote.PackageItem{Quantity: 0, QuotePrice: fp(40)}
	if got := it.LineTotal(); got != 40 {
		t.Fatalf("line total with zero quantity = %v, want 40", got)
	}
}

func TestCalculateEmptyDraft(t *testing.T) {
	b := quote.Calculate(nil)
	if b.Subtotal != 0 || b.Tax != 0 || b.ServiceFee != 0 || b.Total != 0 {
		t.Fatalf("empty draft breakdown = %+v, want all zero", b)
	}
}
