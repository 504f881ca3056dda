package quote_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/domain/quote"
)

func testBooking(travelers int, needsFlights bool) *booking.Booking {
	return &booking.Booking{
		ID:           uuid.New(),
		Travelers:    travelers,
		NeedsFlights: needsFlights,
		Status:       booking.StatusNew,
	}
}

func TestValidateZeroPriceIsError(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeHotel, Title: "Harbour hotel", Quantity: 1, StartDate: "2026-10-01"},
	}

	res := quote.Validate(items, testBooking(1, false))

	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0], "Harbour hotel") {
		t.Errorf("error must reference the item title, got %q", res.Errors[0])
	}
	if res.OK() {
		t.Error("a draft with errors must not be OK")
	}
}

func TestValidateNegativePriceIsError(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeCar, Title: "Rental", Quantity: 1, QuotePrice: fp(-10), StartDate: "2026-10-01"},
	}
	res := quote.Validate(items, testBooking(1, false))
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(res.Errors))
	}
}

func TestValidateFlightQuantityMismatch(t *testing.T) {
	items := []quote.PackageItem{
		{
			ID: uuid.New(), Type: quote.TypeFlight, Title: "NYC-LIS",
			Quantity: 2, QuotePrice: fp(300),
			StartDate: "2026-09-01", Origin: "JFK", Destination: "LIS",
		},
	}

	res := quote.Validate(items, testBooking(3, true))

	if len(res.Errors) != 0 {
		t.Fatalf("mismatch is advisory, got errors: %v", res.Errors)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "(2)") && strings.Contains(w, "(3)") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected quantity-mismatch warning citing 2 and 3, got %v", res.Warnings)
	}
}

func TestValidateMissingFlightsWhenRequested(t *testing.T) {
	res := quote.Validate(nil, testBooking(2, true))

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "explicitly requested flights") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the explicit flights-requested warning, got %v", res.Warnings)
	}
	if !res.OK() {
		t.Error("warnings alone must not block")
	}
}

func TestValidateMissingFlightsGenericWarning(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeHotel, Title: "Hotel", Quantity: 1, QuotePrice: fp(90), StartDate: "2026-10-01"},
	}
	res := quote.Validate(items, testBooking(1, false))

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "no flight items") {
			found = true
		}
		if strings.Contains(w, "explicitly requested") {
			t.Errorf("generic case must not use the explicit wording: %q", w)
		}
	}
	if !found {
		t.Errorf("expected generic no-flights warning, got %v", res.Warnings)
	}
}

func TestValidateFlightMissingDetails(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeFlight, Title: "Mystery flight", Quantity: 2, QuotePrice: fp(500)},
	}

	res := quote.Validate(items, testBooking(2, true))

	var dateWarn, routeWarn bool
	for _, w := range res.Warnings {
		if strings.Contains(w, "departure date") {
			dateWarn = true
		}
		if strings.Contains(w, "departure or arrival") {
			routeWarn = true
		}
	}
	if !dateWarn || !routeWarn {
		t.Errorf("expected date and route warnings, got %v", res.Warnings)
	}
}

func TestValidateServiceDateWarnings(t *testing.T) {
	items := []quote.PackageItem{
		{ID: uuid.New(), Type: quote.TypeHotel, Title: "Dated hotel", Quantity: 1, QuotePrice: fp(100), StartDate: "2026-10-01"},
		{ID: uuid.New(), Type: quote.TypeCar, Title: "Undated car", Quantity: 1, QuotePrice: fp(50)},
		{ID: uuid.New(), Type: quote.TypeNote, Title: "Visa reminder", Quantity: 1, QuotePrice: fp(1)},
		{ID: uuid.New(), Type: quote.TypeOther, Title: "Misc fee", Quantity: 1, QuotePrice: fp(20)},
	}

	res := quote.Validate(items, testBooking(1, false))

	for _, w := range res.Warnings {
		if strings.Contains(w, "Dated hotel") || strings.Contains(w, "Visa reminder") || strings.Contains(w, "Misc fee") {
			t.Errorf("unexpected date warning: %q", w)
		}
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Undated car") && strings.Contains(w, "service date") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected service-date warning for the car, got %v", res.Warnings)
	}
}
