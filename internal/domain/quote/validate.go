package quote

import (
	"fmt"

	"github.com/tripline/tripline-api/internal/domain/booking"
)

// ValidationResult carries blocking errors and advisory warnings for a
// draft. Errors block sending; warnings never do.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether the draft may be sent.
func (v ValidationResult) OK() bool {
	return len(v.Errors) == 0
}

// Validate evaluates the flat rule set over the draft and the booking
// it belongs to. Rules are order-independent; each emits at most one
// message per offending item.
func Validate(items []PackageItem, b *booking.Booking) ValidationResult {
	var res ValidationResult

	flights := 0
	for i := range items {
		it := &items[i]

		if it.EffectivePrice() <= 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("item %q has a zero or negative price", it.Title))
		}

		switch it.Type {
		case TypeFlight:
			flights++
			if b != nil && it.Quantity != b.Travelers {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"flight %q quantity (%d) does not match the traveler count (%d)",
					it.Title, it.Quantity, b.Travelers))
			}
			if it.StartDate == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("flight %q has no departure date", it.Title))
			}
			if it.Origin == "" || it.Destination == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("flight %q is missing departure or arrival", it.Title))
			}
		case TypeNote, TypeOther:
			// free-form lines carry no schedule
		default:
			if it.StartDate == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s %q has no service date", it.Type, it.Title))
			}
		}
	}

	if flights == 0 {
		if b != nil && b.NeedsFlights {
			res.Warnings = append(res.Warnings, "the traveler explicitly requested flights but the package contains none")
		} else {
			res.Warnings = append(res.Warnings, "the package contains no flight items")
		}
	}

	return res
}
