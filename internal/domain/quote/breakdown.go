package quote

import "math"

// Pricing rates applied to every quote.
const (
	TaxRate        = 0.18
	ServiceFeeRate = 0.05
)

// TypeSummary aggregates the draft lines of one item type.
type TypeSummary struct {
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}

// Breakdown is the derived pricing of a draft. It is never persisted
// as-is; it is recomputed from the current draft on every read and
// frozen into a Quote row only at send time.
type Breakdown struct {
	Subtotal   float64                  `json:"subtotal"`
	Tax        float64                  `json:"tax"`
	ServiceFee float64                  `json:"service_fee"`
	Total      float64                  `json:"total"`
	ByType     map[ItemType]TypeSummary `json:"by_type"`
}

// Calculate computes the priced breakdown of the draft.
//
//	subtotal    = Σ quantity × effective unit price
//	tax         = round(subtotal × 0.18)
//	service fee = round(subtotal × 0.05)
//	total       = subtotal + tax + service fee
//
// Plain float64 arithmetic with standard rounding; amounts are display
// figures, not ledger entries.
func Calculate(items []PackageItem) Breakdown {
	b := Breakdown{ByType: make(map[ItemType]TypeSummary)}

	for i := range items {
		line := items[i].LineTotal()
		b.Subtotal += line

		t := items[i].Type
		if !t.Valid() {
			t = TypeOther
		}
		sum := b.ByType[t]
		sum.Count++
		sum.Subtotal += line
		b.ByType[t] = sum
	}

	b.Tax = math.Round(b.Subtotal * TaxRate)
	b.ServiceFee = math.Round(b.Subtotal * ServiceFeeRate)
	b.Total = b.Subtotal + b.Tax + b.ServiceFee
	return b
}
