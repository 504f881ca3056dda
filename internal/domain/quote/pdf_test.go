package quote

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", 50)
	got := truncate(s, 42)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 42 {
		t.Errorf("got %d runes, want 42", n)
	}
	if truncate("short", 42) != "short" {
		t.Error("short strings must pass through unchanged")
	}
}

func TestRenderHandlesNonASCIITitles(t *testing.T) {
	q := &Quote{
		ID:         uuid.New(),
		BookingID:  uuid.New(),
		CreatedAt:  time.Now(),
		Subtotal:   100,
		Tax:        18,
		ServiceFee: 5,
		Total:      123,
		Status:     StatusSent,
	}
	items := []QuoteItem{{
		ID:        uuid.New(),
		QuoteID:   q.ID,
		ItemType:  TypeHotel,
		Title:     "Dîner croisière – Café Señorita",
		Quantity:  1,
		UnitPrice: 100,
		StartDate: sql.NullString{String: "2026-09-01", Valid: true},
		EndDate:   sql.NullString{String: "2026-09-04", Valid: true},
	}}

	data, err := NewPDFRenderer("Ångström Travél").Render(q, items)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", data[:16])
	}
}
