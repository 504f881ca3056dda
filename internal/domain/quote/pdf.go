package quote

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders a sent quote as a printable document the
// operator can attach to the traveler email.
type PDFRenderer struct {
	companyName string
	tagline     string
}

// NewPDFRenderer creates a quote PDF renderer
func NewPDFRenderer(companyName string) *PDFRenderer {
	if companyName == "" {
		companyName = "Tripline"
	}
	return &PDFRenderer{
		companyName: companyName,
		tagline:     "Your trip, priced and ready",
	}
}

// Render produces the PDF bytes for a sent quote.
func (p *PDFRenderer) Render(q *Quote, items []QuoteItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; route every string with user text or
	// non-ASCII punctuation through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(16, 42, 67)
	pdf.Rect(0, 0, 210, 26, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 7)
	pdf.CellFormat(100, 10, tr(p.companyName), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(222, 184, 96)
	pdf.SetXY(20, 16)
	pdf.CellFormat(170, 6, tr(p.tagline), "", 1, "L", false, 0, "")

	pdf.SetY(34)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(170, 8, "Travel Quote", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(170, 5, tr(fmt.Sprintf("Quote %s · issued %s",
		shortID(q.ID.String()), q.CreatedAt.Format("02 Jan 2006"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	// Item table header
	pdf.SetFillColor(16, 42, 67)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 7, "  Item", "", 0, "L", true, 0, "")
	pdf.CellFormat(28, 7, "Type", "", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Schedule", "", 0, "L", true, 0, "")
	pdf.CellFormat(12, 7, "Qty", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	fill := false
	for _, it := range items {
		if fill {
			pdf.SetFillColor(243, 246, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(70, 7, "  "+tr(truncate(it.Title, 42)), "", 0, "L", true, 0, "")
		pdf.CellFormat(28, 7, string(it.ItemType), "", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, tr(scheduleOf(it)), "", 0, "L", true, 0, "")
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "R", true, 0, "")
		pdf.CellFormat(30, 7, money(float64(it.Quantity)*it.UnitPrice), "", 1, "R", true, 0, "")

		fill = !fill
	}
	pdf.Ln(4)

	// Totals
	totalRow := func(label, value string, strong bool) {
		if strong {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetFillColor(222, 184, 96)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(110, 8, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, label, "", 0, "L", strong, 0, "")
		pdf.CellFormat(30, 8, value, "", 1, "R", strong, 0, "")
	}

	totalRow("Subtotal", money(q.Subtotal), false)
	totalRow(fmt.Sprintf("Tax (%.0f%%)", TaxRate*100), money(q.Tax), false)
	totalRow(fmt.Sprintf("Service (%.0f%%)", ServiceFeeRate*100), money(q.ServiceFee), false)
	totalRow("Total", money(q.Total), true)

	// Footer
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		tr(fmt.Sprintf("%s · quote valid for 14 days from issue · generated %s",
			p.companyName, time.Now().Format("02 Jan 2006"))),
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("quote pdf output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func scheduleOf(it QuoteItem) string {
	switch {
	case it.StartDate.Valid && it.EndDate.Valid:
		return prettyDate(it.StartDate.String) + "–" + prettyDate(it.EndDate.String)
	case it.StartDate.Valid:
		return prettyDate(it.StartDate.String)
	default:
		return "—"
	}
}

func prettyDate(iso string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format("02 Jan")
}
