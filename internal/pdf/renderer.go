package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/sb-insight/agreement-service/internal/agreement"
)

// Page geometry matches the original agreement document: US Letter, 50pt
// margins, 12pt Helvetica body with 1.5 line spacing, 24pt title.
const (
	pageMargin  = 50.0
	bodySize    = 12.0
	titleSize   = 24.0
	lineSpacing = 1.5
)

const acceptedAtFormat = "January 2, 2006 15:04 MST"

// Renderer builds the confirmation PDF for a stored acceptance. The terms
// block is configuration; the renderer never embeds legal text of its own.
type Renderer struct {
	terms string
}

// NewRenderer creates a renderer that appends the given terms text to every
// document.
func NewRenderer(terms string) *Renderer {
	return &Renderer{terms: terms}
}

// Render produces the agreement document. Layout is deterministic: the same
// record and terms always produce byte-identical output.
func (r *Renderer) Render(rec agreement.SubmissionRecord) ([]byte, error) {
	doc := r.build(rec)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("encoding agreement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(rec agreement.SubmissionRecord) *fpdf.Fpdf {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCreationDate(rec.AcceptedAt)
	doc.SetCompression(false)
	// Pagination belongs to the cursor, not the encoder.
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.AddPage()

	pageWidth, pageHeight := doc.GetPageSize()
	maxWidth := pageWidth - 2*pageMargin
	cur := NewCursor(pageMargin, pageHeight-pageMargin)

	measure := func(s string) float64 {
		return doc.GetStringWidth(s)
	}

	write := func(text string, bold bool, size float64) {
		style := ""
		if bold {
			style = "B"
		}
		doc.SetFont("Helvetica", style, size)
		lineHeight := size * lineSpacing
		for _, line := range Wrap(text, maxWidth, measure) {
			y, ok := cur.Line(lineHeight)
			if !ok {
				doc.AddPage()
				cur.Reset()
				y, _ = cur.Line(lineHeight)
			}
			doc.Text(pageMargin, y, line)
		}
	}

	bodyLine := bodySize * lineSpacing

	write("Material License Agreement", true, titleSize)
	cur.Skip(bodyLine)

	write("Agreement Details:", true, bodySize)
	cur.Skip(bodyLine)
	write("Company Name: "+field(rec.CompanyName), false, bodySize)
	write("Business ID: "+field(rec.BusinessID), false, bodySize)
	write("Representative Name: "+field(rec.RepresentativeName), false, bodySize)
	write("Brands: "+field(rec.Brands), false, bodySize)
	write("Invoicing Details: "+field(rec.InvoicingDetails), false, bodySize)
	write("Accepted at: "+rec.AcceptedAt.Format(acceptedAtFormat), false, bodySize)
	cur.Skip(bodyLine)

	write("Terms and Conditions", true, bodySize)
	cur.Skip(bodyLine)
	write(r.terms, false, bodySize)

	return doc
}

// field collapses embedded line breaks so values cannot corrupt the wrapping
// geometry. Empty optional values render as empty, never as a dropped line.
func field(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
