package report

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"healthe/internal/model"
)

// Canvas is the minimal drawing surface the report layout needs: a current
// font, absolute-position text, and straight lines. Keeping the layout on
// this interface keeps it independent of the PDF library and testable
// without producing actual PDF bytes.
type Canvas interface {
	// SetFont selects the font for subsequent Text calls. Style is "" for
	// regular or "B" for bold; size is in points.
	SetFont(family, style string, size float64)
	// Text draws s with its baseline at (x, y), in points from the top-left
	// corner of the page.
	Text(x, y float64, s string)
	// Line draws a straight line between two points.
	Line(x1, y1, x2, y2 float64)
}

// Renderer produces the report artifact for one submission.
type Renderer interface {
	// Render writes a single-page PDF for the payload to path. The payload's
	// own created_at_utc is the only timestamp used; Render never reads the
	// clock. Only I/O failures are returned.
	Render(path, refID string, p *model.Payload) error
}

// PDFRenderer renders reports through a gofpdf-backed canvas.
type PDFRenderer struct{}

// NewPDFRenderer constructs a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var _ Renderer = (*PDFRenderer)(nil)

func (r *PDFRenderer) Render(path, refID string, p *model.Payload) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")

	// Sort the font catalog on output; without this gofpdf numbers the font
	// objects in map-iteration order and identical inputs can produce
	// different bytes.
	pdf.SetCatalogSort(true)

	// Pin the document creation date to the payload timestamp so rendering
	// is a pure function of its inputs.
	if ts, err := time.Parse(time.RFC3339, p.CreatedAtUTC); err == nil {
		pdf.SetCreationDate(ts)
	} else {
		pdf.SetCreationDate(time.Unix(0, 0).UTC())
	}

	// Single page only: overflowing content is drawn off-page, never paginated.
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	drawReport(&pdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}, refID, p)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// pdfCanvas adapts gofpdf to the Canvas interface. tr translates UTF-8 to
// the cp1252 encoding of the core Helvetica font (bullets and em-dashes).
type pdfCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (c *pdfCanvas) SetFont(family, style string, size float64) {
	c.pdf.SetFont(family, style, size)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}
