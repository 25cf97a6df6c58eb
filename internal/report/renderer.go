// Package report renders the one-page screening report PDF. The layout is a
// fixed sequence of absolute-coordinate drawing calls; all coordinates are in
// points (1/72 inch) measured from the top-left of a US Letter page.
package report

import (
	"strconv"

	"healthe/internal/model"
)

const fontFamily = "Helvetica"

// Page geometry.
const (
	pageWidth  = 612.0 // 8.5in
	pageHeight = 792.0 // 11in
	marginX    = 72.0  // 1in
)

// Vertical layout. The body cursor starts at bodyStartY and advances by
// lineHeight per row; the footer is anchored from the bottom of the page.
const (
	titleY          = 72.0
	refLineY        = 90.0
	generatedLineY  = 102.24
	headerRuleY     = 111.6
	bodyStartY      = 133.2
	valueColX       = 158.4 // 2.2in label/value split
	bulletX         = 86.4  // 1.2in indent for bullets and notes
	lineHeight      = 14.0
	sectionGap      = 6.0 // extra space before the summary heading
	headingAdvance  = lineHeight + 2
	notesGap        = 4.0 // extra space before the notes heading
	footerRuleY     = pageHeight - 97.2
	disclaimerLine1 = pageHeight - 79.2
	disclaimerLine2 = pageHeight - 68.4
)

// Content limits.
const (
	maxOTCItems     = 6   // extra suggestions are silently dropped
	notesWrapWidth  = 92  // hard character wrap, not word-aware
	disclaimerSplit = 115 // fixed split of the disclaimer across two lines
)

const (
	reportTitle      = "Health-E Screening Report"
	summaryHeading   = "AI Screening Summary"
	otcHeading       = "OTC Suggestions (informational):"
	notesHeading     = "Notes:"
	conditionPrefix  = "Likely condition (screening): "
	defaultCondition = "Non-specific symptoms (screening suggestion)"
	defaultNotes     = "This is informational only. Please verify clinically."
	emDash           = "—"
)

const disclaimer = "Disclaimer: Health-E is a prototype. Output is informational only and not a medical diagnosis. " +
	"If symptoms are severe or worsening, seek emergency care."

// drawReport emits the full report layout onto the canvas. It is pure with
// respect to its inputs.
func drawReport(c Canvas, refID string, p *model.Payload) {
	c.SetFont(fontFamily, "B", 16)
	c.Text(marginX, titleY, reportTitle)

	c.SetFont(fontFamily, "", 10)
	c.Text(marginX, refLineY, "Reference ID: "+refID)
	c.Text(marginX, generatedLineY, "Generated (UTC): "+p.CreatedAtUTC)

	c.Line(marginX, headerRuleY, pageWidth-marginX, headerRuleY)

	y := bodyStartY
	labelValue := func(label, value string) {
		c.SetFont(fontFamily, "B", 10)
		c.Text(marginX, y, label+":")
		c.SetFont(fontFamily, "", 10)
		c.Text(valueColX, y, value)
		y += lineHeight
	}
	labelValue("Patient Name", orDash(p.Intake.Name))
	labelValue("Age", ageString(p.Intake.Age))
	labelValue("Sex", orDash(p.Intake.Sex))

	y += sectionGap
	c.SetFont(fontFamily, "B", 11)
	c.Text(marginX, y, summaryHeading)
	y += headingAdvance

	condition := p.AI.Condition
	if condition == "" {
		condition = defaultCondition
	}
	notes := p.AI.Notes
	if notes == "" {
		notes = defaultNotes
	}

	c.SetFont(fontFamily, "", 10)
	c.Text(marginX, y, conditionPrefix+condition)
	y += lineHeight

	c.SetFont(fontFamily, "B", 10)
	c.Text(marginX, y, otcHeading)
	y += lineHeight

	c.SetFont(fontFamily, "", 10)
	if len(p.AI.OTC) == 0 {
		c.Text(bulletX, y, emDash)
		y += lineHeight
	} else {
		items := p.AI.OTC
		if len(items) > maxOTCItems {
			items = items[:maxOTCItems]
		}
		for _, item := range items {
			c.Text(bulletX, y, "• "+item)
			y += lineHeight
		}
	}

	y += notesGap
	c.SetFont(fontFamily, "B", 10)
	c.Text(marginX, y, notesHeading)
	y += lineHeight

	c.SetFont(fontFamily, "", 10)
	for _, line := range wrapHard(notes, notesWrapWidth) {
		c.Text(bulletX, y, line)
		y += lineHeight
	}

	c.Line(marginX, footerRuleY, pageWidth-marginX, footerRuleY)
	c.SetFont(fontFamily, "", 8)
	c.Text(marginX, disclaimerLine1, disclaimer[:disclaimerSplit])
	c.Text(marginX, disclaimerLine2, disclaimer[disclaimerSplit:])
}

func orDash(s string) string {
	if s == "" {
		return emDash
	}
	return s
}

func ageString(age *int) string {
	if age == nil {
		return emDash
	}
	return strconv.Itoa(*age)
}

// wrapHard slices s into width-character lines. The wrap is a plain
// fixed-width cut and may split mid-word.
func wrapHard(s string, width int) []string {
	r := []rune(s)
	var lines []string
	for start := 0; start < len(r); start += width {
		end := start + width
		if end > len(r) {
			end = len(r)
		}
		lines = append(lines, string(r[start:end]))
	}
	return lines
}
