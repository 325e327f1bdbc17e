package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

type rgb struct{ r, g, b int }

var ratingColors = map[string]rgb{
	"green":  {40, 167, 69},
	"yellow": {255, 193, 7},
	"red":    {220, 53, 69},
}

var neutral = rgb{108, 117, 125}

func ratingColor(rating string) rgb {
	if c, ok := ratingColors[rating]; ok {
		return c
	}
	return neutral
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *pdfWriter) color(c rgb) {
	p.pdf.SetTextColor(c.r, c.g, c.b)
}

func (p *pdfWriter) line(text string, h float64) {
	p.pdf.MultiCell(0, h, p.tr(text), "", "L", false)
}

func (p *pdfWriter) centered(text string, h float64) {
	p.pdf.CellFormat(0, h, p.tr(text), "", 1, "C", false, 0, "")
}

func (p *pdfWriter) heading(text string, size float64) {
	p.font("B", size)
	p.line(text, size*0.5)
	p.pdf.Ln(2)
	p.font("", 10)
}

// WritePDF writes a paginated A4 report.
func WritePDF(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreator("AURIXON", true)
	pdf.SetTitle("GHG Emissions Report", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AliasNbPages("")

	p := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		p.font("", 8)
		p.color(neutral)
		p.centered(fmt.Sprintf("Report generated on %s  |  Page %d of {nb}",
			doc.GeneratedAt.Format("2006-01-02"), pdf.PageNo()), 6)
		p.color(rgb{})
	})

	pdf.AddPage()

	p.font("B", 22)
	p.centered("GHG Emissions Report", 12)
	p.font("", 14)
	p.centered(doc.Header.CompanyName, 8)
	p.font("", 10)
	p.centered(fmt.Sprintf("%s | %s to %s", doc.Header.PeriodName,
		doc.Header.StartDate.Format("2006-01-02"), doc.Header.EndDate.Format("2006-01-02")), 6)
	pdf.Ln(8)

	writePerformance(p, doc)
	writeSummary(p, doc)
	if doc.Options.IncludeBreakdown {
		writeBreakdown(p, doc)
	}
	writeComposition(p, doc)
	if doc.Options.IncludeDetails {
		writeDetails(p, doc)
	}
	writeImprovements(p, doc)
	writeRecommendations(p, doc)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writePerformance(p *pdfWriter, doc *Document) {
	if doc.Overall == "" {
		return
	}
	p.heading("Performance Summary", 16)

	p.font("B", 12)
	p.color(ratingColor(doc.Overall))
	p.line("Overall Rating: "+strings.ToUpper(doc.Overall), 7)
	p.color(rgb{})

	if len(doc.Scopes) > 0 {
		p.pdf.Ln(2)
		p.font("B", 11)
		p.line("Scope-Level Performance:", 6)
		p.font("", 10)
		for _, s := range doc.Scopes {
			p.color(ratingColor(s.Rating))
			p.line(fmt.Sprintf("    %s: %s (%s MT CO2e)", s.Label, strings.ToUpper(s.Rating), formatFixed(s.Emissions, 2)), 6)
		}
		p.color(rgb{})
	}
	p.pdf.Ln(6)
}

func writeSummary(p *pdfWriter, doc *Document) {
	p.heading("Executive Summary", 16)
	p.line(fmt.Sprintf("Total GHG Emissions: %s MT CO2e", formatFixed(doc.TotalEmissions, 2)), 6)
	industry := doc.Header.Industry
	if industry == "" {
		industry = "N/A"
	}
	p.line("Industry: "+industry, 6)
	p.line("Status: "+doc.Header.Status, 6)

	if len(doc.Intensity) > 0 {
		p.pdf.Ln(2)
		p.font("B", 11)
		p.line("Carbon Intensity:", 6)
		p.font("", 10)
		for _, i := range doc.Intensity {
			p.line(fmt.Sprintf("    %s MT CO2e %s", formatFixed(i.Value, 3), i.Label), 6)
		}
	}
	p.pdf.Ln(6)
}

func writeBreakdown(p *pdfWriter, doc *Document) {
	p.heading("Emissions Breakdown by Activity Type", 14)
	if len(doc.Breakdown) == 0 {
		p.line("No calculated activities for this period.", 6)
	}
	for _, b := range doc.Breakdown {
		p.line(fmt.Sprintf("%s: %s MT CO2e (%s%%)", activityLabel(b.ActivityType),
			formatFixed(b.Emissions, 2), formatFixed(b.Percent, 1)), 6)
		p.line(fmt.Sprintf("    Activities: %d", b.Count), 5)
		p.pdf.Ln(1)
	}
	p.pdf.Ln(5)
}

func writeComposition(p *pdfWriter, doc *Document) {
	p.heading("GHG Composition", 14)
	for _, g := range doc.Composition {
		p.line(fmt.Sprintf("%s: %s MT (%s%%)", g.Gas, formatFixed(g.Mass, 3), formatFixed(g.Percent, 1)), 6)
	}
	p.pdf.Ln(6)
}

func writeDetails(p *pdfWriter, doc *Document) {
	if len(doc.Details) == 0 {
		return
	}
	p.heading("Calculation Details", 14)

	widths := []float64{50, 30, 25, 25, 44}
	headers := []string{"Activity Type", "Total (MT CO2e)", "CO2 (MT)", "CH4 (MT)", "Calculated At"}

	p.font("B", 9)
	for i, h := range headers {
		p.pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	p.pdf.Ln(-1)

	p.font("", 9)
	for _, d := range doc.Details {
		cells := []string{
			activityLabel(d.ActivityType),
			formatFixed(d.Total, 3),
			formatFixed(d.CO2, 3),
			formatFixed(d.CH4, 4),
			d.CalculatedAt.UTC().Format("2006-01-02 15:04"),
		}
		for i, c := range cells {
			p.pdf.CellFormat(widths[i], 6, p.tr(c), "", 0, "L", false, 0, "")
		}
		p.pdf.Ln(-1)
	}
	p.font("", 10)
	p.pdf.Ln(6)
}

func writeImprovements(p *pdfWriter, doc *Document) {
	if len(doc.Improvements) == 0 {
		return
	}
	p.heading("Room for Improvement", 16)
	for _, imp := range doc.Improvements {
		p.font("B", 11)
		p.line(imp.Category, 6)
		p.font("", 9)
		p.color(ratingColors["red"])
		p.line("  Priority: "+strings.ToUpper(imp.Priority), 5)
		p.color(rgb{})
		p.font("", 10)
		for i, action := range imp.Actions {
			p.line(fmt.Sprintf("    %d. %s", i+1, action), 6)
		}
		p.pdf.Ln(3)
	}
	p.pdf.Ln(3)
}

func writeRecommendations(p *pdfWriter, doc *Document) {
	if len(doc.Recommendations) == 0 {
		return
	}
	p.heading("Key Recommendations", 14)
	for i, rec := range doc.Recommendations {
		p.line(fmt.Sprintf("%d. %s", i+1, rec), 6)
		p.pdf.Ln(1)
	}
}
