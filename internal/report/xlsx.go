package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX workbook.
const (
	SheetSummary   = "Summary"
	SheetBreakdown = "Emissions Breakdown"
	SheetDetails   = "Detailed Calculations"
)

type sheetSpec struct {
	name    string
	color   string
	headers []string
	widths  []float64
	rows    [][]interface{}
}

// WriteXLSX writes a workbook with summary, breakdown and detail sheets.
// Each sheet has a coloured, frozen header row.
func WriteXLSX(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: "AURIXON",
		Title:   "GHG Emissions Report",
		Created: doc.GeneratedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("failed to set workbook properties: %w", err)
	}

	sheets := []sheetSpec{
		summarySheet(doc),
		breakdownSheet(doc),
		detailsSheet(doc),
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheetSpec) error {
	header := make([]interface{}, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.name, err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(s.name, cell, &r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.color}},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s header style: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", s.name, err)
	}

	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", s.name, col, err)
		}
	}

	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summarySheet(doc *Document) sheetSpec {
	rows := [][]interface{}{
		{"Company", doc.Header.CompanyName},
		{"Period Name", doc.Header.PeriodName},
		{"Start Date", doc.Header.StartDate.Format("2006-01-02")},
		{"End Date", doc.Header.EndDate.Format("2006-01-02")},
		{"Status", doc.Header.Status},
		{"", ""},
		{"Total Emissions (MT CO2e)", formatFixed(doc.TotalEmissions, 2)},
		{"Activity Types", len(doc.Breakdown)},
	}
	if doc.Overall != "" {
		rows = append(rows, []interface{}{"Overall Rating", strings.ToUpper(doc.Overall)})
	}
	for _, s := range doc.Scopes {
		rows = append(rows, []interface{}{s.Label, strings.ToUpper(s.Rating)})
	}

	return sheetSpec{
		name:    SheetSummary,
		color:   "4472C4",
		headers: []string{"Metric", "Value"},
		widths:  []float64{30, 30},
		rows:    rows,
	}
}

func breakdownSheet(doc *Document) sheetSpec {
	rows := make([][]interface{}, 0, len(doc.Breakdown))
	for _, b := range doc.Breakdown {
		rows = append(rows, []interface{}{
			b.ActivityType,
			formatFixed(b.Emissions, 2),
			b.Count,
			formatFixed(b.Percent, 1) + "%",
		})
	}
	return sheetSpec{
		name:    SheetBreakdown,
		color:   "70AD47",
		headers: []string{"Activity Type", "Total Emissions (MT CO2e)", "Activity Count", "Percentage"},
		widths:  []float64{30, 25, 15, 15},
		rows:    rows,
	}
}

func detailsSheet(doc *Document) sheetSpec {
	rows := make([][]interface{}, 0, len(doc.Details))
	for _, d := range doc.Details {
		rows = append(rows, []interface{}{
			d.ID.String(),
			d.ActivityType,
			d.Total,
			d.CO2,
			d.CH4,
			d.N2O,
			d.CalculatedAt.UTC().Format(time.RFC3339),
			d.CalculatedBy,
		})
	}
	return sheetSpec{
		name:    SheetDetails,
		color:   "FFC000",
		headers: []string{"ID", "Activity Type", "Total Emissions (MT CO2e)", "CO2 (MT)", "CH4 (MT)", "N2O (MT)", "Calculated At", "Calculated By"},
		widths:  []float64{38, 25, 25, 15, 15, 15, 22, 30},
		rows:    rows,
	}
}
