package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

var csvHeader = []string{
	"Calculation ID",
	"Activity Type",
	"Total Emissions (MT CO2e)",
	"CO2 (MT)",
	"CH4 (MT)",
	"N2O (MT)",
	"Calculated At",
	"Calculated By",
}

// WriteCSV writes one row per calculation result. It returns
// ErrNoCalculations without writing anything when there are none.
func WriteCSV(w io.Writer, doc *Document) error {
	if len(doc.Details) == 0 {
		return ErrNoCalculations
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range doc.Details {
		record := []string{
			d.ID.String(),
			d.ActivityType,
			formatPlain(d.Total),
			formatPlain(d.CO2),
			formatPlain(d.CH4),
			formatPlain(d.N2O),
			d.CalculatedAt.UTC().Format(time.RFC3339),
			d.CalculatedBy,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
