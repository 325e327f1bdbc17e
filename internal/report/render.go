package report

import (
	"fmt"
	"io"
	"strings"
)

// Format is an artifact encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "excel"
)

// ParseFormat accepts pdf, csv, excel or xlsx in any case.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, true
	case "csv":
		return FormatCSV, true
	case "excel", "xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// Extension is the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatXLSX {
		return "xlsx"
	}
	return string(f)
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Render writes doc to w in format f.
func Render(w io.Writer, f Format, doc *Document) error {
	switch f {
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	}
	return fmt.Errorf("unsupported report format %q", f)
}
