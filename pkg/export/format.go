// Package export renders a list page as a downloadable table.
package export

import (
	"fmt"
	"strings"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a query value; empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename builds the attachment name, e.g. "students-page-2.csv".
func (f Format) Filename(base string, page int) string {
	return fmt.Sprintf("%s-page-%d.%s", base, page, f)
}

// Dataset is an ordered table. Every row has one cell per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type renderer interface {
	Render(data Dataset) ([]byte, error)
}

// Render encodes data in format f.
func Render(f Format, data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("%s export requires at least one header", f)
	}
	var r renderer
	switch f {
	case FormatCSV:
		r = NewCSVExporter()
	case FormatJSON:
		r = NewJSONExporter()
	case FormatPDF:
		r = NewPDFExporter()
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
	return r.Render(data)
}

// cell returns row[i] or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
