package export

import (
	"encoding/json"
	"fmt"
)

// JSONExporter renders a dataset as an array of header-keyed objects.
type JSONExporter struct{}

// NewJSONExporter builds a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Render produces indented JSON; an empty dataset renders as [].
func (e *JSONExporter) Render(data Dataset) ([]byte, error) {
	records := make([]map[string]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := make(map[string]string, len(data.Headers))
		for i, header := range data.Headers {
			record[header] = cell(row, i)
		}
		records = append(records, record)
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json export: %w", err)
	}
	return out, nil
}
