// Package budget validates carbon budget files and normalizes their values
// across monthly, quarterly and annual granularities.
package budget

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Source is the tabular budget collaborator: a header row plus data rows.
// Rows may be ragged; missing cells read as empty strings.
type Source interface {
	Headers() []string
	Rows() [][]string
}

// Table is an in-memory Source.
type Table struct {
	Cols []string
	Data [][]string
}

func (t *Table) Headers() []string { return t.Cols }
func (t *Table) Rows() [][]string  { return t.Data }

// FromCSV reads a complete budget table from r. The first record is the
// header row.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read budget csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Cols: records[0], Data: records[1:]}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
