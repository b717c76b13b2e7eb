package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"carbone/internal/core"
)

// ErrMissingColumns is returned when an emissions file does not carry
// the minimum set of columns needed to build records.
var ErrMissingColumns = errors.New("ingest: missing required columns")

var dateColumns = []string{"Date"}
var categoryColumns = []string{"Categorie", "Category"}
var emissionColumns = []string{"CO2e_kg", "Emissions_kg", "Emissions"}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ReadEmissions parses an enriched emissions CSV into records. The file
// must carry a date column, a category column and an emissions column;
// header matching is case-insensitive. A malformed date or amount fails
// the whole batch with a *core.DataFormatError naming the row.
func ReadEmissions(r io.Reader) ([]core.EmissionRecord, error) {
	headers, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	dateIdx := columnIndex(headers, dateColumns)
	catIdx := columnIndex(headers, categoryColumns)
	emitIdx := columnIndex(headers, emissionColumns)
	if dateIdx < 0 || catIdx < 0 || emitIdx < 0 {
		return nil, fmt.Errorf("%w: need date, category and emissions columns, got %v", ErrMissingColumns, headers)
	}

	records := make([]core.EmissionRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, &core.DataFormatError{Row: i + 1, Field: "date", Value: cell(row, dateIdx)}
		}
		kg, err := strconv.ParseFloat(strings.TrimSpace(cell(row, emitIdx)), 64)
		if err != nil {
			return nil, &core.DataFormatError{Row: i + 1, Field: "emissions", Value: cell(row, emitIdx)}
		}
		records = append(records, core.EmissionRecord{
			Category:    strings.TrimSpace(cell(row, catIdx)),
			EmissionsKg: kg,
			Date:        date,
		})
	}
	return records, nil
}

func readCSV(r io.Reader) (headers []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

func columnIndex(headers, candidates []string) int {
	for i, h := range headers {
		for _, c := range candidates {
			if strings.EqualFold(strings.TrimSpace(h), c) {
				return i
			}
		}
	}
	return -1
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("ingest: unparseable date %q", s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
