// Package dataset turns a raw titles CSV into the normalized, immutable
// table every dashboard panel reads from.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first header cell if present
const utf8BOM = "\uFEFF"

// Column names recognized in the input header
const (
	ColShowID      = "show_id"
	ColTitle       = "title"
	ColType        = "type"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// RequiredColumns must be present in every input header
var RequiredColumns = []string{ColTitle, ColType, ColReleaseYear}

// RawTable is the parsed but uncleaned CSV: a header and string cells.
// An empty cell is a missing value.
type RawTable struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewRawTable builds a table from a header and rows. Header names are
// trimmed and lower-cased; short rows are padded with missing cells.
func NewRawTable(header []string, rows [][]string) *RawTable {
	t := &RawTable{
		Header: make([]string, len(header)),
		Rows:   make([][]string, len(rows)),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		t.Header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows[i] = row
	}
	return t
}

// Has reports whether the header contains column
func (t *RawTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Cell returns the trimmed value at (row, column), or "" when the column
// does not exist.
func (t *RawTable) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// Missing returns the required columns the header lacks
func (t *RawTable) Missing() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// ReadCSV parses a comma-separated table whose first row is the header.
// Quoting is lenient and rows may vary in width.
func ReadCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		// No header at all; Normalize reports every required column missing
		return NewRawTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}

	return NewRawTable(header, rows), nil
}
