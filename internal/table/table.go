// Package table parses the simulation's tabular text output into numeric tables.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ColumnCount is the fixed width of every simulation table.
const ColumnCount = 4

// ColumnNames labels the columns in output order. The harness treats them as
// opaque identifiers; they exist only for reporting.
var ColumnNames = [ColumnCount]string{
	"densidad",
	"volumen",
	"energia_potencial_media",
	"presion_media",
}

// ErrMalformedTable is the kind wrapped by every ParseError.
var ErrMalformedTable = errors.New("malformed table")

// ParseError describes a data line that could not be turned into a row.
type ParseError struct {
	// Line is the 1-based line number in the raw input.
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedTable.Error(), e.Msg)
	}
	return fmt.Sprintf("%s: line %d: %s", ErrMalformedTable.Error(), e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformedTable }

func parseErrorf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Table is an ordered sequence of rows, each holding exactly ColumnCount values.
// A Table is never mutated after construction.
type Table struct {
	rows [][]float64
}

// New builds a Table from raw rows, rejecting any row of the wrong width.
func New(rows [][]float64) (Table, error) {
	for i, row := range rows {
		if len(row) != ColumnCount {
			return Table{}, parseErrorf(0, "row %d has %d columns, want %d", i, len(row), ColumnCount)
		}
	}
	copied := make([][]float64, len(rows))
	for i, row := range rows {
		copied[i] = append([]float64(nil), row...)
	}
	return Table{rows: copied}, nil
}

// NumRows returns the number of data rows.
func (t Table) NumRows() int { return len(t.rows) }

// At returns the value at row i, column c.
func (t Table) At(i, c int) float64 { return t.rows[i][c] }

// Row returns a copy of row i.
func (t Table) Row(i int) []float64 {
	return append([]float64(nil), t.rows[i]...)
}

// Parse turns raw program output into a Table.
//
// Lines whose first non-space byte is '#' are comments; blank lines are
// skipped. Every other line must split into exactly ColumnCount float tokens.
// An output with no data rows at all is malformed.
func Parse(text string) (Table, error) {
	var rows [][]float64
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != ColumnCount {
			return Table{}, parseErrorf(i+1, "got %d values, want %d", len(fields), ColumnCount)
		}
		row := make([]float64, ColumnCount)
		for c, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return Table{}, parseErrorf(i+1, "column %s: %q is not a number", ColumnNames[c], tok)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return Table{}, parseErrorf(0, "no data rows")
	}
	return Table{rows: rows}, nil
}
