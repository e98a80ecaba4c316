// pkg/model/table.go
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical rendering of date cells in persisted output.
const DateLayout = "2006-01-02"

// Table is an ordered, rectangular, in-memory table. It is the unit of
// exchange between pipeline stages: each stage consumes a table and returns
// a new one rather than mutating shared state. Cells hold nil, string,
// float64, int, bool or time.Time.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// NewTable creates an empty table with the given name and column labels.
func NewTable(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColIndex(name) >= 0
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(row []any) {
	n := len(t.Columns)
	r := make([]any, n)
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

// Cell returns the value at the given row for the named column, or nil if
// the column does not exist.
func (t *Table) Cell(row int, col string) any {
	idx := t.ColIndex(col)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][idx]
}

// SetCell assigns the value at the given row for the named column. Missing
// columns are ignored.
func (t *Table) SetCell(row int, col string, v any) {
	idx := t.ColIndex(col)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][idx] = v
}

// AddColumn appends a new column filled with the given value for every
// existing row. If the column already exists it is overwritten in place.
func (t *Table) AddColumn(name string, fill any) {
	if idx := t.ColIndex(name); idx >= 0 {
		for i := range t.Rows {
			t.Rows[i][idx] = fill
		}
		return
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], fill)
	}
}

// RenameColumn changes a column label, keeping data in place.
func (t *Table) RenameColumn(oldName, newName string) {
	if idx := t.ColIndex(oldName); idx >= 0 {
		t.Columns[idx] = newName
	}
}

// Select returns a new table containing only the named columns, in the
// given order. Unknown columns are skipped.
func (t *Table) Select(columns []string) *Table {
	indices := make([]int, 0, len(columns))
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if idx := t.ColIndex(c); idx >= 0 {
			indices = append(indices, idx)
			kept = append(kept, c)
		}
	}

	out := NewTable(t.Name, kept)
	for _, row := range t.Rows {
		r := make([]any, len(indices))
		for j, idx := range indices {
			r[j] = row[idx]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := NewTable(t.Name, t.Columns)
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(row))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}

// IsBlank reports whether a cell value is null-equivalent: nil or a string
// that is empty after trimming.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// CellString renders a cell value for hashing, CSV output and SQLite
// storage. Dates render as DateLayout, nil as the empty string.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(DateLayout)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
