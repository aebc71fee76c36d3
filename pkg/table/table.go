// Package table holds the in-memory dataset queried by tabletalk.
//
// A Table is an ordered list of named, typed columns stored column-wise.
// Tables are immutable once built: filtering and slicing return new tables
// that share no mutable state with the original, which lets a Store swap the
// current table atomically while queries keep working on their snapshot.
package table

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	// TypeNumber means every non-empty cell parses as a number.
	TypeNumber ColumnType = "number"
	// TypeText means at least one non-empty cell is not numeric.
	TypeText ColumnType = "text"
	// TypeEmpty means the column has no non-empty cells.
	TypeEmpty ColumnType = "empty"
)

// Cell is a single value. Raw keeps the text as it was read so reports show
// the spreadsheet's own formatting.
type Cell struct {
	Raw     string
	Num     float64
	Numeric bool
}

// NewCell parses raw into a Cell.
func NewCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	c := Cell{Raw: trimmed}
	if trimmed == "" {
		return c
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		c.Num = f
		c.Numeric = true
	}
	return c
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Raw == ""
}

// String returns the display form of the cell.
func (c Cell) String() string {
	return c.Raw
}

// Column is a named, typed column of cells.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Cell
}

// NonEmpty returns the number of non-empty cells.
func (c *Column) NonEmpty() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.IsEmpty() {
			n++
		}
	}
	return n
}

// Table is an ordered set of equally sized columns.
type Table struct {
	source  string
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from a header and row-major records. Short records are
// padded with empty cells and extra cells are dropped.
func New(source string, header []string, records [][]string) *Table {
	cols := make([]*Column, len(header))
	for i, name := range header {
		cols[i] = &Column{Name: name, Cells: make([]Cell, len(records))}
	}
	for r, rec := range records {
		for i := range cols {
			if i < len(rec) {
				cols[i].Cells[r] = NewCell(rec[i])
			}
		}
	}
	return fromColumns(source, cols, len(records))
}

func fromColumns(source string, cols []*Column, rows int) *Table {
	t := &Table{
		source:  source,
		columns: cols,
		index:   make(map[string]int, len(cols)),
		rows:    rows,
	}
	for i, c := range cols {
		c.Type = inferType(c.Cells)
		if _, dup := t.index[c.Name]; !dup {
			t.index[c.Name] = i
		}
	}
	return t
}

func inferType(cells []Cell) ColumnType {
	typ := TypeEmpty
	for _, c := range cells {
		if c.IsEmpty() {
			continue
		}
		if !c.Numeric {
			return TypeText
		}
		typ = TypeNumber
	}
	return typ
}

// Source returns the path the table was loaded from, if any.
func (t *Table) Source() string {
	return t.source
}

// Summary describes a freshly loaded table, e.g.
// "Loaded people.csv with 3 rows and columns: Name, Age".
func (t *Table) Summary() string {
	name := filepath.Base(t.source)
	if t.source == "" {
		name = "table"
	}
	return fmt.Sprintf("Loaded %s with %d rows and columns: %s", name, t.rows, strings.Join(t.Columns(), ", "))
}

// Columns returns the column names in declared order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Schema returns the columns themselves in declared order.
func (t *Table) Schema() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by its exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// Empty reports whether the table has no rows or no columns. Empty tables
// are treated exactly like an absent one by the query layer.
func (t *Table) Empty() bool {
	return t == nil || t.rows == 0 || len(t.columns) == 0
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Cells[i]
	}
	return row
}

// Head returns the first n rows. n is clamped to the row count.
func (t *Table) Head(n int) *Table {
	n = clamp(n, t.rows)
	return t.slice(0, n)
}

// Tail returns the last n rows. n is clamped to the row count.
func (t *Table) Tail(n int) *Table {
	n = clamp(n, t.rows)
	return t.slice(t.rows-n, t.rows)
}

// Select returns a table holding only the named columns, in the given order.
func (t *Table) Select(names ...string) *Table {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		if c, ok := t.Column(name); ok {
			cols = append(cols, &Column{Name: c.Name, Cells: c.Cells})
		}
	}
	return fromColumns(t.source, cols, t.rows)
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var idx []int
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			idx = append(idx, r)
		}
	}
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cells := make([]Cell, len(idx))
		for j, r := range idx {
			cells[j] = c.Cells[r]
		}
		cols[i] = &Column{Name: c.Name, Cells: cells}
	}
	return fromColumns(t.source, cols, len(idx))
}

func (t *Table) slice(from, to int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cells := make([]Cell, to-from)
		copy(cells, c.Cells[from:to])
		cols[i] = &Column{Name: c.Name, Cells: cells}
	}
	return fromColumns(t.source, cols, to-from)
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
