// Package table provides the in-memory relation returned by table-valued
// query functions.
package table

import (
	"errors"
	"fmt"
)

// MaxRows bounds how many rows a single builder will accept. Adversarial
// inputs (many mutually overlapping intervals) can blow up
// combinatorially; the builder fails hard instead of exhausting memory.
const MaxRows = 1 << 26

// ErrTooManyRows is returned when a builder exceeds MaxRows.
var ErrTooManyRows = errors.New("table: too many rows")

// Table is an immutable column-major relation of int64 cells.
type Table struct {
	cols []string
	data [][]int64
	rows int
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return t.cols
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return t.rows
}

// Value returns the cell at (row, col).
func (t *Table) Value(row, col int) int64 {
	return t.data[col][row]
}

// Row returns one row as a fresh slice ordered by column.
func (t *Table) Row(row int) []int64 {
	out := make([]int64, len(t.cols))
	for c := range t.cols {
		out[c] = t.data[c][row]
	}
	return out
}

// Builder accumulates cells column by column and produces a Table
// atomically: Build either returns the complete relation or an error,
// never a partial one.
type Builder struct {
	cols []string
	data [][]int64
}

// NewBuilder creates a builder for the given column names.
func NewBuilder(cols []string) *Builder {
	return &Builder{
		cols: append([]string(nil), cols...),
		data: make([][]int64, len(cols)),
	}
}

// AddInteger appends a cell to column col.
func (b *Builder) AddInteger(col int, v int64) error {
	if col < 0 || col >= len(b.cols) {
		return fmt.Errorf("table: column %d out of range (have %d columns)", col, len(b.cols))
	}
	if len(b.data[col]) >= MaxRows {
		return fmt.Errorf("%w: column %q exceeds %d", ErrTooManyRows, b.cols[col], MaxRows)
	}
	b.data[col] = append(b.data[col], v)
	return nil
}

// Build finalizes the table, verifying every column holds exactly rows
// cells. The builder must not be reused afterwards.
func (b *Builder) Build(rows int) (*Table, error) {
	for c, col := range b.data {
		if len(col) != rows {
			return nil, fmt.Errorf("table: column %q has %d cells, want %d", b.cols[c], len(col), rows)
		}
	}
	return &Table{cols: b.cols, data: b.data, rows: rows}, nil
}
