// Package dataset provides the in-memory table abstraction shared by the
// loading, cleaning, aggregation and charting components. A Dataset is an
// ordered sequence of named columns of equal length; cells are tagged values
// with an explicit missing sentinel.
package dataset

import (
	"fmt"
)

// Column is a named, homogeneous-by-convention sequence of cell values.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn builds a column from a name and its cell values.
func NewColumn(name string, values ...Value) *Column {
	return &Column{Name: name, Values: values}
}

// FloatColumn builds a numeric column from raw float values.
func FloatColumn(name string, values ...float64) *Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = Float(v)
	}
	return &Column{Name: name, Values: cells}
}

// StringColumn builds a text column from raw string values.
func StringColumn(name string, values ...string) *Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = Str(v)
	}
	return &Column{Name: name, Values: cells}
}

// Dataset is an ordered collection of equally sized columns with unique names.
type Dataset struct {
	cols []*Column
}

// New creates a dataset from the given columns. All columns must have the
// same length and distinct names.
func New(cols ...*Column) (*Dataset, error) {
	ds := &Dataset{}
	for _, col := range cols {
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// AddColumn appends a column, enforcing the equal-length and unique-name
// invariants.
func (d *Dataset) AddColumn(col *Column) error {
	if len(d.cols) > 0 && len(col.Values) != d.NumRows() {
		return fmt.Errorf("column %q has %d rows, dataset has %d", col.Name, len(col.Values), d.NumRows())
	}
	for _, existing := range d.cols {
		if existing.Name == col.Name {
			return fmt.Errorf("duplicate column name %q", col.Name)
		}
	}
	d.cols = append(d.cols, col)
	return nil
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return len(d.cols[0].Values)
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	return len(d.cols)
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, col := range d.cols {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, or false if absent.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, col := range d.cols {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// ColumnAt returns the column at position i.
func (d *Dataset) ColumnAt(i int) *Column {
	return d.cols[i]
}

// Row returns the cells of row i across all columns, in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.cols))
	for j, col := range d.cols {
		row[j] = col.Values[i]
	}
	return row
}

// AppendRow adds one cell per column, in column order.
func (d *Dataset) AppendRow(cells []Value) error {
	if len(cells) != len(d.cols) {
		return fmt.Errorf("row has %d cells, dataset has %d columns", len(cells), len(d.cols))
	}
	for j, col := range d.cols {
		col.Values = append(col.Values, cells[j])
	}
	return nil
}

// Clone returns a deep copy. Cleaning steps clone before mutating so the
// caller's dataset is never aliased.
func (d *Dataset) Clone() *Dataset {
	clone := &Dataset{cols: make([]*Column, len(d.cols))}
	for i, col := range d.cols {
		values := make([]Value, len(col.Values))
		copy(values, col.Values)
		clone.cols[i] = &Column{Name: col.Name, Values: values}
	}
	return clone
}

// MissingCount returns how many cells in row i are the missing sentinel.
func (d *Dataset) MissingCount(i int) int {
	n := 0
	for _, col := range d.cols {
		if col.Values[i].IsMissing() {
			n++
		}
	}
	return n
}

// IsNumeric reports whether the named column can serve numeric operations:
// at least one float cell and no text or temporal cells.
func (d *Dataset) IsNumeric(name string) bool {
	col, ok := d.Column(name)
	if !ok {
		return false
	}
	hasFloat := false
	for _, v := range col.Values {
		switch v.Kind() {
		case KindFloat:
			hasFloat = true
		case KindString, KindTime:
			return false
		}
	}
	return hasFloat
}

// Floats returns the valid float values of the named column together with
// their row indices, skipping missing cells.
func (d *Dataset) Floats(name string) ([]float64, []int) {
	col, ok := d.Column(name)
	if !ok {
		return nil, nil
	}
	var values []float64
	var rows []int
	for i, v := range col.Values {
		if f, ok := v.Float64(); ok {
			values = append(values, f)
			rows = append(rows, i)
		}
	}
	return values, rows
}
