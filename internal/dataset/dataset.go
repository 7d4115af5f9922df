package dataset

import (
	"fmt"
	"math"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindInt      Kind = "int64"
	KindFloat    Kind = "float64"
	KindBool     Kind = "bool"
	KindTemporal Kind = "temporal"
	KindText     Kind = "object"
)

// Numeric reports whether columns of this kind belong to the numeric subset.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column holds the raw cells of one column plus its inferred kind.
type Column struct {
	Name  string
	Kind  Kind
	Cells []string
	// Missing[i] is true when Cells[i] is a null token.
	Missing []bool
	// Numbers is populated for numeric kinds; missing cells are NaN.
	Numbers []float64
}

// NonNull returns the number of present values.
func (c *Column) NonNull() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// MissingCount returns the number of null values.
func (c *Column) MissingCount() int { return len(c.Missing) - c.NonNull() }

// Dataset is one loaded tabular file.
type Dataset struct {
	Name     string
	Path     string
	Encoding Encoding
	Rows     int
	Columns  []*Column
}

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) { return d.Rows, len(d.Columns) }

// ShapeString formats the shape as "(rows, cols)".
func (d *Dataset) ShapeString() string {
	r, c := d.Shape()
	return fmt.Sprintf("(%d, %d)", r, c)
}

// Column returns the column with the given name, or nil.
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericSubset is the projection of a Dataset onto its numeric columns.
// Values[i] belongs to Columns[i]; missing entries are NaN.
type NumericSubset struct {
	Columns []string
	Values  [][]float64
}

// Len returns the number of numeric columns.
func (s *NumericSubset) Len() int { return len(s.Columns) }

// Empty reports whether there are no numeric columns.
func (s *NumericSubset) Empty() bool { return len(s.Columns) == 0 }

// Present returns the finite values of column i.
func (s *NumericSubset) Present(i int) []float64 {
	out := make([]float64, 0, len(s.Values[i]))
	for _, v := range s.Values[i] {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Observed returns the non-missing values of column i, infinities included.
func (s *NumericSubset) Observed(i int) []float64 {
	out := make([]float64, 0, len(s.Values[i]))
	for _, v := range s.Values[i] {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Pairs returns the rows where both column i and column j hold finite values.
func (s *NumericSubset) Pairs(i, j int) (xs, ys []float64) {
	a, b := s.Values[i], s.Values[j]
	for k := range a {
		x, y := a[k], b[k]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// NumericSubset derives a fresh numeric projection. The returned slices are
// copies, so callers cannot mutate the Dataset through them.
func (d *Dataset) NumericSubset() *NumericSubset {
	sub := &NumericSubset{}
	for _, c := range d.Columns {
		if !c.Kind.Numeric() {
			continue
		}
		vals := make([]float64, len(c.Numbers))
		copy(vals, c.Numbers)
		sub.Columns = append(sub.Columns, c.Name)
		sub.Values = append(sub.Values, vals)
	}
	return sub
}
