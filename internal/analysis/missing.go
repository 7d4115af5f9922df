package analysis

import (
	"strconv"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// MissingCount is the null count for one column.
type MissingCount struct {
	Name    string
	Missing int
}

// MissingCounts covers every column of a Dataset, in column order,
// including columns with nothing missing.
type MissingCounts []MissingCount

// NewMissingCounts counts nulls per column.
func NewMissingCounts(ds *dataset.Dataset) MissingCounts {
	out := make(MissingCounts, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		out = append(out, MissingCount{Name: c.Name, Missing: c.MissingCount()})
	}
	return out
}

// Total returns the sum over all columns.
func (m MissingCounts) Total() int {
	n := 0
	for _, c := range m {
		n += c.Missing
	}
	return n
}

func (m MissingCounts) String() string {
	t := &textTable{}
	for _, c := range m {
		t.add(c.Name, strconv.Itoa(c.Missing))
	}
	return t.String()
}
