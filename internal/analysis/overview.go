package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// ColumnInfo is one line of the structural overview.
type ColumnInfo struct {
	Name    string
	NonNull int
	Kind    dataset.Kind
}

// Overview is the structural summary of a Dataset: shape plus per-column
// kind and non-null count.
type Overview struct {
	Rows    int
	Cols    int
	Columns []ColumnInfo
}

// NewOverview computes the structural overview.
func NewOverview(ds *dataset.Dataset) Overview {
	ov := Overview{Rows: ds.Rows, Cols: len(ds.Columns)}
	for _, c := range ds.Columns {
		ov.Columns = append(ov.Columns, ColumnInfo{Name: c.Name, NonNull: c.NonNull(), Kind: c.Kind})
	}
	return ov
}

// Shape formats "(rows, cols)".
func (o Overview) Shape() string { return fmt.Sprintf("(%d, %d)", o.Rows, o.Cols) }

func (o Overview) String() string {
	var b strings.Builder
	if o.Rows > 0 {
		fmt.Fprintf(&b, "Entries: %d (0 to %d)\n", o.Rows, o.Rows-1)
	} else {
		b.WriteString("Entries: 0\n")
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", o.Cols)
	t := &textTable{header: []string{"#", "Column", "Non-Null Count", "Dtype"}}
	counts := map[dataset.Kind]int{}
	for i, c := range o.Columns {
		t.add(strconv.Itoa(i), c.Name, fmt.Sprintf("%d non-null", c.NonNull), string(c.Kind))
		counts[c.Kind]++
	}
	b.WriteString(t.String())
	var kinds []string
	for _, k := range []dataset.Kind{dataset.KindBool, dataset.KindFloat, dataset.KindInt, dataset.KindText, dataset.KindTemporal} {
		if n := counts[k]; n > 0 {
			kinds = append(kinds, fmt.Sprintf("%s(%d)", k, n))
		}
	}
	if len(kinds) > 0 {
		fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(kinds, ", "))
	}
	return b.String()
}
