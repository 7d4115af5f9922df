package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Len returns the matrix dimension.
func (m *CorrMatrix) Len() int { return len(m.Columns) }

// Empty reports whether the matrix has no columns.
func (m *CorrMatrix) Empty() bool { return m == nil || len(m.Columns) == 0 }

// Correlate computes pairwise Pearson correlations, using for each column pair
// every row where both values are present. The diagonal is 1. Pairs with
// fewer than two complete rows or zero variance are NaN. An empty subset
// yields an empty matrix.
func Correlate(sub *dataset.NumericSubset) *CorrMatrix {
	n := sub.Len()
	m := &CorrMatrix{Columns: append([]string(nil), sub.Columns...), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = 1
		for b := 0; b < a; b++ {
			r := pearson(sub.Pairs(a, b))
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
