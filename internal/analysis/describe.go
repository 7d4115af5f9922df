package analysis

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// NumericStats is the descriptive summary of one numeric column.
type NumericStats struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// CategoricalStats summarizes a non-numeric column.
type CategoricalStats struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Description holds descriptive statistics. Numeric columns are always
// covered; Categorical is filled only when a Dataset has no numeric columns.
type Description struct {
	Numeric     []NumericStats
	Categorical []CategoricalStats
}

// Describe computes count, mean, std, min, quartiles, and max for every
// numeric column. Std is the sample standard deviation (n-1). Infinite values
// are counted and propagate into the statistics they touch.
func Describe(ds *dataset.Dataset) Description {
	var d Description
	sub := ds.NumericSubset()
	for i, name := range sub.Columns {
		d.Numeric = append(d.Numeric, describeValues(name, sub.Observed(i)))
	}
	if len(d.Numeric) > 0 {
		return d
	}
	for _, c := range ds.Columns {
		if c.Kind == dataset.KindText || c.Kind == dataset.KindTemporal || c.Kind == dataset.KindBool {
			d.Categorical = append(d.Categorical, describeCategories(c))
		}
	}
	return d
}

func describeValues(name string, vals []float64) NumericStats {
	s := NumericStats{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

func describeCategories(c *dataset.Column) CategoricalStats {
	s := CategoricalStats{Name: c.Name}
	freq := map[string]int{}
	for i, v := range c.Cells {
		if c.Missing[i] {
			continue
		}
		s.Count++
		freq[v]++
	}
	s.Unique = len(freq)
	for v, n := range freq {
		if n > s.Freq || (n == s.Freq && v < s.Top) {
			s.Top, s.Freq = v, n
		}
	}
	return s
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// String renders the statistics with one column per dataset column and one
// row per statistic.
func (d Description) String() string {
	if len(d.Numeric) > 0 {
		t := &textTable{header: []string{""}}
		for _, s := range d.Numeric {
			t.header = append(t.header, s.Name)
		}
		rows := []struct {
			label string
			get   func(NumericStats) float64
		}{
			{"count", func(s NumericStats) float64 { return float64(s.Count) }},
			{"mean", func(s NumericStats) float64 { return s.Mean }},
			{"std", func(s NumericStats) float64 { return s.Std }},
			{"min", func(s NumericStats) float64 { return s.Min }},
			{"25%", func(s NumericStats) float64 { return s.Q1 }},
			{"50%", func(s NumericStats) float64 { return s.Median }},
			{"75%", func(s NumericStats) float64 { return s.Q3 }},
			{"max", func(s NumericStats) float64 { return s.Max }},
		}
		for _, r := range rows {
			cells := []string{r.label}
			for _, s := range d.Numeric {
				cells = append(cells, formatFloat(r.get(s)))
			}
			t.add(cells...)
		}
		return t.String()
	}
	if len(d.Categorical) > 0 {
		t := &textTable{header: []string{""}}
		for _, s := range d.Categorical {
			t.header = append(t.header, s.Name)
		}
		count, unique, top, freq := []string{"count"}, []string{"unique"}, []string{"top"}, []string{"freq"}
		for _, s := range d.Categorical {
			count = append(count, strconv.Itoa(s.Count))
			unique = append(unique, strconv.Itoa(s.Unique))
			if s.Count == 0 {
				top = append(top, "NaN")
				freq = append(freq, "NaN")
				continue
			}
			top = append(top, s.Top)
			freq = append(freq, strconv.Itoa(s.Freq))
		}
		t.add(count...)
		t.add(unique...)
		t.add(top...)
		t.add(freq...)
		return t.String()
	}
	return "(no columns to describe)\n"
}
