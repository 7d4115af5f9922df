package dataset_test

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func scoresCSV(n int) string {
	var b strings.Builder
	b.WriteString("id,score,name\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d,%.2f,user%d\n", i, float64(i)*1.5, i)
	}
	return b.String()
}

func TestLoadUTF8ShapeAndKinds(t *testing.T) {
	p := writeFile(t, "scores.csv", []byte(scoresCSV(100)))

	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(p)
	require.NoError(t, err)

	rows, cols := ds.Shape()
	require.Equal(t, 100, rows)
	require.Equal(t, 3, cols)
	require.Equal(t, "(100, 3)", ds.ShapeString())
	require.Equal(t, dataset.EncodingUTF8, ds.Encoding)
	require.Equal(t, "scores", ds.Name)

	require.Equal(t, dataset.KindInt, ds.Column("id").Kind)
	require.Equal(t, dataset.KindFloat, ds.Column("score").Kind)
	require.Equal(t, dataset.KindText, ds.Column("name").Kind)

	sub := ds.NumericSubset()
	require.Equal(t, []string{"id", "score"}, sub.Columns)
	require.Len(t, sub.Values[1], 100)
	require.InDelta(t, 150.0, sub.Values[1][99], 1e-9)
}

func TestLoadFallsBackToLatin1(t *testing.T) {
	// 0xe9 is 'é' in ISO-8859-1 and an invalid lone byte in UTF-8
	raw := []byte("city,pop\nMontr\xe9al,1700000\nQu\xe9bec,540000\n")
	p := writeFile(t, "cities.csv", raw)

	core, logs := observer.New(zap.InfoLevel)
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), zap.New(core)).Load(p)
	require.NoError(t, err)
	require.Equal(t, dataset.EncodingLatin1, ds.Encoding)
	require.Equal(t, "Montréal", ds.Column("city").Cells[0])
	require.Equal(t, dataset.KindInt, ds.Column("pop").Kind)

	require.Equal(t, 1, logs.FilterMessage("file is not valid utf-8, retrying with fallback encoding").Len())
	loaded := logs.FilterMessage("data loaded").All()
	require.Len(t, loaded, 1)
	require.Equal(t, string(dataset.EncodingLatin1), loaded[0].ContextMap()["encoding"])
	require.Equal(t, true, loaded[0].ContextMap()["fallback"])
}

func TestLoadStripsBOM(t *testing.T) {
	p := writeFile(t, "bom.csv", []byte("\xef\xbb\xbfa,b\n1,2\n"))
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(p)
	require.NoError(t, err)
	require.NotNil(t, ds.Column("a"))
}

func TestLoadFatalErrors(t *testing.T) {
	l := dataset.NewLoader(dataset.DefaultOptions(), nil)

	_, err := l.Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = l.Load(writeFile(t, "empty.csv", nil))
	require.ErrorIs(t, err, dataset.ErrEmpty)

	_, err = l.Load(writeFile(t, "blank.csv", []byte("\n\n  \n")))
	require.ErrorIs(t, err, dataset.ErrEmpty)

	_, err = l.Load(writeFile(t, "wide.csv", []byte("a,b\n1,2\n3,4,5\n")))
	require.ErrorIs(t, err, dataset.ErrParse)
	require.Contains(t, err.Error(), "expected 2 fields in line 3, saw 3")

	_, err = l.Load(writeFile(t, "quotes.csv", []byte("a,b\n\"x,2\n")))
	require.ErrorIs(t, err, dataset.ErrParse)
}

func TestLoadHeaderOnlyIsEmptyDataset(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "h.csv", []byte("a,b,c\n")))
	require.NoError(t, err)
	rows, cols := ds.Shape()
	require.Equal(t, 0, rows)
	require.Equal(t, 3, cols)
	for _, c := range ds.Columns {
		require.Equal(t, dataset.KindText, c.Kind, c.Name)
	}
	require.True(t, ds.NumericSubset().Empty())
}

func TestLoadShortRowsArePadded(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "short.csv", []byte("a,b,c\n1,2,3\n4,5\n")))
	require.NoError(t, err)
	c := ds.Column("c")
	require.Equal(t, 1, c.MissingCount())
	// missing values turn an integer column into a float column
	require.Equal(t, dataset.KindFloat, c.Kind)
	require.True(t, math.IsNaN(c.Numbers[1]))
}

func TestLoadTSVAndLocale(t *testing.T) {
	p := writeFile(t, "eu.tsv", []byte("label\tamount\nx\t1.234,5\ny\t10,25\n"))
	opt := dataset.DefaultOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	ds, err := dataset.NewLoader(opt, nil).Load(p)
	require.NoError(t, err)
	amt := ds.Column("amount")
	require.Equal(t, dataset.KindFloat, amt.Kind)
	require.InDelta(t, 1234.5, amt.Numbers[0], 1e-9)
	require.InDelta(t, 10.25, amt.Numbers[1], 1e-9)
}

func TestHeaderNamesDedupe(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "dup.csv", []byte("a,a,,a\n1,2,3,4\n")))
	require.NoError(t, err)
	var names []string
	for _, c := range ds.Columns {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, names)
}
