package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

func TestInferKinds(t *testing.T) {
	csv := "flag,when,note,empty,mixed,rate\n" +
		"true,2024-01-02,hello,,1,0.5\n" +
		"False,2024-02-03,NA,NaN,x,\n" +
		"TRUE,2024-03-04,world,null,2,1e3\n"
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "kinds.csv", []byte(csv)))
	require.NoError(t, err)

	cases := map[string]dataset.Kind{
		"flag":  dataset.KindBool,
		"when":  dataset.KindTemporal,
		"note":  dataset.KindText,
		"empty": dataset.KindFloat,
		"mixed": dataset.KindText,
		"rate":  dataset.KindFloat,
	}
	for name, want := range cases {
		require.Equal(t, want, ds.Column(name).Kind, name)
	}

	require.Equal(t, 1, ds.Column("note").MissingCount())
	require.Equal(t, 3, ds.Column("empty").MissingCount())
	require.Equal(t, 0, ds.Column("empty").NonNull())

	sub := ds.NumericSubset()
	require.Equal(t, []string{"empty", "rate"}, sub.Columns)
	require.Equal(t, []float64{0.5, 1000}, sub.Present(1))
	require.Empty(t, sub.Present(0))
}

func TestInferBoolWithMissingIsText(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "b.csv", []byte("flag,ok\ntrue,true\n,false\nfalse,true\n")))
	require.NoError(t, err)
	require.Equal(t, dataset.KindText, ds.Column("flag").Kind)
	require.Equal(t, 1, ds.Column("flag").MissingCount())
	require.Equal(t, dataset.KindBool, ds.Column("ok").Kind)
}

func TestObservedKeepsInfinity(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "inf.csv", []byte("a,b\ninf,1\n2,\n-inf,4\n")))
	require.NoError(t, err)
	sub := ds.NumericSubset()
	require.Len(t, sub.Observed(0), 3)
	require.Len(t, sub.Present(0), 1)
	require.Equal(t, []float64{1, 4}, sub.Observed(1))
	xs, _ := sub.Pairs(0, 1)
	require.Empty(t, xs)
}

func TestIsNull(t *testing.T) {
	for _, s := range []string{"", " ", "NA", "N/A", "NaN", "null", "None", "<NA>", "#N/A"} {
		require.True(t, dataset.IsNull(s), s)
	}
	for _, s := range []string{"0", "none", "n.a.", "-"} {
		require.False(t, dataset.IsNull(s), s)
	}
}

func TestNumericSubsetIsACopy(t *testing.T) {
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(writeFile(t, "c.csv", []byte("x,y\n1,2\n3,\n5,6\n")))
	require.NoError(t, err)

	sub := ds.NumericSubset()
	sub.Values[0][0] = 99
	require.Equal(t, 1.0, ds.Column("x").Numbers[0])

	xs, ys := sub.Pairs(0, 1)
	require.Equal(t, []float64{99, 5}, xs)
	require.Equal(t, []float64{2, 6}, ys)
}
