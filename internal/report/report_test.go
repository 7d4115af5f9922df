package report_test

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/report"
)

func load(t *testing.T, name, content string) *dataset.Dataset {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	ds, err := dataset.NewLoader(dataset.DefaultOptions(), nil).Load(p)
	require.NoError(t, err)
	return ds
}

func TestWriteReportSectionsInOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,score,name\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "%d,%d.5,n%d\n", i, i%7, i)
	}
	ds := load(t, "scores.csv", b.String())
	dir := filepath.Join(t.TempDir(), "scores")

	path, err := report.NewReporter(nil).Write(ds, nil, dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, report.FileName), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(body)

	require.Contains(t, md, "Shape of the dataset: (100, 3)")
	order := []string{"# Data Analysis Report", "## Dataset Overview", "### Missing Values", "### Summary Statistics"}
	last := -1
	for _, h := range order {
		idx := strings.Index(md, h)
		require.Greater(t, idx, last, "section %q out of order", h)
		last = idx
	}
	for _, col := range []string{"id", "score", "name"} {
		require.Regexp(t, regexp.MustCompile(`(?m)^`+col+`\s+0$`), md)
	}
	require.Contains(t, md, "count")
	require.Contains(t, md, "100.000000")
}

func TestWriteReportTextOnlyAndMissing(t *testing.T) {
	ds := load(t, "people.csv", "name,city\nann,\nbob,oslo\n,NA\n")
	dir := t.TempDir()

	path, err := report.NewReporter(nil).Write(ds, nil, dir)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(body)

	require.Contains(t, md, "Shape of the dataset: (3, 2)")
	require.Regexp(t, regexp.MustCompile(`(?m)^name\s+1$`), md)
	require.Regexp(t, regexp.MustCompile(`(?m)^city\s+2$`), md)
	require.Contains(t, md, "unique")
}

func TestWriteReportUsesGivenSummary(t *testing.T) {
	ds := load(t, "a.csv", "a\n1\n2\n")
	s, err := analysis.Summarize(ds)
	require.NoError(t, err)
	s.Missing[0].Missing = 7

	path, err := report.NewReporter(nil).Write(ds, s, t.TempDir())
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`(?m)^a\s+7$`), string(body))
}

func TestWriteReportOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, report.FileName), []byte("stale"), 0o644))

	ds := load(t, "a.csv", "a\n1\n")
	path, err := report.NewReporter(nil).Write(ds, nil, dir)
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(body), "stale")
}

func TestWriteReportIOErrorIsReturned(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	ds := load(t, "a.csv", "a\n1\n")
	_, err := report.NewReporter(nil).Write(ds, nil, blocker)
	require.Error(t, err)
}
