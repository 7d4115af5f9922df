// Package report writes the per-dataset Markdown summary.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/utils"
)

// FileName is the report written into each dataset directory.
const FileName = "README.md"

// Markdown renders the report: title, overview with shape, missing values,
// and summary statistics.
func Markdown(ds *dataset.Dataset, s *analysis.Summary) string {
	var b strings.Builder
	b.WriteString("# Data Analysis Report\n\n")
	if ds.Name != "" {
		fmt.Fprintf(&b, "Dataset: `%s`\n\n", ds.Name)
	}
	b.WriteString("## Dataset Overview\n\n")
	fmt.Fprintf(&b, "Shape of the dataset: %s\n\n", ds.ShapeString())
	b.WriteString("### Missing Values\n\n")
	b.WriteString("```text\n")
	b.WriteString(s.Missing.String())
	b.WriteString("```\n\n")
	b.WriteString("### Summary Statistics\n\n")
	b.WriteString("```text\n")
	b.WriteString(s.Description.String())
	b.WriteString("```\n")
	return b.String()
}

// Reporter writes README.md files.
type Reporter struct {
	log *zap.Logger
}

// NewReporter returns a Reporter. A nil logger discards output.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{log: log}
}

// Write renders s into dir/README.md, replacing any previous report, and
// returns the path written. A nil s is computed from ds.
func (r *Reporter) Write(ds *dataset.Dataset, s *analysis.Summary, dir string) (string, error) {
	if s == nil {
		var err error
		if s, err = analysis.Summarize(ds); err != nil {
			return "", err
		}
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := utils.SafeWriteFile(path, []byte(Markdown(ds, s))); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	r.log.Info("markdown report saved", zap.String("path", path))
	return path, nil
}
