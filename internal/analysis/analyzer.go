// Package analysis computes descriptive summaries of a loaded dataset.
package analysis

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/KaramelBytes/autolysis/internal/dataset"
)

// Summary bundles the three summaries computed for a Dataset.
type Summary struct {
	Overview    Overview
	Description Description
	Missing     MissingCounts
}

// Summarize computes overview, descriptive statistics, and missing counts.
// A panic from a malformed column is returned as an error.
func Summarize(ds *dataset.Dataset) (s *Summary, err error) {
	if ds == nil {
		return nil, fmt.Errorf("summarize: nil dataset")
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("summarize %s: %v", ds.Name, r)
		}
	}()
	return &Summary{
		Overview:    NewOverview(ds),
		Description: Describe(ds),
		Missing:     NewMissingCounts(ds),
	}, nil
}

// Analyzer writes the summaries of each Dataset to a console sink.
type Analyzer struct {
	out io.Writer
	log *zap.Logger
}

// NewAnalyzer returns an Analyzer writing tables to out.
func NewAnalyzer(out io.Writer, log *zap.Logger) *Analyzer {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{out: out, log: log}
}

// Analyze computes and prints the summaries.
func (a *Analyzer) Analyze(ds *dataset.Dataset) (*Summary, error) {
	s, err := Summarize(ds)
	if err != nil {
		return nil, err
	}
	sections := []struct {
		title string
		body  fmt.Stringer
	}{
		{"Dataset Overview", s.Overview},
		{"Summary Statistics", s.Description},
		{"Missing Values", s.Missing},
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintf(a.out, "\n--- %s ---\n\n%s", sec.title, sec.body); err != nil {
			return s, fmt.Errorf("write %s: %w", sec.title, err)
		}
	}
	a.log.Info("analysis complete",
		zap.String("shape", s.Overview.Shape()),
		zap.Int("numeric_columns", len(s.Description.Numeric)),
		zap.Int("missing_total", s.Missing.Total()))
	return s, nil
}
