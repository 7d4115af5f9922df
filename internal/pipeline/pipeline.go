// Package pipeline drives load, analyze, visualize, and report for each
// configured dataset, each into its own output directory.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/report"
	"github.com/KaramelBytes/autolysis/internal/utils"
	"github.com/KaramelBytes/autolysis/internal/visualize"
)

// Source maps a dataset name to its input file.
type Source struct {
	Name string
	Path string
}

// Options configures a Runner.
type Options struct {
	// ResultsDir is the root under which one directory per dataset is created.
	ResultsDir string
	Load       dataset.Options
	// ContinueOnLoadError downgrades load failures to recoverable.
	ContinueOnLoadError bool
}

// DatasetResult records what one dataset produced.
type DatasetResult struct {
	Name      string
	Path      string
	Dir       string
	Rows      int
	Cols      int
	Loaded    bool
	Artifacts visualize.Artifacts
	Report    string
	Errors    []*StageError
	Duration  time.Duration
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Datasets []DatasetResult
}

// Failed returns the number of datasets with at least one stage error.
func (r *Result) Failed() int {
	n := 0
	for _, d := range r.Datasets {
		if len(d.Errors) > 0 {
			n++
		}
	}
	return n
}

// Runner processes datasets sequentially.
type Runner struct {
	opt        Options
	runID      string
	log        *zap.Logger
	analyzer   *analysis.Analyzer
	visualizer *visualize.Visualizer
	reporter   *report.Reporter
}

// NewRunner returns a Runner that prints analysis tables to out.
func NewRunner(opt Options, out io.Writer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.ResultsDir == "" {
		opt.ResultsDir = "results"
	}
	id := uuid.NewString()
	log = log.With(zap.String("run_id", id))
	return &Runner{
		opt:        opt,
		runID:      id,
		log:        log,
		analyzer:   analysis.NewAnalyzer(out, log),
		visualizer: visualize.NewVisualizer(log),
		reporter:   report.NewReporter(log),
	}
}

// RunID identifies this runner's log lines.
func (r *Runner) RunID() string { return r.runID }

// Run processes sources in order. It stops at the first fatal error and
// returns the results gathered so far together with that error.
func (r *Runner) Run(sources []Source) (*Result, error) {
	res := &Result{RunID: r.runID}
	if err := ValidateSources(sources); err != nil {
		return res, fatal(StagePrepare, "", err)
	}
	if err := utils.EnsureDir(r.opt.ResultsDir); err != nil {
		return res, fatal(StagePrepare, "", err)
	}
	r.log.Info("starting run", zap.Int("datasets", len(sources)), zap.String("results_dir", r.opt.ResultsDir))
	for i, src := range sources {
		r.log.Info("processing dataset",
			zap.String("dataset", src.Name),
			zap.Int("index", i+1),
			zap.Int("total", len(sources)))
		dr, err := r.Process(src)
		res.Datasets = append(res.Datasets, dr)
		if err != nil {
			return res, err
		}
	}
	r.log.Info("run complete", zap.Int("datasets", len(res.Datasets)), zap.Int("with_errors", res.Failed()))
	return res, nil
}

// Process runs every stage for one dataset. Only a fatal error is returned;
// recoverable stage errors are logged and kept in the DatasetResult.
func (r *Runner) Process(src Source) (dr DatasetResult, err error) {
	start := time.Now()
	log := r.log.With(zap.String("dataset", src.Name))
	dr = DatasetResult{Name: src.Name, Path: src.Path, Dir: filepath.Join(r.opt.ResultsDir, src.Name)}
	defer func() { dr.Duration = time.Since(start) }()

	if err := utils.EnsureDir(dr.Dir); err != nil {
		log.Error("error creating dataset directory", zap.Error(err))
		return dr, fatal(StagePrepare, src.Name, err)
	}

	ds, err := dataset.NewLoader(r.opt.Load, log).Load(src.Path)
	if err != nil {
		log.Error("error loading file", zap.String("path", src.Path), zap.Error(err))
		se := fatal(StageLoad, src.Name, err)
		if !r.opt.ContinueOnLoadError {
			return dr, se
		}
		se.Severity = Recoverable
		dr.Errors = append(dr.Errors, se)
		return dr, nil
	}
	ds.Name = src.Name
	dr.Loaded = true
	dr.Rows, dr.Cols = ds.Shape()

	var summary *analysis.Summary
	if err := contain(func() error {
		s, err := r.analyzer.Analyze(ds)
		summary = s
		return err
	}); err != nil {
		log.Error("error analyzing data", zap.Error(err))
		dr.Errors = append(dr.Errors, recoverable(StageAnalyze, src.Name, err))
	}

	if err := contain(func() error {
		art, err := r.visualizer.Visualize(ds, dr.Dir)
		dr.Artifacts = art
		return err
	}); err != nil {
		log.Error("error creating visualizations", zap.Error(err))
		dr.Errors = append(dr.Errors, recoverable(StageVisualize, src.Name, err))
	}

	if err := contain(func() error {
		path, err := r.reporter.Write(ds, summary, dr.Dir)
		dr.Report = path
		return err
	}); err != nil {
		log.Error("error generating markdown report", zap.Error(err))
		dr.Errors = append(dr.Errors, recoverable(StageReport, src.Name, err))
	}
	return dr, nil
}

// contain runs fn and turns a panic into an error.
func contain(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// ValidateSources checks that every name is a single, unique path element so
// each dataset's outputs stay under its own directory.
func ValidateSources(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	var errs []error
	for i, s := range sources {
		name := s.Name
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, fmt.Errorf("dataset #%d: empty name", i+1))
			continue
		case name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
			errs = append(errs, fmt.Errorf("dataset %q: name must be a single path element", name))
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("dataset %q: duplicate name", name))
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(s.Path) == "" {
			errs = append(errs, fmt.Errorf("dataset %q: empty path", name))
		}
	}
	return errors.Join(errs...)
}
