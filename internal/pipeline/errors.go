package pipeline

import (
	"errors"
	"fmt"
)

// Stage names one step of the per-dataset pipeline.
type Stage string

const (
	StagePrepare   Stage = "prepare"
	StageLoad      Stage = "load"
	StageAnalyze   Stage = "analyze"
	StageVisualize Stage = "visualize"
	StageReport    Stage = "report"
)

// Severity decides whether an error stops the run.
type Severity int

const (
	// Recoverable errors are logged and the run moves on.
	Recoverable Severity = iota
	// Fatal errors abort the whole run.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// StageError wraps a failure with the stage and dataset it happened in.
type StageError struct {
	Stage    Stage
	Dataset  string
	Severity Severity
	Err      error
}

func (e *StageError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s: %v", e.Dataset, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func fatal(stage Stage, name string, err error) *StageError {
	return &StageError{Stage: stage, Dataset: name, Severity: Fatal, Err: err}
}

func recoverable(stage Stage, name string, err error) *StageError {
	return &StageError{Stage: stage, Dataset: name, Severity: Recoverable, Err: err}
}

// IsFatal reports whether err carries a fatal StageError.
func IsFatal(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Severity == Fatal
}
