package preprocess

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/xerrors"
)

// Stage names the step of a run that failed
type Stage string

const (
	StageLoad    Stage = "load"
	StageSchema  Stage = "schema"
	StageTarget  Stage = "target"
	StageFit     Stage = "fit"
	StageApply   Stage = "apply"
	StagePersist Stage = "persist"
	StageRestore Stage = "restore"
)

// Site is the code location where a failure was caught
type Site struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

func (s Site) String() string {
	return fmt.Sprintf("%s (%s:%d)", s.Function, filepath.Base(s.File), s.Line)
}

// PreprocessingError is the only error kind returned by a Preprocessor. It
// keeps the underlying error for errors.Is / errors.As.
type PreprocessingError struct {
	Stage Stage
	Cause string // dynamic type of the innermost error
	Err   error
	Site  Site

	frame xerrors.Frame
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("preprocessing failed at %s stage in %s: %s: %v", e.Stage, e.Site, e.Cause, e.Err)
}

func (e *PreprocessingError) Unwrap() error {
	return e.Err
}

// Format prints the call-site frame with %+v
func (e *PreprocessingError) Format(s fmt.State, v rune) {
	xerrors.FormatError(e, s, v)
}

func (e *PreprocessingError) FormatError(p xerrors.Printer) error {
	p.Printf("preprocessing failed at %s stage: %s", e.Stage, e.Cause)
	e.frame.Format(p)
	return e.Err
}

// fail translates err into a PreprocessingError located at the caller
func fail(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var pe *PreprocessingError
	if errors.As(err, &pe) {
		return err
	}

	site := Site{Function: "unknown"}
	if pc, file, line, ok := runtime.Caller(1); ok {
		site.File = file
		site.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			site.Function = fn.Name()
		}
	}

	return &PreprocessingError{
		Stage: stage,
		Cause: fmt.Sprintf("%T", rootCause(err)),
		Err:   err,
		Site:  site,
		frame: xerrors.Caller(1),
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
