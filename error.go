package datacurator

import (
	"fmt"
	"strings"

	"github.com/n2code/datacurator/internal/fault"
)

// Error kinds usable with errors.Is on any error returned by a Curator.
var (
	ErrFileAccess        error = fault.FileAccess
	ErrParse             error = fault.Parse
	ErrMissingSourceFile error = fault.MissingSourceFile
	ErrArchive           error = fault.Archive
	ErrConfig            error = fault.Config
)

// StageError names the pipeline stage during which the cause occurred.
type StageError struct {
	stage string
	cause error
}

func (e *StageError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.stage, " failed")
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *StageError) Unwrap() error {
	return e.cause
}

func (e *StageError) Stage() string {
	return e.stage
}

func newStageError(stage string, cause error) *StageError {
	return &StageError{stage: stage, cause: cause}
}
