package operations

import (
	"errors"
	"fmt"

	"amqcli/internal/dataprocessing"
)

// ErrorKind classifies a pipeline failure by its cause. The runner's
// retry decision hangs on this: structural and empty-panel failures are
// repairable once, everything else is terminal.
type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindStructural   ErrorKind = "structural_ingestion"
	ErrorKindEmptyPanel   ErrorKind = "empty_panel"
	ErrorKindDateCoercion ErrorKind = "date_coercion"
	ErrorKindTransform    ErrorKind = "transform"
	ErrorKindArtifact     ErrorKind = "artifact_write"
	ErrorKindRepair       ErrorKind = "repair"
	ErrorKindExecution    ErrorKind = "execution"
)

// PipelineError ties a failure to the step that raised it. The wrapped
// cause stays reachable through errors.As, so callers can still match
// the underlying typed errors from the dataprocessing package.
type PipelineError struct {
	Kind    ErrorKind `json:"kind"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError reports a step precondition that does not hold
func NewValidationError(step, message string) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindValidation,
		Step:    step,
		Message: message,
	}
}

// NewArtifactError reports a failed artifact write
func NewArtifactError(step string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindArtifact,
		Step:    step,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// NewRepairError reports that the workbook repair itself failed, which
// ends the run: there is nothing left to retry against.
func NewRepairError(cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrorKindRepair,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// WrapStepError wraps a step failure into a PipelineError, classifying
// typed dataprocessing errors onto their kinds. Errors that are already
// PipelineErrors pass through unchanged; anything untyped takes the
// fallback kind.
func WrapStepError(step string, err error, fallback ErrorKind) *PipelineError {
	if err == nil {
		return nil
	}
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr
	}
	return &PipelineError{
		Kind:    classifyError(err, fallback),
		Step:    step,
		Message: err.Error(),
		Cause:   err,
	}
}

// classifyError maps the typed dataprocessing errors onto kinds. Date
// coercion is checked first: a broken calendar must never be mistaken
// for a repairable structural problem.
func classifyError(err error, fallback ErrorKind) ErrorKind {
	var coercion *dataprocessing.DateCoercionError
	if errors.As(err, &coercion) {
		return ErrorKindDateCoercion
	}
	var structural *dataprocessing.StructuralError
	if errors.As(err, &structural) {
		return ErrorKindStructural
	}
	var empty *dataprocessing.EmptyPanelError
	if errors.As(err, &empty) {
		return ErrorKindEmptyPanel
	}
	return fallback
}

// Repairable reports whether a failure qualifies for the one-shot
// workbook repair: structural ingestion failures and empty panels do,
// everything else does not. Date-coercion failures never qualify
// because rebuilding headers cannot fix a broken date index.
func Repairable(err error) bool {
	if err == nil {
		return false
	}
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Kind == ErrorKindStructural || perr.Kind == ErrorKindEmptyPanel
	}
	switch classifyError(err, ErrorKindExecution) {
	case ErrorKindStructural, ErrorKindEmptyPanel:
		return true
	default:
		return false
	}
}

// KindOf returns the kind of the error, or ErrorKindExecution for
// errors raised outside the pipeline's own vocabulary.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return classifyError(err, ErrorKindExecution)
}

// StepOf returns the ID of the step that raised the error, or an empty
// string when the failure happened outside any step.
func StepOf(err error) string {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Step
	}
	return ""
}
