// Package commands defines the saga-step error model shared by the write
// commands. Every mutating operation is a short, short-circuiting sequence
// of remote calls; when one fails, the error names the step so callers can
// branch on which side effects are already visible.
package commands

import (
	"errors"
	"fmt"
)

// Step identifies one remote call inside a multi-step command.
type Step string

// StepError wraps a remote-call failure with the step that raised it.
// Effects of steps completed before the failing one are not rolled back.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("command step %q failed: %v", string(e.Step), e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a StepError for the given step.
func Fail(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}

// FailedStep extracts the failing step, if err carries one.
func FailedStep(err error) (Step, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}
	return "", false
}
