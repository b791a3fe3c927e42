package posts

import (
	"errors"
	"fmt"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
)

// Saga steps of the post commands, surfaced through commands.StepError so
// callers can tell which side effects are already visible.
const (
	StepUploadImage  commands.Step = "upload-image"
	StepWriteRecord  commands.Step = "write-record"
	StepUpdateRecord commands.Step = "update-record"
	StepDeleteRecord commands.Step = "delete-record"
)

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("post not found")

// ValidationError reports invalid command input with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if err is a validation error.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if err indicates a missing post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
