package feedback

import (
	"errors"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
)

// Saga steps of the like command. The two writes are independent: when the
// append fails, the counter increment is already visible and stays.
const (
	StepIncrementLikes commands.Step = "increment-likes"
	StepAppendItem     commands.Step = "append-item"
)

var (
	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrEmptyComment is returned when a comment has no text.
	ErrEmptyComment = errors.New("comment text is required")
)
