package users

import (
	"errors"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
)

// Saga steps of the profile update command.
const (
	StepUploadAvatar commands.Step = "upload-avatar"
	StepWriteProfile commands.Step = "write-profile"
)

// ErrDisplayNameRequired is returned when a profile update has no name.
var ErrDisplayNameRequired = errors.New("display name is required")
