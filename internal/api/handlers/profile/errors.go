package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
	"github.com/AmitLevy9/DailyBite/internal/core/users"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Step    string `json:"step,omitempty"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrDisplayNameRequired):
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Display name is required")

	default:
		if step, ok := commands.FailedStep(err); ok {
			log.Printf("Profile command failed at step %s: %v", step, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			if encErr := json.NewEncoder(w).Encode(errorResponse{
				Error:   "CommandFailed",
				Message: fmt.Sprintf("Command failed at step %s", step),
				Step:    string(step),
			}); encErr != nil {
				log.Printf("Failed to encode error response: %v", encErr)
			}
			return
		}

		log.Printf("Unexpected error in profile handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
