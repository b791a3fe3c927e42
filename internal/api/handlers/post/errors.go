package post

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
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
	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "Post not found")

	default:
		if step, ok := commands.FailedStep(err); ok {
			// The step name tells the client which half of the command ran.
			log.Printf("Post command failed at step %s: %v", step, err)
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

		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
