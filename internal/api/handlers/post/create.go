package post

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
)

// maxImageBytes caps uploaded meal photos at 10MB.
const maxImageBytes = 10 * 1024 * 1024

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /api/posts
// Accepts a multipart form with mealType, description and an image file,
// uploads the photo and writes the post record.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// 1. Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+64*1024)

	// 2. Parse multipart form
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid multipart form")
		return
	}

	// 3. Owner comes from the session, never from the form
	ownerUID := middleware.GetUserUID(r)
	if ownerUID == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	// 4. Read the image file
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "image file is required")
		return
	}
	defer file.Close()
	imageBytes, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Failed to read image")
		return
	}

	// 5. Call service to create the post
	postID, err := h.service.CreatePost(r.Context(), posts.CreatePostRequest{
		OwnerUID:    ownerUID,
		MealType:    r.FormValue("mealType"),
		Description: r.FormValue("description"),
		ImageBytes:  imageBytes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 6. Return the new post id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"postId": postID}); err != nil {
		log.Printf("Failed to encode post creation response: %v", err)
	}
}
