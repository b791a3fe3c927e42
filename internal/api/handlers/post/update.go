package post

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
)

// UpdateHandler handles post edit requests
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT /api/posts/{postID}
// Accepts a multipart form with mealType, description and an optional
// replacement image. Only the post's owner may edit it.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+64*1024)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid multipart form")
		return
	}

	uid := middleware.GetUserUID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	// Load the post to verify ownership and learn the image storage path.
	existing, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing.OwnerUID != uid {
		writeError(w, http.StatusForbidden, "NotAuthorized", "You can only edit your own posts")
		return
	}

	// A replacement image is optional; absent means keep the current one.
	var newImage []byte
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		newImage, err = io.ReadAll(io.LimitReader(file, maxImageBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Failed to read image")
			return
		}
	}

	err = h.service.UpdatePost(r.Context(), posts.UpdatePostRequest{
		PostID:           postID,
		MealType:         r.FormValue("mealType"),
		Description:      r.FormValue("description"),
		ImageStoragePath: existing.ImageStoragePath,
		NewImageBytes:    newImage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	log.Printf("[POST] updated post %s by %s", postID, uid)
}
