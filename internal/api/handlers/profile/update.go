package profile

import (
	"io"
	"net/http"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/users"
)

// maxAvatarBytes caps uploaded avatars at 5MB.
const maxAvatarBytes = 5 * 1024 * 1024

// UpdateHandler handles profile save requests
type UpdateHandler struct {
	service users.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service users.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT /api/profile
// Accepts a multipart form with displayName and an optional avatar file.
// Users can only edit their own profile, so the uid comes from the session.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+64*1024)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid multipart form")
		return
	}

	uid := middleware.GetUserUID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	// A new avatar is optional; absent means keep the current one.
	var avatar []byte
	if file, _, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		avatar, err = io.ReadAll(io.LimitReader(file, maxAvatarBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Failed to read avatar")
			return
		}
	}

	err := h.service.UpdateProfile(r.Context(), users.UpdateProfileRequest{
		UID:         uid,
		DisplayName: r.FormValue("displayName"),
		Avatar:      avatar,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
