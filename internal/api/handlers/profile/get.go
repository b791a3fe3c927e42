package profile

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/live"
	"github.com/AmitLevy9/DailyBite/internal/core/users"
)

// GetHandler handles profile reads
type GetHandler struct {
	service users.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service users.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet handles GET /api/users/{uid}/profile
// A user who never saved a profile reads as 404, not as an error.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "uid is required")
		return
	}

	p, err := h.service.GetProfile(r.Context(), uid)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "NotFound", "Profile not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Printf("Failed to encode profile response: %v", err)
	}
}

// HandleLive handles GET /api/users/{uid}/profile/live
// Streams the profile over a websocket; null frames mean no profile yet.
func (h *GetHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "uid is required")
		return
	}

	sub, err := h.service.SubscribeProfile(uid)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	live.StreamDoc(w, r, sub)
}
