package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/live"
	"github.com/AmitLevy9/DailyBite/internal/core/feedback"
)

// LiveCommentsHandler streams a post's comment thread over a websocket.
type LiveCommentsHandler struct {
	service feedback.Service
}

// NewLiveCommentsHandler creates a new live comments handler
func NewLiveCommentsHandler(service feedback.Service) *LiveCommentsHandler {
	return &LiveCommentsHandler{service: service}
}

// HandleLive handles GET /api/posts/{postID}/comments/live
func (h *LiveCommentsHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	sub, err := h.service.SubscribeComments(postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	live.Stream(w, r, sub)
}
