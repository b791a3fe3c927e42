package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/feedback"
)

// LikeHandler handles like requests
type LikeHandler struct {
	service feedback.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service feedback.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike handles POST /api/posts/{postID}/like
// The counter increment happens server-side, so concurrent likes all count.
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	uid := middleware.GetUserUID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.Like(r.Context(), postID, uid); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
