package feedback

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/feedback"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// CommentHandler handles comment writes and one-shot thread reads.
type CommentHandler struct {
	service feedback.Service
	docs    store.DocumentStore
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service feedback.Service, docs store.DocumentStore) *CommentHandler {
	return &CommentHandler{service: service, docs: docs}
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// HandleAdd handles POST /api/posts/{postID}/comments
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	if err := h.service.AddComment(r.Context(), postID, uid, req.Text); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleList handles GET /api/posts/{postID}/comments
// Returns the same window the live stream observes: comments only,
// oldest first.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	docs, err := h.docs.Query(r.Context(), feedback.CommentsQuery(postID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]feedback.Item, 0, len(docs))
	for _, doc := range docs {
		if item, ok := feedback.FromDocument(doc.ID, doc.Fields); ok {
			items = append(items, item)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"items": items}); err != nil {
		log.Printf("Failed to encode comments response: %v", err)
	}
}
