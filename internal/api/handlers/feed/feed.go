// Package feed serves the main meal feed: one-shot reads and the live
// websocket stream, both backed by the same query window.
package feed

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/live"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Handler serves the feed endpoints.
type Handler struct {
	service posts.Service
	docs    store.DocumentStore
}

// NewHandler creates a new feed handler
func NewHandler(service posts.Service, docs store.DocumentStore) *Handler {
	return &Handler{service: service, docs: docs}
}

// HandleGet handles GET /api/feed
// One-shot read of the feed window: newest first, capped.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.Query(r.Context(), posts.FeedQuery())
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, docs)
}

// HandleGetOwner handles GET /api/users/{uid}/posts
// One-shot read of a single user's posts, newest first.
func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	docs, err := h.docs.Query(r.Context(), posts.OwnerPostsQuery(uid))
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, docs)
}

// HandleLive handles GET /api/feed/live
// Streams the feed as view-state frames over a websocket.
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.SubscribeFeed()
	if err != nil {
		writeError(w, err)
		return
	}
	live.Stream(w, r, sub)
}

// HandleLiveOwner handles GET /api/users/{uid}/posts/live
func (h *Handler) HandleLiveOwner(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	sub, err := h.service.SubscribeOwnerPosts(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	live.Stream(w, r, sub)
}

func writeItems(w http.ResponseWriter, docs []store.Document) {
	items := make([]posts.Post, 0, len(docs))
	for _, doc := range docs {
		if p, ok := posts.FromDocument(doc.ID, doc.Fields); ok {
			items = append(items, p)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"items": items}); err != nil {
		log.Printf("Failed to encode feed response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	log.Printf("Unexpected error in feed handler: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if encErr := json.NewEncoder(w).Encode(map[string]string{
		"error":   "InternalServerError",
		"message": "An internal error occurred",
	}); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}
