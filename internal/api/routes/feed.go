package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/feed"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// RegisterFeedRoutes registers the feed read endpoints. All feed reads are
// public; the one-shot and live variants observe the same query window.
func RegisterFeedRoutes(r chi.Router, service posts.Service, docs store.DocumentStore) {
	handler := feed.NewHandler(service, docs)

	r.Get("/api/feed", handler.HandleGet)
	r.Get("/api/feed/live", handler.HandleLive)
	r.Get("/api/users/{uid}/posts", handler.HandleGetOwner)
	r.Get("/api/users/{uid}/posts/live", handler.HandleLiveOwner)
}
