package routes

import (
	"github.com/go-chi/chi/v5"

	feedbackHandlers "github.com/AmitLevy9/DailyBite/internal/api/handlers/feedback"
	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/feedback"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// RegisterFeedbackRoutes registers the like and comment endpoints.
func RegisterFeedbackRoutes(r chi.Router, service feedback.Service, docs store.DocumentStore, sessions *middleware.SessionAuth) {
	likeHandler := feedbackHandlers.NewLikeHandler(service)
	commentHandler := feedbackHandlers.NewCommentHandler(service, docs)
	liveHandler := feedbackHandlers.NewLiveCommentsHandler(service)

	r.With(sessions.RequireAuth).Post("/api/posts/{postID}/like", likeHandler.HandleLike)
	r.With(sessions.RequireAuth).Post("/api/posts/{postID}/comments", commentHandler.HandleAdd)
	r.Get("/api/posts/{postID}/comments", commentHandler.HandleList)
	r.Get("/api/posts/{postID}/comments/live", liveHandler.HandleLive)
}
