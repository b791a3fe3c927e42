package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/post"
	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
)

// RegisterPostRoutes registers the post command endpoints on the router.
func RegisterPostRoutes(r chi.Router, service posts.Service, sessions *middleware.SessionAuth) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	// Reads are public; writes require a signed-in session.
	r.Get("/api/posts/{postID}", getHandler.HandleGet)
	r.With(sessions.RequireAuth).Post("/api/posts", createHandler.HandleCreate)
	r.With(sessions.RequireAuth).Put("/api/posts/{postID}", updateHandler.HandleUpdate)
	r.With(sessions.RequireAuth).Delete("/api/posts/{postID}", deleteHandler.HandleDelete)
}
