package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AmitLevy9/DailyBite/internal/api/handlers/profile"
	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/users"
)

// RegisterProfileRoutes registers the profile endpoints.
func RegisterProfileRoutes(r chi.Router, service users.Service, sessions *middleware.SessionAuth) {
	getHandler := profile.NewGetHandler(service)
	updateHandler := profile.NewUpdateHandler(service)

	r.Get("/api/users/{uid}/profile", getHandler.HandleGet)
	r.Get("/api/users/{uid}/profile/live", getHandler.HandleLive)
	r.With(sessions.RequireAuth).Put("/api/profile", updateHandler.HandleUpdate)
}
