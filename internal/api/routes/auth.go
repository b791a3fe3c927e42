package routes

import (
	"github.com/go-chi/chi/v5"

	authHandlers "github.com/AmitLevy9/DailyBite/internal/api/handlers/auth"
	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/auth"
)

// RegisterAuthRoutes registers the sign-in endpoints.
func RegisterAuthRoutes(r chi.Router, service auth.Service, sessions *middleware.SessionAuth) {
	handler := authHandlers.NewHandler(service, sessions)

	r.Post("/api/auth/anonymous", handler.HandleAnonymous)
	r.Post("/api/auth/signup", handler.HandleSignup)
	r.Post("/api/auth/login", handler.HandleLogin)
	r.With(sessions.RequireAuth).Post("/api/auth/logout", handler.HandleLogout)
}
