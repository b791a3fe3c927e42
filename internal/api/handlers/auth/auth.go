// Package auth exposes sign-in endpoints and binds the resulting uid to a
// session cookie.
package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/auth"
)

// Handler serves the auth endpoints.
type Handler struct {
	service  auth.Service
	sessions *middleware.SessionAuth
}

// NewHandler creates a new auth handler
func NewHandler(service auth.Service, sessions *middleware.SessionAuth) *Handler {
	return &Handler{service: service, sessions: sessions}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAnonymous handles POST /api/auth/anonymous
// Mints a fresh uid with no credentials behind it and signs the session in.
func (h *Handler) HandleAnonymous(w http.ResponseWriter, r *http.Request) {
	uid, err := h.service.SignInAnonymously(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.completeSignIn(w, r, uid)
}

// HandleSignup handles POST /api/auth/signup
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	uid, err := h.service.SignUpEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.completeSignIn(w, r, uid)
}

// HandleLogin handles POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	uid, err := h.service.SignInEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.completeSignIn(w, r, uid)
}

// HandleLogout handles POST /api/auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		log.Printf("Failed to clear session: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "email and password are required")
		return req, false
	}
	return req, true
}

func (h *Handler) completeSignIn(w http.ResponseWriter, r *http.Request, uid string) {
	if err := h.sessions.SignIn(w, r, uid); err != nil {
		log.Printf("Failed to save session: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"uid": uid}); err != nil {
		log.Printf("Failed to encode auth response: %v", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EmailTaken", "Email already registered")

	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password")

	default:
		log.Printf("Unexpected error in auth handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
