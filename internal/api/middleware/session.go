package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

// Context keys for storing user information
type contextKey string

// UserUIDKey holds the authenticated user's uid in the request context.
const UserUIDKey contextKey = "user_uid"

const (
	sessionName = "dailybite_session"
	sessionUID  = "uid"
)

// SessionAuth enforces cookie-session authentication for protected routes.
// The session only carries the uid; everything else lives in the stores.
type SessionAuth struct {
	store sessions.Store
}

// NewSessionAuth creates a session middleware backed by a signed cookie store.
func NewSessionAuth(secret []byte) *SessionAuth {
	cookieStore := sessions.NewCookieStore(secret)
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionAuth{store: cookieStore}
}

// SignIn writes the uid into the session cookie.
func (m *SessionAuth) SignIn(w http.ResponseWriter, r *http.Request, uid string) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[sessionUID] = uid
	return session.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionAuth) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, sessionUID)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// RequireAuth middleware ensures the request carries a signed-in session.
// If not authenticated, returns 401.
// If authenticated, injects the uid into the request context.
func (m *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := m.sessionUID(r)
		if uid == "" {
			log.Printf("[AUTH_FAILURE] type=no_session ip=%s method=%s path=%s",
				r.RemoteAddr, r.Method, r.URL.Path)
			writeAuthError(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), UserUIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the uid if a session exists, but doesn't require it.
func (m *SessionAuth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := m.sessionUID(r)
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), UserUIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionAuth) sessionUID(r *http.Request) string {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		// A corrupt or re-keyed cookie reads as signed-out, not as an error.
		return ""
	}
	uid, _ := session.Values[sessionUID].(string)
	return uid
}

// GetUserUID extracts the authenticated uid from the request context.
// Returns empty string if not authenticated.
func GetUserUID(r *http.Request) string {
	uid, _ := r.Context().Value(UserUIDKey).(string)
	return uid
}

// UIDFromContext extracts the authenticated uid from a bare context.
func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}

// writeAuthError writes a 401 JSON error response
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthRequired",
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
