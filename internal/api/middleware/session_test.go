package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedInRequest(t *testing.T, auth *SessionAuth, uid string) *http.Request {
	t.Helper()

	// Sign in once to mint a session cookie, then attach it to a fresh request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/anonymous", nil)
	require.NoError(t, auth.SignIn(w, r, uid))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))

	handlerCalled := false
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "user-1", GetUserUID(r))
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedInRequest(t, auth, "user-1"))

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_NoSession(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))

	handlerCalled := false
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/protected", nil))

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AuthRequired")
}

func TestRequireAuth_ForeignCookieReadsAsSignedOut(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))
	other := NewSessionAuth([]byte("different-secret"))

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	// Cookie signed with a different secret must not authenticate.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, signedInRequest(t, other, "user-1"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOut_ClearsSession(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))

	req := signedInRequest(t, auth, "user-1")
	w := httptest.NewRecorder()
	require.NoError(t, auth.SignOut(w, req))

	// The sign-out response replaces the cookie with an expired one.
	req2 := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	for _, c := range w.Result().Cookies() {
		req2.AddCookie(c)
	}

	handlerCalled := false
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestOptionalAuth_PassesThroughAnonymous(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))

	handlerCalled := false
	handler := auth.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Empty(t, GetUserUID(r))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

	assert.True(t, handlerCalled)
}

func TestContextIdentity(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"))

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := ContextIdentity{}.CurrentUID(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "user-1", uid)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), signedInRequest(t, auth, "user-1"))
}
