package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/domain"
	"sweetshop/internal/session"
	"sweetshop/internal/token"
)

func TestOAuthHandler_LoginRedirectsToGoogle(t *testing.T) {
	c := newTestContainer(t)
	h := NewOAuthHandler(c, newMemUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "accounts.google.com")

	var stateCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == stateCookieName {
			stateCookie = cookie
		}
	}
	require.NotNil(t, stateCookie)
	assert.NotEmpty(t, stateCookie.Value)
	assert.True(t, stateCookie.HttpOnly)

	// The state in the redirect URL matches the cookie.
	assert.Contains(t, rec.Header().Get("Location"), stateCookie.Value)
}

func TestOAuthHandler_CallbackRejectsBadState(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cookie *http.Cookie
	}{
		{
			name:   "Missing state cookie",
			target: "/auth/google/callback?state=abc&code=xyz",
		},
		{
			name:   "Mismatched state",
			target: "/auth/google/callback?state=abc&code=xyz",
			cookie: &http.Cookie{Name: stateCookieName, Value: "something-else"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t)
			h := NewOAuthHandler(c, newMemUserRepo())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			rec := httptest.NewRecorder()
			h.Callback(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid OAuth state", errorMessage(t, rec))
		})
	}
}

func TestOAuthHandler_CallbackRequiresCode(t *testing.T) {
	c := newTestContainer(t)
	h := NewOAuthHandler(c, newMemUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "abc"})

	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing authorization code", errorMessage(t, rec))
}

func TestOAuthHandler_Logout(t *testing.T) {
	c := newTestContainer(t)
	h := NewOAuthHandler(c, newMemUserRepo())

	sessionCookie := signIn(t, c, &domain.ProviderIdentity{
		Subject: "google-123",
		Email:   "user@example.com",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out")

	// The provider session is gone server-side.
	identity, err := c.GetSessions().Get(context.Background(), sessionCookie.Value)
	require.NoError(t, err)
	assert.Nil(t, identity)

	// Both cookies are expired client-side.
	expired := make(map[string]bool)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			expired[cookie.Name] = true
		}
	}
	assert.True(t, expired[session.CookieName])
	assert.True(t, expired[token.CookieName])
}

func TestOAuthHandler_LogoutWithoutSession(t *testing.T) {
	c := newTestContainer(t)
	h := NewOAuthHandler(c, newMemUserRepo())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
