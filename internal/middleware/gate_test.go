package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"sweetshop/internal/domain"
	"sweetshop/internal/session"
	"sweetshop/pkg/logger"
)

// fakeSessions resolves a fixed set of session ids.
type fakeSessions struct {
	known map[string]*domain.ProviderIdentity
}

func (f *fakeSessions) Get(_ context.Context, id string) (*domain.ProviderIdentity, error) {
	return f.known[id], nil
}

func TestGate_Middleware(t *testing.T) {
	sessions := &fakeSessions{
		known: map[string]*domain.ProviderIdentity{
			"live-session": {Subject: "subject-1", Email: "user@example.com"},
		},
	}
	gate := NewGate(sessions, logger.NewNop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		path           string
		sessionID      string
		expectedStatus int
		expectedTarget string
	}{
		{
			name:           "Unauthenticated protected page redirects to login",
			path:           "/dashboard",
			expectedStatus: http.StatusFound,
			expectedTarget: "/login",
		},
		{
			name:           "Expired session on protected page redirects to login",
			path:           "/dashboard",
			sessionID:      "dead-session",
			expectedStatus: http.StatusFound,
			expectedTarget: "/login",
		},
		{
			name:           "Signed-in user on protected page passes",
			path:           "/dashboard",
			sessionID:      "live-session",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Signed-in user on login page bounces to dashboard",
			path:           "/login",
			sessionID:      "live-session",
			expectedStatus: http.StatusFound,
			expectedTarget: "/dashboard",
		},
		{
			name:           "Signed-in user on root bounces to dashboard",
			path:           "/",
			sessionID:      "live-session",
			expectedStatus: http.StatusFound,
			expectedTarget: "/dashboard",
		},
		{
			name:           "Unauthenticated user on login page passes",
			path:           "/login",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unauthenticated user on root passes",
			path:           "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Onboarding form is public",
			path:           "/form",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "API traffic passes untouched",
			path:           "/api/sweets",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Auth flow passes untouched",
			path:           "/auth/google/login",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Health endpoint is public",
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Static assets are public",
			path:           "/static/app.css",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.sessionID != "" {
				r.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.sessionID})
			}

			rec := httptest.NewRecorder()
			gate.Middleware(next).ServeHTTP(rec, r)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedTarget != "" {
				assert.Equal(t, tt.expectedTarget, rec.Header().Get("Location"))
			}
		})
	}
}
