package middleware

import (
	"context"
	"net/http"
	"strings"

	"sweetshop/internal/domain"
	"sweetshop/internal/session"
	"sweetshop/pkg/logger"
)

// SessionChecker is the subset of the session store the gate needs.
type SessionChecker interface {
	Get(ctx context.Context, id string) (*domain.ProviderIdentity, error)
}

// Gate performs coarse, edge-level page-navigation access control. It runs
// before any handler and consults the provider session only: it answers "has
// this browser completed sign-in at all", not "does this request carry a
// role-bearing credential". API paths pass through untouched and self-police
// via the Guard. A user mid-onboarding holds a provider session but no
// credential yet, which is why the onboarding form stays public here.
type Gate struct {
	sessions SessionChecker
	log      *logger.Logger
}

// NewGate creates a gate backed by the given session store.
func NewGate(sessions SessionChecker, log *logger.Logger) *Gate {
	return &Gate{
		sessions: sessions,
		log:      log,
	}
}

// publicPath reports whether the path is reachable without a provider
// session. Sign-in pages are listed separately because they additionally
// bounce already-signed-in users to the dashboard.
func publicPath(path string) bool {
	if isSignInPage(path) || path == "/form" || path == "/health" || path == "/metrics" || path == "/favicon.ico" {
		return true
	}
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/auth/") ||
		strings.HasPrefix(path, "/static/")
}

func isSignInPage(path string) bool {
	return path == "/" || path == "/login"
}

// Middleware classifies every inbound path and redirects browser navigation
// accordingly. Failures here are redirects, never JSON errors.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// API and asset traffic never touches the session store here.
		if publicPath(path) && !isSignInPage(path) {
			next.ServeHTTP(w, r)
			return
		}

		signedIn := g.hasProviderSession(r)

		if signedIn && isSignInPage(path) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}

		if !signedIn && !publicPath(path) {
			g.log.WithField("path", path).Debug("Redirecting unauthenticated navigation to sign-in")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Gate) hasProviderSession(r *http.Request) bool {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	identity, err := g.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		g.log.WithError(err).Error("Failed to resolve provider session")
		return false
	}
	return identity != nil
}
