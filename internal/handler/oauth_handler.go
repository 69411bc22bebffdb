package handler

import (
	"net/http"

	"github.com/google/uuid"

	"sweetshop/internal/container"
	"sweetshop/internal/repository"
	"sweetshop/internal/session"
	"sweetshop/pkg/errors"
)

const stateCookieName = "oauth_state"

// OAuthHandler drives the Google sign-in flow. Its output is a provider
// session, not an application credential: minting the role-bearing token is
// the onboarding endpoint's job.
type OAuthHandler struct {
	container *container.Container
	users     repository.UserRepository
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(c *container.Container, users repository.UserRepository) *OAuthHandler {
	return &OAuthHandler{
		container: c,
		users:     users,
	}
}

// Login handles GET /auth/google/login
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.container.GetConfig().IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.container.GetGoogle().AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		writeError(w, errors.NewValidationError("Invalid OAuth state", nil), log)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, errors.NewValidationError("Missing authorization code", nil), log)
		return
	}

	identity, err := h.container.GetGoogle().Exchange(r.Context(), code)
	if err != nil {
		log.WithError(err).Error("Google OAuth exchange failed")
		writeError(w, errors.NewExternalError("Sign-in failed", err), log)
		return
	}

	sessionID, err := h.container.GetSessions().Create(r.Context(), identity)
	if err != nil {
		log.WithError(err).Error("Failed to create provider session")
		writeError(w, errors.NewInternalError("Sign-in failed", err), log)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.container.GetConfig().IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	if collector := h.container.GetMetrics(); collector != nil {
		collector.RecordLogin()
	}

	// Returning users with a finished onboarding land on the dashboard; new
	// users go pick a role first.
	destination := "/form"
	user, err := h.users.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		log.WithError(err).Warn("User lookup failed after sign-in, routing to onboarding")
	} else if user != nil && user.OnboardingComplete {
		destination = "/dashboard"
	}

	http.Redirect(w, r, h.container.GetConfig().FrontendURL+destination, http.StatusFound)
}

// Logout handles POST /auth/logout. It drops the provider session and
// expires both cookies. The session token itself stays valid until expiry;
// there is no server-side revocation list.
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.container.GetSessions().Delete(r.Context(), cookie.Value); err != nil {
			log.WithError(err).Warn("Failed to delete provider session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.container.GetConfig().IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	h.container.GetCarrier().Clear(w)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	}, log)
}
