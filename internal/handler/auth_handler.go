package handler

import (
	"encoding/json"
	"net/http"

	"sweetshop/internal/container"
	"sweetshop/internal/domain"
	"sweetshop/internal/repository"
	"sweetshop/internal/session"
	"sweetshop/pkg/errors"
)

// AuthHandler handles the credential-facing endpoints: whoami and the
// onboarding flow that mints the first session token.
type AuthHandler struct {
	container *container.Container
	users     repository.UserRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(c *container.Container, users repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		container: c,
		users:     users,
	}
}

// Me handles GET /api/auth/me. The response is derived from the verified
// credential alone; no store lookup happens.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	cred := h.container.GetGuard().Authenticate(r)
	if cred == nil {
		writeError(w, errors.NewAuthenticationError("Unauthorized - Invalid or missing token"), log)
		return
	}

	writeJSON(w, http.StatusOK, cred, log)
}

// Onboard handles POST /api/user. On first authenticated contact it creates
// the user record with the submitted role, then mints the session credential
// and attaches it as a cookie. The cookie is only set on the success path.
func (h *AuthHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	identity := h.providerIdentity(r)
	if identity == nil {
		writeError(w, errors.NewAuthenticationError("Unauthorized"), log)
		return
	}

	var req domain.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", nil), log)
		return
	}

	if req.Role == "" {
		writeError(w, errors.NewValidationError("Role is required", nil), log)
		return
	}
	if !req.Role.Valid() {
		writeError(w, errors.NewValidationError("Invalid role", nil), log)
		return
	}
	if identity.Email == "" {
		writeError(w, errors.NewValidationError("Email is required", nil), log)
		return
	}

	user, err := h.users.FindOrCreate(r.Context(), newUserFromIdentity(identity, req.Role))
	if err != nil {
		log.WithError(err).Error("Failed to save user during onboarding")
		writeError(w, errors.NewInternalError("Failed to save user", err), log)
		return
	}

	// The credential embeds the provider account id, not the row id; fall
	// back to the live session's subject when the stored one is null.
	subjectID := identity.Subject
	if user.OAuthID != nil && *user.OAuthID != "" {
		subjectID = *user.OAuthID
	}
	role := user.Role
	if role == "" {
		role = req.Role
	}

	if subjectID == "" || role == "" {
		writeError(w, errors.NewValidationError("Missing required user information for token generation", nil), log)
		return
	}

	tokenString, err := h.container.GetCodec().Mint(subjectID, role)
	if err != nil {
		log.WithError(err).Error("Failed to mint session token")
		writeError(w, errors.NewInternalError("Failed to save user", err), log)
		return
	}

	h.container.GetCarrier().Attach(w, tokenString)

	log.WithFields(map[string]interface{}{
		"subject": subjectID,
		"role":    role,
	}).Info("User onboarded")

	writeJSON(w, http.StatusOK, user, log)
}

// providerIdentity resolves the provider session cookie, nil when absent or
// expired.
func (h *AuthHandler) providerIdentity(r *http.Request) *domain.ProviderIdentity {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	identity, err := h.container.GetSessions().Get(r.Context(), cookie.Value)
	if err != nil {
		h.container.GetLogger().WithError(err).Error("Failed to resolve provider session")
		return nil
	}
	return identity
}

func newUserFromIdentity(identity *domain.ProviderIdentity, role domain.Role) *domain.User {
	user := &domain.User{
		Email:              identity.Email,
		Role:               role,
		OnboardingComplete: true,
	}
	if identity.Name != "" {
		name := identity.Name
		user.Name = &name
	}
	if identity.Subject != "" {
		subject := identity.Subject
		user.OAuthID = &subject
	}
	return user
}
