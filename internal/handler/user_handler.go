package handler

import (
	"net/http"

	"sweetshop/internal/container"
	"sweetshop/internal/domain"
	"sweetshop/internal/repository"
	"sweetshop/internal/session"
	"sweetshop/pkg/errors"
)

// UserHandler handles user-record endpoints.
type UserHandler struct {
	container *container.Container
	users     repository.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(c *container.Container, users repository.UserRepository) *UserHandler {
	return &UserHandler{
		container: c,
		users:     users,
	}
}

// List handles GET /api/users. Admin only; the role check is done by the
// guard middleware on the route.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	users, err := h.users.List(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list users")
		writeError(w, errors.NewInternalError("Failed to list users", err), log)
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users, log)
}

// Me handles GET /api/users/me. It resolves the caller's user record via the
// provider session rather than the credential, so it works mid-onboarding.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, errors.NewAuthenticationError("Unauthorized"), log)
		return
	}

	identity, err := h.container.GetSessions().Get(r.Context(), cookie.Value)
	if err != nil {
		log.WithError(err).Error("Failed to resolve provider session")
		writeError(w, errors.NewInternalError("Failed to get user", err), log)
		return
	}
	if identity == nil || identity.Email == "" {
		writeError(w, errors.NewAuthenticationError("Unauthorized"), log)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		log.WithError(err).Error("Failed to get user by email")
		writeError(w, errors.NewInternalError("Failed to get user", err), log)
		return
	}
	if user == nil {
		writeError(w, errors.NewNotFoundError("User not found"), log)
		return
	}

	writeJSON(w, http.StatusOK, user, log)
}
