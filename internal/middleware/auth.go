package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"sweetshop/internal/domain"
	"sweetshop/internal/metrics"
	"sweetshop/internal/token"
	"sweetshop/pkg/errors"
	"sweetshop/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// CredentialContextKey is the key for the verified credential in context
	CredentialContextKey ContextKey = "credential"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Guard is the single source of truth for "is this request authenticated,
// and as whom". Authorization is derived from the session token alone; no
// store round-trip happens here, which also means a role change or account
// deactivation only takes effect once the old token expires.
type Guard struct {
	codec     *token.Codec
	collector *metrics.Collector
	log       *logger.Logger
}

// NewGuard creates a guard around the given codec.
func NewGuard(codec *token.Codec, collector *metrics.Collector, log *logger.Logger) *Guard {
	return &Guard{
		codec:     codec,
		collector: collector,
		log:       log,
	}
}

// Authenticate extracts and verifies the session token from the request's
// cookie header. Any failure at either stage collapses to nil.
func (g *Guard) Authenticate(r *http.Request) *domain.Credential {
	tokenString, ok := token.ExtractToken(r.Header.Get("Cookie"))
	if !ok {
		return nil
	}

	cred := g.codec.Verify(tokenString)
	if cred == nil && g.collector != nil {
		g.collector.RecordTokenRejected()
	}
	return cred
}

// RequireAuth returns the caller's credential, or a 401 error when no valid
// credential is present. Absent and invalid tokens are indistinguishable to
// the caller.
func (g *Guard) RequireAuth(r *http.Request) (*domain.Credential, *errors.AppError) {
	cred := g.Authenticate(r)
	if cred == nil {
		if g.collector != nil {
			g.collector.RecordAuthDenied("unauthorized")
		}
		return nil, errors.NewAuthenticationError("Unauthorized - Invalid or missing token")
	}
	return cred, nil
}

// RequireAdmin returns the caller's credential when it carries the admin
// role. A missing credential propagates as 401; a valid non-admin credential
// yields 403.
func (g *Guard) RequireAdmin(r *http.Request) (*domain.Credential, *errors.AppError) {
	cred, appErr := g.RequireAuth(r)
	if appErr != nil {
		return nil, appErr
	}

	if !cred.IsAdmin() {
		if g.collector != nil {
			g.collector.RecordAuthDenied("forbidden")
		}
		g.log.WithField("subject", cred.SubjectID).Debug("Admin access denied")
		return nil, errors.NewAuthorizationError("Forbidden - Admin access required")
	}

	return cred, nil
}

// RequireAuthMiddleware rejects unauthenticated requests and stashes the
// credential in the request context for downstream handlers.
func (g *Guard) RequireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, appErr := g.RequireAuth(r)
		if appErr != nil {
			WriteErrorResponse(w, appErr, g.log)
			return
		}

		ctx := context.WithValue(r.Context(), CredentialContextKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdminMiddleware rejects requests without a valid admin credential.
func (g *Guard) RequireAdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, appErr := g.RequireAdmin(r)
		if appErr != nil {
			WriteErrorResponse(w, appErr, g.log)
			return
		}

		ctx := context.WithValue(r.Context(), CredentialContextKey, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CredentialFromContext retrieves the verified credential set by the guard
// middlewares.
func CredentialFromContext(ctx context.Context) (*domain.Credential, bool) {
	cred, ok := ctx.Value(CredentialContextKey).(*domain.Credential)
	return cred, ok
}

// WriteErrorResponse writes a structured error response to the client.
func WriteErrorResponse(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	log.WithError(appErr).Debug("Request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    string(appErr.Type),
			"message": appErr.Message,
		},
	}
	if appErr.Details != nil {
		response["error"].(map[string]interface{})["details"] = appErr.Details
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
