package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sweetshop/internal/domain"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/redis"
)

// CookieName is the cookie carrying the opaque provider-session id. This is
// the identity provider's "sign-in completed" marker and is deliberately a
// separate credential from the role-bearing session token: the page gate
// trusts this one, API handlers trust the other.
const CookieName = "provider_session"

// Store keeps provider sessions in Redis, keyed by an opaque id.
type Store struct {
	client *redis.Client
	log    *logger.Logger
}

// NewStore creates a session store backed by the given Redis client.
func NewStore(client *redis.Client, log *logger.Logger) *Store {
	return &Store{
		client: client,
		log:    log,
	}
}

// Create stores the identity under a fresh opaque id and returns the id.
func (s *Store) Create(ctx context.Context, identity *domain.ProviderIdentity) (string, error) {
	id := uuid.NewString()
	key := s.client.KeyBuilder.KeySession(id)

	if err := s.client.SetJSON(ctx, key, identity, redis.TTLSession); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.log.WithField("subject", identity.Subject).Debug("Provider session created")
	return id, nil
}

// Get resolves a session id to the stored identity. Unknown or expired ids
// yield nil without error.
func (s *Store) Get(ctx context.Context, id string) (*domain.ProviderIdentity, error) {
	if id == "" {
		return nil, nil
	}

	var identity domain.ProviderIdentity
	found, err := s.client.GetJSON(ctx, s.client.KeyBuilder.KeySession(id), &identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &identity, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Delete(ctx, s.client.KeyBuilder.KeySession(id))
}
