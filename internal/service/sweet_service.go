package service

import (
	"context"
	"fmt"

	"sweetshop/internal/domain"
	"sweetshop/internal/repository"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/redis"
)

// SweetService wraps the sweet repository with a cache-aside layer for the
// full listing. Search always hits the store; every write invalidates the
// cached listing. The service degrades to repository-only when Redis is not
// configured.
type SweetService struct {
	repo  repository.SweetRepository
	cache *redis.Client
	log   *logger.Logger
}

// NewSweetService creates a new sweet service. cache may be nil.
func NewSweetService(repo repository.SweetRepository, cache *redis.Client, log *logger.Logger) *SweetService {
	return &SweetService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List returns all sweets, served from cache when possible.
func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	if s.cache != nil {
		var cached []domain.Sweet
		found, err := s.cache.GetJSON(ctx, s.cache.KeyBuilder.KeySweetsAll(), &cached)
		if err != nil {
			s.log.WithError(err).Warn("Sweet cache read failed, falling back to database")
		} else if found {
			return cached, nil
		}
	}

	sweets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, s.cache.KeyBuilder.KeySweetsAll(), sweets, redis.TTLSweetsList); err != nil {
			s.log.WithError(err).Warn("Failed to cache sweet listing")
		}
	}

	return sweets, nil
}

// GetByID returns a single sweet, nil when absent.
func (s *SweetService) GetByID(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a new sweet.
func (s *SweetService) Create(ctx context.Context, sweet *domain.Sweet) error {
	if err := s.repo.Create(ctx, sweet); err != nil {
		return err
	}
	s.invalidateListing(ctx)
	return nil
}

// Update applies a partial update; nil when the sweet is absent.
func (s *SweetService) Update(ctx context.Context, id string, req *domain.UpdateSweetRequest) (*domain.Sweet, error) {
	sweet, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if sweet != nil {
		s.invalidateListing(ctx)
	}
	return sweet, nil
}

// Delete removes a sweet; the bool reports whether it existed.
func (s *SweetService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateListing(ctx)
	}
	return deleted, nil
}

// Search filters sweets; results are never cached.
func (s *SweetService) Search(ctx context.Context, query *domain.SweetSearchQuery) ([]domain.Sweet, error) {
	return s.repo.Search(ctx, query)
}

// Purchase decrements stock; nil when the remaining quantity is short.
func (s *SweetService) Purchase(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("purchase quantity must be positive, got %d", quantity)
	}
	sweet, err := s.repo.Purchase(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if sweet != nil {
		s.invalidateListing(ctx)
	}
	return sweet, nil
}

// Restock increments stock; nil when the sweet is absent.
func (s *SweetService) Restock(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}
	sweet, err := s.repo.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if sweet != nil {
		s.invalidateListing(ctx)
	}
	return sweet, nil
}

func (s *SweetService) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cache.KeyBuilder.KeySweetsAll()); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate sweet listing cache")
	}
}
