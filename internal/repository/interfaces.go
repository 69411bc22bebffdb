package repository

import (
	"context"

	"sweetshop/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByEmail retrieves a user by email, nil when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindOrCreate returns the user for user.Email, creating the record when
	// none exists. Concurrent first sign-ins for the same email resolve to a
	// single record via the store's uniqueness constraint.
	FindOrCreate(ctx context.Context, user *domain.User) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]domain.User, error)
}

// SweetRepository defines the interface for sweet inventory operations
type SweetRepository interface {
	// List retrieves all sweets, newest first
	List(ctx context.Context) ([]domain.Sweet, error)

	// GetByID retrieves a sweet by id, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Sweet, error)

	// Create inserts a new sweet and fills in generated fields
	Create(ctx context.Context, sweet *domain.Sweet) error

	// Update applies the supplied fields; nil when the sweet is absent
	Update(ctx context.Context, id string, req *domain.UpdateSweetRequest) (*domain.Sweet, error)

	// Delete removes a sweet; the bool reports whether a row was deleted
	Delete(ctx context.Context, id string) (bool, error)

	// Search filters sweets by name/category/price range, newest first
	Search(ctx context.Context, query *domain.SweetSearchQuery) ([]domain.Sweet, error)

	// Purchase decrements quantity atomically; nil when stock is insufficient
	Purchase(ctx context.Context, id string, quantity int) (*domain.Sweet, error)

	// Restock increments quantity; nil when the sweet is absent
	Restock(ctx context.Context, id string, quantity int) (*domain.Sweet, error)
}
