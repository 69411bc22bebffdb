package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"sweetshop/internal/domain"
	"sweetshop/pkg/database"
)

const userColumns = "id, name, email, oauth_id, role, onboarding_complete, created_at, updated_at"

type PostgresUserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// GetByEmail gets a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.OAuthID,
		&user.Role,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// FindOrCreate returns the existing user for user.Email or creates one.
// The lookup-then-insert is racy for concurrent first sign-ins, so the insert
// relies on the unique constraint on email: a conflict means another request
// created the record first, and the re-fetch returns it.
func (r *PostgresUserRepository) FindOrCreate(ctx context.Context, user *domain.User) (*domain.User, error) {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := r.create(ctx, user)
	if isUniqueViolation(err) {
		return r.GetByEmail(ctx, user.Email)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresUserRepository) create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, name, email, oauth_id, role, onboarding_complete)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	var created domain.User
	err := r.db.Pool.QueryRow(ctx, query,
		uuid.NewString(),
		user.Name,
		user.Email,
		user.OAuthID,
		user.Role,
		user.OnboardingComplete,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.OAuthID,
		&created.Role,
		&created.OnboardingComplete,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// List gets all users
func (r *PostgresUserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.OAuthID,
			&user.Role,
			&user.OnboardingComplete,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
