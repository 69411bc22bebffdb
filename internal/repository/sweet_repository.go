package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sweetshop/internal/domain"
	"sweetshop/pkg/database"
)

const sweetColumns = "id, name, category, price, quantity, created_at, updated_at"

type PostgresSweetRepository struct {
	db *database.PostgresDB
}

func NewSweetRepository(db *database.PostgresDB) *PostgresSweetRepository {
	return &PostgresSweetRepository{db: db}
}

// List gets all sweets, newest first
func (r *PostgresSweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

// GetByID gets a sweet by id
func (r *PostgresSweetRepository) GetByID(ctx context.Context, id string) (*domain.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`

	sweet, err := scanSweetRow(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get sweet: %w", err)
	}
	return sweet, nil
}

// Create inserts a new sweet record
func (r *PostgresSweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	query := `
		INSERT INTO sweets (id, name, category, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	sweet.ID = uuid.NewString()
	err := r.db.Pool.QueryRow(ctx, query,
		sweet.ID,
		sweet.Name,
		sweet.Category,
		sweet.Price,
		sweet.Quantity,
	).Scan(&sweet.ID, &sweet.CreatedAt, &sweet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sweet: %w", err)
	}
	return nil
}

// Update applies only the supplied fields
func (r *PostgresSweetRepository) Update(ctx context.Context, id string, req *domain.UpdateSweetRequest) (*domain.Sweet, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{id}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		addSet("name", strings.TrimSpace(*req.Name))
	}
	if req.Category != nil {
		addSet("category", strings.TrimSpace(*req.Category))
	}
	if req.Price != nil {
		addSet("price", *req.Price)
	}
	if req.Quantity != nil {
		addSet("quantity", *req.Quantity)
	}

	query := fmt.Sprintf(
		`UPDATE sweets SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), sweetColumns,
	)

	sweet, err := scanSweetRow(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update sweet: %w", err)
	}
	return sweet, nil
}

// Delete removes a sweet
func (r *PostgresSweetRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sweet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Search filters sweets by name, category and price range
func (r *PostgresSweetRepository) Search(ctx context.Context, q *domain.SweetSearchQuery) ([]domain.Sweet, error) {
	clauses := []string{}
	args := []interface{}{}

	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.Name != "" {
		addClause("name ILIKE '%%' || $%d || '%%'", q.Name)
	}
	if q.Category != "" {
		addClause("category ILIKE '%%' || $%d || '%%'", q.Category)
	}
	if q.MinPrice != nil {
		addClause("price >= $%d", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		addClause("price <= $%d", *q.MaxPrice)
	}

	query := `SELECT ` + sweetColumns + ` FROM sweets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

// Purchase decrements the quantity in a single conditional statement so
// concurrent purchases cannot drive stock negative. A nil result means the
// remaining quantity was insufficient (existence is checked by the caller).
func (r *PostgresSweetRepository) Purchase(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + sweetColumns

	sweet, err := scanSweetRow(r.db.Pool.QueryRow(ctx, query, id, quantity))
	if err != nil {
		return nil, fmt.Errorf("failed to purchase sweet: %w", err)
	}
	return sweet, nil
}

// Restock increments the quantity
func (r *PostgresSweetRepository) Restock(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	query := `
		UPDATE sweets
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + sweetColumns

	sweet, err := scanSweetRow(r.db.Pool.QueryRow(ctx, query, id, quantity))
	if err != nil {
		return nil, fmt.Errorf("failed to restock sweet: %w", err)
	}
	return sweet, nil
}

func scanSweetRow(row pgx.Row) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := row.Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Price,
		&sweet.Quantity,
		&sweet.CreatedAt,
		&sweet.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}

func scanSweets(rows pgx.Rows) ([]domain.Sweet, error) {
	var sweets []domain.Sweet
	for rows.Next() {
		var sweet domain.Sweet
		err := rows.Scan(
			&sweet.ID,
			&sweet.Name,
			&sweet.Category,
			&sweet.Price,
			&sweet.Quantity,
			&sweet.CreatedAt,
			&sweet.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweet: %w", err)
		}
		sweets = append(sweets, sweet)
	}
	return sweets, rows.Err()
}
