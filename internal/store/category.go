package store

import (
	"context"
	"database/sql"
	"fmt"

	"smokefree/internal/models"
)

// CategoryStore handles knowledge category lookups.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// FindByID retrieves a category by id. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, name, description, sort_order, created_at
		FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by sort order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx, `
		SELECT id, name, description, sort_order, created_at
		FROM categories ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create inserts a category. Used by seeding and tests.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	created := &models.Category{}
	err := querier(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO categories (name, description, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, sort_order, created_at
	`, c.Name, c.Description, c.SortOrder).Scan(
		&created.ID, &created.Name, &created.Description, &created.SortOrder, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}
