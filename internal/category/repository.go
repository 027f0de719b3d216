package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ukemeny/internal/database"
	"ukemeny/internal/shared"
)

// Repository is a database-backed repository for categories.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// List returns every category in storage order.
func (r *Repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Get retrieves a category by its ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, sort_order FROM category WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &c, nil
}

// GetByName retrieves a category by name, ignoring case.
func (r *Repository) GetByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, sort_order FROM category WHERE name = ? COLLATE NOCASE`, name).
		Scan(&c.ID, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %q: %w", name, err)
	}
	return &c, nil
}

// Create inserts a category and returns its ID.
func (r *Repository) Create(ctx context.Context, c Category) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO category (name, sort_order) VALUES (?, ?)`, c.Name, c.SortOrder)
	if err != nil {
		return 0, database.MapConstraintError(err, fmt.Sprintf("category %q", c.Name))
	}
	return res.LastInsertId()
}

// Update overwrites name and sort order of an existing category.
func (r *Repository) Update(ctx context.Context, c Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE category SET name = ?, sort_order = ? WHERE id = ?`, c.Name, c.SortOrder, c.ID)
	if err != nil {
		return database.MapConstraintError(err, fmt.Sprintf("category %q", c.Name))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: category %d", shared.ErrNotFound, c.ID)
	}
	return nil
}
