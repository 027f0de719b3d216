package ingredient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ukemeny/internal/database"
	"ukemeny/internal/shared"
)

const selectIngredient = `
SELECT i.id, i.name, c.id, c.name, c.sort_order
FROM ingredient i
JOIN category c ON c.id = i.category_id`

// CategoryUpdate moves one ingredient to another category.
type CategoryUpdate struct {
	IngredientID int64 `json:"ingredientId"`
	CategoryID   int64 `json:"categoryId"`
}

// BulkDeleteResult reports what a bulk delete did with each requested id.
type BulkDeleteResult struct {
	DeletedIDs         []int64 `json:"deletedIds"`
	SkippedUsedIDs     []int64 `json:"skippedUsedIds"`
	SkippedNotFoundIDs []int64 `json:"skippedNotFoundIds"`
}

// Repository is a database-backed repository for ingredients.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

func scanIngredient(row interface{ Scan(...any) error }) (Ingredient, error) {
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Category.ID, &i.Category.Name, &i.Category.SortOrder)
	return i, err
}

// List returns every ingredient with its category resolved.
func (r *Repository) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, selectIngredient)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Get retrieves an ingredient by its ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Ingredient, error) {
	i, err := scanIngredient(r.db.QueryRowContext(ctx, selectIngredient+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ingredient %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return &i, nil
}

// GetByName retrieves an ingredient by name, ignoring case.
func (r *Repository) GetByName(ctx context.Context, name string) (*Ingredient, error) {
	i, err := scanIngredient(r.db.QueryRowContext(ctx, selectIngredient+` WHERE i.name = ? COLLATE NOCASE`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ingredient %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %q: %w", name, err)
	}
	return &i, nil
}

// Create inserts an ingredient and returns its ID.
func (r *Repository) Create(ctx context.Context, name string, categoryID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO ingredient (name, category_id) VALUES (?, ?)`, name, categoryID)
	if err != nil {
		return 0, database.MapConstraintError(err, fmt.Sprintf("ingredient %q", name))
	}
	return res.LastInsertId()
}

// SetCategories applies every update or none of them. An unknown ingredient
// or category id fails the whole batch.
func (r *Repository) SetCategories(ctx context.Context, updates []CategoryUpdate) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, u := range updates {
			if ok, err := exists(ctx, tx, `SELECT 1 FROM ingredient WHERE id = ?`, u.IngredientID); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("%w: ingredient %d", shared.ErrNotFound, u.IngredientID)
			}
			if ok, err := exists(ctx, tx, `SELECT 1 FROM category WHERE id = ?`, u.CategoryID); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("%w: category %d", shared.ErrNotFound, u.CategoryID)
			}
		}
		for _, u := range updates {
			if _, err := tx.ExecContext(ctx, `UPDATE ingredient SET category_id = ? WHERE id = ?`, u.CategoryID, u.IngredientID); err != nil {
				return fmt.Errorf("failed to set category for ingredient %d: %w", u.IngredientID, err)
			}
		}
		return nil
	})
}

// UsedIDs returns the ids of ingredients referenced by at least one recipe.
func (r *Repository) UsedIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT ingredient_id FROM recipe_item`)
	if err != nil {
		return nil, fmt.Errorf("failed to list used ingredients: %w", err)
	}
	defer rows.Close()

	used := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		used[id] = struct{}{}
	}
	return used, rows.Err()
}

// DeleteIfUnused removes an ingredient that no recipe references.
func (r *Repository) DeleteIfUnused(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if ok, err := exists(ctx, tx, `SELECT 1 FROM ingredient WHERE id = ?`, id); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: ingredient %d", shared.ErrNotFound, id)
		}
		if used, err := exists(ctx, tx, `SELECT 1 FROM recipe_item WHERE ingredient_id = ? LIMIT 1`, id); err != nil {
			return err
		} else if used {
			return fmt.Errorf("%w: ingredient %d is used by a recipe and cannot be deleted", shared.ErrConflict, id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredient WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
		}
		return nil
	})
}

// DeleteUnused removes up to limit unreferenced ingredients, lowest ids first.
func (r *Repository) DeleteUnused(ctx context.Context, limit int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM ingredient WHERE id IN (
    SELECT id FROM ingredient
    WHERE id NOT IN (SELECT ingredient_id FROM recipe_item)
    ORDER BY id
    LIMIT ?
)`, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unused ingredients: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// BulkDeleteUnused deletes each requested ingredient that exists and is
// unused. Used and unknown ids are skipped and reported, not failed.
func (r *Repository) BulkDeleteUnused(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{
		DeletedIDs:         []int64{},
		SkippedUsedIDs:     []int64{},
		SkippedNotFoundIDs: []int64{},
	}
	seen := make(map[int64]struct{}, len(ids))

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			found, err := exists(ctx, tx, `SELECT 1 FROM ingredient WHERE id = ?`, id)
			if err != nil {
				return err
			}
			if !found {
				result.SkippedNotFoundIDs = append(result.SkippedNotFoundIDs, id)
				continue
			}
			used, err := exists(ctx, tx, `SELECT 1 FROM recipe_item WHERE ingredient_id = ? LIMIT 1`, id)
			if err != nil {
				return err
			}
			if used {
				result.SkippedUsedIDs = append(result.SkippedUsedIDs, id)
				continue
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM ingredient WHERE id = ?`, id); err != nil {
				return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
			}
			result.DeletedIDs = append(result.DeletedIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query existence: %w", err)
	}
	return true, nil
}
