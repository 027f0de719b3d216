package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ukemeny/internal/database"
	"ukemeny/internal/shared"
)

// NewItem is a line item ready to be stored: its ingredient already exists.
type NewItem struct {
	IngredientID int64
	Amount       decimal.Decimal
	Unit         string
	Note         string
}

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// ListIDs returns the id of every recipe in the catalog, ascending.
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM recipe ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get retrieves a recipe with its items resolved down to categories.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	recipes, err := r.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	rec, ok := recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: recipe %d", shared.ErrNotFound, id)
	}
	return &rec, nil
}

// GetByIDs retrieves multiple recipes, fully resolved. Unknown ids are
// simply absent from the result.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Recipe, error) {
	out := make(map[int64]Recipe, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM recipe WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		rec.Items = []LineItem{}
		out[rec.ID] = rec
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.db.QueryContext(ctx, `
SELECT ri.recipe_id, ri.id, ri.amount, ri.unit, ri.note,
       i.id, i.name, c.id, c.name, c.sort_order
FROM recipe_item ri
JOIN ingredient i ON i.id = ri.ingredient_id
JOIN category c ON c.id = i.category_id
WHERE ri.recipe_id IN (`+placeholders+`)
ORDER BY ri.recipe_id, ri.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			recipeID int64
			amount   string
			item     LineItem
		)
		err := itemRows.Scan(&recipeID, &item.ID, &amount, &item.Unit, &item.Note,
			&item.Ingredient.ID, &item.Ingredient.Name,
			&item.Ingredient.Category.ID, &item.Ingredient.Category.Name, &item.Ingredient.Category.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe item: %w", err)
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("recipe %d has invalid amount %q: %w", recipeID, amount, err)
		}
		rec := out[recipeID]
		rec.Items = append(rec.Items, item)
		out[recipeID] = rec
	}
	return out, itemRows.Err()
}

// SearchByName returns up to limit recipes whose name contains name,
// newest first.
func (r *Repository) SearchByName(ctx context.Context, name string, limit int) ([]Summary, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(name)) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM recipe WHERE name LIKE ? ESCAPE '\' ORDER BY id DESC LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Create inserts a recipe and its items in one transaction.
func (r *Repository) Create(ctx context.Context, name, description string, items []NewItem) (int64, error) {
	var id int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO recipe (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			name, description, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertItems(ctx, tx, id, items)
	})
	return id, err
}

// Update overwrites name and description and replaces every item.
func (r *Repository) Update(ctx context.Context, id int64, name, description string, items []NewItem) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE recipe SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
			name, description, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update recipe %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: recipe %d", shared.ErrNotFound, id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_item WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear items of recipe %d: %w", id, err)
		}
		return insertItems(ctx, tx, id, items)
	})
}

// Delete removes a recipe. Recipes still planned in a weekly menu cannot be
// deleted.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipe WHERE id = ?`, id)
	if err != nil {
		return database.MapConstraintError(err, fmt.Sprintf("recipe %d", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: recipe %d", shared.ErrNotFound, id)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, recipeID int64, items []NewItem) error {
	for pos, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_item (recipe_id, ingredient_id, position, amount, unit, note) VALUES (?, ?, ?, ?, ?, ?)`,
			recipeID, item.IngredientID, pos, item.Amount.StringFixed(AmountScale), item.Unit, item.Note)
		if err != nil {
			return fmt.Errorf("failed to insert item %d of recipe %d: %w", pos, recipeID, err)
		}
	}
	return nil
}

func inClause(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
