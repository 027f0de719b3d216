package metrics

import (
	"context"
	"database/sql"
	"fmt"
)

// CatalogStats counts the rows of the planner's main tables.
type CatalogStats struct {
	Categories        int `json:"categories"`
	Ingredients       int `json:"ingredients"`
	UnusedIngredients int `json:"unusedIngredients"`
	Recipes           int `json:"recipes"`
	WeeklyMenus       int `json:"weeklyMenus"`
}

// Store reads catalog statistics from SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CatalogStats counts categories, ingredients, recipes and menus in one query.
func (s *Store) CatalogStats(ctx context.Context) (CatalogStats, error) {
	var st CatalogStats
	err := s.db.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM category),
    (SELECT COUNT(*) FROM ingredient),
    (SELECT COUNT(*) FROM ingredient i
      WHERE NOT EXISTS (SELECT 1 FROM recipe_item ri WHERE ri.ingredient_id = i.id)),
    (SELECT COUNT(*) FROM recipe),
    (SELECT COUNT(*) FROM weekly_menu)`).
		Scan(&st.Categories, &st.Ingredients, &st.UnusedIngredients, &st.Recipes, &st.WeeklyMenus)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("failed to read catalog stats: %w", err)
	}
	return st, nil
}
