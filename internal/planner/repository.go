package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ukemeny/internal/database"
	"ukemeny/internal/shared"
)

// Repository is a database-backed repository for weekly menus.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create stores a menu and its entries atomically.
func (r *Repository) Create(ctx context.Context, weekStart shared.Date, entries []Entry) (int64, error) {
	var id int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO weekly_menu (week_start_date, created_at) VALUES (?, ?)`,
			weekStart.String(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to insert weekly menu: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertEntries(ctx, tx, id, entries)
	})
	return id, err
}

// Get retrieves a menu with its entries ordered by day.
func (r *Repository) Get(ctx context.Context, id int64) (*WeeklyMenu, error) {
	var (
		m         WeeklyMenu
		weekStart string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, week_start_date, created_at FROM weekly_menu WHERE id = ?`, id).
		Scan(&m.ID, &weekStart, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: weekly menu %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly menu %d: %w", id, err)
	}
	if m.WeekStart, err = shared.ParseDate(weekStart); err != nil {
		return nil, fmt.Errorf("weekly menu %d: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT e.day_of_week, e.recipe_id, r.name, e.locked, e.note
FROM weekly_menu_entry e
JOIN recipe r ON r.id = e.recipe_id
WHERE e.weekly_menu_id = ?
ORDER BY e.day_of_week`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries of weekly menu %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.DayOfWeek, &e.RecipeID, &e.RecipeName, &e.Locked, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan weekly menu entry: %w", err)
		}
		m.Entries = append(m.Entries, e)
	}
	return &m, rows.Err()
}

// FindPrevious returns the most recent menu of a week before the given one,
// or nil when there is none.
func (r *Repository) FindPrevious(ctx context.Context, before shared.Date) (*WeeklyMenu, error) {
	return r.findOne(ctx,
		`SELECT id FROM weekly_menu WHERE week_start_date < ? ORDER BY week_start_date DESC, id DESC LIMIT 1`,
		before.String())
}

// FindByWeek returns the newest menu for the week, or nil when there is none.
func (r *Repository) FindByWeek(ctx context.Context, weekStart shared.Date) (*WeeklyMenu, error) {
	return r.findOne(ctx,
		`SELECT id FROM weekly_menu WHERE week_start_date = ? ORDER BY id DESC LIMIT 1`,
		weekStart.String())
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*WeeklyMenu, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up weekly menu: %w", err)
	}
	return r.Get(ctx, id)
}

// List returns every menu, newest week first.
func (r *Repository) List(ctx context.Context) ([]MenuSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, week_start_date, created_at FROM weekly_menu ORDER BY week_start_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly menus: %w", err)
	}
	defer rows.Close()

	out := []MenuSummary{}
	for rows.Next() {
		var (
			s         MenuSummary
			weekStart string
		)
		if err := rows.Scan(&s.ID, &weekStart, &s.CreatedAt); err != nil {
			return nil, err
		}
		if s.WeekStartDate, err = shared.ParseDate(weekStart); err != nil {
			return nil, fmt.Errorf("weekly menu %d: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplaceEntries swaps every entry of a menu in one transaction.
func (r *Repository) ReplaceEntries(ctx context.Context, id int64, entries []Entry) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM weekly_menu WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: weekly menu %d", shared.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_menu_entry WHERE weekly_menu_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear weekly menu %d: %w", id, err)
		}
		return insertEntries(ctx, tx, id, entries)
	})
}

// UpdateEntry overwrites the entry for e.DayOfWeek.
func (r *Repository) UpdateEntry(ctx context.Context, id int64, e Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE weekly_menu_entry SET recipe_id = ?, locked = ?, note = ? WHERE weekly_menu_id = ? AND day_of_week = ?`,
		e.RecipeID, e.Locked, e.Note, id, e.DayOfWeek)
	if err != nil {
		return database.MapConstraintError(err, fmt.Sprintf("weekly menu %d day %d", id, e.DayOfWeek))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: weekly menu %d has no entry for dayOfWeek %d", shared.ErrNotFound, id, e.DayOfWeek)
	}
	return nil
}

// Delete removes a menu and its entries.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weekly_menu WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete weekly menu %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: weekly menu %d", shared.ErrNotFound, id)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, menuID int64, entries []Entry) error {
	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO weekly_menu_entry (weekly_menu_id, day_of_week, recipe_id, locked, note) VALUES (?, ?, ?, ?, ?)`,
			menuID, e.DayOfWeek, e.RecipeID, e.Locked, e.Note)
		if err != nil {
			return database.MapConstraintError(err, fmt.Sprintf("weekly menu %d day %d", menuID, e.DayOfWeek))
		}
	}
	return nil
}
