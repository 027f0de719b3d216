package planner

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"ukemeny/internal/shared"
)

// DaysInWeek is the number of dinners in a full menu.
const DaysInWeek = 7

// Entry is the dinner planned for one day (1 = Monday .. 7 = Sunday).
type Entry struct {
	DayOfWeek  int
	RecipeID   int64
	RecipeName string
	Locked     bool
	Note       string
}

// WeeklyMenu is a stored menu with its entries.
type WeeklyMenu struct {
	ID        int64
	WeekStart shared.Date
	CreatedAt time.Time
	Entries   []Entry
}

// RecipeIDs returns the distinct recipe ids planned in the menu.
func (m *WeeklyMenu) RecipeIDs() []int64 {
	seen := make(map[int64]struct{}, len(m.Entries))
	ids := make([]int64, 0, len(m.Entries))
	for _, e := range m.Entries {
		if _, ok := seen[e.RecipeID]; ok {
			continue
		}
		seen[e.RecipeID] = struct{}{}
		ids = append(ids, e.RecipeID)
	}
	return ids
}

// GenerateResult is returned by menu creation.
type GenerateResult struct {
	ID int64 `json:"id"`
}

// Dinner is one day of a MenuView.
type Dinner struct {
	DayOfWeek  int    `json:"dayOfWeek"`
	RecipeID   int64  `json:"recipeId"`
	RecipeName string `json:"recipeName"`
	Locked     bool   `json:"locked"`
	Note       string `json:"note,omitempty"`
}

// MenuView is a menu as shown to users, dinners ordered by day.
type MenuView struct {
	ID            int64       `json:"id"`
	WeekStartDate shared.Date `json:"weekStartDate"`
	Dinners       []Dinner    `json:"dinners"`
}

// MenuSummary is a menu without its dinners.
type MenuSummary struct {
	ID            int64       `json:"id"`
	WeekStartDate shared.Date `json:"weekStartDate"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func newMenuView(m *WeeklyMenu) *MenuView {
	view := &MenuView{ID: m.ID, WeekStartDate: m.WeekStart, Dinners: make([]Dinner, 0, len(m.Entries))}
	for _, e := range m.Entries {
		view.Dinners = append(view.Dinners, Dinner{
			DayOfWeek:  e.DayOfWeek,
			RecipeID:   e.RecipeID,
			RecipeName: e.RecipeName,
			Locked:     e.Locked,
			Note:       e.Note,
		})
	}
	slices.SortFunc(view.Dinners, func(a, b Dinner) int { return cmp.Compare(a.DayOfWeek, b.DayOfWeek) })
	return view
}

// GetNextMonday returns the first Monday strictly after t.
func GetNextMonday(t time.Time) shared.Date {
	d := shared.NewDate(t)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return d.AddDays(offset)
}

// ValidateWeekStart checks that d is a Monday.
func ValidateWeekStart(d shared.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: weekStartDate is required", shared.ErrValidation)
	}
	if d.Weekday() != time.Monday {
		return fmt.Errorf("%w: %s is a %s", ErrInvalidWeekStart, d, d.Weekday())
	}
	return nil
}

// ValidateDayOfWeek checks that day is within 1..7.
func ValidateDayOfWeek(day int) error {
	if day < 1 || day > DaysInWeek {
		return fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, day)
	}
	return nil
}
