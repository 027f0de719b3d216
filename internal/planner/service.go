package planner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"ukemeny/internal/recipe"
	"ukemeny/internal/shared"
	"ukemeny/internal/shopping"
)

// RecipeCatalog is the read side of the recipe catalog.
type RecipeCatalog interface {
	ListIDs(ctx context.Context) ([]int64, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]recipe.Recipe, error)
}

// MenuStore persists weekly menus.
type MenuStore interface {
	Create(ctx context.Context, weekStart shared.Date, entries []Entry) (int64, error)
	Get(ctx context.Context, id int64) (*WeeklyMenu, error)
	FindPrevious(ctx context.Context, before shared.Date) (*WeeklyMenu, error)
	FindByWeek(ctx context.Context, weekStart shared.Date) (*WeeklyMenu, error)
	List(ctx context.Context) ([]MenuSummary, error)
	ReplaceEntries(ctx context.Context, id int64, entries []Entry) error
	UpdateEntry(ctx context.Context, id int64, e Entry) error
	Delete(ctx context.Context, id int64) error
}

// DinnerRequest is one day of a manually created menu.
type DinnerRequest struct {
	DayOfWeek int    `json:"dayOfWeek"`
	RecipeID  *int64 `json:"recipeId"`
	Locked    bool   `json:"locked"`
	Note      string `json:"note"`
}

// CreateRequest describes a manually created menu.
type CreateRequest struct {
	WeekStartDate shared.Date     `json:"weekStartDate"`
	Dinners       []DinnerRequest `json:"dinners"`
}

// UpdateDinnerRequest replaces the dinner of one day.
type UpdateDinnerRequest struct {
	RecipeID int64
	Locked   bool
	Note     string
}

// RandFunc returns the random source for one selection.
type RandFunc func() *rand.Rand

// NewRand returns a RandFunc. With a seed every call yields the same
// sequence, otherwise each call is seeded randomly.
func NewRand(seed uint64, seeded bool) RandFunc {
	if seeded {
		return func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	}
	return func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }
}

// Service plans weekly menus and derives their shopping lists.
type Service struct {
	store   MenuStore
	catalog RecipeCatalog
	newRand RandFunc
	policy  LockedPolicy
}

// NewService creates a new Service. A nil newRand means unseeded randomness.
func NewService(store MenuStore, catalog RecipeCatalog, newRand RandFunc, policy LockedPolicy) *Service {
	if newRand == nil {
		newRand = NewRand(0, false)
	}
	if policy == "" {
		policy = PolicyDeprioritize
	}
	return &Service{store: store, catalog: catalog, newRand: newRand, policy: policy}
}

// Create stores a menu built by hand. Days may be left out but must be
// unique and within 1..7.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*GenerateResult, error) {
	if err := ValidateWeekStart(req.WeekStartDate); err != nil {
		return nil, err
	}
	if len(req.Dinners) == 0 {
		return nil, fmt.Errorf("%w: dinners must not be empty", shared.ErrValidation)
	}

	days := make(map[int]struct{}, len(req.Dinners))
	ids := make([]int64, 0, len(req.Dinners))
	entries := make([]Entry, 0, len(req.Dinners))
	for i, d := range req.Dinners {
		if err := ValidateDayOfWeek(d.DayOfWeek); err != nil {
			return nil, err
		}
		if d.RecipeID == nil {
			return nil, fmt.Errorf("%w: dinners[%d].recipeId is required", shared.ErrValidation, i)
		}
		if _, dup := days[d.DayOfWeek]; dup {
			return nil, fmt.Errorf("%w: dayOfWeek %d appears more than once", shared.ErrValidation, d.DayOfWeek)
		}
		days[d.DayOfWeek] = struct{}{}
		ids = append(ids, *d.RecipeID)
		entries = append(entries, Entry{DayOfWeek: d.DayOfWeek, RecipeID: *d.RecipeID, Locked: d.Locked, Note: d.Note})
	}

	recipes, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := recipes[id]; !ok {
			return nil, fmt.Errorf("%w: recipe %d", shared.ErrNotFound, id)
		}
	}

	id, err := s.store.Create(ctx, req.WeekStartDate, entries)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{ID: id}, nil
}

// Generate plans a full week starting at weekStart, avoiding the recipes of
// the previous menu where the catalog allows it.
func (s *Service) Generate(ctx context.Context, weekStart shared.Date) (*GenerateResult, error) {
	if err := ValidateWeekStart(weekStart); err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	previous := make(map[int64]struct{})
	prev, err := s.store.FindPrevious(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		for _, id := range prev.RecipeIDs() {
			previous[id] = struct{}{}
		}
	}

	picks, err := Select(catalog, previous, s.newRand())
	if err != nil {
		return nil, err
	}
	if err := s.ensureRecipes(ctx, picks); err != nil {
		return nil, err
	}

	entries := make([]Entry, DaysInWeek)
	for i, id := range picks {
		entries[i] = Entry{DayOfWeek: i + 1, RecipeID: id}
	}
	id, err := s.store.Create(ctx, weekStart, entries)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{ID: id}, nil
}

// Get returns a menu with its dinners ordered by day.
func (s *Service) Get(ctx context.Context, id int64) (*MenuView, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return newMenuView(m), nil
}

// ForWeek returns the newest menu for weekStart, generating one when the
// week has none yet. The bool reports whether a menu was generated.
func (s *Service) ForWeek(ctx context.Context, weekStart shared.Date) (*MenuView, bool, error) {
	m, err := s.store.FindByWeek(ctx, weekStart)
	if err != nil {
		return nil, false, err
	}
	if m != nil {
		return newMenuView(m), false, nil
	}
	res, err := s.Generate(ctx, weekStart)
	if err != nil {
		return nil, false, err
	}
	view, err := s.Get(ctx, res.ID)
	return view, true, err
}

// List returns every menu, newest week first.
func (s *Service) List(ctx context.Context) ([]MenuSummary, error) {
	return s.store.List(ctx)
}

// UpdateDinner replaces recipe, lock and note of one existing day.
func (s *Service) UpdateDinner(ctx context.Context, menuID int64, day int, req UpdateDinnerRequest) error {
	if err := ValidateDayOfWeek(day); err != nil {
		return err
	}
	m, err := s.store.Get(ctx, menuID)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(m.Entries, func(e Entry) bool { return e.DayOfWeek == day }) {
		return fmt.Errorf("%w: weekly menu %d has no entry for dayOfWeek %d", shared.ErrNotFound, menuID, day)
	}
	recipes, err := s.catalog.GetByIDs(ctx, []int64{req.RecipeID})
	if err != nil {
		return err
	}
	if _, ok := recipes[req.RecipeID]; !ok {
		return fmt.Errorf("%w: recipe %d", shared.ErrNotFound, req.RecipeID)
	}
	return s.store.UpdateEntry(ctx, menuID, Entry{DayOfWeek: day, RecipeID: req.RecipeID, Locked: req.Locked, Note: req.Note})
}

// Regenerate picks new recipes for every unlocked day of a menu.
func (s *Service) Regenerate(ctx context.Context, id int64) (*MenuView, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := RegenerateUnlocked(m.Entries, catalog, s.newRand(), s.policy)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RecipeID)
	}
	if err := s.ensureRecipes(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceEntries(ctx, id, entries); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a menu.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// ShoppingList aggregates the ingredients of every dinner of a menu.
func (s *Service) ShoppingList(ctx context.Context, id int64) (*shopping.List, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	recipes, err := s.catalog.GetByIDs(ctx, m.RecipeIDs())
	if err != nil {
		return nil, err
	}

	week := shopping.Week{MenuID: m.ID, WeekStart: m.WeekStart, Days: make([]shopping.Day, 0, len(m.Entries))}
	for _, e := range m.Entries {
		r, ok := recipes[e.RecipeID]
		if !ok {
			return nil, fmt.Errorf("%w: recipe %d of weekly menu %d", ErrInconsistentState, e.RecipeID, id)
		}
		week.Days = append(week.Days, shopping.Day{DayOfWeek: e.DayOfWeek, Recipe: r})
	}
	return shopping.Aggregate(week), nil
}

// ensureRecipes fails with ErrInconsistentState when any id no longer
// resolves to a recipe.
func (s *Service) ensureRecipes(ctx context.Context, ids []int64) error {
	recipes, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := recipes[id]; !ok {
			return fmt.Errorf("%w: recipe %d", ErrInconsistentState, id)
		}
	}
	return nil
}
