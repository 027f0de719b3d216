package ingredient

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"ukemeny/internal/category"
	"ukemeny/internal/shared"
)

// DefaultDeleteLimit caps DeleteUnused when the caller gives no limit.
const DefaultDeleteLimit = 200

// Store is the persistence the ingredient service needs.
type Store interface {
	List(ctx context.Context) ([]Ingredient, error)
	Get(ctx context.Context, id int64) (*Ingredient, error)
	GetByName(ctx context.Context, name string) (*Ingredient, error)
	Create(ctx context.Context, name string, categoryID int64) (int64, error)
	SetCategories(ctx context.Context, updates []CategoryUpdate) error
	UsedIDs(ctx context.Context) (map[int64]struct{}, error)
	DeleteIfUnused(ctx context.Context, id int64) error
	DeleteUnused(ctx context.Context, limit int) (int, error)
	BulkDeleteUnused(ctx context.Context, ids []int64) (*BulkDeleteResult, error)
}

// CategoryLookup finds the category new ingredients are filed under.
type CategoryLookup interface {
	GetByName(ctx context.Context, name string) (*category.Category, error)
}

// Filter narrows List. Zero values mean "no filter".
type Filter struct {
	Query      string
	CategoryID *int64
	Unused     *bool
}

// Service implements ingredient lookup and maintenance.
type Service struct {
	store           Store
	categories      CategoryLookup
	defaultCategory string
}

// NewService creates a new Service. New ingredients land in defaultCategory.
func NewService(store Store, categories CategoryLookup, defaultCategory string) *Service {
	return &Service{store: store, categories: categories, defaultCategory: defaultCategory}
}

// GetOrCreate returns the ingredient with the normalised name, creating it in
// the default category when it does not exist yet.
func (s *Service) GetOrCreate(ctx context.Context, name string) (*Ingredient, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: ingredient name is required", shared.ErrValidation)
	}

	existing, err := s.store.GetByName(ctx, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	def, err := s.categories.GetByName(ctx, s.defaultCategory)
	if err != nil {
		return nil, fmt.Errorf("default category %q missing: %w", s.defaultCategory, err)
	}

	id, err := s.store.Create(ctx, normalized, def.ID)
	if errors.Is(err, shared.ErrConflict) {
		// Lost a race with another writer; the row is there now.
		return s.store.GetByName(ctx, normalized)
	}
	if err != nil {
		return nil, err
	}
	return &Ingredient{ID: id, Name: normalized, Category: *def}, nil
}

// List returns ingredients matching f, ordered by category then name.
func (s *Service) List(ctx context.Context, f Filter) ([]Ingredient, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var used map[int64]struct{}
	if f.Unused != nil {
		if used, err = s.store.UsedIDs(ctx); err != nil {
			return nil, err
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Ingredient, 0, len(all))
	for _, i := range all {
		if q != "" && !strings.Contains(strings.ToLower(i.Name), q) {
			continue
		}
		if f.CategoryID != nil && i.Category.ID != *f.CategoryID {
			continue
		}
		if f.Unused != nil {
			_, isUsed := used[i.ID]
			if *f.Unused == isUsed {
				continue
			}
		}
		out = append(out, i)
	}

	slices.SortStableFunc(out, func(a, b Ingredient) int {
		if c := category.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return shared.CompareFold(a.Name, b.Name)
	})
	return out, nil
}

// SetCategory moves one ingredient to another category.
func (s *Service) SetCategory(ctx context.Context, ingredientID, categoryID int64) error {
	return s.store.SetCategories(ctx, []CategoryUpdate{{IngredientID: ingredientID, CategoryID: categoryID}})
}

// SetCategories applies a batch of category moves atomically.
func (s *Service) SetCategories(ctx context.Context, updates []CategoryUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: updates must not be empty", shared.ErrValidation)
	}
	return s.store.SetCategories(ctx, updates)
}

// DeleteIfUnused deletes an ingredient unless a recipe uses it.
func (s *Service) DeleteIfUnused(ctx context.Context, id int64) error {
	return s.store.DeleteIfUnused(ctx, id)
}

// DeleteUnused removes up to limit unused ingredients. A non-positive limit
// means DefaultDeleteLimit.
func (s *Service) DeleteUnused(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultDeleteLimit
	}
	return s.store.DeleteUnused(ctx, limit)
}

// BulkDeleteUnused deletes the given ingredients that are unused.
func (s *Service) BulkDeleteUnused(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ingredientIds must not be empty", shared.ErrValidation)
	}
	return s.store.BulkDeleteUnused(ctx, ids)
}
