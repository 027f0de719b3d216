package recipe

import (
	"context"
	"fmt"

	"ukemeny/internal/ingredient"
)

// Store is the persistence the recipe service needs.
type Store interface {
	ListIDs(ctx context.Context) ([]int64, error)
	Get(ctx context.Context, id int64) (*Recipe, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Recipe, error)
	SearchByName(ctx context.Context, name string, limit int) ([]Summary, error)
	Create(ctx context.Context, name, description string, items []NewItem) (int64, error)
	Update(ctx context.Context, id int64, name, description string, items []NewItem) error
	Delete(ctx context.Context, id int64) error
}

// IngredientResolver turns ingredient names into stored ingredients.
type IngredientResolver interface {
	GetOrCreate(ctx context.Context, name string) (*ingredient.Ingredient, error)
}

// Service manages the recipe catalog.
type Service struct {
	store       Store
	ingredients IngredientResolver
}

// NewService creates a new Service.
func NewService(store Store, ingredients IngredientResolver) *Service {
	return &Service{store: store, ingredients: ingredients}
}

// Create validates req and stores it as a new recipe.
func (s *Service) Create(ctx context.Context, req SaveRequest) (int64, error) {
	items, err := s.resolve(ctx, &req)
	if err != nil {
		return 0, err
	}
	return s.store.Create(ctx, req.Name, req.Description, items)
}

// Update replaces the recipe with id by req.
func (s *Service) Update(ctx context.Context, id int64, req SaveRequest) error {
	items, err := s.resolve(ctx, &req)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, id, req.Name, req.Description, items)
}

// Delete removes a recipe that no menu references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Get returns one recipe with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Recipe, error) {
	return s.store.Get(ctx, id)
}

// Search finds recipes by name fragment, newest first, capped at SearchLimit.
func (s *Service) Search(ctx context.Context, name string) ([]Summary, error) {
	return s.store.SearchByName(ctx, name, SearchLimit)
}

// ListIDs returns every recipe id in the catalog.
func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	return s.store.ListIDs(ctx)
}

// GetByIDs returns the requested recipes keyed by id.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]Recipe, error) {
	return s.store.GetByIDs(ctx, ids)
}

// resolve validates req and looks up (or creates) every ingredient before
// any recipe transaction is opened.
func (s *Service) resolve(ctx context.Context, req *SaveRequest) ([]NewItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	items := make([]NewItem, 0, len(req.Items))
	for i, it := range req.Items {
		ing, err := s.ingredients.GetOrCreate(ctx, it.IngredientName)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, NewItem{
			IngredientID: ing.ID,
			Amount:       *it.Amount,
			Unit:         it.Unit,
			Note:         it.Note,
		})
	}
	return items, nil
}
