package category

import (
	"context"
	"fmt"
	"strings"

	"ukemeny/internal/shared"
)

// Store is the persistence the category service needs.
type Store interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, c Category) (int64, error)
	Update(ctx context.Context, c Category) error
}

// CreateRequest describes a new category.
type CreateRequest struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sortOrder"`
}

// PatchRequest changes name and/or sort order; nil fields are left alone.
type PatchRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sortOrder"`
}

// Service implements category listing and maintenance.
type Service struct {
	store Store
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all categories ordered with Compare.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	Sort(categories)
	return categories, nil
}

// Create validates and stores a new category.
func (s *Service) Create(ctx context.Context, req CreateRequest) (int64, error) {
	c := Category{Name: strings.TrimSpace(req.Name), SortOrder: DefaultSortOrder}
	if c.Name == "" {
		return 0, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if req.SortOrder != nil {
		if err := validateSortOrder(*req.SortOrder); err != nil {
			return 0, err
		}
		c.SortOrder = *req.SortOrder
	}
	return s.store.Create(ctx, c)
}

// Patch updates the fields present in req.
func (s *Service) Patch(ctx context.Context, id int64, req PatchRequest) error {
	if req.Name == nil && req.SortOrder == nil {
		return fmt.Errorf("%w: nothing to update", shared.ErrValidation)
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be blank", shared.ErrValidation)
		}
		c.Name = name
	}
	if req.SortOrder != nil {
		if err := validateSortOrder(*req.SortOrder); err != nil {
			return err
		}
		c.SortOrder = *req.SortOrder
	}

	return s.store.Update(ctx, *c)
}

func validateSortOrder(v int) error {
	if v < 0 || v > MaxSortOrder {
		return fmt.Errorf("%w: sortOrder must be between 0 and %d", shared.ErrValidation, MaxSortOrder)
	}
	return nil
}
