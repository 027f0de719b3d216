// Package seed loads the development recipe set.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ukemeny/internal/recipe"
)

//go:embed dev_recipes.yaml
var devRecipes []byte

type file struct {
	Recipes []recipe.SaveRequest `yaml:"recipes"`
}

// DevRecipes returns the embedded development recipes.
func DevRecipes() ([]recipe.SaveRequest, error) {
	return parse(devRecipes)
}

func parse(data []byte) ([]recipe.SaveRequest, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return f.Recipes, nil
}

// RecipeWriter is the part of the recipe service the seeder uses.
type RecipeWriter interface {
	Search(ctx context.Context, name string) ([]recipe.Summary, error)
	Create(ctx context.Context, req recipe.SaveRequest) (int64, error)
}

// Seeder creates the development recipes that do not exist yet.
type Seeder struct {
	recipes RecipeWriter
	logger  *zap.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(recipes RecipeWriter, logger *zap.Logger) *Seeder {
	return &Seeder{recipes: recipes, logger: logger}
}

// Run seeds every development recipe missing by name and returns how many
// were created.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	reqs, err := DevRecipes()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, req := range reqs {
		exists, err := s.exists(ctx, req.Name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		id, err := s.recipes.Create(ctx, req)
		if err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", req.Name, err)
		}
		s.logger.Debug("seeded recipe", zap.Int64("id", id), zap.String("name", req.Name))
		created++
	}
	s.logger.Info("dev seed complete", zap.Int("created", created), zap.Int("total", len(reqs)))
	return created, nil
}

func (s *Seeder) exists(ctx context.Context, name string) (bool, error) {
	found, err := s.recipes.Search(ctx, name)
	if err != nil {
		return false, err
	}
	for _, r := range found {
		if strings.EqualFold(r.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
