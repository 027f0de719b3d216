// Package shopping derives the shopping list of a planned week.
package shopping

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"ukemeny/internal/recipe"
	"ukemeny/internal/shared"
)

// Week is a menu with every day resolved to its full recipe.
type Week struct {
	MenuID    int64
	WeekStart shared.Date
	Days      []Day
}

// Day is the recipe planned for one day of the week (1 = Monday).
type Day struct {
	DayOfWeek int
	Recipe    recipe.Recipe
}

// List is the aggregated shopping list of one week.
type List struct {
	MenuID        int64           `json:"menuId"`
	WeekStartDate shared.Date     `json:"weekStartDate"`
	Categories    []CategoryGroup `json:"categories"`
}

// CategoryGroup holds the items of one category.
type CategoryGroup struct {
	CategoryName string `json:"categoryName"`
	Items        []Item `json:"items"`
}

// Item is the total needed of one ingredient in one unit.
type Item struct {
	IngredientID   int64           `json:"ingredientId"`
	IngredientName string          `json:"ingredientName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Unit           string          `json:"unit"`
	Sources        []Source        `json:"sources"`
}

// Source is one recipe line that contributed to an Item.
type Source struct {
	DayOfWeek  int             `json:"dayOfWeek"`
	RecipeID   int64           `json:"recipeId"`
	RecipeName string          `json:"recipeName"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
}

// MarshalJSON writes the total as a plain number that keeps its scale.
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return json.Marshal(struct {
		plain
		TotalAmount json.Number `json:"totalAmount"`
	}{plain(i), json.Number(recipe.FormatAmount(i.TotalAmount))})
}

// MarshalJSON writes the amount as a plain number that keeps its scale.
func (s Source) MarshalJSON() ([]byte, error) {
	type plain Source
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(s), json.Number(recipe.FormatAmount(s.Amount))})
}
