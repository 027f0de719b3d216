package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ukemeny/internal/ingredient"
	"ukemeny/internal/shared"
)

// Amounts are stored as numeric(12,3): at most 9 integer digits and 3
// fractional digits.
const (
	AmountScale         = 3
	AmountIntegerDigits = 9
)

var maxAmount = decimal.New(1, AmountIntegerDigits)

// SearchLimit caps name searches.
const SearchLimit = 10

// Recipe is a dinner with its ingredient lines. Items keep their input order.
type Recipe struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Items       []LineItem `json:"items"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LineItem is one ingredient line of a recipe.
type LineItem struct {
	ID         int64                 `json:"id"`
	Ingredient ingredient.Ingredient `json:"ingredient"`
	Amount     decimal.Decimal       `json:"amount"`
	Unit       string                `json:"unit"`
	Note       string                `json:"note,omitempty"`
}

// MarshalJSON writes the amount as a plain number that keeps its scale.
func (l LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(l), json.Number(FormatAmount(l.Amount))})
}

// Summary is the short form returned by searches.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemRequest is one ingredient line as submitted by a client. The
// ingredient is referenced by name and created on demand.
type ItemRequest struct {
	IngredientName string           `json:"ingredientName" yaml:"ingredient"`
	Amount         *decimal.Decimal `json:"amount" yaml:"amount"`
	Unit           string           `json:"unit" yaml:"unit"`
	Note           string           `json:"note,omitempty" yaml:"note,omitempty"`
}

// SaveRequest creates a recipe or replaces an existing one.
type SaveRequest struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Items       []ItemRequest `json:"items" yaml:"items"`
}

// Validate trims the request in place and checks it.
func (r *SaveRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", shared.ErrValidation)
	}
	for i := range r.Items {
		item := &r.Items[i]
		item.IngredientName = strings.TrimSpace(item.IngredientName)
		item.Unit = strings.TrimSpace(item.Unit)
		item.Note = strings.TrimSpace(item.Note)
		if item.IngredientName == "" {
			return fmt.Errorf("%w: items[%d].ingredientName is required", shared.ErrValidation, i)
		}
		if item.Unit == "" {
			return fmt.Errorf("%w: items[%d].unit is required", shared.ErrValidation, i)
		}
		if item.Amount == nil {
			return fmt.Errorf("%w: items[%d].amount is required", shared.ErrValidation, i)
		}
		if err := ValidateAmount(*item.Amount); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateAmount rejects negative amounts, amounts with more than
// AmountIntegerDigits integer digits and amounts with more than AmountScale
// fractional digits.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: amount must be >= 0", shared.ErrValidation)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: amount %s has more than %d integer digits", shared.ErrValidation, d, AmountIntegerDigits)
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimals", shared.ErrValidation, d, AmountScale)
	}
	return nil
}

// FormatAmount renders d keeping its scale, so "400.000" stays "400.000".
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
