package category

import (
	"cmp"
	"slices"

	"ukemeny/internal/shared"
)

// DefaultSortOrder is assigned to categories created without an explicit order.
const DefaultSortOrder = 1000

// MaxSortOrder is the largest sort order accepted from callers.
const MaxSortOrder = 10_000

// Category groups ingredients on the shopping list.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// Compare is the one ordering rule for categories: sortOrder ascending, then
// name ascending ignoring case. Category listings, ingredient listings and
// shopping-list grouping all sort with it.
func Compare(a, b Category) int {
	if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
		return c
	}
	return shared.CompareFold(a.Name, b.Name)
}

// Sort orders categories in place with Compare.
func Sort(categories []Category) {
	slices.SortStableFunc(categories, Compare)
}
