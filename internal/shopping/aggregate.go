package shopping

import (
	"cmp"
	"slices"

	"ukemeny/internal/category"
	"ukemeny/internal/shared"
)

type bucketKey struct {
	ingredientID int64
	unit         string
}

type bucket struct {
	item     Item
	category category.Category
}

// Aggregate sums every recipe line of the week per (ingredient, unit),
// groups the sums by the ingredient's current category and orders the
// result for shopping. It performs no I/O.
func Aggregate(week Week) *List {
	buckets := make(map[bucketKey]*bucket)
	var order []bucketKey

	for _, day := range week.Days {
		for _, line := range day.Recipe.Items {
			key := bucketKey{ingredientID: line.Ingredient.ID, unit: line.Unit}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{
					item: Item{
						IngredientID:   line.Ingredient.ID,
						IngredientName: line.Ingredient.Name,
						TotalAmount:    line.Amount,
						Unit:           line.Unit,
					},
					category: line.Ingredient.Category,
				}
				buckets[key] = b
				order = append(order, key)
			} else {
				b.item.TotalAmount = b.item.TotalAmount.Add(line.Amount)
			}
			b.item.Sources = append(b.item.Sources, Source{
				DayOfWeek:  day.DayOfWeek,
				RecipeID:   day.Recipe.ID,
				RecipeName: day.Recipe.Name,
				Amount:     line.Amount,
				Unit:       line.Unit,
			})
		}
	}

	groups := make(map[category.Category][]Item)
	var cats []category.Category
	for _, key := range order {
		b := buckets[key]
		slices.SortStableFunc(b.item.Sources, func(x, y Source) int {
			return cmp.Compare(x.DayOfWeek, y.DayOfWeek)
		})
		if _, seen := groups[b.category]; !seen {
			cats = append(cats, b.category)
		}
		groups[b.category] = append(groups[b.category], b.item)
	}

	category.Sort(cats)

	list := &List{
		MenuID:        week.MenuID,
		WeekStartDate: week.WeekStart,
		Categories:    make([]CategoryGroup, 0, len(cats)),
	}
	for _, c := range cats {
		items := groups[c]
		slices.SortStableFunc(items, func(x, y Item) int {
			return shared.CompareFold(x.IngredientName, y.IngredientName)
		})
		list.Categories = append(list.Categories, CategoryGroup{CategoryName: c.Name, Items: items})
	}
	return list
}
