package ingredient

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ukemeny/internal/category"
	"ukemeny/internal/database"
	"ukemeny/internal/shared"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(db.SQL), category.NewRepository(db.SQL), "Diverse"), db.SQL
}

// useInRecipe makes ingredientID referenced by a fresh recipe.
func useInRecipe(t *testing.T, db *sql.DB, ingredientID int64) {
	t.Helper()
	now := time.Now().UTC()
	res, err := db.Exec(`INSERT INTO recipe (name, created_at, updated_at) VALUES ('Taco', ?, ?)`, now, now)
	require.NoError(t, err)
	recipeID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO recipe_item (recipe_id, ingredient_id, position, amount, unit) VALUES (?, ?, 0, '400', 'g')`,
		recipeID, ingredientID)
	require.NoError(t, err)
}

func boolPtr(v bool) *bool { return &v }

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.GetOrCreate(ctx, " kjøttdeig ")
	require.NoError(t, err)
	assert.Equal(t, "Kjøttdeig", created.Name)
	assert.Equal(t, "Diverse", created.Category.Name)

	again, err := svc.GetOrCreate(ctx, "KJØTTDEIG")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = svc.GetOrCreate(ctx, "  ")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetOrCreate_MissingDefaultCategory(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db.SQL), category.NewRepository(db.SQL), "Finnes ikke")
	_, err = svc.GetOrCreate(ctx, "Løk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default category")
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	cats := category.NewRepository(db)

	meat, err := cats.GetByName(ctx, "Kjøtt")
	require.NoError(t, err)
	veg, err := cats.GetByName(ctx, "Frukt og grønt")
	require.NoError(t, err)

	mince, _ := svc.GetOrCreate(ctx, "Kjøttdeig")
	onion, _ := svc.GetOrCreate(ctx, "løk")
	garlic, _ := svc.GetOrCreate(ctx, "Hvitløk")
	_, err = svc.GetOrCreate(ctx, "Ost")
	require.NoError(t, err)
	require.NoError(t, svc.SetCategories(ctx, []CategoryUpdate{
		{IngredientID: mince.ID, CategoryID: meat.ID},
		{IngredientID: onion.ID, CategoryID: veg.ID},
		{IngredientID: garlic.ID, CategoryID: veg.ID},
	}))
	useInRecipe(t, db, mince.ID)

	t.Run("OrderedByCategoryThenName", func(t *testing.T) {
		all, err := svc.List(ctx, Filter{})
		require.NoError(t, err)
		var names []string
		for _, i := range all {
			names = append(names, i.Name)
		}
		assert.Equal(t, []string{"Hvitløk", "Løk", "Kjøttdeig", "Ost"}, names)
	})

	t.Run("Query", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{Query: "LØK"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Category", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{CategoryID: &meat.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, mince.ID, got[0].ID)
	})

	t.Run("Unused", func(t *testing.T) {
		unused, err := svc.List(ctx, Filter{Unused: boolPtr(true)})
		require.NoError(t, err)
		assert.Len(t, unused, 3)

		used, err := svc.List(ctx, Filter{Unused: boolPtr(false)})
		require.NoError(t, err)
		require.Len(t, used, 1)
		assert.Equal(t, "Kjøttdeig", used[0].Name)
	})
}

func TestSetCategories_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)
	meat, err := category.NewRepository(db).GetByName(ctx, "Kjøtt")
	require.NoError(t, err)

	mince, err := svc.GetOrCreate(ctx, "Kjøttdeig")
	require.NoError(t, err)

	err = svc.SetCategories(ctx, []CategoryUpdate{
		{IngredientID: mince.ID, CategoryID: meat.ID},
		{IngredientID: 9999, CategoryID: meat.ID},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.store.Get(ctx, mince.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diverse", got.Category.Name)

	assert.ErrorIs(t, svc.SetCategory(ctx, mince.ID, 9999), shared.ErrNotFound)
	assert.ErrorIs(t, svc.SetCategories(ctx, nil), shared.ErrValidation)
}

func TestDeletion(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t)

	used, _ := svc.GetOrCreate(ctx, "Pasta")
	spare1, _ := svc.GetOrCreate(ctx, "Safran")
	spare2, _ := svc.GetOrCreate(ctx, "Kapers")
	spare3, _ := svc.GetOrCreate(ctx, "Dill")
	useInRecipe(t, db, used.ID)

	t.Run("DeleteIfUnused", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteIfUnused(ctx, used.ID), shared.ErrConflict)
		assert.ErrorIs(t, svc.DeleteIfUnused(ctx, 9999), shared.ErrNotFound)
		require.NoError(t, svc.DeleteIfUnused(ctx, spare1.ID))
	})

	t.Run("BulkDeleteUnused", func(t *testing.T) {
		res, err := svc.BulkDeleteUnused(ctx, []int64{spare2.ID, used.ID, 9999, spare2.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{spare2.ID}, res.DeletedIDs)
		assert.Equal(t, []int64{used.ID}, res.SkippedUsedIDs)
		assert.Equal(t, []int64{9999}, res.SkippedNotFoundIDs)
	})

	t.Run("DeleteUnusedRespectsLimit", func(t *testing.T) {
		extra, _ := svc.GetOrCreate(ctx, "Koriander")

		n, err := svc.DeleteUnused(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = svc.store.Get(ctx, spare3.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound, "lowest id goes first")

		n, err = svc.DeleteUnused(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = svc.store.Get(ctx, extra.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = svc.store.Get(ctx, used.ID)
		assert.NoError(t, err)
	})
}
