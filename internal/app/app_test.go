package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ukemeny/internal/config"
	"ukemeny/internal/planner"
	"ukemeny/internal/shared"
	"ukemeny/internal/shopping"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		DatabasePath:           filepath.Join(t.TempDir(), "test.db"),
		Port:                   "0",
		RegenerateLockedPolicy: "deprioritize",
		RandomSeed:             7,
		HasRandomSeed:          true,
		DefaultCategory:        "Diverse",
	}
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func monday() shared.Date {
	return shared.NewDate(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	_, err := New(&config.Config{RegenerateLockedPolicy: "shuffle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSeedGenerateAndShop(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	n, err := a.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = a.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding twice creates nothing")

	res, err := a.Menus.Generate(ctx, monday())
	require.NoError(t, err)

	view, err := a.Menus.Get(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, view.Dinners, planner.DaysInWeek)

	seen := map[int64]bool{}
	for _, d := range view.Dinners {
		assert.False(t, seen[d.RecipeID], "recipe %d repeated", d.RecipeID)
		seen[d.RecipeID] = true
	}

	list, err := a.Menus.ShoppingList(ctx, res.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, list.Categories)

	var buf bytes.Buffer
	WriteMenu(&buf, view)
	assert.Contains(t, buf.String(), "week of 2026-01-05")
	assert.Contains(t, buf.String(), "Monday")
}

func TestRouter_ServesHealth(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Router(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, nil) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestWriteShoppingList(t *testing.T) {
	var buf bytes.Buffer
	WriteShoppingList(&buf, &shopping.List{
		WeekStartDate: monday(),
		Categories: []shopping.CategoryGroup{{
			CategoryName: "Meieri",
			Items: []shopping.Item{
				{IngredientName: "Ost", TotalAmount: decimal.RequireFromString("250.000"), Unit: "g"},
			},
		}},
	})

	assert.Equal(t, "=== SHOPPING LIST (week of 2026-01-05) ===\n\nMeieri\n- 250.000 g Ost\n", buf.String())
}
