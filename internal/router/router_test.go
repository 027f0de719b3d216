package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ukemeny/internal/app"
	"ukemeny/internal/config"
	"ukemeny/internal/middleware"
)

const secret = "test-secret"

func newEngine(t *testing.T, jwtSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := app.New(&config.Config{
		DatabasePath:           filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:              jwtSecret,
		RegenerateLockedPolicy: "deprioritize",
		RandomSeed:             3,
		HasRandomSeed:          true,
		DefaultCategory:        "Diverse",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a.Router(nil)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := newEngine(t, "")

	rec := do(t, r, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestWriteRoutesRequireToken(t *testing.T) {
	r := newEngine(t, secret)
	category := map[string]any{"name": "Frukt", "sortOrder": 5}

	rec := do(t, r, http.MethodPost, "/categories", "", category)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "/categories", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay open")

	token, err := middleware.GenerateToken(secret, "tester", time.Hour)
	require.NoError(t, err)
	rec = do(t, r, http.MethodPost, "/categories", token, category)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNotFoundUsesErrorBody(t *testing.T) {
	r := newEngine(t, "")

	rec := do(t, r, http.MethodGet, "/weekly-menus/999", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "/weekly-menus/999", body["path"])
}

func TestMenuLifecycle(t *testing.T) {
	r := newEngine(t, "")

	recipes := []map[string]any{
		{"name": "Taco", "items": []map[string]any{
			{"ingredientName": "kjøttdeig", "amount": 400, "unit": "g"},
			{"ingredientName": "Tortilla", "amount": 8, "unit": "stk"},
		}},
		{"name": "Bolognese", "items": []map[string]any{
			{"ingredientName": "Kjøttdeig", "amount": 400.5, "unit": "g"},
			{"ingredientName": "Pasta", "amount": 400, "unit": "g"},
		}},
		{"name": "Omelett", "items": []map[string]any{
			{"ingredientName": "Egg", "amount": 4, "unit": "stk"},
		}},
	}
	for _, body := range recipes {
		rec := do(t, r, http.MethodPost, "/recipes", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, r, http.MethodPost, "/weekly-menus/generate", "", map[string]any{"weekStartDate": "2026-01-06"})
	require.Equal(t, http.StatusBadRequest, rec.Code, "tuesday is not a week start")

	rec = do(t, r, http.MethodPost, "/weekly-menus/generate", "", map[string]any{"weekStartDate": "2026-01-05"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	menuPath := fmt.Sprintf("/weekly-menus/%d", created.ID)
	type dinner struct {
		DayOfWeek int   `json:"dayOfWeek"`
		RecipeID  int64 `json:"recipeId"`
		Locked    bool  `json:"locked"`
	}
	var view struct {
		WeekStartDate string   `json:"weekStartDate"`
		Dinners       []dinner `json:"dinners"`
	}
	rec = do(t, r, http.MethodGet, menuPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "2026-01-05", view.WeekStartDate)
	require.Len(t, view.Dinners, 7)
	for i, d := range view.Dinners {
		assert.Equal(t, i+1, d.DayOfWeek)
	}

	monday := view.Dinners[0].RecipeID
	rec = do(t, r, http.MethodPatch, menuPath+"/dinners/1", "", map[string]any{"recipeId": monday, "locked": true, "note": "Fast"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPatch, menuPath+"/dinners/8", "", map[string]any{"recipeId": monday, "locked": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, menuPath+"/regenerate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Dinners, 7)
	assert.Equal(t, monday, view.Dinners[0].RecipeID)
	assert.True(t, view.Dinners[0].Locked)
	for _, d := range view.Dinners[1:] {
		assert.False(t, d.Locked)
	}

	rec = do(t, r, http.MethodGet, menuPath+"/shopping-list", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Categories []struct {
			Items []struct {
				IngredientName string      `json:"ingredientName"`
				TotalAmount    json.Number `json:"totalAmount"`
				Sources        []struct {
					DayOfWeek int `json:"dayOfWeek"`
				} `json:"sources"`
			} `json:"items"`
		} `json:"categories"`
	}
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&list))
	require.NotEmpty(t, list.Categories)
	sources := 0
	for _, g := range list.Categories {
		for _, item := range g.Items {
			assert.NotEmpty(t, item.TotalAmount)
			sources += len(item.Sources)
		}
	}
	assert.Positive(t, sources)

	rec = do(t, r, http.MethodDelete, "/recipes/1", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "every recipe is on the menu")

	rec = do(t, r, http.MethodDelete, menuPath, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodGet, menuPath, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
