package planner

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ukemeny/internal/api"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t, PolicyDeprioritize)
	h := NewHandler(f.svc)

	r := gin.New()
	r.Use(api.ErrorHandler(zap.NewNop()))
	g := r.Group("/weekly-menus")
	g.POST("", h.Create)
	g.POST("/generate", h.Generate)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/regenerate", h.Regenerate)
	g.PATCH("/:id/dinners/:dayOfWeek", h.UpdateDinner)
	g.GET("/:id/shopping-list", h.ShoppingList)
	return r, f
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GenerateAndShow(t *testing.T) {
	r, f := newTestRouter(t)
	f.addRecipes(t, 7)

	w := serve(r, http.MethodPost, "/weekly-menus/generate", `{"weekStartDate":"2025-01-06"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res GenerateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = serve(r, http.MethodGet, fmt.Sprintf("/weekly-menus/%d", res.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ID            int64
		WeekStartDate string
		Dinners       []Dinner
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "2025-01-06", view.WeekStartDate)
	assert.Len(t, view.Dinners, DaysInWeek)

	w = serve(r, http.MethodGet, fmt.Sprintf("/weekly-menus/%d/shopping-list", res.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"categoryName":"Diverse"`)
	assert.Contains(t, w.Body.String(), `"totalAmount":7.000`)
}

func TestHandler_Errors(t *testing.T) {
	r, f := newTestRouter(t)
	ids := f.addRecipes(t, 1)

	w := serve(r, http.MethodPost, "/weekly-menus/generate", `{"weekStartDate":"2025-01-07"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body api.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "Monday")
	assert.Equal(t, "/weekly-menus/generate", body.Path)

	w = serve(r, http.MethodPost, "/weekly-menus/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/weekly-menus/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodPost, "/weekly-menus", `{"weekStartDate":"2025-01-06","dinners":[{"dayOfWeek":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "recipeId is required")
	assert.Contains(t, w.Body.String(), "dinners[0].recipeId is required")

	w = serve(r, http.MethodPost, "/weekly-menus",
		fmt.Sprintf(`{"weekStartDate":"2025-01-06","dinners":[{"dayOfWeek":1,"recipeId":%d}]}`, ids[0]))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodPatch, "/weekly-menus/1/dinners/monday", `{"recipeId":1,"locked":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPatch, "/weekly-menus/1/dinners/9", `{"recipeId":1,"locked":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPatch, "/weekly-menus/1/dinners/1", `{"recipeId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPatch, "/weekly-menus/1/dinners/1", fmt.Sprintf(`{"recipeId":%d,"locked":true,"note":"ok"}`, ids[0]))
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = serve(r, http.MethodDelete, "/weekly-menus/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
