package recipe

import (
	"context"
	"encoding/json"
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

type stubImporter struct {
	req *SaveRequest
}

func (s stubImporter) Import(context.Context, string) (*SaveRequest, error) {
	return s.req, nil
}

func newTestRouter(t *testing.T, importer Importer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	h := NewHandler(svc, importer)

	r := gin.New()
	r.Use(api.ErrorHandler(zap.NewNop()))
	r.POST("/recipes", h.Create)
	r.GET("/recipes", h.Search)
	r.GET("/recipes/:id", h.Get)
	r.POST("/recipes/import", h.Import)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndGet(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/recipes",
		`{"name":"Taco","items":[{"ingredientName":"Kjøttdeig","amount":"400","unit":"g"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct{ ID int64 }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodGet, "/recipes/"+jsonInt(created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Taco"`)
	assert.Contains(t, w.Body.String(), `"amount":400.000`)

	w = do(r, http.MethodGet, "/recipes/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/recipes", `{"name":"","items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/recipes", `{"name":"Taco","items":[{"ingredientName":"Kjøttdeig","unit":"g"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "items[0].amount is required")
}

func TestHandler_Import(t *testing.T) {
	w := do(newTestRouter(t, nil), http.MethodPost, "/recipes/import", `{"url":"https://example.org/taco"}`)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	imp := stubImporter{req: &SaveRequest{
		Name:  "Imported taco",
		Items: []ItemRequest{{IngredientName: "Tortilla", Amount: amount("8"), Unit: "stk"}},
	}}
	w = do(newTestRouter(t, imp), http.MethodPost, "/recipes/import", `{"url":"https://example.org/taco"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Imported taco")
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
