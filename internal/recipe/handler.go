package recipe

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ukemeny/internal/api"
)

// Importer turns a recipe page into a save request.
type Importer interface {
	Import(ctx context.Context, url string) (*SaveRequest, error)
}

// Handler exposes the recipe endpoints.
type Handler struct {
	service  *Service
	importer Importer
}

// NewHandler creates a Handler. importer may be nil, which disables
// POST /recipes/import.
func NewHandler(service *Service, importer Importer) *Handler {
	return &Handler{service: service, importer: importer}
}

// Create handles POST /recipes.
func (h *Handler) Create(c *gin.Context) {
	var req SaveRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Search handles GET /recipes?name=
func (h *Handler) Search(c *gin.Context) {
	recipes, err := h.service.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// Get handles GET /recipes/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Update handles PUT /recipes/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	var req SaveRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /recipes/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Import handles POST /recipes/import {"url": "..."}: the page is parsed and
// stored as a new recipe.
func (h *Handler) Import(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "recipe import is disabled"})
		return
	}
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	save, err := h.importer.Import(c.Request.Context(), req.URL)
	if err != nil {
		api.Fail(c, err)
		return
	}
	id, err := h.service.Create(c.Request.Context(), *save)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "name": save.Name})
}
