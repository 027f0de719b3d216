package ingredient

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ukemeny/internal/api"
	"ukemeny/internal/shared"
)

// Handler exposes the ingredient endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /ingredients?query=&categoryId=&unused=
func (h *Handler) List(c *gin.Context) {
	var f Filter
	f.Query = c.Query("query")
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.Fail(c, fmt.Errorf("%w: categoryId must be an integer", shared.ErrValidation))
			return
		}
		f.CategoryID = &id
	}
	if raw := c.Query("unused"); raw != "" {
		unused, err := strconv.ParseBool(raw)
		if err != nil {
			api.Fail(c, fmt.Errorf("%w: unused must be true or false", shared.ErrValidation))
			return
		}
		f.Unused = &unused
	}

	ingredients, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// SetCategory handles PATCH /ingredients/:id/category.
func (h *Handler) SetCategory(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	var req struct {
		CategoryID int64 `json:"categoryId" binding:"required"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.SetCategory(c.Request.Context(), id, req.CategoryID); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkSetCategory handles PATCH /ingredients/category.
func (h *Handler) BulkSetCategory(c *gin.Context) {
	var req struct {
		Updates []CategoryUpdate `json:"updates"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.SetCategories(c.Request.Context(), req.Updates); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /ingredients/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.DeleteIfUnused(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete handles POST /ingredients/bulk-delete.
func (h *Handler) BulkDelete(c *gin.Context) {
	var req struct {
		IngredientIDs []int64 `json:"ingredientIds"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	result, err := h.service.BulkDeleteUnused(c.Request.Context(), req.IngredientIDs)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteUnused handles DELETE /ingredients/unused?limit=
func (h *Handler) DeleteUnused(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(c, fmt.Errorf("%w: limit must be an integer", shared.ErrValidation))
			return
		}
		limit = v
	}
	deleted, err := h.service.DeleteUnused(c.Request.Context(), limit)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
