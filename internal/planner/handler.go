package planner

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ukemeny/internal/api"
	"ukemeny/internal/shared"
)

// Handler exposes the weekly menu endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /weekly-menus.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Generate handles POST /weekly-menus/generate.
func (h *Handler) Generate(c *gin.Context) {
	var req struct {
		WeekStartDate shared.Date `json:"weekStartDate"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	res, err := h.service.Generate(c.Request.Context(), req.WeekStartDate)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// List handles GET /weekly-menus, newest first.
func (h *Handler) List(c *gin.Context) {
	menus, err := h.service.List(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// Get handles GET /weekly-menus/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /weekly-menus/:id.
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

// Regenerate handles POST /weekly-menus/:id/regenerate. Only unlocked days
// change.
func (h *Handler) Regenerate(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	view, err := h.service.Regenerate(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateDinner handles PATCH /weekly-menus/:id/dinners/:dayOfWeek.
func (h *Handler) UpdateDinner(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	day, err := strconv.Atoi(c.Param("dayOfWeek"))
	if err != nil {
		api.Fail(c, fmt.Errorf("%w: got %q", ErrInvalidDayOfWeek, c.Param("dayOfWeek")))
		return
	}
	var req struct {
		RecipeID *int64 `json:"recipeId" binding:"required"`
		Locked   *bool  `json:"locked" binding:"required"`
		Note     string `json:"note"`
	}
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	err = h.service.UpdateDinner(c.Request.Context(), id, day, UpdateDinnerRequest{
		RecipeID: *req.RecipeID,
		Locked:   *req.Locked,
		Note:     req.Note,
	})
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShoppingList handles GET /weekly-menus/:id/shopping-list.
func (h *Handler) ShoppingList(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	list, err := h.service.ShoppingList(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
