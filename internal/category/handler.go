package category

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ukemeny/internal/api"
)

// Handler exposes the category endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /categories.
func (h *Handler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}
	if categories == nil {
		categories = []Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// Create handles POST /categories.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
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

// Patch handles PATCH /categories/:id.
func (h *Handler) Patch(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}
	var req PatchRequest
	if err := api.BindJSON(c, &req); err != nil {
		api.Fail(c, err)
		return
	}
	if err := h.service.Patch(c.Request.Context(), id, req); err != nil {
		api.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
