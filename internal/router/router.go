// Package router wires every HTTP route of the planner.
package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ukemeny/internal/api"
	"ukemeny/internal/category"
	"ukemeny/internal/ingredient"
	"ukemeny/internal/metrics"
	"ukemeny/internal/middleware"
	"ukemeny/internal/planner"
	"ukemeny/internal/recipe"
)

// Deps are the handlers and settings the router needs.
type Deps struct {
	Logger       *zap.Logger
	JWTSecret    string
	DatabasePath string
	Metrics      *metrics.Store
	Categories   *category.Handler
	Ingredients  *ingredient.Handler
	Recipes      *recipe.Handler
	Menus        *planner.Handler
	// Webhook receives Telegram updates when the bot runs in-process.
	Webhook http.HandlerFunc
}

// NewRouter builds the gin engine. With a JWT secret every mutating route
// requires a bearer token.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(d.Logger), api.ErrorHandler(d.Logger))

	r.GET("/health", func(c *gin.Context) {
		h := metrics.GetSysHealth(c.Request.Context(), d.Metrics, filepath.Dir(d.DatabasePath))
		status := http.StatusOK
		if !h.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, h)
	})

	read := r.Group("")
	write := r.Group("")
	if d.JWTSecret != "" {
		write.Use(middleware.Auth(d.JWTSecret))
	}

	read.GET("/categories", d.Categories.List)
	write.POST("/categories", d.Categories.Create)
	write.PATCH("/categories/:id", d.Categories.Patch)

	read.GET("/ingredients", d.Ingredients.List)
	write.PATCH("/ingredients/category", d.Ingredients.BulkSetCategory)
	write.PATCH("/ingredients/:id/category", d.Ingredients.SetCategory)
	write.POST("/ingredients/bulk-delete", d.Ingredients.BulkDelete)
	write.DELETE("/ingredients/unused", d.Ingredients.DeleteUnused)
	write.DELETE("/ingredients/:id", d.Ingredients.Delete)

	read.GET("/recipes", d.Recipes.Search)
	read.GET("/recipes/:id", d.Recipes.Get)
	write.POST("/recipes", d.Recipes.Create)
	write.POST("/recipes/import", d.Recipes.Import)
	write.PUT("/recipes/:id", d.Recipes.Update)
	write.DELETE("/recipes/:id", d.Recipes.Delete)

	read.GET("/weekly-menus", d.Menus.List)
	read.GET("/weekly-menus/:id", d.Menus.Get)
	read.GET("/weekly-menus/:id/shopping-list", d.Menus.ShoppingList)
	write.POST("/weekly-menus", d.Menus.Create)
	write.POST("/weekly-menus/generate", d.Menus.Generate)
	write.POST("/weekly-menus/:id/regenerate", d.Menus.Regenerate)
	write.PATCH("/weekly-menus/:id/dinners/:dayOfWeek", d.Menus.UpdateDinner)
	write.DELETE("/weekly-menus/:id", d.Menus.Delete)

	if d.Webhook != nil {
		r.POST("/telegram/webhook", gin.WrapF(d.Webhook))
	}

	return r
}
