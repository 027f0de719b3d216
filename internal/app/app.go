// Package app wires the planner's components together for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ukemeny/internal/category"
	"ukemeny/internal/clipper"
	"ukemeny/internal/config"
	"ukemeny/internal/database"
	"ukemeny/internal/ingredient"
	"ukemeny/internal/metrics"
	"ukemeny/internal/planner"
	"ukemeny/internal/recipe"
	"ukemeny/internal/router"
	"ukemeny/internal/seed"
	"ukemeny/internal/shopping"
	"ukemeny/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// App holds the application's dependencies.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB

	Categories  *category.Service
	Ingredients *ingredient.Service
	Recipes     *recipe.Service
	Menus       *planner.Service
	Clipper     *clipper.Clipper
	Metrics     *metrics.Store
}

// New opens the database and builds every service on top of it.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	policy, err := planner.ParseLockedPolicy(cfg.RegenerateLockedPolicy)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	categoryRepo := category.NewRepository(db.SQL)
	ingredients := ingredient.NewService(ingredient.NewRepository(db.SQL), categoryRepo, cfg.DefaultCategory)
	recipes := recipe.NewService(recipe.NewRepository(db.SQL), ingredients)
	menus := planner.NewService(planner.NewRepository(db.SQL), recipes, planner.NewRand(cfg.RandomSeed, cfg.HasRandomSeed), policy)

	return &App{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		Categories:  category.NewService(categoryRepo),
		Ingredients: ingredients,
		Recipes:     recipes,
		Menus:       menus,
		Clipper:     clipper.NewClipper(nil, logger),
		Metrics:     metrics.NewStore(db.SQL),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// Router builds the HTTP API. webhook may be nil when the bot is not running.
func (a *App) Router(webhook http.HandlerFunc) *gin.Engine {
	return router.NewRouter(router.Deps{
		Logger:       a.logger,
		JWTSecret:    a.cfg.JWTSecret,
		DatabasePath: a.cfg.DatabasePath,
		Metrics:      a.Metrics,
		Categories:   category.NewHandler(a.Categories),
		Ingredients:  ingredient.NewHandler(a.Ingredients),
		Recipes:      recipe.NewHandler(a.Recipes, a.Clipper),
		Menus:        planner.NewHandler(a.Menus),
		Webhook:      webhook,
	})
}

// NewBot connects to Telegram and registers the webhook.
func (a *App) NewBot() (*telegram.Bot, error) {
	return telegram.NewBot(a.cfg, telegram.Deps{
		Planner:  a.Menus,
		Importer: a.Clipper,
		Recipes:  a.Recipes,
		Metrics:  a.Metrics,
		DataPath: filepath.Dir(a.cfg.DatabasePath),
	}, a.logger)
}

// Serve runs the HTTP server until ctx is cancelled. When bot is set its
// webhook is mounted on the same server and in-flight updates are drained on
// shutdown.
func (a *App) Serve(ctx context.Context, bot *telegram.Bot) error {
	var webhook http.HandlerFunc
	if bot != nil {
		webhook = bot.HandleWebhook
	}
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Router(webhook),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", srv.Addr), zap.Bool("telegram", bot != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if bot != nil {
			bot.Wait()
		}
		return err
	})
	return g.Wait()
}

// Seed creates the development recipes that are missing.
func (a *App) Seed(ctx context.Context) (int, error) {
	return seed.NewSeeder(a.Recipes, a.logger).Run(ctx)
}

// ImportRecipe fetches a recipe page and stores it.
func (a *App) ImportRecipe(ctx context.Context, url string) (int64, *recipe.SaveRequest, error) {
	req, err := a.Clipper.Import(ctx, url)
	if err != nil {
		return 0, nil, err
	}
	id, err := a.Recipes.Create(ctx, *req)
	if err != nil {
		return 0, nil, err
	}
	return id, req, nil
}

var weekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WriteMenu prints a menu for the terminal.
func WriteMenu(w io.Writer, view *planner.MenuView) {
	fmt.Fprintf(w, "=== WEEKLY MENU #%d (week of %s) ===\n", view.ID, view.WeekStartDate)
	for _, d := range view.Dinners {
		day := fmt.Sprintf("Day %d", d.DayOfWeek)
		if d.DayOfWeek >= 1 && d.DayOfWeek <= len(weekdays) {
			day = weekdays[d.DayOfWeek-1]
		}
		lock := ""
		if d.Locked {
			lock = " [locked]"
		}
		fmt.Fprintf(w, "%-10s: %s (#%d)%s\n", day, d.RecipeName, d.RecipeID, lock)
		if d.Note != "" {
			fmt.Fprintf(w, "            Note: %s\n", d.Note)
		}
	}
}

// WriteShoppingList prints a shopping list grouped by category.
func WriteShoppingList(w io.Writer, list *shopping.List) {
	fmt.Fprintf(w, "=== SHOPPING LIST (week of %s) ===\n", list.WeekStartDate)
	for _, group := range list.Categories {
		fmt.Fprintf(w, "\n%s\n", group.CategoryName)
		for _, item := range group.Items {
			fmt.Fprintf(w, "- %s %s %s\n", recipe.FormatAmount(item.TotalAmount), item.Unit, item.IngredientName)
		}
	}
}
