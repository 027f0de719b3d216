package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ukemeny/internal/app"
	"ukemeny/internal/config"
	"ukemeny/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ukemeny",
	Short: "Plan weekly dinners and build the shopping list",
	Long: `ukemeny picks seven dinners a week from your recipe catalog, lets you lock
the ones you like and reshuffle the rest, and sums up what to buy.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("APP_ENV") != "production" {
			_ = godotenv.Load()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runWithApp loads configuration, opens the application and hands it to fn.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, cfg *config.Config, logger *zap.Logger) error) error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a, cfg, logger)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
