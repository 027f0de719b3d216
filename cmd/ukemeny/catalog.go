package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ukemeny/internal/app"
	"ukemeny/internal/config"
	"ukemeny/internal/ingredient"
	"ukemeny/internal/middleware"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the development recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			n, err := a.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d recipes.\n", n)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import [url]",
	Short: "Import a recipe from a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			id, req, err := a.ImportRecipe(ctx, args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as recipe #%d with %d ingredients.\n", req.Name, id, len(req.Items))
			return nil
		})
	},
}

var cleanupLimit int

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Maintain the ingredient list",
}

var ingredientsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete ingredients no recipe uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			n, err := a.Ingredients.DeleteUnused(ctx, cleanupLimit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d unused ingredients.\n", n)
			return nil
		})
	},
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		token, err := middleware.GenerateToken(cfg.JWTSecret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	ingredientsCleanupCmd.Flags().IntVar(&cleanupLimit, "limit", ingredient.DefaultDeleteLimit, "Maximum number of ingredients to delete")
	ingredientsCmd.AddCommand(ingredientsCleanupCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Subject claim of the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "How long the token stays valid")

	rootCmd.AddCommand(seedCmd, importCmd, ingredientsCmd, tokenCmd)
}
