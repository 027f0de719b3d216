package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ukemeny/internal/app"
	"ukemeny/internal/config"
	"ukemeny/internal/planner"
	"ukemeny/internal/shared"
)

var week string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a weekly menu",
	Long:  `Generate picks seven dinners for the week starting on the given Monday (next Monday by default).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, logger *zap.Logger) error {
			weekStart := planner.GetNextMonday(time.Now())
			if week != "" {
				d, err := shared.ParseDate(week)
				if err != nil {
					return err
				}
				weekStart = d
			}

			res, err := a.Menus.Generate(ctx, weekStart)
			if err != nil {
				return fmt.Errorf("failed to generate menu: %w", err)
			}
			logger.Info("menu generated", zap.Int64("menu_id", res.ID), zap.Stringer("week", weekStart))

			view, err := a.Menus.Get(ctx, res.ID)
			if err != nil {
				return err
			}
			app.WriteMenu(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [menu-id]",
	Short: "Pick new dinners for every unlocked day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			view, err := a.Menus.Regenerate(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to regenerate menu: %w", err)
			}
			app.WriteMenu(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [menu-id]",
	Short: "Print a weekly menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			view, err := a.Menus.Get(ctx, id)
			if err != nil {
				return err
			}
			app.WriteMenu(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var shoppingListCmd = &cobra.Command{
	Use:   "shopping-list [menu-id]",
	Short: "Print the shopping list of a weekly menu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return runWithApp(cmd, func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
			list, err := a.Menus.ShoppingList(ctx, id)
			if err != nil {
				return err
			}
			app.WriteShoppingList(cmd.OutOrStdout(), list)
			return nil
		})
	},
}

func init() {
	generateCmd.Flags().StringVar(&week, "week", "", "Monday the week starts on (YYYY-MM-DD)")
	rootCmd.AddCommand(generateCmd, regenerateCmd, showCmd, shoppingListCmd)
}
