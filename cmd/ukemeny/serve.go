package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ukemeny/internal/app"
	"ukemeny/internal/config"
	"ukemeny/internal/telegram"
)

var withBot bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serve runs the HTTP API until interrupted. With --telegram the bot webhook is served from the same port.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(gin.ReleaseMode)
		return runWithApp(cmd, func(ctx context.Context, a *app.App, cfg *config.Config, logger *zap.Logger) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var bot *telegram.Bot
			if withBot {
				var err error
				if bot, err = a.NewBot(); err != nil {
					return err
				}
			}
			return a.Serve(ctx, bot)
		})
	},
}

func init() {
	serveCmd.Flags().BoolVar(&withBot, "telegram", false, "Also serve the Telegram bot webhook")
	rootCmd.AddCommand(serveCmd)
}
