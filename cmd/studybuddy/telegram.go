package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/studybuddy/internal/config"
	"github.com/sandevgo/studybuddy/internal/transport/telegram"
	"github.com/sandevgo/studybuddy/pkg/log"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Serve the tutor to its owner over Telegram",
	Long:  `Starts a Telegram bot that answers messages from TELEGRAM_OWNER_ID only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		a := newApp(ctx)
		session := a.session(ctx)
		t := a.tutor(ctx, session)

		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), t, a.router(session))
		if err != nil {
			srv.ShutdownServices(ctx, a.services)
			return err
		}

		logger.Info().Msg("starting telegram bot")
		err = srv.Run(ctx, append(a.services, bot))
		logger.Info().Msg("telegram bot has been shut down gracefully")
		return err
	},
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}
