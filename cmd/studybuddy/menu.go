package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/studybuddy/internal/service/ingest"
	"github.com/sandevgo/studybuddy/internal/transport/cli"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Ingest folders and search documents from a menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		menu := cli.NewMenu(a.documents, os.Stdin, os.Stdout, ingest.WithMinChunkLength(a.ragCfg.MinChunkLength))

		return srv.Run(ctx, append(a.services, menu))
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
