package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/studybuddy/internal/transport/cli"
	"github.com/sandevgo/studybuddy/pkg/log"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var showPrompt bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the tutor about your documents",
	Long: `Starts an interactive session. Each question is rewritten for retrieval,
answered from the matching document chunks and remembered for later turns.
The conversation is saved to the session file on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		session := a.session(ctx)
		t := a.tutor(ctx, session)

		chat, err := cli.NewReadLine(t, a.router(session), cli.ReadLineConfig{
			HistoryFile: a.appCfg.GetInputHistoryPath(),
			ShowPrompt:  showPrompt,
		})
		if err != nil {
			return err
		}

		log.FromCtx(ctx).Debug().Msg("starting chat")
		return srv.Run(ctx, append(a.services, chat))
	},
}

func init() {
	chatCmd.Flags().BoolVar(&showPrompt, "show-prompt", false, "print the full prompt sent to the model")
	rootCmd.AddCommand(chatCmd)
}
