package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/sandevgo/studybuddy/internal/service/ui"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var askResults int

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the top matching chunks",
	Long: `Answers a single question without query rewriting, filtering or memory.
The top matching chunks are passed to the model as they are.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer srv.ShutdownServices(ctx, a.services)

		answer, err := tutor.NewSimple(a.model(ctx), a.documents, askResults).Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !answer.Retrieval.OK() {
			fmt.Fprintln(out, ui.DescStyle.Render("(no documents matched: "+string(answer.Retrieval.Reason)+")"))
		}
		fmt.Fprintln(out, answer.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().IntVarP(&askResults, "n-results", "n", tutor.DefaultSimpleResults, "number of chunks passed to the model")
	rootCmd.AddCommand(askCmd)
}
