package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sandevgo/studybuddy/internal/service/ingest"
	"github.com/sandevgo/studybuddy/internal/transport/cli"
	"github.com/sandevgo/studybuddy/pkg/log"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var watch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <folder>",
	Short: "Add every file in a folder to the document store",
	Long: `Converts each file in the folder (PDF, HTML or plain text) to text, splits it
into paragraph chunks and stores them with their embeddings. With --watch the
folder is then monitored and changed files are re-ingested.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		folder := args[0]
		out := cmd.OutOrStdout()

		a := newApp(ctx)
		defer srv.ShutdownServices(ctx, a.services)

		ingester := a.ingester(ingest.WithProgress(func(source string, index int) {
			fmt.Fprintf(out, "Added chunk %d from %s\n", index+1, source)
		}))

		fmt.Fprintf(out, "Processing files from %s...\n", folder)
		report, err := ingester.IngestFolder(ctx, folder)
		if err != nil {
			return err
		}
		cli.PrintReport(out, report)

		if !watch {
			return nil
		}

		log.FromCtx(ctx).Info().Str("folder", folder).Msg("watching for changes")
		return srv.Run(ctx, []srv.Service{ingest.NewWatcher(folder, ingester)})
	},
}

func init() {
	ingestCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep watching the folder and re-ingest changed files")
	rootCmd.AddCommand(ingestCmd)
}
