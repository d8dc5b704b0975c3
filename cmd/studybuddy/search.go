package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var searchResults int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the document chunks closest to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer srv.ShutdownServices(ctx, a.services)

		query := strings.Join(args, " ")
		hits, err := a.documents.Query(ctx, query, searchResults)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Searching for: %s\n\n", query)
		fmt.Fprint(out, retrieval.FormatResults(hits))
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchResults, "n-results", "n", 10, "number of results to show")
	rootCmd.AddCommand(searchCmd)
}
