package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/studybuddy/internal/transport/mcp"
	"github.com/sandevgo/studybuddy/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve document search and the tutor as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		session := a.session(ctx)
		server := mcp.NewServer(a.tutor(ctx, session), a.documents, os.Stdin, os.Stdout)

		return srv.Run(ctx, append(a.services, server))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
