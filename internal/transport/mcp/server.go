package mcp

import (
	"context"
	"io"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const (
	defaultSearchResults = 10
	maxSearchResults     = 50
)

type Asker interface {
	Ask(ctx context.Context, question string) (tutor.Answer, error)
}

type Searcher interface {
	Query(ctx context.Context, text string, n int) ([]core.Hit, error)
}

// Server exposes the document collection and the tutor as MCP tools over stdio.
type Server struct {
	mcp      *server.MCPServer
	tutor    Asker
	searcher Searcher
	in       io.Reader
	out      io.Writer
}

func NewServer(tutor Asker, searcher Searcher, in io.Reader, out io.Writer) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(core.AppName, core.AppVersion, server.WithToolCapabilities(false)),
		tutor:    tutor,
		searcher: searcher,
		in:       in,
		out:      out,
	}

	s.mcp.AddTool(mcpproto.NewTool("search_documents",
		mcpproto.WithDescription("Semantic search over the ingested study material. Returns the closest chunks with source file and distance."),
		mcpproto.WithString("query", mcpproto.Required(), mcpproto.Description("What to look for")),
		mcpproto.WithNumber("n_results", mcpproto.Description("Number of chunks to return (default 10)")),
	), s.handleSearch)

	s.mcp.AddTool(mcpproto.NewTool("ask",
		mcpproto.WithDescription("Ask the tutor a question. The answer uses only the ingested material and the conversation so far."),
		mcpproto.WithString("question", mcpproto.Required(), mcpproto.Description("The question to answer")),
	), s.handleAsk)

	return s
}

// Start serves until ctx is cancelled or the client closes stdin.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, s.in, s.out); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) handleSearch(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	n := req.GetInt("n_results", defaultSearchResults)
	if n <= 0 {
		n = defaultSearchResults
	}
	if n > maxSearchResults {
		n = maxSearchResults
	}

	hits, err := s.searcher.Query(ctx, query, n)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp search failed")
		return mcpproto.NewToolResultError("search failed: " + err.Error()), nil
	}
	return mcpproto.NewToolResultText(retrieval.FormatResults(hits)), nil
}

func (s *Server) handleAsk(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcpproto.NewToolResultError(err.Error()), nil
	}

	ans, err := s.tutor.Ask(ctx, question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp ask failed")
		return mcpproto.NewToolResultError(err.Error()), nil
	}
	return mcpproto.NewToolResultText(ans.Text), nil
}
