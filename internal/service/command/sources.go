package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
)

const sourcesResults = 10

type DocumentStore interface {
	Query(ctx context.Context, text string, n int) ([]core.Hit, error)
	Get(ctx context.Context) ([]core.Record, error)
}

// SourcesCommand lists ingested files, or with a query shows the raw
// nearest chunks for it.
type SourcesCommand struct {
	store     DocumentStore
	formatter *ResponseFormatter
}

func NewSourcesCommand(store DocumentStore) *SourcesCommand {
	return &SourcesCommand{store: store, formatter: NewResponseFormatter()}
}

func (c *SourcesCommand) Name() string {
	return "sources"
}

func (c *SourcesCommand) Description() string {
	return "List ingested files, or search them: /sources <query>"
}

func (c *SourcesCommand) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 {
		hits, err := c.store.Query(ctx, strings.Join(args, " "), sourcesResults)
		if err != nil {
			return "", fmt.Errorf("search documents: %w", err)
		}
		return "```\n" + retrieval.FormatResults(hits) + "```\n", nil
	}

	records, err := c.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	if len(records) == 0 {
		return c.formatter.Info("No documents ingested yet"), nil
	}

	chunks := map[string]int{}
	for _, rec := range records {
		chunks[rec.Source()]++
	}
	names := make([]string, 0, len(chunks))
	for name := range chunks {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, fmt.Sprintf("`%s`  %d chunks", name, chunks[name]))
	}

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Sources (%d files, %d chunks)", len(names), len(records))),
		c.formatter.List(items),
	), nil
}
