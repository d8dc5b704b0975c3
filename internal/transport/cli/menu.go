package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/ingest"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/internal/service/ui"
)

const menuTitle = "StudyBuddy RAG System"

type DocumentStore interface {
	ingest.Store
	Query(ctx context.Context, text string, n int) ([]core.Hit, error)
}

// MenuSelector shows the menu once. ui.RunMenu in production.
type MenuSelector func(title string, in io.Reader, out io.Writer) (ui.Selection, error)

// Menu is the ingest / query / exit loop.
type Menu struct {
	store    DocumentStore
	opts     []ingest.Option
	in       io.Reader
	out      io.Writer
	selector MenuSelector
}

func NewMenu(store DocumentStore, in io.Reader, out io.Writer, opts ...ingest.Option) *Menu {
	return &Menu{store: store, opts: opts, in: in, out: out, selector: ui.RunMenu}
}

func (m *Menu) Start(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		sel, err := m.selector(menuTitle, m.in, m.out)
		if err != nil {
			return err
		}

		switch sel.Action {
		case ui.ActionIngest:
			m.ingest(ctx, sel.Folder)
		case ui.ActionQuery:
			m.query(ctx, sel.Query, sel.NResults)
		default:
			return nil
		}
	}
}

func (m *Menu) Shutdown(ctx context.Context) error {
	return nil
}

func (m *Menu) ingest(ctx context.Context, folder string) {
	opts := append([]ingest.Option{ingest.WithProgress(func(source string, index int) {
		fmt.Fprintf(m.out, "Added chunk %d from %s\n", index+1, source)
	})}, m.opts...)

	fmt.Fprintf(m.out, "Processing files from %s...\n", folder)
	report, err := ingest.NewIngester(m.store, opts...).IngestFolder(ctx, folder)
	if errors.Is(err, ingest.ErrFolderNotFound) {
		fmt.Fprintln(m.out, ui.ErrorStyle.Render(fmt.Sprintf("Error: Folder '%s' does not exist.", folder)))
		return
	}
	if err != nil {
		fmt.Fprintln(m.out, ui.ErrorStyle.Render("Error: "+err.Error()))
		return
	}
	PrintReport(m.out, report)
}

func (m *Menu) query(ctx context.Context, query string, n int) {
	fmt.Fprintf(m.out, "\nSearching for: %s\n\n", query)
	hits, err := m.store.Query(ctx, query, n)
	if err != nil {
		fmt.Fprintln(m.out, ui.ErrorStyle.Render("Error: "+err.Error()))
		return
	}
	fmt.Fprint(m.out, retrieval.FormatResults(hits))
}

// PrintReport writes the end-of-ingestion summary.
func PrintReport(out io.Writer, report ingest.Report) {
	fmt.Fprintf(out, "\nIngestion complete! Processed %d files.\n", report.Files)
	if report.Skipped > 0 {
		fmt.Fprintln(out, ui.DescStyle.Render(fmt.Sprintf("%d chunks stored, %d short chunks skipped.", report.Chunks, report.Skipped)))
	}
	for _, name := range report.Failed {
		fmt.Fprintln(out, ui.ErrorStyle.Render("Failed: "+name))
	}
}
