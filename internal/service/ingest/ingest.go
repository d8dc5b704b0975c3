package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/pkg/log"
)

var ErrFolderNotFound = errors.New("folder does not exist")

// Store is the part of the document collection ingestion writes to.
type Store interface {
	Add(ctx context.Context, records ...core.Record) error
	DeleteBySource(ctx context.Context, source string) (int64, error)
}

type Report struct {
	Files   int
	Chunks  int
	Skipped int
	Failed  []string
}

type Option func(*Ingester)

// WithMinChunkLength overrides DefaultMinChunkLength.
func WithMinChunkLength(n int) Option {
	return func(i *Ingester) { i.minLength = n }
}

// WithProgress registers a callback invoked after each stored chunk.
func WithProgress(fn func(source string, index int)) Option {
	return func(i *Ingester) { i.progress = fn }
}

type Ingester struct {
	store     Store
	minLength int
	progress  func(source string, index int)
}

func NewIngester(store Store, opts ...Option) *Ingester {
	i := &Ingester{store: store, minLength: DefaultMinChunkLength}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestFolder ingests every regular file directly inside folder, in name
// order. A file that fails to convert or store is logged and recorded in
// the report; the remaining files are still processed.
func (i *Ingester) IngestFolder(ctx context.Context, folder string) (Report, error) {
	logger := log.FromCtx(ctx)
	var report Report

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return report, fmt.Errorf("%s: %w", folder, ErrFolderNotFound)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return report, fmt.Errorf("list %s: %w", folder, err)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if entry.IsDir() {
			continue
		}

		stored, skipped, err := i.IngestFile(ctx, filepath.Join(folder, entry.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping file")
			report.Failed = append(report.Failed, entry.Name())
			continue
		}
		report.Files++
		report.Chunks += stored
		report.Skipped += skipped
	}

	logger.Info().
		Str("folder", folder).
		Int("files", report.Files).
		Int("chunks", report.Chunks).
		Int("failed", len(report.Failed)).
		Msg("ingestion complete")
	return report, nil
}

// IngestFile converts, splits and upserts one file. Chunks are keyed by
// "{filename}_{index}" so re-ingesting a file overwrites its chunks.
func (i *Ingester) IngestFile(ctx context.Context, path string) (stored, skipped int, err error) {
	source := filepath.Base(path)

	doc, err := Convert(path)
	if err != nil {
		return 0, 0, err
	}

	chunks, skipped := Split(doc, i.minLength)
	for _, c := range chunks {
		rec := core.Record{
			ID:       fmt.Sprintf("%s_%d", source, c.Index),
			Document: c.Text,
			Metadata: map[string]any{
				core.MetaSource:     source,
				core.MetaChunkIndex: c.Index,
			},
		}
		if err := i.store.Add(ctx, rec); err != nil {
			return stored, skipped, fmt.Errorf("store chunk %d of %s: %w", c.Index, source, err)
		}
		stored++

		log.FromCtx(ctx).Debug().Str("source", source).Int("chunk", c.Index).Msg("chunk added")
		if i.progress != nil {
			i.progress(source, c.Index)
		}
	}
	return stored, skipped, nil
}

// Reingest drops the chunks previously stored for path before ingesting it
// again, so a shorter revision leaves no stale tail behind.
func (i *Ingester) Reingest(ctx context.Context, path string) (int, error) {
	if _, err := i.Remove(ctx, path); err != nil {
		return 0, err
	}
	stored, _, err := i.IngestFile(ctx, path)
	return stored, err
}

func (i *Ingester) Remove(ctx context.Context, path string) (int64, error) {
	n, err := i.store.DeleteBySource(ctx, filepath.Base(path))
	if err != nil {
		return 0, fmt.Errorf("remove %s: %w", filepath.Base(path), err)
	}
	return n, nil
}
