package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher re-ingests files in one folder as they change. Editors tend to
// emit several writes per save, so events for the same file are debounced.
type Watcher struct {
	folder   string
	ingester *Ingester
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	fsw     *fsnotify.Watcher
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

func NewWatcher(folder string, ingester *Ingester, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		folder:   filepath.Clean(folder),
		ingester: ingester,
		debounce: defaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches until ctx is cancelled. It does not ingest files that are
// already present; run IngestFolder first for that.
func (w *Watcher) Start(ctx context.Context) error {
	info, err := os.Stat(w.folder)
	if err != nil || !info.IsDir() {
		return ErrFolderNotFound
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.folder); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	logger := log.FromCtx(ctx)
	logger.Info().Str("folder", w.folder).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if filepath.Dir(path) != w.folder {
		return
	}
	log.FromCtx(ctx).Debug().Str("op", ev.Op.String()).Str("path", path).Msg("watcher event")

	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return
		}
		w.schedule(ctx, path)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(path)
		w.remove(ctx, path)
	}
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.reingest(ctx, path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) reingest(ctx context.Context, path string) {
	logger := log.FromCtx(ctx).With().Str("file", filepath.Base(path)).Logger()

	n, err := w.ingester.Reingest(ctx, path)
	if err != nil {
		logger.Warn().Err(err).Msg("re-ingest failed")
		return
	}
	logger.Info().Int("chunks", n).Msg("file re-ingested")
}

func (w *Watcher) remove(ctx context.Context, path string) {
	logger := log.FromCtx(ctx).With().Str("file", filepath.Base(path)).Logger()

	n, err := w.ingester.Remove(ctx, path)
	if err != nil {
		logger.Warn().Err(err).Msg("remove failed")
		return
	}
	if n > 0 {
		logger.Info().Int64("chunks", n).Msg("file removed from collection")
	}
}
