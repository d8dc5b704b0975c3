package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]core.Record
	failOn  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]core.Record{}}
}

func (s *fakeStore) Add(ctx context.Context, records ...core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if s.failOn != "" && strings.Contains(r.Document, s.failOn) {
			return errors.New("embedding failed")
		}
		s.records[r.ID] = r
	}
	return nil
}

func (s *fakeStore) DeleteBySource(ctx context.Context, source string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.records {
		if r.Metadata[core.MetaSource] == source {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for id := range s.records {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *fakeStore) get(id string) (core.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	return r, ok
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantChunks  []Chunk
		wantSkipped int
	}{
		{name: "empty", doc: "", wantChunks: nil},
		{
			name: "short piece keeps its index",
			doc:  "# notes.txt\n\nShort\n\nThis paragraph is long enough.",
			wantChunks: []Chunk{
				{Index: 0, Text: "# notes.txt"},
				{Index: 2, Text: "This paragraph is long enough."},
			},
			wantSkipped: 1,
		},
		{
			name: "blank pieces do not advance the index",
			doc:  "first paragraph\n\n\n\n   \n\nsecond paragraph",
			wantChunks: []Chunk{
				{Index: 0, Text: "first paragraph"},
				{Index: 1, Text: "second paragraph"},
			},
		},
		{
			name:        "length counts characters",
			doc:         "ééééééééé\n\nüüüüüüüüüü",
			wantChunks:  []Chunk{{Index: 1, Text: "üüüüüüüüüü"}},
			wantSkipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, skipped := Split(tt.doc, DefaultMinChunkLength)
			assert.Equal(t, tt.wantChunks, chunks)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		path := writeFile(t, dir, "notes.md", "Cells divide.\n\nMitosis has phases.")
		got, err := Convert(path)
		require.NoError(t, err)
		assert.Equal(t, "# notes.md\n\nCells divide.\n\nMitosis has phases.", got)
	})

	t.Run("invalid utf-8 dropped", func(t *testing.T) {
		path := writeFile(t, dir, "raw.txt", "ab\xffcd")
		got, err := Convert(path)
		require.NoError(t, err)
		assert.Equal(t, "# raw.txt\n\nabcd", got)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		path := writeFile(t, dir, "notes.txt", "First paragraph about cells.\r\n\r\nSecond paragraph about mitochondria.\r\n")
		got, err := Convert(path)
		require.NoError(t, err)
		assert.Equal(t, "# notes.txt\n\nFirst paragraph about cells.\n\nSecond paragraph about mitochondria.\n", got)

		chunks, skipped := Split(got, DefaultMinChunkLength)
		assert.Zero(t, skipped)
		assert.Equal(t, []Chunk{
			{Index: 0, Text: "# notes.txt"},
			{Index: 1, Text: "First paragraph about cells."},
			{Index: 2, Text: "Second paragraph about mitochondria."},
		}, chunks)
	})

	t.Run("lone cr line endings", func(t *testing.T) {
		path := writeFile(t, dir, "old.txt", "Line one\rLine two\r\rNext block")
		got, err := Convert(path)
		require.NoError(t, err)
		assert.Equal(t, "# old.txt\n\nLine one\nLine two\n\nNext block", got)
	})

	t.Run("html", func(t *testing.T) {
		path := writeFile(t, dir, "page.HTML", "<html><body><h1>Osmosis</h1><p>Water moves across membranes.</p></body></html>")
		got, err := Convert(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "# page.HTML\n\n"))
		assert.Contains(t, got, "Water moves across membranes.")
		assert.NotContains(t, got, "<p>")
	})

	t.Run("broken pdf", func(t *testing.T) {
		path := writeFile(t, dir, "broken.pdf", "this is not a pdf")
		_, err := Convert(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Convert(filepath.Join(dir, "absent.txt"))
		assert.Error(t, err)
	})
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "  a\n\n b\t\tc \n", want: "a b c"},
		{name: "vertical tab and form feed", in: "a\v\fb", want: "a b"},
		{name: "no-break space", in: "photo\u00a0\u00a0synthesis", want: "photo synthesis"},
		{name: "unicode spaces", in: "\u2003cell\u2009wall\u3000", want: "cell wall"},
		{name: "next line", in: "a\u0085b", want: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collapseWhitespace(tt.in))
		})
	}
}

func TestIngester_IngestFolder(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Photosynthesis converts light.\n\nok\n\nChlorophyll is green.")
	writeFile(t, dir, "a.txt", "Respiration releases energy.")
	writeFile(t, dir, "broken.pdf", "garbage")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	writeFile(t, filepath.Join(dir, "nested"), "deep.txt", "Should never be ingested.")

	store := newFakeStore()
	var progress []string
	ing := NewIngester(store, WithProgress(func(source string, index int) {
		progress = append(progress, source)
	}))

	report, err := ing.IngestFolder(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, []string{"broken.pdf"}, report.Failed)

	// "# a.txt" and "# b.txt" are shorter than the minimum and skipped.
	assert.Equal(t, []string{"a.txt_1", "b.txt_1", "b.txt_3"}, store.ids())
	assert.Equal(t, []string{"a.txt", "b.txt", "b.txt"}, progress)

	rec, ok := store.get("b.txt_3")
	require.True(t, ok)
	assert.Equal(t, "Chlorophyll is green.", rec.Document)
	assert.Equal(t, map[string]any{core.MetaSource: "b.txt", core.MetaChunkIndex: 3}, rec.Metadata)
}

func TestIngester_IngestFolderMissing(t *testing.T) {
	_, err := NewIngester(newFakeStore()).IngestFolder(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestIngester_StoreErrorSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Valid paragraph one.\n\nPoison paragraph here.")
	writeFile(t, dir, "b.txt", "Another valid file.")

	store := newFakeStore()
	store.failOn = "Poison"

	report, err := NewIngester(store).IngestFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, report.Failed)
	assert.Equal(t, 1, report.Files)
	assert.Contains(t, store.ids(), "b.txt_1")
}

func TestIngester_Reingest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here.")

	store := newFakeStore()
	ing := NewIngester(store)
	_, _, err := ing.IngestFile(ctx, path)
	require.NoError(t, err)
	assert.Len(t, store.ids(), 4)

	writeFile(t, dir, "notes.txt", "Only paragraph left.")
	n, err := ing.Reingest(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"notes.txt_0", "notes.txt_1"}, store.ids())

	rec, _ := store.get("notes.txt_1")
	assert.Equal(t, "Only paragraph left.", rec.Document)
}

func TestWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	store := newFakeStore()
	w := NewWatcher(dir, NewIngester(store), WithDebounce(20*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Wait for the watch to be registered.
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.fsw != nil
	}, 2*time.Second, 10*time.Millisecond)

	path := writeFile(t, dir, "live.txt", "Enzymes lower activation energy.")
	require.Eventually(t, func() bool {
		_, ok := store.get("live.txt_1")
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return len(store.ids()) == 0
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.NoError(t, w.Shutdown(context.Background()))
}

func TestWatcher_MissingFolder(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent"), NewIngester(newFakeStore()))
	assert.ErrorIs(t, w.Start(context.Background()), ErrFolderNotFound)
}
