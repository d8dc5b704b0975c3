package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

// drive feeds keys to the menu and returns the final state and whether the
// last key asked the program to quit.
func drive(t *testing.T, keys ...tea.Msg) (Menu, bool) {
	t.Helper()
	var m tea.Model = NewMenu("StudyBuddy")
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	menu, ok := m.(Menu)
	require.True(t, ok)
	return menu, cmd != nil && menu.done
}

func TestMenu(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.Msg
		want     Selection
		wantDone bool
	}{
		{
			name:     "ingest by number",
			keys:     []tea.Msg{runes("1"), runes("notes"), enter},
			want:     Selection{Action: ActionIngest, Folder: "notes"},
			wantDone: true,
		},
		{
			name:     "query with explicit count",
			keys:     []tea.Msg{runes("2"), runes("mitosis"), enter, runes("5"), enter},
			want:     Selection{Action: ActionQuery, Query: "mitosis", NResults: 5},
			wantDone: true,
		},
		{
			name:     "query count defaults",
			keys:     []tea.Msg{runes("2"), runes("mitosis"), enter, enter},
			want:     Selection{Action: ActionQuery, Query: "mitosis", NResults: DefaultQueryResults},
			wantDone: true,
		},
		{
			name:     "non numeric count defaults",
			keys:     []tea.Msg{runes("2"), runes("mitosis"), enter, runes("-3"), enter},
			want:     Selection{Action: ActionQuery, Query: "mitosis", NResults: DefaultQueryResults},
			wantDone: true,
		},
		{
			name:     "exit by number",
			keys:     []tea.Msg{runes("3")},
			want:     Selection{Action: ActionExit},
			wantDone: true,
		},
		{
			name:     "cursor and enter",
			keys:     []tea.Msg{down, enter, runes("osmosis"), enter, runes("7"), enter},
			want:     Selection{Action: ActionQuery, Query: "osmosis", NResults: 7},
			wantDone: true,
		},
		{
			name:     "ctrl+c exits from input",
			keys:     []tea.Msg{runes("1"), tea.KeyMsg{Type: tea.KeyCtrlC}},
			want:     Selection{Action: ActionExit},
			wantDone: true,
		},
		{
			name: "empty folder is ignored",
			keys: []tea.Msg{runes("1"), enter},
			want: Selection{},
		},
		{
			name: "esc returns to the menu",
			keys: []tea.Msg{runes("1"), esc},
			want: Selection{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, done := drive(t, tt.keys...)
			assert.Equal(t, tt.want, m.Selection())
			assert.Equal(t, tt.wantDone, done)
		})
	}
}

func TestMenu_InvalidChoice(t *testing.T) {
	m, done := drive(t, runes("7"))
	assert.False(t, done)
	assert.Contains(t, m.View(), "Invalid choice. Please select 1, 2, or 3.")

	m, _ = drive(t, runes("7"), runes("2"))
	assert.NotContains(t, m.View(), "Invalid choice")
	assert.Contains(t, m.View(), "Enter your query:")
}

func TestMenu_View(t *testing.T) {
	m := NewMenu("ChromaDB RAG System")
	view := m.View()
	assert.Contains(t, view, "ChromaDB RAG System")
	assert.Contains(t, view, "1. Ingest documents")
	assert.Contains(t, view, "2. Query documents")
	assert.Contains(t, view, "3. Exit")
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 3, parseCount("3"))
	assert.Equal(t, DefaultQueryResults, parseCount(""))
	assert.Equal(t, DefaultQueryResults, parseCount("0"))
	assert.Equal(t, DefaultQueryResults, parseCount("four"))
}
