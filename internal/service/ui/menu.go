package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultQueryResults = 10
	invalidChoice       = "Invalid choice. Please select 1, 2, or 3."
)

type Action int

const (
	ActionNone Action = iota
	ActionIngest
	ActionQuery
	ActionExit
)

// Selection is what the user picked in one pass through the menu.
type Selection struct {
	Action   Action
	Folder   string
	Query    string
	NResults int
}

type menuStage int

const (
	stageChoose menuStage = iota
	stageFolder
	stageQuery
	stageCount
)

var menuChoices = []string{"Ingest documents", "Query documents", "Exit"}

// Menu is the numbered ingest / query / exit menu.
type Menu struct {
	title  string
	stage  menuStage
	cursor int
	input  textinput.Model
	notice string
	sel    Selection
	done   bool
}

func NewMenu(title string) Menu {
	return Menu{title: title}
}

func (m Menu) Selection() Selection {
	return m.sel
}

func (m Menu) Init() tea.Cmd {
	return nil
}

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.stage != stageChoose {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if key.Type == tea.KeyCtrlC {
		return m.finish(Selection{Action: ActionExit})
	}

	if m.stage == stageChoose {
		return m.updateChoose(key)
	}
	return m.updateInput(key)
}

func (m Menu) updateChoose(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		return m.choose(m.cursor + 1)
	case "1", "2", "3":
		n, _ := strconv.Atoi(key.String())
		return m.choose(n)
	case "esc", "q":
		return m.finish(Selection{Action: ActionExit})
	}

	m.notice = invalidChoice
	return m, nil
}

func (m Menu) choose(n int) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch n {
	case 1:
		m.stage = stageFolder
		m.input = newInput("path/to/notes")
	case 2:
		m.stage = stageQuery
		m.input = newInput("What is photosynthesis?")
	default:
		return m.finish(Selection{Action: ActionExit})
	}
	return m, textinput.Blink
}

func (m Menu) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.stage = stageChoose
		m.notice = ""
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		switch m.stage {
		case stageFolder:
			if value == "" {
				return m, nil
			}
			return m.finish(Selection{Action: ActionIngest, Folder: value})
		case stageQuery:
			if value == "" {
				return m, nil
			}
			m.sel.Query = value
			m.stage = stageCount
			m.input = newInput(strconv.Itoa(DefaultQueryResults))
			return m, textinput.Blink
		case stageCount:
			return m.finish(Selection{Action: ActionQuery, Query: m.sel.Query, NResults: parseCount(value)})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Menu) finish(sel Selection) (tea.Model, tea.Cmd) {
	m.sel = sel
	m.done = true
	return m, tea.Quit
}

func (m Menu) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(Rule(50) + "\n")
	b.WriteString(TitleStyle.Render(m.title) + "\n")

	switch m.stage {
	case stageChoose:
		for i, choice := range menuChoices {
			line := fmt.Sprintf("%d. %s", i+1, choice)
			if i == m.cursor {
				b.WriteString(SelectedStyle.Render("❯ "+line) + "\n")
			} else {
				b.WriteString(ItemStyle.Render("  "+line) + "\n")
			}
		}
		b.WriteString(Rule(50) + "\n\n")
		b.WriteString("Select an option (1-3)\n")
		if m.notice != "" {
			b.WriteString(ErrorStyle.Render(m.notice) + "\n")
		}
	case stageFolder:
		b.WriteString("Enter the folder path:\n\n" + m.input.View() + "\n")
	case stageQuery:
		b.WriteString("Enter your query:\n\n" + m.input.View() + "\n")
	case stageCount:
		b.WriteString(fmt.Sprintf("Number of results (default %d):\n\n", DefaultQueryResults) + m.input.View() + "\n")
	}

	b.WriteString(DescStyle.Render("\n(esc to go back, ctrl+c to quit)") + "\n")
	return b.String()
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	return ti
}

// parseCount accepts only a positive decimal number; anything else is the default.
func parseCount(s string) int {
	for _, r := range s {
		if r < '0' || r > '9' {
			return DefaultQueryResults
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return DefaultQueryResults
	}
	return n
}

// RunMenu shows the menu once and returns the selection.
func RunMenu(title string, in io.Reader, out io.Writer) (Selection, error) {
	p := tea.NewProgram(NewMenu(title), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return Selection{}, err
	}
	return final.(Menu).Selection(), nil
}
