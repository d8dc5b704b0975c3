package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI colours only, so output follows the terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed for secondary text.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	ItemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	SelectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	RuleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Rule is a horizontal separator of n "=" characters.
func Rule(n int) string {
	return RuleStyle.Render(strings.Repeat("=", n))
}
