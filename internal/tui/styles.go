package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles the view uses.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Plain    lipgloss.Style
	Page     lipgloss.Style
	Current  lipgloss.Style
	Disabled lipgloss.Style
	Summary  lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Pending  lipgloss.Style
}

// DefaultStyles returns the built-in theme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#1F2933")).Padding(0, 1),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true).PaddingRight(2),
		Cell:     lipgloss.NewStyle().Bold(true).PaddingRight(2),
		Plain:    lipgloss.NewStyle().PaddingRight(2),
		Page:     lipgloss.NewStyle().Padding(0, 1),
		Current:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2F6FED")),
		Disabled: lipgloss.NewStyle().Padding(0, 1).Faint(true),
		Summary:  lipgloss.NewStyle().Foreground(lipgloss.Color("#616E7C")),
		Help:     lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#B42318")),
		Pending:  lipgloss.NewStyle().Faint(true),
	}
}
