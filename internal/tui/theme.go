package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"invitedesk/internal/invites"
)

// Theme is the palette for one background.
type Theme struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Focused  lipgloss.Style
	Box      lipgloss.Style
	Password lipgloss.Style
	Status   map[invites.Status]lipgloss.Style
	Table    table.Styles
}

func newTheme(dark bool) Theme {
	fg, subtle, accent, danger, ok, warn := lipgloss.Color("#1f2933"), lipgloss.Color("#7b8794"),
		lipgloss.Color("#2563eb"), lipgloss.Color("#dc2626"), lipgloss.Color("#15803d"), lipgloss.Color("#b45309")
	if dark {
		fg, subtle, accent, danger, ok, warn = lipgloss.Color("#e5e7eb"), lipgloss.Color("#9ca3af"),
			lipgloss.Color("#60a5fa"), lipgloss.Color("#f87171"), lipgloss.Color("#4ade80"), lipgloss.Color("#fbbf24")
	}

	tbl := table.DefaultStyles()
	tbl.Header = tbl.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(subtle).
		BorderBottom(true).
		Bold(true)
	tbl.Selected = tbl.Selected.Foreground(fg).Background(accent).Bold(false)
	if dark {
		tbl.Selected = tbl.Selected.Foreground(lipgloss.Color("#111827"))
	} else {
		tbl.Selected = tbl.Selected.Foreground(lipgloss.Color("#ffffff"))
	}

	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtle:   lipgloss.NewStyle().Foreground(subtle),
		Error:    lipgloss.NewStyle().Foreground(danger).Bold(true),
		Notice:   lipgloss.NewStyle().Foreground(ok),
		Focused:  lipgloss.NewStyle().Foreground(accent),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		Password: lipgloss.NewStyle().Bold(true).Foreground(warn),
		Status: map[invites.Status]lipgloss.Style{
			invites.StatusUnused:   lipgloss.NewStyle().Foreground(ok),
			invites.StatusUsed:     lipgloss.NewStyle().Foreground(subtle),
			invites.StatusDisabled: lipgloss.NewStyle().Foreground(danger),
		},
		Table: tbl,
	}
}
