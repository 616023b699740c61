package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/ui"
)

// styles are the Lip Gloss counterparts of a ui.Theme.
type styles struct {
	title    lipgloss.Style
	success  lipgloss.Style
	pending  lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	help     lipgloss.Style
	frame    lipgloss.Style
	input    lipgloss.Style

	boxChecked, boxUnchecked string
	symDone, symPending      string
}

func newStyles(t ui.Theme) styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		muted:    lipgloss.NewStyle().Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:     lipgloss.NewStyle().Faint(true),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),

		boxChecked:   t.BoxChecked,
		boxUnchecked: t.BoxUnchecked,
		symDone:      t.SymDone,
		symPending:   t.SymPending,
	}
	switch t.Name {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("13"))
		s.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		s.frame = s.frame.BorderForeground(lipgloss.Color("13"))
	case "mono":
		plain := lipgloss.NewStyle()
		s.success, s.pending, s.accent, s.err = plain, plain, plain, plain.Bold(true)
		s.frame = s.frame.Border(lipgloss.NormalBorder()).UnsetBorderForeground()
		s.input = s.frame
	}
	return s
}
