package explore

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/msalah0e/graphlens/internal/interact"
)

// Styles is one palette for the explorer.
type Styles struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	Cursor     lipgloss.Style
	Plain      lipgloss.Style
	Dimmed     lipgloss.Style
	Emphasized lipgloss.Style
	Error      lipgloss.Style
}

var (
	blue   = lipgloss.Color("#007aff")
	orange = lipgloss.Color("#ff9500")
	red    = lipgloss.Color("#ff3b30")
)

// LightStyles is the default palette.
func LightStyles() Styles {
	return newStyles(lipgloss.Color("#1d1d1f"), lipgloss.Color("#b0b0b5"), lipgloss.Color("#d1d1d6"))
}

// DarkStyles suits dark terminals.
func DarkStyles() Styles {
	return newStyles(lipgloss.Color("#e5e5ea"), lipgloss.Color("#48484a"), lipgloss.Color("#3a3a3c"))
}

func newStyles(fg, faint, border lipgloss.Color) Styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(blue),
		Subtle:     lipgloss.NewStyle().Foreground(faint),
		Pane:       pane,
		ActivePane: pane.BorderForeground(blue),
		Cursor:     lipgloss.NewStyle().Foreground(blue).Bold(true),
		Plain:      lipgloss.NewStyle().Foreground(fg),
		Dimmed:     lipgloss.NewStyle().Foreground(faint),
		Emphasized: lipgloss.NewStyle().Foreground(orange).Bold(true),
		Error:      lipgloss.NewStyle().Foreground(red).Bold(true),
	}
}

// For returns the style that renders decoration d.
func (s Styles) For(d interact.Decoration) lipgloss.Style {
	switch d {
	case interact.Dimmed:
		return s.Dimmed
	case interact.Emphasized:
		return s.Emphasized
	}
	return s.Plain
}
