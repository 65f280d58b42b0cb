// Package styles provides Lipgloss styles for the TUI, derived from the host theme.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/clip-trimmer/host"
)

// Palette is the set of colours every component renders with.
type Palette struct {
	// Primary is the accent colour for markers and the selected interval
	Primary lipgloss.Color
	// Background is the main background colour
	Background lipgloss.Color
	// Surface is the secondary background used for bars and panels
	Surface lipgloss.Color
	// Text is the primary text colour
	Text lipgloss.Color
	// Muted is used for borders, lanes outside the selection and hints
	Muted lipgloss.Color
	// Playhead marks the current playback position
	Playhead lipgloss.Color
	// Warning is used for errors
	Warning lipgloss.Color
	// Success is used for confirmations
	Success lipgloss.Color
}

// FromTheme builds a palette from a host theme. Muted and status colours
// depend on whether the theme base is light or dark.
func FromTheme(t host.Theme) Palette {
	p := Palette{
		Primary:    lipgloss.Color(t.PrimaryColor),
		Background: lipgloss.Color(t.BackgroundColor),
		Surface:    lipgloss.Color(t.SecondaryBackgroundColor),
		Text:       lipgloss.Color(t.TextColor),
	}
	if t.Base == "dark" {
		p.Muted = lipgloss.Color("#5C5F6E")
		p.Playhead = lipgloss.Color("#FAFAFA")
		p.Warning = lipgloss.Color("#FF6C6C")
		p.Success = lipgloss.Color("#3DD56D")
	} else {
		p.Muted = lipgloss.Color("#A3A8B8")
		p.Playhead = lipgloss.Color("#0E1117")
		p.Warning = lipgloss.Color("#D93025")
		p.Success = lipgloss.Color("#21C354")
	}
	return p
}

// Default is the palette for the default light theme.
func Default() Palette {
	return FromTheme(host.DefaultTheme())
}

// Bar is the style for the full-width status bar.
func (p Palette) Bar() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(p.Text).
		Bold(true)
}

// Marker is the style for a crop marker; the selected one is reversed.
func (p Palette) Marker(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	if selected {
		s = s.Reverse(true)
	}
	return s
}

// PrimaryText is the style for primary text content.
func (p Palette) PrimaryText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Text)
}

// SecondaryText is the style for less prominent text.
func (p Palette) SecondaryText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Muted)
}

// Highlight is the style for lane cells inside the selected interval.
func (p Palette) Highlight() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Primary)
}

// WarningText is the style for warning messages.
func (p Palette) WarningText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
}

// SuccessText is the style for success messages.
func (p Palette) SuccessText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Success).Bold(true)
}

// Border is the style for bordered panels.
func (p Palette) Border() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted)
}
