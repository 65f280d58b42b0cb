package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/clip-trimmer/tui/styles"
)

// Theme returns a huh theme in the widget palette. Only the parts a confirm
// field draws are restyled.
func Theme(p styles.Palette) *huh.Theme {
	t := huh.ThemeBase()
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	button := func(bg, text lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(text).Padding(0, 1)
	}

	// The focused field gets a primary-coloured gutter; blurred fields keep
	// the same indent behind an invisible one.
	t.Focused.Base = t.Focused.Base.BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).
		BorderForeground(p.Primary).PaddingLeft(1)
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder()).BorderLeft(true).PaddingLeft(1)

	t.Focused.Title = fg(p.Primary).Bold(true)
	t.Focused.Description = fg(p.Muted)
	t.Focused.ErrorIndicator = fg(p.Warning).Bold(true)
	t.Focused.ErrorMessage = fg(p.Warning)
	t.Focused.FocusedButton = button(p.Primary, p.Background).Bold(true)
	t.Focused.BlurredButton = button(p.Surface, p.Text)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred.Title = fg(p.Muted)
	t.Blurred.Description = fg(p.Muted)
	t.Blurred.FocusedButton = button(p.Muted, p.Background)
	t.Blurred.BlurredButton = button(p.Background, p.Muted)
	t.Blurred.Next = t.Blurred.FocusedButton

	return t
}
