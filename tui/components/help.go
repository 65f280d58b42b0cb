package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/clip-trimmer/tui/layout"
	"github.com/user/clip-trimmer/tui/styles"
)

// HelpGroup is a titled set of key bindings shown in the help overlay.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// HelpOverlay renders the full keybinding reference centred in the window.
// Disabled bindings are left out.
func HelpOverlay(groups []HelpGroup, p styles.Palette, width, height int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)

	groupHeaderStyle := lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(p.Text).
		Bold(true).
		Width(12)

	descStyle := p.SecondaryText()

	var lines []string
	lines = append(lines, titleStyle.Render("Keybindings"))

	for _, group := range groups {
		lines = append(lines, groupHeaderStyle.Render(group.Title))
		for _, b := range group.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, "  "+keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
	}

	lines = append(lines, "")
	lines = append(lines, descStyle.Italic(true).Render("Press any key to close"))

	panel := p.Border().
		BorderForeground(p.Primary).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return layout.Center(panel, width, height)
}
