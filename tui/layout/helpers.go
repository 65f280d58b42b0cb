// Package layout holds ANSI-aware sizing helpers shared by the TUI components.
package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadToWidth pads or truncates a string to exactly the specified width.
// Uses ansi.Truncate so styled and double-width text is cut on cell boundaries.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	currentWidth := lipgloss.Width(s)
	if currentWidth > width {
		s = ansi.Truncate(s, width, "…")
		currentWidth = lipgloss.Width(s)
	}
	if currentWidth < width {
		return s + strings.Repeat(" ", width-currentWidth)
	}
	return s
}

// NormalizeLines pads or truncates a slice of strings to exactly the given height.
func NormalizeLines(lines []string, height int) []string {
	if height < 0 {
		height = 0
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// Spread places left and right on one line of the given width, filling the
// gap with spaces. When both don't fit, right is dropped first.
func Spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return PadToWidth(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// Frame constrains content to exactly width columns and height lines.
func Frame(content string, width, height int) string {
	lines := NormalizeLines(strings.Split(content, "\n"), height)
	for i, line := range lines {
		lines[i] = PadToWidth(line, width)
	}
	return strings.Join(lines, "\n")
}

// Center places content in the middle of a width x height box.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
