package components

import (
	"strings"

	"github.com/user/clip-trimmer/meter"
	"github.com/user/clip-trimmer/tui/styles"
)

// LevelMeter renders the audio level as a horizontal bar.
func LevelMeter(level float64, p styles.Palette, width int) string {
	const label = "level "
	n := width - len(label)
	if n <= 0 {
		return ""
	}
	filled := meter.Bars(level, n)
	return p.SecondaryText().Render(label) +
		p.Highlight().Render(strings.Repeat("▮", filled)) +
		p.SecondaryText().Render(strings.Repeat("·", n-filled))
}
