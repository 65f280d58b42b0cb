package components

import (
	"strings"

	"github.com/user/clip-trimmer/lanes"
	"github.com/user/clip-trimmer/tui/styles"
)

// ThumbnailLane renders the frame strip as one row. Terminals can't show the
// frames, so each column shows which frame covers it: alternating shades mark
// frame boundaries and placeholders render as a light hatch.
func ThumbnailLane(refs []string, s LaneState, p styles.Palette, width int) string {
	if width <= 0 {
		return ""
	}
	if len(refs) == 0 {
		return strings.Repeat(" ", width)
	}

	from, to, cropping := s.selection(width)
	inStyle := p.Highlight()
	outStyle := p.SecondaryText()

	var b strings.Builder
	for i := 0; i < width; i++ {
		fi := i * len(refs) / width
		glyph := "░"
		if !lanes.IsPlaceholder(refs[fi]) {
			if fi%2 == 0 {
				glyph = "▓"
			} else {
				glyph = "▒"
			}
		}
		if !cropping || (i >= from && i <= to) {
			b.WriteString(inStyle.Render(glyph))
		} else {
			b.WriteString(outStyle.Render(glyph))
		}
	}
	return b.String()
}
