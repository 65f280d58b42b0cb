package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/clip-trimmer/lanes"
	"github.com/user/clip-trimmer/tui/styles"
)

// eighths are the partial block glyphs, indexed by filled eighths of a cell.
var eighths = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// WaveformLane renders amplitudes as a bar chart height rows tall. Samples are
// peak-resampled to one per column.
func WaveformLane(samples []float64, s LaneState, p styles.Palette, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	cols := lanes.Resample(samples, width)

	from, to, cropping := s.selection(width)
	head := s.playhead(width)
	inStyle := p.Highlight()
	outStyle := p.SecondaryText()
	headStyle := lipgloss.NewStyle().Foreground(p.Playhead)

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		floor := (height - 1 - r) * 8
		var b strings.Builder
		for i := 0; i < width; i++ {
			level := 0
			if i < len(cols) {
				level = int(math.Round(cols[i] * float64(height*8)))
			}
			fill := level - floor
			if fill < 0 {
				fill = 0
			}
			if fill > 8 {
				fill = 8
			}
			glyph := eighths[fill]
			switch {
			case i == head:
				b.WriteString(headStyle.Render(glyph))
			case !cropping || (i >= from && i <= to):
				b.WriteString(inStyle.Render(glyph))
			default:
				b.WriteString(outStyle.Render(glyph))
			}
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}
