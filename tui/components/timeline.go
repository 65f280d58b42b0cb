package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/clip-trimmer/pkg/timeutil"
	"github.com/user/clip-trimmer/trim"
	"github.com/user/clip-trimmer/tui/styles"
)

const (
	startGlyph = '['
	endGlyph   = ']'
)

// TimelineState holds the lane state plus the marker selection.
type TimelineState struct {
	LaneState
	// Selected is the marker keyboard actions apply to
	Selected trim.Marker
	// Dragging is true while a drag session is open
	Dragging bool
}

// Timeline renders the track with crop markers and the playhead, followed by a
// label row carrying the marker times. Output is always two lines of width cells.
func Timeline(s TimelineState, p styles.Palette, width int) string {
	if width <= 0 {
		return "\n"
	}

	trackStyle := p.SecondaryText()
	selStyle := p.Highlight().Bold(true)
	headStyle := lipgloss.NewStyle().Foreground(p.Playhead).Bold(true)

	from, to, cropping := s.selection(width)
	head := s.playhead(width)

	var bar strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case cropping && i == from:
			bar.WriteString(p.Marker(s.Selected == trim.MarkerStart).Render(string(startGlyph)))
		case cropping && i == to:
			bar.WriteString(p.Marker(s.Selected == trim.MarkerEnd).Render(string(endGlyph)))
		case i == head:
			bar.WriteString(headStyle.Render("┃"))
		case cropping && i > from && i < to:
			bar.WriteString(selStyle.Render("━"))
		default:
			bar.WriteString(trackStyle.Render("─"))
		}
	}

	return bar.String() + "\n" + timelineLabels(s, p, width)
}

// timelineLabels puts the start time under the start marker and the end time
// so it finishes under the end marker. Outside crop mode it shows the total.
func timelineLabels(s TimelineState, p styles.Palette, width int) string {
	row := []rune(strings.Repeat(" ", width))
	put := func(col int, text string) int {
		r := []rune(text)
		if col+len(r) > width {
			col = width - len(r)
		}
		if col < 0 {
			col = 0
		}
		for i, c := range r {
			if col+i < width {
				row[col+i] = c
			}
		}
		return col + len(r)
	}

	from, to, cropping := s.selection(width)
	if !cropping {
		put(width-len(timeutil.FormatTime(s.Duration)), timeutil.FormatTime(s.Duration))
		put(0, timeutil.FormatTime(0))
		return p.SecondaryText().Render(string(row))
	}

	startLabel := timeutil.FormatTenths(s.Interval.Start)
	endLabel := timeutil.FormatTenths(s.Interval.End)
	afterStart := put(from, startLabel)
	endCol := to - len([]rune(endLabel)) + 1
	if endCol <= afterStart {
		endCol = afterStart + 1
	}
	put(endCol, endLabel)
	return p.PrimaryText().Render(string(row))
}
