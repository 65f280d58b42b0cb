package components

import (
	"fmt"

	"github.com/user/clip-trimmer/pkg/timeutil"
	"github.com/user/clip-trimmer/trim"
	"github.com/user/clip-trimmer/tui/layout"
	"github.com/user/clip-trimmer/tui/styles"
)

// StatusBarState holds the current playback and crop state for the status bar.
type StatusBarState struct {
	// Paused indicates if playback is paused
	Paused bool
	// TimePos is the current playback position in seconds
	TimePos float64
	// Duration is the total video duration in seconds
	Duration float64
	// StepSize is the current nudge/seek step in seconds
	StepSize float64
	// Cropping is true while the crop markers are shown
	Cropping bool
	// Interval is the current selection
	Interval trim.Interval
	// Selected is the marker keyboard nudges apply to
	Selected trim.Marker
}

// StatusBar renders the status bar component.
// Left: play/pause icon, position and duration. Middle: the selection while
// cropping. Right: step size and the selected marker.
func StatusBar(state StatusBarState, p styles.Palette, width int) string {
	playIcon := "▶"
	if state.Paused {
		playIcon = "⏸"
	}

	left := fmt.Sprintf(" %s %s / %s", playIcon, timeutil.FormatTenths(state.TimePos), timeutil.FormatTime(state.Duration))
	right := fmt.Sprintf("Step: %s ", formatStepSize(state.StepSize))

	if state.Cropping {
		left += fmt.Sprintf("   ✂ %s → %s (%s)",
			timeutil.FormatTenths(state.Interval.Start),
			timeutil.FormatTenths(state.Interval.End),
			timeutil.FormatTenths(state.Interval.Duration()))
		right = fmt.Sprintf("Marker: %s  %s", state.Selected, right)
	}

	return p.Bar().Render(layout.Spread(left, right, width))
}

// formatStepSize formats the step size for display.
// Shows decimal for values less than 1, otherwise whole number.
func formatStepSize(stepSize float64) string {
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
