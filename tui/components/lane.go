// Package components provides the rendering pieces of the trimming widget.
// Every lane shares one horizontal mapping so a column means the same time
// in the thumbnail strip, the waveform and the timeline.
package components

import (
	"math"

	"github.com/user/clip-trimmer/trim"
)

// LaneState is what the lanes need to know about playback and selection.
type LaneState struct {
	Duration float64
	TimePos  float64
	Cropping bool
	Interval trim.Interval
}

// Column returns the lane column (0..width-1) showing time t.
func Column(t, duration float64, width int) int {
	if width <= 1 {
		return 0
	}
	return int(math.Round(trim.TimeToPosition(t, 0, float64(width-1), duration)))
}

// selection returns the column span of the interval, or ok=false when not cropping.
func (s LaneState) selection(width int) (from, to int, ok bool) {
	if !s.Cropping {
		return 0, 0, false
	}
	return Column(s.Interval.Start, s.Duration, width), Column(s.Interval.End, s.Duration, width), true
}

// playhead returns the playback column, or -1 when the duration is unknown.
func (s LaneState) playhead(width int) int {
	if s.Duration <= 0 {
		return -1
	}
	return Column(s.TimePos, s.Duration, width)
}
