// Package trim implements the crop-selection model behind the trimming widget:
// the start/end interval, its two markers, drag sessions and the apply result.
package trim

import (
	"fmt"
	"math"
)

const (
	// defaultStartOffset is where the start marker lands when crop mode opens.
	defaultStartOffset = 1.0
	// defaultEndOffset is how far before the end of the video the end marker lands.
	defaultEndOffset = 1.0
	// defaultEndFraction is the lower bound for the end marker as a share of duration.
	defaultEndFraction = 0.75
)

// Marker identifies one of the two boundaries of the crop interval.
type Marker int

const (
	// MarkerStart is the left boundary.
	MarkerStart Marker = iota
	// MarkerEnd is the right boundary.
	MarkerEnd
)

// String returns "start" or "end".
func (m Marker) String() string {
	switch m {
	case MarkerStart:
		return "start"
	case MarkerEnd:
		return "end"
	default:
		return fmt.Sprintf("marker(%d)", int(m))
	}
}

// Other returns the opposite marker.
func (m Marker) Other() Marker {
	if m == MarkerStart {
		return MarkerEnd
	}
	return MarkerStart
}

// Interval is the selected crop range in seconds.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// At returns the time owned by the given marker.
func (iv Interval) At(m Marker) float64 {
	if m == MarkerStart {
		return iv.Start
	}
	return iv.End
}

// Valid reports whether 0 <= Start < End <= duration.
func (iv Interval) Valid(duration float64) bool {
	return iv.Start >= 0 && iv.Start < iv.End && iv.End <= duration
}

// accepts reports whether moving marker m to t keeps Start < End.
func (iv Interval) accepts(m Marker, t float64) bool {
	if m == MarkerStart {
		return t < iv.End
	}
	return t > iv.Start
}

// DefaultInterval returns the selection shown when crop mode is entered:
// start at 1s and end at max(duration-1, duration*0.75).
//
// A duration <= 0 (unknown) collapses both ends to 0. When the default end is
// not past 1s, which holds for every duration up to 4/3s, the start falls back
// to 0.
func DefaultInterval(duration float64) Interval {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Interval{}
	}
	end := math.Max(duration-defaultEndOffset, duration*defaultEndFraction)
	start := defaultStartOffset
	if start >= end {
		start = 0
	}
	return Interval{Start: start, End: end}
}
