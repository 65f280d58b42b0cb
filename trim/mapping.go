package trim

import "errors"

// ErrZeroWidth is returned when a pointer position is mapped onto a timeline
// that has no rendered width yet.
var ErrZeroWidth = errors.New("trim: timeline has zero width")

// PositionToTime converts a horizontal pointer position into a time on the timeline.
// The fraction (pointerX-leftEdge)/width is clamped to [0, 1] and scaled by duration.
// A width <= 0 returns ErrZeroWidth; a duration <= 0 always maps to 0.
func PositionToTime(pointerX, leftEdge, width, duration float64) (float64, error) {
	if width <= 0 {
		return 0, ErrZeroWidth
	}
	if duration <= 0 {
		return 0, nil
	}
	return Fraction(pointerX, leftEdge, width) * duration, nil
}

// Fraction returns the clamped position of pointerX along a timeline starting at
// leftEdge with the given width. Callers must ensure width > 0.
func Fraction(pointerX, leftEdge, width float64) float64 {
	return clamp((pointerX-leftEdge)/width, 0, 1)
}

// TimeToPosition is the inverse of PositionToTime, used when placing markers.
func TimeToPosition(t, leftEdge, width, duration float64) float64 {
	if duration <= 0 || width <= 0 {
		return leftEdge
	}
	return leftEdge + clamp(t/duration, 0, 1)*width
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
