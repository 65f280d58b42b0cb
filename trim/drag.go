package trim

// DragSession is the interaction between pressing a marker and releasing the pointer.
// It only remembers which marker is held; every move is checked against the current
// interval of the owning Cropper.
type DragSession struct {
	cropper *Cropper
	marker  Marker
	ended   bool
}

// Marker returns the marker being dragged.
func (d *DragSession) Marker() Marker {
	return d.marker
}

// Active reports whether the session still owns pointer events.
func (d *DragSession) Active() bool {
	return !d.ended
}

// Move maps a pointer position on a timeline rendered at leftEdge with the given
// width and proposes the resulting time. It returns true if the marker moved.
func (d *DragSession) Move(pointerX, leftEdge, width float64) bool {
	if d.ended {
		return false
	}
	t, err := PositionToTime(pointerX, leftEdge, width, d.cropper.duration)
	if err != nil {
		return false
	}
	return d.cropper.propose(d.marker, t)
}

// Propose offers a candidate time for the dragged marker directly.
func (d *DragSession) Propose(t float64) bool {
	if d.ended {
		return false
	}
	return d.cropper.propose(d.marker, t)
}

// End closes the session. It is safe to call more than once.
func (d *DragSession) End() {
	if d.ended {
		return
	}
	d.ended = true
	if d.cropper.drag == d {
		d.cropper.drag = nil
	}
}
