package trim

import (
	"errors"
	"log/slog"
)

var (
	// ErrNotCropping is returned when an operation needs an active crop selection.
	ErrNotCropping = errors.New("trim: crop mode is not active")
	// ErrDragActive is returned when a drag session is started while another one is open.
	ErrDragActive = errors.New("trim: a drag session is already active")
)

// State is the crop mode of a Cropper.
type State int

const (
	// Idle means no interval exists and no markers are shown.
	Idle State = iota
	// Cropping means the interval exists and its markers can be dragged.
	Cropping
)

// String returns "idle" or "cropping".
func (s State) String() string {
	if s == Cropping {
		return "cropping"
	}
	return "idle"
}

// Seeker moves the playback position of the video being trimmed.
type Seeker interface {
	Seek(seconds float64) error
}

// Result is the value handed back to the host when a selection is applied.
type Result struct {
	Start                 float64 `json:"start"`
	End                   float64 `json:"end"`
	ShouldRefreshTaskList bool    `json:"shouldRefreshTaskList"`
}

// Cropper owns the crop interval for one video and applies the marker rules to it.
// It is not safe for concurrent use; all calls are expected to come from the UI
// event loop.
type Cropper struct {
	duration float64
	state    State
	interval Interval
	drag     *DragSession
	seeker   Seeker
	logger   *slog.Logger
}

// NewCropper creates an idle Cropper for a video of the given duration.
// seeker may be nil, in which case accepted moves do not seek.
func NewCropper(duration float64, seeker Seeker, logger *slog.Logger) *Cropper {
	if logger == nil {
		logger = slog.Default()
	}
	if duration < 0 {
		duration = 0
	}
	return &Cropper{
		duration: duration,
		seeker:   seeker,
		logger:   logger,
	}
}

// Duration returns the timeline duration in seconds.
func (c *Cropper) Duration() float64 {
	return c.duration
}

// SetDuration records the media duration once it becomes known.
// The duration is fixed after it has been established; later calls are ignored.
func (c *Cropper) SetDuration(duration float64) bool {
	if c.duration > 0 || duration <= 0 {
		return false
	}
	c.duration = duration
	return true
}

// State returns the current crop mode.
func (c *Cropper) State() State {
	return c.state
}

// Interval returns the current selection. It is the zero Interval while idle.
func (c *Cropper) Interval() Interval {
	return c.interval
}

// DragActive reports whether a drag session is open.
func (c *Cropper) DragActive() bool {
	return c.drag != nil
}

// ActiveMarker returns the marker grabbed by the open drag session, if any.
func (c *Cropper) ActiveMarker() (Marker, bool) {
	if c.drag == nil {
		return 0, false
	}
	return c.drag.marker, true
}

// Enter switches to crop mode with the default interval for the duration.
// Entering while already cropping keeps the current selection.
func (c *Cropper) Enter() {
	if c.state == Cropping {
		return
	}
	c.state = Cropping
	c.interval = DefaultInterval(c.duration)
	c.logger.Debug("crop mode entered", "start", c.interval.Start, "end", c.interval.End)
}

// BeginDrag opens a drag session on marker m.
func (c *Cropper) BeginDrag(m Marker) (*DragSession, error) {
	if c.state != Cropping {
		return nil, ErrNotCropping
	}
	if c.drag != nil {
		return nil, ErrDragActive
	}
	c.drag = &DragSession{cropper: c, marker: m}
	return c.drag, nil
}

// Nudge proposes moving marker m by delta seconds, using the same rule as a drag.
// The proposal is clamped to the timeline before it is checked.
func (c *Cropper) Nudge(m Marker, delta float64) bool {
	if c.state != Cropping {
		return false
	}
	return c.propose(m, clamp(c.interval.At(m)+delta, 0, c.duration))
}

// Activate seeks playback to marker m without changing the selection.
func (c *Cropper) Activate(m Marker) {
	if c.state != Cropping {
		return
	}
	c.seek(c.interval.At(m))
}

// Cancel discards the selection and returns to idle without emitting anything.
func (c *Cropper) Cancel() {
	c.reset()
	c.logger.Debug("crop mode cancelled")
}

// Apply returns the current selection as a Result and returns to idle.
func (c *Cropper) Apply() (Result, error) {
	if c.state != Cropping {
		return Result{}, ErrNotCropping
	}
	res := Result{
		Start:                 c.interval.Start,
		End:                   c.interval.End,
		ShouldRefreshTaskList: true,
	}
	c.reset()
	c.logger.Info("crop applied", "start", res.Start, "end", res.End)
	return res, nil
}

func (c *Cropper) reset() {
	if c.drag != nil {
		c.drag.End()
	}
	c.state = Idle
	c.interval = Interval{}
}

// propose applies the marker rule: the start marker only moves to times before the
// end, the end marker only to times after the start. Rejections leave the interval
// untouched.
func (c *Cropper) propose(m Marker, t float64) bool {
	if !c.interval.accepts(m, t) {
		return false
	}
	if m == MarkerStart {
		c.interval.Start = t
	} else {
		c.interval.End = t
	}
	c.seek(t)
	return true
}

func (c *Cropper) seek(t float64) {
	if c.seeker == nil {
		return
	}
	if err := c.seeker.Seek(t); err != nil {
		c.logger.Warn("seek failed", "time", t, "error", err)
	}
}
