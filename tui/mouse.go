package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/clip-trimmer/trim"
	"github.com/user/clip-trimmer/tui/components"
)

// markerReach is how many cells either side of a marker still grab it.
const markerReach = 1

// geometry is where View puts each lane. Mouse handling reads the same
// numbers so hit-testing always matches what is on screen.
type geometry struct {
	laneLeft  int
	laneWidth int

	statusRow   int
	thumbRow    int
	waveTop     int
	waveRows    int
	timelineRow int
	labelRow    int
	meterRow    int
}

func (m *Model) geometry() geometry {
	g := geometry{laneLeft: 1, waveRows: m.waveRows}
	g.laneWidth = m.width - 2*g.laneLeft
	if g.laneWidth < 0 {
		g.laneWidth = 0
	}
	g.statusRow = 0
	g.thumbRow = 1
	g.waveTop = 2
	g.timelineRow = g.waveTop + g.waveRows
	g.labelRow = g.timelineRow + 1
	g.meterRow = g.labelRow + 1
	return g
}

// inLanes reports whether row y is part of the thumbnail, waveform or timeline block.
func (g geometry) inLanes(y int) bool {
	return y >= g.thumbRow && y <= g.labelRow
}

// column converts a screen x into a lane column, reporting whether it is on the lane.
func (g geometry) column(x int) (int, bool) {
	col := x - g.laneLeft
	return col, col >= -markerReach && col < g.laneWidth+markerReach
}

// timeAt maps a screen x onto the timeline. The first lane column is time 0 and
// the last is the full duration.
func (g geometry) timeAt(x int, duration float64) (float64, error) {
	return trim.PositionToTime(float64(x), float64(g.laneLeft), float64(g.laneWidth-1), duration)
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	g := m.geometry()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !g.inLanes(msg.Y) {
			return m, nil
		}
		if m.cropper.State() == trim.Cropping {
			if mk, ok := m.markerAt(msg.X, g); ok {
				m.pressMarker(mk)
				return m, nil
			}
		}
		if t, err := g.timeAt(msg.X, m.cropper.Duration()); err == nil {
			m.seek(t)
		}

	case tea.MouseActionMotion:
		if m.drag == nil {
			return m, nil
		}
		if m.drag.Move(float64(msg.X), float64(g.laneLeft), float64(g.laneWidth-1)) {
			m.edited = true
			m.setPosition(m.cropper.Interval().At(m.drag.Marker()))
		}

	case tea.MouseActionRelease:
		// The session ends on release wherever the pointer is.
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
	}
	return m, nil
}

// pressMarker selects mk and opens a drag session, or activates mk when it
// was pressed twice within the double-click window.
func (m *Model) pressMarker(mk trim.Marker) {
	m.selected = mk
	now := m.now()
	if m.lastClick.ok && m.lastClick.marker == mk && now.Sub(m.lastClick.at) <= m.doubleClick {
		m.lastClick = click{}
		m.cropper.Activate(mk)
		m.setPosition(m.cropper.Interval().At(mk))
		return
	}
	m.lastClick = click{marker: mk, at: now, ok: true}

	d, err := m.cropper.BeginDrag(mk)
	if err != nil {
		m.logger.Debug("drag not started", "marker", mk, "err", err)
		return
	}
	m.drag = d
}

// markerAt returns the marker drawn at (or next to) screen column x. When both
// markers are in reach the nearer wins; on a tie the pointer side decides, and
// the selected marker wins when they share a cell.
func (m *Model) markerAt(x int, g geometry) (trim.Marker, bool) {
	col, ok := g.column(x)
	if !ok || g.laneWidth <= 0 {
		return 0, false
	}
	iv := m.cropper.Interval()
	d := m.cropper.Duration()
	sc := components.Column(iv.Start, d, g.laneWidth)
	ec := components.Column(iv.End, d, g.laneWidth)

	ds, de := abs(col-sc), abs(col-ec)
	startOK, endOK := ds <= markerReach, de <= markerReach
	switch {
	case startOK && endOK:
		switch {
		case ds < de:
			return trim.MarkerStart, true
		case de < ds:
			return trim.MarkerEnd, true
		case col < sc:
			return trim.MarkerStart, true
		case col > ec:
			return trim.MarkerEnd, true
		default:
			return m.selected, true
		}
	case startOK:
		return trim.MarkerStart, true
	case endOK:
		return trim.MarkerEnd, true
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
