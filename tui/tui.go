package tui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/user/clip-trimmer/db"
	"github.com/user/clip-trimmer/host"
	"github.com/user/clip-trimmer/lanes"
	"github.com/user/clip-trimmer/meter"
	"github.com/user/clip-trimmer/pkg/timeutil"
	"github.com/user/clip-trimmer/trim"
	"github.com/user/clip-trimmer/tui/components"
	"github.com/user/clip-trimmer/tui/forms"
	"github.com/user/clip-trimmer/tui/layout"
	"github.com/user/clip-trimmer/tui/styles"
)

const (
	// tickInterval is the interval for polling the player.
	tickInterval = 100 * time.Millisecond
	// defaultStepSize is the default nudge/seek step in seconds.
	defaultStepSize = 1.0
	// defaultDoubleClick is the window in which a second press on a marker activates it.
	defaultDoubleClick = 400 * time.Millisecond
	// messageDuration is how long flash messages stay on screen.
	messageDuration = 3 * time.Second
	// emitTimeout bounds a single emission to the host.
	emitTimeout = 10 * time.Second
	// minTerminalWidth is the narrowest window the lanes are drawn in.
	minTerminalWidth = 20
)

// stepSizes defines the available step sizes for nudges and seeks.
// Users can cycle through these with < and > keys.
var stepSizes = []float64{0.1, 0.5, 1, 2, 5, 10, 30}

// Player is the playback surface the widget drives. *mpv.Client satisfies it.
type Player interface {
	trim.Seeker
	TogglePause() error
	GetTimePos() (float64, error)
	GetPaused() (bool, error)
	GetDuration() (float64, error)
}

// osd is implemented by players that can overlay text on the video.
type osd interface {
	ShowText(text string, d time.Duration) error
}

// Options configures a Model.
type Options struct {
	// Player controls playback; nil runs the widget without video.
	Player Player
	// Bridge receives the result of every apply; nil keeps results local.
	Bridge host.Bridge
	// Args are the host arguments: lanes, height hint and theme.
	Args host.Args
	// Theme overrides Args.Theme when set.
	Theme *host.Theme
	// Duration is the media duration in seconds; 0 when unknown.
	Duration float64
	// Store records applied selections as trim tasks when set.
	Store *sql.DB
	// VideoPath is recorded on stored tasks.
	VideoPath string
	// StepSize is the initial nudge/seek step in seconds.
	StepSize float64
	// DoubleClick is the marker double-activation window.
	DoubleClick time.Duration
	// Once quits after the first successful emission.
	Once   bool
	Logger *slog.Logger
}

// tickMsg is a message sent on every tick interval to update playback status.
type tickMsg time.Time

// levelMsg carries one audio level sample.
type levelMsg float64

// clearMessageMsg clears the flash message if it is still the one identified by seq.
type clearMessageMsg struct{ seq int }

// emittedMsg reports the outcome of handing a result to the host and the store.
type emittedMsg struct {
	result  trim.Result
	task    *db.TrimTask
	err     error
	taskErr error
}

// meterLane is the waveform the level meter reads, swapped when the
// duration becomes known.
type meterLane struct {
	waveform []float64
	duration float64
}

// click remembers the last marker press for double-activation.
type click struct {
	marker trim.Marker
	at     time.Time
	ok     bool
}

// Model is the Bubbletea model for the trimming widget.
// It implements the tea.Model interface with Init, Update, and View methods.
type Model struct {
	player    Player
	bridge    host.Bridge
	store     *sql.DB
	videoPath string
	logger    *slog.Logger
	once      bool

	cropper  *trim.Cropper
	drag     *trim.DragSession
	selected trim.Marker
	// edited is set once a marker moved since crop mode was entered
	edited bool

	args     host.Args
	waveform []float64
	thumbs   []string
	waveRows int
	palette  styles.Palette

	width  int
	height int
	status components.StatusBarState

	// pos, paused and lane mirror state for the meter goroutine
	pos         atomic.Uint64
	paused      atomic.Bool
	lane        atomic.Pointer[meterLane]
	level       float64
	levels      <-chan float64
	stopSampler context.CancelFunc

	keys     keyMap
	help     help.Model
	showHelp bool

	confirm *huh.Form
	discard bool

	lastClick   click
	doubleClick time.Duration
	now         func() time.Time

	message    string
	messageBad bool
	messageSeq int
	emitted    int
	quitting   bool
}

// NewModel creates a trimming widget from opts.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	step := opts.StepSize
	if step <= 0 {
		step = defaultStepSize
	}
	window := opts.DoubleClick
	if window <= 0 {
		window = defaultDoubleClick
	}
	theme := opts.Args.ThemeOrDefault()
	if opts.Theme != nil {
		theme = host.Args{Theme: opts.Theme}.ThemeOrDefault()
	}

	m := &Model{
		player:      opts.Player,
		bridge:      opts.Bridge,
		store:       opts.Store,
		videoPath:   opts.VideoPath,
		logger:      logger,
		once:        opts.Once,
		cropper:     trim.NewCropper(opts.Duration, opts.Player, logger),
		args:        opts.Args,
		waveRows:    waveRows(opts.Args.Height),
		palette:     styles.FromTheme(theme),
		keys:        defaultKeyMap(),
		help:        help.New(),
		doubleClick: window,
		now:         time.Now,
		status: components.StatusBarState{
			Duration: opts.Duration,
			StepSize: step,
			Paused:   true,
		},
	}
	m.paused.Store(true)
	m.keys.setCropping(false)
	m.buildLanes()
	return m
}

// buildLanes derives the lane data from the host args and the current
// duration.
func (m *Model) buildLanes() {
	d := m.cropper.Duration()
	m.waveform = lanes.Waveform(m.args.WaveformData, d)
	m.thumbs = lanes.Thumbnails(m.args.Thumbnails, d)
	m.lane.Store(&meterLane{waveform: m.waveform, duration: d})
}

// waveRows turns the host height hint into a waveform lane height.
func waveRows(hint int) int {
	switch {
	case hint <= 0:
		return 4
	case hint < 2:
		return 2
	case hint > 10:
		return 10
	default:
		return hint
	}
}

// Init starts player polling and the level meter.
func (m *Model) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopSampler = cancel

	sampler := meter.Sampler{
		Source: func() (float64, error) {
			if m.paused.Load() {
				return 0, nil
			}
			lane := m.lane.Load()
			return meter.LevelAt(lane.waveform, math.Float64frombits(m.pos.Load()), lane.duration), nil
		},
	}
	m.levels = sampler.Run(ctx)

	return tea.Batch(tickCmd(), waitLevel(m.levels))
}

// tickCmd returns a command that sends a tickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitLevel reads the next level sample. A closed channel ends the chain.
func waitLevel(levels <-chan float64) tea.Cmd {
	if levels == nil {
		return nil
	}
	return func() tea.Msg {
		level, ok := <-levels
		if !ok {
			return nil
		}
		return levelMsg(level)
	}
}

// stop cancels the level sampler. Safe to call more than once.
func (m *Model) stop() {
	if m.stopSampler != nil {
		m.stopSampler()
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.pollPlayer()
		return m, tickCmd()

	case levelMsg:
		m.level = float64(msg)
		return m, waitLevel(m.levels)

	case clearMessageMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
		}
		return m, nil

	case emittedMsg:
		return m.handleEmitted(msg)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the help overlay
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.PlayPause):
		m.togglePause()
	case key.Matches(msg, m.keys.StepDown):
		m.decreaseStepSize()
	case key.Matches(msg, m.keys.StepUp):
		m.increaseStepSize()
	case key.Matches(msg, m.keys.Crop):
		m.enterCrop()
	case key.Matches(msg, m.keys.Cancel):
		return m.cancelCrop()
	case key.Matches(msg, m.keys.Apply):
		return m.apply()
	case key.Matches(msg, m.keys.Select):
		m.selected = m.selected.Other()
	case key.Matches(msg, m.keys.GoMarker):
		m.cropper.Activate(m.selected)
		m.setPosition(m.cropper.Interval().At(m.selected))
	case key.Matches(msg, m.keys.Back):
		m.step(-1)
	case key.Matches(msg, m.keys.Forward):
		m.step(1)
	}
	return m, nil
}

func (m *Model) enterCrop() {
	if m.cropper.State() == trim.Cropping {
		return
	}
	m.cropper.Enter()
	m.selected = trim.MarkerStart
	m.edited = false
	m.lastClick = click{}
	m.keys.setCropping(true)
}

// leaveCrop resets widget state after the cropper returned to idle.
func (m *Model) leaveCrop() {
	m.drag = nil
	m.edited = false
	m.lastClick = click{}
	m.keys.setCropping(false)
}

// cancelCrop asks for confirmation when the markers were moved.
func (m *Model) cancelCrop() (tea.Model, tea.Cmd) {
	if m.cropper.State() != trim.Cropping {
		return m, nil
	}
	if m.drag != nil {
		m.drag.End()
		m.drag = nil
	}
	if !m.edited {
		m.cropper.Cancel()
		m.leaveCrop()
		return m, nil
	}
	m.discard = false
	m.confirm = forms.NewConfirmDiscardForm(&m.discard, m.palette)
	return m, m.confirm.Init()
}

func (m *Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// esc inside the form means keep editing
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Cancel) {
		m.confirm = nil
		return m, nil
	}

	model, cmd := m.confirm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		m.closeConfirm()
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

// closeConfirm acts on the answer of a completed discard form.
func (m *Model) closeConfirm() {
	discard := m.discard
	m.confirm = nil
	if discard {
		m.cropper.Cancel()
		m.leaveCrop()
		m.flash("Selection discarded", false)
	}
}

// apply hands the selection to the host. The cropper is idle again before
// the emission runs.
func (m *Model) apply() (tea.Model, tea.Cmd) {
	res, err := m.cropper.Apply()
	if err != nil {
		return m, nil
	}
	m.leaveCrop()
	return m, m.emitCmd(res)
}

func (m *Model) emitCmd(res trim.Result) tea.Cmd {
	bridge, store, videoPath, logger := m.bridge, m.store, m.videoPath, m.logger
	return func() tea.Msg {
		out := emittedMsg{result: res}
		if bridge != nil {
			ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
			out.err = bridge.Emit(ctx, res)
			cancel()
		}
		if store != nil && (out.err == nil || errors.Is(out.err, host.ErrAlreadyEmitted)) {
			out.task, out.taskErr = db.InsertTrimTask(store, videoPath, res.Start, res.End)
			if out.taskErr == nil {
				logger.Info("trim task queued", "task", out.task.UUID, "start", res.Start, "end", res.End)
			}
		}
		return out
	}
}

func (m *Model) handleEmitted(msg emittedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !errors.Is(msg.err, host.ErrAlreadyEmitted) {
		m.logger.Error("emitting result", "err", msg.err)
		return m, m.flash("Apply failed: "+msg.err.Error(), true)
	}
	if msg.err != nil {
		m.logger.Debug("host already has a result", "start", msg.result.Start, "end", msg.result.End)
	}
	if msg.taskErr != nil {
		m.logger.Warn("recording trim task", "err", msg.taskErr)
	}

	m.emitted++
	if m.once && msg.err == nil {
		m.quitting = true
		m.stop()
		return m, tea.Quit
	}

	text := fmt.Sprintf("Applied %s → %s", timeutil.FormatTenths(msg.result.Start), timeutil.FormatTenths(msg.result.End))
	if msg.task != nil {
		text += " · queued " + msg.task.UUID[:8]
	}
	return m, m.flash(text, msg.taskErr != nil)
}

// flash shows a message that clears itself after messageDuration.
func (m *Model) flash(text string, bad bool) tea.Cmd {
	m.messageSeq++
	m.message = text
	m.messageBad = bad
	seq := m.messageSeq
	if o, ok := m.player.(osd); ok {
		if err := o.ShowText(text, messageDuration); err != nil {
			m.logger.Debug("osd message failed", "err", err)
		}
	}
	return tea.Tick(messageDuration, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

// step nudges the selected marker while cropping, otherwise seeks relative
// to the playback position.
func (m *Model) step(dir float64) {
	delta := dir * m.status.StepSize
	if m.cropper.State() == trim.Cropping {
		if m.cropper.Nudge(m.selected, delta) {
			m.edited = true
			m.setPosition(m.cropper.Interval().At(m.selected))
		}
		return
	}
	target := m.status.TimePos + delta
	if d := m.cropper.Duration(); d > 0 && target > d {
		target = d
	}
	if target < 0 {
		target = 0
	}
	m.seek(target)
}

func (m *Model) seek(t float64) {
	if m.player != nil {
		if err := m.player.Seek(t); err != nil {
			m.logger.Debug("seek failed", "to", t, "err", err)
			return
		}
	}
	m.setPosition(t)
}

func (m *Model) togglePause() {
	if m.player != nil {
		if err := m.player.TogglePause(); err != nil {
			m.logger.Debug("toggle pause failed", "err", err)
			return
		}
	}
	m.setPaused(!m.status.Paused)
}

// pollPlayer refreshes playback status from the player.
func (m *Model) pollPlayer() {
	if m.player == nil {
		return
	}
	if paused, err := m.player.GetPaused(); err == nil {
		m.setPaused(paused)
	}
	if pos, err := m.player.GetTimePos(); err == nil {
		m.setPosition(pos)
	}
	if m.cropper.Duration() > 0 {
		return
	}
	if d, err := m.player.GetDuration(); err == nil && m.cropper.SetDuration(d) {
		m.status.Duration = d
		m.buildLanes()
		m.logger.Info("duration established", "duration", d)
	}
}

func (m *Model) setPosition(t float64) {
	m.status.TimePos = t
	m.pos.Store(math.Float64bits(t))
}

func (m *Model) setPaused(paused bool) {
	m.status.Paused = paused
	m.paused.Store(paused)
}

// decreaseStepSize cycles to the previous (smaller) step size.
func (m *Model) decreaseStepSize() {
	if i := m.findStepSizeIndex(); i > 0 {
		m.status.StepSize = stepSizes[i-1]
	}
}

// increaseStepSize cycles to the next (larger) step size.
func (m *Model) increaseStepSize() {
	if i := m.findStepSizeIndex(); i < len(stepSizes)-1 {
		m.status.StepSize = stepSizes[i+1]
	}
}

// findStepSizeIndex finds the index of the current step size in stepSizes.
// If the current step size is not in the list, it returns the index of the
// largest smaller value.
func (m *Model) findStepSizeIndex() int {
	for i, size := range stepSizes {
		if m.status.StepSize == size {
			return i
		}
	}
	for i, size := range stepSizes {
		if m.status.StepSize < size {
			if i == 0 {
				return 0
			}
			return i - 1
		}
	}
	return len(stepSizes) - 1
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading…"
	}
	if m.showHelp {
		return components.HelpOverlay(m.keys.groups(), m.palette, m.width, m.height)
	}
	if m.width < minTerminalWidth {
		return m.palette.WarningText().Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width))
	}

	g := m.geometry()
	lane := m.laneState()
	pad := strings.Repeat(" ", g.laneLeft)
	indent := func(block string) string {
		lines := strings.Split(block, "\n")
		for i, l := range lines {
			lines[i] = pad + l
		}
		return strings.Join(lines, "\n")
	}

	status := m.status
	status.Duration = m.cropper.Duration()
	status.Cropping = lane.Cropping
	status.Interval = lane.Interval
	status.Selected = m.selected

	rows := []string{
		components.StatusBar(status, m.palette, m.width),
		indent(components.ThumbnailLane(m.thumbs, lane, m.palette, g.laneWidth)),
		indent(components.WaveformLane(m.waveform, lane, m.palette, g.laneWidth, g.waveRows)),
		indent(components.Timeline(components.TimelineState{
			LaneState: lane,
			Selected:  m.selected,
			Dragging:  m.drag != nil,
		}, m.palette, g.laneWidth)),
		indent(components.LevelMeter(m.level, m.palette, g.laneWidth)),
	}

	if m.confirm != nil {
		rows = append(rows, indent(m.confirm.View()))
	} else {
		msg := ""
		if m.message != "" {
			style := m.palette.SuccessText()
			if m.messageBad {
				style = m.palette.WarningText()
			}
			msg = style.Render(m.message)
		}
		rows = append(rows, indent(msg), indent(m.help.View(m.keys)))
	}

	content := strings.Join(rows, "\n")
	if m.height > 0 {
		return layout.Frame(content, m.width, m.height)
	}
	return content
}

func (m *Model) laneState() components.LaneState {
	return components.LaneState{
		Duration: m.cropper.Duration(),
		TimePos:  m.status.TimePos,
		Cropping: m.cropper.State() == trim.Cropping,
		Interval: m.cropper.Interval(),
	}
}

// Run starts the Bubbletea program with the alt screen and mouse cell motion
// enabled. Extra program options are appended after those defaults.
func Run(opts Options, progOpts ...tea.ProgramOption) (*Model, error) {
	model := NewModel(opts)
	defer model.stop()

	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, progOpts...)
	p := tea.NewProgram(model, progOpts...)
	_, err := p.Run()
	return model, err
}

// Emitted reports how many selections were handed to the host.
func (m *Model) Emitted() int {
	return m.emitted
}
