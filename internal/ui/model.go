package ui

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"scrollkit/internal/animation"
	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/eventbus"
	"scrollkit/internal/scroller"
	"scrollkit/internal/ui/views"
)

const (
	headerRows = 1
	footerRows = 2
	wheelLines = 3

	maxLogEntries = 2000
	refreshDelay  = 800 * time.Millisecond
	loadDelay     = 600 * time.Millisecond
	statusTimeout = 3 * time.Second
)

var loggedEvents = []domain.EventType{
	domain.EventBeforeScrollStart, domain.EventScrollStart, domain.EventScroll,
	domain.EventScrollCancel, domain.EventScrollEnd, domain.EventPullingUp,
	domain.EventPullingDown, domain.EventRefresh, domain.EventDestroy,
	domain.EventClick, domain.EventTap,
}

// surface is the terminal stand-in for the element being moved. It holds the
// rendered position, which trails the engine position during a delegated
// transition.
type surface struct {
	pos domain.Point
}

func (s *surface) Translate(pos domain.Point) {
	s.pos = pos
}

// frameState is the generation-counted tick loop that pumps the frame scheduler
type frameState struct {
	gen    uint64
	active bool
}

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	keys     keyMap
	help     help.Model
	renderer *views.Renderer
	pager    *EventLogOps

	clock      animation.Clock
	loop       *animation.FrameLoop
	surface    *surface
	compositor *animation.Compositor // set when transitions are delegated
	engine     *scroller.Scroller

	easing  ease.Easing // for keyboard and wheel scrolls
	width   int
	height  int
	lines   []string
	batch   int
	clicked int

	refreshing bool
	loading    bool

	frame    frameState
	thumb    harmonica.Spring
	thumbY   float64
	thumbVel float64

	events      []string
	status      string
	statusErr   bool
	pending     []tea.Cmd
	inPagerMode bool
	e2e         bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model around a scroll engine built from cfg
func NewModel(cfg *config.Config, bus eventbus.EventBus, clock animation.Clock) *Model {
	fps := cfg.Demo.FPS
	if fps <= 0 {
		fps = 60
	}
	m := &Model{
		bus:      bus,
		config:   cfg,
		keys:     newKeyMap(),
		help:     help.New(),
		renderer: views.NewRenderer(),
		pager:    NewEventLogOps(),
		clock:    clock,
		loop:     animation.NewFrameLoop(),
		surface:  &surface{},
		lines:    sampleLines(0, cfg.Demo.ContentLines, 0),
		clicked:  -1,
		thumb:    harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.9),
		easing:   ease.Bounce,
		e2e:      os.Getenv("SCROLLKIT_E2E_TEST") == "1",
	}
	if cfg.Demo.Easing != "" {
		if e, err := ease.Parse(cfg.Demo.Easing); err != nil {
			log.Printf("Keeping the default easing: %v", err)
			m.status, m.statusErr = err.Error(), true
		} else {
			m.easing = e
		}
	}

	for _, t := range loggedEvents {
		bus.Subscribe(t, m.record)
	}
	bus.Subscribe(domain.EventPullingDown, m.onPullingDown)
	bus.Subscribe(domain.EventPullingUp, m.onPullingUp)
	bus.Subscribe(domain.EventClick, m.onClick)

	var renderer animation.Renderer = m.surface
	caps := domain.PlatformCapabilities{}
	if cfg.Scroll.UseTransition {
		// the terminal has no compositor of its own, so transitions run in software
		m.compositor = animation.NewCompositor(m.surface, clock, m.loop)
		renderer = m.compositor
		caps.Transition = true
	}

	engine, err := scroller.New(cfg.Scroll, caps, scroller.Host{
		Renderer:  renderer,
		Clock:     clock,
		Scheduler: m.loop,
		Bus:       bus,
	})
	if err != nil {
		log.Printf("Scroll engine disabled: %v", err)
		m.status, m.statusErr = err.Error(), true
	}
	m.engine = engine
	if m.compositor != nil {
		m.compositor.OnTransitionEnd(engine.TransitionEnd)
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refreshGeometry()

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		if cmd := m.handleKey(msg); cmd != nil {
			m.pending = append(m.pending, cmd)
		}

	case tea.MouseMsg:
		if m.inPagerMode {
			return m, nil
		}
		m.handleMouse(msg)

	case frameMsg:
		m.handleFrame(msg)

	case refreshDoneMsg:
		m.batch++
		m.lines = sampleLines(0, m.config.Demo.ContentLines, m.batch)
		m.clicked = -1
		m.refreshing = false
		// the rebound starts before the new geometry lands, so it is not cut short
		m.engine.FinishPullDown()
		m.refreshGeometry()
		m.setStatus("Refreshed", false)

	case loadDoneMsg:
		batch := m.config.Demo.LoadBatch
		m.lines = append(m.lines, sampleLines(len(m.lines), batch, m.batch)...)
		m.loading = false
		m.refreshGeometry()
		m.engine.FinishPullUp()
		m.setStatus(fmt.Sprintf("Loaded %d more lines", batch), false)

	case eventLogPagerMsg:
		if msg.err != nil {
			log.Printf("Event log pager failed: %v", msg.err)
		}

	case clearStatusMsg:
		m.status, m.statusErr = "", false

	case pauseRenderingMsg:
		m.inPagerMode = true
		// invalidate the tick in flight; frames restart on resume
		m.frame.active = false
		m.frame.gen++

	case resumeRenderingMsg:
		m.inPagerMode = false
	}

	return m, m.flush()
}

// flush collects the commands queued by engine event handlers and keeps the
// frame loop running while anything animates
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	if cmd := m.scheduleFrame(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) frameInterval() time.Duration {
	fps := m.config.Demo.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func (m *Model) scheduleFrame() tea.Cmd {
	if m.frame.active || m.inPagerMode {
		return nil
	}
	if !m.loop.Pending() && m.thumbSettled() {
		return nil
	}
	m.frame.active = true
	m.frame.gen++
	gen := m.frame.gen
	return tea.Tick(m.frameInterval(), func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m *Model) handleFrame(msg frameMsg) {
	if msg.gen != m.frame.gen || !m.frame.active {
		return
	}
	m.frame.active = false
	m.loop.Tick(m.clock.Now())
	m.stepThumb()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.engine.State()
	rows := m.viewportRows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Destroy()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.scrollLines(1, 150*time.Millisecond)
	case key.Matches(msg, m.keys.Down):
		m.scrollLines(-1, 150*time.Millisecond)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollLines(max(rows-1, 1), 300*time.Millisecond)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollLines(-max(rows-1, 1), 300*time.Millisecond)
	case key.Matches(msg, m.keys.Top):
		m.engine.ScrollTo(0, 0, 400*time.Millisecond, m.easing)
	case key.Matches(msg, m.keys.Bottom):
		m.engine.ScrollTo(0, st.MaxScroll.Y, 400*time.Millisecond, m.easing)
	case key.Matches(msg, m.keys.Middle):
		m.centerLine(len(m.lines) / 2)
	case key.Matches(msg, m.keys.Refresh):
		if m.config.Scroll.PullDownRefresh == nil {
			m.setStatus("Pull-down refresh is not configured", true)
			return nil
		}
		m.engine.AutoPullDownRefresh()
	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()
	case key.Matches(msg, m.keys.Toggle):
		if st.Enabled {
			m.engine.Disable()
			m.setStatus("Input disabled", false)
		} else {
			m.engine.Enable()
			m.setStatus("Input enabled", false)
		}
	case key.Matches(msg, m.keys.Events):
		return m.showEventLog()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refreshGeometry()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if n, ok := wheelDelta(msg); ok {
		m.scrollLines(n*wheelLines, 200*time.Millisecond)
		return
	}
	d := m.config.Demo
	e, ok := pointerFromMouse(msg, d.CellWidth, d.CellHeight, m.clock.Now())
	if !ok {
		return
	}
	if e.Phase == domain.PhaseStart {
		e.Target = m.targetAt(e.PageY)
	}
	m.engine.Handle(e)
}

// scrollLines moves by n lines, positive towards the top, staying in bounds
func (m *Model) scrollLines(n int, d time.Duration) {
	st := m.engine.State()
	dy := float64(n) * m.config.Demo.CellHeight
	target := math.Min(math.Max(st.Pos.Y+dy, st.MaxScroll.Y), 0)
	m.engine.ScrollBy(0, target-st.Pos.Y, d, m.easing)
}

func (m *Model) centerLine(i int) {
	d := m.config.Demo
	g := m.geometry()
	m.engine.ScrollToElement(domain.Rect{
		Top:    g.OffsetY + float64(i)*d.CellHeight,
		Width:  g.ContentWidth,
		Height: d.CellHeight,
	}, 400*time.Millisecond, scroller.Align{CenterY: true}, m.easing)
}

// targetAt names the content line under a pointer position
func (m *Model) targetAt(pageY float64) string {
	d := m.config.Demo
	y := pageY - headerRows*d.CellHeight - m.surface.pos.Y
	row := int(math.Floor(y / d.CellHeight))
	if y < 0 || row >= len(m.lines) {
		return ""
	}
	return "line-" + strconv.Itoa(row)
}

func (m *Model) viewportRows() int {
	footer := footerRows
	if m.help.ShowAll {
		// status line plus the full help block
		footer = 1 + lipgloss.Height(m.help.View(m.keys))
	}
	return max(m.height-headerRows-footer, 1)
}

func (m *Model) geometry() domain.Geometry {
	d := m.config.Demo
	width := float64(max(m.width-1, 1)) * d.CellWidth
	return domain.Geometry{
		ViewportWidth:  width,
		ViewportHeight: float64(m.viewportRows()) * d.CellHeight,
		ContentWidth:   width,
		ContentHeight:  float64(len(m.lines)) * d.CellHeight,
		OffsetY:        headerRows * d.CellHeight,
		SurfaceWidth:   float64(m.width) * d.CellWidth,
		SurfaceHeight:  float64(m.height) * d.CellHeight,
		ItemCount:      len(m.lines),
	}
}

func (m *Model) refreshGeometry() {
	if m.width == 0 {
		return
	}
	if err := m.engine.Refresh(m.geometry()); err != nil {
		log.Printf("Refresh failed: %v", err)
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status, m.statusErr = msg, isErr
	m.pending = append(m.pending, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	}))
}

func (m *Model) record(e eventbus.DomainEvent) {
	m.events = append(m.events, m.clock.Now().Format("15:04:05.000")+"  "+describe(e))
	if len(m.events) > maxLogEntries {
		m.events = m.events[len(m.events)-maxLogEntries:]
	}
}

func describe(e eventbus.DomainEvent) string {
	switch e := e.(type) {
	case domain.ScrollEvent:
		return fmt.Sprintf("scroll %v", e.Pos)
	case domain.ScrollEndEvent:
		return fmt.Sprintf("scrollEnd %v", e.Pos)
	case domain.ClickEvent:
		return fmt.Sprintf("click %s", e.Target)
	case domain.TapEvent:
		return fmt.Sprintf("%s %s", e.Name, e.Target)
	case domain.PullingUpEvent:
		return fmt.Sprintf("pullingUp watcher=%d", e.WatcherID)
	case domain.PullingDownEvent:
		return fmt.Sprintf("pullingDown watcher=%d", e.WatcherID)
	case domain.RefreshEvent:
		return fmt.Sprintf("refresh maxScroll=%v", e.MaxScroll)
	default:
		return string(e.Type())
	}
}

func (m *Model) onPullingDown(eventbus.DomainEvent) {
	m.refreshing = true
	m.pending = append(m.pending, tea.Tick(refreshDelay, func(time.Time) tea.Msg {
		return refreshDoneMsg{}
	}))
}

func (m *Model) onPullingUp(eventbus.DomainEvent) {
	if m.loading {
		return
	}
	m.loading = true
	m.pending = append(m.pending, tea.Tick(loadDelay, func(time.Time) tea.Msg {
		return loadDoneMsg{}
	}))
}

func (m *Model) onClick(e eventbus.DomainEvent) {
	click, ok := e.(domain.ClickEvent)
	if !ok {
		return
	}
	if i, err := strconv.Atoi(strings.TrimPrefix(click.Target, "line-")); err == nil {
		m.clicked = i
	}
}

// showEventLog returns a command that pages the event log with ov
func (m *Model) showEventLog() tea.Cmd {
	if m.program == nil {
		m.setStatus("Event log pager unavailable", true)
		return nil
	}
	content := strings.Join(m.events, "\n")
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.ShowInPager(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return eventLogPagerMsg{err: err}
	}
}

// thumbGeometry returns the scrollbar thumb size and its resting top row
func (m *Model) thumbGeometry() (int, float64) {
	rows := m.viewportRows()
	if len(m.lines) == 0 {
		return rows, 0
	}
	size := min(max(rows*rows/len(m.lines), 1), rows)
	maxY := m.engine.State().MaxScroll.Y
	frac := 0.0
	if maxY < 0 {
		frac = math.Min(math.Max(m.surface.pos.Y/maxY, 0), 1)
	}
	return size, frac * float64(rows-size)
}

func (m *Model) stepThumb() {
	_, target := m.thumbGeometry()
	m.thumbY, m.thumbVel = m.thumb.Update(m.thumbY, m.thumbVel, target)
	if m.thumbSettled() {
		m.thumbY, m.thumbVel = target, 0
	}
}

func (m *Model) thumbSettled() bool {
	_, target := m.thumbGeometry()
	return math.Abs(m.thumbY-target) < 0.01 && math.Abs(m.thumbVel) < 0.01
}

// View renders the model
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	st := m.engine.State()
	size, _ := m.thumbGeometry()

	status := m.status
	if status == "" {
		switch {
		case m.refreshing:
			status = "Refreshing..."
		case m.loading:
			status = "Loading more..."
		}
	}

	return m.renderer.Render(views.ViewState{
		Width:     m.width,
		Height:    m.height,
		Lines:     m.lines,
		TopRow:    int(math.Floor(-m.surface.pos.Y / m.config.Demo.CellHeight)),
		Rows:      m.viewportRows(),
		Clicked:   m.clicked,
		Pulling:   st.Pulling,
		Loading:   m.loading,
		Disabled:  !st.Enabled,
		Mode:      st.Mode.String(),
		PosY:      m.surface.pos.Y,
		MaxY:      st.MaxScroll.Y,
		ThumbTop:  m.thumbY,
		ThumbSize: size,
		Status:    status,
		IsError:   m.statusErr,
		HelpView:  m.help.View(m.keys),
		Ready:     m.e2e,
	})
}
