// Package scroller is the gesture-to-motion engine. A Scroller consumes a
// normalized pointer stream, moves a scroll position inside [maxScroll, 0] and
// hands releases to momentum, snapping and the animation driver. All observable
// behavior is reported as events on an eventbus.EventBus.
//
// A Scroller is not safe for concurrent use; the host calls it from one loop.
package scroller

import (
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"scrollkit/internal/animation"
	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/eventbus"
	"scrollkit/internal/snap"
	"scrollkit/internal/threshold"
)

func tracer() tracing.Trace {
	return tracing.Select("scrollkit")
}

// Mode is the motion state of the engine
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeMomentum
	ModeSnapping
	ModeSettling
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeMomentum:
		return "momentum"
	case ModeSnapping:
		return "snapping"
	case ModeSettling:
		return "settling"
	default:
		return "idle"
	}
}

// Auto lets the engine derive a duration
const Auto time.Duration = -1

// picker wheels allow less overshoot than free content
const wheelBounceRate = 4

// Host bundles the collaborators an engine is wired to
type Host struct {
	// Renderer receives every position. If it also implements
	// animation.TransitionRenderer and transitions are available, animations are
	// delegated to it and the host must call TransitionEnd when one finishes.
	Renderer  animation.Renderer
	Clock     animation.Clock
	Scheduler animation.Scheduler
	Bus       eventbus.EventBus // optional, a private bus is created when nil
}

// Snapshot is a read-only view of the engine state
type Snapshot struct {
	Pos           domain.Point
	MaxScroll     domain.Point
	HasScrollX    bool
	HasScrollY    bool
	Mode          Mode
	Lock          domain.DirectionLock
	MovingX       domain.Direction
	MovingY       domain.Direction
	Enabled       bool
	Destroyed     bool
	Pulling       bool
	Page          snap.Point
	SelectedIndex int
}

// Scroller is the engine
type Scroller struct {
	opts  config.Options
	caps  domain.PlatformCapabilities
	bus   eventbus.EventBus
	out   animation.Renderer
	clock animation.Clock

	driver    animation.Driver
	delegated *animation.Delegated
	watchers  *threshold.Set
	pullUpID  int

	geometry   domain.Geometry
	measured   bool
	pos        domain.Point
	maxScroll  domain.Point
	hasX, hasY bool

	resolver    *snap.Resolver
	currentPage snap.Point

	itemHeight    float64
	selectedIndex int

	enabled            bool
	destroyed          bool
	mode               Mode
	pulling            bool
	stopFromTransition bool

	sess       session
	movingX    domain.Direction
	movingY    domain.Direction
	directionX domain.Direction // net direction of the last release
	directionY domain.Direction
	endTime    time.Time
}

type session struct {
	kind      domain.InputKind // InputNone while no gesture is active
	moved     bool
	dist      domain.Point
	lock      domain.DirectionLock
	start     domain.Point // restarted every momentum window
	absStart  domain.Point
	point     domain.Point // last pointer sample
	startTime time.Time
	target    string
}

// New creates an engine. Invalid options yield a disabled engine together with
// the configuration error; every call on such an engine is a no-op.
func New(opts config.Options, caps domain.PlatformCapabilities, host Host) (*Scroller, error) {
	if host.Bus == nil {
		host.Bus = eventbus.New()
	}
	if host.Clock == nil {
		host.Clock = animation.SystemClock{}
	}
	s := &Scroller{
		opts:  opts,
		caps:  caps,
		bus:   host.Bus,
		out:   host.Renderer,
		clock: host.Clock,
	}
	if err := opts.Validate(); err != nil {
		tracer().Errorf("scroller disabled: %v", err)
		return s, err
	}
	if host.Renderer == nil || host.Scheduler == nil {
		err := &domain.ConfigurationError{Field: "host", Reason: "renderer and scheduler are required"}
		tracer().Errorf("scroller disabled: %v", err)
		return s, fmt.Errorf("invalid configuration: %w", err)
	}
	s.normalize()

	if native, ok := host.Renderer.(animation.TransitionRenderer); ok && s.opts.UseTransition {
		s.delegated = animation.NewDelegated(&tracker{s: s, native: native}, host.Scheduler)
		s.driver = s.delegated
	} else {
		s.driver = animation.NewManual(&tracker{s: s}, s.clock, host.Scheduler)
	}

	s.watchers = threshold.NewSet(s.bus, func() domain.Point { return s.maxScroll })
	if p := s.opts.PullUpLoad; p != nil {
		s.pullUpID, _ = s.watchers.Add(threshold.Trigger{
			Axis:      domain.AxisY,
			Direction: domain.DirectionNegative,
			Edge:      threshold.EdgeFar,
			Offset:    p.Threshold,
			Event:     domain.EventPullingUp,
		})
	}
	if sn := s.opts.Snap; sn != nil && sn.ListenFlick {
		s.bus.Subscribe(domain.EventFlick, func(eventbus.DomainEvent) { s.flickPage() })
	}
	if w := s.opts.Wheel; w != nil {
		s.selectedIndex = w.SelectedIndex
	}

	s.enabled = true
	tracer().P("op", "new").Infof("scroller ready, transitions=%t probe=%d", s.delegated != nil, s.opts.ProbeType)
	return s, nil
}

// normalize derives the effective options
func (s *Scroller) normalize() {
	o := &s.opts
	switch o.EventPassthrough {
	case config.PassthroughHorizontal:
		o.ScrollX = false
	case config.PassthroughVertical:
		o.ScrollY = false
	}
	if o.EventPassthrough != config.PassthroughNone {
		o.FreeScroll = false
		o.DirectionLockThreshold = 0
	}
	o.UseTransition = o.UseTransition && s.caps.Transition
	if o.PullUpLoad != nil {
		o.ProbeType = config.ProbeFrame
	}
	if o.Wheel != nil {
		o.ScrollX = false
		o.ScrollY = true
	}
}

// tracker keeps the engine position in step with everything rendered
type tracker struct {
	s      *Scroller
	native animation.TransitionRenderer
}

func (t *tracker) Translate(pos domain.Point) {
	t.s.pos = pos
	t.s.out.Translate(pos)
}

// Transition records the destination as the logical position right away; the
// computed position is only read back when a transition is interrupted.
func (t *tracker) Transition(to domain.Point, d time.Duration, easing ease.Easing) {
	t.s.pos = to
	t.native.Transition(to, d, easing)
}

func (t *tracker) ComputedPosition() domain.Point {
	if t.native == nil {
		return t.s.pos
	}
	return t.native.ComputedPosition()
}

// usable reports whether a public call may act; rejected calls are traced
func (s *Scroller) usable(op string) bool {
	if s.destroyed || s.driver == nil {
		tracer().P("op", op).Debugf("ignored: %v", domain.ErrInvalidCall)
		return false
	}
	return true
}

func (s *Scroller) publish(e domain.DomainEvent) {
	s.bus.Publish(e)
}

func (s *Scroller) emitScroll(pos domain.Point) {
	s.publish(domain.ScrollEvent{Pos: pos, MovingX: s.movingX, MovingY: s.movingY})
}

// On subscribes to engine events and returns the unsubscribe func
func (s *Scroller) On(t domain.EventType, h eventbus.EventHandler) func() {
	if s.destroyed {
		return func() {}
	}
	return s.bus.Subscribe(t, h)
}

// Once subscribes a handler for a single delivery
func (s *Scroller) Once(t domain.EventType, h eventbus.EventHandler) func() {
	if s.destroyed {
		return func() {}
	}
	return s.bus.Once(t, h)
}

// Bus exposes the event bus the engine publishes on
func (s *Scroller) Bus() eventbus.EventBus {
	return s.bus
}

// Refresh applies new geometry: it recomputes bounds and the page table and
// silently re-clamps the position. Negative sizes disable the engine.
func (s *Scroller) Refresh(g domain.Geometry) error {
	if !s.usable("refresh") {
		return nil
	}
	if g.ViewportWidth < 0 || g.ViewportHeight < 0 || g.ContentWidth < 0 || g.ContentHeight < 0 || g.ItemCount < 0 {
		s.enabled = false
		err := &domain.ConfigurationError{Field: "geometry", Reason: "sizes must not be negative"}
		tracer().Errorf("refresh rejected: %v", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}
	first := !s.measured
	s.geometry = g
	s.measured = true

	if s.opts.Wheel != nil {
		s.itemHeight = 0
		if g.ItemCount > 0 {
			s.itemHeight = g.ContentHeight / float64(g.ItemCount)
		}
		s.maxScroll = domain.Point{Y: -s.itemHeight * float64(max(g.ItemCount-1, 0))}
	} else {
		s.maxScroll = domain.Point{X: g.ViewportWidth - g.ContentWidth, Y: g.ViewportHeight - g.ContentHeight}
	}
	s.hasX = s.opts.ScrollX && s.maxScroll.X < 0
	s.hasY = s.opts.ScrollY && s.maxScroll.Y < 0
	if !s.hasX {
		s.maxScroll.X = 0
	}
	if !s.hasY {
		s.maxScroll.Y = 0
	}
	s.endTime = time.Time{}
	s.directionX, s.directionY = domain.DirectionNone, domain.DirectionNone

	if sn := s.opts.Snap; sn != nil {
		s.resolver = snap.New(snap.Layout{
			ViewportWidth:  g.ViewportWidth,
			ViewportHeight: g.ViewportHeight,
			ContentWidth:   g.ContentWidth,
			ContentHeight:  g.ContentHeight,
			MaxScroll:      s.maxScroll,
			ScrollX:        s.hasX,
			ScrollY:        s.hasY,
			StepX:          sn.StepX,
			StepY:          sn.StepY,
			Boundaries:     g.Pages,
			Threshold:      sn.Threshold,
			Loop:           sn.Loop,
		})
	}

	tracer().P("op", "refresh").Debugf("max scroll %v, scroll x=%t y=%t", s.maxScroll, s.hasX, s.hasY)
	s.publish(domain.RefreshEvent{MaxScroll: s.maxScroll})

	if s.driver.Active() {
		// the running animation rebounds on completion if it now ends out of bounds
		return nil
	}
	switch {
	case s.pulling:
		// held at the pull-down stop until FinishPullDown
	case s.resolver != nil:
		i, j := s.resolver.Clamp(s.currentPage.PageX, s.currentPage.PageY)
		s.currentPage, _ = s.resolver.Page(i, j)
		s.translate(s.currentPage.Pos())
	case s.opts.Wheel != nil && first:
		s.translate(domain.Point{Y: -float64(s.selectedIndex) * s.itemHeight})
	case first:
		s.translate(s.clamp(domain.Point{X: s.opts.StartX, Y: s.opts.StartY}))
	default:
		s.translate(s.clamp(s.pos))
	}
	return nil
}

func (s *Scroller) translate(pos domain.Point) {
	s.pos = pos
	s.out.Translate(pos)
}

// clamp limits pos to the bounds; disabled axes are pinned to 0
func (s *Scroller) clamp(pos domain.Point) domain.Point {
	x, y := pos.X, pos.Y
	if !s.hasX || x > 0 {
		x = 0
	} else if x < s.maxScroll.X {
		x = s.maxScroll.X
	}
	if !s.hasY || y > 0 {
		y = 0
	} else if y < s.maxScroll.Y {
		y = s.maxScroll.Y
	}
	return domain.Point{X: x, Y: y}
}

func (s *Scroller) outOfBounds(pos domain.Point) bool {
	return pos.X > 0 || pos.X < s.maxScroll.X || pos.Y > 0 || pos.Y < s.maxScroll.Y
}

// Enable lets the engine accept input again
func (s *Scroller) Enable() {
	if !s.usable("enable") {
		return
	}
	s.enabled = true
}

// Disable ignores input until Enable; an active gesture is abandoned
func (s *Scroller) Disable() {
	if !s.usable("disable") {
		return
	}
	s.enabled = false
	if s.sess.kind != domain.InputNone {
		s.sess.kind = domain.InputNone
		if s.mode == ModeDragging {
			s.mode = ModeIdle
		}
	}
}

// Destroy is terminal: any animation stops silently, destroy is emitted and
// every subscription is dropped
func (s *Scroller) Destroy() {
	if s.destroyed {
		return
	}
	if s.driver != nil {
		s.driver.Stop()
	}
	if s.watchers != nil {
		s.watchers.Close()
	}
	s.enabled = false
	s.destroyed = true
	s.mode = ModeIdle
	s.sess = session{}
	s.publish(domain.DestroyEvent{})
	s.bus.Clear()
	tracer().P("op", "destroy").Infof("scroller destroyed")
}

// State returns a snapshot of the engine
func (s *Scroller) State() Snapshot {
	return Snapshot{
		Pos:           s.pos,
		MaxScroll:     s.maxScroll,
		HasScrollX:    s.hasX,
		HasScrollY:    s.hasY,
		Mode:          s.mode,
		Lock:          s.sess.lock,
		MovingX:       s.movingX,
		MovingY:       s.movingY,
		Enabled:       s.enabled,
		Destroyed:     s.destroyed,
		Pulling:       s.pulling,
		Page:          s.currentPage,
		SelectedIndex: s.selectedIndex,
	}
}

// Options returns the effective options after normalization
func (s *Scroller) Options() config.Options {
	return s.opts
}
