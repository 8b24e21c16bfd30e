// Package animation moves a scroll position from one point to another over time.
//
// Two drivers share one contract. Manual steps the interpolation itself on a
// frame Scheduler. Delegated hands the destination to a TransitionRenderer that
// interpolates on its own and reports back when it is done. At most one
// animation per driver is active; starting another one supersedes it silently.
package animation

import (
	"time"

	"github.com/npillmayer/schuko/tracing"

	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
)

func tracer() tracing.Trace {
	return tracing.Select("scrollkit")
}

// Renderer applies a position to the screen immediately.
// Translate also cancels any transition the renderer is running.
type Renderer interface {
	Translate(pos domain.Point)
}

// TransitionRenderer can interpolate toward a destination on its own. While a
// transition runs, ComputedPosition reports the position currently shown.
type TransitionRenderer interface {
	Renderer
	Transition(to domain.Point, d time.Duration, easing ease.Easing)
	ComputedPosition() domain.Point
}

// Animation is one timed move
type Animation struct {
	From     domain.Point
	To       domain.Point
	Duration time.Duration
	Easing   ease.Easing

	// Probe asks for OnProgress on every frame
	Probe      bool
	OnProgress func(pos domain.Point)
	OnComplete func(pos domain.Point)
}

func (a Animation) progress(pos domain.Point) {
	if a.Probe && a.OnProgress != nil {
		a.OnProgress(pos)
	}
}

func (a Animation) complete() {
	if a.OnComplete != nil {
		a.OnComplete(a.To)
	}
}

// Driver runs animations
type Driver interface {
	// Start supersedes any active animation without completing it.
	// A zero duration renders the destination and completes before returning.
	Start(a Animation)
	// Stop freezes the active animation where it is and returns that position.
	// The animation does not complete. Calling Stop while idle returns false.
	Stop() (domain.Point, bool)
	Active() bool
}

// Interpolate returns the eased point between from and to at progress t
func Interpolate(from, to domain.Point, easing ease.Easing, t float64) domain.Point {
	e := easing.At(t)
	return domain.Point{
		X: from.X + (to.X-from.X)*e,
		Y: from.Y + (to.Y-from.Y)*e,
	}
}

func progressAt(start, now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return float64(now.Sub(start)) / float64(d)
}

// Manual steps animations frame by frame
type Manual struct {
	renderer  Renderer
	clock     Clock
	scheduler Scheduler
	current   *manualRun
}

type manualRun struct {
	anim  Animation
	start time.Time
	pos   domain.Point
	frame FrameID
}

// NewManual creates a frame-stepping driver
func NewManual(renderer Renderer, clock Clock, scheduler Scheduler) *Manual {
	return &Manual{renderer: renderer, clock: clock, scheduler: scheduler}
}

func (m *Manual) Start(a Animation) {
	m.cancel()
	if a.Duration <= 0 {
		m.renderer.Translate(a.To)
		a.complete()
		return
	}

	run := &manualRun{anim: a, start: m.clock.Now(), pos: a.From}
	m.current = run
	tracer().P("op", "animate").Debugf("manual %v -> %v in %v", a.From, a.To, a.Duration)
	m.step(run, run.start)
}

func (m *Manual) step(run *manualRun, now time.Time) {
	if m.current != run {
		return
	}
	a := run.anim
	t := progressAt(run.start, now, a.Duration)
	if t >= 1 {
		m.current = nil
		run.pos = a.To
		m.renderer.Translate(a.To)
		a.complete()
		return
	}

	run.pos = Interpolate(a.From, a.To, a.Easing, t)
	m.renderer.Translate(run.pos)
	a.progress(run.pos)

	// a progress handler may have superseded or stopped this run
	if m.current == run {
		run.frame = m.scheduler.RequestFrame(func(now time.Time) { m.step(run, now) })
	}
}

func (m *Manual) Stop() (domain.Point, bool) {
	run := m.current
	if run == nil {
		return domain.Point{}, false
	}
	m.cancel()
	tracer().P("op", "animate").Debugf("manual stopped at %v", run.pos)
	return run.pos, true
}

func (m *Manual) cancel() {
	if m.current != nil {
		m.scheduler.CancelFrame(m.current.frame)
		m.current = nil
	}
}

func (m *Manual) Active() bool {
	return m.current != nil
}
