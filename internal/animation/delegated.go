package animation

import (
	"time"

	"scrollkit/internal/domain"
)

// Delegated lets a TransitionRenderer interpolate. The host reports the end of a
// transition through TransitionEnd; with Probe set the driver polls the computed
// position once per frame.
type Delegated struct {
	renderer  TransitionRenderer
	scheduler Scheduler
	current   *delegatedRun
}

type delegatedRun struct {
	anim  Animation
	frame FrameID
}

// NewDelegated creates a driver for renderers with native transitions
func NewDelegated(renderer TransitionRenderer, scheduler Scheduler) *Delegated {
	return &Delegated{renderer: renderer, scheduler: scheduler}
}

func (d *Delegated) Start(a Animation) {
	d.freeze()
	if a.Duration <= 0 {
		d.renderer.Translate(a.To)
		a.complete()
		return
	}

	run := &delegatedRun{anim: a}
	d.current = run
	tracer().P("op", "animate").Debugf("transition %v -> %v in %v (%s)", a.From, a.To, a.Duration, a.Easing.Style)
	d.renderer.Transition(a.To, a.Duration, a.Easing)
	if a.Probe {
		d.poll(run)
	}
}

func (d *Delegated) poll(run *delegatedRun) {
	run.frame = d.scheduler.RequestFrame(func(time.Time) {
		if d.current != run {
			return
		}
		run.anim.progress(d.renderer.ComputedPosition())
		if d.current == run {
			d.poll(run)
		}
	})
}

// TransitionEnd completes the active animation. Signals without an active
// animation are ignored.
func (d *Delegated) TransitionEnd() {
	run := d.current
	if run == nil {
		return
	}
	d.scheduler.CancelFrame(run.frame)
	d.current = nil
	run.anim.complete()
}

func (d *Delegated) Stop() (domain.Point, bool) {
	if d.current == nil {
		return domain.Point{}, false
	}
	pos := d.freeze()
	tracer().P("op", "animate").Debugf("transition stopped at %v", pos)
	return pos, true
}

// freeze pins the renderer at its computed position, ending any transition
func (d *Delegated) freeze() domain.Point {
	run := d.current
	if run == nil {
		return domain.Point{}
	}
	d.scheduler.CancelFrame(run.frame)
	d.current = nil
	pos := d.renderer.ComputedPosition().Round()
	d.renderer.Translate(pos)
	return pos
}

func (d *Delegated) Active() bool {
	return d.current != nil
}
