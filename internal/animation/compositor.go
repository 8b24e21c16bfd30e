package animation

import (
	"time"

	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
)

// Compositor gives a plain Renderer native-looking transitions by interpolating
// on a Scheduler. Hosts without a compositing layer use it to back a Delegated
// driver; the end of each transition is reported through OnTransitionEnd.
type Compositor struct {
	target    Renderer
	clock     Clock
	scheduler Scheduler
	onEnd     func()

	pos     domain.Point
	from    domain.Point
	to      domain.Point
	start   time.Time
	dur     time.Duration
	easing  ease.Easing
	frame   FrameID
	running bool
}

// NewCompositor wraps target
func NewCompositor(target Renderer, clock Clock, scheduler Scheduler) *Compositor {
	return &Compositor{target: target, clock: clock, scheduler: scheduler}
}

// OnTransitionEnd sets the callback run when a transition reaches its destination
func (c *Compositor) OnTransitionEnd(fn func()) {
	c.onEnd = fn
}

func (c *Compositor) Translate(pos domain.Point) {
	c.halt()
	c.pos = pos
	c.target.Translate(pos)
}

func (c *Compositor) Transition(to domain.Point, d time.Duration, easing ease.Easing) {
	c.halt()
	c.from, c.to = c.pos, to
	c.start = c.clock.Now()
	c.dur = d
	c.easing = easing
	c.running = true
	c.frame = c.scheduler.RequestFrame(c.step)
}

func (c *Compositor) ComputedPosition() domain.Point {
	if c.running {
		return Interpolate(c.from, c.to, c.easing, progressAt(c.start, c.clock.Now(), c.dur))
	}
	return c.pos
}

// Running reports whether a transition is in flight
func (c *Compositor) Running() bool {
	return c.running
}

func (c *Compositor) step(now time.Time) {
	if !c.running {
		return
	}
	t := progressAt(c.start, now, c.dur)
	if t >= 1 {
		c.running = false
		c.pos = c.to
		c.target.Translate(c.to)
		if c.onEnd != nil {
			c.onEnd()
		}
		return
	}
	c.pos = Interpolate(c.from, c.to, c.easing, t)
	c.target.Translate(c.pos)
	c.frame = c.scheduler.RequestFrame(c.step)
}

func (c *Compositor) halt() {
	if c.running {
		c.pos = c.ComputedPosition()
		c.scheduler.CancelFrame(c.frame)
		c.running = false
	}
}
