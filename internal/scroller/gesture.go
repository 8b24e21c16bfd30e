package scroller

import (
	"math"
	"time"

	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/momentum"
)

// Handle dispatches a pointer event by phase
func (s *Scroller) Handle(e domain.PointerEvent) {
	switch e.Phase {
	case domain.PhaseStart:
		s.Start(e)
	case domain.PhaseMove:
		s.Move(e)
	case domain.PhaseEnd, domain.PhaseCancel:
		s.End(e)
	}
}

func (s *Scroller) stamp(e domain.PointerEvent) time.Time {
	if e.Timestamp.IsZero() {
		return s.clock.Now()
	}
	return e.Timestamp
}

func (s *Scroller) accepts(kind domain.InputKind) bool {
	switch kind {
	case domain.InputTouch:
		return !s.opts.DisableTouch
	case domain.InputPointer:
		return !s.opts.DisableMouse
	default:
		return false
	}
}

// Start opens a gesture session. It is ignored while disabled, for secondary
// mouse buttons, and while a session of another input kind is active.
func (s *Scroller) Start(e domain.PointerEvent) {
	if !s.usable("start") || !s.enabled || !s.accepts(e.Kind) {
		return
	}
	if e.Kind == domain.InputPointer && e.Button != 0 {
		return
	}
	if s.sess.kind != domain.InputNone && s.sess.kind != e.Kind {
		tracer().P("op", "start").Debugf("ignored %s start during %s session", e.Kind, s.sess.kind)
		return
	}

	// an interrupted animation ends where it currently stands
	s.Stop()

	now := s.stamp(e)
	s.sess = session{
		kind:      e.Kind,
		start:     s.pos,
		absStart:  s.pos,
		point:     e.Page(),
		startTime: now,
		target:    e.Target,
	}
	s.movingX, s.movingY = domain.DirectionNone, domain.DirectionNone
	s.directionX, s.directionY = domain.DirectionNone, domain.DirectionNone
	s.mode = ModeDragging

	tracer().P("op", "start").Debugf("%s session at %v", e.Kind, s.pos)
	s.publish(domain.BeforeScrollStartEvent{})
}

// Move applies one pointer sample of the active session
func (s *Scroller) Move(e domain.PointerEvent) {
	if !s.usable("move") || !s.enabled || s.sess.kind == domain.InputNone || e.Kind != s.sess.kind {
		return
	}
	o := s.opts
	page := e.Page()
	delta := domain.Point{X: page.X - s.sess.point.X, Y: page.Y - s.sess.point.Y}
	s.sess.point = page
	s.sess.dist = s.sess.dist.Add(delta)

	absX, absY := math.Abs(s.sess.dist.X), math.Abs(s.sess.dist.Y)
	now := s.stamp(e)

	// jitter right after a release must travel a minimum distance to count
	if now.Sub(s.endTime) > o.MomentumLimit() && absX < o.MomentumLimitDistance && absY < o.MomentumLimitDistance {
		return
	}

	if s.sess.lock == domain.LockNone {
		s.sess.lock = resolveLock(absX, absY, o.DirectionLockThreshold, o.FreeScroll)
		tracer().P("op", "move").Debugf("direction locked %s", s.sess.lock)
	}
	switch s.sess.lock {
	case domain.LockHorizontal:
		if o.EventPassthrough == config.PassthroughHorizontal {
			s.abandon()
			return
		}
		delta.Y = 0
	case domain.LockVertical:
		if o.EventPassthrough == config.PassthroughVertical {
			s.abandon()
			return
		}
		delta.X = 0
	}
	if !s.hasX {
		delta.X = 0
	}
	if !s.hasY {
		delta.Y = 0
	}
	s.movingX = domain.DirectionOf(delta.X)
	s.movingY = domain.DirectionOf(delta.Y)

	next := domain.Point{
		X: s.elastic(s.pos.X, delta.X, s.maxScroll.X),
		Y: s.elastic(s.pos.Y, delta.Y, s.maxScroll.Y),
	}

	if !s.sess.moved {
		s.sess.moved = true
		s.publish(domain.ScrollStartEvent{})
	}
	s.translate(next)

	if now.Sub(s.sess.startTime) > o.MomentumLimit() {
		s.sess.startTime = now
		s.sess.start = s.pos
		if o.ProbeType == config.ProbeThrottled {
			s.emitScroll(s.pos)
		}
	}
	if o.ProbeType > config.ProbeThrottled {
		s.emitScroll(s.pos)
	}

	if s.nearSurfaceEdge(page) {
		tracer().P("op", "move").Debugf("pointer at surface edge, releasing")
		s.End(e)
	}
}

// resolveLock decides the axis a session commits to. Ties resolve to free.
func resolveLock(absX, absY, hysteresis float64, free bool) domain.DirectionLock {
	switch {
	case free:
		return domain.LockFree
	case absX > absY+hysteresis:
		return domain.LockHorizontal
	case absY > absX+hysteresis:
		return domain.LockVertical
	default:
		return domain.LockFree
	}
}

// elastic moves one axis by delta; past a bound only a third of the delta applies,
// or the axis is clamped when bouncing is off
func (s *Scroller) elastic(cur, delta, bound float64) float64 {
	next := cur + delta
	if next <= 0 && next >= bound {
		return next
	}
	if s.opts.Bounce {
		return cur + delta/3
	}
	if next > 0 {
		return 0
	}
	return bound
}

func (s *Scroller) nearSurfaceEdge(p domain.Point) bool {
	g := s.geometry
	if g.SurfaceWidth <= 0 || g.SurfaceHeight <= 0 {
		return false
	}
	m := s.opts.MomentumLimitDistance
	return p.X > g.SurfaceWidth-m || p.X < m || p.Y < m || p.Y > g.SurfaceHeight-m
}

// abandon hands the gesture back to the platform
func (s *Scroller) abandon() {
	tracer().P("op", "move").Debugf("gesture passed through")
	s.sess.kind = domain.InputNone
	s.mode = ModeIdle
}

// End releases the active session and decides what motion follows
func (s *Scroller) End(e domain.PointerEvent) {
	if !s.usable("end") || !s.enabled || s.sess.kind == domain.InputNone || e.Kind != s.sess.kind {
		return
	}
	sess := s.sess
	s.sess.kind = domain.InputNone
	o := s.opts

	preventClick := s.stopFromTransition
	s.stopFromTransition = false

	if o.PullDownRefresh != nil && s.checkPullDown(sess) {
		return
	}
	// looping pages settle a release past either end on the opposite end, so the
	// snap resolution below replaces the rebound
	wraps := s.resolver != nil && s.resolver.Loop()
	if (!wraps || !sess.moved) && s.resetPosition(o.BounceTime(), ease.Bounce) {
		return
	}

	dest := s.pos.Round()
	if !sess.moved {
		s.tap(sess, e, preventClick)
		return
	}

	// rounding the release position is not a motion of its own
	s.translate(dest)
	s.directionX = domain.DirectionOf(dest.X - sess.absStart.X)
	s.directionY = domain.DirectionOf(dest.Y - sess.absStart.Y)

	now := s.stamp(e)
	s.endTime = now
	elapsed := now.Sub(sess.startTime)
	absX := math.Abs(dest.X - sess.start.X)
	absY := math.Abs(dest.Y - sess.start.Y)

	if s.bus.HasSubscribers(domain.EventFlick) && elapsed < o.FlickLimit() &&
		absX < o.FlickLimitDistance && absY < o.FlickLimitDistance {
		s.mode = ModeIdle
		tracer().P("op", "end").Debugf("flick after %v", elapsed)
		s.publish(domain.FlickEvent{})
		if !s.driver.Active() {
			// nothing turned the page
			s.resetPosition(o.BounceTime(), ease.Bounce)
		}
		return
	}

	var d time.Duration
	mode := ModeSettling
	if o.Momentum && elapsed < o.MomentumLimit() && (absX > o.MomentumLimitDistance || absY > o.MomentumLimitDistance) {
		mx := s.solve(s.hasX, dest.X, sess.start.X, elapsed, s.maxScroll.X, s.geometry.ViewportWidth)
		my := s.solve(s.hasY, dest.Y, sess.start.Y, elapsed, s.maxScroll.Y, s.geometry.ViewportHeight)
		dest = domain.Point{X: mx.Destination, Y: my.Destination}
		d = max(mx.Duration, my.Duration)
		if s.opts.Wheel != nil && s.itemHeight > 0 {
			dest.Y = math.Round(dest.Y/s.itemHeight) * s.itemHeight
		}
		if s.outOfBounds(dest) {
			d = min(d, o.SwipeBounceTime())
		}
		mode = ModeMomentum
	} else if w := o.Wheel; w != nil && s.itemHeight > 0 {
		dest.Y = math.Round(dest.Y/s.itemHeight) * s.itemHeight
		d = w.AdjustTime()
	}

	easing := ease.Swipe
	if s.resolver != nil {
		page := s.resolver.Release(dest, sess.absStart, s.currentPage, s.directionX, s.directionY)
		d = s.snapDuration(dest, page.Pos())
		s.currentPage = page
		dest = page.Pos()
		s.directionX, s.directionY = domain.DirectionNone, domain.DirectionNone
		easing = ease.Bounce
		mode = ModeSnapping
	}

	if dest != s.pos {
		if s.outOfBounds(dest) {
			easing = ease.SwipeBounce
		}
		tracer().P("op", "end").Debugf("%s to %v in %v", mode, dest, d)
		s.scrollTo(dest, d, easing, mode)
		return
	}

	if s.opts.Wheel != nil {
		s.selectedIndex = s.indexAt(s.pos.Y)
	}
	s.mode = ModeIdle
	s.publish(domain.ScrollEndEvent{Pos: s.pos})
}

func (s *Scroller) solve(scrollable bool, cur, start float64, elapsed time.Duration, bound, viewport float64) momentum.Result {
	margin := 0.0
	if s.opts.Bounce {
		rate := s.opts.BounceRate
		if s.opts.Wheel != nil {
			rate = wheelBounceRate
		}
		margin = momentum.ReboundMargin(viewport, momentum.Velocity(cur, start, elapsed), rate)
	}
	return momentum.Solve(momentum.Input{
		Current:       cur,
		Start:         start,
		Elapsed:       elapsed,
		LowerBound:    bound,
		ReboundMargin: margin,
		Scrollable:    scrollable,
	}, momentum.Params{
		Deceleration: s.opts.Deceleration,
		MaxDuration:  s.opts.SwipeTime(),
	})
}

// tap ends a session without net movement
func (s *Scroller) tap(sess session, e domain.PointerEvent, preventClick bool) {
	o := s.opts
	if w := o.Wheel; w != nil && s.itemHeight > 0 {
		// tapping an item of a picker selects it; the settle ends with scrollEnd
		contentY := e.PageY - s.geometry.OffsetY - s.pos.Y
		s.publish(domain.ScrollCancelEvent{})
		s.wheelTo(int(math.Floor(contentY/s.itemHeight)), w.AdjustTime(), ease.Swipe)
		return
	}

	s.mode = ModeIdle
	if !preventClick {
		if o.Tap != "" {
			s.publish(domain.TapEvent{Name: o.Tap, Target: sess.target, Pos: e.Page()})
		}
		if o.Click {
			s.publish(domain.ClickEvent{Target: sess.target, Pos: e.Page()})
		}
	}
	s.publish(domain.ScrollCancelEvent{})
}
