package scroller

import (
	"math"
	"time"

	"scrollkit/internal/animation"
	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
)

func pick(easing []ease.Easing, def ease.Easing) ease.Easing {
	if len(easing) > 0 && easing[0].Fn != nil {
		return easing[0]
	}
	return def
}

// scrollTo supersedes any running animation with a move to dest
func (s *Scroller) scrollTo(dest domain.Point, d time.Duration, easing ease.Easing, mode Mode) {
	if d < 0 {
		d = 0
	}
	if w := s.opts.Wheel; w != nil && s.itemHeight > 0 {
		switch {
		case dest.Y > 0:
			s.selectedIndex = 0
		case dest.Y < s.maxScroll.Y:
			s.selectedIndex = max(s.geometry.ItemCount-1, 0)
		default:
			s.selectedIndex = s.indexAt(dest.Y)
		}
	}
	s.mode = mode
	s.driver.Start(animation.Animation{
		From:       s.pos,
		To:         dest,
		Duration:   d,
		Easing:     easing,
		Probe:      s.opts.ProbeType == config.ProbeFrame,
		OnProgress: s.emitScroll,
		OnComplete: s.complete,
	})
}

// complete runs when an animation reaches its destination
func (s *Scroller) complete(domain.Point) {
	if s.pulling {
		// held at the pull-down stop until FinishPullDown
		s.mode = ModeIdle
		return
	}
	if s.resetPosition(s.opts.BounceTime(), ease.Bounce) {
		return
	}
	s.mode = ModeIdle
	tracer().P("op", "animate").Debugf("settled at %v", s.pos)
	s.publish(domain.ScrollEndEvent{Pos: s.pos})
}

// TransitionEnd is called by a transition-capable renderer when it reaches the
// destination of the transition it was given
func (s *Scroller) TransitionEnd() {
	if s.delegated == nil || s.destroyed {
		return
	}
	s.delegated.TransitionEnd()
}

// ScrollTo moves to (x, y). A zero duration completes before returning and
// emits a single scrollEnd. The default easing is Bounce.
func (s *Scroller) ScrollTo(x, y float64, d time.Duration, easing ...ease.Easing) {
	if !s.usable("scrollTo") {
		return
	}
	s.scrollTo(domain.Point{X: x, Y: y}, d, pick(easing, ease.Bounce), ModeSettling)
}

// ScrollBy moves relative to the current position
func (s *Scroller) ScrollBy(dx, dy float64, d time.Duration, easing ...ease.Easing) {
	if !s.usable("scrollBy") {
		return
	}
	s.ScrollTo(s.pos.X+dx, s.pos.Y+dy, d, easing...)
}

// Align positions an element inside the viewport for ScrollToElement. The
// offsets are the distance the element keeps from the viewport origin.
type Align struct {
	OffsetX float64
	OffsetY float64
	// Center overrides the offset of an axis and centers the element on it
	CenterX bool
	CenterY bool
}

// ScrollToElement brings rect, given in document coordinates of the unscrolled
// content, into the viewport as described by align. The target is
// clamped to bounds and, for pickers, rounded to a whole item.
func (s *Scroller) ScrollToElement(rect domain.Rect, d time.Duration, align Align, easing ...ease.Easing) {
	if !s.usable("scrollToElement") {
		return
	}
	g := s.geometry
	left := rect.Left - g.OffsetX
	top := rect.Top - g.OffsetY
	if align.CenterX {
		align.OffsetX = math.Round(g.ViewportWidth/2 - rect.Width/2)
	}
	if align.CenterY {
		align.OffsetY = math.Round(g.ViewportHeight/2 - rect.Height/2)
	}
	target := s.clamp(domain.Point{X: -left + align.OffsetX, Y: -top + align.OffsetY})
	if s.opts.Wheel != nil && s.itemHeight > 0 {
		target.Y = math.Round(target.Y/s.itemHeight) * s.itemHeight
	}
	s.scrollTo(target, d, pick(easing, ease.Bounce), ModeSettling)
}

// ResetPosition animates back into bounds. It reports whether the position was
// out of bounds; with a zero duration the position is in bounds on return.
func (s *Scroller) ResetPosition(d time.Duration, easing ...ease.Easing) bool {
	if !s.usable("resetPosition") {
		return false
	}
	return s.resetPosition(d, pick(easing, ease.Bounce))
}

func (s *Scroller) resetPosition(d time.Duration, easing ease.Easing) bool {
	target := s.clamp(s.pos)
	if target == s.pos {
		return false
	}
	tracer().P("op", "reset").Debugf("rebound %v -> %v", s.pos, target)
	s.scrollTo(target, d, easing, ModeSettling)
	return true
}

// Stop freezes any running animation where it currently stands and ends it with
// scrollEnd. A tap that follows is not turned into a click. Safe to call at any
// time, including from event handlers.
func (s *Scroller) Stop() {
	if !s.usable("stop") {
		return
	}
	if _, ok := s.driver.Stop(); !ok {
		return
	}
	s.mode = ModeIdle
	s.stopFromTransition = true
	if s.opts.Wheel != nil {
		s.selectedIndex = s.indexAt(s.pos.Y)
		return
	}
	tracer().P("op", "stop").Debugf("stopped at %v", s.pos)
	s.publish(domain.ScrollEndEvent{Pos: s.pos})
}

// Animating reports whether a motion is in flight
func (s *Scroller) Animating() bool {
	return s.driver != nil && s.driver.Active()
}
