package scroller

import (
	"scrollkit/internal/config"
	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/eventbus"
	"scrollkit/internal/threshold"
)

// checkPullDown holds a release that pulled past the refresh threshold at the
// stop position and reports whether it did
func (s *Scroller) checkPullDown(sess session) bool {
	pd := s.opts.PullDownRefresh
	if domain.DirectionOf(s.pos.Y-sess.absStart.Y) != domain.DirectionPositive || s.pos.Y < pd.Threshold {
		return false
	}
	if !s.pulling {
		s.pulling = true
		tracer().P("op", "pullDown").Infof("pulling down at %.0f", s.pos.Y)
		s.publish(domain.PullingDownEvent{})
	}
	s.scrollTo(domain.Point{X: s.pos.X, Y: pd.Stop}, s.opts.BounceTime(), ease.Bounce, ModeSettling)
	return true
}

// FinishPullDown releases the pull-down hold and rebounds into bounds
func (s *Scroller) FinishPullDown() {
	if !s.usable("finishPullDown") || s.opts.PullDownRefresh == nil {
		return
	}
	s.pulling = false
	s.resetPosition(s.opts.BounceTime(), ease.Bounce)
}

// AutoPullDownRefresh triggers a pull-down refresh without a gesture
func (s *Scroller) AutoPullDownRefresh() {
	pd := s.opts.PullDownRefresh
	if !s.usable("autoPullDownRefresh") || pd == nil || s.pulling {
		return
	}
	s.driver.Stop()
	s.pulling = true
	s.translate(domain.Point{X: s.pos.X, Y: pd.Threshold})
	s.publish(domain.PullingDownEvent{})
	s.scrollTo(domain.Point{X: s.pos.X, Y: pd.Stop}, s.opts.BounceTime(), ease.Bounce, ModeSettling)
}

// AddThresholdWatch registers a watcher and returns its id. Watching needs
// per-frame positions, so the probe granularity is raised accordingly.
func (s *Scroller) AddThresholdWatch(t threshold.Trigger) (int, error) {
	if !s.usable("addThresholdWatch") {
		return 0, domain.ErrInvalidCall
	}
	id, err := s.watchers.Add(t)
	if err != nil {
		return 0, err
	}
	s.opts.ProbeType = config.ProbeFrame
	return id, nil
}

// RemoveThresholdWatch drops a watcher
func (s *Scroller) RemoveThresholdWatch(id int) {
	if !s.usable("removeThresholdWatch") {
		return
	}
	s.watchers.Remove(id)
}

// FinishThresholdWatch re-arms a fired watcher. While a motion is in flight the
// re-arm waits for its scrollEnd, so the settle cannot fire the watcher again.
func (s *Scroller) FinishThresholdWatch(id int) {
	if !s.usable("finishThresholdWatch") {
		return
	}
	if _, ok := s.watchers.Get(id); !ok {
		tracer().P("op", "finishThresholdWatch").Debugf("ignored: no watcher %d", id)
		return
	}
	if s.Animating() {
		s.bus.Once(domain.EventScrollEnd, func(eventbus.DomainEvent) {
			_ = s.watchers.Rearm(id)
		})
		return
	}
	_ = s.watchers.Rearm(id)
}

// FinishPullUp re-arms the built-in pull-up watcher
func (s *Scroller) FinishPullUp() {
	if s.opts.PullUpLoad == nil {
		return
	}
	s.FinishThresholdWatch(s.pullUpID)
}
