package scroller

import (
	"math"
	"time"

	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
	"scrollkit/internal/snap"
)

// snapDuration is the configured page speed, or the travel distance read as
// milliseconds and clamped to the configured range
func (s *Scroller) snapDuration(from, to domain.Point) time.Duration {
	sn := s.opts.Snap
	if sn.SpeedMs > 0 {
		return sn.Speed()
	}
	dist := math.Max(math.Abs(from.X-to.X), math.Abs(from.Y-to.Y))
	d := time.Duration(dist) * time.Millisecond
	return min(max(d, sn.MinDuration()), sn.MaxDuration())
}

// GoToPage scrolls to the page at (x, y). Indices outside the table are clamped,
// or wrapped when the pages loop. Pass Auto to derive the duration.
// Ignored unless snapping is configured.
func (s *Scroller) GoToPage(x, y int, d time.Duration, easing ...ease.Easing) {
	if !s.usable("goToPage") || s.resolver == nil {
		tracer().P("op", "goToPage").Debugf("ignored: snap not configured")
		return
	}
	x, y = s.resolver.Clamp(x, y)
	page, _ := s.resolver.Page(x, y)
	if d == Auto {
		d = s.snapDuration(s.pos, page.Pos())
	}
	s.currentPage = page
	s.scrollTo(page.Pos(), d, pick(easing, ease.Bounce), ModeSnapping)
}

// ScrollToSnapPoint is GoToPage
func (s *Scroller) ScrollToSnapPoint(pageX, pageY int, d time.Duration) {
	s.GoToPage(pageX, pageY, d)
}

// Next goes one page forward along the scrolling axis
func (s *Scroller) Next(d time.Duration, easing ...ease.Easing) {
	s.step(1, d, easing)
}

// Prev goes one page back along the scrolling axis
func (s *Scroller) Prev(d time.Duration, easing ...ease.Easing) {
	s.step(-1, d, easing)
}

func (s *Scroller) step(by int, d time.Duration, easing []ease.Easing) {
	if s.resolver == nil {
		tracer().P("op", "page").Debugf("ignored: snap not configured")
		return
	}
	x, y := s.currentPage.PageX, s.currentPage.PageY
	if s.hasX {
		x += by
	} else {
		y += by
	}
	s.GoToPage(x, y, d, easing...)
}

// flickPage turns a flick into a page turn against the pointer movement
func (s *Scroller) flickPage() {
	if s.resolver == nil {
		return
	}
	x := s.currentPage.PageX - int(s.directionX)
	y := s.currentPage.PageY - int(s.directionY)
	s.GoToPage(x, y, Auto)
}

// CurrentPage returns the page the engine last settled on or headed for
func (s *Scroller) CurrentPage() (snap.Point, bool) {
	if s.resolver == nil {
		return snap.Point{}, false
	}
	return s.currentPage, true
}

func (s *Scroller) indexAt(y float64) int {
	if s.itemHeight <= 0 {
		return 0
	}
	i := int(math.Round(math.Abs(y / s.itemHeight)))
	return min(i, max(s.geometry.ItemCount-1, 0))
}

// WheelTo selects a picker item. Ignored unless wheel mode is configured.
func (s *Scroller) WheelTo(index int, d time.Duration, easing ...ease.Easing) {
	if !s.usable("wheelTo") || s.opts.Wheel == nil {
		tracer().P("op", "wheelTo").Debugf("ignored: wheel not configured")
		return
	}
	s.wheelTo(index, d, pick(easing, ease.Bounce))
}

func (s *Scroller) wheelTo(index int, d time.Duration, easing ease.Easing) {
	index = min(max(index, 0), max(s.geometry.ItemCount-1, 0))
	s.scrollTo(domain.Point{Y: -float64(index) * s.itemHeight}, d, easing, ModeSettling)
}

// SelectedIndex returns the selected picker item
func (s *Scroller) SelectedIndex() (int, bool) {
	if s.opts.Wheel == nil {
		return 0, false
	}
	return s.selectedIndex, true
}
