package animation

import (
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollkit/internal/domain"
	"scrollkit/internal/ease"
)

const frame = 16 * time.Millisecond

type recordingRenderer struct {
	positions []domain.Point
}

func (r *recordingRenderer) Translate(pos domain.Point) {
	r.positions = append(r.positions, pos)
}

func (r *recordingRenderer) last() domain.Point {
	if len(r.positions) == 0 {
		return domain.Point{}
	}
	return r.positions[len(r.positions)-1]
}

type harness struct {
	clock    *MockClock
	loop     *FrameLoop
	renderer *recordingRenderer
}

func newHarness() *harness {
	return &harness{
		clock:    NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		loop:     NewFrameLoop(),
		renderer: &recordingRenderer{},
	}
}

// pump advances the clock frame by frame until nothing is scheduled
func (h *harness) pump(t *testing.T) int {
	t.Helper()
	frames := 0
	for h.loop.Pending() {
		h.clock.Advance(frame)
		h.loop.Tick(h.clock.Now())
		frames++
		require.Less(t, frames, 10000, "animation never finished")
	}
	return frames
}

func TestManualRunsToExactDestination(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	m := NewManual(h.renderer, h.clock, h.loop)

	var progress []domain.Point
	var completed []domain.Point
	m.Start(Animation{
		From:       domain.Point{Y: 0},
		To:         domain.Point{Y: -333.3},
		Duration:   300 * time.Millisecond,
		Easing:     ease.Bounce,
		Probe:      true,
		OnProgress: func(p domain.Point) { progress = append(progress, p) },
		OnComplete: func(p domain.Point) { completed = append(completed, p) },
	})
	assert.True(t, m.Active())
	assert.Equal(t, domain.Point{}, h.renderer.last(), "first step renders the start position")

	frames := h.pump(t)
	assert.GreaterOrEqual(t, frames, 300/16)
	assert.False(t, m.Active())
	require.Len(t, completed, 1)
	assert.Equal(t, domain.Point{Y: -333.3}, completed[0])
	assert.Equal(t, domain.Point{Y: -333.3}, h.renderer.last(), "last frame snaps exactly to the destination")

	prev := 1.0
	for _, p := range progress {
		assert.LessOrEqual(t, p.Y, prev)
		prev = p.Y
	}
}

func TestManualZeroDurationCompletesSynchronously(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	m := NewManual(h.renderer, h.clock, h.loop)

	done := 0
	m.Start(Animation{To: domain.Point{Y: -600}, OnComplete: func(domain.Point) { done++ }})
	assert.Equal(t, 1, done)
	assert.False(t, m.Active())
	assert.False(t, h.loop.Pending())
	assert.Equal(t, domain.Point{Y: -600}, h.renderer.last())
}

func TestManualSupersededNeverCompletes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	m := NewManual(h.renderer, h.clock, h.loop)

	var first, second int
	m.Start(Animation{To: domain.Point{Y: -500}, Duration: 200 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { first++ }})
	h.clock.Advance(100 * time.Millisecond)
	h.loop.Tick(h.clock.Now())
	mid := h.renderer.last()
	assert.InDelta(t, -250, mid.Y, 1e-9)

	m.Start(Animation{From: mid, To: domain.Point{Y: 0}, Duration: 200 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { second++ }})
	assert.Equal(t, mid, h.renderer.last(), "new animation starts where the old one stood")

	h.pump(t)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestManualStopFreezes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	m := NewManual(h.renderer, h.clock, h.loop)

	_, ok := m.Stop()
	assert.False(t, ok, "stop while idle")

	done := 0
	m.Start(Animation{To: domain.Point{X: -100}, Duration: 100 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { done++ }})
	h.clock.Advance(40 * time.Millisecond)
	h.loop.Tick(h.clock.Now())

	pos, ok := m.Stop()
	require.True(t, ok)
	assert.InDelta(t, -40, pos.X, 1e-9)
	assert.False(t, m.Active())

	h.pump(t)
	assert.Equal(t, 0, done)
	assert.Equal(t, pos, h.renderer.last())

	_, ok = m.Stop()
	assert.False(t, ok, "stop is idempotent")
}

func TestManualProgressHandlerMayStop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	m := NewManual(h.renderer, h.clock, h.loop)
	m.Start(Animation{To: domain.Point{Y: -100}, Duration: 100 * time.Millisecond, Easing: ease.Linear, Probe: true,
		OnProgress: func(domain.Point) { m.Stop() }})
	assert.False(t, m.Active())
	assert.False(t, h.loop.Pending())
}

func TestDelegatedWithCompositor(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	c := NewCompositor(h.renderer, h.clock, h.loop)
	d := NewDelegated(c, h.loop)
	c.OnTransitionEnd(d.TransitionEnd)

	var progress, completed []domain.Point
	d.Start(Animation{
		To:         domain.Point{Y: -400},
		Duration:   250 * time.Millisecond,
		Easing:     ease.Swipe,
		Probe:      true,
		OnProgress: func(p domain.Point) { progress = append(progress, p) },
		OnComplete: func(p domain.Point) { completed = append(completed, p) },
	})
	assert.True(t, d.Active())
	assert.True(t, c.Running())

	h.pump(t)
	assert.False(t, d.Active())
	require.Len(t, completed, 1)
	assert.Equal(t, domain.Point{Y: -400}, completed[0])
	assert.Equal(t, domain.Point{Y: -400}, h.renderer.last())
	assert.NotEmpty(t, progress, "probing polls the computed position")
}

func TestDelegatedStopReadsComputedPosition(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	c := NewCompositor(h.renderer, h.clock, h.loop)
	d := NewDelegated(c, h.loop)
	c.OnTransitionEnd(d.TransitionEnd)

	done := 0
	d.Start(Animation{To: domain.Point{Y: -200}, Duration: 200 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { done++ }})
	h.clock.Advance(50 * time.Millisecond)
	h.loop.Tick(h.clock.Now())

	pos, ok := d.Stop()
	require.True(t, ok)
	assert.Equal(t, domain.Point{Y: -50}, pos)
	assert.False(t, c.Running())
	assert.Equal(t, pos, h.renderer.last())

	h.pump(t)
	assert.Equal(t, 0, done)
}

func TestDelegatedSupersededNeverCompletes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	c := NewCompositor(h.renderer, h.clock, h.loop)
	d := NewDelegated(c, h.loop)
	c.OnTransitionEnd(d.TransitionEnd)

	var first, second int
	d.Start(Animation{To: domain.Point{Y: -200}, Duration: 200 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { first++ }})
	h.clock.Advance(100 * time.Millisecond)
	h.loop.Tick(h.clock.Now())
	d.Start(Animation{To: domain.Point{Y: -20}, Duration: 100 * time.Millisecond, Easing: ease.Linear,
		OnComplete: func(domain.Point) { second++ }})

	h.pump(t)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, domain.Point{Y: -20}, h.renderer.last())
}

func TestDelegatedIgnoresStrayTransitionEnd(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	h := newHarness()
	d := NewDelegated(NewCompositor(h.renderer, h.clock, h.loop), h.loop)
	assert.NotPanics(t, d.TransitionEnd)

	done := 0
	d.Start(Animation{To: domain.Point{Y: -10}, OnComplete: func(domain.Point) { done++ }})
	assert.Equal(t, 1, done, "zero duration completes synchronously")
	d.TransitionEnd()
	assert.Equal(t, 1, done)
}

func TestFrameLoopCancel(t *testing.T) {
	loop := NewFrameLoop()
	var ran []string
	var second FrameID
	loop.RequestFrame(func(time.Time) {
		ran = append(ran, "first")
		loop.CancelFrame(second)
		loop.RequestFrame(func(time.Time) { ran = append(ran, "next tick") })
	})
	second = loop.RequestFrame(func(time.Time) { ran = append(ran, "second") })
	cancelled := loop.RequestFrame(func(time.Time) { ran = append(ran, "cancelled") })
	loop.CancelFrame(cancelled)

	assert.Equal(t, 1, loop.Tick(time.Now()))
	assert.Equal(t, []string{"first"}, ran)
	assert.Equal(t, 1, loop.Tick(time.Now()))
	assert.Equal(t, []string{"first", "next tick"}, ran)
	assert.False(t, loop.Pending())
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}
