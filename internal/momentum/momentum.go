// Package momentum computes where a released gesture coasts to and how long it takes.
package momentum

import (
	"math"
	"time"
)

// Input describes one axis at release time
type Input struct {
	Current    float64       // position at release
	Start      float64       // position at the start of the measuring window
	Elapsed    time.Duration // length of the measuring window
	LowerBound float64       // maxScroll of the axis, always <= 0
	// How far the destination may overshoot either bound; zero forbids overshoot
	ReboundMargin float64
	Scrollable    bool
}

// Params are the physics constants shared by both axes
type Params struct {
	Deceleration float64       // px/ms²
	MaxDuration  time.Duration // zero means unbounded
}

// Result is consumed once by the caller
type Result struct {
	Destination float64
	Duration    time.Duration
}

// Velocity in px/ms over the measuring window, zero for an empty window
func Velocity(current, start float64, elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return (current - start) / ms
}

// ReboundMargin scales the allowed overshoot with release speed
func ReboundMargin(viewportSize, velocity, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return viewportSize / rate * math.Abs(velocity)
}

// Solve projects the release of one axis under constant deceleration.
// Travel is v²/2d in the direction of v, duration is |v|/d.
func Solve(in Input, p Params) Result {
	rounded := math.Round(in.Current)
	if !in.Scrollable || p.Deceleration <= 0 {
		return Result{Destination: rounded}
	}

	v := Velocity(in.Current, in.Start, in.Elapsed)
	if v == 0 {
		return Result{Destination: rounded}
	}

	distance := v * v / (2 * p.Deceleration)
	if v < 0 {
		distance = -distance
	}
	dest := in.Current + distance

	lower, upper := in.LowerBound, 0.0
	if in.ReboundMargin > 0 {
		lower -= in.ReboundMargin
		upper += in.ReboundMargin
	}
	dest = math.Max(lower, math.Min(upper, dest))

	ms := math.Abs(v) / p.Deceleration
	duration := time.Duration(ms * float64(time.Millisecond))
	if p.MaxDuration > 0 && duration > p.MaxDuration {
		duration = p.MaxDuration
	}

	return Result{Destination: math.Round(dest), Duration: duration}
}
