// Package ease maps animation progress in [0,1] to eased progress.
//
// Every Easing carries two equivalent forms: Fn for frame-stepped animation and
// Style, a cubic-bezier identifier a declarative renderer can interpolate natively.
package ease

import (
	"fmt"
	"strings"
)

// Easing is a timing curve
type Easing struct {
	Name  string
	Style string
	Fn    func(t float64) float64
}

// At evaluates the curve with t clamped to [0,1]
func (e Easing) At(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if e.Fn == nil {
		return t
	}
	return e.Fn(t)
}

var (
	// Swipe is the momentum curve: fast start, long tail
	Swipe = Easing{
		Name:  "swipe",
		Style: "cubic-bezier(0.23, 1, 0.32, 1)",
		Fn: func(t float64) float64 {
			t--
			return 1 + t*t*t*t*t
		},
	}

	// SwipeBounce is used when momentum carries past a bound
	SwipeBounce = Easing{
		Name:  "swipeBounce",
		Style: "cubic-bezier(0.25, 0.46, 0.45, 0.94)",
		Fn: func(t float64) float64 {
			return t * (2 - t)
		},
	}

	// Bounce is the decelerating settle used for rebounds and page snaps
	Bounce = Easing{
		Name:  "bounce",
		Style: "cubic-bezier(0.165, 0.84, 0.44, 1)",
		Fn: func(t float64) float64 {
			t--
			return 1 - t*t*t*t
		},
	}

	Linear = Easing{
		Name:  "linear",
		Style: "linear",
		Fn:    func(t float64) float64 { return t },
	}
)

var named = map[string]Easing{
	Swipe.Name:       Swipe,
	SwipeBounce.Name: SwipeBounce,
	Bounce.Name:      Bounce,
	Linear.Name:      Linear,
}

// ByName looks up a predefined easing
func ByName(name string) (Easing, bool) {
	e, ok := named[name]
	return e, ok
}

// CubicBezier builds an easing from CSS-style control points (x1,y1) and (x2,y2).
// x is solved for the curve parameter with Newton's method, then y is evaluated.
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	style := fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", x1, y1, x2, y2)
	return Easing{
		Name:  style,
		Style: style,
		Fn: func(x float64) float64 {
			t := x
			for i := 0; i < 8; i++ {
				d := 1 - t
				nx := 3*d*d*t*x1 + 3*d*t*t*x2 + t*t*t
				dxdt := 3*d*d*x1 + 6*d*t*(x2-x1) + 3*t*t*(1-x2)
				if dxdt == 0 {
					break
				}
				t -= (nx - x) / dxdt
				if t <= 0 || t >= 1 {
					break
				}
			}
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			d := 1 - t
			return 3*d*d*t*y1 + 3*d*t*t*y2 + t*t*t
		},
	}
}

// Parse accepts a predefined name or a "cubic-bezier(a, b, c, d)" identifier
func Parse(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	if e, ok := ByName(s); ok {
		return e, nil
	}
	var x1, y1, x2, y2 float64
	compact := strings.ReplaceAll(s, " ", "")
	if _, err := fmt.Sscanf(compact, "cubic-bezier(%g,%g,%g,%g)", &x1, &y1, &x2, &y2); err != nil {
		return Easing{}, fmt.Errorf("unknown easing %q", s)
	}
	if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 {
		return Easing{}, fmt.Errorf("easing %q: x control points must lie in [0,1]", s)
	}
	return CubicBezier(x1, y1, x2, y2), nil
}
