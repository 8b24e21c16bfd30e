package domain

import (
	"math"
	"time"
)

// Point is a scroll position or a pointer coordinate
type Point struct {
	X float64
	Y float64
}

// Add returns p shifted by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Round rounds both coordinates to whole pixels
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// Axis identifies one scroll axis
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Of returns the coordinate of p on axis a
func (a Axis) Of(p Point) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// Direction is the sign of a movement on one axis.
// Positive means the pointer moved right or down.
type Direction int

const (
	DirectionNegative Direction = -1
	DirectionNone     Direction = 0
	DirectionPositive Direction = 1
)

// DirectionOf returns the direction of a signed delta
func DirectionOf(delta float64) Direction {
	switch {
	case delta > 0:
		return DirectionPositive
	case delta < 0:
		return DirectionNegative
	default:
		return DirectionNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionNegative:
		return "negative"
	case DirectionPositive:
		return "positive"
	default:
		return "none"
	}
}

// DirectionLock is the axis a gesture session committed to
type DirectionLock int

const (
	LockNone DirectionLock = iota
	LockHorizontal
	LockVertical
	LockFree
)

func (l DirectionLock) String() string {
	switch l {
	case LockHorizontal:
		return "horizontal"
	case LockVertical:
		return "vertical"
	case LockFree:
		return "free"
	default:
		return "none"
	}
}

// InputKind distinguishes touch from mouse-like pointer streams
type InputKind int

const (
	InputNone InputKind = iota
	InputTouch
	InputPointer
)

func (k InputKind) String() string {
	switch k {
	case InputTouch:
		return "touch"
	case InputPointer:
		return "pointer"
	default:
		return "none"
	}
}

// Phase of a normalized pointer event
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return "cancel"
	}
}

// PointerEvent is one sample of the normalized pointer stream
type PointerEvent struct {
	Kind      InputKind
	Phase     Phase
	PageX     float64
	PageY     float64
	Timestamp time.Time
	Target    string // identity of the element under the pointer, may be empty
	Button    int    // mouse button, 0 is the primary button; ignored for touch
}

// Page returns the pointer coordinates
func (e PointerEvent) Page() Point {
	return Point{X: e.PageX, Y: e.PageY}
}

// Geometry is the measured layout handed in by the host on every refresh
type Geometry struct {
	ViewportWidth  float64
	ViewportHeight float64
	ContentWidth   float64
	ContentHeight  float64

	// Offset of the viewport from the document origin
	OffsetX float64
	OffsetY float64

	// Size of the input surface; pointer samples near its edges end the gesture.
	// Zero disables the edge guard.
	SurfaceWidth  float64
	SurfaceHeight float64

	// Number of equally sized items in the content (wheel/picker mode)
	ItemCount int

	// Measured page rectangles in content coordinates, row by row. When set,
	// snapping stops at these pages instead of a grid of equal steps.
	Pages []Rect
}

// Rect is an element rectangle in document coordinates
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// PlatformCapabilities replaces ambient feature detection
type PlatformCapabilities struct {
	Transition    bool // declarative transitions are available
	Transform     bool
	HWCompositing bool
	Touch         bool
}
