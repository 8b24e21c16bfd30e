// Package snap resolves free destinations to the stop points of paged content.
package snap

import (
	"math"

	"github.com/npillmayer/schuko/tracing"

	"scrollkit/internal/domain"
)

func tracer() tracing.Trace {
	return tracing.Select("scrollkit")
}

// Point is one stop of the page table
type Point struct {
	X, Y  float64
	PageX int
	PageY int
}

// Pos returns the scroll position of the stop
func (p Point) Pos() domain.Point {
	return domain.Point{X: p.X, Y: p.Y}
}

// Layout is everything the table is derived from. It is rebuilt on every refresh.
type Layout struct {
	ViewportWidth  float64
	ViewportHeight float64
	ContentWidth   float64
	ContentHeight  float64
	MaxScroll      domain.Point
	ScrollX        bool
	ScrollY        bool

	StepX float64 // zero means viewport width
	StepY float64 // zero means viewport height

	// Explicit page rectangles in content coordinates, row by row; when set they
	// replace the step grid. A rectangle whose Left does not advance past its
	// predecessor starts a new row.
	Boundaries []domain.Rect

	// Below 1 a fraction of the step, otherwise pixels
	Threshold float64
	Loop      bool
}

// Resolver owns the page table
type Resolver struct {
	layout     Layout
	pages      [][]Point // pages[pageX][pageY]
	thresholdX float64
	thresholdY float64
}

// New builds the page table for a layout
func New(l Layout) *Resolver {
	if l.StepX <= 0 {
		l.StepX = l.ViewportWidth
	}
	if l.StepY <= 0 {
		l.StepY = l.ViewportHeight
	}
	r := &Resolver{layout: l}
	if len(l.Boundaries) > 0 {
		r.pages = explicitPages(l)
	} else {
		r.pages = gridPages(l)
	}
	r.thresholdX = threshold(l.Threshold, l.StepX)
	r.thresholdY = threshold(l.Threshold, l.StepY)

	tracer().P("op", "snap").Debugf("built %d columns, %d rows", len(r.pages), len(r.pages[0]))
	return r
}

func threshold(t, step float64) float64 {
	if t < 1 {
		return t * step
	}
	return t
}

// axisStops lists the page offsets of one axis: 0, -step, -2*step ... floored at the bound
func axisStops(scrollable bool, step, extent, bound float64) []float64 {
	if !scrollable || step <= 0 {
		return []float64{0}
	}
	var stops []float64
	for v := 0.0; v > -extent; v -= step {
		stops = append(stops, math.Round(math.Max(v, bound)))
	}
	if len(stops) == 0 {
		stops = []float64{0}
	}
	return stops
}

func gridPages(l Layout) [][]Point {
	xs := axisStops(l.ScrollX, l.StepX, l.ContentWidth, l.MaxScroll.X)
	ys := axisStops(l.ScrollY, l.StepY, l.ContentHeight, l.MaxScroll.Y)

	pages := make([][]Point, len(xs))
	for i, x := range xs {
		pages[i] = make([]Point, len(ys))
		for j, y := range ys {
			pages[i][j] = Point{X: x, Y: y, PageX: i, PageY: j}
		}
	}
	return pages
}

func explicitPages(l Layout) [][]Point {
	var rows [][]domain.Rect
	for k, rect := range l.Boundaries {
		if k == 0 || rect.Left <= l.Boundaries[k-1].Left {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], rect)
	}

	var pages [][]Point
	for _, row := range rows {
		for m, rect := range row {
			if m == len(pages) {
				pages = append(pages, nil)
			}
			x, y := 0.0, 0.0
			if l.ScrollX {
				x = math.Round(math.Max(-rect.Left, l.MaxScroll.X))
			}
			if l.ScrollY {
				y = math.Round(math.Max(-rect.Top, l.MaxScroll.Y))
			}
			pages[m] = append(pages[m], Point{X: x, Y: y, PageX: m, PageY: len(pages[m])})
		}
	}
	return pages
}

// Dims returns the number of columns and the row count of the first column
func (r *Resolver) Dims() (int, int) {
	return len(r.pages), len(r.pages[0])
}

// Page returns the stop at (i, j)
func (r *Resolver) Page(i, j int) (Point, bool) {
	if i < 0 || i >= len(r.pages) || j < 0 || j >= len(r.pages[i]) {
		return Point{}, false
	}
	return r.pages[i][j], true
}

// Clamp limits page indices to the table, wrapping instead when looping
func (r *Resolver) Clamp(i, j int) (int, int) {
	cols := len(r.pages)
	if r.layout.Loop {
		i = ((i % cols) + cols) % cols
	} else {
		i = clampInt(i, 0, cols-1)
	}
	rows := len(r.pages[i])
	if r.layout.Loop {
		j = ((j % rows) + rows) % rows
	} else {
		j = clampInt(j, 0, rows-1)
	}
	return i, j
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Loop reports whether the table wraps around
func (r *Resolver) Loop() bool {
	return r.layout.Loop
}

// Nearest returns the stop closest to dest. Ties go to the earlier stop in
// column-major order. Axes that do not scroll are ignored.
func (r *Resolver) Nearest(dest domain.Point) Point {
	best := r.pages[0][0]
	bestDist := math.Inf(1)
	for _, col := range r.pages {
		for _, p := range col {
			d := r.distance(dest, p)
			if d < bestDist {
				best, bestDist = p, d
			}
		}
	}
	return best
}

func (r *Resolver) distance(dest domain.Point, p Point) float64 {
	dx, dy := 0.0, 0.0
	if r.layout.ScrollX {
		dx = r.axisDelta(dest.X-p.X, r.layout.ContentWidth)
	}
	if r.layout.ScrollY {
		dy = r.axisDelta(dest.Y-p.Y, r.layout.ContentHeight)
	}
	return math.Hypot(dx, dy)
}

// axisDelta considers the wrapped copies one period away when looping
func (r *Resolver) axisDelta(d, period float64) float64 {
	d = math.Abs(d)
	if r.layout.Loop && period > 0 {
		d = math.Min(d, math.Abs(d-period))
	}
	return d
}

// Release picks the page a finished drag settles on. A drag within the threshold
// keeps the current page; a drag past it that still resolves to the current page
// advances one page against the pointer movement.
func (r *Resolver) Release(dest, start domain.Point, current Point, movingX, movingY domain.Direction) Point {
	if math.Abs(dest.X-start.X) <= r.thresholdX && math.Abs(dest.Y-start.Y) <= r.thresholdY {
		return current
	}

	p := r.Nearest(dest)
	i, j := p.PageX, p.PageY
	if r.layout.ScrollX && i == current.PageX {
		i -= int(movingX)
	}
	if r.layout.ScrollY && j == current.PageY {
		j -= int(movingY)
	}
	// stepping off either end of a loop lands on the opposite end
	i, j = r.Clamp(i, j)

	page, _ := r.Page(i, j)
	tracer().P("op", "release").Debugf("page (%d,%d) -> (%d,%d)", current.PageX, current.PageY, page.PageX, page.PageY)
	return page
}
