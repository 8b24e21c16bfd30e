// Package threshold implements one-shot watchers that fire when the scroll
// position crosses a line near a bound while moving toward it.
package threshold

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"scrollkit/internal/domain"
	"scrollkit/internal/eventbus"
)

func tracer() tracing.Trace {
	return tracing.Select("scrollkit")
}

// Edge selects which bound of an axis a trigger line is measured from
type Edge int

const (
	EdgeNear Edge = iota // the 0 bound
	EdgeFar              // the maxScroll bound
)

// State of a watcher
type State int

const (
	Armed State = iota
	Fired
	Disabled
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "disabled"
	}
}

// Trigger describes when a watcher fires. The line sits at bound+Offset; moving
// in the negative direction it fires at or below the line, moving positive at or above.
type Trigger struct {
	Axis      domain.Axis
	Direction domain.Direction
	Edge      Edge
	Offset    float64
	Event     domain.EventType // EventPullingUp or EventPullingDown
}

// Watcher is one registered trigger
type Watcher struct {
	ID      int
	Trigger Trigger
	state   State
}

// State reports the watcher's current state
func (w *Watcher) State() State {
	return w.state
}

// BoundsFunc returns the current lower bounds (maxScrollX, maxScrollY)
type BoundsFunc func() domain.Point

// Set holds the watchers of one engine and observes its scroll stream
type Set struct {
	bus      eventbus.EventBus
	bounds   BoundsFunc
	watchers []*Watcher
	nextID   int
	unsub    func()
}

// NewSet creates a watcher set fed by the scroll events published on bus
func NewSet(bus eventbus.EventBus, bounds BoundsFunc) *Set {
	s := &Set{bus: bus, bounds: bounds}
	s.unsub = bus.Subscribe(domain.EventScroll, func(e eventbus.DomainEvent) {
		if se, ok := e.(domain.ScrollEvent); ok {
			s.Observe(se.Pos, se.MovingX, se.MovingY)
		}
	})
	return s
}

// Add registers an armed watcher and returns its id
func (s *Set) Add(t Trigger) (int, error) {
	if t.Direction == domain.DirectionNone {
		return 0, &domain.ConfigurationError{Field: "threshold.direction", Reason: "must be negative or positive"}
	}
	if t.Event != domain.EventPullingUp && t.Event != domain.EventPullingDown {
		return 0, &domain.ConfigurationError{Field: "threshold.event", Reason: fmt.Sprintf("unsupported event %q", t.Event)}
	}
	s.nextID++
	s.watchers = append(s.watchers, &Watcher{ID: s.nextID, Trigger: t})
	tracer().P("op", "watch").Debugf("added watcher %d on %s, offset %.0f", s.nextID, t.Axis, t.Offset)
	return s.nextID, nil
}

// Get looks up a watcher
func (s *Set) Get(id int) (*Watcher, bool) {
	for _, w := range s.watchers {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// Remove drops a watcher
func (s *Set) Remove(id int) bool {
	for i, w := range s.watchers {
		if w.ID == id {
			s.watchers = append(s.watchers[:i:i], s.watchers[i+1:]...)
			return true
		}
	}
	return false
}

// Rearm lets a fired or disabled watcher fire again
func (s *Set) Rearm(id int) error {
	w, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("watcher %d: %w", id, domain.ErrInvalidCall)
	}
	w.state = Armed
	tracer().P("op", "watch").Debugf("re-armed watcher %d", id)
	return nil
}

// Disable stops a watcher from observing until it is re-armed
func (s *Set) Disable(id int) error {
	w, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("watcher %d: %w", id, domain.ErrInvalidCall)
	}
	w.state = Disabled
	return nil
}

// Observe checks every armed watcher against a position sample
func (s *Set) Observe(pos domain.Point, movingX, movingY domain.Direction) {
	bounds := s.bounds()
	for _, w := range append([]*Watcher(nil), s.watchers...) {
		if w.state != Armed {
			continue
		}
		t := w.Trigger
		moving := movingY
		if t.Axis == domain.AxisX {
			moving = movingX
		}
		if moving != t.Direction {
			continue
		}

		line := t.Offset
		if t.Edge == EdgeFar {
			line += t.Axis.Of(bounds)
		}
		p := t.Axis.Of(pos)
		crossed := p <= line
		if t.Direction == domain.DirectionPositive {
			crossed = p >= line
		}
		if !crossed {
			continue
		}

		// disarm before publishing so a handler's own scroll cannot fire it again
		w.state = Fired
		tracer().P("op", "watch").Infof("watcher %d fired at %.0f (line %.0f)", w.ID, p, line)
		s.bus.Publish(eventFor(t.Event, w.ID))
	}
}

func eventFor(t domain.EventType, id int) domain.DomainEvent {
	if t == domain.EventPullingDown {
		return domain.PullingDownEvent{WatcherID: id}
	}
	return domain.PullingUpEvent{WatcherID: id}
}

// Close stops observing the scroll stream
func (s *Set) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}
