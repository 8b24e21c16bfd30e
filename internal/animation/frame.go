package animation

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback
type FrameID uint64

// Scheduler delivers callbacks at display-frame boundaries
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// FrameLoop is a Scheduler pumped by its host: each Tick runs the callbacks
// requested before it. Callbacks requested during a tick wait for the next one.
type FrameLoop struct {
	mu      sync.Mutex
	nextID  FrameID
	pending []frameRequest
	running map[FrameID]bool // callbacks of the tick in progress
}

// NewFrameLoop creates an empty frame loop
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// RequestFrame queues fn for the next tick
func (l *FrameLoop) RequestFrame(fn func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending = append(l.pending, frameRequest{id: l.nextID, fn: fn})
	return l.nextID
}

// CancelFrame drops a queued callback; unknown ids are ignored
func (l *FrameLoop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.pending {
		if r.id == id {
			l.pending = append(l.pending[:i:i], l.pending[i+1:]...)
			return
		}
	}
	delete(l.running, id)
}

// Pending reports whether any callback waits for a tick
func (l *FrameLoop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending) > 0
}

// Tick runs one frame and returns how many callbacks ran
func (l *FrameLoop) Tick(now time.Time) int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.running = make(map[FrameID]bool, len(batch))
	for _, r := range batch {
		l.running[r.id] = true
	}
	l.mu.Unlock()

	ran := 0
	for _, r := range batch {
		if !l.take(r.id) {
			// cancelled by an earlier callback of this tick
			continue
		}
		r.fn(now)
		ran++
	}
	return ran
}

func (l *FrameLoop) take(id FrameID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok := l.running[id]
	delete(l.running, id)
	return ok
}
