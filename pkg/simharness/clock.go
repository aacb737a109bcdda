// Package simharness is the non-core reference implementation of the
// pkg/simnet collaborator contracts: a virtual-clock discrete-event
// scheduler, a packet transport wiring engines to their neighbors, and
// a minimal topology loader. Nothing here is part of the protocol core;
// it exists to drive dvengine.Router and lswitch.Switch deterministically
// from tests and from the CLI.
package simharness

import (
	"container/heap"
	"sync"
	"time"

	"github.com/adiboy6/routing/pkg/simnet"
)

// VirtualClock is a simnet.Clock backed by an explicit counter rather
// than wall time, advanced only by the Loop that owns it.
type VirtualClock struct {
	mu  sync.RWMutex
	now time.Duration
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *VirtualClock) set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// timerEvent is a single scheduled callback, ordered by fire time then
// insertion sequence to keep simultaneous events deterministic.
type timerEvent struct {
	fireAt    time.Duration
	interval  time.Duration
	recurring bool
	cb        func()
	seq       uint64
	cancelled bool
	index     int
}

type eventHeap []*timerEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].fireAt != h[j].fireAt {
		return h[i].fireAt < h[j].fireAt
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *eventHeap) Push(x any) {
	e := x.(*timerEvent)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Loop is a single-threaded discrete-event scheduler: it owns a
// VirtualClock and a min-heap of pending timer events, and implements
// simnet.Scheduler by enqueuing callbacks instead of using wall-clock
// timers. Run drains the queue, advancing the clock to each event's
// fire time in turn, mirroring the single-threaded-per-router model the
// protocol core assumes.
type Loop struct {
	clock  *VirtualClock
	events eventHeap
	seq    uint64
}

// NewLoop returns an empty, ready-to-use event loop.
func NewLoop() *Loop {
	l := &Loop{clock: &VirtualClock{}}
	heap.Init(&l.events)
	return l
}

// Clock returns the loop's virtual clock, for wiring into engines.
func (l *Loop) Clock() *VirtualClock { return l.clock }

// CreateTimer implements simnet.Scheduler.
func (l *Loop) CreateTimer(interval time.Duration, recurring bool, cb func()) simnet.Cancel {
	e := &timerEvent{
		fireAt:    l.clock.Now() + interval,
		interval:  interval,
		recurring: recurring,
		cb:        cb,
		seq:       l.seq,
	}
	l.seq++
	heap.Push(&l.events, e)
	return func() { e.cancelled = true }
}

// Run drains the event queue, invoking each callback in fire-time order
// and advancing the virtual clock to match, until the queue is empty or
// until is reached (whichever comes first when until > 0).
func (l *Loop) Run(until time.Duration) {
	for l.events.Len() > 0 {
		next := l.events[0]
		if until > 0 && next.fireAt > until {
			break
		}
		heap.Pop(&l.events)
		if next.cancelled {
			continue
		}
		l.clock.set(next.fireAt)
		next.cb()
		if next.recurring && !next.cancelled {
			next.fireAt += next.interval
			next.seq = l.seq
			l.seq++
			heap.Push(&l.events, next)
		}
	}
	if until > 0 && l.clock.Now() < until {
		l.clock.set(until)
	}
}

// Pending reports whether any timer events remain queued.
func (l *Loop) Pending() bool {
	return l.events.Len() > 0
}
