package rtable

import (
	"fmt"
	"math"

	"github.com/adiboy6/routing/pkg/simnet"
)

// Forever is the sentinel expire time for directly-attached static
// routes; such entries are never evicted by expiry.
const Forever = math.MaxFloat64

// Entry is an immutable record of a route to Destination: the egress
// Port, the route's Latency, and the virtual-clock ExpireTime at which
// it becomes stale (or Forever).
type Entry struct {
	Destination simnet.Host
	Port        int
	Latency     float64
	ExpireTime  float64
}

// NewEntry validates and constructs a table entry. It returns
// ErrInvalidEntry if destination is nil, port is negative, or latency
// or expireTime is NaN. Infinite and negative latencies are accepted.
func NewEntry(destination simnet.Host, port int, latency, expireTime float64) (Entry, error) {
	if destination == nil {
		return Entry{}, fmt.Errorf("%w: destination is nil", ErrInvalidEntry)
	}
	if port < 0 {
		return Entry{}, fmt.Errorf("%w: port %d is not a valid port number", ErrInvalidEntry, port)
	}
	if math.IsNaN(latency) {
		return Entry{}, fmt.Errorf("%w: latency is not numeric", ErrInvalidEntry)
	}
	if math.IsNaN(expireTime) {
		return Entry{}, fmt.Errorf("%w: expire time is not numeric", ErrInvalidEntry)
	}
	return Entry{
		Destination: destination,
		Port:        port,
		Latency:     latency,
		ExpireTime:  expireTime,
	}, nil
}

// MustNewEntry panics if construction fails. Used by call sites within
// this module that construct entries from already-validated state
// (e.g. route-advertisement and expiry processing), where an error here
// indicates a bug in the caller rather than bad external input.
func MustNewEntry(destination simnet.Host, port int, latency, expireTime float64) Entry {
	e, err := NewEntry(destination, port, latency, expireTime)
	if err != nil {
		panic(err)
	}
	return e
}

// IsExpired reports whether now is strictly past e.ExpireTime. A Forever
// entry is never expired.
func (e Entry) IsExpired(now float64) bool {
	if e.ExpireTime == Forever {
		return false
	}
	return now > e.ExpireTime
}

// IsStatic reports whether e was installed as a directly-attached route
// that never times out.
func (e Entry) IsStatic() bool {
	return e.ExpireTime == Forever
}

// String renders the entry as "<name> p:<port> l:<latency> e:<seconds-until-expiry>".
func (e Entry) String(now float64) string {
	if e.ExpireTime == Forever {
		return fmt.Sprintf("%-6s p:%-3d l:%-4g e:forever", e.Destination.Name(), e.Port, e.Latency)
	}
	return fmt.Sprintf("%-6s p:%-3d l:%-4g e:%0.2f", e.Destination.Name(), e.Port, e.Latency, e.ExpireTime-now)
}

// Dump renders the entry as the fixed four-column row used by Table's
// String method: name, port, latency, seconds-until-expiry.
func (e Entry) Dump(now float64) string {
	if e.ExpireTime == Forever {
		return fmt.Sprintf("%-6s %-3d %-4g forever", e.Destination.Name(), e.Port, e.Latency)
	}
	return fmt.Sprintf("%-6s %-3d %-4g %0.2f", e.Destination.Name(), e.Port, e.Latency, e.ExpireTime-now)
}
