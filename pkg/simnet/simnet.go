// Package simnet defines the collaborator contracts an engine in this
// module depends on. The simulator event loop, timer source, virtual
// clock, and packet transport are all external to the protocol engines;
// simnet is the seam between them.
//
// Nothing in this package talks to a real network. It only describes the
// shape of the simulator that drives an engine, so engines can be built
// and tested against a fake without ever importing a concrete simulator.
package simnet

import "time"

// Host is an opaque endpoint identity. Equality and hashing are whatever
// the concrete implementation's equality/hashing are (Go interface
// comparison for pointer-backed implementations, as is conventional).
type Host interface {
	Name() string
}

// Packet is implemented by every message type an engine can receive or
// send. The marker method keeps arbitrary values from satisfying the
// interface by accident.
type Packet interface {
	isPacket()
}

// Clock exposes the simulator's virtual time.
type Clock interface {
	Now() time.Duration
}

// Cancel stops a timer previously created with Scheduler.CreateTimer.
// Calling Cancel more than once, or after the timer has already fired
// and was not recurring, is a no-op.
type Cancel func()

// Scheduler lets an engine arrange to be called back later without
// depending on any concrete timer implementation. Both CreateTimer and
// Send/Flood (via Sender) are non-blocking and cannot fail synchronously.
type Scheduler interface {
	// CreateTimer invokes cb after interval. If recurring is true, cb is
	// invoked again every interval until Cancel is called.
	CreateTimer(interval time.Duration, recurring bool, cb func()) Cancel
}

// Sender hands outbound packets back to the simulator for delivery.
type Sender interface {
	// Send emits pkt on a single port.
	Send(pkt Packet, port int)
	// Flood emits pkt on every up port except exceptPort. Pass a negative
	// port number to flood on every up port.
	Flood(pkt Packet, exceptPort int)
}

// HostDiscoveryPacket is delivered implicitly when a host attaches to a
// port. It carries no payload of its own; Src identifies the host.
type HostDiscoveryPacket struct {
	Src Host
}

func (HostDiscoveryPacket) isPacket() {}

// DataPacket is an ordinary payload-carrying packet, forwarded hop by
// hop toward Dst. Trace and TTL mirror the source simulator's Packet
// base class fields and are not interpreted by protocol logic; callers
// may use them for tracing forwarded paths.
type DataPacket struct {
	Src, Dst Host
	Trace    []string
	TTL      int
	Payload  any
}

func (DataPacket) isPacket() {}

