// Package advert defines the DV route advertisement packet: a value
// object carrying (destination, latency) from one router to a directly
// connected neighbor.
package advert

import (
	"fmt"

	"github.com/adiboy6/routing/pkg/simnet"
)

// Packet is a route advertisement. Destination is the host the route is
// for (the packet's transport destination is the receiving neighbor,
// tracked by the caller/port, not by this struct). Packet equality is
// not defined; packets are value objects for transport only.
type Packet struct {
	Destination simnet.Host
	Latency     float64
}

func (Packet) isPacket() {}

// New constructs an advertisement packet for destination at the given
// latency.
func New(destination simnet.Host, latency float64) Packet {
	return Packet{Destination: destination, Latency: latency}
}

func (p Packet) String() string {
	return fmt.Sprintf("<Advertisement to:%s cost:%g>", p.Destination.Name(), p.Latency)
}
