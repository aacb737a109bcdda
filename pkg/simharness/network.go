package simharness

import (
	"fmt"
	"time"

	"github.com/adiboy6/routing/pkg/simnet"
)

// node is a named simnet.Host. Hosts in this harness are plain
// endpoints; routers and switches are Engines wired to a Node's ports.
type node struct {
	name string
}

func (n *node) Name() string { return n.name }

// NewHost returns a simnet.Host identified by name, for use as a data
// packet source/destination or as a topology endpoint.
func NewHost(name string) simnet.Host {
	return &node{name: name}
}

// Engine is satisfied by *dvengine.Router and *lswitch.Switch: the
// inbound event surface every node type in this harness drives.
type Engine interface {
	simnet.Host
	HandleRX(pkt simnet.Packet, inPort int)
	HandleLinkUp(port int, latency float64)
	HandleLinkDown(port int)
}

// link connects one port on one engine to one port on another, with a
// one-way latency used purely for bookkeeping (the harness delivers
// instantaneously in virtual time; latency is reported via HandleLinkUp
// for the engine's own port-table accounting).
type link struct {
	aEngine, bEngine Engine
	aPort, bPort     int
	latency          float64
	up               bool
}

// Network wires a set of engines and plain hosts together with links,
// and implements simnet.Sender per engine so each engine's Send / Flood
// calls on its sender reach the intended neighbor through the shared Loop.
type Network struct {
	loop    *Loop
	engines map[string]Engine
	hosts   map[string]simnet.Host
	links   []*link
	// portLinks maps (engineName, port) to the link using it.
	portLinks map[string]map[int]*link
}

// NewNetwork returns an empty network driven by loop.
func NewNetwork(loop *Loop) *Network {
	return &Network{
		loop:      loop,
		engines:   make(map[string]Engine),
		hosts:     make(map[string]simnet.Host),
		portLinks: make(map[string]map[int]*link),
	}
}

// AddEngine registers e under its own name so links can reference it.
func (n *Network) AddEngine(e Engine) {
	n.engines[e.Name()] = e
	n.portLinks[e.Name()] = make(map[int]*link)
}

// AddHost registers a plain host (no engine behind it).
func (n *Network) AddHost(h simnet.Host) {
	n.hosts[h.Name()] = h
}

// Link connects port aPort on engine a to port bPort on engine b with
// the given latency, then immediately delivers link-up to both sides.
func (n *Network) Link(a Engine, aPort int, b Engine, bPort int, latency float64) {
	l := &link{aEngine: a, bEngine: b, aPort: aPort, bPort: bPort, latency: latency}
	n.links = append(n.links, l)
	n.portLinks[a.Name()][aPort] = l
	n.portLinks[b.Name()][bPort] = l
	n.SetLinkUp(l)
}

// SetLinkUp marks l up and notifies both engines.
func (n *Network) SetLinkUp(l *link) {
	l.up = true
	l.aEngine.HandleLinkUp(l.aPort, l.latency)
	l.bEngine.HandleLinkUp(l.bPort, l.latency)
}

// SetLinkDown marks l down and notifies both engines.
func (n *Network) SetLinkDown(l *link) {
	l.up = false
	l.aEngine.HandleLinkDown(l.aPort)
	l.bEngine.HandleLinkDown(l.bPort)
}

// LinkBetween returns the link between a and b, if any, for use with
// SetLinkUp/SetLinkDown in tests and CLI fault injection.
func (n *Network) LinkBetween(aName, bName string) (*link, bool) {
	for _, l := range n.links {
		if (l.aEngine.Name() == aName && l.bEngine.Name() == bName) ||
			(l.aEngine.Name() == bName && l.bEngine.Name() == aName) {
			return l, true
		}
	}
	return nil, false
}

// AttachHost connects host h to engine e's port via a host-discovery
// packet, as the simulator does implicitly on attachment.
func (n *Network) AttachHost(h simnet.Host, e Engine, port int, latency float64) {
	n.portLinks[e.Name()][port] = &link{aEngine: e, aPort: port, latency: latency, up: true}
	e.HandleLinkUp(port, latency)
	n.deliver(e, simnet.HostDiscoveryPacket{Src: h}, port)
}

func (n *Network) deliver(to Engine, pkt simnet.Packet, port int) {
	n.loop.CreateTimer(0, false, func() {
		to.HandleRX(pkt, port)
	})
}

// sender implements simnet.Sender for the engine named from; it is
// handed to the engine's constructor.
type sender struct {
	net  *Network
	from string
}

// SenderFor returns the simnet.Sender an engine named engineName should
// use to reach its neighbors through n.
func (n *Network) SenderFor(engineName string) simnet.Sender {
	return &sender{net: n, from: engineName}
}

func (s *sender) Send(pkt simnet.Packet, port int) {
	l, ok := s.net.portLinks[s.from][port]
	if !ok || !l.up {
		return
	}
	peer, peerPort := s.net.otherSide(l, s.from)
	if peer == nil {
		return
	}
	s.net.deliver(peer, pkt, peerPort)
}

func (s *sender) Flood(pkt simnet.Packet, exceptPort int) {
	for port, l := range s.net.portLinks[s.from] {
		if port == exceptPort || !l.up {
			continue
		}
		peer, peerPort := s.net.otherSide(l, s.from)
		if peer == nil {
			continue
		}
		s.net.deliver(peer, pkt, peerPort)
	}
}

func (n *Network) otherSide(l *link, from string) (Engine, int) {
	if l.aEngine != nil && l.aEngine.Name() == from {
		return l.bEngine, l.bPort
	}
	if l.bEngine != nil && l.bEngine.Name() == from {
		return l.aEngine, l.aPort
	}
	return nil, 0
}

func (n *Network) String() string {
	return fmt.Sprintf("Network{engines:%d hosts:%d links:%d}", len(n.engines), len(n.hosts), len(n.links))
}

// RunToQuiescence runs the loop until the given virtual-time horizon is
// reached. DV convergence does not self-terminate (periodic timers keep
// firing), so a horizon is required rather than running until the queue
// empties.
func (n *Network) RunToQuiescence(horizon time.Duration) {
	n.loop.Run(horizon)
}
