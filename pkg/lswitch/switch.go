// Package lswitch implements the learning-switch engine: an alternative
// to dvengine.Router that speaks the same inbound event contract but
// learns source -> port associations from data packets instead of
// running a distance-vector protocol.
package lswitch

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/adiboy6/routing/pkg/log"
	"github.com/adiboy6/routing/pkg/metrics"
	"github.com/adiboy6/routing/pkg/simnet"
)

// DefaultTimeout is the age past which a learned entry is dropped by the
// aging timer, absent an Option override.
const DefaultTimeout = 15 * time.Second

// entry pairs a port with the virtual time the host was last heard on
// it. A link-down invalidates an entry by forcing lastSeen far enough
// into the past that the next aging pass drops it.
type entry struct {
	port     int
	lastSeen time.Duration
}

// Switch is a single learning-switch instance, holding no reference to
// a concrete simulator.
type Switch struct {
	name    string
	timeout time.Duration

	table map[string]entry

	clock     simnet.Clock
	scheduler simnet.Scheduler
	sender    simnet.Sender

	logger zerolog.Logger

	cancelTimer simnet.Cancel
}

// Option configures optional Switch construction parameters.
type Option func(*Switch)

// WithLogger overrides the switch's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Switch) { s.logger = l }
}

// WithTimeout overrides the aging timeout for learned entries.
func WithTimeout(d time.Duration) Option {
	return func(s *Switch) { s.timeout = d }
}

// NewSwitch constructs a learning switch named name and starts its
// once-per-second aging timer.
func NewSwitch(name string, sender simnet.Sender, clock simnet.Clock, scheduler simnet.Scheduler, opts ...Option) *Switch {
	s := &Switch{
		name:      name,
		timeout:   DefaultTimeout,
		table:     make(map[string]entry),
		clock:     clock,
		scheduler: scheduler,
		sender:    sender,
		logger:    log.WithComponent("lswitch").With().Str("switch", name).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cancelTimer = s.scheduler.CreateTimer(time.Second, true, s.HandleTimer)
	return s
}

// Name returns the switch's name.
func (s *Switch) Name() string { return s.name }

func (s *Switch) now() time.Duration {
	return s.clock.Now()
}

// Stop cancels the switch's aging timer.
func (s *Switch) Stop() {
	if s.cancelTimer != nil {
		s.cancelTimer()
	}
}

func (s *Switch) setEntriesGauge() {
	metrics.SwitchEntriesTotal.WithLabelValues(s.name).Set(float64(len(s.table)))
}

// HandleRX dispatches an inbound packet: host-discovery packets are
// consumed silently, everything else is treated as a data packet.
func (s *Switch) HandleRX(pkt simnet.Packet, inPort int) {
	switch p := pkt.(type) {
	case simnet.HostDiscoveryPacket:
		return
	case simnet.DataPacket:
		s.onDataPacket(p, inPort)
	default:
		s.logger.Debug().Int("port", inPort).Msg("packet.dropped.unrecognized")
	}
}

// onDataPacket learns the source's port, then forwards to the learned
// port for the destination if known, otherwise floods.
func (s *Switch) onDataPacket(pkt simnet.DataPacket, inPort int) {
	if pkt.Src != nil {
		s.learn(pkt.Src.Name(), inPort)
	}

	if pkt.Dst != nil {
		if e, ok := s.table[pkt.Dst.Name()]; ok {
			s.sender.Send(pkt, e.port)
			metrics.PacketsForwardedTotal.WithLabelValues(s.name).Inc()
			return
		}
	}

	s.sender.Flood(pkt, inPort)
	metrics.SwitchFloodsTotal.WithLabelValues(s.name).Inc()
}

func (s *Switch) learn(hostName string, port int) {
	s.table[hostName] = entry{port: port, lastSeen: s.now()}
	s.setEntriesGauge()
}

// HandleLinkUp refreshes timestamps for every entry currently pointing
// at port so they are not immediately aged out by stale activity.
func (s *Switch) HandleLinkUp(port int, latency float64) {
	now := s.now()
	for name, e := range s.table {
		if e.port == port {
			e.lastSeen = now
			s.table[name] = e
		}
	}
}

// HandleLinkDown invalidates every entry pointing at port by forcing its
// timestamp far enough into the past that the next timer pass drops it.
func (s *Switch) HandleLinkDown(port int) {
	expired := s.now() - s.timeout - time.Second
	for name, e := range s.table {
		if e.port == port {
			e.lastSeen = expired
			s.table[name] = e
		}
	}
}

// HandleTimer drops every entry older than timeout.
func (s *Switch) HandleTimer() {
	now := s.now()
	changed := false
	for name, e := range s.table {
		if now-e.lastSeen > s.timeout {
			delete(s.table, name)
			changed = true
		}
	}
	if changed {
		s.setEntriesGauge()
	}
}
