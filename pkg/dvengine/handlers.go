package dvengine

import (
	"github.com/adiboy6/routing/pkg/advert"
	"github.com/adiboy6/routing/pkg/metrics"
	"github.com/adiboy6/routing/pkg/rtable"
	"github.com/adiboy6/routing/pkg/simnet"
)

// HandleRX dispatches an inbound packet by its tagged variant: an
// advertisement runs expiry then the route-advertisement rule, a host
// discovery packet installs a static route, and anything else is
// treated as a data packet subject to the forwarding rule.
func (r *Router) HandleRX(pkt simnet.Packet, inPort int) {
	switch p := pkt.(type) {
	case advert.Packet:
		r.expireRoutes()
		r.onRouteAdvertisement(p.Destination, p.Latency, inPort)
	case simnet.HostDiscoveryPacket:
		r.addStaticRoute(p.Src, inPort)
	case simnet.DataPacket:
		r.onDataPacket(p, inPort)
	default:
		r.logger.Debug().Int("port", inPort).Msg("packet.dropped.unrecognized")
	}
}

// HandleLinkUp records port p as up with the given latency and, if
// SendOnLinkUp is set, issues a forced advertisement pass targeting only
// port p.
func (r *Router) HandleLinkUp(port int, latency float64) {
	r.ports.Set(port, latency)
	r.onLinkUp(port, latency)
}

// HandleLinkDown records port p as down, optionally poisons every route
// that used it, and always issues a triggered pass afterward.
func (r *Router) HandleLinkDown(port int) {
	r.ports.SetDown(port)
	r.onLinkDown(port)
}

// HandleTimer is the periodic tick: expire routes, then force-advertise
// to every up neighbor.
func (r *Router) HandleTimer() {
	r.expireRoutes()
	r.sendRoutes(true, allPorts)
}

// addStaticRoute installs a directly-attached route to host via port if
// one does not already exist, then always issues a triggered pass.
func (r *Router) addStaticRoute(host simnet.Host, port int) {
	if !r.table.Has(host) {
		entry := rtable.MustNewEntry(host, port, r.ports.Get(port), rtable.Forever)
		_ = r.table.Put(entry)
		r.setRoutesGauge()
		r.logger.Info().Str("destination", host.Name()).Int("port", port).Msg("route.installed.static")
	}
	r.sendRoutes(false, allPorts)
}

// onDataPacket applies the forwarding rule.
func (r *Router) onDataPacket(pkt simnet.DataPacket, inPort int) {
	entry, ok := r.table.Get(pkt.Dst)
	if !ok {
		metrics.PacketsDroppedTotal.WithLabelValues(r.name, "no_route").Inc()
		return
	}
	if entry.Latency >= r.policy.Infinity {
		metrics.PacketsDroppedTotal.WithLabelValues(r.name, "unreachable").Inc()
		return
	}
	if inPort == entry.Port && r.policy.DropHairpins {
		metrics.PacketsDroppedTotal.WithLabelValues(r.name, "hairpin").Inc()
		return
	}
	r.sender.Send(pkt, entry.Port)
	metrics.PacketsForwardedTotal.WithLabelValues(r.name).Inc()
}

// onRouteAdvertisement applies the route-advertisement rule for an
// advertisement of dest at advLatency, received on port.
func (r *Router) onRouteAdvertisement(dest simnet.Host, advLatency float64, port int) {
	local := r.ports.Get(port)
	total := advLatency + local
	now := r.now()

	if advLatency < r.policy.Infinity {
		cur, exists := r.table.Get(dest)
		install := !exists || total < cur.Latency || port == cur.Port
		if install {
			entry := rtable.MustNewEntry(dest, port, total, now+r.policy.RouteTTL)
			_ = r.table.Put(entry)
			r.setRoutesGauge()
			r.logger.Debug().Str("destination", dest.Name()).Int("port", port).Float64("latency", total).Msg("route.installed")
		}
	} else {
		cur, exists := r.table.Get(dest)
		if exists && cur.Port == port {
			if cur.Latency < r.policy.Infinity {
				entry := rtable.MustNewEntry(dest, port, r.policy.Infinity, now+r.policy.RouteTTL)
				_ = r.table.Put(entry)
				metrics.RoutesPoisonedTotal.WithLabelValues(r.name, "advertisement").Inc()
			} else {
				entry := rtable.MustNewEntry(dest, port, r.policy.Infinity, cur.ExpireTime)
				_ = r.table.Put(entry)
			}
		}
	}

	r.sendRoutes(false, allPorts)
}

// onLinkUp handles a link coming up: latency is already recorded in
// r.ports by HandleLinkUp.
func (r *Router) onLinkUp(port int, latency float64) {
	r.logger.Info().Int("port", port).Float64("latency", latency).Msg("link.up")
	if r.policy.SendOnLinkUp {
		r.sendRoutes(true, port)
	}
}

// onLinkDown handles a link going down: port is already recorded as
// down in r.ports by HandleLinkDown. Keys are snapshotted before
// mutation so poisoning every matching entry is a single logical step
// over a stable set of destinations.
func (r *Router) onLinkDown(port int) {
	r.logger.Info().Int("port", port).Msg("link.down")
	if r.policy.PoisonOnLinkDown {
		now := r.now()
		for _, dest := range r.table.Destinations() {
			entry, ok := r.table.Get(dest)
			if !ok || entry.Port != port {
				continue
			}
			poisoned := rtable.MustNewEntry(dest, port, r.policy.Infinity, now+r.policy.RouteTTL)
			_ = r.table.Put(poisoned)
			metrics.RoutesPoisonedTotal.WithLabelValues(r.name, "link_down").Inc()
		}
	}
	r.sendRoutes(false, allPorts)
}
