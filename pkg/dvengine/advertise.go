package dvengine

import (
	"github.com/adiboy6/routing/pkg/advert"
	"github.com/adiboy6/routing/pkg/metrics"
	"github.com/adiboy6/routing/pkg/rtable"
)

// sendRoutes runs expiry-independent advertisement: it computes the
// target port set (every up port, or a single port when singlePort is
// not allPorts), advertises the current table to each, then snapshots
// the table as prevAdv for the next triggered pass's dedup check.
func (r *Router) sendRoutes(force bool, singlePort int) {
	var targets []int
	if singlePort == allPorts {
		targets = r.ports.UpPorts()
	} else if r.ports.IsUp(singlePort) {
		targets = []int{singlePort}
	}

	for _, port := range targets {
		r.sendSingleRoute(force, port)
	}
	r.prevAdv = r.table.Snapshot()
}

// sendSingleRoute advertises the router's table to the neighbor on
// port, applying split horizon and poison reverse before the transport
// reaches the wire, and (unless force) suppressing advertisements whose
// transformed value is unchanged since the last pass.
func (r *Router) sendSingleRoute(force bool, port int) {
	for _, dest := range r.table.Destinations() {
		entry, ok := r.table.Get(dest)
		if !ok {
			continue
		}

		if entry.Port == port && r.policy.SplitHorizon {
			continue
		}

		advLatency := entry.Latency
		if entry.Port == port && r.policy.PoisonReverse {
			advLatency = r.policy.Infinity
		}

		if !force {
			// Under split horizon nothing was advertised on port for a
			// previous entry learned through it, so there is nothing to
			// compare against.
			if prev, ok := r.prevAdv.Get(dest); ok && !(prev.Port == port && r.policy.SplitHorizon) {
				prevAdv := prev.Latency
				if prev.Port == port && r.policy.PoisonReverse {
					prevAdv = r.policy.Infinity
				}
				if prevAdv == advLatency {
					metrics.AdvertisementsSuppressedTotal.WithLabelValues(r.name).Inc()
					continue
				}
			}
		}

		r.sender.Send(advert.New(dest, advLatency), port)
		metrics.AdvertisementsSentTotal.WithLabelValues(r.name).Inc()
	}
}

// expireRoutes removes or poisons every non-static entry whose
// ExpireTime has passed. Static (Forever) entries are skipped and
// iteration continues rather than stopping at the first one.
func (r *Router) expireRoutes() {
	now := r.now()
	changed := false

	for _, dest := range r.table.Destinations() {
		entry, ok := r.table.Get(dest)
		if !ok || entry.IsStatic() {
			continue
		}
		if !entry.IsExpired(now) {
			continue
		}

		if !r.policy.PoisonExpired {
			r.table.Delete(dest)
			metrics.RoutesExpiredTotal.WithLabelValues(r.name).Inc()
			changed = true
			continue
		}

		if entry.Latency < r.policy.Infinity {
			poisoned := rtable.MustNewEntry(dest, entry.Port, r.policy.Infinity, now+r.policy.RouteTTL)
			_ = r.table.Put(poisoned)
			metrics.RoutesPoisonedTotal.WithLabelValues(r.name, "expiry").Inc()
			changed = true
		} else {
			r.table.Delete(dest)
			metrics.RoutesExpiredTotal.WithLabelValues(r.name).Inc()
			changed = true
		}
	}

	if changed {
		r.setRoutesGauge()
	}
}
