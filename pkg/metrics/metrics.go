// Package metrics exposes Prometheus collectors for the DV router and
// learning switch engines. Engines update these as a side effect of
// protocol events; nothing in the protocol core reads them back.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RoutesTotal tracks the current size of a router's routing table.
	RoutesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routesim_routes_total",
			Help: "Current number of entries in a router's routing table",
		},
		[]string{"router"},
	)

	// AdvertisementsSentTotal counts advertisement packets actually sent.
	AdvertisementsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_advertisements_sent_total",
			Help: "Total route advertisement packets sent by a router",
		},
		[]string{"router"},
	)

	// AdvertisementsSuppressedTotal counts advertisements skipped by a
	// triggered pass because the advertised value did not change.
	AdvertisementsSuppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_advertisements_suppressed_total",
			Help: "Total route advertisements suppressed (unchanged since last triggered pass)",
		},
		[]string{"router"},
	)

	// RoutesPoisonedTotal counts transitions of a route entry into the
	// poisoned state, for any reason (expiry, link down, poisoned advert).
	RoutesPoisonedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_routes_poisoned_total",
			Help: "Total route entries poisoned by a router",
		},
		[]string{"router", "reason"},
	)

	// RoutesExpiredTotal counts entries removed by expiry: any expired
	// entry when POISON_EXPIRED is disabled, or an already-poisoned entry
	// whose TTL has lapsed when it is enabled.
	RoutesExpiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_routes_expired_total",
			Help: "Total route entries removed by expiry",
		},
		[]string{"router"},
	)

	// PacketsDroppedTotal counts data packets dropped on the data path.
	PacketsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_packets_dropped_total",
			Help: "Total data packets dropped",
		},
		[]string{"router", "reason"},
	)

	// PacketsForwardedTotal counts data packets forwarded.
	PacketsForwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_packets_forwarded_total",
			Help: "Total data packets forwarded",
		},
		[]string{"router"},
	)

	// SwitchEntriesTotal tracks the current size of a learning switch's
	// forwarding table.
	SwitchEntriesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "routesim_switch_entries_total",
			Help: "Current number of entries in a learning switch's table",
		},
		[]string{"switch"},
	)

	// SwitchFloodsTotal counts packets flooded by a learning switch
	// because the destination was not yet learned.
	SwitchFloodsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routesim_switch_floods_total",
			Help: "Total packets flooded by a learning switch",
		},
		[]string{"switch"},
	)
)

// Register registers every collector in this package with r. It is not
// idempotent: a second call with the same registerer returns the
// duplicate-registration error. Call it from main, not from package
// init, so tests can use their own registries.
func Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		RoutesTotal,
		AdvertisementsSentTotal,
		AdvertisementsSuppressedTotal,
		RoutesPoisonedTotal,
		RoutesExpiredTotal,
		PacketsDroppedTotal,
		PacketsForwardedTotal,
		SwitchEntriesTotal,
		SwitchFloodsTotal,
	}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
