// Package metrics holds the Prometheus collectors updated by the DV
// router and learning switch engines. See pkg/metrics/metrics.go for the
// full list; Register wires them into a prometheus.Registerer.
package metrics
