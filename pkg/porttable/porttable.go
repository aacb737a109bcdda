// Package porttable implements the sparse per-router port state: for
// each port number, either down or up with a link latency.
package porttable

import "sort"

// Down is the sentinel latency returned by Get for a port that is down,
// unset, or out of range.
const Down = -1.0

// PortInfo pairs a port number with the latency of the link attached to
// it. Returned only for ports that are up.
type PortInfo struct {
	Port    int
	Latency float64
}

// Table is a sparse array of port states, indexed by port number. The
// zero value is ready to use.
type Table struct {
	latencies []float64 // latencies[i] < 0 means port i is down
}

// Set records port p as up with the given latency, or down when latency
// is negative. It extends internal storage as needed so that p is
// addressable. Re-setting the same value is not an error.
func (t *Table) Set(p int, latencyOrDown float64) {
	if p < 0 {
		return
	}
	for len(t.latencies) <= p {
		t.latencies = append(t.latencies, Down)
	}
	if latencyOrDown < 0 {
		t.latencies[p] = Down
		return
	}
	t.latencies[p] = latencyOrDown
}

// SetDown marks port p as down.
func (t *Table) SetDown(p int) {
	t.Set(p, Down)
}

// Get returns the latency of port p if it is up, or Down otherwise.
// Negative or out-of-range ports return Down without error.
func (t *Table) Get(p int) float64 {
	if p < 0 || p >= len(t.latencies) {
		return Down
	}
	return t.latencies[p]
}

// IsUp reports whether port p is currently up.
func (t *Table) IsUp(p int) bool {
	return t.Get(p) >= 0
}

// UpPorts returns the port numbers currently up, in ascending order.
func (t *Table) UpPorts() []int {
	ports := make([]int, 0, len(t.latencies))
	for i, l := range t.latencies {
		if l >= 0 {
			ports = append(ports, i)
		}
	}
	sort.Ints(ports)
	return ports
}

// UpWithLatency returns (port, latency) pairs for every up port, in
// ascending port order.
func (t *Table) UpWithLatency() []PortInfo {
	infos := make([]PortInfo, 0, len(t.latencies))
	for i, l := range t.latencies {
		if l >= 0 {
			infos = append(infos, PortInfo{Port: i, Latency: l})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Port < infos[j].Port })
	return infos
}

// Len returns the number of addressable port slots (the highest port
// ever set, plus one). It is not the count of up ports.
func (t *Table) Len() int {
	return len(t.latencies)
}
