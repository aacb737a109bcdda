package simharness

import "fmt"

// hostPortRing and hostPortTree are the port numbers generators reserve on
// every router for its attached host, chosen clear of whatever ports the
// generator's own inter-router links occupy.
const (
	hostPortRing = 2
	hostPortTree = 3
)

// RingTopology returns a Topology connecting n routers (named r0..r(n-1))
// in a ring, each link carrying the given latency, with one host (named
// h0..h(n-1)) attached to every router. It mirrors the dropped
// topos/ring.py generator shape from the original simulator, minus its
// tail-switch and deterministic host-count placement, which the Go
// harness doesn't need: every router gets exactly one host to seed.
func RingTopology(n int, latency float64) *Topology {
	t := &Topology{}
	if n <= 0 {
		return t
	}
	for i := 0; i < n; i++ {
		t.Routers = append(t.Routers, TopologyRouter{Name: fmt.Sprintf("r%d", i)})
		t.Hosts = append(t.Hosts, TopologyHost{
			Name: fmt.Sprintf("h%d", i), Router: fmt.Sprintf("r%d", i),
			Port: hostPortRing, Latency: latency,
		})
	}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		if n == 1 {
			break
		}
		if n == 2 && i == 1 {
			// avoid doubling the single edge between two routers
			break
		}
		t.Links = append(t.Links, TopologyLink{
			A: fmt.Sprintf("r%d", i), APort: 0,
			B: fmt.Sprintf("r%d", next), BPort: 1,
			Latency: latency,
		})
	}
	return t
}

// TreeTopology returns a Topology connecting n routers (named r0..r(n-1))
// as a complete binary tree: router i's children are 2i+1 and 2i+2, with
// one host (named h0..h(n-1)) attached to every router. It mirrors the
// dropped topos/rand_tree.py generator shape (one host per switch by
// default), minus the randomization — callers wanting randomized
// latencies can post-process the returned Topology's Links before
// calling Build.
func TreeTopology(n int, latency float64) *Topology {
	t := &Topology{}
	for i := 0; i < n; i++ {
		t.Routers = append(t.Routers, TopologyRouter{Name: fmt.Sprintf("r%d", i)})
		t.Hosts = append(t.Hosts, TopologyHost{
			Name: fmt.Sprintf("h%d", i), Router: fmt.Sprintf("r%d", i),
			Port: hostPortTree, Latency: latency,
		})
	}
	for i := 0; i < n; i++ {
		children := [2]int{2*i + 1, 2*i + 2}
		for childIdx, child := range children {
			if child >= n {
				continue
			}
			t.Links = append(t.Links, TopologyLink{
				A: fmt.Sprintf("r%d", i), APort: childIdx + 1,
				B: fmt.Sprintf("r%d", child), BPort: 0,
				Latency: latency,
			})
		}
	}
	return t
}

// CandyTopology returns the "candy" topology from topos/candy.py: two
// switches s1 and s2 each carrying a pair of hosts (h1a/h1b and
// h2a/h2b), joined by two redundant switch paths of differing length —
// a short hop through s3 and a longer one through s4 and s5. It exists
// to exercise DV loop-avoidance: s1 and s2 always have two candidate
// routes to each other's hosts, and convergence must settle on whichever
// path is actually cheaper.
//
// When longerIsFaster is false every inter-switch hop costs latency, so
// the short s1-s3-s2 path wins. When true, the short path's hops are
// scaled up (3x and 2x latency) past the long path's middle hop (2x
// latency), so the longer s1-s4-s5-s2 path ends up cheaper overall.
func CandyTopology(longerIsFaster bool, latency float64) *Topology {
	t := &Topology{
		Routers: []TopologyRouter{
			{Name: "s1"}, {Name: "s2"}, {Name: "s3"}, {Name: "s4"}, {Name: "s5"},
		},
		Hosts: []TopologyHost{
			{Name: "h1a", Router: "s1", Port: 0, Latency: latency},
			{Name: "h1b", Router: "s1", Port: 1, Latency: latency},
			{Name: "h2a", Router: "s2", Port: 0, Latency: latency},
			{Name: "h2b", Router: "s2", Port: 1, Latency: latency},
		},
	}

	shortLeg1, shortLeg2 := latency, latency
	longMiddle := latency
	if longerIsFaster {
		shortLeg1, shortLeg2 = latency*3, latency*2
		longMiddle = latency * 2
	}

	t.Links = append(t.Links,
		TopologyLink{A: "s1", APort: 2, B: "s3", BPort: 0, Latency: shortLeg1},
		TopologyLink{A: "s3", APort: 1, B: "s2", BPort: 2, Latency: shortLeg2},
		TopologyLink{A: "s1", APort: 3, B: "s4", BPort: 0, Latency: latency},
		TopologyLink{A: "s4", APort: 1, B: "s5", BPort: 0, Latency: longMiddle},
		TopologyLink{A: "s5", APort: 1, B: "s2", BPort: 3, Latency: latency},
	)
	return t
}
