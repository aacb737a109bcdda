package integration

import (
	"math"

	"github.com/adiboy6/routing/pkg/simharness"
)

// graphEdge is one side of an undirected edge in a topology's node graph.
type graphEdge struct {
	to     string
	weight float64
}

// topologyGraph turns a Topology's routers, hosts and links into an
// undirected weighted graph keyed by node name, so a property test can
// compute the true shortest path independently of the DV engine under
// test.
func topologyGraph(topo *simharness.Topology) map[string][]graphEdge {
	g := make(map[string][]graphEdge)
	add := func(a, b string, weight float64) {
		g[a] = append(g[a], graphEdge{to: b, weight: weight})
		g[b] = append(g[b], graphEdge{to: a, weight: weight})
	}
	for _, r := range topo.Routers {
		if _, ok := g[r.Name]; !ok {
			g[r.Name] = nil
		}
	}
	for _, h := range topo.Hosts {
		add(h.Router, h.Name, h.Latency)
	}
	for _, l := range topo.Links {
		add(l.A, l.B, l.Latency)
	}
	return g
}

// shortestDistances runs Dijkstra from src over g, returning the shortest
// distance to every reachable node. Unreachable nodes are absent.
func shortestDistances(g map[string][]graphEdge, src string) map[string]float64 {
	dist := map[string]float64{src: 0}
	visited := make(map[string]bool)
	for {
		u, best := "", math.Inf(1)
		for node, d := range dist {
			if !visited[node] && d < best {
				u, best = node, d
			}
		}
		if u == "" {
			break
		}
		visited[u] = true
		for _, e := range g[u] {
			if nd := best + e.weight; nd < dist[e.to] || !contains(dist, e.to) {
				dist[e.to] = nd
			}
		}
	}
	return dist
}

func contains(dist map[string]float64, node string) bool {
	_, ok := dist[node]
	return ok
}
