package simharness

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/adiboy6/routing/pkg/config"
	"github.com/adiboy6/routing/pkg/dvengine"
	"github.com/adiboy6/routing/pkg/simnet"
)

// Topology is the YAML document shape accepted by LoadTopologyFile. Routers
// run the DV engine; hosts are plain endpoints attached to exactly one
// router port. Names are optional: a blank name is replaced with a
// generated one so every node has a stable identity.
type Topology struct {
	Routers []TopologyRouter `yaml:"routers"`
	Hosts   []TopologyHost   `yaml:"hosts"`
	Links   []TopologyLink   `yaml:"links"`
}

// TopologyRouter names one DV router to instantiate.
type TopologyRouter struct {
	Name string `yaml:"name"`
}

// TopologyHost names one plain host and which router port it attaches
// to.
type TopologyHost struct {
	Name    string  `yaml:"name"`
	Router  string  `yaml:"router"`
	Port    int     `yaml:"port"`
	Latency float64 `yaml:"latency"`
}

// TopologyLink connects two routers' ports with a one-way-bookkept
// latency.
type TopologyLink struct {
	A       string  `yaml:"a"`
	APort   int     `yaml:"a_port"`
	B       string  `yaml:"b"`
	BPort   int     `yaml:"b_port"`
	Latency float64 `yaml:"latency"`
}

// nextAnonymous yields a short stable name for a node whose topology
// entry omitted one.
func nextAnonymous(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// Built is the result of loading and instantiating a Topology: the
// running network plus handles on every router, for driving and
// inspecting the simulation afterward.
type Built struct {
	Loop    *Loop
	Network *Network
	Routers map[string]*dvengine.Router
}

// LoadTopologyFile reads and parses a YAML topology file at path.
func LoadTopologyFile(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("simharness: reading topology file: %w", err)
	}
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("simharness: parsing topology file: %w", err)
	}
	return &t, nil
}

// Build instantiates a Topology into a running Network of dvengine
// routers, wires its hosts and links, and returns handles for driving
// it further (fault injection, final-state inspection).
func Build(t *Topology, policy config.Policy) (*Built, error) {
	loop := NewLoop()
	net := NewNetwork(loop)
	routers := make(map[string]*dvengine.Router, len(t.Routers))

	for _, rt := range t.Routers {
		name := rt.Name
		if name == "" {
			name = nextAnonymous("router")
		}
		if _, exists := routers[name]; exists {
			return nil, fmt.Errorf("simharness: duplicate router name %q", name)
		}
		r := dvengine.NewRouter(name, policy, net.SenderFor(name), loop.Clock(), loop)
		routers[name] = r
		net.AddEngine(r)
	}

	for _, h := range t.Hosts {
		name := h.Name
		if name == "" {
			name = nextAnonymous("host")
		}
		r, ok := routers[h.Router]
		if !ok {
			return nil, fmt.Errorf("simharness: host %q references unknown router %q", name, h.Router)
		}
		host := NewHost(name)
		net.AddHost(host)
		net.AttachHost(host, r, h.Port, h.Latency)
	}

	for _, l := range t.Links {
		a, ok := routers[l.A]
		if !ok {
			return nil, fmt.Errorf("simharness: link references unknown router %q", l.A)
		}
		b, ok := routers[l.B]
		if !ok {
			return nil, fmt.Errorf("simharness: link references unknown router %q", l.B)
		}
		net.Link(a, l.APort, b, l.BPort, l.Latency)
	}

	return &Built{Loop: loop, Network: net, Routers: routers}, nil
}

var _ simnet.Host = (*node)(nil)
