package dvengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiboy6/routing/pkg/advert"
	"github.com/adiboy6/routing/pkg/config"
	"github.com/adiboy6/routing/pkg/simnet"
)

type fakeHost string

func (h fakeHost) Name() string { return string(h) }

type sentPacket struct {
	pkt  simnet.Packet
	port int
}

type fakeSender struct {
	sent []sentPacket
}

func (f *fakeSender) Send(pkt simnet.Packet, port int) {
	f.sent = append(f.sent, sentPacket{pkt, port})
}

func (f *fakeSender) Flood(pkt simnet.Packet, exceptPort int) {}

func (f *fakeSender) advertisementsOnPort(port int) []advert.Packet {
	var out []advert.Packet
	for _, s := range f.sent {
		if s.port != port {
			continue
		}
		if a, ok := s.pkt.(advert.Packet); ok {
			out = append(out, a)
		}
	}
	return out
}

type fakeClock struct{ t time.Duration }

func (c *fakeClock) Now() time.Duration { return c.t }

type fakeScheduler struct{}

func (fakeScheduler) CreateTimer(interval time.Duration, recurring bool, cb func()) simnet.Cancel {
	return func() {}
}

func newTestRouter(name string, policy config.Policy) (*Router, *fakeSender, *fakeClock) {
	sender := &fakeSender{}
	clock := &fakeClock{}
	r := NewRouter(name, policy, sender, clock, fakeScheduler{})
	return r, sender, clock
}

func TestAddStaticRouteInstallsForeverEntry(t *testing.T) {
	r, _, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	h2 := fakeHost("h2")

	r.HandleRX(simnet.HostDiscoveryPacket{Src: h2}, 0)

	entry, ok := r.table.Get(h2)
	require.True(t, ok)
	assert.Equal(t, 0, entry.Port)
	assert.True(t, entry.IsStatic())
}

func TestRouteAdvertisementInstallsBetterRoute(t *testing.T) {
	r, _, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")

	r.HandleRX(advert.New(dest, 1), 0)

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, 2.0, entry.Latency)
	assert.Equal(t, 0, entry.Port)
}

func TestRouteAdvertisementRejectsWorseRouteFromDifferentPort(t *testing.T) {
	r, _, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")

	r.HandleRX(advert.New(dest, 1), 0) // total 2, via port 0
	r.HandleRX(advert.New(dest, 5), 1) // total 6, via port 1, worse: ignored

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, 2.0, entry.Latency)
	assert.Equal(t, 0, entry.Port)
}

func TestRouteAdvertisementIncumbentRefreshAcceptsWorseFromSamePort(t *testing.T) {
	r, _, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")

	r.HandleRX(advert.New(dest, 1), 0) // total 2
	r.HandleRX(advert.New(dest, 9), 0) // total 10, same port: refreshed even though worse

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, 10.0, entry.Latency)
}

func TestPoisonedAdvertisementFromActivePortPoisonsRoute(t *testing.T) {
	r, _, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")

	r.HandleRX(advert.New(dest, 1), 0)
	r.HandleRX(advert.New(dest, r.policy.Infinity), 0)

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, r.policy.Infinity, entry.Latency)
}

func TestForwardingDropsUnknownDestination(t *testing.T) {
	r, sender, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	pkt := simnet.DataPacket{Src: fakeHost("h1"), Dst: fakeHost("h2")}

	r.onDataPacket(pkt, 0)

	assert.Empty(t, sender.sent)
}

func TestForwardingSendsOnEntryPort(t *testing.T) {
	r, sender, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 1)
	sender.sent = nil

	pkt := simnet.DataPacket{Src: fakeHost("h1"), Dst: dest}
	r.onDataPacket(pkt, 0)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, 1, sender.sent[0].port)
}

func TestForwardingDropsHairpinWhenConfigured(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.DropHairpins = true
	r, sender, _ := newTestRouter("R1", policy)
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)
	sender.sent = nil

	pkt := simnet.DataPacket{Src: fakeHost("h1"), Dst: dest}
	r.onDataPacket(pkt, 0)

	assert.Empty(t, sender.sent)
}

func TestForwardingAllowsHairpinWhenNotConfigured(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.DropHairpins = false
	r, sender, _ := newTestRouter("R1", policy)
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)
	sender.sent = nil

	pkt := simnet.DataPacket{Src: fakeHost("h1"), Dst: dest}
	r.onDataPacket(pkt, 0)

	require.Len(t, sender.sent, 1)
}

// S3: link-down poisoning.
func TestLinkDownPoisonsAffectedRoutes(t *testing.T) {
	r, _, clock := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)
	clock.t = 10 * time.Second

	r.HandleLinkDown(0)

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, r.policy.Infinity, entry.Latency)
	assert.Equal(t, clock.Now().Seconds()+r.policy.RouteTTL, entry.ExpireTime)
}

// Invariant 4: split horizon omits routes toward their own incoming port.
func TestSplitHorizonOmitsRouteOnLearnedPort(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.SplitHorizon = true
	r, sender, _ := newTestRouter("R1", policy)
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)
	sender.sent = nil

	r.sendRoutes(true, allPorts)

	for _, a := range sender.advertisementsOnPort(0) {
		assert.NotEqual(t, dest, a.Destination)
	}
}

// Invariant 5: poison reverse advertises INFINITY back on the learned port.
func TestPoisonReverseAdvertisesInfinityOnLearnedPort(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.PoisonReverse = true
	r, sender, _ := newTestRouter("R1", policy)
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)
	sender.sent = nil

	r.sendRoutes(true, allPorts)

	found := false
	for _, a := range sender.advertisementsOnPort(0) {
		if a.Destination == dest {
			found = true
			assert.Equal(t, policy.Infinity, a.Latency)
		}
	}
	assert.True(t, found)
}

// Invariant 8: triggered (non-forced) passes suppress unchanged advertisements.
func TestTriggeredPassSuppressesUnchangedAdvertisement(t *testing.T) {
	r, sender, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0) // triggers a pass, sets prevAdv

	sender.sent = nil
	r.sendRoutes(false, allPorts)

	assert.Empty(t, sender.advertisementsOnPort(1))
}

// Invariant 9: forced passes always re-send, ignoring prevAdv.
func TestForcedPassAlwaysResends(t *testing.T) {
	r, sender, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	r.ports.Set(1, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)

	sender.sent = nil
	r.sendRoutes(true, allPorts)

	assert.NotEmpty(t, sender.advertisementsOnPort(1))
}

// S5: periodic expiry poisons stale routes and resets their TTL.
func TestExpiryPoisonsStaleRouteUnderPoisonExpired(t *testing.T) {
	r, _, clock := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)

	clock.t = time.Duration((r.policy.RouteTTL + 1) * float64(time.Second))
	r.expireRoutes()

	entry, ok := r.table.Get(dest)
	require.True(t, ok)
	assert.Equal(t, r.policy.Infinity, entry.Latency)
	assert.Equal(t, clock.Now().Seconds()+r.policy.RouteTTL, entry.ExpireTime)
}

func TestExpiryDeletesStaleRouteWhenPoisonExpiredDisabled(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.PoisonExpired = false
	r, _, clock := newTestRouter("R1", policy)
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)

	clock.t = time.Duration((r.policy.RouteTTL + 1) * float64(time.Second))
	r.expireRoutes()

	assert.False(t, r.table.Has(dest))
}

func TestExpirySkipsStaticRoutes(t *testing.T) {
	r, _, clock := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	h2 := fakeHost("h2")
	r.HandleRX(simnet.HostDiscoveryPacket{Src: h2}, 0)

	clock.t = 10000 * time.Second
	r.expireRoutes()

	entry, ok := r.table.Get(h2)
	require.True(t, ok)
	assert.True(t, entry.IsStatic())
}

func TestLinkUpForcedPassTargetsOnlyThatPort(t *testing.T) {
	r, sender, _ := newTestRouter("R1", config.DefaultPolicy())
	r.ports.Set(0, 1.0)
	dest := fakeHost("h2")
	r.HandleRX(advert.New(dest, 1), 0)

	sender.sent = nil
	r.HandleLinkUp(1, 2.0)

	for _, s := range sender.sent {
		assert.Equal(t, 1, s.port)
	}
	assert.NotEmpty(t, sender.sent)
}
