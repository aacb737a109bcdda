// Package dvengine implements the distance-vector router protocol
// engine: table maintenance, advertisement generation and ingestion,
// link-event handling, expiry, and forwarding.
package dvengine

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiboy6/routing/pkg/config"
	"github.com/adiboy6/routing/pkg/log"
	"github.com/adiboy6/routing/pkg/metrics"
	"github.com/adiboy6/routing/pkg/porttable"
	"github.com/adiboy6/routing/pkg/rtable"
	"github.com/adiboy6/routing/pkg/simnet"
)

// allPorts is passed to sendRoutes to mean "every up port" rather than a
// single targeted port.
const allPorts = -1

// Router is a single distance-vector router instance. It holds no
// reference to a concrete simulator; all I/O flows through the injected
// simnet.Sender, and all timing through simnet.Clock/simnet.Scheduler.
type Router struct {
	name   string
	policy config.Policy

	ports   porttable.Table
	table   *rtable.Table
	prevAdv *rtable.Table

	clock     simnet.Clock
	scheduler simnet.Scheduler
	sender    simnet.Sender

	logger   zerolog.Logger
	randFrac func() float64

	cancelTimer simnet.Cancel
}

// Option configures optional Router construction parameters.
type Option func(*Router)

// WithLogger overrides the router's logger. By default it derives one
// from pkg/log scoped to the router's name.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithRandomFraction overrides the source of the uniform [0,1) fraction
// used to delay the first periodic tick when RandomizeTimers is set.
// Tests use this to make the one-shot start delay deterministic.
func WithRandomFraction(f func() float64) Option {
	return func(r *Router) { r.randFrac = f }
}

// NewRouter constructs a router named name, wires it to sender/clock/
// scheduler, and schedules its periodic timer per policy.
func NewRouter(name string, policy config.Policy, sender simnet.Sender, clock simnet.Clock, scheduler simnet.Scheduler, opts ...Option) *Router {
	r := &Router{
		name:      name,
		policy:    policy,
		table:     rtable.New(name),
		prevAdv:   rtable.New(name),
		clock:     clock,
		scheduler: scheduler,
		sender:    sender,
		logger:    log.WithRouter(name),
		randFrac:  rand.Float64,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.startTimer()
	return r
}

// Name returns the router's name.
func (r *Router) Name() string { return r.name }

// Table exposes the live routing table, primarily for tests and
// diagnostic printing (e.g. the CLI's final-state dump).
func (r *Router) Table() *rtable.Table { return r.table }

// Ports exposes the port table, primarily for tests.
func (r *Router) Ports() *porttable.Table { return &r.ports }

func (r *Router) now() float64 {
	return r.clock.Now().Seconds()
}

// startTimer schedules the periodic advertisement timer. If
// RandomizeTimers is set, the first tick is delayed by a uniform random
// fraction of one interval via a one-shot timer; the recurring timer it
// then starts is not affected by randomization.
func (r *Router) startTimer() {
	interval := time.Duration(r.policy.PeriodicInterval * float64(time.Second))
	if interval <= 0 {
		return
	}

	if !r.policy.RandomizeTimers {
		r.cancelTimer = r.scheduler.CreateTimer(interval, true, r.HandleTimer)
		return
	}

	delay := time.Duration(r.policy.PeriodicInterval * r.randFrac() * float64(time.Second))
	r.scheduler.CreateTimer(delay, false, func() {
		r.cancelTimer = r.scheduler.CreateTimer(interval, true, r.HandleTimer)
	})
}

// Stop cancels the router's periodic timer, if any.
func (r *Router) Stop() {
	if r.cancelTimer != nil {
		r.cancelTimer()
	}
}

func (r *Router) setRoutesGauge() {
	metrics.RoutesTotal.WithLabelValues(r.name).Set(float64(r.table.Len()))
}
