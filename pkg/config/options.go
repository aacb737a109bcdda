package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// OptionType is the value kind of a configuration option.
type OptionType int

const (
	// Real options parse with strconv.ParseFloat.
	Real OptionType = iota
	// Bool options parse with ParseBool's lenient rule.
	Bool
)

type option struct {
	canonicalName string
	kind          OptionType
	apply         func(*Policy, float64, bool)
}

// optionTable is the fixed enumerated set of named options from the
// configuration surface. It is applied process-wide before any router
// or switch is created; see Registry.
var optionTable = []option{
	{"ttl", Real, func(p *Policy, f float64, _ bool) { p.RouteTTL = f }},
	{"pttl", Real, func(p *Policy, f float64, _ bool) { p.PoisonTTL = f }},
	{"inf", Real, func(p *Policy, f float64, _ bool) { p.Infinity = f }},
	{"period", Real, func(p *Policy, f float64, _ bool) { p.PeriodicInterval = f }},
	{"sh", Bool, func(p *Policy, _ float64, b bool) { p.SplitHorizon = b }},
	{"pr", Bool, func(p *Policy, _ float64, b bool) { p.PoisonReverse = b }},
	{"p", Bool, func(p *Policy, _ float64, b bool) { p.PoisonExpired = b }},
	{"link-up", Bool, func(p *Policy, _ float64, b bool) { p.SendOnLinkUp = b }},
	{"link-down", Bool, func(p *Policy, _ float64, b bool) { p.PoisonOnLinkDown = b }},
	{"unsync", Bool, func(p *Policy, _ float64, b bool) { p.RandomizeTimers = b }},
	{"nohairpin", Bool, func(p *Policy, _ float64, b bool) { p.DropHairpins = b }},
}

func lookupOption(canonicalName string) (option, bool) {
	for _, o := range optionTable {
		if o.canonicalName == canonicalName {
			return o, true
		}
	}
	return option{}, false
}

// ParseBool implements the configuration surface's lenient boolean
// parsing: any string whose first character (case-insensitive) is one
// of t, y, 1, e is true; everything else, including the empty string,
// is false.
func ParseBool(s string) bool {
	if s == "" {
		return false
	}
	c := strings.ToLower(s[:1])
	switch c {
	case "t", "y", "1", "e":
		return true
	default:
		return false
	}
}

// Registry accumulates option settings and freezes them into a Policy
// exactly once, modeling "a fixed enumerated table of options applied
// process-wide before any router is created".
type Registry struct {
	mu      sync.Mutex
	policy  Policy
	built   bool
	builtOK Policy
}

// NewRegistry returns a Registry seeded with DefaultPolicy.
func NewRegistry() *Registry {
	return &Registry{policy: DefaultPolicy()}
}

// Set applies a single named option. It returns ErrUnknownOption for a
// name not in the table, and ErrInvalidConfiguration if called after
// Build.
func (r *Registry) Set(canonicalName, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return fmt.Errorf("%w: cannot set %q after the first node has been created", ErrInvalidConfiguration, canonicalName)
	}

	opt, ok := lookupOption(canonicalName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, canonicalName)
	}

	switch opt.kind {
	case Real:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("config: option %q expects a real number: %w", canonicalName, err)
		}
		opt.apply(&r.policy, f, false)
	case Bool:
		opt.apply(&r.policy, 0, ParseBool(value))
	}
	return nil
}

// Build validates and freezes the registry, returning the resulting
// Policy. After the first successful call, Set always fails and
// subsequent calls to Build return the same Policy without
// re-validating. A call that fails validation does not freeze the
// registry.
func (r *Registry) Build() (Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.built {
		return r.builtOK, nil
	}

	if err := r.policy.Validate(); err != nil {
		return Policy{}, fmt.Errorf("%w: split horizon and poison reverse can't both be on", err)
	}

	r.built = true
	r.builtOK = r.policy
	return r.builtOK, nil
}
