package config

// Policy is the frozen set of protocol flags an engine is constructed
// with. It never changes after Registry.Build returns it.
type Policy struct {
	Infinity         float64
	RouteTTL         float64
	PoisonTTL        float64 // reserved, unused by any engine
	PeriodicInterval float64
	SplitHorizon     bool
	PoisonReverse    bool
	PoisonExpired    bool
	SendOnLinkUp     bool
	PoisonOnLinkDown bool
	RandomizeTimers  bool
	DropHairpins     bool
}

// DefaultPolicy returns the policy with every option at its documented
// default.
func DefaultPolicy() Policy {
	return Policy{
		Infinity:         16,
		RouteTTL:         15,
		PoisonTTL:        15,
		PeriodicInterval: 5,
		SplitHorizon:     false,
		PoisonReverse:    false,
		PoisonExpired:    true,
		SendOnLinkUp:     true,
		PoisonOnLinkDown: true,
		RandomizeTimers:  false,
		DropHairpins:     false,
	}
}

// Validate enforces the invariants that are not expressible per-option,
// namely that split horizon and poison reverse are mutually exclusive.
func (p Policy) Validate() error {
	if p.SplitHorizon && p.PoisonReverse {
		return ErrInvalidConfiguration
	}
	return nil
}
