package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The API server uses it so its entries never collide with entries written
// by the CLI into a shared Redis instance.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SimulationKey generates a prefixed key for simulation results.
func (k *ScopedKeyer) SimulationKey(opts SimulationKeyOpts) string {
	return k.prefix + k.inner.SimulationKey(opts)
}

// ChartKey generates a prefixed key for rendered charts.
func (k *ScopedKeyer) ChartKey(resultHash string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(resultHash, opts)
}
