package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each scope its own
// namespace in a shared backend.
//
// Example usage:
//
//	// Separate namespaces per project on a shared Redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ramsey-r3-10:")
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

// FilterKey generates a prefixed key for filter results.
func (k *ScopedKeyer) FilterKey(inputHash string, opts FilterKeyOpts) string {
	return k.prefix + k.inner.FilterKey(inputHash, opts)
}
