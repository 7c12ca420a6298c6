package cache

// ScopedKeyer wraps a Keyer with a prefix so that several clients can share
// one backend without seeing each other's entries. The HTTP API uses it to
// keep its entries apart from CLI runs against the same Redis or MongoDB.
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

// ExportKey generates a prefixed export key.
func (k *ScopedKeyer) ExportKey(assemblyHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(assemblyHash, opts)
}

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(assemblyHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(assemblyHash, opts)
}
