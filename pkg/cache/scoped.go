package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving separate
// namespaces on a shared backend:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "netgraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layersHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layersHash, opts)
}

// ArchitectureKey returns the prefixed architecture key.
func (k *ScopedKeyer) ArchitectureKey(name string) string {
	return k.prefix + k.inner.ArchitectureKey(name)
}
