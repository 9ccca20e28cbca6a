package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools can share one
// backend, for example the HTTP server and the CLI on one Redis instance.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// SceneKey generates a prefixed scene key.
func (k *ScopedKeyer) SceneKey(kind, inputHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(kind, inputHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(id string) string {
	return k.prefix + k.inner.RenderKey(id)
}
