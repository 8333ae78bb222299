package cache

import "github.com/matzehuels/flowglyph/pkg/core/pictograph"

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend without colliding. The prefix comes from the
// cache.key_prefix setting.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys; an empty prefix returns
// inner unchanged.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlacementKey generates a prefixed placement key.
func (k *ScopedKeyer) PlacementKey(p pictograph.PictographData, ctx pictograph.Orientations, opts KeyOpts) (string, error) {
	key, err := k.inner.PlacementKey(p, ctx, opts)
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}

// SequenceKey generates a prefixed sequence key.
func (k *ScopedKeyer) SequenceKey(seq pictograph.Sequence, opts KeyOpts) (string, error) {
	key, err := k.inner.SequenceKey(seq, opts)
	if err != nil {
		return "", err
	}
	return k.prefix + key, nil
}
