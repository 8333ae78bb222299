package cache

import "github.com/matzehuels/flowglyph/pkg/core/pictograph"

// Key types reported to cache hooks.
const (
	KeyTypePlacement = "placement"
	KeyTypeSequence  = "sequence"
)

// KeyOpts carries what besides the input data changes a result: a hash of
// the engine configuration (tables, magnitudes, canvas, glyph bounds).
type KeyOpts struct {
	Profile string `json:"profile,omitempty"`
}

// Keyer generates cache keys for placement results.
type Keyer interface {
	// PlacementKey identifies the placements of one pictograph in the
	// context of the previous beat's end orientations.
	PlacementKey(p pictograph.PictographData, ctx pictograph.Orientations, opts KeyOpts) (string, error)

	// SequenceKey identifies the positioning result of a whole sequence.
	SequenceKey(seq pictograph.Sequence, opts KeyOpts) (string, error)
}

// DefaultKeyer hashes the complete input of a calculation.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey returns "placement:<sha256>", or [ErrUnhashable] when p
// holds a value JSON cannot encode.
func (DefaultKeyer) PlacementKey(p pictograph.PictographData, ctx pictograph.Orientations, opts KeyOpts) (string, error) {
	return hashKey(KeyTypePlacement, p, ctx, opts)
}

// SequenceKey returns "sequence:<sha256>". Identity fields such as the id,
// word and author do not affect placement and are left out.
func (DefaultKeyer) SequenceKey(seq pictograph.Sequence, opts KeyOpts) (string, error) {
	return hashKey(KeyTypeSequence, seq.PropType, seq.StartPosition, seq.Beats, opts)
}
