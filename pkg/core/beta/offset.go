package beta

import (
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/prop"
)

// Magnitudes is the separation distance in pixels per prop size class.
type Magnitudes map[prop.SizeClass]float64

// DefaultMagnitudes returns the stock clearance table.
func DefaultMagnitudes() Magnitudes {
	return Magnitudes{
		prop.Hand:  10,
		prop.Small: 25,
		prop.Big:   35,
	}
}

// For returns the magnitude of class, falling back to the default table.
func (m Magnitudes) For(class prop.SizeClass) float64 {
	if v, ok := m[class]; ok {
		return v
	}
	if v, ok := DefaultMagnitudes()[class]; ok {
		return v
	}
	return DefaultMagnitudes()[prop.Small]
}

// CalculateDirectionalOffset returns the pixel offset for pushing a prop of
// the given size class in direction dir. Unknown directions yield zero.
func CalculateDirectionalOffset(dir pictograph.Direction, class prop.SizeClass, mags Magnitudes) geometry.Vec {
	return geometry.UnitVector(dir).Scale(mags.For(class))
}

// pairMagnitude is the clearance used for both props of p: the larger of the
// two size classes. A hand prop overlapping a big staff is pushed as far as
// the staff, and the two offsets stay exact negatives of each other.
func pairMagnitude(p pictograph.PictographData, mags Magnitudes) (prop.SizeClass, float64) {
	best, bestMag := prop.Hand, -1.0
	for _, c := range pictograph.Colors {
		if _, ok := p.Motion(c); !ok {
			continue
		}
		class := prop.Classify(p.PropType(c))
		if v := mags.For(class); v > bestMag {
			best, bestMag = class, v
		}
	}
	if bestMag < 0 {
		return prop.Small, mags.For(prop.Small)
	}
	return best, bestMag
}
