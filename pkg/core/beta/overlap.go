package beta

import (
	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// DetectOverlap reports whether the two props of p would render on top of
// each other: both motions end on the same location with the same radial
// orientation. ctx carries the start orientations from the previous beat and
// may be nil. A pictograph missing either motion never overlaps.
func DetectOverlap(p pictograph.PictographData, ctx pictograph.Orientations) bool {
	blue, ok := p.Motion(pictograph.Blue)
	if !ok {
		return false
	}
	red, ok := p.Motion(pictograph.Red)
	if !ok {
		return false
	}
	if blue.EndLoc != red.EndLoc {
		return false
	}
	return endRadial(blue, ctx.Get(pictograph.Blue)) == endRadial(red, ctx.Get(pictograph.Red))
}

func endRadial(m pictograph.MotionData, ctxStart pictograph.Orientation) pictograph.Orientation {
	return orientation.EndOrientation(m, orientation.StartOf(m, ctxStart)).Radial()
}
