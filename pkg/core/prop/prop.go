// Package prop classifies props by size and computes their rotation angle.
package prop

import (
	"strings"

	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// SizeClass groups props by how much clearance they need when separated.
type SizeClass string

const (
	Big   SizeClass = "big"
	Small SizeClass = "small"
	Hand  SizeClass = "hand"
)

var sizeClasses = map[string]SizeClass{
	"hand": Hand,

	"bighoop":       Big,
	"bigstaff":      Big,
	"bigbuugeng":    Big,
	"bigdoublestar": Big,
	"bigfan":        Big,
	"bigtriad":      Big,
	"guitar":        Big,
	"sword":         Big,
	"ukulele":       Big,
	"chicken":       Big,

	"staff":       Small,
	"simplestaff": Small,
	"club":        Small,
	"buugeng":     Small,
	"fan":         Small,
	"triad":       Small,
	"minihoop":    Small,
	"doublestar":  Small,
	"quiad":       Small,
	"fractalgeng": Small,
	"eightrings":  Small,
	"triquetra":   Small,
}

// Classify returns the size class of a prop type. Matching ignores case,
// spaces, dashes and underscores; unknown props classify as Small.
func Classify(propType string) SizeClass {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(propType))
	if c, ok := sizeClasses[key]; ok {
		return c
	}
	return Small
}

// RotationAngle returns the rotation in degrees, in [0, 360), of the glyph
// for motion m when the prop starts with orientation start.
//
// Static motions are never rotated. Otherwise the angle is 180 when the end
// orientation is out (0 when in), plus 90 for clockwise or minus 90 for
// counter-clockwise rotation.
func RotationAngle(m pictograph.MotionData, start pictograph.Orientation) float64 {
	if m.MotionType == pictograph.Static {
		return 0
	}
	angle := 0.0
	if orientation.EndOrientation(m, start).Radial() == pictograph.Out {
		angle += 180
	}
	switch m.PropRotDir {
	case pictograph.Clockwise:
		angle += 90
	case pictograph.CounterClockwise:
		angle -= 90
	}
	return geometry.NormalizeDegrees(angle)
}
