package geometry

import "math"

// Transform is a 2D affine transform
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// mapping (x, y) to (A*x + C*y + E, B*x + D*y + F), the same layout SVG's
// matrix(a b c d e f) uses.
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{A: 1, D: 1} }

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Transform { return Transform{A: s, D: s} }

// MirrorX returns a horizontal flip about the local y axis.
func MirrorX() Transform { return Transform{A: -1, D: 1} }

// Rotation returns a clockwise rotation by deg degrees in screen space
// (y down), matching SVG rotate().
func Rotation(deg float64) Transform {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// Then returns the transform that applies t first and then next.
func (t Transform) Then(next Transform) Transform {
	return Transform{
		A: next.A*t.A + next.C*t.B,
		B: next.B*t.A + next.D*t.B,
		C: next.A*t.C + next.C*t.D,
		D: next.B*t.C + next.D*t.D,
		E: next.A*t.E + next.C*t.F + next.E,
		F: next.B*t.E + next.D*t.F + next.F,
	}
}

// Apply maps p through t.
func (t Transform) Apply(p Vec) Vec {
	return Vec{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// Bounds is an axis-aligned rectangle in a glyph's local coordinates.
type Bounds struct {
	MinX   float64 `json:"min_x" mapstructure:"min_x"`
	MinY   float64 `json:"min_y" mapstructure:"min_y"`
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// IsEmpty reports whether b has no area.
func (b Bounds) IsEmpty() bool { return b.Width <= 0 || b.Height <= 0 }

// Center returns the centre of b.
func (b Bounds) Center() Vec {
	return Vec{b.MinX + b.Width/2, b.MinY + b.Height/2}
}

// Corners returns the four corners of b clockwise from the top-left.
func (b Bounds) Corners() [4]Vec {
	return [4]Vec{
		{b.MinX, b.MinY},
		{b.MinX + b.Width, b.MinY},
		{b.MinX + b.Width, b.MinY + b.Height},
		{b.MinX, b.MinY + b.Height},
	}
}

// TransformedCenter returns the centre of the axis-aligned bounding box that
// encloses b after t is applied, relative to the transformed local origin.
func (b Bounds) TransformedCenter(t Transform) Vec {
	if b.IsEmpty() {
		return Vec{}
	}
	corners := b.Corners()
	first := t.Apply(corners[0])
	minX, maxX, minY, maxY := first.X, first.X, first.Y, first.Y
	for _, c := range corners[1:] {
		p := t.Apply(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	origin := t.Apply(Vec{})
	return Vec{(minX+maxX)/2 - origin.X, (minY+maxY)/2 - origin.Y}
}
