// Package geometry holds the static canvas geometry of the pictograph grid:
// hand-point coordinates for the 8 compass locations, separation unit
// vectors, and the small amount of affine math needed to centre a rotated
// glyph on its target point.
//
// All coordinates are screen coordinates: x grows to the right, y grows
// downwards. Tables are built once by constructors and are read-only
// afterwards, so one [HandPoints] value can be shared across goroutines.
package geometry

import (
	"math"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// Default canvas dimensions.
const (
	DefaultSize           = 950.0
	DefaultCenter         = 475.0
	DefaultHandRadius     = 143.1
	DefaultDiagonalFactor = 0.707
)

// Vec is a 2D point or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Grid describes the canvas the hand points are laid out on.
type Grid struct {
	Size           float64 `json:"size" mapstructure:"size"`
	CenterX        float64 `json:"center_x" mapstructure:"center_x"`
	CenterY        float64 `json:"center_y" mapstructure:"center_y"`
	HandRadius     float64 `json:"hand_radius" mapstructure:"hand_radius"`
	DiagonalFactor float64 `json:"diagonal_factor" mapstructure:"diagonal_factor"`
}

// DefaultGrid returns the 950x950 canvas centred at (475,475).
func DefaultGrid() Grid {
	return Grid{
		Size:           DefaultSize,
		CenterX:        DefaultCenter,
		CenterY:        DefaultCenter,
		HandRadius:     DefaultHandRadius,
		DiagonalFactor: DefaultDiagonalFactor,
	}
}

// withDefaults fills zero fields from DefaultGrid.
func (g Grid) withDefaults() Grid {
	d := DefaultGrid()
	if g.Size == 0 {
		g.Size = d.Size
	}
	if g.CenterX == 0 {
		g.CenterX = d.CenterX
	}
	if g.CenterY == 0 {
		g.CenterY = d.CenterY
	}
	if g.HandRadius == 0 {
		g.HandRadius = d.HandRadius
	}
	if g.DiagonalFactor == 0 {
		g.DiagonalFactor = d.DiagonalFactor
	}
	return g
}

// Center returns the canvas centre.
func (g Grid) Center() Vec { return Vec{g.CenterX, g.CenterY} }

// HandPoints maps each compass location to its anchor coordinate.
type HandPoints struct {
	grid   Grid
	points map[pictograph.Location]Vec
}

// NewHandPoints computes the hand-point table for g. Zero fields of g take
// their default values.
func NewHandPoints(g Grid) *HandPoints {
	g = g.withDefaults()
	r := g.HandRadius
	d := r * g.DiagonalFactor
	c := g.Center()
	return &HandPoints{
		grid: g,
		points: map[pictograph.Location]Vec{
			pictograph.North:     c.Add(Vec{0, -r}),
			pictograph.East:      c.Add(Vec{r, 0}),
			pictograph.South:     c.Add(Vec{0, r}),
			pictograph.West:      c.Add(Vec{-r, 0}),
			pictograph.Northeast: c.Add(Vec{d, -d}),
			pictograph.Southeast: c.Add(Vec{d, d}),
			pictograph.Southwest: c.Add(Vec{-d, d}),
			pictograph.Northwest: c.Add(Vec{-d, -d}),
		},
	}
}

// DefaultHandPoints returns the table for DefaultGrid.
func DefaultHandPoints() *HandPoints { return NewHandPoints(DefaultGrid()) }

// Grid returns the canvas the table was built for.
func (h *HandPoints) Grid() Grid { return h.grid }

// Lookup returns the hand point of loc.
func (h *HandPoints) Lookup(loc pictograph.Location) (Vec, bool) {
	p, ok := h.points[loc]
	return p, ok
}

// Point returns the hand point of loc, falling back to the north hand point
// for unknown locations.
func (h *HandPoints) Point(loc pictograph.Location) Vec {
	if p, ok := h.points[loc]; ok {
		return p
	}
	return h.points[pictograph.North]
}

// UnitVector returns the screen-space unit vector of a separation direction.
// Diagonals are normalized to length 1. Unknown directions return the zero
// vector.
func UnitVector(d pictograph.Direction) Vec {
	const s = math.Sqrt2 / 2
	switch d {
	case pictograph.Up:
		return Vec{0, -1}
	case pictograph.Down:
		return Vec{0, 1}
	case pictograph.Left:
		return Vec{-1, 0}
	case pictograph.Right:
		return Vec{1, 0}
	case pictograph.UpRight:
		return Vec{s, -s}
	case pictograph.UpLeft:
		return Vec{-s, -s}
	case pictograph.DownRight:
		return Vec{s, s}
	case pictograph.DownLeft:
		return Vec{-s, s}
	}
	return Vec{}
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == 360 {
		return 0
	}
	return deg
}
