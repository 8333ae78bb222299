// Package arrow places arrow glyphs on the canvas.
//
// For one color the pipeline is:
//
//  1. hand point of the motion's end location (north when unknown)
//  2. plus that color's beta offset, when the props are separated
//  3. rotation from the prop rotation rule
//  4. horizontal mirror from [ShouldMirror]
//  5. origin correction so the glyph's bounding-box centre lands on the target
//
// Motion types the package does not know are placed like static motions.
package arrow

import (
	"github.com/matzehuels/flowglyph/pkg/core/beta"
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/prop"
)

// Placement is where and how one arrow glyph is drawn. X and Y are the
// target of the glyph's visual centre; OriginX and OriginY are where its
// local origin must go once scale, mirror and rotation are applied.
type Placement struct {
	Color    pictograph.Color `json:"color"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	OriginX  float64          `json:"origin_x"`
	OriginY  float64          `json:"origin_y"`
	Rotation float64          `json:"rotation"`
	Mirrored bool             `json:"mirrored"`
	Visible  bool             `json:"visible"`
}

// GlyphBounds holds the local bounding box of each motion type's glyph.
type GlyphBounds map[pictograph.MotionType]geometry.Bounds

// DefaultGlyphBounds returns the bounds of the stock arrow artwork.
func DefaultGlyphBounds() GlyphBounds {
	return GlyphBounds{
		pictograph.Pro:    {Width: 150, Height: 210},
		pictograph.Anti:   {Width: 160, Height: 220},
		pictograph.Static: {Width: 60, Height: 160},
		pictograph.Dash:   {Width: 60, Height: 175},
		pictograph.Float:  {Width: 110, Height: 110},
	}
}

// For returns the bounds of t, using the static glyph for unknown types.
func (g GlyphBounds) For(t pictograph.MotionType) geometry.Bounds {
	if b, ok := g[t]; ok {
		return b
	}
	if b, ok := g[pictograph.Static]; ok {
		return b
	}
	return DefaultGlyphBounds()[pictograph.Static]
}

// Config configures a Positioner. Zero fields take defaults.
type Config struct {
	HandPoints *geometry.HandPoints
	Bounds     GlyphBounds
	Scale      float64
	// Props supplies beta offsets. Nil builds a default prop positioner on
	// the same hand points.
	Props *beta.Positioner
}

// Positioner computes arrow placements. It is safe for concurrent use.
type Positioner struct {
	hands  *geometry.HandPoints
	bounds GlyphBounds
	scale  float64
	props  *beta.Positioner
}

// NewPositioner builds a Positioner from cfg.
func NewPositioner(cfg Config) *Positioner {
	if cfg.HandPoints == nil {
		if cfg.Props != nil {
			cfg.HandPoints = cfg.Props.HandPoints()
		} else {
			cfg.HandPoints = geometry.DefaultHandPoints()
		}
	}
	if cfg.Bounds == nil {
		cfg.Bounds = DefaultGlyphBounds()
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Props == nil {
		cfg.Props = beta.NewPositioner(beta.Config{HandPoints: cfg.HandPoints})
	}
	return &Positioner{hands: cfg.HandPoints, bounds: cfg.Bounds, scale: cfg.Scale, props: cfg.Props}
}

// Props returns the prop positioner used for beta offsets.
func (p *Positioner) Props() *beta.Positioner { return p.props }

// Position places the arrow of color c. ctx holds the previous beat's end
// orientations and may be nil.
func (p *Positioner) Position(pict pictograph.PictographData, c pictograph.Color, ctx pictograph.Orientations) Placement {
	d := p.props.Resolve(pict, ctx)
	return p.place(pict, c, ctx, d.Offset(c))
}

// PositionAll places every arrow of pict, resolving beta separation once.
func (p *Positioner) PositionAll(pict pictograph.PictographData, ctx pictograph.Orientations) (map[pictograph.Color]Placement, beta.Decision) {
	d := p.props.Resolve(pict, ctx)
	return p.PlaceAll(pict, ctx, d), d
}

// PlaceAll places every arrow of pict using an already made beta decision,
// such as the one returned by the prop positioner for the same beat.
func (p *Positioner) PlaceAll(pict pictograph.PictographData, ctx pictograph.Orientations, d beta.Decision) map[pictograph.Color]Placement {
	out := make(map[pictograph.Color]Placement, len(pict.Motions))
	for c := range pict.Motions {
		out[c] = p.place(pict, c, ctx, d.Offset(c))
	}
	return out
}

func (p *Positioner) place(pict pictograph.PictographData, c pictograph.Color, ctx pictograph.Orientations, offset geometry.Vec) Placement {
	m, _ := pict.Motion(c)
	variant := normalize(m)

	target := p.hands.Point(m.EndLoc).Add(offset)
	rotation := prop.RotationAngle(withDefaultRotation(variant), orientation.StartOf(m, ctx.Get(c)))

	arrow := pictograph.ArrowData{Color: c, Motion: variant, IsVisible: true}
	if a, ok := pict.Arrows[c]; ok {
		arrow.IsVisible = a.IsVisible
	}
	mirrored := ShouldMirror(arrow)

	t := geometry.Scaling(p.scale)
	if mirrored {
		t = t.Then(geometry.MirrorX())
	}
	t = t.Then(geometry.Rotation(rotation))
	origin := target.Sub(p.bounds.For(variant.MotionType).TransformedCenter(t))

	return Placement{
		Color:    c,
		X:        target.X,
		Y:        target.Y,
		OriginX:  origin.X,
		OriginY:  origin.Y,
		Rotation: rotation,
		Mirrored: mirrored,
		Visible:  arrow.IsVisible,
	}
}

// normalize maps unknown motion types onto the static variant.
func normalize(m pictograph.MotionData) pictograph.MotionData {
	if !m.MotionType.Valid() {
		m.MotionType = pictograph.Static
	}
	return m
}

// withDefaultRotation gives rotating motions without a direction the
// clockwise default.
func withDefaultRotation(m pictograph.MotionData) pictograph.MotionData {
	switch m.MotionType {
	case pictograph.Pro, pictograph.Anti:
		if !m.PropRotDir.IsRotating() {
			m.PropRotDir = pictograph.Clockwise
		}
	}
	return m
}

// ShouldMirror reports whether the arrow glyph is flipped horizontally.
// Pro arrows mirror when rotating counter-clockwise and anti arrows when
// rotating clockwise; static and dash follow the pro rule and float never
// mirrors. Without a rotation direction the red arrow is mirrored so a pair
// of glyphs faces each other.
func ShouldMirror(a pictograph.ArrowData) bool {
	m := normalize(a.Motion)
	if m.MotionType == pictograph.Float {
		return false
	}
	if !m.PropRotDir.IsRotating() {
		return a.Color == pictograph.Red
	}
	switch m.MotionType {
	case pictograph.Anti:
		return m.PropRotDir == pictograph.Clockwise
	default:
		return m.PropRotDir == pictograph.CounterClockwise
	}
}
