package beta

import (
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/override"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/prop"
)

// DefaultBetaLetters lists the letters whose props can end on a shared hand
// point.
func DefaultBetaLetters() []string {
	return []string{"G", "H", "I", "J", "K", "L", "Y", "Z", "Y-", "Z-", "Ψ", "Ψ-", "β"}
}

// Config configures a Positioner. Zero fields take defaults: the embedded
// override and rule tables, the default beta letters, magnitudes and hand
// points. Set Overrides or Rules to an empty table to disable them.
type Config struct {
	BetaLetters []string
	Overrides   *override.Table
	Rules       *RuleTable
	Magnitudes  Magnitudes
	HandPoints  *geometry.HandPoints
	Observer    Observer
}

// Positioner places props, separating them when they overlap.
// It is safe for concurrent use.
type Positioner struct {
	betaLetters map[string]bool
	overrides   *override.Table
	directions  *Directions
	magnitudes  Magnitudes
	hands       *geometry.HandPoints
	observer    Observer
}

// NewPositioner builds a Positioner from cfg.
func NewPositioner(cfg Config) *Positioner {
	letters := cfg.BetaLetters
	if letters == nil {
		letters = DefaultBetaLetters()
	}
	set := make(map[string]bool, len(letters))
	for _, l := range letters {
		set[l] = true
	}
	if cfg.Overrides == nil {
		cfg.Overrides = override.Default()
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules()
	}
	if cfg.Magnitudes == nil {
		cfg.Magnitudes = DefaultMagnitudes()
	}
	if cfg.HandPoints == nil {
		cfg.HandPoints = geometry.DefaultHandPoints()
	}
	return &Positioner{
		betaLetters: set,
		overrides:   cfg.Overrides,
		directions:  NewDirections(cfg.Rules),
		magnitudes:  cfg.Magnitudes,
		hands:       cfg.HandPoints,
		observer:    cfg.Observer,
	}
}

// HandPoints returns the hand-point table used for anchors.
func (p *Positioner) HandPoints() *geometry.HandPoints { return p.hands }

// Directions returns the direction calculator.
func (p *Positioner) Directions() *Directions { return p.directions }

// ShouldApplyBetaPositioning reports whether pict is a candidate for
// separation: its letter is in the beta-ending set and both motions exist.
func (p *Positioner) ShouldApplyBetaPositioning(pict pictograph.PictographData) bool {
	return p.betaLetters[pict.Letter] && pict.HasBothMotions()
}

// Decision is the separation outcome for one pictograph.
type Decision struct {
	Method     Method                                    `json:"method"`
	Overlap    bool                                      `json:"overlap"`
	Source     Source                                    `json:"source,omitempty"`
	Repaired   bool                                      `json:"repaired,omitempty"`
	Directions map[pictograph.Color]pictograph.Direction `json:"directions,omitempty"`
	Offsets    map[pictograph.Color]geometry.Vec         `json:"offsets,omitempty"`
}

// Offset returns the offset of color c, zero when none applies.
func (d Decision) Offset(c pictograph.Color) geometry.Vec {
	return d.Offsets[c]
}

// PropPlacement is the final anchor of one prop.
type PropPlacement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Rotation float64 `json:"rotation"`
}

// Result is a Decision plus the resulting prop placements.
type Result struct {
	Decision
	Props map[pictograph.Color]PropPlacement `json:"props"`
}

// Resolve decides how the props of pict are separated without emitting an
// event. ctx holds the previous beat's end orientations and may be nil.
func (p *Positioner) Resolve(pict pictograph.PictographData, ctx pictograph.Orientations) Decision {
	if !p.ShouldApplyBetaPositioning(pict) {
		return Decision{Method: MethodNone}
	}
	overlap := DetectOverlap(pict, ctx)

	blue, _ := pict.Motion(pictograph.Blue)
	red, _ := pict.Motion(pictograph.Red)
	if res, ok := p.overrides.Lookup(pict.Letter, blue.EffectiveTurns(), red.EffectiveTurns()); ok {
		if !res.Swap {
			return Decision{
				Method:  MethodOffsetOverride,
				Overlap: overlap,
				Offsets: res.Offsets,
			}
		}
		d := p.algorithmic(pict, ctx)
		d.Method = MethodSwapOverride
		d.Overlap = overlap
		d.Directions = map[pictograph.Color]pictograph.Direction{
			pictograph.Blue: d.Directions[pictograph.Red],
			pictograph.Red:  d.Directions[pictograph.Blue],
		}
		d.Offsets = map[pictograph.Color]geometry.Vec{
			pictograph.Blue: d.Offsets[pictograph.Red],
			pictograph.Red:  d.Offsets[pictograph.Blue],
		}
		return d
	}

	if !overlap {
		return Decision{Method: MethodNone}
	}
	d := p.algorithmic(pict, ctx)
	d.Method = MethodAlgorithmic
	d.Overlap = true
	return d
}

// algorithmic computes directions and offsets for both props. A direction
// pair that is not antiparallel has red repaired to the opposite of blue.
func (p *Positioner) algorithmic(pict pictograph.PictographData, ctx pictograph.Orientations) Decision {
	blueDir, redDir, src := p.directions.Pair(pict, ctx)
	repaired := false
	if redDir != blueDir.Opposite() {
		redDir = blueDir.Opposite()
		repaired = true
	}
	class, _ := pairMagnitude(pict, p.magnitudes)
	return Decision{
		Source:   src,
		Repaired: repaired,
		Directions: map[pictograph.Color]pictograph.Direction{
			pictograph.Blue: blueDir,
			pictograph.Red:  redDir,
		},
		Offsets: map[pictograph.Color]geometry.Vec{
			pictograph.Blue: CalculateDirectionalOffset(blueDir, class, p.magnitudes),
			pictograph.Red:  CalculateDirectionalOffset(redDir, class, p.magnitudes),
		},
	}
}

// Position places both props of pict and reports the decision to the
// observer, if any. The observer never influences the result.
func (p *Positioner) Position(pict pictograph.PictographData, ctx pictograph.Orientations) Result {
	d := p.Resolve(pict, ctx)
	res := Result{Decision: d, Props: make(map[pictograph.Color]PropPlacement, len(pict.Motions))}
	for c, m := range pict.Motions {
		base := p.hands.Point(m.EndLoc)
		off := d.Offset(c)
		start := orientation.StartOf(m, ctx.Get(c))
		res.Props[c] = PropPlacement{
			X:        base.X + off.X,
			Y:        base.Y + off.Y,
			DX:       off.X,
			DY:       off.Y,
			Rotation: prop.RotationAngle(m, start),
		}
	}
	if p.observer != nil {
		p.observer.OnDecision(newEvent(pict, d))
	}
	return res
}
