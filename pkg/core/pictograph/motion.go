package pictograph

import "math"

// DefaultPropType is used when a pictograph does not name its prop.
const DefaultPropType = "staff"

// MotionData describes how one colored prop moves during a beat.
type MotionData struct {
	MotionType MotionType        `json:"motion_type" bson:"motion_type" toml:"motion_type"`
	StartLoc   Location          `json:"start_loc" bson:"start_loc" toml:"start_loc"`
	EndLoc     Location          `json:"end_loc" bson:"end_loc" toml:"end_loc"`
	Turns      float64           `json:"turns" bson:"turns" toml:"turns"`
	PropRotDir RotationDirection `json:"prop_rot_dir" bson:"prop_rot_dir" toml:"prop_rot_dir"`
	StartOri   Orientation       `json:"start_ori" bson:"start_ori" toml:"start_ori"`
	EndOri     Orientation       `json:"end_ori" bson:"end_ori" toml:"end_ori"`

	// Set by orientation.ForceFloat so the motion can be restored later.
	PrefloatMotionType MotionType        `json:"prefloat_motion_type,omitempty" bson:"prefloat_motion_type,omitempty" toml:"prefloat_motion_type,omitempty"`
	PrefloatPropRotDir RotationDirection `json:"prefloat_prop_rot_dir,omitempty" bson:"prefloat_prop_rot_dir,omitempty" toml:"prefloat_prop_rot_dir,omitempty"`
}

// WholeTurns returns floor(Turns), treating negative turn counts as zero.
// Only the whole part drives orientation parity.
func (m MotionData) WholeTurns() int {
	if m.Turns <= 0 || math.IsNaN(m.Turns) {
		return 0
	}
	return int(math.Floor(m.Turns))
}

// EffectiveTurns returns Turns clamped to be non-negative.
func (m MotionData) EffectiveTurns() float64 {
	if m.Turns < 0 || math.IsNaN(m.Turns) {
		return 0
	}
	return m.Turns
}

// ArrowData is the arrow glyph derived from a motion.
type ArrowData struct {
	Color     Color      `json:"color" bson:"color"`
	Motion    MotionData `json:"motion" bson:"motion"`
	IsVisible bool       `json:"is_visible" bson:"is_visible"`
}

// PropData is the prop glyph of one color. Orientation always mirrors the end
// orientation of the motion with the same color.
type PropData struct {
	Color       Color       `json:"color" bson:"color"`
	PropType    string      `json:"prop_type" bson:"prop_type"`
	Orientation Orientation `json:"orientation" bson:"orientation"`
}

// PictographData is the full state of one beat.
type PictographData struct {
	Letter   string               `json:"letter" bson:"letter"`
	GridMode GridMode             `json:"grid_mode,omitempty" bson:"grid_mode,omitempty"`
	Motions  map[Color]MotionData `json:"motions" bson:"motions"`
	Arrows   map[Color]ArrowData  `json:"arrows,omitempty" bson:"arrows,omitempty"`
	Props    map[Color]PropData   `json:"props,omitempty" bson:"props,omitempty"`
}

// NewPictograph builds a pictograph from the two motions, deriving visible
// arrows and props of the given prop type.
func NewPictograph(letter string, blue, red MotionData, propType string) PictographData {
	p := PictographData{
		Letter:   letter,
		GridMode: Diamond,
		Motions:  map[Color]MotionData{Blue: blue, Red: red},
	}
	return p.WithDerived(propType)
}

// Motion returns the motion of color c.
func (p PictographData) Motion(c Color) (MotionData, bool) {
	m, ok := p.Motions[c]
	return m, ok
}

// HasBothMotions reports whether blue and red motions are both present.
func (p PictographData) HasBothMotions() bool {
	_, blue := p.Motions[Blue]
	_, red := p.Motions[Red]
	return blue && red
}

// Grid returns the grid mode, defaulting to Diamond.
func (p PictographData) Grid() GridMode {
	if p.GridMode == Box {
		return Box
	}
	return Diamond
}

// PropType returns the prop type of color c, or DefaultPropType.
func (p PictographData) PropType(c Color) string {
	if pd, ok := p.Props[c]; ok && pd.PropType != "" {
		return pd.PropType
	}
	return DefaultPropType
}

// Clone returns a deep copy of p.
func (p PictographData) Clone() PictographData {
	out := PictographData{Letter: p.Letter, GridMode: p.GridMode}
	if p.Motions != nil {
		out.Motions = make(map[Color]MotionData, len(p.Motions))
		for c, m := range p.Motions {
			out.Motions[c] = m
		}
	}
	if p.Arrows != nil {
		out.Arrows = make(map[Color]ArrowData, len(p.Arrows))
		for c, a := range p.Arrows {
			out.Arrows[c] = a
		}
	}
	if p.Props != nil {
		out.Props = make(map[Color]PropData, len(p.Props))
		for c, pr := range p.Props {
			out.Props[c] = pr
		}
	}
	return out
}

// WithMotion returns a copy of p with the motion of color c replaced.
// The arrow of that color follows the new motion and the prop orientation
// follows its end orientation.
func (p PictographData) WithMotion(c Color, m MotionData) PictographData {
	out := p.Clone()
	if out.Motions == nil {
		out.Motions = make(map[Color]MotionData, 2)
	}
	out.Motions[c] = m
	if a, ok := out.Arrows[c]; ok {
		a.Motion = m
		out.Arrows[c] = a
	}
	if pr, ok := out.Props[c]; ok {
		pr.Orientation = m.EndOri
		out.Props[c] = pr
	}
	return out
}

// WithDerived returns a copy of p whose arrows and props are rebuilt from its
// motions. Existing prop types are kept; propType fills in missing ones.
func (p PictographData) WithDerived(propType string) PictographData {
	if propType == "" {
		propType = DefaultPropType
	}
	out := p.Clone()
	out.Arrows = make(map[Color]ArrowData, len(out.Motions))
	props := make(map[Color]PropData, len(out.Motions))
	for c, m := range out.Motions {
		visible := true
		if a, ok := p.Arrows[c]; ok {
			visible = a.IsVisible
		}
		out.Arrows[c] = ArrowData{Color: c, Motion: m, IsVisible: visible}
		pt := propType
		if existing, ok := p.Props[c]; ok && existing.PropType != "" {
			pt = existing.PropType
		}
		props[c] = PropData{Color: c, PropType: pt, Orientation: m.EndOri}
	}
	out.Props = props
	return out
}
