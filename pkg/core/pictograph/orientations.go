package pictograph

// Orientations holds one orientation per color. It is how a sequence passes
// the previous beat's end orientations into the next beat's calculations.
// A nil value means no sequence context.
type Orientations map[Color]Orientation

// DefaultEndOrientations is the pair assumed when a sequence has no valid
// beat to read end orientations from.
func DefaultEndOrientations() Orientations {
	return Orientations{Blue: In, Red: Out}
}

// Get returns the orientation of c, or "" when absent.
func (o Orientations) Get(c Color) Orientation {
	if o == nil {
		return ""
	}
	return o[c]
}

// Clone returns a copy of o.
func (o Orientations) Clone() Orientations {
	if o == nil {
		return nil
	}
	out := make(Orientations, len(o))
	for c, v := range o {
		out[c] = v
	}
	return out
}

// EndOrientations returns the stored end orientation of each motion in p.
func (p PictographData) EndOrientations() Orientations {
	out := make(Orientations, len(p.Motions))
	for c, m := range p.Motions {
		out[c] = m.EndOri
	}
	return out
}
