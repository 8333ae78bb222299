// Package orientation computes how a prop's orientation changes over one
// motion.
//
// The rule is a parity law over the whole number of turns n = floor(turns):
//
//	pro, static   n even -> unchanged   n odd -> flipped
//	anti, dash    n even -> flipped     n odd -> unchanged
//	float         carried over from the pre-float state
//
// Fractional turns never affect the result. Every function here is total over
// its inputs and never fails.
package orientation

import "github.com/matzehuels/flowglyph/pkg/core/pictograph"

// Flip returns the opposite orientation.
func Flip(o pictograph.Orientation) pictograph.Orientation { return o.Flip() }

// EndOrientation returns the orientation a prop has after motion m when it
// started with orientation start. The motion's own StartOri is ignored so
// callers can evaluate a motion against a sequence context.
func EndOrientation(m pictograph.MotionData, start pictograph.Orientation) pictograph.Orientation {
	odd := m.WholeTurns()%2 == 1
	switch m.MotionType {
	case pictograph.Float:
		return start
	case pictograph.Anti, pictograph.Dash:
		if odd {
			return start
		}
		return start.Flip()
	default:
		// pro, static, and anything unknown
		if odd {
			return start.Flip()
		}
		return start
	}
}

// StartOf returns the start orientation to use for m: override when it is a
// known orientation, else the motion's own StartOri, else In.
func StartOf(m pictograph.MotionData, override pictograph.Orientation) pictograph.Orientation {
	if override.Valid() {
		return override
	}
	if m.StartOri.Valid() {
		return m.StartOri
	}
	return pictograph.In
}

// Resolve returns a copy of m whose StartOri is start and whose EndOri is
// recomputed from it.
func Resolve(m pictograph.MotionData, start pictograph.Orientation) pictograph.MotionData {
	m.StartOri = start
	m.EndOri = EndOrientation(m, start)
	return m
}

// ForceFloat turns m into a float motion. The previous motion type and
// rotation direction are remembered in the prefloat fields, the rotation
// direction becomes none and the end orientation is carried from the start.
func ForceFloat(m pictograph.MotionData) pictograph.MotionData {
	if m.MotionType != pictograph.Float {
		m.PrefloatMotionType = m.MotionType
		m.PrefloatPropRotDir = m.PropRotDir
	}
	m.MotionType = pictograph.Float
	m.PropRotDir = pictograph.NoRotation
	m.EndOri = m.StartOri
	return m
}

// RestoreFloat undoes ForceFloat when the prefloat fields are set, and
// recomputes the end orientation for the restored motion.
func RestoreFloat(m pictograph.MotionData) pictograph.MotionData {
	if m.MotionType != pictograph.Float || m.PrefloatMotionType == "" {
		return m
	}
	m.MotionType = m.PrefloatMotionType
	m.PropRotDir = m.PrefloatPropRotDir
	m.PrefloatMotionType = ""
	m.PrefloatPropRotDir = ""
	m.EndOri = EndOrientation(m, m.StartOri)
	return m
}
