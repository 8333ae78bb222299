// Package sequence keeps prop orientations continuous across a sequence.
//
// Continuity means that for every color the end orientation of one regular
// beat equals the start orientation of the next regular beat. The start
// position, when present, is the first link of the chain; blank beats are
// skipped.
package sequence

import (
	"fmt"

	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// Issue is one continuity break between two consecutive regular beats.
type Issue struct {
	Beat     int                    `json:"beat"`
	Color    pictograph.Color       `json:"color"`
	Previous pictograph.Orientation `json:"previous_end"`
	Start    pictograph.Orientation `json:"start"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s orientation discontinuity in beat %d: %s -> %s", i.Color, i.Beat, i.Start, i.Previous)
}

// Validator checks and repairs orientation continuity.
type Validator struct{}

// NewValidator returns a Validator.
func NewValidator() *Validator { return &Validator{} }

// link is one motion of the continuity chain. prev is the end orientation
// of the same color's previous motion, empty on its first appearance. start
// and end are the orientations the motion has once the chain is continuous.
type link struct {
	beat   *pictograph.Beat
	color  pictograph.Color
	motion pictograph.MotionData
	prev   pictograph.Orientation
	start  pictograph.Orientation
	end    pictograph.Orientation
}

// walk visits every motion of chain in order and returns the last end
// orientation per color. A color missing from a beat keeps its last end, so
// continuity is checked across the gap. Ends are always derived from the
// motion, never read from the stored end_ori.
func walk(chain []*pictograph.Beat, fn func(link)) pictograph.Orientations {
	ends := make(pictograph.Orientations, len(pictograph.Colors))
	for _, b := range chain {
		for _, c := range pictograph.Colors {
			m, ok := b.Pictograph.Motion(c)
			if !ok {
				continue
			}
			prev := ends[c]
			start := orientation.StartOf(m, prev)
			l := link{beat: b, color: c, motion: m, prev: prev, start: start, end: orientation.EndOrientation(m, start)}
			ends[c] = l.end
			if fn != nil {
				fn(l)
			}
		}
	}
	return ends
}

// broken reports whether l starts somewhere other than where its color
// last ended.
func (l link) broken() bool {
	return l.prev != "" && l.motion.StartOri != l.prev
}

// Validate lists every continuity break without modifying seq. Breaks are
// reported as ValidateAndFix would meet them: after an earlier repair the
// following beats are compared with the repaired chain.
func (v *Validator) Validate(seq pictograph.Sequence) []Issue {
	var issues []Issue
	walk(seq.Chain(), func(l link) {
		if l.broken() {
			issues = append(issues, Issue{Beat: l.beat.Number, Color: l.color, Previous: l.prev, Start: l.motion.StartOri})
		}
	})
	return issues
}

// ValidateAndFix returns a copy of seq in which every break is repaired,
// together with one message per repair.
//
// A repaired beat takes the previous end orientation as its start, gets its
// end orientation recomputed and its prop orientation updated. The walk then
// continues from the repaired beat, so one fix can cascade through the rest
// of the sequence. Running it on its own output yields no fixes.
func (v *Validator) ValidateAndFix(seq pictograph.Sequence) (pictograph.Sequence, []string) {
	out := seq.Clone()
	var fixes []string
	walk(out.Chain(), func(l link) {
		if l.broken() {
			fixes = append(fixes, fmt.Sprintf("Fixed %s orientation discontinuity in beat %d: %s -> %s",
				l.color, l.beat.Number, l.motion.StartOri, l.prev))
		}
		if l.motion.StartOri != l.start || l.motion.EndOri != l.end {
			l.beat.Pictograph = l.beat.Pictograph.WithMotion(l.color, orientation.Resolve(l.motion, l.start))
		}
	})
	return out, fixes
}

// EndOrientations returns the end orientation of each color after the last
// regular beat that carries it, derived from the motions rather than the
// stored end_ori. The default {blue: in, red: out} is used for a color that
// never appears.
func (v *Validator) EndOrientations(seq pictograph.Sequence) pictograph.Orientations {
	out := pictograph.DefaultEndOrientations()
	for c, o := range walk(seq.Chain(), nil) {
		out[c] = o
	}
	return out
}

// NextStartOrientations returns the start orientations a candidate next beat
// must use to stay continuous with seq.
func (v *Validator) NextStartOrientations(seq pictograph.Sequence) pictograph.Orientations {
	return v.EndOrientations(seq)
}

// ResolveRotationDirection returns the rotation direction of color c at beat
// index (into seq.Beats), walking backwards over earlier beats and the start
// position until one with an actual spin is found. It returns clockwise when
// none is found or index is out of range.
func ResolveRotationDirection(seq pictograph.Sequence, index int, c pictograph.Color) pictograph.RotationDirection {
	if index >= len(seq.Beats) {
		index = len(seq.Beats) - 1
	}
	for i := index; i >= 0; i-- {
		b := seq.Beats[i]
		if b.IsBlank {
			continue
		}
		if m, ok := b.Pictograph.Motion(c); ok && m.PropRotDir.IsRotating() {
			return m.PropRotDir
		}
	}
	if seq.StartPosition != nil {
		if m, ok := seq.StartPosition.Pictograph.Motion(c); ok && m.PropRotDir.IsRotating() {
			return m.PropRotDir
		}
	}
	return pictograph.Clockwise
}
