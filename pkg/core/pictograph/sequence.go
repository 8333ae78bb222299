package pictograph

// Beat is one timestep of a sequence.
type Beat struct {
	Number     int            `json:"beat" bson:"beat"`
	IsBlank    bool           `json:"is_blank,omitempty" bson:"is_blank,omitempty"`
	Pictograph PictographData `json:"pictograph" bson:"pictograph"`
}

// IsRegular reports whether the beat takes part in orientation continuity:
// it is not blank and carries at least one motion.
func (b Beat) IsRegular() bool {
	return !b.IsBlank && len(b.Pictograph.Motions) > 0
}

// Sequence is an ordered list of beats, optionally preceded by a start
// position whose end orientations seed the first beat.
type Sequence struct {
	ID            string `json:"id,omitempty" bson:"_id,omitempty"`
	Word          string `json:"word,omitempty" bson:"word,omitempty"`
	Author        string `json:"author,omitempty" bson:"author,omitempty"`
	PropType      string `json:"prop_type,omitempty" bson:"prop_type,omitempty"`
	StartPosition *Beat  `json:"start_position,omitempty" bson:"start_position,omitempty"`
	Beats         []Beat `json:"beats" bson:"beats"`
}

// IsEmpty reports whether the sequence has neither a start position nor beats.
func (s Sequence) IsEmpty() bool {
	return s.StartPosition == nil && len(s.Beats) == 0
}

// Clone returns a deep copy of s.
func (s Sequence) Clone() Sequence {
	out := s
	if s.StartPosition != nil {
		sp := *s.StartPosition
		sp.Pictograph = sp.Pictograph.Clone()
		out.StartPosition = &sp
	}
	if s.Beats != nil {
		out.Beats = make([]Beat, len(s.Beats))
		for i, b := range s.Beats {
			b.Pictograph = b.Pictograph.Clone()
			out.Beats[i] = b
		}
	}
	return out
}

// Chain returns the beats taking part in continuity, in order: the start
// position (when present and regular) followed by every regular beat.
// The returned pointers alias the sequence's own storage.
func (s *Sequence) Chain() []*Beat {
	chain := make([]*Beat, 0, len(s.Beats)+1)
	if s.StartPosition != nil && s.StartPosition.IsRegular() {
		chain = append(chain, s.StartPosition)
	}
	for i := range s.Beats {
		if s.Beats[i].IsRegular() {
			chain = append(chain, &s.Beats[i])
		}
	}
	return chain
}
