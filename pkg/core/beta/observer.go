package beta

import (
	"github.com/google/uuid"

	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// Method names how a beat's prop placement was decided.
type Method string

const (
	MethodNone           Method = "none"
	MethodAlgorithmic    Method = "algorithmic"
	MethodSwapOverride   Method = "swap_override"
	MethodOffsetOverride Method = "offset_override"
)

// DecisionEvent describes one positioning decision. It is diagnostic only.
type DecisionEvent struct {
	ID         string                                    `json:"id"`
	Letter     string                                    `json:"letter"`
	Method     Method                                    `json:"method"`
	Overlap    bool                                      `json:"overlap"`
	Source     Source                                    `json:"source,omitempty"`
	Directions map[pictograph.Color]pictograph.Direction `json:"directions,omitempty"`
	Offsets    map[pictograph.Color]geometry.Vec         `json:"offsets,omitempty"`
	Repaired   bool                                      `json:"repaired,omitempty"`
}

// Observer receives positioning decisions.
type Observer interface {
	OnDecision(DecisionEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(DecisionEvent)

// OnDecision calls f(e).
func (f ObserverFunc) OnDecision(e DecisionEvent) { f(e) }

func newEvent(p pictograph.PictographData, d Decision) DecisionEvent {
	return DecisionEvent{
		ID:         uuid.NewString(),
		Letter:     p.Letter,
		Method:     d.Method,
		Overlap:    d.Overlap,
		Source:     d.Source,
		Directions: d.Directions,
		Offsets:    d.Offsets,
		Repaired:   d.Repaired,
	}
}
