// Package pictograph defines the value types shared by every stage of the
// placement engine.
//
// # Overview
//
// A [Sequence] is an ordered list of [Beat] values. Each beat carries one
// [PictographData]: the letter it spells, the grid mode, and one [MotionData]
// per [Color] together with the derived [ArrowData] and [PropData].
//
// All types are plain values. The engine never mutates a pictograph it is
// given; operations that repair data (for example orientation continuity
// fixes) return modified copies.
//
// # Enumerations
//
// Enumerations are string-typed so they serialize directly to JSON, BSON and
// TOML:
//
//	Location          n e s w ne se sw nw
//	Orientation       in out clock counter
//	MotionType        pro anti static dash float
//	RotationDirection cw ccw none
//	Color             blue red
//	Direction         up down left right upright upleft downright downleft
//
// Parse functions accept any letter case and return ok=false for unknown
// values so callers can apply their own fallback.
package pictograph
