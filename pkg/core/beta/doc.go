// Package beta resolves prop overlap ("beta positioning").
//
// Two props overlap when they end on the same hand point with the same
// radial orientation. For letters in the beta-ending set the positioner then
// pushes them apart along antiparallel separation directions:
//
//	override table   pinned offsets or a blue/red swap, checked first
//	DetectOverlap    same end location and same radial end orientation
//	Directions       letter rules, motion-type defaults, grid geometry, neutral split
//	LetterIDirections  joint pair for letter I
//	Magnitudes       direction + prop size class -> pixel offset
//
// All tables are injected immutable values. [Positioner.Resolve] is pure;
// [Positioner.Position] additionally reports a [DecisionEvent] to an optional
// [Observer].
package beta
