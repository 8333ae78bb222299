// Package continuity renders the orientation chain of a sequence as a
// Graphviz diagram.
//
// # Overview
//
// Each color gets a lane of nodes, one per regular beat, labelled with the
// beat's letter and its start and end orientation. Consecutive beats are
// connected left to right. Edges where the previous beat's end orientation
// does not match the next beat's start orientation are drawn dashed in red
// and labelled with the mismatch, so continuity breaks stand out before
// the sequence is repaired.
//
// # Usage
//
//	dot := continuity.ToDOT(seq, continuity.Options{Detailed: true})
//	svg, err := continuity.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package continuity
