// Package engine runs the motion placement pipeline over whole sequences.
//
// The core packages under pkg/core are pure calculators. This package wires
// them into the flow every entry point (CLI, API) uses, so that they all
// behave the same:
//
//  1. Validate: repair orientation discontinuities between beats
//  2. Resolve: give rotating motions without a direction the last one used
//  3. Position: place props and arrows of each beat, passing the previous
//     beat's end orientations in as context
//
// Placements are memoized through [cache.Cache]; since every placement is a
// pure function of its inputs, a cache only changes how fast results come.
//
// # Usage
//
//	runner := engine.NewRunner(c, nil, logger, engine.Options{})
//	result, err := runner.PositionSequence(ctx, seq)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range result.Beats {
//	    fmt.Println(b.Beat, b.Decision.Method)
//	}
package engine

import (
	"math"
	"time"

	"github.com/matzehuels/flowglyph/pkg/cache"
	"github.com/matzehuels/flowglyph/pkg/core/arrow"
	"github.com/matzehuels/flowglyph/pkg/core/beta"
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/override"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTTL is how long placement results stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultScale is the glyph scale applied to arrows.
	DefaultScale = 1.0
)

// =============================================================================
// Options
// =============================================================================

// Options configures the engine tables. Zero fields take the embedded
// defaults, so the zero value is a working configuration.
type Options struct {
	Grid        geometry.Grid
	Magnitudes  beta.Magnitudes
	Bounds      arrow.GlyphBounds
	Scale       float64
	BetaLetters []string
	Overrides   *override.Table
	Rules       *beta.RuleTable

	// Observer receives beta decisions that were computed rather than
	// served from the cache.
	Observer beta.Observer

	// TTL of cached placements. Zero uses DefaultTTL.
	TTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.Grid == (geometry.Grid{}) {
		o.Grid = geometry.DefaultGrid()
	}
	if o.Magnitudes == nil {
		o.Magnitudes = beta.DefaultMagnitudes()
	}
	if o.Bounds == nil {
		o.Bounds = arrow.DefaultGlyphBounds()
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.BetaLetters == nil {
		o.BetaLetters = beta.DefaultBetaLetters()
	}
	if o.Overrides == nil {
		o.Overrides = override.Default()
	}
	if o.Rules == nil {
		o.Rules = beta.DefaultRules()
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return o
}

// Profile returns a hash of everything in o that changes placements. Two
// runners with equal profiles produce equal results and may share a cache.
// It fails when o holds a value JSON cannot encode, such as a NaN scale.
func (o Options) Profile() (string, error) {
	o = o.withDefaults()
	return cache.HashValue(struct {
		Grid        geometry.Grid
		Magnitudes  beta.Magnitudes
		Bounds      arrow.GlyphBounds
		Scale       float64
		BetaLetters []string
		Overrides   []override.Record
		Rules       []beta.Rule
	}{o.Grid, o.Magnitudes, o.Bounds, o.Scale, o.BetaLetters, o.Overrides.Records(), o.Rules.Rules()})
}

// =============================================================================
// Results
// =============================================================================

// Placement is the positioned state of one beat.
type Placement struct {
	Beat     int           `json:"beat"`
	Letter   string        `json:"letter,omitempty"`
	IsStart  bool          `json:"is_start,omitempty"`
	IsBlank  bool          `json:"is_blank,omitempty"`
	Decision beta.Decision `json:"decision"`

	Arrows map[pictograph.Color]arrow.Placement     `json:"arrows,omitempty"`
	Props  map[pictograph.Color]beta.PropPlacement `json:"props,omitempty"`

	// StartOrientations and EndOrientations are the orientations each prop
	// starts and ends the beat with once sequence context is applied.
	StartOrientations pictograph.Orientations `json:"start_orientations,omitempty"`
	EndOrientations   pictograph.Orientations `json:"end_orientations,omitempty"`
}

// Result is the outcome of positioning a whole sequence.
type Result struct {
	// Sequence is the input with continuity repaired and rotation
	// directions resolved.
	Sequence pictograph.Sequence `json:"sequence"`

	StartPosition *Placement  `json:"start_position,omitempty"`
	Beats         []Placement `json:"beats"`

	// Fixes lists the human-readable continuity repairs that were made.
	Fixes []string `json:"fixes"`

	// EndOrientations seeds the next beat appended to the sequence.
	EndOrientations pictograph.Orientations `json:"end_orientations"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains execution statistics.
type Stats struct {
	BeatCount int           `json:"beat_count"`
	Overlaps  int           `json:"overlaps"`
	Overrides int           `json:"overrides"`
	Repairs   int           `json:"repairs"`
	Duration  time.Duration `json:"duration"`
}

// CacheInfo tracks how much of a result came from the cache.
type CacheInfo struct {
	SequenceHit     bool `json:"sequence_hit"` // Whole result served from cache
	PlacementHits   int  `json:"placement_hits"`
	PlacementMisses int  `json:"placement_misses"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidatePictograph checks that p can be positioned: it needs at least one
// motion of a known color, and a letter when one is given must be valid.
// Unknown motion types and locations are not errors; the engine places them
// with its fallbacks.
func ValidatePictograph(p pictograph.PictographData) error {
	if len(p.Motions) == 0 {
		return errors.New(errors.ErrCodeInvalidMotion, "pictograph has no motions")
	}
	for c, m := range p.Motions {
		if c != pictograph.Blue && c != pictograph.Red {
			return errors.New(errors.ErrCodeInvalidMotion, "unknown color %q", c)
		}
		if math.IsNaN(m.Turns) || math.IsInf(m.Turns, 0) {
			return errors.New(errors.ErrCodeInvalidMotion, "%s turns must be a finite number", c)
		}
	}
	if p.Letter != "" {
		if err := errors.ValidateLetter(p.Letter); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSequence checks every non-blank beat of seq with
// [ValidatePictograph]. Errors name the offending beat.
func ValidateSequence(seq pictograph.Sequence) error {
	if seq.ID != "" {
		if err := errors.ValidateSequenceID(seq.ID); err != nil {
			return err
		}
	}
	if sp := seq.StartPosition; sp != nil && sp.IsRegular() {
		if err := ValidatePictograph(sp.Pictograph); err != nil {
			return errors.New(errors.ErrCodeInvalidSequence, "start position: %s", errors.UserMessage(err))
		}
	}
	for i, b := range seq.Beats {
		if !b.IsRegular() {
			continue
		}
		if err := ValidatePictograph(b.Pictograph); err != nil {
			return errors.New(errors.ErrCodeInvalidSequence, "beat %d: %s", beatNumber(b, i), errors.UserMessage(err))
		}
	}
	return nil
}

func beatNumber(b pictograph.Beat, index int) int {
	if b.Number > 0 {
		return b.Number
	}
	return index + 1
}
