package engine

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowglyph/pkg/cache"
	"github.com/matzehuels/flowglyph/pkg/core/arrow"
	"github.com/matzehuels/flowglyph/pkg/core/beta"
	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/sequence"
	"github.com/matzehuels/flowglyph/pkg/observability"
)

// Runner encapsulates positioning with caching.
// Both CLI and API use it to avoid duplicating the pipeline.
//
// The Runner holds no per-request state: its tables are immutable after
// construction, so multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	opts       Options
	keyOpts    cache.KeyOpts
	profileErr error
	props      *beta.Positioner
	arrows     *arrow.Positioner
	validator  *sequence.Validator
}

// NewRunner creates a runner with the given cache, keyer and engine options.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts Options) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	opts = opts.withDefaults()

	hands := geometry.NewHandPoints(opts.Grid)
	props := beta.NewPositioner(beta.Config{
		BetaLetters: opts.BetaLetters,
		Overrides:   opts.Overrides,
		Rules:       opts.Rules,
		Magnitudes:  opts.Magnitudes,
		HandPoints:  hands,
		Observer:    opts.Observer,
	})
	profile, profileErr := opts.Profile()
	if profileErr != nil {
		logger.Warn("engine options cannot be hashed, caching disabled", "error", profileErr)
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		opts:       opts,
		keyOpts:    cache.KeyOpts{Profile: profile},
		profileErr: profileErr,
		props:      props,
		arrows:     arrow.NewPositioner(arrow.Config{HandPoints: hands, Bounds: opts.Bounds, Scale: opts.Scale, Props: props}),
		validator:  sequence.NewValidator(),
	}
}

// Options returns the resolved engine options.
func (r *Runner) Options() Options { return r.opts }

// Props returns the prop positioner.
func (r *Runner) Props() *beta.Positioner { return r.props }

// Arrows returns the arrow positioner.
func (r *Runner) Arrows() *arrow.Positioner { return r.arrows }

// Validator returns the sequence orientation validator.
func (r *Runner) Validator() *sequence.Validator { return r.validator }

// =============================================================================
// Pictographs
// =============================================================================

// PositionPictograph places the props and arrows of p. prev holds the
// previous beat's end orientations and may be nil.
func (r *Runner) PositionPictograph(ctx context.Context, p pictograph.PictographData, prev pictograph.Orientations) (*Placement, error) {
	pl, _, err := r.PositionPictographWithCacheInfo(ctx, p, prev)
	return pl, err
}

// PositionPictographWithCacheInfo places p with caching and reports whether
// the placement came from the cache.
func (r *Runner) PositionPictographWithCacheInfo(ctx context.Context, p pictograph.PictographData, prev pictograph.Orientations) (*Placement, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := ValidatePictograph(p); err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	key, keyErr := r.placementKey(p, prev)
	if keyErr != nil {
		r.Logger.Debug("placement not cacheable", "letter", p.Letter, "error", keyErr)
	} else if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached Placement
		if err := json.Unmarshal(data, &cached); err == nil {
			// Decisions were reported when the placement was computed.
			hooks.OnCacheHit(ctx, cache.KeyTypePlacement)
			return &cached, true, nil
		}
		// Undecodable entries fall through and get overwritten.
	} else if err != nil {
		r.Logger.Warn("placement cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, cache.KeyTypePlacement)

	pl := r.place(p, prev)
	r.recordDecision(ctx, p.Letter, pl.Decision)

	if keyErr != nil {
		return pl, false, nil
	}
	if data, err := json.Marshal(pl); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.opts.TTL); err != nil {
			r.Logger.Warn("placement cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, cache.KeyTypePlacement, len(data))
		}
	}
	return pl, false, nil
}

// placementKey returns the cache key of p in context prev. It fails when
// the options or the input cannot be hashed; such placements bypass the
// cache.
func (r *Runner) placementKey(p pictograph.PictographData, prev pictograph.Orientations) (string, error) {
	if r.profileErr != nil {
		return "", r.profileErr
	}
	return r.Keyer.PlacementKey(p, prev, r.keyOpts)
}

func (r *Runner) sequenceKey(seq pictograph.Sequence) (string, error) {
	if r.profileErr != nil {
		return "", r.profileErr
	}
	return r.Keyer.SequenceKey(seq, r.keyOpts)
}

func (r *Runner) place(p pictograph.PictographData, prev pictograph.Orientations) *Placement {
	res := r.props.Position(p, prev)
	pl := &Placement{
		Letter:            p.Letter,
		Decision:          res.Decision,
		Props:             res.Props,
		Arrows:            r.arrows.PlaceAll(p, prev, res.Decision),
		StartOrientations: make(pictograph.Orientations, len(p.Motions)),
		EndOrientations:   make(pictograph.Orientations, len(p.Motions)),
	}
	for c, m := range p.Motions {
		start := orientation.StartOf(m, prev.Get(c))
		pl.StartOrientations[c] = start
		pl.EndOrientations[c] = orientation.EndOrientation(m, start)
	}
	return pl
}

func (r *Runner) recordDecision(ctx context.Context, letter string, d beta.Decision) {
	if d.Method == beta.MethodNone {
		return
	}
	observability.Positioning().OnDecision(ctx, letter, string(d.Method), d.Repaired)
	r.Logger.Debug("beta decision",
		"letter", letter,
		"method", d.Method,
		"source", d.Source,
		"repaired", d.Repaired)
}

// =============================================================================
// Sequences
// =============================================================================

// PositionSequence validates, repairs and positions every beat of seq.
// Each beat is placed with the previous beat's end orientations as context;
// blank beats are carried through without placements and leave the context
// unchanged.
func (r *Runner) PositionSequence(ctx context.Context, seq pictograph.Sequence) (*Result, error) {
	start := time.Now()
	hooks := observability.Positioning()
	hooks.OnSequenceStart(ctx, len(seq.Beats))

	result, err := r.positionSequence(ctx, seq)
	if err != nil {
		hooks.OnSequenceComplete(ctx, len(seq.Beats), 0, time.Since(start), err)
		return nil, err
	}
	result.Stats.Duration = time.Since(start)
	hooks.OnSequenceComplete(ctx, len(seq.Beats), len(result.Fixes), result.Stats.Duration, nil)

	r.Logger.Info("positioned sequence",
		"beats", result.Stats.BeatCount,
		"fixes", len(result.Fixes),
		"overlaps", result.Stats.Overlaps,
		"cached", result.CacheInfo.SequenceHit,
		"duration", result.Stats.Duration)
	return result, nil
}

func (r *Runner) positionSequence(ctx context.Context, seq pictograph.Sequence) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSequence(seq); err != nil {
		return nil, err
	}

	cacheHooks := observability.Cache()
	key, keyErr := r.sequenceKey(seq)
	if keyErr != nil {
		r.Logger.Debug("sequence not cacheable", "error", keyErr)
	} else if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			cacheHooks.OnCacheHit(ctx, cache.KeyTypeSequence)
			cached.Sequence.ID, cached.Sequence.Word, cached.Sequence.Author = seq.ID, seq.Word, seq.Author
			cached.CacheInfo = CacheInfo{SequenceHit: true}
			return &cached, nil
		}
	}
	cacheHooks.OnCacheMiss(ctx, cache.KeyTypeSequence)

	fixed, fixes := r.validator.ValidateAndFix(seq)
	for _, f := range fixes {
		r.Logger.Debug(f)
	}
	fixed = ResolveRotationDirections(fixed)

	result := &Result{
		Sequence: fixed,
		Beats:    make([]Placement, 0, len(fixed.Beats)),
		Fixes:    fixes,
	}
	if result.Fixes == nil {
		result.Fixes = []string{}
	}

	var prev pictograph.Orientations
	if sp := fixed.StartPosition; sp != nil && sp.IsRegular() {
		pl, hit, err := r.PositionPictographWithCacheInfo(ctx, sp.Pictograph, nil)
		if err != nil {
			return nil, err
		}
		result.countPlacement(pl, hit)
		pl.Beat = sp.Number
		pl.IsStart = true
		result.StartPosition = pl
		prev = pl.EndOrientations
	}

	for i, b := range fixed.Beats {
		if !b.IsRegular() {
			result.Beats = append(result.Beats, Placement{
				Beat:    beatNumber(b, i),
				Letter:  b.Pictograph.Letter,
				IsBlank: true,
			})
			continue
		}
		pl, hit, err := r.PositionPictographWithCacheInfo(ctx, b.Pictograph, prev)
		if err != nil {
			return nil, err
		}
		result.countPlacement(pl, hit)
		pl.Beat = beatNumber(b, i)
		result.Beats = append(result.Beats, *pl)
		prev = mergeOrientations(prev, pl.EndOrientations)
	}

	result.EndOrientations = r.validator.EndOrientations(fixed)
	result.Stats.BeatCount = len(result.Beats)

	if keyErr != nil {
		return result, nil
	}
	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.opts.TTL); err == nil {
			cacheHooks.OnCacheSet(ctx, cache.KeyTypeSequence, len(data))
		}
	}
	return result, nil
}

func (res *Result) countPlacement(pl *Placement, hit bool) {
	if hit {
		res.CacheInfo.PlacementHits++
	} else {
		res.CacheInfo.PlacementMisses++
	}
	if pl.Decision.Overlap {
		res.Stats.Overlaps++
	}
	switch pl.Decision.Method {
	case beta.MethodSwapOverride, beta.MethodOffsetOverride:
		res.Stats.Overrides++
	}
	if pl.Decision.Repaired {
		res.Stats.Repairs++
	}
}

// mergeOrientations returns prev updated with next. A beat that lacks one
// color leaves that color's context untouched.
func mergeOrientations(prev, next pictograph.Orientations) pictograph.Orientations {
	out := prev.Clone()
	if out == nil {
		out = make(pictograph.Orientations, len(next))
	}
	for c, o := range next {
		out[c] = o
	}
	return out
}

// ResolveRotationDirections returns a copy of seq in which every pro or anti
// motion without a rotation direction takes the last direction used by the
// same color, or clockwise when there is none.
func ResolveRotationDirections(seq pictograph.Sequence) pictograph.Sequence {
	out := seq.Clone()
	if sp := out.StartPosition; sp != nil {
		sp.Pictograph = resolveRotation(sp.Pictograph, func(c pictograph.Color) pictograph.RotationDirection {
			return pictograph.Clockwise
		})
	}
	for i := range out.Beats {
		if out.Beats[i].IsBlank {
			continue
		}
		out.Beats[i].Pictograph = resolveRotation(out.Beats[i].Pictograph, func(c pictograph.Color) pictograph.RotationDirection {
			return sequence.ResolveRotationDirection(out, i, c)
		})
	}
	return out
}

func resolveRotation(p pictograph.PictographData, lookup func(pictograph.Color) pictograph.RotationDirection) pictograph.PictographData {
	for _, c := range pictograph.Colors {
		m, ok := p.Motion(c)
		if !ok {
			continue
		}
		switch m.MotionType {
		case pictograph.Pro, pictograph.Anti:
			if !m.PropRotDir.IsRotating() {
				m.PropRotDir = lookup(c)
				p = p.WithMotion(c, m)
			}
		}
	}
	return p
}

// =============================================================================
// Read paths
// =============================================================================

// EndOrientations returns the end orientations of the last valid beat of
// seq, or {blue: in, red: out} when there is none.
func (r *Runner) EndOrientations(seq pictograph.Sequence) pictograph.Orientations {
	return r.validator.EndOrientations(seq)
}

// Validate reports the orientation discontinuities of seq without
// repairing them.
func (r *Runner) Validate(seq pictograph.Sequence) []sequence.Issue {
	return r.validator.Validate(seq)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
