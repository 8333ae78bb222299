package beta

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowglyph/pkg/core/orientation"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

//go:embed directions.toml
var defaultRules []byte

// DefaultRulesTOML returns the embedded default rule table source.
func DefaultRulesTOML() []byte { return defaultRules }

// Source names the step that produced a pair of separation directions.
type Source string

const (
	SourceLetterRule Source = "letter_rule"
	SourceLetterI    Source = "letter_i"
	SourceMotionType Source = "motion_type"
	SourceGeometry   Source = "geometry"
	SourceNeutral    Source = "neutral"
)

// Rule pins the separation directions for a letter and motion-type pair.
type Rule struct {
	Letter   string                `toml:"letter" json:"letter"`
	BlueType pictograph.MotionType `toml:"blue_type" json:"blue_type"`
	RedType  pictograph.MotionType `toml:"red_type" json:"red_type"`
	Blue     pictograph.Direction  `toml:"blue,omitempty" json:"blue,omitempty"`
	Red      pictograph.Direction  `toml:"red,omitempty" json:"red,omitempty"`
}

type ruleKey struct {
	letter   string
	blueType pictograph.MotionType
	redType  pictograph.MotionType
}

// RuleTable is an immutable set of letter direction rules.
type RuleTable struct {
	rules []Rule
	index map[ruleKey]Rule
}

type ruleFile struct {
	Rule []Rule `toml:"rule"`
}

// ParseRules decodes and validates a TOML rule table.
func ParseRules(data []byte) (*RuleTable, error) {
	var f ruleFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "decode direction rules")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "unknown direction rule key %q", undecoded[0].String())
	}
	return NewRuleTable(f.Rule)
}

// LoadRules reads and parses a rule table from path.
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "direction rules %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read direction rules %s", path)
	}
	t, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

var defaultRulesOnce = sync.OnceValue(func() *RuleTable {
	t, err := ParseRules(defaultRules)
	if err != nil {
		panic("beta: embedded direction rules are invalid: " + err.Error())
	}
	return t
})

// DefaultRules returns the embedded rule table.
func DefaultRules() *RuleTable { return defaultRulesOnce() }

// NewRuleTable builds a rule table. A rule must name a letter, two known
// motion types and at least one known direction. Pairs that are not
// antiparallel are accepted here; the positioner repairs them at runtime.
func NewRuleTable(rules []Rule) (*RuleTable, error) {
	t := &RuleTable{index: make(map[ruleKey]Rule, len(rules))}
	for i, r := range rules {
		if r.Letter == "" {
			return nil, errors.New(errors.ErrCodeInvalidTable, "rule %d: letter is required", i+1)
		}
		if !r.BlueType.Valid() || !r.RedType.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidTable, "rule %d: unknown motion type pair %q/%q", i+1, r.BlueType, r.RedType)
		}
		if r.Blue == "" && r.Red == "" {
			return nil, errors.New(errors.ErrCodeInvalidTable, "rule %d: at least one direction is required", i+1)
		}
		for _, d := range []pictograph.Direction{r.Blue, r.Red} {
			if d == "" {
				continue
			}
			if _, ok := pictograph.ParseDirection(string(d)); !ok {
				return nil, errors.New(errors.ErrCodeInvalidTable, "rule %d: unknown direction %q", i+1, d)
			}
		}
		k := ruleKey{r.Letter, r.BlueType, r.RedType}
		if _, dup := t.index[k]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTable, "rule %d: duplicate rule for %s %s/%s", i+1, r.Letter, r.BlueType, r.RedType)
		}
		if r.Blue == "" {
			r.Blue = r.Red.Opposite()
		}
		if r.Red == "" {
			r.Red = r.Blue.Opposite()
		}
		t.index[k] = r
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Lookup returns the rule for a letter and motion-type pair.
func (t *RuleTable) Lookup(letter string, blueType, redType pictograph.MotionType) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	r, ok := t.index[ruleKey{letter, blueType, redType}]
	return r, ok
}

// Rules returns a sorted copy of the table's rules.
func (t *RuleTable) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := append([]Rule(nil), t.rules...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Letter != out[j].Letter {
			return out[i].Letter < out[j].Letter
		}
		if out[i].BlueType != out[j].BlueType {
			return out[i].BlueType < out[j].BlueType
		}
		return out[i].RedType < out[j].RedType
	})
	return out
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Directions picks separation directions for overlapping props.
type Directions struct {
	rules *RuleTable
}

// NewDirections returns a calculator backed by rules. A nil table disables
// letter rules.
func NewDirections(rules *RuleTable) *Directions {
	return &Directions{rules: rules}
}

// SeparationDirection returns the direction in which the prop of color c is
// pushed. m is that color's motion; p supplies the letter, grid mode and the
// other motion. ctx may be nil.
//
// Resolution order: letter rule, mixed pro/anti default, grid geometry,
// neutral split. The pair-wise variant is [Directions.Pair].
func (d *Directions) SeparationDirection(m pictograph.MotionData, p pictograph.PictographData, c pictograph.Color, ctx pictograph.Orientations) pictograph.Direction {
	p = p.WithMotion(c, m)
	blue, red, _ := d.Pair(p, ctx)
	if c == pictograph.Red {
		return red
	}
	return blue
}

// Pair returns the separation directions of both props and the step that
// produced them. Letter I is resolved jointly by [LetterIDirections].
func (d *Directions) Pair(p pictograph.PictographData, ctx pictograph.Orientations) (blue, red pictograph.Direction, src Source) {
	bm, hasBlue := p.Motion(pictograph.Blue)
	rm, hasRed := p.Motion(pictograph.Red)

	if p.Letter == "I" && hasBlue && hasRed {
		blue, red = LetterIDirections(bm, rm, p.Grid(), ctx)
		return blue, red, SourceLetterI
	}

	if hasBlue && hasRed {
		if r, ok := d.rules.Lookup(p.Letter, bm.MotionType, rm.MotionType); ok {
			return r.Blue, r.Red, SourceLetterRule
		}
		if dirs, ok := motionTypeDirections(bm.MotionType, rm.MotionType); ok {
			return dirs[0], dirs[1], SourceMotionType
		}
	}

	// Geometry from whichever motion is present, blue first.
	for _, c := range pictograph.Colors {
		m, ok := p.Motion(c)
		if !ok {
			continue
		}
		if base, ok := geometricDirection(m, p.Grid(), ctx.Get(c)); ok {
			if c == pictograph.Blue {
				return base, base.Opposite(), SourceGeometry
			}
			return base.Opposite(), base, SourceGeometry
		}
	}

	return pictograph.Left, pictograph.Right, SourceNeutral
}

// motionTypeDirections sends the pro prop right and the anti prop left when
// the pair mixes the two.
func motionTypeDirections(blue, red pictograph.MotionType) ([2]pictograph.Direction, bool) {
	switch {
	case blue == pictograph.Pro && red == pictograph.Anti:
		return [2]pictograph.Direction{pictograph.Right, pictograph.Left}, true
	case blue == pictograph.Anti && red == pictograph.Pro:
		return [2]pictograph.Direction{pictograph.Left, pictograph.Right}, true
	}
	return [2]pictograph.Direction{}, false
}

// Perpendicular to a radial prop (long axis through the centre), keyed by end
// location. The first entry is the blue side: the one pointing left, or up
// when the pair is vertical.
var radialSeparation = map[pictograph.Location]pictograph.Direction{
	pictograph.North:     pictograph.Left,
	pictograph.South:     pictograph.Left,
	pictograph.East:      pictograph.Up,
	pictograph.West:      pictograph.Up,
	pictograph.Northeast: pictograph.UpLeft,
	pictograph.Southwest: pictograph.UpLeft,
	pictograph.Northwest: pictograph.DownLeft,
	pictograph.Southeast: pictograph.DownLeft,
}

// Perpendicular to a non-radial prop (long axis along the circle).
var nonRadialSeparation = map[pictograph.Location]pictograph.Direction{
	pictograph.North:     pictograph.Up,
	pictograph.South:     pictograph.Up,
	pictograph.East:      pictograph.Left,
	pictograph.West:      pictograph.Left,
	pictograph.Northeast: pictograph.DownLeft,
	pictograph.Southwest: pictograph.DownLeft,
	pictograph.Northwest: pictograph.UpLeft,
	pictograph.Southeast: pictograph.UpLeft,
}

// geometricDirection returns the blue-side direction that pushes a prop
// ending at m.EndLoc perpendicular to its long axis, snapped to the direction
// family of the grid: cardinal for diamond, diagonal for box. It reports
// false when the end location is unknown.
func geometricDirection(m pictograph.MotionData, grid pictograph.GridMode, ctxStart pictograph.Orientation) (pictograph.Direction, bool) {
	table := radialSeparation
	if !orientation.EndOrientation(m, orientation.StartOf(m, ctxStart)).IsRadial() {
		table = nonRadialSeparation
	}
	d, ok := table[m.EndLoc]
	if !ok {
		return "", false
	}
	return snapToGrid(d, grid), true
}

// snapToGrid maps a direction into the grid's family. Both mappings commute
// with Opposite, so antiparallel pairs stay antiparallel.
func snapToGrid(d pictograph.Direction, grid pictograph.GridMode) pictograph.Direction {
	if grid == pictograph.Box {
		switch d {
		case pictograph.Left:
			return pictograph.UpLeft
		case pictograph.Right:
			return pictograph.DownRight
		case pictograph.Up:
			return pictograph.UpRight
		case pictograph.Down:
			return pictograph.DownLeft
		}
		return d
	}
	switch d {
	case pictograph.UpLeft, pictograph.DownLeft:
		return pictograph.Left
	case pictograph.UpRight, pictograph.DownRight:
		return pictograph.Right
	}
	return d
}

// LetterIDirections returns the coupled separation pair for letter I. The
// pro prop takes the geometric base direction of the shared end location and
// the other prop takes its opposite. When neither or both motions are pro,
// blue takes the base direction. Without a known end location the base
// direction is left.
func LetterIDirections(blue, red pictograph.MotionData, grid pictograph.GridMode, ctx pictograph.Orientations) (pictograph.Direction, pictograph.Direction) {
	lead, leadColor := blue, pictograph.Blue
	if red.MotionType == pictograph.Pro && blue.MotionType != pictograph.Pro {
		lead, leadColor = red, pictograph.Red
	}

	base, ok := geometricDirection(lead, grid, ctx.Get(leadColor))
	if !ok {
		base = snapToGrid(pictograph.Left, grid)
	}
	if leadColor == pictograph.Red {
		return base.Opposite(), base
	}
	return base, base.Opposite()
}
