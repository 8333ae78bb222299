package beta

import (
	"fmt"
	"testing"

	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/override"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/prop"
)

func motion(t pictograph.MotionType, start, end pictograph.Location, turns float64, rot pictograph.RotationDirection) pictograph.MotionData {
	return pictograph.MotionData{
		MotionType: t,
		StartLoc:   start,
		EndLoc:     end,
		Turns:      turns,
		PropRotDir: rot,
		StartOri:   pictograph.In,
	}
}

// Both props end at south with orientation out.
func overlappingPair(letter string) pictograph.PictographData {
	blue := motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise)
	red := motion(pictograph.Anti, pictograph.North, pictograph.South, 0, pictograph.CounterClockwise)
	return pictograph.NewPictograph(letter, blue, red, "staff")
}

func swapColors(p pictograph.PictographData) pictograph.PictographData {
	blue, _ := p.Motion(pictograph.Blue)
	red, _ := p.Motion(pictograph.Red)
	return pictograph.NewPictograph(p.Letter, red, blue, "staff")
}

func TestDetectOverlap(t *testing.T) {
	tests := []struct {
		name string
		pict pictograph.PictographData
		ctx  pictograph.Orientations
		want bool
	}{
		{"same location and orientation", overlappingPair("J"), nil, true},
		{
			name: "different end locations",
			pict: pictograph.NewPictograph("J",
				motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise),
				motion(pictograph.Anti, pictograph.North, pictograph.East, 0, pictograph.Clockwise), ""),
			want: false,
		},
		{
			name: "different end orientations",
			pict: pictograph.NewPictograph("J",
				motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise),
				motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise), ""),
			want: false,
		},
		{
			name: "context flips one start orientation",
			pict: overlappingPair("J"),
			ctx:  pictograph.Orientations{pictograph.Blue: pictograph.Out},
			want: false,
		},
		{
			name: "clock counts as in",
			pict: overlappingPair("J"),
			ctx:  pictograph.Orientations{pictograph.Blue: pictograph.Clock, pictograph.Red: pictograph.In},
			want: true,
		},
		{
			name: "missing motion",
			pict: pictograph.PictographData{Letter: "J", Motions: map[pictograph.Color]pictograph.MotionData{
				pictograph.Blue: motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise),
			}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOverlap(tt.pict, tt.ctx); got != tt.want {
				t.Errorf("DetectOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectOverlapSymmetric(t *testing.T) {
	types := []pictograph.MotionType{pictograph.Pro, pictograph.Anti, pictograph.Static, pictograph.Dash, pictograph.Float}
	ends := []pictograph.Location{pictograph.South, pictograph.East}
	oris := []pictograph.Orientation{pictograph.In, pictograph.Out, pictograph.Counter}

	for _, bt := range types {
		for _, rt := range types {
			for _, be := range ends {
				for _, bo := range oris {
					for _, ro := range oris {
						for turns := 0.0; turns <= 2; turns++ {
							blue := motion(bt, pictograph.North, be, turns, pictograph.Clockwise)
							blue.StartOri = bo
							red := motion(rt, pictograph.North, pictograph.South, 1, pictograph.Clockwise)
							red.StartOri = ro
							p := pictograph.NewPictograph("G", blue, red, "")
							ctx := pictograph.Orientations{pictograph.Blue: bo, pictograph.Red: ro}
							swapped := pictograph.Orientations{pictograph.Blue: ro, pictograph.Red: bo}

							if DetectOverlap(p, ctx) != DetectOverlap(swapColors(p), swapped) {
								t.Fatalf("overlap not symmetric for %s/%s end %s ori %s/%s turns %v", bt, rt, be, bo, ro, turns)
							}
						}
					}
				}
			}
		}
	}
}

func TestLetterIDirectionsComplementary(t *testing.T) {
	types := []pictograph.MotionType{pictograph.Pro, pictograph.Anti, pictograph.Static, pictograph.Dash}
	grids := []pictograph.GridMode{pictograph.Diamond, pictograph.Box}

	for _, grid := range grids {
		for _, loc := range append(pictograph.Locations, "") {
			for _, bt := range types {
				for _, rt := range types {
					name := fmt.Sprintf("%s/%s/%s/%s", grid, loc, bt, rt)
					blue := motion(bt, pictograph.North, loc, 1, pictograph.Clockwise)
					red := motion(rt, pictograph.North, loc, 0, pictograph.CounterClockwise)
					b, r := LetterIDirections(blue, red, grid, nil)
					if b == r || b.Opposite() != r {
						t.Errorf("%s: LetterIDirections = %s, %s, want complementary pair", name, b, r)
					}
				}
			}
		}
	}
}

func TestLetterIProLeads(t *testing.T) {
	anti := motion(pictograph.Anti, pictograph.North, pictograph.South, 0, pictograph.Clockwise)
	pro := motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise)

	b, r := LetterIDirections(pro, anti, pictograph.Diamond, nil)
	if b != pictograph.Left || r != pictograph.Right {
		t.Errorf("blue pro: got %s, %s, want left, right", b, r)
	}
	b, r = LetterIDirections(anti, pro, pictograph.Diamond, nil)
	if r != pictograph.Left || b != pictograph.Right {
		t.Errorf("red pro: got %s, %s, want right, left", b, r)
	}
}

func TestSeparationDirection(t *testing.T) {
	d := NewDirections(DefaultRules())

	tests := []struct {
		name      string
		pict      pictograph.PictographData
		wantBlue  pictograph.Direction
		wantRed   pictograph.Direction
		wantSrc   Source
	}{
		{
			name:     "letter rule",
			pict:     pictograph.NewPictograph("Y", motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise), motion(pictograph.Static, pictograph.South, pictograph.South, 0, pictograph.NoRotation), ""),
			wantBlue: pictograph.Down, wantRed: pictograph.Up, wantSrc: SourceLetterRule,
		},
		{
			name:     "rule with one color",
			pict:     pictograph.NewPictograph("Z", motion(pictograph.Static, pictograph.South, pictograph.South, 0, pictograph.NoRotation), motion(pictograph.Anti, pictograph.North, pictograph.South, 0, pictograph.Clockwise), ""),
			wantBlue: pictograph.Up, wantRed: pictograph.Down, wantSrc: SourceLetterRule,
		},
		{
			name:     "mixed pro anti",
			pict:     overlappingPair("J"),
			wantBlue: pictograph.Right, wantRed: pictograph.Left, wantSrc: SourceMotionType,
		},
		{
			name:     "mixed anti pro",
			pict:     swapColors(overlappingPair("J")),
			wantBlue: pictograph.Left, wantRed: pictograph.Right, wantSrc: SourceMotionType,
		},
		{
			name:     "radial at south on diamond",
			pict:     pictograph.NewPictograph("L", motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise), motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise), ""),
			wantBlue: pictograph.Left, wantRed: pictograph.Right, wantSrc: SourceGeometry,
		},
		{
			name:     "radial at east on diamond",
			pict:     pictograph.NewPictograph("L", motion(pictograph.Pro, pictograph.North, pictograph.East, 0, pictograph.Clockwise), motion(pictograph.Pro, pictograph.North, pictograph.East, 0, pictograph.Clockwise), ""),
			wantBlue: pictograph.Up, wantRed: pictograph.Down, wantSrc: SourceGeometry,
		},
		{
			name:     "unknown location falls back to neutral",
			pict:     pictograph.NewPictograph("L", motion(pictograph.Pro, pictograph.North, "", 0, pictograph.Clockwise), motion(pictograph.Pro, pictograph.North, "", 0, pictograph.Clockwise), ""),
			wantBlue: pictograph.Left, wantRed: pictograph.Right, wantSrc: SourceNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blue, red, src := d.Pair(tt.pict, nil)
			if blue != tt.wantBlue || red != tt.wantRed || src != tt.wantSrc {
				t.Errorf("Pair() = %s, %s, %s, want %s, %s, %s", blue, red, src, tt.wantBlue, tt.wantRed, tt.wantSrc)
			}
			bm, _ := tt.pict.Motion(pictograph.Blue)
			if got := d.SeparationDirection(bm, tt.pict, pictograph.Blue, nil); got != tt.wantBlue {
				t.Errorf("SeparationDirection(blue) = %s, want %s", got, tt.wantBlue)
			}
		})
	}
}

func TestSeparationDirectionBoxGrid(t *testing.T) {
	d := NewDirections(nil)
	for _, loc := range pictograph.Locations {
		m := motion(pictograph.Pro, pictograph.North, loc, 0, pictograph.Clockwise)
		p := pictograph.NewPictograph("L", m, m, "")
		p.GridMode = pictograph.Box
		blue, red, _ := d.Pair(p, nil)
		for _, dir := range []pictograph.Direction{blue, red} {
			if v := geometry.UnitVector(dir); v.X == 0 || v.Y == 0 {
				t.Errorf("box grid at %s gave non-diagonal direction %s", loc, dir)
			}
		}
		if blue.Opposite() != red {
			t.Errorf("box grid at %s: %s/%s not antiparallel", loc, blue, red)
		}
	}
}

func TestCalculateDirectionalOffset(t *testing.T) {
	mags := DefaultMagnitudes()
	if got := CalculateDirectionalOffset(pictograph.Right, prop.Big, mags); got != (geometry.Vec{X: 35}) {
		t.Errorf("right big = %v, want {35 0}", got)
	}
	if got := CalculateDirectionalOffset(pictograph.Up, prop.Hand, mags); got != (geometry.Vec{Y: -10}) {
		t.Errorf("up hand = %v, want {0 -10}", got)
	}
	diag := CalculateDirectionalOffset(pictograph.DownLeft, prop.Small, mags)
	if d := diag.Len() - 25; d > 1e-9 || d < -1e-9 {
		t.Errorf("diagonal offset length = %v, want 25", diag.Len())
	}
	if mags.For(prop.Hand) >= mags.For(prop.Small) || mags.For(prop.Small) >= mags.For(prop.Big) {
		t.Error("magnitudes should grow hand < small < big")
	}
}

func TestPositionOverlapSeparatesAntiparallel(t *testing.T) {
	pos := NewPositioner(Config{Overrides: mustTable(t, "")})
	res := pos.Position(overlappingPair("J"), nil)

	if !res.Overlap || res.Method != MethodAlgorithmic {
		t.Fatalf("Method = %s overlap = %v, want algorithmic overlap", res.Method, res.Overlap)
	}
	blue, red := res.Offset(pictograph.Blue), res.Offset(pictograph.Red)
	if blue.IsZero() || red.IsZero() {
		t.Fatalf("offsets should be non-zero: %v %v", blue, red)
	}
	if blue.Neg() != red {
		t.Errorf("offsets not antiparallel: %v %v", blue, red)
	}

	south := geometry.DefaultHandPoints().Point(pictograph.South)
	bp := res.Props[pictograph.Blue]
	if bp.X != south.X+blue.X || bp.Y != south.Y+blue.Y {
		t.Errorf("blue prop at (%v,%v), want hand point plus offset", bp.X, bp.Y)
	}
}

func TestMixedSizeClassesShareLargerMagnitude(t *testing.T) {
	p := overlappingPair("J")
	bp := p.Props[pictograph.Blue]
	bp.PropType = "hand"
	p.Props[pictograph.Blue] = bp
	rp := p.Props[pictograph.Red]
	rp.PropType = "bigstaff"
	p.Props[pictograph.Red] = rp

	mags := DefaultMagnitudes()
	res := NewPositioner(Config{Overrides: mustTable(t, "")}).Position(p, nil)
	blue, red := res.Offset(pictograph.Blue), res.Offset(pictograph.Red)
	for c, off := range map[pictograph.Color]geometry.Vec{pictograph.Blue: blue, pictograph.Red: red} {
		if d := off.Len() - mags.For(prop.Big); d > 1e-9 || d < -1e-9 {
			t.Errorf("%s offset length = %v, want %v", c, off.Len(), mags.For(prop.Big))
		}
	}
	if blue.Neg() != red {
		t.Errorf("offsets not antiparallel: %v %v", blue, red)
	}
}

func TestPositionNoOverlapUnmodified(t *testing.T) {
	pos := NewPositioner(Config{})
	p := pictograph.NewPictograph("J",
		motion(pictograph.Pro, pictograph.North, pictograph.South, 1, pictograph.Clockwise),
		motion(pictograph.Pro, pictograph.North, pictograph.East, 1, pictograph.Clockwise), "")

	res := pos.Position(p, nil)
	if res.Method != MethodNone {
		t.Errorf("Method = %s, want none", res.Method)
	}
	for c, pp := range res.Props {
		if pp.DX != 0 || pp.DY != 0 {
			t.Errorf("%s offset = (%v,%v), want zero", c, pp.DX, pp.DY)
		}
	}
}

func TestPositionNonBetaLetter(t *testing.T) {
	pos := NewPositioner(Config{})
	if pos.ShouldApplyBetaPositioning(overlappingPair("A")) {
		t.Error("A is not a beta-ending letter")
	}
	if res := pos.Position(overlappingPair("A"), nil); res.Method != MethodNone {
		t.Errorf("Method = %s, want none", res.Method)
	}
}

func TestOverrideOffsetTakesPrecedence(t *testing.T) {
	tbl := mustTable(t, `
[[override]]
letter = "J"
blue_turns = 1
red_turns = 0
offset = [3.5, -7.25]
`)
	pos := NewPositioner(Config{Overrides: tbl})
	res := pos.Position(overlappingPair("J"), nil)

	if res.Method != MethodOffsetOverride {
		t.Fatalf("Method = %s, want offset_override", res.Method)
	}
	if got := res.Offset(pictograph.Blue); got != (geometry.Vec{X: 3.5, Y: -7.25}) {
		t.Errorf("blue = %v, want exact override", got)
	}
	if got := res.Offset(pictograph.Red); got != (geometry.Vec{X: -3.5, Y: 7.25}) {
		t.Errorf("red = %v, want negated override", got)
	}
}

func TestOverrideSwapExchangesPlacements(t *testing.T) {
	p := pictograph.NewPictograph("G",
		motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise),
		motion(pictograph.Pro, pictograph.North, pictograph.South, 0, pictograph.Clockwise), "")

	plain := NewPositioner(Config{Overrides: mustTable(t, "")}).Resolve(p, nil)
	swapped := NewPositioner(Config{}).Resolve(p, nil)

	if swapped.Method != MethodSwapOverride {
		t.Fatalf("Method = %s, want swap_override", swapped.Method)
	}
	if swapped.Offset(pictograph.Blue) != plain.Offset(pictograph.Red) || swapped.Offset(pictograph.Red) != plain.Offset(pictograph.Blue) {
		t.Errorf("swap = %v, plain = %v", swapped.Offsets, plain.Offsets)
	}
}

func TestRuntimeAntiparallelRepair(t *testing.T) {
	rules, err := NewRuleTable([]Rule{{
		Letter: "J", BlueType: pictograph.Pro, RedType: pictograph.Anti,
		Blue: pictograph.Up, Red: pictograph.Left,
	}})
	if err != nil {
		t.Fatal(err)
	}

	var events []DecisionEvent
	pos := NewPositioner(Config{
		Overrides: mustTable(t, ""),
		Rules:     rules,
		Observer:  ObserverFunc(func(e DecisionEvent) { events = append(events, e) }),
	})
	res := pos.Position(overlappingPair("J"), nil)

	if !res.Repaired || res.Directions[pictograph.Red] != pictograph.Down {
		t.Errorf("red direction = %s repaired = %v, want down repaired", res.Directions[pictograph.Red], res.Repaired)
	}
	if len(events) != 1 || !events[0].Repaired || events[0].ID == "" {
		t.Errorf("events = %+v, want one repaired event with id", events)
	}
}

func TestObserverDoesNotAffectGeometry(t *testing.T) {
	p := overlappingPair("J")
	without := NewPositioner(Config{}).Position(p, nil)
	with := NewPositioner(Config{Observer: ObserverFunc(func(DecisionEvent) {})}).Position(p, nil)
	for _, c := range pictograph.Colors {
		if without.Props[c] != with.Props[c] {
			t.Errorf("%s placement differs with observer attached", c)
		}
	}
}

func TestParseRulesErrors(t *testing.T) {
	bad := []string{
		`[[rule]`,
		"[[rule]]\nletter = \"Y\"\nblue_type = \"pro\"\nred_type = \"static\"\n",
		"[[rule]]\nletter = \"Y\"\nblue_type = \"spin\"\nred_type = \"static\"\nblue = \"up\"\n",
		"[[rule]]\nletter = \"Y\"\nblue_type = \"pro\"\nred_type = \"static\"\nblue = \"sideways\"\n",
		"[[rule]]\nblue_type = \"pro\"\nred_type = \"static\"\nblue = \"up\"\n",
		"[[rule]]\nletter = \"Y\"\nblue_type = \"pro\"\nred_type = \"static\"\nblue = \"up\"\nweight = 2\n",
	}
	for i, src := range bad {
		if _, err := ParseRules([]byte(src)); err == nil {
			t.Errorf("case %d: ParseRules() error = nil, want error", i)
		}
	}
	if DefaultRules().Len() == 0 {
		t.Error("embedded rules are empty")
	}
}

func mustTable(t *testing.T, src string) *override.Table {
	t.Helper()
	tbl, err := override.Parse([]byte(src))
	if err != nil {
		t.Fatalf("override.Parse: %v", err)
	}
	return tbl
}
