package sequence

import (
	"reflect"
	"testing"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

func mo(t pictograph.MotionType, turns float64, rot pictograph.RotationDirection, start, end pictograph.Orientation) pictograph.MotionData {
	return pictograph.MotionData{
		MotionType: t,
		StartLoc:   pictograph.North,
		EndLoc:     pictograph.South,
		Turns:      turns,
		PropRotDir: rot,
		StartOri:   start,
		EndOri:     end,
	}
}

func beat(n int, blue, red pictograph.MotionData) pictograph.Beat {
	return pictograph.Beat{Number: n, Pictograph: pictograph.NewPictograph("A", blue, red, "staff")}
}

func static(o pictograph.Orientation) pictograph.MotionData {
	return mo(pictograph.Static, 0, pictograph.NoRotation, o, o)
}

// broken has a blue break at beat 1 that cascades into beat 3.
func broken() pictograph.Sequence {
	start := beat(0, static(pictograph.In), static(pictograph.Out))
	return pictograph.Sequence{
		StartPosition: &start,
		Beats: []pictograph.Beat{
			beat(1,
				mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.Out, pictograph.Out),
				mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.Out, pictograph.Out)),
			{Number: 2, IsBlank: true},
			beat(3,
				mo(pictograph.Pro, 1, pictograph.Clockwise, pictograph.Out, pictograph.In),
				mo(pictograph.Anti, 0, pictograph.CounterClockwise, pictograph.Out, pictograph.In)),
		},
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator()
	seq := broken()
	before := seq.Clone()

	issues := v.Validate(seq)
	want := []Issue{
		{Beat: 1, Color: pictograph.Blue, Previous: pictograph.In, Start: pictograph.Out},
		{Beat: 3, Color: pictograph.Blue, Previous: pictograph.In, Start: pictograph.Out},
	}
	if !reflect.DeepEqual(issues, want) {
		t.Errorf("Validate() = %+v, want %+v", issues, want)
	}
	if !reflect.DeepEqual(seq, before) {
		t.Error("Validate() modified its input")
	}
}

func TestValidateAndFixCascades(t *testing.T) {
	v := NewValidator()
	fixed, fixes := v.ValidateAndFix(broken())

	wantFixes := []string{
		"Fixed blue orientation discontinuity in beat 1: out -> in",
		"Fixed blue orientation discontinuity in beat 3: out -> in",
	}
	if !reflect.DeepEqual(fixes, wantFixes) {
		t.Errorf("fixes = %q, want %q", fixes, wantFixes)
	}

	b1 := fixed.Beats[0].Pictograph.Motions[pictograph.Blue]
	if b1.StartOri != pictograph.In || b1.EndOri != pictograph.In {
		t.Errorf("beat 1 blue = %s -> %s, want in -> in", b1.StartOri, b1.EndOri)
	}
	b3 := fixed.Beats[2].Pictograph.Motions[pictograph.Blue]
	if b3.StartOri != pictograph.In || b3.EndOri != pictograph.Out {
		t.Errorf("beat 3 blue = %s -> %s, want in -> out", b3.StartOri, b3.EndOri)
	}
	if got := fixed.Beats[2].Pictograph.Props[pictograph.Blue].Orientation; got != pictograph.Out {
		t.Errorf("beat 3 blue prop = %s, want out", got)
	}

	if issues := v.Validate(fixed); len(issues) != 0 {
		t.Errorf("fixed sequence still has issues: %+v", issues)
	}
}

func TestValidateAndFixIdempotent(t *testing.T) {
	v := NewValidator()
	once, _ := v.ValidateAndFix(broken())
	twice, fixes := v.ValidateAndFix(once)

	if len(fixes) != 0 {
		t.Errorf("second run fixes = %q, want none", fixes)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("second run changed the sequence")
	}
}

func TestValidateMatchesFixes(t *testing.T) {
	v := NewValidator()
	for _, seq := range []pictograph.Sequence{broken(), colorGap(), {}} {
		issues := v.Validate(seq)
		_, fixes := v.ValidateAndFix(seq)
		if len(issues) != len(fixes) {
			t.Errorf("Validate() = %d issues, ValidateAndFix() = %d fixes", len(issues), len(fixes))
		}
	}
}

// colorGap ends red out at beat 1, leaves red out of beat 2 and starts it
// in at beat 3.
func colorGap() pictograph.Sequence {
	return pictograph.Sequence{Beats: []pictograph.Beat{
		beat(1,
			mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.In, pictograph.In),
			mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.Out, pictograph.Out)),
		{Number: 2, Pictograph: pictograph.PictographData{Motions: map[pictograph.Color]pictograph.MotionData{
			pictograph.Blue: mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.In, pictograph.In),
		}}},
		beat(3,
			mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.In, pictograph.In),
			mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.In, pictograph.In)),
	}}
}

func TestContinuityAcrossColorGap(t *testing.T) {
	v := NewValidator()
	seq := colorGap()

	want := []Issue{{Beat: 3, Color: pictograph.Red, Previous: pictograph.Out, Start: pictograph.In}}
	if got := v.Validate(seq); !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %+v, want %+v", got, want)
	}

	fixed, fixes := v.ValidateAndFix(seq)
	if len(fixes) != 1 {
		t.Fatalf("fixes = %q, want one", fixes)
	}
	red, _ := fixed.Beats[2].Pictograph.Motion(pictograph.Red)
	if red.StartOri != pictograph.Out || red.EndOri != pictograph.Out {
		t.Errorf("beat 3 red = %s -> %s, want out -> out", red.StartOri, red.EndOri)
	}
	if got := v.EndOrientations(seq); got[pictograph.Red] != pictograph.Out {
		t.Errorf("EndOrientations()[red] = %s, want out", got[pictograph.Red])
	}
}

func TestValidateAndFixLeavesInputAlone(t *testing.T) {
	seq := broken()
	before := seq.Clone()
	NewValidator().ValidateAndFix(seq)
	if !reflect.DeepEqual(seq, before) {
		t.Error("ValidateAndFix() modified its input")
	}
}

func TestEndOrientations(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		seq  pictograph.Sequence
		want pictograph.Orientations
	}{
		{"empty", pictograph.Sequence{}, pictograph.Orientations{pictograph.Blue: pictograph.In, pictograph.Red: pictograph.Out}},
		{"only blank beats", pictograph.Sequence{Beats: []pictograph.Beat{{Number: 1, IsBlank: true}}},
			pictograph.Orientations{pictograph.Blue: pictograph.In, pictograph.Red: pictograph.Out}},
		{"derived from repaired chain", broken(), pictograph.Orientations{pictograph.Blue: pictograph.Out, pictograph.Red: pictograph.In}},
		{
			name: "no stored ends",
			seq: pictograph.Sequence{Beats: []pictograph.Beat{{Number: 1, Pictograph: pictograph.PictographData{
				Motions: map[pictograph.Color]pictograph.MotionData{
					pictograph.Blue: mo(pictograph.Pro, 1, pictograph.Clockwise, pictograph.In, ""),
				},
			}}}},
			want: pictograph.Orientations{pictograph.Blue: pictograph.Out, pictograph.Red: pictograph.Out},
		},
		{
			name: "missing color keeps default",
			seq: pictograph.Sequence{Beats: []pictograph.Beat{{Number: 1, Pictograph: pictograph.PictographData{
				Motions: map[pictograph.Color]pictograph.MotionData{pictograph.Red: static(pictograph.Clock)},
			}}}},
			want: pictograph.Orientations{pictograph.Blue: pictograph.In, pictograph.Red: pictograph.Clock},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.EndOrientations(tt.seq); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EndOrientations() = %v, want %v", got, tt.want)
			}
			if got := v.NextStartOrientations(tt.seq); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NextStartOrientations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveRotationDirection(t *testing.T) {
	start := beat(0, mo(pictograph.Static, 0, pictograph.CounterClockwise, pictograph.In, pictograph.In), static(pictograph.Out))
	seq := pictograph.Sequence{
		StartPosition: &start,
		Beats: []pictograph.Beat{
			beat(1, mo(pictograph.Dash, 0, pictograph.NoRotation, pictograph.In, pictograph.Out), mo(pictograph.Pro, 0, pictograph.Clockwise, pictograph.Out, pictograph.Out)),
			{Number: 2, IsBlank: true},
			beat(3, mo(pictograph.Float, 0, pictograph.NoRotation, pictograph.Out, pictograph.Out), mo(pictograph.Float, 0, pictograph.NoRotation, pictograph.Out, pictograph.Out)),
		},
	}

	tests := []struct {
		name  string
		index int
		color pictograph.Color
		want  pictograph.RotationDirection
	}{
		{"red found one beat back", 2, pictograph.Red, pictograph.Clockwise},
		{"blue falls through to start position", 2, pictograph.Blue, pictograph.CounterClockwise},
		{"index past end is clamped", 99, pictograph.Blue, pictograph.CounterClockwise},
		{"negative index reads start position", -1, pictograph.Blue, pictograph.CounterClockwise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRotationDirection(seq, tt.index, tt.color); got != tt.want {
				t.Errorf("ResolveRotationDirection() = %s, want %s", got, tt.want)
			}
		})
	}

	if got := ResolveRotationDirection(pictograph.Sequence{}, 0, pictograph.Red); got != pictograph.Clockwise {
		t.Errorf("empty sequence = %s, want cw", got)
	}
}
