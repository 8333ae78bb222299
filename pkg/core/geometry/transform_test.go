package geometry

import "testing"

func TestRotationQuarterTurn(t *testing.T) {
	// Clockwise in screen space: +x goes to +y.
	got := Rotation(90).Apply(Vec{1, 0})
	if !near(got.X, 0) || !near(got.Y, 1) {
		t.Errorf("Rotation(90) of (1,0) = %v, want (0,1)", got)
	}
}

func TestThenOrder(t *testing.T) {
	// Scale first, then mirror: (2,3) -> (4,6) -> (-4,6).
	tr := Scaling(2).Then(MirrorX())
	if got := tr.Apply(Vec{2, 3}); got != (Vec{-4, 6}) {
		t.Errorf("Apply = %v, want {-4 6}", got)
	}

	translate := Transform{A: 1, D: 1, E: 10, F: 5}
	tr = Scaling(2).Then(translate)
	if got := tr.Apply(Vec{1, 1}); got != (Vec{12, 7}) {
		t.Errorf("scale then translate = %v, want {12 7}", got)
	}
}

func TestBoundsTransformedCenter(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, Width: 40, Height: 20}

	tests := []struct {
		name string
		tr   Transform
		want Vec
	}{
		{"identity", Identity(), Vec{20, 10}},
		{"scaled", Scaling(0.5), Vec{10, 5}},
		{"mirrored", MirrorX(), Vec{-20, 10}},
		{"rotated 90", Rotation(90), Vec{-10, 20}},
		{"rotated 180", Rotation(180), Vec{-20, -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.TransformedCenter(tt.tr)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
				t.Errorf("TransformedCenter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsEmpty(t *testing.T) {
	if got := (Bounds{Width: 0, Height: 10}).TransformedCenter(Rotation(45)); !got.IsZero() {
		t.Errorf("empty bounds centre = %v, want zero", got)
	}
}
