package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestCreateBoundsSignature(t *testing.T) {
	if got := CreateBoundsSignature(nil); got != UnknownBoundsSignature {
		t.Errorf("CreateBoundsSignature(nil) = %q, want %q", got, UnknownBoundsSignature)
	}

	a := &Bounds{West: 0, South: -1024.5, East: 2048, North: 0}
	b := &Bounds{West: 0, South: -1024.5, East: 2048, North: 0}
	if CreateBoundsSignature(a) != CreateBoundsSignature(b) {
		t.Errorf("equal bounds produced different signatures")
	}
	if got, want := CreateBoundsSignature(a), "bounds:0.000000,-1024.500000,2048.000000,0.000000"; got != want {
		t.Errorf("CreateBoundsSignature = %q, want %q", got, want)
	}

	c := &Bounds{West: 0, South: -1024.5, East: 2049, North: 0}
	if CreateBoundsSignature(a) == CreateBoundsSignature(c) {
		t.Errorf("different bounds produced the same signature")
	}
}

func TestPadExtent(t *testing.T) {
	got := PadExtent(Extent{0, 0, 256, 256})
	want := Extent{-12.8, -12.8, 268.8, 268.8}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("PadExtent = %v, want %v", got, want)
		}
	}
	if c := got.Center(); c != (orb.Point{128, 128}) {
		t.Errorf("padded center = %v, want [128 128]", c)
	}
}

func TestIsFiniteCoordinateTuple(t *testing.T) {
	tests := []struct {
		p    orb.Point
		want bool
	}{
		{orb.Point{1, 2}, true},
		{orb.Point{math.NaN(), 2}, false},
		{orb.Point{1, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		if got := IsFiniteCoordinateTuple(tt.p); got != tt.want {
			t.Errorf("IsFiniteCoordinateTuple(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestBoundsValid(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"normal", Bounds{0, -100, 200, 0}, true},
		{"inverted", Bounds{200, -100, 0, 0}, false},
		{"flat", Bounds{0, 0, 200, 0}, false},
		{"nan", Bounds{math.NaN(), -100, 200, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.b.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
