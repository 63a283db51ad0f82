package geom

import "testing"

func TestProjectionSetExtent(t *testing.T) {
	p := NewProjection()
	if p.Extent() != DefaultExtent {
		t.Fatalf("initial extent = %v, want default", p.Extent())
	}

	got := p.SetExtent(&Bounds{West: 0, South: -512, East: 1024, North: 0})
	if want := (Extent{0, -512, 1024, 0}); got != want {
		t.Errorf("SetExtent = %v, want %v", got, want)
	}
	if p.MaxResolution() != 4 {
		t.Errorf("MaxResolution = %v, want 4", p.MaxResolution())
	}

	if got := p.SetExtent(nil); got != DefaultExtent {
		t.Errorf("SetExtent(nil) = %v, want default", got)
	}
	if got := p.SetExtent(&Bounds{West: 10, South: 0, East: 5, North: 1}); got != DefaultExtent {
		t.Errorf("SetExtent(inverted) = %v, want default", got)
	}
}

func TestProjectionApplyExtentIgnoresEmpty(t *testing.T) {
	p := NewProjection()
	p.ApplyExtent(Extent{0, 0, 0, 10})
	if p.Extent() != DefaultExtent {
		t.Errorf("empty extent was applied: %v", p.Extent())
	}
}
