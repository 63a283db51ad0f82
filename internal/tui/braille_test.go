package tui

import (
	"math"
	"testing"
)

func TestSetPixelBits(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0)
	b.setPixel(1, 3)
	b.setPixel(3, 1)
	b.setPixel(-1, 0)
	b.setPixel(4, 0)
	if got := b.mask(0, 0); got != 0x01|0x80 {
		t.Errorf("mask(0,0) = %#x, want 0x81", got)
	}
	if got := b.mask(1, 0); got != 0x10 {
		t.Errorf("mask(1,0) = %#x, want 0x10", got)
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		ok             bool
		want           [4]float64
	}{
		{"inside", 1, 1, 5, 5, true, [4]float64{1, 1, 5, 5}},
		{"left of box", -10, 2, -1, 8, false, [4]float64{}},
		{"crossing", -10, 5, 20, 5, true, [4]float64{0, 5, 9, 5}},
		{"diagonal far away", -1e9, -1e9, 1e9, 1e9, true, [4]float64{0, 0, 9, 9}},
		{"nan", math.NaN(), 0, 1, 1, false, [4]float64{}},
	}
	for _, tt := range tests {
		x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 9, 9)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		got := [4]float64{x0, y0, x1, y1}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-6 {
				t.Errorf("%s: clip = %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}

func TestDrawSegmentOffScreenIsCheap(t *testing.T) {
	b := newBrailleBuf(4, 2)
	b.drawSegment(-1e12, 3, 1e12, 3)
	for x := 0; x < 4; x++ {
		if b.mask(x, 0) == 0 {
			t.Errorf("cell %d not touched by horizontal line", x)
		}
	}
	if b.mask(0, 1) != 0 {
		t.Errorf("second row touched, want only row 0")
	}
}

func TestFillRing(t *testing.T) {
	b := newBrailleBuf(4, 2)
	b.fillRing([][2]float64{{0, 0}, {4, 0}, {4, 8}, {0, 8}})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if b.mask(x, y) != 0xFF {
				t.Errorf("mask(%d,%d) = %#x, want full cell", x, y, b.mask(x, y))
			}
		}
	}
	if b.mask(3, 0) != 0 {
		t.Errorf("mask(3,0) = %#x, want empty", b.mask(3, 0))
	}
}
