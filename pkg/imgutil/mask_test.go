package imgutil

import (
	"math"
	"testing"
)

func TestCircularMaskDefaults(t *testing.T) {
	// 10x10 image, default center (5,5), default radius 5.
	mask := CircularMask(10, 10)

	if got := mask.At(5, 5); got != 0 {
		t.Errorf("center pixel masked: got %v, want 0", got)
	}
	if got := mask.At(0, 0); got != 1 {
		t.Errorf("corner pixel not masked: got %v, want 1", got)
	}
	// On the circle boundary counts as inside (<= radius).
	if got := mask.At(5, 0); got != 0 {
		t.Errorf("boundary pixel masked: got %v, want 0", got)
	}
}

func TestCircularMaskExplicit(t *testing.T) {
	mask := CircularMask(8, 12, WithCenter(2, 2), WithRadius(1.5))

	if got := mask.At(2, 2); got != 0 {
		t.Errorf("center masked: got %v, want 0", got)
	}
	if got := mask.At(2, 3); got != 0 {
		t.Errorf("pixel at distance 1 masked: got %v, want 0", got)
	}
	if got := mask.At(4, 2); got != 1 {
		t.Errorf("pixel at distance 2 not masked: got %v, want 1", got)
	}
}

func TestCircularMaskCountMatchesArea(t *testing.T) {
	const h, w = 100, 100
	mask := CircularMask(h, w)

	inside := 0
	for _, v := range mask.Data() {
		if v == 0 {
			inside++
		}
	}
	// Pixelated disc area should be close to pi*r^2 for r=50.
	want := math.Pi * 50 * 50
	if diff := math.Abs(float64(inside) - want); diff > 200 {
		t.Errorf("inside count = %d, want about %.0f (diff %.0f)", inside, want, diff)
	}
}
