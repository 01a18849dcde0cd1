package figure

import (
	"image/color"
	"testing"

	"gonum.org/v1/plot/palette"
)

func TestViridisEndpoints(t *testing.T) {
	cm := Viridis()
	cm.SetMin(0)
	cm.SetMax(1)

	lo, err := cm.At(0)
	if err != nil {
		t.Fatalf("At(0) error = %v", err)
	}
	hi, err := cm.At(1)
	if err != nil {
		t.Fatalf("At(1) error = %v", err)
	}

	// Dark purple at the bottom, bright yellow at the top.
	if !brighter(hi, lo) {
		t.Errorf("At(1) = %v not brighter than At(0) = %v", hi, lo)
	}
}

func TestViridisOutOfRange(t *testing.T) {
	cm := Viridis()
	cm.SetMin(0)
	cm.SetMax(1)

	if _, err := cm.At(-0.1); err != palette.ErrUnderflow {
		t.Errorf("At(-0.1) error = %v, want ErrUnderflow", err)
	}
	if _, err := cm.At(1.1); err != palette.ErrOverflow {
		t.Errorf("At(1.1) error = %v, want ErrOverflow", err)
	}
}

func TestViridisDegenerateRange(t *testing.T) {
	cm := Viridis()
	cm.SetMin(2)
	cm.SetMax(2)
	if _, err := cm.At(2); err == nil {
		t.Error("At() on zero-width range succeeded, want error")
	}
}

func TestViridisAlpha(t *testing.T) {
	cm := Viridis()
	if got := cm.Alpha(); got != 1 {
		t.Errorf("Alpha() = %v, want 1", got)
	}
	cm.SetAlpha(0.5)
	if got := cm.Alpha(); got != 0.5 {
		t.Errorf("Alpha() after SetAlpha(0.5) = %v", got)
	}
}

func TestViridisPalette(t *testing.T) {
	cm := Viridis()
	colors := cm.Palette(255).Colors()
	if len(colors) != 255 {
		t.Fatalf("Palette(255) has %d colors", len(colors))
	}

	seen := map[color.Color]bool{}
	for _, c := range colors {
		seen[c] = true
	}
	if len(seen) < 200 {
		t.Errorf("only %d distinct colors in 255-step palette", len(seen))
	}
}

// brighter reports whether a has higher luminance than b.
func brighter(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar+ag+ab > br+bg+bb
}
