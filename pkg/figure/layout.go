package figure

import (
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Per-panel base width and figure height, matching the figures in the
// published experiments: each unit of width ratio is 5 inches, the
// figure is 6 inches tall.
const (
	panelUnitWidth = 5 * vg.Inch
	figureHeight   = 6 * vg.Inch

	// Panels showing a colorbar are widened so the map area stays
	// comparable to panels without one.
	colorbarRatio = 1.25
	defaultRatio  = 1.0
)

// layoutSpec places panels side by side, each panel's width proportional
// to its ratio.
type layoutSpec struct {
	ratios []float64
	width  vg.Length
	height vg.Length
}

// newLayout builds the horizontal layout for the given width ratios.
func newLayout(ratios []float64) layoutSpec {
	total := 0.0
	for _, r := range ratios {
		total += r
	}
	return layoutSpec{
		ratios: ratios,
		width:  vg.Length(total) * panelUnitWidth,
		height: figureHeight,
	}
}

// panelRegion crops dc to the horizontal slot of panel idx.
func (l layoutSpec) panelRegion(dc draw.Canvas, idx int) draw.Canvas {
	total := 0.0
	for _, r := range l.ratios {
		total += r
	}
	offset := 0.0
	for _, r := range l.ratios[:idx] {
		offset += r
	}

	full := dc.Rectangle.Size().X
	left := vg.Length(offset/total) * full
	right := vg.Length((offset+l.ratios[idx])/total) * full
	return draw.Crop(dc, left, right-full, 0, 0)
}

// cropToAspect center-crops dc so the region's width:height matches
// aspect. Keeps heatmap cells square regardless of the slot shape.
func cropToAspect(dc draw.Canvas, aspect float64) draw.Canvas {
	size := dc.Rectangle.Size()
	w, h := size.X, size.Y
	if float64(w)/float64(h) > aspect {
		target := vg.Length(aspect) * h
		pad := (w - target) / 2
		return draw.Crop(dc, pad, -pad, 0, 0)
	}
	target := vg.Length(float64(w) / aspect)
	pad := (h - target) / 2
	return draw.Crop(dc, 0, 0, pad, -pad)
}
