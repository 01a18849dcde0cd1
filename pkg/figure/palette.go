package figure

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
)

// viridisHex are the anchor colors of the viridis colormap, interpolated
// in CIE-Lab between anchors.
var viridisHex = []string{
	"#440154", "#46327e", "#365c8d", "#277f8e",
	"#1fa187", "#4ac16d", "#a0da39", "#fde725",
}

// viridis is a sequential ColorMap for depth and disparity panels.
type viridis struct {
	min, max float64
	alpha    float64
	anchors  []colorful.Color
}

var _ palette.ColorMap = (*viridis)(nil)

// Viridis returns the sequential colormap used for non-centered scalar
// panels. Min and max must be set before calling At.
func Viridis() palette.ColorMap {
	anchors := make([]colorful.Color, len(viridisHex))
	for i, h := range viridisHex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("figure: bad viridis anchor " + h)
		}
		anchors[i] = c
	}
	return &viridis{alpha: 1, anchors: anchors}
}

// At returns the color for value v scaled between Min and Max.
func (p *viridis) At(v float64) (color.Color, error) {
	if p.max <= p.min {
		return nil, palette.ErrUnderflow
	}
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < p.min:
		return nil, palette.ErrUnderflow
	case v > p.max:
		return nil, palette.ErrOverflow
	}
	return p.at((v - p.min) / (p.max - p.min)), nil
}

// at maps t in [0, 1] onto the anchor gradient.
func (p *viridis) at(t float64) color.Color {
	pos := t * float64(len(p.anchors)-1)
	i := int(math.Floor(pos))
	if i >= len(p.anchors)-1 {
		return p.anchors[len(p.anchors)-1]
	}
	return p.anchors[i].BlendLab(p.anchors[i+1], pos-float64(i)).Clamped()
}

func (p *viridis) Min() float64     { return p.min }
func (p *viridis) SetMin(v float64) { p.min = v }
func (p *viridis) Max() float64     { return p.max }
func (p *viridis) SetMax(v float64) { p.max = v }

// Alpha returns the colormap's opacity. The gradient itself is always
// opaque; the value only feeds the ColorMap contract.
func (p *viridis) Alpha() float64     { return p.alpha }
func (p *viridis) SetAlpha(v float64) { p.alpha = v }

// Palette returns n colors sampled uniformly along the gradient.
func (p *viridis) Palette(n int) palette.Palette {
	colors := make([]color.Color, n)
	for i := range colors {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colors[i] = p.at(t)
	}
	return colorSlice(colors)
}

// colorSlice implements palette.Palette over a fixed color list.
type colorSlice []color.Color

func (s colorSlice) Colors() []color.Color { return s }
