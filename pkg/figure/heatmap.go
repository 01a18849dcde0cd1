package figure

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// heatGrid adapts a rank-2 tensor to plotter.GridXYZ. Tensor row 0 is
// the top image row while plot Y grows upward, so rows are flipped.
type heatGrid struct {
	t    *tensor.Dense
	rows int
	cols int
}

func newHeatGrid(t *tensor.Dense) heatGrid {
	s := t.Shape()
	return heatGrid{t: t, rows: s[0], cols: s[1]}
}

func (g heatGrid) Dims() (c, r int)   { return g.cols, g.rows }
func (g heatGrid) Z(c, r int) float64 { return g.t.At(g.rows-1-r, c) }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

// fraction of a colorbar panel slot taken by the map itself; the rest
// holds the bar.
const colorbarMainFrac = defaultRatio / colorbarRatio

// colorbar height relative to the panel, mirroring the shrink used in
// the published figures.
const colorbarShrink = 0.7

// renderHeatmap draws a scalar panel into dc: square cells, no tick
// labels, optional title and vertical colorbar. Renderer-level failures
// (degenerate scales, drawing panics) come back as PANEL_RENDER errors.
func renderHeatmap(dc draw.Canvas, data *tensor.Dense, sc colorScale, title string, colorbar bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodePanelRender, "heatmap render panicked: %v", r)
		}
	}()

	vmin, vmax := resolveRange(data, sc)
	if !(vmax > vmin) {
		return errors.New(errors.ErrCodePanelRender, "degenerate color scale [%v, %v]", vmin, vmax)
	}
	cm := colormapFor(sc, vmin, vmax)
	hm := plotter.NewHeatMap(newHeatGrid(data), cm.Palette(255))
	hm.Min, hm.Max = vmin, vmax

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(hm)

	region := dc
	if colorbar {
		region = draw.Crop(dc, 0, -dc.Rectangle.Size().X*vg.Length(1-colorbarMainFrac), 0, 0)
	}

	shape := data.Shape()
	p.Draw(cropToAspect(region, float64(shape[1])/float64(shape[0])))

	if colorbar {
		bar := draw.Crop(dc, dc.Rectangle.Size().X*vg.Length(colorbarMainFrac), 0, 0, 0)
		if err := renderColorbar(bar, cm); err != nil {
			return err
		}
	}
	return nil
}

// renderColorbar draws a vertical colorbar for cm into dc, shrunk to
// colorbarShrink of the region height.
func renderColorbar(dc draw.Canvas, cm palette.ColorMap) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodePanelRender, "colorbar render panicked: %v", r)
		}
	}()

	bp := plot.New()
	bar := &plotter.ColorBar{ColorMap: cm}
	bar.Vertical = true
	bp.Add(bar)
	bp.HideX()

	pad := dc.Rectangle.Size().Y * vg.Length((1-colorbarShrink)/2)
	bp.Draw(draw.Crop(dc, 0, 0, pad, -pad))
	return nil
}

// renderRaster draws a color panel into dc with axes hidden.
func renderRaster(dc draw.Canvas, img image.Image, title string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodePanelRender, "raster render panicked: %v", r)
		}
	}()

	b := img.Bounds()
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(plotter.NewImage(img, 0, 0, float64(b.Dx()), float64(b.Dy())))
	p.Draw(cropToAspect(dc, float64(b.Dx())/float64(b.Dy())))
	return nil
}

// resolveRange turns a colorScale into concrete bounds. Centered scales
// expand symmetrically around the center to cover the data.
func resolveRange(data *tensor.Dense, sc colorScale) (vmin, vmax float64) {
	if sc.vmin != nil && sc.vmax != nil {
		return *sc.vmin, *sc.vmax
	}
	center := *sc.center
	half := math.Max(math.Abs(data.Max()-center), math.Abs(data.Min()-center))
	return center - half, center + half
}

// colormapFor builds the panel's colormap: diverging around the center
// for residual panels, sequential otherwise.
func colormapFor(sc colorScale, vmin, vmax float64) palette.ColorMap {
	if sc.diverging {
		cm := moreland.SmoothBlueRed()
		cm.SetMin(vmin)
		cm.SetMax(vmax)
		cm.SetConvergePoint(*sc.center)
		return cm
	}
	cm := Viridis()
	cm.SetMin(vmin)
	cm.SetMax(vmax)
	return cm
}

// toImage converts a rank-3 HWC tensor with values in [0, 1] to an
// 8-bit RGBA image. Values outside [0, 1] are clamped.
func toImage(t *tensor.Dense) image.Image {
	shape := t.Shape()
	h, w := shape[0], shape[1]
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: to8bit(t.At(y, x, 0)),
				G: to8bit(t.At(y, x, 1)),
				B: to8bit(t.At(y, x, 2)),
				A: 255,
			})
		}
	}
	return img
}

func to8bit(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}
