package figure

import (
	"image"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/imgutil"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// Option configures a Compose call.
type Option func(*composer)

// WithAlignScales forces every non-centered scalar panel onto the shared
// scale [0, max across those panels]. Centered panels are unaffected.
func WithAlignScales() Option {
	return func(c *composer) { c.alignScales = true }
}

// WithRanges supplies explicit per-panel color ranges, one entry per
// panel (nil entries for color or centered panels). Explicit ranges are
// used as-is, without the non-negative clipping applied to computed
// ranges. Passing an empty slice means "compute", and the computed
// ranges are returned on the Figure for reuse.
func WithRanges(ranges []*Range) Option {
	return func(c *composer) {
		c.ranges = ranges
		c.explicitRanges = len(ranges) > 0
	}
}

// WithLogger sets the logger used to report skipped panels.
func WithLogger(l *log.Logger) Option {
	return func(c *composer) { c.logger = l }
}

type composer struct {
	alignScales    bool
	ranges         []*Range
	explicitRanges bool
	logger         *log.Logger
	globalMax      float64
}

// resolvedPanel is a panel after rank dispatch and color-image
// preprocessing, ready to render.
type resolvedPanel struct {
	heat     *tensor.Dense // rank-2 scalar data; nil for color panels
	img      image.Image   // color panels only
	label    string
	center   *float64
	colorbar bool
	ratio    float64
}

// Figure is a composed multi-panel figure. The composite canvas holds
// all successfully rendered panels side by side; individual panels can
// be re-rendered standalone for per-panel export.
type Figure struct {
	// Composite is the rendered side-by-side figure.
	Composite *vgimg.Canvas

	// Ranges holds one entry per input panel: the computed (or
	// passed-through) color range for non-centered scalar panels, nil
	// for centered and color panels. Computed entries are the raw data
	// extremes, before render-time clipping, so they can be fed back
	// into a later Compose call via WithRanges.
	Ranges []*Range

	panels  []resolvedPanel
	scales  []colorScale
	skipped []bool
}

// Compose renders the given panels side by side and returns the
// composite figure.
//
// Each panel's data is squeezed; rank 2 renders as a heatmap, rank 3 as
// a color raster (channels moved last, input normalization undone). Any
// other rank is an UNSUPPORTED_RANK error, raised before any panel is
// rendered. A renderer failure on a single panel is logged and that
// panel is left blank; the remaining panels still render.
func Compose(panels []Panel, opts ...Option) (*Figure, error) {
	c := &composer{logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}

	if len(panels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no panels to compose")
	}
	if c.explicitRanges && len(c.ranges) != len(panels) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"got %d ranges for %d panels", len(c.ranges), len(panels))
	}
	if !c.explicitRanges {
		c.ranges = make([]*Range, len(panels))
	}

	// Resolve every panel before rendering anything, so rank errors
	// surface with no side effects.
	resolved := make([]resolvedPanel, len(panels))
	ratios := make([]float64, len(panels))
	for idx, p := range panels {
		rp, err := c.resolve(idx, p)
		if err != nil {
			return nil, err
		}
		resolved[idx] = rp
		ratios[idx] = rp.ratio
	}

	layout := newLayout(ratios)
	canvas := vgimg.NewWith(vgimg.UseWH(layout.width, layout.height))
	dc := draw.New(canvas)

	fig := &Figure{
		Composite: canvas,
		Ranges:    c.ranges,
		panels:    resolved,
		scales:    make([]colorScale, len(panels)),
		skipped:   make([]bool, len(panels)),
	}

	for idx := range resolved {
		rp := &resolved[idx]
		region := layout.panelRegion(dc, idx)

		var err error
		if rp.img != nil {
			err = renderRaster(region, rp.img, rp.label)
		} else {
			fig.scales[idx] = c.scaleFor(idx, rp)
			err = renderHeatmap(region, rp.heat, fig.scales[idx], rp.label, rp.colorbar)
		}
		if err != nil {
			c.logger.Warn("could not render panel, skipping", "panel", idx, "label", rp.label, "err", err)
			fig.skipped[idx] = true
		}
	}

	return fig, nil
}

// resolve dispatches on the squeezed rank of one panel and tracks the
// running global maximum used by align-scales.
func (c *composer) resolve(idx int, p Panel) (resolvedPanel, error) {
	sq := p.Data.Squeeze()
	switch sq.Rank() {
	case 2:
		colorbar := p.Colorbar == nil || *p.Colorbar
		ratio := defaultRatio
		if colorbar {
			ratio = colorbarRatio
		}
		rp := resolvedPanel{heat: sq, label: p.Label, center: p.Center, colorbar: colorbar, ratio: ratio}
		if p.Center == nil {
			vmin, vmax := sq.Min(), sq.Max()
			if vmax > c.globalMax {
				c.globalMax = vmax
			}
			if !c.explicitRanges {
				c.ranges[idx] = &Range{Min: vmin, Max: vmax}
			}
		}
		return rp, nil

	case 3:
		denorm, err := imgutil.InvNormalize(sq)
		if err != nil {
			return resolvedPanel{}, errors.Wrap(errors.ErrCodeUnsupportedRank, err, "panel %d (%s)", idx, p.Label)
		}
		hwc, err := denorm.ChannelsLast()
		if err != nil {
			return resolvedPanel{}, errors.Wrap(errors.ErrCodeInternal, err, "panel %d (%s)", idx, p.Label)
		}
		return resolvedPanel{img: toImage(hwc), label: p.Label, ratio: defaultRatio}, nil

	default:
		return resolvedPanel{}, errors.New(errors.ErrCodeUnsupportedRank,
			"panel %d (%s) has rank %d after squeeze, want 2 or 3", idx, p.Label, sq.Rank())
	}
}

// NumPanels returns the number of input panels.
func (f *Figure) NumPanels() int { return len(f.panels) }

// Skipped reports whether panel i failed to render in the composite.
func (f *Figure) Skipped(i int) bool { return f.skipped[i] }

// Label returns the label of panel i.
func (f *Figure) Label(i int) string { return f.panels[i].label }

// PanelCanvas renders panel i standalone, without title or colorbar, on
// a fresh canvas. Used for per-panel file export.
func (f *Figure) PanelCanvas(i int) (*vgimg.Canvas, error) {
	if i < 0 || i >= len(f.panels) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "panel index %d out of range", i)
	}
	if f.skipped[i] {
		return nil, errors.New(errors.ErrCodePanelRender, "panel %d was skipped", i)
	}

	rp := f.panels[i]
	canvas := vgimg.NewWith(vgimg.UseWH(panelUnitWidth, figureHeight))
	dc := draw.New(canvas)

	var err error
	if rp.img != nil {
		err = renderRaster(dc, rp.img, "")
	} else {
		err = renderHeatmap(dc, rp.heat, f.scales[i], "", false)
	}
	if err != nil {
		return nil, err
	}
	return canvas, nil
}
