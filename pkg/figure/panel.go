// Package figure composes multi-panel heatmap/raster figures from depth,
// disparity, and error maps.
//
// Each input is a Panel: a rank-2 tensor rendered as a heatmap, or a
// rank-3 (CHW) tensor rendered as a color raster after the fixed input
// normalization is undone. Panels are laid out side by side with
// per-panel width ratios, titles, and optional colorbars; the composite
// and the individual panels can be written as PNG files by the sink
// subpackage.
package figure

import (
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// Range is an explicit (min, max) color-intensity range for one panel.
type Range struct {
	Min float64
	Max float64
}

// Panel is one image to render as part of a composite figure.
type Panel struct {
	// Data is the panel content. After squeezing unit axes it must be
	// rank 2 (scalar heatmap) or rank 3 (CHW color image).
	Data *tensor.Dense

	// Label is the panel title in the composite.
	Label string

	// Center, when set, renders the panel with a diverging colormap
	// symmetric around this value. Used for error/residual maps.
	Center *float64

	// Colorbar controls whether the panel gets a colorbar. Nil means
	// the default (colorbar on for scalar panels). Color panels never
	// get a colorbar.
	Colorbar *bool
}

// Centered is a convenience for building a Panel.Center value.
func Centered(v float64) *float64 { return &v }

// NoColorbar is a convenience for disabling a panel's colorbar.
func NoColorbar() *bool { v := false; return &v }
