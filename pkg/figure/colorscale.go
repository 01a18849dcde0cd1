package figure

// colorScale is the resolved color configuration for one scalar panel.
type colorScale struct {
	// vmin/vmax are nil for centered panels; the renderer then picks a
	// range symmetric around center from the data itself.
	vmin, vmax *float64
	center     *float64
	diverging  bool
}

// scaleFor resolves the color scale for scalar panel idx.
//
// Precedence: a centered panel always gets the diverging symmetric-auto
// scale; align-scales forces [0, globalMax] on every other scalar panel;
// otherwise the panel's range is used, clipped to non-negative when it
// was computed from the data and untouched when the caller supplied it
// explicitly. Depth and disparity are never negative, which is what the
// clipping encodes; explicit ranges are trusted as-is.
func (c *composer) scaleFor(idx int, rp *resolvedPanel) colorScale {
	if rp.center != nil {
		return colorScale{center: rp.center, diverging: true}
	}
	if c.alignScales {
		vmin, vmax := 0.0, c.globalMax
		return colorScale{vmin: &vmin, vmax: &vmax}
	}

	r := c.ranges[idx]
	if r == nil {
		// No range available (explicit list with a nil entry): fall
		// back to the data extremes, clipped like the computed path.
		r = &Range{Min: rp.heat.Min(), Max: rp.heat.Max()}
	} else if c.explicitRanges {
		vmin, vmax := r.Min, r.Max
		return colorScale{vmin: &vmin, vmax: &vmax}
	}

	vmin := clipNonNegative(r.Min)
	vmax := clipNonNegative(r.Max)
	return colorScale{vmin: &vmin, vmax: &vmax}
}

func clipNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
