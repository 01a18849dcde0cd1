// Package pkg provides the core libraries for depth-estimation figure
// generation.
//
// # Overview
//
// The pkg directory is organized into five areas:
//
//  1. [figure] - Panel composition and heatmap rendering
//  2. [tensor] - Dense n-dimensional float64 arrays
//  3. [imgutil], [interp], [model] - Numeric preprocessing helpers
//  4. [cache] - Byte cache memoizing computed color ranges
//  5. [errors] - Structured code-based errors
//
// # Architecture
//
// The typical data flow:
//
//	.npy arrays / PNG images
//	         ↓
//	    [tensor] package (squeeze, min/max, layout moves)
//	         ↓
//	    [figure] package (color scales + panel rendering)
//	         ↓
//	    [figure/sink] package (per-panel and composite PNGs)
//
// # Quick Start
//
// Compose a two-panel figure and save it:
//
//	import (
//	    "github.com/cgtuebingen/cystoscopy-depth/pkg/figure"
//	    "github.com/cgtuebingen/cystoscopy-depth/pkg/figure/sink"
//	    "github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
//	)
//
//	pred := tensor.MustNew(data, 256, 256)
//	fig, err := figure.Compose([]figure.Panel{
//	    {Data: pred, Label: "prediction"},
//	    {Data: diff, Label: "error", Center: figure.Centered(0)},
//	}, figure.WithAlignScales())
//	if err != nil {
//	    return err
//	}
//	return sink.Save(fig, "out")
package pkg
