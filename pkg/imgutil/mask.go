// Package imgutil provides image-preprocessing helpers for the
// depth-estimation figure pipeline: circular masking of endoscopic frames
// and the fixed ImageNet input normalization in both directions.
package imgutil

import (
	"math"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// MaskOption configures CircularMask.
type MaskOption func(*maskConfig)

type maskConfig struct {
	centerX, centerY float64
	radius           float64
	hasCenter        bool
	hasRadius        bool
}

// WithCenter sets the circle center as (x, y) pixel coordinates.
// Default is the middle of the image.
func WithCenter(x, y float64) MaskOption {
	return func(c *maskConfig) {
		c.centerX, c.centerY = x, y
		c.hasCenter = true
	}
}

// WithRadius sets the circle radius in pixels.
// Default is the smallest distance between the center and the image walls.
func WithRadius(r float64) MaskOption {
	return func(c *maskConfig) {
		c.radius = r
		c.hasRadius = true
	}
}

// CircularMask builds an h x w mask that is 1 outside the circle and 0
// inside it. Endoscopic frames carry valid content only inside the
// circular field of view; the mask marks the pixels to discard.
func CircularMask(h, w int, opts ...MaskOption) *tensor.Dense {
	cfg := maskConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.hasCenter {
		cfg.centerX = float64(int(float64(w) / 2))
		cfg.centerY = float64(int(float64(h) / 2))
	}
	if !cfg.hasRadius {
		cfg.radius = math.Min(
			math.Min(cfg.centerX, cfg.centerY),
			math.Min(float64(w)-cfg.centerX, float64(h)-cfg.centerY),
		)
	}

	mask := tensor.Zeros(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - cfg.centerX
			dy := float64(y) - cfg.centerY
			if math.Sqrt(dx*dx+dy*dy) > cfg.radius {
				mask.Set(1, y, x)
			}
		}
	}
	return mask
}
