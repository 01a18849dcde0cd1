// Package interp densifies sparse disparity measurements into full maps.
//
// LiDAR-projected ground truth (and the circular field of view of
// endoscopic frames) leaves most pixels without a disparity value. LinInterp
// fills them by triangulating the sparse samples with a Delaunay
// triangulation and interpolating barycentrically inside each triangle.
// Pixels outside the convex hull of the samples stay zero.
package interp

import (
	"math"

	"github.com/fogleman/delaunay"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// Sample is one sparse measurement at pixel (Row, Col).
type Sample struct {
	Row   float64
	Col   float64
	Value float64
}

// LinInterp linearly interpolates samples onto a dense rows x cols grid.
// Grid cells outside the convex hull of the samples are left at zero.
// At least three non-collinear samples are required.
func LinInterp(rows, cols int, samples []Sample) (*tensor.Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "non-positive target shape %dx%d", rows, cols)
	}
	if len(samples) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least 3 samples, got %d", len(samples))
	}

	points := make([]delaunay.Point, len(samples))
	for i, s := range samples {
		points[i] = delaunay.Point{X: s.Col, Y: s.Row}
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "triangulating %d samples", len(samples))
	}

	out := tensor.Zeros(rows, cols)
	for t := 0; t < len(tri.Triangles); t += 3 {
		fillTriangle(out,
			points[tri.Triangles[t]], samples[tri.Triangles[t]].Value,
			points[tri.Triangles[t+1]], samples[tri.Triangles[t+1]].Value,
			points[tri.Triangles[t+2]], samples[tri.Triangles[t+2]].Value,
		)
	}
	return out, nil
}

// fillTriangle writes barycentrically interpolated values for every grid
// cell whose center lies inside the triangle (a, b, c).
func fillTriangle(out *tensor.Dense, a delaunay.Point, va float64, b delaunay.Point, vb float64, c delaunay.Point, vc float64) {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(denom) < 1e-12 {
		return // degenerate triangle
	}

	rows, cols := out.Shape()[0], out.Shape()[1]
	minRow := clampInt(int(math.Floor(min3(a.Y, b.Y, c.Y))), 0, rows-1)
	maxRow := clampInt(int(math.Ceil(max3(a.Y, b.Y, c.Y))), 0, rows-1)
	minCol := clampInt(int(math.Floor(min3(a.X, b.X, c.X))), 0, cols-1)
	maxCol := clampInt(int(math.Ceil(max3(a.X, b.X, c.X))), 0, cols-1)

	const eps = 1e-9
	for r := minRow; r <= maxRow; r++ {
		for col := minCol; col <= maxCol; col++ {
			px, py := float64(col), float64(r)
			w1 := ((b.Y-c.Y)*(px-c.X) + (c.X-b.X)*(py-c.Y)) / denom
			w2 := ((c.Y-a.Y)*(px-c.X) + (a.X-c.X)*(py-c.Y)) / denom
			w3 := 1 - w1 - w2
			if w1 < -eps || w2 < -eps || w3 < -eps {
				continue
			}
			out.Set(w1*va+w2*vb+w3*vc, r, col)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }

func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
