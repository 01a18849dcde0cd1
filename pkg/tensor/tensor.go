// Package tensor provides a small dense n-dimensional float64 array.
//
// It covers exactly what the figure composer and the preprocessing helpers
// need: shape introspection, squeezing of unit axes, min/max reductions,
// elementwise clamping, and the channels-first to channels-last reorder used
// for color images. Reductions delegate to gonum's floats package.
package tensor

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
)

// Dense is a dense row-major float64 array with an explicit shape.
type Dense struct {
	shape []int
	data  []float64
}

// New creates a Dense with the given backing data and shape.
// The data slice is used directly, not copied.
func New(data []float64, shape ...int) (*Dense, error) {
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidShape, "non-positive axis length %d in shape %v", s, shape)
		}
		n *= s
	}
	if len(data) != n {
		return nil, errors.New(errors.ErrCodeInvalidShape, "data length %d does not match shape %v (want %d)", len(data), shape, n)
	}
	return &Dense{shape: slices.Clone(shape), data: data}, nil
}

// MustNew is New but panics on error. Intended for literals in tests.
func MustNew(data []float64, shape ...int) *Dense {
	t, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

// Zeros creates a zero-filled Dense with the given shape.
func Zeros(shape ...int) *Dense {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Dense{shape: slices.Clone(shape), data: make([]float64, n)}
}

// Shape returns a copy of the tensor's shape.
func (t *Dense) Shape() []int { return slices.Clone(t.shape) }

// Rank returns the number of axes.
func (t *Dense) Rank() int { return len(t.shape) }

// Len returns the total number of elements.
func (t *Dense) Len() int { return len(t.data) }

// Data returns the backing slice in row-major order.
func (t *Dense) Data() []float64 { return t.data }

// At returns the element at the given multi-index.
func (t *Dense) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set stores v at the given multi-index.
func (t *Dense) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

func (t *Dense) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic("tensor: index rank mismatch")
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic("tensor: index out of range")
		}
		off = off*t.shape[i] + x
	}
	return off
}

// Squeeze returns a view of t with all unit axes removed.
// A scalar-shaped tensor squeezes to rank 1 with a single element.
// The backing data is shared with t.
func (t *Dense) Squeeze() *Dense {
	shape := make([]int, 0, len(t.shape))
	for _, s := range t.shape {
		if s != 1 {
			shape = append(shape, s)
		}
	}
	if len(shape) == 0 {
		shape = append(shape, 1)
	}
	return &Dense{shape: shape, data: t.data}
}

// Min returns the smallest element.
func (t *Dense) Min() float64 { return floats.Min(t.data) }

// Max returns the largest element.
func (t *Dense) Max() float64 { return floats.Max(t.data) }

// Clamp limits every element to [lo, hi] in place and returns t.
func (t *Dense) Clamp(lo, hi float64) *Dense {
	for i, v := range t.data {
		if v < lo {
			t.data[i] = lo
		} else if v > hi {
			t.data[i] = hi
		}
	}
	return t
}

// Clone returns a deep copy of t.
func (t *Dense) Clone() *Dense {
	return &Dense{shape: slices.Clone(t.shape), data: slices.Clone(t.data)}
}

// ChannelsLast reorders a rank-3 CHW tensor to HWC.
// The result owns fresh backing data.
func (t *Dense) ChannelsLast() (*Dense, error) {
	if len(t.shape) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "ChannelsLast needs rank 3, got %d", len(t.shape))
	}
	c, h, w := t.shape[0], t.shape[1], t.shape[2]
	out := Zeros(h, w, c)
	for ch := 0; ch < c; ch++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.data[(y*w+x)*c+ch] = t.data[(ch*h+y)*w+x]
			}
		}
	}
	return out, nil
}
