package interp

import (
	"math"
	"testing"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
)

func TestLinInterpPlanarSheet(t *testing.T) {
	// Samples from the plane v = row + 2*col; interpolation inside the
	// hull must reproduce the plane exactly.
	samples := []Sample{
		{Row: 0, Col: 0, Value: 0},
		{Row: 0, Col: 9, Value: 18},
		{Row: 9, Col: 0, Value: 9},
		{Row: 9, Col: 9, Value: 27},
	}

	out, err := LinInterp(10, 10, samples)
	if err != nil {
		t.Fatalf("LinInterp() error = %v", err)
	}

	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			want := float64(r) + 2*float64(c)
			if got := out.At(r, c); math.Abs(got-want) > 1e-9 {
				t.Fatalf("At(%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
}

func TestLinInterpZeroOutsideHull(t *testing.T) {
	// Triangle in the upper-left corner; far corner must stay zero.
	samples := []Sample{
		{Row: 0, Col: 0, Value: 5},
		{Row: 0, Col: 4, Value: 5},
		{Row: 4, Col: 0, Value: 5},
	}

	out, err := LinInterp(20, 20, samples)
	if err != nil {
		t.Fatalf("LinInterp() error = %v", err)
	}

	if got := out.At(19, 19); got != 0 {
		t.Errorf("outside hull At(19,19) = %v, want 0", got)
	}
	if got := out.At(1, 1); math.Abs(got-5) > 1e-9 {
		t.Errorf("inside hull At(1,1) = %v, want 5", got)
	}
}

func TestLinInterpHitsSampleValues(t *testing.T) {
	samples := []Sample{
		{Row: 2, Col: 3, Value: 1.5},
		{Row: 2, Col: 8, Value: 4},
		{Row: 7, Col: 3, Value: 2.5},
		{Row: 7, Col: 8, Value: 3},
	}

	out, err := LinInterp(10, 10, samples)
	if err != nil {
		t.Fatalf("LinInterp() error = %v", err)
	}

	for _, s := range samples {
		if got := out.At(int(s.Row), int(s.Col)); math.Abs(got-s.Value) > 1e-9 {
			t.Errorf("At(%v,%v) = %v, want %v", s.Row, s.Col, got, s.Value)
		}
	}
}

func TestLinInterpErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		samples []Sample
		code    errors.Code
	}{
		{
			name:    "too few samples",
			rows:    4,
			cols:    4,
			samples: []Sample{{Row: 0, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 2}},
			code:    errors.ErrCodeInvalidInput,
		},
		{
			name: "bad shape",
			rows: 0,
			cols: 4,
			samples: []Sample{
				{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 1}, {Row: 1, Col: 0, Value: 1},
			},
			code: errors.ErrCodeInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LinInterp(tt.rows, tt.cols, tt.samples)
			if !errors.Is(err, tt.code) {
				t.Errorf("LinInterp() error = %v, want %v", err, tt.code)
			}
		})
	}
}
