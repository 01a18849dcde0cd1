package cli

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
)

func TestRunDensifyWritesDenseMap(t *testing.T) {
	// Samples from the plane v = row + col over a 6x6 grid.
	inPath := writeNpyFile(t, "sparse.npy", 4, 3, []float64{
		0, 0, 0,
		0, 5, 5,
		5, 0, 5,
		5, 5, 10,
	})

	c := testCLI()
	outPath := filepath.Join(t.TempDir(), "dense.npy")
	if err := c.runDensify(context.Background(), inPath, outPath, 6, 6); err != nil {
		t.Fatalf("runDensify() error = %v", err)
	}

	dense, err := loadNpy(outPath)
	if err != nil {
		t.Fatalf("loadNpy(output) error = %v", err)
	}
	if s := dense.Shape(); len(s) != 2 || s[0] != 6 || s[1] != 6 {
		t.Fatalf("output shape = %v, want [6 6]", s)
	}
	if got := dense.At(2, 3); math.Abs(got-5) > 1e-9 {
		t.Errorf("At(2,3) = %v, want 5", got)
	}
}

func TestRunDensifyDefaultOutPath(t *testing.T) {
	inPath := writeNpyFile(t, "sparse.npy", 3, 3, []float64{
		0, 0, 1,
		0, 4, 2,
		4, 0, 3,
	})

	c := testCLI()
	if err := c.runDensify(context.Background(), inPath, "", 5, 5); err != nil {
		t.Fatalf("runDensify() error = %v", err)
	}

	want := filepath.Join(filepath.Dir(inPath), "sparse_dense.npy")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default output path not used: %v", err)
	}
}

func TestLoadSamplesRejectsBadShape(t *testing.T) {
	path := writeNpyFile(t, "bad.npy", 2, 2, []float64{1, 2, 3, 4})
	_, err := loadSamples(path)
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("loadSamples() error = %v, want INVALID_SHAPE", err)
	}
}

func TestRunDensifyTooFewSamples(t *testing.T) {
	inPath := writeNpyFile(t, "sparse.npy", 2, 3, []float64{
		0, 0, 1,
		1, 1, 2,
	})

	c := testCLI()
	err := c.runDensify(context.Background(), inPath, "", 4, 4)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runDensify() error = %v, want INVALID_INPUT", err)
	}
}
