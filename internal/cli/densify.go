package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/interp"
)

// densifyCommand creates the densify command for interpolating sparse
// disparity maps.
func (c *CLI) densifyCommand() *cobra.Command {
	var (
		rows    int
		cols    int
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "densify <sparse.npy>",
		Short: "Interpolate a sparse disparity map into a dense one",
		Long: `Interpolate a sparse disparity map into a dense one.

The input is an Nx3 array of (row, col, value) samples. The output is a
dense rows x cols float64 array filled by linear interpolation over the
Delaunay triangulation of the samples; cells outside the convex hull
are zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runDensify(ctx, args[0], outPath, rows, cols)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "height of the dense output")
	cmd.Flags().IntVar(&cols, "cols", 0, "width of the dense output")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default: <input>_dense.npy)")
	cmd.MarkFlagRequired("rows")
	cmd.MarkFlagRequired("cols")

	return cmd
}

func (c *CLI) runDensify(ctx context.Context, inPath, outPath string, rows, cols int) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	samples, err := loadSamples(inPath)
	if err != nil {
		printError("%s", err)
		return err
	}
	logger.Debug("loaded samples", "count", len(samples), "source", inPath)

	dense, err := interp.LinInterp(rows, cols, samples)
	if err != nil {
		printError("%s", err)
		return err
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + "_dense.npy"
	}
	if err := writeDense(outPath, rows, cols, dense.Data()); err != nil {
		printError("%s", err)
		return err
	}

	prog.done("Densified disparity map")
	printSuccess("Wrote %s", outPath)
	printFile(outPath)
	return nil
}

// loadSamples reads an Nx3 (row, col, value) array.
func loadSamples(path string) ([]interp.Sample, error) {
	t, err := loadNpy(path)
	if err != nil {
		return nil, err
	}
	shape := t.Shape()
	if len(shape) != 2 || shape[1] != 3 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "%s: expected an Nx3 sample array, got %v", path, shape)
	}

	data := t.Data()
	samples := make([]interp.Sample, shape[0])
	for i := range samples {
		samples[i] = interp.Sample{
			Row:   data[i*3+0],
			Col:   data[i*3+1],
			Value: data[i*3+2],
		}
	}
	return samples, nil
}

// writeDense saves a dense rows x cols array as .npy.
func writeDense(path string, rows, cols int, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", path)
	}
	if err := npyio.Write(f, mat.NewDense(rows, cols, data)); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "closing %s", path)
	}
	return nil
}
