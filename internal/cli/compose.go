package cli

import (
	"context"
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/cache"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/figure"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/figure/sink"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// composeCommand creates the compose command for rendering figures.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		outDir       string
		alignScales  bool
		noCache      bool
		previewWidth int
	)

	cmd := &cobra.Command{
		Use:   "compose <figure.toml>",
		Short: "Render a figure description into PNG files",
		Long: `Render a TOML figure description into PNG files.

The description lists panels referencing NumPy arrays (.npy) or images
(.png, .jpg). Scalar arrays are drawn as heatmaps, images and 3xHxW
arrays as color panels. Each panel is written as <idx>.png next to the
composite full.png.

Computed color ranges are cached per panel data, so re-rendering the
same arrays reuses the previous scales.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runCompose(ctx, args[0], outDir, alignScales, noCache, previewWidth)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: description name without extension)")
	cmd.Flags().BoolVar(&alignScales, "align-scales", false, "share one color scale across scalar panels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the color-range cache")
	cmd.Flags().IntVar(&previewWidth, "preview", 0, "additionally write preview.png at the given pixel width")

	return cmd
}

func (c *CLI) runCompose(ctx context.Context, specPath, outDir string, alignScales, noCache bool, previewWidth int) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spec, err := loadFigureSpec(specPath)
	if err != nil {
		printError("%s", err)
		return err
	}

	panels := make([]figure.Panel, len(spec.Panels))
	datas := make([]*tensor.Dense, len(spec.Panels))
	for i, ps := range spec.Panels {
		src := resolveSource(specPath, ps.Source)
		logger.Debug("loading panel", "panel", i, "source", src)
		data, err := loadPanelData(src)
		if err != nil {
			printError("%s", err)
			return err
		}
		datas[i] = data
		panels[i] = figure.Panel{
			Data:     data,
			Label:    ps.Label,
			Center:   ps.Center,
			Colorbar: ps.Colorbar,
		}
	}

	store := newCache(noCache)
	defer store.Close()

	ranges, keys, fromCache := c.lookupRanges(ctx, store, spec, datas)

	opts := []figure.Option{figure.WithLogger(logger)}
	if alignScales || spec.AlignScales {
		opts = append(opts, figure.WithAlignScales())
	}
	usedRanges := anyRange(ranges)
	if usedRanges {
		opts = append(opts, figure.WithRanges(ranges))
	}

	fig, err := figure.Compose(panels, opts...)
	if err != nil {
		printError("%s", err)
		return err
	}

	// Ranges are only computed (and thus cacheable) when none were
	// supplied up front.
	if !usedRanges {
		for i, r := range fig.Ranges {
			if r == nil || keys[i] == "" {
				continue
			}
			if err := store.Set(ctx, keys[i], encodeRange(r), 0); err != nil {
				logger.Debug("could not cache range", "panel", i, "err", err)
			}
		}
	}

	if outDir == "" {
		outDir = strings.TrimSuffix(specPath, filepath.Ext(specPath))
	}
	var sinkOpts []sink.Option
	if previewWidth > 0 {
		sinkOpts = append(sinkOpts, sink.WithPreview(previewWidth))
	}
	if err := sink.Save(fig, outDir, sinkOpts...); err != nil {
		printError("%s", err)
		return err
	}

	skipped := 0
	for i := 0; i < fig.NumPanels(); i++ {
		if fig.Skipped(i) {
			skipped++
		}
	}

	prog.done("Rendered figure")
	printSuccess("Wrote %s", outDir)
	printFile(filepath.Join(outDir, "full.png"))
	printStats(fig.NumPanels(), skipped, fromCache)
	return nil
}

// lookupRanges resolves per-panel color ranges from the description and
// the range cache. The returned keys slice holds the cache key for each
// panel whose range could be memoized; fromCache reports whether every
// such panel was served from the cache.
func (c *CLI) lookupRanges(ctx context.Context, store cache.Cache, spec *figureSpec, datas []*tensor.Dense) ([]*figure.Range, []string, bool) {
	ranges := make([]*figure.Range, len(spec.Panels))
	keys := make([]string, len(spec.Panels))
	lookups, hits := 0, 0

	for i, ps := range spec.Panels {
		if len(ps.Range) == 2 {
			ranges[i] = &figure.Range{Min: ps.Range[0], Max: ps.Range[1]}
			continue
		}
		// Centered and color panels get no scalar range.
		if ps.Center != nil || datas[i].Squeeze().Rank() != 2 {
			continue
		}
		keys[i] = cache.RangeKey(datas[i].Data())
		lookups++
		buf, ok, err := store.Get(ctx, keys[i])
		if err != nil || !ok {
			continue
		}
		if r, ok := decodeRange(buf); ok {
			ranges[i] = r
			hits++
		}
	}

	// A partial hit cannot be used: the composer would not recompute
	// the missing ranges for us to cache.
	if hits < lookups {
		for i, k := range keys {
			if k != "" {
				ranges[i] = nil
			}
		}
		return ranges, keys, false
	}
	return ranges, keys, lookups > 0
}

func anyRange(ranges []*figure.Range) bool {
	for _, r := range ranges {
		if r != nil {
			return true
		}
	}
	return false
}

// encodeRange packs a range as 16 little-endian bytes.
func encodeRange(r *figure.Range) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(r.Min))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.Max))
	return buf
}

// decodeRange unpacks a range encoded by encodeRange.
func decodeRange(buf []byte) (*figure.Range, bool) {
	if len(buf) != 16 {
		return nil, false
	}
	return &figure.Range{
		Min: math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
		Max: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
	}, true
}
