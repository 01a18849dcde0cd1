package cli

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/cache"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/figure"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

func testCLI() *CLI {
	return New(io.Discard, log.FatalLevel)
}

func TestRangeEncodeDecode(t *testing.T) {
	in := &figure.Range{Min: -1.5, Max: math.Pi}
	out, ok := decodeRange(encodeRange(in))
	if !ok {
		t.Fatal("decodeRange() failed")
	}
	if out.Min != in.Min || out.Max != in.Max {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestDecodeRangeBadLength(t *testing.T) {
	if _, ok := decodeRange([]byte{1, 2, 3}); ok {
		t.Error("decodeRange() accepted a short buffer")
	}
}

func TestRunComposeWritesOutput(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))

	specPath := filepath.Join(dir, "figure.toml")
	npyPath := writeNpyFile(t, "depth.npy", 2, 2, []float64{0, 1, 2, 3})
	content := "[[panel]]\nsource = \"" + npyPath + "\"\nlabel = \"depth\"\n"
	if err := os.WriteFile(specPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := testCLI()
	outDir := filepath.Join(dir, "out")
	if err := c.runCompose(context.Background(), specPath, outDir, false, true, 0); err != nil {
		t.Fatalf("runCompose() error = %v", err)
	}

	for _, name := range []string{"0.png", "full.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestRunComposeDefaultOutDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))

	npyPath := writeNpyFile(t, "depth.npy", 2, 2, []float64{0, 1, 2, 3})
	specPath := filepath.Join(dir, "result.toml")
	content := "[[panel]]\nsource = \"" + npyPath + "\"\n"
	if err := os.WriteFile(specPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := testCLI()
	if err := c.runCompose(context.Background(), specPath, "", false, true, 0); err != nil {
		t.Fatalf("runCompose() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "result", "full.png")); err != nil {
		t.Errorf("default output dir not used: %v", err)
	}
}

func TestLookupRangesCacheRoundTrip(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	data := tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2)
	spec := &figureSpec{Panels: []panelSpec{{Source: "a.npy"}}}
	datas := []*tensor.Dense{data}

	c := testCLI()
	ranges, keys, fromCache := c.lookupRanges(ctx, store, spec, datas)
	if fromCache {
		t.Error("cold cache reported a hit")
	}
	if ranges[0] != nil {
		t.Errorf("cold lookup returned range %+v", ranges[0])
	}
	if keys[0] == "" {
		t.Fatal("no cache key for scalar panel")
	}

	if err := store.Set(ctx, keys[0], encodeRange(&figure.Range{Min: 1, Max: 4}), 0); err != nil {
		t.Fatal(err)
	}

	ranges, _, fromCache = c.lookupRanges(ctx, store, spec, datas)
	if !fromCache {
		t.Error("warm cache reported a miss")
	}
	if ranges[0] == nil || ranges[0].Min != 1 || ranges[0].Max != 4 {
		t.Errorf("warm lookup returned %+v", ranges[0])
	}
}

func TestLookupRangesSkipsCenteredPanels(t *testing.T) {
	ctx := context.Background()
	center := 0.0
	spec := &figureSpec{Panels: []panelSpec{{Source: "e.npy", Center: &center}}}
	datas := []*tensor.Dense{tensor.MustNew([]float64{-1, 0, 1, 2}, 2, 2)}

	c := testCLI()
	ranges, keys, _ := c.lookupRanges(ctx, cache.NewNullCache(), spec, datas)
	if ranges[0] != nil || keys[0] != "" {
		t.Errorf("centered panel got range %+v key %q", ranges[0], keys[0])
	}
}

func TestLookupRangesExplicitWins(t *testing.T) {
	ctx := context.Background()
	spec := &figureSpec{Panels: []panelSpec{{Source: "a.npy", Range: []float64{-2, 5}}}}
	datas := []*tensor.Dense{tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2)}

	c := testCLI()
	ranges, keys, _ := c.lookupRanges(ctx, cache.NewNullCache(), spec, datas)
	if ranges[0] == nil || ranges[0].Min != -2 || ranges[0].Max != 5 {
		t.Errorf("explicit range not honored: %+v", ranges[0])
	}
	if keys[0] != "" {
		t.Error("explicit range should not be cached")
	}
}
