package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/disintegration/imaging"
	"github.com/sbinet/npyio"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/imgutil"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/tensor"
)

// figureSpec is a TOML figure description.
//
//	align_scales = true
//
//	[[panel]]
//	source = "pred.npy"
//	label = "prediction"
//	colorbar = true
//
//	[[panel]]
//	source = "error.npy"
//	label = "error"
//	center = 0.0
type figureSpec struct {
	AlignScales bool        `toml:"align_scales"`
	Panels      []panelSpec `toml:"panel"`
}

// panelSpec describes one panel. Source paths are resolved relative to
// the description file. Range, when present, must hold exactly two
// values (min, max).
type panelSpec struct {
	Source   string    `toml:"source"`
	Label    string    `toml:"label"`
	Center   *float64  `toml:"center"`
	Colorbar *bool     `toml:"colorbar"`
	Range    []float64 `toml:"range"`
}

// loadFigureSpec parses and validates a figure description file.
func loadFigureSpec(path string) (*figureSpec, error) {
	var spec figureSpec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "figure description %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	if len(spec.Panels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s describes no panels", path)
	}
	for i, p := range spec.Panels {
		if p.Source == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "panel %d has no source", i)
		}
		if n := len(p.Range); n != 0 && n != 2 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "panel %d: range needs two values, got %d", i, n)
		}
	}
	return &spec, nil
}

// resolveSource makes a panel source path absolute relative to the
// directory of the description file.
func resolveSource(specPath, source string) string {
	if filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(filepath.Dir(specPath), source)
}

// loadPanelData reads a panel source into a tensor. NumPy arrays are
// loaded as-is; images are decoded, scaled to [0,1], moved to
// channels-first layout, and ImageNet-normalized so they take the same
// path through the composer as network inputs do.
func loadPanelData(path string) (*tensor.Dense, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		return loadNpy(path)
	case ".png", ".jpg", ".jpeg":
		return loadImage(path)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported panel source %s", path)
}

// loadNpy reads a .npy file into a tensor, accepting float32 and
// float64 arrays in C order.
func loadNpy(path string) (*tensor.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "array %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "opening %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", path)
	}
	if r.Header.Descr.Fortran {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is Fortran-ordered, expected C order", path)
	}

	var data []float64
	if strings.Contains(r.Header.Descr.Type, "f4") {
		var f32 []float32
		if err := r.Read(&f32); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", path)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	} else {
		if err := r.Read(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %s", path)
		}
	}

	return tensor.New(data, r.Header.Descr.Shape...)
}

// loadImage decodes an image into a normalized 3xHxW tensor.
func loadImage(path string) (*tensor.Dense, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "image %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding %s", path)
	}

	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	out := tensor.Zeros(3, h, w)
	data := out.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			data[0*h*w+y*w+x] = float64(r) / 65535
			data[1*h*w+y*w+x] = float64(g) / 65535
			data[2*h*w+y*w+x] = float64(bl) / 65535
		}
	}
	return imgutil.Normalize(out)
}
