// Package sink writes composed figures to disk as PNG files.
//
// A figure is exported as one file per panel (0.png … n-1.png) plus the
// composite as full.png, all with a tight bounding box so they can be
// embedded directly into a document. Writes are atomic: each file is
// written to a temporary name first and renamed into place.
package sink

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cgtuebingen/cystoscopy-depth/pkg/errors"
	"github.com/cgtuebingen/cystoscopy-depth/pkg/figure"
)

// Option configures Save.
type Option func(*saver)

type saver struct {
	previewWidth int
}

// WithPreview additionally writes preview.png, the composite downscaled
// to the given pixel width.
func WithPreview(width int) Option {
	return func(s *saver) { s.previewWidth = width }
}

// Save writes every rendered panel of fig plus the composite into dir,
// creating the directory if needed. Panels that were skipped during
// composition are not written; their indices are simply absent.
func Save(fig *figure.Figure, dir string, opts ...Option) error {
	s := saver{}
	for _, opt := range opts {
		opt(&s)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", dir)
	}

	for i := 0; i < fig.NumPanels(); i++ {
		if fig.Skipped(i) {
			continue
		}
		canvas, err := fig.PanelCanvas(i)
		if errors.Is(err, errors.ErrCodePanelRender) {
			continue // same recovery as during composition
		}
		if err != nil {
			return err
		}
		if err := writeCanvas(canvas, filepath.Join(dir, strconv.Itoa(i)+".png")); err != nil {
			return err
		}
	}

	if err := writeCanvas(fig.Composite, filepath.Join(dir, "full.png")); err != nil {
		return err
	}

	if s.previewWidth > 0 {
		preview := imaging.Resize(tightCrop(fig.Composite.Image()), s.previewWidth, 0, imaging.Lanczos)
		if err := writeImage(preview, filepath.Join(dir, "preview.png")); err != nil {
			return err
		}
	}
	return nil
}

// writeCanvas writes the canvas image with a tight bounding box.
func writeCanvas(c *vgimg.Canvas, path string) error {
	return writeImage(tightCrop(c.Image()), path)
}

// writeImage atomically writes img as PNG to path.
func writeImage(img image.Image, path string) error {
	tmp := path + ".tmp-" + uuid.NewString()
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", tmp)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "renaming into %s", path)
	}
	return nil
}

// tightCrop removes the uniform border around the figure content. The
// background color is taken from the top-left pixel; if the whole image
// is background the image is returned unchanged.
func tightCrop(img image.Image) image.Image {
	b := img.Bounds()
	bg := img.At(b.Min.X, b.Min.Y)
	bgR, bgG, bgB, bgA := bg.RGBA()

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == bgR && g == bgG && bl == bgB && a == bgA {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return img
	}
	return imaging.Crop(img, image.Rect(minX, minY, maxX+1, maxY+1))
}
