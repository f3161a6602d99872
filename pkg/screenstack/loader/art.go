package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/atomic"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Art is the visual produced by the resource and remote loaders: a screen's
// artwork rasterized to the loader's target size. Every Load returns a new Art.
type Art struct {
	// Name is the resource path or remote key the art was loaded from.
	Name  string
	Image *image.RGBA

	destroyed atomic.Bool
}

// Destroy releases the pixel buffer. Safe to call more than once.
func (a *Art) Destroy() {
	if a.destroyed.CompareAndSwap(false, true) {
		a.Image = nil
	}
}

func (a *Art) Destroyed() bool {
	return a.destroyed.Load()
}

// Decode rasterizes SVG data, or decodes PNG, JPEG or WebP data, into an
// image of the given size. A zero size keeps the source's own dimensions.
func Decode(name string, data []byte, size image.Point) (*Art, error) {
	var (
		img *image.RGBA
		err error
	)
	if strings.EqualFold(path.Ext(name), ".svg") {
		img, err = rasterizeSVG(data, size)
	} else {
		img, err = decodeBitmap(data, size)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &Art{Name: name, Image: img}, nil
}

func rasterizeSVG(data []byte, size image.Point) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w, h := size.X, size.Y
	if w <= 0 || h <= 0 {
		w, h = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no view box and no target size")
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

func decodeBitmap(data []byte, size image.Point) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if size.X > 0 && size.Y > 0 {
		bounds = image.Rect(0, 0, size.X, size.Y)
	}

	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.CatmullRom.Scale(img, img.Bounds(), src, src.Bounds(), draw.Src, nil)
	return img, nil
}
