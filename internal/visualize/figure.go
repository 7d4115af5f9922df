package visualize

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/autolysis/internal/utils"
)

var errFigureClosed = errors.New("figure already released")

// Figure is an owned raster rendering context. Each image gets its own
// Figure; nothing is shared between images or datasets.
type Figure struct {
	canvas *vgimg.Canvas
}

// NewFigure allocates a white canvas of the given size.
func NewFigure(w, h vg.Length) *Figure {
	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(vgimg.DefaultDPI),
		vgimg.UseBackgroundColor(color.White),
	)
	return &Figure{canvas: c}
}

// Canvas returns the drawing area covering the whole figure.
func (f *Figure) Canvas() (draw.Canvas, error) {
	if f.canvas == nil {
		return draw.Canvas{}, errFigureClosed
	}
	return draw.New(f.canvas), nil
}

// SavePNG encodes the figure and writes it atomically to path.
func (f *Figure) SavePNG(path string) error {
	if f.canvas == nil {
		return errFigureClosed
	}
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: f.canvas}).WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Close releases the canvas. Further use returns an error.
func (f *Figure) Close() { f.canvas = nil }

// render runs paint on a fresh Figure, saves it to path, and releases the
// Figure whatever happens. Panics from the plotting backend become errors.
func render(w, h vg.Length, path string, paint func(dc draw.Canvas) error) (err error) {
	fig := NewFigure(w, h)
	defer fig.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render %s: %v", filepath.Base(path), r)
		}
	}()
	dc, err := fig.Canvas()
	if err != nil {
		return err
	}
	if err := paint(dc); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return fig.SavePNG(path)
}
