// Package canvas is the raster surface a map is composed on.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"
)

// Canvas is the set of drawing primitives a map render needs. A nil fill or
// stroke color disables that part of the shape.
type Canvas interface {
	// Paste draws img with its top-left corner at (x, y).
	Paste(img image.Image, x, y int) error

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetStrokeWidth(w float64)

	DrawPolyline(pts []image.Point) error
	DrawPolygon(pts []image.Point) error
	// DrawCircle draws the circle through edge centered on center.
	DrawCircle(center, edge image.Point) error

	Encode(w io.Writer, f Format) error
	Image() image.Image
}

// Factory creates a blank canvas filled with bg.
type Factory func(width, height int, bg color.Color) (Canvas, error)

// Format is an output image encoding.
type Format int

const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the output format from a file name, defaulting to PNG.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return JPEG
	}
	return PNG
}
