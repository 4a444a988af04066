package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
)

// GG is a Canvas backed by a software gg.Context.
type GG struct {
	dc     *gg.Context
	fill   color.Color
	stroke color.Color
	width  float64
}

// NewGG creates a width x height canvas cleared to bg.
func NewGG(width, height int, bg color.Color) (Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	if bg == nil {
		dc.Clear()
	} else {
		dc.ClearWithColor(gg.FromColor(bg))
	}
	return &GG{dc: dc, width: 1}, nil
}

func (c *GG) Paste(img image.Image, x, y int) error {
	if img == nil {
		return errors.New("paste: nil image")
	}
	c.dc.DrawImage(gg.ImageBufFromImage(img), float64(x), float64(y))
	return nil
}

func (c *GG) SetFillColor(col color.Color)   { c.fill = col }
func (c *GG) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *GG) SetStrokeWidth(w float64)       { c.width = w }

func (c *GG) path(pts []image.Point, closed bool) {
	c.dc.ClearPath()
	for i, p := range pts {
		if i == 0 {
			c.dc.MoveTo(float64(p.X), float64(p.Y))
			continue
		}
		c.dc.LineTo(float64(p.X), float64(p.Y))
	}
	if closed {
		c.dc.ClosePath()
	}
}

// paint fills then strokes the current path; gg shares one brush between
// the two, so the color is set right before each pass.
func (c *GG) paint(fill bool) error {
	defer c.dc.ClearPath()
	if fill && c.fill != nil {
		c.dc.SetColor(c.fill)
		if err := c.dc.FillPreserve(); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}
	if c.stroke != nil && c.width > 0 {
		c.dc.SetColor(c.stroke)
		c.dc.SetLineWidth(c.width)
		if err := c.dc.StrokePreserve(); err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
	}
	return nil
}

func (c *GG) DrawPolyline(pts []image.Point) error {
	if len(pts) == 0 {
		return errors.New("polyline: no points")
	}
	c.path(pts, false)
	return c.paint(false)
}

func (c *GG) DrawPolygon(pts []image.Point) error {
	if len(pts) == 0 {
		return errors.New("polygon: no points")
	}
	c.path(pts, true)
	return c.paint(true)
}

func (c *GG) DrawCircle(center, edge image.Point) error {
	r := math.Hypot(float64(edge.X-center.X), float64(edge.Y-center.Y))
	c.dc.ClearPath()
	c.dc.DrawCircle(float64(center.X), float64(center.Y), r)
	return c.paint(true)
}

func (c *GG) Encode(w io.Writer, f Format) error {
	_ = c.dc.FlushGPU()
	switch f {
	case JPEG:
		return c.dc.EncodeJPEG(w, 90)
	default:
		return c.dc.EncodePNG(w)
	}
}

func (c *GG) Image() image.Image {
	_ = c.dc.FlushGPU()
	return c.dc.Image()
}

// Close releases the underlying context.
func (c *GG) Close() error { return c.dc.Close() }
