package tiles

import (
	"fmt"
	"image"

	"github.com/paulmach/orb"
)

// Viewport is the resolved view of one render: a zoom, the canvas center in
// tile units and the canvas geometry. It is a value and never changes once
// built.
type Viewport struct {
	Zoom     int
	CenterX  float64
	CenterY  float64
	Width    int
	Height   int
	TileSize int
}

// NewViewport centers a width x height canvas on center at zoom.
func NewViewport(center orb.Point, zoom, width, height, tileSize int) (Viewport, error) {
	if zoom < 0 || zoom > MaxZoom {
		return Viewport{}, fmt.Errorf("zoom %d out of range [0,%d]", zoom, MaxZoom)
	}
	if width <= 0 || height <= 0 {
		return Viewport{}, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if err := CheckLon(center.Lon()); err != nil {
		return Viewport{}, err
	}
	cy, err := LatToTileY(center.Lat(), zoom)
	if err != nil {
		return Viewport{}, err
	}
	return Viewport{
		Zoom:     zoom,
		CenterX:  LonToTileX(center.Lon(), zoom),
		CenterY:  cy,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
	}, nil
}

// Pixel projects a geographic point onto the canvas.
func (v Viewport) Pixel(p orb.Point) (image.Point, error) {
	y, err := LatToTileY(p.Lat(), v.Zoom)
	if err != nil {
		return image.Point{}, err
	}
	return v.TilePixel(LonToTileX(p.Lon(), v.Zoom), y), nil
}

// TilePixel projects a position given in tile units onto the canvas.
func (v Viewport) TilePixel(tx, ty float64) image.Point {
	return image.Pt(
		ToPixel(tx, v.CenterX, v.TileSize, v.Width),
		ToPixel(ty, v.CenterY, v.TileSize, v.Height),
	)
}

// TileUnits returns the tile-unit position under canvas pixel (px, py).
func (v Viewport) TileUnits(px, py float64) (tx, ty float64) {
	return FromPixel(px, v.CenterX, v.TileSize, v.Width), FromPixel(py, v.CenterY, v.TileSize, v.Height)
}

// Bound is the geographic area visible on the canvas.
func (v Viewport) Bound() orb.Bound {
	minX, minY := v.TileUnits(0, 0)
	maxX, maxY := v.TileUnits(float64(v.Width), float64(v.Height))
	// tile Y grows southwards
	return orb.Bound{
		Min: orb.Point{TileXToLon(minX, v.Zoom), TileYToLat(maxY, v.Zoom)},
		Max: orb.Point{TileXToLon(maxX, v.Zoom), TileYToLat(minY, v.Zoom)},
	}
}

// Center returns the geographic center of the viewport.
func (v Viewport) Center() orb.Point {
	return orb.Point{TileXToLon(v.CenterX, v.Zoom), TileYToLat(v.CenterY, v.Zoom)}
}
