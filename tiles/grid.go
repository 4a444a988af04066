package tiles

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb/maptile"
)

// Tile is one cell of the grid covering a viewport. The embedded maptile.Tile
// holds the wrapped index used to address the tile source; Col and Row keep
// the unwrapped grid position, which decides where the tile lands.
type Tile struct {
	maptile.Tile
	Col, Row int
	Index    int // position in paste order
}

// Offset is the canvas pixel of the tile's top-left corner.
func (t Tile) Offset(v Viewport) image.Point {
	return v.TilePixel(float64(t.Col), float64(t.Row))
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Bounds returns the inclusive tile index rectangle covering the viewport,
// before any wrapping.
func Bounds(v Viewport) (minX, minY, maxX, maxY int) {
	halfW := 0.5 * float64(v.Width) / float64(v.TileSize)
	halfH := 0.5 * float64(v.Height) / float64(v.TileSize)
	minX = int(math.Floor(v.CenterX - halfW))
	minY = int(math.Floor(v.CenterY - halfH))
	maxX = int(math.Ceil(v.CenterX + halfW))
	maxY = int(math.Ceil(v.CenterY + halfH))
	return
}

// Grid enumerates the tiles covering v in row-major order.
// Columns wrap around the antimeridian; rows beyond the poles have no tile
// and are left out.
func Grid(v Viewport) []Tile {
	minX, minY, maxX, maxY := Bounds(v)
	n := 1 << v.Zoom
	if minY < 0 {
		minY = 0
	}
	if maxY > n-1 {
		maxY = n - 1
	}
	if maxY < minY {
		return nil
	}

	out := make([]Tile, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			wx := ((x % n) + n) % n
			out = append(out, Tile{
				Tile:  maptile.New(uint32(wx), uint32(y), maptile.Zoom(v.Zoom)),
				Col:   x,
				Row:   y,
				Index: len(out),
			})
		}
	}
	return out
}
