package tiles

import (
	"testing"

	"github.com/paulmach/orb"
)

func mustViewport(t *testing.T, center orb.Point, zoom, w, h int) Viewport {
	t.Helper()
	v, err := NewViewport(center, zoom, w, h, DefaultTileSize)
	if err != nil {
		t.Fatalf("NewViewport: %v", err)
	}
	return v
}

func colRowRange(grid []Tile) (minC, minR, maxC, maxR int) {
	minC, minR = grid[0].Col, grid[0].Row
	maxC, maxR = minC, minR
	for _, tl := range grid {
		minC, maxC = min(minC, tl.Col), max(maxC, tl.Col)
		minR, maxR = min(minR, tl.Row), max(maxR, tl.Row)
	}
	return
}

func TestGridCoversViewport(t *testing.T) {
	cases := []struct {
		center orb.Point
		zoom   int
		w, h   int
	}{
		{orb.Point{-73.99, 40.73}, 10, 600, 400},
		{orb.Point{13.4, 52.5}, 5, 256, 256},
		{orb.Point{151.2, -33.9}, 12, 1024, 300},
		{orb.Point{0, 0}, 7, 1, 1},
	}
	for _, c := range cases {
		v := mustViewport(t, c.center, c.zoom, c.w, c.h)
		grid := Grid(v)
		if len(grid) == 0 {
			t.Fatalf("%v: empty grid", c)
		}
		minC, minR, maxC, maxR := colRowRange(grid)

		// tile (c, r) spans [c, c+1) x [r, r+1) in tile units
		left, top := v.TileUnits(0, 0)
		right, bottom := v.TileUnits(float64(c.w), float64(c.h))
		if float64(minC) > left || float64(maxC+1) < right {
			t.Errorf("%v: columns [%d,%d] do not cover [%v,%v]", c, minC, maxC+1, left, right)
		}
		if float64(minR) > top || float64(maxR+1) < bottom {
			t.Errorf("%v: rows [%d,%d] do not cover [%v,%v]", c, minR, maxR+1, top, bottom)
		}

		b := v.Bound()
		if TileXToLon(float64(minC), v.Zoom) > b.Left() || TileXToLon(float64(maxC+1), v.Zoom) < b.Right() {
			t.Errorf("%v: tiles do not cover longitudes of %v", c, b)
		}
		if TileYToLat(float64(minR), v.Zoom) < b.Top() || TileYToLat(float64(maxR+1), v.Zoom) > b.Bottom() {
			t.Errorf("%v: tiles do not cover latitudes of %v", c, b)
		}

		if want := (maxC - minC + 1) * (maxR - minR + 1); len(grid) != want {
			t.Errorf("%v: %d tiles, want full rectangle of %d", c, len(grid), want)
		}
	}
}

func TestGridRowMajorOrder(t *testing.T) {
	v := mustViewport(t, orb.Point{2.35, 48.85}, 9, 700, 500)
	grid := Grid(v)
	for i := 1; i < len(grid); i++ {
		prev, cur := grid[i-1], grid[i]
		if cur.Index != i {
			t.Fatalf("tile %d has index %d", i, cur.Index)
		}
		if cur.Row < prev.Row || (cur.Row == prev.Row && cur.Col != prev.Col+1) {
			t.Fatalf("tile %d (%d,%d) out of row-major order after (%d,%d)", i, cur.Col, cur.Row, prev.Col, prev.Row)
		}
	}
}

func TestGridWrapsAntimeridian(t *testing.T) {
	const zoom = 3
	v := mustViewport(t, orb.Point{-179.9, 0}, zoom, 512, 256)
	n := uint32(1 << zoom)

	var wrapped, first *Tile
	grid := Grid(v)
	for i := range grid {
		tl := &grid[i]
		if tl.X >= n {
			t.Fatalf("tile %s outside [0,%d)", tl, n)
		}
		if tl.Col == -1 {
			wrapped = tl
		}
		if tl.Col == 0 && first == nil {
			first = tl
		}
	}
	if wrapped == nil {
		t.Fatal("expected a tile left of the antimeridian")
	}
	if wrapped.X != n-1 {
		t.Errorf("column -1 maps to x=%d, want %d", wrapped.X, n-1)
	}
	if first == nil {
		t.Fatal("expected column 0")
	}
	// the wrapped tile sits just left of tile 0, not at the far right
	if got, want := wrapped.Offset(v).X, first.Offset(v).X-v.TileSize; got != want {
		t.Errorf("wrapped tile at x=%d, want %d", got, want)
	}
}

func TestGridClampsRows(t *testing.T) {
	v := mustViewport(t, orb.Point{0, 84}, 1, 512, 1024)
	grid := Grid(v)
	if len(grid) == 0 {
		t.Fatal("empty grid")
	}
	for _, tl := range grid {
		if tl.Row < 0 || tl.Row > 1 {
			t.Errorf("tile %s has row %d outside the world", tl, tl.Row)
		}
		if int(tl.Y) != tl.Row {
			t.Errorf("tile %s: rows must not wrap", tl)
		}
	}
}

func TestTileURL(t *testing.T) {
	v := mustViewport(t, orb.Point{-179.9, 0}, 2, 512, 256)
	for _, tl := range Grid(v) {
		u, err := tl.URL("https://tiles.example/{z}/{x}/{y}.png")
		if err != nil {
			t.Fatal(err)
		}
		want, _ := FillURL("https://tiles.example/{z}/{x}/{y}.png", 2, int(tl.X), int(tl.Y))
		if u != want {
			t.Errorf("URL %q, want %q", u, want)
		}
	}
}
