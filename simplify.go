package staticmap

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// DefaultTolerance is the default simplification distance in pixels.
const DefaultTolerance = 11

// Simplifier reduces a projected path.
type Simplifier interface {
	Simplify(pts []image.Point) []image.Point
}

// Greedy keeps a point only when it is farther than Tolerance from the last
// kept point. First and last points always survive.
type Greedy struct {
	Tolerance float64
}

func (g Greedy) Simplify(pts []image.Point) []image.Point {
	return Simplify(pts, g.Tolerance)
}

// Simplify is the greedy sequential distance filter. It runs in one pass and
// can drop a sharp turn that stays within tolerance of the last kept point.
func Simplify(pts []image.Point, tolerance float64) []image.Point {
	if len(pts) <= 2 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}
	out := make([]image.Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1 : len(pts)-1] {
		last := out[len(out)-1]
		if math.Hypot(float64(p.X-last.X), float64(p.Y-last.Y)) > tolerance {
			out = append(out, p)
		}
	}
	return append(out, pts[len(pts)-1])
}

// DouglasPeucker simplifies with the Ramer-Douglas-Peucker algorithm, which
// keeps sharp detail the greedy filter may lose.
type DouglasPeucker struct {
	Threshold float64
}

func (d DouglasPeucker) Simplify(pts []image.Point) []image.Point {
	if len(pts) <= 2 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	ls = simplify.DouglasPeucker(d.Threshold).LineString(ls)
	out := make([]image.Point, len(ls))
	for i, p := range ls {
		out[i] = image.Pt(int(p[0]), int(p[1]))
	}
	return out
}
