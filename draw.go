package staticmap

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"

	"github.com/s0ultr4d3r/staticmap/canvas"
)

// Kind is the shape a DrawInstruction draws.
type Kind int

const (
	KindPolyline Kind = iota
	KindPolygon
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DrawInstruction is a projected feature ready for the canvas. For circles
// Points holds the center followed by one point on the circumference.
type DrawInstruction struct {
	Kind   Kind
	Points []image.Point
	Style
}

// Apply sets the style on c and draws the shape.
func (d DrawInstruction) Apply(c canvas.Canvas) error {
	c.SetFillColor(d.Fill)
	c.SetStrokeColor(d.Stroke)
	c.SetStrokeWidth(d.StrokeWidth)
	switch d.Kind {
	case KindPolyline:
		return c.DrawPolyline(d.Points)
	case KindPolygon:
		return c.DrawPolygon(d.Points)
	case KindCircle:
		if len(d.Points) != 2 {
			return fmt.Errorf("circle needs center and edge, got %d points", len(d.Points))
		}
		return c.DrawCircle(d.Points[0], d.Points[1])
	}
	return fmt.Errorf("unknown draw kind %v", d.Kind)
}

func projectPath(v Viewport, pts []orb.Point, simplify bool, s Simplifier) ([]image.Point, error) {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		px, err := v.Pixel(p)
		if err != nil {
			return nil, err
		}
		out[i] = px
	}
	if simplify && s != nil {
		out = s.Simplify(out)
	}
	return out, nil
}

func (l *Polyline) Project(v Viewport, s Simplifier) (DrawInstruction, error) {
	pts, err := projectPath(v, l.Coordinates, l.Simplify, s)
	if err != nil {
		return DrawInstruction{}, err
	}
	// polylines are never filled
	st := l.Style
	st.Fill = nil
	return DrawInstruction{Kind: KindPolyline, Points: pts, Style: st}, nil
}

func (p *Polygon) Project(v Viewport, s Simplifier) (DrawInstruction, error) {
	pts, err := projectPath(v, p.Coordinates, p.Simplify, s)
	if err != nil {
		return DrawInstruction{}, err
	}
	return DrawInstruction{Kind: KindPolygon, Points: pts, Style: p.Style}, nil
}

func (c *Circle) Project(v Viewport, _ Simplifier) (DrawInstruction, error) {
	center, err := v.Pixel(c.Center)
	if err != nil {
		return DrawInstruction{}, err
	}
	edge := image.Pt(int(math.Round(float64(center.X)+c.PixelRadius(v.Zoom))), center.Y)
	return DrawInstruction{Kind: KindCircle, Points: []image.Point{center, edge}, Style: c.Style}, nil
}

// drawFeatures projects and draws every feature in draw order.
func drawFeatures(c canvas.Canvas, v Viewport, features []Feature, s Simplifier) error {
	for i, f := range features {
		ins, err := f.Project(v, s)
		if err != nil {
			return fmt.Errorf("project feature %d: %w", i, err)
		}
		if err := ins.Apply(c); err != nil {
			return &CanvasError{Op: "draw " + ins.Kind.String(), Err: err}
		}
		Logger().Debug("feature drawn", "kind", ins.Kind.String(), "points", len(ins.Points))
	}
	return nil
}
