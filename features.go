package staticmap

import (
	"image/color"
	"math"

	"github.com/paulmach/orb"

	"github.com/s0ultr4d3r/staticmap/tiles"
)

// Extent is a geographic bounding box, Min = (minLon, minLat) and
// Max = (maxLon, maxLat).
type Extent = orb.Bound

// Feature is a vector shape drawn over the tiles: *Polyline, *Polygon or
// *Circle.
type Feature interface {
	// Extent is the geographic bounding box of the feature at zoom.
	Extent(zoom, tileSize int) (Extent, error)
	// Project turns the feature into a draw instruction for the viewport.
	Project(v Viewport, s Simplifier) (DrawInstruction, error)

	feature()
}

const defaultStrokeWidth = 2

// PolylineOptions describe a polyline to add to a map.
type PolylineOptions struct {
	Coordinates [][]float64 `yaml:"coordinates"` // [lon, lat] pairs
	StrokeColor string      `yaml:"strokeColor"` // default #ffffff
	StrokeWidth float64     `yaml:"strokeWidth"` // default 2
	Simplify    *bool       `yaml:"simplify"`    // default true
}

// PolygonOptions describe a polygon to add to a map.
type PolygonOptions struct {
	Coordinates [][]float64 `yaml:"coordinates"`
	FillColor   string      `yaml:"fillColor"`   // default none
	StrokeColor string      `yaml:"strokeColor"` // default #000000
	StrokeWidth float64     `yaml:"strokeWidth"`
	Simplify    *bool       `yaml:"simplify"`
}

// CircleOptions describe a circle to add to a map.
type CircleOptions struct {
	Coordinates []float64 `yaml:"coordinates"` // [lon, lat] center
	Radius      float64   `yaml:"radius"`      // kilometers
	FillColor   string    `yaml:"fillColor"`
	StrokeColor string    `yaml:"strokeColor"` // default #ffffff
	StrokeWidth float64   `yaml:"strokeWidth"`
}

// Style is the paint of a feature. A nil color is not drawn.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Polyline is an open path.
type Polyline struct {
	Coordinates orb.LineString
	Style
	Simplify bool
}

// Polygon is a closed, optionally filled path.
type Polygon struct {
	Coordinates orb.Ring
	Style
	Simplify bool
}

// Circle has a geographic center and a radius in kilometers.
type Circle struct {
	Center orb.Point
	Radius float64
	Style
}

func (*Polyline) feature() {}
func (*Polygon) feature()  {}
func (*Circle) feature()   {}

func NewPolyline(o PolylineOptions) (*Polyline, error) {
	pts, err := parseCoords("polyline.coordinates", o.Coordinates)
	if err != nil {
		return nil, err
	}
	st, err := parseStyle("polyline", "", o.StrokeColor, "#ffffff", o.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return &Polyline{Coordinates: orb.LineString(pts), Style: st, Simplify: boolOr(o.Simplify, true)}, nil
}

func NewPolygon(o PolygonOptions) (*Polygon, error) {
	pts, err := parseCoords("polygon.coordinates", o.Coordinates)
	if err != nil {
		return nil, err
	}
	st, err := parseStyle("polygon", o.FillColor, o.StrokeColor, "#000000", o.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return &Polygon{Coordinates: orb.Ring(pts), Style: st, Simplify: boolOr(o.Simplify, true)}, nil
}

func NewCircle(o CircleOptions) (*Circle, error) {
	if len(o.Coordinates) != 2 {
		return nil, configErr("circle.coordinates", "want [lon, lat], got %d values", len(o.Coordinates))
	}
	p := orb.Point{o.Coordinates[0], o.Coordinates[1]}
	if err := checkPoint(p); err != nil {
		return nil, &ConfigError{Field: "circle.coordinates", Err: err}
	}
	if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
		return nil, configErr("circle.radius", "radius in kilometers must be > 0, got %v", o.Radius)
	}
	st, err := parseStyle("circle", o.FillColor, o.StrokeColor, "#ffffff", o.StrokeWidth)
	if err != nil {
		return nil, err
	}
	return &Circle{Center: p, Radius: o.Radius, Style: st}, nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func parseCoords(field string, coords [][]float64) ([]orb.Point, error) {
	if len(coords) == 0 {
		return nil, configErr(field, "at least one [lon, lat] pair is required")
	}
	out := make([]orb.Point, 0, len(coords))
	for i, c := range coords {
		if len(c) != 2 {
			return nil, configErr(field, "point %d: want [lon, lat], got %d values", i, len(c))
		}
		p := orb.Point{c[0], c[1]}
		if err := checkPoint(p); err != nil {
			return nil, configErr(field, "point %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func checkPoint(p orb.Point) error {
	if err := tiles.CheckLon(p.Lon()); err != nil {
		return err
	}
	return tiles.CheckLat(p.Lat())
}

func parseStyle(kind, fill, stroke, defStroke string, width float64) (Style, error) {
	f, err := ParseHexColor(fill)
	if err != nil {
		return Style{}, &ConfigError{Field: kind + ".fillColor", Err: err}
	}
	s, err := colorOr(stroke, defStroke)
	if err != nil {
		return Style{}, &ConfigError{Field: kind + ".strokeColor", Err: err}
	}
	if width < 0 || math.IsNaN(width) {
		return Style{}, configErr(kind+".strokeWidth", "must be >= 0, got %v", width)
	}
	if width == 0 {
		width = defaultStrokeWidth
	}
	return Style{Fill: f, Stroke: s, StrokeWidth: width}, nil
}

var (
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	black = color.NRGBA{0, 0, 0, 0xff}
)

// checkStyle applies the stroke defaults to a style that did not come from
// the option parsers.
func checkStyle(kind string, st Style, defStroke color.Color) (Style, error) {
	if st.Stroke == nil {
		st.Stroke = defStroke
	}
	if st.StrokeWidth < 0 || math.IsNaN(st.StrokeWidth) || math.IsInf(st.StrokeWidth, 0) {
		return Style{}, configErr(kind+".strokeWidth", "must be >= 0, got %v", st.StrokeWidth)
	}
	if st.StrokeWidth == 0 {
		st.StrokeWidth = defaultStrokeWidth
	}
	return st, nil
}

func checkPath(field string, pts []orb.Point) error {
	if len(pts) == 0 {
		return configErr(field, "at least one [lon, lat] pair is required")
	}
	for i, p := range pts {
		if err := checkPoint(p); err != nil {
			return configErr(field, "point %d: %w", i, err)
		}
	}
	return nil
}

// validated returns a checked copy with defaults applied.
func (l *Polyline) validated() (*Polyline, error) {
	if err := checkPath("polyline.coordinates", l.Coordinates); err != nil {
		return nil, err
	}
	st, err := checkStyle("polyline", l.Style, white)
	if err != nil {
		return nil, err
	}
	c := l.clone()
	c.Style = st
	return c, nil
}

func (p *Polygon) validated() (*Polygon, error) {
	if err := checkPath("polygon.coordinates", p.Coordinates); err != nil {
		return nil, err
	}
	st, err := checkStyle("polygon", p.Style, black)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.Style = st
	return c, nil
}

func (c *Circle) validated() (*Circle, error) {
	if err := checkPoint(c.Center); err != nil {
		return nil, &ConfigError{Field: "circle.coordinates", Err: err}
	}
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return nil, configErr("circle.radius", "radius in kilometers must be > 0, got %v", c.Radius)
	}
	st, err := checkStyle("circle", c.Style, white)
	if err != nil {
		return nil, err
	}
	out := c.clone()
	out.Style = st
	return out, nil
}

func (l *Polyline) clone() *Polyline {
	c := *l
	c.Coordinates = l.Coordinates.Clone()
	return &c
}

func (p *Polygon) clone() *Polygon {
	c := *p
	c.Coordinates = p.Coordinates.Clone()
	return &c
}

func (c *Circle) clone() *Circle {
	out := *c
	return &out
}

func (l *Polyline) Extent(int, int) (Extent, error) { return l.Coordinates.Bound(), nil }
func (p *Polygon) Extent(int, int) (Extent, error)  { return p.Coordinates.Bound(), nil }

// Extent of a circle depends on zoom: the radius is turned into a pixel
// offset at the center latitude and the four cardinal offsets are projected
// back to degrees.
func (c *Circle) Extent(zoom, tileSize int) (Extent, error) {
	if tileSize <= 0 {
		tileSize = tiles.DefaultTileSize
	}
	cx := tiles.LonToTileX(c.Center.Lon(), zoom)
	cy, err := tiles.LatToTileY(c.Center.Lat(), zoom)
	if err != nil {
		return Extent{}, err
	}
	off := c.Radius / tiles.KmPerPixel(c.Center.Lat(), zoom) / float64(tileSize)
	return Extent{
		Min: orb.Point{tiles.TileXToLon(cx-off, zoom), tiles.TileYToLat(cy+off, zoom)},
		Max: orb.Point{tiles.TileXToLon(cx+off, zoom), tiles.TileYToLat(cy-off, zoom)},
	}, nil
}

// PixelRadius is the circle radius in canvas pixels at zoom.
func (c *Circle) PixelRadius(zoom int) float64 {
	return c.Radius / tiles.KmPerPixel(c.Center.Lat(), zoom)
}
