package staticmap

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/s0ultr4d3r/staticmap/tiles"
)

func TestFeatureDefaults(t *testing.T) {
	l, err := NewPolyline(PolylineOptions{Coordinates: manhattan})
	if err != nil {
		t.Fatal(err)
	}
	if l.Stroke != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) || l.Fill != nil || l.StrokeWidth != 2 || !l.Simplify {
		t.Errorf("polyline defaults: %+v", l)
	}

	p, err := NewPolygon(PolygonOptions{Coordinates: manhattan})
	if err != nil {
		t.Fatal(err)
	}
	if p.Stroke != (color.NRGBA{0, 0, 0, 0xff}) || p.Fill != nil || p.StrokeWidth != 2 {
		t.Errorf("polygon defaults: %+v", p)
	}

	c, err := NewCircle(CircleOptions{Coordinates: []float64{1, 2}, Radius: 3, FillColor: "#80102030"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Fill != (color.NRGBA{0x10, 0x20, 0x30, 0x80}) || c.Stroke != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("circle colors: %+v", c.Style)
	}
}

func TestSimplifyFalseIsHonored(t *testing.T) {
	l, err := NewPolyline(PolylineOptions{Coordinates: manhattan, Simplify: Ptr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if l.Simplify {
		t.Error("simplify: false was ignored")
	}
}

func TestFeatureValidation(t *testing.T) {
	cases := []struct {
		name  string
		field string
		add   func(m *Map) error
	}{
		{"no coordinates", "polyline.coordinates", func(m *Map) error {
			return m.AddPolyline(PolylineOptions{})
		}},
		{"short pair", "polygon.coordinates", func(m *Map) error {
			return m.AddPolygon(PolygonOptions{Coordinates: [][]float64{{1, 2}, {3}}})
		}},
		{"longitude not a number", "polyline.coordinates", func(m *Map) error {
			return m.AddPolyline(PolylineOptions{Coordinates: [][]float64{{math.NaN(), 0}}})
		}},
		{"latitude past the pole", "circle.coordinates", func(m *Map) error {
			return m.AddCircle(CircleOptions{Coordinates: []float64{0, 90}, Radius: 1})
		}},
		{"zero radius", "circle.radius", func(m *Map) error {
			return m.AddCircle(CircleOptions{Coordinates: []float64{0, 0}})
		}},
		{"bad color", "polygon.fillColor", func(m *Map) error {
			return m.AddPolygon(PolygonOptions{Coordinates: manhattan, FillColor: "red"})
		}},
		{"negative width", "polyline.strokeWidth", func(m *Map) error {
			return m.AddPolyline(PolylineOptions{Coordinates: manhattan, StrokeWidth: -1})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMap(t, MapConfig{Width: 10, Height: 10})
			err := tc.add(m)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("want ConfigError, got %v", err)
			}
			if ce.Field != tc.field {
				t.Errorf("field %q, want %q", ce.Field, tc.field)
			}
			if len(m.Features()) != 0 {
				t.Error("invalid feature registered")
			}
		})
	}
}

func TestDomainErrorIsExposed(t *testing.T) {
	_, err := NewPolyline(PolylineOptions{Coordinates: [][]float64{{0, -90}}})
	if !errors.Is(err, ErrDomain) {
		t.Errorf("want ErrDomain, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	bad := map[string]MapConfig{
		"width/height":    {Height: 10},
		"padding":         {Width: 10, Height: 10, Padding: []int{1}},
		"zoom":            {Width: 10, Height: 10, Zoom: Ptr(18)},
		"center":          {Width: 10, Height: 10, Center: []float64{1}},
		"tileSource":      {Width: 10, Height: 10, TileSource: "nope"},
		"tileUrlTemplate": {Width: 10, Height: 10, TileURLTemplate: "https://x/{z}/{x}"},
	}
	for field, cfg := range bad {
		_, err := New(cfg)
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != field {
			t.Errorf("%s: got %v", field, err)
		}
	}

	m := newMap(t, MapConfig{Width: 10, Height: 10, TileSource: "OpenTopoMap"})
	if m.template == "" {
		t.Error("preset template not resolved")
	}
}

func TestFeaturesDrawOrder(t *testing.T) {
	m := newMap(t, MapConfig{Width: 10, Height: 10})
	must(t, m.AddCircle(CircleOptions{Coordinates: []float64{0, 0}, Radius: 1}))
	must(t, m.AddPolygon(PolygonOptions{Coordinates: manhattan}))
	must(t, m.AddPolyline(PolylineOptions{Coordinates: manhattan}))
	l := &Polyline{Coordinates: m.lines[0].Coordinates.Clone(), Style: m.lines[0].Style}
	must(t, m.AddFeature(l))
	l.Coordinates[0][0] = 0 // the map keeps its own copy

	fs := m.Features()
	if len(fs) != 4 {
		t.Fatalf("%d features", len(fs))
	}
	if _, ok := fs[1].(*Polyline); !ok {
		t.Errorf("second feature is %T", fs[1])
	}
	if _, ok := fs[3].(*Circle); !ok {
		t.Errorf("last feature is %T", fs[3])
	}
	if fs[1].(*Polyline).Coordinates[0][0] == 0 {
		t.Error("AddFeature did not copy coordinates")
	}
	if err := m.AddFeature(&Circle{}); err == nil {
		t.Error("circle without radius accepted")
	}
}

func TestParseHexColor(t *testing.T) {
	for in, want := range map[string]color.Color{
		"":          nil,
		"#ff8000":   color.NRGBA{0xff, 0x80, 0x00, 0xff},
		"#40ff8000": color.NRGBA{0xff, 0x80, 0x00, 0x40},
	} {
		got, err := ParseHexColor(in)
		if err != nil || got != want {
			t.Errorf("ParseHexColor(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"ff8000", "#ff80", "#zzzzzz"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) accepted", in)
		}
	}
}

func TestAddFeatureValidates(t *testing.T) {
	m := newMap(t, MapConfig{Width: 10, Height: 10})
	var ce *ConfigError

	err := m.AddFeature(&Polyline{Coordinates: orb.LineString{{0, 95}, {1, 1}}})
	if !errors.As(err, &ce) || !errors.Is(err, ErrDomain) {
		t.Errorf("latitude 95: want ConfigError wrapping ErrDomain, got %v", err)
	}
	if err := m.AddFeature(&Polygon{}); !errors.As(err, &ce) {
		t.Errorf("empty polygon: want ConfigError, got %v", err)
	}
	if err := m.AddFeature(&Circle{Center: orb.Point{0, 0}, Radius: 1, Style: Style{StrokeWidth: -1}}); !errors.As(err, &ce) {
		t.Errorf("negative width: want ConfigError, got %v", err)
	}
	if err := m.AddFeature((*Polyline)(nil)); !errors.As(err, &ce) {
		t.Errorf("nil polyline: want ConfigError, got %v", err)
	}
	if n := len(m.Features()); n != 0 {
		t.Fatalf("%d invalid features registered", n)
	}

	must(t, m.AddFeature(&Polyline{Coordinates: orb.LineString{{0, 0}, {1, 1}}}))
	must(t, m.AddFeature(&Polygon{Coordinates: orb.Ring{{0, 0}, {1, 1}, {1, 0}}}))
	l := m.Features()[0].(*Polyline)
	if l.Stroke != (color.NRGBA{0xff, 0xff, 0xff, 0xff}) || l.StrokeWidth != 2 {
		t.Errorf("polyline defaults not applied: %+v", l.Style)
	}
	p := m.Features()[1].(*Polygon)
	if p.Stroke != (color.NRGBA{0, 0, 0, 0xff}) || p.Fill != nil {
		t.Errorf("polygon defaults not applied: %+v", p.Style)
	}
}

func TestFeaturesAreCopies(t *testing.T) {
	m := newMap(t, MapConfig{Width: 10, Height: 10})
	must(t, m.AddPolyline(PolylineOptions{Coordinates: manhattan}))
	must(t, m.AddCircle(CircleOptions{Coordinates: []float64{0, 0}, Radius: 1}))
	before, err := m.Extent(3)
	if err != nil {
		t.Fatal(err)
	}

	fs := m.Features()
	l := fs[0].(*Polyline)
	l.Coordinates[0] = orb.Point{0, 89}
	l.StrokeWidth = -5
	fs[1].(*Circle).Radius = 5000

	after, err := m.Extent(3)
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Errorf("extent changed from %v to %v", before, after)
	}
	if w := m.lines[0].StrokeWidth; w != 2 {
		t.Errorf("stored stroke width %v", w)
	}
}

func TestPresetZoomRange(t *testing.T) {
	var ce *ConfigError
	if _, err := New(MapConfig{Width: 10, Height: 10, TileSource: "OpenTopoMap", Zoom: Ptr(17)}); err != nil {
		t.Errorf("zoom 17 on opentopomap: %v", err)
	}
	m := newMap(t, MapConfig{Width: 10, Height: 10, TileSource: "osm"})
	if !strings.Contains(m.Attribution(), "OpenStreetMap") {
		t.Errorf("attribution %q", m.Attribution())
	}
	custom := newMap(t, MapConfig{Width: 10, Height: 10, TileURLTemplate: "t://{z}/{x}/{y}"})
	if custom.Attribution() != "" {
		t.Errorf("custom template attribution %q", custom.Attribution())
	}

	// a single point fits at any zoom, so the source's cap is the answer
	saved := tiles.Presets["osm"]
	t.Cleanup(func() { tiles.Presets["osm"] = saved })
	capped := saved
	capped.MinZoom, capped.MaxZoom = 2, 9
	tiles.Presets["osm"] = capped

	m = newMap(t, MapConfig{Width: 10, Height: 10, Polylines: []PolylineOptions{{Coordinates: [][]float64{{2.35, 48.85}}}}})
	if z, err := m.ResolveZoom(); err != nil || z != 9 {
		t.Errorf("ResolveZoom = %d, %v; want 9", z, err)
	}
	if _, err := New(MapConfig{Width: 10, Height: 10, Zoom: Ptr(1)}); !errors.As(err, &ce) || ce.Field != "zoom" {
		t.Errorf("zoom below the source range: got %v", err)
	}
}
