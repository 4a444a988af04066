package staticmap

import (
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"

	"github.com/s0ultr4d3r/staticmap/tiles"
)

// MapConfig describes the canvas, the tile source and, optionally, the
// features of a map. Zero values take the documented defaults.
type MapConfig struct {
	Width           int       `yaml:"width"`           // required
	Height          int       `yaml:"height"`          // required
	Padding         []int     `yaml:"padding"`         // [x, y], default [0, 0]
	TileURLTemplate string    `yaml:"tileUrlTemplate"` // {x}, {y}, {z} placeholders
	TileSource      string    `yaml:"tileSource"`      // preset name, used when no template is set
	TileSize        int       `yaml:"tileSize"`        // default 256
	Zoom            *int      `yaml:"zoom"`            // 0..17, resolved from features when nil
	Center          []float64 `yaml:"center"`          // [lon, lat], extent midpoint when empty

	Polylines []PolylineOptions `yaml:"polylines"`
	Polygons  []PolygonOptions  `yaml:"polygons"`
	Circles   []CircleOptions   `yaml:"circles"`
}

// Map is a static map under construction. Features are added, then the map
// is rendered.
type Map struct {
	width, height int
	padding       [2]int
	template      string
	headers       map[string]string
	attribution   string
	minZoom       int
	maxZoom       int
	tileSize      int
	zoom          *int
	center        *orb.Point

	mu       sync.RWMutex
	lines    []*Polyline
	polygons []*Polygon
	circles  []*Circle
}

// Ptr returns a pointer to v, handy for MapConfig.Zoom and the Simplify
// options.
func Ptr[T any](v T) *T { return &v }

// New validates cfg and builds a map, registering the features it lists.
func New(cfg MapConfig) (*Map, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, configErr("width/height", "missing or invalid canvas size %dx%d", cfg.Width, cfg.Height)
	}
	m := &Map{width: cfg.Width, height: cfg.Height, tileSize: cfg.TileSize}

	switch len(cfg.Padding) {
	case 0:
	case 2:
		if cfg.Padding[0] < 0 || cfg.Padding[1] < 0 {
			return nil, configErr("padding", "must not be negative, got %v", cfg.Padding)
		}
		m.padding = [2]int{cfg.Padding[0], cfg.Padding[1]}
	default:
		return nil, configErr("padding", "want [x, y], got %d values", len(cfg.Padding))
	}

	if m.tileSize == 0 {
		m.tileSize = tiles.DefaultTileSize
	}
	if m.tileSize < 0 {
		return nil, configErr("tileSize", "must be > 0, got %d", m.tileSize)
	}

	tpl, preset, err := resolveTemplate(cfg.TileURLTemplate, cfg.TileSource)
	if err != nil {
		return nil, err
	}
	m.template = tpl
	m.minZoom, m.maxZoom = 0, tiles.MaxZoom
	if preset != nil {
		m.headers, m.attribution = preset.Headers, preset.Attribution
		m.minZoom, m.maxZoom = preset.ZoomRange()
	}

	if cfg.Zoom != nil {
		if *cfg.Zoom < m.minZoom || *cfg.Zoom > m.maxZoom {
			return nil, configErr("zoom", "must be in [%d,%d], got %d", m.minZoom, m.maxZoom, *cfg.Zoom)
		}
		m.zoom = Ptr(*cfg.Zoom)
	}
	if len(cfg.Center) > 0 {
		if len(cfg.Center) != 2 {
			return nil, configErr("center", "want [lon, lat], got %d values", len(cfg.Center))
		}
		c := orb.Point{cfg.Center[0], cfg.Center[1]}
		if err := checkPoint(c); err != nil {
			return nil, &ConfigError{Field: "center", Err: err}
		}
		m.center = &c
	}

	for _, o := range cfg.Polylines {
		if err := m.AddPolyline(o); err != nil {
			return nil, err
		}
	}
	for _, o := range cfg.Polygons {
		if err := m.AddPolygon(o); err != nil {
			return nil, err
		}
	}
	for _, o := range cfg.Circles {
		if err := m.AddCircle(o); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// resolveTemplate returns the tile URL template and, when it comes from a
// named source, that preset.
func resolveTemplate(tpl, source string) (string, *tiles.Preset, error) {
	var preset *tiles.Preset
	if strings.TrimSpace(tpl) == "" {
		if source == "" {
			source = "osm"
		}
		p, ok := tiles.LookupPreset(source)
		if !ok {
			return "", nil, configErr("tileSource", "unknown tile source %q", source)
		}
		tpl, preset = p.Template(), &p
	}
	tpl = strings.TrimSpace(tpl)
	if err := tiles.CheckTemplate(tpl); err != nil {
		return "", nil, &ConfigError{Field: "tileUrlTemplate", Err: err}
	}
	return tpl, preset, nil
}

// Attribution is the credit line of the tile source, empty for custom
// templates.
func (m *Map) Attribution() string { return m.attribution }

func (m *Map) AddPolyline(o PolylineOptions) error {
	l, err := NewPolyline(o)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.lines = append(m.lines, l)
	m.mu.Unlock()
	return nil
}

func (m *Map) AddPolygon(o PolygonOptions) error {
	p, err := NewPolygon(o)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.polygons = append(m.polygons, p)
	m.mu.Unlock()
	return nil
}

func (m *Map) AddCircle(o CircleOptions) error {
	c, err := NewCircle(o)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.circles = append(m.circles, c)
	m.mu.Unlock()
	return nil
}

// AddFeature validates an already built feature and registers a copy of it,
// with unset stroke color and width defaulted.
func (m *Map) AddFeature(f Feature) error {
	switch f := f.(type) {
	case *Polyline:
		if f == nil {
			return configErr("polyline", "nil feature")
		}
		c, err := f.validated()
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.lines = append(m.lines, c)
		m.mu.Unlock()
	case *Polygon:
		if f == nil {
			return configErr("polygon", "nil feature")
		}
		c, err := f.validated()
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.polygons = append(m.polygons, c)
		m.mu.Unlock()
	case *Circle:
		if f == nil {
			return configErr("circle", "nil feature")
		}
		c, err := f.validated()
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.circles = append(m.circles, c)
		m.mu.Unlock()
	default:
		return configErr("feature", "unsupported feature type %T", f)
	}
	return nil
}

// Features returns copies of the registered features in draw order:
// polylines, then polygons, then circles, each in the order they were added.
func (m *Map) Features() []Feature {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Feature, 0, len(m.lines)+len(m.polygons)+len(m.circles))
	for _, l := range m.lines {
		out = append(out, l.clone())
	}
	for _, p := range m.polygons {
		out = append(out, p.clone())
	}
	for _, c := range m.circles {
		out = append(out, c.clone())
	}
	return out
}

// features is Features without the copies. Registered features are never
// modified, so the pointers are safe to read after the lock is released.
func (m *Map) features() []Feature {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Feature, 0, len(m.lines)+len(m.polygons)+len(m.circles))
	for _, l := range m.lines {
		out = append(out, l)
	}
	for _, p := range m.polygons {
		out = append(out, p)
	}
	for _, c := range m.circles {
		out = append(out, c)
	}
	return out
}

func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, %d features)", m.width, m.height, len(m.features()))
}
