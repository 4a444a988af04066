package staticmap

import (
	"fmt"
	"io"
	"os"

	"github.com/tkrajina/gpxgo/gpx"
)

// ParseGPX reads the track segments and routes of a GPX document as
// [lon, lat] paths, one per segment or route. Empty segments are skipped.
func ParseGPX(r io.Reader) ([][][]float64, error) {
	g, err := gpx.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}
	var out [][][]float64
	add := func(pts []gpx.GPXPoint) {
		if len(pts) == 0 {
			return
		}
		path := make([][]float64, len(pts))
		for i, p := range pts {
			path[i] = []float64{p.Longitude, p.Latitude}
		}
		out = append(out, path)
	}
	for _, tr := range g.Tracks {
		for _, s := range tr.Segments {
			add(s.Points)
		}
	}
	for _, rt := range g.Routes {
		add(rt.Points)
	}
	return out, nil
}

// AddGPX adds every track segment and route of the GPX document at path as a
// polyline styled by style. Coordinates in style are ignored.
func (m *Map) AddGPX(path string, style PolylineOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	paths, err := ParseGPX(f)
	if err != nil {
		return &ConfigError{Field: "gpx", Err: err}
	}
	if len(paths) == 0 {
		return configErr("gpx", "%s has no track points", path)
	}
	for _, p := range paths {
		o := style
		o.Coordinates = p
		if err := m.AddPolyline(o); err != nil {
			return err
		}
	}
	return nil
}
