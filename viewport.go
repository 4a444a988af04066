package staticmap

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/s0ultr4d3r/staticmap/tiles"
)

// Viewport is the resolved zoom and center of one render.
type Viewport = tiles.Viewport

var errNoFeatures = errors.New("map has no features")

// Extent is the union of every feature extent at zoom.
func (m *Map) Extent(zoom int) (Extent, error) {
	return combinedExtent(m.features(), zoom, m.tileSize)
}

func combinedExtent(features []Feature, zoom, tileSize int) (Extent, error) {
	if len(features) == 0 {
		return Extent{}, errNoFeatures
	}
	var out Extent
	for i, f := range features {
		e, err := f.Extent(zoom, tileSize)
		if err != nil {
			return Extent{}, err
		}
		if i == 0 {
			out = e
			continue
		}
		out = out.Union(e)
	}
	return out, nil
}

// extentPixels is the projected size of e at zoom.
func extentPixels(e Extent, zoom, tileSize int) (w, h float64, err error) {
	top, err := tiles.LatToTileY(e.Top(), zoom)
	if err != nil {
		return 0, 0, err
	}
	bottom, err := tiles.LatToTileY(e.Bottom(), zoom)
	if err != nil {
		return 0, 0, err
	}
	w = (tiles.LonToTileX(e.Right(), zoom) - tiles.LonToTileX(e.Left(), zoom)) * float64(tileSize)
	h = (bottom - top) * float64(tileSize)
	return w, h, nil
}

// ResolveZoom returns the configured zoom, or else the highest zoom at which
// the features fit inside the canvas minus padding. Only zooms served by the
// tile source are considered.
func (m *Map) ResolveZoom() (int, error) {
	if m.zoom != nil {
		return *m.zoom, nil
	}
	features := m.features()
	if len(features) == 0 {
		return 0, configErr("zoom", "zoom is required when the map has no features")
	}
	maxW := float64(m.width - 2*m.padding[0])
	maxH := float64(m.height - 2*m.padding[1])

	for z := m.maxZoom; z >= m.minZoom; z-- {
		e, err := combinedExtent(features, z, m.tileSize)
		if err != nil {
			return 0, err
		}
		w, h, err := extentPixels(e, z, m.tileSize)
		if err != nil {
			// a circle reaching past the pole at this zoom; try wider
			Logger().Debug("zoom skipped", "zoom", z, "err", err)
			continue
		}
		if w <= maxW && h <= maxH {
			return z, nil
		}
	}
	e, _ := combinedExtent(features, m.minZoom, m.tileSize)
	return 0, &ZoomResolutionError{Width: m.width, Height: m.height, Padding: m.padding, Extent: e}
}

// ResolveViewport fixes zoom and center for a render.
func (m *Map) ResolveViewport() (Viewport, error) {
	zoom, err := m.ResolveZoom()
	if err != nil {
		return Viewport{}, err
	}

	var center orb.Point
	if m.center != nil {
		center = *m.center
	} else {
		e, err := m.Extent(zoom)
		if errors.Is(err, errNoFeatures) {
			return Viewport{}, configErr("center", "center is required when the map has no features")
		}
		if err != nil {
			return Viewport{}, err
		}
		center = orb.Point{(e.Left() + e.Right()) / 2, (e.Bottom() + e.Top()) / 2}
	}

	v, err := tiles.NewViewport(center, zoom, m.width, m.height, m.tileSize)
	if err != nil {
		return Viewport{}, err
	}
	Logger().Info("viewport resolved", "zoom", v.Zoom, "lon", center.Lon(), "lat", center.Lat())
	return v, nil
}
