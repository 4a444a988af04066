package tiles

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultTileSize = 256

	// MaxZoom is the highest zoom level the resolver will consider.
	MaxZoom = 17

	earthCircumferenceKm = 40075.016686
)

// ErrDomain is returned for coordinates the Web Mercator projection cannot map.
var ErrDomain = errors.New("coordinate outside projection domain")

// worldTiles is the number of tiles per axis at zoom z.
func worldTiles(z int) float64 { return math.Ldexp(1, z) }

// LonToTileX converts a longitude (deg) to fractional tile units at zoom.
func LonToTileX(lon float64, zoom int) float64 {
	return (lon + 180.0) / 360.0 * worldTiles(zoom)
}

// LatToTileY converts a latitude (deg) to fractional tile units at zoom.
// Latitude must lie strictly inside (-90, 90).
func LatToTileY(lat float64, zoom int) (float64, error) {
	if err := CheckLat(lat); err != nil {
		return 0, err
	}
	rad := lat * math.Pi / 180.0
	y := (1 - math.Asinh(math.Tan(rad))/math.Pi) / 2 * worldTiles(zoom)
	if math.IsInf(y, 0) || math.IsNaN(y) {
		return 0, fmt.Errorf("latitude %v: %w", lat, ErrDomain)
	}
	return y, nil
}

// TileXToLon is the inverse of LonToTileX.
func TileXToLon(x float64, zoom int) float64 {
	return x/worldTiles(zoom)*360.0 - 180.0
}

// TileYToLat is the inverse of LatToTileY.
func TileYToLat(y float64, zoom int) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/worldTiles(zoom)))) * 180.0 / math.Pi
}

// CheckLat reports ErrDomain for latitudes at or beyond the poles.
func CheckLat(lat float64) error {
	if math.IsNaN(lat) || lat <= -90 || lat >= 90 {
		return fmt.Errorf("latitude %v: %w", lat, ErrDomain)
	}
	return nil
}

// CheckLon reports ErrDomain for non-finite longitudes.
func CheckLon(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("longitude %v: %w", lon, ErrDomain)
	}
	return nil
}

// ToPixel maps tile units to a canvas pixel along one axis, the center
// coordinate landing in the middle of a canvas of length dim.
func ToPixel(u, centerU float64, tileSize, dim int) int {
	return int(math.Round((u-centerU)*float64(tileSize) + float64(dim)/2))
}

// FromPixel is the inverse of ToPixel, without the rounding.
func FromPixel(px float64, centerU float64, tileSize, dim int) float64 {
	return (px-float64(dim)/2)/float64(tileSize) + centerU
}

// KmPerPixel is the ground resolution at lat for 256px tiles at zoom.
func KmPerPixel(lat float64, zoom int) float64 {
	return earthCircumferenceKm * math.Cos(lat*math.Pi/180.0) / math.Ldexp(1, zoom+8)
}
