package tiles

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DefaultTemplate is used when a map names neither a template nor a preset.
const DefaultTemplate = "http://a.tile.openstreetmap.org/{z}/{x}/{y}.png"

// Preset is a named tile source.
type Preset struct {
	Name        string
	URLTmpl     string // .../{z}/{x}/{y}.png, ${VAR} expanded from the environment
	Attribution string
	MinZoom     int
	MaxZoom     int
	Headers     map[string]string // optional
}

var Presets = map[string]Preset{
	"osm": {
		Name:        "OpenStreetMap",
		URLTmpl:     DefaultTemplate,
		Attribution: "© OpenStreetMap contributors",
		MinZoom:     0, MaxZoom: 19,
	},
	"opentopomap": {
		Name:        "OpenTopoMap",
		URLTmpl:     "https://tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenTopoMap (CC-BY-SA), © OpenStreetMap contributors",
		MinZoom:     0, MaxZoom: 17,
	},
	"esri-satellite": {
		Name:        "ESRI World Imagery",
		URLTmpl:     "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "© Esri, Maxar, Earthstar Geographics",
		MinZoom:     0, MaxZoom: 20,
	},
	"maptiler-satellite": {
		Name:        "MapTiler Satellite",
		URLTmpl:     "https://api.maptiler.com/tiles/satellite/{z}/{x}/{y}.jpg?key=${MAPTILER_KEY}",
		Attribution: "© MapTiler, © OpenStreetMap contributors, © NASA",
		MinZoom:     0, MaxZoom: 20,
	},
	"stamen-terrain-bg": {
		Name:        "Stadia Stamen Terrain BG",
		URLTmpl:     "https://tiles.stadiamaps.com/tiles/stamen_terrain_background/{z}/{x}/{y}.png?api_key=${STADIA_KEY}",
		Attribution: "© Stadia Maps, © Stamen Design, © OpenStreetMap contributors",
		MinZoom:     0, MaxZoom: 18,
	},
}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	p, ok := Presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Template returns the URL template with environment variables expanded.
func (p Preset) Template() string {
	return os.ExpandEnv(p.URLTmpl)
}

// ZoomRange is the span of zooms the source serves, capped at MaxZoom.
func (p Preset) ZoomRange() (lo, hi int) {
	lo, hi = p.MinZoom, p.MaxZoom
	if hi <= 0 || hi > MaxZoom {
		hi = MaxZoom
	}
	if lo < 0 {
		lo = 0
	}
	return lo, hi
}

// CheckTemplate reports whether tpl carries all three placeholders.
func CheckTemplate(tpl string) error {
	for _, ph := range []string{"{x}", "{y}", "{z}"} {
		if !strings.Contains(tpl, ph) {
			return fmt.Errorf("tile url template %q has no %s placeholder", tpl, ph)
		}
	}
	return nil
}

// FillURL substitutes the tile address into tpl.
func FillURL(tpl string, z, x, y int) (string, error) {
	u := strings.ReplaceAll(tpl, "{z}", strconv.Itoa(z))
	u = strings.ReplaceAll(u, "{x}", strconv.Itoa(x))
	u = strings.ReplaceAll(u, "{y}", strconv.Itoa(y))
	_, err := url.Parse(u)
	return u, err
}

// URL fills tpl with the tile's wrapped address.
func (t Tile) URL(tpl string) (string, error) {
	return FillURL(tpl, int(t.Z), int(t.X), int(t.Y))
}
