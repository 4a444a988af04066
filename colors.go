package staticmap

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses #RRGGBB or #AARRGGBB. An empty string means "no
// color" and yields nil.
func ParseHexColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "#") {
		return nil, errors.New("hex color must start with #")
	}
	h := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, errors.New("hex color format: #RRGGBB or #AARRGGBB")
	}
	switch len(h) {
	case 6:
		return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xFF}, nil
	case 8:
		return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), uint8(v >> 24)}, nil
	}
	return nil, errors.New("hex color format: #RRGGBB or #AARRGGBB")
}

// colorOr parses s, falling back to def when s is empty.
func colorOr(s, def string) (color.Color, error) {
	if strings.TrimSpace(s) == "" {
		s = def
	}
	return ParseHexColor(s)
}
