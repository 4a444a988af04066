package staticmap

import (
	"errors"
	"fmt"

	"github.com/s0ultr4d3r/staticmap/tiles"
)

var (
	// ErrCanvasTooSmall is wrapped by ZoomResolutionError.
	ErrCanvasTooSmall = errors.New("map dimensions (width, height, padding) are too small for the given features")

	// ErrDomain is returned for coordinates outside the Web Mercator domain.
	ErrDomain = tiles.ErrDomain
)

// ConfigError is a missing or invalid map or feature option.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// ZoomResolutionError means no zoom level fits the features on the canvas.
type ZoomResolutionError struct {
	Width, Height int
	Padding       [2]int
	Extent        Extent // combined extent at the lowest zoom tried
}

func (e *ZoomResolutionError) Error() string {
	return fmt.Sprintf("%v: canvas %dx%d, padding %v", ErrCanvasTooSmall, e.Width, e.Height, e.Padding)
}

func (e *ZoomResolutionError) Unwrap() error { return ErrCanvasTooSmall }

// TileFetchError is a tile that failed all of its attempts.
type TileFetchError = tiles.FetchError

// CanvasError is a failure of the drawing backend.
type CanvasError struct {
	Op  string
	Err error
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("canvas %s: %v", e.Op, e.Err)
}

func (e *CanvasError) Unwrap() error { return e.Err }
