package staticmap

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes a YAML map description. Unknown keys are rejected.
//
//	width: 600
//	height: 400
//	zoom: 10
//	center: [-73.99, 40.73]
//	polylines:
//	  - coordinates: [[-74.0, 40.7], [-73.98, 40.75]]
//	    strokeColor: "#ff0000"
func ParseConfig(data []byte) (MapConfig, error) {
	var cfg MapConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return MapConfig{}, &ConfigError{Field: "yaml", Err: err}
	}
	return cfg, nil
}

// LoadConfig reads a YAML map description from path.
func LoadConfig(path string) (MapConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return MapConfig{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(b)
}

// Load reads path and builds the map it describes.
func Load(path string) (*Map, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
