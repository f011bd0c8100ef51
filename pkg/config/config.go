// Package config holds raymarch budgets and tool settings, loaded from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/chazu/marching/pkg/sdf"
	"github.com/pelletier/go-toml/v2"
)

// ErrConfig is wrapped by every ConfigError.
var ErrConfig = errors.New("invalid configuration")

// ConfigError names the offending field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// March bounds the per-pixel work of the generated shader.
type March struct {
	Steps            int     `toml:"steps"`
	MinDistance      float64 `toml:"min_distance"`
	MaxDistance      float64 `toml:"max_distance"`
	ShadowIterations int     `toml:"shadow_iterations"`
	NormalEpsilon    float64 `toml:"normal_epsilon"`
}

// DefaultMarch is the budget used when nothing is configured.
var DefaultMarch = March{
	Steps:            90,
	MinDistance:      0.001,
	MaxDistance:      20,
	ShadowIterations: 16,
	NormalEpsilon:    0.002,
}

// Validate checks the budget before any shader is generated.
func (m March) Validate() error {
	switch {
	case !finite(m.MinDistance, m.MaxDistance, m.NormalEpsilon):
		return &ConfigError{
			Field:  "march",
			Reason: fmt.Sprintf("distances must be finite, got min %g max %g epsilon %g", m.MinDistance, m.MaxDistance, m.NormalEpsilon),
		}
	case m.Steps <= 0:
		return &ConfigError{Field: "march.steps", Reason: fmt.Sprintf("must be positive, got %d", m.Steps)}
	case m.MinDistance <= 0:
		return &ConfigError{Field: "march.min_distance", Reason: fmt.Sprintf("must be positive, got %g", m.MinDistance)}
	case m.MinDistance >= m.MaxDistance:
		return &ConfigError{
			Field:  "march.min_distance",
			Reason: fmt.Sprintf("must be below max_distance (%g >= %g)", m.MinDistance, m.MaxDistance),
		}
	case m.ShadowIterations <= 0:
		return &ConfigError{Field: "march.shadow_iterations", Reason: fmt.Sprintf("must be positive, got %d", m.ShadowIterations)}
	case m.NormalEpsilon <= 0:
		return &ConfigError{Field: "march.normal_epsilon", Reason: fmt.Sprintf("must be positive, got %g", m.NormalEpsilon)}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Trace returns the tracer bounds for CPU evaluation.
func (m March) Trace() sdf.MarchConfig {
	return sdf.MarchConfig{Steps: m.Steps, MinDistance: m.MinDistance, MaxDistance: m.MaxDistance}
}

// Preview configures CPU preview rendering.
type Preview struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Output  string `toml:"output"`
	Workers int    `toml:"workers"` // 0 uses GOMAXPROCS
}

// Mesh configures triangle-mesh export. Extent is the half-size of the
// cube around the origin that is meshed, since scenes may contain
// unbounded shapes.
type Mesh struct {
	Cells  int     `toml:"cells"`
	Extent float64 `toml:"extent"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Config is the full tool configuration.
type Config struct {
	March   March   `toml:"march"`
	Preview Preview `toml:"preview"`
	Mesh    Mesh    `toml:"mesh"`
	Log     Log     `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		March:   DefaultMarch,
		Preview: Preview{Width: 320, Height: 240, Output: "preview.png"},
		Mesh:    Mesh{Cells: 128, Extent: 4},
		Log:     Log{Level: "info"},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.March.Validate(); err != nil {
		return err
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return &ConfigError{
			Field:  "preview",
			Reason: fmt.Sprintf("size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height),
		}
	}
	if c.Preview.Workers < 0 {
		return &ConfigError{Field: "preview.workers", Reason: "must not be negative"}
	}
	if c.Mesh.Cells <= 0 {
		return &ConfigError{Field: "mesh.cells", Reason: fmt.Sprintf("must be positive, got %d", c.Mesh.Cells)}
	}
	if c.Mesh.Extent <= 0 || !finite(c.Mesh.Extent) {
		return &ConfigError{Field: "mesh.extent", Reason: fmt.Sprintf("must be positive, got %g", c.Mesh.Extent)}
	}
	return nil
}

// Parse decodes TOML over the defaults. Keys absent from data keep their
// default values; unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a TOML file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}
