// Package config loads spinemesh settings from TOML.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default.
//
//	[mesh]
//	tolerance = 1e-6
//	[surface]
//	mode = "sdf"
//	cells = 96
//	[output]
//	dir = "out"
//	formats = ["vtk"]
//	[engine]
//	timeout = "5s"
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/spinemesh/pkg/export"
	"github.com/chazu/spinemesh/pkg/kernel"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// Config is the full settings tree.
type Config struct {
	Mesh    Mesh    `toml:"mesh"`
	Surface Surface `toml:"surface"`
	Output  Output  `toml:"output"`
	Engine  Engine  `toml:"engine"`
}

// Mesh controls block merging.
type Mesh struct {
	// Tolerance is relative to the bounding-box diagonal of the merged blocks.
	Tolerance float64 `toml:"tolerance"`
}

// Surface controls how body surfaces are built for projection.
type Surface struct {
	Mode string `toml:"mode"`
	// Cells is the marching cubes resolution used when Mode is "mesh".
	Cells int `toml:"cells"`
}

// Output controls where and how meshes are written.
type Output struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"`
}

// Engine controls script evaluation.
type Engine struct {
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mesh:    Mesh{Tolerance: mesh.DefaultRelativeTolerance},
		Surface: Surface{Mode: string(kernel.SurfaceSDF), Cells: 96},
		Output:  Output{Dir: "out", Formats: []string{string(export.FormatVTK)}},
		Engine:  Engine{Timeout: Duration{5 * time.Second}},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every bad value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Mesh.Tolerance <= 0 || c.Mesh.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("mesh.tolerance %g out of range (0, 1)", c.Mesh.Tolerance))
	}
	if _, err := kernel.ParseSurfaceMode(c.Surface.Mode); err != nil {
		errs = append(errs, fmt.Errorf("surface.mode: %w", err))
	}
	if c.Surface.Cells < 8 {
		errs = append(errs, fmt.Errorf("surface.cells %d below 8", c.Surface.Cells))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is empty"))
	}
	for _, f := range c.Output.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			errs = append(errs, fmt.Errorf("output.formats: %w", err))
		}
	}
	if c.Engine.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout %s must be positive", c.Engine.Timeout))
	}
	return errors.Join(errs...)
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
