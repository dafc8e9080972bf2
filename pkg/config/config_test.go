package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spinemesh.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := Default(); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[surface]
mode = "mesh"

[output]
formats = ["vtk", "inp", "dxf"]

[engine]
timeout = "250ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Surface.Mode != "mesh" {
		t.Errorf("Surface.Mode = %q, want mesh", cfg.Surface.Mode)
	}
	if cfg.Surface.Cells != Default().Surface.Cells {
		t.Errorf("Surface.Cells = %d, want default %d", cfg.Surface.Cells, Default().Surface.Cells)
	}
	if got := strings.Join(cfg.Output.Formats, ","); got != "vtk,inp,dxf" {
		t.Errorf("Output.Formats = %s, want vtk,inp,dxf", got)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("Output.Dir = %q, want out", cfg.Output.Dir)
	}
	if cfg.Engine.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("Engine.Timeout = %v, want 250ms", cfg.Engine.Timeout)
	}
	if cfg.Mesh.Tolerance != Default().Mesh.Tolerance {
		t.Errorf("Mesh.Tolerance = %g, want default", cfg.Mesh.Tolerance)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"zero tolerance", "[mesh]\ntolerance = 0.0\n", "mesh.tolerance"},
		{"huge tolerance", "[mesh]\ntolerance = 2.0\n", "mesh.tolerance"},
		{"surface mode", "[surface]\nmode = \"voxel\"\n", "surface.mode"},
		{"surface cells", "[surface]\ncells = 2\n", "surface.cells"},
		{"empty dir", "[output]\ndir = \"\"\n", "output.dir"},
		{"unknown format", "[output]\nformats = [\"stl\"]\n", "output.formats"},
		{"negative timeout", "[engine]\ntimeout = \"-1s\"\n", "engine.timeout"},
		{"bad duration", "[engine]\ntimeout = \"soon\"\n", "soon"},
		{"unknown key", "[mesh]\ntolerence = 1e-6\n", "unknown key"},
		{"syntax", "[mesh\n", "spinemesh.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Surface.Cells = 0
	cfg.Output.Dir = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"surface.cells", "output.dir"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %v, want containing %q", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want fs.ErrNotExist", err)
	}
}
