// Package export writes hexahedral meshes to files that meshing and finite
// element tools read: legacy VTK, Abaqus INP and DXF wireframes.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/spinemesh/pkg/mesh"
)

// Format names an output file format.
type Format string

const (
	FormatVTK Format = "vtk"
	FormatINP Format = "inp"
	FormatDXF Format = "dxf"
)

// Formats lists every supported format.
var Formats = []Format{FormatVTK, FormatINP, FormatDXF}

// ParseFormat accepts a format name in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// WriteFile writes m to path in format f. name labels the mesh inside the
// file where the format has a place for it.
func WriteFile(path string, f Format, m *mesh.Unstructured, name string) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("export: %s: empty mesh", path)
	}
	if f == FormatDXF {
		return WriteDXF(path, m)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	switch f {
	case FormatVTK:
		err = WriteVTK(out, m, name)
	case FormatINP:
		err = WriteINP(out, m, name)
	default:
		err = fmt.Errorf("export: unknown format %q", f)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}

// WriteAll writes m once per format into dir as name plus the format's
// extension, creating dir if needed. It returns the written paths.
func WriteAll(dir, name string, formats []Format, m *mesh.Unstructured) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	base := fileName(name)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := filepath.Join(dir, base+f.Ext())
		if err := WriteFile(p, f, m, name); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// fileName maps a job name to something safe to use as a file name.
func fileName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
	if s == "" || strings.Trim(s, ".") == "" {
		return "mesh"
	}
	return s
}
