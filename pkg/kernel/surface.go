package kernel

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/locate"
)

// SurfaceMode selects how a solid is turned into a projection target.
type SurfaceMode string

const (
	// SurfaceSDF projects onto the implicit surface of the solid.
	SurfaceSDF SurfaceMode = "sdf"
	// SurfaceMesh tessellates the solid and projects onto its triangles.
	SurfaceMesh SurfaceMode = "mesh"
)

// ParseSurfaceMode validates a mode name.
func ParseSurfaceMode(s string) (SurfaceMode, error) {
	switch m := SurfaceMode(s); m {
	case SurfaceSDF, SurfaceMesh:
		return m, nil
	}
	return "", fmt.Errorf("kernel: unknown surface mode %q (want %q or %q)", s, SurfaceSDF, SurfaceMesh)
}

// NewSurface returns the projection target of s in the given mode.
func NewSurface(k Kernel, s Solid, mode SurfaceMode) (locate.Surface, error) {
	switch mode {
	case SurfaceSDF:
		return k.Surface(s)
	case SurfaceMesh:
		m, err := k.ToMesh(s)
		if err != nil {
			return nil, fmt.Errorf("kernel: tessellate: %w", err)
		}
		return locate.NewTriangleSurface(m.Triangles())
	}
	return nil, fmt.Errorf("kernel: unknown surface mode %q", mode)
}
