package kernel

import (
	"testing"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/locate"
)

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []float32
		indices   []uint32
		wantVerts int
		wantTris  int
	}{
		{"empty", nil, nil, 0, 0},
		{"one vertex", []float32{1, 2, 3}, nil, 1, 0},
		{"quad", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, []uint32{0, 1, 2, 2, 3, 0}, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices, Indices: tt.indices}
			if got := m.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := m.TriangleCount(); got != tt.wantTris {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTris)
			}
			if got := m.IsEmpty(); got != (tt.wantVerts == 0) {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantVerts == 0)
			}
		})
	}
}

func TestMeshTriangles(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
	tris := m.Triangles()
	if len(tris) != 2 {
		t.Fatalf("len(Triangles) = %d, want 2", len(tris))
	}
	if want := (geom.Point3{X: 0, Y: 1}); tris[1][1] != want {
		t.Errorf("tris[1][1] = %v, want %v", tris[1][1], want)
	}
}

// --- Surface construction with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel models every solid as the unit square in the z=0 plane.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -height / 2},
		maxBB: [3]float64{radius, radius, height / 2},
	}
}

func (k *stubKernel) Union(a, _ Solid) Solid       { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}, nil
}

func (k *stubKernel) Surface(_ Solid) (locate.Surface, error) {
	return locate.SurfaceFunc(func(p geom.Point3) (geom.Point3, error) {
		return geom.Point3{X: p.X, Y: p.Y}, nil
	}), nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestNewSurface(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(1, 1, 1)
	p := geom.Point3{X: 2, Y: 0.5, Z: 3}

	tests := []struct {
		mode SurfaceMode
		want geom.Point3
	}{
		// The implicit surface is the whole plane.
		{SurfaceSDF, geom.Point3{X: 2, Y: 0.5}},
		// The tessellated surface is clipped to the square.
		{SurfaceMesh, geom.Point3{X: 1, Y: 0.5}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			surf, err := NewSurface(k, s, tt.mode)
			if err != nil {
				t.Fatalf("NewSurface: %v", err)
			}
			got, err := surf.ClosestPoint(p)
			if err != nil {
				t.Fatalf("ClosestPoint: %v", err)
			}
			if geom.Dist(got, tt.want) > 1e-9 {
				t.Errorf("ClosestPoint = %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := NewSurface(k, s, "voxel"); err == nil {
		t.Error("NewSurface(voxel) = nil error, want error")
	}
}

func TestParseSurfaceMode(t *testing.T) {
	for _, s := range []string{"sdf", "mesh"} {
		if m, err := ParseSurfaceMode(s); err != nil || string(m) != s {
			t.Errorf("ParseSurfaceMode(%q) = %q, %v", s, m, err)
		}
	}
	if _, err := ParseSurfaceMode("SDF"); err == nil {
		t.Error("ParseSurfaceMode(SDF) = nil error, want error")
	}
}
