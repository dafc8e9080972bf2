package locate

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"

	"github.com/chazu/spinemesh/pkg/geom"
)

// Surface answers nearest-point queries against a reference surface.
type Surface interface {
	ClosestPoint(p geom.Point3) (geom.Point3, error)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func(p geom.Point3) (geom.Point3, error)

// ClosestPoint calls f(p).
func (f SurfaceFunc) ClosestPoint(p geom.Point3) (geom.Point3, error) { return f(p) }

// Project maps every point onto s, returning a new slice.
func Project(s Surface, pts []geom.Point3) ([]geom.Point3, error) {
	out := make([]geom.Point3, len(pts))
	for i, p := range pts {
		q, err := s.ClosestPoint(p)
		if err != nil {
			return nil, fmt.Errorf("project point %d: %w", i, err)
		}
		if !geom.Finite(q) {
			return nil, fmt.Errorf("project point %d: non-finite result %v: %w", i, q, geom.ErrDegenerateProjection)
		}
		out[i] = q
	}
	return out, nil
}

// Triangle is three corners of a surface facet.
type Triangle [3]geom.Point3

// TriangleSurface is a Surface over a triangle soup, backed by a model3d
// bounding-volume hierarchy.
type TriangleSurface struct {
	sdf model3d.PointSDF
	n   int
}

// NewTriangleSurface indexes tris. Zero-area facets are skipped; a soup
// with no usable facet is rejected.
func NewTriangleSurface(tris []Triangle) (*TriangleSurface, error) {
	faces := make([]*model3d.Triangle, 0, len(tris))
	for _, t := range tris {
		f := &model3d.Triangle{toCoord(t[0]), toCoord(t[1]), toCoord(t[2])}
		if f.Area() == 0 {
			continue
		}
		faces = append(faces, f)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("triangle surface: no usable triangles in %d: %w", len(tris), geom.ErrDegenerateProjection)
	}
	return &TriangleSurface{
		sdf: model3d.MeshToSDF(model3d.NewMeshTriangles(faces)),
		n:   len(faces),
	}, nil
}

// NumTriangles returns the number of indexed facets.
func (s *TriangleSurface) NumTriangles() int { return s.n }

// ClosestPoint returns the point of the surface nearest p.
func (s *TriangleSurface) ClosestPoint(p geom.Point3) (geom.Point3, error) {
	c, _ := s.sdf.PointSDF(toCoord(p))
	q := geom.Point3{X: c.X, Y: c.Y, Z: c.Z}
	if !geom.Finite(q) {
		return geom.Point3{}, fmt.Errorf("triangle surface: no facet near %v: %w", p, geom.ErrDegenerateProjection)
	}
	return q, nil
}

func toCoord(p geom.Point3) model3d.Coord3D {
	return model3d.XYZ(p.X, p.Y, p.Z)
}
