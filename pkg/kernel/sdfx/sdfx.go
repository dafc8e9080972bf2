// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/kernel"
	"github.com/chazu/spinemesh/pkg/locate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution along the longest
// bounding box axis.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder with the given height and radius, centered
// on the origin with its axis along z. The segments parameter is ignored
// since SDF represents smooth surfaces.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// Surface returns the zero level set of the solid as a projection target.
func (k *SdfxKernel) Surface(s kernel.Solid) (locate.Surface, error) {
	sdf3 := unwrap(s)
	bb := sdf3.BoundingBox()
	diag := bb.Max.Sub(bb.Min).Length()
	if !(diag > 0) || math.IsInf(diag, 0) {
		return nil, fmt.Errorf("sdfx: surface of empty solid: %w", geom.ErrDegenerateProjection)
	}
	return &Surface{sdf: sdf3, eps: 1e-9 * diag, step: 1e-6 * diag}, nil
}

// ---------------------------------------------------------------------------
// Surface
// ---------------------------------------------------------------------------

// maxNewtonSteps bounds the projection iteration. Exact distance fields
// converge in one or two steps.
const maxNewtonSteps = 32

// Surface projects points onto the zero level set of a signed distance
// field by Newton steps along the numerical gradient.
type Surface struct {
	sdf  sdf.SDF3
	eps  float64 // accepted |distance|
	step float64 // finite difference step
}

var _ locate.Surface = (*Surface)(nil)

// ClosestPoint walks p onto the surface.
func (s *Surface) ClosestPoint(p geom.Point3) (geom.Point3, error) {
	q := p
	for i := 0; i < maxNewtonSteps; i++ {
		d := s.sdf.Evaluate(q)
		if math.Abs(d) <= s.eps {
			return q, nil
		}
		g := s.gradient(q)
		l2 := g.Dot(g)
		if !(l2 > 0) || math.IsNaN(d) {
			return p, fmt.Errorf("sdfx: no gradient at %v: %w", q, geom.ErrDegenerateProjection)
		}
		q = q.Sub(g.MulScalar(d / l2))
	}
	return q, nil
}

// Distance returns the signed distance of p, negative inside.
func (s *Surface) Distance(p geom.Point3) float64 {
	return s.sdf.Evaluate(p)
}

func (s *Surface) gradient(p geom.Point3) geom.Point3 {
	h := s.step
	dx := v3.Vec{X: h}
	dy := v3.Vec{Y: h}
	dz := v3.Vec{Z: h}
	return geom.Point3{
		X: s.sdf.Evaluate(p.Add(dx)) - s.sdf.Evaluate(p.Sub(dx)),
		Y: s.sdf.Evaluate(p.Add(dy)) - s.sdf.Evaluate(p.Sub(dy)),
		Z: s.sdf.Evaluate(p.Add(dz)) - s.sdf.Evaluate(p.Sub(dz)),
	}.MulScalar(1 / (2 * h))
}
