// Package kernel defines the solid modeling interface reference bodies
// are described with. A kernel builds primitive solids, combines them, and
// turns them into the surfaces mesh points are projected onto.
package kernel

import "github.com/chazu/spinemesh/pkg/locate"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid // axis along z

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Output
	ToMesh(s Solid) (*Mesh, error)
	Surface(s Solid) (locate.Surface, error)
}
