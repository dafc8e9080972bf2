package kernel

import (
	"fmt"
	"strings"
)

// ShapeOp names the operation at a Shape node.
type ShapeOp string

const (
	OpBox          ShapeOp = "cuboid"
	OpCylinder     ShapeOp = "cylinder"
	OpUnion        ShapeOp = "union"
	OpDifference   ShapeOp = "difference"
	OpIntersection ShapeOp = "intersection"
	OpTranslate    ShapeOp = "translate"
	OpRotate       ShapeOp = "rotate"
)

// Shape describes a solid as a tree of kernel operations. Scripts build
// shapes before any kernel exists; Build replays the tree on one.
type Shape struct {
	Op ShapeOp
	// Box sizes, cylinder height and radius, translation offsets or
	// rotation angles in degrees, depending on Op.
	Vals [3]float64
	Args []*Shape
}

// NewBox returns an origin-centered box.
func NewBox(x, y, z float64) *Shape {
	return &Shape{Op: OpBox, Vals: [3]float64{x, y, z}}
}

// NewCylinder returns an origin-centered cylinder along z.
func NewCylinder(height, radius float64) *Shape {
	return &Shape{Op: OpCylinder, Vals: [3]float64{height, radius}}
}

func NewUnion(a, b *Shape) *Shape        { return &Shape{Op: OpUnion, Args: []*Shape{a, b}} }
func NewDifference(a, b *Shape) *Shape   { return &Shape{Op: OpDifference, Args: []*Shape{a, b}} }
func NewIntersection(a, b *Shape) *Shape { return &Shape{Op: OpIntersection, Args: []*Shape{a, b}} }

// NewTranslate moves s by (x, y, z).
func NewTranslate(s *Shape, x, y, z float64) *Shape {
	return &Shape{Op: OpTranslate, Vals: [3]float64{x, y, z}, Args: []*Shape{s}}
}

// NewRotate rotates s by Euler angles in degrees around x, y and z.
func NewRotate(s *Shape, x, y, z float64) *Shape {
	return &Shape{Op: OpRotate, Vals: [3]float64{x, y, z}, Args: []*Shape{s}}
}

func (s *Shape) arity() int {
	switch s.Op {
	case OpBox, OpCylinder:
		return 0
	case OpTranslate, OpRotate:
		return 1
	case OpUnion, OpDifference, OpIntersection:
		return 2
	}
	return -1
}

// Validate checks the whole tree: known ops, argument counts and
// positive primitive sizes.
func (s *Shape) Validate() error {
	if s == nil {
		return fmt.Errorf("shape: nil")
	}
	n := s.arity()
	if n < 0 {
		return fmt.Errorf("shape: unknown op %q", s.Op)
	}
	if len(s.Args) != n {
		return fmt.Errorf("shape: %s takes %d shapes, got %d", s.Op, n, len(s.Args))
	}
	switch s.Op {
	case OpBox:
		if !(s.Vals[0] > 0 && s.Vals[1] > 0 && s.Vals[2] > 0) {
			return fmt.Errorf("shape: cuboid %g x %g x %g must have positive sides", s.Vals[0], s.Vals[1], s.Vals[2])
		}
	case OpCylinder:
		if !(s.Vals[0] > 0 && s.Vals[1] > 0) {
			return fmt.Errorf("shape: cylinder height %g and radius %g must be positive", s.Vals[0], s.Vals[1])
		}
	}
	for _, a := range s.Args {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Op, err)
		}
	}
	return nil
}

// Build replays s on k. Cylinders are faceted with segments where the
// kernel tessellates them.
func (s *Shape) Build(k Kernel, segments int) (Solid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.build(k, segments), nil
}

func (s *Shape) build(k Kernel, segments int) Solid {
	v := s.Vals
	switch s.Op {
	case OpBox:
		return k.Box(v[0], v[1], v[2])
	case OpCylinder:
		return k.Cylinder(v[0], v[1], segments)
	case OpTranslate:
		return k.Translate(s.Args[0].build(k, segments), v[0], v[1], v[2])
	case OpRotate:
		return k.Rotate(s.Args[0].build(k, segments), v[0], v[1], v[2])
	}
	a, b := s.Args[0].build(k, segments), s.Args[1].build(k, segments)
	switch s.Op {
	case OpUnion:
		return k.Union(a, b)
	case OpDifference:
		return k.Difference(a, b)
	}
	return k.Intersection(a, b)
}

// String returns the script form of s.
func (s *Shape) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Shape) write(b *strings.Builder) {
	if s == nil {
		b.WriteString("nil")
		return
	}
	fmt.Fprintf(b, "(%s", s.Op)
	for _, a := range s.Args {
		b.WriteByte(' ')
		a.write(b)
	}
	switch s.Op {
	case OpCylinder:
		fmt.Fprintf(b, " %g %g", s.Vals[0], s.Vals[1])
	case OpBox, OpTranslate, OpRotate:
		fmt.Fprintf(b, " %g %g %g", s.Vals[0], s.Vals[1], s.Vals[2])
	}
	b.WriteByte(')')
}
