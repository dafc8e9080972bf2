package cylinder

import (
	"fmt"
	"math"

	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/kernel"
)

// DefaultSamples is the number of points per generated boundary loop.
const DefaultSamples = 96

// minInnerRatio keeps the inner loop outside the core of the seed box,
// whose corners sit at sqrt(2)/3 of the radius.
var minInnerRatio = math.Sqrt2 / 3

// Spec describes a cylindrical vertebral body.
type Spec struct {
	Center      geom.Point3 // center of the body's mid-plane
	Radius      float64     // outer rim radius
	InnerRadius float64     // inner rim radius on both endplates
	Height      float64
	Seeds       Seeds
	Samples     int
	Surface     kernel.SurfaceMode
	// Solid is the projection target in body-local coordinates, centered
	// like the body. Nil means a plain cylinder of Radius and Height.
	Solid *kernel.Shape
}

// Validate reports inconsistent dimensions.
func (s Spec) Validate() error {
	if !(s.Radius > 0) || !(s.Height > 0) {
		return fmt.Errorf("cylinder spec: radius %g and height %g must be positive", s.Radius, s.Height)
	}
	if s.InnerRadius <= minInnerRatio*s.Radius || s.InnerRadius >= s.Radius {
		return fmt.Errorf("cylinder spec: inner radius %g outside (%.4g, %g)",
			s.InnerRadius, minInnerRatio*s.Radius, s.Radius)
	}
	if s.Samples != 0 && s.Samples < 8 {
		return fmt.Errorf("cylinder spec: %d samples, want at least 8", s.Samples)
	}
	if s.Solid != nil {
		if err := s.Solid.Validate(); err != nil {
			return fmt.Errorf("cylinder spec: %w", err)
		}
	}
	return s.Seeds.Validate()
}

// Bounds returns the box enclosing the body.
func (s Spec) Bounds() geom.Bounds {
	c := s.Center
	return geom.NewBounds(
		c.X-s.Radius, c.X+s.Radius,
		c.Y-s.Radius, c.Y+s.Radius,
		c.Z-s.Height/2, c.Z+s.Height/2,
	)
}

// Generate builds the inputs of a body from its parametric description:
// four circular rim loops, the seed box over the body bounds, and the
// surface of the body solid moved to the body center.
func Generate(k kernel.Kernel, s Spec) (Input, error) {
	if err := s.Validate(); err != nil {
		return Input{}, err
	}
	samples := s.Samples
	if samples == 0 {
		samples = DefaultSamples
	}
	mode := s.Surface
	if mode == "" {
		mode = kernel.SurfaceSDF
	}

	shape := s.Solid
	if shape == nil {
		shape = kernel.NewCylinder(s.Height, s.Radius)
	}
	local, err := shape.Build(k, samples)
	if err != nil {
		return Input{}, fmt.Errorf("cylinder: %w", err)
	}
	solid := k.Translate(local, s.Center.X, s.Center.Y, s.Center.Z)
	surf, err := kernel.NewSurface(k, solid, mode)
	if err != nil {
		return Input{}, fmt.Errorf("cylinder: %w", err)
	}

	box, err := butterfly.Build(s.Bounds(), 2, butterfly.WithCellDims(s.Seeds.BoxDims()))
	if err != nil {
		return Input{}, fmt.Errorf("cylinder: %w", err)
	}

	top, bottom := s.Center.Z+s.Height/2, s.Center.Z-s.Height/2
	var in Input
	in.Curves[SuperiorInner] = Circle(s.Center.X, s.Center.Y, top, s.InnerRadius, samples)
	in.Curves[SuperiorOuter] = Circle(s.Center.X, s.Center.Y, top, s.Radius, samples)
	in.Curves[InferiorInner] = Circle(s.Center.X, s.Center.Y, bottom, s.InnerRadius, samples)
	in.Curves[InferiorOuter] = Circle(s.Center.X, s.Center.Y, bottom, s.Radius, samples)
	in.Surface = surf
	in.Box = box
	return in, nil
}

// Circle returns n points on the horizontal circle of radius r around
// (cx, cy) at height z, counter-clockwise from angle zero.
func Circle(cx, cy, z, r float64, n int) geom.Curve {
	c := geom.Curve{Points: make([]geom.Point3, n)}
	for i := range c.Points {
		a := 2 * math.Pi * float64(i) / float64(n)
		c.Points[i] = geom.Point3{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a), Z: z}
	}
	return c
}
