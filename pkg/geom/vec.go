package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point3 is a 3D coordinate. It is the sdfx vector type so that kernel
// solids and mesh points share one representation.
type Point3 = v3.Vec

// Lerp returns a + t*(b-a).
func Lerp(a, b Point3, t float64) Point3 {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point3) float64 {
	return b.Sub(a).Length()
}

// Finite reports whether every component of p is a finite number.
func Finite(p Point3) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min Point3 `toml:"min"`
	Max Point3 `toml:"max"`
}

// NewBounds builds a box from (xmin, xmax, ymin, ymax, zmin, zmax), the
// ordering used by VTK data set bounds.
func NewBounds(xmin, xmax, ymin, ymax, zmin, zmax float64) Bounds {
	return Bounds{
		Min: Point3{X: xmin, Y: ymin, Z: zmin},
		Max: Point3{X: xmax, Y: ymax, Z: zmax},
	}
}

// BoundsOf returns the smallest box containing pts. An empty slice yields
// the zero box.
func BoundsOf(pts []Point3) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = Point3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = Point3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Point3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b Bounds) Center() Point3 {
	return Lerp(b.Min, b.Max, 0.5)
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 {
	return b.Size().Length()
}

// Validate reports an inverted or non-finite box.
func (b Bounds) Validate() error {
	if !Finite(b.Min) || !Finite(b.Max) {
		return fmt.Errorf("bounds: non-finite coordinate in %v", b)
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return fmt.Errorf("bounds: min %v exceeds max %v", b.Min, b.Max)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
