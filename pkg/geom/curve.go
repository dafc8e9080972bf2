package geom

import "math"

// Point status values carried by curves, grids and meshes.
const (
	StatusFixed = 0 // lies on a constraint (supplied curve, projected surface)
	StatusFree  = 1 // interpolated
)

// Curve is an ordered polyline. Consecutive points are joined by implicit
// segments. Status holds one value per point; a nil Status means every
// point is StatusFree.
//
// Curves are values: operations return new curves and never modify the
// receiver's backing arrays.
type Curve struct {
	Points []Point3
	Status []int
}

// NewCurve returns a curve through pts with default status.
func NewCurve(pts ...Point3) Curve {
	return Curve{Points: append([]Point3(nil), pts...)}
}

// Line returns the two-point curve from a to b.
func Line(a, b Point3) Curve {
	return Curve{Points: []Point3{a, b}}
}

// Len returns the number of points.
func (c Curve) Len() int { return len(c.Points) }

// IsEmpty reports whether the curve has no points.
func (c Curve) IsEmpty() bool { return len(c.Points) == 0 }

// First returns the first point. The curve must not be empty.
func (c Curve) First() Point3 { return c.Points[0] }

// Last returns the last point. The curve must not be empty.
func (c Curve) Last() Point3 { return c.Points[len(c.Points)-1] }

// StatusAt returns the status of point i.
func (c Curve) StatusAt(i int) int {
	if i < len(c.Status) {
		return c.Status[i]
	}
	return StatusFree
}

// WithStatus returns a copy with every point set to s.
func (c Curve) WithStatus(s int) Curve {
	out := Curve{Points: append([]Point3(nil), c.Points...), Status: make([]int, len(c.Points))}
	for i := range out.Status {
		out.Status[i] = s
	}
	return out
}

// Reverse returns the curve traversed backwards.
func (c Curve) Reverse() Curve {
	n := len(c.Points)
	out := Curve{Points: make([]Point3, n)}
	if c.Status != nil {
		out.Status = make([]int, n)
	}
	for i := 0; i < n; i++ {
		out.Points[i] = c.Points[n-1-i]
		if out.Status != nil {
			out.Status[i] = c.StatusAt(n - 1 - i)
		}
	}
	return out
}

// Length returns the total arc length.
func (c Curve) Length() float64 {
	var l float64
	for i := 1; i < len(c.Points); i++ {
		l += Dist(c.Points[i-1], c.Points[i])
	}
	return l
}

// Connectivity returns the consecutive point pairs forming the curve's
// line segments.
func Connectivity(c Curve) [][2]int {
	if len(c.Points) < 2 {
		return nil
	}
	segs := make([][2]int, 0, len(c.Points)-1)
	for i := 1; i < len(c.Points); i++ {
		segs = append(segs, [2]int{i - 1, i})
	}
	return segs
}

// ClosestOnSegment returns the point of segment ab closest to p and its
// parameter t in [0,1].
func ClosestOnSegment(p, a, b Point3) (Point3, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a, 0
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return Lerp(a, b, t), t
}

// Centroid returns the mean of the curve's points.
func (c Curve) Centroid() Point3 {
	var sum Point3
	for _, p := range c.Points {
		sum = sum.Add(p)
	}
	if len(c.Points) == 0 {
		return sum
	}
	return sum.MulScalar(1 / float64(len(c.Points)))
}

// SignedAreaXY returns twice the signed area of the curve projected onto
// the xy plane, treating it as closed. Counter-clockwise loops seen from
// +z are positive.
func (c Curve) SignedAreaXY() float64 {
	var a float64
	n := len(c.Points)
	for i := 0; i < n; i++ {
		p, q := c.Points[i], c.Points[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}
