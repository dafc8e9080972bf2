package build

import (
	"math"

	"github.com/chazu/spinemesh/pkg/geom"
)

// Bulge moves the points of c onto the circular arc through its endpoints
// whose sagitta is s. The arc bows away from center, or toward it for a
// negative s. Points keep their relative arc-length parameter along the
// chord; the endpoints are left in place.
//
// A zero sagitta, a degenerate chord, or a chord pointing straight at
// center leaves c unchanged.
func Bulge(c geom.Curve, center geom.Point3, s float64) geom.Curve {
	if s == 0 || c.Len() < 3 {
		return c
	}
	a, b := c.First(), c.Last()
	chord := b.Sub(a)
	l := chord.Length()
	if l == 0 {
		return c
	}
	dir := chord.MulScalar(1 / l)
	mid := geom.Lerp(a, b, 0.5)

	// Outward direction: the radial offset of the midpoint with its chord
	// component removed.
	out := mid.Sub(center)
	out = out.Sub(dir.MulScalar(out.Dot(dir)))
	if out.Length() < 1e-12*l {
		return c
	}
	out = out.Normalize()
	if s < 0 {
		out = out.MulScalar(-1)
		s = -s
	}

	r := (l*l/4 + s*s) / (2 * s)
	origin := mid.Sub(out.MulScalar(r - s))
	alpha := math.Asin(math.Min(1, l/(2*r)))
	if s > l/2 {
		// Arc longer than a semicircle.
		alpha = math.Pi - alpha
	}

	total := c.Length()
	res := geom.Curve{Points: make([]geom.Point3, c.Len()), Status: c.Status}
	res.Points[0] = a
	res.Points[c.Len()-1] = b
	walked := 0.0
	for i := 1; i < c.Len()-1; i++ {
		walked += geom.Dist(c.Points[i-1], c.Points[i])
		t := walked / total
		theta := (2*t - 1) * alpha
		res.Points[i] = origin.Add(out.MulScalar(r * math.Cos(theta))).Add(dir.MulScalar(r * math.Sin(theta)))
	}
	return res
}
