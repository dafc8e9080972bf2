package locate

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/spinemesh/pkg/geom"
)

// segment is one polyline segment, from point id to id+1 (or back to 0 for
// the closing segment of a loop).
type segment struct {
	id   int
	a, b geom.Point3
}

func (s *segment) Bounds() rtreego.Rect {
	r, _ := rtreego.NewRectFromPoints(
		rtreego.Point{min(s.a.X, s.b.X), min(s.a.Y, s.b.Y), min(s.a.Z, s.b.Z)},
		rtreego.Point{max(s.a.X, s.b.X), max(s.a.Y, s.b.Y), max(s.a.Z, s.b.Z)},
	)
	return r
}

// CurveLocator answers closest-point queries against a polyline.
type CurveLocator struct {
	tree *rtreego.Rtree
	segs int
}

// NewCurveLocator indexes the segments of c. A closed locator adds the
// segment from the last point back to the first, numbered Len()-1.
func NewCurveLocator(c geom.Curve, closed bool) (*CurveLocator, error) {
	if c.Len() < 2 {
		return nil, fmt.Errorf("curve locator: %d points: %w", c.Len(), geom.ErrDegenerateProjection)
	}
	n := c.Len()
	var segs []rtreego.Spatial
	for i := 0; i+1 < n; i++ {
		segs = append(segs, &segment{id: i, a: c.Points[i], b: c.Points[i+1]})
	}
	if closed && c.First() != c.Last() {
		segs = append(segs, &segment{id: n - 1, a: c.Last(), b: c.First()})
	}
	return &CurveLocator{
		tree: rtreego.NewTree(3, minChildren, maxChildren, segs...),
		segs: len(segs),
	}, nil
}

// NumSegments returns the number of indexed segments.
func (l *CurveLocator) NumSegments() int { return l.segs }

// Closest returns the point on the polyline nearest p and the id of the
// segment it lies on. Ties go to the lowest segment id.
func (l *CurveLocator) Closest(p geom.Point3) (geom.Point3, int, error) {
	nn := l.tree.NearestNeighbor(toPoint(p))
	if nn == nil {
		return geom.Point3{}, -1, fmt.Errorf("curve locator: no segment near %v: %w", p, geom.ErrDegenerateProjection)
	}
	seed := nn.(*segment)
	q, _ := geom.ClosestOnSegment(p, seed.a, seed.b)
	reach := geom.Dist(p, q)

	best, bestID, bestD := q, seed.id, reach
	for _, s := range l.tree.SearchIntersect(toPoint(p).ToRect(reach + MinTolerance*(1+reach))) {
		seg := s.(*segment)
		c, _ := geom.ClosestOnSegment(p, seg.a, seg.b)
		d := geom.Dist(p, c)
		if d < bestD || (d == bestD && seg.id < bestID) {
			best, bestID, bestD = c, seg.id, d
		}
	}
	return best, bestID, nil
}
