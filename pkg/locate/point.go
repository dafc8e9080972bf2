// Package locate provides the spatial queries used while meshing: point
// deduplication, closest points on polylines, and projection onto
// reference surfaces. Indexes are R-trees from rtreego.
package locate

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/spinemesh/pkg/geom"
)

// R-tree fan-out used by every index in this package.
const (
	minChildren = 25
	maxChildren = 50
)

// MinTolerance is the smallest tolerance a PointLocator accepts. Query
// boxes must have positive extent in every dimension.
const MinTolerance = 1e-12

func toPoint(p geom.Point3) rtreego.Point {
	return rtreego.Point{p.X, p.Y, p.Z}
}

// indexedPoint is a located point and its insertion order.
type indexedPoint struct {
	idx int
	p   geom.Point3
}

func (ip *indexedPoint) Bounds() rtreego.Rect {
	return toPoint(ip.p).ToRect(0)
}

// PointLocator deduplicates points within a tolerance. Indices are assigned
// in insertion order, and a lookup that matches several stored points
// returns the lowest index, so the first inserted point wins.
type PointLocator struct {
	tree   *rtreego.Rtree
	tol    float64
	points []geom.Point3
}

// NewPointLocator returns an empty locator. Tolerances below MinTolerance
// are raised to it.
func NewPointLocator(tol float64) *PointLocator {
	return &PointLocator{
		tree: rtreego.NewTree(3, minChildren, maxChildren),
		tol:  math.Max(tol, MinTolerance),
	}
}

// Tolerance returns the matching distance.
func (l *PointLocator) Tolerance() float64 { return l.tol }

// Len returns the number of stored points.
func (l *PointLocator) Len() int { return len(l.points) }

// Points returns the stored points in index order.
func (l *PointLocator) Points() []geom.Point3 { return l.points }

// Find returns the lowest index of a stored point within tolerance of p.
func (l *PointLocator) Find(p geom.Point3) (int, bool) {
	best := -1
	for _, s := range l.tree.SearchIntersect(toPoint(p).ToRect(l.tol)) {
		ip := s.(*indexedPoint)
		if geom.Dist(ip.p, p) > l.tol {
			continue
		}
		if best < 0 || ip.idx < best {
			best = ip.idx
		}
	}
	return best, best >= 0
}

// Insert stores p unconditionally and returns its index.
func (l *PointLocator) Insert(p geom.Point3) int {
	idx := len(l.points)
	l.points = append(l.points, p)
	l.tree.Insert(&indexedPoint{idx: idx, p: p})
	return idx
}

// InsertUnique returns the index of an existing point within tolerance of
// p, or stores p. The boolean reports whether p was stored.
func (l *PointLocator) InsertUnique(p geom.Point3) (int, bool) {
	if idx, ok := l.Find(p); ok {
		return idx, false
	}
	return l.Insert(p), true
}
