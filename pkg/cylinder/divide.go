package cylinder

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/locate"
)

// NumCurves is the number of boundary loops a body is built from.
const NumCurves = 4

// Boundary loop order.
const (
	SuperiorInner = iota
	SuperiorOuter
	InferiorInner
	InferiorOuter
)

// startNodes are the first of the four consecutive box nodes each loop is
// cut at: the middle ring for inner loops, the outer ring for outer loops.
var startNodes = [NumCurves]int{16, 12, 4, 0}

// Orient returns c traversed counter-clockwise about +z, dropping an
// explicit closing point.
func Orient(c geom.Curve) geom.Curve {
	if n := c.Len(); n > 1 && c.First() == c.Last() {
		open := geom.Curve{Points: c.Points[:n-1]}
		if len(c.Status) >= n-1 {
			open.Status = c.Status[:n-1]
		}
		c = open
	}
	if c.SignedAreaXY() < 0 {
		return c.Reverse()
	}
	return c
}

// Divide cuts the closed loop c into four arcs at the points closest to
// the given nodes. Arc i runs from the cut nearest nodes[i] to the cut
// nearest nodes[(i+1)%4], wrapping past the end of the loop as needed.
// Consecutive points closer than tol are dropped.
func Divide(c geom.Curve, nodes [4]geom.Point3, tol float64) ([4]geom.Curve, error) {
	var arcs [4]geom.Curve
	loc, err := locate.NewCurveLocator(c, true)
	if err != nil {
		return arcs, fmt.Errorf("divide: %w", err)
	}

	var (
		cuts [4]geom.Point3
		segs [4]int
	)
	for i, p := range nodes {
		if cuts[i], segs[i], err = loc.Closest(p); err != nil {
			return arcs, fmt.Errorf("divide: node %d: %w", i, err)
		}
	}

	n := c.Len()
	for i := range arcs {
		j := (i + 1) % 4
		pl := locate.NewPointLocator(tol)
		var arc geom.Curve
		add := func(p geom.Point3) {
			if _, ok := pl.InsertUnique(p); ok {
				arc.Points = append(arc.Points, p)
			}
		}
		add(cuts[i])
		for m := 1; m <= (segs[j]-segs[i]+n)%n; m++ {
			add(c.Points[(segs[i]+m)%n])
		}
		add(cuts[j])
		if arc.Len() < 2 {
			return arcs, fmt.Errorf("divide: arc %d collapsed to %d point(s): %w", i, arc.Len(), geom.ErrDegenerateProjection)
		}
		arcs[i] = arc
	}
	return arcs, nil
}

// DivideBoundary orients each loop counter-clockwise and cuts it at the
// box nodes assigned to it. box holds the 24 butterfly box points.
func DivideBoundary(curves [NumCurves]geom.Curve, box []geom.Point3) ([NumCurves][4]geom.Curve, error) {
	var out [NumCurves][4]geom.Curve
	if len(box) < 24 {
		return out, fmt.Errorf("divide boundary: box has %d points, want 24", len(box))
	}
	tol := locate.MinTolerance * (1 + geom.BoundsOf(box).Diagonal())
	for ci, c := range curves {
		var nodes [4]geom.Point3
		for i := range nodes {
			nodes[i] = box[startNodes[ci]+i]
		}
		arcs, err := Divide(Orient(c), nodes, tol)
		if err != nil {
			return out, fmt.Errorf("curve %d: %w", ci, err)
		}
		out[ci] = arcs
	}
	return out, nil
}
