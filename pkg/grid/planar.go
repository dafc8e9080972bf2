package grid

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/geom"
)

// Planar fills a dims[0] x dims[1] grid from four boundary curves using a
// bilinear Coons patch.
//
// e0 and e2 run along i (rows j=0 and j=Nj-1); e3 and e1 run along j
// (columns i=0 and i=Ni-1). The loop must close: e0 starts where e3
// starts, e0 ends where e1 starts, and e2 runs from the end of e3 to the
// end of e1. Boundary points are copied verbatim, keeping the lower status
// where two curves meet at a corner.
func Planar(dims [2]int, e0, e1, e2, e3 geom.Curve) (*StructuredGrid, error) {
	ni, nj := dims[0], dims[1]
	for n, e := range [4]geom.Curve{e0, e1, e2, e3} {
		if e.IsEmpty() {
			return nil, fmt.Errorf("planar: edge %d: %w", n, geom.ErrMissingBoundary)
		}
	}
	if ni < 2 || nj < 2 {
		return nil, fmt.Errorf("planar: dims %v: %w", dims, geom.ErrMismatchedBoundaryLength)
	}
	if e0.Len() != ni || e2.Len() != ni {
		return nil, fmt.Errorf("planar: i edges have %d and %d points, want %d: %w",
			e0.Len(), e2.Len(), ni, geom.ErrMismatchedBoundaryLength)
	}
	if e1.Len() != nj || e3.Len() != nj {
		return nil, fmt.Errorf("planar: j edges have %d and %d points, want %d: %w",
			e1.Len(), e3.Len(), nj, geom.ErrMismatchedBoundaryLength)
	}

	g := New(ni, nj, 1)

	p00 := e0.First()
	p10 := e0.Last()
	p01 := e2.First()
	p11 := e2.Last()

	for j := 1; j < nj-1; j++ {
		v := float64(j) / float64(nj-1)
		for i := 1; i < ni-1; i++ {
			u := float64(i) / float64(ni-1)
			ruled := e0.Points[i].MulScalar(1 - v).
				Add(e2.Points[i].MulScalar(v)).
				Add(e3.Points[j].MulScalar(1 - u)).
				Add(e1.Points[j].MulScalar(u))
			corners := p00.MulScalar((1 - u) * (1 - v)).
				Add(p10.MulScalar(u * (1 - v))).
				Add(p01.MulScalar((1 - u) * v)).
				Add(p11.MulScalar(u * v))
			g.Points[g.Index(i, j, 0)] = ruled.Sub(corners)
		}
	}

	set := func(idx int, p geom.Point3, s int, first bool) {
		g.Points[idx] = p
		if first || s < g.Status[idx] {
			g.Status[idx] = s
		}
	}
	for i := 0; i < ni; i++ {
		set(g.Index(i, 0, 0), e0.Points[i], e0.StatusAt(i), true)
		set(g.Index(i, nj-1, 0), e2.Points[i], e2.StatusAt(i), true)
	}
	for j := 0; j < nj; j++ {
		corner := j == 0 || j == nj-1
		set(g.Index(0, j, 0), e3.Points[j], e3.StatusAt(j), !corner)
		set(g.Index(ni-1, j, 0), e1.Points[j], e1.StatusAt(j), !corner)
	}
	return g, nil
}
