package grid

import (
	"fmt"
	"math"

	"github.com/chazu/spinemesh/pkg/geom"
)

// Solid fills a hexahedral block from its six faces by trilinear
// transfinite interpolation.
//
// Faces follow the extraction convention of Face: 0 and 1 are i=0 and
// i=Ni-1 with dims (Nj,Nk); 2 and 3 are j=0 and j=Nj-1 with dims (Ni,Nk);
// 4 and 5 are k=0 and k=Nk-1 with dims (Ni,Nj). Ni comes from face 2,
// Nj and Nk from face 0.
func Solid(faces [6]*StructuredGrid) (*StructuredGrid, error) {
	for n, f := range faces {
		if f == nil || f.NumPoints() == 0 {
			return nil, fmt.Errorf("solid: face %d: %w", n, geom.ErrMissingBoundary)
		}
		if !f.IsPlanar() {
			return nil, fmt.Errorf("solid: face %d has dims %v: %w", n, f.Dims, geom.ErrInconsistentFaceDimensions)
		}
	}

	d0, d1, d2 := faces[2].Dims[0], faces[0].Dims[0], faces[0].Dims[1]
	want := [6][2]int{{d1, d2}, {d1, d2}, {d0, d2}, {d0, d2}, {d0, d1}, {d0, d1}}
	for n, f := range faces {
		if f.Dims[0] != want[n][0] || f.Dims[1] != want[n][1] {
			return nil, fmt.Errorf("solid: face %d has dims %v, want %v: %w",
				n, f.Dims[:2], want[n], geom.ErrInconsistentFaceDimensions)
		}
	}
	if d0 < 2 || d1 < 2 || d2 < 2 {
		return nil, fmt.Errorf("solid: dims (%d,%d,%d): %w", d0, d1, d2, geom.ErrInconsistentFaceDimensions)
	}

	f0, f1, f2, f3, f4, f5 := faces[0], faces[1], faces[2], faces[3], faces[4], faces[5]
	at := func(f *StructuredGrid, a, b int) geom.Point3 { return f.At(a, b, 0) }

	// corner(a, b, c) is the block corner at i=a*(Ni-1), j=b*(Nj-1), k=c*(Nk-1).
	corner := func(a, b, c int) geom.Point3 {
		f := f0
		if a == 1 {
			f = f1
		}
		return at(f, b*(d1-1), c*(d2-1))
	}
	var cs [2][2][2]geom.Point3
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				cs[a][b][c] = corner(a, b, c)
			}
		}
	}

	g := New(d0, d1, d2)
	for k := 1; k < d2-1; k++ {
		w := float64(k) / float64(d2-1)
		for j := 1; j < d1-1; j++ {
			v := float64(j) / float64(d1-1)
			for i := 1; i < d0-1; i++ {
				u := float64(i) / float64(d0-1)

				p := at(f0, j, k).MulScalar(1 - u).
					Add(at(f1, j, k).MulScalar(u)).
					Add(at(f2, i, k).MulScalar(1 - v)).
					Add(at(f3, i, k).MulScalar(v)).
					Add(at(f4, i, j).MulScalar(1 - w)).
					Add(at(f5, i, j).MulScalar(w))

				// Edges parallel to k.
				p = p.Sub(at(f0, 0, k).MulScalar((1 - u) * (1 - v))).
					Sub(at(f0, d1-1, k).MulScalar((1 - u) * v)).
					Sub(at(f1, 0, k).MulScalar(u * (1 - v))).
					Sub(at(f1, d1-1, k).MulScalar(u * v))
				// Edges parallel to j.
				p = p.Sub(at(f0, j, 0).MulScalar((1 - u) * (1 - w))).
					Sub(at(f0, j, d2-1).MulScalar((1 - u) * w)).
					Sub(at(f1, j, 0).MulScalar(u * (1 - w))).
					Sub(at(f1, j, d2-1).MulScalar(u * w))
				// Edges parallel to i.
				p = p.Sub(at(f2, i, 0).MulScalar((1 - v) * (1 - w))).
					Sub(at(f2, i, d2-1).MulScalar((1 - v) * w)).
					Sub(at(f3, i, 0).MulScalar(v * (1 - w))).
					Sub(at(f3, i, d2-1).MulScalar(v * w))

				for a := 0; a < 2; a++ {
					wu := 1 - u
					if a == 1 {
						wu = u
					}
					for b := 0; b < 2; b++ {
						wv := 1 - v
						if b == 1 {
							wv = v
						}
						for c := 0; c < 2; c++ {
							ww := 1 - w
							if c == 1 {
								ww = w
							}
							p = p.Add(cs[a][b][c].MulScalar(wu * wv * ww))
						}
					}
				}
				g.Points[g.Index(i, j, k)] = p
			}
		}
	}

	// Boundary points take the lowest status of the faces that contain them.
	onBoundary := func(i, j, k int) bool {
		return i == 0 || j == 0 || k == 0 || i == d0-1 || j == d1-1 || k == d2-1
	}
	for k := 0; k < d2; k++ {
		for j := 0; j < d1; j++ {
			for i := 0; i < d0; i++ {
				if onBoundary(i, j, k) {
					g.Status[g.Index(i, j, k)] = math.MaxInt
				}
			}
		}
	}
	place := func(f *StructuredGrid, idx func(a, b int) int) {
		for b := 0; b < f.Dims[1]; b++ {
			for a := 0; a < f.Dims[0]; a++ {
				src := f.Index(a, b, 0)
				dst := idx(a, b)
				g.Points[dst] = f.Points[src]
				g.Status[dst] = min(g.Status[dst], f.Status[src])
			}
		}
	}
	place(f0, func(j, k int) int { return g.Index(0, j, k) })
	place(f1, func(j, k int) int { return g.Index(d0-1, j, k) })
	place(f2, func(i, k int) int { return g.Index(i, 0, k) })
	place(f3, func(i, k int) int { return g.Index(i, d1-1, k) })
	place(f4, func(i, j int) int { return g.Index(i, j, 0) })
	place(f5, func(i, j int) int { return g.Index(i, j, d2-1) })
	return g, nil
}

// Face extracts bounding face n (0..5) of a solid grid as a planar grid,
// using the convention documented on Solid.
func (g *StructuredGrid) Face(n int) (*StructuredGrid, error) {
	d0, d1, d2 := g.Dims[0], g.Dims[1], g.Dims[2]
	var (
		f   *StructuredGrid
		src func(a, b int) int
	)
	switch n {
	case 0, 1:
		i := 0
		if n == 1 {
			i = d0 - 1
		}
		f = New(d1, d2, 1)
		src = func(j, k int) int { return g.Index(i, j, k) }
	case 2, 3:
		j := 0
		if n == 3 {
			j = d1 - 1
		}
		f = New(d0, d2, 1)
		src = func(i, k int) int { return g.Index(i, j, k) }
	case 4, 5:
		k := 0
		if n == 5 {
			k = d2 - 1
		}
		f = New(d0, d1, 1)
		src = func(i, j int) int { return g.Index(i, j, k) }
	default:
		return nil, fmt.Errorf("grid: face %d out of range", n)
	}
	for b := 0; b < f.Dims[1]; b++ {
		for a := 0; a < f.Dims[0]; a++ {
			s := src(a, b)
			d := f.Index(a, b, 0)
			f.Points[d] = g.Points[s]
			f.Status[d] = g.Status[s]
		}
	}
	return f, nil
}
