// Package grid implements structured point lattices and the transfinite
// interpolators that fill them from their boundaries.
//
// A grid addresses points by (i, j, k) with i varying fastest. Planar
// grids have Nk == 1. Cells are the implicit hexahedra (or quads) formed
// by adjacent index triples.
package grid

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/geom"
)

// StructuredGrid is a lattice of Dims[0]*Dims[1]*Dims[2] points with a
// per-point status scalar.
type StructuredGrid struct {
	Dims   [3]int
	Points []geom.Point3
	Status []int
}

// New allocates a grid with every point StatusFree.
func New(ni, nj, nk int) *StructuredGrid {
	n := ni * nj * nk
	g := &StructuredGrid{
		Dims:   [3]int{ni, nj, nk},
		Points: make([]geom.Point3, n),
		Status: make([]int, n),
	}
	for i := range g.Status {
		g.Status[i] = geom.StatusFree
	}
	return g
}

// Index returns the flat index of (i, j, k).
func (g *StructuredGrid) Index(i, j, k int) int {
	return (k*g.Dims[1]+j)*g.Dims[0] + i
}

// At returns the point at (i, j, k).
func (g *StructuredGrid) At(i, j, k int) geom.Point3 {
	return g.Points[g.Index(i, j, k)]
}

// NumPoints returns the total point count.
func (g *StructuredGrid) NumPoints() int { return len(g.Points) }

// NumCells returns the number of hexahedral cells (quads for planar grids).
func (g *StructuredGrid) NumCells() int {
	n := 1
	for _, d := range g.Dims {
		if d > 1 {
			n *= d - 1
		}
	}
	return n
}

// IsPlanar reports whether the grid is a single layer.
func (g *StructuredGrid) IsPlanar() bool { return g.Dims[2] == 1 }

// Clone returns a deep copy.
func (g *StructuredGrid) Clone() *StructuredGrid {
	return &StructuredGrid{
		Dims:   g.Dims,
		Points: append([]geom.Point3(nil), g.Points...),
		Status: append([]int(nil), g.Status...),
	}
}

// SetStatus sets every point's status to s.
func (g *StructuredGrid) SetStatus(s int) {
	for i := range g.Status {
		g.Status[i] = s
	}
}

// ForceStatus replaces every non-zero status with s.
func (g *StructuredGrid) ForceStatus(s int) {
	for i, v := range g.Status {
		if v != 0 {
			g.Status[i] = s
		}
	}
}

// Cells returns the 8-corner hexahedra of a solid grid in VTK order:
// the k face counter-clockwise, then the k+1 face above it.
func (g *StructuredGrid) Cells() [][8]int {
	d0, d1, d2 := g.Dims[0], g.Dims[1], g.Dims[2]
	if d0 < 2 || d1 < 2 || d2 < 2 {
		return nil
	}
	cells := make([][8]int, 0, (d0-1)*(d1-1)*(d2-1))
	layer := d0 * d1
	for k := 0; k < d2-1; k++ {
		for j := 0; j < d1-1; j++ {
			for i := 0; i < d0-1; i++ {
				base := k*layer + j*d0 + i
				cells = append(cells, [8]int{
					base, base + 1, base + d0 + 1, base + d0,
					base + layer, base + layer + 1, base + layer + d0 + 1, base + layer + d0,
				})
			}
		}
	}
	return cells
}

// Side returns boundary edge n of a planar grid as a curve, following the
// planar interpolation convention: 0 is row j=0, 1 is column i=Ni-1, 2 is
// row j=Nj-1 and 3 is column i=0, each in increasing index order.
func (g *StructuredGrid) Side(n int) (geom.Curve, error) {
	if !g.IsPlanar() {
		return geom.Curve{}, fmt.Errorf("grid: side %d of non-planar grid %v", n, g.Dims)
	}
	ni, nj := g.Dims[0], g.Dims[1]
	var idx []int
	switch n {
	case 0:
		for i := 0; i < ni; i++ {
			idx = append(idx, g.Index(i, 0, 0))
		}
	case 1:
		for j := 0; j < nj; j++ {
			idx = append(idx, g.Index(ni-1, j, 0))
		}
	case 2:
		for i := 0; i < ni; i++ {
			idx = append(idx, g.Index(i, nj-1, 0))
		}
	case 3:
		for j := 0; j < nj; j++ {
			idx = append(idx, g.Index(0, j, 0))
		}
	default:
		return geom.Curve{}, fmt.Errorf("grid: side %d out of range", n)
	}
	c := geom.Curve{Points: make([]geom.Point3, len(idx)), Status: make([]int, len(idx))}
	for m, p := range idx {
		c.Points[m] = g.Points[p]
		c.Status[m] = g.Status[p]
	}
	return c, nil
}

// Corner returns corner c of a planar grid: 0 is (0,0), 1 is (Ni-1,0),
// 2 is (Ni-1,Nj-1) and 3 is (0,Nj-1).
func (g *StructuredGrid) Corner(c int) (geom.Point3, error) {
	ni, nj := g.Dims[0], g.Dims[1]
	switch c {
	case 0:
		return g.At(0, 0, 0), nil
	case 1:
		return g.At(ni-1, 0, 0), nil
	case 2:
		return g.At(ni-1, nj-1, 0), nil
	case 3:
		return g.At(0, nj-1, 0), nil
	}
	return geom.Point3{}, fmt.Errorf("grid: corner %d out of range", c)
}
