package mesh

import (
	"math"

	"github.com/samber/lo"

	"github.com/chazu/spinemesh/pkg/locate"
)

// hexCorners lists, for each hexahedron corner, the three neighbouring
// corners forming a right-handed frame in VTK ordering.
var hexCorners = [8][3]int{
	{1, 3, 4}, {2, 0, 5}, {3, 1, 6}, {0, 2, 7},
	{7, 5, 0}, {4, 6, 1}, {5, 7, 2}, {6, 4, 3},
}

// Quality summarizes the scaled Jacobian of every cell.
type Quality struct {
	MinScaledJacobian  float64
	MeanScaledJacobian float64
	Inverted           int // cells with a non-positive scaled Jacobian
}

// ScaledJacobian returns the minimum over the cell's corners of the
// normalized triple product of the corner's edges: 1 for a cube, 0 for a
// flattened corner, negative for an inverted one.
func (m *Unstructured) ScaledJacobian(c int) float64 {
	cell := m.Cells[c]
	worst := math.Inf(1)
	for corner, nb := range hexCorners {
		p := m.Points[cell[corner]]
		e1 := m.Points[cell[nb[0]]].Sub(p)
		e2 := m.Points[cell[nb[1]]].Sub(p)
		e3 := m.Points[cell[nb[2]]].Sub(p)
		l := e1.Length() * e2.Length() * e3.Length()
		if l == 0 {
			return 0
		}
		worst = math.Min(worst, e1.Dot(e2.Cross(e3))/l)
	}
	return worst
}

// Quality computes the scaled Jacobian summary over all cells.
func (m *Unstructured) Quality() Quality {
	if len(m.Cells) == 0 {
		return Quality{}
	}
	sj := make([]float64, len(m.Cells))
	for c := range m.Cells {
		sj[c] = m.ScaledJacobian(c)
	}
	return Quality{
		MinScaledJacobian:  lo.Min(sj),
		MeanScaledJacobian: lo.Sum(sj) / float64(len(sj)),
		Inverted:           lo.CountBy(sj, func(v float64) bool { return v <= 0 }),
	}
}

// DuplicatePoints counts points lying within tol of an earlier point. A
// merged mesh should have none.
func (m *Unstructured) DuplicatePoints(tol float64) int {
	loc := locate.NewPointLocator(tol)
	var dups int
	for _, p := range m.Points {
		if _, inserted := loc.InsertUnique(p); !inserted {
			dups++
		}
	}
	return dups
}
