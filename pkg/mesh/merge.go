package mesh

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/grid"
	"github.com/chazu/spinemesh/pkg/locate"
)

// ExactTolerance is the merge tolerance used when blocks are known to
// share bitwise-equal boundaries up to floating-point rounding.
const ExactTolerance = 1e-9

// DefaultRelativeTolerance scales with the block bounding-box diagonal to
// give the merge tolerance used for projected blocks.
const DefaultRelativeTolerance = 1e-6

// Merge concatenates structured blocks into one hexahedral mesh.
//
// Points of each block are matched against the points of earlier blocks
// with a point locator: a point within tol of an earlier point reuses the
// earlier index (the first inserted point wins), otherwise it is appended.
// Points are never matched within their own block. A reused point keeps
// the lower of the two status values rather than the first block's, so a
// node fixed by any block stays fixed.
func Merge(blocks []*grid.StructuredGrid, tol float64) (*Unstructured, error) {
	loc := locate.NewPointLocator(tol)
	m := &Unstructured{}

	for b, g := range blocks {
		if g == nil {
			return nil, fmt.Errorf("merge: block %d is nil", b)
		}
		if g.Dims[0] < 2 || g.Dims[1] < 2 || g.Dims[2] < 2 {
			return nil, fmt.Errorf("merge: block %d has dims %v", b, g.Dims)
		}

		start := loc.Len()
		ids := make([]int, g.NumPoints())
		for i, p := range g.Points {
			if idx, ok := loc.Find(p); ok && idx < start {
				ids[i] = idx
				m.Status[idx] = min(m.Status[idx], g.Status[i])
				continue
			}
			ids[i] = loc.Insert(p)
			m.Status = append(m.Status, g.Status[i])
		}

		first := len(m.Cells)
		for _, c := range g.Cells() {
			var cell [8]int
			for n, local := range c {
				cell[n] = ids[local]
			}
			m.Cells = append(m.Cells, cell)
		}
		m.Blocks = append(m.Blocks, Block{
			Dims:     g.Dims,
			PointIDs: ids,
			Cells:    [2]int{first, len(m.Cells)},
		})
	}

	m.Points = loc.Points()
	return m, nil
}
