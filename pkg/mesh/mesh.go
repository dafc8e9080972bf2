// Package mesh holds the unstructured hexahedral mesh produced by merging
// structured blocks, along with the merge itself and cell quality metrics.
package mesh

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/grid"
)

// Block records where a structured block landed in a merged mesh.
// PointIDs maps the block's flat (i-fastest) point index to a global
// point index; Cells is the half-open range of the block's cells.
type Block struct {
	Dims     [3]int
	PointIDs []int
	Cells    [2]int
}

// Unstructured is a hexahedral mesh. Cells use VTK hexahedron ordering:
// bottom face 0-1-2-3 counter-clockwise, then 4-5-6-7 above it.
type Unstructured struct {
	Points []geom.Point3
	Cells  [][8]int
	Status []int

	// CellSeeds holds optional per-cell seed dimensions, the point counts
	// a block built for that cell should have along i, j and k.
	CellSeeds [][3]int

	// Blocks is set when the mesh was merged from structured blocks.
	Blocks []Block
}

// NumPoints returns the point count.
func (m *Unstructured) NumPoints() int { return len(m.Points) }

// NumCells returns the cell count.
func (m *Unstructured) NumCells() int { return len(m.Cells) }

// IsEmpty reports whether the mesh has no cells.
func (m *Unstructured) IsEmpty() bool { return len(m.Cells) == 0 }

// Bounds returns the bounding box of the points.
func (m *Unstructured) Bounds() geom.Bounds {
	return geom.BoundsOf(m.Points)
}

// StatusAt returns the status of point i.
func (m *Unstructured) StatusAt(i int) int {
	if i < len(m.Status) {
		return m.Status[i]
	}
	return geom.StatusFree
}

// Validate checks that every cell references existing points and that the
// per-point and per-cell arrays have matching lengths.
func (m *Unstructured) Validate() error {
	n := len(m.Points)
	for c, cell := range m.Cells {
		for _, id := range cell {
			if id < 0 || id >= n {
				return fmt.Errorf("mesh: cell %d references point %d of %d", c, id, n)
			}
		}
	}
	if m.Status != nil && len(m.Status) != n {
		return fmt.Errorf("mesh: %d status values for %d points", len(m.Status), n)
	}
	if m.CellSeeds != nil && len(m.CellSeeds) != len(m.Cells) {
		return fmt.Errorf("mesh: %d cell seeds for %d cells", len(m.CellSeeds), len(m.Cells))
	}
	for b, blk := range m.Blocks {
		if len(blk.PointIDs) != blk.Dims[0]*blk.Dims[1]*blk.Dims[2] {
			return fmt.Errorf("mesh: block %d has %d point ids for dims %v", b, len(blk.PointIDs), blk.Dims)
		}
	}
	return nil
}

// ExtractBlock rebuilds structured block b from the merged points.
func (m *Unstructured) ExtractBlock(b int) (*grid.StructuredGrid, error) {
	if b < 0 || b >= len(m.Blocks) {
		return nil, fmt.Errorf("mesh: block %d of %d", b, len(m.Blocks))
	}
	blk := m.Blocks[b]
	g := grid.New(blk.Dims[0], blk.Dims[1], blk.Dims[2])
	if len(blk.PointIDs) != g.NumPoints() {
		return nil, fmt.Errorf("mesh: block %d has %d point ids for dims %v", b, len(blk.PointIDs), blk.Dims)
	}
	for i, id := range blk.PointIDs {
		if id < 0 || id >= len(m.Points) {
			return nil, fmt.Errorf("mesh: block %d references point %d of %d", b, id, len(m.Points))
		}
		g.Points[i] = m.Points[id]
		g.Status[i] = m.StatusAt(id)
	}
	return g, nil
}

// Edges returns the unique edges of all cells as sorted point-index pairs,
// in first-seen order.
func (m *Unstructured) Edges() [][2]int {
	hexEdges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, c := range m.Cells {
		for _, e := range hexEdges {
			a, b := c[e[0]], c[e[1]]
			if a > b {
				a, b = b, a
			}
			k := [2]int{a, b}
			if a == b || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
