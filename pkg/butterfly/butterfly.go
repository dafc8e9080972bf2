// Package butterfly meshes an axis-aligned box with the fixed two-ring
// "butterfly" topology: four outer hexahedra, four middle hexahedra and a
// center block, repeated through the box height.
//
// The box doubles as seed bookkeeping for the block builders: each cell
// carries the point counts the structured block built for it should have.
package butterfly

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// NumCells is the cell count of a two-layer box.
const NumCells = 9

// NumPoints is the point count of a two-layer box.
const NumPoints = 24

// Ring insets as a fraction of the box extent.
const (
	middleInset = 1.0 / 6
	innerInset  = 1.0 / 3
)

// DefaultCellDims is the seed dimension every cell gets unless
// WithCellDims is used.
var DefaultCellDims = [3]int{2, 2, 2}

type options struct {
	cellDims [NumCells][3]int
}

// Option configures Build.
type Option func(*options)

// WithCellDims attaches per-cell seed dimensions.
func WithCellDims(dims [NumCells][3]int) Option {
	return func(o *options) { o.cellDims = dims }
}

// Build returns the butterfly mesh of b. Only layers == 2 is supported.
//
// Points 0-3 are the outer corners at zmin counter-clockwise from
// (xmin, ymin), 4-7 the middle ring and 8-11 the inner ring; 12-23 repeat
// them at zmax.
func Build(b geom.Bounds, layers int, opts ...Option) (*mesh.Unstructured, error) {
	if layers != 2 {
		return nil, fmt.Errorf("butterfly: %d layers: %w", layers, geom.ErrUnsupportedLayers)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("butterfly: %w", err)
	}
	o := options{}
	for c := range o.cellDims {
		o.cellDims[c] = DefaultCellDims
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &mesh.Unstructured{
		Points:    make([]geom.Point3, 0, NumPoints),
		Status:    make([]int, NumPoints),
		CellSeeds: make([][3]int, NumCells),
	}
	for _, z := range [2]float64{b.Min.Z, b.Max.Z} {
		for _, inset := range [3]float64{0, middleInset, innerInset} {
			m.Points = append(m.Points, ring(b, inset, z)...)
		}
	}
	for i := range m.Status {
		m.Status[i] = geom.StatusFree
	}

	const top = 12
	quad := func(a, b, c, d int) [8]int {
		return [8]int{a, b, c, d, a + top, b + top, c + top, d + top}
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		m.Cells = append(m.Cells, quad(i, j, 4+j, 4+i))
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		m.Cells = append(m.Cells, quad(4+i, 4+j, 8+j, 8+i))
	}
	m.Cells = append(m.Cells, quad(8, 9, 10, 11))
	copy(m.CellSeeds, o.cellDims[:])
	return m, nil
}

// ring returns the four corners of b inset by the given fraction, at
// height z, counter-clockwise from the (min x, min y) corner.
func ring(b geom.Bounds, inset, z float64) []geom.Point3 {
	s := b.Size()
	x0, x1 := b.Min.X+inset*s.X, b.Max.X-inset*s.X
	y0, y1 := b.Min.Y+inset*s.Y, b.Max.Y-inset*s.Y
	return []geom.Point3{
		{X: x0, Y: y0, Z: z},
		{X: x1, Y: y0, Z: z},
		{X: x1, Y: y1, Z: z},
		{X: x0, Y: y1, Z: z},
	}
}

// CellDims returns the seed dimensions of every cell of a butterfly mesh,
// falling back to DefaultCellDims for a mesh built without them.
func CellDims(m *mesh.Unstructured) ([NumCells][3]int, error) {
	var dims [NumCells][3]int
	if m.NumCells() != NumCells {
		return dims, fmt.Errorf("butterfly: mesh has %d cells, want %d", m.NumCells(), NumCells)
	}
	for c := range dims {
		dims[c] = DefaultCellDims
		if c < len(m.CellSeeds) {
			dims[c] = m.CellSeeds[c]
		}
	}
	return dims, nil
}
