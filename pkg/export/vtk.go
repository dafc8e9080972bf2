package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/spinemesh/pkg/mesh"
)

// vtkHexahedron is the VTK cell type id of an 8-node hexahedron.
const vtkHexahedron = 12

// WriteVTK writes m as an ASCII legacy VTK unstructured grid. Point status
// goes out as the "status" point scalar and the block index of each cell as
// the "block" cell scalar when the mesh carries blocks.
func WriteVTK(w io.Writer, m *mesh.Unstructured, title string) error {
	bw := bufio.NewWriter(w)

	// The title line ends the header and may not contain a newline.
	title = strings.ReplaceAll(title, "\n", " ")
	if title == "" {
		title = "spinemesh"
	}
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)

	fmt.Fprintf(bw, "POINTS %d double\n", m.NumPoints())
	for _, p := range m.Points {
		fmt.Fprintf(bw, "%.17g %.17g %.17g\n", p.X, p.Y, p.Z)
	}

	fmt.Fprintf(bw, "CELLS %d %d\n", m.NumCells(), 9*m.NumCells())
	for _, c := range m.Cells {
		fmt.Fprintf(bw, "8 %d %d %d %d %d %d %d %d\n", c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7])
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", m.NumCells())
	for range m.Cells {
		fmt.Fprintf(bw, "%d\n", vtkHexahedron)
	}

	fmt.Fprintf(bw, "POINT_DATA %d\nSCALARS status int 1\nLOOKUP_TABLE default\n", m.NumPoints())
	for i := range m.Points {
		fmt.Fprintf(bw, "%d\n", m.StatusAt(i))
	}

	if len(m.Blocks) > 0 {
		fmt.Fprintf(bw, "CELL_DATA %d\nSCALARS block int 1\nLOOKUP_TABLE default\n", m.NumCells())
		for _, b := range cellBlocks(m) {
			fmt.Fprintf(bw, "%d\n", b)
		}
	}
	return bw.Flush()
}

// cellBlocks returns the block index of every cell, -1 for cells outside
// all blocks.
func cellBlocks(m *mesh.Unstructured) []int {
	out := make([]int, m.NumCells())
	for i := range out {
		out[i] = -1
	}
	for b, blk := range m.Blocks {
		for c := blk.Cells[0]; c < blk.Cells[1] && c < len(out); c++ {
			out[c] = b
		}
	}
	return out
}
