package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// inpLineItems is the most ids Abaqus accepts on one data line of a set.
const inpLineItems = 16

// WriteINP writes m as an Abaqus input deck: nodes, C3D8 elements in one
// element set named after the mesh, a FIXED node set holding every point
// with fixed status, and one element set per block. Ids are 1-based.
// C3D8 and VTK hexahedra share the same corner order.
func WriteINP(w io.Writer, m *mesh.Unstructured, name string) error {
	bw := bufio.NewWriter(w)
	set := inpName(name)

	fmt.Fprintf(bw, "*HEADING\n%s\n", set)

	fmt.Fprintf(bw, "*NODE\n")
	for i, p := range m.Points {
		fmt.Fprintf(bw, "%d, %.17g, %.17g, %.17g\n", i+1, p.X, p.Y, p.Z)
	}

	fmt.Fprintf(bw, "*ELEMENT, TYPE=C3D8, ELSET=%s\n", set)
	for i, c := range m.Cells {
		fmt.Fprintf(bw, "%d, %d, %d, %d, %d, %d, %d, %d, %d\n", i+1,
			c[0]+1, c[1]+1, c[2]+1, c[3]+1, c[4]+1, c[5]+1, c[6]+1, c[7]+1)
	}

	fixed := lo.Filter(lo.Range(m.NumPoints()), func(i, _ int) bool {
		return m.StatusAt(i) == geom.StatusFixed
	})
	if len(fixed) > 0 {
		fmt.Fprintf(bw, "*NSET, NSET=FIXED\n")
		writeIDs(bw, fixed)
	}

	for b, blk := range m.Blocks {
		if blk.Cells[1] <= blk.Cells[0] {
			continue
		}
		fmt.Fprintf(bw, "*ELSET, ELSET=%s_B%d, GENERATE\n%d, %d, 1\n", set, b, blk.Cells[0]+1, blk.Cells[1])
	}
	return bw.Flush()
}

// writeIDs writes 0-based ids as 1-based comma-separated data lines.
func writeIDs(w io.Writer, ids []int) {
	for _, line := range lo.Chunk(ids, inpLineItems) {
		parts := lo.Map(line, func(id, _ int) string { return fmt.Sprint(id + 1) })
		fmt.Fprintf(w, "%s\n", strings.Join(parts, ", "))
	}
}

// inpName turns a mesh name into an Abaqus set label: letters, digits and
// underscores, starting with a letter, upper case.
func inpName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
	if s == "" || !(s[0] >= 'a' && s[0] <= 'z' || s[0] >= 'A' && s[0] <= 'Z') {
		s = "MESH_" + s
	}
	return strings.ToUpper(strings.TrimRight(s, "_"))
}
