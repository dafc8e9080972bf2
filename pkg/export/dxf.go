package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// DXF layer names. An edge is on the fixed layer when both of its end
// points are fixed.
const (
	LayerFixed = "FIXED"
	LayerFree  = "FREE"
)

// WriteDXF writes the unique cell edges of m to path as 3D LINE entities.
func WriteDXF(path string, m *mesh.Unstructured) error {
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerFree, color.Cyan, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("export: dxf: %w", err)
	}
	if _, err := d.AddLayer(LayerFixed, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("export: dxf: %w", err)
	}

	var fixed, free [][2]int
	for _, e := range m.Edges() {
		if m.StatusAt(e[0]) == geom.StatusFixed && m.StatusAt(e[1]) == geom.StatusFixed {
			fixed = append(fixed, e)
		} else {
			free = append(free, e)
		}
	}

	for _, layer := range []struct {
		name  string
		edges [][2]int
	}{{LayerFree, free}, {LayerFixed, fixed}} {
		if err := d.ChangeLayer(layer.name); err != nil {
			return fmt.Errorf("export: dxf: %w", err)
		}
		for _, e := range layer.edges {
			a, b := m.Points[e[0]], m.Points[e[1]]
			if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
				return fmt.Errorf("export: dxf: %w", err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}
