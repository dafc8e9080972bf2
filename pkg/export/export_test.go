package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// unitCube is a single hexahedron with its bottom face fixed.
func unitCube() *mesh.Unstructured {
	return &mesh.Unstructured{
		Points: []geom.Point3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Cells:  [][8]int{{0, 1, 2, 3, 4, 5, 6, 7}},
		Status: []int{0, 0, 0, 0, 1, 1, 1, 1},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"vtk", FormatVTK, false},
		{"INP", FormatINP, false},
		{".dxf", FormatDXF, false},
		{"stl", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteVTK(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVTK(&buf, unitCube(), "cube"); err != nil {
		t.Fatalf("WriteVTK: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# vtk DataFile Version 3.0\ncube\nASCII\nDATASET UNSTRUCTURED_GRID\n",
		"POINTS 8 double\n",
		"CELLS 1 9\n8 0 1 2 3 4 5 6 7\n",
		"CELL_TYPES 1\n12\n",
		"POINT_DATA 8\nSCALARS status int 1\nLOOKUP_TABLE default\n0\n0\n0\n0\n1\n1\n1\n1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("VTK output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "CELL_DATA") {
		t.Error("CELL_DATA written for a mesh without blocks")
	}
}

func TestWriteVTKBlocks(t *testing.T) {
	m, err := butterfly.Build(geom.NewBounds(0, 3, 0, 3, 0, 1), 2)
	if err != nil {
		t.Fatal(err)
	}
	m.Blocks = []mesh.Block{{Cells: [2]int{0, 4}}, {Cells: [2]int{4, 9}}}

	var buf bytes.Buffer
	if err := WriteVTK(&buf, m, ""); err != nil {
		t.Fatalf("WriteVTK: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\nspinemesh\n") {
		t.Error("empty title not replaced")
	}
	want := "CELL_DATA 9\nSCALARS block int 1\nLOOKUP_TABLE default\n0\n0\n0\n0\n1\n1\n1\n1\n1\n"
	if !strings.HasSuffix(out, want) {
		t.Errorf("VTK output does not end with block data %q", want)
	}
}

func TestWriteINP(t *testing.T) {
	m := unitCube()
	m.Blocks = []mesh.Block{{Cells: [2]int{0, 1}}}

	var buf bytes.Buffer
	if err := WriteINP(&buf, m, "l4-l5"); err != nil {
		t.Fatalf("WriteINP: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"*HEADING\nL4_L5\n",
		"*NODE\n1, 0, 0, 0\n",
		"8, 0, 1, 1\n",
		"*ELEMENT, TYPE=C3D8, ELSET=L4_L5\n1, 1, 2, 3, 4, 5, 6, 7, 8\n",
		"*NSET, NSET=FIXED\n1, 2, 3, 4\n",
		"*ELSET, ELSET=L4_L5_B0, GENERATE\n1, 1, 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("INP output missing %q\n%s", want, out)
		}
	}
}

func TestWriteIDsChunks(t *testing.T) {
	ids := make([]int, 20)
	for i := range ids {
		ids[i] = i
	}
	var buf bytes.Buffer
	writeIDs(&buf, ids)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[1] != "17, 18, 19, 20" {
		t.Errorf("second line = %q, want %q", lines[1], "17, 18, 19, 20")
	}
}

func TestINPName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"L4", "L4"},
		{"l4-l5", "L4_L5"},
		{"4th", "MESH_4TH"},
		{"", "MESH"},
		{"disc!", "DISC"},
	}
	for _, tt := range tests {
		if got := inpName(tt.in); got != tt.want {
			t.Errorf("inpName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	paths, err := WriteAll(dir, "L4/L5", Formats, unitCube())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != len(Formats) {
		t.Fatalf("paths = %v, want %d", paths, len(Formats))
	}
	for i, f := range Formats {
		want := filepath.Join(dir, "L4_L5"+f.Ext())
		if paths[i] != want {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want)
		}
		info, err := os.Stat(paths[i])
		if err != nil {
			t.Fatalf("stat %s: %v", paths[i], err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", paths[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "L4_L5.dxf"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"LINE", LayerFixed, LayerFree} {
		if !strings.Contains(string(data), want) {
			t.Errorf("DXF output missing %q", want)
		}
	}
}

func TestWriteFileEmptyMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vtk")
	if err := WriteFile(path, FormatVTK, &mesh.Unstructured{}, "empty"); err == nil {
		t.Fatal("WriteFile(empty mesh) = nil, want error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file created for empty mesh: %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"L4", "L4"},
		{"L4 L5", "L4_L5"},
		{"..", "mesh"},
		{"", "mesh"},
	}
	for _, tt := range tests {
		if got := fileName(tt.in); got != tt.want {
			t.Errorf("fileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
