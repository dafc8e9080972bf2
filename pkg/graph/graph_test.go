package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildQuad creates a face lofted from four connecting edges between input
// points 0..3, plus one reversed edge and a side edge taken from the face.
func buildQuad() *Graph {
	g := New()
	g.SeedSlots = 1
	for i := 0; i < 4; i++ {
		g.MustAdd(&Node{
			ID: EdgeID(i), Kind: NodeEdge,
			Data: EdgeData{
				Source: ConnectSource{From: PointAnchor(i), To: PointAnchor((i + 1) % 4)},
				Seed:   0,
			},
		})
	}
	g.MustAdd(&Node{
		ID: FaceID(0), Kind: NodeFace,
		Data: FaceData{Source: LoftSource{Edges: [4]NodeID{EdgeID(0), EdgeID(1), EdgeID(2), EdgeID(3)}}},
	})
	g.MustAdd(&Node{
		ID: EdgeID(4), Kind: NodeEdge,
		Data: EdgeData{Source: SideSource{Face: FaceID(0), Side: 2}, Seed: NoSeed},
	})
	g.MustAdd(&Node{
		ID: EdgeID(5), Kind: NodeEdge,
		Data: EdgeData{Source: ReverseSource{Of: EdgeID(4)}, Seed: NoSeed},
	})
	g.MustAdd(&Node{
		ID: FaceID(1), Kind: NodeFace,
		Data: FaceData{Source: LoftSource{Edges: [4]NodeID{EdgeID(4), EdgeID(5), EdgeID(4), EdgeID(5)}}},
	})
	return g
}

// hasFinding reports whether findings contains one of the given severity
// whose message contains substr.
func hasFinding(findings []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, f := range findings {
		if f.Severity == sev && strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestNodeIDs(t *testing.T) {
	tests := []struct {
		got, want NodeID
	}{
		{EdgeID(7), "edge/07"},
		{EdgeID(51), "edge/51"},
		{FaceID(3), "face/03"},
		{BlockID(8), "block/8"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("id = %q, want %q", tt.got, tt.want)
		}
	}
	if !ZeroID.IsZero() || EdgeID(0).IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestAddDuplicate(t *testing.T) {
	g := New()
	n := &Node{ID: EdgeID(0), Kind: NodeEdge, Data: EdgeData{Source: ArcSource{}, Seed: NoSeed}}
	if err := g.Add(n); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add(n); err == nil {
		t.Error("second Add = nil error, want duplicate error")
	}
	if g.AddIfAbsent(&Node{ID: EdgeID(0), Kind: NodeEdge}) {
		t.Error("AddIfAbsent(existing) = true, want false")
	}
	if g.Get(EdgeID(0)) != n {
		t.Error("AddIfAbsent replaced the first declaration")
	}
	if err := g.Add(&Node{Kind: NodeEdge}); err == nil {
		t.Error("Add(empty id) = nil error, want error")
	}
}

func TestNodesKeepDeclarationOrder(t *testing.T) {
	g := buildQuad()
	nodes := g.Nodes()
	if len(nodes) != g.NodeCount() || len(nodes) != 8 {
		t.Fatalf("len(Nodes) = %d, NodeCount = %d, want 8", len(nodes), g.NodeCount())
	}
	if nodes[4].ID != FaceID(0) {
		t.Errorf("nodes[4] = %s, want %s", nodes[4].ID, FaceID(0))
	}
	if got := len(g.OfKind(NodeFace)); got != 2 {
		t.Errorf("len(OfKind(face)) = %d, want 2", got)
	}
	if got := len(g.Consumers(EdgeID(4))); got != 2 {
		t.Errorf("len(Consumers(edge/04)) = %d, want 2", got)
	}
}

func TestValidateClean(t *testing.T) {
	g := buildQuad()
	findings := Validate(g)
	if err := Err(findings); err != nil {
		t.Fatalf("Err(Validate) = %v, want nil", err)
	}
	// face/01 is consumed by nothing.
	if !hasFinding(findings, SeverityWarning, "not used") {
		t.Errorf("findings = %v, want unused-face warning", findings)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *Graph)
		want   string
	}{
		{
			name: "dangling edge",
			mutate: func(g *Graph) {
				g.Get(FaceID(0)).Data = FaceData{Source: LoftSource{Edges: [4]NodeID{EdgeID(0), EdgeID(1), EdgeID(2), EdgeID(99)}}}
			},
			want: "non-existent",
		},
		{
			name: "kind mismatch",
			mutate: func(g *Graph) {
				g.Get(EdgeID(5)).Data = EdgeData{Source: ReverseSource{Of: FaceID(0)}, Seed: NoSeed}
			},
			want: "where a edge is required",
		},
		{
			name: "seed out of range",
			mutate: func(g *Graph) {
				g.Get(EdgeID(0)).Data = EdgeData{Source: ConnectSource{From: PointAnchor(0), To: PointAnchor(1)}, Seed: 3}
			},
			want: "seed slot 3",
		},
		{
			name: "bad side",
			mutate: func(g *Graph) {
				g.Get(EdgeID(4)).Data = EdgeData{Source: SideSource{Face: FaceID(0), Side: 4}, Seed: NoSeed}
			},
			want: "side 4",
		},
		{
			name: "cycle",
			mutate: func(g *Graph) {
				g.Get(EdgeID(0)).Data = EdgeData{Source: SideSource{Face: FaceID(0), Side: 0}, Seed: NoSeed}
			},
			want: "cycle",
		},
		{
			name: "missing block face",
			mutate: func(g *Graph) {
				g.MustAdd(&Node{ID: BlockID(0), Kind: NodeBlock, Data: BlockData{}})
			},
			want: "missing face reference",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildQuad()
			tt.mutate(g)
			findings := Validate(g)
			if !hasFinding(findings, SeverityError, tt.want) {
				t.Errorf("findings = %v, want error containing %q", findings, tt.want)
			}
			if Err(findings) == nil {
				t.Error("Err = nil, want error")
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{NodeID: EdgeID(1), Message: "boom", Severity: SeverityError}
	if got, want := e.Error(), "[error] node edge/01: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	w := ValidationError{Message: "empty", Severity: SeverityWarning}
	if got, want := w.Error(), "[warning] empty"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTopoOrder(t *testing.T) {
	g := buildQuad()
	order, err := TopoOrder(g)
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	pos := make(map[NodeID]int)
	for i, n := range order {
		pos[n.ID] = i
	}
	if len(pos) != g.NodeCount() {
		t.Fatalf("len(order) = %d, want %d", len(pos), g.NodeCount())
	}
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			if pos[in] >= pos[n.ID] {
				t.Errorf("%s ordered before its input %s", n.ID, in)
			}
		}
	}
}

func TestTopoOrderRoots(t *testing.T) {
	g := buildQuad()
	order, err := TopoOrder(g, EdgeID(4))
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	// Four loft edges, the face, then the side edge.
	if len(order) != 6 {
		t.Fatalf("len(order) = %d, want 6", len(order))
	}
	if order[5].ID != EdgeID(4) {
		t.Errorf("last = %s, want %s", order[5].ID, EdgeID(4))
	}
	if _, err := TopoOrder(g, "edge/missing"); err == nil {
		t.Error("TopoOrder(unknown) = nil error, want error")
	}
}

func TestTopoOrderCycle(t *testing.T) {
	g := buildQuad()
	g.Get(EdgeID(0)).Data = EdgeData{Source: SideSource{Face: FaceID(0), Side: 0}, Seed: NoSeed}
	if _, err := TopoOrder(g); err == nil {
		t.Error("TopoOrder(cyclic) = nil error, want error")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildQuad())
	for _, want := range []string{
		"digraph mesh {",
		`"edge/00" -> "face/00";`,
		`"face/00" -> "edge/04";`,
		"side 2",
		"reversed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT missing %q", want)
		}
	}
	// Repeated inputs yield a single arrow.
	if n := strings.Count(dot, `"edge/04" -> "face/01";`); n != 1 {
		t.Errorf("edge/04 -> face/01 arrows = %d, want 1", n)
	}
}
