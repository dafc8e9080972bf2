package cylinder

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/kernel"
	"github.com/chazu/spinemesh/pkg/kernel/sdfx"
	"github.com/chazu/spinemesh/pkg/mesh"
)

func testSpec(seeds Seeds) Spec {
	return Spec{
		Center:      geom.Point3{X: 1, Y: -2, Z: 3},
		Radius:      10,
		InnerRadius: 7,
		Height:      6,
		Seeds:       seeds,
		Samples:     96,
	}
}

func TestTopology(t *testing.T) {
	g := Topology()
	findings := graph.Validate(g)
	if err := graph.Err(findings); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, f := range findings {
		t.Errorf("unexpected finding: %v", f)
	}

	tests := []struct {
		kind graph.NodeKind
		want int
	}{
		{graph.NodeEdge, 52 + 4},
		{graph.NodeFace, 40},
		{graph.NodeBlock, NumBlocks},
	}
	for _, tt := range tests {
		if got := len(g.OfKind(tt.kind)); got != tt.want {
			t.Errorf("%s count = %d, want %d", tt.kind, got, tt.want)
		}
	}

	order, err := graph.TopoOrder(g, BlockIDs()...)
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	if len(order) != g.NodeCount() {
		t.Errorf("blocks reach %d nodes, want all %d", len(order), g.NodeCount())
	}
}

func TestSeedsRoundTrip(t *testing.T) {
	want := Seeds{3, 2, 4, 5, 6}
	box, err := butterfly.Build(geom.NewBounds(0, 1, 0, 1, 0, 1), 2, butterfly.WithCellDims(want.BoxDims()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := SeedsFromBox(box)
	if err != nil {
		t.Fatalf("SeedsFromBox: %v", err)
	}
	if got != want {
		t.Errorf("SeedsFromBox = %v, want %v", got, want)
	}

	// The default box has one division everywhere.
	plain, _ := butterfly.Build(geom.NewBounds(0, 1, 0, 1, 0, 1), 2)
	if got, err := SeedsFromBox(plain); err != nil || got != (Seeds{1, 1, 1, 1, 1}) {
		t.Errorf("SeedsFromBox(default) = %v, %v, want all ones", got, err)
	}

	if err := (Seeds{1, 0, 1, 1, 1}).Validate(); err == nil {
		t.Error("Validate(s1=0) = nil, want error")
	}
}

func TestOrient(t *testing.T) {
	ccw := Circle(0, 0, 0, 1, 8)
	if got := Orient(ccw); got.Points[1] != ccw.Points[1] {
		t.Error("Orient changed a counter-clockwise loop")
	}
	closed := ccw.Reverse()
	closed.Points = append(closed.Points, closed.Points[0])
	got := Orient(closed)
	if got.Len() != 8 {
		t.Fatalf("Len = %d, want 8 without the closing point", got.Len())
	}
	if got.SignedAreaXY() <= 0 {
		t.Error("Orient left a clockwise loop")
	}
}

func TestDivide(t *testing.T) {
	loop := Circle(0, 0, 0, 1, 16)
	nodes := [4]geom.Point3{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	arcs, err := Divide(loop, nodes, 1e-12)
	if err != nil {
		t.Fatalf("Divide: %v", err)
	}

	r := math.Sqrt2 / 2
	corners := [4]geom.Point3{{X: -r, Y: -r}, {X: r, Y: -r}, {X: r, Y: r}, {X: -r, Y: r}}
	var total float64
	for i, a := range arcs {
		if geom.Dist(a.First(), corners[i]) > 1e-9 || geom.Dist(a.Last(), corners[(i+1)%4]) > 1e-9 {
			t.Errorf("arc %d runs %v -> %v, want %v -> %v", i, a.First(), a.Last(), corners[i], corners[(i+1)%4])
		}
		// Each quarter holds four polygon edges.
		if a.Len() != 5 {
			t.Errorf("arc %d has %d points, want 5", i, a.Len())
		}
		total += a.Length()
	}
	perimeter := 16 * 2 * math.Sin(math.Pi/16)
	if math.Abs(total-perimeter) > 1e-9 {
		t.Errorf("total arc length = %v, want %v", total, perimeter)
	}
}

func TestDivideErrors(t *testing.T) {
	if _, err := Divide(geom.NewCurve(geom.Point3{}), [4]geom.Point3{}, 1e-12); !errors.Is(err, geom.ErrDegenerateProjection) {
		t.Errorf("Divide(single point) err = %v, want ErrDegenerateProjection", err)
	}
	// All four nodes cut at the same place.
	loop := Circle(0, 0, 0, 1, 8)
	p := geom.Point3{X: 5}
	if _, err := Divide(loop, [4]geom.Point3{p, p, p, p}, 1e-12); !errors.Is(err, geom.ErrDegenerateProjection) {
		t.Errorf("Divide(same nodes) err = %v, want ErrDegenerateProjection", err)
	}
	if _, err := DivideBoundary([NumCurves]geom.Curve{}, nil); err == nil {
		t.Error("DivideBoundary(no box) = nil error, want error")
	}
}

func TestBuildBody(t *testing.T) {
	tests := []struct {
		name  string
		seeds Seeds
	}{
		{"uniform", Seeds{2, 2, 2, 2, 2}},
		{"mixed", Seeds{3, 2, 4, 5, 2}},
	}
	k := sdfx.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Generate(k, testSpec(tt.seeds))
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			m, err := Build(in)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := len(m.Blocks); got != NumBlocks {
				t.Errorf("len(Blocks) = %d, want %d", got, NumBlocks)
			}
			if m.NumCells() != tt.seeds.NumCells() {
				t.Errorf("NumCells = %d, want %d", m.NumCells(), tt.seeds.NumCells())
			}
			if m.NumPoints() != tt.seeds.NumPoints() {
				t.Errorf("NumPoints = %d, want %d", m.NumPoints(), tt.seeds.NumPoints())
			}
			if d := m.DuplicatePoints(1e-6); d != 0 {
				t.Errorf("DuplicatePoints = %d, want 0", d)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if q := m.Quality(); q.Inverted != 0 {
				t.Errorf("Inverted = %d, want 0 (min scaled Jacobian %v)", q.Inverted, q.MinScaledJacobian)
			}
		})
	}
}

func TestBuildBodyStatusAndBounds(t *testing.T) {
	spec := testSpec(Seeds{2, 2, 2, 2, 2})
	in, err := Generate(sdfx.New(), spec)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	m, err := Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b := m.Bounds()
	want := spec.Bounds()
	if math.Abs(b.Min.Z-want.Min.Z) > 1e-9 || math.Abs(b.Max.Z-want.Max.Z) > 1e-9 {
		t.Errorf("z range = [%v, %v], want [%v, %v]", b.Min.Z, b.Max.Z, want.Min.Z, want.Max.Z)
	}
	if b.Max.X > want.Max.X+1e-6 || b.Min.Y < want.Min.Y-1e-6 {
		t.Errorf("bounds %v exceed %v", b, want)
	}

	// The endplate rings between the rims are fixed; the rest is free.
	for i, p := range m.Points {
		onCap := math.Abs(p.Z-want.Min.Z) < 1e-9 || math.Abs(p.Z-want.Max.Z) < 1e-9
		r := math.Hypot(p.X-spec.Center.X, p.Y-spec.Center.Y)
		if onCap && r > spec.InnerRadius-0.01 && m.StatusAt(i) != geom.StatusFixed {
			t.Errorf("endplate point %d %v status = %d, want fixed", i, p, m.StatusAt(i))
		}
	}
	var free int
	for i := range m.Points {
		if m.StatusAt(i) == geom.StatusFree {
			free++
		}
	}
	if free == 0 {
		t.Error("no free points in the body interior")
	}
}

func TestBuildBodyScriptedSolid(t *testing.T) {
	k := sdfx.New()
	plain := testSpec(Seeds{2, 2, 2, 2, 2})
	clipped := plain
	// The turned cube clears the rim, so the surface near the mesh is the
	// same cylinder.
	clipped.Solid = kernel.NewIntersection(
		kernel.NewCylinder(plain.Height, plain.Radius),
		kernel.NewRotate(kernel.NewBox(30, 30, 30), 0, 0, 45),
	)

	var meshes [2]*mesh.Unstructured
	for i, s := range []Spec{plain, clipped} {
		in, err := Generate(k, s)
		if err != nil {
			t.Fatalf("Generate(%d): %v", i, err)
		}
		if meshes[i], err = Build(in); err != nil {
			t.Fatalf("Build(%d): %v", i, err)
		}
	}
	if meshes[0].NumPoints() != meshes[1].NumPoints() {
		t.Fatalf("NumPoints = %d, want %d", meshes[1].NumPoints(), meshes[0].NumPoints())
	}
	for i := range meshes[0].Points {
		if d := geom.Dist(meshes[0].Points[i], meshes[1].Points[i]); d > 1e-6 {
			t.Errorf("point %d moved by %g", i, d)
		}
	}

	bad := plain
	bad.Solid = kernel.NewBox(1, 1, 0)
	if _, err := Generate(k, bad); err == nil {
		t.Error("Generate(flat solid) = nil error, want error")
	}
}

func TestBuildErrors(t *testing.T) {
	in, err := Generate(sdfx.New(), testSpec(Seeds{1, 1, 1, 1, 1}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	noSurface := in
	noSurface.Surface = nil
	if _, err := Build(noSurface); !errors.Is(err, geom.ErrDegenerateProjection) {
		t.Errorf("Build(no surface) err = %v, want ErrDegenerateProjection", err)
	}

	noBox := in
	noBox.Box = nil
	if _, err := Build(noBox); err == nil {
		t.Error("Build(no box) = nil error, want error")
	}

	flat := in
	flat.Box = &mesh.Unstructured{}
	if _, err := Build(flat); err == nil {
		t.Error("Build(empty box) = nil error, want error")
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"zero radius", func(s *Spec) { s.Radius = 0 }},
		{"inner too small", func(s *Spec) { s.InnerRadius = 4 }},
		{"inner too large", func(s *Spec) { s.InnerRadius = 10 }},
		{"few samples", func(s *Spec) { s.Samples = 4 }},
		{"bad seeds", func(s *Spec) { s.Seeds[4] = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSpec(Seeds{1, 1, 1, 1, 1})
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate = nil, want error")
			}
		})
	}
}
