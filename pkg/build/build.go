// Package build resolves a mesh dependency graph into curves, planar
// faces and solid blocks. Nodes are built on first use and cached for the
// lifetime of one Evaluator; nothing is shared between evaluators.
package build

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/grid"
	"github.com/chazu/spinemesh/pkg/locate"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// ErrCycle is returned when a node depends on itself.
var ErrCycle = errors.New("dependency cycle")

// Inputs are the concrete values graph recipes refer to by index.
type Inputs struct {
	// Arcs[c][a] is arc a of divided input curve c.
	Arcs [][]geom.Curve
	// Points are fixed anchor points, e.g. butterfly box nodes.
	Points []geom.Point3
	// Seeds are the division counts edges refer to by slot.
	Seeds []int
	// Surface is the projection target; required only when a node
	// projects.
	Surface locate.Surface
	// Bodies are merged meshes faces can be extracted from.
	Bodies []*mesh.Unstructured
	// Center orients bulged edges: the bulge points away from it.
	Center geom.Point3
}

// NodeError wraps a failure with the node that caused it.
type NodeError struct {
	ID   graph.NodeID
	Kind graph.NodeKind
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("build %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger node builds are reported to.
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// Evaluator builds graph nodes on demand.
type Evaluator struct {
	g   *graph.Graph
	in  Inputs
	log *log.Logger

	edges    map[graph.NodeID]geom.Curve
	faces    map[graph.NodeID]*grid.StructuredGrid
	blocks   map[graph.NodeID]*grid.StructuredGrid
	building map[graph.NodeID]bool
}

// New returns an evaluator for g over the given inputs.
func New(g *graph.Graph, in Inputs, opts ...Option) *Evaluator {
	e := &Evaluator{
		g:        g,
		in:       in,
		log:      log.New(io.Discard),
		edges:    make(map[graph.NodeID]geom.Curve),
		faces:    make(map[graph.NodeID]*grid.StructuredGrid),
		blocks:   make(map[graph.NodeID]*grid.StructuredGrid),
		building: make(map[graph.NodeID]bool),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Stats returns how many edges, faces and blocks have been built.
func (e *Evaluator) Stats() (edges, faces, blocks int) {
	return len(e.edges), len(e.faces), len(e.blocks)
}

// Edge returns the curve of edge id, building it and its inputs if needed.
func (e *Evaluator) Edge(id graph.NodeID) (geom.Curve, error) {
	if c, ok := e.edges[id]; ok {
		return c, nil
	}
	n, err := e.enter(id, graph.NodeEdge)
	if err != nil {
		return geom.Curve{}, err
	}
	defer delete(e.building, id)

	d, ok := n.Data.(graph.EdgeData)
	if !ok {
		return geom.Curve{}, e.fail(n, fmt.Errorf("data is %T", n.Data))
	}
	c, err := e.buildEdge(d)
	if err != nil {
		return geom.Curve{}, e.fail(n, err)
	}
	e.edges[id] = c
	e.log.Debug("built edge", "id", id, "points", c.Len())
	return c, nil
}

// Face returns the planar grid of face id.
func (e *Evaluator) Face(id graph.NodeID) (*grid.StructuredGrid, error) {
	if f, ok := e.faces[id]; ok {
		return f, nil
	}
	n, err := e.enter(id, graph.NodeFace)
	if err != nil {
		return nil, err
	}
	defer delete(e.building, id)

	d, ok := n.Data.(graph.FaceData)
	if !ok {
		return nil, e.fail(n, fmt.Errorf("data is %T", n.Data))
	}
	f, err := e.buildFace(d)
	if err != nil {
		return nil, e.fail(n, err)
	}
	e.faces[id] = f
	e.log.Debug("built face", "id", id, "dims", f.Dims)
	return f, nil
}

// Block returns the solid grid of block id.
func (e *Evaluator) Block(id graph.NodeID) (*grid.StructuredGrid, error) {
	if b, ok := e.blocks[id]; ok {
		return b, nil
	}
	n, err := e.enter(id, graph.NodeBlock)
	if err != nil {
		return nil, err
	}
	defer delete(e.building, id)

	d, ok := n.Data.(graph.BlockData)
	if !ok {
		return nil, e.fail(n, fmt.Errorf("data is %T", n.Data))
	}
	var faces [6]*grid.StructuredGrid
	for i, fid := range d.Faces {
		if faces[i], err = e.Face(fid); err != nil {
			return nil, e.fail(n, err)
		}
	}
	b, err := grid.Solid(faces)
	if err != nil {
		return nil, e.fail(n, err)
	}
	e.blocks[id] = b
	e.log.Debug("built block", "id", id, "dims", b.Dims)
	return b, nil
}

// Blocks builds each of ids in order.
func (e *Evaluator) Blocks(ids ...graph.NodeID) ([]*grid.StructuredGrid, error) {
	out := make([]*grid.StructuredGrid, len(ids))
	for i, id := range ids {
		b, err := e.Block(id)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// enter looks up id, checks its kind and marks it in progress.
func (e *Evaluator) enter(id graph.NodeID, kind graph.NodeKind) (*graph.Node, error) {
	n := e.g.Get(id)
	if n == nil {
		return nil, &NodeError{ID: id, Kind: kind, Err: errors.New("no such node")}
	}
	if n.Kind != kind {
		return nil, &NodeError{ID: id, Kind: kind, Err: fmt.Errorf("node is a %s", n.Kind)}
	}
	if e.building[id] {
		return nil, &NodeError{ID: id, Kind: kind, Err: ErrCycle}
	}
	e.building[id] = true
	return n, nil
}

// fail wraps err with n unless it already names a node, so the innermost
// failing node is reported.
func (e *Evaluator) fail(n *graph.Node, err error) error {
	var ne *NodeError
	if errors.As(err, &ne) {
		return err
	}
	return &NodeError{ID: n.ID, Kind: n.Kind, Err: err}
}

// ---------------------------------------------------------------------------
// Edges
// ---------------------------------------------------------------------------

func (e *Evaluator) buildEdge(d graph.EdgeData) (geom.Curve, error) {
	var (
		c   geom.Curve
		err error
	)
	switch s := d.Source.(type) {
	case graph.ArcSource:
		c, err = e.arc(s)
	case graph.ConnectSource:
		c, err = e.connect(s)
	case graph.ReverseSource:
		c, err = e.Edge(s.Of)
		c = c.Reverse()
	case graph.SideSource:
		var f *grid.StructuredGrid
		if f, err = e.Face(s.Face); err == nil {
			c, err = f.Side(s.Side)
		}
	default:
		err = fmt.Errorf("unknown edge source %T", d.Source)
	}
	if err != nil {
		return geom.Curve{}, err
	}

	if d.Seed != graph.NoSeed {
		n, err := e.seed(d.Seed)
		if err != nil {
			return geom.Curve{}, err
		}
		if c, err = geom.Subdivide(c, n); err != nil {
			return geom.Curve{}, err
		}
	}
	if cs, ok := d.Source.(graph.ConnectSource); ok && cs.Bulge != 0 {
		c = Bulge(c, e.in.Center, cs.Bulge)
	}
	if d.Project {
		pts, err := e.project(c.Points)
		if err != nil {
			return geom.Curve{}, err
		}
		c = geom.Curve{Points: pts, Status: c.Status}
	}
	if d.ForceStatus {
		c = c.WithStatus(d.Status)
	}
	return c, nil
}

func (e *Evaluator) arc(s graph.ArcSource) (geom.Curve, error) {
	if s.Curve < 0 || s.Curve >= len(e.in.Arcs) {
		return geom.Curve{}, fmt.Errorf("curve %d out of range [0,%d)", s.Curve, len(e.in.Arcs))
	}
	arcs := e.in.Arcs[s.Curve]
	if s.Arc < 0 || s.Arc >= len(arcs) {
		return geom.Curve{}, fmt.Errorf("arc %d of curve %d out of range [0,%d)", s.Arc, s.Curve, len(arcs))
	}
	return arcs[s.Arc], nil
}

func (e *Evaluator) connect(s graph.ConnectSource) (geom.Curve, error) {
	a, err := e.anchor(s.From)
	if err != nil {
		return geom.Curve{}, fmt.Errorf("from %s: %w", s.From, err)
	}
	b, err := e.anchor(s.To)
	if err != nil {
		return geom.Curve{}, fmt.Errorf("to %s: %w", s.To, err)
	}
	return geom.Line(a, b), nil
}

func (e *Evaluator) anchor(a graph.Anchor) (geom.Point3, error) {
	switch a.Kind {
	case graph.AnchorPoint:
		if a.Point < 0 || a.Point >= len(e.in.Points) {
			return geom.Point3{}, fmt.Errorf("point %d out of range [0,%d)", a.Point, len(e.in.Points))
		}
		return e.in.Points[a.Point], nil
	case graph.AnchorEdgeEnd:
		c, err := e.Edge(a.Node)
		if err != nil {
			return geom.Point3{}, err
		}
		if c.IsEmpty() {
			return geom.Point3{}, geom.ErrInsufficientPoints
		}
		if a.End == graph.Last {
			return c.Last(), nil
		}
		return c.First(), nil
	case graph.AnchorFaceCorner:
		f, err := e.Face(a.Node)
		if err != nil {
			return geom.Point3{}, err
		}
		return f.Corner(a.Corner)
	}
	return geom.Point3{}, fmt.Errorf("unknown anchor kind %d", a.Kind)
}

func (e *Evaluator) seed(slot int) (int, error) {
	if slot < 0 || slot >= len(e.in.Seeds) {
		return 0, fmt.Errorf("seed slot %d out of range [0,%d)", slot, len(e.in.Seeds))
	}
	return e.in.Seeds[slot], nil
}

func (e *Evaluator) project(pts []geom.Point3) ([]geom.Point3, error) {
	if e.in.Surface == nil {
		return nil, fmt.Errorf("no surface to project onto: %w", geom.ErrDegenerateProjection)
	}
	return locate.Project(e.in.Surface, pts)
}

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

func (e *Evaluator) buildFace(d graph.FaceData) (*grid.StructuredGrid, error) {
	var (
		f   *grid.StructuredGrid
		err error
	)
	switch s := d.Source.(type) {
	case graph.LoftSource:
		f, err = e.loft(s)
	case graph.ExtractSource:
		f, err = e.extract(s)
	default:
		err = fmt.Errorf("unknown face source %T", d.Source)
	}
	if err != nil {
		return nil, err
	}

	if d.Project {
		pts, err := e.project(f.Points)
		if err != nil {
			return nil, err
		}
		f.Points = pts
	}
	if d.ForceStatus {
		f.ForceStatus(d.Status)
	}
	return f, nil
}

func (e *Evaluator) loft(s graph.LoftSource) (*grid.StructuredGrid, error) {
	var edges [4]geom.Curve
	for i, id := range s.Edges {
		c, err := e.Edge(id)
		if err != nil {
			return nil, err
		}
		edges[i] = c
	}
	return grid.Planar([2]int{edges[0].Len(), edges[1].Len()}, edges[0], edges[1], edges[2], edges[3])
}

func (e *Evaluator) extract(s graph.ExtractSource) (*grid.StructuredGrid, error) {
	if s.Body < 0 || s.Body >= len(e.in.Bodies) || e.in.Bodies[s.Body] == nil {
		return nil, fmt.Errorf("body %d out of range [0,%d)", s.Body, len(e.in.Bodies))
	}
	b, err := e.in.Bodies[s.Body].ExtractBlock(s.Block)
	if err != nil {
		return nil, err
	}
	return b.Face(s.Face)
}
