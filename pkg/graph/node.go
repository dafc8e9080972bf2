package graph

import "fmt"

// NodeID is a symbolic node identifier such as "edge/07" or "face/20".
type NodeID string

// ZeroID is the empty identifier.
const ZeroID NodeID = ""

// IsZero reports whether id is empty.
func (id NodeID) IsZero() bool { return id == ZeroID }

func (id NodeID) String() string { return string(id) }

// EdgeID returns the id of numbered edge n.
func EdgeID(n int) NodeID { return NodeID(fmt.Sprintf("edge/%02d", n)) }

// FaceID returns the id of numbered face n.
func FaceID(n int) NodeID { return NodeID(fmt.Sprintf("face/%02d", n)) }

// BlockID returns the id of numbered block n.
func BlockID(n int) NodeID { return NodeID(fmt.Sprintf("block/%d", n)) }

// NodeKind enumerates the node types of the mesh graph.
type NodeKind int

const (
	NodeEdge  NodeKind = iota // polyline between two block corners
	NodeFace                  // planar structured grid
	NodeBlock                 // solid structured grid
)

func (k NodeKind) String() string {
	switch k {
	case NodeEdge:
		return "edge"
	case NodeFace:
		return "face"
	case NodeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Node is one element of the mesh graph.
type Node struct {
	ID   NodeID
	Kind NodeKind
	Data NodeData
}

// Inputs returns the ids the node is built from.
func (n *Node) Inputs() []NodeID {
	if n.Data == nil {
		return nil
	}
	return n.Data.inputs()
}

// NodeData is the interface for kind-specific node recipes.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
	inputs() []NodeID
}

// NoSeed marks an edge that is not resubdivided.
const NoSeed = -1

// ---------------------------------------------------------------------------
// Edges
// ---------------------------------------------------------------------------

// EdgeData builds a curve from Source, then optionally subdivides it into
// the seed count held in slot Seed, projects it onto the reference surface,
// and sets every point's status to Status.
type EdgeData struct {
	Source      EdgeSource
	Seed        int
	Project     bool
	ForceStatus bool
	Status      int
}

func (EdgeData) nodeData()          {}
func (d EdgeData) inputs() []NodeID { return d.Source.inputs() }

// EdgeSource is the interface for the ways an edge curve is obtained.
type EdgeSource interface {
	edgeSource()
	inputs() []NodeID
}

// ArcSource takes arc Arc of divided input curve Curve.
type ArcSource struct {
	Curve int
	Arc   int
}

// ConnectSource is the straight line between two anchors, displaced onto
// a circular arc with sagitta Bulge when Bulge is non-zero.
type ConnectSource struct {
	From, To Anchor
	Bulge    float64
}

// ReverseSource is another edge traversed backwards.
type ReverseSource struct {
	Of NodeID
}

// SideSource is boundary side Side (0..3) of a built face.
type SideSource struct {
	Face NodeID
	Side int
}

func (ArcSource) edgeSource()     {}
func (ConnectSource) edgeSource() {}
func (ReverseSource) edgeSource() {}
func (SideSource) edgeSource()    {}

func (ArcSource) inputs() []NodeID { return nil }

func (s ConnectSource) inputs() []NodeID {
	var ids []NodeID
	for _, a := range [2]Anchor{s.From, s.To} {
		if !a.Node.IsZero() {
			ids = append(ids, a.Node)
		}
	}
	return ids
}

func (s ReverseSource) inputs() []NodeID { return []NodeID{s.Of} }
func (s SideSource) inputs() []NodeID    { return []NodeID{s.Face} }

// End selects an endpoint of an edge.
type End int

const (
	First End = iota
	Last
)

func (e End) String() string {
	if e == Last {
		return "last"
	}
	return "first"
}

// AnchorKind enumerates where a connecting edge endpoint comes from.
type AnchorKind int

const (
	AnchorPoint      AnchorKind = iota // fixed input point
	AnchorEdgeEnd                      // endpoint of a built edge
	AnchorFaceCorner                   // corner of a built planar face
)

// Anchor is an endpoint of a connecting edge.
type Anchor struct {
	Kind   AnchorKind
	Point  int    // AnchorPoint: input point index
	Node   NodeID // AnchorEdgeEnd, AnchorFaceCorner
	End    End    // AnchorEdgeEnd
	Corner int    // AnchorFaceCorner: 0..3
}

// PointAnchor anchors at input point i.
func PointAnchor(i int) Anchor { return Anchor{Kind: AnchorPoint, Point: i} }

// EdgeEnd anchors at an endpoint of edge id.
func EdgeEnd(id NodeID, end End) Anchor { return Anchor{Kind: AnchorEdgeEnd, Node: id, End: end} }

// FaceCorner anchors at corner c of face id.
func FaceCorner(id NodeID, c int) Anchor { return Anchor{Kind: AnchorFaceCorner, Node: id, Corner: c} }

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorPoint:
		return fmt.Sprintf("point %d", a.Point)
	case AnchorEdgeEnd:
		return fmt.Sprintf("%s.%s", a.Node, a.End)
	case AnchorFaceCorner:
		return fmt.Sprintf("%s.corner%d", a.Node, a.Corner)
	}
	return "anchor?"
}

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

// FaceData builds a planar grid from Source, optionally projects every
// point onto the reference surface, and with ForceStatus replaces every
// non-zero status with Status.
type FaceData struct {
	Source      FaceSource
	Project     bool
	ForceStatus bool
	Status      int
}

func (FaceData) nodeData()          {}
func (d FaceData) inputs() []NodeID { return d.Source.inputs() }

// FaceSource is the interface for the ways a face grid is obtained.
type FaceSource interface {
	faceSource()
	inputs() []NodeID
}

// LoftSource interpolates a face from four edges in planar order
// (row j=0, column i=max, row j=max, column i=0).
type LoftSource struct {
	Edges [4]NodeID
}

// ExtractSource takes face Face of block Block of input body Body.
type ExtractSource struct {
	Body  int
	Block int
	Face  int
}

func (LoftSource) faceSource()    {}
func (ExtractSource) faceSource() {}

func (s LoftSource) inputs() []NodeID  { return s.Edges[:] }
func (ExtractSource) inputs() []NodeID { return nil }

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

// BlockData interpolates a solid block from six faces ordered i=0, i=max,
// j=0, j=max, k=0, k=max.
type BlockData struct {
	Faces [6]NodeID
}

func (BlockData) nodeData()          {}
func (d BlockData) inputs() []NodeID { return d.Faces[:] }
