package cylinder

import (
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
)

// NumBlocks is the number of structured blocks in a body.
const NumBlocks = 9

// Seed slots.
const (
	seedRadialOuter = iota
	seedArcEven
	seedAxial
	seedArcOdd
	seedRadialInner
)

// Box nodes of the inner ring, bottom then top.
var innerNodes = [8]int{8, 9, 10, 11, 20, 21, 22, 23}

// arcEdges maps arc a of boundary loop c to its edge number.
var arcEdges = [NumCurves][4]int{
	SuperiorInner: {7, 17, 25, 31},
	SuperiorOuter: {5, 15, 23, 30},
	InferiorInner: {3, 14, 22, 29},
	InferiorOuter: {1, 12, 20, 28},
}

// topo accumulates the body graph. Edge and face numbers follow the
// layout of the nine blocks: 0-3 form the outer ring counter-clockwise
// from the -y side, 4-7 the inner ring inside them and 8 the core.
type topo struct {
	g *graph.Graph
}

// supplied declares the four edges cut from boundary loop c.
func (t topo) supplied(c, seed int) {
	for a, n := range arcEdges[c] {
		if (a%2 == 0) != (seed == seedArcEven) {
			continue
		}
		t.g.MustAdd(&graph.Node{
			ID: graph.EdgeID(n), Kind: graph.NodeEdge,
			Data: graph.EdgeData{
				Source:      graph.ArcSource{Curve: c, Arc: a},
				Seed:        seed,
				Project:     true,
				ForceStatus: true,
				Status:      geom.StatusFixed,
			},
		})
	}
}

// connect declares edge n joining the same end of edges a and b.
func (t topo) connect(n, a, b int, end graph.End, seed int, project bool) {
	t.g.MustAdd(&graph.Node{
		ID: graph.EdgeID(n), Kind: graph.NodeEdge,
		Data: graph.EdgeData{
			Source: graph.ConnectSource{
				From: graph.EdgeEnd(graph.EdgeID(a), end),
				To:   graph.EdgeEnd(graph.EdgeID(b), end),
			},
			Seed:        seed,
			Project:     project,
			ForceStatus: true,
			Status:      geom.StatusFree,
		},
	})
}

// fromNode declares edge n from box node to the first point of edge b.
func (t topo) fromNode(n, node, b int) {
	t.g.MustAdd(&graph.Node{
		ID: graph.EdgeID(n), Kind: graph.NodeEdge,
		Data: graph.EdgeData{
			Source: graph.ConnectSource{
				From: graph.PointAnchor(node),
				To:   graph.EdgeEnd(graph.EdgeID(b), graph.First),
			},
			Seed:        seedRadialInner,
			Project:     true,
			ForceStatus: true,
			Status:      geom.StatusFree,
		},
	})
}

// reversed declares the backwards copy of edge n.
func (t topo) reversed(n int) {
	t.g.MustAdd(&graph.Node{
		ID: reversedID(n), Kind: graph.NodeEdge,
		Data: graph.EdgeData{Source: graph.ReverseSource{Of: graph.EdgeID(n)}, Seed: graph.NoSeed},
	})
}

func reversedID(n int) graph.NodeID {
	return graph.EdgeID(n) + "/rev"
}

// face declares face n lofted over edges e. Fixed faces have their
// interior forced to StatusFixed.
func (t topo) face(n int, e [4]graph.NodeID, project, fixed bool) {
	t.g.MustAdd(&graph.Node{
		ID: graph.FaceID(n), Kind: graph.NodeFace,
		Data: graph.FaceData{
			Source:      graph.LoftSource{Edges: e},
			Project:     project,
			ForceStatus: fixed,
			Status:      geom.StatusFixed,
		},
	})
}

func (t topo) block(n int, faces ...int) {
	var ids [6]graph.NodeID
	for i, f := range faces {
		ids[i] = graph.FaceID(f)
	}
	t.g.MustAdd(&graph.Node{ID: graph.BlockID(n), Kind: graph.NodeBlock, Data: graph.BlockData{Faces: ids}})
}

func edges(a, b, c, d int) [4]graph.NodeID {
	return [4]graph.NodeID{graph.EdgeID(a), graph.EdgeID(b), graph.EdgeID(c), graph.EdgeID(d)}
}

// Topology returns the dependency graph of a vertebral body. Edge
// endpoints anchor on the divided boundary arcs and on the inner ring of
// the seed box; every block reads its dims from the five seed slots.
func Topology() *graph.Graph {
	t := topo{g: graph.New()}
	t.g.SeedSlots = len(Seeds{})
	const (
		first = graph.First
		last  = graph.Last
	)

	// Block 0: outer ring, -y side.
	t.supplied(InferiorOuter, seedArcEven)
	t.supplied(InferiorInner, seedArcEven)
	t.supplied(SuperiorOuter, seedArcEven)
	t.supplied(SuperiorInner, seedArcEven)
	t.connect(0, 3, 1, first, seedRadialOuter, true)
	t.connect(2, 3, 1, last, seedRadialOuter, true)
	t.connect(4, 7, 5, first, seedRadialOuter, true)
	t.connect(6, 7, 5, last, seedRadialOuter, true)
	t.connect(8, 3, 7, first, seedAxial, false)
	t.connect(10, 3, 7, last, seedAxial, false)
	t.connect(9, 1, 5, first, seedAxial, true)
	t.connect(11, 1, 5, last, seedAxial, true)
	t.face(0, edges(3, 10, 7, 8), false, false)
	t.face(1, edges(1, 11, 5, 9), true, false)
	t.face(2, edges(0, 9, 4, 8), false, false)
	t.face(3, edges(2, 11, 6, 10), false, false)
	t.face(4, edges(0, 1, 2, 3), true, true)
	t.face(5, edges(4, 5, 6, 7), true, true)
	t.block(0, 0, 1, 2, 3, 4, 5)

	// Block 1: outer ring, +x side.
	t.supplied(InferiorOuter, seedArcOdd)
	t.supplied(InferiorInner, seedArcOdd)
	t.supplied(SuperiorOuter, seedArcOdd)
	t.supplied(SuperiorInner, seedArcOdd)
	t.connect(13, 14, 12, last, seedRadialOuter, true)
	t.connect(16, 17, 15, last, seedRadialOuter, true)
	t.connect(18, 14, 17, last, seedAxial, false)
	t.connect(19, 12, 15, last, seedAxial, true)
	t.face(6, edges(14, 18, 17, 10), false, false)
	t.face(7, edges(12, 19, 15, 11), true, false)
	t.face(8, edges(13, 19, 16, 18), false, false)
	t.face(9, edges(2, 12, 13, 14), true, true)
	t.face(10, edges(6, 15, 16, 17), true, true)
	t.block(1, 6, 7, 3, 8, 9, 10)

	// Block 2: outer ring, +y side.
	t.connect(21, 22, 20, last, seedRadialOuter, true)
	t.connect(24, 25, 23, last, seedRadialOuter, true)
	t.connect(26, 22, 25, last, seedAxial, false)
	t.connect(27, 20, 23, last, seedAxial, true)
	t.face(11, edges(22, 26, 25, 18), false, false)
	t.face(12, edges(20, 27, 23, 19), true, false)
	t.face(13, edges(21, 27, 24, 26), false, false)
	t.face(14, edges(13, 20, 21, 22), true, true)
	t.face(15, edges(16, 23, 24, 25), true, true)
	t.block(2, 11, 12, 8, 13, 14, 15)

	// Block 3: outer ring, -x side, closing the ring onto block 0.
	t.face(16, edges(29, 8, 31, 26), false, false)
	t.face(17, edges(28, 9, 30, 27), true, false)
	t.face(18, edges(21, 28, 0, 29), false, true)
	t.face(19, edges(24, 30, 4, 31), true, true)
	t.block(3, 16, 17, 13, 2, 18, 19)

	// Block 4: inner ring inside block 0.
	t.fromNode(32, innerNodes[0], 0)
	t.fromNode(33, innerNodes[1], 2)
	t.fromNode(35, innerNodes[4], 4)
	t.fromNode(36, innerNodes[5], 6)
	t.connect(34, 32, 33, first, seedArcEven, true)
	t.connect(37, 35, 36, first, seedArcEven, true)
	t.connect(38, 32, 35, first, seedAxial, false)
	t.connect(39, 33, 36, first, seedAxial, false)
	t.face(20, edges(34, 39, 37, 38), false, false)
	t.face(21, edges(32, 8, 35, 38), false, false)
	t.face(22, edges(33, 10, 36, 39), false, false)
	t.face(23, edges(32, 3, 33, 34), true, false)
	t.face(24, edges(35, 7, 36, 37), true, false)
	t.block(4, 20, 0, 21, 22, 23, 24)

	// Block 5: inner ring inside block 1.
	t.fromNode(40, innerNodes[2], 13)
	t.fromNode(42, innerNodes[6], 16)
	t.connect(41, 33, 40, first, seedArcOdd, true)
	t.connect(43, 36, 42, first, seedArcOdd, true)
	t.connect(44, 40, 42, first, seedAxial, false)
	t.face(25, edges(41, 44, 43, 39), false, false)
	t.face(26, edges(40, 18, 42, 44), false, false)
	t.face(27, edges(33, 14, 40, 41), true, false)
	t.face(28, edges(36, 17, 42, 43), true, false)
	t.block(5, 25, 6, 22, 26, 27, 28)

	// Block 6: inner ring inside block 2.
	t.fromNode(45, innerNodes[3], 21)
	t.fromNode(47, innerNodes[7], 24)
	t.connect(46, 40, 45, first, seedArcEven, true)
	t.connect(48, 42, 47, first, seedArcEven, true)
	t.connect(49, 45, 47, first, seedAxial, false)
	t.face(29, edges(46, 49, 48, 44), false, false)
	t.face(30, edges(45, 26, 47, 49), false, false)
	t.face(31, edges(40, 22, 45, 46), true, false)
	t.face(32, edges(42, 25, 47, 48), true, false)
	t.block(6, 29, 11, 26, 30, 31, 32)

	// Block 7: inner ring inside block 3.
	t.connect(50, 45, 32, first, seedArcOdd, true)
	t.connect(51, 47, 35, first, seedArcOdd, true)
	t.face(33, edges(50, 38, 51, 49), false, false)
	t.face(34, edges(45, 29, 32, 50), true, false)
	t.face(35, edges(47, 31, 35, 51), true, false)
	t.block(7, 33, 16, 30, 21, 34, 35)

	// Block 8: core.
	for _, n := range []int{41, 43, 46, 48} {
		t.reversed(n)
	}
	t.face(36, [4]graph.NodeID{reversedID(46), graph.EdgeID(44), reversedID(48), graph.EdgeID(49)}, false, false)
	t.face(37, [4]graph.NodeID{reversedID(41), graph.EdgeID(39), reversedID(43), graph.EdgeID(44)}, false, false)
	t.face(38, [4]graph.NodeID{graph.EdgeID(50), graph.EdgeID(34), reversedID(41), reversedID(46)}, true, false)
	t.face(39, [4]graph.NodeID{graph.EdgeID(51), graph.EdgeID(37), reversedID(43), reversedID(48)}, true, false)
	t.block(8, 36, 20, 33, 37, 38, 39)

	return t.g
}

// BlockIDs returns the block node ids in merge order.
func BlockIDs() []graph.NodeID {
	ids := make([]graph.NodeID, NumBlocks)
	for i := range ids {
		ids[i] = graph.BlockID(i)
	}
	return ids
}
