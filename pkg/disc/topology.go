package disc

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// Face numbers of a body block the disc attaches to.
const (
	lowerFace = 5 // k = Nk-1 of the lower body
	upperFace = 4 // k = 0 of the upper body
)

// ringBlocks are the blocks whose i=0 and i=Ni-1 sides lie on the inner
// and outer rims.
const ringBlocks = 4

// sideFaces lists, for solid faces 0-3 of a disc block, the cap side
// shared with it and the cap corners at the end and the start of that
// side. Corners follow grid.StructuredGrid.Corner.
var sideFaces = [4]struct {
	side       int
	end, start int
}{
	{side: 3, end: 3, start: 0}, // i = 0
	{side: 1, end: 2, start: 1}, // i = Ni-1
	{side: 0, end: 1, start: 0}, // j = 0
	{side: 2, end: 2, start: 3}, // j = Nj-1
}

func capID(b int, body string) graph.NodeID {
	return graph.NodeID(fmt.Sprintf("face/%d/%s", b, body))
}

func capSideID(b int, body string, side int) graph.NodeID {
	return graph.NodeID(fmt.Sprintf("edge/%d/%s/%d", b, body, side))
}

func sideFaceID(b, n int) graph.NodeID {
	return graph.NodeID(fmt.Sprintf("face/%d/side/%d", b, n))
}

// bridgeID names the bridge between two global body points, so blocks
// meeting at a corner share one bridge.
func bridgeID(lower, upper int) graph.NodeID {
	return graph.NodeID(fmt.Sprintf("bridge/%d-%d", lower, upper))
}

// cornerPoint returns the global point id under corner c of the cap of
// block b at layer k.
func cornerPoint(m *mesh.Unstructured, b, c, k int) int {
	blk := m.Blocks[b]
	ni, nj := blk.Dims[0], blk.Dims[1]
	i, j := 0, 0
	switch c {
	case 1:
		i = ni - 1
	case 2:
		i, j = ni-1, nj-1
	case 3:
		j = nj - 1
	}
	return blk.PointIDs[(k*nj+j)*ni+i]
}

// bulge returns the sagitta of the bridge at corner c of block b.
func bulge(p Params, b, c int) float64 {
	if b >= ringBlocks {
		return 0
	}
	if c == 1 || c == 2 {
		return p.OuterBulgeOffset
	}
	return p.InnerBulgeOffset
}

// Topology returns the dependency graph of the disc between lower and
// upper. Both bodies must carry nine blocks.
func Topology(lower, upper *mesh.Unstructured, p Params) *graph.Graph {
	g := graph.New()
	g.SeedSlots = 1

	for b := 0; b < cylinder.NumBlocks; b++ {
		caps := [2]struct {
			body string
			src  graph.ExtractSource
		}{
			{"lower", graph.ExtractSource{Body: lowerBody, Block: b, Face: lowerFace}},
			{"upper", graph.ExtractSource{Body: upperBody, Block: b, Face: upperFace}},
		}
		for _, c := range caps {
			g.MustAdd(&graph.Node{
				ID: capID(b, c.body), Kind: graph.NodeFace,
				Data: graph.FaceData{Source: c.src, ForceStatus: true, Status: geom.StatusFixed},
			})
			for side := 0; side < 4; side++ {
				g.MustAdd(&graph.Node{
					ID: capSideID(b, c.body, side), Kind: graph.NodeEdge,
					Data: graph.EdgeData{
						Source: graph.SideSource{Face: capID(b, c.body), Side: side},
						Seed:   graph.NoSeed,
					},
				})
			}
		}

		var bridges [4]graph.NodeID
		top := lower.Blocks[b].Dims[2] - 1
		for c := range bridges {
			bridges[c] = bridgeID(cornerPoint(lower, b, c, top), cornerPoint(upper, b, c, 0))
			// The first block to reach a shared corner sets its bulge.
			g.AddIfAbsent(&graph.Node{
				ID: bridges[c], Kind: graph.NodeEdge,
				Data: graph.EdgeData{
					Source: graph.ConnectSource{
						From:  graph.FaceCorner(capID(b, "lower"), c),
						To:    graph.FaceCorner(capID(b, "upper"), c),
						Bulge: bulge(p, b, c),
					},
					Seed:        0,
					ForceStatus: true,
					Status:      geom.StatusFree,
				},
			})
		}

		var faces [6]graph.NodeID
		for n, s := range sideFaces {
			faces[n] = sideFaceID(b, n)
			g.MustAdd(&graph.Node{
				ID: faces[n], Kind: graph.NodeFace,
				Data: graph.FaceData{Source: graph.LoftSource{Edges: [4]graph.NodeID{
					capSideID(b, "lower", s.side),
					bridges[s.end],
					capSideID(b, "upper", s.side),
					bridges[s.start],
				}}},
			})
		}
		faces[4] = capID(b, "lower")
		faces[5] = capID(b, "upper")
		g.MustAdd(&graph.Node{ID: graph.BlockID(b), Kind: graph.NodeBlock, Data: graph.BlockData{Faces: faces}})
	}
	return g
}
