package graph

import (
	"fmt"

	"github.com/samber/lo"
)

// Graph is a mesh dependency graph. Nodes keep their declaration order,
// which makes traversal and evaluation deterministic.
type Graph struct {
	nodes map[NodeID]*Node
	order []NodeID

	// SeedSlots is the number of seed counts edges may refer to. Zero
	// disables the range check in Validate.
	SeedSlots int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// Add inserts n. Ids must be unique.
func (g *Graph) Add(n *Node) error {
	if n.ID.IsZero() {
		return fmt.Errorf("graph: node with empty id")
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("graph: duplicate node %s", n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// AddIfAbsent inserts n unless a node with the same id exists, and reports
// whether it was inserted. The first declaration of a shared node wins.
func (g *Graph) AddIfAbsent(n *Node) bool {
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return true
}

// MustAdd inserts n and panics on a duplicate id. It is meant for static
// topology tables.
func (g *Graph) MustAdd(n *Node) {
	if err := g.Add(n); err != nil {
		panic(err)
	}
}

// Get returns the node with the given id, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.nodes[id]
}

// Has reports whether id is present.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	return lo.Map(g.order, func(id NodeID, _ int) *Node { return g.nodes[id] })
}

// OfKind returns the nodes of kind k in declaration order.
func (g *Graph) OfKind(k NodeKind) []*Node {
	return lo.Filter(g.Nodes(), func(n *Node, _ int) bool { return n.Kind == k })
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Consumers returns the nodes that list id among their inputs.
func (g *Graph) Consumers(id NodeID) []*Node {
	return lo.Filter(g.Nodes(), func(n *Node, _ int) bool {
		return lo.Contains(n.Inputs(), id)
	})
}
