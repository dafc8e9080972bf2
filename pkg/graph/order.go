package graph

import "fmt"

// TopoOrder returns the nodes reachable from roots with every node after
// its inputs. With no roots all nodes are ordered. Ties follow declaration
// order.
func TopoOrder(g *Graph, roots ...NodeID) ([]*Node, error) {
	if len(roots) == 0 {
		roots = g.order
	}

	// Collect the reachable sub-graph.
	reach := make(map[NodeID]bool)
	stack := append([]NodeID(nil), roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reach[id] {
			continue
		}
		n := g.Get(id)
		if n == nil {
			return nil, fmt.Errorf("graph: unknown node %s", id)
		}
		reach[id] = true
		stack = append(stack, n.Inputs()...)
	}

	pending := make(map[NodeID]int, len(reach))
	for id := range reach {
		for _, in := range uniqueIDs(g.Get(id).Inputs()) {
			if reach[in] {
				pending[id]++
			}
		}
	}

	out := make([]*Node, 0, len(reach))
	done := make(map[NodeID]bool, len(reach))
	for len(out) < len(reach) {
		progressed := false
		for _, id := range g.order {
			if !reach[id] || done[id] || pending[id] > 0 {
				continue
			}
			done[id] = true
			out = append(out, g.Get(id))
			for _, c := range g.Consumers(id) {
				if reach[c.ID] {
					pending[c.ID]--
				}
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("graph: cycle among %d nodes", len(reach)-len(out))
		}
	}
	return out, nil
}

func uniqueIDs(ids []NodeID) []NodeID {
	seen := make(map[NodeID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
