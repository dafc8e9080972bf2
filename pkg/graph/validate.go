package graph

import (
	"errors"
	"fmt"
)

// ValidationSeverity indicates whether a validation finding blocks
// evaluation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID, e.Message)
}

// Validate runs the structural checks and returns every finding. The graph
// is not modified.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateRecipes(g)...)
	errs = append(errs, validateUsage(g)...)
	return errs
}

// Err joins the error-severity findings of Validate, or returns nil when
// there are none.
func Err(findings []ValidationError) error {
	var errs []error
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	return errors.Join(errs...)
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(g *Graph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node := g.Get(id)
		if node == nil {
			// Dangling; reported by validateReferences.
			color[id] = black
			return false
		}
		for _, in := range node.Inputs() {
			if visit(in) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every input exists and has the kind the
// recipe expects.
func validateReferences(g *Graph) []ValidationError {
	var errs []ValidationError
	expect := func(n *Node, ref NodeID, kind NodeKind) {
		target := g.Get(ref)
		switch {
		case ref.IsZero():
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("missing %s reference", kind),
				Severity: SeverityError,
			})
		case target == nil:
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("references non-existent node %s", ref),
				Severity: SeverityError,
			})
		case target.Kind != kind:
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("references %s %s where a %s is required", target.Kind, ref, kind),
				Severity: SeverityError,
			})
		}
	}

	for _, n := range g.Nodes() {
		switch d := n.Data.(type) {
		case EdgeData:
			switch s := d.Source.(type) {
			case ConnectSource:
				for _, a := range [2]Anchor{s.From, s.To} {
					switch a.Kind {
					case AnchorEdgeEnd:
						expect(n, a.Node, NodeEdge)
					case AnchorFaceCorner:
						expect(n, a.Node, NodeFace)
					}
				}
			case ReverseSource:
				expect(n, s.Of, NodeEdge)
			case SideSource:
				expect(n, s.Face, NodeFace)
			}
		case FaceData:
			if s, ok := d.Source.(LoftSource); ok {
				for _, e := range s.Edges {
					expect(n, e, NodeEdge)
				}
			}
		case BlockData:
			for _, f := range d.Faces {
				expect(n, f, NodeFace)
			}
		}
	}
	return errs
}

// validateRecipes checks that each node's data matches its kind and that
// indices stay in range.
func validateRecipes(g *Graph) []ValidationError {
	var errs []ValidationError
	fail := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range g.Nodes() {
		switch d := n.Data.(type) {
		case EdgeData:
			if n.Kind != NodeEdge {
				fail(n.ID, "edge recipe on %s node", n.Kind)
			}
			if d.Source == nil {
				fail(n.ID, "edge has no source")
			}
			if d.Seed != NoSeed && (d.Seed < 0 || (g.SeedSlots > 0 && d.Seed >= g.SeedSlots)) {
				fail(n.ID, "seed slot %d out of range [0,%d)", d.Seed, g.SeedSlots)
			}
			switch s := d.Source.(type) {
			case SideSource:
				if s.Side < 0 || s.Side > 3 {
					fail(n.ID, "face side %d out of range [0,3]", s.Side)
				}
			case ConnectSource:
				for _, a := range [2]Anchor{s.From, s.To} {
					if a.Kind == AnchorFaceCorner && (a.Corner < 0 || a.Corner > 3) {
						fail(n.ID, "face corner %d out of range [0,3]", a.Corner)
					}
				}
			}
		case FaceData:
			if n.Kind != NodeFace {
				fail(n.ID, "face recipe on %s node", n.Kind)
			}
			if d.Source == nil {
				fail(n.ID, "face has no source")
			}
			if s, ok := d.Source.(ExtractSource); ok && (s.Face < 0 || s.Face > 5) {
				fail(n.ID, "block face %d out of range [0,5]", s.Face)
			}
		case BlockData:
			if n.Kind != NodeBlock {
				fail(n.ID, "block recipe on %s node", n.Kind)
			}
		case nil:
			fail(n.ID, "node has no data")
		}
	}
	return errs
}

// validateUsage warns about edges and faces no other node consumes.
func validateUsage(g *Graph) []ValidationError {
	used := make(map[NodeID]bool)
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			used[in] = true
		}
	}

	var errs []ValidationError
	for _, n := range g.Nodes() {
		if n.Kind == NodeBlock || used[n.ID] {
			continue
		}
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf("%s is not used by any block", n.Kind),
			Severity: SeverityWarning,
		})
	}
	return errs
}
