package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

var kindFill = map[NodeKind]string{
	NodeEdge:  "white",
	NodeFace:  "lightblue",
	NodeBlock: "lightgoldenrod",
}

// ToDOT converts the graph to Graphviz DOT with arrows from each input to
// the node built from it. Projected nodes get a bold outline.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mesh {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n)),
			fmt.Sprintf("fillcolor=%s", kindFill[n.Kind]),
		}
		if projected(n) {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for _, in := range uniqueIDs(n.Inputs()) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", in, n.ID)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *Node) string {
	switch d := n.Data.(type) {
	case EdgeData:
		switch s := d.Source.(type) {
		case ArcSource:
			return fmt.Sprintf("%s\ncurve %d arc %d", n.ID, s.Curve, s.Arc)
		case ConnectSource:
			if s.Bulge != 0 {
				return fmt.Sprintf("%s\nbulge %.3g", n.ID, s.Bulge)
			}
		case ReverseSource:
			return fmt.Sprintf("%s\nreversed", n.ID)
		case SideSource:
			return fmt.Sprintf("%s\nside %d", n.ID, s.Side)
		}
	case FaceData:
		if s, ok := d.Source.(ExtractSource); ok {
			return fmt.Sprintf("%s\nbody %d block %d face %d", n.ID, s.Body, s.Block, s.Face)
		}
	}
	return string(n.ID)
}

func projected(n *Node) bool {
	switch d := n.Data.(type) {
	case EdgeData:
		return d.Project
	case FaceData:
		return d.Project
	}
	return false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
