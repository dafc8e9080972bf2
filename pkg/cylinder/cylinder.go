// Package cylinder builds the nine-block hexahedral mesh of a vertebral
// body. Four boundary loops trace the rims of the superior and inferior
// endplates; a butterfly seed box fixes the block corners of the core and
// the division counts; every projected point is snapped onto the source
// surface.
package cylinder

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/chazu/spinemesh/pkg/build"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/locate"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// Input is everything a body is built from.
type Input struct {
	// Curves are the boundary loops in SuperiorInner, SuperiorOuter,
	// InferiorInner, InferiorOuter order.
	Curves [NumCurves]geom.Curve
	// Surface is the closed body surface projected points land on.
	Surface locate.Surface
	// Box is the butterfly seed box carrying per-cell dims.
	Box *mesh.Unstructured
}

type options struct {
	log *log.Logger
	tol float64
}

// Option configures Build.
type Option func(*options)

// WithLogger reports build progress to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTolerance sets the merge tolerance relative to the diagonal of the
// built blocks' bounds.
func WithTolerance(rel float64) Option {
	return func(o *options) { o.tol = rel }
}

// Build divides the boundary loops, resolves the body graph and merges
// the nine blocks.
func Build(in Input, opts ...Option) (*mesh.Unstructured, error) {
	o := options{log: log.New(io.Discard), tol: mesh.DefaultRelativeTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	if in.Box == nil {
		return nil, fmt.Errorf("cylinder: no seed box")
	}
	if in.Surface == nil {
		return nil, fmt.Errorf("cylinder: no source surface: %w", geom.ErrDegenerateProjection)
	}

	seeds, err := SeedsFromBox(in.Box)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	arcs, err := DivideBoundary(in.Curves, in.Box.Points)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	o.log.Debug("divided boundary", "seeds", seeds)

	g := Topology()
	if err := graph.Err(graph.Validate(g)); err != nil {
		return nil, fmt.Errorf("cylinder: topology: %w", err)
	}

	curveArcs := make([][]geom.Curve, len(arcs))
	for i := range arcs {
		curveArcs[i] = arcs[i][:]
	}
	ev := build.New(g, build.Inputs{
		Arcs:    curveArcs,
		Points:  in.Box.Points,
		Seeds:   seeds[:],
		Surface: in.Surface,
		Center:  in.Box.Bounds().Center(),
	}, build.WithLogger(o.log))
	blocks, err := ev.Blocks(BlockIDs()...)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}

	var pts []geom.Point3
	for _, b := range blocks {
		pts = append(pts, b.Points...)
	}
	tol := o.tol * geom.BoundsOf(pts).Diagonal()
	m, err := mesh.Merge(blocks, tol)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	edges, faces, _ := ev.Stats()
	o.log.Debug("merged body", "edges", edges, "faces", faces, "points", m.NumPoints(), "cells", m.NumCells())
	return m, nil
}
