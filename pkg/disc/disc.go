// Package disc builds the hexahedral mesh of an intervertebral disc
// bridging two vertebral bodies built by package cylinder.
//
// Each of the nine disc blocks stacks on the matching body blocks: its
// bottom is the top face of the lower body block and its top is the
// bottom face of the upper one. The four corner bridges between them are
// straight lines, optionally bowed onto circular arcs at the rims.
package disc

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/chazu/spinemesh/pkg/build"
	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/cylinder"
	"github.com/chazu/spinemesh/pkg/geom"
	"github.com/chazu/spinemesh/pkg/graph"
	"github.com/chazu/spinemesh/pkg/grid"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// ErrMissingBlocks means a body mesh carries no block metadata.
var ErrMissingBlocks = errors.New("missing block metadata")

// Body indexes into the build inputs.
const (
	lowerBody = 0
	upperBody = 1
)

var bodyNames = [2]string{"lower", "upper"}

// Params controls the shape of the disc.
type Params struct {
	// Divisions is the number of cell layers between the bodies.
	Divisions int
	// InnerBulgeOffset and OuterBulgeOffset are the sagittas of the
	// bridges on the inner and outer rims, positive away from the axis.
	InnerBulgeOffset float64
	OuterBulgeOffset float64
}

// Validate reports a division count below one.
func (p Params) Validate() error {
	if p.Divisions < 1 {
		return fmt.Errorf("disc: %d divisions: %w", p.Divisions, geom.ErrInvalidDivisionCount)
	}
	return nil
}

// Result is a built disc.
type Result struct {
	Mesh *mesh.Unstructured
	// Box is a butterfly box over the disc whose cell dims read back as
	// the disc seeds through cylinder.SeedsFromBox.
	Box *mesh.Unstructured
}

type options struct {
	log *log.Logger
}

// Option configures Build.
type Option func(*options)

// WithLogger reports build progress to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

// Build meshes the disc between lower and upper.
func Build(lower, upper *mesh.Unstructured, p Params, opts ...Option) (*Result, error) {
	o := options{log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i, m := range [2]*mesh.Unstructured{lower, upper} {
		if m == nil || len(m.Blocks) < cylinder.NumBlocks {
			return nil, fmt.Errorf("disc: %s body: %w", bodyNames[i], ErrMissingBlocks)
		}
	}
	for b := 0; b < cylinder.NumBlocks; b++ {
		lo, up := lower.Blocks[b].Dims, upper.Blocks[b].Dims
		if lo[0] != up[0] || lo[1] != up[1] {
			return nil, fmt.Errorf("disc: block %d: lower face %v, upper face %v: %w",
				b, lo[:2], up[:2], geom.ErrInconsistentFaceDimensions)
		}
	}

	g := Topology(lower, upper, p)
	if err := graph.Err(graph.Validate(g)); err != nil {
		return nil, fmt.Errorf("disc: topology: %w", err)
	}

	center := geom.Lerp(lower.Bounds().Center(), upper.Bounds().Center(), 0.5)
	ev := build.New(g, build.Inputs{
		Seeds:  []int{p.Divisions},
		Bodies: []*mesh.Unstructured{lower, upper},
		Center: center,
	}, build.WithLogger(o.log))
	blocks, err := ev.Blocks(cylinder.BlockIDs()...)
	if err != nil {
		return nil, fmt.Errorf("disc: %w", err)
	}

	m, err := mesh.Merge(blocks, mesh.ExactTolerance)
	if err != nil {
		return nil, fmt.Errorf("disc: %w", err)
	}
	box, err := companionBox(m, blocks, p.Divisions)
	if err != nil {
		return nil, fmt.Errorf("disc: %w", err)
	}
	o.log.Debug("merged disc", "points", m.NumPoints(), "cells", m.NumCells())
	return &Result{Mesh: m, Box: box}, nil
}

// companionBox spans the disc with a butterfly box carrying its seeds.
func companionBox(m *mesh.Unstructured, blocks []*grid.StructuredGrid, divisions int) (*mesh.Unstructured, error) {
	s := cylinder.Seeds{
		blocks[0].Dims[0] - 1,
		blocks[0].Dims[1] - 1,
		divisions,
		blocks[1].Dims[1] - 1,
		blocks[4].Dims[0] - 1,
	}
	return butterfly.Build(m.Bounds(), 2, butterfly.WithCellDims(s.BoxDims()))
}
