package geom

import "errors"

// Sentinel errors shared by the meshing packages. Callers match them with
// errors.Is; producers wrap them with context.
var (
	// ErrInsufficientPoints means a curve has fewer than two points.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrInvalidDivisionCount means a subdivision count below one.
	ErrInvalidDivisionCount = errors.New("invalid division count")

	// ErrMismatchedBoundaryLength means a planar boundary curve does not
	// match the requested grid dimensions.
	ErrMismatchedBoundaryLength = errors.New("mismatched boundary length")

	// ErrMissingBoundary means a planar boundary curve is empty.
	ErrMissingBoundary = errors.New("missing boundary")

	// ErrInconsistentFaceDimensions means the faces of a solid block
	// disagree on shared-axis point counts.
	ErrInconsistentFaceDimensions = errors.New("inconsistent face dimensions")

	// ErrDegenerateProjection means a nearest-point query target is empty
	// or degenerate.
	ErrDegenerateProjection = errors.New("degenerate projection")

	// ErrUnsupportedLayers means a butterfly box layer count other than 2.
	ErrUnsupportedLayers = errors.New("unsupported layer count")
)
