package cylinder

import (
	"fmt"

	"github.com/chazu/spinemesh/pkg/butterfly"
	"github.com/chazu/spinemesh/pkg/mesh"
)

// Seeds are the five division counts of a body, read from the seed box:
//
//	s0  radial divisions of the outer ring (cell 0, k dim)
//	s1  arc divisions of blocks 0 and 2    (cell 0, i dim)
//	s2  axial divisions                    (cell 0, j dim)
//	s3  arc divisions of blocks 1 and 3    (cell 1, i dim)
//	s4  radial divisions of the inner ring (cell 4, k dim)
type Seeds [5]int

// SeedsFromBox reads the seeds from the per-cell dims of a butterfly box.
func SeedsFromBox(box *mesh.Unstructured) (Seeds, error) {
	dims, err := butterfly.CellDims(box)
	if err != nil {
		return Seeds{}, fmt.Errorf("seeds: %w", err)
	}
	s := Seeds{
		dims[0][2] - 1,
		dims[0][0] - 1,
		dims[0][1] - 1,
		dims[1][0] - 1,
		dims[4][2] - 1,
	}
	return s, s.Validate()
}

// Validate reports a division count below one.
func (s Seeds) Validate() error {
	for i, n := range s {
		if n < 1 {
			return fmt.Errorf("seeds: s%d = %d, want >= 1", i, n)
		}
	}
	return nil
}

// BoxDims returns the per-cell box dims that SeedsFromBox reads back as s.
func (s Seeds) BoxDims() [butterfly.NumCells][3]int {
	var d [butterfly.NumCells][3]int
	for c := 0; c < 4; c++ {
		arc := s[1]
		if c%2 == 1 {
			arc = s[3]
		}
		d[c] = [3]int{arc + 1, s[2] + 1, s[0] + 1}
		d[4+c] = [3]int{arc + 1, s[2] + 1, s[4] + 1}
	}
	d[8] = [3]int{s[3] + 1, s[1] + 1, s[2] + 1}
	return d
}

// NumCells returns the hexahedron count of a body built with s.
func (s Seeds) NumCells() int {
	return s[2] * (2*(s[0]+s[4])*(s[1]+s[3]) + s[1]*s[3])
}

// NumPoints returns the point count of a body built with s after merging.
func (s Seeds) NumPoints() int {
	ring := 2 * (s[1] + s[3])
	layer := (s[0]+s[4]+1)*ring + (s[1]-1)*(s[3]-1)
	return layer * (s[2] + 1)
}
