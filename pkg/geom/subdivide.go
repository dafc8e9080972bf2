package geom

import "fmt"

// Subdivide resamples c into n segments of equal arc length. The result has
// n+1 points and keeps the input's first and last points; n == 1 yields the
// two endpoints. Output points inherit the lower status of the input
// segment they fall on.
func Subdivide(c Curve, n int) (Curve, error) {
	if len(c.Points) < 2 {
		return Curve{}, fmt.Errorf("subdivide: %d points: %w", len(c.Points), ErrInsufficientPoints)
	}
	if n < 1 {
		return Curve{}, fmt.Errorf("subdivide: %d segments: %w", n, ErrInvalidDivisionCount)
	}

	last := len(c.Points) - 1
	out := Curve{
		Points: make([]Point3, 0, n+1),
		Status: make([]int, 0, n+1),
	}
	out.Points = append(out.Points, c.Points[0])
	out.Status = append(out.Status, c.StatusAt(0))

	total := c.Length()
	step := total / float64(n)

	// seg is the current input segment [seg, seg+1]; walked is the arc
	// length from the curve start to c.Points[seg].
	seg, walked := 0, 0.0
	for k := 1; k < n; k++ {
		target := step * float64(k)
		segLen := Dist(c.Points[seg], c.Points[seg+1])
		for seg < last-1 && walked+segLen < target {
			walked += segLen
			seg++
			segLen = Dist(c.Points[seg], c.Points[seg+1])
		}
		t := 0.0
		if segLen > 0 {
			t = (target - walked) / segLen
			if t > 1 {
				t = 1
			}
		}
		out.Points = append(out.Points, Lerp(c.Points[seg], c.Points[seg+1], t))
		out.Status = append(out.Status, min(c.StatusAt(seg), c.StatusAt(seg+1)))
	}

	out.Points = append(out.Points, c.Points[last])
	out.Status = append(out.Status, c.StatusAt(last))
	return out, nil
}
