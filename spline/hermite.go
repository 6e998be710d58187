package spline

import (
	"fmt"

	"github.com/npillmayer/fieldpath"
)

// validateKnots checks the knot count and that all knots are finite.
func (path *Path) validateKnots() error {
	if path == nil {
		return ErrNilPath
	}
	if n := path.N(); n < 2 {
		return fmt.Errorf("%w: open path needs at least 2 knots, got %d", ErrTooFewKnots, n)
	}
	for i, z := range path.points {
		if !z.IsValid() {
			return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
		}
	}
	return nil
}

// FindHermiteControls calculates Bézier control points for a path
// where every knot carries a tangent vector. The resulting curve has
// first derivative v.i at knot z.i.
//
// Consecutive knots may coincide; the segment between them is then shaped
// by the tangents alone.
func FindHermiteControls(path *Path) (*Controls, error) {
	if err := path.validateKnots(); err != nil {
		return nil, err
	}
	for i := 0; i < path.N(); i++ {
		if !path.HasTangent(i) {
			return nil, fmt.Errorf("%w at knot %d", ErrInvalidTangent, i)
		}
	}
	controls := &Controls{}
	for i := 0; i < path.N()-1; i++ {
		controls.SetPostControl(i, path.Z(i)+path.Tangent(i).Scaled(1.0/3))
		controls.SetPreControl(i+1, path.Z(i+1)-path.Tangent(i+1).Scaled(1.0/3))
	}
	tracer().Debugf("hermite path %s", AsString(path, controls))
	return controls, nil
}

// Interpolate creates a Hermite curve through points with the given
// index-aligned tangent vectors.
func Interpolate(points, tangents []fieldpath.Pair) (*Curve, error) {
	if len(points) != len(tangents) {
		return nil, fmt.Errorf("%w: %d knots but %d tangents", ErrInvalidTangent, len(points), len(tangents))
	}
	path := FromKnots(points, tangents)
	controls, err := FindHermiteControls(path)
	if err != nil {
		return nil, err
	}
	return NewCurve(path, controls), nil
}
