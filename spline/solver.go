package spline

import (
	"fmt"
	"math"

	"github.com/npillmayer/fieldpath"
)

// FindHobbyTangents returns a tangent for every knot of an open path.
// Explicit tangents are kept as they are. For knots without one, a tangent
// is derived from the control points Hobby's algorithm finds for the
// path, using neutral tension and curl.
//
// A path is broken into segments at every knot with an explicit tangent,
// and each segment is solved on its own. Two consecutive knots must not
// coincide.
func FindHobbyTangents(path *Path) ([]fieldpath.Pair, error) {
	if err := path.validateKnots(); err != nil {
		return nil, err
	}
	for i := 0; i < path.N()-1; i++ {
		if path.Z(i).Dist(path.Z(i+1)) <= _epsilon {
			return nil, fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, i+1)
		}
	}
	controls := &Controls{}
	for _, segment := range splitSegments(path) {
		tracer().Debugf("find controls for segment %d - %d", segment.start, segment.end)
		findSegmentControls(segment, controls)
	}
	last := path.N() - 1
	tangents := path.Tangents()
	for i := range tangents {
		if path.HasTangent(i) {
			continue
		}
		if i < last {
			tangents[i] = (controls.PostControl(i) - path.Z(i)).Scaled(3)
		} else {
			tangents[i] = (path.Z(i) - controls.PreControl(i)).Scaled(3)
		}
	}
	return tangents, nil
}

// Split a path into segments, breaking it up at knots with a given tangent.
func splitSegments(path *Path) []*pathPartial {
	var segments []*pathPartial
	at := 0
	for i := 1; i < path.N()-1; i++ {
		if path.HasTangent(i) {
			segments = append(segments, makePathSegment(path, at, i))
			at = i
		}
	}
	return append(segments, makePathSegment(path, at, path.N()-1))
}

// Create a path segment as a projection onto a parent path subset.
func makePathSegment(path *Path, from, to int) *pathPartial {
	return &pathPartial{whole: path, start: from, end: to}
}

func (pp *pathPartial) N() int {
	return pp.end - pp.start + 1
}

func (pp *pathPartial) Z(i int) fieldpath.Pair {
	return pp.whole.Z(pp.start + i)
}

func (pp *pathPartial) dir(i int) fieldpath.Pair {
	return pp.whole.Tangent(pp.start + i)
}

func (pp *pathPartial) delta(i int) fieldpath.Pair {
	return pp.Z(i+1) - pp.Z(i)
}

func (pp *pathPartial) d(i int) float64 {
	return pp.delta(i).Abs()
}

// Turning angle at z.i; zero at the segment ends.
func (pp *pathPartial) psi(i int) float64 {
	if i <= 0 || i >= pp.N()-1 {
		return 0
	}
	return reduceAngle(pp.delta(i).Angle() - pp.delta(i-1).Angle())
}

func findSegmentControls(seg *pathPartial, controls *Controls) {
	n := seg.N()
	u := make([]float64, n)
	v := make([]float64, n)
	theta := make([]float64, n)
	startOpen(seg, u, v)
	buildEqs(seg, u, v)
	endOpen(seg, theta, u, v)
	setControls(seg, theta, controls)
}

func startOpen(seg *pathPartial, u, v []float64) {
	if !seg.dir(0).IsValid() {
		u[0] = 1 // curl 1, tension 1
		v[0] = -u[0] * seg.psi(1)
	} else {
		u[0] = 0
		v[0] = reduceAngle(seg.dir(0).Angle() - seg.delta(0).Angle())
	}
	tracer().Debugf("u.0 = %.4g, v.0 = %.4g", u[0], v[0])
}

// With neutral tensions Hobby's coefficients reduce to
// A = 1/d.i-1, B = 2/d.i-1, C = 2/d.i, D = 1/d.i.
func buildEqs(seg *pathPartial, u, v []float64) {
	for i := 1; i < seg.N()-1; i++ {
		A := 1 / seg.d(i-1)
		B := 2 / seg.d(i-1)
		C := 2 / seg.d(i)
		D := 1 / seg.d(i)
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*seg.psi(i) - D*seg.psi(i+1) - A*v[i-1]) / t
		tracer().Debugf("u.%d = %.4g, v.%d = %.4g", i, u[i], i, v[i])
	}
}

func endOpen(seg *pathPartial, theta, u, v []float64) {
	last := seg.N() - 1
	if !seg.dir(last).IsValid() {
		u[last] = 1 // curl 1, tension 1
		den := u[last-1] - u[last]
		if math.Abs(den) <= _epsilon {
			theta[last] = 0
		} else {
			theta[last] = v[last-1] / den
		}
	} else {
		theta[last] = reduceAngle(seg.dir(last).Angle() - seg.delta(last-1).Angle())
	}
	tracer().Debugf("theta.%d = %.4g", last, rad2deg(theta[last]))
	for i := last - 1; i >= 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

func setControls(seg *pathPartial, theta []float64, controls *Controls) {
	for i := 0; i < seg.N()-1; i++ {
		phi := -seg.psi(i+1) - theta[i+1]
		p2, p3 := controlPoints(phi, theta[i], seg.delta(i))
		controls.SetPostControl(seg.start+i, seg.Z(i)+p2)
		controls.SetPreControl(seg.start+i+1, seg.Z(i+1)-p3)
	}
}
