/*
Package fieldpath is the root of a path authoring and trajectory
parameterization engine for mobile robots. Users draw paths on a virtual
field; every path is a sequence of waypoints with a tangent vector at each
waypoint. Together with kinematic limits a path is turned into a
time-parameterized motion profile.

This package implements the geometric basics shared by all sub-packages:
2D pairs (points and vectors) and affine transformations, which are used
to map between pixel space of a drawing surface and field coordinates.

Sub-packages:

	spline      curve recomputation from waypoints and tangent vectors
	params      kinematic limits and field selection
	paths       the collection of named paths
	canvas      drawing surface extents and pixel <-> field mapping
	editor      mode-driven interpretation of pointer input
	trajectory  snapshots and hand-off to a profile generator
	profile     a numerical profile generator for differential drives
	session     wiring of the above for one editing session

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package fieldpath

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fieldpath'
func tracer() tracing.Trace {
	return tracing.Select("fieldpath")
}

// ErrSingular is returned when inverting a transform without an inverse.
var ErrSingular = errors.New("affine transform is singular")

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// IsFinite is a predicate: is n neither NaN nor ±Inf?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// === Pair Data Type ========================================================

// Pair is a 2D point or vector. Field positions as well as pixel positions
// and tangent vectors are pairs.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Unknown is a pair without a meaningful value.
var Unknown = Pair(cmplx.NaN())

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// F is a quick notation for getting float values from a pair.
func (p Pair) F() (float64, float64) {
	return real(p), imag(p)
}

// IsValid is true for pairs with finite coordinates.
func (p Pair) IsValid() bool {
	return IsFinite(p.X()) && IsFinite(p.Y())
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Y()))
}

// IsOrigin is a predicate: is this pair origin?
func (p Pair) IsOrigin() bool {
	return p.Equal(Origin)
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Abs is the length of a vector.
func (p Pair) Abs() float64 {
	return cmplx.Abs(p.C())
}

// Angle is the direction of a vector in radians, counter-clockwise from the x-axis.
func (p Pair) Angle() float64 {
	if cmplx.IsNaN(p.C()) {
		return 0
	}
	return cmplx.Phase(p.C())
}

// Unit returns a vector of length 1 pointing into the direction of p.
// The zero vector stays zero.
func (p Pair) Unit() Pair {
	r := p.Abs()
	if Is0(r) {
		return Origin
	}
	return P(p.X()/r, p.Y()/r)
}

// Dist is the euclidian distance between p and p2.
func (p Pair) Dist(p2 Pair) float64 {
	return (p2 - p).Abs()
}

// Dot is the scalar product of two vectors.
func (p Pair) Dot(p2 Pair) float64 {
	return p.X()*p2.X() + p.Y()*p2.Y()
}

// Cross is the z-part of the cross product of two vectors.
func (p Pair) Cross(p2 Pair) float64 {
	return p.X()*p2.Y() - p.Y()*p2.X()
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	return p + v
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	return Rotation(theta).Transform(p).Zap()
}

// Normal returns p rotated by 90 degrees counterclockwise.
func (p Pair) Normal() Pair {
	return P(-p.Y(), p.X())
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT []float64 // a 3x3 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	return make([]float64, 9)
}

func (m AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	return []float64{m[col], m[3+col], m[6+col]}
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Scaling transform. Scales x by sx and y by sy. Negative factors mirror.
func Scaling(sx, sy float64) AT {
	m := Identity()
	m.set(0, 0, sx)
	m.set(1, 1, sy)
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Combine 2 affine transformation to a new one. Returns a new transformation
// without changing the argument(s). The resulting transform applies m first,
// then n.
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Inverse returns the inverse transform. Only the affine part (upper 2x3)
// is considered.
func (m AT) Inverse() (AT, error) {
	a, b, c := m.get(0, 0), m.get(0, 1), m.get(0, 2)
	d, e, f := m.get(1, 0), m.get(1, 1), m.get(1, 2)
	det := a*e - b*d
	if Is0(det) {
		tracer().Errorf("cannot invert transform %s", m)
		return nil, ErrSingular
	}
	inv := newAT()
	inv.set(0, 0, e/det)
	inv.set(0, 1, -b/det)
	inv.set(0, 2, (b*f-c*e)/det)
	inv.set(1, 0, -d/det)
	inv.set(1, 1, a/det)
	inv.set(1, 2, (c*d-a*f)/det)
	inv.set(2, 2, 1.0)
	return inv, nil
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Y(), 1.0}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}

// TransformVector transforms a direction, ignoring the translational part.
func (m AT) TransformVector(v Pair) Pair {
	w := []float64{v.X(), v.Y(), 0}
	return P(dotProd(m.row(0), w), dotProd(m.row(1), w))
}
