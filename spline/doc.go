/*
Package spline computes smooth curves through the waypoints of a field path.

A path skeleton consists of knots (waypoints) and, per knot, an optional
tangent vector. Two ways to find the cubic Bézier control points between
consecutive knots are offered:

Hermite interpolation uses the tangent vector at every knot as the first
derivative of the curve at that knot. The curve passes through every knot
and leaves it in the direction of the tangent, with a velocity given by the
tangent's magnitude. Control points for the segment from z.i to z.i+1 are

	z.i + v.i/3   and   z.i+1 - v.i+1/3

Hobby's algorithm finds "aesthetically pleasing" directions for knots
without a tangent. The primary source of information for Hobby-splines is:

	Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
	Computer Science Dept. Stanford University
	Report No. STAN-CS-85-1047, Jan 1985

The practical algorithm is explained in Computers & Typesetting, Vol. B & D.
Only open paths with neutral tension and curl are supported here, as field
paths never form cycles.

Usage

	path := Nullpath().TangentKnot(P(0,0), P(1,0)).Knot(P(2,3)).TangentKnot(P(5,3), P(0,-2)).End()
	tangents, err := FindHobbyTangents(path)    // fill in missing tangent at (2,3)
	...
	curve, err := Interpolate(path.Knots(), tangents)

Curves are evaluated with a parameter t in [0, Segments()], where the integer
part of t selects the segment.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"fmt"

	"github.com/npillmayer/fieldpath"
)

// AsString returns
// a path -- optionally including spline control point information -- as a (debugging)
// string. The string contains newlines if control point information is present.
// Otherwise it will include the knot coordinates in one line.
//
// Example, a Hermite path with tangents (3,0) at both knots:
//
//	(0,0) .. controls (1.0000,0.0000) and (2.0000,0.0000)
//	  .. (3,0)
func AsString(path *Path, contr *Controls) string {
	var s string
	for i := 0; i < path.N(); i++ {
		if i > 0 {
			if contr != nil {
				s += fmt.Sprintf(" and %s\n  .. ", ptstring(contr.PreControl(i), true))
			} else {
				s += " .. "
			}
		}
		s += ptstring(path.Z(i), false)
		if contr != nil && i < path.N()-1 {
			s += fmt.Sprintf(" .. controls %s", ptstring(contr.PostControl(i), true))
		}
	}
	return s
}

// P is a shortcut for fieldpath.P.
func P(x, y float64) fieldpath.Pair {
	return fieldpath.P(x, y)
}
