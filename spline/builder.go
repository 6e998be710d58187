package spline

import (
	"github.com/npillmayer/fieldpath"
)

func newSkeletonPath(points []fieldpath.Pair) *Path {
	path := &Path{}
	path.points = make([]fieldpath.Pair, len(points), len(points)*2)
	path.tangents = make([]fieldpath.Pair, len(points), len(points)*2)
	for i, pt := range points {
		path.points[i] = pt
		path.tangents[i] = fieldpath.Unknown
	}
	return path
}

// Nullpath creates an empty path, to be extended by subsequent builder
// calls. The following example builds a path of three knots, where the
// first and the last one have a given tangent:
//
//	path = Nullpath().TangentKnot(P(0,0), P(2,0)).Knot(P(3,2)).TangentKnot(P(5,2.5), P(0,1)).End()
func Nullpath() *Path {
	return newSkeletonPath(nil)
}

// FromKnots creates a path from waypoints and index-aligned tangent vectors.
// tangents may be shorter than points; missing tangents are left unset.
func FromKnots(points, tangents []fieldpath.Pair) *Path {
	path := newSkeletonPath(points)
	for i := 0; i < len(tangents) && i < len(points); i++ {
		path.tangents[i] = tangents[i]
	}
	return path
}

// End an open path. Part of builder functionality.
func (path *Path) End() *Path {
	return path
}

// Knot adds a knot without a tangent to a path. Part of builder functionality.
func (path *Path) Knot(p fieldpath.Pair) *Path {
	path.points = append(path.points, p)
	path.tangents = append(path.tangents, fieldpath.Unknown)
	return path
}

// TangentKnot adds a knot with a given tangent vector.
// Part of builder functionality.
func (path *Path) TangentKnot(p fieldpath.Pair, v fieldpath.Pair) *Path {
	path.points = append(path.points, p)
	path.tangents = append(path.tangents, v)
	return path
}

// SetTangent is a property setter.
func (path *Path) SetTangent(i int, v fieldpath.Pair) *Path {
	path.tangents = extendC(path.tangents, i, fieldpath.Unknown)
	path.tangents[i] = v
	return path
}

// N returns the length of this path (knot count).
func (path *Path) N() int {
	return len(path.points)
}

// Z returns the knot at position i. Indices beyond the ends are clamped.
func (path *Path) Z(i int) fieldpath.Pair {
	if i < 0 {
		i = 0
	} else if i >= path.N() {
		i = path.N() - 1
	}
	return path.points[i]
}

// Tangent gets the tangent vector at z.i, or fieldpath.Unknown.
func (path *Path) Tangent(i int) fieldpath.Pair {
	return getC(path.tangents, i, fieldpath.Unknown)
}

// HasTangent is a predicate: is there an explicit tangent at z.i?
func (path *Path) HasTangent(i int) bool {
	return path.Tangent(i).IsValid()
}

// Knots returns a copy of the knots of this path.
func (path *Path) Knots() []fieldpath.Pair {
	return append([]fieldpath.Pair(nil), path.points...)
}

// Tangents returns a copy of the tangents of this path, unset ones being Unknown.
func (path *Path) Tangents() []fieldpath.Pair {
	t := make([]fieldpath.Pair, path.N())
	for i := range t {
		t[i] = path.Tangent(i)
	}
	return t
}
