package spline

import (
	"errors"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'spline'
func tracer() tracing.Trace {
	return tracing.Select("spline")
}

const pi float64 = 3.14159265
const pi2 float64 = 6.28318530
const _epsilon = 0.0000001

var (
	// ErrNilPath indicates a nil path pointer.
	ErrNilPath = errors.New("path must not be nil")
	// ErrTooFewKnots indicates path knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("path has too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("path has invalid knot coordinate")
	// ErrInvalidTangent indicates a missing or non-finite tangent where one is required.
	ErrInvalidTangent = errors.New("path has invalid tangent")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("path has degenerate segment")
)

// Path is the skeleton of a curve: knots and optional tangent vectors.
// To construct a path, start with Nullpath(), which creates an empty
// path, and then extend it.
type Path struct {
	points   []fieldpath.Pair // point i
	tangents []fieldpath.Pair // explicit tangent at point i, Unknown if unset
}

// A segment view onto a parent path, used by Hobby's algorithm.
// Inner knots of a segment never carry an explicit tangent.
type pathPartial struct {
	whole *Path // parent path
	start int   // first index within parent path
	end   int   // last index within parent path
}

// Controls collects calculated spline control points.
type Controls struct {
	prec  []fieldpath.Pair // control point i-, to be calculated
	postc []fieldpath.Pair // control point i+, to be calculated
}
