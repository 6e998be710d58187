package spline

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testpath() *Path {
	return Nullpath().Knot(P(1, 1)).Knot(P(2, 2)).Knot(P(3, 1)).End()
}

func TestSliceEnlargement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	arr := make([]fieldpath.Pair, 0)
	arr = extendC(arr, 3, 2+1i)
	if arr[3] != 2+1i {
		t.Fail()
	}
	assert.False(t, getC(arr, 7, fieldpath.Unknown).IsValid())
}

func TestCreatePath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := testpath()
	assert.Equal(t, 3, path.N())
	assert.False(t, path.HasTangent(1))
	path.SetTangent(1, P(1, 0))
	assert.True(t, path.HasTangent(1))
	assert.Equal(t, P(3, 1), path.Z(10), "indices beyond the end are clamped")
}

func TestAsString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := testpath()
	assert.Equal(t, "(1,1) .. (2,2) .. (3,1)", AsString(path, nil))
	straight := Nullpath().TangentKnot(P(0, 0), P(3, 0)).TangentKnot(P(3, 0), P(3, 0)).End()
	controls, err := FindHermiteControls(straight)
	require.NoError(t, err)
	assert.Equal(t, "(0,0) .. controls (1.0000,0.0000) and (2.0000,0.0000)\n  .. (3,0)",
		AsString(straight, controls))
}

func TestHermiteRejectsInvalidPaths(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := FindHermiteControls(nil)
	assert.True(t, errors.Is(err, ErrNilPath))
	_, err = FindHermiteControls(Nullpath().TangentKnot(P(0, 0), P(1, 0)).End())
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, err = FindHermiteControls(Nullpath().TangentKnot(P(0, 0), P(1, 0)).Knot(P(1, 1)).End())
	assert.True(t, errors.Is(err, ErrInvalidTangent))
	_, err = FindHermiteControls(Nullpath().TangentKnot(P(0, math.NaN()), P(1, 0)).
		TangentKnot(P(1, 1), P(1, 0)).End())
	assert.True(t, errors.Is(err, ErrInvalidKnot))
	_, err = Interpolate([]fieldpath.Pair{P(0, 0), P(1, 0)}, []fieldpath.Pair{P(1, 0)})
	assert.True(t, errors.Is(err, ErrInvalidTangent))
}

func TestHermiteCurvePassesThroughKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	points := []fieldpath.Pair{P(0, 0), P(4, 2), P(8, 0)}
	tangents := []fieldpath.Pair{P(2, 2), P(3, 0), P(2, -2)}
	curve, err := Interpolate(points, tangents)
	require.NoError(t, err)
	require.Equal(t, 2, curve.Segments())
	for i, z := range points {
		assert.True(t, curve.At(float64(i)).Equal(z), "knot %d: got %v", i, curve.At(float64(i)))
	}
	// tangent at the knots equals the vector, for both adjacent segments
	assert.True(t, curve.Derivative(0).Equal(tangents[0]))
	assert.True(t, curve.derivative(0, 1).Equal(tangents[1]))
	assert.True(t, curve.derivative(1, 0).Equal(tangents[1]))
	assert.True(t, curve.Derivative(2).Equal(tangents[2]))
	assert.InDelta(t, 0, curve.Heading(1), 1e-9)
}

func TestStraightLineLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	curve, err := Interpolate([]fieldpath.Pair{P(0, 0), P(10, 0)}, []fieldpath.Pair{P(10, 0), P(10, 0)})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, curve.Length(), 1e-6)
	assert.InDelta(t, 0.0, curve.Curvature(0.5), 1e-9)
	pts := curve.Sample(11)
	require.Len(t, pts, 11)
	assert.True(t, pts[5].Equal(P(5, 0)), "got %v", pts[5])
}

func TestQuarterCircleCurvature(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// Hermite approximation of a unit quarter circle, turning left
	k := 4 * (math.Sqrt2 - 1) / 3 * 3
	curve, err := Interpolate([]fieldpath.Pair{P(1, 0), P(0, 1)}, []fieldpath.Pair{P(0, k), P(-k, 0)})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, curve.Length(), 1e-3)
	assert.InDelta(t, 1.0, curve.Curvature(0.5), 0.01)
}

func TestHobbyTangentsStraight(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracing.Select("spline").SetTraceLevel(tracing.LevelInfo)
	path := Nullpath().Knot(P(0, 0)).Knot(P(3, 0)).Knot(P(6, 0)).End()
	tangents, err := FindHobbyTangents(path)
	require.NoError(t, err)
	require.Len(t, tangents, 3)
	for i, v := range tangents {
		assert.InDelta(t, 0, v.Angle(), 1e-6, "tangent %d = %v", i, v)
		assert.InDelta(t, 3, v.Abs(), 1e-6, "tangent %d = %v", i, v)
	}
}

func TestHobbyKeepsExplicitTangents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := Nullpath().TangentKnot(P(0, 0), P(0, 5)).Knot(P(2, 2)).TangentKnot(P(4, 0), P(0, -5)).End()
	tangents, err := FindHobbyTangents(path)
	require.NoError(t, err)
	assert.Equal(t, P(0, 5), tangents[0])
	assert.Equal(t, P(0, -5), tangents[2])
	// symmetric arch: the apex is passed horizontally
	assert.InDelta(t, 0, tangents[1].Angle(), 1e-6, "apex tangent %v", tangents[1])
	assert.Greater(t, tangents[1].X(), 0.0)
	curve, err := Interpolate(path.Knots(), tangents)
	require.NoError(t, err)
	assert.True(t, curve.At(1).Equal(P(2, 2)))
}

func TestHobbyRejectsDegenerateSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := Nullpath().Knot(P(1, 1)).Knot(P(1, 1)).End()
	_, err := FindHobbyTangents(path)
	assert.True(t, errors.Is(err, ErrDegenerateSegment))
}

func TestSplitSegments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := Nullpath().Knot(P(0, 0)).TangentKnot(P(1, 1), P(1, 0)).Knot(P(2, 0)).Knot(P(3, 1)).End()
	segs := splitSegments(path)
	require.Len(t, segs, 2)
	assert.Equal(t, 0, segs[0].start)
	assert.Equal(t, 1, segs[0].end)
	assert.Equal(t, 1, segs[1].start)
	assert.Equal(t, 3, segs[1].end)
	assert.InDelta(t, math.Pi/2, segs[1].psi(1), 1e-9)
}
