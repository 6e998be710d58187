package paths

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkAligned(t *testing.T, c *Collection) {
	t.Helper()
	for _, p := range c.Paths() {
		assert.Equal(t, len(p.waypoints), len(p.vectors), "path %s", p.Label())
	}
}

func TestCreateAndDuplicate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	p, err := c.Create("A")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Label())
	assert.Equal(t, "A", c.Active())
	require.NoError(t, c.Append("A", fieldpath.P(1, 1)))
	rev := c.Revision()
	_, err = c.Create("A")
	assert.True(t, errors.Is(err, ErrDuplicateLabel))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, rev, c.Revision())
	p, _ = c.Get("A")
	assert.Equal(t, 1, p.Len(), "failed create must leave the collection unchanged")
	_, err = c.Create("")
	assert.True(t, errors.Is(err, ErrInvalidLabel))
}

func TestAppendDefaultVectors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	_, _ = c.Create("A")
	require.NoError(t, c.Append("A", fieldpath.P(0, 0)))
	require.NoError(t, c.Append("A", fieldpath.P(3, 4)))
	require.NoError(t, c.Append("A", fieldpath.P(3, 4)))
	p, _ := c.Get("A")
	require.Equal(t, 3, p.Len())
	assert.Equal(t, fieldpath.P(DefaultVectorLength, 0), p.Vector(0))
	assert.Equal(t, fieldpath.P(3, 4), p.Vector(1))
	assert.Equal(t, fieldpath.P(3, 4), p.Vector(2), "coincident waypoint repeats the previous vector")
	checkAligned(t, c)
	err := c.Append("B", fieldpath.P(0, 0))
	assert.True(t, errors.Is(err, ErrUnknownPath))
	err = c.Append("A", fieldpath.P(math.Inf(1), 0))
	assert.True(t, errors.Is(err, ErrInvalidCoordinate))
	assert.Equal(t, 3, p.Len())
}

func TestAppendIsolatesPaths(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	_, _ = c.Create("A")
	_ = c.Append("A", fieldpath.P(0, 0))
	_ = c.Append("A", fieldpath.P(1, 0))
	_, _ = c.Create("B")
	before, _ := c.Get("A")
	wps, vs := before.Waypoints(), before.Vectors()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Append("B", fieldpath.P(float64(i), 2)))
	}
	a, _ := c.Get("A")
	assert.Equal(t, wps, a.Waypoints())
	assert.Equal(t, vs, a.Vectors())
	checkAligned(t, c)
}

func TestUpdateVectorAndMove(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	_, _ = c.Create("A")
	_ = c.Append("A", fieldpath.P(0, 0))
	_ = c.Append("A", fieldpath.P(10, 0))
	require.NoError(t, c.UpdateVector("A", 0, fieldpath.P(0, 5)))
	err := c.UpdateVector("A", 2, fieldpath.P(1, 1))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	err = c.UpdateVector("A", -1, fieldpath.P(1, 1))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	require.NoError(t, c.MoveWaypoint("A", 1, fieldpath.P(10, 5)))
	err = c.MoveWaypoint("A", 5, fieldpath.P(1, 1))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	err = c.MoveWaypoint("Z", 0, fieldpath.P(1, 1))
	assert.True(t, errors.Is(err, ErrUnknownPath))
	p, _ := c.Get("A")
	assert.Equal(t, fieldpath.P(0, 5), p.Vector(0))
	assert.Equal(t, fieldpath.P(10, 5), p.Waypoint(1))
	assert.Equal(t, fieldpath.P(10, 0), p.Vector(1), "moving keeps the paired vector")
	checkAligned(t, c)
}

func TestCurveInvalidation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	_, _ = c.Create("A")
	_ = c.Append("A", fieldpath.P(0, 0))
	p, _ := c.Get("A")
	assert.False(t, p.Complete())
	_, err := p.Curve()
	assert.True(t, errors.Is(err, spline.ErrTooFewKnots))
	_ = c.Append("A", fieldpath.P(10, 0))
	curve, err := p.Curve()
	require.NoError(t, err)
	again, _ := p.Curve()
	assert.Same(t, curve, again, "curve is cached until the next write")
	_ = c.MoveWaypoint("A", 1, fieldpath.P(20, 0))
	moved, err := p.Curve()
	require.NoError(t, err)
	assert.NotSame(t, curve, moved)
	assert.True(t, moved.At(1).Equal(fieldpath.P(20, 0)))
}

func TestSmooth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	_, _ = c.Create("A")
	for _, pt := range []fieldpath.Pair{fieldpath.P(0, 0), fieldpath.P(3, 0), fieldpath.P(6, 0)} {
		_ = c.Append("A", pt)
	}
	require.NoError(t, c.Smooth("A"))
	p, _ := c.Get("A")
	assert.InDelta(t, 3.0, p.Vector(0).X(), 1e-6)
	assert.InDelta(t, 0.0, p.Vector(0).Y(), 1e-6)
	checkAligned(t, c)
	_, _ = c.Create("B")
	_ = c.Append("B", fieldpath.P(0, 0))
	err := c.Smooth("B")
	assert.True(t, errors.Is(err, spline.ErrTooFewKnots))
}

func TestDeleteAndOrder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	for _, l := range []string{"C", "A", "B"} {
		_, err := c.Create(l)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"C", "A", "B"}, c.Labels())
	assert.Equal(t, "B", c.Active())
	c.Delete("X") // no-op
	assert.Equal(t, 3, c.Len())
	c.Delete("B")
	assert.Equal(t, []string{"C", "A"}, c.Labels())
	assert.Equal(t, "", c.Active())
	assert.False(t, c.Has("B"))
	require.NoError(t, c.Activate("C"))
	assert.Equal(t, "C", c.Active())
	assert.True(t, errors.Is(c.Activate("B"), ErrUnknownPath))
}

func TestChangeNotification(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCollection()
	var ops []Op
	c.OnChange(func(ch Change) { ops = append(ops, ch.Op) })
	_, _ = c.Create("A")
	_ = c.Append("A", fieldpath.P(0, 0))
	_ = c.UpdateVector("A", 0, fieldpath.P(0, 1))
	_ = c.MoveWaypoint("A", 0, fieldpath.P(1, 1))
	_ = c.UpdateVector("A", 7, fieldpath.P(0, 1)) // fails, no notification
	_, _ = c.Create("B")
	_ = c.Activate("A")
	c.Delete("A")
	assert.Equal(t, []Op{Created, Appended, VectorUpdated, WaypointMoved, Created, Activated, Deleted}, ops)
	assert.Equal(t, uint64(6), c.Revision(), "activation is not a geometric change")
	assert.Equal(t, "waypoint-moved", WaypointMoved.String())
}

func TestNextLabel(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, "A", columnLabel(0))
	assert.Equal(t, "Z", columnLabel(25))
	assert.Equal(t, "AA", columnLabel(26))
	assert.Equal(t, "AB", columnLabel(27))
	assert.Equal(t, "BA", columnLabel(52))
	c := NewCollection()
	assert.Equal(t, "A", c.NextLabel())
	_, _ = c.Create("A")
	_, _ = c.Create("C")
	assert.Equal(t, "B", c.NextLabel())
}
