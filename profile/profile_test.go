package profile

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/fieldpath/trajectory"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var limits = params.Limits{TrackWidth: 0.45, MaxVelocity: 1.0, MaxAcceleration: 2.0, MaxJerk: 10.0}

const tolerance = 1e-6

func straight(t *testing.T) *spline.Curve {
	t.Helper()
	curve, err := spline.Interpolate(
		[]fieldpath.Pair{fieldpath.P(0, 0), fieldpath.P(10, 0)},
		[]fieldpath.Pair{fieldpath.P(10, 0), fieldpath.P(10, 0)})
	require.NoError(t, err)
	return curve
}

func arc(t *testing.T) *spline.Curve {
	t.Helper()
	k := 4 * (math.Sqrt2 - 1) * 2 // quarter circle of radius 2
	curve, err := spline.Interpolate(
		[]fieldpath.Pair{fieldpath.P(2, 0), fieldpath.P(0, 2)},
		[]fieldpath.Pair{fieldpath.P(0, k), fieldpath.P(-k, 0)})
	require.NoError(t, err)
	return curve
}

// point is a curve without length: coincident waypoints with zero vectors.
func point(t *testing.T) *spline.Curve {
	t.Helper()
	curve, err := spline.Interpolate(
		[]fieldpath.Pair{fieldpath.P(3, 3), fieldpath.P(3, 3)},
		[]fieldpath.Pair{fieldpath.Origin, fieldpath.Origin})
	require.NoError(t, err)
	return curve
}

func checkLimits(t *testing.T, segs []trajectory.Segment, vmax float64) {
	t.Helper()
	require.NotEmpty(t, segs)
	assert.InDelta(t, 0, segs[0].Velocity, tolerance)
	assert.InDelta(t, 0, segs[len(segs)-1].Velocity, tolerance)
	for i, seg := range segs {
		assert.LessOrEqual(t, seg.Velocity, vmax+tolerance, "segment %d", i)
		assert.GreaterOrEqual(t, seg.Velocity, -tolerance, "segment %d", i)
		if i > 0 {
			assert.Greater(t, seg.Time, segs[i-1].Time, "segment %d", i)
		}
	}
}

func TestStraightProfile(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr, err := Generator{Spacing: 0.1}.Path("A", straight(t), limits)
	require.NoError(t, err)
	checkLimits(t, tr.Center, limits.MaxVelocity)
	for i, seg := range tr.Center {
		assert.LessOrEqual(t, math.Abs(seg.Acceleration), limits.MaxAcceleration+tolerance, "segment %d", i)
		assert.InDelta(t, 0, seg.Y, tolerance)
		assert.InDelta(t, 0, seg.Heading, tolerance)
	}
	last := tr.Center[len(tr.Center)-1]
	assert.InDelta(t, 10, last.Position, 1e-3)
	assert.InDelta(t, 10, last.X, 1e-3)
	assert.Greater(t, tr.Duration(), 10.0, "cannot be faster than at max velocity all the way")
	assert.Less(t, tr.Duration(), 12.0)
	// cruising in the middle of the path
	mid := tr.Center[len(tr.Center)/2]
	assert.InDelta(t, limits.MaxVelocity, mid.Velocity, tolerance)
	// wheels run parallel, at the same speed
	require.Len(t, tr.Left, len(tr.Center))
	assert.InDelta(t, limits.TrackWidth/2, tr.Left[len(tr.Left)/2].Y, tolerance)
	assert.InDelta(t, -limits.TrackWidth/2, tr.Right[len(tr.Right)/2].Y, tolerance)
	assert.InDelta(t, mid.Velocity, tr.Left[len(tr.Left)/2].Velocity, tolerance)
	assert.InDelta(t, 10, tr.Right[len(tr.Right)-1].Position, 1e-3)
}

func TestJerkLimitedStart(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr, err := Generator{Spacing: 0.01}.Path("A", straight(t), limits)
	require.NoError(t, err)
	loose := limits
	loose.MaxJerk = 1000
	ref, err := Generator{Spacing: 0.01}.Path("A", straight(t), loose)
	require.NoError(t, err)
	// acceleration ramps up instead of jumping to its limit
	assert.InDelta(t, limits.MaxAcceleration, ref.Center[1].Acceleration, 1e-6)
	assert.Greater(t, tr.Center[1].Acceleration, 0.0)
	assert.Less(t, tr.Center[1].Acceleration, ref.Center[1].Acceleration-0.1)
}

func TestCurveSlowsDown(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr, err := Generator{Spacing: 0.02}.Path("A", arc(t), limits)
	require.NoError(t, err)
	checkLimits(t, tr.Center, limits.MaxVelocity)
	// turning left: the right wheel is the outer one
	vcap := limits.MaxVelocity / (1 + 0.5*limits.TrackWidth/2)
	for i := range tr.Center {
		assert.LessOrEqual(t, tr.Right[i].Velocity, limits.MaxVelocity+1e-3, "segment %d", i)
		assert.LessOrEqual(t, tr.Left[i].Velocity, tr.Right[i].Velocity+tolerance, "segment %d", i)
		assert.LessOrEqual(t, tr.Center[i].Velocity, vcap+1e-2, "segment %d", i)
	}
	mid := tr.Center[len(tr.Center)/2]
	assert.InDelta(t, 0.5, mid.Curvature, 0.01)
	assert.InDelta(t, math.Pi*3/4, mid.Heading, 0.05)
}

func TestResample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr, err := Generator{Spacing: 0.05, TimeStep: 0.1}.Path("A", arc(t), limits)
	require.NoError(t, err)
	require.Greater(t, len(tr.Center), 2)
	for i := 1; i < len(tr.Center)-1; i++ {
		assert.InDelta(t, 0.1, tr.Center[i].Time-tr.Center[i-1].Time, 1e-9)
	}
	assert.Equal(t, len(tr.Center), len(tr.Left))
	for _, seg := range tr.Center {
		assert.LessOrEqual(t, math.Abs(seg.Heading), math.Pi+tolerance)
	}
}

func TestGenerateSnapshot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	snap := &trajectory.Snapshot{
		Paths:  []trajectory.PathSnapshot{{Label: "A", Curve: straight(t)}, {Label: "B", Curve: arc(t)}},
		Limits: limits,
	}
	out, err := Generator{}.Generate(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "B", out["B"].Label)
	bad := *snap
	bad.Limits.MaxJerk = 0
	_, err = Generator{}.Generate(context.Background(), &bad)
	var perr *params.ParseError
	assert.True(t, errors.As(err, &perr))
	// a path without length fails on its own
	still := &trajectory.Snapshot{
		Paths:  append([]trajectory.PathSnapshot{{Label: "Z", Curve: point(t)}}, snap.Paths...),
		Limits: limits,
	}
	out, err = Generator{}.Generate(context.Background(), still)
	var failed trajectory.PathErrors
	require.True(t, errors.As(err, &failed))
	assert.True(t, errors.Is(failed["Z"], ErrPathTooShort))
	assert.Len(t, failed, 1)
	assert.NotNil(t, out["A"])
	assert.NotNil(t, out["B"])
	assert.Nil(t, out["Z"])
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Generator{}.Generate(ctx, snap)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUnwrap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.InDeltaSlice(t, []float64{0, 3, 2*math.Pi - 3}, unwrap([]float64{0, 3, -3}), 1e-9)
}

func maxJerk(segs []trajectory.Segment) (float64, int) {
	worst, at := 0.0, 0
	for i, seg := range segs {
		if j := math.Abs(seg.Jerk); j > worst {
			worst, at = j, i
		}
	}
	return worst, at
}

func TestJerkLimitedThroughout(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for name, curve := range map[string]*spline.Curve{"straight": straight(t), "arc": arc(t)} {
		for _, spacing := range []float64{0.05, 0.01} {
			tr, err := Generator{Spacing: spacing}.Path("A", curve, limits)
			require.NoError(t, err)
			checkLimits(t, tr.Center, limits.MaxVelocity)
			j, at := maxJerk(tr.Center)
			assert.LessOrEqual(t, j, limits.MaxJerk+1e-6, "%s, spacing %g: jerk %g at %d", name, spacing, j, at)
			for i, seg := range tr.Center {
				assert.LessOrEqual(t, math.Abs(seg.Acceleration), limits.MaxAcceleration+1e-6, "%s: segment %d", name, i)
			}
		}
	}
}
