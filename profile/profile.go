/*
Package profile implements a numerical motion profile generator for
differential-drive robots.

For every path of a snapshot, the generator samples the path's curve at
equal arc-length steps and finds a velocity for every sample:

  - the velocity of the outer wheel in a curve must not exceed the maximum
    velocity, which caps the center velocity at vmax / (1 + |κ|·w/2)
  - the robot starts and ends at rest, and acceleration never exceeds the
    acceleration limit
  - acceleration changes no faster than the jerk limit allows, when
    speeding up, when settling into a velocity cap and when braking

Times follow from integrating ds/v. Left and right wheel trajectories are
offset from the center by half the track width; a wheel's velocity is the
center velocity scaled by (1 ∓ κ·w/2).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package profile

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/fieldpath/trajectory"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// tracer writes to trace with key 'profile'
func tracer() tracing.Trace {
	return tracing.Select("profile")
}

// Defaults for a Generator.
const (
	DefaultSpacing  = 0.05 // field units between samples
	DefaultTimeStep = 0.0  // no resampling
)

// denseSamples is the number of curve samples per segment for the arc-length table.
const denseSamples = 64

// ErrPathTooShort is returned for paths whose curve has (nearly) no length.
var ErrPathTooShort = errors.New("path has no length")

// Generator generates trajectories. The zero value uses DefaultSpacing and
// does not resample.
type Generator struct {
	Spacing  float64 // arc length between samples
	TimeStep float64 // if > 0, resample to equal time steps of this size
}

var _ trajectory.Generator = Generator{}

// Generate implements trajectory.Generator. Paths which cannot be driven
// are reported as trajectory.PathErrors; the other paths still get their
// trajectories.
func (g Generator) Generate(ctx context.Context, snap *trajectory.Snapshot) (map[string]*trajectory.Trajectory, error) {
	if err := snap.Limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}
	out := make(map[string]*trajectory.Trajectory, len(snap.Paths))
	failed := make(trajectory.PathErrors)
	for _, ps := range snap.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := g.Path(ps.Label, ps.Curve, snap.Limits)
		if err != nil {
			tracer().Infof("path %s: %v", ps.Label, err)
			failed[ps.Label] = err
			continue
		}
		out[ps.Label] = tr
	}
	if len(failed) > 0 {
		return out, failed
	}
	return out, nil
}

// Path generates the trajectory of a single curve.
func (g Generator) Path(label string, curve *spline.Curve, limits params.Limits) (*trajectory.Trajectory, error) {
	spacing := g.Spacing
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	table, length, err := arcLengthTable(curve)
	if err != nil {
		return nil, err
	}
	n := int(math.Ceil(length/spacing)) + 1
	if n < 3 {
		n = 3
	}
	center := sampleCurve(curve, table, length, n)
	center.limitVelocity(limits)
	center.integrateTime(limits)
	left, right := center.wheels(limits.TrackWidth)
	if g.TimeStep > 0 {
		center, left, right = center.resample(g.TimeStep), left.resample(g.TimeStep), right.resample(g.TimeStep)
	}
	tr := &trajectory.Trajectory{
		Label:  label,
		Center: center.segments(),
		Left:   left.segments(),
		Right:  right.segments(),
	}
	tracer().Infof("path %s: length %.3f, %d segments, duration %.3fs", label, length, len(tr.Center), tr.Duration())
	return tr, nil
}

// arcLengthTable maps arc length to curve parameter. Curve lengths are
// chord sums over a dense sampling.
func arcLengthTable(curve *spline.Curve) (*interp.PiecewiseLinear, float64, error) {
	m := curve.Segments()*denseSamples + 1
	us := floats.Span(make([]float64, m), 0, float64(curve.Segments()))
	var xs, ys []float64
	s, prev := 0.0, curve.At(0)
	xs, ys = append(xs, 0), append(ys, 0)
	for _, u := range us[1:] {
		pt := curve.At(u)
		d := prev.Dist(pt)
		prev = pt
		if d <= fieldpath.Epsilon {
			continue // arc length must strictly increase
		}
		s += d
		xs, ys = append(xs, s), append(ys, u)
	}
	if len(xs) < 2 {
		return nil, 0, ErrPathTooShort
	}
	ys[len(ys)-1] = float64(curve.Segments())
	table := &interp.PiecewiseLinear{}
	if err := table.Fit(xs, ys); err != nil {
		return nil, 0, err
	}
	tracer().Debugf("arc length %.4f (integrated %.4f)", s, curve.Length())
	return table, s, nil
}
