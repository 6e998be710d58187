package profile

import (
	"math"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/fieldpath/trajectory"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// columns holds a trajectory column-wise, one slice per quantity.
type columns struct {
	t, x, y, s, v, a, j, h, k []float64
}

func newColumns(n int) *columns {
	return &columns{
		t: make([]float64, n), x: make([]float64, n), y: make([]float64, n),
		s: make([]float64, n), v: make([]float64, n), a: make([]float64, n),
		j: make([]float64, n), h: make([]float64, n), k: make([]float64, n),
	}
}

func (c *columns) len() int {
	return len(c.t)
}

func (c *columns) all() [][]float64 {
	return [][]float64{c.t, c.x, c.y, c.s, c.v, c.a, c.j, c.h, c.k}
}

// sampleCurve samples n points at equal arc-length steps.
func sampleCurve(curve *spline.Curve, table *interp.PiecewiseLinear, length float64, n int) *columns {
	c := newColumns(n)
	floats.Span(c.s, 0, length)
	for i, s := range c.s {
		u := table.Predict(s)
		c.x[i], c.y[i] = curve.At(u).F()
		c.h[i] = curve.Heading(u)
		c.k[i] = curve.Curvature(u)
	}
	return c
}

// limitVelocity finds velocities obeying the limits. Velocities start
// from the curvature caps and an acceleration limited forward pass from
// rest and backward pass to rest. They are then lowered until neither the
// acceleration nor the jerk limit is violated anywhere.
//
// The work is done on w = v². For equally spaced samples, the acceleration
// between samples i-1 and i is (w.i - w.i-1)/2ds, so jerk is bounded by the
// second difference of w.
func (c *columns) limitVelocity(limits params.Limits) {
	n := c.len()
	ds := c.s[1] - c.s[0]
	w := make([]float64, n)
	for i := range w {
		vmax := limits.MaxVelocity / (1 + math.Abs(c.k[i])*limits.TrackWidth/2)
		w[i] = vmax * vmax
	}
	w[0], w[n-1] = 0, 0
	dw := 2 * limits.MaxAcceleration * ds
	for i := 1; i < n; i++ {
		w[i] = math.Min(w[i], w[i-1]+dw)
	}
	for i := n - 2; i >= 0; i-- {
		w[i] = math.Min(w[i], w[i+1]+dw)
	}
	// first step from rest: jerk = w.1^1.5 / 4ds²
	w[1] = math.Min(w[1], math.Pow(4*ds*ds*limits.MaxJerk, 2.0/3))
	j := jerkLimiter{w: w, ds: ds, dw: dw, jerk: limits.MaxJerk}
	maxSweeps := 4*n + 100
	sweeps := 0
	for ; sweeps < maxSweeps; sweeps++ {
		changed := false
		for i := 1; i < n; i++ {
			changed = j.fix(i) || changed
		}
		for i := n - 1; i > 0; i-- {
			changed = j.fix(i) || changed
		}
		if !changed {
			break
		}
	}
	if sweeps == maxSweeps {
		tracer().Errorf("jerk limiting did not settle after %d sweeps", sweeps)
	}
	tracer().Debugf("jerk limiting took %d sweeps over %d samples", sweeps, n)
	for i, x := range w {
		c.v[i] = math.Sqrt(math.Max(0, x))
	}
}

// slack is the violation of a limit which is tolerated.
const slack = 1e-12

// jerkLimiter lowers squared velocities w to satisfy acceleration and
// jerk limits. Lowering never breaks a velocity cap; w.0 and w.n-1 stay 0.
type jerkLimiter struct {
	w    []float64
	ds   float64 // sample spacing
	dw   float64 // largest change of w between samples
	jerk float64
}

// fix repairs the samples i-2, i-1 and i and reports whether it changed
// anything.
func (j *jerkLimiter) fix(i int) bool {
	w, n := j.w, len(j.w)
	changed := false
	if w[i]-w[i-1] > j.dw+slack {
		w[i] = w[i-1] + j.dw
		changed = true
	}
	if w[i-1]-w[i] > j.dw+slack {
		w[i-1] = w[i] + j.dw
		changed = true
	}
	if i < 2 {
		return changed
	}
	vsum := math.Sqrt(math.Max(0, w[i-1])) + math.Sqrt(math.Max(0, w[i]))
	if vsum <= fieldpath.Epsilon {
		return changed
	}
	lim := 2 * j.ds * j.jerk * (2 * j.ds / vsum) // 2ds·J·dt
	d := w[i] - 2*w[i-1] + w[i-2]
	switch {
	case d < -lim-slack: // acceleration drops too fast: lower the middle
		w[i-1] = (w[i] + w[i-2] + lim) / 2
	case d > lim+slack: // acceleration rises too fast: lower the higher side
		if (w[i] >= w[i-2] && i < n-1) || i-2 == 0 {
			w[i] -= d - lim
		} else {
			w[i-2] -= d - lim
		}
	default:
		return changed
	}
	return true
}

// integrateTime assigns times from velocities and derives acceleration and
// jerk as finite differences.
func (c *columns) integrateTime(limits params.Limits) {
	for i := 1; i < c.len(); i++ {
		ds := c.s[i] - c.s[i-1]
		vsum := c.v[i-1] + c.v[i]
		var dt float64
		if vsum > fieldpath.Epsilon {
			dt = 2 * ds / vsum
		} else {
			dt = math.Sqrt(2 * ds / limits.MaxAcceleration)
		}
		c.t[i] = c.t[i-1] + dt
		c.a[i] = (c.v[i] - c.v[i-1]) / dt
		c.j[i] = (c.a[i] - c.a[i-1]) / dt
	}
}

// wheels derives left and right wheel trajectories for a track width.
func (c *columns) wheels(width float64) (*columns, *columns) {
	left, right := newColumns(c.len()), newColumns(c.len())
	for _, w := range []struct {
		col  *columns
		side float64 // +1 left, -1 right
	}{{left, 1}, {right, -1}} {
		col := w.col
		copy(col.t, c.t)
		copy(col.h, c.h)
		for i := range c.t {
			offset := fieldpath.P(math.Cos(c.h[i]), math.Sin(c.h[i])).Normal().Scaled(w.side * width / 2)
			col.x[i], col.y[i] = (fieldpath.P(c.x[i], c.y[i]) + offset).F()
			scale := 1 - w.side*c.k[i]*width/2
			col.v[i] = c.v[i] * scale
			if math.Abs(scale) > fieldpath.Epsilon {
				col.k[i] = c.k[i] / scale
			}
		}
		ds := make([]float64, c.len())
		for i := 1; i < c.len(); i++ {
			dt := c.t[i] - c.t[i-1]
			ds[i] = (col.v[i-1] + col.v[i]) / 2 * dt
			col.a[i] = (col.v[i] - col.v[i-1]) / dt
			col.j[i] = (col.a[i] - col.a[i-1]) / dt
		}
		floats.CumSum(col.s, ds)
	}
	return left, right
}

// resample interpolates all quantities at equal time steps.
func (c *columns) resample(dt float64) *columns {
	duration := c.t[c.len()-1]
	n := int(math.Floor(duration/dt)) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
	}
	if last := times[n-1]; duration-last > fieldpath.Epsilon {
		times = append(times, duration)
	}
	heading := unwrap(c.h)
	out := newColumns(len(times))
	src := c.all()
	src[7] = heading
	for q, col := range out.all() {
		if q == 0 {
			copy(col, times)
			continue
		}
		pl := interp.PiecewiseLinear{}
		if err := pl.Fit(c.t, src[q]); err != nil {
			tracer().Errorf("cannot resample: %v", err)
			return c
		}
		for i, t := range times {
			col[i] = pl.Predict(t)
		}
	}
	for i, h := range out.h {
		out.h[i] = math.Remainder(h, 2*math.Pi)
	}
	return out
}

// unwrap removes jumps of 2π from a sequence of angles.
func unwrap(angles []float64) []float64 {
	out := make([]float64, len(angles))
	if len(angles) == 0 {
		return out
	}
	out[0] = angles[0]
	for i := 1; i < len(angles); i++ {
		d := math.Remainder(angles[i]-angles[i-1], 2*math.Pi)
		out[i] = out[i-1] + d
	}
	return out
}

func (c *columns) segments() []trajectory.Segment {
	segs := make([]trajectory.Segment, c.len())
	for i := range segs {
		segs[i] = trajectory.Segment{
			Time: c.t[i], X: c.x[i], Y: c.y[i], Position: c.s[i],
			Velocity: c.v[i], Acceleration: c.a[i], Jerk: c.j[i],
			Heading: c.h[i], Curvature: c.k[i],
		}
	}
	return segs
}
