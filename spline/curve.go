package spline

import (
	"math"

	"github.com/npillmayer/fieldpath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// lengthSamples is the number of (odd) Simpson nodes per segment for arc length.
const lengthSamples = 33

// Curve is a piecewise cubic Bézier curve through the knots of a path.
// A curve is immutable once created.
type Curve struct {
	knots []fieldpath.Pair
	post  []fieldpath.Pair // control point after knot i
	pre   []fieldpath.Pair // control point before knot i
	lens  []float64        // cached segment arc lengths
}

// NewCurve creates a curve from a path and its control points.
func NewCurve(path *Path, controls *Controls) *Curve {
	n := path.N()
	c := &Curve{
		knots: path.Knots(),
		post:  make([]fieldpath.Pair, n),
		pre:   make([]fieldpath.Pair, n),
	}
	for i := 0; i < n; i++ {
		c.post[i] = controls.PostControl(i)
		c.pre[i] = controls.PreControl(i)
	}
	c.lens = make([]float64, c.Segments())
	for i := range c.lens {
		c.lens[i] = c.integrateLength(i)
	}
	return c
}

// Segments is the number of cubic segments, one less than the number of knots.
func (c *Curve) Segments() int {
	if len(c.knots) < 2 {
		return 0
	}
	return len(c.knots) - 1
}

// Knot returns knot i.
func (c *Curve) Knot(i int) fieldpath.Pair {
	return c.knots[i]
}

// Bezier returns the four Bézier points of segment i.
func (c *Curve) Bezier(i int) (p0, p1, p2, p3 fieldpath.Pair) {
	return c.knots[i], c.post[i], c.pre[i+1], c.knots[i+1]
}

// locate maps a curve parameter to a segment index and a local parameter in [0,1].
func (c *Curve) locate(t float64) (int, float64) {
	if t <= 0 {
		return 0, 0
	}
	n := c.Segments()
	if t >= float64(n) {
		return n - 1, 1
	}
	i := int(math.Floor(t))
	return i, t - float64(i)
}

// At evaluates the curve at parameter t, 0 ≤ t ≤ Segments().
func (c *Curve) At(t float64) fieldpath.Pair {
	i, s := c.locate(t)
	p0, p1, p2, p3 := c.Bezier(i)
	r := 1 - s
	return p0.Scaled(r*r*r) + p1.Scaled(3*r*r*s) + p2.Scaled(3*r*s*s) + p3.Scaled(s*s*s)
}

// Derivative is the first derivative of the curve at parameter t.
func (c *Curve) Derivative(t float64) fieldpath.Pair {
	i, s := c.locate(t)
	return c.derivative(i, s)
}

func (c *Curve) derivative(i int, s float64) fieldpath.Pair {
	p0, p1, p2, p3 := c.Bezier(i)
	r := 1 - s
	return (p1 - p0).Scaled(3*r*r) + (p2 - p1).Scaled(6*r*s) + (p3 - p2).Scaled(3*s*s)
}

// SecondDerivative is the second derivative of the curve at parameter t.
func (c *Curve) SecondDerivative(t float64) fieldpath.Pair {
	i, s := c.locate(t)
	p0, p1, p2, p3 := c.Bezier(i)
	return (p2 - p1.Scaled(2) + p0).Scaled(6*(1-s)) + (p3 - p2.Scaled(2) + p1).Scaled(6*s)
}

// Curvature is the signed curvature at parameter t. Positive values turn left.
// Where the curve has zero velocity the curvature is reported as 0.
func (c *Curve) Curvature(t float64) float64 {
	d1 := c.Derivative(t)
	speed := d1.Abs()
	if speed <= _epsilon {
		return 0
	}
	return d1.Cross(c.SecondDerivative(t)) / (speed * speed * speed)
}

// Heading is the direction of travel at parameter t, in radians.
func (c *Curve) Heading(t float64) float64 {
	return c.Derivative(t).Angle()
}

// Sample returns n points evenly spaced in curve parameter, including both ends.
func (c *Curve) Sample(n int) []fieldpath.Pair {
	if n < 2 || c.Segments() == 0 {
		return nil
	}
	ts := floats.Span(make([]float64, n), 0, float64(c.Segments()))
	pts := make([]fieldpath.Pair, n)
	for i, t := range ts {
		pts[i] = c.At(t)
	}
	return pts
}

// SegmentLength is the arc length of segment i.
func (c *Curve) SegmentLength(i int) float64 {
	return c.lens[i]
}

// Length is the arc length of the whole curve.
func (c *Curve) Length() float64 {
	return floats.Sum(c.lens)
}

// integrateLength integrates the speed |B'(s)| of segment i over [0,1].
func (c *Curve) integrateLength(i int) float64 {
	s := floats.Span(make([]float64, lengthSamples), 0, 1)
	speed := make([]float64, lengthSamples)
	for k, x := range s {
		speed[k] = c.derivative(i, x).Abs()
	}
	return integrate.Simpsons(s, speed)
}
