/*
Package paths manages the named paths of an editing session.

A path is an ordered sequence of waypoints with an index-aligned sequence
of tangent vectors; waypoint i pairs with vector i. From these a smooth
curve is derived, passing through every waypoint with the vector as its
tangent. The curve is cached and invalidated on every write.

Paths live in a Collection, which maps labels to paths and iterates in
creation order.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package paths

import (
	"fmt"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'paths'
func tracer() tracing.Trace {
	return tracing.Select("paths")
}

// DefaultVectorLength is the length of the tangent vector given to the first
// waypoint of a path. It points along the positive x-axis.
var DefaultVectorLength = 1.0

// Path is a labeled sequence of waypoints and tangent vectors.
// Paths are modified through their Collection only.
type Path struct {
	label     string
	waypoints []fieldpath.Pair
	vectors   []fieldpath.Pair
	curve     *spline.Curve // derived, nil if invalid
	curveErr  error
	valid     bool // is curve/curveErr up to date?
}

func newPath(label string) *Path {
	return &Path{label: label}
}

// Label is the unique name of a path.
func (p *Path) Label() string {
	return p.label
}

// Len is the number of waypoints, which equals the number of vectors.
func (p *Path) Len() int {
	return len(p.waypoints)
}

// Complete is true for paths with enough waypoints to form a curve.
func (p *Path) Complete() bool {
	return p.Len() >= 2
}

// Waypoint returns waypoint i.
func (p *Path) Waypoint(i int) fieldpath.Pair {
	return p.waypoints[i]
}

// Vector returns the tangent vector at waypoint i.
func (p *Path) Vector(i int) fieldpath.Pair {
	return p.vectors[i]
}

// Waypoints returns a copy of the waypoints.
func (p *Path) Waypoints() []fieldpath.Pair {
	return append([]fieldpath.Pair(nil), p.waypoints...)
}

// Vectors returns a copy of the tangent vectors.
func (p *Path) Vectors() []fieldpath.Pair {
	return append([]fieldpath.Pair(nil), p.vectors...)
}

// Curve returns the smooth curve through the waypoints. Paths with fewer
// than two waypoints have no curve and return an error wrapping
// spline.ErrTooFewKnots.
func (p *Path) Curve() (*spline.Curve, error) {
	if !p.valid {
		p.curve, p.curveErr = spline.Interpolate(p.waypoints, p.vectors)
		if p.curveErr != nil {
			p.curveErr = fmt.Errorf("path %s: %w", p.label, p.curveErr)
		}
		p.valid = true
	}
	return p.curve, p.curveErr
}

func (p *Path) String() string {
	return fmt.Sprintf("path %s: %s", p.label, spline.AsString(spline.FromKnots(p.waypoints, p.vectors), nil))
}

// --- Mutations (used by Collection) ----------------------------------------

func (p *Path) invalidate() {
	p.valid = false
	p.curve, p.curveErr = nil, nil
}

func (p *Path) checkIndex(i int) error {
	if i < 0 || i >= p.Len() {
		return fmt.Errorf("%w: index %d, path %s has %d waypoints", ErrIndexOutOfRange, i, p.label, p.Len())
	}
	return nil
}

// defaultVector is the tangent for a new waypoint at pos: the vector from the
// previous waypoint, or a fixed default for the first one.
func (p *Path) defaultVector(pos fieldpath.Pair) fieldpath.Pair {
	if p.Len() == 0 {
		return fieldpath.P(DefaultVectorLength, 0)
	}
	v := pos - p.waypoints[p.Len()-1]
	if fieldpath.Is0(v.Abs()) {
		return p.vectors[p.Len()-1]
	}
	return v
}

func (p *Path) append(pos fieldpath.Pair) {
	v := p.defaultVector(pos)
	p.waypoints = append(p.waypoints, pos)
	p.vectors = append(p.vectors, v)
	p.invalidate()
}

func (p *Path) setVector(i int, v fieldpath.Pair) {
	p.vectors[i] = v
	p.invalidate()
}

func (p *Path) setWaypoint(i int, pos fieldpath.Pair) {
	p.waypoints[i] = pos
	p.invalidate()
}

func (p *Path) setVectors(vs []fieldpath.Pair) {
	copy(p.vectors, vs)
	p.invalidate()
}
