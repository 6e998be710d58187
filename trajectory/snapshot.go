/*
Package trajectory hands paths and kinematic limits over to a numerical
profile generator and collects the generated trajectories.

Generation works on a Snapshot: an immutable capture of all paths, the
limits and the canvas geometry at one point in time. Snapshots are taken
synchronously on the event loop, so edits made while a generator is
running only ever affect the next snapshot.

Generation is triggered explicitly. Every trigger supersedes the requests
before it: a running request is not aborted, but its result is discarded
if a newer request has started in the meantime. Results therefore never
appear out of order.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package trajectory

import (
	"fmt"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/canvas"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/paths"
	"github.com/npillmayer/fieldpath/spline"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'trajectory'
func tracer() tracing.Trace {
	return tracing.Select("trajectory")
}

// IncompletePathWarning reports a path which cannot be generated because it
// has fewer than two waypoints. It is an expected state, not a failure.
type IncompletePathWarning struct {
	Label     string
	Waypoints int
}

func (w *IncompletePathWarning) Error() string {
	return fmt.Sprintf("path %s has %d waypoint(s), needs at least 2", w.Label, w.Waypoints)
}

// PathSnapshot is the captured geometry of one path.
type PathSnapshot struct {
	Label     string
	Waypoints []fieldpath.Pair
	Vectors   []fieldpath.Pair
	Curve     *spline.Curve
}

// Len is the number of waypoint/vector pairs.
func (ps PathSnapshot) Len() int {
	return len(ps.Waypoints)
}

// Snapshot is an immutable capture of everything a generator needs.
// Generators must not modify a snapshot.
type Snapshot struct {
	Seq            uint64                   // set by the adapter
	Order          []string                 // all labels, in creation order
	Paths          []PathSnapshot           // complete paths, in creation order
	Incomplete     []*IncompletePathWarning // paths left out
	Limits         params.Limits
	Field          canvas.Field
	Extents        canvas.Extents
	PathsRevision  uint64
	ParamsRevision uint64
}

// Labels lists the labels of all captured paths, complete or not, in
// creation order.
func (snap *Snapshot) Labels() []string {
	return append([]string(nil), snap.Order...)
}

// Capture takes a snapshot. Paths with fewer than two waypoints are left
// out and reported as IncompletePathWarning.
func Capture(coll *paths.Collection, store *params.Store, tracker *canvas.Tracker) Snapshot {
	snap := Snapshot{
		Limits:         store.Limits(),
		Field:          tracker.Field(),
		Extents:        tracker.Extents(),
		Order:          coll.Labels(),
		PathsRevision:  coll.Revision(),
		ParamsRevision: store.Revision(),
	}
	for _, p := range coll.Paths() {
		if !p.Complete() {
			w := &IncompletePathWarning{Label: p.Label(), Waypoints: p.Len()}
			tracer().Infof("%v", w)
			snap.Incomplete = append(snap.Incomplete, w)
			continue
		}
		curve, err := p.Curve()
		if err != nil {
			tracer().Errorf("path %s has no curve: %v", p.Label(), err)
			snap.Incomplete = append(snap.Incomplete, &IncompletePathWarning{Label: p.Label(), Waypoints: p.Len()})
			continue
		}
		snap.Paths = append(snap.Paths, PathSnapshot{
			Label:     p.Label(),
			Waypoints: p.Waypoints(),
			Vectors:   p.Vectors(),
			Curve:     curve,
		})
	}
	return snap
}
