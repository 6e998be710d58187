package editor

import (
	"fmt"
	"math"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/canvas"
	"github.com/npillmayer/fieldpath/paths"
)

// DefaultHandleRadius is the pick distance for waypoints and vector tips, in pixels.
const DefaultHandleRadius = 8.0

// curveSamples is the number of curve samples per segment used for picking paths.
const curveSamples = 16

// Outcome reports what an event did.
type Outcome struct {
	Completed bool   // a gesture which changed something completed
	Label     string // path touched by the gesture
	Reverted  bool   // the mode reverted to None
}

// Controller applies pointer events to a path collection.
type Controller struct {
	paths        *paths.Collection
	canvas       *canvas.Tracker
	HandleRadius float64 // pick distance in pixels
}

// NewController creates a controller. The tracker provides the coordinate
// mapping and the surface bounds.
func NewController(coll *paths.Collection, tracker *canvas.Tracker) *Controller {
	return &Controller{paths: coll, canvas: tracker, HandleRadius: DefaultHandleRadius}
}

// Handle interprets a pointer event under state s and returns the successor
// state. Events outside the surface are ignored, except that a pointer-up
// still completes the gesture in progress. Errors are structural: they
// come from the path collection and indicate inconsistent wiring, e.g. a
// path deleted behind the controller's back. The gesture is dropped then.
func (c *Controller) Handle(s State, ev PointerEvent) (State, Outcome, error) {
	var out Outcome
	var err error
	switch ev.Phase {
	case Down:
		if s.gesture != nil { // lost pointer-up
			s, out = c.finish(s)
		}
		if !c.canvas.Contains(ev.Pos) {
			tracer().Debugf("ignoring press outside canvas at %v", ev.Pos)
			break
		}
		s, err = c.press(s, ev.Pos)
	case Move:
		if s.gesture == nil || !c.canvas.Contains(ev.Pos) {
			break
		}
		s, err = c.drag(s, ev.Pos)
	case Up:
		if s.gesture == nil {
			break
		}
		if c.canvas.Contains(ev.Pos) {
			s, err = c.drag(s, ev.Pos)
		}
		if err == nil {
			s, out = c.finish(s)
		}
	}
	if err != nil {
		s.gesture = nil
	}
	s.Active = c.paths.Active()
	return s, out, err
}

// press starts a gesture according to the current mode.
func (c *Controller) press(s State, px fieldpath.Pair) (State, error) {
	pos := c.canvas.ToField(px)
	switch s.Mode {
	case AddPath:
		label := c.paths.Active()
		if s.startNew || label == "" {
			p, err := c.paths.Create(c.paths.NextLabel())
			if err != nil {
				return s, err
			}
			label = p.Label()
		}
		s.startNew = false
		return c.appendWaypoint(s, AddPath, label, px, pos)
	case AddWaypoint:
		label := c.paths.Active()
		if label == "" {
			tracer().Debugf("no active path to add a waypoint to")
			return s, nil
		}
		return c.appendWaypoint(s, AddWaypoint, label, px, pos)
	case MoveWaypoint:
		label, i, grab, ok := c.pickWaypoint(px)
		if !ok {
			return s, nil
		}
		if err := c.paths.Activate(label); err != nil {
			return s, err
		}
		s.gesture = &gesture{mode: MoveWaypoint, label: label, index: i, grab: grab, last: px}
	case EditVector:
		label, i, grab, ok := c.pickVector(px)
		if !ok {
			return s, nil
		}
		if err := c.paths.Activate(label); err != nil {
			return s, err
		}
		s.gesture = &gesture{mode: EditVector, label: label, index: i, grab: grab, last: px}
	case SelectPath:
		label, ok := c.pickPath(px)
		if !ok {
			return s, nil
		}
		if err := c.paths.Activate(label); err != nil {
			return s, err
		}
		s.gesture = &gesture{mode: SelectPath, label: label, last: px, mutated: true}
	case DeletePath:
		label, ok := c.pickPath(px)
		if !ok {
			return s, nil
		}
		c.paths.Delete(label)
		s.gesture = &gesture{mode: DeletePath, label: label, last: px, mutated: true}
	}
	return s, nil
}

func (c *Controller) appendWaypoint(s State, mode Mode, label string, px, pos fieldpath.Pair) (State, error) {
	if err := c.paths.Append(label, pos); err != nil {
		return s, err
	}
	p, _ := c.paths.Get(label)
	s.gesture = &gesture{mode: mode, label: label, index: p.Len() - 1, last: px, mutated: true}
	return s, nil
}

// drag continues a gesture to pixel position px.
func (c *Controller) drag(s State, px fieldpath.Pair) (State, error) {
	g := *s.gesture
	if px == g.last {
		return s, nil
	}
	target := c.canvas.ToField(px + g.grab)
	var err error
	switch g.mode {
	case AddPath, AddWaypoint, MoveWaypoint:
		err = c.paths.MoveWaypoint(g.label, g.index, target)
	case EditVector:
		p, ok := c.paths.Get(g.label)
		if !ok {
			err = fmt.Errorf("%w: %q", paths.ErrUnknownPath, g.label)
			break
		}
		err = c.paths.UpdateVector(g.label, g.index, target-p.Waypoint(g.index))
	default:
		return s, nil
	}
	if err != nil {
		return s, err
	}
	g.last = px
	g.mutated = true
	s.gesture = &g
	return s, nil
}

// finish completes the gesture in progress and applies the latch rule.
func (c *Controller) finish(s State) (State, Outcome) {
	g := s.gesture
	s.gesture = nil
	out := Outcome{Label: g.label}
	if !g.mutated {
		return s, out
	}
	out.Completed = true
	if !s.Latch && s.Mode == g.mode {
		s.Mode = None
		s.startNew = false
		out.Reverted = true
	}
	tracer().Debugf("%s gesture on path %s completed, mode now %s", g.mode, g.label, s.Mode)
	return s, out
}

// --- Picking ---------------------------------------------------------------

// pickWaypoint finds the waypoint handle nearest to px within the handle
// radius. The active path takes precedence.
func (c *Controller) pickWaypoint(px fieldpath.Pair) (string, int, fieldpath.Pair, bool) {
	return c.pickHandle(px, func(p *paths.Path, i int) fieldpath.Pair {
		return c.canvas.ToPixel(p.Waypoint(i))
	})
}

// pickVector finds the vector tip nearest to px within the handle radius.
func (c *Controller) pickVector(px fieldpath.Pair) (string, int, fieldpath.Pair, bool) {
	return c.pickHandle(px, func(p *paths.Path, i int) fieldpath.Pair {
		return c.canvas.ToPixel(p.Waypoint(i) + p.Vector(i))
	})
}

func (c *Controller) pickHandle(px fieldpath.Pair, handle func(*paths.Path, int) fieldpath.Pair) (
	string, int, fieldpath.Pair, bool) {
	//
	best, bestLabel, bestIndex := math.Inf(1), "", -1
	var grab fieldpath.Pair
	for _, p := range c.candidates() {
		for i := 0; i < p.Len(); i++ {
			h := handle(p, i)
			if d := h.Dist(px); d <= c.HandleRadius && d < best {
				best, bestLabel, bestIndex, grab = d, p.Label(), i, h-px
			}
		}
		if bestIndex >= 0 && p.Label() == c.paths.Active() {
			break
		}
	}
	return bestLabel, bestIndex, grab, bestIndex >= 0
}

// pickPath finds the path nearest to px, measured to its waypoints and
// curve, within the handle radius.
func (c *Controller) pickPath(px fieldpath.Pair) (string, bool) {
	best, bestLabel := math.Inf(1), ""
	for _, p := range c.candidates() {
		pts := p.Waypoints()
		if curve, err := p.Curve(); err == nil {
			pts = append(pts, curve.Sample(curve.Segments()*curveSamples+1)...)
		}
		for _, pt := range pts {
			if d := c.canvas.ToPixel(pt).Dist(px); d <= c.HandleRadius && d < best {
				best, bestLabel = d, p.Label()
			}
		}
	}
	return bestLabel, bestLabel != ""
}

// candidates lists paths for picking, the active path first.
func (c *Controller) candidates() []*paths.Path {
	all := c.paths.Paths()
	active := c.paths.Active()
	for i, p := range all {
		if p.Label() == active && i > 0 {
			all[0], all[i] = all[i], all[0]
			break
		}
	}
	return all
}
