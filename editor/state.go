/*
Package editor interprets pointer input on the drawing surface as edits of
the path collection.

Interaction state (mode, latch, the gesture in progress) is an immutable
State value. The Controller takes a State and a pointer event and returns
the successor State; it never keeps interaction state of its own.

A gesture runs from a pointer-down to the matching pointer-up event. It is
interpreted under the mode that was active when it started: mode switches
requested meanwhile take effect with the next gesture. When a gesture which
changed something completes and the latch is off, the mode reverts to None.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package editor

import (
	"fmt"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'editor'
func tracer() tracing.Trace {
	return tracing.Select("editor")
}

// Mode is an editing mode.
type Mode int

// The editing modes.
const (
	None         Mode = iota // pointer input is ignored
	AddPath                  // start a new path and place its first waypoint
	AddWaypoint              // append waypoints to the active path
	MoveWaypoint             // drag waypoints
	EditVector               // drag the tips of tangent vectors
	SelectPath               // make a path the active one
	DeletePath               // remove a path
	modeCount
)

var modeNames = [...]string{"none", "add-path", "add-waypoint", "move-waypoint",
	"edit-vector", "select-path", "delete-path"}

func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode finds a mode by name.
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return None, false
}

// Phase is the phase of a pointer event.
type Phase int

// Pointer event phases.
const (
	Down Phase = iota
	Move
	Up
)

func (ph Phase) String() string {
	switch ph {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return fmt.Sprintf("phase(%d)", int(ph))
}

// PointerEvent is a pointer event in pixel coordinates of the drawing surface.
type PointerEvent struct {
	Phase Phase
	Pos   fieldpath.Pair
}

// Pointer is a shortcut for creating pointer events.
func Pointer(phase Phase, x, y float64) PointerEvent {
	return PointerEvent{Phase: phase, Pos: fieldpath.P(x, y)}
}

// State is the interaction state of an editing session. States are values;
// all modifiers return a new State.
type State struct {
	Mode   Mode   // mode for the next gesture
	Latch  bool   // keep the mode after a completed action
	Active string // label of the active path, as of this state

	startNew bool     // next add-path press starts a new path
	gesture  *gesture // gesture in progress, if any
}

// gesture is a pointer interaction in progress. Gestures are never modified
// once referenced by a State.
type gesture struct {
	mode    Mode           // mode when the gesture started
	label   string         // path being edited
	index   int            // waypoint index being edited
	grab    fieldpath.Pair // pixel offset from pointer to handle
	last    fieldpath.Pair // last pointer position applied
	mutated bool           // did the gesture change anything?
}

// NewState creates a state for a mode.
func NewState(mode Mode, latch bool) State {
	return State{}.WithLatch(latch).WithMode(mode)
}

// WithMode requests a mode switch. A gesture in progress is not affected.
// Switching to AddPath makes the next press start a new path.
func (s State) WithMode(m Mode) State {
	if m < 0 || m >= modeCount {
		tracer().Errorf("ignoring unknown mode %d", int(m))
		return s
	}
	s.Mode = m
	s.startNew = m == AddPath
	return s
}

// WithLatch sets the latch.
func (s State) WithLatch(latch bool) State {
	s.Latch = latch
	return s
}

// InGesture is true while a pointer gesture is in progress.
func (s State) InGesture() bool {
	return s.gesture != nil
}

// GestureMode is the mode a gesture in progress is interpreted under.
func (s State) GestureMode() (Mode, bool) {
	if s.gesture == nil {
		return None, false
	}
	return s.gesture.mode, true
}

func (s State) String() string {
	g := ""
	if s.gesture != nil {
		g = fmt.Sprintf(", gesture %s on %s[%d]", s.gesture.mode, s.gesture.label, s.gesture.index)
	}
	return fmt.Sprintf("[%s latch=%v active=%q%s]", s.Mode, s.Latch, s.Active, g)
}
