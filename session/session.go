/*
Package session wires the parts of an editing session together: parameter
store, path collection, canvas tracker, editor controller and the
trajectory adapter.

A Session is driven from a single goroutine, usually a UI event loop.
Generation results arrive asynchronously; use SetDispatcher to have them
delivered on the UI goroutine.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package session

import (
	"context"

	"github.com/npillmayer/fieldpath/canvas"
	"github.com/npillmayer/fieldpath/config"
	"github.com/npillmayer/fieldpath/editor"
	"github.com/npillmayer/fieldpath/params"
	"github.com/npillmayer/fieldpath/paths"
	"github.com/npillmayer/fieldpath/trajectory"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'session'
func tracer() tracing.Trace {
	return tracing.Select("session")
}

// TraceKeys lists the tracer keys of all packages of an editing session.
var TraceKeys = []string{
	"fieldpath", "spline", "params", "paths", "canvas", "editor",
	"trajectory", "profile", "config", "session",
}

// Session is one editing session.
type Session struct {
	catalogue  *canvas.Catalogue
	store      *params.Store
	paths      *paths.Collection
	tracker    *canvas.Tracker
	controller *editor.Controller
	adapter    *trajectory.Adapter
	state      editor.State
	deferred   context.Context // generation requested during a gesture
	lastTicket *trajectory.Ticket
}

// New creates a session from a validated configuration.
func New(cfg config.Config, gen trajectory.Generator) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyTraceLevel(TraceKeys...)
	s := &Session{catalogue: cfg.Catalogue()}
	field, err := s.catalogue.Get(cfg.Field)
	if err != nil {
		return nil, err
	}
	s.store = params.NewStore(cfg.ParamLimits(), field.Name)
	s.paths = paths.NewCollection()
	s.tracker = canvas.NewTracker(field)
	s.controller = editor.NewController(s.paths, s.tracker)
	if cfg.Editor.HandleRadius > 0 {
		s.controller.HandleRadius = cfg.Editor.HandleRadius
	}
	s.adapter = trajectory.NewAdapter(gen)
	s.state = editor.NewState(cfg.StartMode(), cfg.Editor.Latch)
	return s, nil
}

// State is the current interaction state.
func (s *Session) State() editor.State {
	return s.state
}

// SetMode switches the editing mode.
func (s *Session) SetMode(m editor.Mode) {
	s.state = s.state.WithMode(m)
}

// SetLatch sets the mode latch.
func (s *Session) SetLatch(latch bool) {
	s.state = s.state.WithLatch(latch)
}

// Pointer applies a pointer event in pixel coordinates. A generation
// requested during a gesture is started once the gesture completes.
func (s *Session) Pointer(ev editor.PointerEvent) (editor.Outcome, error) {
	state, out, err := s.controller.Handle(s.state, ev)
	s.state = state
	if err != nil {
		tracer().Errorf("pointer %s at %v: %v", ev.Phase, ev.Pos, err)
	}
	if s.deferred != nil && !s.state.InGesture() {
		ctx := s.deferred
		s.deferred = nil
		s.lastTicket = s.start(ctx)
	}
	return out, err
}

// Layout publishes the size of the drawing surface in pixels.
func (s *Session) Layout(width, height float64) bool {
	return s.tracker.Publish(width, height)
}

// SetParam sets a kinematic limit from text input. The error reports
// unusable input; the store keeps the last good value then. Partial input
// typed on the way to a number, e.g. "" or "-" or ".", reports a
// params.ParseError as well.
func (s *Session) SetParam(kind params.Kind, text string) error {
	s.store.Set(kind, text)
	return s.store.Err(kind)
}

// SelectField switches the field background.
func (s *Session) SelectField(name string) error {
	f, err := s.catalogue.Get(name)
	if err != nil {
		return err
	}
	s.store.SelectField(f.Name)
	s.tracker.SetField(f)
	return nil
}

// Smooth recomputes the tangent vectors of the active path.
func (s *Session) Smooth() error {
	label := s.paths.Active()
	if label == "" {
		return nil
	}
	return s.paths.Smooth(label)
}

// Generate requests trajectories for the current paths and parameters.
// While a gesture is in progress the request is deferred until the gesture
// completes and Generate returns nil; the deferred ticket is available from
// Ticket afterwards.
func (s *Session) Generate(ctx context.Context) *trajectory.Ticket {
	if s.state.InGesture() {
		tracer().Debugf("gesture in progress, deferring generation")
		s.deferred = ctx
		return nil
	}
	s.lastTicket = s.start(ctx)
	return s.lastTicket
}

func (s *Session) start(ctx context.Context) *trajectory.Ticket {
	return s.adapter.Generate(ctx, trajectory.Capture(s.paths, s.store, s.tracker))
}

// Deferred is true while a generation request waits for a gesture to complete.
func (s *Session) Deferred() bool {
	return s.deferred != nil
}

// Ticket is the ticket of the most recent generation request.
func (s *Session) Ticket() *trajectory.Ticket {
	return s.lastTicket
}

// Latest is the most recent generation result, which may be stale.
func (s *Session) Latest() *trajectory.Result {
	return s.adapter.Latest()
}

// Current is the most recent generation result if no path or parameter
// changed since its snapshot was taken, or nil.
func (s *Session) Current() *trajectory.Result {
	r := s.adapter.Latest()
	if r == nil || !r.IsCurrent(s.paths.Revision(), s.store.Revision()) {
		return nil
	}
	return r
}

// OnResult registers a listener for generation results.
func (s *Session) OnResult(listener func(*trajectory.Result)) {
	s.adapter.OnResult(listener)
}

// SetDispatcher sets how results are delivered to listeners.
func (s *Session) SetDispatcher(dispatch func(func())) {
	s.adapter.SetDispatcher(dispatch)
}

// Paths is the path collection.
func (s *Session) Paths() *paths.Collection {
	return s.paths
}

// Params is the parameter store.
func (s *Session) Params() *params.Store {
	return s.store
}

// Canvas is the canvas tracker.
func (s *Session) Canvas() *canvas.Tracker {
	return s.tracker
}

// Fields is the field catalogue.
func (s *Session) Fields() *canvas.Catalogue {
	return s.catalogue
}
