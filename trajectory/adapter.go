package trajectory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrSuperseded is reported for requests whose result was discarded because
// a newer request started before they completed.
var ErrSuperseded = errors.New("generation request superseded")

// Segment is one time step of a trajectory.
type Segment struct {
	Time         float64 // seconds since start
	X, Y         float64 // field position
	Position     float64 // distance travelled
	Velocity     float64
	Acceleration float64
	Jerk         float64
	Heading      float64 // radians
	Curvature    float64
}

// Trajectory is the generated motion profile of one path: the path of the
// robot's center and of its left and right wheels.
type Trajectory struct {
	Label  string
	Center []Segment
	Left   []Segment
	Right  []Segment
}

// Duration is the time needed to drive the trajectory.
func (tr *Trajectory) Duration() float64 {
	if tr == nil || len(tr.Center) == 0 {
		return 0
	}
	return tr.Center[len(tr.Center)-1].Time
}

// Generator is a numerical profile generator. Implementations may run for a
// long time and are called off the event loop. They must not modify the
// snapshot and should return a trajectory for every path in snap.Paths.
// Failures of single paths are reported as PathErrors, together with the
// trajectories of all other paths; any other error fails the whole request.
type Generator interface {
	Generate(ctx context.Context, snap *Snapshot) (map[string]*Trajectory, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, snap *Snapshot) (map[string]*Trajectory, error)

// Generate calls f(ctx, snap).
func (f GeneratorFunc) Generate(ctx context.Context, snap *Snapshot) (map[string]*Trajectory, error) {
	return f(ctx, snap)
}

// PathErrors maps path labels to the errors generating them.
type PathErrors map[string]error

func (pe PathErrors) Error() string {
	labels := make([]string, 0, len(pe))
	for label := range pe {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	msgs := make([]string, len(labels))
	for i, label := range labels {
		msgs[i] = fmt.Sprintf("path %s: %v", label, pe[label])
	}
	return strings.Join(msgs, "; ")
}

// Outcome is the generation result for one path: either a trajectory, a
// warning for an incomplete path, or an error.
type Outcome struct {
	Trajectory *Trajectory
	Warning    *IncompletePathWarning
	Err        error
}

// Result collects the outcomes of one generation request, keyed by path label.
type Result struct {
	Snapshot *Snapshot
	Outcomes map[string]Outcome
	Err      error // the generator failed as a whole
}

// Labels lists the labels of the result in creation order.
func (r *Result) Labels() []string {
	return r.Snapshot.Labels()
}

// IsCurrent is a predicate: was the result generated from the given
// revisions of paths and parameters?
func (r *Result) IsCurrent(pathsRevision, paramsRevision uint64) bool {
	return r.Snapshot.PathsRevision == pathsRevision && r.Snapshot.ParamsRevision == paramsRevision
}

// Ticket tracks one generation request.
type Ticket struct {
	Seq    uint64
	done   chan struct{}
	result *Result
	err    error
}

// Done is closed when the request has completed or was discarded.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the request completes. It returns ErrSuperseded if the
// result was discarded.
func (t *Ticket) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Adapter forwards snapshots to a generator and publishes the latest result.
type Adapter struct {
	gen       Generator
	mu        sync.Mutex // guards fields below
	seq       uint64     // sequence number of the newest request
	latest    *Result
	listeners []func(*Result)
	dispatch  func(func())
	deliver   sync.Mutex // serializes listener calls
	delivered uint64     // sequence number of the last result delivered
}

// NewAdapter creates an adapter for a generator.
func NewAdapter(gen Generator) *Adapter {
	return &Adapter{
		gen:      gen,
		dispatch: func(f func()) { f() },
	}
}

// SetDispatcher sets the function used to deliver results to listeners,
// e.g. to post them onto a UI event loop. By default listeners are called
// on the generator's goroutine.
func (a *Adapter) SetDispatcher(dispatch func(func())) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dispatch = dispatch
}

// OnResult registers a listener for results which are not superseded.
func (a *Adapter) OnResult(listener func(*Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, listener)
}

// Generate starts a generation request for a snapshot and supersedes all
// earlier requests. The snapshot is owned by the adapter from now on.
func (a *Adapter) Generate(ctx context.Context, snap Snapshot) *Ticket {
	a.mu.Lock()
	a.seq++
	snap.Seq = a.seq
	a.mu.Unlock()
	ticket := &Ticket{Seq: snap.Seq, done: make(chan struct{})}
	tracer().Infof("generation #%d for %d path(s), %d incomplete", snap.Seq, len(snap.Paths), len(snap.Incomplete))
	go a.run(ctx, &snap, ticket)
	return ticket
}

func (a *Adapter) run(ctx context.Context, snap *Snapshot, ticket *Ticket) {
	defer close(ticket.done)
	result := &Result{Snapshot: snap, Outcomes: make(map[string]Outcome)}
	for _, w := range snap.Incomplete {
		result.Outcomes[w.Label] = Outcome{Warning: w}
	}
	var trajectories map[string]*Trajectory
	if len(snap.Paths) > 0 {
		trajectories, result.Err = a.gen.Generate(ctx, snap)
	}
	var failed PathErrors
	if errors.As(result.Err, &failed) {
		result.Err = nil
	}
	for _, ps := range snap.Paths {
		switch tr, ok := trajectories[ps.Label]; {
		case result.Err != nil:
			result.Outcomes[ps.Label] = Outcome{Err: result.Err}
		case failed[ps.Label] != nil:
			tracer().Infof("generation #%d, path %s: %v", snap.Seq, ps.Label, failed[ps.Label])
			result.Outcomes[ps.Label] = Outcome{Err: failed[ps.Label]}
		case !ok || tr == nil:
			result.Outcomes[ps.Label] = Outcome{Err: errors.New("generator returned no trajectory")}
		default:
			result.Outcomes[ps.Label] = Outcome{Trajectory: tr}
		}
	}
	a.mu.Lock()
	if snap.Seq != a.seq {
		a.mu.Unlock()
		tracer().Infof("discarding result of generation #%d, superseded", snap.Seq)
		ticket.err = ErrSuperseded
		return
	}
	a.latest = result
	dispatch := a.dispatch
	a.mu.Unlock()
	if result.Err != nil {
		tracer().Errorf("generation #%d failed: %v", snap.Seq, result.Err)
	}
	ticket.result = result
	dispatch(func() { a.publish(result) })
}

// publish calls the listeners for a result, unless a newer request has
// started or a newer result has been delivered since it completed.
func (a *Adapter) publish(result *Result) {
	a.deliver.Lock()
	defer a.deliver.Unlock()
	seq := result.Snapshot.Seq
	a.mu.Lock()
	current := seq == a.seq
	listeners := append([]func(*Result){}, a.listeners...)
	a.mu.Unlock()
	if !current || seq <= a.delivered {
		tracer().Infof("not delivering result of generation #%d, superseded", seq)
		return
	}
	a.delivered = seq
	for _, listener := range listeners {
		listener(result)
	}
}

// Latest returns the result of the newest completed request which was not
// superseded, or nil.
func (a *Adapter) Latest() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// Pending is true while the newest request has not completed.
func (a *Adapter) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq > 0 && (a.latest == nil || a.latest.Snapshot.Seq != a.seq)
}
