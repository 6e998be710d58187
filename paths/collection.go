package paths

import (
	"errors"
	"fmt"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/fieldpath/spline"
)

var (
	// ErrDuplicateLabel indicates the creation of a path with a label already in use.
	ErrDuplicateLabel = errors.New("duplicate path label")
	// ErrUnknownPath indicates an operation on a label not in the collection.
	ErrUnknownPath = errors.New("unknown path")
	// ErrIndexOutOfRange indicates a waypoint/vector index beyond a path's length.
	ErrIndexOutOfRange = errors.New("waypoint index out of range")
	// ErrInvalidLabel indicates an empty label.
	ErrInvalidLabel = errors.New("invalid path label")
	// ErrInvalidCoordinate indicates a position or vector with NaN/Inf components.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Op is the kind of a collection mutation.
type Op int

// Mutations of a collection, as reported to change listeners.
const (
	Created Op = iota
	Appended
	VectorUpdated
	WaypointMoved
	Smoothed
	Deleted
	Activated
)

var opNames = [...]string{"created", "appended", "vector-updated", "waypoint-moved",
	"smoothed", "deleted", "activated"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// Change describes a mutation of a collection.
type Change struct {
	Op       Op
	Label    string
	Index    int    // waypoint index, -1 if not applicable
	Revision uint64 // collection revision after the change
}

// Collection maps labels to paths. Iteration order is creation order.
// A collection is not safe for concurrent use; it is mutated from the event
// loop only.
type Collection struct {
	order     []string
	paths     map[string]*Path
	active    string
	revision  uint64
	listeners []func(Change)
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{paths: make(map[string]*Path)}
}

// OnChange registers a listener which is called after every mutation.
func (c *Collection) OnChange(listener func(Change)) {
	c.listeners = append(c.listeners, listener)
}

func (c *Collection) emit(op Op, label string, index int, geometric bool) {
	if geometric {
		c.revision++
	}
	ch := Change{Op: op, Label: label, Index: index, Revision: c.revision}
	for _, listener := range c.listeners {
		listener(ch)
	}
}

// fail traces a structural error. These errors signal wiring bugs in the
// caller and are never expected in normal operation.
func fail(err error) error {
	tracer().Errorf("%v", err)
	return err
}

func (c *Collection) lookup(label string) (*Path, error) {
	p, ok := c.paths[label]
	if !ok {
		return nil, fail(fmt.Errorf("%w: %q", ErrUnknownPath, label))
	}
	return p, nil
}

// Create inserts a new empty path and makes it the active path.
func (c *Collection) Create(label string) (*Path, error) {
	if label == "" {
		return nil, fail(ErrInvalidLabel)
	}
	if _, exists := c.paths[label]; exists {
		return nil, fail(fmt.Errorf("%w: %q", ErrDuplicateLabel, label))
	}
	p := newPath(label)
	c.paths[label] = p
	c.order = append(c.order, label)
	c.active = label
	tracer().Infof("created path %s", label)
	c.emit(Created, label, -1, true)
	return p, nil
}

// Append adds a waypoint at the end of a path, together with a default
// tangent vector: the direction (and distance) from the previous waypoint, or
// (DefaultVectorLength,0) for the first waypoint.
func (c *Collection) Append(label string, pos fieldpath.Pair) error {
	p, err := c.lookup(label)
	if err != nil {
		return err
	}
	if !pos.IsValid() {
		return fail(fmt.Errorf("%w: waypoint %v", ErrInvalidCoordinate, pos))
	}
	p.append(pos)
	tracer().Debugf("path %s: waypoint %d at %v", label, p.Len()-1, pos)
	c.emit(Appended, label, p.Len()-1, true)
	return nil
}

// UpdateVector replaces the tangent vector at waypoint index.
func (c *Collection) UpdateVector(label string, index int, v fieldpath.Pair) error {
	p, err := c.lookup(label)
	if err != nil {
		return err
	}
	if err := p.checkIndex(index); err != nil {
		return fail(err)
	}
	if !v.IsValid() {
		return fail(fmt.Errorf("%w: vector %v", ErrInvalidCoordinate, v))
	}
	p.setVector(index, v)
	c.emit(VectorUpdated, label, index, true)
	return nil
}

// MoveWaypoint changes the position of waypoint index. The paired vector is
// left unchanged.
func (c *Collection) MoveWaypoint(label string, index int, pos fieldpath.Pair) error {
	p, err := c.lookup(label)
	if err != nil {
		return err
	}
	if err := p.checkIndex(index); err != nil {
		return fail(err)
	}
	if !pos.IsValid() {
		return fail(fmt.Errorf("%w: waypoint %v", ErrInvalidCoordinate, pos))
	}
	p.setWaypoint(index, pos)
	c.emit(WaypointMoved, label, index, true)
	return nil
}

// Smooth replaces all tangent vectors of a path by the tangents Hobby's
// algorithm finds for its waypoints.
func (c *Collection) Smooth(label string) error {
	p, err := c.lookup(label)
	if err != nil {
		return err
	}
	tangents, err := spline.FindHobbyTangents(spline.FromKnots(p.waypoints, nil))
	if err != nil {
		return fmt.Errorf("cannot smooth path %s: %w", label, err)
	}
	p.setVectors(tangents)
	c.emit(Smoothed, label, -1, true)
	return nil
}

// Delete removes a path. Deleting an unknown label is a no-op.
func (c *Collection) Delete(label string) {
	if _, ok := c.paths[label]; !ok {
		return
	}
	delete(c.paths, label)
	for i, l := range c.order {
		if l == label {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.active == label {
		c.active = ""
	}
	tracer().Infof("deleted path %s", label)
	c.emit(Deleted, label, -1, true)
}

// Get returns the path for a label.
func (c *Collection) Get(label string) (*Path, bool) {
	p, ok := c.paths[label]
	return p, ok
}

// Has is a predicate: is there a path with this label?
func (c *Collection) Has(label string) bool {
	_, ok := c.paths[label]
	return ok
}

// Len is the number of paths.
func (c *Collection) Len() int {
	return len(c.order)
}

// Labels returns the labels in creation order.
func (c *Collection) Labels() []string {
	return append([]string(nil), c.order...)
}

// Paths returns the paths in creation order.
func (c *Collection) Paths() []*Path {
	ps := make([]*Path, len(c.order))
	for i, l := range c.order {
		ps[i] = c.paths[l]
	}
	return ps
}

// Active is the label of the path currently being edited, or "".
func (c *Collection) Active() string {
	return c.active
}

// Activate makes a path the active one. An empty label deactivates all paths.
func (c *Collection) Activate(label string) error {
	if label != "" {
		if _, err := c.lookup(label); err != nil {
			return err
		}
	}
	if label == c.active {
		return nil
	}
	c.active = label
	c.emit(Activated, label, -1, false)
	return nil
}

// Revision increments with every change of path geometry.
func (c *Collection) Revision() uint64 {
	return c.revision
}

// NextLabel returns the first label in the sequence A, B, …, Z, AA, AB, …
// not yet in use.
func (c *Collection) NextLabel() string {
	for n := 0; ; n++ {
		if l := columnLabel(n); !c.Has(l) {
			return l
		}
	}
}

// columnLabel is the n-th label in spreadsheet column style: 0 → A, 25 → Z, 26 → AA.
func columnLabel(n int) string {
	var b []byte
	for n++; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
