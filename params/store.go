package params

import (
	"strconv"
)

// Change describes a modification of the store.
type Change struct {
	Field    bool   // the field selection changed, not a limit
	Kind     Kind   // the limit which changed, if !Field
	Revision uint64 // revision of the limits after the change
}

// Store holds the kinematic limits and the field selection of an editing
// session. Stores are not safe for concurrent use; they are mutated from the
// event loop only.
type Store struct {
	text      [kindCount]string
	errs      [kindCount]error
	limits    Limits
	field     string
	revision  uint64
	listeners []func(Change)
}

// NewStore creates a store with initial limits and a field selection.
// The raw text of each limit is the formatted initial value.
func NewStore(initial Limits, field string) *Store {
	s := &Store{limits: initial, field: field}
	for _, k := range Kinds() {
		s.text[k] = strconv.FormatFloat(initial.Get(k), 'g', -1, 64)
	}
	return s
}

// OnChange registers a listener which is called after every effective change.
func (s *Store) OnChange(listener func(Change)) {
	s.listeners = append(s.listeners, listener)
}

func (s *Store) emit(c Change) {
	for _, listener := range s.listeners {
		listener(c)
	}
}

// Set records text input for a limit. The raw text is always stored. If the
// text parses to a positive number different from the current value, the
// value is replaced, the revision is incremented and listeners are notified.
// Otherwise the numeric value stays untouched and the parse error, if any,
// is available from Err.
func (s *Store) Set(kind Kind, text string) {
	if kind < 0 || kind >= kindCount {
		tracer().Errorf("ignoring input for unknown parameter %d", int(kind))
		return
	}
	s.text[kind] = text
	x, err := Parse(kind, text)
	s.errs[kind] = err
	if err != nil {
		tracer().Debugf("keeping %s = %g: %v", kind, s.limits.Get(kind), err)
		return
	}
	if x == s.limits.Get(kind) {
		return
	}
	s.limits.set(kind, x)
	s.revision++
	tracer().Infof("%s set to %g", kind, x)
	s.emit(Change{Kind: kind, Revision: s.revision})
}

// Text is the raw text last entered for a limit.
func (s *Store) Text(kind Kind) string {
	if kind < 0 || kind >= kindCount {
		return ""
	}
	return s.text[kind]
}

// Value is the last known-good numeric value of a limit.
func (s *Store) Value(kind Kind) float64 {
	return s.limits.Get(kind)
}

// Err is the parse error of the latest input for a limit, or nil.
func (s *Store) Err(kind Kind) error {
	if kind < 0 || kind >= kindCount {
		return nil
	}
	return s.errs[kind]
}

// Limits returns a copy of all current numeric limits.
func (s *Store) Limits() Limits {
	return s.limits
}

// Revision increments with every change of a numeric limit.
func (s *Store) Revision() uint64 {
	return s.revision
}

// SelectField changes the field selection. The field affects coordinate
// mapping only, therefore the limits' revision is not changed.
func (s *Store) SelectField(name string) {
	if name == s.field {
		return
	}
	s.field = name
	tracer().Infof("field %q selected", name)
	s.emit(Change{Field: true, Revision: s.revision})
}

// Field is the name of the selected field.
func (s *Store) Field() string {
	return s.field
}
