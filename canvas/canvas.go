/*
Package canvas tracks the extents of the drawing surface and maps between
pixel coordinates of the surface and field coordinates.

The selected field is drawn letterboxed from the top-left corner of the
surface, scaled uniformly to fit. Pixel coordinates grow to the right and
downwards; field coordinates grow to the right and upwards, with the field
origin at the bottom-left corner of the drawn field.

The tracker is the only source of the mapping. Whenever the surrounding
layout changes (e.g., a side panel narrows the surface), the new extents
are published to the tracker and the mapping is recomputed from them.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package canvas

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/fieldpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'canvas'
func tracer() tracing.Trace {
	return tracing.Select("canvas")
}

// ErrUnknownField is returned for field names not in a catalogue.
var ErrUnknownField = errors.New("unknown field")

// Field is a selectable background with its size in field units (e.g., meters).
type Field struct {
	Name   string
	Width  float64
	Height float64
}

func (f Field) String() string {
	return fmt.Sprintf("%s[%gx%g]", f.Name, f.Width, f.Height)
}

func (f Field) valid() bool {
	return f.Width > 0 && f.Height > 0
}

// Catalogue is an ordered set of fields.
type Catalogue struct {
	fields []Field
}

// NewCatalogue creates a catalogue. Later fields with a duplicate name are ignored.
func NewCatalogue(fields ...Field) *Catalogue {
	cat := &Catalogue{}
	for _, f := range fields {
		if _, ok := cat.Lookup(f.Name); ok {
			tracer().Errorf("ignoring duplicate field %q", f.Name)
			continue
		}
		cat.fields = append(cat.fields, f)
	}
	return cat
}

// Lookup finds a field by name.
func (cat *Catalogue) Lookup(name string) (Field, bool) {
	for _, f := range cat.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get finds a field by name or returns ErrUnknownField.
func (cat *Catalogue) Get(name string) (Field, error) {
	if f, ok := cat.Lookup(name); ok {
		return f, nil
	}
	return Field{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Names lists the field names in catalogue order.
func (cat *Catalogue) Names() []string {
	names := make([]string, len(cat.fields))
	for i, f := range cat.fields {
		names[i] = f.Name
	}
	return names
}

// Extents is the size of the drawing surface in pixels.
type Extents struct {
	Width  float64
	Height float64
}

func (e Extents) String() string {
	return fmt.Sprintf("%gx%g px", e.Width, e.Height)
}

// Tracker holds the latest known surface extents and the selected field,
// and derives the pixel <-> field mapping from them.
type Tracker struct {
	extents   Extents
	field     Field
	scale     float64      // pixels per field unit
	toPixel   fieldpath.AT // field -> pixel
	toField   fieldpath.AT // pixel -> field, nil if not invertible
	listeners []func(Extents)
}

// NewTracker creates a tracker for a field with empty extents.
func NewTracker(field Field) *Tracker {
	t := &Tracker{field: field}
	t.recompute()
	return t
}

// OnChange registers a listener called whenever the mapping changes.
func (t *Tracker) OnChange(listener func(Extents)) {
	t.listeners = append(t.listeners, listener)
}

// Publish records new surface extents. Re-publishing the current extents is
// a no-op. Returns true if the extents changed.
func (t *Tracker) Publish(width, height float64) bool {
	if math.IsNaN(width) || math.IsNaN(height) || width < 0 || height < 0 {
		tracer().Errorf("ignoring invalid extents %gx%g", width, height)
		return false
	}
	e := Extents{Width: width, Height: height}
	if e == t.extents {
		return false
	}
	t.extents = e
	t.recompute()
	tracer().Debugf("canvas extents %s, scale %g", e, t.scale)
	t.emit()
	return true
}

// SetField changes the field. Returns true if the field changed.
func (t *Tracker) SetField(f Field) bool {
	if f == t.field {
		return false
	}
	t.field = f
	t.recompute()
	tracer().Infof("canvas shows field %s", f)
	t.emit()
	return true
}

func (t *Tracker) emit() {
	for _, listener := range t.listeners {
		listener(t.extents)
	}
}

func (t *Tracker) recompute() {
	t.scale = 0
	if t.field.valid() {
		t.scale = math.Min(t.extents.Width/t.field.Width, t.extents.Height/t.field.Height)
	}
	t.toPixel = fieldpath.Scaling(t.scale, -t.scale).
		Combine(fieldpath.Translation(fieldpath.P(0, t.field.Height*t.scale)))
	inv, err := t.toPixel.Inverse()
	if err != nil {
		t.toField = nil
		return
	}
	t.toField = inv
}

// Extents returns the latest published extents.
func (t *Tracker) Extents() Extents {
	return t.extents
}

// Field returns the current field.
func (t *Tracker) Field() Field {
	return t.field
}

// Scale is the number of pixels per field unit, 0 if there is no usable surface.
func (t *Tracker) Scale() float64 {
	return t.scale
}

// Contains is a predicate: is a pixel position on the surface?
func (t *Tracker) Contains(px fieldpath.Pair) bool {
	x, y := px.F()
	return px.IsValid() && x >= 0 && y >= 0 && x < t.extents.Width && y < t.extents.Height
}

// ToField maps a pixel position to field coordinates. Without a usable
// surface the result is fieldpath.Unknown.
func (t *Tracker) ToField(px fieldpath.Pair) fieldpath.Pair {
	if t.toField == nil {
		return fieldpath.Unknown
	}
	return t.toField.Transform(px)
}

// ToPixel maps a field position to pixel coordinates.
func (t *Tracker) ToPixel(f fieldpath.Pair) fieldpath.Pair {
	return t.toPixel.Transform(f)
}

// VectorToField maps a pixel displacement to a field vector.
func (t *Tracker) VectorToField(v fieldpath.Pair) fieldpath.Pair {
	if t.toField == nil {
		return fieldpath.Unknown
	}
	return t.toField.TransformVector(v)
}

// VectorToPixel maps a field vector to a pixel displacement.
func (t *Tracker) VectorToPixel(v fieldpath.Pair) fieldpath.Pair {
	return t.toPixel.TransformVector(v)
}
