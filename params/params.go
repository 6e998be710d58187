/*
Package params holds the global kinematic limits of an editing session and
the selection of the field paths are drawn on.

Limits are entered as free text. The store keeps the raw text, which may
be incomplete while a user is typing ("1." before "1.5"), alongside the
last numeric value that parsed as a positive, finite number. Unparsable
input never changes the numeric value.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'params'
func tracer() tracing.Trace {
	return tracing.Select("params")
}

// Kind identifies one of the kinematic limits.
type Kind int

// The kinematic limits of a differential-drive robot.
const (
	TrackWidth Kind = iota
	MaxVelocity
	MaxAcceleration
	MaxJerk
	kindCount
)

var kindNames = [...]string{"track width", "max velocity", "max acceleration", "max jerk"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists all limits in display order.
func Kinds() []Kind {
	return []Kind{TrackWidth, MaxVelocity, MaxAcceleration, MaxJerk}
}

// ErrNotPositive is wrapped by a ParseError for zero, negative or non-finite numbers.
var ErrNotPositive = errors.New("value must be a positive number")

// ParseError reports text input which did not yield a usable limit.
type ParseError struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot use %q as %s: %v", e.Input, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse interprets text as a limit value.
func Parse(kind Kind, text string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &ParseError{Kind: kind, Input: text, Err: err}
	}
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, &ParseError{Kind: kind, Input: text, Err: ErrNotPositive}
	}
	return x, nil
}

// Limits is a set of kinematic limits.
type Limits struct {
	TrackWidth      float64
	MaxVelocity     float64
	MaxAcceleration float64
	MaxJerk         float64
}

// Get returns the limit of a given kind.
func (l Limits) Get(kind Kind) float64 {
	switch kind {
	case TrackWidth:
		return l.TrackWidth
	case MaxVelocity:
		return l.MaxVelocity
	case MaxAcceleration:
		return l.MaxAcceleration
	case MaxJerk:
		return l.MaxJerk
	}
	return 0
}

func (l *Limits) set(kind Kind, x float64) {
	switch kind {
	case TrackWidth:
		l.TrackWidth = x
	case MaxVelocity:
		l.MaxVelocity = x
	case MaxAcceleration:
		l.MaxAcceleration = x
	case MaxJerk:
		l.MaxJerk = x
	}
}

// Validate checks that every limit is a positive number.
func (l Limits) Validate() error {
	for _, k := range Kinds() {
		if x := l.Get(k); x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return &ParseError{Kind: k, Input: strconv.FormatFloat(x, 'g', -1, 64), Err: ErrNotPositive}
		}
	}
	return nil
}

func (l Limits) String() string {
	return fmt.Sprintf("[w=%g v=%g a=%g j=%g]", l.TrackWidth, l.MaxVelocity, l.MaxAcceleration, l.MaxJerk)
}
