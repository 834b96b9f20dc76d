// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dffsim

import (
	"math"
	"strconv"
)

// A VoltageSpec defines the electrical characteristics of the simulated
// logic family: input thresholds, guaranteed output levels and supply
// rails. The zero value is not usable; start from DefaultSpec. Values are
// immutable once handed to a Sim — reconfiguration goes through
// Sim.ApplySpec, which validates and swaps the whole spec atomically.
type VoltageSpec struct {
	// Input thresholds. A voltage above LogicHighMin reads as logic 1,
	// below LogicLowMax as logic 0. The open interval between them is the
	// undefined zone where discrimination holds its previous state.
	LogicHighMin float64
	LogicLowMax  float64

	// Guaranteed output levels of the flip-flop's Q driver.
	OutputHighMin float64
	OutputHighMax float64
	OutputLowMax  float64

	// Supply rails. Every node voltage is clamped to [ClampMin, SystemMax].
	SystemMax float64
	ClampMin  float64
}

// DefaultSpec returns the 5V TTL voltage spec.
func DefaultSpec() VoltageSpec {
	return VoltageSpec{
		LogicHighMin:  2.0,
		LogicLowMax:   0.8,
		OutputHighMin: 2.4,
		OutputHighMax: 5.0,
		OutputLowMax:  0.4,
		SystemMax:     5.0,
		ClampMin:      0.0,
	}
}

// A Patch overwrites a subset of a VoltageSpec's fields. Nil fields are
// left untouched. ClampMin is fixed at construction time and cannot be
// patched.
type Patch struct {
	LogicHighMin  *float64
	LogicLowMax   *float64
	OutputHighMin *float64
	OutputHighMax *float64
	OutputLowMax  *float64
	SystemMax     *float64
}

// Apply merges p over s and returns the resulting spec. The result is
// validated before being returned: on error the original spec remains the
// one to use and the returned spec must be discarded.
func (s VoltageSpec) Apply(p Patch) (VoltageSpec, error) {
	n := s
	if p.LogicHighMin != nil {
		n.LogicHighMin = *p.LogicHighMin
	}
	if p.LogicLowMax != nil {
		n.LogicLowMax = *p.LogicLowMax
	}
	if p.OutputHighMin != nil {
		n.OutputHighMin = *p.OutputHighMin
	}
	if p.OutputHighMax != nil {
		n.OutputHighMax = *p.OutputHighMax
	}
	if p.OutputLowMax != nil {
		n.OutputLowMax = *p.OutputLowMax
	}
	if p.SystemMax != nil {
		n.SystemMax = *p.SystemMax
	}
	if err := n.Validate(); err != nil {
		return s, err
	}
	return n, nil
}

// SpecErrorKind classifies a voltage spec validation failure.
type SpecErrorKind int

// Spec validation failure kinds.
const (
	// ErrNaN: a field is NaN or infinite.
	ErrNaN SpecErrorKind = iota
	// ErrRange: a field lies outside [ClampMin, SystemMax].
	ErrRange
	// ErrOrdering: a required inequality between fields is broken.
	ErrOrdering
)

func (k SpecErrorKind) String() string {
	switch k {
	case ErrNaN:
		return "not a number"
	case ErrRange:
		return "out of range"
	case ErrOrdering:
		return "ordering violation"
	}
	return "spec error " + strconv.Itoa(int(k))
}

// A SpecError describes why a voltage spec was rejected. Field names the
// offending field (or the two fields of a broken inequality).
type SpecError struct {
	Kind  SpecErrorKind
	Field string
}

func (e *SpecError) Error() string {
	return "voltage spec: " + e.Field + ": " + e.Kind.String()
}

// Validate checks that s describes a physically coherent logic family:
// every level is a finite voltage within the supply rails, the input
// thresholds leave a dead zone (LogicLowMax < LogicHighMin), and the
// guaranteed output levels clear the input thresholds so that a driven
// output reads back as the driven logic level. Returns a *SpecError on
// failure.
func (s VoltageSpec) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"LogicHighMin", s.LogicHighMin},
		{"LogicLowMax", s.LogicLowMax},
		{"OutputHighMin", s.OutputHighMin},
		{"OutputHighMax", s.OutputHighMax},
		{"OutputLowMax", s.OutputLowMax},
		{"SystemMax", s.SystemMax},
		{"ClampMin", s.ClampMin},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &SpecError{Kind: ErrNaN, Field: f.name}
		}
	}
	if s.SystemMax <= s.ClampMin {
		return &SpecError{Kind: ErrOrdering, Field: "SystemMax/ClampMin"}
	}
	for _, f := range fields[:5] {
		if f.v < s.ClampMin || f.v > s.SystemMax {
			return &SpecError{Kind: ErrRange, Field: f.name}
		}
	}
	if s.LogicLowMax >= s.LogicHighMin {
		return &SpecError{Kind: ErrOrdering, Field: "LogicLowMax/LogicHighMin"}
	}
	if s.OutputHighMin < s.LogicHighMin {
		return &SpecError{Kind: ErrOrdering, Field: "OutputHighMin/LogicHighMin"}
	}
	if s.OutputLowMax >= s.LogicLowMax {
		return &SpecError{Kind: ErrOrdering, Field: "OutputLowMax/LogicLowMax"}
	}
	if s.OutputHighMax < s.OutputHighMin {
		return &SpecError{Kind: ErrOrdering, Field: "OutputHighMax/OutputHighMin"}
	}
	return nil
}

// inputLevels returns the base voltages an input driver (D, CLK) settles
// to. Inputs are driven rail to rail.
func (s VoltageSpec) inputLevels() (high, low float64) {
	return s.SystemMax, s.ClampMin
}

// outputLevels returns the base voltages of the Q driver: the middle of
// the guaranteed high band, and halfway between ground and the guaranteed
// low maximum.
func (s VoltageSpec) outputLevels() (high, low float64) {
	return (s.OutputHighMin + s.OutputHighMax) / 2, (s.ClampMin + s.OutputLowMax) / 2
}
