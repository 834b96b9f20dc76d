// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dffsim

import (
	"math"

	"github.com/pkg/errors"
)

// Tuning constants for the simulation driver.
const (
	// MaxStep is the ceiling applied to every Step's dt, in seconds. A
	// pathological dt (tab suspend, debugger pause) would otherwise make
	// the clock phase jump across whole periods in a single tick; edges
	// are only detected once per tick, so such a jump would silently
	// swallow clock cycles.
	MaxStep = 0.1

	// ClockSpeedFactor maps one speed slider unit to clock phase advance
	// per normalized frame.
	ClockSpeedFactor = 0.002

	// MaxNoise is the input noise standard deviation, in volts, at a
	// noise setting of 100.
	MaxNoise = 1.0

	// baseFrameRate normalizes the speed knob, which was originally tuned
	// against a 60Hz frame assumption, to wall-clock seconds.
	baseFrameRate = 60.0

	// outputNoiseRatio scales the Q driver's noise relative to the
	// inputs. The output stage is a buffered driver, noticeably quieter
	// than the externally driven inputs.
	outputNoiseRatio = 0.5

	// Per-tick slew fractions. The clock is driven harder than D; the
	// output driver is the slowest of the three.
	dataSlew   = 0.45
	clockSlew  = 0.55
	outputSlew = 0.30
)

// A Sample is the result of one simulation tick: the instantaneous D, CLK
// and Q node voltages, stamped with the accumulated simulation time in
// seconds.
type Sample struct {
	T   float64
	D   float64
	Clk float64
	Q   float64
}

// A Sim owns one complete simulation session: the D and CLK input nodes,
// the flip-flop, and the clock generator driving CLK. It is advanced by
// calling Step once per tick from a single goroutine; none of its methods
// are safe for concurrent use.
type Sim struct {
	spec  VoltageSpec
	d     *Signal
	clk   *Signal
	ff    *DFF
	phase float64 // clock phase accumulator, kept in [0, 2π)
	speed float64 // phase advance per normalized frame
	reset bool
	now   float64 // accumulated simulation time, seconds
}

// NewSim returns a simulation session for the given voltage spec, resting
// with all nodes low, the clock stopped at phase 0, a speed setting of 50
// and no noise. A nil src selects the default entropy source; tests pass
// a seeded source to make every draw reproducible.
func NewSim(spec VoltageSpec, src Rand) (*Sim, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrap(err, "new sim")
	}
	if src == nil {
		src = newRand()
	}
	high, low := spec.inputLevels()
	s := &Sim{
		spec: spec,
		d:    NewSignal(spec, high, low, dataSlew, src),
		clk:  NewSignal(spec, high, low, clockSlew, src),
		ff:   NewDFF(spec, outputSlew, src),
	}
	s.SetSpeed(50)
	return s, nil
}

// Step advances the simulation by dt seconds (clamped to MaxStep) and
// returns the resulting sample. The tick sequence is fixed: advance the
// clock phase, derive the CLK target from the sine generator, update both
// input nodes, then run the flip-flop.
//
// Shaping the clock square wave from a sine generator keeps the phase
// continuous across speed changes: adjusting the speed knob mid-run never
// produces a discontinuity in the clock waveform, and the duty cycle
// stays at 50%.
func (s *Sim) Step(dt float64) Sample {
	dt = clamp(dt, 0, MaxStep)
	s.phase += s.speed * dt * baseFrameRate
	if s.phase >= 2*math.Pi {
		// bound float growth over long runs; sin is 2π-periodic so the
		// generated waveform is unaffected
		s.phase = math.Mod(s.phase, 2*math.Pi)
	}
	s.clk.Target = math.Sin(s.phase) > 0
	s.clk.Update(dt)
	s.d.Update(dt)
	q := s.ff.Process(s.d.V, s.clk.V, s.reset, dt)
	s.now += dt
	return Sample{T: s.now, D: s.d.V, Clk: s.clk.V, Q: q}
}

// SetTarget sets the commanded logic level of the D input.
func (s *Sim) SetTarget(level bool) { s.d.Target = level }

// Target reports the commanded logic level of the D input.
func (s *Sim) Target() bool { return s.d.Target }

// SetReset sets the asynchronous reset line. While held, the output is
// forced low and clock edges are ignored.
func (s *Sim) SetReset(active bool) { s.reset = active }

// SetNoise sets the noise level from a 0–100 setting, mapped linearly to
// a 0–MaxNoise volt standard deviation on both inputs; the output driver
// gets a fixed fraction of the input noise.
func (s *Sim) SetNoise(percent float64) {
	n := clamp(percent, 0, 100) / 100 * MaxNoise
	s.d.Noise = n
	s.clk.Noise = n
	s.ff.Q.Noise = n * outputNoiseRatio
}

// SetSpeed sets the clock speed from a 0–100 setting.
func (s *Sim) SetSpeed(percent float64) {
	s.speed = clamp(percent, 0, 100) * ClockSpeedFactor
}

// Phase returns the clock phase accumulator, in [0, 2π).
func (s *Sim) Phase() float64 { return s.phase }

// Spec returns the active voltage spec.
func (s *Sim) Spec() VoltageSpec { return s.spec }

// ApplySpec overwrites the fields set in p, validating the merged spec
// before anything is touched: on error the session is left exactly as it
// was. On success the new spec takes effect as one atomic operation — all
// three nodes get their base levels re-derived and their voltages snapped
// to the steady state for their current targets, and the clock phase is
// reset to 0 — so no tick ever observes a mix of old and new levels.
func (s *Sim) ApplySpec(p Patch) error {
	spec, err := s.spec.Apply(p)
	if err != nil {
		return err
	}
	s.spec = spec
	high, low := spec.inputLevels()
	s.d.reconfigure(spec, high, low)
	s.clk.reconfigure(spec, high, low)
	s.ff.reconfigure(spec)
	s.phase = 0
	return nil
}
