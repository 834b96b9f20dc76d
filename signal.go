// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dffsim

// A Signal models the voltage on a single electrical node. The node is
// driven toward one of two base levels selected by Target, with Gaussian
// noise injected into the drive and an exponential slew toward it, so the
// observed voltage rings around the ideal square wave the way a scope
// probe would show it.
type Signal struct {
	// V is the node voltage. It is mutated by Update only and always lies
	// within the physical clamp bounds.
	V float64
	// Target is the commanded logic level.
	Target bool
	// Noise is the standard deviation, in volts, of the Gaussian noise
	// injected into the drive target on every update.
	Noise float64

	high, low float64 // base voltages for logic 1 / logic 0
	slew      float64 // fraction of the remaining gap closed per update
	min, max  float64 // physical clamp bounds
	rng       gauss
}

// NewSignal returns a signal resting at the low base level. high and low
// are the noiseless drive targets for logic 1 and 0, slew in (0,1] is the
// fraction of the voltage gap closed per update, and the spec supplies
// the physical clamp bounds. A nil src selects the default entropy
// source.
func NewSignal(spec VoltageSpec, high, low, slew float64, src Rand) *Signal {
	if src == nil {
		src = newRand()
	}
	return &Signal{
		V:    low,
		high: high,
		low:  low,
		slew: slew,
		min:  spec.ClampMin,
		max:  spec.SystemMax,
		rng:  gauss{src: src},
	}
}

// Update advances the node by one simulation tick: the noiseless drive
// target is picked from Target, perturbed by one normal deviate scaled by
// Noise, and V slews toward the perturbed target by the slew fraction
// before being clamped to the supply rails.
//
// The slew step is applied once per call, deliberately not scaled by dt:
// frame rate independence is the caller's concern and is handled by
// scaling clock phase advancement instead (see Sim.Step). dt is part of
// the signature so that a dt-scaled slew model can be swapped in without
// touching call sites.
func (s *Signal) Update(dt float64) {
	target := s.low
	if s.Target {
		target = s.high
	}
	if s.Noise != 0 {
		target += s.rng.norm() * s.Noise
	}
	s.V += (target - s.V) * s.slew
	s.V = clamp(s.V, s.min, s.max)
}

// reconfigure swaps in new base levels and clamp bounds, snapping V to
// the steady state level for the current Target. Called by Sim.ApplySpec
// as part of an atomic spec swap.
func (s *Signal) reconfigure(spec VoltageSpec, high, low float64) {
	s.high, s.low = high, low
	s.min, s.max = spec.ClampMin, spec.SystemMax
	if s.Target {
		s.V = high
	} else {
		s.V = low
	}
}
