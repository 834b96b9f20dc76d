// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dffsim

// A DFF is a positive-edge-triggered D flip-flop with an analog output
// driver and an asynchronous reset. Clock discrimination is
// Schmitt-trigger-like: a clock voltage inside the undefined zone keeps
// its previous classification, so noise riding on a slow clock edge
// cannot produce a burst of spurious edges.
//
// When a rising clock edge catches the D input inside the undefined zone,
// the captured logic level is decided by a fair coin flip. This models
// metastable collapse: it is intentionally nondeterministic and is the
// whole point of simulating the device at the analog level.
type DFF struct {
	// Q is the output node, owned and driven by the flip-flop.
	Q *Signal

	highMin float64 // input logic 1 threshold
	lowMax  float64 // input logic 0 threshold
	lastClk bool    // discriminated clock level after the previous Process
	src     Rand    // metastable coin flips
}

// NewDFF returns a flip-flop discriminating inputs against spec, with the
// output driver slewing by the given fraction per tick. A nil src selects
// the default entropy source. The output rests at the low level and the
// clock history starts at logic 0.
func NewDFF(spec VoltageSpec, slew float64, src Rand) *DFF {
	if src == nil {
		src = newRand()
	}
	high, low := spec.outputLevels()
	return &DFF{
		Q:       NewSignal(spec, high, low, slew, src),
		highMin: spec.LogicHighMin,
		lowMax:  spec.LogicLowMax,
		src:     src,
	}
}

// Process runs one simulation tick of the flip-flop and returns the
// output voltage. d and clk are the instantaneous input voltages, already
// advanced by their own Update calls.
//
// Order within a tick is fixed: an active reset forces the output target
// low and suppresses all clocked behavior, otherwise the clock is
// discriminated, a 0→1 transition of the discriminated level samples D
// into the output target, and finally the output node physics advance by
// dt.
func (f *DFF) Process(d, clk float64, reset bool, dt float64) float64 {
	if reset {
		f.Q.Target = false
		f.Q.Update(dt)
		return f.Q.V
	}

	clkLogic := f.lastClk
	switch {
	case clk > f.highMin:
		clkLogic = true
	case clk < f.lowMax:
		clkLogic = false
	}

	if !f.lastClk && clkLogic {
		switch {
		case d > f.highMin:
			f.Q.Target = true
		case d < f.lowMax:
			f.Q.Target = false
		default:
			// metastable: D is undefined at the sampling instant
			f.Q.Target = f.src.Float64() < 0.5
		}
	}

	f.lastClk = clkLogic
	f.Q.Update(dt)
	return f.Q.V
}

// reconfigure swaps in new discrimination thresholds and output levels.
// Called by Sim.ApplySpec as part of an atomic spec swap.
func (f *DFF) reconfigure(spec VoltageSpec) {
	f.highMin = spec.LogicHighMin
	f.lowMax = spec.LogicLowMax
	high, low := spec.outputLevels()
	f.Q.reconfigure(spec, high, low)
}
