/*
Package dffsim simulates a single D-type flip-flop at the analog level.

Instead of ideal 0/1 transitions, every node is modelled as a continuous
voltage: logic targets are corrupted by Gaussian noise, transitions slew
like an RC charge curve, clock discrimination uses Schmitt-trigger
hysteresis, and a data input sampled inside the undefined voltage band
collapses to a random output state (metastability).

The engine is strictly single threaded and is advanced by the caller, one
discrete time step at a time:

	sim, err := dffsim.NewSim(dffsim.DefaultSpec(), nil)
	if err != nil {
		// ...
	}
	sim.SetNoise(30)
	sim.SetSpeed(50)
	for {
		s := sim.Step(dt) // dt in seconds
		// s.D, s.Clk, s.Q are instantaneous voltages
	}

Rendering, storage and cross-goroutine transport are collaborators built
on top of this interface; see the scope and session packages.
*/
package dffsim
