// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scope

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/db47h/dffsim"
)

// Render draws the D, CLK and Q waveforms of the given samples (oldest
// first, as produced by Trace.Snapshot) and saves the result to file. The
// image format is derived from the file extension (.png, .svg, .pdf,
// ...). The vertical axis spans the supply rails of spec so that captures
// taken under different voltage specs are directly comparable.
func Render(samples []dffsim.Sample, spec dffsim.VoltageSpec, file string) error {
	if len(samples) == 0 {
		return errors.New("render: empty trace")
	}

	d := make(plotter.XYs, len(samples))
	clk := make(plotter.XYs, len(samples))
	q := make(plotter.XYs, len(samples))
	for i, s := range samples {
		d[i].X, d[i].Y = s.T, s.D
		clk[i].X, clk[i].Y = s.T, s.Clk
		q[i].X, q[i].Y = s.T, s.Q
	}

	p := plot.New()
	p.Title.Text = "D flip-flop"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "V"
	p.Y.Min = spec.ClampMin
	p.Y.Max = spec.SystemMax
	if err := plotutil.AddLines(p, "D", d, "CLK", clk, "Q", q); err != nil {
		return errors.Wrap(err, "render")
	}
	return errors.Wrap(p.Save(8*vg.Inch, 4*vg.Inch, file), "render")
}
