// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command dffsim is an interactive oscilloscope view of the analog D
// flip-flop simulation.
//
// Keys:
//
//	D           toggle the D input
//	R (hold)    asynchronous reset
//	Up/Down     clock speed
//	Left/Right  noise level
//	S           save the visible trace to dffsim.png
//	Esc         quit
//
// With -plot, the simulation runs headless for -dur simulated seconds and
// the waveform image is written to the given file instead.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"

	"github.com/db47h/dffsim"
	"github.com/db47h/dffsim/scope"
	"github.com/db47h/dffsim/session"
)

const (
	screenW = 960
	screenH = 540

	tickRate = 240 // simulation steps per second
)

var (
	plotFile = flag.String("plot", "", "run headless and write the waveform image to `file`")
	dur      = flag.Duration("dur", 5*time.Second, "simulated time to run in -plot mode")
	noise    = flag.Float64("noise", 20, "noise level (0-100)")
	speed    = flag.Float64("speed", 50, "clock speed (0-100)")
	vih      = flag.Float64("vih", 0, "override the logic high input threshold, volts")
	vil      = flag.Float64("vil", 0, "override the logic low input threshold, volts")
)

func main() {
	flag.Parse()

	sim, err := dffsim.NewSim(dffsim.DefaultSpec(), nil)
	if err != nil {
		log.Fatal(err)
	}
	var patch dffsim.Patch
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vih":
			patch.LogicHighMin = vih
		case "vil":
			patch.LogicLowMax = vil
		}
	})
	if patch != (dffsim.Patch{}) {
		if err := sim.ApplySpec(patch); err != nil {
			log.Fatal(err)
		}
	}
	sim.SetNoise(*noise)
	sim.SetSpeed(*speed)
	sim.SetTarget(true)

	if *plotFile != "" {
		if err := plotRun(sim, *dur, *plotFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	spec := sim.Spec()
	ses := session.New(sim, screenW, time.Second/tickRate)
	ses.Start()
	defer ses.Stop()

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("dffsim")
	g := &game{ses: ses, spec: spec, noise: *noise, speed: *speed, target: true}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// plotRun steps the simulation headless and renders the trace to file.
func plotRun(sim *dffsim.Sim, dur time.Duration, file string) error {
	const dt = 1.0 / tickRate
	n := int(dur.Seconds() * tickRate)
	if n < 2 {
		return errors.New("duration too short")
	}
	tr := scope.NewTrace(n)
	for i := 0; i < n; i++ {
		tr.Push(sim.Step(dt))
	}
	return scope.Render(tr.Snapshot(nil), sim.Spec(), file)
}

type game struct {
	ses  *session.Session
	spec dffsim.VoltageSpec

	noise  float64
	speed  float64
	target bool
	reset  bool

	samples []dffsim.Sample
	status  string
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.target = !g.target
		g.post(g.ses.SetTarget(g.target))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset = true
		g.post(g.ses.SetReset(true))
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyR) {
		g.reset = false
		g.post(g.ses.SetReset(false))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.speed = min(g.speed+5, 100)
		g.post(g.ses.SetSpeed(g.speed))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.speed = max(g.speed-5, 0)
		g.post(g.ses.SetSpeed(g.speed))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.noise = min(g.noise+5, 100)
		g.post(g.ses.SetNoise(g.noise))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.noise = max(g.noise-5, 0)
		g.post(g.ses.SetNoise(g.noise))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := scope.Render(g.ses.Snapshot(nil), g.spec, "dffsim.png"); err != nil {
			g.status = err.Error()
		} else {
			g.status = "saved dffsim.png"
		}
	}
	return nil
}

func (g *game) post(err error) {
	if err != nil {
		g.status = err.Error()
	}
}

var laneColors = []color.RGBA{
	{R: 0x4c, G: 0xaf, B: 0xfa, A: 0xff}, // D
	{R: 0xff, G: 0xb3, B: 0x3c, A: 0xff}, // CLK
	{R: 0x66, G: 0xe0, B: 0x7a, A: 0xff}, // Q
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x14, B: 0x18, A: 0xff})

	g.samples = g.ses.Snapshot(g.samples[:0])
	if len(g.samples) >= 2 {
		for lane := 0; lane < 3; lane++ {
			g.drawLane(screen, lane)
		}
	}

	names := []string{"D", "CLK", "Q"}
	for lane, name := range names {
		ebitenutil.DebugPrintAt(screen, name, 4, lane*laneH()+4)
	}
	state := fmt.Sprintf("noise %3.0f%%  speed %3.0f%%  D=%d  reset=%v   [D] [R] [arrows] [S]ave [Esc]",
		g.noise, g.speed, b2i(g.target), g.reset)
	if g.status != "" {
		state += "   " + g.status
	}
	ebitenutil.DebugPrintAt(screen, state, 4, screenH-16)
}

func laneH() int { return (screenH - 20) / 3 }

// drawLane strokes one channel's waveform into its horizontal band,
// mapping sample index to x and voltage to y between the supply rails.
func (g *game) drawLane(screen *ebiten.Image, lane int) {
	h := float32(laneH())
	top := float32(lane) * h
	span := float32(g.spec.SystemMax - g.spec.ClampMin)
	if span <= 0 {
		return
	}
	toY := func(v float64) float32 {
		f := (float32(v) - float32(g.spec.ClampMin)) / span
		return top + h - f*(h-8) - 4
	}
	value := func(s dffsim.Sample) float64 {
		switch lane {
		case 0:
			return s.D
		case 1:
			return s.Clk
		}
		return s.Q
	}

	dx := float32(screenW) / float32(len(g.samples)-1)
	clr := laneColors[lane]
	for i := 1; i < len(g.samples); i++ {
		x0 := float32(i-1) * dx
		x1 := float32(i) * dx
		vector.StrokeLine(screen, x0, toY(value(g.samples[i-1])), x1, toY(value(g.samples[i])), 1, clr, true)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
