// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package session drives a simulation on its own goroutine so that a UI
// or renderer never shares mutable engine state. Parameter updates are
// posted as messages and applied between ticks, never mid-step; consumers
// read waveform history through trace snapshots.
package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/db47h/dffsim"
	"github.com/db47h/dffsim/scope"
)

// ErrStopped is returned by commands posted to a stopped session.
var ErrStopped = errors.New("session stopped")

// A Session owns a Sim and steps it at a fixed wall-clock rate on a
// dedicated goroutine. All exported methods are safe to call from any
// goroutine.
type Session struct {
	sim  *dffsim.Sim
	cmds chan func(*dffsim.Sim)
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup

	interval time.Duration

	mu    sync.Mutex
	trace *scope.Trace
}

// New returns a session stepping sim every interval, recording the last
// traceCap samples. The caller must not touch sim after Start.
func New(sim *dffsim.Sim, traceCap int, interval time.Duration) *Session {
	return &Session{
		sim:      sim,
		cmds:     make(chan func(*dffsim.Sim), 16),
		quit:     make(chan struct{}),
		interval: interval,
		trace:    scope.NewTrace(traceCap),
	}
}

// Start launches the stepping goroutine. Start must be called at most
// once.
func (s *Session) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates the stepping goroutine and waits for it to exit. The
// trace remains readable after Stop.
func (s *Session) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}

func (s *Session) run() {
	defer s.wg.Done()
	tick := time.NewTicker(s.interval)
	defer tick.Stop()
	last := time.Now()
	for {
		select {
		case <-s.quit:
			return
		case fn := <-s.cmds:
			fn(s.sim)
		case now := <-tick.C:
			// Sim.Step clamps pathological dt from scheduler stalls
			dt := now.Sub(last).Seconds()
			last = now
			sample := s.sim.Step(dt)
			s.mu.Lock()
			s.trace.Push(sample)
			s.mu.Unlock()
		}
	}
}

// post queues fn for execution between ticks. Returns ErrStopped if the
// session has been stopped.
func (s *Session) post(fn func(*dffsim.Sim)) error {
	select {
	case <-s.quit:
		return ErrStopped
	default:
	}
	select {
	case s.cmds <- fn:
		return nil
	case <-s.quit:
		return ErrStopped
	}
}

// SetTarget posts a D target logic change.
func (s *Session) SetTarget(level bool) error {
	return s.post(func(sim *dffsim.Sim) { sim.SetTarget(level) })
}

// Toggle posts a D target logic inversion.
func (s *Session) Toggle() error {
	return s.post(func(sim *dffsim.Sim) { sim.SetTarget(!sim.Target()) })
}

// SetReset posts an asynchronous reset change.
func (s *Session) SetReset(active bool) error {
	return s.post(func(sim *dffsim.Sim) { sim.SetReset(active) })
}

// SetNoise posts a noise level change (0–100).
func (s *Session) SetNoise(percent float64) error {
	return s.post(func(sim *dffsim.Sim) { sim.SetNoise(percent) })
}

// SetSpeed posts a clock speed change (0–100).
func (s *Session) SetSpeed(percent float64) error {
	return s.post(func(sim *dffsim.Sim) { sim.SetSpeed(percent) })
}

// ApplySpec posts a voltage spec patch and waits for the engine to apply
// it between ticks, returning the validation result.
func (s *Session) ApplySpec(p dffsim.Patch) error {
	res := make(chan error, 1)
	if err := s.post(func(sim *dffsim.Sim) { res <- sim.ApplySpec(p) }); err != nil {
		return err
	}
	select {
	case err := <-res:
		return err
	case <-s.quit:
		return ErrStopped
	}
}

// Spec queries the active voltage spec. Returns the zero spec and
// ErrStopped if the session has been stopped.
func (s *Session) Spec() (dffsim.VoltageSpec, error) {
	res := make(chan dffsim.VoltageSpec, 1)
	if err := s.post(func(sim *dffsim.Sim) { res <- sim.Spec() }); err != nil {
		return dffsim.VoltageSpec{}, err
	}
	select {
	case spec := <-res:
		return spec, nil
	case <-s.quit:
		return dffsim.VoltageSpec{}, ErrStopped
	}
}

// Snapshot appends the recorded samples to dst, oldest first, and returns
// the extended slice.
func (s *Session) Snapshot(dst []dffsim.Sample) []dffsim.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace.Snapshot(dst)
}

// Last returns the most recent sample, or false if none were recorded
// yet.
func (s *Session) Last() (dffsim.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace.Last()
}
