// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package scope stores and renders waveform history captured from a
// simulation: a fixed capacity trace buffer, and a plotter that turns a
// trace into an oscilloscope-style image.
package scope

import "github.com/db47h/dffsim"

// A Trace is a fixed capacity circular store of samples. Once full, every
// Push overwrites the oldest sample. The zero value is not usable; use
// NewTrace.
type Trace struct {
	buf  []dffsim.Sample
	head int // next write position
	n    int // valid samples, ≤ len(buf)
}

// NewTrace returns an empty trace holding up to capacity samples.
// Panics if capacity < 1.
func NewTrace(capacity int) *Trace {
	if capacity < 1 {
		panic("scope: trace capacity < 1")
	}
	return &Trace{buf: make([]dffsim.Sample, capacity)}
}

// Push appends s, overwriting the oldest sample when full.
func (t *Trace) Push(s dffsim.Sample) {
	t.buf[t.head] = s
	t.head = (t.head + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Len returns the number of stored samples.
func (t *Trace) Len() int { return t.n }

// Cap returns the trace capacity.
func (t *Trace) Cap() int { return len(t.buf) }

// Last returns the most recently pushed sample, or false if the trace is
// empty.
func (t *Trace) Last() (dffsim.Sample, bool) {
	if t.n == 0 {
		return dffsim.Sample{}, false
	}
	return t.buf[(t.head-1+len(t.buf))%len(t.buf)], true
}

// Snapshot appends the stored samples to dst, oldest first, and returns
// the extended slice. Pass nil to get a fresh copy.
func (t *Trace) Snapshot(dst []dffsim.Sample) []dffsim.Sample {
	if t.n == len(t.buf) {
		dst = append(dst, t.buf[t.head:]...)
		return append(dst, t.buf[:t.head]...)
	}
	return append(dst, t.buf[:t.n]...)
}
