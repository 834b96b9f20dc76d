// Copyright 2024 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dffsim

import (
	"math"
	"math/rand/v2"
)

// A Rand is the source of randomness for noise injection and metastable
// collapse. *math/rand/v2.Rand satisfies it; tests substitute seeded or
// scripted sources.
type Rand interface {
	// Float64 returns a uniformly distributed number in [0, 1).
	Float64() float64
}

// newRand returns the default production source, a PCG seeded from the
// global generator.
func newRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// gauss draws standard normal deviates from a uniform source using the
// Marsaglia polar method. Each draw produces a pair; the second deviate is
// kept and returned by the next call, halving the number of sqrt/log
// evaluations. The cache is invisible to callers: deviates are i.i.d.
// N(0,1) either way.
type gauss struct {
	src   Rand
	spare float64
	ready bool
}

func (g *gauss) norm() float64 {
	if g.ready {
		g.ready = false
		return g.spare
	}
	for {
		u := 2*g.src.Float64() - 1
		v := 2*g.src.Float64() - 1
		s := u*u + v*v
		if s == 0 || s >= 1 {
			continue
		}
		f := math.Sqrt(-2 * math.Log(s) / s)
		g.spare = v * f
		g.ready = true
		return u * f
	}
}
