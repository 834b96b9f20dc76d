package scope_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/dffsim"
	"github.com/db47h/dffsim/scope"
)

func sample(t float64) dffsim.Sample {
	return dffsim.Sample{T: t, D: t + 1, Clk: t + 2, Q: t + 3}
}

func TestTrace(t *testing.T) {
	tr := scope.NewTrace(4)
	if _, ok := tr.Last(); ok {
		t.Fatal("empty trace reported a last sample")
	}
	if s := tr.Snapshot(nil); len(s) != 0 {
		t.Fatalf("empty trace snapshot has %d samples", len(s))
	}

	for i := 0; i < 3; i++ {
		tr.Push(sample(float64(i)))
	}
	if tr.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tr.Len())
	}
	s := tr.Snapshot(nil)
	for i := range s {
		if s[i].T != float64(i) {
			t.Fatalf("partial snapshot[%d].T = %g, want %d", i, s[i].T, i)
		}
	}

	// overflow: the oldest samples are evicted, order is preserved
	for i := 3; i < 10; i++ {
		tr.Push(sample(float64(i)))
	}
	if tr.Len() != 4 || tr.Cap() != 4 {
		t.Fatalf("Len, Cap = %d, %d, want 4, 4", tr.Len(), tr.Cap())
	}
	s = tr.Snapshot(s[:0])
	for i := range s {
		if want := float64(i + 6); s[i].T != want {
			t.Fatalf("snapshot[%d].T = %g, want %g", i, s[i].T, want)
		}
	}
	if last, _ := tr.Last(); last.T != 9 {
		t.Fatalf("Last().T = %g, want 9", last.T)
	}
}

func TestRender(t *testing.T) {
	spec := dffsim.DefaultSpec()
	if err := scope.Render(nil, spec, "unused.png"); err == nil {
		t.Fatal("empty trace rendered without error")
	}

	sim, err := dffsim.NewSim(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.SetSpeed(80)
	sim.SetNoise(20)
	sim.SetTarget(true)
	tr := scope.NewTrace(512)
	for i := 0; i < 512; i++ {
		tr.Push(sim.Step(1.0 / 240))
	}

	file := filepath.Join(t.TempDir(), "trace.png")
	if err := scope.Render(tr.Snapshot(nil), spec, file); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Fatal("rendered image is empty")
	}
}
