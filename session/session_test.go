package session_test

import (
	"testing"
	"time"

	"github.com/db47h/dffsim"
	"github.com/db47h/dffsim/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sim, err := dffsim.NewSim(dffsim.DefaultSpec(), nil)
	if err != nil {
		t.Fatal(err)
	}
	sim.SetSpeed(80)
	return session.New(sim, 1024, time.Millisecond)
}

func TestSessionRecords(t *testing.T) {
	s := newSession(t)
	s.Start()
	defer s.Stop()

	if err := s.SetTarget(true); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if len(s.Snapshot(nil)) >= 10 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no samples recorded after 5s")
		}
		time.Sleep(10 * time.Millisecond)
	}

	last, ok := s.Last()
	if !ok {
		t.Fatal("Last reported no samples")
	}
	spec := dffsim.DefaultSpec()
	if last.D < spec.ClampMin || last.D > spec.SystemMax {
		t.Fatalf("recorded voltage %g outside the rails", last.D)
	}
}

func TestSessionApplySpec(t *testing.T) {
	s := newSession(t)
	s.Start()
	defer s.Stop()

	bad := 0.5 // below LogicLowMax: breaks the dead zone ordering
	if err := s.ApplySpec(dffsim.Patch{LogicHighMin: &bad}); err == nil {
		t.Fatal("invalid patch accepted")
	}
	spec, err := s.Spec()
	if err != nil {
		t.Fatal(err)
	}
	if spec != dffsim.DefaultSpec() {
		t.Fatalf("rejected patch mutated the spec: %+v", spec)
	}

	good := 2.2
	if err := s.ApplySpec(dffsim.Patch{LogicHighMin: &good}); err != nil {
		t.Fatal(err)
	}
	spec, err = s.Spec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.LogicHighMin != good {
		t.Fatalf("LogicHighMin = %g, want %g", spec.LogicHighMin, good)
	}
}

func TestSessionStop(t *testing.T) {
	s := newSession(t)
	s.Start()
	s.Stop()
	s.Stop() // idempotent

	if err := s.SetNoise(10); err != session.ErrStopped {
		t.Fatalf("command on stopped session returned %v, want ErrStopped", err)
	}
}
