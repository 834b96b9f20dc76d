package dffsim_test

import (
	"math"
	"testing"

	"github.com/db47h/dffsim"
)

func f(v float64) *float64 { return &v }

func TestSpecValidate(t *testing.T) {
	mod := func(fn func(*dffsim.VoltageSpec)) dffsim.VoltageSpec {
		s := dffsim.DefaultSpec()
		fn(&s)
		return s
	}
	tests := []struct {
		name  string
		spec  dffsim.VoltageSpec
		kind  dffsim.SpecErrorKind
		field string
	}{
		{"nan", mod(func(s *dffsim.VoltageSpec) { s.LogicHighMin = math.NaN() }), dffsim.ErrNaN, "LogicHighMin"},
		{"inf", mod(func(s *dffsim.VoltageSpec) { s.SystemMax = math.Inf(1) }), dffsim.ErrNaN, "SystemMax"},
		{"rails", mod(func(s *dffsim.VoltageSpec) { s.SystemMax = -1 }), dffsim.ErrOrdering, "SystemMax/ClampMin"},
		{"range", mod(func(s *dffsim.VoltageSpec) { s.LogicHighMin = 6 }), dffsim.ErrRange, "LogicHighMin"},
		{"dead zone", mod(func(s *dffsim.VoltageSpec) { s.LogicLowMax = 2.5 }), dffsim.ErrOrdering, "LogicLowMax/LogicHighMin"},
		{"voh", mod(func(s *dffsim.VoltageSpec) { s.OutputHighMin = 1.5 }), dffsim.ErrOrdering, "OutputHighMin/LogicHighMin"},
		{"vol", mod(func(s *dffsim.VoltageSpec) { s.OutputLowMax = 1.0 }), dffsim.ErrOrdering, "OutputLowMax/LogicLowMax"},
		{"voh band", mod(func(s *dffsim.VoltageSpec) { s.OutputHighMax = 2.2 }), dffsim.ErrOrdering, "OutputHighMax/OutputHighMin"},
	}
	for _, tc := range tests {
		err := tc.spec.Validate()
		if err == nil {
			t.Errorf("%s: invalid spec accepted", tc.name)
			continue
		}
		se, ok := err.(*dffsim.SpecError)
		if !ok {
			t.Errorf("%s: error %T is not a *SpecError", tc.name, err)
			continue
		}
		if se.Kind != tc.kind || se.Field != tc.field {
			t.Errorf("%s: got %v/%s, want %v/%s", tc.name, se.Kind, se.Field, tc.kind, tc.field)
		}
	}

	if err := dffsim.DefaultSpec().Validate(); err != nil {
		t.Errorf("default spec rejected: %v", err)
	}
	if err := testSpec().Validate(); err != nil {
		t.Errorf("test spec rejected: %v", err)
	}
}

// A rejected patch must leave the session untouched, even when the patch
// is only invalid against the fields it does not set.
func TestApplySpecAllOrNothing(t *testing.T) {
	sim := newTestSim(t)
	orig := sim.Spec()

	// 3.0V is a fine input threshold on a 5V rail, but the unpatched
	// OutputHighMin (2.4V) would no longer read back as logic high
	err := sim.ApplySpec(dffsim.Patch{LogicHighMin: f(3.0)})
	if err == nil {
		t.Fatal("conflicting patch accepted")
	}
	if sim.Spec() != orig {
		t.Fatalf("rejected patch mutated the spec: %+v", sim.Spec())
	}

	// the same threshold is fine once the output band moves with it
	if err := sim.ApplySpec(dffsim.Patch{LogicHighMin: f(3.0), OutputHighMin: f(3.5)}); err != nil {
		t.Fatal(err)
	}
	if got := sim.Spec().LogicHighMin; got != 3.0 {
		t.Fatalf("LogicHighMin = %g after patch, want 3.0", got)
	}
}

// Applying a spec and then applying the original again must leave the
// engine behaving exactly as an untouched one.
func TestApplySpecRoundTrip(t *testing.T) {
	a := newTestSim(t)
	b := newTestSim(t)
	orig := b.Spec()

	patch := dffsim.Patch{
		LogicHighMin:  f(3.0),
		LogicLowMax:   f(1.2),
		OutputHighMin: f(3.5),
	}
	if err := b.ApplySpec(patch); err != nil {
		t.Fatal(err)
	}
	if err := b.ApplySpec(dffsim.Patch{
		LogicHighMin:  f(orig.LogicHighMin),
		LogicLowMax:   f(orig.LogicLowMax),
		OutputHighMin: f(orig.OutputHighMin),
	}); err != nil {
		t.Fatal(err)
	}
	if b.Spec() != orig {
		t.Fatalf("round trip changed the spec: %+v", b.Spec())
	}

	// with no noise the two sessions must now be indistinguishable
	for _, sim := range []*dffsim.Sim{a, b} {
		sim.SetSpeed(80)
		sim.SetTarget(true)
	}
	for i := 0; i < 500; i++ {
		if i == 250 {
			a.SetTarget(false)
			b.SetTarget(false)
		}
		sa, sb := a.Step(dt), b.Step(dt)
		if sa != sb {
			t.Fatalf("step %d: sessions diverged: %+v != %+v", i, sa, sb)
		}
	}
}
