package model

import (
	"math"
	"testing"

	"github.com/san-kum/vizlab/internal/param"
)

func TestOutputsPreserveInsertionOrder(t *testing.T) {
	o := NewOutputs()
	o.Set("vout", -8, param.Fixed(2, "V"))
	o.Set("ripple", 0.32, param.Fixed(3, "A"))
	o.Set("iavg", 1.333, param.Fixed(3, "A"))
	o.Set("vout", -8.5, param.Fixed(2, "V")) // re-set keeps position

	keys := o.Keys()
	expected := []string{"vout", "ripple", "iavg"}
	if len(keys) != len(expected) {
		t.Fatalf("keys: got %v, expected %v", keys, expected)
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("keys[%d]: got %q, expected %q", i, keys[i], expected[i])
		}
	}
	if v := o.Value("vout"); v != -8.5 {
		t.Errorf("re-set value: got %v, expected -8.5", v)
	}
}

func TestOutputsDisplayUsesFormatHint(t *testing.T) {
	o := NewOutputs()
	o.Set("p2", 263902, param.SI(1, "Pa"))
	if got := o.Display("p2"); got != "263.9 kPa" {
		t.Errorf("Display: got %q, expected %q", got, "263.9 kPa")
	}
}

func TestOutputsCloneIsIndependent(t *testing.T) {
	o := NewOutputs()
	o.Set("x", 1, param.Fixed(0, ""))
	o.Status = "steady"

	c := o.Clone()
	o.Set("x", 2, param.Fixed(0, ""))
	o.Invalid = true

	if v := c.Value("x"); v != 1 {
		t.Errorf("clone value: got %v, expected 1", v)
	}
	if c.Invalid {
		t.Error("clone picked up later Invalid flag")
	}
	if c.Status != "steady" {
		t.Errorf("clone status: got %q, expected %q", c.Status, "steady")
	}
}

func TestOutputsEqual(t *testing.T) {
	a := NewOutputs()
	a.Set("x", 1, param.Fixed(0, ""))
	b := NewOutputs()
	b.Set("x", 1, param.Fixed(0, ""))

	if !a.Equal(b) {
		t.Error("identical outputs reported unequal")
	}
	b.Status = "warn"
	if a.Equal(b) {
		t.Error("status difference not detected")
	}
}

func TestDefValidate(t *testing.T) {
	compute := func(p param.Snapshot, s *State) (*Outputs, error) { return NewOutputs(), nil }
	advance := func(s *State, p param.Snapshot, dt float64) {}
	reset := func(p param.Snapshot, seed int64) *State { return NewState(seed) }

	tests := []struct {
		name    string
		def     Def
		wantErr bool
	}{
		{"analytic ok", Def{Kind: Analytic, Compute: compute}, false},
		{"analytic with advance", Def{Kind: Analytic, Compute: compute, Advance: advance, Reset: reset}, true},
		{"dynamic ok", Def{Kind: Dynamic, Compute: compute, Advance: advance, Reset: reset}, false},
		{"dynamic missing reset", Def{Kind: Dynamic, Compute: compute, Advance: advance}, true},
		{"no compute", Def{Kind: Analytic}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunningStat(t *testing.T) {
	var r Running
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		r.Observe(v)
	}
	if r.Count() != 8 {
		t.Errorf("count: got %d, expected 8", r.Count())
	}
	if math.Abs(r.Mean()-5) > 1e-12 {
		t.Errorf("mean: got %v, expected 5", r.Mean())
	}
	// sample variance of the classic dataset is 32/7
	if math.Abs(r.Variance()-32.0/7.0) > 1e-12 {
		t.Errorf("variance: got %v, expected %v", r.Variance(), 32.0/7.0)
	}
	r.Reset()
	if r.Count() != 0 || r.Mean() != 0 {
		t.Error("reset left residue")
	}
}
