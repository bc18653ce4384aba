package sample

import (
	"errors"
	"testing"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
)

func validDef() *Def {
	return &Def{
		Name: "demo",
		Params: []param.Parameter{
			{Key: "a", Value: 1, Min: 0, Max: 10, Format: param.Fixed(1, "")},
		},
		Model: model.Def{
			Kind: model.Analytic,
			Compute: func(p param.Snapshot, s *model.State) (*model.Outputs, error) {
				return model.NewOutputs(), nil
			},
		},
		Views: []View{{
			Kind:    "readout",
			Target:  "main",
			Readout: &render.ReadoutConfig{Rows: []render.Row{{Key: "a", Label: "A"}}},
		}},
		Presets: map[string]map[string]float64{
			"high": {"a": 9},
		},
	}
}

func TestDefValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Def)
		ok     bool
	}{
		{"valid", func(d *Def) {}, true},
		{"empty name", func(d *Def) { d.Name = "" }, false},
		{"no views", func(d *Def) { d.Views = nil }, false},
		{"view without config", func(d *Def) { d.Views[0].Readout = nil }, false},
		{"view with two configs", func(d *Def) {
			d.Views[0].Plot = &render.PlotConfig{}
		}, false},
		{"kind mismatch", func(d *Def) { d.Views[0].Kind = "plot" }, false},
		{"missing target id", func(d *Def) { d.Views[0].Target = "" }, false},
		{"binding to unknown param", func(d *Def) {
			d.Bindings = []Binding{{Control: "k", Param: "ghost"}}
		}, false},
		{"binding with bad mapping", func(d *Def) {
			d.Bindings = []Binding{{Control: "k", Param: "a", Map: "cubic"}}
		}, false},
		{"binding with log10 mapping", func(d *Def) {
			d.Bindings = []Binding{{Control: "k", Param: "a", Map: "log10"}}
		}, true},
		{"preset with unknown key", func(d *Def) {
			d.Presets["bad"] = map[string]float64{"ghost": 1}
		}, false},
		{"analytic with advance", func(d *Def) {
			d.Model.Advance = func(s *model.State, p param.Snapshot, dt float64) {}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDef()
			tt.mutate(d)
			err := d.Validate()
			if tt.ok && err != nil {
				t.Errorf("got %v, expected valid", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !errors.Is(err, ErrConfig) {
					t.Errorf("got %v, expected ErrConfig", err)
				}
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	first := validDef()
	if err := r.Register(first); err != nil {
		t.Fatal(err)
	}
	second := validDef()
	second.Name = "other"
	if err := r.Register(second); err != nil {
		t.Fatal(err)
	}

	got, err := r.Get("demo")
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Error("Get returned a different declaration")
	}

	if _, err := r.Get("nope"); !errors.Is(err, ErrUnknownSample) {
		t.Errorf("got %v, expected ErrUnknownSample", err)
	}

	if err := r.Register(validDef()); !errors.Is(err, ErrDuplicateSample) {
		t.Errorf("got %v, expected ErrDuplicateSample", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "demo" || names[1] != "other" {
		t.Errorf("names got %v, expected registration order", names)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	d := validDef()
	d.Views = nil
	if err := r.Register(d); !errors.Is(err, ErrConfig) {
		t.Errorf("got %v, expected ErrConfig", err)
	}
}

func TestApplyPreset(t *testing.T) {
	d := validDef().Clone()
	if err := ApplyPreset(d, "high"); err != nil {
		t.Fatal(err)
	}
	if d.Params[0].Value != 9 {
		t.Errorf("preset value got %v, expected 9", d.Params[0].Value)
	}

	if err := ApplyPreset(d, "nope"); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown preset got %v, expected ErrConfig", err)
	}
}

func TestCloneIsolatesParams(t *testing.T) {
	d := validDef()
	c := d.Clone()
	c.Params[0].Value = 7
	if d.Params[0].Value != 1 {
		t.Error("clone mutation leaked into the original")
	}
}

func TestPresetNamesSorted(t *testing.T) {
	d := validDef()
	d.Presets["alpha"] = map[string]float64{"a": 1}
	names := PresetNames(d)
	if len(names) != 2 || names[0] != "alpha" || names[1] != "high" {
		t.Errorf("got %v, expected sorted names", names)
	}
}
