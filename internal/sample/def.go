// Package sample wires a parameter store, a model and a view set into a
// running simulation. A sample is declared as data (Def), registered by
// name, and driven by a Harness that owns the per-frame tick.
package sample

import (
	"fmt"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
)

// View declares one renderer: its kind, the host target id it paints
// to, and exactly one kind-matching config.
type View struct {
	Kind       string
	Target     string
	Diagram    *render.DiagramConfig
	Plot       *render.PlotConfig
	Particles  *render.ParticlesConfig
	TimeSeries *render.TimeSeriesConfig
	Readout    *render.ReadoutConfig
}

// Binding maps a host control to a parameter. Map is "linear" (the
// control's raw value is the parameter's raw value) or "log10" (the
// control reports an effective value; the parameter stores its
// exponent).
type Binding struct {
	Control string
	Param   string
	Map     string
}

// Def is a complete sample declaration. Parameter values are the
// initial values; Presets are named value bundles over the same keys.
type Def struct {
	Name     string
	Title    string
	Params   []param.Parameter
	Ordering [][]string
	Model    model.Def
	Views    []View
	Bindings []Binding
	Presets  map[string]map[string]float64

	// Speed is the initial speed multiplier; zero means 1. Samples
	// whose natural dynamics are too slow or fast for a screen declare
	// their visual rate here instead of distorting model constants.
	Speed float64
	// Seed feeds the state RNG of dynamic models.
	Seed int64
}

// Validate checks the declaration shape. Harness construction calls it;
// registries may call it early to fail at registration time.
func (d *Def) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty sample name", ErrConfig)
	}
	if err := d.Model.Validate(); err != nil {
		return fmt.Errorf("%w: sample %q: %v", ErrConfig, d.Name, err)
	}
	if len(d.Views) == 0 {
		return fmt.Errorf("%w: sample %q has no views", ErrConfig, d.Name)
	}
	keys := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		keys[p.Key] = true
	}
	for i, v := range d.Views {
		if err := v.validate(); err != nil {
			return fmt.Errorf("%w: sample %q view %d: %v", ErrConfig, d.Name, i, err)
		}
	}
	for _, b := range d.Bindings {
		if !keys[b.Param] {
			return fmt.Errorf("%w: sample %q binds control %q to unknown parameter %q",
				ErrConfig, d.Name, b.Control, b.Param)
		}
		if b.Map != "" && b.Map != "linear" && b.Map != "log10" {
			return fmt.Errorf("%w: sample %q control %q has unknown mapping %q",
				ErrConfig, d.Name, b.Control, b.Map)
		}
	}
	for name, vals := range d.Presets {
		for k := range vals {
			if !keys[k] {
				return fmt.Errorf("%w: sample %q preset %q sets unknown parameter %q",
					ErrConfig, d.Name, name, k)
			}
		}
	}
	return nil
}

func (v *View) validate() error {
	n := 0
	var set string
	check := func(kind string, present bool) {
		if present {
			n++
			set = kind
		}
	}
	check("diagram", v.Diagram != nil)
	check("plot", v.Plot != nil)
	check("particles", v.Particles != nil)
	check("timeseries", v.TimeSeries != nil)
	check("readout", v.Readout != nil)
	if n != 1 {
		return fmt.Errorf("needs exactly one renderer config, has %d", n)
	}
	if v.Kind != set {
		return fmt.Errorf("kind %q does not match its %s config", v.Kind, set)
	}
	if v.Target == "" {
		return fmt.Errorf("missing target id")
	}
	return nil
}

// Clone returns a copy deep enough to adjust parameter values without
// touching the registered declaration.
func (d *Def) Clone() *Def {
	c := *d
	c.Params = make([]param.Parameter, len(d.Params))
	copy(c.Params, d.Params)
	return &c
}
