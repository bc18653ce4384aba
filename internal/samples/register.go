// Package samples holds the built-in sample declarations, one file per
// physical system. Each constructor returns a fresh sample.Def wiring
// parameters, a model and views over the engine; RegisterAll loads the
// whole catalog into a registry.
package samples

import "github.com/san-kum/vizlab/internal/sample"

// All returns the built-in catalog in display order.
func All() []*sample.Def {
	return []*sample.Def{
		BuckBoost(),
		Adiabatic(),
		Queue(),
		Snell(),
		Hohmann(),
		LMTD(),
		RandomWalk(),
		Diffusion(),
		Logistic(),
		TerminalVelocity(),
		Blackbody(),
		DoubleSlit(),
		Correlation(),
		Sampling(),
	}
}

// RegisterAll registers every built-in sample.
func RegisterAll(r *sample.Registry) error {
	for _, def := range All() {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns a registry preloaded with the built-in catalog.
func Registry() (*sample.Registry, error) {
	r := sample.NewRegistry()
	if err := RegisterAll(r); err != nil {
		return nil, err
	}
	return r, nil
}
