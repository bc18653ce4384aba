// Package numeric provides the two numerical utilities the engine ships:
// a bounded one-dimensional Newton-Raphson root finder and a Box-Muller
// standard-normal sampler.
package numeric

import (
	"errors"
	"math"
)

const (
	maxIterations   = 20
	tolerance       = 1e-9
	derivativeFloor = 1e-14
)

var (
	// ErrNoConvergence is returned when the residual is still above
	// tolerance after the iteration cap.
	ErrNoConvergence = errors.New("numeric: root find did not converge")

	// ErrVanishingDerivative is returned when the derivative guard
	// trips before convergence.
	ErrVanishingDerivative = errors.New("numeric: derivative vanished")
)

// Newton finds a root of f starting from x0, which is typically the
// previous frame's result. A non-finite x0 restarts from zero. On
// success the residual |f(x)| is below 1e-9; on failure the returned
// value is zero with a non-nil error. Newton never returns NaN.
func Newton(f, df func(float64) float64, x0 float64) (float64, error) {
	x := x0
	if !isFinite(x) {
		x = 0
	}
	for i := 0; i < maxIterations; i++ {
		fx := f(x)
		if !isFinite(fx) {
			return 0, ErrNoConvergence
		}
		if math.Abs(fx) < tolerance {
			return x, nil
		}
		d := df(x)
		if !isFinite(d) || math.Abs(d) < derivativeFloor {
			return 0, ErrVanishingDerivative
		}
		next := x - fx/d
		if !isFinite(next) {
			return 0, ErrNoConvergence
		}
		x = next
	}
	if math.Abs(f(x)) < tolerance {
		return x, nil
	}
	return 0, ErrNoConvergence
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
