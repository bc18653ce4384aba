package numeric

import (
	"errors"
	"math"
	"testing"
)

func TestNewtonFindsSquareRoot(t *testing.T) {
	// x^2 - 2 = 0
	f := func(x float64) float64 { return x*x - 2 }
	df := func(x float64) float64 { return 2 * x }

	root, err := Newton(f, df, 1)
	if err != nil {
		t.Fatalf("Newton failed: %v", err)
	}
	if math.Abs(root-math.Sqrt2) > 1e-8 {
		t.Errorf("root: got %.12f, expected %.12f", root, math.Sqrt2)
	}
	if math.Abs(f(root)) >= 1e-9 {
		t.Errorf("residual %.3e not below tolerance", f(root))
	}
}

func TestNewtonWarmStart(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }
	df := func(x float64) float64 { return -math.Sin(x) - 1 }

	first, err := Newton(f, df, 0.5)
	if err != nil {
		t.Fatalf("cold start failed: %v", err)
	}
	warm, err := Newton(f, df, first)
	if err != nil {
		t.Fatalf("warm start failed: %v", err)
	}
	if math.Abs(warm-first) > 1e-9 {
		t.Errorf("warm start drifted: %.12f vs %.12f", warm, first)
	}

	// non-finite previous result falls back to zero, not NaN
	root, err := Newton(f, df, math.NaN())
	if err != nil {
		t.Fatalf("NaN start failed: %v", err)
	}
	if math.IsNaN(root) {
		t.Error("Newton returned NaN")
	}
}

func TestNewtonDerivativeGuard(t *testing.T) {
	// flat at the start: derivative is zero everywhere
	f := func(x float64) float64 { return 1.0 }
	df := func(x float64) float64 { return 0 }

	root, err := Newton(f, df, 3)
	if !errors.Is(err, ErrVanishingDerivative) {
		t.Errorf("got %v, expected ErrVanishingDerivative", err)
	}
	if math.IsNaN(root) {
		t.Error("Newton returned NaN")
	}
}

func TestNewtonIterationCap(t *testing.T) {
	// root find on a sign-flipping residual that cannot settle
	f := func(x float64) float64 {
		if x >= 0 {
			return 1 + x
		}
		return -1 + x
	}
	df := func(x float64) float64 { return 1.0 }

	root, err := Newton(f, df, 0)
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("got %v, expected ErrNoConvergence", err)
	}
	if math.IsNaN(root) {
		t.Error("Newton returned NaN")
	}
}

func TestNewtonNeverNaN(t *testing.T) {
	f := func(x float64) float64 { return math.Log(x) }
	df := func(x float64) float64 { return 1 / x }

	// starting left of the domain produces NaN residuals internally
	root, err := Newton(f, df, -5)
	if math.IsNaN(root) {
		t.Errorf("Newton returned NaN (err %v)", err)
	}
}
