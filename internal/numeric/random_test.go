package numeric

import (
	"math"
	"math/rand"
	"testing"
)

func TestNormalDeterministicForSeed(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		x, y := Normal(a), Normal(b)
		if x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestNormalMoments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 200000

	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := Normal(rng)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("draw %d is not finite: %v", i, x)
		}
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("mean: got %.4f, expected ~0", mean)
	}
	if math.Abs(variance-1) > 0.03 {
		t.Errorf("variance: got %.4f, expected ~1", variance)
	}
}
