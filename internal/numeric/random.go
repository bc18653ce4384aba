package numeric

import (
	"math"
	"math/rand"
)

// Normal draws a standard normal deviate via Box-Muller. A zero uniform
// is rejected so the log term stays finite. The draw is deterministic
// for a fixed rng state.
func Normal(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	v := rng.Float64()
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}
