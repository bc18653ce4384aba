package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunningMatchesTwoPass(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vals := make([]float64, 500)
	for i := range vals {
		vals[i] = 100 + rng.NormFloat64()*3
	}

	var r Running
	for _, v := range vals {
		r.Observe(v)
	}

	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var m2 float64
	for _, v := range vals {
		m2 += (v - mean) * (v - mean)
	}
	variance := m2 / float64(len(vals)-1)

	require.Equal(t, len(vals), r.Count())
	require.InDelta(t, mean, r.Mean(), 1e-9)
	require.InDelta(t, variance, r.Variance(), 1e-9)
	require.InDelta(t, math.Sqrt(variance), r.StdDev(), 1e-9)
}

func TestRunningEmptyAndSingle(t *testing.T) {
	var r Running
	require.Zero(t, r.Mean())
	require.Zero(t, r.Variance())

	r.Observe(4.5)
	require.Equal(t, 1, r.Count())
	require.Equal(t, 4.5, r.Mean())
	require.Zero(t, r.Variance(), "one observation has no spread")
}

func TestRunningReset(t *testing.T) {
	var r Running
	r.Observe(1)
	r.Observe(2)
	r.Reset()
	require.Zero(t, r.Count())
	require.Zero(t, r.Mean())
}
