package model

import "math"

// Running accumulates streaming mean and variance with Welford's update,
// so long-lived samples never difference large partial sums.
type Running struct {
	n    int
	mean float64
	m2   float64
}

// Observe folds one value into the accumulator.
func (r *Running) Observe(v float64) {
	r.n++
	d := v - r.mean
	r.mean += d / float64(r.n)
	r.m2 += d * (v - r.mean)
}

// Count returns the number of observations.
func (r *Running) Count() int { return r.n }

// Mean returns the running mean, zero before any observation.
func (r *Running) Mean() float64 { return r.mean }

// Variance returns the sample variance, zero below two observations.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r *Running) StdDev() float64 { return math.Sqrt(r.Variance()) }

// Reset clears the accumulator.
func (r *Running) Reset() { *r = Running{} }
