// Package analysis holds offline helpers over recorded histories,
// currently spectral analysis for the sampling demos and the analyze
// command.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided amplitude spectrum with its frequency axis.
type Spectrum struct {
	Freq  []float64
	Power []float64
}

// PowerSpectrum computes the one-sided spectrum of a uniformly sampled
// series. The mean is removed and a Hann window applied, so a unit
// amplitude tone on an exact bin reads close to 1. Any length works,
// not just powers of two.
func PowerSpectrum(samples []float64, sampleRate float64) Spectrum {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return Spectrum{}
	}

	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	w := window.Hann(n)
	buf := make([]float64, n)
	var wsum float64
	for i := range buf {
		buf[i] = (samples[i] - mean) * w[i]
		wsum += w[i]
	}
	if wsum == 0 {
		return Spectrum{}
	}

	spec := fft.FFTReal(buf)
	half := n / 2
	s := Spectrum{
		Freq:  make([]float64, half),
		Power: make([]float64, half),
	}
	for i := 0; i < half; i++ {
		s.Freq[i] = float64(i) * sampleRate / float64(n)
		s.Power[i] = 2 * cmplx.Abs(spec[i]) / wsum
	}
	return s
}

// Peak returns the strongest bin.
func (s Spectrum) Peak() (freq, power float64) {
	for i, p := range s.Power {
		if p > power {
			power, freq = p, s.Freq[i]
		}
	}
	return freq, power
}
