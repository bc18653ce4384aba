package analysis

import (
	"math"
	"testing"
)

func tone(n int, cycles, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return out
}

func TestPowerSpectrumFindsTone(t *testing.T) {
	// 8 cycles over 64 samples at 64 Hz is an exact 8 Hz bin
	s := PowerSpectrum(tone(64, 8, 1), 64)

	freq, power := s.Peak()
	if freq != 8 {
		t.Errorf("peak at %v Hz, expected 8", freq)
	}
	if math.Abs(power-1) > 0.05 {
		t.Errorf("peak amplitude %v, expected close to 1", power)
	}
}

func TestPowerSpectrumNonPowerOfTwo(t *testing.T) {
	s := PowerSpectrum(tone(60, 6, 2), 60)

	freq, power := s.Peak()
	if freq != 6 {
		t.Errorf("peak at %v Hz, expected 6", freq)
	}
	if math.Abs(power-2) > 0.1 {
		t.Errorf("peak amplitude %v, expected close to 2", power)
	}
}

func TestPowerSpectrumRemovesDC(t *testing.T) {
	samples := tone(64, 4, 1)
	for i := range samples {
		samples[i] += 10
	}
	s := PowerSpectrum(samples, 64)

	if s.Power[0] > 0.05 {
		t.Errorf("DC bin %v, expected the offset removed", s.Power[0])
	}
	freq, _ := s.Peak()
	if freq != 4 {
		t.Errorf("peak at %v Hz, expected 4", freq)
	}
}

func TestPowerSpectrumDegenerateInput(t *testing.T) {
	if s := PowerSpectrum(nil, 64); len(s.Power) != 0 {
		t.Error("nil input should yield an empty spectrum")
	}
	if s := PowerSpectrum([]float64{1}, 64); len(s.Power) != 0 {
		t.Error("single sample should yield an empty spectrum")
	}
	if s := PowerSpectrum(tone(16, 2, 1), 0); len(s.Power) != 0 {
		t.Error("zero sample rate should yield an empty spectrum")
	}

	flat := make([]float64, 32)
	s := PowerSpectrum(flat, 32)
	_, power := s.Peak()
	if power > 1e-12 {
		t.Errorf("flat series peak %v, expected silence", power)
	}
}
