// Package param holds the parameter store: bounded numeric inputs, their
// display formats, ordering constraints between them, and frame-coalesced
// change notification.
//
// Key types:
//   - [Parameter]: one named, bounded numeric input
//   - [Store]: the authoritative mutable set of parameters
//   - [Snapshot]: an immutable per-frame view handed to models and renderers
//   - [Format]: a total display formatter (fixed, scientific, SI prefix)
package param

import "math"

// Parameter is a single named input. Value is the raw stored number; for
// logarithmic parameters the effective value is 10^Value.
type Parameter struct {
	Key    string
	Label  string
	Value  float64
	Min    float64
	Max    float64
	Step   float64
	Log    bool
	Format Format
	Reset  bool
}

// Effective returns the value models consume: 10^Value when Log is set,
// Value otherwise.
func (p Parameter) Effective() float64 {
	if p.Log {
		return math.Pow(10, p.Value)
	}
	return p.Value
}

// EffectiveMin returns the smallest effective value the range admits.
func (p Parameter) EffectiveMin() float64 {
	if p.Log {
		return math.Pow(10, p.Min)
	}
	return p.Min
}

// EffectiveMax returns the largest effective value the range admits.
func (p Parameter) EffectiveMax() float64 {
	if p.Log {
		return math.Pow(10, p.Max)
	}
	return p.Max
}

// Display formats the effective value with the parameter's format hint.
func (p Parameter) Display() string {
	return p.Format.Display(p.Effective())
}

func (p Parameter) toRaw(effective float64) float64 {
	if p.Log {
		return math.Log10(effective)
	}
	return effective
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
