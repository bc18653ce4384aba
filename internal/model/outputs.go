package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/vizlab/internal/param"
)

// Scalar is one derived output value with its display format.
type Scalar struct {
	V      float64
	Format param.Format
}

// Outputs is an insertion-ordered map of derived output keys to scalars.
// Invalid marks outputs that left the physically meaningful region;
// views respond with dashes and the warning affordance. Status carries
// the chip id readouts display, empty for none.
type Outputs struct {
	keys []string
	vals map[string]Scalar

	Invalid bool
	Status  string
}

func NewOutputs() *Outputs {
	return &Outputs{vals: make(map[string]Scalar)}
}

// Set stores a value, preserving first-insertion order on re-set.
func (o *Outputs) Set(key string, v float64, f param.Format) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = Scalar{V: v, Format: f}
}

// Get returns the value for key.
func (o *Outputs) Get(key string) (float64, bool) {
	s, ok := o.vals[key]
	return s.V, ok
}

// Value returns the value for key. Unknown keys panic: output keys are
// fixed per sample and views are validated against them at load.
func (o *Outputs) Value(key string) float64 {
	s, ok := o.vals[key]
	if !ok {
		panic(fmt.Sprintf("model: unknown output %q", key))
	}
	return s.V
}

// Format returns the display format for key, or the zero Format.
func (o *Outputs) Format(key string) param.Format {
	return o.vals[key].Format
}

// Display returns the formatted value for key.
func (o *Outputs) Display(key string) string {
	s, ok := o.vals[key]
	if !ok {
		panic(fmt.Sprintf("model: unknown output %q", key))
	}
	return s.Format.Display(s.V)
}

// Keys returns the output keys in insertion order.
func (o *Outputs) Keys() []string {
	return slices.Clone(o.keys)
}

// Clone returns an independent copy. The harness keeps a clone of the
// last valid outputs while a model is stalled.
func (o *Outputs) Clone() *Outputs {
	return &Outputs{
		keys:    slices.Clone(o.keys),
		vals:    maps.Clone(o.vals),
		Invalid: o.Invalid,
		Status:  o.Status,
	}
}

// Equal reports whether two output sets hold the same keys, values and
// flags.
func (o *Outputs) Equal(other *Outputs) bool {
	if other == nil || o.Invalid != other.Invalid || o.Status != other.Status {
		return false
	}
	return slices.Equal(o.keys, other.keys) && maps.Equal(o.vals, other.vals)
}
