package model

import (
	"errors"
	"math/rand"

	"github.com/san-kum/vizlab/internal/param"
)

// Kind distinguishes the two model shapes.
type Kind int

const (
	// Analytic models are pure functions of the parameter set.
	Analytic Kind = iota
	// Dynamic models carry state advanced every tick.
	Dynamic
)

func (k Kind) String() string {
	switch k {
	case Analytic:
		return "analytic"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ErrModelUndefined reports a compute precondition violation the
// parameter store should have prevented. The harness logs it, keeps the
// last valid outputs and marks the sample stalled.
var ErrModelUndefined = errors.New("model: compute undefined for current parameters")

// ComputeFunc derives outputs from the parameter snapshot and, for
// dynamic models, the current state. Analytic computes ignore s, which
// may be nil.
type ComputeFunc func(p param.Snapshot, s *State) (*Outputs, error)

// AdvanceFunc updates state in place by dt simulation seconds. It never
// fails: a model that cannot advance marks the state stalled instead.
type AdvanceFunc func(s *State, p param.Snapshot, dt float64)

// ResetFunc builds a fresh state. It must be deterministic in
// (params, seed) so reset is idempotent.
type ResetFunc func(p param.Snapshot, seed int64) *State

// Def declares a model. Analytic models need only Compute; dynamic
// models need all three functions.
type Def struct {
	Kind    Kind
	Compute ComputeFunc
	Advance AdvanceFunc
	Reset   ResetFunc

	// Integrable declares that advancing by dt twice lands on the same
	// state as advancing by 2dt, so tests may fold steps.
	Integrable bool

	// Domain names an assumed approximation regime ("small-angle",
	// "steady state") that views may surface. Empty when exact.
	Domain string
}

// Validate checks the declaration is complete for its kind.
func (d Def) Validate() error {
	if d.Compute == nil {
		return errors.New("model: compute function missing")
	}
	if d.Kind == Dynamic && (d.Advance == nil || d.Reset == nil) {
		return errors.New("model: dynamic model needs advance and reset")
	}
	if d.Kind == Analytic && (d.Advance != nil || d.Reset != nil) {
		return errors.New("model: analytic model must not declare advance or reset")
	}
	return nil
}

// State is the simulation state of one dynamic sample. The harness owns
// it; renderers read it through the frame snapshot.
type State struct {
	// T is elapsed proper time in simulation seconds.
	T float64
	// Frame counts delivered ticks, monotonically.
	Frame uint64
	// Stalled is set when advance cannot make progress.
	Stalled bool

	// RNG is this sample's private random stream.
	RNG *rand.Rand

	Particles *ParticleSystem
	Hist      *History

	// Data holds the sample-specific payload.
	Data any
}

// NewState returns a state with a seeded private RNG.
func NewState(seed int64) *State {
	return &State{RNG: rand.New(rand.NewSource(seed))}
}
