package param

import (
	"fmt"
	"math"
	"slices"
)

// Store is the authoritative parameter set of one sample. It enforces
// ranges, step quantization and ordering groups on every write, and
// coalesces change notification to one batch per frame boundary.
//
// A Store is not safe for concurrent use; all access happens on the
// host frame loop.
type Store struct {
	order  []string
	params map[string]*Parameter
	groups [][]string

	// effective-value envelope implied by ordering groups, per key
	envLo map[string]float64
	envHi map[string]float64

	dirty map[string]struct{}
	subs  []func(dirty []string)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		params: make(map[string]*Parameter),
		envLo:  make(map[string]float64),
		envHi:  make(map[string]float64),
		dirty:  make(map[string]struct{}),
	}
}

// Add declares a parameter. The initial value is clamped and quantized
// like any Set. Declaring a key twice is an error.
func (s *Store) Add(p Parameter) error {
	if p.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidRange)
	}
	if _, ok := s.params[p.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, p.Key)
	}
	if math.IsNaN(p.Min) || math.IsNaN(p.Max) || p.Min > p.Max {
		return fmt.Errorf("%w: %q has range [%v, %v]", ErrInvalidRange, p.Key, p.Min, p.Max)
	}
	if p.Step < 0 || math.IsNaN(p.Step) {
		return fmt.Errorf("%w: %q has step %v", ErrInvalidRange, p.Key, p.Step)
	}
	if math.IsNaN(p.Value) {
		p.Value = p.Min
	}
	p.Value = quantize(&p, p.Value)
	s.order = append(s.order, p.Key)
	s.params[p.Key] = &p
	return nil
}

// AddOrdering declares an ordering group: the effective values of keys
// must be non-decreasing in the given order after every write. All keys
// must exist. The group is rejected when the declared ranges admit no
// assignment that satisfies the chain. Current values are normalized to
// the chain immediately, without producing dirty events.
func (s *Store) AddOrdering(keys ...string) error {
	if len(keys) < 2 {
		return fmt.Errorf("%w: group needs at least two keys", ErrInfeasibleOrdering)
	}
	for _, k := range keys {
		if _, ok := s.params[k]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, k)
		}
	}
	s.groups = append(s.groups, slices.Clone(keys))
	if err := s.recomputeEnvelopes(); err != nil {
		s.groups = s.groups[:len(s.groups)-1]
		s.recomputeEnvelopes()
		return err
	}

	// normalize: pull every value into its envelope, then sweep the
	// chain once so successors are at least their predecessors
	for _, k := range keys {
		p := s.params[k]
		p.Value = s.envClamp(p, p.Value)
	}
	for i := 1; i < len(keys); i++ {
		prev, cur := s.params[keys[i-1]], s.params[keys[i]]
		if cur.Effective() < prev.Effective() {
			cur.Value = clamp(cur.toRaw(prev.Effective()), cur.Min, cur.Max)
		}
	}
	return nil
}

// recomputeEnvelopes derives, for every key, the effective-value interval
// the ordering groups leave available. Returns ErrInfeasibleOrdering when
// some key's interval is empty.
func (s *Store) recomputeEnvelopes() error {
	for k := range s.envLo {
		delete(s.envLo, k)
	}
	for k := range s.envHi {
		delete(s.envHi, k)
	}
	for _, g := range s.groups {
		for i, k := range g {
			lo, hi := math.Inf(-1), math.Inf(1)
			for _, left := range g[:i] {
				lo = math.Max(lo, s.params[left].EffectiveMin())
			}
			for _, right := range g[i+1:] {
				hi = math.Min(hi, s.params[right].EffectiveMax())
			}
			if cur, ok := s.envLo[k]; ok {
				lo = math.Max(lo, cur)
			}
			if cur, ok := s.envHi[k]; ok {
				hi = math.Min(hi, cur)
			}
			s.envLo[k] = lo
			s.envHi[k] = hi
		}
	}
	for k, lo := range s.envLo {
		p := s.params[k]
		if math.Max(lo, p.EffectiveMin()) > math.Min(s.envHi[k], p.EffectiveMax()) {
			return fmt.Errorf("%w: no admissible value for %q", ErrInfeasibleOrdering, k)
		}
	}
	return nil
}

// envClamp clamps a raw value so the effective value stays inside the
// key's ordering envelope. Step quantization is not re-applied: the
// chain invariant wins over the step grid.
func (s *Store) envClamp(p *Parameter, raw float64) float64 {
	lo, ok := s.envLo[p.Key]
	if !ok {
		return raw
	}
	eff := p.effAt(raw)
	clamped := clamp(eff, lo, s.envHi[p.Key])
	if clamped == eff {
		return raw
	}
	return clamp(p.toRaw(clamped), p.Min, p.Max)
}

// Set writes a raw value: clamp to range, quantize to step, clamp to the
// ordering envelope, then settle the parameter's ordering groups. A
// non-finite input and an unknown key are ignored. Writing the value the
// parameter already holds produces no dirty event.
func (s *Store) Set(key string, raw float64) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return
	}
	p, ok := s.params[key]
	if !ok {
		return
	}
	v := s.envClamp(p, quantize(p, raw))
	if v == p.Value {
		return
	}
	p.Value = v
	s.dirty[key] = struct{}{}
	s.settle(key)
}

func quantize(p *Parameter, raw float64) float64 {
	v := clamp(raw, p.Min, p.Max)
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
		v = clamp(v, p.Min, p.Max)
	}
	return v
}

// settle walks every group containing key outward from it: successors
// are raised to at least the new effective value, predecessors lowered
// to at most it. Neighbors it moves are marked dirty. The walk stops at
// the first neighbor that already satisfies the chain.
func (s *Store) settle(key string) {
	for _, g := range s.groups {
		i := slices.Index(g, key)
		if i < 0 {
			continue
		}
		for j := i + 1; j < len(g); j++ {
			prev, cur := s.params[g[j-1]], s.params[g[j]]
			if cur.Effective() >= prev.Effective() {
				break
			}
			s.force(cur, prev.Effective())
		}
		for j := i - 1; j >= 0; j-- {
			next, cur := s.params[g[j+1]], s.params[g[j]]
			if cur.Effective() <= next.Effective() {
				break
			}
			s.force(cur, next.Effective())
		}
	}
}

func (s *Store) force(p *Parameter, targetEffective float64) {
	v := clamp(p.toRaw(targetEffective), p.Min, p.Max)
	if v == p.Value {
		return
	}
	p.Value = v
	s.dirty[p.Key] = struct{}{}
}

// Get returns the effective value for key.
func (s *Store) Get(key string) (float64, error) {
	p, ok := s.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p.Effective(), nil
}

// Raw returns the stored raw value for key (the log10 exponent for
// logarithmic parameters).
func (s *Store) Raw(key string) (float64, error) {
	p, ok := s.params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p.Value, nil
}

// Display returns the formatted effective value for key.
func (s *Store) Display(key string) (string, error) {
	p, ok := s.params[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p.Display(), nil
}

// Lookup returns a copy of the parameter's current declaration and value.
func (s *Store) Lookup(key string) (Parameter, bool) {
	p, ok := s.params[key]
	if !ok {
		return Parameter{}, false
	}
	return *p, true
}

// Keys returns the declared keys in declaration order.
func (s *Store) Keys() []string {
	return slices.Clone(s.order)
}

// ResetKeys returns the keys whose change must reset dynamic state.
func (s *Store) ResetKeys() []string {
	var keys []string
	for _, k := range s.order {
		if s.params[k].Reset {
			keys = append(keys, k)
		}
	}
	return keys
}

// Subscribe registers fn to be called at each frame boundary that has a
// non-empty dirty set.
func (s *Store) Subscribe(fn func(dirty []string)) {
	s.subs = append(s.subs, fn)
}

// Flush closes the current frame boundary: it returns the dirty keys in
// declaration order, notifies subscribers once, and clears the set.
// Writes made while the engine is mid-tick land in the next batch.
func (s *Store) Flush() []string {
	if len(s.dirty) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.dirty))
	for _, k := range s.order {
		if _, ok := s.dirty[k]; ok {
			keys = append(keys, k)
		}
	}
	clear(s.dirty)
	for _, fn := range s.subs {
		fn(keys)
	}
	return keys
}

// Snapshot captures the effective values and format hints of every
// parameter for one frame.
func (s *Store) Snapshot() Snapshot {
	sn := Snapshot{
		keys: slices.Clone(s.order),
		vals: make(map[string]float64, len(s.order)),
		fmts: make(map[string]Format, len(s.order)),
	}
	for k, p := range s.params {
		sn.vals[k] = p.Effective()
		sn.fmts[k] = p.Format
	}
	return sn
}

func (p *Parameter) effAt(raw float64) float64 {
	if p.Log {
		return math.Pow(10, raw)
	}
	return raw
}

// Snapshot is an immutable view of the store at one frame boundary.
// Models and renderers read through it so they can never observe a torn
// update.
type Snapshot struct {
	keys []string
	vals map[string]float64
	fmts map[string]Format
}

// Get returns the effective value for key. Unknown keys panic: sample
// declarations are validated at load, so a miss here is a programming
// error in the sample itself.
func (sn Snapshot) Get(key string) float64 {
	v, ok := sn.vals[key]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownParameter, key))
	}
	return v
}

// Has reports whether key exists in the snapshot.
func (sn Snapshot) Has(key string) bool {
	_, ok := sn.vals[key]
	return ok
}

// Keys returns the snapshot's keys in declaration order.
func (sn Snapshot) Keys() []string {
	return slices.Clone(sn.keys)
}

// Format returns the format hint for key, or the zero Format.
func (sn Snapshot) Format(key string) Format {
	return sn.fmts[key]
}

// Display returns the formatted effective value for key.
func (sn Snapshot) Display(key string) string {
	return sn.Format(key).Display(sn.Get(key))
}
