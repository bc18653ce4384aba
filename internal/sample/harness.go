package sample

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
)

// Status is the sample lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusStalled
	StatusResetPending
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusStalled:
		return "stalled"
	case StatusResetPending:
		return "reset-pending"
	}
	return "unknown"
}

// TargetResolver hands the harness the host surface for a view's target
// id during attachment.
type TargetResolver func(id string) (render.Target, error)

type boundRenderer struct {
	view     render.Renderer
	target   render.Target
	targetID string
	failed   bool
}

// Harness owns one sample instance: the store, the model state, the
// scheduler and the attached renderers. It is single-threaded; the host
// drives it from its frame callback via Scheduler().Tick or Run.
type Harness struct {
	def   *Def
	log   *slog.Logger
	store *param.Store
	sched *engine.Scheduler

	state   *model.State
	outputs *model.Outputs

	renderers []boundRenderer
	resetKeys map[string]bool
	bindings  map[string]Binding

	status Status
	seed   int64
}

// Option adjusts harness construction.
type Option func(*Harness)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.log = l }
}

// WithSeed overrides the declaration's RNG seed.
func WithSeed(seed int64) Option {
	return func(h *Harness) { h.seed = seed }
}

// New builds the store from the declaration, validates the model,
// resets dynamic state and computes the first outputs. Renderers attach
// separately via AttachTargets once the host has surfaces.
func New(def *Def, opts ...Option) (*Harness, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	h := &Harness{
		def:       def,
		log:       slog.Default(),
		store:     param.NewStore(),
		sched:     engine.NewScheduler(),
		outputs:   model.NewOutputs(),
		resetKeys: make(map[string]bool),
		bindings:  make(map[string]Binding),
		status:    StatusIdle,
		seed:      def.Seed,
	}
	for _, opt := range opts {
		opt(h)
	}

	for _, p := range def.Params {
		if err := h.store.Add(p); err != nil {
			return nil, fmt.Errorf("%w: sample %q: %v", ErrConfig, def.Name, err)
		}
		if p.Reset {
			h.resetKeys[p.Key] = true
		}
	}
	for _, group := range def.Ordering {
		if err := h.store.AddOrdering(group...); err != nil {
			return nil, fmt.Errorf("%w: sample %q: %v", ErrConfig, def.Name, err)
		}
	}
	for _, b := range def.Bindings {
		h.bindings[b.Control] = b
	}
	if def.Speed > 0 {
		h.sched.SetSpeed(def.Speed)
	}

	snap := h.store.Snapshot()
	if def.Model.Kind == model.Dynamic {
		h.state = def.Model.Reset(snap, h.seed)
	} else {
		h.state = model.NewState(h.seed)
	}
	h.compute(snap)

	h.sched.Register(h.tick)
	return h, nil
}

// AttachTargets resolves every view's target id and constructs its
// renderer. Unknown kinds and failed construction are declaration
// errors.
func (h *Harness) AttachTargets(resolve TargetResolver) error {
	h.renderers = h.renderers[:0]
	for _, v := range h.def.Views {
		t, err := resolve(v.Target)
		if err != nil {
			return fmt.Errorf("%w: sample %q target %q: %v", ErrConfig, h.def.Name, v.Target, err)
		}
		r, err := buildRenderer(t, v)
		if err != nil {
			return fmt.Errorf("sample %q view %q: %w", h.def.Name, v.Target, err)
		}
		h.renderers = append(h.renderers, boundRenderer{view: r, target: t, targetID: v.Target})
	}
	return nil
}

func buildRenderer(t render.Target, v View) (render.Renderer, error) {
	switch v.Kind {
	case "diagram":
		return render.NewDiagram(t, *v.Diagram)
	case "plot":
		return render.NewPlot(t, *v.Plot)
	case "particles":
		return render.NewParticles(t, *v.Particles)
	case "timeseries":
		return render.NewTimeSeries(t, *v.TimeSeries)
	case "readout":
		return render.NewReadout(t, *v.Readout)
	}
	return nil, fmt.Errorf("%w: unknown renderer kind %q", ErrConfig, v.Kind)
}

// Def returns the declaration the harness was built from.
func (h *Harness) Def() *Def { return h.def }

// Store exposes the parameter store for hosts and tests.
func (h *Harness) Store() *param.Store { return h.store }

// Scheduler exposes the frame clock; hosts call its Tick from their
// frame callback.
func (h *Harness) Scheduler() *engine.Scheduler { return h.sched }

// Outputs returns the last valid outputs.
func (h *Harness) Outputs() *model.Outputs { return h.outputs }

// State returns the model state, nil-safe for analytic samples.
func (h *Harness) State() *model.State { return h.state }

// Status returns the lifecycle state.
func (h *Harness) Status() Status { return h.status }

// RendererFailures lists the target ids of views whose renderer
// panicked and was disabled. Hosts surface these as warnings.
func (h *Harness) RendererFailures() []string {
	var ids []string
	for i := range h.renderers {
		if h.renderers[i].failed {
			ids = append(ids, h.renderers[i].targetID)
		}
	}
	return ids
}

// Play starts or resumes the frame loop. A stall survives the pause
// round trip; only a succeeding compute clears it.
func (h *Harness) Play() {
	if h.sched.IsRunning() {
		return
	}
	h.sched.Start()
	if h.status == StatusIdle || h.status == StatusPaused {
		if h.state != nil && h.state.Stalled {
			h.status = StatusStalled
		} else {
			h.status = StatusRunning
		}
	}
}

// Pause stops the frame loop; the last painted frame stays on screen.
func (h *Harness) Pause() {
	if !h.sched.IsRunning() {
		return
	}
	h.sched.Stop()
	h.status = StatusPaused
}

// TogglePlay flips running and paused.
func (h *Harness) TogglePlay() {
	if h.sched.IsRunning() {
		h.Pause()
	} else {
		h.Play()
	}
}

// Reset requests a model reset on the next tick, from any state. A
// paused sample is restarted so that tick arrives.
func (h *Harness) Reset() {
	h.status = StatusResetPending
	if !h.sched.IsRunning() {
		h.sched.Start()
	}
}

// ApplyControl routes a host control change to its bound parameter.
func (h *Harness) ApplyControl(controlID string, raw float64) error {
	b, ok := h.bindings[controlID]
	if !ok {
		return fmt.Errorf("%w: sample %q has no control %q", ErrConfig, h.def.Name, controlID)
	}
	if b.Map == "log10" {
		raw = math.Log10(raw)
	}
	h.store.Set(b.Param, raw)
	return nil
}

// Set writes a parameter directly, for CLI flags and tests.
func (h *Harness) Set(key string, raw float64) {
	h.store.Set(key, raw)
}

// tick is the per-frame heartbeat: flush dirty keys, reset when asked
// or when a reset key changed, run the model, then paint every view
// from one immutable frame.
func (h *Harness) tick(now, dt float64, frame uint64) {
	dirty := h.store.Flush()
	snap := h.store.Snapshot()

	doReset := h.hitsResetKey(dirty)
	if h.status == StatusResetPending {
		doReset = true
		h.status = StatusRunning
	}
	if doReset && h.def.Model.Kind == model.Dynamic {
		h.state = h.def.Model.Reset(snap, h.seed)
	}

	switch h.def.Model.Kind {
	case model.Analytic:
		if len(dirty) > 0 || doReset {
			h.compute(snap)
		}
	case model.Dynamic:
		h.def.Model.Advance(h.state, snap, dt)
		h.compute(snap)
	}

	if h.state != nil {
		h.state.T += dt
		h.state.Frame = frame
	}

	f := &render.Frame{
		Params:  snap,
		Outputs: h.outputs,
		State:   h.state,
		Now:     now,
		Dt:      dt,
		Num:     frame,
	}
	for i := range h.renderers {
		h.paint(&h.renderers[i], f)
	}
}

func (h *Harness) hitsResetKey(dirty []string) bool {
	for _, k := range dirty {
		if h.resetKeys[k] {
			return true
		}
	}
	return false
}

// compute runs the model and applies the stall policy: on error the
// last valid outputs are kept, the failure is logged once, and the
// sample stalls until a later compute succeeds.
func (h *Harness) compute(snap param.Snapshot) {
	out, err := h.def.Model.Compute(snap, h.state)
	if err != nil {
		if h.status != StatusStalled {
			h.log.Error("model compute failed",
				"sample", h.def.Name, "error", err)
		}
		h.status = StatusStalled
		if h.state != nil {
			h.state.Stalled = true
		}
		return
	}
	if h.status == StatusStalled {
		h.status = StatusRunning
	}
	if h.state != nil {
		h.state.Stalled = false
	}
	h.outputs = out
}

// paint shields the frame loop from a failing renderer: the panic is
// recovered, logged once, a placeholder is painted and the renderer is
// skipped from then on.
func (h *Harness) paint(br *boundRenderer, f *render.Frame) {
	if br.failed {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			br.failed = true
			h.log.Error("renderer failed",
				"sample", h.def.Name, "kind", br.view.Kind(),
				"target", br.targetID, "panic", r)
			h.paintPlaceholder(br)
		}
	}()
	br.view.Paint(f)
}

func (h *Harness) paintPlaceholder(br *boundRenderer) {
	defer func() { recover() }()
	pal := render.DefaultPalette
	w, ht := br.target.Size()
	br.target.Clear(pal.Background)
	br.target.Text("renderer failed", render.Point{X: w / 2, Y: ht / 2}, render.TextStyle{
		Align: render.AlignCenter, Baseline: render.BaselineMiddle, Color: pal.Error,
	})
}
