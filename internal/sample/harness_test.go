package sample_test

import (
	"fmt"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// stubTarget is a no-op drawing surface that counts text draws, enough
// to observe placeholder painting.
type stubTarget struct {
	w, h  float64
	texts []string
}

func (s *stubTarget) Size() (float64, float64)                                   { return s.w, s.h }
func (s *stubTarget) DPR() float64                                               { return 1 }
func (s *stubTarget) SetBackingScale(float64)                                    {}
func (s *stubTarget) Clear(render.Color)                                         {}
func (s *stubTarget) Line(render.Point, render.Point, render.Stroke)             {}
func (s *stubTarget) Polyline([]render.Point, render.Stroke)                     {}
func (s *stubTarget) Arc(render.Point, float64, float64, float64, render.Stroke) {}
func (s *stubTarget) FillPath([]render.Point, render.Color)                      {}
func (s *stubTarget) FillRect(render.Rect, render.Color)                         {}
func (s *stubTarget) StrokeRect(render.Rect, render.Stroke)                      {}
func (s *stubTarget) FillCircle(render.Point, float64, render.Color)             {}
func (s *stubTarget) PushClip(render.Rect)                                       {}
func (s *stubTarget) PopClip()                                                   {}
func (s *stubTarget) PushRotate(render.Point, float64)                           {}
func (s *stubTarget) PopTransform()                                              {}
func (s *stubTarget) SetShadow(render.Color, float64)                            {}
func (s *stubTarget) ClearShadow()                                               {}

func (s *stubTarget) LinearGradient(render.Rect, render.Point, render.Point, []render.GradStop) {}
func (s *stubTarget) RadialGradient(render.Point, float64, []render.GradStop)                   {}

func (s *stubTarget) Text(t string, _ render.Point, _ render.TextStyle) {
	s.texts = append(s.texts, t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ohmDef is a minimal analytic sample: i = v/r, failing above a ceiling
// voltage so stall behavior can be exercised.
func ohmDef(computeCount *int) *sample.Def {
	return &sample.Def{
		Name:  "ohm",
		Title: "Ohm's law",
		Params: []param.Parameter{
			{Key: "v", Label: "Voltage", Value: 10, Min: 0, Max: 100, Format: param.Fixed(1, "V")},
			{Key: "r", Label: "Resistance", Value: 5, Min: 1, Max: 50, Format: param.Fixed(1, "Ω")},
		},
		Model: model.Def{
			Kind: model.Analytic,
			Compute: func(p param.Snapshot, s *model.State) (*model.Outputs, error) {
				if computeCount != nil {
					*computeCount++
				}
				if p.Get("v") > 50 {
					return nil, fmt.Errorf("%w: voltage beyond rated range", model.ErrModelUndefined)
				}
				out := model.NewOutputs()
				out.Set("i", p.Get("v")/p.Get("r"), param.Fixed(2, "A"))
				return out, nil
			},
		},
		Views: []sample.View{{
			Kind:   "readout",
			Target: "main",
			Readout: &render.ReadoutConfig{
				Rows: []render.Row{{Key: "i", Label: "Current"}},
			},
		}},
		Bindings: []sample.Binding{
			{Control: "v-slider", Param: "v", Map: "linear"},
		},
	}
}

type driftData struct {
	x        float64
	advances int
	lastDt   float64
}

// driftDef is a minimal dynamic sample: position integrates rate, and
// the step-count parameter is a reset key.
func driftDef() *sample.Def {
	return &sample.Def{
		Name: "drift",
		Params: []param.Parameter{
			{Key: "rate", Label: "Rate", Value: 2, Min: 0, Max: 10, Format: param.Fixed(1, "m/s")},
			{Key: "n", Label: "Walkers", Value: 3, Min: 1, Max: 10, Step: 1, Reset: true, Format: param.Fixed(0, "")},
		},
		Model: model.Def{
			Kind: model.Dynamic,
			Reset: func(p param.Snapshot, seed int64) *model.State {
				s := model.NewState(seed)
				s.Data = &driftData{}
				return s
			},
			Advance: func(s *model.State, p param.Snapshot, dt float64) {
				d := s.Data.(*driftData)
				d.x += p.Get("rate") * dt
				d.advances++
				d.lastDt = dt
			},
			Compute: func(p param.Snapshot, s *model.State) (*model.Outputs, error) {
				d := s.Data.(*driftData)
				out := model.NewOutputs()
				out.Set("x", d.x, param.Fixed(3, "m"))
				return out, nil
			},
		},
		Views: []sample.View{{
			Kind:   "readout",
			Target: "main",
			Readout: &render.ReadoutConfig{
				Rows: []render.Row{{Key: "x", Label: "Position"}},
			},
		}},
	}
}

var _ = Describe("Harness", func() {
	resolver := func(targets map[string]*stubTarget) sample.TargetResolver {
		return func(id string) (render.Target, error) {
			t, ok := targets[id]
			if !ok {
				return nil, fmt.Errorf("no surface %q", id)
			}
			return t, nil
		}
	}

	Describe("analytic lifecycle", func() {
		var (
			h       *sample.Harness
			count   int
			targets map[string]*stubTarget
		)

		BeforeEach(func() {
			count = 0
			targets = map[string]*stubTarget{"main": {w: 200, h: 150}}
			var err error
			h, err = sample.New(ohmDef(&count), sample.WithLogger(quietLogger()))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.AttachTargets(resolver(targets))).To(Succeed())
		})

		It("computes initial outputs at construction", func() {
			Expect(count).To(Equal(1))
			i, ok := h.Outputs().Get("i")
			Expect(ok).To(BeTrue())
			Expect(i).To(BeNumerically("~", 2.0, 1e-12))
		})

		It("walks idle, running, paused and reset-pending", func() {
			Expect(h.Status()).To(Equal(sample.StatusIdle))

			h.Play()
			Expect(h.Status()).To(Equal(sample.StatusRunning))

			h.Pause()
			Expect(h.Status()).To(Equal(sample.StatusPaused))

			h.Reset()
			Expect(h.Status()).To(Equal(sample.StatusResetPending))

			h.Scheduler().Tick()
			Expect(h.Status()).To(Equal(sample.StatusRunning))
		})

		It("coalesces parameter writes into one recompute per tick", func() {
			h.Set("v", 20)
			h.Set("v", 30)
			h.Set("r", 10)
			h.Scheduler().Step(0.016)

			Expect(count).To(Equal(2))
			i, _ := h.Outputs().Get("i")
			Expect(i).To(BeNumerically("~", 3.0, 1e-12))
		})

		It("skips recompute on clean ticks", func() {
			h.Scheduler().Step(0.016)
			h.Scheduler().Step(0.016)
			Expect(count).To(Equal(1))
		})

		It("treats a same-value write as clean", func() {
			h.Set("v", 10)
			h.Scheduler().Step(0.016)
			Expect(count).To(Equal(1))
		})

		It("stalls on compute failure and keeps the last valid outputs", func() {
			h.Set("v", 80)
			h.Scheduler().Step(0.016)

			Expect(h.Status()).To(Equal(sample.StatusStalled))
			i, ok := h.Outputs().Get("i")
			Expect(ok).To(BeTrue())
			Expect(i).To(BeNumerically("~", 2.0, 1e-12), "outputs must stay at the last valid value")

			h.Set("v", 20)
			h.Scheduler().Step(0.016)
			Expect(h.Status()).To(Equal(sample.StatusRunning))
			i, _ = h.Outputs().Get("i")
			Expect(i).To(BeNumerically("~", 4.0, 1e-12))
		})

		It("routes control changes through their binding", func() {
			Expect(h.ApplyControl("v-slider", 25)).To(Succeed())
			h.Scheduler().Step(0.016)

			v, err := h.Store().Get("v")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeNumerically("~", 25, 1e-12))

			err = h.ApplyControl("missing", 1)
			Expect(err).To(MatchError(sample.ErrConfig))
		})
	})

	Describe("dynamic lifecycle", func() {
		var (
			h       *sample.Harness
			targets map[string]*stubTarget
		)

		BeforeEach(func() {
			targets = map[string]*stubTarget{"main": {w: 200, h: 150}}
			var err error
			h, err = sample.New(driftDef(), sample.WithLogger(quietLogger()))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.AttachTargets(resolver(targets))).To(Succeed())
		})

		It("advances by the speed-scaled dt", func() {
			h.Scheduler().SetSpeed(2)
			h.Scheduler().Step(0.05)

			d := h.State().Data.(*driftData)
			Expect(d.lastDt).To(BeNumerically("~", 0.1, 1e-12))
			Expect(d.x).To(BeNumerically("~", 0.2, 1e-12))
		})

		It("accumulates simulated time on the state", func() {
			h.Scheduler().Step(0.05)
			h.Scheduler().Step(0.05)
			Expect(h.State().T).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("resets when a reset key changes and still advances that tick", func() {
			for i := 0; i < 5; i++ {
				h.Scheduler().Step(0.1)
			}
			before := h.State().Data.(*driftData)
			Expect(before.advances).To(Equal(5))

			h.Set("n", 7)
			h.Scheduler().Step(0.1)

			after := h.State().Data.(*driftData)
			Expect(after).NotTo(BeIdenticalTo(before))
			Expect(after.advances).To(Equal(1))
			Expect(after.x).To(BeNumerically("~", 0.2, 1e-12))
		})

		It("does not reset on non-reset-key changes", func() {
			h.Scheduler().Step(0.1)
			before := h.State().Data.(*driftData)

			h.Set("rate", 5)
			h.Scheduler().Step(0.1)

			Expect(h.State().Data.(*driftData)).To(BeIdenticalTo(before))
			Expect(before.advances).To(Equal(2))
		})

		It("resets from a user request on the next tick", func() {
			h.Scheduler().Step(0.1)
			h.Scheduler().Step(0.1)
			Expect(h.State().Data.(*driftData).advances).To(Equal(2))

			h.Reset()
			Expect(h.Status()).To(Equal(sample.StatusResetPending))
			h.Scheduler().Tick()

			Expect(h.Status()).To(Equal(sample.StatusRunning))
			Expect(h.State().Data.(*driftData).advances).To(Equal(1))
		})
	})

	Describe("renderer failure", func() {
		It("recovers a panicking renderer, paints a placeholder once and keeps the rest alive", func() {
			def := driftDef()
			def.Views = []sample.View{
				{
					Kind:   "diagram",
					Target: "schematic",
					Diagram: &render.DiagramConfig{
						Build: func(f *render.Frame, size render.Point, s *render.Scene) {
							panic("bad geometry")
						},
					},
				},
				{
					Kind:   "readout",
					Target: "numbers",
					Readout: &render.ReadoutConfig{
						Rows: []render.Row{{Key: "x", Label: "Position"}},
					},
				},
			}
			targets := map[string]*stubTarget{
				"schematic": {w: 200, h: 150},
				"numbers":   {w: 200, h: 150},
			}
			h, err := sample.New(def, sample.WithLogger(quietLogger()))
			Expect(err).NotTo(HaveOccurred())
			Expect(h.AttachTargets(resolver(targets))).To(Succeed())

			h.Scheduler().Step(0.016)
			Expect(targets["schematic"].texts).To(ContainElement("renderer failed"))
			Expect(targets["numbers"].texts).NotTo(BeEmpty(), "later renderers still paint")

			placeholderDraws := len(targets["schematic"].texts)
			h.Scheduler().Step(0.016)
			Expect(targets["schematic"].texts).To(HaveLen(placeholderDraws), "failed renderer is skipped afterwards")
		})
	})

	Describe("declaration wiring", func() {
		It("rejects unresolvable targets", func() {
			h, err := sample.New(ohmDef(nil), sample.WithLogger(quietLogger()))
			Expect(err).NotTo(HaveOccurred())

			err = h.AttachTargets(func(id string) (render.Target, error) {
				return nil, fmt.Errorf("no such surface")
			})
			Expect(err).To(MatchError(sample.ErrConfig))
		})

		It("rejects infeasible ordering groups at construction", func() {
			def := ohmDef(nil)
			def.Ordering = [][]string{{"v", "missing"}}
			_, err := sample.New(def, sample.WithLogger(quietLogger()))
			Expect(err).To(MatchError(sample.ErrConfig))
		})
	})
})
