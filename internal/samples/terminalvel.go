package samples

import (
	"math"
	"math/rand"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

var terminalBox = model.Rect{X: 0, Y: 0, W: 100, H: 100}

const terminalTarget = 60

// TerminalVelocity drops spheres with linear drag: v' = g - (b/m) v.
// Each sphere wraps back to the top on exit, so the acceleration phase
// replays continuously; color tracks speed relative to v_t.
func TerminalVelocity() *sample.Def {
	return &sample.Def{
		Name:  "terminalvel",
		Title: "Terminal velocity",
		Seed:  3,
		Params: []param.Parameter{
			{Key: "m", Label: "Mass", Value: 1, Min: 0.1, Max: 10, Step: 0.1, Format: param.Fixed(1, "kg")},
			{Key: "b", Label: "Drag coefficient", Value: 2, Min: 0.1, Max: 20, Step: 0.1, Format: param.Fixed(1, "kg/s")},
			{Key: "g", Label: "Gravity", Value: 9.81, Min: 1, Max: 25, Step: 0.01, Format: param.Fixed(2, "m/s²")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   terminalReset,
			Advance: terminalAdvance,
			Compute: terminalCompute,
		},
		Views: []sample.View{
			{Kind: "particles", Target: "chamber", Particles: &render.ParticlesConfig{
				System: func(f *render.Frame) *model.ParticleSystem { return f.State.Particles },
				World:  terminalBox,
				ColorFor: func(f *render.Frame, pt model.Particle) render.Color {
					vt := f.Outputs.Value("vt")
					return render.Thermal().At(pt.Vel.Y / vt)
				},
			}},
			{Kind: "timeseries", Target: "approach", TimeSeries: &render.TimeSeriesConfig{
				History: func(f *render.Frame) *model.History { return f.State.Hist },
				Cols:    []string{"v", "vt"},
				Strokes: []render.Stroke{
					{Color: render.DefaultPalette.Accent, Width: 2},
					{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}},
				},
				Title:   "Tracked sphere speed",
				YFormat: param.Fixed(1, "m/s"),
				Window:  12,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Drag",
				Rows: []render.Row{
					{Key: "vt", Label: "Terminal velocity"},
					{Key: "tau", Label: "Time constant"},
					{Key: "t95", Label: "Time to 95%"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "m-slider", Param: "m"},
			{Control: "b-slider", Param: "b"},
			{Control: "g-slider", Param: "g"},
		},
		Presets: map[string]map[string]float64{
			"feather": {"m": 0.2, "b": 8},
			"stone":   {"m": 8, "b": 0.5},
		},
	}
}

func terminalReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	spawn := func(rng *rand.Rand, mask model.Rect) model.Particle {
		return model.Particle{
			Pos:  model.Point{X: mask.X + rng.Float64()*mask.W, Y: mask.Y + rng.Float64()*5},
			Size: 1.2,
		}
	}
	s.Particles = model.NewParticleSystem(s.RNG, terminalBox, spawn)
	s.Particles.SetTarget(terminalTarget)
	s.Hist = model.NewHistory(1024, "v", "vt")
	return s
}

func terminalAdvance(s *model.State, p param.Snapshot, dt float64) {
	ps := s.Particles
	ps.Tick()

	m := p.Get("m")
	b := p.Get("b")
	g := p.Get("g")
	mask := ps.Mask()
	for i := range ps.Particles {
		pt := &ps.Particles[i]
		pt.Vel.Y += (g - pt.Vel.Y*b/m) * dt
		pt.Pos.Y += pt.Vel.Y * dt
		if pt.Pos.Y > mask.Y+mask.H {
			pt.Pos.Y = mask.Y
			pt.Vel.Y = 0
		}
	}

	if ps.Len() > 0 {
		s.Hist.Push(s.T+dt, ps.Particles[0].Vel.Y, m*g/b)
	}
}

func terminalCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	m := p.Get("m")
	b := p.Get("b")
	g := p.Get("g")
	tau := m / b

	out := model.NewOutputs()
	out.Set("vt", m*g/b, param.Fixed(2, "m/s"))
	out.Set("tau", tau, param.Fixed(2, "s"))
	out.Set("t95", tau*math.Log(20), param.Fixed(2, "s"))
	return out, nil
}
