package samples

import (
	"math"
	"math/rand"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/numeric"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

var diffusionBox = model.Rect{X: 0, Y: 0, W: 100, H: 100}

// Diffusion releases Brownian walkers from the box center and tracks
// the measured mean squared displacement against the free-space 4Dt
// line. Once the cloud feels the walls the two curves part ways, which
// is the point of the sample.
func Diffusion() *sample.Def {
	return &sample.Def{
		Name:  "diffusion",
		Title: "Brownian diffusion",
		Seed:  42,
		Params: []param.Parameter{
			{Key: "n", Label: "Walkers", Value: 120, Min: 10, Max: 300, Step: 1, Format: param.Fixed(0, "")},
			{Key: "diff", Label: "Diffusion coefficient", Value: 4, Min: 0.1, Max: 20, Step: 0.1, Format: param.Fixed(1, "m²/s")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   diffusionReset,
			Advance: diffusionAdvance,
			Compute: diffusionCompute,
		},
		Views: []sample.View{
			{Kind: "particles", Target: "cloud", Particles: &render.ParticlesConfig{
				System:  func(f *render.Frame) *model.ParticleSystem { return f.State.Particles },
				World:   diffusionBox,
				Outline: true,
				Walls: []model.Segment{
					{A: model.Point{X: 0, Y: 0}, B: model.Point{X: 100, Y: 0}},
					{A: model.Point{X: 100, Y: 0}, B: model.Point{X: 100, Y: 100}},
					{A: model.Point{X: 100, Y: 100}, B: model.Point{X: 0, Y: 100}},
					{A: model.Point{X: 0, Y: 100}, B: model.Point{X: 0, Y: 0}},
				},
			}},
			{Kind: "timeseries", Target: "msd", TimeSeries: &render.TimeSeriesConfig{
				History: func(f *render.Frame) *model.History { return f.State.Hist },
				Cols:    []string{"msd", "theory"},
				Strokes: []render.Stroke{
					{Color: render.DefaultPalette.Accent, Width: 2},
					{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}},
				},
				Title:   "Mean squared displacement",
				YFormat: param.Fixed(0, ""),
				Window:  30,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Census",
				Rows: []render.Row{
					{Key: "msd", Label: "Measured MSD"},
					{Key: "theory", Label: "Free-space 4Dt"},
					{Key: "count", Label: "Walkers"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "n-slider", Param: "n"},
			{Control: "diff-slider", Param: "diff"},
		},
	}
}

func diffusionReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	center := diffusionBox.Center()
	spawn := func(rng *rand.Rand, mask model.Rect) model.Particle {
		pos := model.Point{
			X: center.X + 3*numeric.Normal(rng),
			Y: center.Y + 3*numeric.Normal(rng),
		}
		return model.Particle{Pos: mask.Clamp(pos), Size: 1}
	}
	s.Particles = model.NewParticleSystem(s.RNG, diffusionBox, spawn)
	s.Particles.SetTarget(int(p.Get("n")))
	s.Hist = model.NewHistory(1024, "msd", "theory")
	return s
}

func diffusionAdvance(s *model.State, p param.Snapshot, dt float64) {
	ps := s.Particles
	ps.SetTarget(int(p.Get("n")))
	ps.Tick()

	d := p.Get("diff")
	step := math.Sqrt(2 * d * dt)
	mask := ps.Mask()
	for i := range ps.Particles {
		pt := &ps.Particles[i]
		pt.Pos.X = reflect1D(pt.Pos.X+step*numeric.Normal(s.RNG), mask.X, mask.X+mask.W)
		pt.Pos.Y = reflect1D(pt.Pos.Y+step*numeric.Normal(s.RNG), mask.Y, mask.Y+mask.H)
	}

	t := s.T + dt
	s.Hist.Push(t, measuredMSD(ps), 4*d*t)
}

// reflect1D mirrors v back into [lo, hi].
func reflect1D(v, lo, hi float64) float64 {
	if v < lo {
		v = 2*lo - v
	}
	if v > hi {
		v = 2*hi - v
	}
	if v < lo || v > hi {
		// a step longer than the box lands on the nearer wall
		return math.Max(lo, math.Min(hi, v))
	}
	return v
}

func measuredMSD(ps *model.ParticleSystem) float64 {
	if ps.Len() == 0 {
		return 0
	}
	center := ps.Mask().Center()
	var r model.Running
	for _, pt := range ps.Particles {
		dx := pt.Pos.X - center.X
		dy := pt.Pos.Y - center.Y
		r.Observe(dx*dx + dy*dy)
	}
	return r.Mean()
}

func diffusionCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	out := model.NewOutputs()
	out.Set("msd", measuredMSD(s.Particles), param.Fixed(1, ""))
	out.Set("theory", 4*p.Get("diff")*s.T, param.Fixed(1, ""))
	out.Set("count", float64(s.Particles.Len()), param.Fixed(0, ""))
	return out, nil
}
