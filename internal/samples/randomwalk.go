package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/numeric"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

type walkData struct {
	x, y  float64
	steps int
	acc   float64
}

// RandomWalk is the 2D Gaussian walk against its theoretical RMS
// radius. Changing the step length restarts the walk; the step rate can
// change live.
func RandomWalk() *sample.Def {
	return &sample.Def{
		Name:  "randomwalk",
		Title: "Random walk",
		Seed:  7,
		Params: []param.Parameter{
			{Key: "rate", Label: "Steps per second", Value: 60, Min: 1, Max: 120, Step: 1, Format: param.Fixed(0, "/s")},
			{Key: "steplen", Label: "Step length", Value: 1, Min: 0.1, Max: 5, Step: 0.1, Reset: true, Format: param.Fixed(1, "")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   walkReset,
			Advance: walkAdvance,
			Compute: walkCompute,
		},
		Views: []sample.View{
			{Kind: "timeseries", Target: "walk", TimeSeries: &render.TimeSeriesConfig{
				History: func(f *render.Frame) *model.History { return f.State.Hist },
				Cols:    []string{"x", "y"},
				Title:   "Path",
				Walk:    true,
				RMS: func(f *render.Frame) float64 {
					return f.Outputs.Value("rms")
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Walk",
				Rows: []render.Row{
					{Key: "r", Label: "Distance from origin"},
					{Key: "rms", Label: "Expected RMS"},
					{Key: "steps", Label: "Steps"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "rate-slider", Param: "rate"},
			{Control: "steplen-slider", Param: "steplen"},
		},
	}
}

func walkReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	s.Hist = model.NewHistory(2048, "x", "y")
	s.Hist.Push(0, 0, 0)
	s.Data = &walkData{}
	return s
}

func walkAdvance(s *model.State, p param.Snapshot, dt float64) {
	d := s.Data.(*walkData)
	steplen := p.Get("steplen")

	d.acc += p.Get("rate") * dt
	for d.acc >= 1 {
		d.acc--
		d.x += steplen * numeric.Normal(s.RNG)
		d.y += steplen * numeric.Normal(s.RNG)
		d.steps++
		s.Hist.Push(s.T, d.x, d.y)
	}
}

func walkCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	d := s.Data.(*walkData)
	out := model.NewOutputs()
	out.Set("r", math.Hypot(d.x, d.y), param.Fixed(2, ""))
	out.Set("rms", p.Get("steplen")*math.Sqrt(2*float64(d.steps)), param.Fixed(2, ""))
	out.Set("steps", float64(d.steps), param.Fixed(0, ""))
	return out, nil
}
