package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

type logisticData struct {
	n float64
}

// Logistic integrates dN/dt = r N (1 - N/K). Growth rate and capacity
// move live; the initial population is a reset key.
func Logistic() *sample.Def {
	return &sample.Def{
		Name:  "logistic",
		Title: "Logistic growth",
		Params: []param.Parameter{
			{Key: "r", Label: "Growth rate", Value: 0.8, Min: 0.05, Max: 3, Step: 0.01, Format: param.Fixed(2, "/s")},
			{Key: "k", Label: "Carrying capacity", Value: 500, Min: 10, Max: 1000, Step: 10, Format: param.Fixed(0, "")},
			{Key: "n0", Label: "Initial population", Value: 10, Min: 1, Max: 500, Step: 1, Reset: true, Format: param.Fixed(0, "")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   logisticReset,
			Advance: logisticAdvance,
			Compute: logisticCompute,
		},
		Views: []sample.View{
			{Kind: "timeseries", Target: "population", TimeSeries: &render.TimeSeriesConfig{
				History: func(f *render.Frame) *model.History { return f.State.Hist },
				Cols:    []string{"n", "k"},
				Strokes: []render.Stroke{
					{Color: render.DefaultPalette.Accent, Width: 2},
					{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{5, 4}},
				},
				Title:   "Population",
				YFormat: param.Fixed(0, ""),
				Window:  30,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Growth",
				Rows: []render.Row{
					{Key: "n", Label: "Population"},
					{Key: "growth", Label: "Current growth"},
					{Key: "tdouble", Label: "Doubling time"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "r-slider", Param: "r"},
			{Control: "k-slider", Param: "k"},
			{Control: "n0-slider", Param: "n0"},
		},
		Presets: map[string]map[string]float64{
			"explosive": {"r": 2.5, "n0": 5},
			"slow":      {"r": 0.2, "n0": 50},
		},
	}
}

func logisticReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	s.Hist = model.NewHistory(2048, "n", "k")
	s.Data = &logisticData{n: p.Get("n0")}
	return s
}

func logisticAdvance(s *model.State, p param.Snapshot, dt float64) {
	d := s.Data.(*logisticData)
	r := p.Get("r")
	k := p.Get("k")
	deriv := func(n float64) float64 { return r * n * (1 - n/k) }

	k1 := deriv(d.n)
	k2 := deriv(d.n + dt/2*k1)
	k3 := deriv(d.n + dt/2*k2)
	k4 := deriv(d.n + dt*k3)
	d.n += dt / 6 * (k1 + 2*k2 + 2*k3 + k4)

	s.Hist.Push(s.T+dt, d.n, k)
}

func logisticCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	d := s.Data.(*logisticData)
	r := p.Get("r")
	k := p.Get("k")

	out := model.NewOutputs()
	out.Set("n", d.n, param.Fixed(1, ""))
	out.Set("growth", r*d.n*(1-d.n/k), param.Fixed(2, "/s"))
	out.Set("tdouble", math.Ln2/r, param.Fixed(2, "s"))
	return out, nil
}
