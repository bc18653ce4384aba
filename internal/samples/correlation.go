package samples

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/numeric"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

type corrData struct {
	xs, ys []float64
	acc    float64
}

// Correlation draws a bivariate Gaussian cloud with a chosen population
// correlation and fits it live. The churn rate resamples a few points
// per second so the sample statistics visibly wander around the
// population values.
func Correlation() *sample.Def {
	return &sample.Def{
		Name:  "correlation",
		Title: "Sample correlation",
		Seed:  99,
		Params: []param.Parameter{
			{Key: "n", Label: "Points", Value: 100, Min: 10, Max: 500, Step: 10, Reset: true, Format: param.Fixed(0, "")},
			{Key: "rho", Label: "Population ρ", Value: 0.7, Min: -1, Max: 1, Step: 0.01, Reset: true, Format: param.Fixed(2, "")},
			{Key: "churn", Label: "Resampled points", Value: 10, Min: 0, Max: 60, Step: 1, Format: param.Fixed(0, "/s")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   corrReset,
			Advance: corrAdvance,
			Compute: corrCompute,
		},
		Views: []sample.View{
			{Kind: "plot", Target: "scatter", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: -4, XMax: 4, YMin: -4, YMax: 4},
				Title:   "Scatter",
				XFormat: param.Fixed(0, ""),
				YFormat: param.Fixed(0, ""),
				Series: []render.Series{
					{Name: "points", Markers: true,
						Stroke: render.Stroke{Color: render.DefaultPalette.Accent},
						Pts: func(f *render.Frame) []render.Point {
							d := f.State.Data.(*corrData)
							pts := make([]render.Point, len(d.xs))
							for i := range d.xs {
								pts[i] = render.Point{X: d.xs[i], Y: d.ys[i]}
							}
							return pts
						}},
					{Name: "fit", Fn: func(x float64, f *render.Frame) float64 {
						return f.Outputs.Value("intercept") + f.Outputs.Value("slope")*x
					}, Samples: 2, Stroke: render.Stroke{Color: render.DefaultPalette.Warning, Width: 1.5}},
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Fit",
				Rows: []render.Row{
					{Key: "r", Label: "Sample r"},
					{Key: "r2", Label: "R²"},
					{Key: "slope", Label: "Slope"},
					{Key: "intercept", Label: "Intercept"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "n-slider", Param: "n"},
			{Control: "rho-slider", Param: "rho"},
			{Control: "churn-slider", Param: "churn"},
		},
		Presets: map[string]map[string]float64{
			"tight":   {"rho": 0.95, "n": 200},
			"inverse": {"rho": -0.8, "n": 150},
			"none":    {"rho": 0, "n": 150},
		},
	}
}

func corrDraw(d *corrData, s *model.State, rho float64, i int) {
	x := numeric.Normal(s.RNG)
	d.xs[i] = x
	d.ys[i] = rho*x + math.Sqrt(1-rho*rho)*numeric.Normal(s.RNG)
}

func corrReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	n := int(p.Get("n"))
	d := &corrData{xs: make([]float64, n), ys: make([]float64, n)}
	rho := p.Get("rho")
	for i := range d.xs {
		corrDraw(d, s, rho, i)
	}
	s.Data = d
	return s
}

func corrAdvance(s *model.State, p param.Snapshot, dt float64) {
	d := s.Data.(*corrData)
	d.acc += p.Get("churn") * dt
	rho := p.Get("rho")
	for d.acc >= 1 && len(d.xs) > 0 {
		d.acc--
		corrDraw(d, s, rho, s.RNG.Intn(len(d.xs)))
	}
}

func corrCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	d := s.Data.(*corrData)
	r := stat.Correlation(d.xs, d.ys, nil)
	intercept, slope := stat.LinearRegression(d.xs, d.ys, nil, false)

	out := model.NewOutputs()
	out.Set("r", r, param.Fixed(3, ""))
	out.Set("r2", r*r, param.Fixed(3, ""))
	out.Set("slope", slope, param.Fixed(3, ""))
	out.Set("intercept", intercept, param.Fixed(3, ""))
	return out, nil
}
