package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// Queue is the M/M/c queue in steady state. At or past the stability
// boundary rho >= 1 the queue length diverges: the outputs go to
// infinity and the unstable chip shows instead of silently wrong
// numbers.
func Queue() *sample.Def {
	return &sample.Def{
		Name:  "queue",
		Title: "M/M/c queue",
		Params: []param.Parameter{
			{Key: "lambda", Label: "Arrival rate", Value: 5, Min: 0.1, Max: 20, Step: 0.1, Format: param.Fixed(1, "/s")},
			{Key: "mu", Label: "Service rate", Value: 2, Min: 0.1, Max: 10, Step: 0.1, Format: param.Fixed(1, "/s")},
			{Key: "c", Label: "Servers", Value: 2, Min: 1, Max: 10, Step: 1, Format: param.Fixed(0, "")},
		},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "steady state, Poisson arrivals",
			Compute: queueCompute,
		},
		Views: []sample.View{
			{Kind: "plot", Target: "wait-curve", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 0.1, XMax: 20, YMin: 1e-3, YMax: 1e3, LogY: true},
				Title:   "Mean wait vs arrival rate",
				XLabel:  "λ",
				YLabel:  "W_q",
				XFormat: param.Fixed(0, "/s"),
				YFormat: param.SI(0, "s"),
				Series: []render.Series{
					{Name: "wq", Fn: func(x float64, f *render.Frame) float64 {
						wq, ok := meanWait(x, f.Params.Get("mu"), int(f.Params.Get("c")))
						if !ok {
							return math.NaN()
						}
						return wq
					}, Samples: 400},
				},
				Op: &render.OpPoint{
					At: func(f *render.Frame) (render.Point, bool) {
						wq := f.Outputs.Value("wq")
						if math.IsInf(wq, 0) {
							return render.Point{}, false
						}
						return render.Point{X: f.Params.Get("lambda"), Y: wq}, true
					},
					DropLine: true,
				},
			}},
			{Kind: "diagram", Target: "stations", Diagram: &render.DiagramConfig{
				Uses:  []string{"vessel", "mass", "wire"},
				Build: queueScene,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Steady state",
				Rows: []render.Row{
					{Key: "rho", Label: "Utilization"},
					{Key: "pwait", Label: "P(wait)"},
					{Key: "lq", Label: "Queue length"},
					{Key: "wq", Label: "Queue wait"},
					{Key: "l", Label: "In system"},
					{Key: "w", Label: "Time in system"},
				},
				Chips: map[string]render.Chip{
					"unstable": {Text: "ρ ≥ 1 unstable", Fg: render.Color{R: 255, G: 255, B: 255, A: 255}, Bg: render.DefaultPalette.Error},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "lambda-slider", Param: "lambda"},
			{Control: "mu-slider", Param: "mu"},
			{Control: "c-slider", Param: "c"},
		},
		Presets: map[string]map[string]float64{
			"stable":     {"lambda": 5, "mu": 2, "c": 3},
			"overloaded": {"lambda": 5, "mu": 2, "c": 2},
		},
	}
}

func queueCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	lambda := p.Get("lambda")
	mu := p.Get("mu")
	c := int(p.Get("c"))

	a := lambda / mu
	rho := a / float64(c)

	out := model.NewOutputs()
	out.Set("rho", rho, param.Fixed(3, ""))

	if rho >= 1 {
		inf := math.Inf(1)
		out.Set("pwait", 1, param.Fixed(3, ""))
		out.Set("lq", inf, param.Fixed(2, ""))
		out.Set("wq", inf, param.Fixed(2, "s"))
		out.Set("l", inf, param.Fixed(2, ""))
		out.Set("w", inf, param.Fixed(2, "s"))
		out.Status = "unstable"
		return out, nil
	}

	pwait := erlangC(a, c)
	lq := pwait * rho / (1 - rho)
	wq := lq / lambda
	out.Set("pwait", pwait, param.Fixed(3, ""))
	out.Set("lq", lq, param.Fixed(3, ""))
	out.Set("wq", wq, param.Fixed(3, "s"))
	out.Set("l", lq+a, param.Fixed(3, ""))
	out.Set("w", wq+1/mu, param.Fixed(3, "s"))
	return out, nil
}

// erlangC returns the probability an arrival waits, for offered load a
// over c servers with a < c. The sum accumulates a^k/k! with a running
// product so no factorial overflows.
func erlangC(a float64, c int) float64 {
	term := 1.0
	sum := 1.0
	for k := 1; k < c; k++ {
		term *= a / float64(k)
		sum += term
	}
	top := term * a / float64(c) / (1 - a/float64(c))
	return top / (sum + top)
}

// meanWait returns W_q for arrival rate lambda, or ok = false past the
// stability boundary.
func meanWait(lambda, mu float64, c int) (float64, bool) {
	a := lambda / mu
	rho := a / float64(c)
	if rho >= 1 {
		return 0, false
	}
	pwait := erlangC(a, c)
	lq := pwait * rho / (1 - rho)
	return lq / lambda, true
}

func queueScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	c := int(f.Params.Get("c"))
	rho := f.Outputs.Value("rho")

	// waiting line on the left, server circles stacked on the right
	box := render.Rect{X: 0.08 * w, Y: 0.40 * h, W: 0.40 * w, H: 0.20 * h}
	s.Add(render.Component{Kind: "vessel", Pts: []render.Point{{X: box.X, Y: box.Y}, {X: box.X + box.W, Y: box.Y + box.H}}})

	sx := 0.72 * w
	gap := h / float64(c+1)
	for i := 0; i < c; i++ {
		sy := gap * float64(i+1)
		s.Add(render.Component{
			Kind: "mass",
			Pts:  []render.Point{{X: sx, Y: sy}},
			W:    0.05 * math.Min(w, h),
			Map:  render.Density(),
			Hue:  math.Min(rho, 1),
		})
		s.Add(render.Component{Kind: "wire", Pts: []render.Point{{X: box.X + box.W, Y: box.Y + box.H/2}, {X: sx, Y: sy}}})
	}

	s.Flow(render.Flow{
		ID:      "arrivals",
		Path:    []render.Point{{X: 0, Y: box.Y + box.H/2}, {X: box.X + box.W, Y: box.Y + box.H/2}},
		Speed:   6 * f.Params.Get("lambda"),
		Spacing: 22,
	})
	s.Note("arrivals", render.Point{X: 0.04 * w, Y: box.Y - 10}, render.TextStyle{Color: render.DefaultPalette.Muted})
	s.Note("servers", render.Point{X: sx, Y: gap - 18}, render.TextStyle{
		Align: render.AlignCenter, Color: render.DefaultPalette.Muted,
	})
}
