package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// LMTD is heat-exchanger duty from the log-mean temperature difference.
// The log formula is singular at equal end differences; that limit is
// the difference itself, not an error.
func LMTD() *sample.Def {
	return &sample.Def{
		Name:  "lmtd",
		Title: "Heat exchanger duty",
		Params: []param.Parameter{
			{Key: "u", Label: "Heat transfer coefficient", Value: 800, Min: 50, Max: 2000, Step: 10, Format: param.Fixed(0, "W/m²K")},
			{Key: "area", Label: "Exchange area", Value: 50, Min: 1, Max: 200, Step: 1, Format: param.Fixed(0, "m²")},
			{Key: "dt1", Label: "Inlet ΔT", Value: 60, Min: 1, Max: 200, Step: 1, Format: param.Fixed(1, "K")},
			{Key: "dt2", Label: "Outlet ΔT", Value: 60, Min: 1, Max: 200, Step: 1, Format: param.Fixed(1, "K")},
		},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "steady state, constant U",
			Compute: lmtdCompute,
		},
		Views: []sample.View{
			{Kind: "diagram", Target: "exchanger", Diagram: &render.DiagramConfig{
				Uses:  []string{"vessel", "pipe-segment"},
				Build: lmtdScene,
			}},
			{Kind: "plot", Target: "profile", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 0, XMax: 1},
				AutoY:   true,
				Title:   "Temperature difference along the exchanger",
				XLabel:  "position",
				YLabel:  "ΔT",
				XFormat: param.Fixed(1, ""),
				YFormat: param.Fixed(0, "K"),
				Series: []render.Series{
					{Name: "ΔT", Fn: func(x float64, f *render.Frame) float64 {
						dt1 := f.Params.Get("dt1")
						dt2 := f.Params.Get("dt2")
						return dt1 * math.Pow(dt2/dt1, x)
					}},
					{Name: "LMTD", Fn: func(x float64, f *render.Frame) float64 {
						return f.Outputs.Value("lmtd")
					}, Stroke: render.Stroke{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}}},
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Duty",
				Rows: []render.Row{
					{Key: "lmtd", Label: "LMTD"},
					{Key: "q", Label: "Heat duty"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "u-slider", Param: "u"},
			{Control: "area-slider", Param: "area"},
			{Control: "dt1-slider", Param: "dt1"},
			{Control: "dt2-slider", Param: "dt2"},
		},
		Presets: map[string]map[string]float64{
			"balanced": {"dt1": 60, "dt2": 60},
			"skewed":   {"dt1": 80, "dt2": 40},
		},
	}
}

func lmtdCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	u := p.Get("u")
	area := p.Get("area")
	dt1 := p.Get("dt1")
	dt2 := p.Get("dt2")

	var lmtd float64
	if math.Abs(dt1-dt2) < 1e-9*math.Max(dt1, dt2) {
		lmtd = dt1
	} else {
		lmtd = (dt1 - dt2) / math.Log(dt1/dt2)
	}

	out := model.NewOutputs()
	out.Set("lmtd", lmtd, param.Fixed(2, "K"))
	out.Set("q", u*area*lmtd, param.SI(2, "W"))
	return out, nil
}

func lmtdScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	shell := render.Rect{X: 0.10 * w, Y: 0.30 * h, W: 0.80 * w, H: 0.40 * h}
	hotY := shell.Y + shell.H*0.32
	coldY := shell.Y + shell.H*0.68

	// hot stream cools along the shell; the cold side is held at a
	// reference by phase change, so only the hot band grades
	dt1 := f.Params.Get("dt1")
	dt2 := f.Params.Get("dt2")
	norm := func(dt float64) float64 { return math.Min(1, (100+dt)/300) }
	s.Band(render.Band{
		Rect: render.Rect{X: shell.X, Y: hotY - 10, W: shell.W, H: 20},
		Map:  render.Thermal(),
		From: norm(dt1),
		To:   norm(dt2),
	})
	s.Band(render.Band{
		Rect: render.Rect{X: shell.X, Y: coldY - 10, W: shell.W, H: 20},
		Map:  render.Thermal(),
		From: norm(0),
		To:   norm(0),
	})

	s.Add(render.Component{Kind: "vessel", Pts: []render.Point{{X: shell.X, Y: shell.Y}, {X: shell.X + shell.W, Y: shell.Y + shell.H}}})
	s.Add(render.Component{Kind: "pipe-segment", Pts: []render.Point{{X: shell.X - 0.04*w, Y: hotY}, {X: shell.X + shell.W + 0.04*w, Y: hotY}}, W: 20})
	s.Add(render.Component{Kind: "pipe-segment", Pts: []render.Point{{X: shell.X - 0.04*w, Y: coldY}, {X: shell.X + shell.W + 0.04*w, Y: coldY}}, W: 20})

	s.Flow(render.Flow{
		ID:    "hot",
		Path:  []render.Point{{X: shell.X, Y: hotY}, {X: shell.X + shell.W, Y: hotY}},
		Speed: 40,
		Color: render.DefaultPalette.Error,
	})
	s.Flow(render.Flow{
		ID:    "cold",
		Path:  []render.Point{{X: shell.X, Y: coldY}, {X: shell.X + shell.W, Y: coldY}},
		Speed: -30,
		Color: render.DefaultPalette.Accent,
	})

	muted := render.TextStyle{Color: render.DefaultPalette.Muted}
	s.Note("hot in", render.Point{X: shell.X - 0.04*w, Y: hotY - 16}, muted)
	s.Note("cold out", render.Point{X: shell.X - 0.04*w, Y: coldY + 26}, muted)
	s.Note(f.Outputs.Display("q"), render.Point{X: shell.X + shell.W/2, Y: shell.Y - 12}, render.TextStyle{
		Align: render.AlignCenter, Color: render.DefaultPalette.Text,
	})
}
