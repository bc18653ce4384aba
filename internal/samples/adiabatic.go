package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// adiabaticTempSpan normalizes gas temperatures onto the thermal
// colormap; the range covers every reachable (T1, gamma, V2) combination.
const (
	adiabaticTempLo = 150.0
	adiabaticTempHi = 1500.0
)

// Adiabatic is a reversible adiabatic compression stroke: P V^gamma
// constant, the piston driven from V1 down to V2. The ordering group
// keeps V2 at or below V1 so the ghost piston always marks the start of
// the stroke.
func Adiabatic() *sample.Def {
	return &sample.Def{
		Name:  "adiabatic",
		Title: "Adiabatic compression",
		Params: []param.Parameter{
			{Key: "p1", Label: "Initial pressure", Value: 100e3, Min: 50e3, Max: 500e3, Step: 1e3, Format: param.SI(0, "Pa")},
			{Key: "v1", Label: "Initial volume", Value: 5, Min: 1, Max: 10, Step: 0.1, Format: param.Fixed(1, "m³")},
			{Key: "t1", Label: "Initial temperature", Value: 300, Min: 200, Max: 600, Step: 1, Format: param.Fixed(0, "K")},
			{Key: "gamma", Label: "Heat capacity ratio", Value: 1.4, Min: 1.1, Max: 1.67, Step: 0.01, Format: param.Fixed(2, "")},
			{Key: "v2", Label: "Final volume", Value: 2.5, Min: 0.5, Max: 10, Step: 0.1, Format: param.Fixed(1, "m³")},
		},
		Ordering: [][]string{{"v2", "v1"}},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "reversible, ideal gas",
			Compute: adiabaticCompute,
		},
		Views: []sample.View{
			{Kind: "diagram", Target: "apparatus", Diagram: &render.DiagramConfig{
				Uses:  []string{"vessel", "piston"},
				Build: adiabaticScene,
			}},
			{Kind: "plot", Target: "pv", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 0.5, XMax: 10},
				AutoY:   true,
				Title:   "Adiabat",
				XLabel:  "V",
				YLabel:  "P",
				XFormat: param.Fixed(1, "m³"),
				YFormat: param.SI(0, "Pa"),
				Series: []render.Series{
					{Name: "adiabat", Fn: func(x float64, f *render.Frame) float64 {
						p1 := f.Params.Get("p1")
						v1 := f.Params.Get("v1")
						gamma := f.Params.Get("gamma")
						return p1 * math.Pow(v1/x, gamma)
					}},
				},
				Op: &render.OpPoint{
					At: func(f *render.Frame) (render.Point, bool) {
						return render.Point{X: f.Params.Get("v2"), Y: f.Outputs.Value("p2")}, true
					},
					TieTo: func(f *render.Frame) (render.Point, bool) {
						return render.Point{X: f.Params.Get("v1"), Y: f.Params.Get("p1")}, true
					},
					DropLine: true,
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Final state",
				Rows: []render.Row{
					{Key: "p2", Label: "Pressure"},
					{Key: "t2", Label: "Temperature"},
					{Key: "w", Label: "Work by gas"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "p1-slider", Param: "p1"},
			{Control: "v1-slider", Param: "v1"},
			{Control: "t1-slider", Param: "t1"},
			{Control: "gamma-slider", Param: "gamma"},
			{Control: "v2-slider", Param: "v2"},
		},
		Presets: map[string]map[string]float64{
			"gentle": {"gamma": 1.2, "v2": 4},
			"harsh":  {"gamma": 1.67, "v2": 1},
		},
	}
}

func adiabaticCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	p1 := p.Get("p1")
	v1 := p.Get("v1")
	t1 := p.Get("t1")
	gamma := p.Get("gamma")
	v2 := p.Get("v2")

	ratio := v1 / v2
	p2 := p1 * math.Pow(ratio, gamma)
	t2 := t1 * math.Pow(ratio, gamma-1)
	w := (p1*v1 - p2*v2) / (gamma - 1)

	out := model.NewOutputs()
	out.Set("p2", p2, param.SI(1, "Pa"))
	out.Set("t2", t2, param.Fixed(1, "K"))
	out.Set("w", w, param.SI(2, "J"))
	return out, nil
}

func adiabaticScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	cyl := render.Rect{X: 0.10 * w, Y: 0.30 * h, W: 0.78 * w, H: 0.40 * h}

	// piston face positions scale with volume: full range maps onto the
	// cylinder length
	vMax := 10.0
	xAt := func(v float64) float64 { return cyl.X + cyl.W*(v/vMax) }
	x1 := xAt(f.Params.Get("v1"))
	x2 := xAt(f.Params.Get("v2"))

	t2 := f.Outputs.Value("t2")
	hue := (t2 - adiabaticTempLo) / (adiabaticTempHi - adiabaticTempLo)
	s.Band(render.Band{
		Rect: render.Rect{X: cyl.X, Y: cyl.Y, W: x2 - cyl.X, H: cyl.H},
		Map:  render.Thermal(),
		From: hue,
		To:   hue,
	})

	s.Add(render.Component{Kind: "vessel", Pts: []render.Point{{X: cyl.X, Y: cyl.Y}, {X: cyl.X + cyl.W, Y: cyl.Y + cyl.H}}})
	s.Add(render.Component{Kind: "piston", Pts: []render.Point{{X: x1, Y: cyl.Y + cyl.H/2}}, W: cyl.H - 6})
	s.Add(render.Component{Kind: "piston", Pts: []render.Point{{X: x2, Y: cyl.Y + cyl.H/2}}, W: cyl.H - 6, On: true})

	muted := render.TextStyle{Align: render.AlignCenter, Color: render.DefaultPalette.Muted}
	s.Note("V₁", render.Point{X: x1, Y: cyl.Y - 10}, muted)
	s.Note("V₂", render.Point{X: x2, Y: cyl.Y + cyl.H + 18}, muted)
	s.Note(f.Outputs.Display("t2"), render.Point{X: (cyl.X + x2) / 2, Y: cyl.Y + cyl.H/2}, render.TextStyle{
		Align: render.AlignCenter, Baseline: render.BaselineMiddle, Color: render.DefaultPalette.Text,
	})
}
