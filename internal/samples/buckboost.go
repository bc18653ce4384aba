package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// BuckBoost is the inverting buck-boost converter in steady state:
// averaged CCM equations with a DCM warning when the inductor valley
// current would cross zero.
func BuckBoost() *sample.Def {
	return &sample.Def{
		Name:  "buckboost",
		Title: "Buck-boost converter",
		Params: []param.Parameter{
			{Key: "vin", Label: "Input voltage", Value: 12, Min: 1, Max: 48, Step: 0.5, Format: param.Fixed(1, "V")},
			{Key: "d", Label: "Duty cycle", Value: 0.4, Min: 0.05, Max: 0.95, Step: 0.01, Format: param.Fixed(2, "")},
			{Key: "fs", Label: "Switching frequency", Value: 5, Min: 3, Max: 6, Step: 0.01, Log: true, Format: param.SI(1, "Hz")},
			{Key: "l", Label: "Inductance", Value: 150e-6, Min: 10e-6, Max: 1000e-6, Step: 5e-6, Format: param.SI(0, "H")},
			{Key: "c", Label: "Capacitance", Value: 100e-6, Min: 10e-6, Max: 1000e-6, Step: 5e-6, Format: param.SI(0, "F")},
			{Key: "r", Label: "Load resistance", Value: 10, Min: 1, Max: 100, Step: 0.5, Format: param.Fixed(1, "Ω")},
		},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "steady state, ideal components",
			Compute: buckBoostCompute,
		},
		Views: []sample.View{
			{Kind: "diagram", Target: "schematic", Diagram: &render.DiagramConfig{
				Uses:  []string{"source", "switch", "inductor", "diode", "capacitor", "resistor", "wire"},
				Build: buckBoostScene,
			}},
			{Kind: "plot", Target: "waveform", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 0, XMax: 1},
				AutoY:   true,
				Title:   "Inductor current over one period",
				XLabel:  "t/T",
				YLabel:  "I_L",
				XFormat: param.Fixed(2, ""),
				YFormat: param.Fixed(2, "A"),
				Series: []render.Series{
					{Name: "i_L", Fn: buckBoostCurrent},
					{Name: "avg", Fn: func(x float64, f *render.Frame) float64 {
						return f.Outputs.Value("iavg")
					}, Stroke: render.Stroke{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}}},
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Converter",
				Rows: []render.Row{
					{Key: "vout", Label: "Output voltage"},
					{Key: "iavg", Label: "Avg inductor current"},
					{Key: "ripple", Label: "Current ripple"},
					{Key: "vripple", Label: "Voltage ripple"},
				},
				Chips: map[string]render.Chip{
					"dcm": {Text: "DCM", Fg: render.Color{R: 20, G: 20, B: 20, A: 255}, Bg: render.DefaultPalette.Warning},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "vin-slider", Param: "vin"},
			{Control: "duty-slider", Param: "d"},
			{Control: "freq-slider", Param: "fs", Map: "log10"},
			{Control: "l-slider", Param: "l"},
			{Control: "c-slider", Param: "c"},
			{Control: "r-slider", Param: "r"},
		},
		Presets: map[string]map[string]float64{
			"lab":        {"vin": 12, "d": 0.4, "l": 150e-6, "c": 100e-6, "r": 10},
			"light-load": {"r": 80, "l": 30e-6},
		},
	}
}

func buckBoostCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	vin := p.Get("vin")
	d := p.Get("d")
	fs := p.Get("fs")
	l := p.Get("l")
	c := p.Get("c")
	r := p.Get("r")

	vout := -vin * d / (1 - d)
	iout := -vout / r
	iavg := iout / (1 - d)
	ripple := vin * d / (l * fs)
	vripple := iout * d / (c * fs)

	out := model.NewOutputs()
	out.Set("vout", vout, param.Fixed(2, "V"))
	out.Set("iavg", iavg, param.Fixed(3, "A"))
	out.Set("ripple", ripple, param.Fixed(3, "A"))
	out.Set("vripple", vripple, param.SI(1, "V"))
	if ripple > 2*iavg {
		out.Status = "dcm"
	}
	return out, nil
}

// buckBoostCurrent is the averaged-model inductor current over one
// normalized switching period, clamped at zero so the DCM flat segment
// shows up.
func buckBoostCurrent(x float64, f *render.Frame) float64 {
	d := f.Params.Get("d")
	iavg := f.Outputs.Value("iavg")
	ripple := f.Outputs.Value("ripple")

	var i float64
	if x < d {
		i = iavg - ripple/2 + ripple*x/d
	} else {
		i = iavg + ripple/2 - ripple*(x-d)/(1-d)
	}
	return math.Max(0, i)
}

func buckBoostScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	x0, xm, xo, x1 := 0.10*w, 0.42*w, 0.66*w, 0.88*w
	y0, y1 := 0.24*h, 0.76*h
	ym := (y0 + y1) / 2

	s.Add(render.Component{Kind: "source", Pts: []render.Point{{X: x0, Y: ym}}, W: 30, On: true, Label: "V_in"})
	s.Add(render.Component{Kind: "wire", Pts: []render.Point{{X: x0, Y: ym - 15}, {X: x0, Y: y0}}})
	s.Add(render.Component{Kind: "wire", Pts: []render.Point{{X: x0, Y: ym + 15}, {X: x0, Y: y1}}})
	s.Add(render.Component{Kind: "switch", Pts: []render.Point{{X: x0, Y: y0}, {X: xm, Y: y0}}, On: true})
	s.Add(render.Component{Kind: "inductor", Pts: []render.Point{{X: xm, Y: y0}, {X: xm, Y: y1}}, Label: "L"})
	// anode at the output node: the diode blocks while the switch conducts
	s.Add(render.Component{Kind: "diode", Pts: []render.Point{{X: xo, Y: y0}, {X: xm, Y: y0}}, On: true})
	s.Add(render.Component{Kind: "capacitor", Pts: []render.Point{{X: xo, Y: y0}, {X: xo, Y: y1}}, Label: "C"})
	s.Add(render.Component{Kind: "resistor", Pts: []render.Point{{X: x1, Y: y0}, {X: x1, Y: y1}}, Label: "R"})
	s.Add(render.Component{Kind: "wire", Pts: []render.Point{{X: xo, Y: y0}, {X: x1, Y: y0}}})
	s.Add(render.Component{Kind: "wire", Pts: []render.Point{{X: x0, Y: y1}, {X: x1, Y: y1}}})

	iavg := f.Outputs.Value("iavg")
	iout := iavg * (1 - f.Params.Get("d"))
	s.Flow(render.Flow{
		ID:    "in",
		Path:  []render.Point{{X: x0, Y: y0}, {X: xm, Y: y0}, {X: xm, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}},
		Speed: 24 * iavg,
	})
	s.Flow(render.Flow{
		ID:    "out",
		Path:  []render.Point{{X: xm, Y: y0}, {X: xo, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: xm, Y: y1}, {X: xm, Y: y0}},
		Speed: -24 * iout,
		Color: render.DefaultPalette.SeriesColor(1),
	})

	s.Note(f.Outputs.Display("vout"), render.Point{X: x1, Y: y1 + 18}, render.TextStyle{
		Align: render.AlignCenter, Color: render.DefaultPalette.Muted,
	})
}
