package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/numeric"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

const (
	planck2 = 1.43877688e-2  // second radiation constant, m K
	stefan  = 5.670374419e-8 // W m^-2 K^-4
)

// wienX is the root of x = 5(1 - e^-x), where Planck's law peaks.
// The Wien displacement constant is planck2/wienX.
var wienX = func() float64 {
	x, err := numeric.Newton(
		func(x float64) float64 { return 5*(1-math.Exp(-x)) - x },
		func(x float64) float64 { return 5*math.Exp(-x) - 1 },
		5,
	)
	if err != nil {
		panic(err)
	}
	return x
}()

func wienPeak(t float64) float64 {
	return planck2 / (wienX * t)
}

// Blackbody plots the Planck spectrum normalized to its own peak, with
// the Wien peak as the operating point and a 5800 K reference curve for
// comparison.
func Blackbody() *sample.Def {
	return &sample.Def{
		Name:  "blackbody",
		Title: "Blackbody radiation",
		Params: []param.Parameter{
			{Key: "t", Label: "Temperature", Value: 5800, Min: 300, Max: 10000, Step: 10, Format: param.Fixed(0, "K")},
		},
		Model: model.Def{
			Kind:    model.Analytic,
			Compute: blackbodyCompute,
		},
		Views: []sample.View{
			{Kind: "plot", Target: "spectrum", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 100, XMax: 3000, YMin: 0, YMax: 1.15, LogX: true},
				Title:   "Spectral radiance (normalized)",
				XLabel:  "wavelength",
				YLabel:  "B/B_peak",
				XFormat: param.Fixed(0, "nm"),
				YFormat: param.Fixed(1, ""),
				Series: []render.Series{
					{Name: "current", Fn: func(x float64, f *render.Frame) float64 {
						return planckNormalized(x*1e-9, f.Params.Get("t"))
					}, Samples: 300},
					{Name: "5800 K", Fn: func(x float64, f *render.Frame) float64 {
						return planckNormalized(x*1e-9, 5800)
					}, Samples: 300, Stroke: render.Stroke{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}}},
				},
				Op: &render.OpPoint{
					At: func(f *render.Frame) (render.Point, bool) {
						nm := f.Outputs.Value("lpeak") * 1e9
						return render.Point{X: nm, Y: 1}, nm >= 100 && nm <= 3000
					},
					DropLine: true,
				},
			}},
			{Kind: "diagram", Target: "star", Diagram: &render.DiagramConfig{
				Uses:  []string{"mass"},
				Build: blackbodyScene,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Radiator",
				Rows: []render.Row{
					{Key: "lpeak", Label: "Peak wavelength"},
					{Key: "emit", Label: "Radiant emittance"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "t-slider", Param: "t"},
		},
		Presets: map[string]map[string]float64{
			"sun":    {"t": 5800},
			"candle": {"t": 1850},
			"sirius": {"t": 9940},
		},
	}
}

// planck is the unnormalized spectral radiance shape; constant factors
// cancel in the normalized view.
func planck(lambda, t float64) float64 {
	return math.Pow(lambda, -5) / math.Expm1(planck2/(lambda*t))
}

func planckNormalized(lambda, t float64) float64 {
	return planck(lambda, t) / planck(wienPeak(t), t)
}

func blackbodyCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	t := p.Get("t")
	out := model.NewOutputs()
	out.Set("lpeak", wienPeak(t), param.SI(1, "m"))
	out.Set("emit", stefan*math.Pow(t, 4), param.SI(2, "W/m²"))
	return out, nil
}

func blackbodyScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	t := f.Params.Get("t")

	s.Add(render.Component{
		Kind: "mass",
		Pts:  []render.Point{{X: w / 2, Y: 0.42 * h}},
		W:    0.16 * math.Min(w, h),
		Map:  render.Thermal(),
		Hue:  (t - 300) / 9700,
	})

	strip := render.Rect{X: 0.15 * w, Y: 0.82 * h, W: 0.70 * w, H: 14}
	s.Band(render.Band{Rect: strip, Map: render.Spectral(), From: 380, To: 740})

	muted := render.TextStyle{Align: render.AlignCenter, Color: render.DefaultPalette.Muted}
	s.Note("visible band", render.Point{X: w / 2, Y: strip.Y - 8}, muted)
	s.Note(f.Params.Display("t"), render.Point{X: w / 2, Y: 0.42*h + 0.16*math.Min(w, h) + 18}, muted)
}
