package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// DoubleSlit is Fraunhofer two-slit interference on a screen: cos²
// fringes under a single-slit sinc² envelope. The ordering group keeps
// the slit width at or below the separation.
func DoubleSlit() *sample.Def {
	return &sample.Def{
		Name:  "doubleslit",
		Title: "Double-slit interference",
		Params: []param.Parameter{
			{Key: "wavelength", Label: "Wavelength", Value: 550, Min: 380, Max: 740, Step: 1, Format: param.Fixed(0, "nm")},
			{Key: "slitw", Label: "Slit width", Value: 4, Min: 0.5, Max: 20, Step: 0.1, Format: param.Fixed(1, "μm")},
			{Key: "sep", Label: "Slit separation", Value: 60, Min: 1, Max: 100, Step: 0.5, Format: param.Fixed(1, "μm")},
			{Key: "dist", Label: "Screen distance", Value: 1.5, Min: 0.5, Max: 5, Step: 0.1, Format: param.Fixed(1, "m")},
		},
		Ordering: [][]string{{"slitw", "sep"}},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "Fraunhofer, small angle",
			Compute: doubleSlitCompute,
		},
		Views: []sample.View{
			{Kind: "plot", Target: "pattern", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: -50, XMax: 50, YMin: 0, YMax: 1.15},
				Title:   "Screen intensity",
				XLabel:  "screen position",
				YLabel:  "I/I₀",
				XFormat: param.Fixed(0, "mm"),
				YFormat: param.Fixed(1, ""),
				Series: []render.Series{
					{Name: "intensity", Fn: slitIntensity, Samples: 500},
					{Name: "envelope", Fn: slitEnvelope, Samples: 300,
						Stroke: render.Stroke{Color: render.DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4}}},
				},
			}},
			{Kind: "diagram", Target: "bench", Diagram: &render.DiagramConfig{
				Uses:  []string{"mass", "wall", "ray"},
				Build: doubleSlitScene,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Fringes",
				Rows: []render.Row{
					{Key: "spacing", Label: "Fringe spacing"},
					{Key: "envzero", Label: "Envelope null"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "wavelength-slider", Param: "wavelength"},
			{Control: "slitw-slider", Param: "slitw"},
			{Control: "sep-slider", Param: "sep"},
			{Control: "dist-slider", Param: "dist"},
		},
		Presets: map[string]map[string]float64{
			"green-wide": {"wavelength": 550, "sep": 60},
			"red-narrow": {"wavelength": 660, "sep": 30},
		},
	}
}

func doubleSlitCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	lambda := p.Get("wavelength") * 1e-9
	a := p.Get("slitw") * 1e-6
	d := p.Get("sep") * 1e-6
	l := p.Get("dist")

	out := model.NewOutputs()
	out.Set("spacing", lambda*l/d, param.SI(2, "m"))
	out.Set("envzero", lambda*l/a, param.SI(2, "m"))
	return out, nil
}

// slitIntensity evaluates the small-angle two-slit pattern at screen
// position x in millimeters.
func slitIntensity(x float64, f *render.Frame) float64 {
	lambda := f.Params.Get("wavelength") * 1e-9
	a := f.Params.Get("slitw") * 1e-6
	d := f.Params.Get("sep") * 1e-6
	l := f.Params.Get("dist")

	sinTheta := x * 1e-3 / l
	beta := math.Pi * d * sinTheta / lambda
	env := sinc(math.Pi * a * sinTheta / lambda)
	c := math.Cos(beta)
	return c * c * env * env
}

func slitEnvelope(x float64, f *render.Frame) float64 {
	lambda := f.Params.Get("wavelength") * 1e-9
	a := f.Params.Get("slitw") * 1e-6
	l := f.Params.Get("dist")

	env := sinc(math.Pi * a * x * 1e-3 / (l * lambda))
	return env * env
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	return math.Sin(x) / x
}

func doubleSlitScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	wallX := 0.36 * w
	screenX := 0.88 * w
	cy := h / 2
	gap := 0.06 * h
	half := 0.012 * h

	src := render.Point{X: 0.10 * w, Y: cy}
	s.Add(render.Component{Kind: "mass", Pts: []render.Point{src}, W: 5, On: true})

	up := render.Point{X: wallX, Y: cy - gap}
	dn := render.Point{X: wallX, Y: cy + gap}
	s.Add(render.Component{Kind: "wall", Pts: []render.Point{{X: wallX, Y: 0.10 * h}, {X: wallX, Y: up.Y - half}}})
	s.Add(render.Component{Kind: "wall", Pts: []render.Point{{X: wallX, Y: up.Y + half}, {X: wallX, Y: dn.Y - half}}})
	s.Add(render.Component{Kind: "wall", Pts: []render.Point{{X: wallX, Y: dn.Y + half}, {X: wallX, Y: 0.90 * h}}})
	s.Add(render.Component{Kind: "wall", Pts: []render.Point{{X: screenX, Y: 0.10 * h}, {X: screenX, Y: 0.90 * h}}})

	s.Add(render.Component{Kind: "ray", Pts: []render.Point{src, up}, On: true})
	s.Add(render.Component{Kind: "ray", Pts: []render.Point{src, dn}, On: true})

	// fringe strip painted as stacked constant-color bands sampled from
	// the live intensity
	const strips = 48
	wavelengthColor := render.Spectral().At(f.Params.Get("wavelength"))
	fringeMap := render.NewColormap(
		render.ColorStop{At: 0, C: render.DefaultPalette.Background},
		render.ColorStop{At: 1, C: wavelengthColor},
	)
	y0, y1 := 0.10*h, 0.90*h
	stripH := (y1 - y0) / strips
	for i := 0; i < strips; i++ {
		mid := y0 + stripH*(float64(i)+0.5)
		// map strip center onto the same +-50 mm window the plot shows
		mm := (mid - cy) / (y1 - y0) * 100
		in := slitIntensity(mm, f)
		s.Band(render.Band{
			Rect: render.Rect{X: screenX + 3, Y: y0 + stripH*float64(i), W: 0.05 * w, H: stripH + 0.5},
			Map:  fringeMap,
			From: in,
			To:   in,
		})
	}
}
