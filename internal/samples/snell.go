package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// Snell is refraction at a plane interface. Past the critical angle the
// refracted ray is suppressed entirely rather than drawn at a
// non-physical angle, and the TIR chip comes on.
func Snell() *sample.Def {
	return &sample.Def{
		Name:  "snell",
		Title: "Snell refraction",
		Params: []param.Parameter{
			{Key: "n1", Label: "Index above", Value: 1.5, Min: 1, Max: 2.5, Step: 0.01, Format: param.Fixed(2, "")},
			{Key: "n2", Label: "Index below", Value: 1.0, Min: 1, Max: 2.5, Step: 0.01, Format: param.Fixed(2, "")},
			{Key: "theta1", Label: "Incidence angle", Value: 60, Min: 0, Max: 89, Step: 0.5, Format: param.Fixed(1, "°")},
		},
		Model: model.Def{
			Kind:    model.Analytic,
			Compute: snellCompute,
		},
		Views: []sample.View{
			{Kind: "diagram", Target: "rays", Diagram: &render.DiagramConfig{
				Uses:  []string{"wall", "normal", "ray"},
				Build: snellScene,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Angles",
				Rows: []render.Row{
					{Key: "theta2", Label: "Refraction angle"},
					{Key: "thetac", Label: "Critical angle"},
					{Key: "reflect", Label: "Reflection angle"},
				},
				Chips: map[string]render.Chip{
					"tir": {Text: "total internal reflection", Fg: render.Color{R: 20, G: 20, B: 20, A: 255}, Bg: render.DefaultPalette.Warning},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "n1-slider", Param: "n1"},
			{Control: "n2-slider", Param: "n2"},
			{Control: "angle-slider", Param: "theta1"},
		},
		Presets: map[string]map[string]float64{
			"glass-air": {"n1": 1.5, "n2": 1, "theta1": 60},
			"air-glass": {"n1": 1, "n2": 1.5, "theta1": 30},
		},
	}
}

func snellCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	n1 := p.Get("n1")
	n2 := p.Get("n2")
	theta1 := p.Get("theta1") * math.Pi / 180

	thetac := math.NaN()
	if n2 < n1 {
		thetac = math.Asin(n2/n1) * 180 / math.Pi
	}

	out := model.NewOutputs()
	sin2 := n1 / n2 * math.Sin(theta1)
	if sin2 > 1 {
		out.Set("theta2", math.NaN(), param.Fixed(1, "°"))
		out.Status = "tir"
	} else {
		out.Set("theta2", math.Asin(sin2)*180/math.Pi, param.Fixed(1, "°"))
	}
	out.Set("thetac", thetac, param.Fixed(1, "°"))
	out.Set("reflect", p.Get("theta1"), param.Fixed(1, "°"))
	return out, nil
}

func snellScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	hit := render.Point{X: w / 2, Y: h / 2}
	arm := 0.38 * math.Min(w, h)

	n1 := f.Params.Get("n1")
	n2 := f.Params.Get("n2")
	mediumHue := func(n float64) float64 { return (n - 1) / 1.5 }
	s.Band(render.Band{
		Rect: render.Rect{X: 0, Y: 0, W: w, H: h / 2},
		Map:  render.Density(),
		From: mediumHue(n1), To: mediumHue(n1),
	})
	s.Band(render.Band{
		Rect: render.Rect{X: 0, Y: h / 2, W: w, H: h / 2},
		Map:  render.Density(),
		From: mediumHue(n2), To: mediumHue(n2),
	})

	s.Add(render.Component{Kind: "wall", Pts: []render.Point{{X: 0.06 * w, Y: h / 2}, {X: 0.94 * w, Y: h / 2}}})
	s.Add(render.Component{Kind: "normal", Pts: []render.Point{{X: w / 2, Y: 0.08 * h}, {X: w / 2, Y: 0.92 * h}}})

	t1 := f.Params.Get("theta1") * math.Pi / 180
	t2 := f.Outputs.Value("theta2")
	tir := math.IsNaN(t2)

	from := render.Point{X: hit.X - arm*math.Sin(t1), Y: hit.Y - arm*math.Cos(t1)}
	refl := render.Point{X: hit.X + arm*math.Sin(t1), Y: hit.Y - arm*math.Cos(t1)}
	s.Add(render.Component{Kind: "ray", Pts: []render.Point{from, hit}, On: true})
	// the partial reflection is a ghost until TIR makes it the only ray
	s.Add(render.Component{Kind: "ray", Pts: []render.Point{hit, refl}, On: tir})

	if !tir {
		rad := t2 * math.Pi / 180
		refr := render.Point{X: hit.X + arm*math.Sin(rad), Y: hit.Y + arm*math.Cos(rad)}
		s.Add(render.Component{Kind: "ray", Pts: []render.Point{hit, refr}, On: true})
	}

	muted := render.TextStyle{Color: render.DefaultPalette.Muted}
	s.Note("n₁", render.Point{X: 0.06 * w, Y: 0.12 * h}, muted)
	s.Note("n₂", render.Point{X: 0.06 * w, Y: 0.88 * h}, muted)
}
