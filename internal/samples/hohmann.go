package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

// Hohmann is the two-impulse transfer between coplanar circular orbits.
// The ordering group keeps the destination radius at or above the
// departure radius, so the transfer is always a raise.
func Hohmann() *sample.Def {
	return &sample.Def{
		Name:  "hohmann",
		Title: "Hohmann transfer",
		Params: []param.Parameter{
			{Key: "mu", Label: "Gravitational parameter", Value: math.Log10(3.986e14), Min: 12, Max: 18, Log: true, Format: param.SI(2, "m³/s²")},
			{Key: "r1", Label: "Departure radius", Value: 6.78e6, Min: 6.4e6, Max: 1e8, Step: 1e4, Format: param.SI(2, "m")},
			{Key: "r2", Label: "Arrival radius", Value: 4.22e7, Min: 6.4e6, Max: 5e8, Step: 1e4, Format: param.SI(2, "m")},
		},
		Ordering: [][]string{{"r1", "r2"}},
		Model: model.Def{
			Kind:    model.Analytic,
			Domain:  "impulsive burns, coplanar",
			Compute: hohmannCompute,
		},
		Views: []sample.View{
			{Kind: "diagram", Target: "orbits", Diagram: &render.DiagramConfig{
				Uses:  []string{"mass", "orbit-ring"},
				Build: hohmannScene,
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Transfer",
				Rows: []render.Row{
					{Key: "v1", Label: "Departure speed"},
					{Key: "v2", Label: "Arrival speed"},
					{Key: "a", Label: "Transfer semi-major"},
					{Key: "dv1", Label: "First burn"},
					{Key: "dv2", Label: "Second burn"},
					{Key: "dvtot", Label: "Total Δv"},
					{Key: "tof", Label: "Time of flight"},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "mu-slider", Param: "mu", Map: "log10"},
			{Control: "r1-slider", Param: "r1"},
			{Control: "r2-slider", Param: "r2"},
		},
		Presets: map[string]map[string]float64{
			"leo-geo":  {"r1": 6.78e6, "r2": 4.22e7},
			"geo-moon": {"r1": 4.22e7, "r2": 3.84e8},
		},
	}
}

func hohmannCompute(p param.Snapshot, _ *model.State) (*model.Outputs, error) {
	mu := p.Get("mu")
	r1 := p.Get("r1")
	r2 := p.Get("r2")

	a := (r1 + r2) / 2
	v1 := math.Sqrt(mu / r1)
	v2 := math.Sqrt(mu / r2)
	vp := math.Sqrt(mu * (2/r1 - 1/a))
	va := math.Sqrt(mu * (2/r2 - 1/a))
	dv1 := vp - v1
	dv2 := v2 - va
	tof := math.Pi * math.Sqrt(a*a*a/mu)

	out := model.NewOutputs()
	out.Set("v1", v1, param.Fixed(0, "m/s"))
	out.Set("v2", v2, param.Fixed(0, "m/s"))
	out.Set("a", a, param.SI(3, "m"))
	out.Set("dv1", dv1, param.Fixed(0, "m/s"))
	out.Set("dv2", dv2, param.Fixed(0, "m/s"))
	out.Set("dvtot", dv1+dv2, param.Fixed(0, "m/s"))
	out.Set("tof", tof, param.SI(2, "s"))
	return out, nil
}

func hohmannScene(f *render.Frame, size render.Point, s *render.Scene) {
	w, h := size.X, size.Y
	center := render.Point{X: w / 2, Y: h / 2}
	r1 := f.Params.Get("r1")
	r2 := f.Params.Get("r2")

	// the outer orbit fills 42% of the short side
	k := 0.42 * math.Min(w, h) / r2

	s.Add(render.Component{Kind: "mass", Pts: []render.Point{center}, W: 7, On: true})
	s.Add(render.Component{Kind: "orbit-ring", Pts: []render.Point{center}, W: k * r1, H: k * r1, On: true})
	s.Add(render.Component{Kind: "orbit-ring", Pts: []render.Point{center}, W: k * r2, H: k * r2, On: true})

	// transfer ellipse: periapsis on the inner orbit at +x, apoapsis on
	// the outer at -x; the ellipse center sits between the two
	a := (r1 + r2) / 2
	b := math.Sqrt(r1 * r2)
	ellipseC := render.Point{X: center.X - k*(a-r1), Y: center.Y}
	s.Add(render.Component{Kind: "orbit-ring", Pts: []render.Point{ellipseC}, W: k * a, H: k * b})

	// ship dot riding the upper half of the transfer arc
	const segs = 48
	path := make([]render.Point, 0, segs+1)
	for i := 0; i <= segs; i++ {
		th := math.Pi * float64(i) / segs
		path = append(path, render.Point{
			X: ellipseC.X + k*a*math.Cos(th),
			Y: ellipseC.Y - k*b*math.Sin(th),
		})
	}
	arc := 0.0
	for i := 1; i < len(path); i++ {
		arc += path[i].Sub(path[i-1]).Norm()
	}
	s.Flow(render.Flow{
		ID:      "ship",
		Path:    path,
		Speed:   arc / 12,
		Spacing: arc + 1,
		Dot:     4,
		Color:   render.DefaultPalette.Warning,
	})

	muted := render.TextStyle{Align: render.AlignCenter, Color: render.DefaultPalette.Muted}
	s.Note("r₁", render.Point{X: center.X + k*r1, Y: center.Y + 14}, muted)
	s.Note("r₂", render.Point{X: center.X - k*r2, Y: center.Y + 14}, muted)
}
