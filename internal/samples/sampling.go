package samples

import (
	"math"

	"github.com/san-kum/vizlab/internal/analysis"
	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
	"github.com/san-kum/vizlab/internal/render"
	"github.com/san-kum/vizlab/internal/sample"
)

const samplingWindow = 256

type sampData struct {
	buf    []float64
	nextT  float64
	held   float64
	lastFs float64
	spec   analysis.Spectrum
}

// Sampling demonstrates the Nyquist limit: a sine sampled at a chosen
// rate, its sample-and-hold reconstruction, and the spectrum of the
// sample stream. Past f_s/2 the spectral peak folds down to the alias
// frequency and the alias chip comes on.
func Sampling() *sample.Def {
	return &sample.Def{
		Name:  "sampling",
		Title: "Nyquist sampling",
		Params: []param.Parameter{
			{Key: "f0", Label: "Signal frequency", Value: 3, Min: 0.5, Max: 40, Step: 0.1, Format: param.Fixed(1, "Hz")},
			{Key: "fs", Label: "Sample rate", Value: 30, Min: 1, Max: 100, Step: 1, Format: param.Fixed(0, "Hz")},
		},
		Model: model.Def{
			Kind:    model.Dynamic,
			Reset:   samplingReset,
			Advance: samplingAdvance,
			Compute: samplingCompute,
		},
		Views: []sample.View{
			{Kind: "timeseries", Target: "trace", TimeSeries: &render.TimeSeriesConfig{
				History: func(f *render.Frame) *model.History { return f.State.Hist },
				Cols:    []string{"signal", "held"},
				Strokes: []render.Stroke{
					{Color: render.DefaultPalette.Muted, Width: 1},
					{Color: render.DefaultPalette.Accent, Width: 2},
				},
				Title:   "Signal and hold",
				YFormat: param.Fixed(1, ""),
				Window:  2,
			}},
			{Kind: "plot", Target: "spectrum", Plot: &render.PlotConfig{
				Scale:   render.Scale{XMin: 0, XMax: 50, YMin: 0, YMax: 1.3},
				Title:   "Spectrum of the sample stream",
				XLabel:  "frequency",
				YLabel:  "amplitude",
				XFormat: param.Fixed(0, "Hz"),
				YFormat: param.Fixed(1, ""),
				Series: []render.Series{
					{Name: "spectrum", Pts: func(f *render.Frame) []render.Point {
						spec := f.State.Data.(*sampData).spec
						pts := make([]render.Point, len(spec.Freq))
						for i := range spec.Freq {
							pts[i] = render.Point{X: spec.Freq[i], Y: spec.Power[i]}
						}
						return pts
					}},
				},
				Op: &render.OpPoint{
					At: func(f *render.Frame) (render.Point, bool) {
						return render.Point{X: f.Outputs.Value("fnyq"), Y: 0}, true
					},
					DropLine: false,
					Radius:   3,
				},
			}},
			{Kind: "readout", Target: "numbers", Readout: &render.ReadoutConfig{
				Title: "Sampling",
				Rows: []render.Row{
					{Key: "fnyq", Label: "Nyquist frequency"},
					{Key: "falias", Label: "Apparent frequency"},
				},
				Chips: map[string]render.Chip{
					"alias": {Text: "aliasing", Fg: render.Color{R: 20, G: 20, B: 20, A: 255}, Bg: render.DefaultPalette.Warning},
				},
			}},
		},
		Bindings: []sample.Binding{
			{Control: "f0-slider", Param: "f0"},
			{Control: "fs-slider", Param: "fs"},
		},
		Presets: map[string]map[string]float64{
			"faithful": {"f0": 3, "fs": 30},
			"aliased":  {"f0": 20, "fs": 30},
		},
	}
}

func samplingReset(p param.Snapshot, seed int64) *model.State {
	s := model.NewState(seed)
	s.Hist = model.NewHistory(2048, "signal", "held")
	s.Hist.Push(0, 0, 0)
	s.Data = &sampData{lastFs: p.Get("fs")}
	return s
}

func samplingAdvance(s *model.State, p param.Snapshot, dt float64) {
	d := s.Data.(*sampData)
	f0 := p.Get("f0")
	fs := p.Get("fs")
	t := s.T + dt

	// a rate change invalidates the buffered samples' time base
	if fs != d.lastFs {
		d.buf = d.buf[:0]
		d.lastFs = fs
	}

	for d.nextT <= t {
		v := math.Sin(2 * math.Pi * f0 * d.nextT)
		d.buf = append(d.buf, v)
		if len(d.buf) > samplingWindow {
			d.buf = d.buf[len(d.buf)-samplingWindow:]
		}
		d.held = v
		d.nextT += 1 / fs
	}

	s.Hist.Push(t, math.Sin(2*math.Pi*f0*t), d.held)
}

func samplingCompute(p param.Snapshot, s *model.State) (*model.Outputs, error) {
	d := s.Data.(*sampData)
	f0 := p.Get("f0")
	fs := p.Get("fs")

	d.spec = analysis.PowerSpectrum(d.buf, fs)

	out := model.NewOutputs()
	out.Set("fnyq", fs/2, param.Fixed(1, "Hz"))
	out.Set("falias", math.Abs(f0-fs*math.Round(f0/fs)), param.Fixed(2, "Hz"))
	if f0 > fs/2 {
		out.Status = "alias"
	}
	return out, nil
}
