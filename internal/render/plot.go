package render

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vizlab/internal/param"
)

// Series is one curve of a plot: a closed-form function sampled across
// the x-range, or a precomputed point array. Exactly one of Fn and Pts
// must be set.
type Series struct {
	Name    string
	Fn      func(x float64, f *Frame) float64
	Pts     func(f *Frame) []Point
	Samples int
	Stroke  Stroke
	Markers bool
	// FixedY pins the declared y-range even when the plot auto-scales.
	FixedY bool
}

// OpPoint annotates the current parameter-driven operating point: a
// marker, optionally a drop-line to the x-axis and a tie-line to a
// second point. Returning ok = false hides the annotation for a frame.
type OpPoint struct {
	At       func(f *Frame) (Point, bool)
	TieTo    func(f *Frame) (Point, bool)
	DropLine bool
	Color    Color
	Radius   float64
}

// PlotConfig declares a plot view.
type PlotConfig struct {
	Scale   Scale
	AutoY   bool
	Title   string
	XLabel  string
	YLabel  string
	XFormat param.Format
	YFormat param.Format
	Series  []Series
	Op      *OpPoint
}

// Plot paints curve families over linear or log axes with {1,2,5}·10^n
// ticks.
type Plot struct {
	target Target
	cfg    PlotConfig
	scale  Scale
}

// NewPlot validates the series set and returns the renderer.
func NewPlot(t Target, cfg PlotConfig) (*Plot, error) {
	if len(cfg.Series) == 0 {
		return nil, fmt.Errorf("%w: plot needs at least one series", ErrBadConfig)
	}
	for i := range cfg.Series {
		s := &cfg.Series[i]
		if (s.Fn == nil) == (s.Pts == nil) {
			return nil, fmt.Errorf("%w: series %q needs exactly one of fn or points", ErrBadConfig, s.Name)
		}
		if s.Samples <= 0 {
			s.Samples = 200
		}
		// a colored zero-width stroke means markers only, no line
		if s.Stroke.Width == 0 && s.Stroke.Color.A == 0 {
			s.Stroke = Stroke{Color: DefaultPalette.SeriesColor(i), Width: 2}
		}
	}
	if cfg.Scale.Pad == (Padding{}) {
		cfg.Scale.Pad = Padding{L: 54, T: 24, R: 16, B: 36}
	}
	return &Plot{target: t, cfg: cfg, scale: cfg.Scale}, nil
}

func (p *Plot) Kind() string { return "plot" }

// Scale exposes the live scale; hosts use it to translate pointer
// positions into data coordinates.
func (p *Plot) Scale() *Scale { return &p.scale }

func (p *Plot) Paint(f *Frame) {
	w, h := p.target.Size()
	p.scale.Fit(w, h)

	if p.cfg.AutoY && !p.anyFixedY() {
		p.autoScaleY(f)
	}

	p.target.Clear(DefaultPalette.Background)
	p.paintAxes()

	area := p.scale.Rect()
	p.target.PushClip(area)
	for i := range p.cfg.Series {
		p.paintSeries(&p.cfg.Series[i], f)
	}
	p.target.PopClip()

	if p.cfg.Op != nil {
		p.paintOpPoint(f)
	}
	p.paintLabels(f)
}

func (p *Plot) anyFixedY() bool {
	for i := range p.cfg.Series {
		if p.cfg.Series[i].FixedY {
			return true
		}
	}
	return false
}

// autoScaleY sets the y-range to the smallest span containing the
// visible values, padded 20% on both sides.
func (p *Plot) autoScaleY(f *Frame) {
	var vals []float64
	for i := range p.cfg.Series {
		s := &p.cfg.Series[i]
		for _, pt := range p.seriesPoints(s, f) {
			if !math.IsNaN(pt.Y) && !math.IsInf(pt.Y, 0) {
				vals = append(vals, pt.Y)
			}
		}
	}
	if len(vals) == 0 {
		return
	}
	lo, hi := PadRange(floats.Min(vals), floats.Max(vals), 0.2)
	if p.scale.LogY && lo <= 0 {
		lo = math.Min(floats.Min(vals), hi) / 10
		if lo <= 0 {
			return
		}
	}
	p.scale.YMin, p.scale.YMax = lo, hi
}

func (p *Plot) seriesPoints(s *Series, f *Frame) []Point {
	if s.Pts != nil {
		return s.Pts(f)
	}
	pts := make([]Point, 0, s.Samples)
	for i := 0; i < s.Samples; i++ {
		t := float64(i) / float64(s.Samples-1)
		var x float64
		if p.scale.LogX {
			lo, hi := math.Log10(p.scale.XMin), math.Log10(p.scale.XMax)
			x = math.Pow(10, lo+t*(hi-lo))
		} else {
			x = p.scale.XMin + t*(p.scale.XMax-p.scale.XMin)
		}
		pts = append(pts, Point{X: x, Y: s.Fn(x, f)})
	}
	return pts
}

func (p *Plot) paintAxes() {
	area := p.scale.Rect()
	pal := DefaultPalette

	p.target.FillRect(area, pal.Panel)

	xticks := p.xTicks()
	for _, v := range xticks {
		px := p.scale.X(v)
		p.target.Line(Point{X: px, Y: area.Y}, Point{X: px, Y: area.Y + area.H},
			Stroke{Color: pal.Grid, Width: 1})
		p.target.Text(p.cfg.XFormat.Display(v), Point{X: px, Y: area.Y + area.H + 4},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Muted})
	}
	yticks := p.yTicks()
	for _, v := range yticks {
		py := p.scale.Y(v)
		p.target.Line(Point{X: area.X, Y: py}, Point{X: area.X + area.W, Y: py},
			Stroke{Color: pal.Grid, Width: 1})
		p.target.Text(p.cfg.YFormat.Display(v), Point{X: area.X - 6, Y: py},
			TextStyle{Align: AlignRight, Baseline: BaselineMiddle, Color: pal.Muted})
	}
	p.target.StrokeRect(area, Stroke{Color: pal.Axis, Width: 1})
}

func (p *Plot) xTicks() []float64 {
	if p.scale.LogX {
		return LogTicks(p.scale.XMin, p.scale.XMax)
	}
	return Ticks(p.scale.XMin, p.scale.XMax, 6)
}

func (p *Plot) yTicks() []float64 {
	if p.scale.LogY {
		return LogTicks(p.scale.YMin, p.scale.YMax)
	}
	return Ticks(p.scale.YMin, p.scale.YMax, 5)
}

func (p *Plot) paintSeries(s *Series, f *Frame) {
	data := p.seriesPoints(s, f)
	px := make([]Point, 0, len(data))
	for _, d := range data {
		if math.IsNaN(d.Y) || math.IsInf(d.Y, 0) {
			// break the polyline at undefined stretches
			if len(px) > 1 && s.Stroke.Width > 0 {
				p.target.Polyline(px, s.Stroke)
			}
			px = px[:0]
			continue
		}
		px = append(px, p.scale.Pt(d.X, d.Y))
	}
	if len(px) > 1 && s.Stroke.Width > 0 {
		p.target.Polyline(px, s.Stroke)
	}
	if s.Markers {
		for _, pt := range px {
			p.target.FillCircle(pt, math.Max(2, s.Stroke.Width), s.Stroke.Color)
		}
	}
}

func (p *Plot) paintOpPoint(f *Frame) {
	op := p.cfg.Op
	at, ok := op.At(f)
	if !ok {
		return
	}
	pal := DefaultPalette
	col := op.Color
	if col.A == 0 {
		col = pal.Warning
	}
	radius := op.Radius
	if radius <= 0 {
		radius = 4
	}
	px := p.scale.Pt(at.X, at.Y)
	area := p.scale.Rect()

	if op.DropLine {
		p.target.Line(px, Point{X: px.X, Y: area.Y + area.H},
			Stroke{Color: col.WithAlpha(150), Width: 1, Dash: []float64{3, 3}})
	}
	if op.TieTo != nil {
		if to, ok := op.TieTo(f); ok {
			p.target.Line(px, p.scale.Pt(to.X, to.Y),
				Stroke{Color: col.WithAlpha(150), Width: 1, Dash: []float64{5, 3}})
			p.target.FillCircle(p.scale.Pt(to.X, to.Y), radius*0.75, col.WithAlpha(180))
		}
	}
	p.target.FillCircle(px, radius, col)
}

func (p *Plot) paintLabels(f *Frame) {
	w, _ := p.target.Size()
	area := p.scale.Rect()
	pal := DefaultPalette

	if p.cfg.Title != "" {
		p.target.Text(p.cfg.Title, Point{X: area.X + area.W/2, Y: 6},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Text})
	}
	if p.cfg.XLabel != "" {
		p.target.Text(p.cfg.XLabel, Point{X: area.X + area.W/2, Y: area.Y + area.H + 18},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Muted})
	}
	if p.cfg.YLabel != "" {
		p.target.PushRotate(Point{X: 14, Y: area.Y + area.H/2}, -math.Pi/2)
		p.target.Text(p.cfg.YLabel, Point{X: 14, Y: area.Y + area.H/2},
			TextStyle{Align: AlignCenter, Baseline: BaselineMiddle, Color: pal.Muted})
		p.target.PopTransform()
	}
	if f.Outputs != nil && f.Outputs.Invalid {
		p.target.Text("out of domain", Point{X: w - 8, Y: 6},
			TextStyle{Align: AlignRight, Baseline: BaselineTop, Color: pal.Error})
	}
}
