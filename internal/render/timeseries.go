package render

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
)

// TimeSeriesConfig declares a trailing-history view. In the default
// mode Cols are plotted against time. Walk mode instead treats the
// first two columns as an (x, y) path, auto-scaled so the theoretical
// RMS radius from the RMS hook fills about 40% of the viewport.
type TimeSeriesConfig struct {
	History func(f *Frame) *model.History
	Cols    []string
	Strokes []Stroke
	Title   string
	YFormat param.Format
	// Window is the trailing time span shown; zero shows the whole
	// buffer.
	Window float64

	Walk bool
	RMS  func(f *Frame) float64
}

// TimeSeries paints a bounded trailing history, clipped to its plot
// rectangle so traces never bleed across the axes.
type TimeSeries struct {
	target Target
	cfg    TimeSeriesConfig
	scale  Scale
}

// NewTimeSeries validates the config and returns the renderer.
func NewTimeSeries(t Target, cfg TimeSeriesConfig) (*TimeSeries, error) {
	if cfg.History == nil {
		return nil, fmt.Errorf("%w: time series needs a history source", ErrBadConfig)
	}
	if cfg.Walk {
		if len(cfg.Cols) != 2 {
			return nil, fmt.Errorf("%w: walk mode needs exactly two columns", ErrBadConfig)
		}
		if cfg.RMS == nil {
			return nil, fmt.Errorf("%w: walk mode needs an rms hook", ErrBadConfig)
		}
	} else if len(cfg.Cols) == 0 {
		return nil, fmt.Errorf("%w: time series needs at least one column", ErrBadConfig)
	}
	for i := range cfg.Cols {
		if i >= len(cfg.Strokes) {
			cfg.Strokes = append(cfg.Strokes, Stroke{Color: DefaultPalette.SeriesColor(i), Width: 2})
		}
	}
	sc := Scale{Pad: Padding{L: 50, T: 20, R: 12, B: 26}}
	return &TimeSeries{target: t, cfg: cfg, scale: sc}, nil
}

func (ts *TimeSeries) Kind() string { return "timeseries" }

func (ts *TimeSeries) Paint(f *Frame) {
	ts.target.Clear(DefaultPalette.Background)
	h := ts.cfg.History(f)
	if h == nil {
		return
	}
	if ts.cfg.Walk {
		ts.paintWalk(f, h)
		return
	}
	ts.paintSeries(f, h)
}

func (ts *TimeSeries) paintSeries(f *Frame, h *model.History) {
	w, ht := ts.target.Size()
	ts.scale.Fit(w, ht)
	pal := DefaultPalette
	area := ts.scale.Rect()
	ts.target.FillRect(area, pal.Panel)

	times := h.Times()
	if len(times) < 2 {
		ts.target.StrokeRect(area, Stroke{Color: pal.Axis, Width: 1})
		return
	}

	tMax := times[len(times)-1]
	tMin := times[0]
	if ts.cfg.Window > 0 && tMax-tMin > ts.cfg.Window {
		tMin = tMax - ts.cfg.Window
	}
	ts.scale.XMin, ts.scale.XMax = tMin, tMax

	// y-range over the visible part of every column, padded 20%
	var vis []float64
	for _, col := range ts.cfg.Cols {
		vals := h.Series(col)
		for j, v := range vals {
			if times[j] >= tMin {
				vis = append(vis, v)
			}
		}
	}
	if len(vis) == 0 {
		return
	}
	ts.scale.YMin, ts.scale.YMax = PadRange(floats.Min(vis), floats.Max(vis), 0.2)

	for _, v := range Ticks(ts.scale.YMin, ts.scale.YMax, 4) {
		py := ts.scale.Y(v)
		ts.target.Line(Point{X: area.X, Y: py}, Point{X: area.X + area.W, Y: py}, Stroke{Color: pal.Grid, Width: 1})
		ts.target.Text(ts.cfg.YFormat.Display(v), Point{X: area.X - 5, Y: py},
			TextStyle{Align: AlignRight, Baseline: BaselineMiddle, Color: pal.Muted})
	}
	for _, v := range Ticks(tMin, tMax, 5) {
		px := ts.scale.X(v)
		ts.target.Text(param.Fixed(1, "s").Display(v), Point{X: px, Y: area.Y + area.H + 4},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Muted})
	}

	ts.target.PushClip(area)
	for i, col := range ts.cfg.Cols {
		vals := h.Series(col)
		pts := make([]Point, 0, len(vals))
		for j, v := range vals {
			if times[j] < tMin {
				continue
			}
			pts = append(pts, ts.scale.Pt(times[j], v))
		}
		if len(pts) > 1 {
			ts.target.Polyline(pts, ts.cfg.Strokes[i])
		}
	}
	ts.target.PopClip()
	ts.target.StrokeRect(area, Stroke{Color: pal.Axis, Width: 1})

	if ts.cfg.Title != "" {
		ts.target.Text(ts.cfg.Title, Point{X: area.X + area.W/2, Y: 4},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Text})
	}
}

// paintWalk draws the 2D path with the origin at the viewport center.
// The scale is chosen so the theoretical RMS radius sits at 40% of the
// half-extent, and that radius is overlaid as a reference circle.
func (ts *TimeSeries) paintWalk(f *Frame, h *model.History) {
	w, ht := ts.target.Size()
	pal := DefaultPalette
	center := Point{X: w / 2, Y: ht / 2}
	half := math.Min(w, ht) / 2

	rms := ts.cfg.RMS(f)
	if rms <= 0 || math.IsNaN(rms) {
		rms = 1
	}
	pxPerUnit := half * 0.4 / rms

	xs := h.Series(ts.cfg.Cols[0])
	ys := h.Series(ts.cfg.Cols[1])

	ts.target.PushClip(Rect{X: 0, Y: 0, W: w, H: ht})
	ts.target.Arc(center, rms*pxPerUnit, 0, 2*math.Pi,
		Stroke{Color: pal.Muted, Width: 1, Dash: []float64{4, 4}})
	ts.target.Text("rms", Point{X: center.X + rms*pxPerUnit + 4, Y: center.Y},
		TextStyle{Align: AlignLeft, Baseline: BaselineMiddle, Color: pal.Muted})

	n := min(len(xs), len(ys))
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: center.X + xs[i]*pxPerUnit, Y: center.Y + ys[i]*pxPerUnit})
	}
	if len(pts) > 1 {
		ts.target.Polyline(pts, ts.cfg.Strokes[0])
	}
	if len(pts) > 0 {
		ts.target.FillCircle(pts[len(pts)-1], 3.5, pal.Warning)
	}
	ts.target.FillCircle(center, 2, pal.Muted)
	ts.target.PopClip()

	if ts.cfg.Title != "" {
		ts.target.Text(ts.cfg.Title, Point{X: w / 2, Y: 4},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Text})
	}
}
