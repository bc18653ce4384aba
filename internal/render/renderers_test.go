package render

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/vizlab/internal/model"
	"github.com/san-kum/vizlab/internal/param"
)

func testFrame() *Frame {
	return &Frame{Outputs: model.NewOutputs(), State: model.NewState(1)}
}

func TestPlotConfigValidation(t *testing.T) {
	rec := newRecorder(200, 200)

	if _, err := NewPlot(rec, PlotConfig{}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("empty series got %v, expected ErrBadConfig", err)
	}

	both := PlotConfig{Series: []Series{{
		Fn:  func(x float64, f *Frame) float64 { return x },
		Pts: func(f *Frame) []Point { return nil },
	}}}
	if _, err := NewPlot(rec, both); !errors.Is(err, ErrBadConfig) {
		t.Errorf("fn and points together got %v, expected ErrBadConfig", err)
	}

	neither := PlotConfig{Series: []Series{{Name: "empty"}}}
	if _, err := NewPlot(rec, neither); !errors.Is(err, ErrBadConfig) {
		t.Errorf("no source got %v, expected ErrBadConfig", err)
	}
}

func TestPlotPaintsSampledCurve(t *testing.T) {
	rec := newRecorder(300, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale:  Scale{XMin: 0, XMax: 1, YMin: 0, YMax: 1},
		Title:  "transfer",
		Series: []Series{{Fn: func(x float64, f *Frame) float64 { return x * x }}},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Paint(testFrame())

	if rec.cleared != 1 {
		t.Errorf("cleared %d times, expected 1", rec.cleared)
	}
	if len(rec.polylines) != 1 {
		t.Fatalf("got %d polylines, expected 1", len(rec.polylines))
	}
	if got := len(rec.polylines[0]); got != 200 {
		t.Errorf("curve has %d points, expected 200 samples", got)
	}
	if rec.clipDepth != 0 {
		t.Errorf("clip depth %d after paint, expected balanced", rec.clipDepth)
	}
	if rec.count("pushclip") != 1 {
		t.Errorf("pushclip called %d times, expected 1", rec.count("pushclip"))
	}
	if !rec.hasText("transfer") {
		t.Error("title not drawn")
	}
}

func TestPlotBreaksCurveAtUndefinedValues(t *testing.T) {
	rec := newRecorder(300, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale: Scale{XMin: 0, XMax: 1, YMin: -2, YMax: 2},
		Series: []Series{{
			Samples: 100,
			Fn: func(x float64, f *Frame) float64 {
				if x >= 0.4 && x <= 0.6 {
					return math.NaN()
				}
				return x
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Paint(testFrame())

	if len(rec.polylines) != 2 {
		t.Errorf("got %d polylines, expected curve broken into 2", len(rec.polylines))
	}
}

func TestPlotAutoScalesY(t *testing.T) {
	rec := newRecorder(300, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale:  Scale{XMin: 0, XMax: 10, YMin: 0, YMax: 1},
		AutoY:  true,
		Series: []Series{{Fn: func(x float64, f *Frame) float64 { return x }}},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Paint(testFrame())

	sc := p.Scale()
	if math.Abs(sc.YMin-(-2)) > 1e-9 || math.Abs(sc.YMax-12) > 1e-9 {
		t.Errorf("auto y-range got (%v, %v), expected (-2, 12)", sc.YMin, sc.YMax)
	}
}

func TestPlotFixedYPinsScale(t *testing.T) {
	rec := newRecorder(300, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale: Scale{XMin: 0, XMax: 10, YMin: 0, YMax: 1},
		AutoY: true,
		Series: []Series{{
			FixedY: true,
			Fn:     func(x float64, f *Frame) float64 { return x },
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Paint(testFrame())

	sc := p.Scale()
	if sc.YMin != 0 || sc.YMax != 1 {
		t.Errorf("pinned y-range got (%v, %v), expected (0, 1)", sc.YMin, sc.YMax)
	}
}

func TestPlotOperatingPoint(t *testing.T) {
	rec := newRecorder(200, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale:  Scale{XMin: 0, XMax: 10, YMin: 0, YMax: 10},
		Series: []Series{{Fn: func(x float64, f *Frame) float64 { return x }}},
		Op: &OpPoint{
			At:       func(f *Frame) (Point, bool) { return Point{X: 5, Y: 5}, true },
			DropLine: true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	p.Paint(testFrame())

	// default pad {54 24 16 36} on 200x200 gives a 130x140 data area
	want := Point{X: 54 + 0.5*130, Y: 24 + 140 - 0.5*140}
	found := false
	for _, c := range rec.circles {
		if math.Abs(c.at.X-want.X) < 1e-9 && math.Abs(c.at.Y-want.Y) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Errorf("no marker at %v, circles: %v", want, rec.circles)
	}

	dashed := false
	for _, l := range rec.lines {
		if len(l.s.Dash) > 0 {
			dashed = true
		}
	}
	if !dashed {
		t.Error("drop line not drawn dashed")
	}
}

func TestPlotInvalidFrameShowsDomainBadge(t *testing.T) {
	rec := newRecorder(200, 200)
	p, err := NewPlot(rec, PlotConfig{
		Scale:  Scale{XMin: 0, XMax: 1, YMin: 0, YMax: 1},
		Series: []Series{{Fn: func(x float64, f *Frame) float64 { return x }}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.Outputs.Invalid = true
	p.Paint(f)

	if !rec.hasText("out of domain") {
		t.Error("invalid frame did not show the domain badge")
	}
}

func TestTimeSeriesTrailingWindow(t *testing.T) {
	rec := newRecorder(300, 200)
	h := model.NewHistory(64, "y")
	for i := 0; i <= 10; i++ {
		h.Push(float64(i), float64(i))
	}

	ts, err := NewTimeSeries(rec, TimeSeriesConfig{
		History: func(f *Frame) *model.History { return h },
		Cols:    []string{"y"},
		Window:  4,
	})
	if err != nil {
		t.Fatal(err)
	}

	ts.Paint(testFrame())

	if ts.scale.XMin != 6 || ts.scale.XMax != 10 {
		t.Errorf("window got [%v, %v], expected [6, 10]", ts.scale.XMin, ts.scale.XMax)
	}
	// visible values are 6..10, padded 20%
	if math.Abs(ts.scale.YMin-5.2) > 1e-9 || math.Abs(ts.scale.YMax-10.8) > 1e-9 {
		t.Errorf("y-range got (%v, %v), expected (5.2, 10.8)", ts.scale.YMin, ts.scale.YMax)
	}
	if len(rec.polylines) != 1 {
		t.Fatalf("got %d polylines, expected 1", len(rec.polylines))
	}
	if got := len(rec.polylines[0]); got != 5 {
		t.Errorf("trace has %d points, expected the 5 inside the window", got)
	}
	if rec.clipDepth != 0 {
		t.Errorf("clip depth %d after paint, expected balanced", rec.clipDepth)
	}
}

func TestTimeSeriesWholeBufferWithoutWindow(t *testing.T) {
	rec := newRecorder(300, 200)
	h := model.NewHistory(64, "y")
	for i := 0; i <= 10; i++ {
		h.Push(float64(i), math.Sin(float64(i)))
	}

	ts, err := NewTimeSeries(rec, TimeSeriesConfig{
		History: func(f *Frame) *model.History { return h },
		Cols:    []string{"y"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ts.Paint(testFrame())

	if ts.scale.XMin != 0 || ts.scale.XMax != 10 {
		t.Errorf("range got [%v, %v], expected [0, 10]", ts.scale.XMin, ts.scale.XMax)
	}
	if got := len(rec.polylines[0]); got != 11 {
		t.Errorf("trace has %d points, expected 11", got)
	}
}

func TestTimeSeriesWalkScalesToRMS(t *testing.T) {
	rec := newRecorder(100, 100)
	h := model.NewHistory(64, "x", "y")
	h.Push(0, 0, 0)
	h.Push(1, 1, 1)

	ts, err := NewTimeSeries(rec, TimeSeriesConfig{
		History: func(f *Frame) *model.History { return h },
		Cols:    []string{"x", "y"},
		Walk:    true,
		RMS:     func(f *Frame) float64 { return 2 },
	})
	if err != nil {
		t.Fatal(err)
	}

	ts.Paint(testFrame())

	// rms circle sits at 40% of the half-extent: 0.4 * 50 = 20 px
	if len(rec.arcs) != 1 {
		t.Fatalf("got %d arcs, expected the rms reference circle", len(rec.arcs))
	}
	a := rec.arcs[0]
	if math.Abs(a.r-20) > 1e-9 {
		t.Errorf("rms circle radius got %v, expected 20", a.r)
	}
	if a.at.X != 50 || a.at.Y != 50 {
		t.Errorf("rms circle center got %v, expected viewport center", a.at)
	}

	// (1, 1) maps with 10 px per unit from the center
	if len(rec.polylines) != 1 {
		t.Fatalf("got %d polylines, expected the walk path", len(rec.polylines))
	}
	last := rec.polylines[0][len(rec.polylines[0])-1]
	if math.Abs(last.X-60) > 1e-9 || math.Abs(last.Y-60) > 1e-9 {
		t.Errorf("walk endpoint got %v, expected {60 60}", last)
	}
}

func TestTimeSeriesConfigValidation(t *testing.T) {
	rec := newRecorder(100, 100)

	if _, err := NewTimeSeries(rec, TimeSeriesConfig{}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("missing history got %v, expected ErrBadConfig", err)
	}

	src := func(f *Frame) *model.History { return nil }
	if _, err := NewTimeSeries(rec, TimeSeriesConfig{History: src}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("no columns got %v, expected ErrBadConfig", err)
	}
	walk := TimeSeriesConfig{History: src, Cols: []string{"x", "y"}, Walk: true}
	if _, err := NewTimeSeries(rec, walk); !errors.Is(err, ErrBadConfig) {
		t.Errorf("walk without rms hook got %v, expected ErrBadConfig", err)
	}
}

func TestReadoutFormatsRows(t *testing.T) {
	rec := newRecorder(200, 150)
	r, err := NewReadout(rec, ReadoutConfig{
		Rows: []Row{{Key: "p2", Label: "Final pressure"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.Outputs.Set("p2", 263901.6, param.SI(1, "Pa"))
	r.Paint(f)

	if !rec.hasText("Final pressure") {
		t.Error("row label not drawn")
	}
	if !rec.hasText("263.9 kPa") {
		t.Errorf("formatted value not drawn, texts: %v", rec.texts)
	}
}

func TestReadoutInvalidShowsDashes(t *testing.T) {
	rec := newRecorder(200, 150)
	r, err := NewReadout(rec, ReadoutConfig{
		Rows: []Row{{Key: "v", Label: "Velocity"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.Outputs.Set("v", 12.5, param.Fixed(1, "m/s"))
	f.Outputs.Invalid = true
	r.Paint(f)

	if !rec.hasText("—") {
		t.Error("invalid frame did not dash the value")
	}
	if rec.hasText("12.5") {
		t.Error("invalid frame leaked a stale value")
	}
	if !rec.hasText("out of domain") {
		t.Error("invalid frame did not show the warning chip")
	}
}

func TestReadoutMissingKeyShowsDash(t *testing.T) {
	rec := newRecorder(200, 150)
	r, err := NewReadout(rec, ReadoutConfig{
		Rows: []Row{{Key: "absent", Label: "Ghost"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	r.Paint(testFrame())

	if !rec.hasText("—") {
		t.Error("missing output key did not dash the value")
	}
}

func TestReadoutStatusChips(t *testing.T) {
	rec := newRecorder(200, 150)
	r, err := NewReadout(rec, ReadoutConfig{
		Rows:  []Row{{Key: "i", Label: "Current"}},
		Chips: map[string]Chip{"ccm": {Text: "continuous conduction"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.Outputs.Set("i", 1.2, param.Fixed(2, "A"))
	f.Outputs.Status = "ccm"
	r.Paint(f)
	if !rec.hasText("continuous conduction") {
		t.Error("known status id did not resolve to its chip")
	}

	rec2 := newRecorder(200, 150)
	r2, _ := NewReadout(rec2, ReadoutConfig{Rows: []Row{{Key: "i", Label: "Current"}}})
	f.Outputs.Status = "mystery"
	r2.Paint(f)
	if !rec2.hasText("mystery") {
		t.Error("unknown status id should fall back to the raw id")
	}
}

func TestReadoutStalledChip(t *testing.T) {
	rec := newRecorder(200, 150)
	r, err := NewReadout(rec, ReadoutConfig{
		Rows: []Row{{Key: "x", Label: "X"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.State.Stalled = true
	r.Paint(f)

	if !rec.hasText("stalled") {
		t.Error("stalled state did not show its chip")
	}
}

func TestParticlesDrawsEveryParticle(t *testing.T) {
	rec := newRecorder(100, 100)
	ps := model.NewParticleSystem(nil, model.Rect{X: 0, Y: 0, W: 10, H: 10}, nil)
	ps.Particles = []model.Particle{
		{Pos: Point{X: 5, Y: 5}, Size: 0.3},
		{Pos: Point{X: 1, Y: 2}, Size: 0.3},
		{Pos: Point{X: 9, Y: 9}, Size: 0.3},
	}

	pv, err := NewParticles(rec, ParticlesConfig{
		System: func(f *Frame) *model.ParticleSystem { return ps },
		World:  Rect{X: 0, Y: 0, W: 10, H: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	pv.Paint(testFrame())

	if len(rec.circles) != 3 {
		t.Fatalf("got %d circles, expected one per particle", len(rec.circles))
	}
	// world 10 maps to 100 px, so (5, 5) lands at (50, 50) with r = 3
	c := rec.circles[0]
	if c.at.X != 50 || c.at.Y != 50 {
		t.Errorf("particle drawn at %v, expected {50 50}", c.at)
	}
	if math.Abs(c.r-3) > 1e-9 {
		t.Errorf("particle radius got %v, expected 3", c.r)
	}
}

func TestParticlesOutlineAndWalls(t *testing.T) {
	rec := newRecorder(100, 100)
	ps := model.NewParticleSystem(nil, model.Rect{X: 2, Y: 2, W: 6, H: 6}, nil)

	pv, err := NewParticles(rec, ParticlesConfig{
		System:  func(f *Frame) *model.ParticleSystem { return ps },
		World:   Rect{X: 0, Y: 0, W: 10, H: 10},
		Outline: true,
		Walls: []model.Segment{
			{A: Point{X: 0, Y: 5}, B: Point{X: 10, Y: 5}},
			{A: Point{X: 5, Y: 0}, B: Point{X: 5, Y: 10}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	pv.Paint(testFrame())

	if rec.count("strokerect") != 1 {
		t.Errorf("mask outline drawn %d times, expected 1", rec.count("strokerect"))
	}
	if rec.count("line") != 2 {
		t.Errorf("walls drawn %d times, expected 2", rec.count("line"))
	}
	if len(rec.rects) != 1 || rec.rects[0].X != 20 || rec.rects[0].W != 60 {
		t.Errorf("mask outline got %+v, expected {20 20 60 60}", rec.rects)
	}
}

func TestParticlesConfigValidation(t *testing.T) {
	rec := newRecorder(100, 100)

	if _, err := NewParticles(rec, ParticlesConfig{World: Rect{W: 1, H: 1}}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("missing system got %v, expected ErrBadConfig", err)
	}
	src := func(f *Frame) *model.ParticleSystem { return nil }
	if _, err := NewParticles(rec, ParticlesConfig{System: src}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("zero world got %v, expected ErrBadConfig", err)
	}
}

func TestDiagramValidatesComponentKinds(t *testing.T) {
	rec := newRecorder(200, 200)
	build := func(f *Frame, size Point, s *Scene) {}

	if _, err := NewDiagram(rec, DiagramConfig{Build: build, Uses: []string{"resistor", "capacitor"}}); err != nil {
		t.Errorf("valid kinds got %v", err)
	}
	if _, err := NewDiagram(rec, DiagramConfig{Build: build, Uses: []string{"flux-capacitor"}}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("unknown kind got %v, expected ErrBadConfig", err)
	}
	if _, err := NewDiagram(rec, DiagramConfig{}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("missing build got %v, expected ErrBadConfig", err)
	}
}

func TestDiagramSceneRejectsUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unknown component kind did not panic")
		}
	}()
	var s Scene
	s.Add(Component{Kind: "unobtainium"})
}

func TestDiagramFlowPhaseAdvances(t *testing.T) {
	rec := newRecorder(200, 200)
	d, err := NewDiagram(rec, DiagramConfig{
		Build: func(f *Frame, size Point, s *Scene) {
			s.Flow(Flow{
				ID:      "loop",
				Path:    []Point{{0, 0}, {100, 0}},
				Speed:   10,
				Spacing: 28,
			})
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	d.Paint(f)

	// dt 0: dots at 0, 28, 56, 84 along the 100 px path
	if len(rec.circles) != 4 {
		t.Fatalf("got %d dots, expected 4", len(rec.circles))
	}
	if rec.circles[0].at.X != 0 {
		t.Errorf("first dot at x=%v, expected 0", rec.circles[0].at.X)
	}

	f.Dt = 1
	d.Paint(f)
	if len(rec.circles) != 8 {
		t.Fatalf("got %d dots after second frame, expected 8", len(rec.circles))
	}
	if got := rec.circles[4].at.X; math.Abs(got-10) > 1e-9 {
		t.Errorf("first dot moved to x=%v, expected 10 after 1 s at 10 px/s", got)
	}
}

func TestDiagramFlowReversesWithNegativeSpeed(t *testing.T) {
	rec := newRecorder(200, 200)
	d, err := NewDiagram(rec, DiagramConfig{
		Build: func(f *Frame, size Point, s *Scene) {
			s.Flow(Flow{ID: "back", Path: []Point{{0, 0}, {100, 0}}, Speed: -10})
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	f := testFrame()
	f.Dt = 1
	d.Paint(f)

	// phase -10 wraps to 90
	if got := rec.circles[0].at.X; math.Abs(got-90) > 1e-9 {
		t.Errorf("first dot at x=%v, expected wrap to 90", got)
	}
}

func TestDiagramRotatedComponentBalancesTransforms(t *testing.T) {
	rec := newRecorder(200, 200)
	d, err := NewDiagram(rec, DiagramConfig{
		Uses: []string{"pendulum-rod"},
		Build: func(f *Frame, size Point, s *Scene) {
			s.Add(Component{
				Kind:  "pendulum-rod",
				Pts:   []Point{{100, 20}, {100, 120}},
				Angle: 0.4,
			})
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	d.Paint(testFrame())

	if rec.count("pushrotate") != 1 || rec.count("poptransform") != 1 {
		t.Errorf("rotate push/pop got %d/%d, expected 1/1",
			rec.count("pushrotate"), rec.count("poptransform"))
	}
	if rec.tfDepth != 0 {
		t.Errorf("transform depth %d after paint, expected balanced", rec.tfDepth)
	}
}

func TestDiagramBandPaintsGradient(t *testing.T) {
	rec := newRecorder(200, 200)
	d, err := NewDiagram(rec, DiagramConfig{
		Build: func(f *Frame, size Point, s *Scene) {
			s.Band(Band{
				Rect: Rect{X: 10, Y: 10, W: 100, H: 20},
				Map:  Thermal(),
				From: 280, To: 400,
			})
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	d.Paint(testFrame())

	if rec.count("lineargradient") != 1 {
		t.Errorf("gradient drawn %d times, expected 1", rec.count("lineargradient"))
	}
}

func TestDiagramNoteAndLabel(t *testing.T) {
	rec := newRecorder(200, 200)
	d, err := NewDiagram(rec, DiagramConfig{
		Uses: []string{"resistor"},
		Build: func(f *Frame, size Point, s *Scene) {
			s.Add(Component{
				Kind:  "resistor",
				Pts:   []Point{{20, 50}, {120, 50}},
				Label: "R1",
			})
			s.Note("load", Point{X: 100, Y: 150}, TextStyle{})
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	d.Paint(testFrame())

	if !rec.hasText("R1") {
		t.Error("component label not drawn")
	}
	if !rec.hasText("load") {
		t.Error("note not drawn")
	}
}
