package render

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/vizlab/internal/model"
)

// Component is one schematic element, rebuilt by the sample every frame
// so live geometry (a moving piston, a rotating lever) stays a plain
// data description.
//
// Geometry is kind-specific: point-anchored kinds use Pts[0] with W/H as
// extents; two-point kinds run from Pts[0] to Pts[1]; path kinds use all
// of Pts. On toggles the active look (closed switch, conducting diode,
// solid piston); Off on a piston or ray draws the ghost form. When Map
// is set, Hue picks the component color from it; otherwise the palette
// decides by On.
type Component struct {
	Kind  string
	Pts   []Point
	W, H  float64
	On    bool
	Angle float64
	Hue   float64
	Map   Colormap
	Label string
}

// Flow is a dot train advected along a polyline, the schematic's moving
// current/flow overlay. Speed is in logical pixels per second; its sign
// sets the direction. The renderer accumulates phase per flow ID across
// frames.
type Flow struct {
	ID      string
	Path    []Point
	Speed   float64
	Spacing float64
	Dot     float64
	Color   Color
}

// Band is a gradient-filled strip whose end colors come from a colormap,
// for temperature and density coding.
type Band struct {
	Rect     Rect
	Map      Colormap
	From, To float64
	Vertical bool
}

type note struct {
	text  string
	at    Point
	style TextStyle
}

// Scene collects one frame's diagram description.
type Scene struct {
	comps []Component
	flows []Flow
	bands []Band
	notes []note
}

// Add appends a component. Unknown kinds panic; the set of kinds a
// sample may use is validated when the diagram is constructed.
func (s *Scene) Add(c Component) {
	if _, ok := componentPainters[c.Kind]; !ok {
		panic(fmt.Sprintf("render: unknown component kind %q", c.Kind))
	}
	s.comps = append(s.comps, c)
}

// Flow appends a dot-train overlay.
func (s *Scene) Flow(f Flow) {
	s.flows = append(s.flows, f)
}

// Band appends a gradient strip.
func (s *Scene) Band(b Band) {
	s.bands = append(s.bands, b)
}

// Note places a text label.
func (s *Scene) Note(text string, at Point, style TextStyle) {
	s.notes = append(s.notes, note{text, at, style})
}

// BuildFunc assembles the frame's scene. size is the target's logical
// size so layouts can be proportional.
type BuildFunc func(f *Frame, size Point, s *Scene)

// DiagramConfig declares a schematic view. Uses lists the component
// kinds the build function emits; unknown names are rejected at load.
type DiagramConfig struct {
	Uses  []string
	Build BuildFunc
}

// Diagram paints a schematic of the physical system. It owns the flow
// phase accumulators and the arc-length cache, both keyed by flow ID.
type Diagram struct {
	target Target
	cfg    DiagramConfig

	phases map[string]float64
	paths  map[string]Polyline
	sizedW float64
	sizedH float64
}

// Polyline is shared with the model geometry for flow paths.
type Polyline = model.Polyline

// NewDiagram validates the declared component kinds and returns the
// renderer.
func NewDiagram(t Target, cfg DiagramConfig) (*Diagram, error) {
	if cfg.Build == nil {
		return nil, fmt.Errorf("%w: diagram needs a build function", ErrBadConfig)
	}
	for _, kind := range cfg.Uses {
		if _, ok := componentPainters[kind]; !ok {
			return nil, fmt.Errorf("%w: unknown component kind %q", ErrBadConfig, kind)
		}
	}
	return &Diagram{
		target: t,
		cfg:    cfg,
		phases: make(map[string]float64),
		paths:  make(map[string]Polyline),
	}, nil
}

func (d *Diagram) Kind() string { return "diagram" }

func (d *Diagram) Paint(f *Frame) {
	w, h := d.target.Size()
	if w != d.sizedW || h != d.sizedH {
		// arc lengths are recomputed lazily after a resize
		clear(d.paths)
		d.sizedW, d.sizedH = w, h
	}

	var scene Scene
	d.cfg.Build(f, Point{X: w, Y: h}, &scene)

	d.target.Clear(DefaultPalette.Background)
	for _, b := range scene.bands {
		d.paintBand(b)
	}
	for _, c := range scene.comps {
		d.paintComponent(c)
	}
	for _, fl := range scene.flows {
		d.paintFlow(fl, f.Dt)
	}
	for _, n := range scene.notes {
		d.target.Text(n.text, n.at, n.style)
	}
}

func (d *Diagram) paintComponent(c Component) {
	paint := componentPainters[c.Kind]
	if c.Angle != 0 && len(c.Pts) > 0 {
		d.target.PushRotate(c.Pts[0], c.Angle)
		paint(d.target, c)
		d.target.PopTransform()
	} else {
		paint(d.target, c)
	}
	if c.Label != "" && len(c.Pts) > 0 {
		at := c.Pts[0].Add(Point{X: 0, Y: -c.W/2 - 8})
		d.target.Text(c.Label, at, TextStyle{
			Align: AlignCenter, Baseline: BaselineBottom,
			Color: DefaultPalette.Muted,
		})
	}
}

// paintFlow advances the flow's phase by speed*dt and draws the dot
// train at (phase + k*spacing) mod length.
func (d *Diagram) paintFlow(fl Flow, dt float64) {
	if len(fl.Path) < 2 {
		return
	}
	path, ok := d.paths[fl.ID]
	if !ok || !slices.Equal(path.Points(), fl.Path) {
		path = model.NewPolyline(fl.Path...)
		d.paths[fl.ID] = path
	}
	total := path.Length()
	if total <= 0 {
		return
	}

	spacing := fl.Spacing
	if spacing <= 0 {
		spacing = 28
	}
	dot := fl.Dot
	if dot <= 0 {
		dot = 2.5
	}
	col := fl.Color
	if col.A == 0 {
		col = DefaultPalette.Accent
	}

	phase := math.Mod(d.phases[fl.ID]+fl.Speed*dt, total)
	if phase < 0 {
		phase += total
	}
	d.phases[fl.ID] = phase

	for k := 0; float64(k)*spacing < total; k++ {
		at := math.Mod(phase+float64(k)*spacing, total)
		d.target.FillCircle(path.At(at), dot, col)
	}
}

func (d *Diagram) paintBand(b Band) {
	const stops = 8
	gs := make([]GradStop, 0, stops+1)
	for i := 0; i <= stops; i++ {
		t := float64(i) / stops
		gs = append(gs, GradStop{
			At: t,
			C:  b.Map.At(b.From + (b.To-b.From)*t),
		})
	}
	from := Point{X: b.Rect.X, Y: b.Rect.Y}
	to := Point{X: b.Rect.X + b.Rect.W, Y: b.Rect.Y}
	if b.Vertical {
		to = Point{X: b.Rect.X, Y: b.Rect.Y + b.Rect.H}
	}
	d.target.LinearGradient(b.Rect, from, to, gs)
}
