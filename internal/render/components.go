package render

import "math"

// componentPainters is the closed table of schematic component kinds.
// Sample declarations are validated against it at load.
var componentPainters = map[string]func(Target, Component){
	"source":       paintSource,
	"resistor":     paintResistor,
	"capacitor":    paintCapacitor,
	"inductor":     paintInductor,
	"diode":        paintDiode,
	"switch":       paintSwitch,
	"pipe-segment": paintPipe,
	"piston":       paintPiston,
	"orbit-ring":   paintOrbit,
	"pendulum-rod": paintRod,
	"ray":          paintRay,
	"normal":       paintNormal,
	"wall":         paintWall,
	"vessel":       paintVessel,
	"mass":         paintMass,
	"wire":         paintWire,
}

// ComponentKinds returns the supported kinds; hosts use it for listings.
func ComponentKinds() []string {
	kinds := make([]string, 0, len(componentPainters))
	for k := range componentPainters {
		kinds = append(kinds, k)
	}
	return kinds
}

func componentColor(c Component) Color {
	if len(c.Map.stops) > 0 {
		return c.Map.At(c.Hue)
	}
	if c.On {
		return DefaultPalette.Accent
	}
	return DefaultPalette.Axis
}

func defaultSize(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func paintSource(t Target, c Component) {
	if len(c.Pts) < 1 {
		return
	}
	at := c.Pts[0]
	r := defaultSize(c.W, 28) / 2
	col := componentColor(c)
	t.Arc(at, r, 0, 2*math.Pi, Stroke{Color: col, Width: 2})
	t.Line(Point{X: at.X - r/2, Y: at.Y - r/3}, Point{X: at.X - r/6, Y: at.Y - r/3}, Stroke{Color: col, Width: 1.5})
	t.Line(Point{X: at.X - r/3, Y: at.Y - r/2}, Point{X: at.X - r/3, Y: at.Y - r/6}, Stroke{Color: col, Width: 1.5})
	t.Line(Point{X: at.X + r/6, Y: at.Y + r/3}, Point{X: at.X + r/2, Y: at.Y + r/3}, Stroke{Color: col, Width: 1.5})
}

func paintResistor(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	amp := defaultSize(c.W, 6)
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	perp := Point{X: -u.Y, Y: u.X}

	const peaks = 6
	lead := n * 0.15
	body := n - 2*lead
	pts := []Point{a, a.Add(u.Scale(lead))}
	for i := 0; i < peaks; i++ {
		along := lead + body*(float64(i)+0.5)/peaks
		side := amp
		if i%2 == 1 {
			side = -amp
		}
		pts = append(pts, a.Add(u.Scale(along)).Add(perp.Scale(side)))
	}
	pts = append(pts, a.Add(u.Scale(n-lead)), b)
	t.Polyline(pts, Stroke{Color: componentColor(c), Width: 2})
}

func paintCapacitor(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	plate := defaultSize(c.W, 16) / 2
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	perp := Point{X: -u.Y, Y: u.X}
	mid := a.Lerp(b, 0.5)
	const gap = 3.5
	col := componentColor(c)

	p1 := mid.Sub(u.Scale(gap))
	p2 := mid.Add(u.Scale(gap))
	t.Line(a, p1, Stroke{Color: col, Width: 2})
	t.Line(p2, b, Stroke{Color: col, Width: 2})
	t.Line(p1.Add(perp.Scale(plate)), p1.Sub(perp.Scale(plate)), Stroke{Color: col, Width: 2})
	t.Line(p2.Add(perp.Scale(plate)), p2.Sub(perp.Scale(plate)), Stroke{Color: col, Width: 2})
}

func paintInductor(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	angle := math.Atan2(u.Y, u.X)
	col := componentColor(c)

	const bumps = 4
	lead := n * 0.15
	r := defaultSize(c.W, (n-2*lead)/(2*bumps))
	t.Line(a, a.Add(u.Scale(lead)), Stroke{Color: col, Width: 2})
	t.Line(b.Sub(u.Scale(lead)), b, Stroke{Color: col, Width: 2})
	for i := 0; i < bumps; i++ {
		center := a.Add(u.Scale(lead + r + float64(i)*2*r))
		t.Arc(center, r, angle+math.Pi, angle+2*math.Pi, Stroke{Color: col, Width: 2})
	}
}

func paintDiode(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	size := defaultSize(c.W, 9)
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	perp := Point{X: -u.Y, Y: u.X}
	mid := a.Lerp(b, 0.5)
	col := componentColor(c)

	tip := mid.Add(u.Scale(size / 2))
	base := mid.Sub(u.Scale(size / 2))
	tri := []Point{
		tip,
		base.Add(perp.Scale(size * 0.7)),
		base.Sub(perp.Scale(size * 0.7)),
	}
	t.Line(a, base, Stroke{Color: col, Width: 2})
	t.Line(tip, b, Stroke{Color: col, Width: 2})
	if c.On {
		t.FillPath(tri, col)
	} else {
		t.Polyline(append(tri, tri[0]), Stroke{Color: col, Width: 1.5})
	}
	t.Line(tip.Add(perp.Scale(size*0.7)), tip.Sub(perp.Scale(size*0.7)), Stroke{Color: col, Width: 2})
}

func paintSwitch(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	col := componentColor(c)
	t.FillCircle(a, 2.5, col)
	t.FillCircle(b, 2.5, col)
	if c.On {
		t.Line(a, b, Stroke{Color: col, Width: 2})
		return
	}
	// open lever raised ~30 degrees off the contact line
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	lever := math.Atan2(d.Y, d.X) - math.Pi/6
	end := a.Add(Point{X: math.Cos(lever), Y: math.Sin(lever)}.Scale(n * 0.9))
	t.Line(a, end, Stroke{Color: col, Width: 2})
}

func paintPipe(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	half := defaultSize(c.W, 18) / 2
	col := componentColor(c)
	for i := 1; i < len(c.Pts); i++ {
		a, b := c.Pts[i-1], c.Pts[i]
		d := b.Sub(a)
		n := d.Norm()
		if n == 0 {
			continue
		}
		perp := Point{X: -d.Y / n, Y: d.X / n}.Scale(half)
		t.Line(a.Add(perp), b.Add(perp), Stroke{Color: col, Width: 2})
		t.Line(a.Sub(perp), b.Sub(perp), Stroke{Color: col, Width: 2})
	}
}

func paintPiston(t Target, c Component) {
	if len(c.Pts) < 1 {
		return
	}
	at := c.Pts[0]
	face := defaultSize(c.W, 60)
	thick := defaultSize(c.H, 12)
	rodLen := face * 0.9
	body := Rect{X: at.X - thick/2, Y: at.Y - face/2, W: thick, H: face}

	if c.On {
		col := componentColor(c)
		t.FillRect(body, col)
		t.Line(Point{X: at.X + thick/2, Y: at.Y}, Point{X: at.X + thick/2 + rodLen, Y: at.Y},
			Stroke{Color: col, Width: 4})
		return
	}
	// ghost form marks a reference position
	g := DefaultPalette.Ghost
	t.StrokeRect(body, Stroke{Color: g, Width: 1.5, Dash: []float64{4, 3}})
	t.Line(Point{X: at.X + thick/2, Y: at.Y}, Point{X: at.X + thick/2 + rodLen, Y: at.Y},
		Stroke{Color: g, Width: 2, Dash: []float64{4, 3}})
}

func paintOrbit(t Target, c Component) {
	if len(c.Pts) < 1 {
		return
	}
	center := c.Pts[0]
	a := defaultSize(c.W, 40)
	b := defaultSize(c.H, a)
	stroke := Stroke{Color: componentColor(c), Width: 1.5}
	if !c.On {
		stroke.Dash = []float64{5, 4}
	}
	const segs = 72
	pts := make([]Point, 0, segs+1)
	for i := 0; i <= segs; i++ {
		th := 2 * math.Pi * float64(i) / segs
		pts = append(pts, Point{X: center.X + a*math.Cos(th), Y: center.Y + b*math.Sin(th)})
	}
	t.Polyline(pts, stroke)
}

func paintRod(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	pivot, bob := c.Pts[0], c.Pts[1]
	col := componentColor(c)
	t.Line(pivot, bob, Stroke{Color: col, Width: 2})
	t.FillCircle(pivot, 3, DefaultPalette.Axis)
	t.FillCircle(bob, defaultSize(c.W, 8), col)
}

func paintRay(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	col := componentColor(c)
	width := 2.0
	var dash []float64
	if !c.On {
		col = DefaultPalette.Ghost
		width = 1.5
		dash = []float64{5, 4}
	}
	t.Line(a, b, Stroke{Color: col, Width: width, Dash: dash})
	arrowHead(t, a, b, defaultSize(c.W, 8), col)
}

func arrowHead(t Target, from, to Point, size float64, col Color) {
	d := to.Sub(from)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	perp := Point{X: -u.Y, Y: u.X}
	base := to.Sub(u.Scale(size))
	t.FillPath([]Point{
		to,
		base.Add(perp.Scale(size * 0.5)),
		base.Sub(perp.Scale(size * 0.5)),
	}, col)
}

func paintNormal(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	t.Line(c.Pts[0], c.Pts[1], Stroke{
		Color: DefaultPalette.Muted, Width: 1, Dash: []float64{4, 4},
	})
}

func paintWall(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	col := componentColor(c)
	t.Line(a, b, Stroke{Color: col, Width: 2})
	d := b.Sub(a)
	n := d.Norm()
	if n == 0 {
		return
	}
	u := d.Scale(1 / n)
	hatch := u.Add(Point{X: -u.Y, Y: u.X}).Scale(defaultSize(c.W, 6) / math.Sqrt2)
	for s := 4.0; s < n; s += 8 {
		at := a.Add(u.Scale(s))
		t.Line(at, at.Add(hatch), Stroke{Color: col, Width: 1})
	}
}

func paintVessel(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	a, b := c.Pts[0], c.Pts[1]
	r := Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
	t.StrokeRect(r, Stroke{Color: componentColor(c), Width: 2})
}

func paintMass(t Target, c Component) {
	if len(c.Pts) < 1 {
		return
	}
	t.FillCircle(c.Pts[0], defaultSize(c.W, 6), componentColor(c))
}

// paintWire draws a plain connection run. On marks the endpoints with
// junction dots.
func paintWire(t Target, c Component) {
	if len(c.Pts) < 2 {
		return
	}
	col := componentColor(c)
	t.Polyline(c.Pts, Stroke{Color: col, Width: 2})
	if c.On {
		t.FillCircle(c.Pts[0], 2.5, col)
		t.FillCircle(c.Pts[len(c.Pts)-1], 2.5, col)
	}
}
