package tui

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/vizlab/internal/render"
)

// canvasTarget adapts a braille Canvas to render.Target. One logical
// unit is one braille dot, so the surface is (2*Cols) x (4*Rows).
// Stroke widths collapse to a single dot and shadows are dropped; the
// Target contract allows that for cell-grid hosts.
type canvasTarget struct {
	canvas *Canvas
	clips  []render.Rect
	rots   []rotation
}

type rotation struct {
	center render.Point
	angle  float64
}

func newCanvasTarget(cols, rows int) *canvasTarget {
	return &canvasTarget{canvas: NewCanvas(cols, rows)}
}

func (t *canvasTarget) Resize(cols, rows int) { t.canvas.Resize(cols, rows) }

func (t *canvasTarget) Size() (float64, float64) {
	return float64(t.canvas.Cols * 2), float64(t.canvas.Rows * 4)
}

func (t *canvasTarget) DPR() float64            { return 1 }
func (t *canvasTarget) SetBackingScale(float64) {}

// Clear resets the canvas and drops any stacks a recovered renderer
// panic may have left unbalanced. The clear color is ignored: the
// terminal background shows through unlit dots.
func (t *canvasTarget) Clear(render.Color) {
	t.canvas.Clear()
	t.clips = t.clips[:0]
	t.rots = t.rots[:0]
}

// device maps a local point to device space, applying rotations
// innermost first.
func (t *canvasTarget) device(p render.Point) render.Point {
	for i := len(t.rots) - 1; i >= 0; i-- {
		p = rotateAbout(p, t.rots[i].center, t.rots[i].angle)
	}
	return p
}

func rotateAbout(p, c render.Point, angle float64) render.Point {
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-c.X, p.Y-c.Y
	return render.Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

func (t *canvasTarget) clipped(p render.Point) bool {
	if n := len(t.clips); n > 0 && !t.clips[n-1].Contains(p) {
		return true
	}
	return false
}

// dot lights the dot under a device-space point.
func (t *canvasTarget) dot(p render.Point, c render.Color) {
	if t.clipped(p) {
		return
	}
	t.canvas.SetDot(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
}

func (t *canvasTarget) Line(a, b render.Point, s render.Stroke) {
	t.strokeSeg(a, b, s, 0)
}

func (t *canvasTarget) Polyline(pts []render.Point, s render.Stroke) {
	dist := 0.0
	for i := 1; i < len(pts); i++ {
		dist = t.strokeSeg(pts[i-1], pts[i], s, dist)
	}
}

// strokeSeg samples a segment at dot pitch, honoring the dash pattern
// from the given phase, and returns the phase after the segment.
func (t *canvasTarget) strokeSeg(a, b render.Point, s render.Stroke, phase float64) float64 {
	length := b.Sub(a).Norm()
	steps := int(math.Ceil(length))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		if dashOn(s.Dash, phase+frac*length) {
			t.dot(t.device(a.Lerp(b, frac)), s.Color)
		}
	}
	return phase + length
}

func dashOn(pattern []float64, dist float64) bool {
	if len(pattern) == 0 {
		return true
	}
	total := 0.0
	for _, run := range pattern {
		total += run
	}
	if total <= 0 {
		return true
	}
	m := math.Mod(dist, total)
	for i, run := range pattern {
		if m < run {
			return i%2 == 0
		}
		m -= run
	}
	return true
}

func (t *canvasTarget) Arc(center render.Point, r, start, end float64, s render.Stroke) {
	span := math.Abs(end - start)
	n := int(math.Ceil(span * math.Max(r, 1)))
	if n < 8 {
		n = 8
	}
	pts := make([]render.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		sin, cos := math.Sincos(a)
		pts = append(pts, render.Point{X: center.X + r*cos, Y: center.Y + r*sin})
	}
	t.Polyline(pts, s)
}

// FillPath scanline-fills a polygon with the even-odd rule, one row of
// dots at a time. Points are transformed up front so rotation costs
// nothing per dot.
func (t *canvasTarget) FillPath(pts []render.Point, c render.Color) {
	if len(pts) < 3 {
		return
	}
	dev := make([]render.Point, len(pts))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range pts {
		dev[i] = t.device(p)
		minY = math.Min(minY, dev[i].Y)
		maxY = math.Max(maxY, dev[i].Y)
	}
	var xs []float64
	for row := int(math.Floor(minY)); float64(row) < maxY; row++ {
		yc := float64(row) + 0.5
		xs = xs[:0]
		for i := range dev {
			p, q := dev[i], dev[(i+1)%len(dev)]
			if (p.Y <= yc) == (q.Y <= yc) {
				continue
			}
			xs = append(xs, p.X+(yc-p.Y)*(q.X-p.X)/(q.Y-p.Y))
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			lo := int(math.Ceil(xs[i] - 0.5))
			hi := int(math.Floor(xs[i+1] - 0.5))
			for x := lo; x <= hi; x++ {
				t.dot(render.Point{X: float64(x) + 0.5, Y: yc}, c)
			}
		}
	}
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func (t *canvasTarget) FillRect(r render.Rect, c render.Color) {
	if len(t.rots) > 0 {
		t.FillPath(rectCorners(r), c)
		return
	}
	for row := int(math.Floor(r.Y)); float64(row)+0.5 < r.Y+r.H; row++ {
		if float64(row)+0.5 < r.Y {
			continue
		}
		for x := int(math.Floor(r.X)); float64(x)+0.5 < r.X+r.W; x++ {
			if float64(x)+0.5 < r.X {
				continue
			}
			t.dot(render.Point{X: float64(x) + 0.5, Y: float64(row) + 0.5}, c)
		}
	}
}

func (t *canvasTarget) StrokeRect(r render.Rect, s render.Stroke) {
	corners := rectCorners(r)
	dist := 0.0
	for i := 0; i < 4; i++ {
		dist = t.strokeSeg(corners[i], corners[(i+1)%4], s, dist)
	}
}

func rectCorners(r render.Rect) []render.Point {
	return []render.Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

func (t *canvasTarget) FillCircle(center render.Point, radius float64, c render.Color) {
	if radius <= 0 {
		t.dot(t.device(center), c)
		return
	}
	dc := t.device(center)
	r2 := radius * radius
	for y := int(math.Floor(dc.Y - radius)); float64(y) <= dc.Y+radius; y++ {
		for x := int(math.Floor(dc.X - radius)); float64(x) <= dc.X+radius; x++ {
			dx, dy := float64(x)+0.5-dc.X, float64(y)+0.5-dc.Y
			if dx*dx+dy*dy <= r2 {
				t.dot(render.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}, c)
			}
		}
	}
}

// Gradients rasterize per dot. Alpha cannot blend on a terminal, so
// faint stops dither to a checker and near-transparent ones drop out.
func (t *canvasTarget) LinearGradient(r render.Rect, from, to render.Point, stops []render.GradStop) {
	axis := to.Sub(from)
	den := axis.Dot(axis)
	t.eachRectDot(r, func(x, y int, p render.Point) {
		frac := 0.0
		if den > 0 {
			frac = clamp01(p.Sub(from).Dot(axis) / den)
		}
		t.gradDot(x, y, p, gradColorAt(stops, frac))
	})
}

func (t *canvasTarget) RadialGradient(center render.Point, radius float64, stops []render.GradStop) {
	if radius <= 0 {
		return
	}
	box := render.Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}
	t.eachRectDot(box, func(x, y int, p render.Point) {
		d := p.Sub(center).Norm()
		if d > radius {
			return
		}
		t.gradDot(x, y, p, gradColorAt(stops, d/radius))
	})
}

func (t *canvasTarget) eachRectDot(r render.Rect, fn func(x, y int, p render.Point)) {
	for y := int(math.Floor(r.Y)); float64(y)+0.5 < r.Y+r.H; y++ {
		for x := int(math.Floor(r.X)); float64(x)+0.5 < r.X+r.W; x++ {
			p := render.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if p.X < r.X || p.Y < r.Y {
				continue
			}
			fn(x, y, p)
		}
	}
}

func (t *canvasTarget) gradDot(x, y int, p render.Point, c render.Color) {
	switch {
	case c.A >= 160:
	case c.A >= 64:
		if (x+y)%2 != 0 {
			return
		}
	default:
		return
	}
	t.dot(p, c)
}

// gradColorAt interpolates gradient stops at frac in [0, 1], blending
// RGB through go-colorful and alpha linearly.
func gradColorAt(stops []render.GradStop, frac float64) render.Color {
	if len(stops) == 0 {
		return render.Color{}
	}
	if frac <= stops[0].At {
		return stops[0].C
	}
	last := stops[len(stops)-1]
	if frac >= last.At {
		return last.C
	}
	for i := 1; i < len(stops); i++ {
		if frac > stops[i].At {
			continue
		}
		lo, hi := stops[i-1], stops[i]
		span := hi.At - lo.At
		tt := 0.0
		if span > 0 {
			tt = (frac - lo.At) / span
		}
		blend := toColorful(lo.C).BlendRgb(toColorful(hi.C), tt)
		out := fromColorful(blend)
		out.A = uint8(math.Round(float64(lo.C.A) + (float64(hi.C.A)-float64(lo.C.A))*tt))
		return out
	}
	return last.C
}

func toColorful(c render.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) render.Color {
	cl := c.Clamped()
	return render.Color{
		R: uint8(math.Round(cl.R * 255)),
		G: uint8(math.Round(cl.G * 255)),
		B: uint8(math.Round(cl.B * 255)),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PushClip tracks clips in device space; under rotation the bounding
// box of the transformed corners stands in for the exact region.
func (t *canvasTarget) PushClip(r render.Rect) {
	box := r
	if len(t.rots) > 0 {
		box = bboxOf(rectCorners(r), t.device)
	}
	if n := len(t.clips); n > 0 {
		box = t.clips[n-1].Intersect(box)
	}
	t.clips = append(t.clips, box)
}

func (t *canvasTarget) PopClip() {
	if n := len(t.clips); n > 0 {
		t.clips = t.clips[:n-1]
	}
}

func bboxOf(pts []render.Point, dev func(render.Point) render.Point) render.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		q := dev(p)
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	return render.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (t *canvasTarget) PushRotate(center render.Point, angle float64) {
	t.rots = append(t.rots, rotation{center: center, angle: angle})
}

func (t *canvasTarget) PopTransform() {
	if n := len(t.rots); n > 0 {
		t.rots = t.rots[:n-1]
	}
}

// Text snaps to the cell grid: one rune per cell, size ignored.
func (t *canvasTarget) Text(s string, at render.Point, st render.TextStyle) {
	if s == "" {
		return
	}
	p := t.device(at)
	runes := []rune(s)
	col := int(math.Floor(p.X / 2))
	switch st.Align {
	case render.AlignCenter:
		col -= len(runes) / 2
	case render.AlignRight:
		col -= len(runes)
	}
	y := p.Y
	switch st.Baseline {
	case render.BaselineMiddle:
		y -= 2
	case render.BaselineAlphabetic, render.BaselineBottom:
		y -= 4
	}
	row := int(math.Floor(y / 4))
	for i, r := range runes {
		cx := float64((col+i)*2) + 1
		cy := float64(row*4) + 2
		if t.clipped(render.Point{X: cx, Y: cy}) {
			continue
		}
		t.canvas.SetRune(col+i, row, r, st.Color)
	}
}

func (t *canvasTarget) SetShadow(render.Color, float64) {}
func (t *canvasTarget) ClearShadow()                    {}
