//go:build ebiten

package gui

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/vizlab/internal/render"
)

var (
	// whitePixel backs tinted triangle fills; the 3x3 parent keeps
	// bilinear sampling away from the image edge.
	whiteImage = ebiten.NewImage(3, 3)
	whitePixel *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whitePixel = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

type rotation struct {
	center render.Point
	angle  float64
}

// imageTarget draws the renderer primitives onto an offscreen ebiten
// image. One logical unit is one pixel; ebiten's own device scaling
// sits outside this type.
type imageTarget struct {
	img  *ebiten.Image
	w, h float64
	dpr  float64

	// dst[len-1] is the active surface; clips push SubImages.
	dst  []*ebiten.Image
	rots []rotation

	shadow     render.Color
	shadowBlur float64
	shadowOn   bool
}

func newImageTarget(w, h int) *imageTarget {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	t := &imageTarget{
		img: ebiten.NewImage(w, h),
		w:   float64(w),
		h:   float64(h),
		dpr: 1,
	}
	t.dst = []*ebiten.Image{t.img}
	return t
}

func (t *imageTarget) Size() (float64, float64) { return t.w, t.h }
func (t *imageTarget) DPR() float64             { return t.dpr }

func (t *imageTarget) SetBackingScale(dpr float64) {
	if dpr > 0 {
		t.dpr = dpr
	}
}

// Clear also resets the clip and transform stacks so a renderer panic
// cannot leave later frames drawing through stale state.
func (t *imageTarget) Clear(c render.Color) {
	t.dst = t.dst[:1]
	t.rots = t.rots[:0]
	t.shadowOn = false
	t.img.Fill(nrgba(c))
}

func (t *imageTarget) cur() *ebiten.Image { return t.dst[len(t.dst)-1] }

func nrgba(c render.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// device maps a logical point through the rotation stack,
// most recently pushed first.
func (t *imageTarget) device(p render.Point) render.Point {
	for i := len(t.rots) - 1; i >= 0; i-- {
		p = rotateAbout(p, t.rots[i].center, t.rots[i].angle)
	}
	return p
}

func rotateAbout(p, center render.Point, angle float64) render.Point {
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-center.X, p.Y-center.Y
	return render.Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

func (t *imageTarget) Line(a, b render.Point, s render.Stroke) {
	t.strokeSeg(a, b, s, 0)
}

func (t *imageTarget) Polyline(pts []render.Point, s render.Stroke) {
	phase := 0.0
	for i := 1; i < len(pts); i++ {
		phase = t.strokeSeg(pts[i-1], pts[i], s, phase)
	}
}

// strokeSeg draws one segment, walking the dash pattern from phase so a
// pattern continues across polyline joints. Returns the advanced phase.
func (t *imageTarget) strokeSeg(a, b render.Point, s render.Stroke, phase float64) float64 {
	da, db := t.device(a), t.device(b)
	length := db.Sub(da).Norm()
	w := float32(s.Width)
	if s.Width <= 0 {
		w = 1
	}
	clr := nrgba(s.Color)
	dst := t.cur()

	total := 0.0
	for _, r := range s.Dash {
		total += r
	}
	if len(s.Dash) == 0 || total <= 0 {
		vector.StrokeLine(dst, float32(da.X), float32(da.Y), float32(db.X), float32(db.Y), w, clr, true)
		return phase + length
	}
	if length == 0 {
		return phase
	}

	pos := 0.0
	for pos < length {
		m := math.Mod(phase+pos, total)
		idx := 0
		for m >= s.Dash[idx] {
			m -= s.Dash[idx]
			idx++
			if idx == len(s.Dash) {
				idx = 0
			}
		}
		end := math.Min(pos+s.Dash[idx]-m, length)
		if idx%2 == 0 {
			p0 := da.Lerp(db, pos/length)
			p1 := da.Lerp(db, end/length)
			vector.StrokeLine(dst, float32(p0.X), float32(p0.Y), float32(p1.X), float32(p1.Y), w, clr, true)
		}
		pos = end
	}
	return phase + length
}

// Arc flattens to a polyline so dashes and rotation behave exactly like
// every other stroke.
func (t *imageTarget) Arc(center render.Point, r, start, end float64, s render.Stroke) {
	span := end - start
	if span == 0 || r <= 0 {
		return
	}
	n := int(math.Ceil(math.Abs(span) * math.Max(r, 8) / 4))
	if n < 16 {
		n = 16
	}
	pts := make([]render.Point, n+1)
	for i := 0; i <= n; i++ {
		ang := start + span*float64(i)/float64(n)
		sin, cos := math.Sincos(ang)
		pts[i] = render.Point{X: center.X + r*cos, Y: center.Y + r*sin}
	}
	t.Polyline(pts, s)
}

func (t *imageTarget) FillPath(pts []render.Point, c render.Color) {
	if len(pts) < 3 {
		return
	}
	var p vector.Path
	d := t.device(pts[0])
	p.MoveTo(float32(d.X), float32(d.Y))
	for _, pt := range pts[1:] {
		d = t.device(pt)
		p.LineTo(float32(d.X), float32(d.Y))
	}
	p.Close()
	t.fillPath(&p, c)
}

func (t *imageTarget) fillPath(p *vector.Path, c render.Color) {
	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(c.R) / 255
		vs[i].ColorG = float32(c.G) / 255
		vs[i].ColorB = float32(c.B) / 255
		vs[i].ColorA = float32(c.A) / 255
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		FillRule:       ebiten.EvenOdd,
		AntiAlias:      true,
	}
	t.cur().DrawTriangles(vs, is, whitePixel, op)
}

func (t *imageTarget) FillRect(r render.Rect, c render.Color) {
	if t.shadowOn {
		t.rectHalo(r)
	}
	if len(t.rots) > 0 {
		t.FillPath(rectCorners(r), c)
		return
	}
	vector.DrawFilledRect(t.cur(), float32(r.X), float32(r.Y), float32(r.W), float32(r.H), nrgba(c), true)
}

func (t *imageTarget) StrokeRect(r render.Rect, s render.Stroke) {
	pts := rectCorners(r)
	phase := 0.0
	for i := 0; i < 4; i++ {
		phase = t.strokeSeg(pts[i], pts[(i+1)%4], s, phase)
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

func (t *imageTarget) FillCircle(center render.Point, radius float64, c render.Color) {
	if radius <= 0 {
		return
	}
	d := t.device(center)
	dst := t.cur()
	if t.shadowOn {
		t.circleHalo(d, radius)
	}
	vector.DrawFilledCircle(dst, float32(d.X), float32(d.Y), float32(radius), nrgba(c), true)
}

// circleHalo fakes the glow with a few concentric translucent discs,
// widest and faintest outermost.
func (t *imageTarget) circleHalo(d render.Point, radius float64) {
	dst := t.cur()
	for i := 3; i >= 1; i-- {
		rr := radius + t.shadowBlur*float64(i)/3
		a := float64(t.shadow.A) / 255 * 0.22 * (1 - float64(i-1)/3)
		hc := t.shadow
		hc.A = uint8(math.Round(a * 255))
		if hc.A == 0 {
			continue
		}
		vector.DrawFilledCircle(dst, float32(d.X), float32(d.Y), float32(rr), nrgba(hc), true)
	}
}

func (t *imageTarget) rectHalo(r render.Rect) {
	pad := t.shadowBlur / 2
	hc := t.shadow
	hc.A = uint8(float64(hc.A) * 0.3)
	if hc.A == 0 {
		return
	}
	h := render.Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
	if len(t.rots) > 0 {
		t.FillPath(rectCorners(h), hc)
		return
	}
	vector.DrawFilledRect(t.cur(), float32(h.X), float32(h.Y), float32(h.W), float32(h.H), nrgba(hc), true)
}

// quad appends two triangles for the four corners a b c d (in order)
// with per-corner colors, drawn with straight alpha.
func (t *imageTarget) quad(dst *ebiten.Image, corners [4]render.Point, colors [4]render.Color) {
	vs := make([]ebiten.Vertex, 4)
	for i := range vs {
		vs[i] = ebiten.Vertex{
			DstX:   float32(corners[i].X),
			DstY:   float32(corners[i].Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(colors[i].R) / 255,
			ColorG: float32(colors[i].G) / 255,
			ColorB: float32(colors[i].B) / 255,
			ColorA: float32(colors[i].A) / 255,
		}
	}
	is := []uint16{0, 1, 2, 0, 2, 3}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		AntiAlias:      true,
	}
	dst.DrawTriangles(vs, is, whitePixel, op)
}

// clipTo returns the active surface restricted to r, so oversized
// gradient geometry cannot spill outside its rect.
func (t *imageTarget) clipTo(r render.Rect) *ebiten.Image {
	ir := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
	return t.cur().SubImage(ir).(*ebiten.Image)
}

// LinearGradient emits one corner-colored band per stop span. Vertex
// interpolation is linear along the axis, so each band is exact.
func (t *imageTarget) LinearGradient(r render.Rect, from, to render.Point, stops []render.GradStop) {
	if len(stops) == 0 {
		return
	}
	var clipRect render.Rect
	if len(t.rots) > 0 {
		clipRect = bboxOf(t.deviceAll(rectCorners(r)))
	} else {
		clipRect = r
	}
	dst := t.clipTo(clipRect)

	dfrom, dto := t.device(from), t.device(to)
	axis := dto.Sub(dfrom)
	length := axis.Norm()
	if length == 0 {
		t.FillRect(r, stops[len(stops)-1].C)
		return
	}
	u := axis.Scale(1 / length)
	perp := render.Point{X: -u.Y, Y: u.X}
	// long enough to cover the rect from any axis placement
	ext := clipRect.W + clipRect.H + length

	band := func(d0, d1 float64, c0, c1 render.Color) {
		if d1 <= d0 {
			return
		}
		p0 := dfrom.Add(u.Scale(d0))
		p1 := dfrom.Add(u.Scale(d1))
		t.quad(dst, [4]render.Point{
			p0.Add(perp.Scale(-ext)),
			p1.Add(perp.Scale(-ext)),
			p1.Add(perp.Scale(ext)),
			p0.Add(perp.Scale(ext)),
		}, [4]render.Color{c0, c1, c1, c0})
	}

	band(-ext, stops[0].At*length, stops[0].C, stops[0].C)
	for i := 0; i+1 < len(stops); i++ {
		band(stops[i].At*length, stops[i+1].At*length, stops[i].C, stops[i+1].C)
	}
	last := stops[len(stops)-1]
	band(last.At*length, length+ext, last.C, last.C)
}

// RadialGradient draws concentric ring strips between stop radii.
func (t *imageTarget) RadialGradient(center render.Point, radius float64, stops []render.GradStop) {
	if len(stops) == 0 || radius <= 0 {
		return
	}
	d := t.device(center)
	dst := t.clipTo(render.Rect{X: d.X - radius, Y: d.Y - radius, W: 2 * radius, H: 2 * radius})

	const segs = 48
	ring := func(r0, r1 float64, c0, c1 render.Color) {
		if r1 <= r0 {
			return
		}
		for i := 0; i < segs; i++ {
			a0 := 2 * math.Pi * float64(i) / segs
			a1 := 2 * math.Pi * float64(i+1) / segs
			s0, q0 := math.Sincos(a0)
			s1, q1 := math.Sincos(a1)
			t.quad(dst, [4]render.Point{
				{X: d.X + r0*q0, Y: d.Y + r0*s0},
				{X: d.X + r0*q1, Y: d.Y + r0*s1},
				{X: d.X + r1*q1, Y: d.Y + r1*s1},
				{X: d.X + r1*q0, Y: d.Y + r1*s0},
			}, [4]render.Color{c0, c0, c1, c1})
		}
	}

	first := stops[0]
	if r0 := first.At * radius; r0 > 0 {
		vector.DrawFilledCircle(dst, float32(d.X), float32(d.Y), float32(r0), nrgba(first.C), true)
	}
	for i := 0; i+1 < len(stops); i++ {
		ring(stops[i].At*radius, stops[i+1].At*radius, stops[i].C, stops[i+1].C)
	}
	last := stops[len(stops)-1]
	ring(last.At*radius, radius, last.C, last.C)
}

func (t *imageTarget) deviceAll(pts []render.Point) []render.Point {
	out := make([]render.Point, len(pts))
	for i, p := range pts {
		out[i] = t.device(p)
	}
	return out
}

func bboxOf(pts []render.Point) render.Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return render.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// PushClip restricts drawing to r; under rotation the clip is the
// bounding box of the rotated corners.
func (t *imageTarget) PushClip(r render.Rect) {
	eff := r
	if len(t.rots) > 0 {
		eff = bboxOf(t.deviceAll(rectCorners(r)))
	}
	t.dst = append(t.dst, t.clipTo(eff))
}

func (t *imageTarget) PopClip() {
	if len(t.dst) > 1 {
		t.dst = t.dst[:len(t.dst)-1]
	}
}

func (t *imageTarget) PushRotate(center render.Point, angle float64) {
	t.rots = append(t.rots, rotation{center: center, angle: angle})
}

func (t *imageTarget) PopTransform() {
	if len(t.rots) > 0 {
		t.rots = t.rots[:len(t.rots)-1]
	}
}

var uiFace = basicfont.Face7x13

// Text draws with the fixed bitmap face; TextStyle.Size is accepted but
// the glyphs keep one size.
func (t *imageTarget) Text(s string, at render.Point, st render.TextStyle) {
	if s == "" {
		return
	}
	d := t.device(at)
	x := int(math.Round(d.X))
	y := int(math.Round(d.Y))
	w := font.MeasureString(uiFace, s).Ceil()
	switch st.Align {
	case render.AlignCenter:
		x -= w / 2
	case render.AlignRight:
		x -= w
	}
	m := uiFace.Metrics()
	switch st.Baseline {
	case render.BaselineTop:
		y += m.Ascent.Ceil()
	case render.BaselineMiddle:
		y += m.Ascent.Ceil() - m.Height.Ceil()/2
	case render.BaselineBottom:
		y -= m.Descent.Ceil()
	}
	text.Draw(t.cur(), s, uiFace, x, y, nrgba(st.Color))
}

func (t *imageTarget) SetShadow(c render.Color, blur float64) {
	t.shadow = c
	t.shadowBlur = blur
	t.shadowOn = true
}

func (t *imageTarget) ClearShadow() {
	t.shadowOn = false
}
