package render

import "strings"

// recorder implements Target and keeps every call for assertions.
type recorder struct {
	w, h float64
	dpr  float64

	ops       []string
	texts     []string
	polylines [][]Point
	circles   []circleCall
	arcs      []arcCall
	rects     []Rect
	lines     []lineCall
	clipDepth int
	tfDepth   int
	cleared   int
}

type circleCall struct {
	at Point
	r  float64
	c  Color
}

type arcCall struct {
	at     Point
	r      float64
	a0, a1 float64
}

type lineCall struct {
	a, b Point
	s    Stroke
}

func newRecorder(w, h float64) *recorder {
	return &recorder{w: w, h: h, dpr: 1}
}

func (r *recorder) op(name string) { r.ops = append(r.ops, name) }

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) DPR() float64             { return r.dpr }
func (r *recorder) SetBackingScale(d float64) {
	r.dpr = d
}

func (r *recorder) Clear(c Color) {
	r.op("clear")
	r.cleared++
}

func (r *recorder) Line(a, b Point, s Stroke) {
	r.op("line")
	r.lines = append(r.lines, lineCall{a, b, s})
}

func (r *recorder) Polyline(pts []Point, s Stroke) {
	r.op("polyline")
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.polylines = append(r.polylines, cp)
}

func (r *recorder) Arc(center Point, radius, start, end float64, s Stroke) {
	r.op("arc")
	r.arcs = append(r.arcs, arcCall{center, radius, start, end})
}

func (r *recorder) FillPath(pts []Point, c Color) { r.op("fillpath") }

func (r *recorder) FillRect(rc Rect, c Color) {
	r.op("fillrect")
	r.rects = append(r.rects, rc)
}

func (r *recorder) StrokeRect(rc Rect, s Stroke) {
	r.op("strokerect")
	r.rects = append(r.rects, rc)
}

func (r *recorder) FillCircle(center Point, radius float64, c Color) {
	r.op("fillcircle")
	r.circles = append(r.circles, circleCall{center, radius, c})
}

func (r *recorder) LinearGradient(rc Rect, from, to Point, stops []GradStop) {
	r.op("lineargradient")
}

func (r *recorder) RadialGradient(center Point, radius float64, stops []GradStop) {
	r.op("radialgradient")
}

func (r *recorder) PushClip(rc Rect) {
	r.op("pushclip")
	r.clipDepth++
}

func (r *recorder) PopClip() {
	r.op("popclip")
	r.clipDepth--
}

func (r *recorder) PushRotate(center Point, angle float64) {
	r.op("pushrotate")
	r.tfDepth++
}

func (r *recorder) PopTransform() {
	r.op("poptransform")
	r.tfDepth--
}

func (r *recorder) Text(s string, at Point, style TextStyle) {
	r.op("text")
	r.texts = append(r.texts, s)
}

func (r *recorder) SetShadow(c Color, blur float64) { r.op("setshadow") }
func (r *recorder) ClearShadow()                    { r.op("clearshadow") }

func (r *recorder) hasText(sub string) bool {
	for _, s := range r.texts {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (r *recorder) count(name string) int {
	n := 0
	for _, o := range r.ops {
		if o == name {
			n++
		}
	}
	return n
}
