// Package export renders frames to files. The SVG target records every
// drawing operation as a vector element, so snapshots scale cleanly and
// diff well.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/vizlab/internal/render"
)

// SVG is a render.Target that accumulates an SVG document. Clear starts
// a fresh document; WriteTo emits it. The zero value is not usable, use
// NewSVG.
type SVG struct {
	w, h float64
	dpr  float64

	body   strings.Builder
	defs   strings.Builder
	defSeq int
	groups []string
	filter string
}

func NewSVG(w, h float64) *SVG {
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 360
	}
	return &SVG{w: w, h: h, dpr: 1}
}

func (s *SVG) Size() (float64, float64) { return s.w, s.h }
func (s *SVG) DPR() float64             { return s.dpr }

// SetBackingScale is kept for the Target contract; vector output has no
// backing store to rescale.
func (s *SVG) SetBackingScale(dpr float64) {
	if dpr > 0 {
		s.dpr = dpr
	}
}

func (s *SVG) Clear(c render.Color) {
	s.body.Reset()
	s.defs.Reset()
	s.defSeq = 0
	s.groups = s.groups[:0]
	s.filter = ""
	fmt.Fprintf(&s.body, "<rect width=\"100%%\" height=\"100%%\" fill=%q/>\n", svgColor(c))
}

func (s *SVG) Line(a, b render.Point, st render.Stroke) {
	fmt.Fprintf(&s.body, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"%s/>\n",
		a.X, a.Y, b.X, b.Y, strokeAttrs(st))
}

func (s *SVG) Polyline(pts []render.Point, st render.Stroke) {
	if len(pts) < 2 {
		return
	}
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.body, "<polyline points=%q fill=\"none\"%s/>\n", b.String(), strokeAttrs(st))
}

func (s *SVG) Arc(center render.Point, r, start, end float64, st render.Stroke) {
	span := end - start
	if math.Abs(span) >= 2*math.Pi-1e-9 {
		fmt.Fprintf(&s.body, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\"%s/>\n",
			center.X, center.Y, r, strokeAttrs(st))
		return
	}
	sin0, cos0 := math.Sincos(start)
	sin1, cos1 := math.Sincos(end)
	large, sweep := 0, 0
	if math.Abs(span) > math.Pi {
		large = 1
	}
	if span > 0 {
		sweep = 1
	}
	fmt.Fprintf(&s.body, "<path d=\"M %.2f %.2f A %.2f %.2f 0 %d %d %.2f %.2f\" fill=\"none\"%s/>\n",
		center.X+r*cos0, center.Y+r*sin0, r, r, large, sweep,
		center.X+r*cos1, center.Y+r*sin1, strokeAttrs(st))
}

func (s *SVG) FillPath(pts []render.Point, c render.Color) {
	if len(pts) < 3 {
		return
	}
	var b strings.Builder
	for i, p := range pts {
		cmd := 'L'
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(&b, "%c %.2f %.2f ", cmd, p.X, p.Y)
	}
	b.WriteByte('Z')
	fmt.Fprintf(&s.body, "<path d=%q fill=%q%s%s fill-rule=\"evenodd\"/>\n",
		b.String(), svgColor(c), opacityAttr("fill-opacity", c.A), s.filterAttr())
}

func (s *SVG) FillRect(r render.Rect, c render.Color) {
	fmt.Fprintf(&s.body, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=%q%s%s/>\n",
		r.X, r.Y, r.W, r.H, svgColor(c), opacityAttr("fill-opacity", c.A), s.filterAttr())
}

func (s *SVG) StrokeRect(r render.Rect, st render.Stroke) {
	fmt.Fprintf(&s.body, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"none\"%s/>\n",
		r.X, r.Y, r.W, r.H, strokeAttrs(st))
}

func (s *SVG) FillCircle(center render.Point, radius float64, c render.Color) {
	fmt.Fprintf(&s.body, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=%q%s%s/>\n",
		center.X, center.Y, radius, svgColor(c), opacityAttr("fill-opacity", c.A), s.filterAttr())
}

func (s *SVG) LinearGradient(r render.Rect, from, to render.Point, stops []render.GradStop) {
	s.defSeq++
	id := fmt.Sprintf("grad%d", s.defSeq)
	fmt.Fprintf(&s.defs,
		"<linearGradient id=%q gradientUnits=\"userSpaceOnUse\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\">\n",
		id, from.X, from.Y, to.X, to.Y)
	writeStops(&s.defs, stops)
	s.defs.WriteString("</linearGradient>\n")
	fmt.Fprintf(&s.body, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"url(#%s)\"/>\n",
		r.X, r.Y, r.W, r.H, id)
}

func (s *SVG) RadialGradient(center render.Point, radius float64, stops []render.GradStop) {
	s.defSeq++
	id := fmt.Sprintf("grad%d", s.defSeq)
	fmt.Fprintf(&s.defs,
		"<radialGradient id=%q gradientUnits=\"userSpaceOnUse\" cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\">\n",
		id, center.X, center.Y, radius)
	writeStops(&s.defs, stops)
	s.defs.WriteString("</radialGradient>\n")
	fmt.Fprintf(&s.body, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"url(#%s)\"/>\n",
		center.X, center.Y, radius, id)
}

func writeStops(w *strings.Builder, stops []render.GradStop) {
	for _, st := range stops {
		fmt.Fprintf(w, "<stop offset=\"%.1f%%\" stop-color=%q%s/>\n",
			st.At*100, svgColor(st.C), opacityAttr("stop-opacity", st.C.A))
	}
}

func (s *SVG) PushClip(r render.Rect) {
	s.defSeq++
	id := fmt.Sprintf("clip%d", s.defSeq)
	fmt.Fprintf(&s.defs, "<clipPath id=%q><rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\"/></clipPath>\n",
		id, r.X, r.Y, r.W, r.H)
	fmt.Fprintf(&s.body, "<g clip-path=\"url(#%s)\">\n", id)
	s.groups = append(s.groups, "clip")
}

func (s *SVG) PopClip() { s.closeGroup("clip") }

func (s *SVG) PushRotate(center render.Point, angle float64) {
	fmt.Fprintf(&s.body, "<g transform=\"rotate(%.3f %.2f %.2f)\">\n",
		angle*180/math.Pi, center.X, center.Y)
	s.groups = append(s.groups, "rotate")
}

func (s *SVG) PopTransform() { s.closeGroup("rotate") }

func (s *SVG) closeGroup(kind string) {
	n := len(s.groups)
	if n == 0 || s.groups[n-1] != kind {
		return
	}
	s.groups = s.groups[:n-1]
	s.body.WriteString("</g>\n")
}

func (s *SVG) Text(str string, at render.Point, st render.TextStyle) {
	size := st.Size
	if size <= 0 {
		size = 12
	}
	anchor := ""
	switch st.Align {
	case render.AlignCenter:
		anchor = " text-anchor=\"middle\""
	case render.AlignRight:
		anchor = " text-anchor=\"end\""
	}
	baseline := ""
	switch st.Baseline {
	case render.BaselineTop:
		baseline = " dominant-baseline=\"hanging\""
	case render.BaselineMiddle:
		baseline = " dominant-baseline=\"middle\""
	case render.BaselineBottom:
		baseline = " dominant-baseline=\"text-after-edge\""
	}
	fmt.Fprintf(&s.body,
		"<text x=\"%.2f\" y=\"%.2f\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%.1f\" fill=%q%s%s%s>%s</text>\n",
		at.X, at.Y, size, svgColor(st.Color), opacityAttr("fill-opacity", st.Color.A),
		anchor, baseline, escapeText(str))
}

// SetShadow maps the glow onto an feDropShadow filter applied to the
// fills that follow.
func (s *SVG) SetShadow(c render.Color, blur float64) {
	s.defSeq++
	id := fmt.Sprintf("glow%d", s.defSeq)
	fmt.Fprintf(&s.defs,
		"<filter id=%q x=\"-50%%\" y=\"-50%%\" width=\"200%%\" height=\"200%%\">"+
			"<feDropShadow dx=\"0\" dy=\"0\" stdDeviation=\"%.2f\" flood-color=%q flood-opacity=\"%.3f\"/></filter>\n",
		id, blur/2, svgColor(c), float64(c.A)/255)
	s.filter = id
}

func (s *SVG) ClearShadow() { s.filter = "" }

func (s *SVG) filterAttr() string {
	if s.filter == "" {
		return ""
	}
	return fmt.Sprintf(" filter=\"url(#%s)\"", s.filter)
}

// WriteTo assembles the document. Unbalanced groups are closed so the
// output stays well-formed even after a renderer panic.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var doc strings.Builder
	fmt.Fprintf(&doc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		s.w, s.h, s.w, s.h)
	if s.defs.Len() > 0 {
		doc.WriteString("<defs>\n")
		doc.WriteString(s.defs.String())
		doc.WriteString("</defs>\n")
	}
	doc.WriteString(s.body.String())
	for range s.groups {
		doc.WriteString("</g>\n")
	}
	doc.WriteString("</svg>\n")
	n, err := io.WriteString(w, doc.String())
	return int64(n), err
}

func svgColor(c render.Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func opacityAttr(name string, a uint8) string {
	if a == 255 {
		return ""
	}
	return fmt.Sprintf(" %s=\"%.3f\"", name, float64(a)/255)
}

func strokeAttrs(st render.Stroke) string {
	w := st.Width
	if w <= 0 {
		w = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, " stroke=%q stroke-width=\"%.2f\" stroke-linecap=\"round\"", svgColor(st.Color), w)
	b.WriteString(opacityAttr("stroke-opacity", st.Color.A))
	if len(st.Dash) > 0 {
		b.WriteString(" stroke-dasharray=\"")
		for i, d := range st.Dash {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%g", d)
		}
		b.WriteByte('"')
	}
	return b.String()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }
