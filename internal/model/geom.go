package model

import "math"

// Point is a position in logical pixel or data coordinates, y-down.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point      { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point      { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point  { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64    { return p.X*q.X + p.Y*q.Y }
func (p Point) Norm() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Clamp returns the nearest point inside r.
func (r Rect) Clamp(p Point) Point {
	if p.X < r.X {
		p.X = r.X
	}
	if p.X > r.X+r.W {
		p.X = r.X + r.W
	}
	if p.Y < r.Y {
		p.Y = r.Y
	}
	if p.Y > r.Y+r.H {
		p.Y = r.Y + r.H
	}
	return p
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
}

// Intersect returns the overlap of two rectangles; width or height is
// zero when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Polyline is an open polygonal path with precomputed cumulative arc
// lengths, so positions along it can be looked up by distance.
type Polyline struct {
	pts []Point
	cum []float64
}

func NewPolyline(pts ...Point) Polyline {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + pts[i].Sub(pts[i-1]).Norm()
	}
	return Polyline{pts: pts, cum: cum}
}

// Length returns the total arc length.
func (pl Polyline) Length() float64 {
	if len(pl.cum) == 0 {
		return 0
	}
	return pl.cum[len(pl.cum)-1]
}

// Points returns the underlying vertices.
func (pl Polyline) Points() []Point { return pl.pts }

// At returns the point at arc-length distance d from the start, clamped
// to the path ends.
func (pl Polyline) At(d float64) Point {
	if len(pl.pts) == 0 {
		return Point{}
	}
	if len(pl.pts) == 1 || d <= 0 {
		return pl.pts[0]
	}
	total := pl.Length()
	if d >= total {
		return pl.pts[len(pl.pts)-1]
	}
	// find the segment containing d
	i := 1
	for pl.cum[i] < d {
		i++
	}
	seg := pl.cum[i] - pl.cum[i-1]
	if seg == 0 {
		return pl.pts[i]
	}
	t := (d - pl.cum[i-1]) / seg
	return pl.pts[i-1].Lerp(pl.pts[i], t)
}

// Segment is a wall or boundary piece particles can reflect off.
type Segment struct {
	A, B Point
}

// Normal returns the unit normal of the segment.
func (sg Segment) Normal() Point {
	d := sg.B.Sub(sg.A)
	n := d.Norm()
	if n == 0 {
		return Point{}
	}
	return Point{-d.Y / n, d.X / n}
}

// Mirror reflects p about the segment's infinite line.
func (sg Segment) Mirror(p Point) Point {
	d := sg.B.Sub(sg.A)
	n := d.Norm()
	if n == 0 {
		return p
	}
	u := Point{d.X / n, d.Y / n}
	v := p.Sub(sg.A)
	foot := sg.A.Add(u.Scale(v.Dot(u)))
	return foot.Scale(2).Sub(p)
}

// Crosses reports whether the motion from a to b crosses the segment.
func (sg Segment) Crosses(a, b Point) bool {
	d1 := orient(sg.A, sg.B, a)
	d2 := orient(sg.A, sg.B, b)
	d3 := orient(a, b, sg.A)
	d4 := orient(a, b, sg.B)
	return d1*d2 < 0 && d3*d4 < 0
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
