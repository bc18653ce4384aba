// Package render holds the five renderer kinds samples compose their
// views from, and the drawing target abstraction hosts implement.
//
// Key types:
//   - [Target]: primitive 2D surface, top-left origin, y-down
//   - [Frame]: the per-tick snapshot renderers paint from
//   - [Scale]: data-to-pixel mapping with padding and log support
//   - [Diagram], [Plot], [Particles], [TimeSeries], [Readout]: renderers
//
// Renderers never read pixels back and never mutate the frame they are
// given.
package render

import "github.com/san-kum/vizlab/internal/model"

// Point and Rect are shared with the model's geometry so samples can
// hand coordinates across without conversion.
type (
	Point = model.Point
	Rect  = model.Rect
)

// Color is an 8-bit RGBA color. Hosts translate it to their own space.
type Color struct {
	R, G, B, A uint8
}

// WithAlpha returns the color with a different alpha.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Stroke styles a line: color, width in logical pixels, and an optional
// dash pattern of on/off run lengths.
type Stroke struct {
	Color Color
	Width float64
	Dash  []float64
}

// GradStop is one stop of a gradient, At in [0, 1].
type GradStop struct {
	At float64
	C  Color
}

// Align places text horizontally relative to its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Baseline places text vertically relative to its anchor.
type Baseline int

const (
	BaselineAlphabetic Baseline = iota
	BaselineTop
	BaselineMiddle
	BaselineBottom
)

// TextStyle styles a text draw. Zero Size means the host's default.
type TextStyle struct {
	Align    Align
	Baseline Baseline
	Size     float64
	Color    Color
}

// Target is a raster surface with logical coordinates: hosts map one
// logical unit to dpr physical pixels so no renderer math ever sees the
// backing scale. Layout is top-left origin, y-down; angles are radians,
// clockwise on screen.
//
// Hosts with reduced fidelity (a terminal cell grid) approximate
// gradients and shadows rather than reject them; every operation must
// be accepted.
type Target interface {
	// Size returns the logical width and height.
	Size() (w, h float64)
	// DPR returns the device pixel ratio of the backing store.
	DPR() float64
	// SetBackingScale resizes the backing store for a new pixel ratio.
	SetBackingScale(dpr float64)

	Clear(c Color)
	Line(a, b Point, s Stroke)
	Polyline(pts []Point, s Stroke)
	// Arc strokes a circular arc from angle start to end around center.
	Arc(center Point, r, start, end float64, s Stroke)
	FillPath(pts []Point, c Color)
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, s Stroke)
	FillCircle(center Point, radius float64, c Color)
	LinearGradient(r Rect, from, to Point, stops []GradStop)
	RadialGradient(center Point, radius float64, stops []GradStop)

	// PushClip intersects the clip region with r until PopClip.
	PushClip(r Rect)
	PopClip()
	// PushRotate rotates subsequent draws by angle around center until
	// PopTransform.
	PushRotate(center Point, angle float64)
	PopTransform()

	Text(s string, at Point, st TextStyle)

	// SetShadow applies a glow to subsequent fills until ClearShadow.
	SetShadow(c Color, blur float64)
	ClearShadow()
}
