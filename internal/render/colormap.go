package render

import colorful "github.com/lucasb-eyer/go-colorful"

// ColorStop anchors a colormap color at a domain value.
type ColorStop struct {
	At float64
	C  Color
}

// Colormap maps a scalar to a color by piecewise interpolation in HSV
// space between stops. Values outside the stop domain clamp to the end
// colors, so the map is total.
type Colormap struct {
	stops []ColorStop
}

// NewColormap builds a map from stops ordered by At.
func NewColormap(stops ...ColorStop) Colormap {
	return Colormap{stops: stops}
}

// At returns the color for v.
func (cm Colormap) At(v float64) Color {
	if len(cm.stops) == 0 {
		return Color{255, 255, 255, 255}
	}
	if v <= cm.stops[0].At {
		return cm.stops[0].C
	}
	last := cm.stops[len(cm.stops)-1]
	if v >= last.At {
		return last.C
	}
	for i := 1; i < len(cm.stops); i++ {
		if v > cm.stops[i].At {
			continue
		}
		a, b := cm.stops[i-1], cm.stops[i]
		span := b.At - a.At
		t := 0.5
		if span > 0 {
			t = (v - a.At) / span
		}
		blended := toColorful(a.C).BlendHsv(toColorful(b.C), t)
		return fromColorful(blended, 255)
	}
	return last.C
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color, alpha uint8) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b, alpha}
}

// Thermal maps 0..1 from cold blue through amber to hot red, the usual
// temperature band coloring.
func Thermal() Colormap {
	return NewColormap(
		ColorStop{0, Color{40, 80, 220, 255}},
		ColorStop{0.5, Color{230, 160, 50, 255}},
		ColorStop{1, Color{235, 50, 35, 255}},
	)
}

// Density maps 0..1 from near-background to the accent color, used for
// concentration and intensity bands.
func Density() Colormap {
	return NewColormap(
		ColorStop{0, Color{30, 34, 50, 255}},
		ColorStop{1, Color{122, 162, 247, 255}},
	)
}

// Spectral maps a visible-light wavelength in nanometers (380..740) to
// an approximate display color.
func Spectral() Colormap {
	return NewColormap(
		ColorStop{380, Color{110, 0, 160, 255}},
		ColorStop{450, Color{60, 60, 240, 255}},
		ColorStop{500, Color{0, 200, 160, 255}},
		ColorStop{550, Color{80, 220, 40, 255}},
		ColorStop{590, Color{240, 220, 0, 255}},
		ColorStop{640, Color{250, 120, 0, 255}},
		ColorStop{740, Color{220, 0, 0, 255}},
	)
}
