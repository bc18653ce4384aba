package render

import "math"

// Padding is the pixel inset between the target edge and the data area.
type Padding struct {
	L, T, R, B float64
}

// Scale maps data coordinates to logical pixels: affine for linear
// axes, affine on log10 for logarithmic ones. Y grows downward on
// screen, so YMin lands at the bottom edge of the data area.
type Scale struct {
	XMin, XMax float64
	YMin, YMax float64
	LogX, LogY bool
	Pad        Padding

	rect Rect
}

// Fit recomputes the data area for a target size. Called once per paint
// so resize needs no extra plumbing.
func (sc *Scale) Fit(w, h float64) {
	sc.rect = Rect{
		X: sc.Pad.L,
		Y: sc.Pad.T,
		W: math.Max(1, w-sc.Pad.L-sc.Pad.R),
		H: math.Max(1, h-sc.Pad.T-sc.Pad.B),
	}
}

// Rect returns the data area in logical pixels.
func (sc *Scale) Rect() Rect { return sc.rect }

func axisFrac(v, lo, hi float64, logAxis bool) float64 {
	if logAxis {
		if v <= 0 {
			v = math.SmallestNonzeroFloat64
		}
		v, lo, hi = math.Log10(v), math.Log10(lo), math.Log10(hi)
	}
	span := hi - lo
	if span == 0 {
		return 0.5
	}
	return (v - lo) / span
}

// X maps a data x to a pixel x.
func (sc *Scale) X(v float64) float64 {
	return sc.rect.X + axisFrac(v, sc.XMin, sc.XMax, sc.LogX)*sc.rect.W
}

// Y maps a data y to a pixel y.
func (sc *Scale) Y(v float64) float64 {
	return sc.rect.Y + sc.rect.H - axisFrac(v, sc.YMin, sc.YMax, sc.LogY)*sc.rect.H
}

// Pt maps a data point to pixels.
func (sc *Scale) Pt(x, y float64) Point {
	return Point{X: sc.X(x), Y: sc.Y(y)}
}

// InvX maps a pixel x back to data. Hosts use it for pointer probes.
func (sc *Scale) InvX(px float64) float64 {
	if sc.rect.W == 0 {
		return sc.XMin
	}
	t := (px - sc.rect.X) / sc.rect.W
	if sc.LogX {
		lo, hi := math.Log10(sc.XMin), math.Log10(sc.XMax)
		return math.Pow(10, lo+t*(hi-lo))
	}
	return sc.XMin + t*(sc.XMax-sc.XMin)
}

// Ticks chooses tick positions for [lo, hi] from the {1, 2, 5}·10^n
// table, at most maxTicks of them.
func Ticks(lo, hi float64, maxTicks int) []float64 {
	if maxTicks < 2 {
		maxTicks = 2
	}
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return []float64{lo}
	}
	raw := span / float64(maxTicks-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	first := math.Ceil(lo/step) * step
	var ticks []float64
	for v := first; v <= hi+step*1e-9; v += step {
		// snap near-zero accumulation error
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// LogTicks returns decade ticks for [lo, hi], both strictly positive.
func LogTicks(lo, hi float64) []float64 {
	if lo <= 0 || hi <= lo {
		return nil
	}
	var ticks []float64
	for e := math.Ceil(math.Log10(lo)); e <= math.Floor(math.Log10(hi))+1e-9; e++ {
		ticks = append(ticks, math.Pow(10, e))
	}
	return ticks
}

// PadRange widens [lo, hi] by frac on both ends, with a fallback unit
// span for degenerate input. Auto-scaled axes use frac = 0.2.
func PadRange(lo, hi, frac float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 1
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo
	if span == 0 {
		return lo - 1, hi + 1
	}
	return lo - span*frac, hi + span*frac
}
