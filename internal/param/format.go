package param

import (
	"math"
	"strconv"
	"strings"
)

// Notation selects how a value is rendered.
type Notation int

const (
	// NotationFixed renders with a fixed number of decimals.
	NotationFixed Notation = iota
	// NotationScientific renders as m x 10^e.
	NotationScientific
	// NotationSI renders with an automatic SI prefix (fA .. TA).
	NotationSI
)

// Format is a display hint attached to parameters and derived outputs.
// Display is total: any float64, including zero, NaN and infinities,
// produces a printable string.
type Format struct {
	Notation Notation
	Decimals int
	Unit     string
}

// Fixed returns a fixed-decimals format.
func Fixed(decimals int, unit string) Format {
	return Format{Notation: NotationFixed, Decimals: decimals, Unit: unit}
}

// Scientific returns an m x 10^e format.
func Scientific(decimals int, unit string) Format {
	return Format{Notation: NotationScientific, Decimals: decimals, Unit: unit}
}

// SI returns an automatic SI-prefix format.
func SI(decimals int, unit string) Format {
	return Format{Notation: NotationSI, Decimals: decimals, Unit: unit}
}

// prefixes for 10^-15 .. 10^12, indexed by exponent/3 + 5.
var siPrefixes = [...]string{"f", "p", "n", "μ", "m", "", "k", "M", "G", "T"}

// Display renders v according to the format. It never returns a string
// containing "NaN": undefined values render as a dash.
func (f Format) Display(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	if math.IsInf(v, 1) {
		return f.withUnit("∞")
	}
	if math.IsInf(v, -1) {
		return f.withUnit("-∞")
	}
	switch f.Notation {
	case NotationScientific:
		return f.withUnit(scientificString(v, f.Decimals))
	case NotationSI:
		return f.siString(v)
	default:
		return f.withUnit(strconv.FormatFloat(v, 'f', f.Decimals, 64))
	}
}

func (f Format) withUnit(s string) string {
	if f.Unit == "" {
		return s
	}
	return s + " " + f.Unit
}

func scientificString(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'e', decimals, 64)
	i := strings.IndexByte(s, 'e')
	mantissa := s[:i]
	exp, _ := strconv.Atoi(s[i+1:])
	return mantissa + "×10^" + strconv.Itoa(exp)
}

func (f Format) siString(v float64) string {
	if v == 0 {
		return f.withUnit(strconv.FormatFloat(0, 'f', f.Decimals, 64))
	}
	e := int(math.Floor(math.Log10(math.Abs(v)) / 3))
	if e < -5 {
		e = -5
	}
	if e > 4 {
		e = 4
	}
	scaled := v / math.Pow(10, float64(3*e))
	s := strconv.FormatFloat(scaled, 'f', f.Decimals, 64)
	if f.Unit == "" && siPrefixes[e+5] == "" {
		return s
	}
	return s + " " + siPrefixes[e+5] + f.Unit
}
