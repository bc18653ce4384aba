package render

import (
	"fmt"
)

// Row pairs an output key with the label shown for it.
type Row struct {
	Key   string
	Label string
}

// Chip is a small status badge. The sample's compute hook selects one
// by setting Outputs.Status to a key of the config's Chips table.
type Chip struct {
	Text string
	Fg   Color
	Bg   Color
}

// ReadoutConfig declares a numeric panel: labelled rows on the left,
// formatted values on the right, optional status chips underneath.
type ReadoutConfig struct {
	Title string
	Rows  []Row
	Chips map[string]Chip
}

// Readout renders formatted output values. It never shows raw float
// noise: values go through each output's own format, and an invalid
// frame shows dashes with a warning chip instead of stale numbers.
type Readout struct {
	target Target
	cfg    ReadoutConfig
}

func NewReadout(t Target, cfg ReadoutConfig) (*Readout, error) {
	if len(cfg.Rows) == 0 {
		return nil, fmt.Errorf("%w: readout needs at least one row", ErrBadConfig)
	}
	return &Readout{target: t, cfg: cfg}, nil
}

func (r *Readout) Kind() string { return "readout" }

const (
	readoutRowH  = 24.0
	readoutPad   = 12.0
	readoutChipH = 20.0
)

func (r *Readout) Paint(f *Frame) {
	pal := DefaultPalette
	w, h := r.target.Size()
	r.target.Clear(pal.Background)
	r.target.FillRect(Rect{X: 2, Y: 2, W: w - 4, H: h - 4}, pal.Panel)
	r.target.StrokeRect(Rect{X: 2, Y: 2, W: w - 4, H: h - 4}, Stroke{Color: pal.Axis, Width: 1})

	y := readoutPad
	if r.cfg.Title != "" {
		r.target.Text(r.cfg.Title, Point{X: w / 2, Y: y},
			TextStyle{Align: AlignCenter, Baseline: BaselineTop, Color: pal.Text})
		y += readoutRowH
	}

	out := f.Outputs
	for _, row := range r.cfg.Rows {
		r.target.Text(row.Label, Point{X: readoutPad, Y: y},
			TextStyle{Align: AlignLeft, Baseline: BaselineTop, Color: pal.Muted})
		val := "—"
		if out != nil && !out.Invalid {
			if _, ok := out.Get(row.Key); ok {
				val = out.Display(row.Key)
			}
		}
		r.target.Text(val, Point{X: w - readoutPad, Y: y},
			TextStyle{Align: AlignRight, Baseline: BaselineTop, Color: pal.Text})
		y += readoutRowH
	}

	y += readoutPad / 2
	x := readoutPad
	if out != nil && out.Invalid {
		x = r.paintChip(x, y, Chip{Text: "out of domain", Fg: pal.Background, Bg: pal.Warning})
	}
	if out != nil && out.Status != "" {
		chip, ok := r.cfg.Chips[out.Status]
		if !ok {
			chip = Chip{Text: out.Status, Fg: pal.Text, Bg: pal.Grid}
		}
		x = r.paintChip(x, y, chip)
	}
	if f.State != nil && f.State.Stalled {
		r.paintChip(x, y, Chip{Text: "stalled", Fg: pal.Background, Bg: pal.Error})
	}
}

func (r *Readout) paintChip(x, y float64, c Chip) float64 {
	// crude text metric, good enough for chip sizing on every host
	cw := float64(len([]rune(c.Text)))*7 + 12
	r.target.FillRect(Rect{X: x, Y: y, W: cw, H: readoutChipH}, c.Bg)
	r.target.Text(c.Text, Point{X: x + cw/2, Y: y + readoutChipH/2},
		TextStyle{Align: AlignCenter, Baseline: BaselineMiddle, Color: c.Fg})
	return x + cw + 6
}
