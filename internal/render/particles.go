package render

import (
	"fmt"
	"math"

	"github.com/san-kum/vizlab/internal/model"
)

// ParticlesConfig declares a particle view. World is the region of the
// sample's particle coordinate space shown by the target; the mask and
// all particle positions live in that space.
type ParticlesConfig struct {
	System func(f *Frame) *model.ParticleSystem
	World  Rect
	Color  Color
	// ColorFor overrides Color per particle, e.g. speed tinting.
	ColorFor func(f *Frame, p model.Particle) Color
	// Outline draws the mask boundary.
	Outline bool
	// Walls are scene boundaries painted for orientation only; the
	// model owns the collision response.
	Walls []model.Segment
}

// Particles paints a particle system. It draws only: spawn, despawn and
// motion belong to the sample's advance, so a paused model shows a
// frozen cloud.
type Particles struct {
	target Target
	cfg    ParticlesConfig
}

// NewParticles validates the config and returns the renderer.
func NewParticles(t Target, cfg ParticlesConfig) (*Particles, error) {
	if cfg.System == nil {
		return nil, fmt.Errorf("%w: particle view needs a system source", ErrBadConfig)
	}
	if cfg.World.W <= 0 || cfg.World.H <= 0 {
		return nil, fmt.Errorf("%w: particle view needs a world rect", ErrBadConfig)
	}
	if cfg.Color.A == 0 {
		cfg.Color = DefaultPalette.Accent
	}
	return &Particles{target: t, cfg: cfg}, nil
}

func (pv *Particles) Kind() string { return "particles" }

func (pv *Particles) Paint(f *Frame) {
	w, h := pv.target.Size()
	sx := w / pv.cfg.World.W
	sy := h / pv.cfg.World.H
	toPx := func(p Point) Point {
		return Point{X: (p.X - pv.cfg.World.X) * sx, Y: (p.Y - pv.cfg.World.Y) * sy}
	}

	pv.target.Clear(DefaultPalette.Background)

	ps := pv.cfg.System(f)
	if ps == nil {
		return
	}

	if pv.cfg.Outline {
		m := ps.Mask()
		a := toPx(Point{X: m.X, Y: m.Y})
		b := toPx(Point{X: m.X + m.W, Y: m.Y + m.H})
		pv.target.StrokeRect(Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y},
			Stroke{Color: DefaultPalette.Axis, Width: 1.5})
	}
	for _, wall := range pv.cfg.Walls {
		pv.target.Line(toPx(wall.A), toPx(wall.B),
			Stroke{Color: DefaultPalette.Axis, Width: 2})
	}

	scale := math.Min(sx, sy)
	for _, p := range ps.Particles {
		col := pv.cfg.Color
		if pv.cfg.ColorFor != nil {
			col = pv.cfg.ColorFor(f, p)
		}
		r := p.Size * scale
		if r <= 0 {
			r = 2
		}
		pv.target.FillCircle(toPx(p.Pos), r, col)
	}
}
