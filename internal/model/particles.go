package model

import (
	"math"
	"math/rand"

	"github.com/san-kum/vizlab/internal/numeric"
)

// DefaultCeiling caps particle counts so a heavy sample cannot blow the
// frame budget.
const DefaultCeiling = 300

// Particle is one element of a ParticleSystem. Life is the remaining
// lifetime in seconds; zero means unbounded.
type Particle struct {
	Pos   Point
	Vel   Point
	Size  float64
	Phase float64
	Life  float64
}

// SpawnFunc produces a new particle inside the system's mask.
type SpawnFunc func(rng *rand.Rand, mask Rect) Particle

// ParticleSystem is the census layer over a particle slice: it converges
// the population toward a target count by at most one spawn or one
// removal per tick, and keeps every particle inside the mask. Motion
// rules stay with the sample's advance function.
type ParticleSystem struct {
	Particles []Particle

	target  int
	ceiling int
	mask    Rect
	spawn   SpawnFunc
	rng     *rand.Rand
}

// NewParticleSystem returns an empty system with the default ceiling.
// A nil spawn places particles uniformly in the mask.
func NewParticleSystem(rng *rand.Rand, mask Rect, spawn SpawnFunc) *ParticleSystem {
	if spawn == nil {
		spawn = func(rng *rand.Rand, mask Rect) Particle {
			return Particle{Pos: Point{
				X: mask.X + rng.Float64()*mask.W,
				Y: mask.Y + rng.Float64()*mask.H,
			}}
		}
	}
	return &ParticleSystem{
		ceiling: DefaultCeiling,
		mask:    mask,
		spawn:   spawn,
		rng:     rng,
	}
}

// SetCeiling lowers or raises the hard cap. The target is re-clamped.
func (ps *ParticleSystem) SetCeiling(n int) {
	if n < 0 {
		n = 0
	}
	ps.ceiling = n
	ps.SetTarget(ps.target)
}

// SetTarget sets the desired population, clamped to [0, ceiling].
func (ps *ParticleSystem) SetTarget(n int) {
	if n < 0 {
		n = 0
	}
	if n > ps.ceiling {
		n = ps.ceiling
	}
	ps.target = n
}

func (ps *ParticleSystem) Target() int { return ps.target }
func (ps *ParticleSystem) Len() int    { return len(ps.Particles) }
func (ps *ParticleSystem) Mask() Rect  { return ps.mask }

// Tick converges the population by one step: one spawn when below
// target, one removal when above. Afterwards |len - target| has shrunk
// by one or is already at most one.
func (ps *ParticleSystem) Tick() {
	switch {
	case len(ps.Particles) < ps.target:
		ps.Particles = append(ps.Particles, ps.spawn(ps.rng, ps.mask))
	case len(ps.Particles) > ps.target:
		ps.Particles = ps.Particles[:len(ps.Particles)-1]
	}
}

// SetMask moves the mask. Particles left outside are nudged to the
// nearest inside point rather than respawned.
func (ps *ParticleSystem) SetMask(r Rect) {
	ps.mask = r
	for i := range ps.Particles {
		if !r.Contains(ps.Particles[i].Pos) {
			ps.Particles[i].Pos = r.Clamp(ps.Particles[i].Pos)
		}
	}
}

// BounceInRect advances p ballistically by dt and reflects it off the
// rectangle walls, flipping the crossed velocity component.
func BounceInRect(p *Particle, r Rect, dt float64) {
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
	if p.Pos.X < r.X {
		p.Pos.X = 2*r.X - p.Pos.X
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.X > r.X+r.W {
		p.Pos.X = 2*(r.X+r.W) - p.Pos.X
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.Y < r.Y {
		p.Pos.Y = 2*r.Y - p.Pos.Y
		p.Vel.Y = -p.Vel.Y
	}
	if p.Pos.Y > r.Y+r.H {
		p.Pos.Y = 2*(r.Y+r.H) - p.Pos.Y
		p.Vel.Y = -p.Vel.Y
	}
	// a single reflection can still land outside after extreme steps
	p.Pos = r.Clamp(p.Pos)
}

// WrapInRect advances p by dt and wraps it around the rectangle edges,
// adding brownian-like jitter to the crossing axis.
func WrapInRect(p *Particle, r Rect, rng *rand.Rand, jitter, dt float64) {
	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt
	wrapped := false
	for p.Pos.X < r.X {
		p.Pos.X += r.W
		wrapped = true
	}
	for p.Pos.X > r.X+r.W {
		p.Pos.X -= r.W
		wrapped = true
	}
	for p.Pos.Y < r.Y {
		p.Pos.Y += r.H
		wrapped = true
	}
	for p.Pos.Y > r.Y+r.H {
		p.Pos.Y -= r.H
		wrapped = true
	}
	if wrapped && jitter > 0 {
		p.Pos.Y = r.Clamp(Point{p.Pos.X, p.Pos.Y + jitter*numeric.Normal(rng)}).Y
	}
}

// RandomWalkStep displaces p by step*N(0,1) on each axis.
func RandomWalkStep(p *Particle, rng *rand.Rand, step float64) {
	p.Pos.X += step * numeric.Normal(rng)
	p.Pos.Y += step * numeric.Normal(rng)
}

// AdvectAlong moves p's phase along the path at the given speed and
// places it there, wrapping at the path end. Used for closed loops such
// as circuit current and pipe flow.
func AdvectAlong(p *Particle, path Polyline, speed, dt float64) {
	total := path.Length()
	if total <= 0 {
		return
	}
	p.Phase = math.Mod(p.Phase+speed*dt, total)
	if p.Phase < 0 {
		p.Phase += total
	}
	p.Pos = path.At(p.Phase)
}

// CollideWalls advances p toward proposed and reflects it about the
// first wall the motion crosses, mirroring both position and velocity.
// With no crossing, p moves to proposed.
func CollideWalls(p *Particle, proposed Point, walls []Segment) {
	for _, w := range walls {
		if !w.Crosses(p.Pos, proposed) {
			continue
		}
		n := w.Normal()
		p.Pos = w.Mirror(proposed)
		dot := p.Vel.Dot(n)
		p.Vel = p.Vel.Sub(n.Scale(2 * dot))
		return
	}
	p.Pos = proposed
}

// FunnelThrough advances p toward proposed; if the motion crosses the
// wall outside the opening, the particle is steered toward the opening
// center instead of passing through. Used for orifice plates.
func FunnelThrough(p *Particle, proposed Point, wall Segment, opening Segment) {
	if !wall.Crosses(p.Pos, proposed) {
		p.Pos = proposed
		return
	}
	if opening.Crosses(p.Pos, proposed) {
		p.Pos = proposed
		return
	}
	gate := opening.A.Add(opening.B).Scale(0.5)
	dir := gate.Sub(p.Pos)
	dist := dir.Norm()
	if dist == 0 {
		p.Pos = gate
		return
	}
	step := proposed.Sub(p.Pos).Norm()
	p.Pos = p.Pos.Add(dir.Scale(step / dist))
	speed := p.Vel.Norm()
	p.Vel = dir.Scale(speed / dist)
}
