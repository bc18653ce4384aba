// Package engine drives samples: a frame scheduler with clamped deltas,
// a speed multiplier and host-driven ticking.
package engine

import (
	"context"
	"time"
)

// DtCap bounds the per-frame delta so a throttled host cannot inject a
// huge simulation jump.
const DtCap = 0.1

// Clock supplies the scheduler's notion of now. The system clock is the
// default; tests inject their own.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TickFunc receives now (seconds since first start), dt (speed-scaled
// seconds since the previous tick, clamped) and the frame counter.
type TickFunc func(now, dt float64, frame uint64)

// Scheduler invokes registered callbacks once per host frame, in
// registration order. It owns no domain data.
//
// Scheduler is not safe for concurrent use; callers drive it from a
// single goroutine.
type Scheduler struct {
	clock     Clock
	callbacks []TickFunc

	running bool
	fresh   bool // next tick is the first after Start
	base    time.Time
	prev    time.Time
	frame   uint64
	speed   float64
}

// NewScheduler returns a stopped scheduler on the system clock with
// speed 1.
func NewScheduler() *Scheduler {
	return &Scheduler{clock: systemClock{}, speed: 1}
}

// NewSchedulerWithClock returns a scheduler on the given clock.
func NewSchedulerWithClock(c Clock) *Scheduler {
	return &Scheduler{clock: c, speed: 1}
}

// Register appends a callback. Callbacks cannot be removed; a sample
// that goes away stops the scheduler that drives it.
func (s *Scheduler) Register(fn TickFunc) {
	s.callbacks = append(s.callbacks, fn)
}

// Start enables ticking. The first tick after Start delivers dt = 0, so
// a pause interval never inflates the next delta.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.fresh = true
}

// Stop halts callbacks. A callback that is already running completes;
// later callbacks of the same tick do not start.
func (s *Scheduler) Stop() {
	s.running = false
}

// IsRunning reports whether ticks are being delivered.
func (s *Scheduler) IsRunning() bool { return s.running }

// SetSpeed sets the simulation speed multiplier. Negative values clamp
// to zero; zero is a valid pause that keeps the view animating.
func (s *Scheduler) SetSpeed(v float64) {
	if v < 0 || v != v {
		v = 0
	}
	s.speed = v
}

// Speed returns the current multiplier.
func (s *Scheduler) Speed() float64 { return s.speed }

// Frame returns the next frame number to be delivered. The counter
// never resets, so renderers always observe monotone frames.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Tick delivers one frame to all callbacks. The host calls this at its
// preferred rate; a stopped scheduler ignores the call.
func (s *Scheduler) Tick() {
	if !s.running {
		return
	}
	now := s.clock.Now()
	if s.base.IsZero() {
		s.base = now
	}
	var dt float64
	if s.fresh {
		s.fresh = false
	} else {
		dt = now.Sub(s.prev).Seconds()
		if dt < 0 {
			dt = 0
		}
		if dt > DtCap {
			dt = DtCap
		}
	}
	s.prev = now
	s.dispatch(now.Sub(s.base).Seconds(), dt*s.speed)
}

// Step delivers a single frame of the given nominal delta while the
// scheduler is stopped. Hosts use it for single-step debugging.
func (s *Scheduler) Step(dt float64) {
	if s.running || dt < 0 {
		return
	}
	now := s.clock.Now()
	if s.base.IsZero() {
		s.base = now
	}
	s.prev = now
	s.fresh = true
	s.dispatch(now.Sub(s.base).Seconds(), dt*s.speed)
}

func (s *Scheduler) dispatch(now, dt float64) {
	frame := s.frame
	s.frame++
	wasRunning := s.running
	for _, fn := range s.callbacks {
		// Stop called mid-tick prevents the remaining callbacks
		if wasRunning && !s.running {
			return
		}
		fn(now, dt, frame)
	}
}

// Run ticks the scheduler from a wall-clock ticker until ctx is done or
// the scheduler is stopped. It is the headless driving loop; interactive
// hosts call Tick from their own frame callbacks instead.
func (s *Scheduler) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	s.Start()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-ticker.C:
			if !s.running {
				return nil
			}
			s.Tick()
		}
	}
}
