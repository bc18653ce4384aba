// Package model defines what a sample computes: derived outputs, the
// mutable simulation state of dynamic samples, and the supporting
// entities state is made of.
//
// Key types:
//   - [Def]: an analytic or dynamic model as a compute/advance/reset triple
//   - [Outputs]: insertion-ordered derived outputs with an invalid flag
//   - [State]: per-sample simulation state with its own RNG
//   - [ParticleSystem]: particle census with the one-spawn-per-tick rule
//   - [History]: bounded trailing sample buffer for time-series views
//   - [Running]: streaming mean/variance accumulator
//
// Analytic models are pure: compute depends only on the parameter
// snapshot. Dynamic models thread State through advance and expose a
// snapshot of it via compute.
package model
