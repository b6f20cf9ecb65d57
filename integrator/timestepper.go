// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package integrator implements the implicit-midpoint TimeStepper and its
// discrete adjoint, matrix-free via master.MasterEq.
package integrator

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/master"
)

// State is the TimeStepper's state machine.
type State int

const (
	Ready State = iota
	Stepping
	Done
	AdjointReady
	AdjointStepping
	AdjointDone
)

// Stepper advances the vectorized Lindblad equation with the implicit
// midpoint rule and replays it in reverse for the discrete adjoint.
//
//  ρ_{n+1} = ρ_n + dt·M(t_{n+1/2})·(ρ_n+ρ_{n+1})/2
//
// implemented as the linear solve
//
//  (I - dt/2·M(t_{n+1/2}))·ρ_{n+1} = (I + dt/2·M(t_{n+1/2}))·ρ_n
type Stepper struct {
	Eq    *master.MasterEq
	Solve *LinSolve
	Ntime int
	T     float64
	dt    float64

	state       State
	checkpoints [][]float64 // ρ_0 .. ρ_ntime, one dense checkpoint per step
}

// New builds a Stepper over the given master equation.
func New(eq *master.MasterEq, solve *LinSolve, ntime int, T float64) *Stepper {
	if ntime < 1 {
		chk.Panic("integrator: ntime must be >= 1, got %d", ntime)
	}
	return &Stepper{Eq: eq, Solve: solve, Ntime: ntime, T: T, dt: T / float64(ntime), state: Ready}
}

// Dt returns the fixed step size T/ntime.
func (o *Stepper) Dt() float64 { return o.dt }

// midTime returns t_{n+1/2} for step n (0-indexed, advancing ρ_n -> ρ_{n+1}).
func (o *Stepper) midTime(n int) float64 {
	return (float64(n) + 0.5) * o.dt
}

// Forward integrates rho0 over [0,T], recording a dense checkpoint per step,
// and returns the full trajectory ρ_0..ρ_ntime.
func (o *Stepper) Forward(rho0 []float64) [][]float64 {
	if o.state != Ready {
		chk.Panic("integrator: Forward called from state %v, expected Ready", o.state)
	}
	o.state = Stepping
	o.checkpoints = make([][]float64, o.Ntime+1)
	rho := make([]float64, len(rho0))
	copy(rho, rho0)
	o.checkpoints[0] = append([]float64(nil), rho...)
	for n := 0; n < o.Ntime; n++ {
		rho = o.forwardStep(n, rho)
		o.checkpoints[n+1] = append([]float64(nil), rho...)
	}
	o.state = Done
	return o.checkpoints
}

// forwardStep advances ρ_n -> ρ_{n+1} via the implicit midpoint rule.
func (o *Stepper) forwardStep(n int, rhoN []float64) []float64 {
	tmid := o.midTime(n)
	o.Eq.Assemble(tmid)
	gamma := o.dt / 2

	// right-hand side b = (I + γM)ρ_n
	Mrho := make([]float64, len(rhoN))
	o.Eq.Apply(tmid, rhoN, Mrho)
	b := make([]float64, len(rhoN))
	for i := range b {
		b[i] = rhoN[i] + gamma*Mrho[i]
	}

	A := func(x, out []float64) { o.Eq.ApplyImplicit(tmid, gamma, x, out) }
	return o.Solve.Solve(A, b)
}

// Checkpoints returns the recorded forward trajectory (valid after Forward
// has completed, i.e. in state Done or any Adjoint* state).
func (o *Stepper) Checkpoints() [][]float64 { return o.checkpoints }

// Cancel frees the checkpoint buffer and returns to Ready from any state.
func (o *Stepper) Cancel() {
	o.checkpoints = nil
	o.state = Ready
}

// BeginAdjoint transitions Done -> AdjointReady.
func (o *Stepper) BeginAdjoint() {
	if o.state != Done {
		chk.Panic("integrator: BeginAdjoint called from state %v, expected Done", o.state)
	}
	o.state = AdjointReady
}

// AdjointStep consumes one reverse step: given ρ̄_{n+1} (rhoBarNext) it
// returns ρ̄_n and accumulates the step's contribution to gradOut (length
// Σ_k NParams_k), per:
//
//  ρ̄_n += (I + dt/2·Mᵀ)·w,   where (I - dt/2·Mᵀ)·w = ρ̄_{n+1}
//  θ̄   += dt/2·(∂M/∂θ at t_mid)·(ρ_n+ρ_{n+1})·w
func (o *Stepper) AdjointStep(n int, rhoBarNext, gradOut []float64) []float64 {
	if o.state != AdjointReady && o.state != AdjointStepping {
		chk.Panic("integrator: AdjointStep called from state %v", o.state)
	}
	o.state = AdjointStepping

	tmid := o.midTime(n)
	o.Eq.Assemble(tmid)
	gamma := o.dt / 2

	AT := func(x, out []float64) { o.Eq.ApplyImplicitTranspose(tmid, gamma, x, out) }
	w := o.Solve.Solve(AT, rhoBarNext)

	MTw := make([]float64, len(w))
	o.Eq.ApplyTranspose(tmid, w, MTw)
	rhoBarN := make([]float64, len(w))
	for i := range rhoBarN {
		rhoBarN[i] = w[i] + gamma*MTw[i]
	}

	sum := make([]float64, len(w))
	rhoN := o.checkpoints[n]
	rhoNp1 := o.checkpoints[n+1]
	for i := range sum {
		sum[i] = rhoN[i] + rhoNp1[i]
	}
	scaled := make([]float64, len(gradOut))
	o.Eq.ApplyParamDeriv(tmid, sum, w, scaled)
	for i := range gradOut {
		gradOut[i] += gamma * scaled[i]
	}

	if n == 0 {
		o.state = AdjointDone
	}
	return rhoBarN
}

// Adjoint runs the full reverse sweep from ρ̄(T) (rhoBarFinal), accumulating
// into gradOut, and returns ρ̄(0).
func (o *Stepper) Adjoint(rhoBarFinal []float64, gradOut []float64) []float64 {
	o.BeginAdjoint()
	rhoBar := rhoBarFinal
	for n := o.Ntime - 1; n >= 0; n-- {
		rhoBar = o.AdjointStep(n, rhoBar, gradOut)
	}
	return rhoBar
}
