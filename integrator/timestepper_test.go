// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/master"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/state"
)

func buildStepper(t *testing.T, lindblad config.LindbladType, decay float64, ntime int, T float64) (*Stepper, *oscillator.Oscillator) {
	cfg := config.OscillatorData{Nlevels: 3, GroundFreq: 4.0, Carriers: []float64{0}, DecayRate: decay}
	osc := oscillator.New(0, []int{3}, cfg, 4, T)
	osc.SetDesign(make([]float64, osc.NParams()))
	eq := master.New([]*oscillator.Oscillator{osc}, nil, lindblad)
	solve := NewLinSolve(config.LinSolGMRES, 100, 1e-10)
	return New(eq, solve, ntime, T), osc
}

func TestHermiticityAndTracePreserved(t *testing.T) {
	// invariants 1 & 2, unitary case (no Lindblad terms, zero control)
	stepper, _ := buildStepper(t, config.LindbladNone, 0, 20, 1.0)
	rho0 := state.BasisVectorDensity(3, 1)
	traj := stepper.Forward(rho0)
	for n, rho := range traj {
		defect := state.HermitianDefect(rho, 3)
		if defect > 1e-10 {
			t.Fatalf("step %d: Hermiticity defect %v exceeds 1e-10", n, defect)
		}
		tr := state.Trace(rho, 3)
		chk.Scalar(t, "trace preserved", 1e-10, tr, 1)
	}
}

func TestPositivityTrendUnderDecay(t *testing.T) {
	// invariant 3: with γ_decay>0 and an initial pure excited
	// state, <N>(t) is monotone non-increasing within 1e-8
	stepper, osc := buildStepper(t, config.LindbladDecay, 0.3, 40, 5.0)
	rho0 := state.BasisVectorDensity(3, 2)
	traj := stepper.Forward(rho0)
	prev := osc.ExpectedEnergy(traj[0])
	for n := 1; n < len(traj); n++ {
		cur := osc.ExpectedEnergy(traj[n])
		if cur > prev+1e-8 {
			t.Fatalf("step %d: <N> increased from %v to %v", n, prev, cur)
		}
		prev = cur
	}
}
