// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package adjoint coordinates one initial condition's forward integration,
// objective evaluation and reverse discrete-adjoint sweep,
// borrowing its caller's gradient buffer rather than allocating its own.
package adjoint

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"

	"github.com/ORNL-QCI/quandary/integrator"
	"github.com/ORNL-QCI/quandary/target"
)

// Engine replays a single TimeStepper forward, scores the trajectory
// against a Target, and replays the adjoint sweep to accumulate ∂J/∂θ.
type Engine struct {
	Stepper *integrator.Stepper
	Target  target.Target
	NParams int
}

// New builds an Engine over the given stepper/target pair.
func New(stepper *integrator.Stepper, tgt target.Target, nparams int) *Engine {
	return &Engine{Stepper: stepper, Target: tgt, NParams: nparams}
}

// Forward integrates rho0 and scores the resulting trajectory, without
// running the adjoint sweep (RunType=simulation or the objective-only half
// of an eval_f call). Any trajectory left in the stepper by a previous call
// is discarded first, so Forward may be called repeatedly.
func (o *Engine) Forward(rho0 []float64) (objective float64, rhoFinal []float64) {
	o.Stepper.Cancel()
	traj := o.Stepper.Forward(rho0)
	rhoFinal = traj[len(traj)-1]
	objective = o.Target.Eval(rhoFinal, rho0)
	return
}

// Run integrates rho0 forward, then replays the adjoint sweep, accumulating
// ∂J/∂θ into gradOut (length NParams). gradOut is borrowed, not owned: the
// caller must zero it (via ResetGradient) before the first call that should
// contribute to a fresh accumulation.
func (o *Engine) Run(rho0 []float64, gradOut []float64) float64 {
	if len(gradOut) != o.NParams {
		chk.Panic("adjoint: gradOut length %d != NParams %d", len(gradOut), o.NParams)
	}
	objective, rhoFinal := o.Forward(rho0)
	rhoBar := o.Target.EvalDiff(rhoFinal, rho0, 1.0)
	o.Stepper.Adjoint(rhoBar, gradOut)
	o.Stepper.Cancel()
	return objective
}

// GradNorm returns the Euclidean norm of a gradient buffer, the diagnostic
// printed after a gradient-check run.
func GradNorm(g []float64) float64 {
	return floats.Norm(g, 2)
}

// ResetGradient zeros a borrowed gradient buffer. Callers own the decision
// of when to reset (e.g. once per eval_grad_f call, before looping over the
// initial-condition ensemble), never the Engine itself.
func ResetGradient(g []float64) {
	for i := range g {
		g[i] = 0
	}
}
