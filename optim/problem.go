// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package optim assembles the box-constrained optimisation problem the
// driver minimises: the design vector's sizes and bounds, and the
// ensemble-averaged objective and gradient.
package optim

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
	"gonum.org/v1/gonum/floats"

	"github.com/ORNL-QCI/quandary/adjoint"
	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/initcond"
	"github.com/ORNL-QCI/quandary/integrator"
	"github.com/ORNL-QCI/quandary/master"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/runtime"
	"github.com/ORNL-QCI/quandary/target"
)

// Problem is the OptimProblem collaborator the driver drives: design-vector
// sizing, box bounds, objective and gradient.
type Problem struct {
	RT          *runtime.Runtime
	Oscillators []*oscillator.Oscillator
	Eq          *master.MasterEq
	Solve       *integrator.LinSolve
	Ntime       int
	T           float64
	Ensemble    *initcond.Ensemble
	Target      target.Target
	Regul       float64
	Cfg         *config.Config

	nparams int
	offsets []int
}

// NewProblem builds a Problem over the given oscillators/master equation.
func NewProblem(rt *runtime.Runtime, oscs []*oscillator.Oscillator, eq *master.MasterEq, solve *integrator.LinSolve, ntime int, T float64, ensemble *initcond.Ensemble, tgt target.Target, cfg *config.Config) *Problem {
	p := &Problem{RT: rt, Oscillators: oscs, Eq: eq, Solve: solve, Ntime: ntime, T: T, Ensemble: ensemble, Target: tgt, Regul: cfg.OptimRegul, Cfg: cfg}
	p.offsets = make([]int, len(oscs))
	off := 0
	for k, osc := range oscs {
		p.offsets[k] = off
		off += osc.NParams()
	}
	p.nparams = off
	return p
}

// GetProbSizes returns the design vector's length n.
func (p *Problem) GetProbSizes() int { return p.nparams }

// GetVarsInfo returns the box bounds [-bound_k, bound_k] for each
// oscillator's slice of the design vector.
func (p *Problem) GetVarsInfo() (lower, upper []float64) {
	lower = make([]float64, p.nparams)
	upper = make([]float64, p.nparams)
	for k, osc := range p.Oscillators {
		b := p.Cfg.Oscillators[k].Bound
		off := p.offsets[k]
		for i := 0; i < osc.NParams(); i++ {
			lower[off+i] = -b
			upper[off+i] = b
		}
	}
	return
}

// ApplyDesign writes x into each oscillator's θ_k, for callers (the output
// stage after optimisation) that need the oscillators to reflect a specific
// design vector outside of an EvalF/EvalGradF call.
func (p *Problem) ApplyDesign(x []float64) { p.setDesign(x) }

// setDesign writes x's oscillator-ordered slices into each oscillator's θ_k.
func (p *Problem) setDesign(x []float64) {
	if len(x) != p.nparams {
		chk.Panic("optim: design vector length %d != GetProbSizes() %d", len(x), p.nparams)
	}
	for k, osc := range p.Oscillators {
		off := p.offsets[k]
		osc.SetDesign(x[off : off+osc.NParams()])
	}
}

// localEnsembleRange returns this Init rank's contiguous share of the
// global ensemble, using the fixed even split of runtime.Runtime.Init.
func (p *Problem) localEnsembleRange() (ninitGlobal, ninitLocal, rankInit int) {
	ninitGlobal = p.Ensemble.NTotal()
	rankInit = p.RT.Init.Rank()
	ninitLocal = initcond.NLocal(ninitGlobal, p.RT.Init.Size())
	return
}

// tikhonov returns γ/(2n)·‖x‖², n=len(x), applied once per evaluation after
// ensemble averaging.
func (p *Problem) tikhonov(x []float64) float64 {
	return p.Regul / (2 * float64(len(x))) * floats.Dot(x, x)
}

// EvalF computes J(x) = (1/ninit)·Σ_k J_k + Tikhonov(x).
func (p *Problem) EvalF(x []float64) float64 {
	p.setDesign(x)
	ninitGlobal, ninitLocal, rankInit := p.localEnsembleRange()
	var localSum float64
	for _, iinit := range initcond.LocalIndices(ninitLocal, rankInit) {
		rho0 := p.Ensemble.State(iinit)
		stepper := integrator.New(p.Eq, p.Solve, p.Ntime, p.T)
		eng := adjoint.New(stepper, p.Target, p.nparams)
		j, _ := eng.Forward(rho0)
		localSum += j
	}
	total := p.RT.Init.AllReduceSum(localSum)
	return total/float64(ninitGlobal) + p.tikhonov(x)
}

// EvalGradF computes ∇J(x), ensemble-averaged then adding the Tikhonov
// gradient γ/n·x once per evaluation.
func (p *Problem) EvalGradF(x []float64) []float64 {
	p.setDesign(x)
	ninitGlobal, ninitLocal, rankInit := p.localEnsembleRange()
	grad := make([]float64, p.nparams)
	scratch := make([]float64, p.nparams)
	for _, iinit := range initcond.LocalIndices(ninitLocal, rankInit) {
		rho0 := p.Ensemble.State(iinit)
		stepper := integrator.New(p.Eq, p.Solve, p.Ntime, p.T)
		eng := adjoint.New(stepper, p.Target, p.nparams)
		adjoint.ResetGradient(scratch)
		eng.Run(rho0, scratch)
		floats.Add(grad, scratch)
	}
	grad = p.RT.Init.AllReduceSumVec(grad)
	floats.Scale(1/float64(ninitGlobal), grad)
	floats.AddScaled(grad, p.Regul/float64(len(x)), x)
	return grad
}

// GetStartingPoint builds x0 per optim_init, computed on
// world rank 0 and broadcast so every rank starts from the same point.
func (p *Problem) GetStartingPoint() []float64 {
	x0 := make([]float64, p.nparams)
	if p.RT.World.IsRoot() {
		switch p.Cfg.OptimInit {
		case config.OptimInitZero:
			// already zero
		case config.OptimInitConstant:
			for k, osc := range p.Oscillators {
				off := p.offsets[k]
				c := p.Cfg.Oscillators[k].InitConst
				for i := 0; i < osc.NParams(); i++ {
					x0[off+i] = c
				}
			}
		case config.OptimInitRandom, config.OptimInitRandomSeed:
			if p.Cfg.OptimInit == config.OptimInitRandomSeed {
				rnd.Init(p.Cfg.OptimInitSeed)
			} else {
				rnd.Init(0)
			}
			lower, upper := p.GetVarsInfo()
			for i := range x0 {
				x0[i] = rnd.Float64(lower[i], upper[i])
			}
		case config.OptimInitFile:
			x0 = readDesignFile(p.Cfg.OptimInitPath, p.nparams)
		}
	}
	for i := range x0 {
		x0[i] = p.RT.World.Broadcast(x0[i], 0)
	}
	return x0
}
