// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"testing"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/initcond"
	"github.com/ORNL-QCI/quandary/integrator"
	"github.com/ORNL-QCI/quandary/master"
	"github.com/ORNL-QCI/quandary/optim"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/runtime"
	"github.com/ORNL-QCI/quandary/target"
)

// TestRunConvergesTowardExcitation checks that optimizing toward a PureTarget
// at the excited basis state returns a result whose objective is no larger
// than the objective at the starting point.
func TestRunConvergesTowardExcitation(t *testing.T) {
	cfg := &config.Config{
		OptimRegul: 1e-6,
		Oscillators: []config.OscillatorData{
			{Nlevels: 2, GroundFreq: 4.0, Carriers: []float64{0}, Bound: 10.0},
		},
		ICType: config.ICPure,
	}
	osc := oscillator.New(0, []int{2}, cfg.Oscillators[0], 3, 1.0)
	osc.SetDesign(make([]float64, osc.NParams()))
	eq := master.New([]*oscillator.Oscillator{osc}, nil, config.LindbladNone)
	solve := integrator.NewLinSolve(config.LinSolGMRES, 200, 1e-11)
	ensemble := initcond.New(2, cfg)
	tgt := target.NewPureTarget(2, 1)
	rt := runtime.New(1, 1)
	problem := optim.NewProblem(rt, []*oscillator.Oscillator{osc}, eq, solve, 20, 1.0, ensemble, tgt, cfg)

	drv := New(problem, 15, 1e-8)
	x0 := problem.GetStartingPoint()
	f0 := problem.EvalF(x0)

	xOpt, result := drv.Run(x0)
	if result == nil {
		t.Fatal("Run returned a nil result")
	}
	fOpt := problem.EvalF(xOpt)
	if fOpt > f0 {
		t.Fatalf("optimized objective %v did not improve on starting objective %v", fOpt, f0)
	}
}
