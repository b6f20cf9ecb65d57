// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optim

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/initcond"
	"github.com/ORNL-QCI/quandary/integrator"
	"github.com/ORNL-QCI/quandary/master"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/runtime"
	"github.com/ORNL-QCI/quandary/target"
)

func buildProblem(t *testing.T) *Problem {
	cfg := &config.Config{
		OptimRegul: 1e-4,
		Oscillators: []config.OscillatorData{
			{Nlevels: 2, GroundFreq: 4.0, Carriers: []float64{0}, Bound: 5.0},
		},
		ICType: config.ICNPlusOne,
	}
	osc := oscillator.New(0, []int{2}, cfg.Oscillators[0], 3, 1.0)
	osc.SetDesign(make([]float64, osc.NParams()))
	eq := master.New([]*oscillator.Oscillator{osc}, nil, config.LindbladNone)
	solve := integrator.NewLinSolve(config.LinSolGMRES, 100, 1e-10)
	ensemble := initcond.New(2, cfg)
	tgt := target.NewPureTarget(2, 1)
	rt := runtime.New(1, 1)
	return NewProblem(rt, []*oscillator.Oscillator{osc}, eq, solve, 20, 1.0, ensemble, tgt, cfg)
}

func TestProblemSizesAndBounds(t *testing.T) {
	p := buildProblem(t)
	if p.GetProbSizes() != p.Oscillators[0].NParams() {
		t.Fatalf("GetProbSizes() = %d, want %d", p.GetProbSizes(), p.Oscillators[0].NParams())
	}
	lower, upper := p.GetVarsInfo()
	for i := range lower {
		chk.Scalar(t, "lower bound", 1e-13, lower[i], -5.0)
		chk.Scalar(t, "upper bound", 1e-13, upper[i], 5.0)
	}
}

func TestEvalFZeroDesignStartingPoint(t *testing.T) {
	p := buildProblem(t)
	x0 := p.GetStartingPoint()
	for _, v := range x0 {
		chk.Scalar(t, "zero starting point", 1e-13, v, 0)
	}
	j := p.EvalF(x0)
	if j <= 0 {
		t.Fatalf("EvalF(0) = %v, want > 0 (zero control cannot reach the excited target)", j)
	}
}

func TestEvalGradFLengthMatchesProbSize(t *testing.T) {
	p := buildProblem(t)
	x0 := p.GetStartingPoint()
	grad := p.EvalGradF(x0)
	if len(grad) != p.GetProbSizes() {
		t.Fatalf("len(grad) = %d, want %d", len(grad), p.GetProbSizes())
	}
}
