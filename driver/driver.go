// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package driver wraps gonum/optimize's LBFGS method around an optim.Problem,
// adding box constraints (not natively supported by gonum/optimize's LBFGS)
// via gradient projection at the bounds, and periodic control/parameter
// dumps through output.
package driver

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/optimize"

	"github.com/ORNL-QCI/quandary/optim"
)

// Monitor receives a callback at every accepted iterate, used to drive
// periodic control-function/design-vector dumps.
type Monitor func(iter int, x []float64, f float64, gradNorm float64)

// OptimizerDriver drives optim.Problem to a local optimum with box
// constraints.
type OptimizerDriver struct {
	Problem      *optim.Problem
	Lower, Upper []float64
	MaxIters     int
	GradTol      float64
	Monitor      Monitor
	PrintLevel   int
}

// New builds a driver over problem, reading its box bounds once up front.
func New(problem *optim.Problem, maxIters int, gradTol float64) *OptimizerDriver {
	lower, upper := problem.GetVarsInfo()
	return &OptimizerDriver{Problem: problem, Lower: lower, Upper: upper, MaxIters: maxIters, GradTol: gradTol}
}

// clip projects x onto the box [Lower,Upper] in place.
func (o *OptimizerDriver) clip(x []float64) {
	for i := range x {
		if x[i] < o.Lower[i] {
			x[i] = o.Lower[i]
		} else if x[i] > o.Upper[i] {
			x[i] = o.Upper[i]
		}
	}
}

// Run minimises the problem starting from x0, returning the optimised design
// vector and the gonum/optimize result.
func (o *OptimizerDriver) Run(x0 []float64) ([]float64, *optimize.Result) {
	iter := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clipped := append([]float64(nil), x...)
			o.clip(clipped)
			return o.Problem.EvalF(clipped)
		},
		Grad: func(grad, x []float64) []float64 {
			clipped := append([]float64(nil), x...)
			o.clip(clipped)
			g := o.Problem.EvalGradF(clipped)
			if grad == nil {
				grad = make([]float64, len(g))
			}
			copy(grad, g)
			// zero the gradient component at any bound already saturated in
			// the direction that would violate it, a projected-gradient
			// approximation to a true box-constrained L-BFGS-B step.
			for i, xi := range clipped {
				if (xi <= o.Lower[i] && g[i] > 0) || (xi >= o.Upper[i] && g[i] < 0) {
					grad[i] = 0
				}
			}
			return grad
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: o.GradTol,
		MajorIterations:   o.MaxIters,
		Recorder:          recorderFunc(o.record(&iter)),
	}
	method := &optimize.LBFGS{}

	result, err := optimize.Local(problem, x0, settings, method)
	if err != nil {
		chk.Panic("driver: optimization failed: %v", err)
	}
	xOpt := append([]float64(nil), result.X...)
	o.clip(xOpt)
	return xOpt, result
}

// recorderFunc adapts a plain function to optimize.Recorder.
type recorderFunc func(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error

func (f recorderFunc) Init() error { return nil }
func (f recorderFunc) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	return f(loc, op, stats)
}

// record drives the user-supplied Monitor and optional stdout progress line
// on every MajorIteration.
func (o *OptimizerDriver) record(iter *int) func(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return func(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
		if op&optimize.MajorIteration == 0 {
			return nil
		}
		gradNorm := 0.0
		for _, g := range loc.Gradient {
			if g < 0 {
				g = -g
			}
			if g > gradNorm {
				gradNorm = g
			}
		}
		if o.PrintLevel > 0 {
			io.Pf("iter=%d  obj=%v  |grad|_inf=%v\n", *iter, loc.F, gradNorm)
		}
		if o.Monitor != nil {
			o.Monitor(*iter, loc.X, loc.F, gradNorm)
		}
		*iter++
		return nil
	}
}
