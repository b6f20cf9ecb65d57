// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
)

// diagOperator builds A(x) = diag(d)·x, a trivially linear operator.
func diagOperator(d []float64) Operator {
	return func(x, out []float64) {
		for i := range out {
			out[i] = d[i] * x[i]
		}
	}
}

func TestNeumannSolvesDiagonalSystem(t *testing.T) {
	// A = I - gamma*M, here directly diag(0.9,0.95,0.99): well inside the
	// Neumann series' convergence radius.
	d := []float64{0.9, 0.95, 0.99}
	A := diagOperator(d)
	b := []float64{1, 2, 3}
	s := NewLinSolve(config.LinSolNeumann, 50, 1e-10)
	s.NeumannK = 40
	x, residual := s.neumann(A, b)
	if residual > 1e-8 {
		t.Fatalf("neumann residual %v too large", residual)
	}
	for i := range x {
		chk.Scalar(t, "neumann solves diagonal system", 1e-6, x[i], b[i]/d[i])
	}
}

func TestNeumannResidualCheckZeroForLinearOperator(t *testing.T) {
	A := diagOperator([]float64{0.9, 0.95, 0.99})
	x := []float64{1, 2, 3}
	Ax := make([]float64, len(x))
	A(x, Ax)
	lin := neumannResidualCheck(A, x, Ax)
	chk.Scalar(t, "linearity check is ~0 for a genuinely linear operator", 1e-8, lin, 0)
}

func TestGMRESSolvesDiagonalSystem(t *testing.T) {
	A := diagOperator([]float64{2, 3, 4})
	b := []float64{2, 6, 12}
	s := NewLinSolve(config.LinSolGMRES, 50, 1e-10)
	x, ok := s.gmres(A, b, 3)
	if !ok {
		t.Fatal("gmres failed to converge on a trivial diagonal system")
	}
	want := []float64{1, 2, 3}
	for i := range x {
		chk.Scalar(t, "gmres solves diagonal system", 1e-8, x[i], want[i])
	}
}
