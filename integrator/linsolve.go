// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"

	"github.com/ORNL-QCI/quandary/config"
)

// Operator is a matrix-free linear operator y = A(x). MasterEq's
// ApplyImplicit/ApplyImplicitTranspose are bound to this shape by
// TimeStepper.
type Operator func(x, out []float64)

// LinSolve solves A·x = b for the implicit-midpoint left-hand side, using
// either restarted GMRES or a truncated Neumann series.
// gosl/la.LinSol assumes an assembled la.Triplet and therefore cannot serve
// a matrix-free operator; GMRES below uses gosl/la only for its vector
// arithmetic (la.VecNorm/VecAdd), and the Neumann series uses plain loops.
type LinSolve struct {
	Kind     config.LinearSolverType
	MaxIter  int
	Tol      float64
	Restart  int // GMRES restart length
	NeumannK int // Neumann truncation order
}

// NewLinSolve builds a solver from config with sane defaults for fields the
// flat config file does not expose directly.
func NewLinSolve(kind config.LinearSolverType, maxIter int, tol float64) *LinSolve {
	return &LinSolve{Kind: kind, MaxIter: maxIter, Tol: tol, Restart: 30, NeumannK: 8}
}

// Solve solves A·x = b, returning x. It retries once with a tighter GMRES
// restart before declaring a NumericError.
func (o *LinSolve) Solve(A Operator, b []float64) []float64 {
	switch o.Kind {
	case config.LinSolGMRES:
		x, ok := o.gmres(A, b, o.Restart)
		if !ok {
			x, ok = o.gmres(A, b, o.Restart/2+1)
			if !ok {
				chk.Panic("integrator: GMRES failed to converge to tol=%v within %d iterations after retry", o.Tol, o.MaxIter)
			}
		}
		return x
	case config.LinSolNeumann:
		x, residual := o.neumann(A, b)
		if residual > o.Tol {
			Ax := make([]float64, len(x))
			A(x, Ax)
			lin := neumannResidualCheck(A, x, Ax)
			x, ok := o.gmres(A, b, o.Restart)
			if !ok {
				chk.Panic("integrator: Neumann series residual %v (linearity check %v) exceeds tolerance %v and GMRES fallback failed", residual, lin, o.Tol)
			}
			return x
		}
		return x
	}
	chk.Panic("integrator: unknown linear solver kind %v", o.Kind)
	return nil
}

// neumann approximates x ≈ Σ_{j=0}^{K} (γM)^j b directly from A = I-γM,
// with K = NeumannK, i.e. x_{j+1} = b + (I - A)·x_j with x_0 = b.
// Valid when ‖γM‖ is small.
func (o *LinSolve) neumann(A Operator, b []float64) (x []float64, residual float64) {
	n := len(b)
	x = make([]float64, n)
	copy(x, b)
	term := make([]float64, n)
	copy(term, b)
	Ax := make([]float64, n)
	for j := 0; j < o.NeumannK; j++ {
		A(term, Ax)
		// next term contribution: (I-A) applied to the previous term == γM·term
		next := make([]float64, n)
		for i := range next {
			next[i] = term[i] - Ax[i]
		}
		for i := range x {
			x[i] += next[i]
		}
		term = next
	}
	A(x, Ax)
	var sqNum, den float64
	for i := range b {
		d := Ax[i] - b[i]
		sqNum += d * d
		den += b[i] * b[i]
	}
	if den < num.EPS {
		den = num.EPS
	}
	residual = math.Sqrt(sqNum / den)
	return
}

// neumannResidualCheck numerically verifies that A behaves linearly along x:
// for a linear operator, s ↦ (A(s·x))_i is affine with slope (A(x))_i
// everywhere, so num.DerivCentral's estimate of that slope at s=1 must equal
// Ax[i]. Returns the largest per-entry discrepancy, a diagnostic folded into
// the panic message when both the Neumann series and its GMRES fallback fail.
func neumannResidualCheck(A Operator, x, Ax []float64) float64 {
	n := len(x)
	scaled := make([]float64, n)
	tmp := make([]float64, n)
	var maxErr float64
	for i := 0; i < n; i++ {
		f := func(s float64, args ...interface{}) float64 {
			for k := range scaled {
				scaled[k] = s * x[k]
			}
			A(scaled, tmp)
			return tmp[i]
		}
		d, err := num.DerivCentral(f, 1.0, 1e-3)
		if err != nil {
			continue
		}
		if e := math.Abs(d - Ax[i]); e > maxErr {
			maxErr = e
		}
	}
	return maxErr
}

// gmres is a restarted, matrix-free GMRES (Arnoldi/Givens) solving A·x=b to
// relative residual tol within maxIter outer iterations.
func (o *LinSolve) gmres(A Operator, b []float64, restart int) (x []float64, converged bool) {
	n := len(b)
	x = make([]float64, n)
	bnorm := la.VecNorm(b)
	if bnorm == 0 {
		return x, true
	}
	if restart < 1 {
		restart = 1
	}

	r := make([]float64, n)
	Ax := make([]float64, n)
	for iter := 0; iter < o.MaxIter; iter++ {
		A(x, Ax)
		copy(r, b)
		la.VecAdd(r, -1, Ax) // r = b - A*x
		beta := la.VecNorm(r)
		if beta/bnorm <= o.Tol {
			return x, true
		}

		m := restart
		V := make([][]float64, m+1)
		V[0] = make([]float64, n)
		for i := range V[0] {
			V[0][i] = r[i] / beta
		}
		H := make([][]float64, m+1)
		for i := range H {
			H[i] = make([]float64, m)
		}
		cs := make([]float64, m)
		sn := make([]float64, m)
		g := make([]float64, m+1)
		g[0] = beta

		k := 0
		for ; k < m; k++ {
			w := make([]float64, n)
			A(V[k], w)
			for i := 0; i <= k; i++ {
				H[i][k] = dotIntegrator(w, V[i])
				la.VecAdd(w, -H[i][k], V[i])
			}
			H[k+1][k] = la.VecNorm(w)
			if H[k+1][k] < 1e-300 {
				k++
				break
			}
			V[k+1] = make([]float64, n)
			for i := range w {
				V[k+1][i] = w[i] / H[k+1][k]
			}

			for i := 0; i < k; i++ {
				applyGivens(H, cs[i], sn[i], i, k)
			}
			cs[k], sn[k] = givensRotation(H[k][k], H[k+1][k])
			H[k][k] = cs[k]*H[k][k] + sn[k]*H[k+1][k]
			H[k+1][k] = 0
			g[k+1] = -sn[k] * g[k]
			g[k] = cs[k] * g[k]

			if math.Abs(g[k+1])/bnorm <= o.Tol {
				k++
				break
			}
		}
		if k == 0 {
			continue
		}

		y := backSolve(H, g, k)
		for j := 0; j < k; j++ {
			for i := range x {
				x[i] += y[j] * V[j][i]
			}
		}
	}
	A(x, Ax)
	copy(r, b)
	la.VecAdd(r, -1, Ax)
	return x, la.VecNorm(r)/bnorm <= o.Tol
}

func dotIntegrator(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func applyGivens(H [][]float64, c, s float64, i, k int) {
	t1 := H[i][k]
	t2 := H[i+1][k]
	H[i][k] = c*t1 + s*t2
	H[i+1][k] = -s*t1 + c*t2
}

func givensRotation(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		tau := a / b
		s = 1 / math.Sqrt(1+tau*tau)
		c = s * tau
		return
	}
	tau := b / a
	c = 1 / math.Sqrt(1+tau*tau)
	s = c * tau
	return
}

// backSolve solves the k×k upper-triangular system H[0:k][0:k]·y = g[0:k].
func backSolve(H [][]float64, g []float64, k int) []float64 {
	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		s := g[i]
		for j := i + 1; j < k; j++ {
			s -= H[i][j] * y[j]
		}
		y[i] = s / H[i][i]
	}
	return y
}
