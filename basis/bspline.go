// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package basis implements the B-spline + carrier-wave control basis
//: quadratic B-splines with uniform knots on [0,T], carrier
// modulation, and the pi-pulse override.
package basis

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// outOfDomain raises the fatal OutOfDomain error (via chk.Panic) when a t
// outside [0,T] is requested: this is a bug in the caller, never a user error.
func outOfDomain(t, T float64) {
	chk.Panic("basis: t=%v is out of domain [0,%v]: this is a caller bug, the integrator never asks outside [0,T]", t, T)
}

// Spline holds nbasis second-order (quadratic) B-splines with uniform knots
// spanning [0,T]. At most 3 basis functions are nonzero at any t, so
// evaluation is O(1) per call and O(C) per control evaluation across C
// carriers.
type Spline struct {
	nbasis int
	T      float64
	dtknot float64 // knot spacing
}

// NewSpline builds a quadratic B-spline basis with nbasis functions over [0,T].
func NewSpline(nbasis int, T float64) *Spline {
	if nbasis < 1 {
		chk.Panic("basis: nbasis must be >= 1, got %d", nbasis)
	}
	return &Spline{nbasis: nbasis, T: T, dtknot: T / float64(nbasis)}
}

// Nbasis returns the number of basis functions B.
func (o *Spline) Nbasis() int { return o.nbasis }

// quadratic second-order B-spline kernel centred at x=0, support [-1.5,1.5].
func quadKernel(x float64) float64 {
	ax := math.Abs(x)
	switch {
	case ax <= 0.5:
		return 0.75 - ax*ax
	case ax <= 1.5:
		d := 1.5 - ax
		return 0.5 * d * d
	}
	return 0
}

// center returns the knot centre of basis function b.
func (o *Spline) center(b int) float64 {
	return (float64(b) + 0.5) * o.dtknot
}

// Eval evaluates basis function b at time t. Fails fatally for t outside
// [0,T] (see OutOfDomain in).
func (o *Spline) Eval(b int, t float64) float64 {
	if t < 0 || t > o.T {
		outOfDomain(t, o.T)
	}
	x := (t - o.center(b)) / o.dtknot
	return quadKernel(x)
}

// ActiveRange returns the inclusive index range [lo,hi] of basis functions
// that may be nonzero at t (at most 3, by the quadratic kernel's support).
func (o *Spline) ActiveRange(t float64) (lo, hi int) {
	bf := t/o.dtknot - 0.5
	lo = int(math.Floor(bf)) - 1
	hi = int(math.Ceil(bf)) + 1
	if lo < 0 {
		lo = 0
	}
	if hi > o.nbasis-1 {
		hi = o.nbasis - 1
	}
	return
}
