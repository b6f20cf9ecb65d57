// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package state implements the vectorized density-matrix layout shared by
// every boundary in the engine: a complex N×N Hermitian matrix flattened to
// 2N² reals, [Re,Im] interleaved per entry, row-major.
package state

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Dim recovers N from a vectorized state's length.
func Dim(vlen int) int {
	n2 := vlen / 2
	n := int(math.Sqrt(float64(n2)))
	if 2*n*n != vlen {
		chk.Panic("state: vector length %d is not of the form 2*N*N", vlen)
	}
	return n
}

// New allocates a zeroed vectorized state of dimension N.
func New(N int) []float64 {
	return make([]float64, 2*N*N)
}

// ReIndex returns the index of Re(ρ_ij) inside the vectorized state.
func ReIndex(N, i, j int) int { return 2 * (i*N + j) }

// ImIndex returns the index of Im(ρ_ij) inside the vectorized state.
func ImIndex(N, i, j int) int { return 2*(i*N+j) + 1 }

// Get returns Re(ρ_ij), Im(ρ_ij).
func Get(v []float64, N, i, j int) (re, im float64) {
	k := 2 * (i*N + j)
	return v[k], v[k+1]
}

// Set writes Re(ρ_ij), Im(ρ_ij).
func Set(v []float64, N, i, j int, re, im float64) {
	k := 2 * (i*N + j)
	v[k], v[k+1] = re, im
}

// Add accumulates into Re(ρ_ij), Im(ρ_ij).
func Add(v []float64, N, i, j int, re, im float64) {
	k := 2 * (i*N + j)
	v[k] += re
	v[k+1] += im
}

// Trace returns Tr(ρ) = Σ_i Re(ρ_ii).
func Trace(v []float64, N int) float64 {
	var tr float64
	for i := 0; i < N; i++ {
		re, _ := Get(v, N, i, i)
		tr += re
	}
	return tr
}

// HermitianDefect returns max_ij |ρ_ij - conj(ρ_ji)|, the quantity invariant
// 1 bounds by 1e-10.
func HermitianDefect(v []float64, N int) float64 {
	var worst float64
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			reIJ, imIJ := Get(v, N, i, j)
			reJI, imJI := Get(v, N, j, i)
			d1 := math.Abs(reIJ - reJI)
			d2 := math.Abs(imIJ + imJI)
			if d1 > worst {
				worst = d1
			}
			if d2 > worst {
				worst = d2
			}
		}
	}
	return worst
}

// Diagonal returns the real parts of the diagonal entries, Re(ρ_ii).
func Diagonal(v []float64, N int) []float64 {
	d := make([]float64, N)
	for i := 0; i < N; i++ {
		d[i], _ = Get(v, N, i, i)
	}
	return d
}

// BasisVectorDensity builds |e_m><e_m| vectorized, the canonical PURE
// initial/target state for product-basis index m.
func BasisVectorDensity(N, m int) []float64 {
	v := New(N)
	Set(v, N, m, m, 1, 0)
	return v
}
