// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package master assembles the vectorized Lindblad master-equation operator
// M(t) and exposes its matrix-free contract: Apply, ApplyTranspose,
// ApplyImplicit, ApplyParamDeriv, ReducedDensity.
package master

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/state"
)

// Hamiltonian is the time-independent system Hamiltonian H_sys, given as a
// dense real-symmetric matrix over the full composite space (small N in
// this domain makes dense storage appropriate; off-diagonal coupling terms
// live here).
type Hamiltonian [][]float64

// MasterEq assembles M(t) on demand from the current oscillator controls
// and exposes it only through matrix-free operator application, never as
// an assembled implicit-solve matrix.
type MasterEq struct {
	N          int // composite Hilbert-space dimension
	Oscillators []*oscillator.Oscillator
	Hsys       Hamiltonian
	Lindblad   config.LindbladType

	assembledAt float64
	ready       bool

	// per-step cache of control values, populated by assemble(t)
	p, q []float64 // length len(Oscillators)
}

// New builds a MasterEq over the given oscillators and system Hamiltonian.
func New(oscs []*oscillator.Oscillator, hsys Hamiltonian, lindblad config.LindbladType) *MasterEq {
	if len(oscs) == 0 {
		chk.Panic("master: at least one oscillator is required")
	}
	return &MasterEq{
		N:           oscs[0].N,
		Oscillators: oscs,
		Hsys:        hsys,
		Lindblad:    lindblad,
		p:           make([]float64, len(oscs)),
		q:           make([]float64, len(oscs)),
	}
}

// Assemble rebuilds the cached control values at time t. apply/applyTranspose
// /applyImplicit/applyParamDeriv are only valid after a call to Assemble for
// the same t.
func (o *MasterEq) Assemble(t float64) {
	for k, osc := range o.Oscillators {
		o.p[k] = osc.ControlP(t)
		o.q[k] = osc.ControlQ(t)
	}
	o.assembledAt = t
	o.ready = true
}

func (o *MasterEq) checkReady(t float64) {
	if !o.ready {
		chk.Panic("master: Apply called before Assemble")
	}
	if t != o.assembledAt {
		chk.Panic("master: Apply called at t=%v but last Assemble was at t=%v", t, o.assembledAt)
	}
}

// Apply computes out = M(t)·y. y and out are vectorized states (length
// 2N²); out is zeroed and overwritten.
func (o *MasterEq) Apply(t float64, y, out []float64) {
	o.checkReady(t)
	for i := range out {
		out[i] = 0
	}
	o.applyHamiltonian(y, out, false)
	if o.Lindblad != config.LindbladNone {
		o.applyDissipator(y, out, false)
	}
}

// ApplyTranspose computes out = Mᵀ(t)·y.
func (o *MasterEq) ApplyTranspose(t float64, y, out []float64) {
	o.checkReady(t)
	for i := range out {
		out[i] = 0
	}
	o.applyHamiltonian(y, out, true)
	if o.Lindblad != config.LindbladNone {
		o.applyDissipator(y, out, true)
	}
}

// ApplyImplicit computes out = (I - γ·M(t))·y for the implicit-midpoint
// left-hand side, without materialising a matrix.
func (o *MasterEq) ApplyImplicit(t, gamma float64, y, out []float64) {
	My := make([]float64, len(y))
	o.Apply(t, y, My)
	for i := range out {
		out[i] = y[i] - gamma*My[i]
	}
}

// ApplyImplicitTranspose computes out = (I - γ·Mᵀ(t))·y, used by the
// adjoint step's transposed implicit solve.
func (o *MasterEq) ApplyImplicitTranspose(t, gamma float64, y, out []float64) {
	Mty := make([]float64, len(y))
	o.ApplyTranspose(t, y, Mty)
	for i := range out {
		out[i] = y[i] - gamma*Mty[i]
	}
}

// applyHamiltonian adds the −i[H,ρ] Hamiltonian term (H_sys plus controls)
// to out, vectorized. When transpose is true the negated/transposed action
// is used (the Hamiltonian block of M is real-antisymmetric).
func (o *MasterEq) applyHamiltonian(y, out []float64, transpose bool) {
	N := o.N
	// build the dense real Hamiltonian-like generator H(t) = H_sys + Σ_k p_k(aₖ+aₖ†) + q_k·i(aₖ-aₖ†)
	// represented directly as its action: d/dt ρ = -i[H,ρ]. In the real/imag
	// split this becomes: dRe(ρ)/dt = Im(H)·Re(ρ)-related terms; we apply it
	// entrywise via the sparse Kronecker operators rather than forming H.
	sign := 1.0
	if transpose {
		sign = -1.0 // Mᵀ on the Hamiltonian block flips sign (antisymmetric)
	}
	hsysApply(o.Hsys, y, out, N, sign)
	for k, osc := range o.Oscillators {
		applyControlHamiltonian(osc, o.p[k], o.q[k], y, out, N, sign)
	}
}

// hsysApply adds sign·(-i[H_sys,ρ]) in vectorized real/imag form.
func hsysApply(H Hamiltonian, y, out []float64, N int, sign float64) {
	if H == nil {
		return
	}
	// -i[H,ρ] = -i(Hρ - ρH); Re(-i X) = Im(X), Im(-i X) = -Re(X)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			var reX, imX float64
			for l := 0; l < N; l++ {
				hil := H[i][l]
				hjl := H[j][l]
				reRho, imRho := state.Get(y, N, l, j)
				reX += hil * reRho
				imX += hil * imRho
				reRho2, imRho2 := state.Get(y, N, i, l)
				reX -= reRho2 * hjl
				imX -= imRho2 * hjl
			}
			reOut := sign * imX
			imOut := -sign * reX
			state.Add(out, N, i, j, reOut, imOut)
		}
	}
}

// applyControlHamiltonian adds sign·(-i[H_ctrl,ρ]) for H_ctrl = p(a+a†) +
// q·i(a-a†), using the oscillator's sparse lowering operator directly
// rather than forming a dense a+a†.
func applyControlHamiltonian(osc *oscillator.Oscillator, p, q float64, y, out []float64, N int, sign float64) {
	aDense := osc.Lowering.ToMatrix(nil).ToDense()
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			var reX, imX float64
			for l := 0; l < N; l++ {
				// H_ctrl[i][l] = p*(a+a†)[i][l] + q*i*(a-a†)[i][l]
				aIL := aDense[i][l]
				aLI := aDense[l][i]
				hIL := p*(aIL+aLI) + 0 // real part of H_ctrl[i][l] from p-term
				hILim := q * (aIL - aLI) // imaginary part of H_ctrl[i][l] from q-term (times i)
				aJL := aDense[j][l]
				aLJ := aDense[l][j]
				hJL := p * (aJL + aLJ)
				hJLim := q * (aLJ - aJL) // imaginary part of H_ctrl[l][j]

				reRhoLJ, imRhoLJ := state.Get(y, N, l, j)
				reRhoIL, imRhoIL := state.Get(y, N, i, l)

				// (H ρ)[i][j] contribution via l, complex: (hIL + i*hILim)*(reRhoLJ + i*imRhoLJ)
				reX += hIL*reRhoLJ - hILim*imRhoLJ
				imX += hIL*imRhoLJ + hILim*reRhoLJ

				// (ρ H)[i][j] contribution via l: (reRhoIL + i*imRhoIL)*(hJL + i*hJLim)
				reX -= reRhoIL*hJL - imRhoIL*hJLim
				imX -= reRhoIL*hJLim + imRhoIL*hJL
			}
			reOut := sign * imX
			imOut := -sign * reX
			state.Add(out, N, i, j, reOut, imOut)
		}
	}
}

// applyDissipator adds the Lindblad correction Σ_j (LρL† - ½{L†L,ρ}) for the
// configured collapse operators.
func (o *MasterEq) applyDissipator(y, out []float64, transpose bool) {
	N := o.N
	for _, osc := range o.Oscillators {
		if (o.Lindblad == config.LindbladDecay || o.Lindblad == config.LindbladBoth) && osc.DecayRate > 0 {
			L := osc.Lowering.ToMatrix(nil).ToDense()
			scale(L, sqrtGamma(osc.DecayRate))
			applyLindbladTerm(L, y, out, N, transpose)
		}
		if (o.Lindblad == config.LindbladDephase || o.Lindblad == config.LindbladBoth) && osc.DephaseRate > 0 {
			L := osc.Number.ToMatrix(nil).ToDense()
			scale(L, sqrtGamma(osc.DephaseRate))
			applyLindbladTerm(L, y, out, N, transpose)
		}
	}
}

func scale(m [][]float64, s float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= s
		}
	}
}

func sqrtGamma(gamma float64) float64 {
	if gamma < 0 {
		chk.Panic("master: negative collapse rate %v", gamma)
	}
	return math.Sqrt(gamma)
}

// applyLindbladTerm adds (LρL† - ½{L†L,ρ}) (or its transpose) for a single
// real collapse operator L, dense for simplicity (small composite spaces).
func applyLindbladTerm(L [][]float64, y, out []float64, N int, transpose bool) {
	// LdL[i][j] = Σ_k L[k][i]*L[k][j]  (= (L†L)_ij, L real)
	LdL := make([][]float64, N)
	for i := range LdL {
		LdL[i] = make([]float64, N)
		for j := range LdL[i] {
			var s float64
			for k := 0; k < N; k++ {
				s += L[k][i] * L[k][j]
			}
			LdL[i][j] = s
		}
	}
	// the -½{L†L,ρ} term is self-adjoint (L†L is symmetric), but the LρL†
	// term is not unless L itself is symmetric (true for the dephasing
	// number operator, false for the decay lowering operator): its adjoint
	// under the real trace inner product is σ↦L†σL, L applied from the
	// opposite side.
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			var reD, imD float64
			if transpose {
				// (L†σL)[i][j] = Σ_{l,m} L[l][i] σ[l][m] L[m][j]
				for l := 0; l < N; l++ {
					for m := 0; m < N; m++ {
						re, im := state.Get(y, N, l, m)
						reD += L[l][i] * re * L[m][j]
						imD += L[l][i] * im * L[m][j]
					}
				}
			} else {
				// LρL† term: Σ_{l,m} L[i][l] ρ[l][m] L[j][m]
				for l := 0; l < N; l++ {
					for m := 0; m < N; m++ {
						re, im := state.Get(y, N, l, m)
						reD += L[i][l] * re * L[j][m]
						imD += L[i][l] * im * L[j][m]
					}
				}
			}
			// -½{L†L,ρ} term
			var reA, imA float64
			for l := 0; l < N; l++ {
				reRhoLJ, imRhoLJ := state.Get(y, N, l, j)
				reA += LdL[i][l] * reRhoLJ
				imA += LdL[i][l] * imRhoLJ
				reRhoIL, imRhoIL := state.Get(y, N, i, l)
				reA += reRhoIL * LdL[l][j]
				imA += imRhoIL * LdL[l][j]
			}
			reD -= 0.5 * reA
			imD -= 0.5 * imA
			state.Add(out, N, i, j, reD, imD)
		}
	}
}
