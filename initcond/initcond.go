// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package initcond enumerates the ensemble of initial density matrices
// {ρ_k(0)} an optimisation averages its objective over,
// deterministically indexed so every rank reconstructs the same ensemble
// without communication.
package initcond

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/state"
)

// Ensemble enumerates the initial conditions for a composite space of
// dimension N.
type Ensemble struct {
	N        int
	Type     config.InitialConditionType
	List     []int
	fromFile [][]float64 // loaded by New for ICFromFile, one vectorized state per row
}

// New builds the ensemble for the given composite dimension and config.
func New(n int, cfg *config.Config) *Ensemble {
	e := &Ensemble{N: n, Type: cfg.ICType, List: cfg.ICList}
	if e.Type == config.ICFromFile {
		e.fromFile = readStateFile(cfg.ICFilePath, n)
	}
	return e
}

// NTotal returns the number of initial conditions in the global ensemble.
func (e *Ensemble) NTotal() int {
	switch e.Type {
	case config.ICPure:
		return 1
	case config.ICFromFile:
		return len(e.fromFile)
	case config.ICDiagonal:
		return e.N
	case config.ICBasis:
		return e.N * e.N
	case config.ICEnsemble:
		if len(e.List) > 0 {
			return len(e.List)
		}
		return e.N
	case config.ICThreeStates:
		return 3
	case config.ICNPlusOne:
		return e.N + 1
	}
	chk.Panic("initcond: unknown initial-condition type %v", e.Type)
	return 0
}

// State returns ρ_iinit(0), vectorized, for global index iinit in
// [0, NTotal()).
func (e *Ensemble) State(iinit int) []float64 {
	if iinit < 0 || iinit >= e.NTotal() {
		chk.Panic("initcond: index %d out of range for ensemble of size %d", iinit, e.NTotal())
	}
	switch e.Type {
	case config.ICPure:
		m := 0
		if len(e.List) > 0 {
			m = e.List[0]
		}
		return state.BasisVectorDensity(e.N, m)
	case config.ICFromFile:
		v := make([]float64, len(e.fromFile[iinit]))
		copy(v, e.fromFile[iinit])
		return v
	case config.ICDiagonal:
		return state.BasisVectorDensity(e.N, iinit)
	case config.ICBasis:
		return e.basisElement(iinit)
	case config.ICEnsemble:
		m := iinit
		if len(e.List) > 0 {
			m = e.List[iinit]
		}
		return state.BasisVectorDensity(e.N, m)
	case config.ICThreeStates:
		return e.threeStates(iinit)
	case config.ICNPlusOne:
		return e.nPlusOne(iinit)
	}
	chk.Panic("initcond: unknown initial-condition type %v", e.Type)
	return nil
}

// basisElement enumerates the N² pure states that span the vectorized
// Liouville space, indexed iinit = k + j·N: diagonal states
// for k==j, real symmetric superpositions (|k⟩+|j⟩)/√2 for k<j and
// imaginary superpositions (|j⟩+i|k⟩)/√2 for k>j, so the full complex
// off-diagonal structure is exercised.
func (e *Ensemble) basisElement(iinit int) []float64 {
	k := iinit % e.N
	j := iinit / e.N
	if k == j {
		return state.BasisVectorDensity(e.N, k)
	}
	v := state.New(e.N)
	if k < j {
		amps := make([]complex128, e.N)
		amps[k] = complex(1/math.Sqrt2, 0)
		amps[j] = complex(1/math.Sqrt2, 0)
		fillPure(v, e.N, amps)
	} else {
		amps := make([]complex128, e.N)
		amps[j] = complex(1/math.Sqrt2, 0)
		amps[k] = complex(0, 1/math.Sqrt2)
		fillPure(v, e.N, amps)
	}
	return v
}

// threeStates returns the canonical |0⟩, |1⟩, (|0⟩+|1⟩)/√2 triple used for
// quick single-qubit-style characterisation.
func (e *Ensemble) threeStates(iinit int) []float64 {
	if e.N < 2 {
		chk.Panic("initcond: threestates requires a composite dimension of at least 2, got %d", e.N)
	}
	switch iinit {
	case 0:
		return state.BasisVectorDensity(e.N, 0)
	case 1:
		return state.BasisVectorDensity(e.N, 1)
	case 2:
		v := state.New(e.N)
		amps := make([]complex128, e.N)
		amps[0] = complex(1/math.Sqrt2, 0)
		amps[1] = complex(1/math.Sqrt2, 0)
		fillPure(v, e.N, amps)
		return v
	}
	chk.Panic("initcond: threestates index %d out of range", iinit)
	return nil
}

// nPlusOne returns the N basis states plus one equal superposition of all
// of them, the minimal ensemble that fully determines a target unitary up
// to global phase.
func (e *Ensemble) nPlusOne(iinit int) []float64 {
	if iinit < e.N {
		return state.BasisVectorDensity(e.N, iinit)
	}
	v := state.New(e.N)
	amps := make([]complex128, e.N)
	amp := complex(1/math.Sqrt(float64(e.N)), 0)
	for i := range amps {
		amps[i] = amp
	}
	fillPure(v, e.N, amps)
	return v
}

// fillPure writes the vectorized density matrix of the pure state with
// amplitude vector amps (need not be pre-normalised beyond what callers
// already guarantee) into v.
func fillPure(v []float64, n int, amps []complex128) {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := amps[i] * cmplxConj(amps[j])
			state.Set(v, n, i, j, real(c), imag(c))
		}
	}
}

func cmplxConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// readStateFile loads one vectorized state (2·N² floats, whitespace
// separated) per line from path.
func readStateFile(path string, n int) [][]float64 {
	if path == "" {
		chk.Panic("initcond: initialcondition_file is required for the FromFile type")
	}
	raw, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("initcond: cannot read %q:\n%v", path, err)
	}
	want := 2 * n * n
	var rows [][]float64
	for _, ln := range strings.Split(string(raw), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		fields := strings.Fields(ln)
		if len(fields) != want {
			chk.Panic("initcond: %q: expected %d values per row, got %d", path, want, len(fields))
		}
		row := make([]float64, want)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				chk.Panic("initcond: %q: cannot parse float %q", path, f)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		chk.Panic("initcond: %q contains no initial conditions", path)
	}
	return rows
}

// NLocal returns the fixed per-rank share ninit/sizeInit of the Init
// communicator's partition of the ensemble. ninit must be a multiple of sizeInit; the caller is
// expected to size np_init accordingly.
func NLocal(ninit, sizeInit int) int {
	if ninit%sizeInit != 0 {
		chk.Panic("initcond: ensemble size %d is not a multiple of np_init=%d", ninit, sizeInit)
	}
	return ninit / sizeInit
}

// GlobalIndex maps a rank-local initial-condition index to its global
// index: iinit = rankInit·ninitLocal + iinitLocal.
func GlobalIndex(ninitLocal, rankInit, iinitLocal int) int {
	return rankInit*ninitLocal + iinitLocal
}

// LocalIndices returns this rank's global initial-condition indices in
// order, built from utl.IntRange over the local-index range and shifted by
// GlobalIndex.
func LocalIndices(ninitLocal, rankInit int) []int {
	local := utl.IntRange(ninitLocal)
	global := make([]int, ninitLocal)
	for i, l := range local {
		global[i] = GlobalIndex(ninitLocal, rankInit, l)
	}
	return global
}
