// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package master

import "github.com/ORNL-QCI/quandary/state"

// indexMap decomposes a full composite-space index into (keepIdx, traceIdx)
// for a partial trace over the oscillators not in keepIDs, and the inverse.
type indexMap struct {
	levels       []int
	keep         []bool
	strides      []int
	keepLevels   []int
	keepStrides  []int
	traceLevels  []int
	traceStrides []int
}

func stridesOf(levels []int) []int {
	n := len(levels)
	strides := make([]int, n)
	s := 1
	for k := n - 1; k >= 0; k-- {
		strides[k] = s
		s *= levels[k]
	}
	return strides
}

func newIndexMap(levels []int, keepIDs []int) *indexMap {
	keep := make([]bool, len(levels))
	for _, id := range keepIDs {
		keep[id] = true
	}
	var keepLevels, traceLevels []int
	for k, l := range levels {
		if keep[k] {
			keepLevels = append(keepLevels, l)
		} else {
			traceLevels = append(traceLevels, l)
		}
	}
	return &indexMap{
		levels:       levels,
		keep:         keep,
		strides:      stridesOf(levels),
		keepLevels:   keepLevels,
		keepStrides:  stridesOf(keepLevels),
		traceLevels:  traceLevels,
		traceStrides: stridesOf(traceLevels),
	}
}

// ReducedDim returns the dimension of the subsystem kept by keepIDs, without
// computing a partial trace.
func (o *MasterEq) ReducedDim(keepIDs []int) int {
	return newIndexMap(o.levels(), keepIDs).keepDim()
}

func (m *indexMap) keepDim() int {
	d := 1
	for _, l := range m.keepLevels {
		d *= l
	}
	return d
}

func (m *indexMap) split(full int) (keepIdx, traceIdx int) {
	kpos, tpos := 0, 0
	for k := range m.levels {
		digit := (full / m.strides[k]) % m.levels[k]
		if m.keep[k] {
			keepIdx += digit * m.keepStrides[kpos]
			kpos++
		} else {
			traceIdx += digit * m.traceStrides[tpos]
			tpos++
		}
	}
	return
}

// levels returns this oscillator register's level counts, in order.
func (o *MasterEq) levels() []int {
	ls := make([]int, len(o.Oscillators))
	for k, osc := range o.Oscillators {
		ls[k] = osc.Nlevels
	}
	return ls
}

// ReducedDensity computes the partial trace of rho over the oscillators not
// in keepIDs.
func (o *MasterEq) ReducedDensity(rho []float64, keepIDs []int) []float64 {
	im := newIndexMap(o.levels(), keepIDs)
	kd := im.keepDim()
	out := state.New(kd)
	for i := 0; i < o.N; i++ {
		ki, ti := im.split(i)
		for j := 0; j < o.N; j++ {
			kj, tj := im.split(j)
			if ti != tj {
				continue
			}
			re, imPart := state.Get(rho, o.N, i, j)
			state.Add(out, kd, ki, kj, re, imPart)
		}
	}
	return out
}

// ReducedDensityDiff is the adjoint of ReducedDensity: it scatters outBar
// (a bar-vector over the reduced space) back into a bar-vector over the
// full composite space.
func (o *MasterEq) ReducedDensityDiff(outBar []float64, keepIDs []int) []float64 {
	im := newIndexMap(o.levels(), keepIDs)
	kd := im.keepDim()
	rhoBar := state.New(o.N)
	for i := 0; i < o.N; i++ {
		ki, ti := im.split(i)
		for j := 0; j < o.N; j++ {
			kj, tj := im.split(j)
			if ti != tj {
				continue
			}
			re, imPart := state.Get(outBar, kd, ki, kj)
			state.Add(rhoBar, o.N, i, j, re, imPart)
		}
	}
	return rhoBar
}
