// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oscillator

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/state"
)

func TestNumberOperatorSingleOscillator(t *testing.T) {
	cfg := config.OscillatorData{Nlevels: 3, GroundFreq: 4.0, Carriers: []float64{0}}
	osc := New(0, []int{3}, cfg, 4, 1.0)
	m := osc.Number.ToMatrix(nil).ToDense()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = float64(i)
			}
			chk.Scalar(t, "N_ij", 1e-14, m[i][j], want)
		}
	}
}

func TestExpectedEnergyOnBasisState(t *testing.T) {
	cfg := config.OscillatorData{Nlevels: 3, GroundFreq: 4.0, Carriers: []float64{0}}
	osc := New(0, []int{3}, cfg, 4, 1.0)
	rho := state.BasisVectorDensity(3, 2) // |2><2|, excited to level 2
	e := osc.ExpectedEnergy(rho)
	chk.Scalar(t, "<N>", 1e-14, e, 2.0)
}

func TestKroneckerStructureTwoOscillators(t *testing.T) {
	// two qubits: oscillator 0's number operator must act as N⊗I on the
	// composite 4-dim space
	cfg0 := config.OscillatorData{Nlevels: 2, GroundFreq: 4.0, Carriers: []float64{0}}
	cfg1 := config.OscillatorData{Nlevels: 2, GroundFreq: 5.0, Carriers: []float64{0}}
	osc0 := New(0, []int{2, 2}, cfg0, 4, 1.0)
	m := osc0.Number.ToMatrix(nil).ToDense()
	// basis order (pre=osc0, post=osc1): |00>,|01>,|10>,|11> => rows 0,1,2,3
	want := []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	got := make([]float64, 0, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			got = append(got, m[i][j])
		}
	}
	chk.Array(t, "N0 = N⊗I", 1e-14, got, want)
}
