// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package master

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/state"
)

func buildSingleQubit() *MasterEq {
	cfg := config.OscillatorData{Nlevels: 2, GroundFreq: 4.0, Carriers: []float64{0}}
	osc := oscillator.New(0, []int{2}, cfg, 4, 1.0)
	osc.SetDesign(make([]float64, osc.NParams()))
	return New([]*oscillator.Oscillator{osc}, nil, config.LindbladNone)
}

func TestApplyZeroControlGivesZeroGenerator(t *testing.T) {
	m := buildSingleQubit()
	rho := state.BasisVectorDensity(2, 0)
	out := state.New(2)
	m.Assemble(0.3)
	m.Apply(0.3, rho, out)
	for _, v := range out {
		chk.Scalar(t, "M*rho = 0 with no Hamiltonian and zero control", 1e-13, v, 0)
	}
}

func TestReducedDensityTraceOneSubsystem(t *testing.T) {
	cfg0 := config.OscillatorData{Nlevels: 2, Carriers: []float64{0}}
	cfg1 := config.OscillatorData{Nlevels: 2, Carriers: []float64{0}}
	osc0 := oscillator.New(0, []int{2, 2}, cfg0, 4, 1.0)
	osc1 := oscillator.New(1, []int{2, 2}, cfg1, 4, 1.0)
	osc0.SetDesign(make([]float64, osc0.NParams()))
	osc1.SetDesign(make([]float64, osc1.NParams()))
	m := New([]*oscillator.Oscillator{osc0, osc1}, nil, config.LindbladNone)

	// rho = |01><01| (osc0=0, osc1=1) => index 1 in a 4-dim composite space
	rho := state.BasisVectorDensity(4, 1)
	reduced := m.ReducedDensity(rho, []int{0})
	// tracing out osc1 from |0><0|⊗|1><1| must give |0><0| on osc0
	re, im := state.Get(reduced, 2, 0, 0)
	chk.Scalar(t, "reduced[0][0]", 1e-14, re, 1)
	chk.Scalar(t, "reduced[0][0] im", 1e-14, im, 0)
	re, im = state.Get(reduced, 2, 1, 1)
	chk.Scalar(t, "reduced[1][1]", 1e-14, re, 0)
	chk.Scalar(t, "reduced[1][1] im", 1e-14, im, 0)
}
