// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package master

import (
	"github.com/ORNL-QCI/quandary/basis"
	"github.com/ORNL-QCI/quandary/state"
)

// ApplyParamDeriv left-multiplies yBar by (∂M/∂θ at t)·y and accumulates the
// result into gradOut (length = Σ_k NParams_k, oscillator order), via
// ControlBasis.Derivative's chain rule.
func (o *MasterEq) ApplyParamDeriv(t float64, y, yBar, gradOut []float64) {
	o.checkReady(t)
	N := o.N
	offset := 0
	buf := make([]float64, len(y))
	for _, osc := range o.Oscillators {
		np := osc.NParams()
		chunk := gradOut[offset : offset+np]

		for i := range buf {
			buf[i] = 0
		}
		applyControlHamiltonian(osc, 1, 0, y, buf, N, 1)
		seedP := dot(yBar, buf)

		for i := range buf {
			buf[i] = 0
		}
		applyControlHamiltonian(osc, 0, 1, y, buf, N, 1)
		seedQ := dot(yBar, buf)

		osc.ControlParamDeriv(t, chunk, seedP, basis.RE)
		osc.ControlParamDeriv(t, chunk, seedQ, basis.IM)
		offset += np
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
