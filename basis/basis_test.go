// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestControlZeroParams(t *testing.T) {
	// invariant 9: zero params => p(t)=q(t)=0 for all t
	c := NewControl(8, 10.0, []float64{0.3}, 5.0, nil)
	theta := make([]float64, c.NParams())
	for _, tt := range []float64{0, 1.23, 5.0, 9.99} {
		p := c.Evaluate(tt, theta, RE)
		q := c.Evaluate(tt, theta, IM)
		chk.Scalar(t, "p(t)=0", 1e-14, p, 0)
		chk.Scalar(t, "q(t)=0", 1e-14, q, 0)
	}
}

func TestPiPulseOverride(t *testing.T) {
	// invariant 8: inside [Ts,Te], p=q=A/√2 exactly, regardless of θ
	pulses := []PiPulse{NewPiPulse(2.0, 3.0, 1.0)}
	c := NewControl(8, 10.0, []float64{0.3}, 5.0, pulses)
	theta := make([]float64, c.NParams())
	for i := range theta {
		theta[i] = 0.42
	}
	p := c.Evaluate(2.5, theta, RE)
	q := c.Evaluate(2.5, theta, IM)
	want := 1.0 / 1.4142135623730951
	chk.Scalar(t, "p=A/sqrt2", 1e-12, p, want)
	chk.Scalar(t, "q=A/sqrt2", 1e-12, q, want)
}

func TestDerivativeInsidePulsePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic when differentiating through a pi-pulse interval")
		}
	}()
	pulses := []PiPulse{NewPiPulse(2.0, 3.0, 1.0)}
	c := NewControl(8, 10.0, []float64{0.3}, 5.0, pulses)
	dtheta := make([]float64, c.NParams())
	c.Derivative(2.5, dtheta, 1.0, RE)
}

func TestAsFuncMatchesEvaluate(t *testing.T) {
	c := NewControl(8, 10.0, []float64{0.3}, 5.0, nil)
	theta := make([]float64, c.NParams())
	for i := range theta {
		theta[i] = 0.17
	}
	f := c.AsFunc(theta, RE)
	for _, tt := range []float64{0, 1.23, 5.0, 9.99} {
		chk.Scalar(t, "AsFunc(t) == Evaluate(t)", 1e-14, f.F(tt, nil), c.Evaluate(tt, theta, RE))
	}
}

func TestDerivativeOnlyTouchesSupport(t *testing.T) {
	c := NewControl(20, 10.0, []float64{0.3, 0.7}, 5.0, nil)
	dtheta := make([]float64, c.NParams())
	c.Derivative(5.0, dtheta, 1.0, RE)
	nonzero := 0
	for _, v := range dtheta {
		if v != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Fatal("expected some nonzero derivative entries")
	}
	if nonzero > 3*2*2 {
		t.Fatalf("too many nonzero entries: %d, expected at most 3 active basis functions * 2 carriers * 2 re/im", nonzero)
	}
}
