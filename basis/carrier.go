// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
)

// Mode selects which quadrature of the control signal is evaluated.
type Mode int

const (
	RE  Mode = iota // rotating-frame p(t)
	IM               // rotating-frame q(t)
	LAB              // lab-frame f(t)
)

// Control is the carrier-modulated B-spline control basis for one
// oscillator: p(t), q(t) built from spline
// coefficients θ^{R,c,b}, θ^{I,c,b} and carrier frequencies f_c, plus the
// lab-frame combination with the oscillator's ground frequency ω₀.
type Control struct {
	spline   *Spline
	carriers []float64 // f_c, length C
	omega0   float64   // ω₀ₖ
	pulses   []PiPulse
}

// PiPulse is a configured override interval [Ts,Te] forcing p=q=Override(t,
// nil), the callback-function shape used for element conditions (dbf.T).
type PiPulse struct {
	Ts, Te   float64
	Override dbf.T
}

// NewPiPulse builds the constant-amplitude override p=q=A/√2 used by every
// config-file pi-pulse.
func NewPiPulse(ts, te, amplitude float64) PiPulse {
	a := amplitude / math.Sqrt2
	return PiPulse{Ts: ts, Te: te, Override: func(t float64, x []float64) float64 { return a }}
}

// NewControl builds the control basis for one oscillator.
func NewControl(nbasis int, T float64, carriers []float64, omega0 float64, pulses []PiPulse) *Control {
	if len(carriers) == 0 {
		chk.Panic("basis: at least one carrier frequency is required")
	}
	return &Control{spline: NewSpline(nbasis, T), carriers: carriers, omega0: omega0, pulses: pulses}
}

// Nbasis returns B.
func (o *Control) Nbasis() int { return o.spline.Nbasis() }

// Ncarriers returns C.
func (o *Control) Ncarriers() int { return len(o.carriers) }

// NParams returns the length of this oscillator's θ slice: 2·B·C.
func (o *Control) NParams() int { return 2 * o.Nbasis() * o.Ncarriers() }

// index of the real (re=0) or imaginary (re=1) coefficient of carrier c,
// basis b inside the flat θ slice; layout is [c][b][re/im].
func (o *Control) idx(c, b, re int) int {
	return (c*o.Nbasis()+b)*2 + re
}

// activePulse returns the pi-pulse active at t, or nil.
func (o *Control) activePulse(t float64) *PiPulse {
	for i := range o.pulses {
		if t >= o.pulses[i].Ts && t <= o.pulses[i].Te {
			return &o.pulses[i]
		}
	}
	return nil
}

// Evaluate computes p(t), q(t) or f_lab(t) for the given spline
// coefficients θ (length NParams()). Fails fatally for t outside [0,T].
func (o *Control) Evaluate(t float64, theta []float64, mode Mode) float64 {
	if t < 0 || t > o.spline.T {
		outOfDomain(t, o.spline.T)
	}
	if pulse := o.activePulse(t); pulse != nil {
		return evalPulse(pulse, o.omega0, t, mode)
	}
	p, q := o.pq(t, theta)
	return project(p, q, o.omega0, t, mode)
}

// pq computes the rotating-frame quadratures p(t), q(t) from the spline
// coefficients.
func (o *Control) pq(t float64, theta []float64) (p, q float64) {
	lo, hi := o.spline.ActiveRange(t)
	for b := lo; b <= hi; b++ {
		s := o.spline.Eval(b, t)
		if s == 0 {
			continue
		}
		for c, fc := range o.carriers {
			cr := math.Cos(2 * math.Pi * fc * t)
			sr := math.Sin(2 * math.Pi * fc * t)
			thR := theta[o.idx(c, b, 0)]
			thI := theta[o.idx(c, b, 1)]
			p += thR*s*cr - thI*s*sr
			q += thR*s*sr + thI*s*cr
		}
	}
	return
}

// project turns (p,q) rotating-frame quadratures into the requested mode.
func project(p, q, omega0, t float64, mode Mode) float64 {
	switch mode {
	case RE:
		return p
	case IM:
		return q
	case LAB:
		return 2*p*math.Cos(2*math.Pi*omega0*t) - 2*q*math.Sin(2*math.Pi*omega0*t)
	}
	chk.Panic("basis: unknown mode %v", mode)
	return 0
}

// evalPulse applies the pi-pulse override verbatim.
func evalPulse(pulse *PiPulse, omega0, t float64, mode Mode) float64 {
	a := pulse.Override(t, nil)
	switch mode {
	case RE, IM:
		return a
	case LAB:
		return 2*a*math.Cos(2*math.Pi*omega0*t) - 2*a*math.Sin(2*math.Pi*omega0*t)
	}
	chk.Panic("basis: unknown mode %v", mode)
	return 0
}

// Derivative populates dtheta (length NParams(), assumed pre-zeroed by the
// caller) with seed·∂(mode)/∂θ at time t. Only the nonzero-support
// coefficients are touched; all other entries are left untouched.
// Differentiating through a pi-pulse interval is fatal (BoundaryError).
func (o *Control) Derivative(t float64, dtheta []float64, seed float64, mode Mode) {
	if o.activePulse(t) != nil {
		chk.Panic("basis: derivative requested inside a pi-pulse interval at t=%v: BoundaryError", t)
	}
	lo, hi := o.spline.ActiveRange(t)
	for b := lo; b <= hi; b++ {
		s := o.spline.Eval(b, t)
		if s == 0 {
			continue
		}
		for c, fc := range o.carriers {
			cr := math.Cos(2 * math.Pi * fc * t)
			sr := math.Sin(2 * math.Pi * fc * t)
			// ∂p/∂θR = s·cr, ∂p/∂θI = -s·sr, ∂q/∂θR = s·sr, ∂q/∂θI = s·cr
			var dpR, dpI, dqR, dqI float64
			dpR, dpI = s*cr, -s*sr
			dqR, dqI = s*sr, s*cr
			switch mode {
			case RE:
				dtheta[o.idx(c, b, 0)] += seed * dpR
				dtheta[o.idx(c, b, 1)] += seed * dpI
			case IM:
				dtheta[o.idx(c, b, 0)] += seed * dqR
				dtheta[o.idx(c, b, 1)] += seed * dqI
			case LAB:
				cw := math.Cos(2 * math.Pi * o.omega0 * t)
				sw := math.Sin(2 * math.Pi * o.omega0 * t)
				dtheta[o.idx(c, b, 0)] += seed * (2*dpR*cw - 2*dqR*sw)
				dtheta[o.idx(c, b, 1)] += seed * (2*dpI*cw - 2*dqI*sw)
			default:
				chk.Panic("basis: unknown mode %v", mode)
			}
		}
	}
}

// controlFunc adapts one quadrature of a Control, at a fixed θ, to fun.Func,
// the element-condition function interface used for boundary/source terms.
type controlFunc struct {
	ctrl  *Control
	theta []float64
	mode  Mode
}

func (o controlFunc) F(t float64, x []float64) float64 { return o.ctrl.Evaluate(t, o.theta, o.mode) }

// G and H (first/second time derivative) are unused by this control basis:
// the adjoint sweep differentiates through θ via Derivative, not through t.
func (o controlFunc) G(t float64, x []float64) float64 { return 0 }
func (o controlFunc) H(t float64, x []float64) float64 { return 0 }

// AsFunc wraps one quadrature of this control basis, evaluated at the given
// θ, as a fun.Func, the shape expected wherever a time-dependent boundary
// condition is plugged in.
func (o *Control) AsFunc(theta []float64, mode Mode) fun.Func {
	return controlFunc{ctrl: o, theta: theta, mode: mode}
}
