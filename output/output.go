// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package output writes the engine's ASCII data products (control and
// parameter dumps, optimisation history, final states and observables)
// using a buffered io.Ff writer flushed once per file.
package output

import (
	"bytes"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/ORNL-QCI/quandary/state"
)

// Writer roots every data product under DataDir (datadir config key).
type Writer struct {
	DataDir string
}

// New builds a Writer rooted at dataDir.
func New(dataDir string) *Writer {
	return &Writer{DataDir: dataDir}
}

func (w *Writer) path(name string) string {
	return io.Sf("%s/%s", w.DataDir, name)
}

// OptimRow is one row of optim.dat.
type OptimRow struct {
	Iter     int
	Obj      float64
	Fidelity float64
	GradNorm float64
	InfDu    float64
	LsTrials int
}

// WriteOptimHistory writes optim.dat with its standard column header:
// iter, objective value, fidelity, gradient norm, inf_du, line-search trial
// count.
func (w *Writer) WriteOptimHistory(name string, rows []OptimRow) {
	var buf bytes.Buffer
	io.Ff(&buf, "%6s %14s %14s %14s %14s %10s\n", "iter", "obj_value", "fidelity", "||grad||", "inf_du", "ls_trials")
	for _, r := range rows {
		io.Ff(&buf, "%6d %14.6e %14.6e %14.6e %14.6e %10d\n", r.Iter, r.Obj, r.Fidelity, r.GradNorm, r.InfDu, r.LsTrials)
	}
	io.WriteFileV(w.path(name), &buf)
}

// WriteControl writes a control_*.dat file with columns t p(t) q(t) f_lab(t).
func (w *Writer) WriteControl(name string, times, p, q, flab []float64) {
	var buf bytes.Buffer
	io.Ff(&buf, "%14s %14s %14s %14s\n", "t", "p(t)", "q(t)", "f_lab(t)")
	for i, t := range times {
		io.Ff(&buf, "%14.6e %14.6e %14.6e %14.6e\n", t, p[i], q[i], flab[i])
	}
	io.WriteFileV(w.path(name), &buf)
}

// WriteControlFunc samples p(t), q(t), f_lab(t) at npts equally spaced times
// over [0,T] (built with utl.LinSpace) and writes them via WriteControl.
func (w *Writer) WriteControlFunc(name string, T float64, npts int, p, q, flab fun.Func) {
	times := utl.LinSpace(0, T, npts)
	ps := make([]float64, npts)
	qs := make([]float64, npts)
	fs := make([]float64, npts)
	for i, t := range times {
		ps[i] = p.F(t, nil)
		qs[i] = q.F(t, nil)
		fs[i] = flab.F(t, nil)
	}
	w.WriteControl(name, times, ps, qs, fs)
}

// WriteDesign writes a param_*.dat file: the flat design vector, one value
// per line.
func (w *Writer) WriteDesign(name string, x []float64) {
	var buf bytes.Buffer
	for _, v := range x {
		io.Ff(&buf, "%20.12e\n", v)
	}
	io.WriteFileV(w.path(name), &buf)
}

// WriteState writes rho_Re.dat and rho_Im.dat for the vectorized state rho
// of composite dimension n, one matrix row per line.
func (w *Writer) WriteState(nameRe, nameIm string, rho []float64, n int) {
	var bufRe, bufIm bytes.Buffer
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			re, im := state.Get(rho, n, i, j)
			io.Ff(&bufRe, "%20.12e ", re)
			io.Ff(&bufIm, "%20.12e ", im)
		}
		io.Ff(&bufRe, "\n")
		io.Ff(&bufIm, "\n")
	}
	io.WriteFileV(w.path(nameRe), &bufRe)
	io.WriteFileV(w.path(nameIm), &bufIm)
}

// WriteObservableUniform writes an observable file sampled at npts equally
// spaced times over [0,T] (utl.LinSpace), one row per entry of values.
func (w *Writer) WriteObservableUniform(name string, T float64, npts int, values [][]float64) {
	times := utl.LinSpace(0, T, npts)
	w.WriteObservable(name, times, values)
}

// WriteObservable writes an expected_k.dat/population_k.dat-style file: one
// row per recorded time, one column per observable component.
func (w *Writer) WriteObservable(name string, times []float64, values [][]float64) {
	var buf bytes.Buffer
	io.Ff(&buf, "%14s", "t")
	if len(values) > 0 {
		for j := range values[0] {
			io.Ff(&buf, " %14s", io.Sf("c%d", j))
		}
	}
	io.Ff(&buf, "\n")
	for i, t := range times {
		io.Ff(&buf, "%14.6e", t)
		for _, v := range values[i] {
			io.Ff(&buf, " %14.6e", v)
		}
		io.Ff(&buf, "\n")
	}
	io.WriteFileV(w.path(name), &buf)
}
