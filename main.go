// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/ORNL-QCI/quandary/adjoint"
	"github.com/ORNL-QCI/quandary/basis"
	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/driver"
	"github.com/ORNL-QCI/quandary/initcond"
	"github.com/ORNL-QCI/quandary/integrator"
	"github.com/ORNL-QCI/quandary/master"
	"github.com/ORNL-QCI/quandary/optim"
	"github.com/ORNL-QCI/quandary/oscillator"
	"github.com/ORNL-QCI/quandary/output"
	"github.com/ORNL-QCI/quandary/runtime"
	"github.com/ORNL-QCI/quandary/target"
)

// exit codes
const (
	exitOK      = 0
	exitConfig  = 1
	exitNumeric = 2
	exitIO      = 3
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if !mpi.IsOn() || mpi.Rank() == 0 {
				chk.Verbose = true
				io.PfRed("ERROR: %v\n", r)
			}
			runtime.Stop()
			os.Exit(classify(r))
		}
		runtime.Stop()
	}()
	runtime.Start()

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("config: please provide a config file path. Usage: quandary <config-path>")
	}
	cfg := config.Read(flag.Arg(0))

	rt := runtime.New(cfg.NpInit, cfg.NpBraid)
	if rt.ShowMsg {
		io.PfWhite("\nquandary -- Go quantum optimal-control engine\n\n")
	}

	levels := make([]int, len(cfg.Oscillators))
	for k, od := range cfg.Oscillators {
		levels[k] = od.Nlevels
	}
	oscs := make([]*oscillator.Oscillator, len(cfg.Oscillators))
	for k, od := range cfg.Oscillators {
		oscs[k] = oscillator.New(k, levels, od, cfg.Nspline, cfg.TotalTime)
		oscs[k].SetDesign(make([]float64, oscs[k].NParams()))
	}
	eq := master.New(oscs, nil, cfg.Lindblad)
	solve := integrator.NewLinSolve(cfg.LinSolver, cfg.LinSolverMaxIter, cfg.LinSolverTol)
	ensemble := initcond.New(eq.N, cfg)
	tgt := buildTarget(cfg, oscs, eq)

	out := output.New(cfg.DataDir)

	switch cfg.Run {
	case config.RunNothing:
		// config validated only
	case config.RunSimulation:
		runSimulation(cfg, eq, solve, ensemble, tgt, out, rt)
	case config.RunGradient:
		runGradientCheck(cfg, oscs, eq, solve, ensemble, tgt, rt)
	case config.RunOptimization:
		runOptimization(cfg, rt, oscs, eq, solve, ensemble, tgt, out)
	}
}

func buildTarget(cfg *config.Config, oscs []*oscillator.Oscillator, eq *master.MasterEq) target.Target {
	n := eq.N
	switch cfg.ObjType {
	case config.ObjGateFrobenius:
		return target.NewGateTarget(cfg.ObjGate, n, false)
	case config.ObjGateTrace:
		return target.NewGateTarget(cfg.ObjGate, n, true)
	case config.ObjPureM:
		m := 0
		if len(cfg.ICList) > 0 {
			m = cfg.ICList[0]
		}
		return target.NewPureTargetReduced(n, m, cfg.ObjOscilIDs, eq)
	case config.ObjGroundState:
		return target.NewPureTargetReduced(n, 0, cfg.ObjOscilIDs, eq)
	case config.ObjExpectedEnergyA, config.ObjExpectedEnergyB, config.ObjExpectedEnergyC:
		return target.NewExpectedEnergyTarget(oscs, cfg.ObjOscilIDs, cfg.ObjType)
	}
	chk.Panic("config: objective type %v has no target implementation", cfg.ObjType)
	return nil
}

func runSimulation(cfg *config.Config, eq *master.MasterEq, solve *integrator.LinSolve, ensemble *initcond.Ensemble, tgt target.Target, out *output.Writer, rt *runtime.Runtime) {
	stepper := integrator.New(eq, solve, cfg.Ntime, cfg.TotalTime)
	rho0 := ensemble.State(0)
	traj := stepper.Forward(rho0)
	final := traj[len(traj)-1]
	if cfg.WriteFullState {
		out.WriteState("rho_Re.dat", "rho_Im.dat", final, eq.N)
	}
	if rt.ShowMsg {
		io.Pf("simulation done: J = %v\n", tgt.Eval(final, rho0))
		dumpPopulations(cfg, eq, traj, out)
	}
}

// dumpPopulations writes one population_<k>.dat per oscillator, the level
// populations along the already-computed trajectory.
func dumpPopulations(cfg *config.Config, eq *master.MasterEq, traj [][]float64, out *output.Writer) {
	for k, osc := range eq.Oscillators {
		values := make([][]float64, len(traj))
		for i, rho := range traj {
			values[i] = osc.Population(rho)
		}
		out.WriteObservableUniform(io.Sf("population_%d.dat", k), cfg.TotalTime, len(traj), values)
	}
}

func runGradientCheck(cfg *config.Config, oscs []*oscillator.Oscillator, eq *master.MasterEq, solve *integrator.LinSolve, ensemble *initcond.Ensemble, tgt target.Target, rt *runtime.Runtime) {
	nparams := 0
	for _, o := range oscs {
		nparams += o.NParams()
	}
	stepper := integrator.New(eq, solve, cfg.Ntime, cfg.TotalTime)
	eng := adjoint.New(stepper, tgt, nparams)
	grad := make([]float64, nparams)
	rho0 := ensemble.State(0)
	j := eng.Run(rho0, grad)
	if rt.ShowMsg {
		io.Pf("gradient done: J = %v, |grad|=%v\n", j, adjoint.GradNorm(grad))
	}
}

func runOptimization(cfg *config.Config, rt *runtime.Runtime, oscs []*oscillator.Oscillator, eq *master.MasterEq, solve *integrator.LinSolve, ensemble *initcond.Ensemble, tgt target.Target, out *output.Writer) {
	problem := optim.NewProblem(rt, oscs, eq, solve, cfg.Ntime, cfg.TotalTime, ensemble, tgt, cfg)
	drv := driver.New(problem, 500, 1e-6)
	drv.PrintLevel = cfg.OptimPrintLevel

	var history []output.OptimRow
	drv.Monitor = func(iter int, x []float64, f float64, gradNorm float64) {
		history = append(history, output.OptimRow{Iter: iter, Obj: f, Fidelity: 1 - f, GradNorm: gradNorm})
		if iter%cfg.OptimMonitorFreq == 0 {
			out.WriteDesign(io.Sf("param_iter%04d.dat", iter), x)
		}
	}

	x0 := problem.GetStartingPoint()
	xOpt, _ := drv.Run(x0)
	problem.ApplyDesign(xOpt)

	if rt.ShowMsg {
		out.WriteOptimHistory("optim.dat", history)
		out.WriteDesign("param_optimized.dat", xOpt)
		dumpControls(cfg, oscs, out)
	}
}

// dumpControls writes one control_<k>.dat per oscillator, sampling the
// optimized p(t)/q(t)/f_lab(t) as fun.Func values over [0,T].
func dumpControls(cfg *config.Config, oscs []*oscillator.Oscillator, out *output.Writer) {
	npts := cfg.Ntime + 1
	for k, osc := range oscs {
		p := osc.ControlFunc(basis.RE)
		q := osc.ControlFunc(basis.IM)
		flab := osc.ControlFunc(basis.LAB)
		out.WriteControlFunc(io.Sf("control_%d.dat", k), cfg.TotalTime, npts, p, q, flab)
	}
}

func classify(r interface{}) int {
	msg := strings.ToLower(fmt.Sprint(r))
	switch {
	case strings.Contains(msg, "cannot read") || strings.Contains(msg, "cannot write") || strings.Contains(msg, "no such file"):
		return exitIO
	case strings.Contains(msg, "config") || strings.Contains(msg, "usage"):
		return exitConfig
	}
	return exitNumeric
}
