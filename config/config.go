// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// PiPulse is one pi-pulse override interval [Ts,Te] with amplitude A.
type PiPulse struct {
	Ts, Te, A float64
}

// OscillatorData holds the per-oscillator block read from the config file:
// nlevels_k, ground_freq_k, carrier_frequencies_k, decay_rate_k, dephase_rate_k.
type OscillatorData struct {
	Nlevels    int       // nlevels_k
	GroundFreq float64   // ground_freq_k (ω₀ₖ)
	Carriers   []float64 // carrier_frequencies_k
	DecayRate  float64   // decay_rate_k (γ1_k)
	DephaseRate float64  // dephase_rate_k (γ2_k)
	Bound      float64   // optim_bounds entry for this oscillator
	InitConst  float64   // optim_init_const entry for this oscillator
	PiPulses   []PiPulse
}

// Config is the flat key=value configuration. Parsing is
// deliberately minimal: it is the defined-interface collaborator the core
// depends on, not a general-purpose config format.
type Config struct {
	Ntime      int
	TotalTime  float64
	Nspline    int
	Lindblad   LindbladType
	Oscillators []OscillatorData

	ICType       InitialConditionType
	ICList       []int  // optim_initialcondition indices, when explicit
	ICFilePath   string // initialcondition_file, used when ICType==ICFromFile

	ObjType  ObjectiveType
	ObjGate  GateKind
	ObjOscilIDs []int

	OptimRegul float64 // Tikhonov γ
	OptimInit  OptimInitKind
	OptimInitPath string
	OptimInitSeed int64

	LinSolver     LinearSolverType
	LinSolverMaxIter int
	LinSolverTol     float64

	Run RunType

	NpInit  int
	NpBraid int

	DataDir          string
	OutputFrequency  int
	OptimMonitorFreq int
	OptimPrintLevel  int
	WriteFullState   bool
}

// SetDefault assigns the defaults used whenever a key is absent.
func (o *Config) SetDefault() {
	o.Ntime = 100
	o.TotalTime = 1.0
	o.Nspline = 10
	o.Lindblad = LindbladNone
	o.ICType = ICPure
	o.ObjType = ObjGateFrobenius
	o.ObjGate = GateX
	o.OptimRegul = 1e-4
	o.OptimInit = OptimInitZero
	o.LinSolver = LinSolGMRES
	o.LinSolverMaxIter = 100
	o.LinSolverTol = 1e-10
	o.Run = RunSimulation
	o.NpInit = 1
	o.NpBraid = 1
	o.DataDir = "./data_out"
	o.OutputFrequency = 1
	o.OptimMonitorFreq = 10
	o.OptimPrintLevel = 1
}

// Read loads a flat key=value configuration file from path. Per-oscillator
// blocks are keyed "nlevels_0", "ground_freq_0", "carrier_frequencies_0", etc.
func Read(path string) (o *Config) {
	o = new(Config)
	o.SetDefault()

	raw, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("cannot read config file %q:\n%v", path, err)
	}
	lines := strings.Split(string(raw), "\n")

	kv := make(map[string]string)
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		parts := strings.SplitN(ln, "=", 2)
		if len(parts) != 2 {
			continue
		}
		kv[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}

	if v, ok := kv["ntime"]; ok {
		o.Ntime = atoiPanic(v, "ntime")
	}
	if v, ok := kv["total_time"]; ok {
		o.TotalTime = atofPanic(v, "total_time")
	}
	if v, ok := kv["nspline"]; ok {
		o.Nspline = atoiPanic(v, "nspline")
	}
	if v, ok := kv["lindblad_type"]; ok {
		o.Lindblad = ParseLindbladType(v)
	}
	if v, ok := kv["runtype"]; ok {
		o.Run = ParseRunType(v)
	}
	if v, ok := kv["linearsolver_type"]; ok {
		o.LinSolver = ParseLinearSolverType(v)
	}
	if v, ok := kv["linearsolver_maxiter"]; ok {
		o.LinSolverMaxIter = atoiPanic(v, "linearsolver_maxiter")
	}
	if v, ok := kv["linearsolver_tol"]; ok {
		o.LinSolverTol = atofPanic(v, "linearsolver_tol")
	}
	if v, ok := kv["optim_regul"]; ok {
		o.OptimRegul = atofPanic(v, "optim_regul")
	}
	if v, ok := kv["initialcondition_type"]; ok {
		o.ICType = ParseInitialConditionType(v)
	}
	if v, ok := kv["initialcondition_file"]; ok {
		o.ICFilePath = v
	}
	if v, ok := kv["optim_initialcondition"]; ok {
		for _, tok := range strings.Fields(v) {
			o.ICList = append(o.ICList, atoiPanic(tok, "optim_initialcondition"))
		}
	}
	if v, ok := kv["datadir"]; ok {
		o.DataDir = v
	}
	if v, ok := kv["output_frequency"]; ok {
		o.OutputFrequency = atoiPanic(v, "output_frequency")
	}
	if v, ok := kv["optim_monitor_freq"]; ok {
		o.OptimMonitorFreq = atoiPanic(v, "optim_monitor_freq")
	}
	if v, ok := kv["optim_printlevel"]; ok {
		o.OptimPrintLevel = atoiPanic(v, "optim_printlevel")
	}
	if v, ok := kv["writefullstate"]; ok {
		o.WriteFullState = v == "true" || v == "1"
	}
	if v, ok := kv["np_init"]; ok {
		o.NpInit = atoiPanic(v, "np_init")
	}
	if v, ok := kv["np_braid"]; ok {
		o.NpBraid = atoiPanic(v, "np_braid")
	}
	if v, ok := kv["optim_objective"]; ok {
		fields := strings.Fields(v)
		if len(fields) == 0 {
			chk.Panic("optim_objective must name at least one token")
		}
		o.ObjType = parseObjectiveKind(fields[0])
		if o.ObjType == ObjGateFrobenius || o.ObjType == ObjGateTrace {
			if len(fields) < 2 {
				chk.Panic("optim_objective gate kind requires a second token")
			}
			o.ObjGate = ParseGateKind(fields[1])
		}
	}
	if v, ok := kv["optim_init"]; ok {
		switch v {
		case "zero":
			o.OptimInit = OptimInitZero
		case "constant":
			o.OptimInit = OptimInitConstant
		case "random":
			o.OptimInit = OptimInitRandom
		case "random_seed":
			o.OptimInit = OptimInitRandomSeed
		default:
			o.OptimInit = OptimInitFile
			o.OptimInitPath = v
		}
	}

	if v, ok := kv["noscillators"]; ok {
		n := atoiPanic(v, "noscillators")
		o.Oscillators = make([]OscillatorData, n)
		for k := 0; k < n; k++ {
			osc := &o.Oscillators[k]
			osc.Nlevels = 2
			if vv, ok := kv[io.Sf("nlevels_%d", k)]; ok {
				osc.Nlevels = atoiPanic(vv, "nlevels_k")
			}
			if vv, ok := kv[io.Sf("ground_freq_%d", k)]; ok {
				osc.GroundFreq = atofPanic(vv, "ground_freq_k")
			}
			if vv, ok := kv[io.Sf("carrier_frequencies_%d", k)]; ok {
				for _, tok := range strings.Fields(vv) {
					osc.Carriers = append(osc.Carriers, atofPanic(tok, "carrier_frequencies_k"))
				}
			}
			if len(osc.Carriers) == 0 {
				osc.Carriers = []float64{0}
			}
			if vv, ok := kv[io.Sf("decay_rate_%d", k)]; ok {
				osc.DecayRate = atofPanic(vv, "decay_rate_k")
			}
			if vv, ok := kv[io.Sf("dephase_rate_%d", k)]; ok {
				osc.DephaseRate = atofPanic(vv, "dephase_rate_k")
			}
		}
	}
	if v, ok := kv["optim_bounds"]; ok {
		for k, tok := range strings.Fields(v) {
			if k < len(o.Oscillators) {
				o.Oscillators[k].Bound = atofPanic(tok, "optim_bounds")
			}
		}
	}
	if v, ok := kv["optim_init_const"]; ok {
		for k, tok := range strings.Fields(v) {
			if k < len(o.Oscillators) {
				o.Oscillators[k].InitConst = atofPanic(tok, "optim_init_const")
			}
		}
	}
	return
}

func parseObjectiveKind(s string) ObjectiveType {
	switch s {
	case "gate":
		return ObjGateFrobenius
	case "expectedEnergy":
		return ObjExpectedEnergyC
	case "groundstate":
		return ObjGroundState
	case "purem":
		return ObjPureM
	}
	chk.Panic("optim_objective kind %q is not recognised", s)
	return ObjGateFrobenius
}

func atoiPanic(s, key string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		chk.Panic("config key %q: cannot parse integer %q", key, s)
	}
	return v
}

func atofPanic(s, key string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		chk.Panic("config key %q: cannot parse float %q", key, s)
	}
	return v
}
