// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config holds the flat key=value configuration reader and the
// central enumerations shared across the optimal-control engine.
package config

import "github.com/cpmech/gosl/chk"

// LindbladType selects which collapse operators enter the dissipator.
type LindbladType int

const (
	LindbladNone LindbladType = iota
	LindbladDecay
	LindbladDephase
	LindbladBoth
)

func (t LindbladType) String() string {
	switch t {
	case LindbladNone:
		return "none"
	case LindbladDecay:
		return "decay"
	case LindbladDephase:
		return "dephase"
	case LindbladBoth:
		return "both"
	}
	return "unknown"
}

// ParseLindbladType converts the config-file token into a LindbladType.
func ParseLindbladType(s string) LindbladType {
	switch s {
	case "none":
		return LindbladNone
	case "decay":
		return LindbladDecay
	case "dephase":
		return LindbladDephase
	case "both":
		return LindbladBoth
	}
	chk.Panic("lindblad_type %q is not recognised", s)
	return LindbladNone
}

// InitialConditionType selects how the initial-condition ensemble is enumerated.
type InitialConditionType int

const (
	ICPure InitialConditionType = iota
	ICFromFile
	ICDiagonal
	ICBasis
	ICEnsemble
	ICThreeStates
	ICNPlusOne
)

// ParseInitialConditionType converts the config-file token.
func ParseInitialConditionType(s string) InitialConditionType {
	switch s {
	case "pure":
		return ICPure
	case "fromfile":
		return ICFromFile
	case "diagonal":
		return ICDiagonal
	case "basis":
		return ICBasis
	case "ensemble":
		return ICEnsemble
	case "threestates":
		return ICThreeStates
	case "nplusone":
		return ICNPlusOne
	}
	chk.Panic("initialcondition_type %q is not recognised", s)
	return ICPure
}

// ObjectiveType selects the functional form of the optimisation target.
type ObjectiveType int

const (
	ObjGateFrobenius ObjectiveType = iota // JFROBENIUS
	ObjGateTrace                          // JHS (Hilbert-Schmidt overlap)
	ObjExpectedEnergyA                    // square-of-average
	ObjExpectedEnergyB                    // average-of-square
	ObjExpectedEnergyC                    // plain average
	ObjZeroToOne                          // JMEASURE
	ObjGroundState
	ObjPureM
)

// GateKind names the built-in gate library entries (see).
type GateKind int

const (
	GateNone GateKind = iota
	GateIdentity
	GateX
	GateY
	GateZ
	GateHadamard
	GateCNOT
	GateSwap
)

// ParseGateKind converts the config-file token.
func ParseGateKind(s string) GateKind {
	switch s {
	case "none":
		return GateNone
	case "identity":
		return GateIdentity
	case "xgate":
		return GateX
	case "ygate":
		return GateY
	case "zgate":
		return GateZ
	case "hadamard":
		return GateHadamard
	case "cnot":
		return GateCNOT
	case "swap":
		return GateSwap
	}
	chk.Panic("gate kind %q is not recognised", s)
	return GateNone
}

// LinearSolverType selects the per-step implicit-solve back end.
type LinearSolverType int

const (
	LinSolGMRES LinearSolverType = iota
	LinSolNeumann
)

// ParseLinearSolverType converts the config-file token.
func ParseLinearSolverType(s string) LinearSolverType {
	switch s {
	case "gmres":
		return LinSolGMRES
	case "neumann":
		return LinSolNeumann
	}
	chk.Panic("linearsolver_type %q is not recognised", s)
	return LinSolGMRES
}

// RunType selects what main actually runs.
type RunType int

const (
	RunSimulation RunType = iota
	RunGradient
	RunOptimization
	RunNothing
)

// ParseRunType converts the config-file token.
func ParseRunType(s string) RunType {
	switch s {
	case "simulation":
		return RunSimulation
	case "gradient":
		return RunGradient
	case "optimization":
		return RunOptimization
	case "nothing":
		return RunNothing
	}
	chk.Panic("runtype %q is not recognised", s)
	return RunNothing
}

// OptimInitKind selects how the starting design vector is built.
type OptimInitKind int

const (
	OptimInitZero OptimInitKind = iota
	OptimInitConstant
	OptimInitRandom
	OptimInitRandomSeed
	OptimInitFile
)
