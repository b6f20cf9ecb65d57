// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runtime wraps process-group state (communicators, back-end handles)
// into one explicit value threaded through constructors. There is no hidden
// global/singleton state here.
package runtime

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Runtime is created once at program start and passed to every constructor
// that needs process-group information or the linear-algebra back end.
type Runtime struct {
	World *Comm // the full SPMD world
	Space *Comm // parallelises the state vector ρ (rows distributed)
	Init  *Comm // parallelises initial conditions
	Time  *Comm // parallelises time slabs (size 1 == sequential integrator)

	ShowMsg bool // true on the rank that should print progress
}

// New builds a Runtime from the requested sub-communicator sizes. sizeInit
// and sizeTime are read from config.Config.NpInit/NpBraid; sizeSpace absorbs
// whatever is left of the world so that sizeSpace*sizeInit*sizeTime ==
// mpi.Size() (or 1 when MPI is not running).
func New(sizeInit, sizeTime int) (o *Runtime) {
	o = new(Runtime)
	worldRank, worldSize := 0, 1
	if mpi.IsOn() {
		worldRank, worldSize = mpi.Rank(), mpi.Size()
	}
	if sizeInit < 1 {
		sizeInit = 1
	}
	if sizeTime < 1 {
		sizeTime = 1
	}
	sizeSpace := worldSize / (sizeInit * sizeTime)
	if sizeSpace < 1 || sizeSpace*sizeInit*sizeTime != worldSize {
		chk.Panic("np_init=%d and np_braid=%d do not divide world size %d", sizeInit, sizeTime, worldSize)
	}

	// fixed Cartesian split: fastest-varying index is space, then init, then time
	spaceRank := worldRank % sizeSpace
	initRank := (worldRank / sizeSpace) % sizeInit
	timeRank := worldRank / (sizeSpace * sizeInit)

	o.World = newComm(worldRank, worldSize)
	o.Space = newSubComm(spaceRank, sizeSpace, initRank+sizeInit*timeRank, sizeInit*sizeTime, worldRank)
	o.Init = newSubComm(initRank, sizeInit, spaceRank+sizeSpace*timeRank, sizeSpace*sizeTime, worldRank)
	o.Time = newSubComm(timeRank, sizeTime, spaceRank+sizeSpace*initRank, sizeSpace*sizeInit, worldRank)
	o.ShowMsg = worldRank == 0
	return
}

// Start initialises MPI (the bool silences its own startup banner).
func Start() { mpi.Start(false) }

// Stop finalises MPI.
func Stop() { mpi.Stop(false) }
