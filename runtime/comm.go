// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "github.com/cpmech/gosl/mpi"

// Comm is a logical sub-communicator view of the world communicator.
//
//  gosl/mpi exposes only a single global collective (mpi.AllReduceSum over
//  MPI_COMM_WORLD, no Split). A Cartesian sub-communicator is therefore
//  emulated with one global vector reduction: every member of a "color"
//  (the coordinate identifying its group along the other two axes) writes
//  its contribution into the vector slot for that color and zero elsewhere;
//  summing the vector across the world and reading back the slot reproduces
//  an independent per-group reduction. See runtime.go / DESIGN.md.
type Comm struct {
	rank, size   int // rank/size within this logical group
	color        int // coordinate identifying which group this rank belongs to
	nColors      int // number of distinct groups (vector length for the trick)
	worldRank    int
}

func newComm(worldRank, worldSize int) *Comm {
	return &Comm{rank: worldRank, size: worldSize, color: 0, nColors: 1, worldRank: worldRank}
}

// newSubComm builds a Comm of the given rank/size. color identifies the
// group this rank belongs to among the nColors distinct groups spanning the
// world communicator (both computed by the Cartesian split in runtime.New).
func newSubComm(rank, size, color, nColors, worldRank int) *Comm {
	return &Comm{rank: rank, size: size, color: color, nColors: nColors, worldRank: worldRank}
}

// Rank returns this process's rank within the group.
func (o *Comm) Rank() int { return o.rank }

// Size returns the group size.
func (o *Comm) Size() int { return o.size }

// IsRoot is true for rank 0 of the group.
func (o *Comm) IsRoot() bool { return o.rank == 0 }

// groupSlots returns the number of distinct groups for the vector trick.
func (o *Comm) groupSlots() int {
	if o.nColors > 0 {
		return o.nColors
	}
	return 1
}

// AllReduceSum sums local across every rank that belongs to this logical
// group and returns the total on every member.
func (o *Comm) AllReduceSum(local float64) float64 {
	if o.size <= 1 || !mpi.IsOn() {
		return local
	}
	n := o.groupSlots()
	vec := make([]float64, n)
	work := make([]float64, n)
	vec[o.color] = local
	mpi.AllReduceSum(vec, work)
	return vec[o.color]
}

// AllReduceSumVec sums a vector local across the group element-wise.
func (o *Comm) AllReduceSumVec(local []float64) []float64 {
	out := make([]float64, len(local))
	copy(out, local)
	if o.size <= 1 || !mpi.IsOn() {
		return out
	}
	for i := range out {
		out[i] = o.AllReduceSum(out[i])
	}
	return out
}

// Broadcast distributes the value held by rank "root" (within this group)
// to every member, using the same vector-slot trick as AllReduceSum.
func (o *Comm) Broadcast(value float64, root int) float64 {
	if o.size <= 1 || !mpi.IsOn() {
		return value
	}
	contribution := 0.0
	if o.rank == root {
		contribution = value
	}
	return o.AllReduceSum(contribution)
}
