// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package initcond

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ORNL-QCI/quandary/config"
	"github.com/ORNL-QCI/quandary/state"
)

func TestNPlusOneCount(t *testing.T) {
	cfg := &config.Config{ICType: config.ICNPlusOne}
	e := New(3, cfg)
	if e.NTotal() != 4 {
		t.Fatalf("NTotal() = %d, want 4", e.NTotal())
	}
	last := e.State(3)
	tr := state.Trace(last, 3)
	chk.Scalar(t, "superposition state has unit trace", 1e-13, tr, 1)
}

func TestBasisElementCountAndHermiticity(t *testing.T) {
	cfg := &config.Config{ICType: config.ICBasis}
	e := New(2, cfg)
	if e.NTotal() != 4 {
		t.Fatalf("NTotal() = %d, want 4", e.NTotal())
	}
	for i := 0; i < e.NTotal(); i++ {
		v := e.State(i)
		defect := state.HermitianDefect(v, 2)
		if defect > 1e-12 {
			t.Fatalf("basis element %d: Hermiticity defect %v", i, defect)
		}
	}
}

func TestGlobalIndexMapping(t *testing.T) {
	ninitLocal := NLocal(8, 4)
	if ninitLocal != 2 {
		t.Fatalf("NLocal(8,4) = %d, want 2", ninitLocal)
	}
	got := GlobalIndex(ninitLocal, 3, 1)
	if got != 7 {
		t.Fatalf("GlobalIndex = %d, want 7", got)
	}
}
