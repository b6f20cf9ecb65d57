// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ORNL-QCI/quandary/state"
)

func TestWriteOptimHistory(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	w.WriteOptimHistory("optim.dat", []OptimRow{
		{Iter: 0, Obj: 1.0, Fidelity: 0.0, GradNorm: 0.5, InfDu: 0, LsTrials: 1},
		{Iter: 1, Obj: 0.2, Fidelity: 0.8, GradNorm: 0.1, InfDu: 0, LsTrials: 1},
	})
	data, err := os.ReadFile(filepath.Join(dir, "optim.dat"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("optim.dat is empty")
	}
}

func TestWriteState(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	rho := state.BasisVectorDensity(2, 0)
	w.WriteState("rho_Re.dat", "rho_Im.dat", rho, 2)
	if _, err := os.Stat(filepath.Join(dir, "rho_Re.dat")); err != nil {
		t.Fatalf("rho_Re.dat missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "rho_Im.dat")); err != nil {
		t.Fatalf("rho_Im.dat missing: %v", err)
	}
}
