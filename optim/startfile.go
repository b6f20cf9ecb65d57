// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optim

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// readDesignFile loads a flat whitespace-separated design vector of length
// n from path (optim_init=<path>).
func readDesignFile(path string, n int) []float64 {
	if path == "" {
		chk.Panic("optim: optim_init file path is empty")
	}
	raw, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("optim: cannot read starting-point file %q:\n%v", path, err)
	}
	fields := strings.Fields(string(raw))
	if len(fields) != n {
		chk.Panic("optim: %q has %d values, want %d", path, len(fields), n)
	}
	x := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			chk.Panic("optim: %q: cannot parse float %q", path, f)
		}
		x[i] = v
	}
	return x
}
