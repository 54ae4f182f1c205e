// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

// TestingCompareJacobian compares the assembled Jacobian with finite differences of
// the assembled residual around the current state. Since fb = -R, dfb/dy = -Kb
func TestingCompareJacobian(tst *testing.T, dom *Domain, tol float64) {
	sol := dom.Sol()
	y0 := append([]float64{}, sol.Y...)
	defer copy(sol.Y, y0)
	ffcn := func(fb, y la.Vector) {
		copy(sol.Y, y)
		if err := dom.Assemble(false); err != nil {
			tst.Fatalf("residual failed: %v", err)
		}
		copy(fb, dom.Fb)
	}
	Jfcn := func(J *la.Matrix, y la.Vector) {
		copy(sol.Y, y)
		if err := dom.Assemble(true); err != nil {
			tst.Fatalf("Jacobian failed: %v", err)
		}
		K := dom.Kb.ToDense()
		for i := 0; i < J.M; i++ {
			for j := 0; j < J.N; j++ {
				J.Set(i, j, -K.Get(i, j))
			}
		}
	}
	num.CompareJacDense(tst, ffcn, Jfcn, y0, tol)
}
