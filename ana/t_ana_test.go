// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/num"
)

func Test_bar01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bar01")

	var sol SteadyBar
	err := sol.Init(dbf.Params{
		&dbf.P{N: "k", V: 2},
		&dbf.P{N: "s", V: 4},
		&dbf.P{N: "L", V: 3},
		&dbf.P{N: "u0", V: 1},
		&dbf.P{N: "uL", V: -2},
	})
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	// boundaries and maximum
	chk.Float64(tst, "u(0)", 1e-15, sol.U(0), 1)
	chk.Float64(tst, "u(L)", 1e-15, sol.U(3), -2)
	chk.Float64(tst, "u(1)", 1e-15, sol.U(1), 1-1+4*1*2/4.0)

	// balance: w(L) - w(0) = s L
	chk.Float64(tst, "balance", 1e-14, sol.Flux(3)-sol.Flux(0), 4*3)

	// -k u'' = s
	d2u := num.SecondDerivCen5(1.3, 1e-3, sol.U)
	chk.Float64(tst, "-k u''", 1e-6, -sol.K*d2u, sol.S)

	// invalid parameters
	err = sol.Init(dbf.Params{&dbf.P{N: "k", V: 0}})
	if err == nil {
		tst.Errorf("Init should have failed\n")
	}
}
