// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// SteadyBar computes the solution to steady diffusion with constant source
// along a bar with prescribed values at both ends
//
//        u0                              uL
//   x=0  o-------------------------------o  x=L        -k u'' = s
//                    k, s
type SteadyBar struct {
	K  float64 // diffusivity
	S  float64 // source
	L  float64 // length
	U0 float64 // prescribed value at x=0
	UL float64 // prescribed value at x=L
}

// Init initialises this structure
func (o *SteadyBar) Init(prms dbf.Params) (err error) {

	// default values
	o.K = 1.0
	o.S = 0.0
	o.L = 1.0
	o.U0 = 0.0
	o.UL = 0.0

	// parameters
	for _, p := range prms {
		switch p.N {
		case "k":
			o.K = p.V
		case "s":
			o.S = p.V
		case "L":
			o.L = p.V
		case "u0":
			o.U0 = p.V
		case "uL":
			o.UL = p.V
		}
	}
	if o.K <= 0 || o.L <= 0 {
		return chk.Err("diffusivity and length must be positive. k=%g L=%g are invalid", o.K, o.L)
	}
	return
}

// U computes u(x)
func (o SteadyBar) U(x float64) float64 {
	return o.U0 + (o.UL-o.U0)*x/o.L + o.S*x*(o.L-x)/(2.0*o.K)
}

// Flux computes w = -k du/dx
func (o SteadyBar) Flux(x float64) float64 {
	dudx := (o.UL-o.U0)/o.L + o.S*(o.L-2.0*x)/(2.0*o.K)
	return -o.K * dudx
}

// CheckU checks values at coordinates
func (o SteadyBar) CheckU(tst *testing.T, msg string, tol float64, u, x []float64) {
	for i := range u {
		chk.Float64(tst, io.Sf("%s @ x=%g", msg, x[i]), tol, u[i], o.U(x[i]))
	}
}
