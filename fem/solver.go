// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Solve solves the nonlinear problem of the current time step with Newton's method
//
//   Kb δy = fb    with    Kb = dR/dy    and    fb = -R
//
func (o *Domain) Solve() (err error) {

	// auxiliary
	prm := &o.sim.Solver
	sol := o.sol
	for i := range sol.ΔY {
		sol.ΔY[i] = 0
	}
	if o.Dofs.Ny == 0 {
		return
	}

	// iterations
	var largFb, largFb0, largδy float64
	for it := 0; it < prm.NmaxIt; it++ {

		// assemble
		err = o.Assemble(true)
		if err != nil {
			return
		}

		// check convergence on fb
		largFb = largest(o.Fb)
		if prm.ShowR && o.ShowMsg {
			io.Pf("%13d%23.15e\n", it, largFb)
		}
		if largFb < prm.FbTol {
			return
		}
		if it == 0 {
			largFb0 = largFb
		} else if largFb > 1e10*largFb0 {
			return chk.Err("divergence detected: largest(fb) = %g at iteration %d", largFb, it)
		}

		// solve for δy
		err = o.linsolve()
		if err != nil {
			return
		}

		// update
		for i, δy := range o.Wb {
			sol.Y[i] += δy
			sol.ΔY[i] += δy
		}

		// check convergence on δy
		largδy = largest(o.Wb)
		if largδy < prm.Atol+prm.Rtol*largest(sol.Y) {
			return
		}
	}
	return chk.Err("Newton's method did not converge after %d iterations. largest(fb)=%g largest(δy)=%g", prm.NmaxIt, largFb, largδy)
}

// linsolve solves Kb Wb = Fb with the sparse solver
func (o *Domain) linsolve() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("linear solver failed:\n%v", r)
		}
	}()
	prm := &o.sim.LinSol
	o.LinSol = la.NewSparseSolver(prm.Name)
	defer o.LinSol.Free()
	o.LinSol.Init(o.Kb, &la.SpArgs{Symmetric: prm.Symmetric, Verbose: prm.Verbose})
	o.LinSol.Fact()
	o.LinSol.Solve(o.Wb, o.Fb, false)
	return
}

// largest returns the largest absolute component of a vector
func largest(v []float64) (res float64) {
	for _, x := range v {
		res = math.Max(res, math.Abs(x))
	}
	return
}
