// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cg

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

// cgYaml defines nonlinear transient diffusion of a nodal variable with inward flux
const cgYaml = `
data:
  steady: false
functions:
  - {name: q, type: cte, prms: [{n: c, v: 2}]}
  - {name: src, type: cte, prms: [{n: c, v: %g}]}
materials:
  - name: mat1
    model: m1
    prms:
      - {n: a0, v: 1}
      - {n: a1, v: 0.3}
      - {n: k, v: 1}
      - {n: rho, v: 1}
mesh:
  type: %s
  n: [%s]
  skeleton: 100
variables:
  - {name: T, kind: nodal}
kernels:
  - {name: heat, type: cg-diffusion, var: T, mat: mat1, source: src}
bcs:
  - {name: q, type: cg-flux, var: T, boundary: [right], func: q}
`

func newDomain(tst *testing.T, yml string) *fem.Domain {
	sim, err := inp.NewSimulation([]byte(yml), true, ".")
	require.NoError(tst, err)
	dom, err := fem.NewDomain(sim, 0, nil, chk.Verbose)
	require.NoError(tst, err)
	return dom
}

func Test_cg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cg01. Jacobian versus finite differences")

	dom := newDomain(tst, io.Sf(cgYaml, 0.5, "grid", "2, 2"))
	sol := dom.Sol()
	sol.T, sol.Dt = 0.5, 0.1
	for I := range sol.Y {
		sol.Y[I] = 0.1 * float64(I+1)
		sol.Yold[I] = 0.05 * float64(I%4)
	}
	chk.Int(tst, "ny", dom.Dofs.Ny, 9)
	fem.TestingCompareJacobian(tst, dom, 1e-5)
}

func Test_cg02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cg02. heat balance of one time step")

	// ∫ρ(T - Told) dx = (q + s L) Δt   with   q = 2, s = 0.5, L = 1
	dom := newDomain(tst, io.Sf(cgYaml, 0.5, "line", "4"))
	sol := dom.Sol()
	sol.Backup()
	sol.Dt = 0.1
	sol.T += sol.Dt
	require.NoError(tst, dom.Solve())
	msh := dom.Msh()
	var heat float64
	for _, cid := range msh.ActiveCells() {
		dofs := dom.CellDofs("T", cid)
		x := msh.Coords(msh.Cells[cid])
		heat += (x[0][1] - x[0][0]) * (sol.Y[dofs[0]] + sol.Y[dofs[1]]) / 2
	}
	chk.Float64(tst, "heat", 1e-8, heat, (2+0.5)*0.1)

	// flux enters on the right
	right := dom.CellDofs("T", 3)[1]
	left := dom.CellDofs("T", 0)[0]
	require.Greater(tst, sol.Y[right], sol.Y[left])

	// configuration errors
	for _, tc := range []string{
		"kernels: [{name: heat, type: cg-diffusion, var: u, mat: mat1}]",
		"kernels: [{name: heat, type: cg-diffusion, var: T, mat: mat2}]",
		"kernels: [{name: heat, type: cg-diffusion, var: T, mat: mat1, source: nofunc}]",
		"bcs: [{name: q, type: cg-flux, var: u, boundary: [right]}]",
		"bcs: [{name: q, type: cg-flux, var: T}]",
		"bcs: [{name: q, type: cg-flux, var: T, boundary: [front]}]",
	} {
		yml := io.Sf(`
materials:
  - {name: mat1, model: m1, prms: [{n: k, v: 1}]}
mesh:
  type: line
  n: [2]
  skeleton: 100
variables:
  - {name: T, kind: nodal}
  - {name: u, kind: elemental}
%s
`, tc)
		sim, err := inp.NewSimulation([]byte(yml), true, ".")
		if err != nil {
			continue
		}
		_, err = fem.NewDomain(sim, 0, nil, false)
		require.Error(tst, err, tc)
	}
}
