// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/ana"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

func Test_solver01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver01. IP-HDG diffusion with prescribed values at both ends")

	main, err := NewMain("data/diffu1d.sim", "", true, true, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())

	// trace values at boundary points are not penalised away from the prescribed values
	dom := main.Dom
	y := dom.Sol().Y
	left := dom.SideDofs("ubar", 0, 0)[0]
	right := dom.SideDofs("ubar", 1, 1)[0]
	chk.Float64(tst, "û(0)", 1e-12, y[left], 0)
	chk.Float64(tst, "û(1)", 1e-12, y[right], 1)

	// the exact solution is linear and thus it is recovered
	for _, cid := range dom.Msh().ActiveCells() {
		for i, I := range dom.CellDofs("u", cid) {
			x := dom.Msh().Verts[dom.Msh().Cells[cid].Verts[i]].C[0]
			chk.Float64(tst, io.Sf("u @ x=%g", x), 1e-12, y[I], x)
		}
	}
	chk.Float64(tst, "û(0.5)", 1e-12, y[dom.SideDofs("ubar", 0, 1)[0]], 0.5)

	// residual vanishes at the solution
	require.NoError(tst, dom.Assemble(false))
	chk.Float64(tst, "largest(fb)", 1e-12, largest(dom.Fb), 0)

	// summary and results
	var sum Summary
	require.NoError(tst, sum.Read(main.Sim.DirOut, main.Sim.Key, main.Sim.EncType))
	chk.Array(tst, "out times", 1e-15, sum.OutTimes, []float64{0, 1})
	chk.Int(tst, "nsteps", sum.Nsteps, 1)
	res, err := ReadResults(main.Sim.DirOut, main.Sim.Key, main.Sim.EncType, 0, 1)
	require.NoError(tst, err)
	chk.Array(tst, "Y", 1e-15, res.Y, y)
	chk.Ints(tst, "subdomains", res.Subdomains, []int{0, 0})
}

func Test_solver02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver02. threaded assembly")

	d1 := newTestDomain(tst, "data/diffu1d.sim")
	sim, err := inp.ReadSim("data/diffu1d.sim", "", false, false)
	require.NoError(tst, err)
	sim.Data.Nthreads = 2
	d2, err := NewDomain(sim, 0, nil, chk.Verbose)
	require.NoError(tst, err)
	chk.Int(tst, "nthreads", d2.Nthreads, 2)
	chk.Int(tst, "kernels", len(d2.Kernels), 2)
	for i := range d1.Sol().Y {
		d1.Sol().Y[i] = float64(i) / 7
		d2.Sol().Y[i] = float64(i) / 7
	}

	// each thread has its own objects; results must coincide
	require.NoError(tst, d1.Assemble(true))
	K1 := d1.Kb.ToDense()
	fb1 := append([]float64{}, d1.Fb...)
	require.NoError(tst, d2.Assemble(true))
	K2 := d2.Kb.ToDense()
	chk.Array(tst, "fb", 1e-14, d2.Fb, fb1)
	for i := 0; i < d1.Dofs.Ny; i++ {
		for j := 0; j < d1.Dofs.Ny; j++ {
			chk.Float64(tst, io.Sf("K[%d][%d]", i, j), 1e-14, K2.Get(i, j), K1.Get(i, j))
		}
	}
}

func Test_solver03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver03. transient diffusion with inward flux")

	main, err := NewMain("data/transient1d.yaml", "", true, true, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())

	var sum Summary
	require.NoError(tst, sum.Read(main.Sim.DirOut, main.Sim.Key, main.Sim.EncType))
	chk.Array(tst, "out times", 1e-14, sum.OutTimes, []float64{0, 0.2, 0.4})
	chk.Int(tst, "nsteps", sum.Nsteps, 4)

	// the prescribed value holds and the values increase towards the right end
	dom := main.Dom
	y := dom.Sol().Y
	chk.Float64(tst, "û(0)", 1e-12, y[dom.SideDofs("ubar", 0, 0)[0]], 0)
	prev := 0.0
	for cid := 0; cid < 4; cid++ {
		I := dom.SideDofs("ubar", cid, 1)[0]
		require.Greater(tst, y[I], prev)
		prev = y[I]
	}
	require.Less(tst, prev, 1.0)
}

func Test_solver04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver04. refinement and projection")

	main, err := NewMain("data/diffu1d.sim", "refine", true, false, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())

	// projection of a linear field is exact
	dom := main.Dom
	require.NoError(tst, dom.Refine([]int{1}))
	chk.Ints(tst, "active", dom.Msh().ActiveCells(), []int{0, 2, 3})
	chk.Int(tst, "ny", dom.Dofs.Ny, 6+4)
	y := dom.Sol().Y
	for _, cid := range dom.Msh().ActiveCells() {
		for i, I := range dom.CellDofs("u", cid) {
			x := dom.Msh().Verts[dom.Msh().Cells[cid].Verts[i]].C[0]
			chk.Float64(tst, io.Sf("u @ x=%g", x), 1e-12, y[I], x)
		}
	}
	chk.Float64(tst, "û(0.75)", 1e-12, y[dom.SideDofs("ubar", 2, 1)[0]], 0.75)

	// the boundary condition follows the child and the solution is unchanged
	require.True(tst, dom.Msh().HasSide(1, inp.SideKey{Cell: 3, Side: 1}))
	require.NoError(tst, dom.Solve())
	chk.Float64(tst, "û(1)", 1e-12, y[dom.SideDofs("ubar", 3, 1)[0]], 1)
	chk.Float64(tst, "largest(ΔY)", 1e-10, largest(dom.Sol().ΔY), 0)
}

func Test_solver05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver05. steady diffusion with source versus analytical solution")

	main, err := NewMain("data/source1d.yaml", "", true, false, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, main.Run())

	var sol ana.SteadyBar
	require.NoError(tst, sol.Init(dbf.Params{
		&dbf.P{N: "k", V: 2},
		&dbf.P{N: "s", V: 4},
		&dbf.P{N: "u0", V: 1},
		&dbf.P{N: "uL", V: 0.5},
	}))

	// values at vertices
	dom := main.Dom
	msh := dom.Msh()
	y := dom.Sol().Y
	var u, ubar, x, xbar []float64
	for _, cid := range msh.ActiveCells() {
		c := msh.Cells[cid]
		for i, I := range dom.CellDofs("u", cid) {
			u = append(u, y[I])
			x = append(x, msh.Verts[c.Verts[i]].C[0])
		}
		for side := 0; side < 2; side++ {
			ubar = append(ubar, y[dom.SideDofs("ubar", cid, side)[0]])
			xbar = append(xbar, msh.Verts[c.Verts[side]].C[0])
		}
	}
	sol.CheckU(tst, "u", 3e-3, u, x)
	sol.CheckU(tst, "û", 3e-3, ubar, xbar)
}

func Test_solver06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver06. sparse linear solver")

	dom := newTestDomain(tst, "data/diffu1d.sim")
	require.NoError(tst, dom.Assemble(true))
	require.NoError(tst, dom.linsolve())

	// Kb Wb = Fb
	K := dom.Kb.ToDense()
	ny := len(dom.Fb)
	r := make([]float64, ny)
	for i := 0; i < ny; i++ {
		r[i] = -dom.Fb[i]
		for j := 0; j < ny; j++ {
			r[i] += K.Get(i, j) * dom.Wb[j]
		}
	}
	chk.Array(tst, "Kb Wb - Fb", 1e-10, r, make([]float64, ny))

	// singular systems give errors
	dom.Kb.Init(ny, ny, 1)
	dom.Kb.Put(0, 0, 1)
	require.Error(tst, dom.linsolve())
}
