// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. json")

	sim, err := ReadSim("data/diffu1d.sim", "", false, false)
	require.NoError(tst, err)

	chk.String(tst, sim.Key, "diffu1d")
	chk.String(tst, sim.DirOut, "/tmp/hdgfem/diffu1d")
	chk.String(tst, sim.EncType, "json")
	chk.Int(tst, "ndim", sim.Ndim, 1)
	chk.Int(tst, "skeleton", sim.Msh.SkeletonId, 100)
	chk.Int(tst, "ncells", len(sim.Msh.Cells), 2)
	require.True(tst, sim.Data.Steady)
	require.False(tst, sim.Axisym)

	id, err := sim.Msh.ResolveSubdomain("skeleton")
	require.NoError(tst, err)
	chk.Int(tst, "skeleton id", id, 100)
	for _, f := range sim.Msh.Faces {
		chk.Int(tst, "face subdomain", f.Subdomain, 100)
	}

	mat := sim.Materials.Get("mat1")
	require.NotNil(tst, mat)
	chk.Float64(tst, "k(0)", 1e-15, mat.Diff.Kval(0), 1)

	fcn, err := sim.Functions.Get("one")
	require.NoError(tst, err)
	chk.Float64(tst, "one", 1e-15, fcn.F(0, nil), 1)
	zero, err := sim.Functions.Get("zero")
	require.NoError(tst, err)
	chk.Float64(tst, "zero", 1e-15, zero.F(3, []float64{1}), 0)
	_, err = sim.Functions.Get("two")
	require.Error(tst, err)

	require.NotNil(tst, sim.GetKernel("diff"))
	require.Nil(tst, sim.GetKernel("conv"))
	chk.String(tst, sim.GetVar("ubar").Primal, "u")
	chk.Float64(tst, "tau", 1e-15, sim.GetKernel("diff").Tau, 10)
	chk.Int(tst, "nmaxit", sim.Solver.NmaxIt, 20)
	io.Pforan("%v\n", sim.Functions)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. yaml")

	sim, err := ReadSim("data/front1d.yaml", "run1", false, false)
	require.NoError(tst, err)

	chk.String(tst, sim.Key, "front1d-run1")
	chk.String(tst, sim.EncType, "gob")
	chk.Int(tst, "nthreads", sim.Data.Nthreads, 2)
	chk.Int(tst, "ncells", len(sim.Msh.Cells), 4)
	chk.Ints(tst, "subdomains", sim.Msh.SubdomainIds(), []int{0, 1})
	chk.Strings(tst, "var blocks", sim.GetVar("u").Block, []string{"0"})
	chk.Float64(tst, "alpha", 1e-15, sim.GetKernel("diff").Alpha, 4)
	chk.Float64(tst, "rho", 1e-15, sim.Materials.Get("mat1").Diff.Density(), 1)

	require.Len(tst, sim.UserObjs, 1)
	uo := sim.UserObjs[0]
	chk.String(tst, uo.Type, "threshold")
	chk.String(tst, uo.MovingBry, "front")
	chk.Int(tst, "uo nthreads", uo.Nthreads, 2)
	require.False(tst, uo.Complement)
	require.Nil(tst, uo.Restore)

	fcn, err := sim.Functions.Get(sim.AuxVars[0].Func)
	require.NoError(tst, err)
	chk.Float64(tst, "front(t=2.5)", 1e-15, fcn.F(2.5, []float64{0.25}), 1)
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. errors")

	_, err := ReadSim("data/nonexistent.sim", "", false, false)
	require.Error(tst, err)
	_, err = ReadFile("data/nonexistent.sim")
	require.Error(tst, err)
	b, err := ReadFile("data/diffu1d.sim")
	require.NoError(tst, err)
	require.NotEmpty(tst, b)

	// unknown function types and missing parameters give errors
	fcns := FuncsData{{Name: "f", Type: "unknown"}, {Name: "g", Type: "cte"}}
	_, err = fcns.Get("f")
	require.Error(tst, err)
	_, err = fcns.Get("g")
	require.Error(tst, err)

	_, err = NewSimulation([]byte(`{"mesh":{"type":"sphere"}}`), false, ".")
	require.Error(tst, err)

	_, err = NewSimulation([]byte(`{"data":{"coord":"polar"}}`), false, ".")
	require.Error(tst, err)

	_, err = NewSimulation([]byte(`{"variables":[{"name":"u"},{"name":"u"}]}`), false, ".")
	require.Error(tst, err)

	_, err = NewSimulation([]byte(`{"materials":[{"name":"m","model":"m7"}]}`), false, ".")
	require.Error(tst, err)

	// only solvers that run without MPI are accepted
	_, err = NewSimulation([]byte("linsol: {name: mumps}\n"), false, ".")
	require.Error(tst, err)

	sim, err := NewSimulation([]byte("mesh:\n  type: grid\n  n: [2, 3]\n  nparts: 2\n"), true, ".")
	require.NoError(tst, err)
	chk.Int(tst, "ncells", len(sim.Msh.Cells), 6)
	chk.Int(tst, "nparts", sim.Msh.Nparts, 2)
	chk.Int(tst, "ndim", sim.Ndim, 2)
}
