// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_parallel01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("parallel01. two processors give the serial solution")

	serial, err := NewMain("data/transient1d.yaml", "serial", true, false, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, serial.Run())

	nproc := 2
	nets := comm.NewLocalNetwork(nproc)
	mains := make([]*Main, nproc)
	var g errgroup.Group
	for proc := 0; proc < nproc; proc++ {
		sim, err := inp.ReadSim("data/transient1d.yaml", "parallel", proc == 0, true)
		require.NoError(tst, err)
		sim.Msh.Partition(nproc)
		mains[proc], err = NewMainFromSim(sim, proc, nets[proc], true, chk.Verbose)
		require.NoError(tst, err)
		g.Go(mains[proc].Run)
	}
	require.NoError(tst, g.Wait())

	// each processor assembles its own cells only
	chk.Ints(tst, "cells @ 0", mains[0].Dom.LocalCells(), []int{0, 1})
	chk.Ints(tst, "cells @ 1", mains[1].Dom.LocalCells(), []int{2, 3})

	// replicas agree with each other and with the serial run
	for proc, main := range mains {
		chk.Int(tst, "ny", main.Dom.Dofs.Ny, serial.Dom.Dofs.Ny)
		chk.Array(tst, "Y", 1e-12, main.Dom.Sol().Y, serial.Dom.Sol().Y)
		chk.Array(tst, "Y replica", 0, main.Dom.Sol().Y, mains[0].Dom.Sol().Y)
		var sum Summary
		require.NoError(tst, sum.Read(main.Sim.DirOut, main.Sim.Key, main.Sim.EncType))
		chk.Int(tst, "nsteps", sum.Nsteps, 4)
		res, err := ReadResults(main.Sim.DirOut, main.Sim.Key, main.Sim.EncType, proc, 2)
		require.NoError(tst, err)
		chk.Array(tst, "results", 1e-15, res.Y, main.Dom.Sol().Y)
	}
}
