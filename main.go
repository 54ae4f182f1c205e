// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
	"golang.org/x/sync/errgroup"

	_ "github.com/cpmech/hdgfem/ele/cg"
	_ "github.com/cpmech/hdgfem/ele/iphdg"
	_ "github.com/cpmech/hdgfem/modifier"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	erasePrev := io.ArgToBool(2, true)
	saveSummary := io.ArgToBool(3, true)
	nproc := io.ArgToInt(4, 1)
	doprof := io.ArgToInt(5, 0)

	// message
	if verbose {
		io.PfWhite("\nHdgfem -- Hybridizable discontinuous Galerkin finite element method\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"erase previous results", "erasePrev", erasePrev,
			"save summary", "saveSummary", saveSummary,
			"number of processors", "nproc", nproc,
			"profiling: 0=none 1=CPU 2=MEM", "doprof", doprof,
		))
	}

	// profiling?
	switch doprof {
	case 1:
		defer utl.ProfCPU("/tmp/hdgfem", "cpu.pprof", !verbose)()
	case 2:
		defer utl.ProfMEM("/tmp/hdgfem", "mem.pprof", !verbose)()
	}

	// serial run
	if nproc < 2 {
		analysis, err := fem.NewMain(fnamepath, "", erasePrev, saveSummary, verbose)
		if err != nil {
			chk.Panic("cannot allocate FE solver:\n%v", err)
		}
		err = analysis.Run()
		if err != nil {
			chk.Panic("Run failed:\n%v", err)
		}
		return
	}

	// one process per partition connected by an in-process network
	nets := comm.NewLocalNetwork(nproc)
	var g errgroup.Group
	for proc := 0; proc < nproc; proc++ {
		sim, err := inp.ReadSim(fnamepath, "", erasePrev && proc == 0, true)
		if err != nil {
			chk.Panic("cannot read simulation:\n%v", err)
		}
		if sim.Msh.Nparts != nproc {
			sim.Msh.Partition(nproc)
		}
		analysis, err := fem.NewMainFromSim(sim, proc, nets[proc], saveSummary, verbose)
		if err != nil {
			chk.Panic("cannot allocate FE solver @ processor %d:\n%v", proc, err)
		}
		g.Go(analysis.Run)
	}
	err := g.Wait()
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}
