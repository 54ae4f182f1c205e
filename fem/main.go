// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the FEM solver
package fem

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/inp"
)

// Main holds all data for a simulation using the finite element method
type Main struct {
	Sim     *inp.Simulation // simulation data
	Dom     *Domain         // domain
	Summary *Summary        // summary structure; may be nil
	Nproc   int             // number of processors
	Proc    int             // processor id
	ShowMsg bool            // show messages
}

// NewMain returns a new Main structure
//  Input:
//   simfilepath -- simulation (.sim or .yaml) filename including full path
//   alias       -- word to be appended to simulation key; e.g. when running multiple FE solutions
//   erasePrev   -- erase previous results files
//   saveSummary -- save summary
//   verbose     -- show messages
func NewMain(simfilepath, alias string, erasePrev, saveSummary, verbose bool) (o *Main, err error) {
	sim, err := inp.ReadSim(simfilepath, alias, erasePrev, true)
	if err != nil {
		return
	}
	return NewMainFromSim(sim, 0, nil, saveSummary, verbose)
}

// NewMainFromSim returns a new Main structure for simulation data already read
//  proc -- processor number
//  tr   -- transport to other processors; nil => serial run
func NewMainFromSim(sim *inp.Simulation, proc int, tr comm.Transport, saveSummary, verbose bool) (o *Main, err error) {
	o = &Main{Sim: sim, Nproc: 1, Proc: proc}
	if tr != nil {
		o.Nproc = tr.Size()
	}
	o.ShowMsg = verbose && o.Proc == 0
	if o.ShowMsg {
		io.Pf("> Simulation file read: %s\n", sim.Key)
	}
	if saveSummary {
		o.Summary = new(Summary)
	}
	o.Dom, err = NewDomain(sim, proc, tr, verbose)
	if err != nil {
		return nil, chk.Err("cannot allocate domain:\n%v", err)
	}
	return
}

// Run runs the time loop. For each time step: auxiliary variables are
// updated, user objects are run and the nonlinear problem is solved
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// message
	if o.ShowMsg {
		io.Pf("> Running FE solver\n")
	}

	// first output
	dom := o.Dom
	sol := dom.Sol()
	ctrl := &o.Sim.Control
	tidx := 0
	err = o.output(tidx)
	if err != nil {
		return
	}
	tout := sol.T + ctrl.DtOut

	// time loop
	ϵ := 1e-10
	for sol.T < ctrl.Tf-ϵ {

		// time increment
		Δt := ctrl.Dt
		if sol.T+Δt > ctrl.Tf {
			Δt = ctrl.Tf - sol.T
		}
		sol.Dt = Δt
		sol.Backup()
		sol.T += Δt

		// auxiliary variables and user objects
		dom.UpdateAux()
		err = dom.RunUserObjects()
		if err != nil {
			return
		}

		// solve
		err = dom.Solve()
		if err != nil {
			return chk.Err("solver failed at t=%g:\n%v", sol.T, err)
		}
		if o.Summary != nil {
			o.Summary.Nsteps++
		}
		if o.ShowMsg {
			io.Pf("> t = %g\n", sol.T)
		}

		// output
		if sol.T >= tout-ϵ || sol.T >= ctrl.Tf-ϵ {
			tidx++
			err = o.output(tidx)
			if err != nil {
				return
			}
			tout += ctrl.DtOut
		}
	}
	return
}

// output saves results
func (o *Main) output(tidx int) (err error) {
	if o.Summary == nil {
		return
	}
	o.Summary.OutTimes = append(o.Summary.OutTimes, o.Dom.Sol().T)
	return o.Dom.SaveResults(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, tidx)
}

// onexit prints final message with cpu time and saves summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}

	// save summary
	if o.Summary != nil {
		err = o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.Nproc, o.Proc)
		if err != nil {
			return
		}
	}

	// skip if previous error is not nil
	if prevErr != nil {
		err = prevErr
	}
	return
}
