// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

// timedYaml defines one cell in block A and two empty blocks B and C
const timedYaml = `
data:
  encoder: json
  dirout: /tmp/hdgfem/modifier
mesh:
  type: line
  n: [1]
  blocks:
    - {id: 0, name: A}
    - {id: 1, name: B, xmin: [5]}
    - {id: 2, name: C, xmin: [5]}
userobjects:
  - {name: timed, type: timed, %s}
control:
  tf: 3
  dt: %g
`

func Test_timed01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("timed01. A => B at t=1 and B => C at t=2")

	sim, err := inp.NewSimulation([]byte(io.Sf(timedYaml, "times: [1, 2], blocksfrom: [A, B], blocksto: [B, C]", 1.0)), true, "data")
	require.NoError(tst, err)
	sim.Key = "timed01"
	fe, err := fem.NewMainFromSim(sim, 0, nil, true, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, fe.Run())

	var sum fem.Summary
	require.NoError(tst, sum.Read(sim.DirOut, sim.Key, sim.EncType))
	chk.Array(tst, "times", 1e-15, sum.OutTimes, []float64{0, 1, 2, 3})
	for tidx, id := range []int{0, 1, 2, 2} {
		res, err := fem.ReadResults(sim.DirOut, sim.Key, sim.EncType, 0, tidx)
		require.NoError(tst, err)
		chk.Ints(tst, io.Sf("subdomains @ t=%g", res.Time), res.Subdomains, []int{id})
	}
}

func Test_timed02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("timed02. events crossed in one step are chained")

	dom := newDomain(tst, io.Sf(timedYaml, "times: [2, 1], blocksfrom: [B, A], blocksto: [C, B]", 2.0), 0, nil)
	crit := dom.UserObjs[0].(*Modifier).Crit.(*Timed)
	require.Equal(tst, []Event{{1, 0, 1}, {2, 1, 2}}, crit.Events)

	sol := dom.Sol()
	sol.T, sol.Dt = 2, 2
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "subdomain", dom.Msh().Cells[0].Subdomain, 2)

	// an event at t=0 is not in (0, 2]
	crit.Events = []Event{{0, 2, 0}}
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "subdomain", dom.Msh().Cells[0].Subdomain, 2)
}

func Test_timed03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("timed03. events from data file")

	dom := newDomain(tst, io.Sf(timedYaml, "datafile: events.csv, fromcolumn: from, tocolumn: to", 1.0), 0, nil)
	crit := dom.UserObjs[0].(*Modifier).Crit.(*Timed)
	require.Equal(tst, []Event{{1, 0, 1}, {2, 1, 2}}, crit.Events)

	for _, uo := range []string{
		"times: [1], blocksfrom: [A], blocksto: [B], datafile: events.csv",
		"times: [1, 2], blocksfrom: [A], blocksto: [B]",
		"times: [1], blocksfrom: [A], blocksto: [D]",
		"times: []",
		"datafile: events.csv",
		"datafile: missing.csv, fromcolumn: from, tocolumn: to",
		"datafile: events.csv, timecolumn: t, fromcolumn: from, tocolumn: to",
	} {
		sim, err := inp.NewSimulation([]byte(io.Sf(timedYaml, uo, 1.0)), true, "data")
		require.NoError(tst, err)
		_, err = fem.NewDomain(sim, 0, nil, false)
		require.Error(tst, err, uo)
	}
}
