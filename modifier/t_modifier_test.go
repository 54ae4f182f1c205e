// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

// newDomain allocates a domain from YAML data
func newDomain(tst *testing.T, yml string, proc int, tr comm.Transport) *fem.Domain {
	sim, err := inp.NewSimulation([]byte(yml), true, "data")
	require.NoError(tst, err)
	dom, err := fem.NewDomain(sim, proc, tr, chk.Verbose)
	require.NoError(tst, err)
	return dom
}

// barYaml defines a bar with 4 cells where cells 2 and 3 are inactive
//
//   verts:  0     1     2     3     4
//           o-----o-----o-----o-----o
//   cells:    (0)   (1)   (2)   (3)
//   sub:       0     0     1     1
//
const barYaml = `
data:
  nthreads: %d
mesh:
  type: line
  n: [4]
  blocks:
    - {id: 1, name: inactive, xmin: [0.5]}
  skeleton: 100
  skeletonname: skeleton
  nparts: %d
variables:
  - {name: u, kind: elemental, block: ["0"]}
  - {name: ubar, kind: trace, block: [skeleton], primal: u}
  - {name: T, kind: nodal, block: ["0"]}
aux:
  - {name: phi, func: zero}
userobjects:
  - name: activate
    type: threshold
    var: phi
    criterion: above
    threshold: 0
    subdomain: "0"
    complement: inactive
    movingboundary: front
    active: ["0"]
    strategy: %s
    values: {u: 7, ubar: 8, T: 9}
    restore: %v
`

// setLinear sets u = x, ubar = x and T = 10 x
func setLinear(dom *fem.Domain) {
	sol := dom.Sol()
	for I, key := range dom.Dofs.Keys {
		x := dom.DofCoords(I)[0]
		sol.Y[I] = x
		if key.Var == "T" {
			sol.Y[I] = 10 * x
		}
	}
	sol.Backup()
}

// value returns the value of a dof; it fails if the dof does not exist
func value(tst *testing.T, dom *fem.Domain, key fem.DofKey) float64 {
	I := dom.Dofs.Index(key)
	require.True(tst, I >= 0, "dof %v must exist", key)
	return dom.Sol().Y[I]
}

// subdomains returns the subdomains of active cells
func subdomains(msh *inp.Mesh) (ids []int) {
	for _, cid := range msh.ActiveCells() {
		ids = append(ids, msh.Cells[cid].Subdomain)
	}
	return
}

func Test_threshold01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("threshold01. single cell")

	dom := newDomain(tst, `
mesh: {type: line, n: [1]}
aux:
  - {name: phi, func: zero}
userobjects:
  - {name: thr, type: threshold, var: phi, criterion: above, threshold: 0.5, subdomain: "2", complement: "3"}
`, 0, nil)
	msh := dom.Msh()

	dom.AuxVals["phi"] = []float64{0.7, 0.7}
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "subdomain", msh.Cells[0].Subdomain, 2)

	dom.AuxVals["phi"] = []float64{0.3, 0.3}
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "subdomain", msh.Cells[0].Subdomain, 3)

	// criteria
	crit := &Threshold{Criterion: "below", Value: 0.5}
	require.True(tst, crit.met(0.3))
	require.False(tst, crit.met(0.5))
	crit.Criterion = "equal"
	require.True(tst, crit.met(0.5))
	require.False(tst, crit.met(0.5+1e-8))
	crit.Criterion = "above"
	require.False(tst, crit.met(0.5))
}

func Test_threshold02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("threshold02. without complement and with blocks")

	dom := newDomain(tst, `
mesh:
  type: line
  n: [2]
  blocks:
    - {id: 4, xmin: [0.5]}
aux:
  - {name: phi, func: zero}
userobjects:
  - {name: thr, type: threshold, var: phi, criterion: below, threshold: 0.5, subdomain: "2", block: ["4"]}
`, 0, nil)
	msh := dom.Msh()

	dom.AuxVals["phi"] = []float64{0.3, 0.3, 0.3}
	require.NoError(tst, dom.RunUserObjects())
	chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 2})

	// cells that do not meet the criterion are not changed
	msh.SetSubdomain(1, 4)
	dom.AuxVals["phi"] = []float64{0.9, 0.9, 0.9}
	require.NoError(tst, dom.RunUserObjects())
	chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 4})
}

func Test_threshold03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("threshold03. input errors")

	for _, uo := range []string{
		`{name: a, type: threshold, var: psi, criterion: above, subdomain: "1"}`,
		`{name: a, type: threshold, var: phi, criterion: higher, subdomain: "1"}`,
		`{name: a, type: threshold, var: phi, criterion: above, subdomain: rock}`,
		`{name: a, type: threshold, var: phi, criterion: above, subdomain: "1", strategy: linear}`,
		`{name: a, type: threshold, var: phi, criterion: above, subdomain: "1", movingboundary: front}`,
		`{name: a, type: threshold, var: phi, criterion: above, subdomain: "1", values: {p: 1}}`,
	} {
		sim, err := inp.NewSimulation([]byte(io.Sf(`
mesh: {type: line, n: [1]}
aux:
  - {name: phi, func: zero}
userobjects:
  - %s
`, uo)), true, "data")
		require.NoError(tst, err)
		_, err = fem.NewDomain(sim, 0, nil, false)
		require.Error(tst, err, uo)
	}
}

func Test_modifier01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modifier01. queue is applied by Finalize only")

	dom := newDomain(tst, io.Sf(barYaml, 1, 1, "constant", true), 0, nil)
	msh := dom.Msh()
	mod := dom.UserObjs[0].(*Modifier)
	dom.AuxVals["phi"] = []float64{1, 1, 1, 1, -1}
	ny := dom.Dofs.Ny

	mod.Initialize()
	for _, cid := range dom.LocalCells() {
		require.NoError(tst, mod.Execute(msh.Cells[cid]))
	}
	require.Equal(tst, []Change{{Cell: 2, From: 1, To: 0}}, mod.Queue)
	chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 0, 1, 1})
	chk.Int(tst, "ny", dom.Dofs.Ny, ny)

	// the same cell cannot be queued twice
	require.Panics(tst, func() { mod.Execute(msh.Cells[2]) })

	require.NoError(tst, mod.Finalize())
	chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 0, 0, 1})
	chk.Int(tst, "epoch", mod.Epoch, 1)
	require.Nil(tst, mod.Sent)
	require.Nil(tst, mod.Received)
}

func Test_modifier02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modifier02. moving boundary and constant values")

	for _, restore := range []bool{true, false} {
		dom := newDomain(tst, io.Sf(barYaml, 2, 1, "constant", restore), 0, nil)
		msh := dom.Msh()
		mod := dom.UserObjs[0].(*Modifier)
		bid, err := msh.ResolveBoundary("front")
		require.NoError(tst, err)
		chk.Int(tst, "bid", bid, mod.Bid)
		chk.Int(tst, "ny", dom.Dofs.Ny, 4+3+3)
		setLinear(dom)

		// activate cell 2
		dom.AuxVals["phi"] = []float64{1, 1, 1, 1, -1}
		require.NoError(tst, dom.RunUserObjects())
		chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 0, 0, 1})
		require.Equal(tst, []inp.SideKey{{Cell: 2, Side: 1}}, msh.SortedSides(bid))
		chk.Ints(tst, "nodes", msh.SortedNodes(bid), []int{3})
		chk.Ints(tst, "reinit cells", mod.ReinitCells, []int{2})
		chk.Ints(tst, "reinit nodes", mod.ReinitNodes, []int{2, 3})
		chk.Int(tst, "ny", dom.Dofs.Ny, 6+4+4)

		// old values
		chk.Float64(tst, "u(0,0.25)", 1e-15, value(tst, dom, fem.DofKey{"u", 0, 1, ""}), 0.25)
		chk.Float64(tst, "u(1,0.50)", 1e-15, value(tst, dom, fem.DofKey{"u", 1, 2, ""}), 0.5)

		// new values
		chk.Float64(tst, "u(2,0.50)", 1e-15, value(tst, dom, fem.DofKey{"u", 2, 2, ""}), 7)
		chk.Float64(tst, "u(2,0.75)", 1e-15, value(tst, dom, fem.DofKey{"u", 2, 3, ""}), 7)
		chk.Float64(tst, "ubar(0.75)", 1e-15, value(tst, dom, fem.DofKey{"ubar", -1, 3, "3"}), 8)
		chk.Float64(tst, "T(0.75)", 1e-15, value(tst, dom, fem.DofKey{"T", -1, 3, ""}), 9)

		// overridden values
		ubar := fem.DofKey{"ubar", -1, 2, "2"}
		T := fem.DofKey{"T", -1, 2, ""}
		if restore {
			chk.Float64(tst, "ubar(0.5)", 1e-15, value(tst, dom, ubar), 0.5)
			chk.Float64(tst, "T(0.5)", 1e-15, value(tst, dom, T), 5)
			chk.Ints(tst, "restored", mod.Restored, sortedInts(dom.Dofs.Index(ubar), dom.Dofs.Index(T)))
		} else {
			chk.Float64(tst, "ubar(0.5)", 1e-15, value(tst, dom, ubar), 8)
			chk.Float64(tst, "T(0.5)", 1e-15, value(tst, dom, T), 9)
			require.Empty(tst, mod.Restored)
		}
		chk.Array(tst, "Yold", 1e-15, dom.Sol().Yold, dom.Sol().Y)

		// running again does not change anything
		y := append([]float64{}, dom.Sol().Y...)
		require.NoError(tst, dom.RunUserObjects())
		require.Empty(tst, mod.Moved)
		require.Empty(tst, mod.ReinitCells)
		chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 0, 0, 1})
		require.Equal(tst, []inp.SideKey{{Cell: 2, Side: 1}}, msh.SortedSides(bid))
		chk.Ints(tst, "nodes", msh.SortedNodes(bid), []int{3})
		chk.Array(tst, "Y", 1e-15, dom.Sol().Y, y)

		// deactivate cell 2; dofs shared with cell 1 are overridden too
		ubarOld, Told := value(tst, dom, ubar), value(tst, dom, T)
		dom.AuxVals["phi"] = []float64{1, 1, 1, -1, -1}
		require.NoError(tst, dom.RunUserObjects())
		chk.Ints(tst, "subdomains", subdomains(msh), []int{0, 0, 1, 1})
		require.Equal(tst, []inp.SideKey{{Cell: 1, Side: 1}}, msh.SortedSides(bid))
		chk.Ints(tst, "nodes", msh.SortedNodes(bid), []int{2})
		chk.Ints(tst, "reinit cells", mod.ReinitCells, []int{2})
		chk.Int(tst, "ny", dom.Dofs.Ny, 4+3+3)
		require.Nil(tst, dom.CellDofs("u", 2))
		if restore {
			chk.Float64(tst, "ubar(0.5)", 1e-15, value(tst, dom, ubar), ubarOld)
			chk.Float64(tst, "T(0.5)", 1e-15, value(tst, dom, T), Told)
		} else {
			chk.Float64(tst, "ubar(0.5)", 1e-15, value(tst, dom, ubar), 8)
			chk.Float64(tst, "T(0.5)", 1e-15, value(tst, dom, T), 9)
		}
	}
}

func Test_modifier03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modifier03. nearest values")

	dom := newDomain(tst, io.Sf(barYaml, 1, 1, "nearest", true), 0, nil)
	mod := dom.UserObjs[0].(*Modifier)
	setLinear(dom)

	// activate cells 2 and 3
	dom.AuxVals["phi"] = []float64{1, 1, 1, 1, 1}
	require.NoError(tst, dom.RunUserObjects())
	chk.Ints(tst, "reinit cells", mod.ReinitCells, []int{2, 3})
	chk.Ints(tst, "reinit nodes", mod.ReinitNodes, []int{2, 3, 4})
	require.Empty(tst, dom.Msh().SortedSides(mod.Bid))

	// donors are at x = 0, 0.25 and 0.5
	chk.Float64(tst, "u(2,0.50)", 1e-15, value(tst, dom, fem.DofKey{"u", 2, 2, ""}), 0.5)
	chk.Float64(tst, "u(2,0.75)", 1e-15, value(tst, dom, fem.DofKey{"u", 2, 3, ""}), 0.5)
	chk.Float64(tst, "u(3,1.00)", 1e-15, value(tst, dom, fem.DofKey{"u", 3, 4, ""}), 0.5)
	chk.Float64(tst, "ubar(0.5)", 1e-15, value(tst, dom, fem.DofKey{"ubar", -1, 2, "2"}), 0.5)
	chk.Float64(tst, "ubar(1.0)", 1e-15, value(tst, dom, fem.DofKey{"ubar", -1, 4, "4"}), 0.5)
	chk.Float64(tst, "T(0.25)", 1e-15, value(tst, dom, fem.DofKey{"T", -1, 1, ""}), 2.5)
	chk.Float64(tst, "T(1.0)", 1e-15, value(tst, dom, fem.DofKey{"T", -1, 4, ""}), 5)
}

func Test_modifier04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modifier04. nearest values of coincident donors and refinement")

	dom := newDomain(tst, io.Sf(barYaml, 1, 1, "nearest", true), 0, nil)
	mod := dom.UserObjs[0].(*Modifier)
	msh := dom.Msh()
	setLinear(dom)

	// jump of u at x = 0.25 is averaged
	dom.Sol().Y[dom.Dofs.Index(fem.DofKey{"u", 0, 1, ""})] = 0.75
	dom.Sol().Y[dom.Dofs.Index(fem.DofKey{"u", 1, 1, ""})] = 0.25
	d := (&source{o: mod, old: dom.Dofs, y: dom.Sol().Y, skip: map[int]bool{1: true}}).donors("u")
	require.NotNil(tst, d)
	chk.Float64(tst, "u(0.3)", 1e-15, d.nearest([]float64{0.3}), 0.75)
	d = (&source{o: mod, old: dom.Dofs, y: dom.Sol().Y}).donors("u")
	chk.Float64(tst, "u(0.3)", 1e-15, d.nearest([]float64{0.3}), 0.5)
	require.Nil(tst, (&source{o: mod, old: dom.Dofs, y: dom.Sol().Y}).donors("p"))

	// refined cells are replaced in cached ranges
	dom.AuxVals["phi"] = []float64{1, 1, 1, 1, -1}
	require.NoError(tst, dom.RunUserObjects())
	chk.Ints(tst, "reinit cells", mod.ReinitCells, []int{2})
	require.NoError(tst, dom.Refine([]int{2}))
	chk.Ints(tst, "reinit cells", mod.ReinitCells, []int{4, 5})
	chk.Ints(tst, "reinit nodes", mod.ReinitNodes, []int{2, 3, 5})
	require.True(tst, msh.HasSide(mod.Bid, inp.SideKey{Cell: 5, Side: 1}))

	// ancestors follow their descendants
	dom.AuxVals["phi"] = append(dom.AuxVals["phi"], 1)
	dom.AuxVals["phi"][3] = -1
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "cell 5", msh.Cells[5].Subdomain, 1)
	chk.Int(tst, "cell 2", msh.Cells[2].Subdomain, 1)
	chk.Int(tst, "cell 4", msh.Cells[4].Subdomain, 0)
	require.True(tst, msh.HasSide(mod.Bid, inp.SideKey{Cell: 4, Side: 1}))
}

// sortedInts returns the sorted list of two ints
func sortedInts(a, b int) []int {
	if a > b {
		return []int{b, a}
	}
	return []int{a, b}
}
