// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// Domain holds variables, dofs, kernels, boundary conditions and user objects
// in addition to the Solution. Kernels and boundary conditions are allocated
// once per thread. Domain implements ele.Context
type Domain struct {

	// init: auxiliary variables
	Proc     int            // this processor number
	Comm     comm.Transport // transport to other processors; nil => serial run
	Verbose  bool           // verbose
	ShowMsg  bool           // show messages: if verbose==true and proc==0
	Nthreads int            // number of threads for element loops

	// variables and dofs
	Vars []*ele.Variable // all variables
	Dofs *DofMap         // equation numbers

	// objects
	Kernels  [][]ele.Kernel            // [nthreads][nkernels]
	Bcs      [][]ele.BoundaryCondition // [nthreads][nbcs]
	UserObjs []UserObject              // user objects such as subdomain modifiers
	AuxFcns  map[string]dbf.T          // auxiliary variables
	AuxVals  map[string][]float64      // [aux][nverts] auxiliary values at vertices

	// solution and linear system
	Kb     *la.Triplet     // Jacobian == dRdy
	Fb     []float64       // residual == -fb
	Wb     []float64       // workspace
	LinSol la.SparseSolver // linear solver; allocated for each solution

	// internal
	sim       *inp.Simulation
	msh       *inp.Mesh
	sol       *ele.Solution
	vars      map[string]*ele.Variable
	nassembly int // number of assemblies exchanged with other processors
}

// NewDomain returns a new domain
//  Input:
//   sim  -- simulation data
//   proc -- processor number
//   tr   -- transport to other processors; nil => serial run
//   verb -- verbose
func NewDomain(sim *inp.Simulation, proc int, tr comm.Transport, verb bool) (o *Domain, err error) {

	// new domain
	o = &Domain{Proc: proc, Comm: tr, Verbose: verb, ShowMsg: verb && proc == 0, sim: sim, msh: sim.Msh}
	o.Nthreads = sim.Data.Nthreads
	if o.Nthreads < 1 {
		o.Nthreads = 1
	}

	// variables
	o.vars = make(map[string]*ele.Variable)
	for _, vdat := range sim.Variables {
		v, err := ele.NewVariable(vdat, o.msh, sim.Functions)
		if err != nil {
			return nil, chk.Err("cannot allocate variable:\n%v", err)
		}
		o.Vars = append(o.Vars, v)
		o.vars[v.Name] = v
	}
	for _, v := range o.Vars {
		if v.Kind != ele.Trace {
			continue
		}
		p := o.vars[v.Primal]
		if p == nil || p.Kind != ele.Elemental {
			return nil, chk.Err("primal variable %q of trace variable %q must be an elemental variable", v.Primal, v.Name)
		}
	}

	// auxiliary variables
	o.AuxFcns = make(map[string]dbf.T)
	for _, a := range sim.AuxVars {
		o.AuxFcns[a.Name], err = sim.Functions.Get(a.Func)
		if err != nil {
			return nil, chk.Err("auxiliary variable %q:\n%v", a.Name, err)
		}
	}

	// solution
	o.sol = &ele.Solution{Steady: sim.Data.Steady, Axisym: sim.Axisym, Dt: sim.Control.Dt}
	o.SetDofs()
	o.SetIniVals()
	o.UpdateAux()

	// user objects must come before boundary conditions since they may create boundaries
	for _, uodat := range sim.UserObjs {
		uo, err := NewUserObject(o, uodat)
		if err != nil {
			return nil, err
		}
		o.UserObjs = append(o.UserObjs, uo)
	}

	// kernels and boundary conditions
	o.Kernels = make([][]ele.Kernel, o.Nthreads)
	o.Bcs = make([][]ele.BoundaryCondition, o.Nthreads)
	for th := 0; th < o.Nthreads; th++ {
		for _, kdat := range sim.Kernels {
			k, err := ele.NewKernel(o, kdat)
			if err != nil {
				return nil, err
			}
			o.Kernels[th] = append(o.Kernels[th], k)
		}
		for _, bdat := range sim.Bcs {
			bc, err := ele.NewBc(o, bdat)
			if err != nil {
				return nil, err
			}
			o.Bcs[th] = append(o.Bcs[th], bc)
		}
	}

	// linear system
	o.Kb = new(la.Triplet)

	// message
	if o.ShowMsg {
		io.Pf("> Domain: %v\n", o.msh)
		io.Pf("> Domain: ny=%d nkernels=%d nbcs=%d nuserobjs=%d\n", o.Dofs.Ny, len(sim.Kernels), len(sim.Bcs), len(o.UserObjs))
	}
	return
}

// context ////////////////////////////////////////////////////////////////////////////////////////

// Sim returns the simulation data
func (o *Domain) Sim() *inp.Simulation { return o.sim }

// Msh returns the mesh
func (o *Domain) Msh() *inp.Mesh { return o.msh }

// Sol returns the solution
func (o *Domain) Sol() *ele.Solution { return o.sol }

// Var returns a variable; nil if not found
func (o *Domain) Var(name string) *ele.Variable { return o.vars[name] }

// CellDofs returns the elemental or nodal dofs of a cell; nil if none
func (o *Domain) CellDofs(vname string, cid int) []int { return o.Dofs.CellDofs(vname, cid) }

// SideDofs returns the trace dofs of a cell side in local face-vertex order; nil if none
func (o *Domain) SideDofs(vname string, cid, side int) []int {
	return o.Dofs.SideDofs(vname, cid, side)
}

// dofs and values ////////////////////////////////////////////////////////////////////////////////

// SetDofs numbers the dofs of active entities and maps Y and Yold to the new
// numbering. It returns the equations that did not exist before
func (o *Domain) SetDofs() (fresh []int) {
	old := o.Dofs
	o.Dofs = NewDofMap(o.msh, o.Vars)
	var yold []float64
	o.sol.Y, fresh = o.Dofs.Map(old, o.sol.Y)
	yold, _ = o.Dofs.Map(old, o.sol.Yold)
	o.sol.Yold = yold
	o.sol.ΔY = make([]float64, o.Dofs.Ny)
	o.Fb = make([]float64, o.Dofs.Ny)
	o.Wb = make([]float64, o.Dofs.Ny)
	return
}

// SetIniVals sets initial values of all dofs
func (o *Domain) SetIniVals() {
	for I, key := range o.Dofs.Keys {
		v := o.vars[key.Var]
		if v.Init == nil {
			continue
		}
		o.sol.Y[I] = v.Init.F(o.sol.T, o.msh.Verts[key.Vert].C)
	}
	o.sol.Backup()
}

// DofCoords returns the coordinates of the vertex carrying an equation
func (o *Domain) DofCoords(I int) []float64 {
	return o.msh.Verts[o.Dofs.Keys[I].Vert].C
}

// UpdateAux computes auxiliary values at vertices at the current time
func (o *Domain) UpdateAux() {
	if o.AuxVals == nil {
		o.AuxVals = make(map[string][]float64)
	}
	for name, fcn := range o.AuxFcns {
		vals := make([]float64, len(o.msh.Verts))
		for i, v := range o.msh.Verts {
			vals[i] = fcn.F(o.sol.T, v.C)
		}
		o.AuxVals[name] = vals
	}
}

// CellAverage returns the average of the values of a variable at the vertices
// of a cell. It works with elemental, nodal and auxiliary variables
func (o *Domain) CellAverage(vname string, cid int) (avg float64, ok bool) {
	c := o.msh.Cells[cid]
	if vals, found := o.AuxVals[vname]; found {
		for _, vid := range c.Verts {
			avg += vals[vid]
		}
		return avg / float64(len(c.Verts)), true
	}
	dofs := o.Dofs.CellDofs(vname, cid)
	if len(dofs) == 0 {
		return 0, false
	}
	for _, I := range dofs {
		avg += o.sol.Y[I]
	}
	return avg / float64(len(dofs)), true
}

// LocalCells returns the active cells processed by this domain
func (o *Domain) LocalCells() []int {
	if o.Comm == nil {
		return o.msh.ActiveCells()
	}
	return o.msh.OwnedCells(o.Proc)
}

// refinement /////////////////////////////////////////////////////////////////////////////////////

// Refine bisects cells, projects the solution onto the children and notifies user objects
func (o *Domain) Refine(cids []int) (err error) {
	for _, cid := range cids {
		if cid < 0 || cid >= len(o.msh.Cells) {
			return chk.Err("cannot refine cell %d: id is out of range", cid)
		}
		_, err = o.msh.Refine(cid)
		if err != nil {
			return chk.Err("refinement failed:\n%v", err)
		}
	}
	old := o.Dofs
	y, yold := o.sol.Y, o.sol.Yold
	fresh := o.SetDofs()
	for _, I := range fresh {
		key := o.Dofs.Keys[I]
		o.sol.Y[I] = o.project(old, y, key)
		o.sol.Yold[I] = o.project(old, yold, key)
	}
	for _, uo := range o.UserObjs {
		uo.MeshChanged()
	}
	if o.ShowMsg {
		io.Pf("> Refined %d cells: ny=%d\n", len(cids), o.Dofs.Ny)
	}
	return
}

// project returns the value of a new dof from the values of the parent cell
func (o *Domain) project(old *DofMap, y []float64, key DofKey) float64 {
	cid := key.Cell
	if cid < 0 {
		cells := o.msh.Vert2cells[key.Vert]
		if len(cells) == 0 {
			return 0
		}
		cid = cells[0]
	}
	parent := o.msh.Cells[cid].Parent
	if parent < 0 {
		return 0
	}
	vname := key.Var
	if v := o.vars[vname]; v.Kind == ele.Trace {
		vname = v.Primal
	}
	if J := old.Index(DofKey{vname, parent, key.Vert, ""}); J >= 0 {
		return y[J]
	}
	var sum float64
	var n int
	for _, vid := range o.msh.Cells[parent].Verts {
		J := old.Index(DofKey{vname, parent, vid, ""})
		if J < 0 {
			J = old.Index(DofKey{vname, -1, vid, ""})
		}
		if J >= 0 {
			sum += y[J]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
