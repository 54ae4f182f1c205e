// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// DofKey identifies the entity carrying one degree of freedom. Keys do not
// depend on the numbering and thus survive renumbering and refinement
//  elemental: {Var, Cell, Vert}
//  nodal:     {Var, -1, Vert}
//  trace:     {Var, -1, Vert, Face}
type DofKey struct {
	Var  string // variable name
	Cell int    // cell id (elemental); -1 otherwise
	Vert int    // vertex id
	Face string // face key (trace); empty otherwise
}

// DofMap holds the equation numbers of all active dofs
type DofMap struct {
	Ny    int                              // total number of dofs
	Keys  []DofKey                         // [ny] entity of each equation
	Cell  map[string]map[int][]int         // [var][cid] elemental or nodal dofs in cell vertex order
	Face  map[string]map[int][]int         // [var][fid] trace dofs in face vertex order
	index map[DofKey]int                   // key => equation number
	vars  map[string]ele.VarKind           // kinds of numbered variables
	sides map[string]map[inp.SideKey][]int // [var][side] cache of trace dofs in cell face order
}

// NewDofMap numbers the dofs of variables on the active entities of a mesh.
// Trace dofs are created on faces adjacent to at least one active cell where
// the primal variable lives
func NewDofMap(msh *inp.Mesh, vars []*ele.Variable) (o *DofMap) {
	o = &DofMap{
		Cell:  make(map[string]map[int][]int),
		Face:  make(map[string]map[int][]int),
		index: make(map[DofKey]int),
		vars:  make(map[string]ele.VarKind),
		sides: make(map[string]map[inp.SideKey][]int),
	}
	byName := make(map[string]*ele.Variable)
	for _, v := range vars {
		byName[v.Name] = v
	}
	for _, v := range vars {
		o.vars[v.Name] = v.Kind
		switch v.Kind {

		case ele.Elemental:
			o.Cell[v.Name] = make(map[int][]int)
			for _, c := range msh.Cells {
				if !c.Active() || !v.OnSubdomain(c.Subdomain) {
					continue
				}
				dofs := make([]int, len(c.Verts))
				for i, vid := range c.Verts {
					dofs[i] = o.add(DofKey{v.Name, c.Id, vid, ""})
				}
				o.Cell[v.Name][c.Id] = dofs
			}

		case ele.Nodal:
			o.Cell[v.Name] = make(map[int][]int)
			for _, c := range msh.Cells {
				if !c.Active() || !v.OnSubdomain(c.Subdomain) {
					continue
				}
				dofs := make([]int, len(c.Verts))
				for i, vid := range c.Verts {
					key := DofKey{v.Name, -1, vid, ""}
					if I, ok := o.index[key]; ok {
						dofs[i] = I
						continue
					}
					dofs[i] = o.add(key)
				}
				o.Cell[v.Name][c.Id] = dofs
			}

		case ele.Trace:
			o.Face[v.Name] = make(map[int][]int)
			o.sides[v.Name] = make(map[inp.SideKey][]int)
			primal := byName[v.Primal]
			for _, f := range msh.Faces {
				live := false
				for _, cid := range f.Cells {
					if cid >= 0 && (primal == nil || primal.OnSubdomain(msh.Cells[cid].Subdomain)) {
						live = true
					}
				}
				if !live {
					continue
				}
				fkey := f.Key()
				dofs := make([]int, len(f.Verts))
				for i, vid := range f.Verts {
					dofs[i] = o.add(DofKey{v.Name, -1, vid, fkey})
				}
				o.Face[v.Name][f.Id] = dofs
			}
		}
	}
	o.buildSides(msh)
	return
}

// Index returns the equation number of a key; -1 if the key is not numbered
func (o *DofMap) Index(key DofKey) int {
	if I, ok := o.index[key]; ok {
		return I
	}
	return -1
}

// Has tells whether a variable has been numbered
func (o *DofMap) Has(vname string) bool {
	_, ok := o.vars[vname]
	return ok
}

// CellDofs returns the elemental or nodal dofs of a cell; nil if none
func (o *DofMap) CellDofs(vname string, cid int) []int {
	return o.Cell[vname][cid]
}

// SideDofs returns the trace dofs of a cell side ordered as the local
// vertices of the side in the cell; nil if none
func (o *DofMap) SideDofs(vname string, cid, side int) []int {
	return o.sides[vname][inp.SideKey{Cell: cid, Side: side}]
}

// buildSides fills the cache of side dofs
func (o *DofMap) buildSides(msh *inp.Mesh) {
	for vname, faces := range o.Face {
		cache := o.sides[vname]
		for fid, fdofs := range faces {
			f := msh.Faces[fid]
			pos := make(map[int]int)
			for i, vid := range f.Verts {
				pos[vid] = fdofs[i]
			}
			for k, cid := range f.Cells {
				if cid < 0 {
					continue
				}
				skey := inp.SideKey{Cell: cid, Side: f.Lids[k]}
				verts := msh.SideVerts(skey)
				dofs := make([]int, len(verts))
				for i, vid := range verts {
					dofs[i] = pos[vid]
				}
				cache[skey] = dofs
			}
		}
	}
}

// Map copies the values of old equations into a new array, following the
// keys of the dofs. It also returns the equations without a donor
func (o *DofMap) Map(old *DofMap, yOld []float64) (y []float64, fresh []int) {
	y = make([]float64, o.Ny)
	for I, key := range o.Keys {
		if old == nil {
			fresh = append(fresh, I)
			continue
		}
		J := old.Index(key)
		if J < 0 {
			fresh = append(fresh, I)
			continue
		}
		y[I] = yOld[J]
	}
	return
}

// add numbers a new dof
func (o *DofMap) add(key DofKey) (I int) {
	I = o.Ny
	o.index[key] = I
	o.Keys = append(o.Keys, key)
	o.Ny++
	return
}
