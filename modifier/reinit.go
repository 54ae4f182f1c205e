// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"sort"

	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/fem"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// reinitialize sets the values of the dofs of cells that moved into
// re-initialised subdomains: first the elemental dofs, then the nodal and trace
// dofs of their vertices and faces. Nodal and trace dofs that existed before
// the change get their previous values back if Restore is set
//  old      -- numbering before the change
//  y, yold  -- solution arrays before the change
func (o *Modifier) reinitialize(old *fem.DofMap, y, yold []float64) {

	// cells and nodes
	dom := o.dom
	msh := dom.Msh()
	o.ReinitCells = nil
	for _, ch := range o.Moved {
		if o.Reinit != nil && !o.Reinit[ch.To] {
			continue
		}
		if msh.Cells[ch.Cell].Active() {
			o.ReinitCells = append(o.ReinitCells, ch.Cell)
		}
	}
	sort.Ints(o.ReinitCells)
	o.ReinitNodes = cellVerts(msh, o.ReinitCells)
	o.Restored = nil
	if len(o.ReinitCells) == 0 {
		return
	}

	// source of values
	skip := make(map[int]bool)
	for _, cid := range o.ReinitCells {
		skip[cid] = true
	}
	src := &source{o: o, old: old, y: y, skip: skip, trees: make(map[string]*donors)}
	dofs := dom.Dofs
	sol := dom.Sol()
	set := func(I int) {
		sol.Y[I] = src.value(dofs.Keys[I])
		sol.Yold[I] = sol.Y[I]
	}

	// elements
	for _, v := range dom.Vars {
		if v.Kind != ele.Elemental {
			continue
		}
		for _, cid := range o.ReinitCells {
			for _, I := range dofs.CellDofs(v.Name, cid) {
				set(I)
			}
		}
	}

	// nodes and faces
	overridden := make(map[int]int)
	for _, v := range dom.Vars {
		var eqs []int
		switch v.Kind {
		case ele.Nodal:
			for _, vid := range o.ReinitNodes {
				if I := dofs.Index(fem.DofKey{Var: v.Name, Cell: -1, Vert: vid}); I >= 0 {
					eqs = append(eqs, I)
				}
			}
		case ele.Trace:
			for _, cid := range o.ReinitCells {
				for side := range msh.Cells[cid].FaceIds {
					eqs = append(eqs, dofs.SideDofs(v.Name, cid, side)...)
				}
			}
		}
		for _, I := range eqs {
			set(I)
			if J := old.Index(dofs.Keys[I]); J >= 0 {
				overridden[I] = J
			}
		}
	}

	// boundary nodes
	if !o.Restore {
		return
	}
	for I, J := range overridden {
		sol.Y[I] = y[J]
		sol.Yold[I] = yold[J]
		o.Restored = append(o.Restored, I)
	}
	sort.Ints(o.Restored)
}

// source computes the values of re-initialised dofs
type source struct {
	o     *Modifier          // modifier
	old   *fem.DofMap        // numbering before the change
	y     []float64          // solution before the change
	skip  map[int]bool       // cells whose elemental dofs cannot be donors
	trees map[string]*donors // [var] donors; nil => no donors
}

// value returns the value of a dof. The nearest strategy takes the value of
// the closest old dof of the same variable and falls back to the constant
func (o *source) value(key fem.DofKey) float64 {
	if o.o.Strategy == "nearest" {
		d, ok := o.trees[key.Var]
		if !ok {
			d = o.donors(key.Var)
			o.trees[key.Var] = d
		}
		if d != nil {
			return d.nearest(o.o.dom.Msh().Verts[key.Vert].C)
		}
	}
	return o.o.Values[key.Var]
}

// donors collects the old dofs of a variable
func (o *source) donors(vname string) *donors {
	msh := o.o.dom.Msh()
	var coords [][]float64
	var vals []float64
	for J, key := range o.old.Keys {
		if key.Var != vname || o.skip[key.Cell] {
			continue
		}
		coords = append(coords, msh.Verts[key.Vert].C)
		vals = append(vals, o.y[J])
	}
	return newDonors(msh.Ndim, coords, vals)
}

// donors holds a kd-tree of donor points. Values of coincident donors are averaged
type donors struct {
	ndim int                    // space dimension
	tree *kdtree.Tree           // tree of unique points
	vals map[[3]float64]float64 // values at points
}

// newDonors returns a new set of donors; nil if there are no points
func newDonors(ndim int, coords [][]float64, vals []float64) *donors {
	sums := make(map[[3]float64]float64)
	counts := make(map[[3]float64]int)
	var pts kdtree.Points
	for i, x := range coords {
		k := pointKey(x)
		if counts[k] == 0 {
			p := make(kdtree.Point, ndim)
			copy(p, x)
			pts = append(pts, p)
		}
		sums[k] += vals[i]
		counts[k]++
	}
	if len(pts) == 0 {
		return nil
	}
	o := &donors{ndim: ndim, tree: kdtree.New(pts, false), vals: make(map[[3]float64]float64)}
	for k, s := range sums {
		o.vals[k] = s / float64(counts[k])
	}
	return o
}

// nearest returns the value of the donor closest to x
func (o *donors) nearest(x []float64) float64 {
	q := make(kdtree.Point, o.ndim)
	copy(q, x)
	c, _ := o.tree.Nearest(q)
	return o.vals[pointKey(c.(kdtree.Point))]
}

// pointKey returns a comparable key of a point
func pointKey(x []float64) (k [3]float64) {
	copy(k[:], x)
	return
}
