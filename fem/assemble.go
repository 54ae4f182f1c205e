// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// sink collects the contributions of one thread
type sink struct {
	fb []float64 // residual == -R
	I  []int     // rows of Jacobian entries
	J  []int     // columns of Jacobian entries
	X  []float64 // values of Jacobian entries
}

// AddToRhs adds -r to fb
func (o *sink) AddToRhs(dofs []int, r []float64) {
	for i, I := range dofs {
		o.fb[I] -= r[i]
	}
}

// AddToKb adds K to the list of Jacobian entries
func (o *sink) AddToKb(rows, cols []int, K mat.Matrix) {
	for i, I := range rows {
		for j, J := range cols {
			o.I = append(o.I, I)
			o.J = append(o.J, J)
			o.X = append(o.X, K.At(i, j))
		}
	}
}

// contribution holds the joined contributions of one processor
type contribution struct {
	Fb []float64
	I  []int
	J  []int
	X  []float64
}

// AssemblyTag is the first tag of messages exchanged during assembly
var AssemblyTag = 1 << 20

// ThreadRange returns the range [start, end) of items processed by a thread
func ThreadRange(n, nthreads, th int) (start, end int) {
	start = th * n / nthreads
	end = (th + 1) * n / nthreads
	return
}

// Assemble computes fb = -R and, if withK, Kb = dR/dy. Cells are split among
// threads; each thread visits, for each cell, the interior and the sides of
// kernels followed by the sides of boundary conditions
func (o *Domain) Assemble(withK bool) (err error) {

	// reset Jacobian caches
	if withK {
		for th := 0; th < o.Nthreads; th++ {
			for _, k := range o.Kernels[th] {
				k.JacobianSetup()
			}
			for _, bc := range o.Bcs[th] {
				bc.JacobianSetup()
			}
		}
	}

	// element loops
	ny := o.Dofs.Ny
	cells := o.LocalCells()
	sinks := make([]*sink, o.Nthreads)
	var g errgroup.Group
	for th := 0; th < o.Nthreads; th++ {
		sinks[th] = &sink{fb: make([]float64, ny)}
		start, end := ThreadRange(len(cells), o.Nthreads, th)
		g.Go(func() error {
			return o.assembleCells(th, cells[start:end], sinks[th], withK)
		})
	}
	err = g.Wait()
	if err != nil {
		return
	}

	// contributions of other processors
	if o.Comm != nil {
		sinks, err = o.exchangeSinks(sinks, withK)
		if err != nil {
			return
		}
	}

	// join
	for i := range o.Fb {
		o.Fb[i] = 0
	}
	nnz := 0
	for _, s := range sinks {
		for i, v := range s.fb {
			o.Fb[i] += v
		}
		nnz += len(s.X)
	}
	if withK {
		o.Kb.Init(ny, ny, nnz)
		for _, s := range sinks {
			for k, x := range s.X {
				o.Kb.Put(s.I[k], s.J[k], x)
			}
		}
	}
	return
}

// exchangeSinks sends the contributions of this processor to all others and
// returns the contributions of all processors in rank order. Since the mesh is
// replicated, all processors end up with the same linear system
func (o *Domain) exchangeSinks(sinks []*sink, withK bool) (all []*sink, err error) {

	// join threads
	mine := &contribution{Fb: make([]float64, o.Dofs.Ny)}
	for _, s := range sinks {
		for i, v := range s.fb {
			mine.Fb[i] += v
		}
		if withK {
			mine.I = append(mine.I, s.I...)
			mine.J = append(mine.J, s.J...)
			mine.X = append(mine.X, s.X...)
		}
	}

	// send to everybody
	payload, err := comm.Encode(mine)
	if err != nil {
		return
	}
	var ranks []int
	out := make(map[int][]byte)
	for r := 0; r < o.Comm.Size(); r++ {
		if r != o.Proc {
			ranks = append(ranks, r)
			out[r] = payload
		}
	}
	in, err := comm.Exchange(o.Comm, comm.NewRound("assembly", AssemblyTag, o.nassembly, 0), ranks, out)
	o.nassembly++
	if err != nil {
		return
	}

	// collect
	all = make([]*sink, o.Comm.Size())
	for r := range all {
		c := mine
		if r != o.Proc {
			c = new(contribution)
			err = comm.Decode(in[r], c)
			if err != nil {
				return
			}
		}
		if len(c.Fb) != o.Dofs.Ny {
			return nil, chk.Err("processor %d sent %d residuals instead of %d", r, len(c.Fb), o.Dofs.Ny)
		}
		all[r] = &sink{fb: c.Fb, I: c.I, J: c.J, X: c.X}
	}
	return
}

// assembleCells visits the cells of one thread
func (o *Domain) assembleCells(th int, cids []int, s *sink, withK bool) (err error) {
	for _, cid := range cids {
		c := o.msh.Cells[cid]
		x := o.msh.Coords(c)

		// kernels
		for _, k := range o.Kernels[th] {
			if blocks := k.Blocks(); blocks != nil && !blocks[c.Subdomain] {
				continue
			}
			err = o.visit(k, ele.Visit{Cell: c, Side: -1, X: x}, s, withK)
			if err != nil {
				return
			}
			if !k.OnSides() {
				continue
			}
			for side := 0; side < c.Shp.Nfaces(); side++ {
				if o.claimed(th, k.Var(), inp.SideKey{Cell: cid, Side: side}) {
					continue
				}
				err = o.visit(k, ele.Visit{Cell: c, Side: side, X: x}, s, withK)
				if err != nil {
					return
				}
			}
		}

		// boundary conditions
		for _, bc := range o.Bcs[th] {
			if v := o.vars[bc.Var()]; v != nil && !v.OnSubdomain(c.Subdomain) {
				continue
			}
			for side := 0; side < c.Shp.Nfaces(); side++ {
				key := inp.SideKey{Cell: cid, Side: side}
				for _, bid := range bc.Boundaries() {
					if !o.msh.Sidesets[bid][key] {
						continue
					}
					err = o.visit(bc, ele.Visit{Cell: c, Side: side, X: x}, s, withK)
					if err != nil {
						return
					}
					break
				}
			}
		}
	}
	return
}

// claimed tells whether a boundary condition of variable vname acts on a side
func (o *Domain) claimed(th int, vname string, key inp.SideKey) bool {
	for _, bc := range o.Bcs[th] {
		if bc.Var() != vname {
			continue
		}
		for _, bid := range bc.Boundaries() {
			if o.msh.Sidesets[bid][key] {
				return true
			}
		}
	}
	return false
}

// visit computes the contributions of an object at one visit
func (o *Domain) visit(obj ele.Object, v ele.Visit, s *sink, withK bool) (err error) {
	if withK {
		err = obj.ComputeResidualAndJacobian(v, s)
	} else {
		err = obj.ComputeResidual(v, s)
	}
	if err != nil {
		return chk.Err("%s failed on cell %d (side %d):\n%v", obj.Name(), v.Cell.Id, v.Side, err)
	}
	return
}
