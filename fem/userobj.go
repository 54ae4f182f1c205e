// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/inp"
	"golang.org/x/sync/errgroup"
)

// UserObject defines objects executed over elements before the solution of each time step
type UserObject interface {
	Name() string                 // name of object
	Initialize()                  // clears data of previous executions
	Execute(cell *inp.Cell) error // computes data of one cell; must not change the mesh
	ThreadJoin(other UserObject)  // merges the data of another thread
	Finalize() error              // applies the merged data; runs in a single thread
	MeshChanged()                 // rebuilds cached mesh ranges after refinement
	Clone() UserObject            // returns a copy with empty execution data for another thread
}

// UserObjAllocator defines a function that allocates a user object
type UserObjAllocator func(dom *Domain, dat *inp.UserObjData) (UserObject, error)

// userObjAllocators holds all user object allocators
var userObjAllocators = make(map[string]UserObjAllocator)

// SetUserObjAllocator sets a new callback function to allocate a user object
func SetUserObjAllocator(typeName string, fcn UserObjAllocator) {
	if _, ok := userObjAllocators[typeName]; ok {
		chk.Panic("cannot set allocator function for user object %q because name exists already", typeName)
	}
	userObjAllocators[typeName] = fcn
}

// NewUserObject returns a new user object from factory
func NewUserObject(dom *Domain, dat *inp.UserObjData) (uo UserObject, err error) {
	fcn, ok := userObjAllocators[dat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for user object {name=%q type=%q}", dat.Name, dat.Type)
	}
	uo, err = fcn(dom, dat)
	if err != nil {
		return nil, chk.Err("cannot allocate user object {name=%q type=%q}:\n%v", dat.Name, dat.Type, err)
	}
	return
}

// RunUserObjects runs all user objects in the order of the input file
func (o *Domain) RunUserObjects() (err error) {
	for i, uo := range o.UserObjs {
		nthreads := o.Nthreads
		if i < len(o.sim.UserObjs) && o.sim.UserObjs[i].Nthreads > 0 {
			nthreads = o.sim.UserObjs[i].Nthreads
		}
		err = o.RunUserObject(uo, nthreads)
		if err != nil {
			return
		}
	}
	return
}

// RunUserObject initialises a user object, executes clones of it on disjoint
// ranges of cells, joins the clones and finalises it
func (o *Domain) RunUserObject(uo UserObject, nthreads int) (err error) {
	if nthreads < 1 {
		nthreads = 1
	}
	uo.Initialize()
	cells := o.LocalCells()
	clones := make([]UserObject, nthreads)
	clones[0] = uo
	for th := 1; th < nthreads; th++ {
		clones[th] = uo.Clone()
	}
	var g errgroup.Group
	for th := 0; th < nthreads; th++ {
		start, end := ThreadRange(len(cells), nthreads, th)
		g.Go(func() error {
			for _, cid := range cells[start:end] {
				if err := clones[th].Execute(o.msh.Cells[cid]); err != nil {
					return chk.Err("%s failed on cell %d:\n%v", uo.Name(), cid, err)
				}
			}
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return
	}
	for th := 1; th < nthreads; th++ {
		uo.ThreadJoin(clones[th])
	}
	return uo.Finalize()
}
