// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"math"
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
)

// ByVar moves cells into the subdomain given by the rounded average of a
// variable. Ids that do not exist are snapped to the first existing id not
// smaller than them or, if there is none, to the largest id
type ByVar struct {
	Var string // variable (solution or auxiliary)
	Ids []int  // existing subdomains, sorted; refreshed by Initialize

	mutex  sync.Mutex
	warned map[int]bool
}

// NewByVar returns a new criterion based on the value of a variable
func NewByVar(dom *fem.Domain, dat *inp.UserObjData) (o *ByVar, err error) {
	o = &ByVar{Var: dat.Var, warned: make(map[int]bool)}
	if dom.Var(o.Var) == nil && dom.AuxFcns[o.Var] == nil {
		return nil, chk.Err("cannot find variable %q", o.Var)
	}
	o.Ids = dom.Msh().SubdomainIds()
	if len(o.Ids) == 0 {
		return nil, chk.Err("mesh has no subdomains")
	}
	return
}

// Initialize refreshes the existing subdomains before each sweep
func (o *ByVar) Initialize(dom *fem.Domain) {
	if ids := dom.Msh().SubdomainIds(); len(ids) > 0 {
		o.Ids = ids
	}
}

// ComputeSubdomainID implements Criterion
func (o *ByVar) ComputeSubdomainID(cell *inp.Cell, dom *fem.Domain) (id int, ok bool) {
	val, found := dom.CellAverage(o.Var, cell.Id)
	if !found {
		return
	}
	return o.Snap(int(math.Round(val))), true
}

// Snap returns the existing subdomain corresponding to an id
func (o *ByVar) Snap(id int) int {
	i := sort.SearchInts(o.Ids, id)
	if i < len(o.Ids) && o.Ids[i] == id {
		return id
	}
	res := o.Ids[len(o.Ids)-1]
	if i < len(o.Ids) {
		res = o.Ids[i]
	}
	o.warn(id, res)
	return res
}

// Warned returns the ids that have been snapped, sorted
func (o *ByVar) Warned() (ids []int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for id := range o.warned {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// warn prints a message the first time an id is snapped
func (o *ByVar) warn(id, res int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.warned[id] {
		return
	}
	o.warned[id] = true
	io.Pfyel("subdomain %d does not exist; using subdomain %d instead\n", id, res)
}
