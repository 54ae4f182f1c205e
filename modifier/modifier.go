// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package modifier implements user objects that change the subdomain of cells
// and maintain the moving boundary between active and inactive subdomains
package modifier

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
)

// Criterion computes the target subdomain of a cell. Implementations are shared
// by all threads and must not change the mesh
//  ok -- false => the cell keeps its subdomain
type Criterion interface {
	ComputeSubdomainID(cell *inp.Cell, dom *fem.Domain) (id int, ok bool)
}

// initializer is implemented by criteria that refresh their data before each sweep
type initializer interface {
	Initialize(dom *fem.Domain)
}

// Change holds a pending change of subdomain
type Change struct {
	Cell int // cell id
	From int // subdomain before change
	To   int // subdomain after change
}

// Modifier changes the subdomain of cells according to a Criterion. Changes
// computed by Execute are queued and applied by Finalize only. Finalize also
// recomputes the moving boundary and re-initialises the new dofs
type Modifier struct {

	// input
	Crit     Criterion          // computes target subdomains
	Blocks   map[int]bool       // execute on these subdomains only; nil => all
	Bid      int                // moving boundary id; -1 => none
	Active   map[int]bool       // subdomains on the inner side of the moving boundary
	Reinit   map[int]bool       // subdomains whose new cells are re-initialised; nil => all
	Strategy string             // "nearest" or "constant"
	Values   map[string]float64 // constant values per variable
	Restore  bool               // restore values of dofs that existed before the change

	// execution
	Queue []Change // changes computed by Execute

	// results of last Finalize
	Moved       []Change // changes applied to local and ghost cells
	ReinitCells []int    // re-initialised cells
	ReinitNodes []int    // vertices of re-initialised cells
	Restored    []int    // equations whose previous values were restored
	Epoch       int      // number of calls to Finalize

	// messages exchanged by the last Finalize; only in distributed runs
	Sent     map[int]*Message // [dest] messages sent to other processors
	Received map[int]*Message // [src] messages received from other processors

	// internal
	name   string
	dom    *fem.Domain
	queued map[int]bool
	slot   int // position among user objects
	nslots int // number of user objects
}

// New returns a new modifier
func New(dom *fem.Domain, dat *inp.UserObjData, crit Criterion) (o *Modifier, err error) {
	msh := dom.Msh()
	o = &Modifier{Crit: crit, Bid: -1, Strategy: dat.Strategy, Restore: true, name: dat.Name, dom: dom}
	o.slot, o.nslots = dat.Index, utl.Imax(dat.Nobjs, 1)

	// blocks
	o.Blocks, err = resolveSubdomains(msh, dat.Block)
	if err != nil {
		return nil, chk.Err("invalid blocks of modifier %q:\n%v", dat.Name, err)
	}

	// moving boundary
	o.Active, err = resolveSubdomains(msh, dat.Active)
	if err != nil {
		return nil, chk.Err("invalid active subdomains of modifier %q:\n%v", dat.Name, err)
	}
	if dat.MovingBry != "" {
		if len(o.Active) == 0 {
			return nil, chk.Err("modifier %q: active subdomains must be given with a moving boundary", dat.Name)
		}
		o.Bid = msh.FindOrAddBoundary(dat.MovingBry)
	}

	// re-initialisation
	o.Reinit, err = resolveSubdomains(msh, dat.Reinit)
	if err != nil {
		return nil, chk.Err("invalid re-initialised subdomains of modifier %q:\n%v", dat.Name, err)
	}
	switch o.Strategy {
	case "":
		o.Strategy = "constant"
	case "nearest", "constant":
	default:
		return nil, chk.Err("modifier %q: strategy %q is invalid; options are \"nearest\" and \"constant\"", dat.Name, o.Strategy)
	}
	o.Values = make(map[string]float64)
	for vname, val := range dat.Values {
		if dom.Var(vname) == nil {
			return nil, chk.Err("modifier %q: cannot find variable %q to set constant value", dat.Name, vname)
		}
		o.Values[vname] = val
	}
	if dat.Restore != nil {
		o.Restore = *dat.Restore
	}
	return
}

// Name returns the name of this modifier
func (o *Modifier) Name() string { return o.name }

// Initialize clears the queue and refreshes the criterion
func (o *Modifier) Initialize() {
	o.Queue = nil
	o.queued = make(map[int]bool)
	if c, ok := o.Crit.(initializer); ok {
		c.Initialize(o.dom)
	}
}

// Execute computes the target subdomain of a cell and queues the change
func (o *Modifier) Execute(cell *inp.Cell) (err error) {
	if o.Blocks != nil && !o.Blocks[cell.Subdomain] {
		return
	}
	id, ok := o.Crit.ComputeSubdomainID(cell, o.dom)
	if !ok || id == cell.Subdomain {
		return
	}
	o.push(Change{cell.Id, cell.Subdomain, id})
	return
}

// ThreadJoin appends the queue of another thread
func (o *Modifier) ThreadJoin(other fem.UserObject) {
	for _, ch := range other.(*Modifier).Queue {
		o.push(ch)
	}
}

// Clone returns a copy with an empty queue
func (o *Modifier) Clone() fem.UserObject {
	c := *o
	c.Queue = nil
	c.queued = make(map[int]bool)
	return &c
}

// Finalize applies the queued changes, recomputes the moving boundary and
// re-initialises the dofs of cells that moved into new subdomains
func (o *Modifier) Finalize() (err error) {
	sol := o.dom.Sol()
	subs, bry := o.rounds(o.Epoch)
	o.Epoch++
	o.Sent, o.Received = nil, nil
	if o.dom.Comm != nil {
		o.Sent = make(map[int]*Message)
		o.Received = make(map[int]*Message)
	}

	// apply changes of local cells
	sort.Slice(o.Queue, func(i, j int) bool { return o.Queue[i].Cell < o.Queue[j].Cell })
	o.Moved = nil
	for _, ch := range o.Queue {
		o.apply(ch)
	}

	// ghost cells
	err = o.exchangeSubdomains(subs)
	if err != nil {
		return
	}

	// moving boundary
	delta := o.updateBoundary()
	err = o.exchangeBoundary(bry, delta)
	if err != nil {
		return
	}

	// new dofs
	old := o.dom.Dofs
	y, yold := sol.Y, sol.Yold
	o.dom.SetDofs()
	o.reinitialize(old, y, yold)
	if o.dom.ShowMsg && len(o.Moved) > 0 {
		io.Pf("> %s: %d cells moved; ny=%d\n", o.name, len(o.Moved), o.dom.Dofs.Ny)
	}
	return
}

// MeshChanged replaces refined cells in the cached ranges by their active descendants
func (o *Modifier) MeshChanged() {
	msh := o.dom.Msh()
	var cids []int
	for _, cid := range o.ReinitCells {
		cids = append(cids, leaves(msh, cid)...)
	}
	o.ReinitCells = cids
	o.ReinitNodes = cellVerts(msh, cids)
}

// apply changes the subdomain of a cell and of its ancestors
func (o *Modifier) apply(ch Change) {
	msh := o.dom.Msh()
	msh.SetSubdomain(ch.Cell, ch.To)
	for _, pid := range msh.Ancestors(ch.Cell) {
		msh.SetSubdomain(pid, ch.To)
	}
	o.Moved = append(o.Moved, ch)
}

// push adds a change to the queue
func (o *Modifier) push(ch Change) {
	if o.queued == nil {
		o.queued = make(map[int]bool)
	}
	if o.queued[ch.Cell] {
		chk.Panic("modifier %q: cell %d has been queued more than once", o.name, ch.Cell)
	}
	o.queued[ch.Cell] = true
	o.Queue = append(o.Queue, ch)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// resolveSubdomains returns the set of subdomains given by names or ids; nil if keys is empty
func resolveSubdomains(msh *inp.Mesh, keys []string) (ids map[int]bool, err error) {
	if len(keys) == 0 {
		return
	}
	ids = make(map[int]bool)
	for _, key := range keys {
		id, err := msh.ResolveSubdomain(key)
		if err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return
}

// leaves returns the active descendants of a cell
func leaves(msh *inp.Mesh, cid int) (cids []int) {
	c := msh.Cells[cid]
	if c.Active() {
		return []int{cid}
	}
	for _, kid := range c.Children {
		cids = append(cids, leaves(msh, kid)...)
	}
	return
}

// cellVerts returns the sorted vertices of a set of cells
func cellVerts(msh *inp.Mesh, cids []int) (vids []int) {
	set := make(map[int]bool)
	for _, cid := range cids {
		for _, vid := range msh.Cells[cid].Verts {
			set[vid] = true
		}
	}
	for vid := range set {
		vids = append(vids, vid)
	}
	sort.Ints(vids)
	return
}
