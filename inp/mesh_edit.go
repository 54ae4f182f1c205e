// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// mutation of subdomains and boundary information ////////////////////////////////////////////////

// SetSubdomain sets the subdomain id of a cell
func (o *Mesh) SetSubdomain(cid, id int) {
	o.Cells[cid].Subdomain = id
}

// AddSide adds a cell side to a sideset
func (o *Mesh) AddSide(bid int, key SideKey) {
	if o.Sidesets[bid] == nil {
		o.Sidesets[bid] = make(map[SideKey]bool)
	}
	o.Sidesets[bid][key] = true
}

// RemoveSide removes a cell side from a sideset
func (o *Mesh) RemoveSide(bid int, key SideKey) {
	delete(o.Sidesets[bid], key)
}

// AddNode adds a vertex to a nodeset
func (o *Mesh) AddNode(bid, vid int) {
	if o.Nodesets[bid] == nil {
		o.Nodesets[bid] = make(map[int]bool)
	}
	o.Nodesets[bid][vid] = true
}

// RemoveNode removes a vertex from a nodeset
func (o *Mesh) RemoveNode(bid, vid int) {
	delete(o.Nodesets[bid], vid)
}

// HasSide tells whether a cell side belongs to a sideset
func (o *Mesh) HasSide(bid int, key SideKey) bool {
	return o.Sidesets[bid][key]
}

// FindOrAddBoundary returns the id of a boundary given by name or number. A
// name that is not found is registered with a new id
func (o *Mesh) FindOrAddBoundary(key string) (bid int) {
	bid, err := o.ResolveBoundary(key)
	if err == nil {
		return
	}
	bid = 0
	for id := range o.BoundaryNames {
		if id >= bid {
			bid = id + 1
		}
	}
	for id := range o.Sidesets {
		if id >= bid {
			bid = id + 1
		}
	}
	for id := range o.Nodesets {
		if id >= bid {
			bid = id + 1
		}
	}
	o.BoundaryNames[bid] = key
	return
}

// SortedSides returns the sides of a sideset in (cell, side) order
func (o *Mesh) SortedSides(bid int) (keys []SideKey) {
	for key := range o.Sidesets[bid] {
		keys = append(keys, key)
	}
	SortSides(keys)
	return
}

// SortedNodes returns the vertices of a nodeset in increasing order
func (o *Mesh) SortedNodes(bid int) (vids []int) {
	for vid := range o.Nodesets[bid] {
		vids = append(vids, vid)
	}
	sort.Ints(vids)
	return
}

// SortSides sorts side keys by cell and then by side
func SortSides(keys []SideKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Cell == keys[j].Cell {
			return keys[i].Side < keys[j].Side
		}
		return keys[i].Cell < keys[j].Cell
	})
}

// partitions //////////////////////////////////////////////////////////////////////////////////////

// Partition assigns active cells to nparts contiguous partitions (in cell order)
func (o *Mesh) Partition(nparts int) {
	if nparts < 1 {
		nparts = 1
	}
	o.Nparts = nparts
	cids := o.ActiveCells()
	for i, cid := range cids {
		o.Cells[cid].Part = i * nparts / len(cids)
	}
}

// OwnedCells returns the active cells owned by a processor
func (o *Mesh) OwnedCells(proc int) (cids []int) {
	for _, c := range o.Cells {
		if c.Active() && c.Part == proc {
			cids = append(cids, c.Id)
		}
	}
	return
}

// GhostCells returns the active cells not owned by proc but sharing a vertex with one of its cells
func (o *Mesh) GhostCells(proc int) (cids []int) {
	set := make(map[int]bool)
	for _, c := range o.Cells {
		if !c.Active() || c.Part != proc {
			continue
		}
		for _, v := range c.Verts {
			for _, nid := range o.Vert2cells[v] {
				if o.Cells[nid].Part != proc {
					set[nid] = true
				}
			}
		}
	}
	for cid := range set {
		cids = append(cids, cid)
	}
	sort.Ints(cids)
	return
}

// GhostingRanks returns the processors (other than the owner) for which a cell is a ghost
func (o *Mesh) GhostingRanks(cid int) (ranks []int) {
	c := o.Cells[cid]
	set := make(map[int]bool)
	for _, v := range c.Verts {
		for _, nid := range o.Vert2cells[v] {
			if p := o.Cells[nid].Part; p != c.Part {
				set[p] = true
			}
		}
	}
	for p := range set {
		ranks = append(ranks, p)
	}
	sort.Ints(ranks)
	return
}

// NeighbourRanks returns the processors sharing at least one vertex with proc
func (o *Mesh) NeighbourRanks(proc int) (ranks []int) {
	set := make(map[int]bool)
	for _, cid := range o.GhostCells(proc) {
		set[o.Cells[cid].Part] = true
	}
	for p := range set {
		ranks = append(ranks, p)
	}
	sort.Ints(ranks)
	return
}

// refinement //////////////////////////////////////////////////////////////////////////////////////

// Refine splits an active lin2 cell into two children. The sides of the parent
// in sidesets are transferred to the children. Faces must be rebuilt afterwards
// and objects caching mesh ranges must be notified
func (o *Mesh) Refine(cid int) (children []int, err error) {
	c := o.Cells[cid]
	if !c.Active() {
		return nil, chk.Err("cannot refine cell %d because it is not active", cid)
	}
	if c.Type != "lin2" {
		return nil, chk.Err("refinement of cells of type %q is not available", c.Type)
	}

	// new vertex
	a, b := c.Verts[0], c.Verts[1]
	mid := &Vert{Id: len(o.Verts), C: []float64{0.5 * (o.Verts[a].C[0] + o.Verts[b].C[0])}}
	o.Verts = append(o.Verts, mid)

	// children
	for i, verts := range [][]int{{a, mid.Id}, {mid.Id, b}} {
		child := &Cell{
			Id:        len(o.Cells),
			Subdomain: c.Subdomain,
			Type:      c.Type,
			Verts:     verts,
			Part:      c.Part,
			Parent:    c.Id,
			Level:     c.Level + 1,
		}
		o.Cells = append(o.Cells, child)
		c.Children = append(c.Children, child.Id)
		children = append(children, child.Id)

		// transfer sides
		for bid, set := range o.Sidesets {
			if set[SideKey{cid, i}] {
				delete(set, SideKey{cid, i})
				o.AddSide(bid, SideKey{child.Id, i})
			}
		}
	}
	err = o.Init()
	return
}
