// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"sort"

	"github.com/cpmech/hdgfem/inp"
)

// delta holds the changes of the moving boundary made by one processor
type delta struct {
	addedSides   []inp.SideKey
	removedSides []inp.SideKey
	addedNodes   []int
	removedNodes []int
}

// updateBoundary recomputes the sides of the moving boundary belonging to local
// cells. A side is on the moving boundary if its cell is in an active subdomain
// and the neighbour cell is not. Nodes are recomputed from all sides
func (o *Modifier) updateBoundary() (d delta) {
	if o.Bid < 0 {
		return
	}
	msh := o.dom.Msh()

	// sides that must be in the moving boundary
	local := make(map[int]bool)
	want := make(map[inp.SideKey]bool)
	for _, cid := range o.dom.LocalCells() {
		local[cid] = true
		c := msh.Cells[cid]
		if !o.Active[c.Subdomain] {
			continue
		}
		for side := 0; side < c.Shp.Nfaces(); side++ {
			nid, _ := msh.Neighbour(cid, side)
			if nid < 0 || o.Active[msh.Cells[nid].Subdomain] {
				continue
			}
			want[inp.SideKey{Cell: cid, Side: side}] = true
		}
	}

	// remove sides
	for _, key := range msh.SortedSides(o.Bid) {
		if want[key] {
			continue
		}
		if local[key.Cell] || !msh.Cells[key.Cell].Active() {
			msh.RemoveSide(o.Bid, key)
			d.removedSides = append(d.removedSides, key)
		}
	}

	// add sides
	keys := make([]inp.SideKey, 0, len(want))
	for key := range want {
		keys = append(keys, key)
	}
	inp.SortSides(keys)
	for _, key := range keys {
		if !msh.HasSide(o.Bid, key) {
			msh.AddSide(o.Bid, key)
			d.addedSides = append(d.addedSides, key)
		}
	}

	// nodes
	d.addedNodes, d.removedNodes = o.updateNodes()
	return
}

// updateNodes sets the nodeset of the moving boundary to the vertices of its sides
func (o *Modifier) updateNodes() (added, removed []int) {
	msh := o.dom.Msh()
	want := make(map[int]bool)
	for key := range msh.Sidesets[o.Bid] {
		for _, vid := range msh.SideVerts(key) {
			want[vid] = true
		}
	}
	for _, vid := range msh.SortedNodes(o.Bid) {
		if !want[vid] {
			msh.RemoveNode(o.Bid, vid)
			removed = append(removed, vid)
		}
	}
	vids := make([]int, 0, len(want))
	for vid := range want {
		vids = append(vids, vid)
	}
	sort.Ints(vids)
	for _, vid := range vids {
		if !msh.Nodesets[o.Bid][vid] {
			msh.AddNode(o.Bid, vid)
			added = append(added, vid)
		}
	}
	return
}
