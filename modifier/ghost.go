// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/comm"
	"github.com/cpmech/hdgfem/inp"
)

// TagBase is the first tag of messages exchanged by modifiers
var TagBase = 1000

// rounds returns the two communication rounds of the Finalize with a given
// epoch. The rounds of all modifiers are interleaved, so that tags are unique
// even when several modifiers are finalised in the same step
func (o *Modifier) rounds(epoch int) (subs, bry comm.Round) {
	seq := epoch*o.nslots + o.slot
	return comm.NewRound("subdomains", TagBase, seq, 0), comm.NewRound("boundary", TagBase, seq, 1)
}

// Message holds the data exchanged with another processor during one Finalize.
// The first round carries Changes and the second round carries the moving boundary
type Message struct {
	Changes      []Change      // new subdomains of cells owned by the sender
	AddedSides   []inp.SideKey // sides added to the moving boundary
	RemovedSides []inp.SideKey // sides removed from the moving boundary
	AddedNodes   []int         // vertices added to the moving boundary
	RemovedNodes []int         // vertices removed from the moving boundary
}

// exchangeSubdomains sends the changes of local cells to all other processors,
// since each of them holds a replica of the mesh, and applies the received changes
func (o *Modifier) exchangeSubdomains(round comm.Round) (err error) {
	tr := o.dom.Comm
	if tr == nil {
		return
	}
	msh := o.dom.Msh()
	var ranks []int
	for r := 0; r < tr.Size(); r++ {
		if r != o.dom.Proc {
			ranks = append(ranks, r)
		}
	}

	// send
	out := make(map[int][]byte)
	for _, dest := range ranks {
		msg := ledger(o.Sent, dest)
		msg.Changes = append(msg.Changes, o.Queue...)
		out[dest], err = comm.Encode(&Message{Changes: msg.Changes})
		if err != nil {
			return
		}
	}
	in, err := comm.Exchange(tr, round, ranks, out)
	if err != nil {
		return
	}

	// receive
	for _, src := range ranks {
		var m Message
		err = comm.Decode(in[src], &m)
		if err != nil {
			return
		}
		ledger(o.Received, src).Changes = m.Changes
		for _, ch := range m.Changes {
			if msh.Cells[ch.Cell].Part == o.dom.Proc {
				return chk.Err("modifier %q: processor %d cannot change cell %d owned by processor %d", o.name, src, ch.Cell, o.dom.Proc)
			}
			o.apply(ch)
		}
	}
	return
}

// exchangeBoundary sends the changes of the moving boundary touching the
// vertices of cells ghosted by other processors and applies the received changes
func (o *Modifier) exchangeBoundary(round comm.Round, d delta) (err error) {
	tr := o.dom.Comm
	if tr == nil || o.Bid < 0 {
		return
	}
	msh := o.dom.Msh()
	neighbours := msh.NeighbourRanks(o.dom.Proc)

	// send
	out := make(map[int][]byte)
	for _, dest := range neighbours {
		msg := ledger(o.Sent, dest)
		verts := o.ghostedVerts(dest)
		touches := func(key inp.SideKey) bool {
			for _, vid := range msh.SideVerts(key) {
				if verts[vid] {
					return true
				}
			}
			return false
		}
		for _, key := range d.addedSides {
			if touches(key) {
				msg.AddedSides = append(msg.AddedSides, key)
			}
		}
		for _, key := range d.removedSides {
			if touches(key) {
				msg.RemovedSides = append(msg.RemovedSides, key)
			}
		}
		for _, vid := range d.addedNodes {
			if verts[vid] {
				msg.AddedNodes = append(msg.AddedNodes, vid)
			}
		}
		for _, vid := range d.removedNodes {
			if verts[vid] {
				msg.RemovedNodes = append(msg.RemovedNodes, vid)
			}
		}
		out[dest], err = comm.Encode(&Message{
			AddedSides:   msg.AddedSides,
			RemovedSides: msg.RemovedSides,
			AddedNodes:   msg.AddedNodes,
			RemovedNodes: msg.RemovedNodes,
		})
		if err != nil {
			return
		}
	}
	in, err := comm.Exchange(tr, round, neighbours, out)
	if err != nil {
		return
	}

	// receive
	for _, src := range neighbours {
		var m Message
		err = comm.Decode(in[src], &m)
		if err != nil {
			return
		}
		rec := ledger(o.Received, src)
		rec.AddedSides, rec.RemovedSides = m.AddedSides, m.RemovedSides
		rec.AddedNodes, rec.RemovedNodes = m.AddedNodes, m.RemovedNodes
		for _, key := range m.RemovedSides {
			msh.RemoveSide(o.Bid, key)
		}
		for _, key := range m.AddedSides {
			msh.AddSide(o.Bid, key)
		}
	}
	o.updateNodes()
	return
}

// ghostedVerts returns the vertices of local cells ghosted by a processor
func (o *Modifier) ghostedVerts(dest int) (verts map[int]bool) {
	msh := o.dom.Msh()
	verts = make(map[int]bool)
	for _, cid := range o.dom.LocalCells() {
		if ghosted(msh, cid, dest) {
			for _, vid := range msh.Cells[cid].Verts {
				verts[vid] = true
			}
		}
	}
	return
}

// ghosted tells whether a cell is a ghost cell of processor dest
func ghosted(msh *inp.Mesh, cid, dest int) bool {
	for _, p := range msh.GhostingRanks(cid) {
		if p == dest {
			return true
		}
	}
	return false
}

// ledger returns the message of a processor, allocating it if needed
func ledger(book map[int]*Message, rank int) *Message {
	if book[rank] == nil {
		book[rank] = new(Message)
	}
	return book[rank]
}
