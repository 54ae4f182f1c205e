// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

// counter records the cells it visits
type counter struct {
	cids      []int
	clones    *int32
	finalized []int
	changed   int
}

func (o *counter) Name() string { return "counter" }
func (o *counter) Initialize() { o.cids = nil }
func (o *counter) Execute(cell *inp.Cell) error { o.cids = append(o.cids, cell.Id); return nil }
func (o *counter) ThreadJoin(other UserObject) { o.cids = append(o.cids, other.(*counter).cids...) }
func (o *counter) MeshChanged() { o.changed++ }
func (o *counter) Finalize() error { o.finalized = append([]int{}, o.cids...); return nil }
func (o *counter) Clone() UserObject {
	atomic.AddInt32(o.clones, 1)
	return &counter{clones: o.clones}
}

func init() {
	SetUserObjAllocator("counter", func(dom *Domain, dat *inp.UserObjData) (UserObject, error) {
		return &counter{clones: new(int32)}, nil
	})
}

func Test_userobj01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("userobj01. threaded execution")

	dom := newTestDomain(tst, "data/diffu1d.sim")
	require.NoError(tst, dom.Refine([]int{0, 1}))
	uo, err := NewUserObject(dom, &inp.UserObjData{Name: "c", Type: "counter"})
	require.NoError(tst, err)
	dom.UserObjs = append(dom.UserObjs, uo)

	for _, nthreads := range []int{1, 3} {
		require.NoError(tst, dom.RunUserObject(uo, nthreads))
		c := uo.(*counter)
		sort.Ints(c.finalized)
		chk.Ints(tst, "cells", c.finalized, []int{2, 3, 4, 5})
	}
	chk.Int(tst, "clones", int(*uo.(*counter).clones), 2)

	// refinement notifies user objects
	require.NoError(tst, dom.Refine([]int{2}))
	chk.Int(tst, "changed", uo.(*counter).changed, 1)
	require.NoError(tst, dom.RunUserObjects())
	chk.Int(tst, "ncells", len(uo.(*counter).finalized), 5)
}

func Test_userobj02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("userobj02. registry errors")

	require.Panics(tst, func() {
		SetUserObjAllocator("counter", func(dom *Domain, dat *inp.UserObjData) (UserObject, error) { return nil, nil })
	})
	dom := newTestDomain(tst, "data/diffu1d.sim")
	_, err := NewUserObject(dom, &inp.UserObjData{Name: "x", Type: "unknown"})
	require.Error(tst, err)
}
