// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of results saved by fem
package out

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// constants
var (
	TolC = 1e-8 // tolerance to compare x-y-z coordinates
	TolT = 1e-3 // tolerance to compare times
)

// Reader loads the results of one processor
type Reader struct {

	// data set by Start
	Sim  *inp.Simulation // simulation data
	Sum  *fem.Summary    // summary
	Proc int             // processor number

	// results loaded by LoadResults
	TimeInds []int          // selected output indices
	Times    []float64      // selected output times
	Res      []*fem.Results // [len(Times)] results

	// internal
	tree *kdtree.Tree         // vertices
	vids map[[3]float64][]int // vertices at coordinates
}

// Start reads the summary of a simulation
func Start(sim *inp.Simulation, proc int) (o *Reader, err error) {
	o = &Reader{Sim: sim, Sum: new(fem.Summary), Proc: proc}
	err = o.Sum.Read(sim.DirOut, sim.Key, sim.EncType)
	if err != nil {
		return nil, err
	}
	msh := sim.Msh
	var pts kdtree.Points
	o.vids = make(map[[3]float64][]int)
	for _, v := range msh.Verts {
		k := pointKey(v.C)
		if o.vids[k] == nil {
			p := make(kdtree.Point, msh.Ndim)
			copy(p, v.C)
			pts = append(pts, p)
		}
		o.vids[k] = append(o.vids[k], v.Id)
	}
	o.tree = kdtree.New(pts, false)
	return
}

// LoadResults loads results at selected times; nil => all output times
func (o *Reader) LoadResults(times []float64) (err error) {
	o.TimeInds, o.Times, o.Res = nil, nil, nil
	for tidx, t := range o.Sum.OutTimes {
		if times != nil && !selected(times, t) {
			continue
		}
		res, err := fem.ReadResults(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.Proc, tidx)
		if err != nil {
			return err
		}
		o.TimeInds = append(o.TimeInds, tidx)
		o.Times = append(o.Times, t)
		o.Res = append(o.Res, res)
	}
	if len(o.Res) == 0 {
		return chk.Err("cannot find results at times %v", times)
	}
	return
}

// Verts returns the vertices nearest to x; vertices of split cells share coordinates
func (o *Reader) Verts(x []float64) (vids []int, dist float64) {
	q := make(kdtree.Point, o.Sim.Msh.Ndim)
	copy(q, x)
	c, d := o.tree.Nearest(q)
	return o.vids[pointKey(c.(kdtree.Point))], math.Sqrt(d)
}

// GetRes returns the values of a variable at the vertex nearest to x for each
// loaded time. Values of all dofs at the vertex are averaged. NaN is returned
// where the variable has no dofs
func (o *Reader) GetRes(vname string, x []float64) (vals []float64, err error) {
	vids, dist := o.Verts(x)
	if dist > TolC {
		return nil, chk.Err("cannot find vertex at %v; nearest is %g away", x, dist)
	}
	at := make(map[int]bool)
	for _, vid := range vids {
		at[vid] = true
	}
	vals = make([]float64, len(o.Res))
	for i, res := range o.Res {
		var sum float64
		var n int
		for I, key := range res.Keys {
			if key.Var == vname && at[key.Vert] {
				sum += res.Y[I]
				n++
			}
		}
		vals[i] = math.NaN()
		if n > 0 {
			vals[i] = sum / float64(n)
		}
	}
	return
}

// GetSubdomains returns the subdomain of a cell for each loaded time; -1 => inactive
func (o *Reader) GetSubdomains(cid int) (ids []int) {
	ids = make([]int, len(o.Res))
	for i, res := range o.Res {
		ids[i] = -1
		if cid < len(res.Subdomains) {
			ids[i] = res.Subdomains[cid]
		}
	}
	return
}

// selected tells whether t is in times
func selected(times []float64, t float64) bool {
	for _, s := range times {
		if math.Abs(s-t) < TolT {
			return true
		}
	}
	return false
}

// pointKey returns a comparable key of a point
func pointKey(x []float64) (k [3]float64) {
	copy(k[:], x)
	return
}
