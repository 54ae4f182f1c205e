// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// driver owns a helper, sequences its calls for each visit and pushes the
// tagging data to the global system. The Jacobian of the last visited
// (cell, side) pair is cached until JacobianSetup is called
type driver struct {
	name    string            // name of object
	h       *Helper           // assembly helper
	compute func(v ele.Visit) // sequence of helper calls
	cached  bool              // false => unvisited
	last    inp.SideKey       // last visited (cell, side)
	data    *TaggingData      // cached data of last visit
	Ncomp   int               // number of computations (statistics)
}

// Name returns the name of object
func (o *driver) Name() string { return o.name }

// Var returns the primary variable
func (o *driver) Var() string { return o.h.U }

// Coupled returns all trial variables
func (o *driver) Coupled() []string { return o.h.Coupled() }

// Helper returns the assembly helper
func (o *driver) Helper() *Helper { return o.h }

// JacobianSetup resets the cached visit
func (o *driver) JacobianSetup() {
	o.cached = false
	o.data = nil
}

// ComputeResidual computes and adds residuals
func (o *driver) ComputeResidual(v ele.Visit, sink ele.Sink) (err error) {
	data := o.run(v)
	return o.addResiduals(v, data, sink)
}

// ComputeJacobian computes and adds Jacobian blocks of all coupled variables
func (o *driver) ComputeJacobian(v ele.Visit, sink ele.Sink) (err error) {
	for _, jvar := range o.Coupled() {
		err = o.ComputeOffDiagJacobian(v, jvar, sink)
		if err != nil {
			return
		}
	}
	return
}

// ComputeOffDiagJacobian adds the Jacobian blocks with trial variable jvar.
// The local Jacobian is recomputed only if (cell, side) differs from the cached one
func (o *driver) ComputeOffDiagJacobian(v ele.Visit, jvar string, sink ele.Sink) (err error) {
	if !o.cached || o.last != v.Key() {
		o.data = o.run(v)
		o.cached = true
		o.last = v.Key()
	}
	return o.addJacobian(v, o.data, jvar, sink)
}

// ComputeResidualAndJacobian computes once and adds residuals and all Jacobian blocks
func (o *driver) ComputeResidualAndJacobian(v ele.Visit, sink ele.Sink) (err error) {
	o.data = o.run(v)
	o.cached = true
	o.last = v.Key()
	err = o.addResiduals(v, o.data, sink)
	if err != nil {
		return
	}
	for _, jvar := range o.Coupled() {
		err = o.addJacobian(v, o.data, jvar, sink)
		if err != nil {
			return
		}
	}
	return
}

// ComputeQpResidual is not available: contributions are accumulated by the helper term by term
func (o *driver) ComputeQpResidual() float64 {
	chk.Panic("%s: ComputeQpResidual must not be called for IP-HDG objects", o.name)
	return 0
}

// run computes the tagging data of a visit
func (o *driver) run(v ele.Visit) *TaggingData {
	o.h.ResizeResiduals(v)
	o.compute(v)
	o.Ncomp++
	return o.h.TaggingData()
}

// addResiduals pushes residuals to the global system
func (o *driver) addResiduals(v ele.Visit, data *TaggingData, sink ele.Sink) (err error) {
	ctx := o.h.ctx
	if data.Ru != nil {
		sink.AddToRhs(ctx.CellDofs(data.U, v.Cell.Id), data.Ru.RawVector().Data)
	}
	if data.Rl != nil {
		sink.AddToRhs(ctx.SideDofs(data.Lm, v.Cell.Id, v.Side), data.Rl.RawVector().Data)
	}
	return
}

// addJacobian pushes the blocks with trial variable jvar to the global system
func (o *driver) addJacobian(v ele.Visit, data *TaggingData, jvar string, sink ele.Sink) (err error) {
	for _, key := range data.Keys {
		if key.Trial != jvar {
			continue
		}
		rows := o.dofs(v, key.Test, key.Kind.TestOnTrace())
		cols := o.dofs(v, key.Trial, key.Kind.TrialOnTrace())
		if rows == nil || cols == nil {
			return chk.Err("%s: cannot find dofs of block %v(%s,%s) on cell %d side %d", o.name, key.Kind, key.Test, key.Trial, v.Cell.Id, v.Side)
		}
		sink.AddToKb(rows, cols, data.Jac[key])
	}
	return
}

// dofs returns the dofs of a variable at a visit
func (o *driver) dofs(v ele.Visit, vname string, trace bool) []int {
	if trace {
		return o.h.ctx.SideDofs(vname, v.Cell.Id, v.Side)
	}
	return o.h.ctx.CellDofs(vname, v.Cell.Id)
}
