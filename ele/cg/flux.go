// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cg

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// Flux implements a prescribed inward flux qb on sides of a nodal variable
type Flux struct {
	name string      // name of boundary condition
	u    string      // nodal variable
	ctx  ele.Context // provider of dofs and solution
	bids []int       // sideset ids
	Fcn  dbf.T       // flux function
}

// register boundary condition
func init() {
	ele.SetBcAllocator("cg-flux", func(ctx ele.Context, bdat *inp.BcData, kdat *inp.KernelData) (ele.BoundaryCondition, error) {
		o := &Flux{name: bdat.Name, u: bdat.Var, ctx: ctx}
		if kdat != nil {
			o.u = kdat.Var
		}
		if v := ctx.Var(o.u); v == nil || v.Kind != ele.Nodal {
			return nil, chk.Err("flux condition %q requires a nodal variable; %q is invalid", bdat.Name, o.u)
		}
		if len(bdat.Boundary) == 0 {
			return nil, chk.Err("flux condition %q requires at least one boundary", bdat.Name)
		}
		for _, key := range bdat.Boundary {
			bid, err := ctx.Msh().ResolveBoundary(key)
			if err != nil {
				return nil, err
			}
			o.bids = append(o.bids, bid)
		}
		var err error
		o.Fcn, err = ctx.Sim().Functions.Get(bdat.Func)
		if err != nil {
			return nil, err
		}
		return o, nil
	})
}

// Name returns the name of boundary condition
func (o *Flux) Name() string { return o.name }

// Var returns the variable
func (o *Flux) Var() string { return o.u }

// Coupled returns the trial variables
func (o *Flux) Coupled() []string { return []string{o.u} }

// Boundaries returns the sideset ids
func (o *Flux) Boundaries() []int { return o.bids }

// JacobianSetup does nothing
func (o *Flux) JacobianSetup() {}

// ComputeResidual adds the surface integral of qb to fb
func (o *Flux) ComputeResidual(v ele.Visit, sink ele.Sink) (err error) {
	shape := v.Cell.Shp
	_, ipsf, err := shape.GetIps(0, 0)
	if err != nil {
		return
	}
	umap := o.ctx.CellDofs(o.u, v.Cell.Id)
	t := o.ctx.Sol().T
	R := make([]float64, shape.Nverts)
	xf := make([]float64, len(v.X))
	for _, ipf := range ipsf {
		err = shape.CalcAtFaceIp(v.X, ipf, v.Side)
		if err != nil {
			return
		}
		var jf float64
		for _, c := range shape.Fnvec {
			jf += c * c
		}
		coef := ipf[3] * math.Sqrt(jf)
		for i := range xf {
			xf[i] = 0
			for m := 0; m < shape.Nverts; m++ {
				xf[i] += shape.S[m] * v.X[i][m]
			}
		}
		qb := o.Fcn.F(t, xf)
		for i, m := range shape.FaceLocalVerts[v.Side] {
			R[m] -= coef * qb * shape.Sf[i]
		}
	}
	sink.AddToRhs(umap, R)
	return
}

// ComputeJacobian does nothing since qb does not depend on u
func (o *Flux) ComputeJacobian(v ele.Visit, sink ele.Sink) error { return nil }

// ComputeOffDiagJacobian does nothing
func (o *Flux) ComputeOffDiagJacobian(v ele.Visit, jvar string, sink ele.Sink) error { return nil }

// ComputeResidualAndJacobian adds the residual only
func (o *Flux) ComputeResidualAndJacobian(v ele.Visit, sink ele.Sink) error {
	return o.ComputeResidual(v, sink)
}
