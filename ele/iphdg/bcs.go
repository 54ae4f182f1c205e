// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// BC holds data shared by all IP-HDG boundary conditions
type BC struct {
	driver
	bids []int // sideset ids
}

// Boundaries returns the sideset ids
func (o *BC) Boundaries() []int { return o.bids }

// DirichletBC weakly imposes u = g
type DirichletBC struct {
	BC
	G dbf.T // prescribed value
}

// NewDirichletBC returns a new Dirichlet boundary condition
func NewDirichletBC(name string, h *Helper, bids []int, g dbf.T) (o *DirichletBC) {
	o = &DirichletBC{G: g}
	o.name, o.h, o.bids = name, h, bids
	o.compute = func(v ele.Visit) {
		h.ScalarDirichlet(o.G)
		h.LmDirichlet(o.G)
	}
	return
}

// PrescribedFluxBC imposes the outward normal flux F̂·n = g
type PrescribedFluxBC struct {
	BC
	G dbf.T // prescribed flux
}

// NewPrescribedFluxBC returns a new prescribed flux boundary condition
func NewPrescribedFluxBC(name string, h *Helper, bids []int, g dbf.T) (o *PrescribedFluxBC) {
	o = &PrescribedFluxBC{G: g}
	o.name, o.h, o.bids = name, h, bids
	o.compute = func(v ele.Visit) {
		h.ScalarFace()
		h.LmFace()
		h.LmPrescribedFlux(o.G)
	}
	return
}

// OutflowBC lets the advected quantity leave the domain (û = u) and blocks inflow (û = 0)
type OutflowBC struct {
	BC
}

// NewOutflowBC returns a new outflow boundary condition
func NewOutflowBC(name string, h *Helper, bids []int) (o *OutflowBC) {
	o = new(OutflowBC)
	o.name, o.h, o.bids = name, h, bids
	o.compute = func(v ele.Visit) {
		h.ScalarFace()
		h.LmOutflow()
	}
	return
}

// bcBoundaries resolves the sideset ids of a boundary condition
func bcBoundaries(msh *inp.Mesh, bdat *inp.BcData) (bids []int, err error) {
	if len(bdat.Boundary) == 0 {
		return nil, chk.Err("boundary condition %q requires at least one boundary", bdat.Name)
	}
	for _, key := range bdat.Boundary {
		bid, err := msh.ResolveBoundary(key)
		if err != nil {
			return nil, chk.Err("boundary condition %q:\n%v", bdat.Name, err)
		}
		bids = append(bids, bid)
	}
	return
}
