// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// helperAllocators maps kernel types to helper constructors
var helperAllocators = map[string]func(ctx ele.Context, kdat *inp.KernelData) (*Helper, error){
	"iphdg-diffusion": NewDiffusion,
	"iphdg-advection": NewAdvection,
	"iphdg-stress":    NewStress,
}

// NewHelper returns the helper corresponding to the type of a kernel
func NewHelper(ctx ele.Context, kdat *inp.KernelData) (*Helper, error) {
	fcn, ok := helperAllocators[kdat.Type]
	if !ok {
		return nil, chk.Err("kernel %q of type %q is not an IP-HDG kernel", kdat.Name, kdat.Type)
	}
	return fcn(ctx, kdat)
}

// register kernels and boundary conditions
func init() {

	// kernels
	for name := range helperAllocators {
		ele.SetKernelAllocator(name, func(ctx ele.Context, kdat *inp.KernelData) (ele.Kernel, error) {
			h, err := NewHelper(ctx, kdat)
			if err != nil {
				return nil, err
			}
			blocks, err := kernelBlocks(ctx, kdat)
			if err != nil {
				return nil, err
			}
			return NewKernel(kdat.Name, h, blocks), nil
		})
	}

	// Dirichlet
	ele.SetBcAllocator("iphdg-dirichlet", func(ctx ele.Context, bdat *inp.BcData, kdat *inp.KernelData) (ele.BoundaryCondition, error) {
		h, bids, err := bcSetup(ctx, bdat, kdat)
		if err != nil {
			return nil, err
		}
		g, err := ctx.Sim().Functions.Get(bdat.Func)
		if err != nil {
			return nil, err
		}
		return NewDirichletBC(bdat.Name, h, bids, g), nil
	})

	// flux
	ele.SetBcAllocator("iphdg-flux", func(ctx ele.Context, bdat *inp.BcData, kdat *inp.KernelData) (ele.BoundaryCondition, error) {
		h, bids, err := bcSetup(ctx, bdat, kdat)
		if err != nil {
			return nil, err
		}
		g, err := ctx.Sim().Functions.Get(bdat.Func)
		if err != nil {
			return nil, err
		}
		return NewPrescribedFluxBC(bdat.Name, h, bids, g), nil
	})

	// outflow
	ele.SetBcAllocator("iphdg-outflow", func(ctx ele.Context, bdat *inp.BcData, kdat *inp.KernelData) (ele.BoundaryCondition, error) {
		h, bids, err := bcSetup(ctx, bdat, kdat)
		if err != nil {
			return nil, err
		}
		if h.Phys.Velocity == nil {
			return nil, chk.Err("outflow condition %q requires an advection kernel", bdat.Name)
		}
		return NewOutflowBC(bdat.Name, h, bids), nil
	})
}

// bcSetup allocates the helper of a boundary condition from the data of its kernel
func bcSetup(ctx ele.Context, bdat *inp.BcData, kdat *inp.KernelData) (h *Helper, bids []int, err error) {
	if kdat == nil {
		return nil, nil, chk.Err("IP-HDG boundary condition %q requires a kernel", bdat.Name)
	}
	h, err = NewHelper(ctx, kdat)
	if err != nil {
		return
	}
	bids, err = bcBoundaries(ctx.Msh(), bdat)
	return
}
