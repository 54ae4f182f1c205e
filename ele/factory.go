// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/inp"
)

// KernelAllocator defines a function that allocates a kernel
type KernelAllocator func(ctx Context, kdat *inp.KernelData) (Kernel, error)

// BcAllocator defines a function that allocates a boundary condition
//  kdat -- data of the kernel named in bdat; may be nil
type BcAllocator func(ctx Context, bdat *inp.BcData, kdat *inp.KernelData) (BoundaryCondition, error)

// NewKernel returns a new kernel from factory
func NewKernel(ctx Context, kdat *inp.KernelData) (k Kernel, err error) {
	fcn, ok := kernelAllocators[kdat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for kernel {name=%q type=%q}", kdat.Name, kdat.Type)
	}
	k, err = fcn(ctx, kdat)
	if err != nil {
		return nil, chk.Err("cannot allocate kernel {name=%q type=%q}:\n%v", kdat.Name, kdat.Type, err)
	}
	return
}

// NewBc returns a new boundary condition from factory
func NewBc(ctx Context, bdat *inp.BcData) (bc BoundaryCondition, err error) {
	fcn, ok := bcAllocators[bdat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for boundary condition {name=%q type=%q}", bdat.Name, bdat.Type)
	}
	var kdat *inp.KernelData
	if bdat.Kernel != "" {
		kdat = ctx.Sim().GetKernel(bdat.Kernel)
		if kdat == nil {
			return nil, chk.Err("cannot find kernel %q required by boundary condition %q", bdat.Kernel, bdat.Name)
		}
	}
	bc, err = fcn(ctx, bdat, kdat)
	if err != nil {
		return nil, chk.Err("cannot allocate boundary condition {name=%q type=%q}:\n%v", bdat.Name, bdat.Type, err)
	}
	return
}

// SetKernelAllocator sets a new callback function to allocate a kernel
func SetKernelAllocator(typeName string, fcn KernelAllocator) {
	if _, ok := kernelAllocators[typeName]; ok {
		chk.Panic("cannot set allocator function for kernel %q because name exists already", typeName)
	}
	kernelAllocators[typeName] = fcn
}

// SetBcAllocator sets a new callback function to allocate a boundary condition
func SetBcAllocator(typeName string, fcn BcAllocator) {
	if _, ok := bcAllocators[typeName]; ok {
		chk.Panic("cannot set allocator function for boundary condition %q because name exists already", typeName)
	}
	bcAllocators[typeName] = fcn
}

// kernelAllocators holds all kernel allocators
var kernelAllocators = make(map[string]KernelAllocator)

// bcAllocators holds all boundary condition allocators
var bcAllocators = make(map[string]BcAllocator)
