// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
)

// Kernel assembles element interiors and the element sides not covered by
// boundary conditions. Uncovered sides on the domain boundary get zero flux
type Kernel struct {
	driver
	blocks map[int]bool
}

// NewKernel returns a new kernel owning the helper h
func NewKernel(name string, h *Helper, blocks map[int]bool) (o *Kernel) {
	o = &Kernel{blocks: blocks}
	o.name = name
	o.h = h
	o.compute = func(v ele.Visit) {
		if !v.OnSide() {
			h.ScalarVolume()
			return
		}
		h.ScalarFace()
		h.LmFace()
	}
	return
}

// Blocks returns the subdomains of this kernel; nil => all
func (o *Kernel) Blocks() map[int]bool { return o.blocks }

// OnSides returns true
func (o *Kernel) OnSides() bool { return true }

// kernelBlocks resolves the subdomains of a kernel; defaults to those of its variable
func kernelBlocks(ctx ele.Context, kdat *inp.KernelData) (blocks map[int]bool, err error) {
	if len(kdat.Block) == 0 {
		if v := ctx.Var(kdat.Var); v != nil && v.Blocks != nil {
			blocks = make(map[int]bool)
			for id := range v.Blocks {
				blocks[id] = true
			}
		}
		return
	}
	blocks = make(map[int]bool)
	for _, key := range kdat.Block {
		id, err := ctx.Msh().ResolveSubdomain(key)
		if err != nil {
			return nil, chk.Err("kernel %q:\n%v", kdat.Name, err)
		}
		blocks[id] = true
	}
	return
}
