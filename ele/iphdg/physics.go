// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
	"github.com/cpmech/hdgfem/mdl/diffusion"
)

// Physics holds the physics-specific terms plugged into the generic helper
//
//   ρ ∂u/∂t + div(v u) − div(D ∇u) + ∂p/∂x_c = f      with      D = k(u) kcte
//
type Physics struct {
	Diffusivity diffusion.Model // diffusion model; nil => no diffusion
	Velocity    []dbf.T         // advecting velocity components; nil => no advection
	Pressure    string          // pressure variable; "" => no pressure coupling
	Component   int             // velocity component c tested by this equation (stress)
	Stress      bool            // viscous stress variant (radial corrections in rz)
	Source      dbf.T           // source term f; may be nil
	Rho         float64         // capacity coefficient of transient term
	Tau         float64         // fixed penalty; 0 => computed from Alpha
	Alpha       float64         // penalty multiplier: τ = α kref (n·kcte·n) / h
}

// DefaultAlpha is the default penalty multiplier
const DefaultAlpha = 10.0

// NewDiffusion returns a helper for the diffusion equation
func NewDiffusion(ctx ele.Context, kdat *inp.KernelData) (o *Helper, err error) {
	var phys Physics
	err = phys.setDiffusion(ctx, kdat)
	if err != nil {
		return
	}
	return newHelper(ctx, kdat, phys)
}

// NewAdvection returns a helper for the advection(-diffusion) equation
//  Note: diffusion is included if a material is given
func NewAdvection(ctx ele.Context, kdat *inp.KernelData) (o *Helper, err error) {
	var phys Physics
	if kdat.Mat != "" {
		err = phys.setDiffusion(ctx, kdat)
		if err != nil {
			return
		}
	} else {
		err = phys.setCommon(ctx, kdat)
		if err != nil {
			return
		}
	}
	ndim := ctx.Msh().Ndim
	if len(kdat.Velocity) != ndim {
		return nil, chk.Err("number of velocity components (%d) must be equal to ndim (%d)", len(kdat.Velocity), ndim)
	}
	phys.Velocity, err = ctx.Sim().Functions.GetMany(kdat.Velocity)
	if err != nil {
		return
	}
	return newHelper(ctx, kdat, phys)
}

// NewStress returns a helper for one component of the viscous stress (Stokes) equation
func NewStress(ctx ele.Context, kdat *inp.KernelData) (o *Helper, err error) {
	var phys Physics
	err = phys.setDiffusion(ctx, kdat)
	if err != nil {
		return
	}
	ndim := ctx.Msh().Ndim
	if kdat.Component < 0 || kdat.Component >= ndim {
		return nil, chk.Err("component %d is invalid with ndim=%d", kdat.Component, ndim)
	}
	p := ctx.Var(kdat.Pressure)
	if p == nil {
		return nil, chk.Err("cannot find pressure variable %q", kdat.Pressure)
	}
	if p.Kind != ele.Elemental {
		return nil, chk.Err("pressure variable %q must be elemental", p.Name)
	}
	phys.Pressure = p.Name
	phys.Component = kdat.Component
	phys.Stress = true
	return newHelper(ctx, kdat, phys)
}

// setCommon sets source and penalty parameters
func (o *Physics) setCommon(ctx ele.Context, kdat *inp.KernelData) (err error) {
	o.Tau = kdat.Tau
	o.Alpha = kdat.Alpha
	if o.Tau < 0 || o.Alpha < 0 {
		return chk.Err("penalty parameters must be non-negative. tau=%g alpha=%g are invalid", o.Tau, o.Alpha)
	}
	if o.Tau == 0 && o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if kdat.Source != "" {
		o.Source, err = ctx.Sim().Functions.Get(kdat.Source)
	}
	return
}

// setDiffusion sets the diffusion model and common parameters
func (o *Physics) setDiffusion(ctx ele.Context, kdat *inp.KernelData) (err error) {
	err = o.setCommon(ctx, kdat)
	if err != nil {
		return
	}
	mat := ctx.Sim().Materials.Get(kdat.Mat)
	if mat == nil {
		return chk.Err("cannot find material %q", kdat.Mat)
	}
	o.Diffusivity = mat.Diff
	if !ctx.Sim().Data.Steady {
		o.Rho = mat.Diff.Density()
	}
	return
}

// props returns the names of properties read by these physics
func (o *Physics) props() (names []string) {
	if o.Diffusivity != nil {
		if o.Stress {
			names = append(names, diffusion.PropViscosity)
		} else {
			names = append(names, diffusion.PropDiffusivity)
		}
	}
	if o.Rho > 0 {
		names = append(names, diffusion.PropDensity)
	}
	if o.Velocity != nil {
		names = append(names, diffusion.PropVelocity)
	}
	if o.Source != nil {
		names = append(names, diffusion.PropSource)
	}
	sort.Strings(names)
	return
}
