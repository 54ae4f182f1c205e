// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cg implements continuous Galerkin kernels for nodal variables
package cg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
	"github.com/cpmech/hdgfem/mdl/diffusion"
	"github.com/cpmech/hdgfem/shp"
	"gonum.org/v1/gonum/mat"
)

// Diffusion implements a kernel for solving the diffusion equation expressed as
//
//     du                                      du
//   ρ ── + div w = s      with      w = -k(u) ──
//     dt                                      dx
//
type Diffusion struct {

	// basic data
	name   string          // name of kernel
	u      string          // nodal variable
	ctx    ele.Context     // provider of dofs and solution
	Ndim   int             // space dimension
	Mdl    diffusion.Model // model
	Rho    float64         // capacity coefficient
	Sfun   dbf.T           // s(x) function; may be nil
	blocks map[int]bool    // subdomains
	nip    int             // number of integration points; 0 => default

	// scratchpad
	Xip   []float64 // real coordinates of ip
	Uval  float64   // u(t,x) scalar field @ ip
	Uold  float64   // u(t_old,x) @ ip
	Gradu []float64 // [ndim] ∇u(t,x): gradient of u @ ip
	Wvec  []float64 // [ndim] w(t,x) vector @ ip
	Tmp   []float64 // auxiliary vector
}

// register kernel
func init() {
	ele.SetKernelAllocator("cg-diffusion", func(ctx ele.Context, kdat *inp.KernelData) (ele.Kernel, error) {
		return NewDiffusion(ctx, kdat)
	})
}

// NewDiffusion returns a new continuous Galerkin diffusion kernel
func NewDiffusion(ctx ele.Context, kdat *inp.KernelData) (o *Diffusion, err error) {
	o = &Diffusion{name: kdat.Name, u: kdat.Var, ctx: ctx, Ndim: ctx.Msh().Ndim, nip: kdat.Nip}
	v := ctx.Var(o.u)
	if v == nil {
		return nil, chk.Err("cannot find variable %q", o.u)
	}
	if v.Kind != ele.Nodal {
		return nil, chk.Err("variable %q of continuous Galerkin kernel must be nodal; %s is invalid", o.u, v.Kind)
	}
	mdat := ctx.Sim().Materials.Get(kdat.Mat)
	if mdat == nil {
		return nil, chk.Err("cannot get model for diffusion kernel %q: material %q is not available", kdat.Name, kdat.Mat)
	}
	o.Mdl = mdat.Diff
	if !ctx.Sim().Data.Steady {
		o.Rho = o.Mdl.Density()
	}
	if kdat.Source != "" {
		o.Sfun, err = ctx.Sim().Functions.Get(kdat.Source)
		if err != nil {
			return
		}
	}
	if len(kdat.Block) > 0 {
		o.blocks = make(map[int]bool)
		for _, key := range kdat.Block {
			id, err := ctx.Msh().ResolveSubdomain(key)
			if err != nil {
				return nil, err
			}
			o.blocks[id] = true
		}
	} else if v.Blocks != nil {
		o.blocks = v.Blocks
	}
	o.Xip = make([]float64, o.Ndim)
	o.Gradu = make([]float64, o.Ndim)
	o.Wvec = make([]float64, o.Ndim)
	o.Tmp = make([]float64, o.Ndim)
	return
}

// Name returns the name of kernel
func (o *Diffusion) Name() string { return o.name }

// Var returns the variable
func (o *Diffusion) Var() string { return o.u }

// Coupled returns the trial variables
func (o *Diffusion) Coupled() []string { return []string{o.u} }

// Blocks returns the subdomains
func (o *Diffusion) Blocks() map[int]bool { return o.blocks }

// OnSides returns false
func (o *Diffusion) OnSides() bool { return false }

// JacobianSetup does nothing
func (o *Diffusion) JacobianSetup() {}

// ComputeResidual adds -R to global residual vector fb
func (o *Diffusion) ComputeResidual(v ele.Visit, sink ele.Sink) (err error) {
	R, _, umap, err := o.compute(v, true, false)
	if err != nil {
		return
	}
	sink.AddToRhs(umap, R)
	return
}

// ComputeJacobian adds element K to global Jacobian matrix Kb
func (o *Diffusion) ComputeJacobian(v ele.Visit, sink ele.Sink) (err error) {
	_, K, umap, err := o.compute(v, false, true)
	if err != nil {
		return
	}
	sink.AddToKb(umap, umap, K)
	return
}

// ComputeOffDiagJacobian adds element K if jvar is the kernel's variable
func (o *Diffusion) ComputeOffDiagJacobian(v ele.Visit, jvar string, sink ele.Sink) (err error) {
	if jvar != o.u {
		return
	}
	return o.ComputeJacobian(v, sink)
}

// ComputeResidualAndJacobian adds both R and K
func (o *Diffusion) ComputeResidualAndJacobian(v ele.Visit, sink ele.Sink) (err error) {
	R, K, umap, err := o.compute(v, true, true)
	if err != nil {
		return
	}
	sink.AddToRhs(umap, R)
	sink.AddToKb(umap, umap, K)
	return
}

// compute computes the local residual and Jacobian
func (o *Diffusion) compute(v ele.Visit, withR, withK bool) (R []float64, K *mat.Dense, umap []int, err error) {
	shape := v.Cell.Shp
	ips, _, err := shape.GetIps(o.nip, 0)
	if err != nil {
		return
	}
	umap = o.ctx.CellDofs(o.u, v.Cell.Id)
	if umap == nil {
		err = chk.Err("variable %q has no dofs on cell %d", o.u, v.Cell.Id)
		return
	}
	sol := o.ctx.Sol()
	nverts := shape.Nverts
	R = make([]float64, nverts)
	K = mat.NewDense(nverts, nverts, nil)
	kcte := o.Mdl.Kcte()
	var β1 float64
	if o.Rho > 0 && !sol.Steady {
		β1 = 1.0 / sol.Dt
	}
	var coef, kval, dkdu, sval float64
	for _, ip := range ips {

		// interpolation functions, gradients and variables @ ip
		err = o.ipvars(shape, v.X, ip, umap, sol)
		if err != nil {
			return
		}
		coef = shape.J * ip[3]
		S := shape.S
		G := shape.G
		kval = o.Mdl.Kval(o.Uval)
		dkdu = o.Mdl.DkDu(o.Uval)
		if o.Sfun != nil {
			sval = o.Sfun.F(sol.T, o.Xip)
		}

		// compute Wvec
		for i := 0; i < o.Ndim; i++ {
			o.Wvec[i] = 0
			for j := 0; j < o.Ndim; j++ {
				o.Wvec[i] -= kval * kcte[i][j] * o.Gradu[j]
			}
		}

		// residual
		if withR {
			for m := 0; m < nverts; m++ {
				R[m] += coef * S[m] * (o.Rho*β1*(o.Uval-o.Uold) - sval)
				for i := 0; i < o.Ndim; i++ {
					R[m] -= coef * G[m][i] * o.Wvec[i]
				}
			}
		}

		// K := dR/du
		if withK {
			for n := 0; n < nverts; n++ {
				for j := 0; j < o.Ndim; j++ {
					o.Tmp[j] = S[n]*dkdu*o.Gradu[j] + kval*G[n][j]
				}
				for m := 0; m < nverts; m++ {
					d := S[m] * S[n] * β1 * o.Rho
					for i := 0; i < o.Ndim; i++ {
						for j := 0; j < o.Ndim; j++ {
							d += G[m][i] * kcte[i][j] * o.Tmp[j]
						}
					}
					K.Set(m, n, K.At(m, n)+coef*d)
				}
			}
		}
	}
	return
}

// ipvars computes current values @ integration points
func (o *Diffusion) ipvars(shape *shp.Shape, x [][]float64, ip shp.Ipoint, umap []int, sol *ele.Solution) (err error) {

	// interpolation functions and gradients
	err = shape.CalcAtIp(x, ip, true)
	if err != nil {
		return
	}

	// clear Uval and its gradient @ ip
	o.Uval, o.Uold = 0, 0
	for i := 0; i < o.Ndim; i++ {
		o.Gradu[i] = 0
		o.Xip[i] = 0
	}

	// compute u and its gradient @ ip by means of interpolating from nodes
	for m := 0; m < shape.Nverts; m++ {
		r := umap[m]
		o.Uval += shape.S[m] * sol.Y[r]
		if o.Rho > 0 && !sol.Steady {
			o.Uold += shape.S[m] * sol.Yold[r]
		}
		for i := 0; i < o.Ndim; i++ {
			o.Gradu[i] += shape.G[m][i] * sol.Y[r]
			o.Xip[i] += shape.S[m] * x[i][m]
		}
	}
	return
}
