// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package iphdg implements interior-penalty hybridizable discontinuous Galerkin kernels
package iphdg

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/ele"
	"github.com/cpmech/hdgfem/inp"
	"github.com/cpmech/hdgfem/mdl/diffusion"
	"github.com/cpmech/hdgfem/shp"
	"gonum.org/v1/gonum/mat"
)

// Helper computes local residuals and Jacobians of a hybridized weak form with
// primary (interior) variable u and trace variable û living on the skeleton.
// The outward numerical flux is
//
//   F̂ = −(D ∇u)·n + (τ + τa)(u − û) + (v·n) û + p n_c      with      τa = max(v·n, 0)
//
// Residuals follow R(y) = 0 and the Jacobian is dR/dy
type Helper struct {

	// basic data
	Phys Physics     // physics terms
	U    string      // primary variable
	Lm   string      // trace variable
	Nip  int         // number of integration points; 0 => default
	Nipf int         // number of integration points on faces; 0 => default
	ctx  ele.Context // provider of dofs and solution
	ndim int         // space dimension
	rz   bool        // axisymmetric

	// current visit
	v       ele.Visit    // visit
	visited bool         // ResizeResiduals has been called for the current visit
	ips     []shp.Ipoint // integration points of element
	ipsf    []shp.Ipoint // integration points of faces
	nu, nl  int          // number of primary and trace values
	uc, uo  []float64    // [nu] local values of u and u_old
	lc   []float64    // [nl] local values of û
	pc   []float64    // [nu] local values of p
	data *TaggingData // buckets

	// scratchpad
	xip   []float64 // real coordinates of ip
	nvec  []float64 // unit normal
	gradu []float64 // ∇u
	kgu   []float64 // kcte ∇u
	nkg   []float64 // [nu] n·kcte·G_m
}

// newHelper validates variables and allocates a new helper
func newHelper(ctx ele.Context, kdat *inp.KernelData, phys Physics) (o *Helper, err error) {
	o = &Helper{Phys: phys, U: kdat.Var, Lm: kdat.Trace, Nip: kdat.Nip, Nipf: kdat.Nipf, ctx: ctx}
	msh := ctx.Msh()
	u := ctx.Var(o.U)
	if u == nil {
		return nil, chk.Err("cannot find variable %q", o.U)
	}
	if u.Kind != ele.Elemental {
		return nil, chk.Err("primary variable %q must be elemental; %s is invalid", u.Name, u.Kind)
	}
	lm := ctx.Var(o.Lm)
	if lm == nil {
		return nil, chk.Err("cannot find trace variable %q", o.Lm)
	}
	if lm.Kind != ele.Trace {
		return nil, chk.Err("variable %q must be a trace variable; %s is invalid", lm.Name, lm.Kind)
	}
	if len(lm.Blocks) != 1 || !lm.Blocks[msh.SkeletonId] {
		return nil, chk.Err("trace variable %q must be restricted to the skeleton subdomain %d only", lm.Name, msh.SkeletonId)
	}
	if lm.Primal != o.U {
		return nil, chk.Err("trace variable %q belongs to %q and not to %q", lm.Name, lm.Primal, o.U)
	}
	if o.Phys.Pressure != "" && (o.Phys.Pressure == o.U || o.Phys.Pressure == o.Lm) {
		return nil, chk.Err("pressure variable %q must differ from primary and trace variables", o.Phys.Pressure)
	}
	o.ndim = msh.Ndim
	o.rz = ctx.Sim().Axisym
	o.xip = make([]float64, o.ndim)
	o.nvec = make([]float64, o.ndim)
	o.gradu = make([]float64, o.ndim)
	o.kgu = make([]float64, o.ndim)
	return
}

// Ctx returns the context of this helper
func (o *Helper) Ctx() ele.Context { return o.ctx }

// Coupled returns the trial variables
func (o *Helper) Coupled() (vars []string) {
	vars = []string{o.U, o.Lm}
	if o.Phys.Pressure != "" {
		vars = append(vars, o.Phys.Pressure)
	}
	return
}

// MatPropDependencies returns the ids of the properties read by this helper
func (o *Helper) MatPropDependencies() (ids []int) {
	for _, name := range o.Phys.props() {
		ids = append(ids, diffusion.PropId(name))
	}
	return
}

// ResizeResiduals prepares zeroed buckets for a visit and gathers local values
func (o *Helper) ResizeResiduals(v ele.Visit) {
	o.v = v
	cid := v.Cell.Id
	sol := o.ctx.Sol()
	udofs := o.ctx.CellDofs(o.U, cid)
	if udofs == nil {
		chk.Panic("variable %q has no dofs on cell %d", o.U, cid)
	}
	o.nu = len(udofs)
	o.nl = 0
	o.uc = resize(o.uc, o.nu)
	o.uo = resize(o.uo, o.nu)
	ele.Gather(o.uc, sol.Y, udofs)
	if o.Phys.Rho > 0 && !sol.Steady {
		ele.Gather(o.uo, sol.Yold, udofs)
	}
	if o.Phys.Pressure != "" {
		o.pc = resize(o.pc, o.nu)
		ele.Gather(o.pc, sol.Y, o.ctx.CellDofs(o.Phys.Pressure, cid))
	}
	if v.OnSide() {
		ldofs := o.ctx.SideDofs(o.Lm, cid, v.Side)
		if ldofs == nil {
			chk.Panic("trace variable %q has no dofs on side %d of cell %d", o.Lm, v.Side, cid)
		}
		o.nl = len(ldofs)
		o.lc = resize(o.lc, o.nl)
		ele.Gather(o.lc, sol.Y, ldofs)
	}
	o.nkg = resize(o.nkg, o.nu)
	var err error
	o.ips, o.ipsf, err = v.Cell.Shp.GetIps(o.Nip, o.Nipf)
	if err != nil {
		chk.Panic("%v", err)
	}
	o.data = newTaggingData(o.U, o.Lm, o.nu, o.nl)
	o.visited = true
}

// TaggingData returns the filled buckets; a new ResizeResiduals is required afterwards
func (o *Helper) TaggingData() *TaggingData {
	o.check("TaggingData")
	o.visited = false
	return o.data
}

// ScalarVolume adds the element interior terms of the primary equation
//
//   (ρ (u − u_old)/Δt − f, w) + (D ∇u, ∇w) − (v u, ∇w) − (p, ∂w/∂x_c)
//
func (o *Helper) ScalarVolume() {
	o.check("ScalarVolume")
	if o.v.OnSide() {
		chk.Panic("ScalarVolume cannot be called on side %d of cell %d", o.v.Side, o.v.Cell.Id)
	}
	shape := o.v.Cell.Shp
	sol := o.ctx.Sol()
	c := o.Phys.Component
	Ru := o.data.Ru.RawVector().Data
	Kuu := o.data.block(PP, o.U, o.U, o.nu, o.nu)
	Kup := o.pressureBlock(PP, o.nu)
	var cdt float64
	if o.Phys.Rho > 0 && !sol.Steady {
		cdt = o.Phys.Rho / sol.Dt
	}
	for _, ip := range o.ips {
		err := shape.CalcAtIp(o.v.X, ip, true)
		if err != nil {
			chk.Panic("%v", err)
		}
		S, G := shape.S, shape.G
		o.realCoords(S)
		cf := o.coordFactor()
		coef := shape.J * ip[3] * cf
		u, uold, p := o.interp(S)
		k, dk := o.kval(u)
		o.gradient(G)
		f := o.source()
		for m := 0; m < o.nu; m++ {
			r := S[m]*(cdt*(u-uold)-f) + k*dot(G[m], o.kgu) - u*o.vdot(G[m])
			if Kup != nil {
				r -= p * G[m][c]
			}
			if o.hoop() {
				r += (k*u/(o.xip[0]*o.xip[0]) - p/o.xip[0]) * S[m]
			}
			Ru[m] += coef * r
			for n := 0; n < o.nu; n++ {
				d := cdt*S[m]*S[n] + dk*S[n]*dot(G[m], o.kgu) + k*o.gkg(G[m], G[n]) - S[n]*o.vdot(G[m])
				if o.hoop() {
					d += (k + dk*u) * S[n] * S[m] / (o.xip[0] * o.xip[0])
				}
				add(Kuu, m, n, coef*d)
				if Kup != nil {
					d = -S[n] * G[m][c]
					if o.hoop() {
						d -= S[n] * S[m] / o.xip[0]
					}
					add(Kup, m, n, coef*d)
				}
			}
		}
	}
}

// ScalarFace adds the face terms of the primary equation
//
//   ⟨F̂, w⟩ − ⟨D ∇w·n, u − û⟩
//
func (o *Helper) ScalarFace() {
	o.check("ScalarFace")
	o.scalarFace(nil)
}

// ScalarDirichlet adds the face terms of the primary equation with û replaced by g
func (o *Helper) ScalarDirichlet(g dbf.T) {
	o.check("ScalarDirichlet")
	o.scalarFace(g)
}

// LmFace adds the face terms of the trace equation (flux continuity)
//
//   ⟨F̂, μ⟩
//
func (o *Helper) LmFace() {
	o.check("LmFace")
	o.onSide("LmFace")
	Rl := o.data.Rl.RawVector().Data
	Klu := o.data.block(LP, o.Lm, o.U, o.nl, o.nu)
	Kll := o.data.block(LL, o.Lm, o.Lm, o.nl, o.nl)
	Klp := o.pressureBlock(LP, o.nl)
	o.faceLoop(func(dA float64, S, Sf []float64) {
		q := o.flux(S, Sf, nil)
		for i := 0; i < o.nl; i++ {
			Rl[i] += dA * q.F * Sf[i]
			for n := 0; n < o.nu; n++ {
				add(Klu, i, n, dA*q.dFdu(n, S)*Sf[i])
				if Klp != nil {
					add(Klp, i, n, dA*S[n]*o.nvec[o.Phys.Component]*Sf[i])
				}
			}
			for j := 0; j < o.nl; j++ {
				add(Kll, i, j, dA*q.dFdl*Sf[j]*Sf[i])
			}
		}
	})
}

// LmDirichlet adds ⟨û − g, μ⟩ to the trace equation
func (o *Helper) LmDirichlet(g dbf.T) {
	o.check("LmDirichlet")
	o.onSide("LmDirichlet")
	Rl := o.data.Rl.RawVector().Data
	Kll := o.data.block(LL, o.Lm, o.Lm, o.nl, o.nl)
	t := o.ctx.Sol().T
	o.faceLoop(func(dA float64, S, Sf []float64) {
		lhat := dotn(Sf, o.lc, o.nl)
		gval := g.F(t, o.xip)
		for i := 0; i < o.nl; i++ {
			Rl[i] += dA * (lhat - gval) * Sf[i]
			for j := 0; j < o.nl; j++ {
				add(Kll, i, j, dA*Sf[j]*Sf[i])
			}
		}
	})
}

// LmPrescribedFlux adds −⟨g, μ⟩ to the trace equation, where g is the outward normal flux
func (o *Helper) LmPrescribedFlux(g dbf.T) {
	o.check("LmPrescribedFlux")
	o.onSide("LmPrescribedFlux")
	Rl := o.data.Rl.RawVector().Data
	t := o.ctx.Sol().T
	o.faceLoop(func(dA float64, S, Sf []float64) {
		gval := g.F(t, o.xip)
		for i := 0; i < o.nl; i++ {
			Rl[i] -= dA * gval * Sf[i]
		}
	})
}

// LmOutflow adds the one-sided condition ⟨û − u, μ⟩ where v·n ≥ 0 and ⟨û, μ⟩ where v·n < 0
func (o *Helper) LmOutflow() {
	o.check("LmOutflow")
	o.onSide("LmOutflow")
	Rl := o.data.Rl.RawVector().Data
	Klu := o.data.block(LP, o.Lm, o.U, o.nl, o.nu)
	Kll := o.data.block(LL, o.Lm, o.Lm, o.nl, o.nl)
	o.faceLoop(func(dA float64, S, Sf []float64) {
		lhat := dotn(Sf, o.lc, o.nl)
		outflow := o.vnormal() >= 0
		var u float64
		if outflow {
			u, _, _ = o.interp(S)
		}
		for i := 0; i < o.nl; i++ {
			Rl[i] += dA * (lhat - u) * Sf[i]
			for j := 0; j < o.nl; j++ {
				add(Kll, i, j, dA*Sf[j]*Sf[i])
			}
			if outflow {
				for n := 0; n < o.nu; n++ {
					add(Klu, i, n, -dA*S[n]*Sf[i])
				}
			}
		}
	})
}

// internal //////////////////////////////////////////////////////////////////////////////////////

// scalarFace implements ScalarFace (g == nil) and ScalarDirichlet (û := g)
func (o *Helper) scalarFace(g dbf.T) {
	o.onSide("ScalarFace")
	Ru := o.data.Ru.RawVector().Data
	Kuu := o.data.block(PP, o.U, o.U, o.nu, o.nu)
	Kup := o.pressureBlock(PP, o.nu)
	var Kul = o.data.Block(PL, o.U, o.Lm)
	if g == nil {
		Kul = o.data.block(PL, o.U, o.Lm, o.nu, o.nl)
	}
	o.faceLoop(func(dA float64, S, Sf []float64) {
		q := o.flux(S, Sf, g)
		jump := q.u - q.lhat
		for m := 0; m < o.nu; m++ {
			Ru[m] += dA * (q.F*S[m] - q.k*o.nkg[m]*jump)
			for n := 0; n < o.nu; n++ {
				d := q.dFdu(n, S)*S[m] - q.dk*S[n]*o.nkg[m]*jump - q.k*o.nkg[m]*S[n]
				add(Kuu, m, n, dA*d)
				if Kup != nil {
					add(Kup, m, n, dA*S[n]*o.nvec[o.Phys.Component]*S[m])
				}
			}
			if g == nil {
				for j := 0; j < o.nl; j++ {
					add(Kul, m, j, dA*(q.dFdl*Sf[j]*S[m]+q.k*o.nkg[m]*Sf[j]))
				}
			}
		}
	})
}

// fluxData holds the numerical flux and its derivatives at a face point
type fluxData struct {
	F    float64 // numerical flux
	u    float64 // u
	lhat float64 // û
	k, dk float64 // k(u) and dk/du
	nkgu float64 // n·kcte·∇u
	tt   float64 // τ + τa
	dFdl float64 // ∂F/∂û
	nkg  []float64
}

// dFdu returns ∂F/∂u_n
func (o *fluxData) dFdu(n int, S []float64) float64 {
	return -o.dk*S[n]*o.nkgu - o.k*o.nkg[n] + o.tt*S[n]
}

// flux computes the numerical flux at the current face point
func (o *Helper) flux(S, Sf []float64, g dbf.T) (q fluxData) {
	G := o.v.Cell.Shp.G
	var p float64
	q.u, _, p = o.interp(S)
	if g == nil {
		q.lhat = dotn(Sf, o.lc, o.nl)
	} else {
		q.lhat = g.F(o.ctx.Sol().T, o.xip)
	}
	q.k, q.dk = o.kval(q.u)
	o.gradient(G)
	q.nkgu = dot(o.nvec, o.kgu)
	for m := 0; m < o.nu; m++ {
		o.nkg[m] = o.nkgVec(G[m])
	}
	q.nkg = o.nkg
	vn := o.vnormal()
	q.tt = o.tau() + math.Max(vn, 0)
	q.F = -q.k*q.nkgu + q.tt*(q.u-q.lhat) + vn*q.lhat
	if o.Phys.Pressure != "" {
		q.F += p * o.nvec[o.Phys.Component]
	}
	q.dFdl = -q.tt + vn
	return
}

// faceLoop loops over the integration points of the current side
func (o *Helper) faceLoop(fcn func(dA float64, S, Sf []float64)) {
	shape := o.v.Cell.Shp
	for _, ipf := range o.ipsf {
		err := shape.CalcAtFaceIp(o.v.X, ipf, o.v.Side)
		if err != nil {
			chk.Panic("%v", err)
		}
		jf := norm(shape.Fnvec)
		for i := 0; i < o.ndim; i++ {
			o.nvec[i] = shape.Fnvec[i] / jf
		}
		o.realCoords(shape.S)
		fcn(ipf[3]*jf*o.coordFactor(), shape.S, shape.Sf)
	}
}

// pressureBlock returns the block coupling the pressure or nil
func (o *Helper) pressureBlock(kind Kind, nrow int) *mat.Dense {
	if o.Phys.Pressure == "" {
		return nil
	}
	test := o.U
	if kind.TestOnTrace() {
		test = o.Lm
	}
	return o.data.block(kind, test, o.Phys.Pressure, nrow, o.nu)
}

// check panics if ResizeResiduals was not called for the current visit
func (o *Helper) check(caller string) {
	if !o.visited {
		chk.Panic("%s: ResizeResiduals must be called before accumulating contributions of a new visit", caller)
	}
}

// onSide panics if the current visit is not an element side
func (o *Helper) onSide(caller string) {
	if !o.v.OnSide() {
		chk.Panic("%s: visit of cell %d is not an element side", caller, o.v.Cell.Id)
	}
}

// interp returns u, u_old and p at the current point
func (o *Helper) interp(S []float64) (u, uold, p float64) {
	u = dotn(S, o.uc, o.nu)
	uold = dotn(S, o.uo, o.nu)
	if o.Phys.Pressure != "" {
		p = dotn(S, o.pc, o.nu)
	}
	return
}

// gradient computes ∇u and kcte ∇u
func (o *Helper) gradient(G [][]float64) {
	for i := 0; i < o.ndim; i++ {
		o.gradu[i] = 0
		for m := 0; m < o.nu; m++ {
			o.gradu[i] += G[m][i] * o.uc[m]
		}
	}
	for i := 0; i < o.ndim; i++ {
		o.kgu[i] = 0
		if o.Phys.Diffusivity == nil {
			continue
		}
		K := o.Phys.Diffusivity.Kcte()
		for j := 0; j < o.ndim; j++ {
			o.kgu[i] += K[i][j] * o.gradu[j]
		}
	}
}

// kval returns k(u) and dk/du; zero if there is no diffusion
func (o *Helper) kval(u float64) (k, dk float64) {
	if o.Phys.Diffusivity == nil {
		return
	}
	return o.Phys.Diffusivity.Kval(u), o.Phys.Diffusivity.DkDu(u)
}

// gkg returns a·kcte·b
func (o *Helper) gkg(a, b []float64) (res float64) {
	if o.Phys.Diffusivity == nil {
		return
	}
	K := o.Phys.Diffusivity.Kcte()
	for i := 0; i < o.ndim; i++ {
		for j := 0; j < o.ndim; j++ {
			res += a[i] * K[i][j] * b[j]
		}
	}
	return
}

// nkgVec returns n·kcte·a
func (o *Helper) nkgVec(a []float64) float64 {
	return o.gkg(o.nvec, a)
}

// tau returns the diffusive penalty at the current face point
func (o *Helper) tau() float64 {
	if o.Phys.Tau > 0 {
		return o.Phys.Tau
	}
	if o.Phys.Diffusivity == nil {
		return 0
	}
	h := o.v.Cell.Shp.Hmax(o.v.X)
	return o.Phys.Alpha * o.Phys.Diffusivity.Kref() * o.gkg(o.nvec, o.nvec) / h
}

// vdot returns v·a at the current point
func (o *Helper) vdot(a []float64) (res float64) {
	if o.Phys.Velocity == nil {
		return
	}
	t := o.ctx.Sol().T
	for i, fcn := range o.Phys.Velocity {
		res += fcn.F(t, o.xip) * a[i]
	}
	return
}

// vnormal returns v·n at the current face point
func (o *Helper) vnormal() float64 { return o.vdot(o.nvec) }

// source returns f at the current point
func (o *Helper) source() float64 {
	if o.Phys.Source == nil {
		return 0
	}
	return o.Phys.Source.F(o.ctx.Sol().T, o.xip)
}

// hoop tells whether the radial corrections of the stress equation apply
func (o *Helper) hoop() bool {
	return o.rz && o.Phys.Stress && o.Phys.Component == 0
}

// realCoords computes the real coordinates of the current point
func (o *Helper) realCoords(S []float64) {
	for i := 0; i < o.ndim; i++ {
		o.xip[i] = 0
		for m := 0; m < len(S); m++ {
			o.xip[i] += S[m] * o.v.X[i][m]
		}
	}
}

// coordFactor returns 2πr in axisymmetric problems and 1 otherwise
func (o *Helper) coordFactor() float64 {
	if o.rz {
		return 2.0 * math.Pi * o.xip[0]
	}
	return 1
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////

func resize(a []float64, n int) []float64 {
	if cap(a) < n {
		return make([]float64, n)
	}
	a = a[:n]
	for i := range a {
		a[i] = 0
	}
	return a
}

func dot(a, b []float64) (res float64) {
	for i := range a {
		res += a[i] * b[i]
	}
	return
}

func dotn(a, b []float64, n int) (res float64) {
	for i := 0; i < n; i++ {
		res += a[i] * b[i]
	}
	return
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
