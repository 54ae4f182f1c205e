// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// M1 implements a model for diffusion problems with nonlinear coefficient
//
//   kten = kval(u) * kcte
//
//   kval = a0  +  a1 u  +  a2 u² +  a3 u³
//
type M1 struct {
	a0, a1, a2, a3 float64
	Rho  float64
	kcte [][]float64
}

// add model to factory
func init() {
	allocators["m1"] = func() Model { return new(M1) }
}

// Init initialises this structure
func (o *M1) Init(ndim int, prms dbf.Params) (err error) {

	// a[i] parameters
	o.a0, o.a1, o.a2, o.a3, o.Rho = 1, 0, 0, 0, 0
	for _, p := range prms {
		switch p.N {
		case "a0":
			o.a0 = p.V
		case "a1":
			o.a1 = p.V
		case "a2":
			o.a2 = p.V
		case "a3":
			o.a3 = p.V
		case "rho":
			o.Rho = p.V
		}
	}
	if o.a0 <= 0 {
		return chk.Err("M1 model: a0 must be positive. a0=%g is invalid", o.a0)
	}

	// kcte parameters
	keys := []string{"kx", "ky", "kz"}[:ndim]
	kvals := make([]float64, ndim)
	nfound := 0
	for i, key := range keys {
		if v, ok := find(prms, key); ok {
			kvals[i] = v
			nfound++
		}
	}
	if nfound != ndim {
		k, ok := find(prms, "k")
		if !ok {
			return chk.Err("M1 model: either 'k' (isotropic) or %v must be given in database of material parameters", keys)
		}
		for i := range kvals {
			kvals[i] = k
		}
	}

	// ktensor
	o.kcte = utl.Alloc(ndim, ndim)
	for i := 0; i < ndim; i++ {
		o.kcte[i][i] = kvals[i]
	}
	return
}

// Kval computes k(u)
func (o *M1) Kval(u float64) float64 {
	return o.a0 + o.a1*u + o.a2*u*u + o.a3*u*u*u
}

// DkDu computes dk/du
func (o *M1) DkDu(u float64) float64 {
	return o.a1 + 2.0*o.a2*u + 3.0*o.a3*u*u
}

// Kref returns k(0)
func (o *M1) Kref() float64 { return o.a0 }

// Kcte returns the constant tensor
func (o *M1) Kcte() [][]float64 { return o.kcte }

// Density returns rho
func (o *M1) Density() float64 { return o.Rho }

// Kten computes ktensor = kval(u) * kcte
func (o *M1) Kten(kten [][]float64, u float64) {
	k := o.Kval(u)
	for i := range o.kcte {
		for j := range o.kcte[i] {
			kten[i][j] = k * o.kcte[i][j]
		}
	}
}
