// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package diffusion implements models to solve diffusion(-like) problems
package diffusion

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines diffusion models
//
//   D(u) = kval(u) * kcte
//
type Model interface {
	Init(ndim int, prms dbf.Params) error // Init initialises this structure
	Kval(u float64) float64               // scalar coefficient
	DkDu(u float64) float64               // derivative of scalar coefficient
	Kref() float64                        // reference coefficient used to scale penalties
	Kcte() [][]float64                    // constant tensor
	Density() float64                     // capacity coefficient of transient term
}

// New diffusion model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'diffusion' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// find returns the value of a parameter
func find(prms dbf.Params, name string) (val float64, found bool) {
	for _, p := range prms {
		if p.N == name {
			return p.V, true
		}
	}
	return
}
