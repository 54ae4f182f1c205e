// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/mdl/diffusion"
)

// Material holds material data
type Material struct {

	// input
	Name  string     `json:"name" yaml:"name"`   // name of material
	Model string     `json:"model" yaml:"model"` // name of diffusion model; e.g. "m1"
	Prms  dbf.Params `json:"prms" yaml:"prms"`   // prms holds all model parameters for this material

	// derived
	Diff diffusion.Model // pointer to actual diffusion model
}

// MatsData holds materials
type MatsData []*Material

// Init allocates and initialises all models
func (o MatsData) Init(ndim int) (err error) {
	names := make(map[string]bool)
	for _, m := range o {
		if names[m.Name] {
			return chk.Err("material named %q is defined more than once", m.Name)
		}
		names[m.Name] = true
		m.Diff, err = diffusion.New(m.Model)
		if err != nil {
			return chk.Err("material %q:\n%v", m.Name, err)
		}
		err = m.Diff.Init(ndim, m.Prms)
		if err != nil {
			return chk.Err("cannot initialise model of material %q:\n%v", m.Name, err)
		}
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o MatsData) Get(name string) *Material {
	for _, m := range o {
		if m.Name == name {
			return m
		}
	}
	return nil
}
