// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/hdgfem/inp"
)

// VarKind defines the kind of finite element space of a variable
type VarKind int

// kinds of variables
const (
	Elemental VarKind = iota // discontinuous; one value per cell vertex
	Nodal                    // continuous; one value per vertex
	Trace                    // discontinuous on skeleton faces; one value per face vertex
)

// String returns the name of the kind
func (o VarKind) String() string {
	switch o {
	case Elemental:
		return "elemental"
	case Nodal:
		return "nodal"
	case Trace:
		return "trace"
	}
	return "unknown"
}

// Variable holds a solution variable
type Variable struct {
	Name   string       // name of variable
	Kind   VarKind      // kind of space
	Blocks map[int]bool // subdomains (cells or skeleton) where variable lives; nil => everywhere
	Primal string       // trace: elemental variable owning the faces
	Init   dbf.T        // initial values; may be nil
}

// NewVariable creates a variable from input data
func NewVariable(vdat *inp.VarData, msh *inp.Mesh, funcs inp.FuncsData) (o *Variable, err error) {
	o = &Variable{Name: vdat.Name, Primal: vdat.Primal}
	switch vdat.Kind {
	case "", "elemental":
		o.Kind = Elemental
	case "nodal":
		o.Kind = Nodal
	case "trace":
		o.Kind = Trace
	default:
		return nil, chk.Err("kind %q of variable %q is invalid; options are \"elemental\", \"nodal\" and \"trace\"", vdat.Kind, vdat.Name)
	}
	if len(vdat.Block) > 0 {
		o.Blocks = make(map[int]bool)
		for _, key := range vdat.Block {
			id, err := msh.ResolveSubdomain(key)
			if err != nil {
				return nil, chk.Err("variable %q:\n%v", vdat.Name, err)
			}
			o.Blocks[id] = true
		}
	}
	if o.Kind == Trace {
		if o.Primal == "" {
			return nil, chk.Err("trace variable %q requires the name of its primal variable", o.Name)
		}
		if len(o.Blocks) != 1 || !o.Blocks[msh.SkeletonId] {
			return nil, chk.Err("trace variable %q must be restricted to the skeleton subdomain %d only", o.Name, msh.SkeletonId)
		}
	}
	if vdat.Init != "" {
		o.Init, err = funcs.Get(vdat.Init)
		if err != nil {
			return nil, chk.Err("initial values of variable %q:\n%v", o.Name, err)
		}
	}
	return
}

// OnSubdomain tells whether the variable lives on a subdomain
func (o *Variable) OnSubdomain(id int) bool {
	return o.Blocks == nil || o.Blocks[id]
}
