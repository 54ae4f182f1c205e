// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
)

// EqualTol is the tolerance of the "equal" criterion
var EqualTol = 1e-12

// Threshold moves cells whose average of a variable meets a criterion
type Threshold struct {
	Var        string  // variable (solution or auxiliary)
	Criterion  string  // "above", "below" or "equal"
	Value      float64 // threshold
	Target     int     // subdomain when criterion is met
	Complement int     // subdomain otherwise
	HasCompl   bool    // Complement was given
}

// NewThreshold returns a new threshold criterion
func NewThreshold(dom *fem.Domain, dat *inp.UserObjData) (o *Threshold, err error) {
	msh := dom.Msh()
	o = &Threshold{Var: dat.Var, Criterion: dat.Criterion, Value: dat.Threshold, HasCompl: dat.Complement}
	if dom.Var(o.Var) == nil && dom.AuxFcns[o.Var] == nil {
		return nil, chk.Err("cannot find variable %q", o.Var)
	}
	switch o.Criterion {
	case "above", "below", "equal":
	default:
		return nil, chk.Err("criterion %q is invalid; options are \"above\", \"below\" and \"equal\"", o.Criterion)
	}
	o.Target, err = msh.ResolveSubdomain(dat.SubdomainId)
	if err != nil {
		return
	}
	if o.HasCompl {
		o.Complement, err = msh.ResolveSubdomain(dat.ComplementId)
	}
	return
}

// ComputeSubdomainID implements Criterion
func (o *Threshold) ComputeSubdomainID(cell *inp.Cell, dom *fem.Domain) (id int, ok bool) {
	val, found := dom.CellAverage(o.Var, cell.Id)
	if !found {
		return
	}
	if o.met(val) {
		return o.Target, true
	}
	if o.HasCompl {
		return o.Complement, true
	}
	return
}

// met tells whether a value meets the criterion
func (o *Threshold) met(val float64) bool {
	switch o.Criterion {
	case "above":
		return val > o.Value
	case "below":
		return val < o.Value
	}
	return math.Abs(val-o.Value) <= EqualTol
}
