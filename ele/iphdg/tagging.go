// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iphdg

import (
	"gonum.org/v1/gonum/mat"
)

// Kind defines the coupling between test and trial spaces of a block
type Kind int

// kinds of blocks
const (
	PP Kind = iota // primary test, primary trial
	PL             // primary test, lower (trace) trial
	LP             // lower test, primary trial
	LL             // lower test, lower trial
)

// String returns the name of the kind
func (o Kind) String() string {
	return [...]string{"PP", "PL", "LP", "LL"}[o]
}

// TestOnTrace tells whether the test space is the trace space
func (o Kind) TestOnTrace() bool { return o == LP || o == LL }

// TrialOnTrace tells whether the trial space is the trace space
func (o Kind) TrialOnTrace() bool { return o == PL || o == LL }

// Key identifies a Jacobian block
type Key struct {
	Kind  Kind   // coupling
	Test  string // test variable
	Trial string // trial variable
}

// TaggingData holds the local contributions of one visit
type TaggingData struct {
	Ru   *mat.VecDense      // residual tested by the primary space (PP); nil if empty
	Rl   *mat.VecDense      // residual tested by the trace space (LL); nil on element interiors
	Jac  map[Key]*mat.Dense // Jacobian blocks
	Keys []Key              // blocks in order of creation
	U    string             // primary variable
	Lm   string             // trace variable
}

// newTaggingData allocates zeroed buckets
func newTaggingData(u, lm string, nu, nl int) (o *TaggingData) {
	o = &TaggingData{U: u, Lm: lm, Jac: make(map[Key]*mat.Dense)}
	if nu > 0 {
		o.Ru = mat.NewVecDense(nu, nil)
	}
	if nl > 0 {
		o.Rl = mat.NewVecDense(nl, nil)
	}
	return
}

// block returns the Jacobian block; it is created if necessary
func (o *TaggingData) block(kind Kind, test, trial string, nrow, ncol int) *mat.Dense {
	key := Key{kind, test, trial}
	if K, ok := o.Jac[key]; ok {
		return K
	}
	K := mat.NewDense(nrow, ncol, nil)
	o.Jac[key] = K
	o.Keys = append(o.Keys, key)
	return K
}

// Block returns a Jacobian block
//  Note: returns nil if not found
func (o *TaggingData) Block(kind Kind, test, trial string) *mat.Dense {
	return o.Jac[Key{kind, test, trial}]
}

// add adds v to K[i][j]
func add(K *mat.Dense, i, j int, v float64) {
	K.Set(i, j, K.At(i, j)+v)
}
