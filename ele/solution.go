// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the solution data of all variables
//
//        / u \
//  y  =  | û |   elemental, trace and nodal dofs
//        \ v / (ny x 1)
//
type Solution struct {

	// current state
	T    float64   // current time
	Y    []float64 // DOFs (solution variables); e.g. y = {u, û}
	Yold []float64 // DOFs at the beginning of the time step

	// auxiliary
	Dt float64   // current time increment
	ΔY []float64 // total increment (for nonlinear solver)

	// problem definition and constants
	Steady bool // [from Sim] steady simulation
	Axisym bool // [from Sim] axisymmetric
}

// Resize resizes all arrays; values are zeroed
func (o *Solution) Resize(ny int) {
	o.Y = make([]float64, ny)
	o.Yold = make([]float64, ny)
	o.ΔY = make([]float64, ny)
}

// Backup copies Y into Yold
func (o *Solution) Backup() {
	copy(o.Yold, o.Y)
}

// Gather collects values of dofs into the local array l (l must have len(dofs))
func Gather(l, y []float64, dofs []int) {
	for i, I := range dofs {
		l[i] = y[I]
	}
}
