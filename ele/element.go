// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements kernels and boundary conditions assembled over elements
package ele

import (
	"github.com/cpmech/hdgfem/inp"
	"gonum.org/v1/gonum/mat"
)

// Visit identifies the element, or the element side, being assembled
type Visit struct {
	Cell *inp.Cell   // the cell
	Side int         // local index of side; negative => element interior
	X    [][]float64 // [ndim][nverts] coordinates of cell
}

// OnSide tells whether this visit is an element side
func (o Visit) OnSide() bool { return o.Side >= 0 }

// Key returns the side key of this visit
func (o Visit) Key() inp.SideKey { return inp.SideKey{Cell: o.Cell.Id, Side: o.Side} }

// Context provides variables, shape functions support and solution values to kernels
type Context interface {
	Sim() *inp.Simulation                       // simulation data
	Msh() *inp.Mesh                             // the mesh
	Sol() *Solution                             // current solution
	Var(name string) *Variable                  // variable by name; nil if not found
	CellDofs(vname string, cid int) []int       // elemental/nodal dofs of cell in vertex order; nil if none
	SideDofs(vname string, cid, side int) []int // trace dofs of cell side in local face-vertex order; nil if none
}

// Sink receives local contributions and adds them to the global system
type Sink interface {
	AddToRhs(dofs []int, r []float64)       // adds -r to global residual vector fb
	AddToKb(rows, cols []int, K mat.Matrix) // adds K to global Jacobian matrix Kb
}

// Object defines what kernels and boundary conditions must implement
type Object interface {
	Name() string      // name of object
	Var() string       // primary variable
	Coupled() []string // all variables (trial spaces) whose Jacobian blocks this object computes

	// assembly
	JacobianSetup()                                               // called at the beginning of each Jacobian assembly
	ComputeResidual(v Visit, sink Sink) error                     // adds residual contributions
	ComputeJacobian(v Visit, sink Sink) error                     // adds Jacobian contributions of all coupled variables
	ComputeOffDiagJacobian(v Visit, jvar string, sink Sink) error // adds Jacobian contributions of one trial variable
	ComputeResidualAndJacobian(v Visit, sink Sink) error          // adds both in a single computation
}

// Kernel defines objects assembled over element interiors and, optionally, element sides
type Kernel interface {
	Object
	Blocks() map[int]bool // subdomains where this kernel acts
	OnSides() bool        // kernel must be visited on element sides not covered by boundary conditions
}

// BoundaryCondition defines objects assembled over sides in sidesets
type BoundaryCondition interface {
	Object
	Boundaries() []int // sideset ids
}
