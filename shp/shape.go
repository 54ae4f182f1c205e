// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape functions and integration points
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// ShpFunc is a shape function callback
//  S    -- [nverts] shape functions
//  dSdR -- [nverts][gndim] derivatives of S w.r.t natural coordinates
//  r    -- natural coordinates
//  derivs -- compute derivatives
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data and scratchpad arrays for one cell
type Shape struct {

	// geometry
	Type           string      // name; e.g. "lin2"
	FaceType       string      // geometry of faces; e.g. "pnt", "lin2"
	Gndim          int         // geometry (natural) space dimension
	Nverts         int         // number of vertices
	FaceNverts     int         // number of vertices on each face
	FaceLocalVerts [][]int     // [nfaces][FaceNverts] local vertices on each face
	NatCoords      [][]float64 // [gndim][nverts] natural coordinates of vertices
	Func           ShpFunc     // shape function callback
	FaceFunc       ShpFunc     // face shape function callback

	// volumetric data
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][ndim] derivatives of S w.r.t real coordinates
	J    float64     // Jacobian determinant: det(dxdR)
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [ndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][ndim] inverse of DxdR

	// face data
	Sf     []float64   // [FaceNverts] face shape functions
	DSfdRf [][]float64 // [FaceNverts][1] derivatives of face shape functions
	Fnvec  []float64   // [ndim] outward normal vector scaled by the face Jacobian

	// auxiliary
	rnat []float64 // natural coordinates @ face point
}

// Nfaces returns the number of faces
func (o *Shape) Nfaces() int { return len(o.FaceLocalVerts) }

// CalcAtIp calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of element
//   ip              -- integration point
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {
	return o.CalcAtR(x, ip[:o.Gndim], derivs)
}

// CalcAtR calculates volume data at natural coordinates r
func (o *Shape) CalcAtR(x [][]float64, r []float64, derivs bool) (err error) {

	// shape functions and derivatives w.r.t natural coordinates
	o.Func(o.S, o.DSdR, r, derivs)
	if !derivs {
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	ndim := len(x)
	if ndim != o.Gndim {
		return chk.Err("space dimension (%d) must be equal to geometry dimension (%d)", ndim, o.Gndim)
	}
	for i := 0; i < ndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	switch ndim {
	case 1:
		o.J = o.DxdR[0][0]
		if o.J < MINDET {
			return chk.Err("cannot compute Jacobian of %q: J = %g is invalid", o.Type, o.J)
		}
		o.DRdx[0][0] = 1.0 / o.J
	case 2:
		o.J = o.DxdR[0][0]*o.DxdR[1][1] - o.DxdR[0][1]*o.DxdR[1][0]
		if o.J < MINDET {
			return chk.Err("cannot compute Jacobian of %q: J = %g is invalid", o.Type, o.J)
		}
		o.DRdx[0][0] = o.DxdR[1][1] / o.J
		o.DRdx[0][1] = -o.DxdR[0][1] / o.J
		o.DRdx[1][0] = -o.DxdR[1][0] / o.J
		o.DRdx[1][1] = o.DxdR[0][0] / o.J
	default:
		return chk.Err("space dimension %d is not available", ndim)
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dx_i := sum_j dS^m/dR_j * dR_j/dx_i
	for m := 0; m < o.Nverts; m++ {
		for i := 0; i < ndim; i++ {
			o.G[m][i] = 0.0
			for j := 0; j < o.Gndim; j++ {
				o.G[m][i] += o.DSdR[m][j] * o.DRdx[j][i]
			}
		}
	}
	return
}

// CalcAtFaceIp calculates volume data (S, G, J) at a face integration point,
// the face shape functions Sf and the scaled outward normal Fnvec
//  Input:
//   x[ndim][nverts] -- coordinates matrix of element
//   ipf             -- face integration point (natural coordinate of face in ipf[0])
//   iface           -- local index of face
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, iface int) (err error) {

	// face shape functions
	o.FaceFunc(o.Sf, o.DSfdRf, ipf[:1], true)

	// natural coordinates of element @ face point
	for i := 0; i < o.Gndim; i++ {
		o.rnat[i] = 0
		for k, m := range o.FaceLocalVerts[iface] {
			o.rnat[i] += o.Sf[k] * o.NatCoords[i][m]
		}
	}

	// volume data @ face point
	err = o.CalcAtR(x, o.rnat, true)
	if err != nil {
		return
	}

	// scaled outward normal
	switch o.Gndim {
	case 1:
		o.Fnvec[0] = -1
		if iface == 1 {
			o.Fnvec[0] = 1
		}
	case 2:
		var tx, ty float64
		for k, m := range o.FaceLocalVerts[iface] {
			tx += o.DSfdRf[k][0] * x[0][m]
			ty += o.DSfdRf[k][0] * x[1][m]
		}
		o.Fnvec[0] = ty
		o.Fnvec[1] = -tx
	}
	return
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, o.DSdR, ip[:o.Gndim], false)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// Hmax returns the largest distance between two vertices
func (o *Shape) Hmax(x [][]float64) (h float64) {
	for m := 0; m < o.Nverts; m++ {
		for n := m + 1; n < o.Nverts; n++ {
			var d float64
			for i := 0; i < len(x); i++ {
				d += (x[i][m] - x[i][n]) * (x[i][m] - x[i][n])
			}
			h = utl.Max(h, math.Sqrt(d))
		}
	}
	return
}

// Centroid returns the average of the vertex coordinates
func Centroid(x [][]float64) (c []float64) {
	c = make([]float64, len(x))
	for i := 0; i < len(x); i++ {
		for _, v := range x[i] {
			c[i] += v
		}
		c[i] /= float64(len(x[i]))
	}
	return
}

// Get returns a new Shape structure
//  Note: returns nil if geoType is not available
func Get(geoType string) *Shape {
	alloc, ok := factory[geoType]
	if !ok {
		return nil
	}
	o := alloc()
	o.S = make([]float64, o.Nverts)
	o.DSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.G = utl.Alloc(o.Nverts, o.Gndim)
	o.DxdR = utl.Alloc(o.Gndim, o.Gndim)
	o.DRdx = utl.Alloc(o.Gndim, o.Gndim)
	o.Sf = make([]float64, o.FaceNverts)
	o.DSfdRf = utl.Alloc(o.FaceNverts, 1)
	o.Fnvec = make([]float64, o.Gndim)
	o.rnat = make([]float64, o.Gndim)
	return o
}

// MINDET is the minimum determinant allowed for dxdR
const MINDET = 1.0e-14

// factory holds all available shapes
var factory = map[string]func() *Shape{}
