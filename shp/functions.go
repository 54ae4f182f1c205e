// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {
	factory["lin2"] = func() *Shape {
		return &Shape{
			Type:           "lin2",
			FaceType:       "pnt",
			Gndim:          1,
			Nverts:         2,
			FaceNverts:     1,
			FaceLocalVerts: [][]int{{0}, {1}},
			NatCoords:      [][]float64{{-1, 1}},
			Func:           FuncLin2,
			FaceFunc:       FuncPnt,
		}
	}
	factory["lin3"] = func() *Shape {
		return &Shape{
			Type:           "lin3",
			FaceType:       "pnt",
			Gndim:          1,
			Nverts:         3,
			FaceNverts:     1,
			FaceLocalVerts: [][]int{{0}, {1}},
			NatCoords:      [][]float64{{-1, 1, 0}},
			Func:           FuncLin3,
			FaceFunc:       FuncPnt,
		}
	}
	factory["qua4"] = func() *Shape {
		return &Shape{
			Type:           "qua4",
			FaceType:       "lin2",
			Gndim:          2,
			Nverts:         4,
			FaceNverts:     2,
			FaceLocalVerts: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
			NatCoords: [][]float64{
				{-1, 1, 1, -1},
				{-1, -1, 1, 1},
			},
			Func:     FuncQua4,
			FaceFunc: FuncLin2,
		}
	}
}

// FuncPnt implements the (trivial) shape function of a point
func FuncPnt(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = 1
	if derivs {
		dSdR[0][0] = 0
	}
}

// FuncLin2 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin2
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//   -1     0    +1
//    0-----------1-->r
func FuncLin2(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r := R[0]
	S[0] = 0.5 * (1.0 - r)
	S[1] = 0.5 * (1.0 + r)
	if !derivs {
		return
	}
	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

// FuncLin3 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin3
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//   -1     0    +1
//    0-----2-----1-->r
func FuncLin3(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r := R[0]
	S[0] = 0.5 * (r*r - r)
	S[1] = 0.5 * (r*r + r)
	S[2] = 1.0 - r*r
	if !derivs {
		return
	}
	dSdR[0][0] = r - 0.5
	dSdR[1][0] = r + 0.5
	dSdR[2][0] = -2.0 * r
}

// FuncQua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
func FuncQua4(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s := R[0], R[1]
	S[0] = (1.0 - r - s + r*s) / 4.0
	S[1] = (1.0 + r - s - r*s) / 4.0
	S[2] = (1.0 + r + s + r*s) / 4.0
	S[3] = (1.0 - r + s - r*s) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0] = (-1.0 + s) / 4.0
	dSdR[1][0] = (+1.0 - s) / 4.0
	dSdR[2][0] = (+1.0 + s) / 4.0
	dSdR[3][0] = (-1.0 - s) / 4.0

	dSdR[0][1] = (-1.0 + r) / 4.0
	dSdR[1][1] = (-1.0 - r) / 4.0
	dSdR[2][1] = (+1.0 + r) / 4.0
	dSdR[3][1] = (+1.0 - r) / 4.0
}
