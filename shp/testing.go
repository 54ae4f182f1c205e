// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)
	ana := make([][]float64, shape.Nverts)
	for m := 0; m < shape.Nverts; m++ {
		ana[m] = append([]float64{}, shape.DSdR[m]...)
	}

	// numerical
	S := make([]float64, shape.Nverts)
	rr := append([]float64{}, r...)
	for m := 0; m < shape.Nverts; m++ {
		for j := 0; j < shape.Gndim; j++ {
			dnum := num.DerivCen5(r[j], 1e-3, func(x float64) float64 {
				rr[j] = x
				shape.Func(S, nil, rr, false)
				rr[j] = r[j]
				return S[m]
			})
			if verbose {
				io.Pf("dS%d/dR%d: ana=%23.15e num=%23.15e\n", m, j, ana[m][j], dnum)
			}
			if math.Abs(ana[m][j]-dnum) > tol {
				tst.Errorf("%s: dS%d/dR%d failed: %g != %g\n", shape.Type, m, j, ana[m][j], dnum)
			}
		}
	}
}
