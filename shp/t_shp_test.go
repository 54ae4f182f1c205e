// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. shape functions @ vertices and derivatives")

	for _, name := range []string{"lin2", "lin3", "qua4"} {
		shape := Get(name)
		if shape == nil {
			tst.Errorf("cannot get shape %q\n", name)
			return
		}
		CheckShape(tst, shape, 1e-15, chk.Verbose)
		CheckDSdR(tst, shape, []float64{0.3, -0.2}, 1e-8, chk.Verbose)
	}
	if Get("tet4") != nil {
		tst.Errorf("tet4 should not be available\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. integration of polynomials")

	// ∫ x² dx over [1,3] using lin2
	shape := Get("lin2")
	x := [][]float64{{1, 3}}
	ips, ipsf, err := shape.GetIps(0, 0)
	if err != nil {
		tst.Errorf("GetIps failed:\n%v", err)
		return
	}
	chk.Int(tst, "nipf", len(ipsf), 1)
	var sum float64
	for _, ip := range ips {
		err = shape.CalcAtIp(x, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed:\n%v", err)
			return
		}
		y := shape.IpRealCoords(x, ip)
		sum += y[0] * y[0] * shape.J * ip[3]
	}
	chk.Float64(tst, "∫x²", 1e-14, sum, 26.0/3.0)

	// area of a distorted quad
	shape = Get("qua4")
	x = [][]float64{
		{0, 2, 2.5, 0},
		{0, 0, 1.5, 1},
	}
	ips, _, err = shape.GetIps(4, 0)
	if err != nil {
		tst.Errorf("GetIps failed:\n%v", err)
		return
	}
	var area float64
	for _, ip := range ips {
		err = shape.CalcAtIp(x, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed:\n%v", err)
			return
		}
		area += shape.J * ip[3]
	}
	chk.Float64(tst, "area", 1e-14, area, shoelace(x))
}

// shoelace returns the area of a polygon
func shoelace(x [][]float64) float64 {
	var a float64
	n := len(x[0])
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += x[0][i]*x[1][j] - x[0][j]*x[1][i]
	}
	return 0.5 * a
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. face normals and face shape functions")

	// 1D
	shape := Get("lin3")
	x := [][]float64{{0, 2, 1}}
	err := shape.CalcAtFaceIp(x, Ipoint{0, 0, 0, 1}, 0)
	if err != nil {
		tst.Errorf("CalcAtFaceIp failed:\n%v", err)
		return
	}
	chk.Array(tst, "n0", 1e-15, shape.Fnvec, []float64{-1})
	chk.Array(tst, "S @ face 0", 1e-15, shape.S, []float64{1, 0, 0})
	err = shape.CalcAtFaceIp(x, Ipoint{0, 0, 0, 1}, 1)
	if err != nil {
		tst.Errorf("CalcAtFaceIp failed:\n%v", err)
		return
	}
	chk.Array(tst, "n1", 1e-15, shape.Fnvec, []float64{1})

	// 2D: unit square scaled by 2
	shape = Get("qua4")
	x = [][]float64{
		{0, 2, 2, 0},
		{0, 0, 2, 2},
	}
	normals := [][]float64{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for iface := 0; iface < shape.Nfaces(); iface++ {
		err = shape.CalcAtFaceIp(x, Ipoint{0.5, 0, 0, 1}, iface)
		if err != nil {
			tst.Errorf("CalcAtFaceIp failed:\n%v", err)
			return
		}
		jf := math.Sqrt(shape.Fnvec[0]*shape.Fnvec[0] + shape.Fnvec[1]*shape.Fnvec[1])
		chk.Float64(tst, "face Jacobian", 1e-15, jf, 1.0)
		chk.Array(tst, "unit normal", 1e-15, []float64{shape.Fnvec[0] / jf, shape.Fnvec[1] / jf}, normals[iface])
		chk.Array(tst, "Sf", 1e-15, shape.Sf, []float64{0.25, 0.75})
	}
	chk.Float64(tst, "hmax", 1e-15, shape.Hmax(x), math.Sqrt(8))
	chk.Array(tst, "centroid", 1e-15, Centroid(x), []float64{1, 1})
}
