// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Ipoint holds the natural coordinates {r,s,t} and the weight w of an integration point
type Ipoint [4]float64

// GaussLegendre returns n Gauss-Legendre points in [-1,1]
func GaussLegendre(n int) (ips []Ipoint) {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	ips = make([]Ipoint, n)
	for i := 0; i < n; i++ {
		ips[i] = Ipoint{x[i], 0, 0, w[i]}
	}
	return
}

// GetIps returns the integration points of element and faces
//  nip  -- number of integration points of element; 0 => use default
//  nipf -- number of integration points of faces; 0 => use default
//  Note: for quads, nip must be a perfect square
func (o *Shape) GetIps(nip, nipf int) (ipsElem, ipsFace []Ipoint, err error) {

	// defaults
	if nip == 0 {
		nip = defaultNip[o.Type]
	}
	if nipf == 0 {
		nipf = defaultNip[o.FaceType]
	}

	// element
	switch o.Gndim {
	case 1:
		ipsElem = GaussLegendre(nip)
	case 2:
		n := int(math.Sqrt(float64(nip)))
		if n*n != nip {
			return nil, nil, chk.Err("number of integration points of %q must be a perfect square. nip=%d is invalid", o.Type, nip)
		}
		line := GaussLegendre(n)
		for _, b := range line {
			for _, a := range line {
				ipsElem = append(ipsElem, Ipoint{a[0], b[0], 0, a[3] * b[3]})
			}
		}
	default:
		return nil, nil, chk.Err("cannot get integration points of %q", o.Type)
	}

	// faces
	switch o.FaceType {
	case "pnt":
		ipsFace = []Ipoint{{0, 0, 0, 1}}
	default:
		ipsFace = GaussLegendre(nipf)
	}
	return
}

// defaultNip holds the default number of integration points
var defaultNip = map[string]int{
	"pnt":  1,
	"lin2": 2,
	"lin3": 3,
	"qua4": 4,
}
