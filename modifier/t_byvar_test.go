// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

func Test_byvar01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("byvar01. rounding and snapping")

	dom := newDomain(tst, `
data:
  nthreads: 2
mesh:
  type: line
  n: [3]
  blocks:
    - {id: 2, xmin: [0.4]}
    - {id: 5, xmin: [0.7]}
  skeleton: 100
  skeletonname: skeleton
aux:
  - {name: phi, func: zero}
userobjects:
  - {name: byvar, type: byvar, var: phi}
`, 0, nil)
	msh := dom.Msh()
	crit := dom.UserObjs[0].(*Modifier).Crit.(*ByVar)
	chk.Ints(tst, "ids", crit.Ids, []int{0, 2, 5})

	// averages: 2.2 => 2, 3.4 => 3 => 5, 9 => 5
	dom.AuxVals["phi"] = []float64{2.2, 2.2, 4.6, 13.4}
	for i := 0; i < 2; i++ {
		require.NoError(tst, dom.RunUserObjects())
		chk.Ints(tst, "subdomains", subdomains(msh), []int{2, 5, 5})
		chk.Ints(tst, "warned", crit.Warned(), []int{3, 9})
	}

	// subdomain 0 is now empty and unnamed; ids were refreshed by the second sweep
	chk.Ints(tst, "ids", crit.Ids, []int{2, 5})

	// snapping
	chk.Int(tst, "-7", crit.Snap(-7), 2)
	chk.Int(tst, "1", crit.Snap(1), 2)
	chk.Int(tst, "2", crit.Snap(2), 2)
	chk.Int(tst, "100", crit.Snap(100), 5)
	chk.Ints(tst, "warned", crit.Warned(), []int{-7, 1, 3, 9, 100})

	// variable must exist
	_, err := NewByVar(dom, dom.Sim().UserObjs[0])
	require.NoError(tst, err)
	dat := *dom.Sim().UserObjs[0]
	dat.Var = "psi"
	_, err = NewByVar(dom, &dat)
	require.Error(tst, err)
}
