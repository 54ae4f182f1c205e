// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/inp"
	"github.com/stretchr/testify/require"
)

func Test_domain01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain01. errors instead of panics")

	// function of unknown type or with missing parameters
	for _, fcn := range []string{
		"{name: f, type: nosuchtype}",
		"{name: f, type: lin, prms: [{n: ts, v: 1}]}",
	} {
		sim, err := inp.NewSimulation([]byte("functions: ["+fcn+"]\naux: [{name: phi, func: f}]\n"), true, ".")
		require.NoError(tst, err)
		_, err = NewDomain(sim, 0, nil, false)
		require.Error(tst, err, fcn)
	}

	// missing files
	var sum Summary
	require.Error(tst, sum.Read("/tmp/hdgfem/nonexistent", "none", "gob"))
	_, err := ReadResults("/tmp/hdgfem/nonexistent", "none", "gob", 0, 0)
	require.Error(tst, err)
}
