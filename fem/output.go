// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/hdgfem/inp"
)

// Summary records the output times of a simulation
type Summary struct {
	Nproc    int       // number of processors used in last run
	OutTimes []float64 // [nOutTimes] output times
	Nsteps   int       // number of time steps
}

// Results holds the state of a domain at one output time
type Results struct {
	Time       float64   // time
	Y          []float64 // [ny] dofs
	Keys       []DofKey  // [ny] entities of dofs
	Subdomains []int     // [ncells] subdomain of each cell; -1 => inactive
}

// Save saves summary
func (o *Summary) Save(dirout, fnkey, enctype string, nproc, proc int) (err error) {
	if proc != 0 {
		return
	}
	o.Nproc = nproc
	var buf bytes.Buffer
	enc := utl.NewEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	io.WriteFileD(dirout, fnkey+".sum", &buf)
	return
}

// Read reads summary back
func (o *Summary) Read(dirout, fnkey, enctype string) (err error) {
	b, err := inp.ReadFile(io.Sf("%s/%s.sum", dirout, fnkey))
	if err != nil {
		return chk.Err("cannot read summary:\n%v", err)
	}
	dec := utl.NewDecoder(bytes.NewReader(b), enctype)
	err = dec.Decode(o)
	if err != nil {
		return chk.Err("cannot decode summary:\n%v", err)
	}
	return
}

// SaveResults saves the state of this domain
//  tidx -- index of output time
func (o *Domain) SaveResults(dirout, fnkey, enctype string, tidx int) (err error) {
	res := Results{Time: o.sol.T, Y: o.sol.Y, Keys: o.Dofs.Keys}
	res.Subdomains = make([]int, len(o.msh.Cells))
	for i, c := range o.msh.Cells {
		res.Subdomains[i] = -1
		if c.Active() {
			res.Subdomains[i] = c.Subdomain
		}
	}
	var buf bytes.Buffer
	enc := utl.NewEncoder(&buf, enctype)
	err = enc.Encode(&res)
	if err != nil {
		return chk.Err("cannot encode results:\n%v", err)
	}
	io.WriteFileD(dirout, resultsFn(fnkey, o.Proc, tidx), &buf)
	return
}

// ReadResults reads the state saved by SaveResults
func ReadResults(dirout, fnkey, enctype string, proc, tidx int) (res *Results, err error) {
	b, err := inp.ReadFile(io.Sf("%s/%s", dirout, resultsFn(fnkey, proc, tidx)))
	if err != nil {
		return nil, chk.Err("cannot read results:\n%v", err)
	}
	res = new(Results)
	dec := utl.NewDecoder(bytes.NewReader(b), enctype)
	err = dec.Decode(res)
	if err != nil {
		return nil, chk.Err("cannot decode results:\n%v", err)
	}
	return
}

// resultsFn returns the name of a results file
func resultsFn(fnkey string, proc, tidx int) string {
	return io.Sf("%s_p%d_%06d.res", fnkey, proc, tidx)
}
