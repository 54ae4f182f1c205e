// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path"
	"strconv"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/inp"
	"github.com/cpmech/hdgfem/out"
)

type Input struct {
	Dir    string      // directory with simulation file
	SimFn  string      // simulation filename
	Vars   []string    // variables to extract
	Points [][]float64 // coordinates of points
	Cells  []int       // cells whose subdomains are extracted
	Proc   int         // processor whose results are read
	OutFn  string      // output filename (csv)

	// derived
	inpfn string
}

func (o *Input) PostProcess() {
	if o.OutFn == "" {
		o.OutFn = "/tmp/hdgfem/" + io.FnKey(o.SimFn) + ".csv"
	}
}

func (o Input) String() (l string) {
	l = io.ArgsTable("INPUT ARGUMENTS",
		"input filename", "inpfn", o.inpfn,
		"directory with simulation file", "Dir", o.Dir,
		"simulation filename", "SimFn", o.SimFn,
		"variables", "Vars", io.Sf("%v", o.Vars),
		"points", "Points", io.Sf("%v", o.Points),
		"cells", "Cells", io.Sf("%v", o.Cells),
		"processor", "Proc", o.Proc,
		"output filename", "OutFn", o.OutFn,
	)
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data file
	var in Input
	in.inpfn, _ = io.ArgToFilename(0, "data/resextract1", ".inp", true)

	// read and parse input data
	b, err := inp.ReadFile(in.inpfn)
	if err != nil {
		io.PfRed("%v\n", err)
		return
	}
	err = json.Unmarshal(b, &in)
	if err != nil {
		io.PfRed("cannot parse %s\n", in.inpfn)
		return
	}
	in.PostProcess()

	// print input table
	io.Pf("%v\n", in)

	// load simulation and results
	sim, err := inp.ReadSim(path.Join(in.Dir, in.SimFn), "", false, false)
	if err != nil {
		io.PfRed("cannot load simulation:\n%v\n", err)
		return
	}
	rdr, err := out.Start(sim, in.Proc)
	if err != nil {
		io.PfRed("cannot start post-processing:\n%v\n", err)
		return
	}
	err = rdr.LoadResults(nil)
	if err != nil {
		io.PfRed("cannot load results:\n%v\n", err)
		return
	}

	// columns
	header := []string{"time"}
	var cols [][]float64
	for _, vname := range in.Vars {
		for i, x := range in.Points {
			vals, err := rdr.GetRes(vname, x)
			if err != nil {
				io.PfRed("cannot get %q at point %d:\n%v\n", vname, i, err)
				return
			}
			header = append(header, io.Sf("%s@%v", vname, x))
			cols = append(cols, vals)
		}
	}
	for _, cid := range in.Cells {
		var vals []float64
		for _, id := range rdr.GetSubdomains(cid) {
			vals = append(vals, float64(id))
		}
		header = append(header, io.Sf("subdomain@%d", cid))
		cols = append(cols, vals)
	}

	// write csv
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	for k, t := range rdr.Times {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, col := range cols {
			row = append(row, strconv.FormatFloat(col[k], 'g', -1, 64))
		}
		w.Write(row)
	}
	w.Flush()
	io.WriteFileVD(path.Dir(in.OutFn), path.Base(in.OutFn), &buf)
}
