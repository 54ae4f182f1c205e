// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
)

// TimeTol is the tolerance used to compare event times with the current time
var TimeTol = 1e-12

// Event moves the cells of a subdomain into another subdomain at some time
type Event struct {
	Time float64 // time of event
	From int     // subdomain before event
	To   int     // subdomain after event
}

// Timed moves cells at given times. An event happens in the time step
// (t-Δt, t] and events happening in the same step are applied in order
type Timed struct {
	Events []Event // events sorted by time
}

// NewTimed returns a new timed criterion. Events are given either by lists in
// the input data or by a CSV file
func NewTimed(dom *fem.Domain, dat *inp.UserObjData) (o *Timed, err error) {
	msh := dom.Msh()
	lists := len(dat.Times) > 0 || len(dat.BlocksFrom) > 0 || len(dat.BlocksTo) > 0
	if lists && dat.DataFile != "" {
		return nil, chk.Err("times and blocks cannot be given together with a data file")
	}
	var times []float64
	var from, to []string
	if dat.DataFile != "" {
		times, from, to, err = readEvents(dat)
		if err != nil {
			return
		}
	} else {
		times, from, to = dat.Times, dat.BlocksFrom, dat.BlocksTo
	}
	if len(times) == 0 {
		return nil, chk.Err("at least one event must be given")
	}
	if len(from) != len(times) || len(to) != len(times) {
		return nil, chk.Err("numbers of times, source blocks and target blocks must be equal. %d, %d, %d are invalid", len(times), len(from), len(to))
	}
	o = new(Timed)
	for i, t := range times {
		var ev Event
		ev.Time = t
		ev.From, err = msh.ResolveSubdomain(from[i])
		if err != nil {
			return nil, err
		}
		ev.To, err = msh.ResolveSubdomain(to[i])
		if err != nil {
			return nil, err
		}
		o.Events = append(o.Events, ev)
	}
	sort.SliceStable(o.Events, func(i, j int) bool { return o.Events[i].Time < o.Events[j].Time })
	return
}

// ComputeSubdomainID implements Criterion
func (o *Timed) ComputeSubdomainID(cell *inp.Cell, dom *fem.Domain) (id int, ok bool) {
	sol := dom.Sol()
	told := sol.T - sol.Dt
	id = cell.Subdomain
	for _, ev := range o.Events {
		if ev.Time <= told+TimeTol || ev.Time > sol.T+TimeTol {
			continue
		}
		if ev.From == id {
			id = ev.To
		}
	}
	return id, id != cell.Subdomain
}

// readEvents reads events from a CSV file with a header line
func readEvents(dat *inp.UserObjData) (times []float64, from, to []string, err error) {
	fn := dat.DataFile
	if !filepath.IsAbs(fn) {
		fn = filepath.Join(dat.DataFileDir, fn)
	}
	b, err := inp.ReadFile(fn)
	if err != nil {
		return nil, nil, nil, chk.Err("cannot read data file:\n%v", err)
	}
	r := csv.NewReader(bytes.NewReader(b))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, chk.Err("cannot parse data file %q:\n%v", fn, err)
	}
	if len(records) < 2 {
		return nil, nil, nil, chk.Err("data file %q must have a header and at least one event", fn)
	}

	// columns
	column := func(name, def string) (int, error) {
		if name == "" {
			name = def
		}
		for j, h := range records[0] {
			if strings.TrimSpace(h) == name {
				return j, nil
			}
		}
		return -1, chk.Err("cannot find column %q in data file %q", name, fn)
	}
	jt, err := column(dat.TimeColumn, "time")
	if err != nil {
		return
	}
	jf, err := column(dat.FromColumn, "blocks_from")
	if err != nil {
		return
	}
	jb, err := column(dat.ToColumn, "blocks_to")
	if err != nil {
		return
	}

	// events
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[jt]), 64)
		if err != nil {
			return nil, nil, nil, chk.Err("invalid time %q in line %d of data file %q", rec[jt], i+2, fn)
		}
		times = append(times, t)
		from = append(from, strings.TrimSpace(rec[jf]))
		to = append(to, strings.TrimSpace(rec[jb]))
	}
	return
}
