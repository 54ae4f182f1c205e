// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comm implements point-to-point message passing between ranks
package comm

import (
	"bytes"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Transport sends and receives tagged messages between ranks
type Transport interface {
	Rank() int                                     // rank of this process
	Size() int                                     // number of ranks
	Send(dest, tag int, payload []byte) error      // sends payload to dest; must not block
	Recv(src, tag int) (payload []byte, err error) // receives the next message from src; tag must match
}

// Round defines one communication round. Each round has its own tag so that
// messages of different rounds can never be matched
type Round struct {
	Name string // name of round; e.g. "subdomains"
	Tag  int    // tag of messages
}

// NewRound returns the k-th round of an exchange happening at some epoch
//  tag = base + 2*epoch + k    with    k ∈ {0, 1}
func NewRound(name string, base, epoch, k int) Round {
	if k < 0 || k > 1 {
		chk.Panic("round index must be 0 or 1. k=%d is invalid", k)
	}
	return Round{Name: name, Tag: base + 2*epoch + k}
}

// Exchange sends one message to each neighbour rank and then receives one
// message from each of them. All sends happen before any receive
//  out -- messages to be sent [dest] => payload; missing neighbours get empty payloads
func Exchange(t Transport, round Round, neighbours []int, out map[int][]byte) (in map[int][]byte, err error) {
	ranks := append([]int{}, neighbours...)
	sort.Ints(ranks)
	for _, dest := range ranks {
		err = t.Send(dest, round.Tag, out[dest])
		if err != nil {
			return nil, chk.Err("round %q: rank %d cannot send to %d:\n%v", round.Name, t.Rank(), dest, err)
		}
	}
	in = make(map[int][]byte)
	for _, src := range ranks {
		in[src], err = t.Recv(src, round.Tag)
		if err != nil {
			return nil, chk.Err("round %q: rank %d cannot receive from %d:\n%v", round.Name, t.Rank(), src, err)
		}
	}
	return
}

// Encode encodes a payload with the gob encoder
func Encode(v interface{}) (payload []byte, err error) {
	var buf bytes.Buffer
	enc := utl.NewEncoder(&buf, "gob")
	err = enc.Encode(v)
	if err != nil {
		return nil, chk.Err("cannot encode payload:\n%v", err)
	}
	return buf.Bytes(), nil
}

// Decode decodes a payload into v; empty payloads leave v unchanged
func Decode(payload []byte, v interface{}) (err error) {
	if len(payload) == 0 {
		return
	}
	dec := utl.NewDecoder(bytes.NewReader(payload), "gob")
	err = dec.Decode(v)
	if err != nil {
		return chk.Err("cannot decode payload:\n%v", err)
	}
	return
}
