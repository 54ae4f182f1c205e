// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"github.com/cpmech/gosl/chk"
)

// Capacity is the number of messages that can be sent without a matching receive
var Capacity = 256

// message holds a tagged payload
type message struct {
	tag     int
	payload []byte
}

// Local implements Transport with in-process channels; one per (src, dest) pair
type Local struct {
	rank  int               // rank of this transport
	links [][]chan *message // [src][dest] channels shared by all ranks
}

// NewLocalNetwork returns n transports connected to each other
func NewLocalNetwork(n int) (ranks []*Local) {
	links := make([][]chan *message, n)
	for i := 0; i < n; i++ {
		links[i] = make([]chan *message, n)
		for j := 0; j < n; j++ {
			links[i][j] = make(chan *message, Capacity)
		}
	}
	ranks = make([]*Local, n)
	for i := 0; i < n; i++ {
		ranks[i] = &Local{rank: i, links: links}
	}
	return
}

// Rank returns the rank of this transport
func (o *Local) Rank() int { return o.rank }

// Size returns the number of ranks
func (o *Local) Size() int { return len(o.links) }

// Send sends a message to dest
func (o *Local) Send(dest, tag int, payload []byte) (err error) {
	if dest < 0 || dest >= len(o.links) {
		return chk.Err("destination rank %d is out of range", dest)
	}
	select {
	case o.links[o.rank][dest] <- &message{tag, append([]byte{}, payload...)}:
	default:
		return chk.Err("link %d => %d is full (capacity = %d)", o.rank, dest, Capacity)
	}
	return
}

// Recv receives the next message from src. The tag must match the one of the message
func (o *Local) Recv(src, tag int) (payload []byte, err error) {
	if src < 0 || src >= len(o.links) {
		return nil, chk.Err("source rank %d is out of range", src)
	}
	msg := <-o.links[src][o.rank]
	if msg.tag != tag {
		return nil, chk.Err("rank %d expected tag %d from rank %d but got %d", o.rank, tag, src, msg.tag)
	}
	return msg.payload, nil
}
