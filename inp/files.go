// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ReadFile reads a file. Unlike io.ReadFile, a missing or unreadable file
// results in an error instead of a panic
func ReadFile(fn string) (b []byte, err error) {
	fn = os.ExpandEnv(fn)
	if _, err = os.Stat(fn); err != nil {
		return nil, chk.Err("cannot find file %q", fn)
	}
	defer catch(&err, "cannot read file %q", fn)
	return io.ReadFile(fn), nil
}

// catch converts a panic of a gosl routine into an error
//  msg -- context of the error
func catch(err *error, msg string, prm ...interface{}) {
	if r := recover(); r != nil {
		*err = chk.Err("%s:\n%v", io.Sf(msg, prm...), r)
	}
}
