// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modifier

import (
	"github.com/cpmech/hdgfem/fem"
	"github.com/cpmech/hdgfem/inp"
)

// register modifiers
func init() {
	fem.SetUserObjAllocator("threshold", func(dom *fem.Domain, dat *inp.UserObjData) (fem.UserObject, error) {
		crit, err := NewThreshold(dom, dat)
		if err != nil {
			return nil, err
		}
		return New(dom, dat, crit)
	})
	fem.SetUserObjAllocator("timed", func(dom *fem.Domain, dat *inp.UserObjData) (fem.UserObject, error) {
		crit, err := NewTimed(dom, dat)
		if err != nil {
			return nil, err
		}
		return New(dom, dat, crit)
	})
	fem.SetUserObjAllocator("byvar", func(dom *fem.Domain, dat *inp.UserObjData) (fem.UserObject, error) {
		crit, err := NewByVar(dom, dat)
		if err != nil {
			return nil, err
		}
		return New(dom, dat, crit)
	})
}
