// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion

import "sync"

// property names read by assembly helpers
const (
	PropDiffusivity = "diffusivity"
	PropDensity     = "density"
	PropViscosity   = "viscosity"
	PropVelocity    = "velocity"
	PropSource      = "source"
)

// PropId returns a unique integer id for a property name; new names are registered on demand
func PropId(name string) int {
	propMutex.Lock()
	defer propMutex.Unlock()
	if id, ok := propIds[name]; ok {
		return id
	}
	id := len(propNames)
	propIds[name] = id
	propNames = append(propNames, name)
	return id
}

// PropName returns the name of a property id
//  Note: returns "" if id is not registered
func PropName(id int) string {
	propMutex.Lock()
	defer propMutex.Unlock()
	if id < 0 || id >= len(propNames) {
		return ""
	}
	return propNames[id]
}

var (
	propMutex sync.Mutex
	propIds   = make(map[string]int)
	propNames []string
)
