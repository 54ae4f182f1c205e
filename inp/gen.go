// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/hdgfem/shp"
)

// boundary ids of generated meshes
const (
	LeftId   = 0 // left boundary (x == xmin)
	RightId  = 1 // right boundary (x == xmax)
	BottomId = 2 // bottom boundary (y == ymin)
	TopId    = 3 // top boundary (y == ymax)
)

// Block defines a box of cells assigned to a subdomain by a mesh generator
type Block struct {
	Id   int       `json:"id" yaml:"id"`     // subdomain id
	Name string    `json:"name" yaml:"name"` // subdomain name
	Xmin []float64 `json:"xmin" yaml:"xmin"` // lower corner
	Xmax []float64 `json:"xmax" yaml:"xmax"` // upper corner
}

// contains tells whether a point lies inside the box
func (o *Block) contains(c []float64) bool {
	for i := 0; i < len(c); i++ {
		if i < len(o.Xmin) && c[i] < o.Xmin[i] {
			return false
		}
		if i < len(o.Xmax) && c[i] > o.Xmax[i] {
			return false
		}
	}
	return true
}

// GenLine generates a 1D mesh of nx cells over [x0, x1]
//  cellType -- "lin2" or "lin3"
func GenLine(x0, x1 float64, nx int, cellType string) (o *Mesh, err error) {
	if nx < 1 {
		return nil, chk.Err("number of cells must be positive. nx=%d is invalid", nx)
	}
	if x1 <= x0 {
		return nil, chk.Err("x1=%g must be greater than x0=%g", x1, x0)
	}
	o = &Mesh{Ndim: 1, SkeletonId: -1}
	dx := (x1 - x0) / float64(nx)
	for i := 0; i <= nx; i++ {
		o.Verts = append(o.Verts, &Vert{Id: i, C: []float64{x0 + float64(i)*dx}})
	}
	switch cellType {
	case "lin2":
	case "lin3":
		for i := 0; i < nx; i++ {
			id := len(o.Verts)
			o.Verts = append(o.Verts, &Vert{Id: id, C: []float64{x0 + (float64(i)+0.5)*dx}})
		}
	default:
		return nil, chk.Err("cannot generate line mesh with cells of type %q", cellType)
	}
	for i := 0; i < nx; i++ {
		verts := []int{i, i + 1}
		if cellType == "lin3" {
			verts = append(verts, nx+1+i)
		}
		o.Cells = append(o.Cells, &Cell{Id: i, Type: cellType, Verts: verts, Parent: -1})
	}
	o.BoundaryNames = map[int]string{LeftId: "left", RightId: "right"}
	if err = o.Init(); err != nil {
		return
	}
	o.AddSide(LeftId, SideKey{0, 0})
	o.AddNode(LeftId, 0)
	o.AddSide(RightId, SideKey{nx - 1, 1})
	o.AddNode(RightId, nx)
	return
}

// GenGrid generates a 2D mesh of nx × ny qua4 cells over [x0,x1] × [y0,y1]
func GenGrid(x0, x1, y0, y1 float64, nx, ny int) (o *Mesh, err error) {
	if nx < 1 || ny < 1 {
		return nil, chk.Err("number of cells must be positive. nx=%d and ny=%d are invalid", nx, ny)
	}
	if x1 <= x0 || y1 <= y0 {
		return nil, chk.Err("limits of grid are invalid: x=[%g,%g] y=[%g,%g]", x0, x1, y0, y1)
	}
	o = &Mesh{Ndim: 2, SkeletonId: -1}
	dx := (x1 - x0) / float64(nx)
	dy := (y1 - y0) / float64(ny)
	vid := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			o.Verts = append(o.Verts, &Vert{Id: vid(i, j), C: []float64{x0 + float64(i)*dx, y0 + float64(j)*dy}})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			o.Cells = append(o.Cells, &Cell{
				Id:     i + j*nx,
				Type:   "qua4",
				Verts:  []int{vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)},
				Parent: -1,
			})
		}
	}
	o.BoundaryNames = map[int]string{LeftId: "left", RightId: "right", BottomId: "bottom", TopId: "top"}
	if err = o.Init(); err != nil {
		return
	}

	// sides: qua4 faces are {0:bottom, 1:right, 2:top, 3:left}
	for j := 0; j < ny; j++ {
		o.AddSide(LeftId, SideKey{j * nx, 3})
		o.AddSide(RightId, SideKey{nx - 1 + j*nx, 1})
	}
	for i := 0; i < nx; i++ {
		o.AddSide(BottomId, SideKey{i, 0})
		o.AddSide(TopId, SideKey{i + (ny-1)*nx, 2})
	}
	for bid := range o.BoundaryNames {
		for key := range o.Sidesets[bid] {
			for _, v := range o.SideVerts(key) {
				o.AddNode(bid, v)
			}
		}
	}
	return
}

// SetBlocks assigns subdomain ids to cells whose centroid lies in each block.
// Blocks are applied in order; later blocks override earlier ones
func (o *Mesh) SetBlocks(blocks []*Block) {
	for _, b := range blocks {
		if b.Name != "" {
			o.SubdomainNames[b.Id] = b.Name
		}
		for _, c := range o.Cells {
			if b.contains(shp.Centroid(o.Coords(c))) {
				c.Subdomain = b.Id
			}
		}
	}
}
