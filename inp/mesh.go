// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/hdgfem/shp"
)

// Vert holds vertex data
type Vert struct {
	Id int       // id
	C  []float64 // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {
	Id        int        // id
	Subdomain int        // subdomain (block) id
	Type      string     // geometry type; e.g. "lin2"
	Verts     []int      // vertices
	Part      int        // partition id (processor owning this cell)
	Parent    int        // parent cell (refinement); -1 => none
	Children  []int      // children cells (refinement); empty => active cell
	Level     int        // refinement level
	FaceIds   []int      // [nfaces] skeleton faces; -1 if cell is not active
	Shp       *shp.Shape // shape structure
}

// Active tells whether this cell is a leaf of the refinement tree
func (o *Cell) Active() bool { return len(o.Children) == 0 }

// Face holds a face of the skeleton; i.e. an element of the lower-dimensional mesh
type Face struct {
	Id        int    // id
	Verts     []int  // vertices; ordered as in the first cell
	Cells     [2]int // cells sharing this face; Cells[1] == -1 => external face
	Lids      [2]int // local index of this face in each cell
	Subdomain int    // skeleton subdomain id
}

// Key returns a key identifying this face by its vertices
func (o *Face) Key() string { return faceKey(o.Verts) }

// SideKey identifies one side of a cell
type SideKey struct {
	Cell int // cell id
	Side int // local index of side
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// data
	Ndim           int            // space dimension
	Verts          []*Vert        // vertices
	Cells          []*Cell        // cells (including inactive ancestors)
	SkeletonId     int            // subdomain id of the lower-dimensional (skeleton) mesh
	SubdomainNames map[int]string // subdomain id => name
	BoundaryNames  map[int]string // boundary id => name
	Sidesets       map[int]map[SideKey]bool
	Nodesets       map[int]map[int]bool
	Nparts         int            // number of partitions

	// derived
	Faces      []*Face // skeleton faces of active cells
	Vert2cells [][]int // [nverts] active cells sharing each vertex
	Xmin, Xmax float64 // limits
	Ymin, Ymax float64 // limits
}

// ActiveCells returns the ids of all active cells
func (o *Mesh) ActiveCells() (cids []int) {
	for _, c := range o.Cells {
		if c.Active() {
			cids = append(cids, c.Id)
		}
	}
	return
}

// Coords returns the coordinates matrix [ndim][nverts] of a cell
func (o *Mesh) Coords(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for j, v := range c.Verts {
			x[i][j] = o.Verts[v].C[i]
		}
	}
	return
}

// Neighbour returns the cell across a side and the local index of the side
// in that cell. It returns -1 when the side is on the external boundary
func (o *Mesh) Neighbour(cid, side int) (nid, nside int) {
	c := o.Cells[cid]
	if c.FaceIds == nil || c.FaceIds[side] < 0 {
		return -1, -1
	}
	f := o.Faces[c.FaceIds[side]]
	if f.Cells[0] == cid && f.Lids[0] == side {
		return f.Cells[1], f.Lids[1]
	}
	return f.Cells[0], f.Lids[0]
}

// SideVerts returns the (global) vertices of a cell side
func (o *Mesh) SideVerts(key SideKey) (verts []int) {
	c := o.Cells[key.Cell]
	for _, m := range c.Shp.FaceLocalVerts[key.Side] {
		verts = append(verts, c.Verts[m])
	}
	return
}

// Ancestors returns the ids of all ancestors of a cell (parent first)
func (o *Mesh) Ancestors(cid int) (ids []int) {
	for p := o.Cells[cid].Parent; p >= 0; p = o.Cells[p].Parent {
		ids = append(ids, p)
	}
	return
}

// Init builds derived structures: shapes, skeleton faces, vertex-to-cell maps and limits
func (o *Mesh) Init() (err error) {

	// maps
	if o.SubdomainNames == nil {
		o.SubdomainNames = make(map[int]string)
	}
	if o.BoundaryNames == nil {
		o.BoundaryNames = make(map[int]string)
	}
	if o.Sidesets == nil {
		o.Sidesets = make(map[int]map[SideKey]bool)
	}
	if o.Nodesets == nil {
		o.Nodesets = make(map[int]map[int]bool)
	}
	if o.Nparts < 1 {
		o.Nparts = 1
	}

	// shapes
	for _, c := range o.Cells {
		if c.Shp == nil {
			c.Shp = shp.Get(c.Type)
			if c.Shp == nil {
				return chk.Err("cannot find shape type %q of cell %d", c.Type, c.Id)
			}
		}
		if c.Shp.Gndim != o.Ndim {
			return chk.Err("cell %d of type %q is not compatible with ndim=%d", c.Id, c.Type, o.Ndim)
		}
	}

	// limits
	for i, v := range o.Verts {
		x := v.C[0]
		if i == 0 || x < o.Xmin {
			o.Xmin = x
		}
		if i == 0 || x > o.Xmax {
			o.Xmax = x
		}
		if o.Ndim > 1 {
			y := v.C[1]
			if i == 0 || y < o.Ymin {
				o.Ymin = y
			}
			if i == 0 || y > o.Ymax {
				o.Ymax = y
			}
		}
	}
	o.BuildFaces()
	return
}

// BuildFaces (re)builds the skeleton faces of active cells and the vertex-to-cell map
func (o *Mesh) BuildFaces() {
	o.Faces = o.Faces[:0]
	o.Vert2cells = make([][]int, len(o.Verts))
	key2face := make(map[string]*Face)
	for _, c := range o.Cells {
		c.FaceIds = nil
		if !c.Active() {
			continue
		}
		for _, v := range c.Verts {
			o.Vert2cells[v] = append(o.Vert2cells[v], c.Id)
		}
		c.FaceIds = make([]int, c.Shp.Nfaces())
		for k, lverts := range c.Shp.FaceLocalVerts {
			verts := make([]int, len(lverts))
			for i, m := range lverts {
				verts[i] = c.Verts[m]
			}
			key := faceKey(verts)
			if f, ok := key2face[key]; ok {
				f.Cells[1] = c.Id
				f.Lids[1] = k
				c.FaceIds[k] = f.Id
				continue
			}
			f := &Face{Id: len(o.Faces), Verts: verts, Cells: [2]int{c.Id, -1}, Lids: [2]int{k, -1}, Subdomain: o.SkeletonId}
			o.Faces = append(o.Faces, f)
			key2face[key] = f
			c.FaceIds[k] = f.Id
		}
	}
}

// SubdomainIds returns the sorted list of subdomain ids in this mesh; i.e. ids of
// active cells and ids declared by name. The skeleton id is not included
func (o *Mesh) SubdomainIds() (ids []int) {
	set := make(map[int]bool)
	for _, c := range o.Cells {
		if c.Active() {
			set[c.Subdomain] = true
		}
	}
	for id := range o.SubdomainNames {
		set[id] = true
	}
	delete(set, o.SkeletonId)
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// ResolveSubdomain returns the subdomain id given its name or number
func (o *Mesh) ResolveSubdomain(key string) (id int, err error) {
	for sid, name := range o.SubdomainNames {
		if name == key {
			return sid, nil
		}
	}
	id, err = strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, chk.Err("cannot find subdomain named %q", key)
	}
	return
}

// ResolveBoundary returns the boundary id given its name or number
func (o *Mesh) ResolveBoundary(key string) (id int, err error) {
	for bid, name := range o.BoundaryNames {
		if name == key {
			return bid, nil
		}
	}
	id, err = strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, chk.Err("cannot find boundary named %q", key)
	}
	return
}

// String returns a summary of this mesh
func (o *Mesh) String() string {
	nact := len(o.ActiveCells())
	return io.Sf("ndim=%d nverts=%d ncells=%d (active=%d) nfaces=%d nparts=%d", o.Ndim, len(o.Verts), len(o.Cells), nact, len(o.Faces), o.Nparts)
}

// faceKey returns a unique key for a set of vertices
func faceKey(verts []int) string {
	s := append([]int{}, verts...)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}
