// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc     string `json:"desc" yaml:"desc"`         // description of simulation
	DirOut   string `json:"dirout" yaml:"dirout"`     // directory for output; e.g. /tmp/hdgfem
	Encoder  string `json:"encoder" yaml:"encoder"`   // encoder name; e.g. "gob" "json"
	Steady   bool   `json:"steady" yaml:"steady"`     // steady simulation
	Coord    string `json:"coord" yaml:"coord"`       // coordinate system: "xyz" or "rz" (axisymmetric)
	Nthreads int    `json:"nthreads" yaml:"nthreads"` // number of threads for element loops
	ShowMsg  bool   `json:"showmsg" yaml:"showmsg"`   // show messages during time loop
}

// MeshData holds the description of a generated mesh
type MeshData struct {
	Type         string    `json:"type" yaml:"type"`                 // "line" or "grid"
	Xmin         []float64 `json:"xmin" yaml:"xmin"`                 // lower corner
	Xmax         []float64 `json:"xmax" yaml:"xmax"`                 // upper corner
	N            []int     `json:"n" yaml:"n"`                       // number of cells along each direction
	CellType     string    `json:"celltype" yaml:"celltype"`         // "lin2", "lin3" (line) or "qua4" (grid)
	Blocks       []*Block  `json:"blocks" yaml:"blocks"`             // subdomain boxes
	Skeleton     int       `json:"skeleton" yaml:"skeleton"`         // subdomain id of the skeleton (lower-dimensional) mesh
	SkeletonName string    `json:"skeletonname" yaml:"skeletonname"` // name of skeleton subdomain
	Nparts       int       `json:"nparts" yaml:"nparts"`             // number of partitions
	Refine       []int     `json:"refine" yaml:"refine"`             // cells to be bisected after generation
}

// VarData holds the definition of a solution variable
type VarData struct {
	Name   string   `json:"name" yaml:"name"`     // name; e.g. "u"
	Kind   string   `json:"kind" yaml:"kind"`     // "elemental", "nodal" or "trace"
	Block  []string `json:"block" yaml:"block"`   // subdomains (names or ids) where variable lives; empty => everywhere
	Primal string   `json:"primal" yaml:"primal"` // trace: variable whose element faces carry this trace
	Init   string   `json:"init" yaml:"init"`     // function with initial values
}

// KernelData holds the definition of a kernel
type KernelData struct {
	Name      string   `json:"name" yaml:"name"`           // name of kernel
	Type      string   `json:"type" yaml:"type"`           // e.g. "iphdg-diffusion", "cg-diffusion"
	Var       string   `json:"var" yaml:"var"`             // primary (interior) variable
	Trace     string   `json:"trace" yaml:"trace"`         // trace (Lagrange multiplier) variable
	Mat       string   `json:"mat" yaml:"mat"`             // material name
	Block     []string `json:"block" yaml:"block"`         // subdomains; empty => subdomains of Var
	Pressure  string   `json:"pressure" yaml:"pressure"`   // pressure variable (stress)
	Component int      `json:"component" yaml:"component"` // velocity component (stress)
	Velocity  []string `json:"velocity" yaml:"velocity"`   // functions with advecting velocity components
	Source    string   `json:"source" yaml:"source"`       // function with source term
	Tau       float64  `json:"tau" yaml:"tau"`             // penalty; 0 => computed with Alpha
	Alpha     float64  `json:"alpha" yaml:"alpha"`         // penalty multiplier
	Nip       int      `json:"nip" yaml:"nip"`             // number of integration points; 0 => use default
	Nipf      int      `json:"nipf" yaml:"nipf"`           // number of integration points on face; 0 => use default
}

// BcData holds the definition of a boundary condition
type BcData struct {
	Name     string   `json:"name" yaml:"name"`         // name of boundary condition
	Type     string   `json:"type" yaml:"type"`         // e.g. "iphdg-dirichlet", "iphdg-flux", "iphdg-outflow", "cg-flux"
	Kernel   string   `json:"kernel" yaml:"kernel"`     // kernel sharing physics and variables
	Var      string   `json:"var" yaml:"var"`           // variable (when Kernel is not given)
	Boundary []string `json:"boundary" yaml:"boundary"` // boundaries (names or ids)
	Func     string   `json:"func" yaml:"func"`         // function with prescribed value or flux
}

// UserObjData holds the definition of a user object such as a subdomain modifier
type UserObjData struct {
	Name     string `json:"name" yaml:"name"`         // name of object
	Type     string `json:"type" yaml:"type"`         // "threshold", "timed" or "byvar"
	Nthreads int    `json:"nthreads" yaml:"nthreads"` // number of threads; 0 => from Data

	// criterion
	Var          string    `json:"var" yaml:"var"`               // coupled variable (solution or aux)
	Criterion    string    `json:"criterion" yaml:"criterion"`   // "above", "below" or "equal"
	Threshold    float64   `json:"threshold" yaml:"threshold"`   // threshold value
	SubdomainId  string    `json:"subdomain" yaml:"subdomain"`   // target subdomain when criterion is met
	ComplementId string    `json:"complement" yaml:"complement"` // target subdomain otherwise
	Times        []float64 `json:"times" yaml:"times"`           // times of events
	BlocksFrom   []string  `json:"blocksfrom" yaml:"blocksfrom"` // subdomains before events
	BlocksTo     []string  `json:"blocksto" yaml:"blocksto"`     // subdomains after events
	DataFile     string    `json:"datafile" yaml:"datafile"`     // CSV file with events
	TimeColumn   string    `json:"timecolumn" yaml:"timecolumn"` // column with times
	FromColumn   string    `json:"fromcolumn" yaml:"fromcolumn"` // column with subdomains before events
	ToColumn     string    `json:"tocolumn" yaml:"tocolumn"`     // column with subdomains after events
	Block        []string  `json:"block" yaml:"block"`           // execute on these subdomains only; empty => all

	// moving boundary and reinitialisation
	MovingBry string             `json:"movingboundary" yaml:"movingboundary"` // name or id of moving boundary
	Active    []string           `json:"active" yaml:"active"`                 // subdomains delimiting the moving boundary
	Reinit    []string           `json:"reinit" yaml:"reinit"`                 // subdomains whose new cells are reinitialised; empty => all
	Strategy  string             `json:"strategy" yaml:"strategy"`             // "nearest" or "constant"
	Values    map[string]float64 `json:"values" yaml:"values"`                 // constant values per variable
	Restore   *bool              `json:"restore" yaml:"restore"`               // restore values of overridden dofs; default true

	// derived
	Complement  bool   `json:"-" yaml:"-"` // ComplementId was given
	DataFileDir string `json:"-" yaml:"-"` // directory of simulation file
	Index       int    `json:"-" yaml:"-"` // position in the list of user objects
	Nobjs       int    `json:"-" yaml:"-"` // number of user objects
}

// AuxData holds the definition of an auxiliary (nodal) variable computed from a function
type AuxData struct {
	Name string `json:"name" yaml:"name"` // name of variable
	Func string `json:"func" yaml:"func"` // function F(t,x)
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name      string `json:"name" yaml:"name"`           // "umfpack"
	Symmetric bool   `json:"symmetric" yaml:"symmetric"` // use symmetric solver
	Verbose   bool   `json:"verbose" yaml:"verbose"`     // verbose?
}

// SolverData holds FEM solver data
type SolverData struct {
	NmaxIt int     `json:"nmaxit" yaml:"nmaxit"` // number of max iterations
	Atol   float64 `json:"atol" yaml:"atol"`     // absolute tolerance
	Rtol   float64 `json:"rtol" yaml:"rtol"`     // relative tolerance
	FbTol  float64 `json:"fbtol" yaml:"fbtol"`   // tolerance for convergence on fb
	ShowR  bool    `json:"showr" yaml:"showr"`   // show residual
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf" yaml:"tf"`       // final time
	Dt    float64 `json:"dt" yaml:"dt"`       // time step size
	DtOut float64 `json:"dtout" yaml:"dtout"` // time step size for output
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data           `json:"data" yaml:"data"`
	Functions FuncsData      `json:"functions" yaml:"functions"`
	Materials MatsData       `json:"materials" yaml:"materials"`
	MeshData  MeshData       `json:"mesh" yaml:"mesh"`
	Variables []*VarData     `json:"variables" yaml:"variables"`
	Kernels   []*KernelData  `json:"kernels" yaml:"kernels"`
	Bcs       []*BcData      `json:"bcs" yaml:"bcs"`
	UserObjs  []*UserObjData `json:"userobjects" yaml:"userobjects"`
	AuxVars   []*AuxData     `json:"aux" yaml:"aux"`
	Solver    SolverData     `json:"solver" yaml:"solver"`
	LinSol    LinSolData     `json:"linsol" yaml:"linsol"`
	Control   TimeControl    `json:"control" yaml:"control"`

	// derived
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	Dir     string // directory of simulation file
	DirOut  string // directory to save results
	EncType string // encoder type
	Ndim    int    // space dimension
	Axisym  bool   // coordinate system is "rz"
	Msh     *Mesh  // the mesh
}

// ReadSim reads all simulation data from a .sim (JSON) or .yaml/.yml file
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) (o *Simulation, err error) {

	// read file
	b, err := ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file:\n%v", err)
	}

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	o, err = NewSimulation(b, ext == ".yaml" || ext == ".yml", dir)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot load %q:\n%v", simfilepath, err)
	}

	// key and output directory
	o.Key = io.FnKey(filepath.Base(simfilepath))
	if alias != "" {
		o.Key += "-" + alias
	}
	if o.Data.DirOut == "" {
		o.DirOut = "/tmp/hdgfem/" + o.Key
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, o.Key))
	}
	return
}

// NewSimulation decodes simulation data and initialises derived structures
//  dir -- directory used to locate auxiliary files such as CSV data files
func NewSimulation(b []byte, isYaml bool, dir string) (o *Simulation, err error) {

	// new sim with default values
	o = new(Simulation)
	o.SetDefault()

	// decode
	if isYaml {
		err = yaml.Unmarshal(b, o)
	} else {
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot unmarshal simulation data:\n%v", err)
	}
	o.Dir = dir
	err = o.PostProcess()
	return
}

// SetDefault sets defaults values
func (o *Simulation) SetDefault() {
	o.Data.Coord = "xyz"
	o.Data.Nthreads = 1
	o.MeshData.Type = "line"
	o.MeshData.Skeleton = 1000
	o.MeshData.Nparts = 1
	o.Solver.SetDefault()
	o.LinSol.Name = "umfpack"
	o.Control.Tf = 1
	o.Control.Dt = 1
	o.Key = "sim"
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {
	o.NmaxIt = 20
	o.Atol = 1e-8
	o.Rtol = 1e-8
	o.FbTol = 1e-10
}

// PostProcess performs a post-processing of the just read data
func (o *Simulation) PostProcess() (err error) {

	// output data
	o.DirOut = o.Data.DirOut
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}
	if o.Data.Nthreads < 1 {
		o.Data.Nthreads = 1
	}
	switch o.Data.Coord {
	case "", "xyz":
		o.Data.Coord = "xyz"
	case "rz":
		o.Axisym = true
	default:
		return chk.Err("coordinate system %q is invalid; options are \"xyz\" and \"rz\"", o.Data.Coord)
	}

	// linear solver; each processor solves the whole gathered system, so
	// solvers that need an MPI communicator cannot be used
	if o.LinSol.Name != "umfpack" {
		return chk.Err("linear solver %q is not available; use \"umfpack\"", o.LinSol.Name)
	}

	// time control
	if o.Control.Dt <= 0 {
		return chk.Err("time step size must be positive. dt=%g is invalid", o.Control.Dt)
	}
	if o.Control.DtOut < o.Control.Dt {
		o.Control.DtOut = o.Control.Dt
	}

	// mesh
	o.Msh, err = o.MeshData.Generate()
	if err != nil {
		return
	}
	o.Ndim = o.Msh.Ndim
	if o.Axisym && o.Ndim != 2 {
		return chk.Err("axisymmetric simulations require a 2D mesh")
	}

	// materials
	err = o.Materials.Init(o.Ndim)
	if err != nil {
		return
	}

	// names
	names := make(map[string]bool)
	for _, v := range o.Variables {
		if names[v.Name] {
			return chk.Err("variable named %q is defined more than once", v.Name)
		}
		names[v.Name] = true
	}
	for _, a := range o.AuxVars {
		if names[a.Name] {
			return chk.Err("auxiliary variable %q clashes with another variable", a.Name)
		}
		names[a.Name] = true
	}

	// user objects
	for i, uo := range o.UserObjs {
		uo.Complement = uo.ComplementId != ""
		uo.DataFileDir = o.Dir
		uo.Index, uo.Nobjs = i, len(o.UserObjs)
		if uo.Nthreads < 1 {
			uo.Nthreads = o.Data.Nthreads
		}
	}
	return
}

// Generate generates the mesh
func (o *MeshData) Generate() (msh *Mesh, err error) {
	get := func(x []float64, i int, def float64) float64 {
		if i < len(x) {
			return x[i]
		}
		return def
	}
	n := func(i int) int {
		if i < len(o.N) {
			return o.N[i]
		}
		return 1
	}
	switch o.Type {
	case "line":
		ctype := o.CellType
		if ctype == "" {
			ctype = "lin2"
		}
		msh, err = GenLine(get(o.Xmin, 0, 0), get(o.Xmax, 0, 1), n(0), ctype)
	case "grid":
		msh, err = GenGrid(get(o.Xmin, 0, 0), get(o.Xmax, 0, 1), get(o.Xmin, 1, 0), get(o.Xmax, 1, 1), n(0), n(1))
	default:
		err = chk.Err("mesh type %q is not available; options are \"line\" and \"grid\"", o.Type)
	}
	if err != nil {
		return
	}
	msh.SetBlocks(o.Blocks)
	msh.SkeletonId = o.Skeleton
	if o.SkeletonName != "" {
		msh.SubdomainNames[o.Skeleton] = o.SkeletonName
	}
	msh.BuildFaces()
	for _, cid := range o.Refine {
		if cid < 0 || cid >= len(msh.Cells) {
			return nil, chk.Err("cannot refine cell %d: id is out of range", cid)
		}
		if _, err = msh.Refine(cid); err != nil {
			return
		}
	}
	msh.Partition(o.Nparts)
	return
}

// GetKernel returns kernel data by name
//  Note: returns nil if not found
func (o *Simulation) GetKernel(name string) *KernelData {
	for _, k := range o.Kernels {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// GetVar returns variable data by name
//  Note: returns nil if not found
func (o *Simulation) GetVar(name string) *VarData {
	for _, v := range o.Variables {
		if v.Name == name {
			return v
		}
	}
	return nil
}
