/*
Copyright © 2025 the InMAP authors.
This file is part of berkeleyearth.

berkeleyearth is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

berkeleyearth is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with berkeleyearth.  If not, see <http://www.gnu.org/licenses/>.
*/

package berkeleyearth

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ctessum/sparse"
)

// timeDim is the name of the daily time dimension.
const timeDim = "time"

// Variable is a gridded field with named dimensions. Data is stored
// row-major in the order given by Dims, and missing values are NaN.
type Variable struct {
	Dims  []string
	Data  *sparse.DenseArray
	Attrs map[string]interface{}
}

// NewVariable returns a variable holding data along the given dimensions.
// It panics if the number of dimensions does not match the array.
func NewVariable(dims []string, data *sparse.DenseArray) *Variable {
	if len(dims) != len(data.Shape) {
		panic(fmt.Errorf("berkeleyearth: %d dimension names for a %d-d array", len(dims), len(data.Shape)))
	}
	return &Variable{Dims: dims, Data: data, Attrs: make(map[string]interface{})}
}

// Axis returns the position of dimension dim, or -1 if v does not have it.
func (v *Variable) Axis(dim string) int {
	for i, d := range v.Dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// Len returns the length of dimension dim, or 0 if v does not have it.
func (v *Variable) Len(dim string) int {
	if i := v.Axis(dim); i >= 0 {
		return v.Data.Shape[i]
	}
	return 0
}

// withData returns a variable with v's dimensions and attributes and the
// given data.
func (v *Variable) withData(data *sparse.DenseArray) *Variable {
	o := &Variable{Dims: append([]string(nil), v.Dims...), Data: data, Attrs: make(map[string]interface{}, len(v.Attrs))}
	for k, a := range v.Attrs {
		o.Attrs[k] = a
	}
	return o
}

// replaceDim returns a copy of dims with from replaced by to.
func replaceDim(dims []string, from, to string) []string {
	o := append([]string(nil), dims...)
	for i, d := range o {
		if d == from {
			o[i] = to
		}
	}
	return o
}

// Dataset is a collection of variables sharing coordinates.
// Coords holds the labels of numeric dimensions (e.g. lat, lon), and Time
// holds the labels of the time dimension once it has been decoded.
type Dataset struct {
	Vars   map[string]*Variable
	Coords map[string][]float64
	Time   []time.Time
	Attrs  map[string]interface{}
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Vars:   make(map[string]*Variable),
		Coords: make(map[string][]float64),
		Attrs:  make(map[string]interface{}),
	}
}

// Names returns the sorted names of the variables in ds.
func (ds *Dataset) Names() []string {
	names := make([]string, 0, len(ds.Vars))
	for n := range ds.Vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has returns whether name is a variable or a coordinate of ds.
func (ds *Dataset) Has(name string) bool {
	if _, ok := ds.Vars[name]; ok {
		return true
	}
	_, ok := ds.Coords[name]
	return ok
}

// shallowCopy returns a dataset with new maps pointing at the same
// variables. Variables are never modified in place, so sharing them is safe.
func (ds *Dataset) shallowCopy() *Dataset {
	o := NewDataset()
	for k, v := range ds.Vars {
		o.Vars[k] = v
	}
	for k, c := range ds.Coords {
		o.Coords[k] = c
	}
	for k, a := range ds.Attrs {
		o.Attrs[k] = a
	}
	o.Time = ds.Time
	return o
}

// Array returns variable name together with the labels of its dimensions.
func (ds *Dataset) Array(name string) (*Array, error) {
	v, ok := ds.Vars[name]
	if !ok {
		return nil, fmt.Errorf("berkeleyearth: variable %q: %w", name, ErrSchema)
	}
	a := &Array{Name: name, Variable: *v, Coords: make(map[string][]float64)}
	for _, d := range v.Dims {
		if c, ok := ds.Coords[d]; ok {
			a.Coords[d] = c
		}
		if d == timeDim && ds.Time != nil {
			a.Time = ds.Time
		}
	}
	return a, nil
}

// Array is a single labeled variable.
type Array struct {
	Name string
	Variable
	Coords map[string][]float64
	Time   []time.Time
}

// newArray returns an array with the given data and the labels of a that
// still apply to dims.
func (a *Array) newArray(dims []string, data *sparse.DenseArray) *Array {
	o := &Array{
		Name:     a.Name,
		Variable: *a.Variable.withData(data),
		Coords:   make(map[string][]float64),
	}
	o.Dims = dims
	for _, d := range dims {
		if c, ok := a.Coords[d]; ok {
			o.Coords[d] = c
		}
		if d == timeDim {
			o.Time = a.Time
		}
	}
	return o
}

// Get returns the value at the given index.
func (a *Array) Get(index ...int) float64 { return a.Data.Get(index...) }

// split returns the number of elements before, along and after axis.
func split(shape []int, axis int) (outer, n, inner int) {
	outer, inner = 1, 1
	for i, s := range shape {
		switch {
		case i < axis:
			outer *= s
		case i > axis:
			inner *= s
		}
	}
	return outer, shape[axis], inner
}

// take returns the elements of a at the given positions along axis.
func take(a *sparse.DenseArray, axis int, idx []int) *sparse.DenseArray {
	outer, n, inner := split(a.Shape, axis)
	shape := append([]int(nil), a.Shape...)
	shape[axis] = len(idx)
	out := sparse.ZerosDense(shape...)
	for o := 0; o < outer; o++ {
		for j, i := range idx {
			src := (o*n + i) * inner
			dst := (o*len(idx) + j) * inner
			copy(out.Elements[dst:dst+inner], a.Elements[src:src+inner])
		}
	}
	return out
}

// concat joins arrays along axis. All other dimensions must match.
func concat(arrays []*sparse.DenseArray, axis int) (*sparse.DenseArray, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("berkeleyearth: nothing to concatenate")
	}
	shape := append([]int(nil), arrays[0].Shape...)
	shape[axis] = 0
	for _, a := range arrays {
		if len(a.Shape) != len(shape) {
			return nil, fmt.Errorf("berkeleyearth: concatenating %d-d and %d-d arrays: %w", len(shape), len(a.Shape), ErrSchema)
		}
		for i, s := range a.Shape {
			if i != axis && s != shape[i] {
				return nil, fmt.Errorf("berkeleyearth: concatenating arrays of shape %v and %v: %w", arrays[0].Shape, a.Shape, ErrSchema)
			}
		}
		shape[axis] += a.Shape[axis]
	}
	out := sparse.ZerosDense(shape...)
	outer, _, inner := split(shape, axis)
	pos := 0
	for o := 0; o < outer; o++ {
		for _, a := range arrays {
			block := a.Shape[axis] * inner
			pos += copy(out.Elements[pos:pos+block], a.Elements[o*block:(o+1)*block])
		}
	}
	return out, nil
}

// reduce applies f to the groups of positions along axis, so that
// the output has len(groups) entries along that axis.
func reduce(a *sparse.DenseArray, axis int, groups [][]int, f func([]float64) float64) *sparse.DenseArray {
	outer, n, inner := split(a.Shape, axis)
	shape := append([]int(nil), a.Shape...)
	shape[axis] = len(groups)
	out := sparse.ZerosDense(shape...)
	var buf []float64
	for o := 0; o < outer; o++ {
		for g, grp := range groups {
			for k := 0; k < inner; k++ {
				buf = buf[:0]
				for _, i := range grp {
					buf = append(buf, a.Elements[(o*n+i)*inner+k])
				}
				out.Elements[(o*len(groups)+g)*inner+k] = f(buf)
			}
		}
	}
	return out
}

// dropAxis removes a length-1 axis from a.
func dropAxis(a *sparse.DenseArray, axis int) *sparse.DenseArray {
	if a.Shape[axis] != 1 {
		panic(fmt.Errorf("berkeleyearth: dropping axis %d of length %d", axis, a.Shape[axis]))
	}
	shape := make([]int, 0, len(a.Shape)-1)
	shape = append(shape, a.Shape[:axis]...)
	shape = append(shape, a.Shape[axis+1:]...)
	out := sparse.ZerosDense(shape...)
	copy(out.Elements, a.Elements)
	return out
}

// removeDim returns dims without dim.
func removeDim(dims []string, dim string) []string {
	o := make([]string, 0, len(dims))
	for _, d := range dims {
		if d != dim {
			o = append(o, d)
		}
	}
	return o
}

// all returns a range 0..n-1.
func all(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func countValid(vals []float64) float64 {
	var n float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func allMissing(vals []float64) float64 {
	if countValid(vals) == 0 {
		return 1
	}
	return 0
}

// Dataset returns a dataset holding a as its only variable, along with its
// coordinates.
func (a *Array) Dataset() *Dataset {
	ds := NewDataset()
	ds.Vars[a.Name] = a.withData(a.Data)
	for d, c := range a.Coords {
		ds.Coords[d] = c
	}
	ds.Time = a.Time
	return ds
}
